package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"fractureid/internal/config"
	"fractureid/internal/content"
	"fractureid/internal/domain"
	"fractureid/internal/eventbus"
	"fractureid/internal/logging"
	"fractureid/internal/session"
	"fractureid/internal/ui"
)

// app holds the flags and the services built from them before a command runs
type app struct {
	configPath  string
	contentPath string
	logFile     string
	verbose     bool

	configSvc config.ConfigService
	cfg       *config.Config
	logger    *zap.Logger
	bus       eventbus.EventBus
	store     content.Store
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "fractureid",
		Short: "Point-of-care fracture lookup",
		Long: `FractureID is a terminal reference for fracture identification.

Browse fractures by body region, read quick-reference topics, work through
protocol checklists, and search everything with /.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.shutdown()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTUI(cmd.Context())
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "Config file (default: "+config.DefaultPath()+")")
	flags.StringVar(&a.contentPath, "content", "", "YAML content file (default: built-in dataset)")
	flags.StringVar(&a.logFile, "log-file", "", "Log file (default: "+logging.DefaultPath()+")")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(newSearchCmd(a), newRegionsCmd(a), newShowCmd(a), newConfigCmd(a))
	return root
}

// setup loads config, starts logging and the event bus, then loads content
func (a *app) setup() error {
	a.configSvc = config.NewConfigService(a.configPath)
	cfg, err := a.configSvc.Load()
	if err != nil {
		return err
	}
	a.cfg = cfg

	logFile := a.logFile
	if logFile == "" {
		logFile = cfg.Log.File
	}
	logger, err := logging.New(logging.Options{File: logFile, Level: cfg.Log.Level, Verbose: a.verbose})
	if err != nil {
		return err
	}
	a.logger = logger

	a.bus = eventbus.New(logger)
	subscribeLogging(a.bus, logger)
	// The service was created before the bus existed
	a.configSvc = config.NewConfigServiceWithBus(a.configSvc.Path(), a.bus)
	a.bus.Publish(domain.ConfigLoadedEvent{Path: a.configSvc.Path()})

	contentPath := a.contentPath
	if contentPath == "" {
		contentPath = cfg.Content.Path
	}
	store, source, err := content.LoadSource(contentPath)
	if err != nil {
		return fmt.Errorf("failed to load content: %w", err)
	}
	a.store = store

	stats := content.Count(store)
	a.bus.Publish(domain.ContentLoadedEvent{
		Source:     source,
		Regions:    stats.Regions,
		Fractures:  stats.Fractures,
		Topics:     stats.Topics,
		Checklists: stats.Checklists,
	})
	return nil
}

// shutdown is safe to call more than once
func (a *app) shutdown() {
	if a.bus != nil {
		a.bus.Close()
		a.bus = nil
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

func (a *app) runTUI(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sess := session.New(a.store, a.bus, a.logger)
	model := ui.NewModel(sess, a.cfg, a.logger)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	model.SetProgram(p)

	// Rejected intents are shown in the status line already; forward them so
	// the UI log carries them too.
	unsubscribe := a.bus.Subscribe(eventbus.EventIntentRejected, func(e eventbus.DomainEvent) {
		p.Send(ui.EventMsg{Event: e})
	})
	defer unsubscribe()

	a.logger.Info("starting ui")
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}
	a.logger.Info("ui exited normally")
	return nil
}

// subscribeLogging writes every domain event to the log
func subscribeLogging(bus eventbus.EventBus, logger *zap.Logger) {
	log := logger.Named("events")
	for _, t := range []eventbus.EventType{
		eventbus.EventContentLoaded,
		eventbus.EventConfigLoaded,
		eventbus.EventConfigSaved,
		eventbus.EventFocusChanged,
		eventbus.EventSearchOpened,
		eventbus.EventSearchClosed,
		eventbus.EventSearchCompleted,
		eventbus.EventStepToggled,
		eventbus.EventChecklistReset,
	} {
		bus.Subscribe(t, func(e eventbus.DomainEvent) {
			log.Debug(string(e.Type()), zap.Any("event", e))
		})
	}
	bus.Subscribe(eventbus.EventIntentRejected, func(e eventbus.DomainEvent) {
		if ev, ok := e.(domain.IntentRejectedEvent); ok {
			log.Warn("intent rejected", zap.String("intent", ev.Intent), zap.Error(ev.Err))
		}
	})
}
