package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"fractureid/internal/domain"
	"fractureid/internal/eventbus"
)

// CurrentVersion is the config schema version written by Save
const CurrentVersion = 1

// Config represents the application configuration
type Config struct {
	Version int           `toml:"version"`
	Content ContentConfig `toml:"content"`
	Log     LogConfig     `toml:"log"`
	UI      UISettings    `toml:"ui"`
}

// ContentConfig selects the knowledge base. An empty path means the
// dataset compiled into the binary.
type ContentConfig struct {
	Path string `toml:"path,omitempty"`
}

// LogConfig controls the log file
type LogConfig struct {
	File  string `toml:"file,omitempty"`
	Level string `toml:"level"`
}

// UISettings represents UI-related configuration
type UISettings struct {
	StartTab         string `toml:"start_tab"`
	WordWrap         int    `toml:"word_wrap"`
	SearchDebounceMS int    `toml:"search_debounce_ms"`
	ShowPositions    bool   `toml:"show_positions"`
	GlamourStyle     string `toml:"glamour_style"`
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
	Path() string
}

type configService struct {
	bus      eventbus.EventBus
	filePath string
}

// DefaultPath returns $XDG_CONFIG_HOME/fractureid/config.toml, falling back
// to ~/.config when the user config dir cannot be determined.
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}
	return filepath.Join(configDir, "fractureid", "config.toml")
}

// NewConfigService creates a config service for the given file.
// An empty path selects DefaultPath.
func NewConfigService(path string) ConfigService {
	if path == "" {
		path = DefaultPath()
	}
	return &configService{filePath: path}
}

// NewConfigServiceWithBus creates a config service with event bus support
func NewConfigServiceWithBus(path string, bus eventbus.EventBus) ConfigService {
	cs := NewConfigService(path).(*configService)
	cs.bus = bus
	return cs
}

func (cs *configService) Path() string {
	return cs.filePath
}

// Load loads the configuration from the service's file. A missing file
// yields the defaults.
func (cs *configService) Load() (*Config, error) {
	cfg, err := cs.LoadFromPath(cs.filePath)
	if errors.Is(err, fs.ErrNotExist) {
		cfg, err = DefaultConfig(), nil
	}
	if err != nil {
		return nil, err
	}

	if cs.bus != nil {
		cs.bus.Publish(domain.ConfigLoadedEvent{Path: cs.filePath})
	}
	return cfg, nil
}

// Save saves the configuration to the service's file
func (cs *configService) Save(config *Config) error {
	if err := cs.SaveToPath(config, cs.filePath); err != nil {
		return err
	}

	if cs.bus != nil {
		cs.bus.Publish(domain.ConfigSavedEvent{Path: cs.filePath})
	}
	return nil
}

// LoadFromPath loads configuration from a specific path. Keys missing from
// the file keep their default values; unknown keys are an error.
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	dec := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return nil, fmt.Errorf("failed to parse config %s:%d:%d: %w", path, row, col, err)
		}
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate checks values that would otherwise fail later at startup
func (c *Config) Validate() error {
	var errs []error
	if _, ok := domain.ParseTab(c.UI.StartTab); !ok {
		errs = append(errs, fmt.Errorf("ui.start_tab: unknown tab %q", c.UI.StartTab))
	}
	if c.UI.WordWrap < 0 {
		errs = append(errs, fmt.Errorf("ui.word_wrap: must not be negative, got %d", c.UI.WordWrap))
	}
	if c.UI.SearchDebounceMS < 0 {
		errs = append(errs, fmt.Errorf("ui.search_debounce_ms: must not be negative, got %d", c.UI.SearchDebounceMS))
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level: unknown level %q", c.Log.Level))
	}
	return errors.Join(errs...)
}

// StartTab returns the configured initial tab
func (c *Config) StartTab() domain.Tab {
	tab, _ := domain.ParseTab(c.UI.StartTab)
	return tab
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: CurrentVersion,
		Log: LogConfig{
			Level: "info",
		},
		UI: UISettings{
			StartTab:         "identify",
			WordWrap:         80,
			SearchDebounceMS: 75,
			ShowPositions:    false,
			GlamourStyle:     "auto",
		},
	}
}
