package ui

import (
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"fractureid/internal/config"
	"fractureid/internal/domain"
	"fractureid/internal/navigation"
	"fractureid/internal/session"
	"fractureid/internal/ui/input"
	inputtypes "fractureid/internal/ui/input/types"
	"fractureid/internal/ui/views"
)

// Model represents the UI state. Navigation lives in the session; the model
// keeps only what is specific to the terminal: cursor, scroll and the
// pending search text.
type Model struct {
	session *session.Session
	config  *config.Config
	logger  *zap.Logger

	width  int
	height int
	help   help.Model
	keys   keyMap

	cursor int
	scroll int
	// last screen and focus drawn, used to reset or restore the cursor
	lastScreen navigation.Screen
	lastFocus  navigation.Focus

	// search text typed but not yet applied
	pendingQuery string
	hasPending   bool
	querySeq     int
	debounce     time.Duration

	status      string
	statusIsErr bool

	renderer     *views.Renderer
	markdown     *views.MarkdownRenderer
	inputHandler *input.Handler
	pager        *PagerOps

	// rendered detail document, keyed by focus and width
	detailKey string
	detail    string

	copyText func(string) error

	// Program reference for terminal management
	program *tea.Program
}

// NewModel creates a new UI model
func NewModel(sess *session.Session, cfg *config.Config, logger *zap.Logger) *Model {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &Model{
		session:      sess,
		config:       cfg,
		logger:       logger,
		help:         help.New(),
		keys:         newKeyMap(),
		debounce:     time.Duration(cfg.UI.SearchDebounceMS) * time.Millisecond,
		renderer:     views.NewRenderer(),
		markdown:     views.NewMarkdownRenderer(cfg.UI.GlamourStyle),
		inputHandler: input.New(),
		pager:        NewPagerOps(),
		copyText:     clipboard.WriteAll,
	}

	if tab := cfg.StartTab(); tab != domain.TabIdentify {
		if err := sess.SwitchTab(tab); err != nil {
			logger.Warn("ignoring start tab", zap.Error(err))
		}
	}
	snap := sess.Snapshot()
	m.lastScreen = snap.Screen
	m.lastFocus = snap.Focus

	return m
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
	m.pager.SetProgram(p)
}

// Init returns an initial command
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case tea.KeyMsg:
		m.status = ""
		m.statusIsErr = false

		// Enter acts on the text as typed, not on the last applied query
		if m.hasPending && msg.Type == tea.KeyEnter {
			m.applyQuery()
		}

		actions, cmd := m.inputHandler.HandleKey(msg, modelContext{m})

		cmds := []tea.Cmd{}
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		for _, action := range actions {
			if actionCmd := m.processAction(action); actionCmd != nil {
				cmds = append(cmds, actionCmd)
			}
		}
		m.syncAfterIntent()

		return m, tea.Batch(cmds...)

	case queryDebounceMsg:
		if msg.seq == m.querySeq && m.hasPending {
			m.applyQuery()
		}

	case copiedMsg:
		if msg.err != nil {
			m.setError(fmt.Errorf("copy failed: %w", msg.err))
		} else {
			m.setStatus("Copied " + msg.title)
		}

	case pagerExitMsg:
		if msg.err != nil {
			m.logger.Warn("pager failed", zap.String("title", msg.title), zap.Error(msg.err))
			m.setError(fmt.Errorf("pager: %w", msg.err))
		}

	case EventMsg:
		m.logger.Debug("ui event", zap.String("type", string(msg.Event.Type())))

	default:
		return m, m.inputHandler.Update(msg)
	}

	return m, nil
}

// View renders the UI
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	snap := m.session.Snapshot()
	m.help.ShowAll = m.help.ShowAll && snap.Screen != navigation.ScreenSearch

	state := views.ViewState{
		Width:         m.width,
		Height:        m.height,
		Snapshot:      snap,
		Cursor:        m.cursor,
		Scroll:        m.scroll,
		StatusMessage: m.status,
		StatusIsError: m.statusIsErr,
		HelpView:      m.help.View(m.keys.forScreen(snap.Screen, snap.CanGoBack)),
		ShowPositions: m.config.UI.ShowPositions,
		PendingQuery:  m.hasPending,
	}
	if ti := m.inputHandler.TextInput(); ti != nil {
		state.SearchInput = ti.View()
	}
	if inputtypes.IsDetail(snap.Screen) {
		state.Detail = m.renderDetail(snap)
	}

	return m.renderer.Render(state)
}

// processAction applies one input action
func (m *Model) processAction(action inputtypes.Action) tea.Cmd {
	switch a := action.(type) {
	case inputtypes.NavigateAction:
		m.navigate(a.Direction)

	case inputtypes.SelectAction:
		m.selectAtCursor()

	case inputtypes.BackAction:
		m.session.Back()

	case inputtypes.SwitchTabAction:
		m.report(m.session.SwitchTab(a.Tab))

	case inputtypes.CycleTabAction:
		current := m.session.Snapshot().Tab
		n := len(domain.Tabs)
		m.report(m.session.SwitchTab(domain.Tabs[((int(current)+a.Delta)%n+n)%n]))

	case inputtypes.ChangeModeAction:
		if a.Mode == inputtypes.ModeSearch {
			m.dropPending()
			m.report(m.session.OpenSearch())
		}

	case inputtypes.UpdateTextAction:
		return m.scheduleQuery(a.Text)

	case inputtypes.SubmitTextAction:
		m.report(m.session.SelectResult(m.cursor))

	case inputtypes.CancelTextAction:
		m.dropPending()
		m.report(m.session.CloseSearch())

	case inputtypes.CopyAction:
		return m.copyDetail()

	case inputtypes.OpenPagerAction:
		snap := m.session.Snapshot()
		title, md := detailMarkdown(snap)
		if md == "" {
			return nil
		}
		doc, err := m.markdown.Render(md, m.wrapWidth())
		if err != nil {
			doc = md
		}
		return m.pager.pagerCmd(title, doc)

	case inputtypes.ResetChecklistAction:
		snap := m.session.Snapshot()
		if ci, _, ok := stepAt(snap.Checklists, m.cursor); ok {
			m.session.ResetChecklist(ci)
			m.setStatus("Reset " + snap.Checklists[ci].Title)
		}

	case inputtypes.ToggleHelpAction:
		m.help.ShowAll = !m.help.ShowAll

	case inputtypes.QuitAction:
		return tea.Quit
	}
	return nil
}

func (m *Model) navigate(direction string) {
	snap := m.session.Snapshot()
	page := views.BodyHeight(m.height) - 2

	if inputtypes.IsDetail(snap.Screen) {
		switch direction {
		case "up":
			m.scroll--
		case "down":
			m.scroll++
		case "pageup":
			m.scroll -= page
		case "pagedown":
			m.scroll += page
		case "home":
			m.scroll = 0
		case "end":
			m.scroll = len(views.Lines(m.renderDetail(snap)))
		}
		m.clampScroll(snap)
		return
	}

	total := totalItems(snap)
	switch direction {
	case "up":
		m.cursor--
	case "down":
		m.cursor++
	case "pageup":
		m.cursor -= page
	case "pagedown":
		m.cursor += page
	case "home":
		m.cursor = 0
	case "end":
		m.cursor = total - 1
	}
	m.clampCursor(total)
}

func (m *Model) selectAtCursor() {
	snap := m.session.Snapshot()
	switch snap.Screen {
	case navigation.ScreenRegionPicker:
		if m.cursor < len(snap.Regions) {
			m.report(m.session.SelectRegion(snap.Regions[m.cursor].ID))
		}
	case navigation.ScreenFractureList:
		if m.cursor < len(snap.Fractures) {
			m.report(m.session.SelectFracture(snap.Fractures[m.cursor].Name))
		}
	case navigation.ScreenTopicList:
		m.report(m.session.SelectQuickRefTopic(m.cursor))
	case navigation.ScreenChecklists:
		if ci, si, ok := stepAt(snap.Checklists, m.cursor); ok {
			m.session.ToggleStep(ci, si)
		}
	case navigation.ScreenSearch:
		m.report(m.session.SelectResult(m.cursor))
	}
}

// syncAfterIntent keeps the input mode in step with the search overlay and
// places the cursor when the screen changes.
func (m *Model) syncAfterIntent() {
	snap := m.session.Snapshot()

	if !snap.Overlay.Open && m.inputHandler.CurrentMode() == inputtypes.ModeSearch {
		m.inputHandler.Reset()
		m.dropPending()
	}

	if snap.Screen == m.lastScreen && snap.Focus.String() == m.lastFocus.String() {
		return
	}

	m.cursor = restoreCursor(m.lastScreen, m.lastFocus, snap)
	m.scroll = 0
	m.lastScreen = snap.Screen
	m.lastFocus = snap.Focus
	m.clampCursor(totalItems(snap))
}

// restoreCursor puts the cursor back on the item the user just left when
// stepping back to a list, and on the first item otherwise.
func restoreCursor(prevScreen navigation.Screen, prevFocus navigation.Focus, snap session.Snapshot) int {
	switch snap.Screen {
	case navigation.ScreenFractureList:
		if f, ok := prevFocus.(navigation.FractureSelected); ok && prevScreen == navigation.ScreenFractureDetail {
			return f.Index
		}
	case navigation.ScreenTopicList:
		if f, ok := prevFocus.(navigation.QuickRefSelected); ok && prevScreen == navigation.ScreenTopicDetail {
			return f.TopicIndex
		}
	case navigation.ScreenRegionPicker:
		if f, ok := prevFocus.(navigation.RegionSelected); ok && prevScreen == navigation.ScreenFractureList {
			for i, r := range snap.Regions {
				if r.ID == f.RegionID {
					return i
				}
			}
		}
	}
	return 0
}

func (m *Model) scheduleQuery(text string) tea.Cmd {
	m.pendingQuery = text
	m.hasPending = true
	m.querySeq++
	if m.debounce <= 0 {
		m.applyQuery()
		return nil
	}
	seq := m.querySeq
	return tea.Tick(m.debounce, func(time.Time) tea.Msg {
		return queryDebounceMsg{seq: seq}
	})
}

func (m *Model) applyQuery() {
	m.hasPending = false
	m.report(m.session.SetQuery(m.pendingQuery))
	m.cursor = 0
}

func (m *Model) dropPending() {
	m.pendingQuery = ""
	m.hasPending = false
	m.querySeq++
}

func (m *Model) copyDetail() tea.Cmd {
	snap := m.session.Snapshot()
	var title, text string
	switch {
	case snap.Fracture != nil:
		title = snap.Fracture.Name
		text = views.FracturePlainText(snap.Region, *snap.Fracture)
	case snap.Topic != nil:
		title = snap.Topic.Title
		text = views.TopicPlainText(*snap.Topic)
	default:
		return nil
	}
	write := m.copyText
	return func() tea.Msg {
		return copiedMsg{title: title, err: write(text)}
	}
}

func (m *Model) renderDetail(snap session.Snapshot) string {
	title, md := detailMarkdown(snap)
	width := m.wrapWidth()
	key := fmt.Sprintf("%s/%s/%d", snap.Focus, title, width)
	if key == m.detailKey {
		return m.detail
	}

	doc, err := m.markdown.Render(md, width)
	if err != nil {
		m.logger.Warn("markdown render failed", zap.Error(err))
		doc = md
	}
	m.detailKey = key
	m.detail = doc
	return doc
}

// wrapWidth is the configured word wrap, narrowed to fit the window
func (m *Model) wrapWidth() int {
	width := m.config.UI.WordWrap
	if inner := m.width - 4; m.width > 0 && inner < width {
		width = inner
	}
	return width
}

func (m *Model) clampCursor(total int) {
	if m.cursor >= total {
		m.cursor = total - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) clampScroll(snap session.Snapshot) {
	last := len(views.Lines(m.renderDetail(snap))) - views.BodyHeight(m.height)
	if m.scroll > last {
		m.scroll = last
	}
	if m.scroll < 0 {
		m.scroll = 0
	}
}

// report surfaces a rejected intent in the status line
func (m *Model) report(err error) {
	if err == nil {
		return
	}
	m.logger.Debug("intent rejected", zap.Error(err))
	m.setError(err)
}

func (m *Model) setStatus(msg string) {
	m.status = msg
	m.statusIsErr = false
}

func (m *Model) setError(err error) {
	m.status = err.Error()
	m.statusIsErr = true
}

// detailMarkdown returns the title and markdown of the record in focus
func detailMarkdown(snap session.Snapshot) (string, string) {
	switch {
	case snap.Fracture != nil:
		return snap.Fracture.Name, views.FractureMarkdown(snap.Region, *snap.Fracture)
	case snap.Topic != nil:
		return snap.Topic.Title, views.TopicMarkdown(*snap.Topic)
	}
	return "", ""
}

// totalItems is the number of cursor positions on the current screen
func totalItems(snap session.Snapshot) int {
	switch snap.Screen {
	case navigation.ScreenRegionPicker:
		return len(snap.Regions)
	case navigation.ScreenFractureList:
		return len(snap.Fractures)
	case navigation.ScreenTopicList:
		return len(snap.Topics)
	case navigation.ScreenSearch:
		return len(snap.Results)
	case navigation.ScreenChecklists:
		n := 0
		for _, c := range snap.Checklists {
			n += len(c.Steps)
		}
		return n
	}
	return 0
}

// stepAt maps a row of the flattened checklist screen to its step
func stepAt(checklists []domain.ChecklistDefinition, row int) (int, int, bool) {
	if row < 0 {
		return 0, 0, false
	}
	for ci, c := range checklists {
		if row < len(c.Steps) {
			return ci, row, true
		}
		row -= len(c.Steps)
	}
	return 0, 0, false
}

// modelContext exposes the model to the input handler
type modelContext struct {
	m *Model
}

func (c modelContext) Screen() navigation.Screen { return c.m.session.Snapshot().Screen }
func (c modelContext) CurrentIndex() int         { return c.m.cursor }
func (c modelContext) CanGoBack() bool           { return c.m.session.Snapshot().CanGoBack }
func (c modelContext) TotalItems() int           { return totalItems(c.m.session.Snapshot()) }
