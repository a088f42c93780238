package ui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fractureid/internal/config"
	"fractureid/internal/content"
	"fractureid/internal/domain"
	"fractureid/internal/navigation"
	"fractureid/internal/session"
	inputtypes "fractureid/internal/ui/input/types"
)

func newTestModel(t *testing.T, tweak func(*config.Config)) *Model {
	t.Helper()
	store, err := content.LoadEmbedded()
	require.NoError(t, err)

	cfg := config.DefaultConfig()
	cfg.UI.SearchDebounceMS = 0
	cfg.UI.GlamourStyle = "notty"
	if tweak != nil {
		tweak(cfg)
	}

	m := NewModel(session.New(store, nil, nil), cfg, nil)
	m.copyText = func(string) error { return errors.New("no clipboard in tests") }
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	enter     = tea.KeyMsg{Type: tea.KeyEnter}
	esc       = tea.KeyMsg{Type: tea.KeyEsc}
	space     = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	tab       = tea.KeyMsg{Type: tea.KeyTab}
	shiftTab  = tea.KeyMsg{Type: tea.KeyShiftTab}
	backspace = tea.KeyMsg{Type: tea.KeyBackspace}
)

// press sends keys one at a time and returns the last command
func press(m *Model, keys ...tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = m.Update(k)
	}
	return cmd
}

func typeText(m *Model, text string) {
	for _, r := range text {
		press(m, runes(string(r)))
	}
}

func repeat(k tea.KeyMsg, n int) []tea.KeyMsg {
	out := make([]tea.KeyMsg, n)
	for i := range out {
		out[i] = k
	}
	return out
}

func TestViewBeforeWindowSize(t *testing.T) {
	store, err := content.LoadEmbedded()
	require.NoError(t, err)
	m := NewModel(session.New(store, nil, nil), nil, nil)
	assert.Equal(t, "Loading...", m.View())
}

func TestRegionDrillDownAndBack(t *testing.T) {
	m := newTestModel(t, nil)

	press(m, repeat(runes("j"), 8)...)
	assert.Equal(t, 8, m.cursor)
	press(m, enter)

	snap := m.session.Snapshot()
	require.Equal(t, navigation.ScreenFractureList, snap.Screen)
	assert.Equal(t, "knee", snap.Region.ID)
	assert.Equal(t, 0, m.cursor, "a new list starts at the top")
	assert.Contains(t, m.View(), "Tibial Plateau")

	press(m, runes("j"), enter)
	snap = m.session.Snapshot()
	require.Equal(t, navigation.ScreenFractureDetail, snap.Screen)
	assert.Equal(t, "Tibial Plateau Fracture", snap.Fracture.Name)
	assert.Contains(t, m.View(), "Schatzker")

	press(m, esc)
	assert.Equal(t, navigation.ScreenFractureList, m.session.Snapshot().Screen)
	assert.Equal(t, 1, m.cursor, "cursor returns to the fracture just viewed")

	press(m, backspace)
	assert.Equal(t, navigation.ScreenRegionPicker, m.session.Snapshot().Screen)
	assert.Equal(t, 8, m.cursor, "cursor returns to the region just viewed")

	press(m, esc)
	assert.Equal(t, navigation.ScreenRegionPicker, m.session.Snapshot().Screen, "nothing to go back to")
}

func TestCursorStaysInBounds(t *testing.T) {
	m := newTestModel(t, nil)

	press(m, runes("k"))
	assert.Equal(t, 0, m.cursor)

	press(m, runes("G"))
	assert.Equal(t, len(m.session.Snapshot().Regions)-1, m.cursor)
	press(m, runes("j"))
	assert.Equal(t, len(m.session.Snapshot().Regions)-1, m.cursor)

	press(m, runes("g"))
	assert.Equal(t, 0, m.cursor)
}

func TestSearchAndOpenResult(t *testing.T) {
	m := newTestModel(t, nil)

	press(m, runes("/"))
	require.Equal(t, inputtypes.ModeSearch, m.inputHandler.CurrentMode())
	require.True(t, m.session.Snapshot().Overlay.Open)

	typeText(m, "talus")
	snap := m.session.Snapshot()
	assert.Equal(t, "talus", snap.Overlay.Query)
	require.Len(t, snap.Results, 1)
	assert.Contains(t, m.View(), "Talus Fracture")

	press(m, enter)
	snap = m.session.Snapshot()
	assert.False(t, snap.Overlay.Open)
	assert.Equal(t, inputtypes.ModeNormal, m.inputHandler.CurrentMode())
	require.Equal(t, navigation.ScreenFractureDetail, snap.Screen)
	assert.Equal(t, navigation.FractureSelected{RegionID: "ankle", Fracture: *snap.Fracture, Index: 1}, snap.Focus)

	press(m, esc)
	snap = m.session.Snapshot()
	assert.Equal(t, navigation.ScreenFractureList, snap.Screen)
	assert.Equal(t, 1, m.cursor)
}

func TestSearchEscapeRestoresScreen(t *testing.T) {
	m := newTestModel(t, nil)
	press(m, runes("2"))
	require.Equal(t, navigation.ScreenTopicList, m.session.Snapshot().Screen)

	press(m, runes("/"))
	typeText(m, "dvt")
	assert.Equal(t, navigation.ScreenSearch, m.session.Snapshot().Screen)

	press(m, esc)
	snap := m.session.Snapshot()
	assert.False(t, snap.Overlay.Open)
	assert.Empty(t, snap.Results)
	assert.Equal(t, navigation.ScreenTopicList, snap.Screen)
	assert.Equal(t, inputtypes.ModeNormal, m.inputHandler.CurrentMode())
}

func TestSearchNoResults(t *testing.T) {
	m := newTestModel(t, nil)
	press(m, runes("/"))
	typeText(m, "zzz")

	assert.Contains(t, m.View(), `No results for "zzz"`)
	press(m, enter)
	assert.True(t, m.session.Snapshot().Overlay.Open, "enter without results keeps searching")
}

func TestSearchDebounce(t *testing.T) {
	m := newTestModel(t, func(c *config.Config) { c.UI.SearchDebounceMS = 50 })
	press(m, runes("/"))

	cmd := press(m, runes("t"))
	require.NotNil(t, cmd)
	stale := m.querySeq
	press(m, runes("a"))

	assert.True(t, m.hasPending)
	assert.Equal(t, "", m.session.Snapshot().Overlay.Query, "query waits for the pause")

	m.Update(queryDebounceMsg{seq: stale})
	assert.Equal(t, "", m.session.Snapshot().Overlay.Query, "stale tick is ignored")

	m.Update(queryDebounceMsg{seq: m.querySeq})
	assert.Equal(t, "ta", m.session.Snapshot().Overlay.Query)
	assert.False(t, m.hasPending)
}

func TestSearchEnterFlushesPendingQuery(t *testing.T) {
	m := newTestModel(t, func(c *config.Config) { c.UI.SearchDebounceMS = 500 })
	press(m, runes("/"))
	typeText(m, "gustilo")
	require.True(t, m.hasPending)

	press(m, enter)
	snap := m.session.Snapshot()
	require.NotNil(t, snap.Fracture, "fractures come before quick references")
	assert.Equal(t, "Tibial Shaft Fracture", snap.Fracture.Name)
}

func TestTabs(t *testing.T) {
	m := newTestModel(t, nil)

	press(m, tab)
	assert.Equal(t, domain.TabReference, m.session.Snapshot().Tab)
	press(m, shiftTab, shiftTab)
	assert.Equal(t, domain.TabChecklists, m.session.Snapshot().Tab)
	press(m, runes("1"))
	assert.Equal(t, domain.TabIdentify, m.session.Snapshot().Tab)

	view := m.View()
	for _, label := range []string{"Identify", "Reference", "Protocols"} {
		assert.Contains(t, view, label)
	}
}

func TestStartTabFromConfig(t *testing.T) {
	m := newTestModel(t, func(c *config.Config) { c.UI.StartTab = "reference" })
	assert.Equal(t, navigation.ScreenTopicList, m.session.Snapshot().Screen)
}

func TestChecklistToggleAndReset(t *testing.T) {
	m := newTestModel(t, nil)
	press(m, runes("3"))
	require.Equal(t, navigation.ScreenChecklists, m.session.Snapshot().Screen)

	press(m, space, runes("j"), runes("j"), enter)
	snap := m.session.Snapshot()
	assert.Equal(t, 2, snap.CompletedCount(0))
	assert.True(t, snap.Progress[domain.StepKey{Checklist: 0, Step: 2}])
	assert.Contains(t, m.View(), "2/9")

	// Row 9 is the first step of the second checklist
	press(m, repeat(runes("j"), 7)...)
	press(m, space)
	snap = m.session.Snapshot()
	assert.True(t, snap.Progress[domain.StepKey{Checklist: 1, Step: 0}])

	press(m, runes("G"), space)
	assert.True(t, m.session.Snapshot().Progress[domain.StepKey{Checklist: 2, Step: 9}])

	// Reset applies to the checklist under the cursor
	press(m, runes("g"), runes("r"))
	snap = m.session.Snapshot()
	assert.Equal(t, 0, snap.CompletedCount(0))
	assert.Equal(t, 1, snap.CompletedCount(1))
	assert.Equal(t, 1, snap.CompletedCount(2))
	assert.Contains(t, m.status, "Open Fracture Protocol")
}

func TestProgressSurvivesTabSwitch(t *testing.T) {
	m := newTestModel(t, nil)
	press(m, runes("3"), space, runes("1"), runes("3"))
	assert.Equal(t, 1, m.session.Snapshot().CompletedCount(0))
}

func TestCopyDetail(t *testing.T) {
	m := newTestModel(t, nil)
	var copied string
	m.copyText = func(s string) error {
		copied = s
		return nil
	}

	press(m, runes("2"), runes("j"), enter)
	require.Equal(t, navigation.ScreenTopicDetail, m.session.Snapshot().Screen)

	cmd := press(m, runes("y"))
	require.NotNil(t, cmd)
	m.Update(cmd())

	assert.True(t, strings.HasPrefix(copied, "Compartment Syndrome"))
	assert.Contains(t, copied, "Treatment: Emergent fasciotomy")
	assert.Equal(t, "Copied Compartment Syndrome", m.status)
	assert.False(t, m.statusIsErr)
}

func TestCopyFailureIsReported(t *testing.T) {
	m := newTestModel(t, nil)
	press(m, runes("2"), enter)

	cmd := press(m, runes("y"))
	require.NotNil(t, cmd)
	m.Update(cmd())
	assert.True(t, m.statusIsErr)
	assert.Contains(t, m.status, "copy failed")
}

func TestPagerNeedsProgram(t *testing.T) {
	m := newTestModel(t, nil)
	press(m, runes("2"), enter)

	cmd := press(m, runes("o"))
	require.NotNil(t, cmd)
	msg := cmd()
	require.IsType(t, pagerExitMsg{}, msg)
	m.Update(msg)
	assert.True(t, m.statusIsErr)
}

func TestDetailScroll(t *testing.T) {
	m := newTestModel(t, nil)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 12})
	press(m, repeat(runes("j"), 7)...)
	press(m, enter, enter)
	require.Equal(t, navigation.ScreenFractureDetail, m.session.Snapshot().Screen)

	press(m, runes("j"), runes("j"))
	assert.Equal(t, 2, m.scroll)
	press(m, runes("k"))
	assert.Equal(t, 1, m.scroll)
	press(m, runes("g"))
	assert.Equal(t, 0, m.scroll)
	press(m, runes("k"))
	assert.Equal(t, 0, m.scroll)
}

func TestHelpToggle(t *testing.T) {
	m := newTestModel(t, nil)
	assert.NotContains(t, m.View(), "reset checklist")
	press(m, runes("?"))
	assert.True(t, m.help.ShowAll)
	assert.Contains(t, m.View(), "reset checklist")
}

func TestQuit(t *testing.T) {
	m := newTestModel(t, nil)
	cmd := press(m, runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestStepAt(t *testing.T) {
	lists := []domain.ChecklistDefinition{
		{Title: "a", Steps: []string{"1", "2"}},
		{Title: "b", Steps: []string{"1", "2", "3"}},
	}
	cases := []struct {
		row    int
		ci, si int
		ok     bool
	}{
		{0, 0, 0, true},
		{1, 0, 1, true},
		{2, 1, 0, true},
		{4, 1, 2, true},
		{5, 0, 0, false},
		{-1, 0, 0, false},
	}
	for _, tc := range cases {
		ci, si, ok := stepAt(lists, tc.row)
		assert.Equal(t, tc.ok, ok, "row %d", tc.row)
		if tc.ok {
			assert.Equal(t, [2]int{tc.ci, tc.si}, [2]int{ci, si}, "row %d", tc.row)
		}
	}
}
