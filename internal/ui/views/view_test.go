package views

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fractureid/internal/content"
	"fractureid/internal/domain"
	"fractureid/internal/session"
)

func newSession(t *testing.T) *session.Session {
	t.Helper()
	store, err := content.LoadEmbedded()
	require.NoError(t, err)
	return session.New(store, nil, nil)
}

func render(snap session.Snapshot, cursor int) string {
	return NewRenderer().Render(ViewState{Width: 90, Height: 30, Snapshot: snap, Cursor: cursor})
}

func TestRenderRegionPicker(t *testing.T) {
	s := newSession(t)
	out := render(s.Snapshot(), 0)

	assert.Contains(t, out, "FractureID")
	assert.Contains(t, out, "1 🦴 Identify")
	assert.Contains(t, out, "Select a region")
	assert.Contains(t, out, "▸ 🦴 Shoulder")
	assert.Contains(t, out, "Ankle/Foot")
	assert.NotContains(t, out, "back (esc)")
}

func TestRenderFixedHeight(t *testing.T) {
	s := newSession(t)
	out := NewRenderer().Render(ViewState{Width: 60, Height: 15, Snapshot: s.Snapshot()})

	assert.Equal(t, 15, lipgloss.Height(out))
	assert.Contains(t, out, "more below")
	for _, line := range strings.Split(out, "\n") {
		assert.LessOrEqual(t, lipgloss.Width(line), 60)
	}
}

func TestRenderFractureList(t *testing.T) {
	s := newSession(t)
	require.NoError(t, s.SelectRegion("ankle"))
	out := render(s.Snapshot(), 1)

	assert.Contains(t, out, "Ankle & Foot Fractures")
	assert.Contains(t, out, "▸ Talus Fracture")
	assert.Contains(t, out, "Lisfranc")
	assert.Contains(t, out, "back (esc)")
}

func TestRenderSearch(t *testing.T) {
	s := newSession(t)
	require.NoError(t, s.OpenSearch())

	out := render(s.Snapshot(), 0)
	assert.Contains(t, out, "Search:")
	assert.Contains(t, out, "Type to search")

	require.NoError(t, s.SetQuery("compartment"))
	out = render(s.Snapshot(), 0)
	assert.Contains(t, out, "2 fractures, 1 quick references")
	assert.Contains(t, out, "Tibial Plateau Fracture · Knee Fractures")
	assert.Contains(t, out, "Compartment Syndrome · quick reference")

	require.NoError(t, s.SetQuery("xyzzy"))
	out = render(s.Snapshot(), 0)
	assert.Contains(t, out, `No results for "xyzzy"`)
}

func TestRenderChecklists(t *testing.T) {
	s := newSession(t)
	require.NoError(t, s.SwitchTab(domain.TabChecklists))
	s.ToggleStep(0, 0)

	out := render(s.Snapshot(), 0)
	assert.Contains(t, out, "Open Fracture Protocol")
	assert.Contains(t, out, "1/9")
	assert.Contains(t, out, "[x]")
	assert.Contains(t, out, "[ ]")
}

func TestRenderDetailScroll(t *testing.T) {
	s := newSession(t)
	require.NoError(t, s.SwitchTab(domain.TabReference))
	require.NoError(t, s.SelectQuickRefTopic(0))

	doc := strings.Join([]string{"line 0", "line 1", "line 2", "line 3"}, "\n")
	state := ViewState{Width: 80, Height: Chrome + 3, Snapshot: s.Snapshot(), Detail: doc, Scroll: 1}
	out := NewRenderer().Render(state)
	assert.NotContains(t, out, "line 0")
	assert.Contains(t, out, "line 3")

	// Scrolling past the end shows the last page
	state.Scroll = 10
	out = NewRenderer().Render(state)
	assert.Contains(t, out, "line 1")
	assert.Contains(t, out, "line 3")
}

func TestRenderStatus(t *testing.T) {
	s := newSession(t)
	out := NewRenderer().Render(ViewState{Width: 80, Height: 20, Snapshot: s.Snapshot(), StatusMessage: "Copied Talus Fracture"})
	assert.Contains(t, out, "Copied Talus Fracture")
}

func TestFractureMarkdown(t *testing.T) {
	store, err := content.LoadEmbedded()
	require.NoError(t, err)
	region, err := store.Region("ankle")
	require.NoError(t, err)
	f, _, err := content.FindFracture(store, "ankle", "Talus Fracture")
	require.NoError(t, err)

	md := FractureMarkdown(&region, f)
	assert.True(t, strings.HasPrefix(md, "# Talus Fracture\n"))
	assert.Contains(t, md, "**Classification:** "+f.Classification)
	assert.Contains(t, md, "| Grade | Description |")
	assert.Contains(t, md, "## Management")

	plain := FracturePlainText(&region, f)
	assert.Contains(t, plain, "Ankle & Foot Fractures")
	assert.NotContains(t, plain, "**")
}

func TestManagementSlotsSkipEmpty(t *testing.T) {
	slots := managementSlots(domain.Management{Operative: "ORIF", Emergency: "  "})
	require.Len(t, slots, 1)
	assert.Equal(t, "Operative", slots[0].label)
}

func TestMarkdownRendererNoTTY(t *testing.T) {
	r := NewMarkdownRenderer("notty")
	out, err := r.Render(TopicMarkdown(domain.QuickReferenceTopic{
		Title: "DVT Prophylaxis",
		Icon:  "💉",
		Content: []domain.LabeledValue{
			{Label: "Hip fracture", Value: "LMWH for 28-35 days"},
		},
	}), 60)
	require.NoError(t, err)
	assert.Contains(t, out, "DVT Prophylaxis")
	assert.Contains(t, out, "LMWH")

	// Renderers are reused per width
	_, err = r.Render("# again", 60)
	require.NoError(t, err)
	assert.Len(t, r.renderers, 1)
}
