package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"fractureid/internal/domain"
	"fractureid/internal/navigation"
	"fractureid/internal/session"
)

// ViewState contains all the state needed for rendering
type ViewState struct {
	Width         int
	Height        int
	Snapshot      session.Snapshot
	Cursor        int
	Scroll        int    // first visible line on detail screens
	Detail        string // rendered detail document
	SearchInput   string // text input view while searching
	PendingQuery  bool   // typed query not yet applied
	StatusMessage string
	StatusIsError bool
	HelpView      string
	ShowPositions bool
}

// Renderer handles all view rendering
type Renderer struct {
	styles *Styles
}

// NewRenderer creates a new renderer
func NewRenderer() *Renderer {
	return &Renderer{styles: NewStyles()}
}

// Chrome is the number of lines used around the body: padding, title,
// tabs, a blank line, status and help.
const Chrome = 7

// BodyHeight returns the number of lines available to the screen body
func BodyHeight(height int) int {
	h := height - Chrome
	if h < 3 {
		h = 3
	}
	return h
}

// Render produces the complete view
func (r *Renderer) Render(state ViewState) string {
	width := state.Width
	if width <= 0 {
		width = 80
	}
	inner := width - 4 // Main padding
	bodyHeight := BodyHeight(state.Height)

	var content strings.Builder
	content.WriteString(r.renderTitle(state, inner))
	content.WriteString("\n")
	content.WriteString(r.renderTabs(state.Snapshot.Tab))
	content.WriteString("\n\n")

	body := r.renderBody(state, inner, bodyHeight)
	lines := Lines(body)
	if len(lines) > bodyHeight {
		lines = lines[:bodyHeight]
	}
	for len(lines) < bodyHeight {
		lines = append(lines, "")
	}
	content.WriteString(strings.Join(lines, "\n"))
	content.WriteString("\n")

	content.WriteString(r.renderStatus(state, inner))
	content.WriteString("\n")
	content.WriteString(state.HelpView)

	return r.styles.Main.Render(content.String())
}

func (r *Renderer) renderTitle(state ViewState, width int) string {
	logo := r.styles.Title.Render("FractureID")
	var right string
	if state.Snapshot.CanGoBack {
		right = r.styles.Dim.Render("← back (esc)")
	}
	if right == "" {
		return logo
	}
	pad := width - lipgloss.Width(logo) - lipgloss.Width(right)
	if pad < 2 {
		pad = 2
	}
	return logo + strings.Repeat(" ", pad) + right
}

func (r *Renderer) renderTabs(active domain.Tab) string {
	tabs := make([]string, 0, len(domain.Tabs))
	for i, tab := range domain.Tabs {
		label := fmt.Sprintf("%d %s %s", i+1, tab.Icon(), tab.Label())
		if tab == active {
			tabs = append(tabs, r.styles.ActiveTab.Render(label))
		} else {
			tabs = append(tabs, r.styles.Tab.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (r *Renderer) renderBody(state ViewState, width, height int) string {
	snap := state.Snapshot
	switch snap.Screen {
	case navigation.ScreenSearch:
		return r.renderSearch(state, width, height)
	case navigation.ScreenRegionPicker:
		return r.renderRegions(state, width, height)
	case navigation.ScreenFractureList:
		return r.renderFractureList(state, width, height)
	case navigation.ScreenTopicList:
		return r.renderTopicList(state, width, height)
	case navigation.ScreenChecklists:
		return r.renderChecklists(state, width, height)
	case navigation.ScreenFractureDetail, navigation.ScreenTopicDetail:
		return r.renderDetail(state, height)
	}
	return ""
}

// listRow is one line of a list: plain text plus an optional styled note.
// Widths are measured before styling so truncation never cuts an escape
// sequence.
type listRow struct {
	text      string
	note      string
	noteStyle lipgloss.Style
}

func (row listRow) render(width int) string {
	text := Truncate(row.text, width)
	rest := width - lipgloss.Width(text)
	if row.note == "" || rest < 4 {
		return PadRight(text, width)
	}
	note := Truncate(row.note, rest)
	return text + row.noteStyle.Render(note) + strings.Repeat(" ", rest-lipgloss.Width(note))
}

// renderList draws rows with the cursor row highlighted, windowed so the
// cursor stays visible.
func (r *Renderer) renderList(rows []listRow, cursor, width, height int) string {
	if len(rows) == 0 {
		return r.styles.Dim.Render("Nothing here.")
	}
	start, end := Window(cursor, len(rows), height)
	above, below := start, len(rows)-end
	// Indicators take the place of an edge row when the cursor is not on it
	if above > 0 && cursor > start {
		start++
		above++
	}
	if below > 0 && cursor < end-1 {
		end--
		below++
	}

	out := make([]string, 0, end-start+2)
	if start > 0 {
		out = append(out, r.styles.Scroll.Render(fmt.Sprintf("↑ %d more above", above)))
	}
	for i := start; i < end; i++ {
		line := rows[i].render(width - 2)
		if i == cursor {
			out = append(out, r.styles.SelectionBg.Render("▸ "+line))
		} else {
			out = append(out, "  "+line)
		}
	}
	if end < len(rows) {
		out = append(out, r.styles.Scroll.Render(fmt.Sprintf("↓ %d more below", below)))
	}
	return strings.Join(out, "\n")
}

func (r *Renderer) renderRegions(state ViewState, width, height int) string {
	regions := state.Snapshot.Regions
	rows := make([]listRow, 0, len(regions))
	for _, region := range regions {
		row := listRow{text: fmt.Sprintf("%s %s", region.Icon, region.Label), noteStyle: r.styles.Dim}
		if state.ShowPositions {
			row.text = PadRight(row.text, 24)
			row.note = fmt.Sprintf("(%d,%d)", region.Position.X, region.Position.Y)
		}
		rows = append(rows, row)
	}
	heading := r.styles.Heading.Render("Select a region")
	return heading + "\n" + r.renderList(rows, state.Cursor, width, height-2)
}

func (r *Renderer) renderFractureList(state ViewState, width, height int) string {
	snap := state.Snapshot
	title := "Fractures"
	if snap.Region != nil {
		title = snap.Region.Icon + " " + snap.Region.Title
	}
	rows := make([]listRow, 0, len(snap.Fractures))
	for _, f := range snap.Fractures {
		rows = append(rows, listRow{text: f.Name, note: " · " + f.Classification, noteStyle: r.styles.Dim})
	}
	return r.styles.Heading.Render(title) + "\n" + r.renderList(rows, state.Cursor, width, height-2)
}

func (r *Renderer) renderTopicList(state ViewState, width, height int) string {
	topics := state.Snapshot.Topics
	rows := make([]listRow, 0, len(topics))
	for _, t := range topics {
		rows = append(rows, listRow{text: fmt.Sprintf("%s %s", t.Icon, t.Title)})
	}
	return r.styles.Heading.Render("Quick reference") + "\n" + r.renderList(rows, state.Cursor, width, height-2)
}

func (r *Renderer) renderSearch(state ViewState, width, height int) string {
	snap := state.Snapshot

	prompt := r.styles.Prompt.Render("Search: ") + state.SearchInput
	if state.PendingQuery {
		prompt += r.styles.Dim.Render(" …")
	}

	var rows []listRow
	var fractures, topics int
	for _, res := range snap.Results {
		switch m := res.(type) {
		case domain.FractureMatch:
			fractures++
			rows = append(rows, listRow{text: "🦴 " + m.Fracture.Name, note: " · " + m.RegionTitle, noteStyle: r.styles.Dim})
		case domain.QuickRefMatch:
			topics++
			rows = append(rows, listRow{text: m.Icon + " " + m.Title, note: " · quick reference", noteStyle: r.styles.Badge})
		}
	}

	var summary string
	switch {
	case strings.TrimSpace(snap.Overlay.Query) == "":
		summary = r.styles.Dim.Render("Type to search fractures, classifications and quick references")
	case len(rows) == 0:
		summary = r.styles.Dim.Render(fmt.Sprintf("No results for %q", snap.Overlay.Query))
	default:
		summary = r.styles.Dim.Render(fmt.Sprintf("%d fractures, %d quick references", fractures, topics))
	}

	out := prompt + "\n" + summary + "\n"
	if len(rows) > 0 {
		out += "\n" + r.renderList(rows, state.Cursor, width, height-3)
	}
	return out
}

func (r *Renderer) renderChecklists(state ViewState, width, height int) string {
	snap := state.Snapshot

	var lines []string
	cursorLine := 0
	row := 0
	for ci, c := range snap.Checklists {
		done := snap.CompletedCount(ci)
		progress := lipgloss.NewStyle().
			Foreground(lipgloss.Color(ProgressColor(done, len(c.Steps)))).
			Render(fmt.Sprintf("%d/%d", done, len(c.Steps)))
		if ci > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, r.styles.Heading.UnsetMarginBottom().Render(fmt.Sprintf("%s %s", c.Icon, c.Title))+"  "+progress)

		for si, step := range c.Steps {
			line := "[ ] " + Truncate(step, width-6)
			if snap.Progress[domain.StepKey{Checklist: ci, Step: si}] {
				line = r.styles.Done.Render("[x]") + " " + r.styles.Dim.Render(Truncate(step, width-6))
			}
			if row == state.Cursor {
				cursorLine = len(lines)
				line = r.styles.SelectionBg.Render("▸ " + line)
			} else {
				line = "  " + line
			}
			lines = append(lines, line)
			row++
		}
	}

	start, end := Window(cursorLine, len(lines), height)
	return strings.Join(lines[start:end], "\n")
}

func (r *Renderer) renderDetail(state ViewState, height int) string {
	lines := Lines(state.Detail)
	start := state.Scroll
	if last := len(lines) - height; start > last {
		start = last
	}
	if start < 0 {
		start = 0
	}
	end := start + height
	if end > len(lines) {
		end = len(lines)
	}
	return strings.Join(lines[start:end], "\n")
}

func (r *Renderer) renderStatus(state ViewState, width int) string {
	if state.StatusMessage == "" {
		return ""
	}
	msg := Truncate(state.StatusMessage, width)
	if state.StatusIsError {
		return r.styles.StatusError.Render(msg)
	}
	return r.styles.Status.Render(msg)
}
