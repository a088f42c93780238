package modes

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"fractureid/internal/ui/input/types"
)

// SearchMode edits the query of the search overlay. The cursor keys move
// through the results while typing continues to edit the query.
type SearchMode struct {
	TextInputMode
}

func NewSearchMode(ti *textinput.Model) *SearchMode {
	return &SearchMode{
		TextInputMode: NewTextInputMode(types.ModeSearch, "search", "Search: ", ti),
	}
}

func (m *SearchMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	switch msg.String() {
	case "up", "ctrl+p":
		return []types.Action{types.NavigateAction{Direction: "up"}}, true
	case "down", "ctrl+n":
		return []types.Action{types.NavigateAction{Direction: "down"}}, true
	case "pgup":
		return []types.Action{types.NavigateAction{Direction: "pageup"}}, true
	case "pgdown":
		return []types.Action{types.NavigateAction{Direction: "pagedown"}}, true
	case "enter":
		// The model leaves search mode only if the result could be opened
		if ctx.TotalItems() == 0 {
			return nil, true
		}
		text := ""
		if m.textInput != nil {
			text = m.textInput.Value()
		}
		return []types.Action{types.SubmitTextAction{Text: text, Mode: types.ModeSearch}}, true
	}
	return m.TextInputMode.HandleKey(msg, ctx)
}
