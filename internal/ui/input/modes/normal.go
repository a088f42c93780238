package modes

import (
	tea "github.com/charmbracelet/bubbletea"

	"fractureid/internal/domain"
	"fractureid/internal/navigation"
	"fractureid/internal/ui/input/types"
)

type NormalMode struct{}

func NewNormalMode() *NormalMode {
	return &NormalMode{}
}

func (m *NormalMode) Name() string {
	return "normal"
}

func (m *NormalMode) Enter(ctx types.Context) []types.Action {
	return nil
}

func (m *NormalMode) Exit(ctx types.Context) []types.Action {
	return nil
}

func (m *NormalMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return []types.Action{types.QuitAction{Force: true}}, true

	case tea.KeyUp:
		return []types.Action{types.NavigateAction{Direction: "up"}}, true

	case tea.KeyDown:
		return []types.Action{types.NavigateAction{Direction: "down"}}, true

	case tea.KeyPgUp:
		return []types.Action{types.NavigateAction{Direction: "pageup"}}, true

	case tea.KeyPgDown:
		return []types.Action{types.NavigateAction{Direction: "pagedown"}}, true

	case tea.KeyHome:
		return []types.Action{types.NavigateAction{Direction: "home"}}, true

	case tea.KeyEnd:
		return []types.Action{types.NavigateAction{Direction: "end"}}, true

	case tea.KeyEnter, tea.KeyRight:
		if ctx.TotalItems() > 0 {
			return []types.Action{types.SelectAction{}}, true
		}
		return nil, false

	case tea.KeyEsc, tea.KeyBackspace, tea.KeyLeft:
		if ctx.CanGoBack() {
			return []types.Action{types.BackAction{}}, true
		}
		return nil, true

	case tea.KeyTab:
		return []types.Action{types.CycleTabAction{Delta: 1}}, true

	case tea.KeyShiftTab:
		return []types.Action{types.CycleTabAction{Delta: -1}}, true
	}

	switch msg.String() {
	case "j":
		return []types.Action{types.NavigateAction{Direction: "down"}}, true

	case "k":
		return []types.Action{types.NavigateAction{Direction: "up"}}, true

	case "g":
		return []types.Action{types.NavigateAction{Direction: "home"}}, true

	case "G":
		return []types.Action{types.NavigateAction{Direction: "end"}}, true

	case "l", " ":
		if ctx.TotalItems() > 0 {
			return []types.Action{types.SelectAction{}}, true
		}
		return nil, false

	case "h":
		if ctx.CanGoBack() {
			return []types.Action{types.BackAction{}}, true
		}
		return nil, true

	case "1":
		return []types.Action{types.SwitchTabAction{Tab: domain.TabIdentify}}, true

	case "2":
		return []types.Action{types.SwitchTabAction{Tab: domain.TabReference}}, true

	case "3":
		return []types.Action{types.SwitchTabAction{Tab: domain.TabChecklists}}, true

	case "/":
		return []types.Action{types.ChangeModeAction{Mode: types.ModeSearch}}, true

	case "y":
		if types.IsDetail(ctx.Screen()) {
			return []types.Action{types.CopyAction{}}, true
		}
		return nil, false

	case "o":
		if types.IsDetail(ctx.Screen()) {
			return []types.Action{types.OpenPagerAction{}}, true
		}
		return nil, false

	case "r":
		if ctx.Screen() == navigation.ScreenChecklists {
			return []types.Action{types.ResetChecklistAction{}}, true
		}
		return nil, false

	case "?":
		return []types.Action{types.ToggleHelpAction{}}, true

	case "q":
		return []types.Action{types.QuitAction{Force: false}}, true
	}

	return nil, false
}
