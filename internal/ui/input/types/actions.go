package types

import "fractureid/internal/domain"

// Navigation actions
type NavigateAction struct {
	Direction string // "up", "down", "pageup", "pagedown", "home", "end"
}

func (a NavigateAction) Type() string { return "navigate" }

// SelectAction opens or toggles the item under the cursor
type SelectAction struct{}

func (a SelectAction) Type() string { return "select" }

type BackAction struct{}

func (a BackAction) Type() string { return "back" }

type SwitchTabAction struct {
	Tab domain.Tab
}

func (a SwitchTabAction) Type() string { return "switch_tab" }

// CycleTabAction moves to the next (+1) or previous (-1) tab
type CycleTabAction struct {
	Delta int
}

func (a CycleTabAction) Type() string { return "cycle_tab" }

// Mode transition actions
type ChangeModeAction struct {
	Mode Mode
}

func (a ChangeModeAction) Type() string { return "change_mode" }

// Text input actions
type UpdateTextAction struct {
	Text string
}

func (a UpdateTextAction) Type() string { return "update_text" }

type SubmitTextAction struct {
	Text string
	Mode Mode // Which mode submitted the text
}

func (a SubmitTextAction) Type() string { return "submit_text" }

type CancelTextAction struct{}

func (a CancelTextAction) Type() string { return "cancel_text" }

// Record actions
type CopyAction struct{}

func (a CopyAction) Type() string { return "copy" }

type OpenPagerAction struct{}

func (a OpenPagerAction) Type() string { return "open_pager" }

type ResetChecklistAction struct{}

func (a ResetChecklistAction) Type() string { return "reset_checklist" }

type ToggleHelpAction struct{}

func (a ToggleHelpAction) Type() string { return "toggle_help" }

type QuitAction struct {
	Force bool // true for Ctrl+C, false for 'q'
}

func (a QuitAction) Type() string { return "quit" }
