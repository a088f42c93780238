package types

import (
	tea "github.com/charmbracelet/bubbletea"

	"fractureid/internal/navigation"
)

// Mode represents an input mode
type Mode int

const (
	ModeNormal Mode = iota
	ModeSearch
)

// Action represents a command the model should execute
type Action interface {
	Type() string
}

// Context provides read-only access to model state needed for input handling
type Context interface {
	Screen() navigation.Screen
	CurrentIndex() int
	TotalItems() int
	CanGoBack() bool
}

// ModeHandler handles input for a specific mode
type ModeHandler interface {
	// HandleKey processes a key message and returns actions and whether to consume the event
	HandleKey(msg tea.KeyMsg, ctx Context) ([]Action, bool)

	// Enter is called when entering this mode
	Enter(ctx Context) []Action

	// Exit is called when leaving this mode
	Exit(ctx Context) []Action

	// Name returns the mode name for display
	Name() string
}

// IsDetail reports whether a screen shows a single record
func IsDetail(s navigation.Screen) bool {
	return s == navigation.ScreenFractureDetail || s == navigation.ScreenTopicDetail
}
