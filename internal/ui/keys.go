package ui

import (
	"github.com/charmbracelet/bubbles/key"

	"fractureid/internal/navigation"
)

// keyMap describes the bindings for the help line. Input handling itself
// lives in the input package.
type keyMap struct {
	Move   key.Binding
	Select key.Binding
	Toggle key.Binding
	Back   key.Binding
	Tabs   key.Binding
	Search key.Binding
	Scroll key.Binding
	Copy   key.Binding
	Pager  key.Binding
	Reset  key.Binding
	Result key.Binding
	Cancel key.Binding
	Help   key.Binding
	Quit   key.Binding

	screen navigation.Screen
	back   bool
}

func newKeyMap() keyMap {
	return keyMap{
		Move:   key.NewBinding(key.WithKeys("up", "down", "j", "k"), key.WithHelp("↑/↓", "move")),
		Select: key.NewBinding(key.WithKeys("enter", "l"), key.WithHelp("enter", "open")),
		Toggle: key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "toggle step")),
		Back:   key.NewBinding(key.WithKeys("esc", "backspace", "h"), key.WithHelp("esc", "back")),
		Tabs:   key.NewBinding(key.WithKeys("1", "2", "3", "tab"), key.WithHelp("1-3", "tabs")),
		Search: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Scroll: key.NewBinding(key.WithKeys("up", "down", "pgup", "pgdown"), key.WithHelp("↑/↓", "scroll")),
		Copy:   key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy")),
		Pager:  key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "pager")),
		Reset:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset checklist")),
		Result: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open result")),
		Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close search")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// forScreen returns a copy whose help matches the current screen
func (k keyMap) forScreen(screen navigation.Screen, canGoBack bool) keyMap {
	k.screen = screen
	k.back = canGoBack
	return k
}

func (k keyMap) ShortHelp() []key.Binding {
	switch k.screen {
	case navigation.ScreenSearch:
		return []key.Binding{k.Move, k.Result, k.Cancel}
	case navigation.ScreenFractureDetail, navigation.ScreenTopicDetail:
		return []key.Binding{k.Scroll, k.Back, k.Copy, k.Pager, k.Help}
	case navigation.ScreenChecklists:
		return []key.Binding{k.Move, k.Toggle, k.Reset, k.Search, k.Help}
	}
	bindings := []key.Binding{k.Move, k.Select}
	if k.back {
		bindings = append(bindings, k.Back)
	}
	return append(bindings, k.Search, k.Help)
}

func (k keyMap) FullHelp() [][]key.Binding {
	if k.screen == navigation.ScreenSearch {
		return [][]key.Binding{{k.Move, k.Result, k.Cancel}}
	}
	return [][]key.Binding{
		{k.Move, k.Select, k.Back},
		{k.Tabs, k.Search, k.Toggle, k.Reset},
		{k.Scroll, k.Copy, k.Pager},
		{k.Help, k.Quit},
	}
}
