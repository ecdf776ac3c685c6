package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap is the set of bindings every wizard step understands.
type KeyMap struct {
	Up, Down      key.Binding
	Select, Back  key.Binding
	Quit          key.Binding
	Tab, ShiftTab key.Binding
}

func binding(help, desc string, keys ...string) key.Binding {
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(help, desc))
}

// DefaultKeyMap uses arrows or vi keys for lists and tab for form fields.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:       binding("↑/k", "up", "up", "k"),
		Down:     binding("↓/j", "down", "down", "j"),
		Select:   binding("enter", "select", "enter"),
		Back:     binding("esc", "back", "esc"),
		Quit:     binding("q", "quit", "ctrl+c", "q"),
		Tab:      binding("tab", "next field", "tab"),
		ShiftTab: binding("shift+tab", "prev field", "shift+tab"),
	}
}

// HelpText is the footer of list steps.
func (k KeyMap) HelpText() string {
	return "↑/↓ navigate • enter select • esc back • q quit"
}

// InputHelpText is the footer of form steps.
func (k KeyMap) InputHelpText() string {
	return "tab/↓ next • shift+tab/↑ prev • enter submit • esc back"
}
