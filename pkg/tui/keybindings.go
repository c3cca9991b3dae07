// Package tui provides the terminal user interface components.
package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keyboard shortcuts. Printable keys are typed into the
// filter on list screens, so bindings there avoid letters.
type KeyMap struct {
	// Navigation
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	PageUp   key.Binding
	PageDown key.Binding

	// Flow
	Confirm key.Binding
	Back    key.Binding

	// Date selection
	QuickColumn  key.Binding
	CustomColumn key.Binding
	SwitchColumn key.Binding
	ToggleEdit   key.Binding

	// Log viewer
	ToggleExpand key.Binding

	// Filter
	Backspace key.Binding

	// Actions
	Quit       key.Binding
	QuitLetter key.Binding
}

// DefaultKeyMap returns the default keybindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "previous"),
		),
		Right: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "next"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("PgUp", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("PgDn", "page down"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "select"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("Esc", "back"),
		),
		QuickColumn: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "quick ranges"),
		),
		CustomColumn: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "custom range"),
		),
		SwitchColumn: key.NewBinding(
			key.WithKeys("tab", "shift+tab"),
			key.WithHelp("Tab", "switch column"),
		),
		ToggleEdit: key.NewBinding(
			key.WithKeys(" ", "c"),
			key.WithHelp("Space/c", "edit fields"),
		),
		ToggleExpand: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "expand/collapse"),
		),
		Backspace: key.NewBinding(
			key.WithKeys("backspace"),
			key.WithHelp("⌫", "erase filter"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("Ctrl+c", "quit"),
		),
		QuitLetter: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Confirm, k.Back, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.PageUp, k.PageDown},
		{k.Confirm, k.Back, k.Backspace},
		{k.QuickColumn, k.CustomColumn, k.SwitchColumn, k.ToggleEdit},
		{k.ToggleExpand, k.Quit, k.QuitLetter},
	}
}

// HelpFor returns the bindings relevant to a screen.
func (k KeyMap) HelpFor(state State, expanded bool) []key.Binding {
	quit := k.Quit
	switch state {
	case ProfileSelection:
		back := k.Back
		back.SetHelp("Esc", "quit")
		return []key.Binding{k.Up, k.Down, k.PageDown, k.Confirm, k.Backspace, back, quit}
	case FunctionList:
		return []key.Binding{k.Up, k.Down, k.PageDown, k.Confirm, k.Backspace, k.Back, quit}
	case DateSelection:
		return []key.Binding{k.QuickColumn, k.CustomColumn, k.SwitchColumn, k.ToggleEdit, k.Up, k.Down, k.Left, k.Right, k.Confirm, k.Back, k.QuitLetter}
	case LogViewer:
		if expanded {
			up, down := k.Up, k.Down
			up.SetHelp("↑", "scroll up")
			down.SetHelp("↓", "scroll down")
			return []key.Binding{up, down, k.PageUp, k.PageDown, k.ToggleExpand, k.Back, k.QuitLetter}
		}
		return []key.Binding{k.Up, k.Down, k.PageUp, k.PageDown, k.ToggleExpand, k.Backspace, k.Back, quit}
	}
	return k.ShortHelp()
}
