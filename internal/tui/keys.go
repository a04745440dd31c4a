package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings of the record table.
type KeyMap struct {
	// Navigation.
	Up   key.Binding
	Down key.Binding
	Home key.Binding
	End  key.Binding

	// Selection.
	Select key.Binding
	Clear  key.Binding

	// Search and sort.
	Search     key.Binding // Start typing a query.
	NextColumn key.Binding // Cycle the search column.
	Sort       key.Binding // Sort by the search column; again to flip.
	Reset      key.Binding
	Refresh    key.Binding

	// Mutations.
	Edit    key.Binding
	Save    key.Binding
	Delete  key.Binding
	Confirm key.Binding
	Cancel  key.Binding

	Help key.Binding
	Quit key.Binding
}

// DefaultKeyMap is the built-in binding set: vim-style j/k next to the
// arrow keys.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Home: key.NewBinding(
		key.WithKeys("g", "home"),
		key.WithHelp("g", "top"),
	),
	End: key.NewBinding(
		key.WithKeys("G", "end"),
		key.WithHelp("G", "bottom"),
	),
	Select: key.NewBinding(
		key.WithKeys("enter", " "),
		key.WithHelp("enter", "select"),
	),
	Clear: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "clear"),
	),
	Search: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search"),
	),
	NextColumn: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "search column"),
	),
	Sort: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "sort"),
	),
	Reset: key.NewBinding(
		key.WithKeys("R"),
		key.WithHelp("R", "reset"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	Edit: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "edit"),
	),
	Save: key.NewBinding(
		key.WithKeys("ctrl+s"),
		key.WithHelp("C-s", "save"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "delete"),
	),
	Confirm: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "confirm"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("n", "esc"),
		key.WithHelp("n/esc", "cancel"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.Sort, k.Select, k.Edit, k.Delete, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Home, k.End},
		{k.Select, k.Clear, k.Search, k.NextColumn},
		{k.Sort, k.Reset, k.Refresh},
		{k.Edit, k.Save, k.Delete, k.Confirm, k.Cancel},
		{k.Help, k.Quit},
	}
}
