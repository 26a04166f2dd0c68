package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap lists the normal-mode bindings. The input modes own the actual
// dispatch; the map feeds the footer and the help page.
type KeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Top     key.Binding
	Bottom  key.Binding
	Search  key.Binding
	Filter  key.Binding
	Refresh key.Binding
	Dismiss key.Binding
	Open    key.Binding
	Help    key.Binding
	Quit    key.Binding
}

// DefaultKeyMap returns the bindings handled by the normal mode
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Top:     key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("gg/home", "top")),
		Bottom:  key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G/end", "bottom")),
		Search:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "search")),
		Filter:  key.NewBinding(key.WithKeys("/", "f"), key.WithHelp("/", "filter")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Dismiss: key.NewBinding(key.WithKeys("d", "x", "delete"), key.WithHelp("d", "dismiss")),
		Open:    key.NewBinding(key.WithKeys("enter", "o"), key.WithHelp("enter", "details")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.Filter, k.Dismiss, k.Refresh, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom},
		{k.Search, k.Filter, k.Refresh},
		{k.Open, k.Dismiss},
		{k.Help, k.Quit},
	}
}
