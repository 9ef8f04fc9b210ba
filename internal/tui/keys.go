package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the application
type KeyMap struct {
	Up          key.Binding
	Down        key.Binding
	Open        key.Binding
	Back        key.Binding
	Search      key.Binding
	Filter      key.Binding
	Refresh     key.Binding
	Upload      key.Binding
	Delete      key.Binding
	Quit        key.Binding
	NextPage    key.Binding
	PrevPage    key.Binding
	GoToPage    key.Binding
	ViewMode    key.Binding
	Bookmark    key.Binding
	OpenViewer  key.Binding
	SetPages    key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Open:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Back:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Search:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Filter:     key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter status")),
		Refresh:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Upload:     key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "upload")),
		Delete:     key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		NextPage:   key.NewBinding(key.WithKeys("right", "l", "n"), key.WithHelp("→/l", "next page")),
		PrevPage:   key.NewBinding(key.WithKeys("left", "h", "p"), key.WithHelp("←/h", "prev page")),
		GoToPage:   key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "go to page")),
		ViewMode:   key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "view mode")),
		Bookmark:   key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "bookmark")),
		OpenViewer: key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open in viewer")),
		SetPages:   key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "set page count")),
	}
}
