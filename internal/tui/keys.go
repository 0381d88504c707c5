package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the application
type KeyMap struct {
	// Navigation
	Up        key.Binding
	Down      key.Binding
	PrevBatch key.Binding
	NextBatch key.Binding

	// Actions
	Search     key.Binding
	CycleHint  key.Binding
	Filter     key.Binding
	EditPhrase key.Binding
	Escape     key.Binding
	Quit       key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		PrevBatch: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/←", "prev batch"),
		),
		NextBatch: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l/→", "next batch"),
		),
		Search: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "search"),
		),
		CycleHint: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "media type"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		EditPhrase: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "edit phrase"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}
