// Package keys defines the shared key bindings for all views.
package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds every binding the views dispatch on.
type KeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Enter  key.Binding
	Back   key.Binding
	Quit   key.Binding
	Tab    key.Binding
	New    key.Binding
	Edit   key.Binding
	Delete key.Binding

	Toggle      key.Binding // collapse / expand the row under the cursor
	ExpandAll   key.Binding
	CollapseAll key.Binding
	Move        key.Binding // start a move gesture
	MoveUp      key.Binding // keyboard reorder within siblings
	MoveDown    key.Binding
	Status      key.Binding // cycle task status
	Filter      key.Binding // cycle status filter
	TagFilter   key.Binding // open tag filter dropdown
	Group       key.Binding // cycle grouping mode
}

// DefaultKeyMap returns the standard bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k")),
		Down:   key.NewBinding(key.WithKeys("down", "j")),
		Enter:  key.NewBinding(key.WithKeys("enter")),
		Back:   key.NewBinding(key.WithKeys("esc")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c")),
		Tab:    key.NewBinding(key.WithKeys("tab")),
		New:    key.NewBinding(key.WithKeys("n")),
		Edit:   key.NewBinding(key.WithKeys("e")),
		Delete: key.NewBinding(key.WithKeys("d")),

		Toggle:      key.NewBinding(key.WithKeys(" ")),
		ExpandAll:   key.NewBinding(key.WithKeys("E")),
		CollapseAll: key.NewBinding(key.WithKeys("C")),
		Move:        key.NewBinding(key.WithKeys("m")),
		MoveUp:      key.NewBinding(key.WithKeys("K", "shift+up")),
		MoveDown:    key.NewBinding(key.WithKeys("J", "shift+down")),
		Status:      key.NewBinding(key.WithKeys("s")),
		Filter:      key.NewBinding(key.WithKeys("f")),
		TagFilter:   key.NewBinding(key.WithKeys("F")),
		Group:       key.NewBinding(key.WithKeys("g")),
	}
}
