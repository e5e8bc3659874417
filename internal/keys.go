package simtop

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the dashboard key bindings. It implements help.KeyMap.
type keyMap struct {
	Quit    key.Binding
	Zoom    key.Binding
	NextTab key.Binding
	PrevTab key.Binding
	Tab1    key.Binding
	Tab2    key.Binding
	Tab3    key.Binding
	Tab4    key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Zoom, k.NextTab, k.PrevTab, k.Tab1, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Zoom, k.NextTab, k.PrevTab},
		{k.Tab1, k.Tab2, k.Tab3, k.Tab4},
		{k.Quit},
	}
}

// tabKeys returns the direct-select bindings in metric order
func (k keyMap) tabKeys() []key.Binding {
	return []key.Binding{k.Tab1, k.Tab2, k.Tab3, k.Tab4}
}

var keys = keyMap{
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Zoom:    key.NewBinding(key.WithKeys("z", "enter"), key.WithHelp("z", "zoom")),
	NextTab: key.NewBinding(key.WithKeys("tab", "right", "l"), key.WithHelp("tab", "next")),
	PrevTab: key.NewBinding(key.WithKeys("shift+tab", "left", "h"), key.WithHelp("shift+tab", "prev")),
	Tab1:    key.NewBinding(key.WithKeys("1"), key.WithHelp("1-4", "metric")),
	Tab2:    key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "memory")),
	Tab3:    key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "disk")),
	Tab4:    key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "gpu")),
}
