package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up             key.Binding
	Down           key.Binding
	Launch         key.Binding
	Escape         key.Binding
	Quit           key.Binding
	Help           key.Binding
	Config         key.Binding
	Dashboard      key.Binding
	Grid           key.Binding
	List           key.Binding
	Table          key.Binding
	Compact        key.Binding
	Search         key.Binding
	FavoritesOnly  key.Binding
	ToggleFavorite key.Binding
	Sort           key.Binding
	Reverse        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:             key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "move up")),
		Down:           key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "move down")),
		Launch:         key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "launch agent")),
		Escape:         key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close panel / clear search")),
		Quit:           key.NewBinding(key.WithKeys("q", "Q", "ctrl+c"), key.WithHelp("q", "quit")),
		Help:           key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Config:         key.NewBinding(key.WithKeys("c", "C"), key.WithHelp("c", "settings")),
		Dashboard:      key.NewBinding(key.WithKeys("d", "D"), key.WithHelp("d", "usage dashboard")),
		Grid:           key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "grid view")),
		List:           key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "list view")),
		Table:          key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "table view")),
		Compact:        key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "compact view")),
		Search:         key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		FavoritesOnly:  key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "favorites only")),
		ToggleFavorite: key.NewBinding(key.WithKeys("*"), key.WithHelp("*", "toggle favorite")),
		Sort:           key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "next sort field")),
		Reverse:        key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reverse sort")),
	}
}

// helpBindings lists the bindings shown in the help panel, in display order.
func (k keyMap) helpBindings() []key.Binding {
	return []key.Binding{
		k.Up, k.Down, k.Launch, k.Search, k.Escape,
		k.ToggleFavorite, k.FavoritesOnly, k.Sort, k.Reverse,
		k.Grid, k.List, k.Table, k.Compact,
		k.Help, k.Config, k.Dashboard, k.Quit,
	}
}
