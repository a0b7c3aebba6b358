package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up         key.Binding
	down       key.Binding
	enter      key.Binding
	back       key.Binding
	favorite   key.Binding
	category   key.Binding
	difficulty key.Binding
	search     key.Binding
	clear      key.Binding
	open       key.Binding
	refresh    key.Binding
	quit       key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		back:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		favorite:   key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "favorite")),
		category:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "category")),
		difficulty: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "difficulty")),
		search:     key.NewBinding(key.WithKeys("/", "s"), key.WithHelp("/", "search")),
		clear:      key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "clear filters")),
		open:       key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open")),
		refresh:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter, k.back},
		{k.category, k.difficulty, k.search, k.clear},
		{k.favorite, k.open, k.refresh, k.quit},
	}
}
