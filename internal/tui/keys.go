package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
)

type keyMap struct {
	Tag     key.Binding
	Mark    key.Binding
	Delete  key.Binding
	Archive key.Binding
	Outtake key.Binding
	Undo    key.Binding
	Rename  key.Binding
	Info    key.Binding
	Up      key.Binding
	Down    key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Tag:     key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "toggle TOP")),
		Mark:    key.NewBinding(key.WithKeys(" ", "m"), key.WithHelp("space", "mark")),
		Delete:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Archive: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "archive")),
		Outtake: key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "outtake")),
		Undo:    key.NewBinding(key.WithKeys("u", "ctrl+z"), key.WithHelp("u", "undo")),
		Rename:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rename")),
		Info:    key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "info")),
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tag, k.Mark, k.Delete, k.Undo, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Mark, k.Info},
		{k.Tag, k.Rename},
		{k.Delete, k.Archive, k.Outtake, k.Undo},
		{k.Help, k.Quit},
	}
}

// listKeyMap frees d and u, which the list binds to paging by default.
func listKeyMap() list.KeyMap {
	km := list.DefaultKeyMap()
	km.PrevPage = key.NewBinding(key.WithKeys("left", "h", "pgup"))
	km.NextPage = key.NewBinding(key.WithKeys("right", "l", "pgdown"))
	km.Quit = key.NewBinding(key.WithKeys("q"))
	km.ShowFullHelp.SetEnabled(false)
	km.CloseFullHelp.SetEnabled(false)
	return km
}
