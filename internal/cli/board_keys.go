package cli

import "github.com/charmbracelet/bubbles/key"

type boardKeyMap struct {
	PrevDay  key.Binding
	NextDay  key.Binding
	Today    key.Binding
	Up       key.Binding
	Down     key.Binding
	Complete key.Binding
	Fail     key.Binding
	Reset    key.Binding
	Edit     key.Binding
	Delete   key.Binding
	Deselect key.Binding
	Reload   key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func newBoardKeyMap() boardKeyMap {
	return boardKeyMap{
		PrevDay:  key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev day")),
		NextDay:  key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next day")),
		Today:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "today")),
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "scroll up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "scroll down")),
		Complete: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "done")),
		Fail:     key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "failed")),
		Reset:    key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "todo")),
		Edit:     key.NewBinding(key.WithKeys("e", "enter"), key.WithHelp("e", "edit")),
		Delete:   key.NewBinding(key.WithKeys("x", "delete"), key.WithHelp("x", "delete")),
		Deselect: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "deselect")),
		Reload:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k boardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.PrevDay, k.NextDay, k.Complete, k.Fail, k.Edit, k.Delete, k.Help, k.Quit}
}

func (k boardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.PrevDay, k.NextDay, k.Today, k.Up, k.Down},
		{k.Complete, k.Fail, k.Reset, k.Edit, k.Delete},
		{k.Deselect, k.Reload, k.Help, k.Quit},
	}
}
