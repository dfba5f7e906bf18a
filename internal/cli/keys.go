package cli

import "github.com/charmbracelet/bubbles/key"

type boardKeyMap struct {
	Left      key.Binding
	Right     key.Binding
	Up        key.Binding
	Down      key.Binding
	MoveLeft  key.Binding
	MoveRight key.Binding
	Open      key.Binding
	Filter    key.Binding
	Timeline  key.Binding
	Edit      key.Binding
	New       key.Binding
	Delete    key.Binding
	Reload    key.Binding
}

func newBoardKeyMap() boardKeyMap {
	return boardKeyMap{
		Left:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←→", "lane")),
		Right:     key.NewBinding(key.WithKeys("right", "l")),
		Up:        key.NewBinding(key.WithKeys("up", "k")),
		Down:      key.NewBinding(key.WithKeys("down", "j")),
		MoveLeft:  key.NewBinding(key.WithKeys("<", "H"), key.WithHelp("<>", "move")),
		MoveRight: key.NewBinding(key.WithKeys(">", "L")),
		Open:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Filter:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		Timeline:  key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "timeline")),
		Edit:      key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		New:       key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
		Delete:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Reload:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
	}
}

type timelineKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Prev   key.Binding
	Next   key.Binding
	Today  key.Binding
	Zoom   key.Binding
	Open   key.Binding
	Board  key.Binding
	Edit   key.Binding
	Reload key.Binding
}

func newTimelineKeyMap() timelineKeyMap {
	return timelineKeyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k")),
		Down:   key.NewBinding(key.WithKeys("down", "j")),
		Prev:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←→", "window")),
		Next:   key.NewBinding(key.WithKeys("right", "l")),
		Today:  key.NewBinding(key.WithKeys("."), key.WithHelp(".", "today")),
		Zoom:   key.NewBinding(key.WithKeys("z"), key.WithHelp("z", "zoom")),
		Open:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Board:  key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "board")),
		Edit:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Reload: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
	}
}

type detailKeyMap struct {
	Edit   key.Binding
	Delete key.Binding
}

func newDetailKeyMap() detailKeyMap {
	return detailKeyMap{
		Edit:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Delete: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	}
}
