package widget

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the widget's key bindings. Tab doubles as "enter the form"
// from the list and "next field" inside it.
type KeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Home      key.Binding
	End       key.Binding
	PageUp    key.Binding
	PageDown  key.Binding
	Reply     key.Binding
	Compose   key.Binding
	Order     key.Binding
	Reload    key.Binding
	Submit    key.Binding
	FocusForm key.Binding
	NextField key.Binding
	PrevField key.Binding
	Cancel    key.Binding
}

var DefaultKeys = KeyMap{
	Up:        key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/up", "up")),
	Down:      key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/down", "down")),
	Home:      key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "top")),
	End:       key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "bottom")),
	PageUp:    key.NewBinding(key.WithKeys("ctrl+u", "pgup"), key.WithHelp("ctrl+u", "page up")),
	PageDown:  key.NewBinding(key.WithKeys("ctrl+d", "pgdown"), key.WithHelp("ctrl+d", "page down")),
	Reply:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reply")),
	Compose:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "comment")),
	Order:     key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "toggle order")),
	Reload:    key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reload")),
	Submit:    key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "send")),
	FocusForm: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "form")),
	NextField: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
	PrevField: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev field")),
	Cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
}
