package widget

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type field int

const (
	fieldName field = iota
	fieldEmail
	fieldContent
)

// form is the submission composer: author name, author email, and the
// comment body.
type form struct {
	name    textinput.Model
	email   textinput.Model
	content textarea.Model
	focused field
}

func newForm() form {
	name := textinput.New()
	name.Placeholder = "Your name"
	name.CharLimit = 80
	name.Width = 40

	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.CharLimit = 120
	email.Width = 40

	content := textarea.New()
	content.Placeholder = "Write a comment..."
	content.CharLimit = 4000
	content.SetHeight(4)
	content.ShowLineNumbers = false

	return form{name: name, email: email, content: content}
}

func (f *form) setWidth(w int) {
	fw := w - 8
	if fw > 80 {
		fw = 80
	}
	if fw < 20 {
		fw = 20
	}
	f.name.Width = fw
	f.email.Width = fw

	tw := w - 2
	if tw > 100 {
		tw = 100
	}
	if tw < 20 {
		tw = 20
	}
	f.content.SetWidth(tw)
}

// height is the rendered line count of the form block.
func (f form) height() int {
	return 2 + f.content.Height()
}

// Update routes input to the focused field.
func (f form) Update(msg tea.Msg) (form, tea.Cmd) {
	var cmd tea.Cmd
	switch f.focused {
	case fieldName:
		f.name, cmd = f.name.Update(msg)
	case fieldEmail:
		f.email, cmd = f.email.Update(msg)
	case fieldContent:
		f.content, cmd = f.content.Update(msg)
	}
	return f, cmd
}

// cycle moves focus by delta fields, wrapping around.
func (f *form) cycle(delta int) tea.Cmd {
	f.focused = field((int(f.focused) + delta + 3) % 3)
	return f.applyFocus()
}

func (f *form) focusField(fl field) tea.Cmd {
	f.focused = fl
	return f.applyFocus()
}

func (f *form) applyFocus() tea.Cmd {
	f.name.Blur()
	f.email.Blur()
	f.content.Blur()
	switch f.focused {
	case fieldName:
		return f.name.Focus()
	case fieldEmail:
		return f.email.Focus()
	case fieldContent:
		return f.content.Focus()
	}
	return nil
}

func (f *form) blur() {
	f.name.Blur()
	f.email.Blur()
	f.content.Blur()
}

// values returns the trimmed field contents.
func (f form) values() (name, email, content string) {
	return strings.TrimSpace(f.name.Value()),
		strings.TrimSpace(f.email.Value()),
		strings.TrimSpace(f.content.Value())
}

// validate returns a user-facing message for the first missing field, or ""
// when the form is complete.
func (f form) validate() string {
	name, email, content := f.values()
	switch {
	case name == "":
		return "Name is required"
	case email == "":
		return "Email is required"
	case content == "":
		return "Comment cannot be empty"
	}
	return ""
}

func (f *form) reset() {
	f.name.SetValue("")
	f.email.SetValue("")
	f.content.Reset()
}
