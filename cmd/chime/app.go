package main

import (
	"net/url"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/chimewidget/chime/comments"
	"github.com/chimewidget/chime/internal/ui/statusbar"
	"github.com/chimewidget/chime/widget"
)

// app hosts the widget full screen with a status bar underneath. Every key
// except ctrl+c goes to the widget, the form owns its own text entry.
type app struct {
	widget widget.Model
	bar    statusbar.Model
}

func newApp(w widget.Model, postID int, endpoint string) app {
	return app{
		widget: w,
		bar:    statusbar.New(postID, hostOf(endpoint)),
	}
}

func hostOf(endpoint string) string {
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return endpoint
	}
	return u.Host
}

func (a app) Init() tea.Cmd {
	return a.widget.Init()
}

func (a app) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return a, tea.Quit
		}
	case tea.WindowSizeMsg:
		a.bar.SetSize(msg.Width)
		a.widget.SetSize(msg.Width, msg.Height-1)
		return a, nil
	}

	var cmd tea.Cmd
	a.widget, cmd = a.widget.Update(msg)
	a.syncBar()
	return a, cmd
}

func (a *app) syncBar() {
	a.bar.SetOrder(orderLabel(a.widget.Order()))
	a.bar.SetRecaptcha(a.widget.RecaptchaState().String())
	switch {
	case a.widget.Submitting():
		a.bar.SetStatus("submitting")
	case a.widget.Loading():
		a.bar.SetStatus("loading")
	default:
		a.bar.SetStatus("")
	}
}

func orderLabel(o comments.Order) string {
	if o == comments.OrderAsc {
		return "oldest first"
	}
	return "newest first"
}

func (a app) View() string {
	return lipgloss.JoinVertical(lipgloss.Left, a.widget.View(), a.bar.View())
}
