package statusbar

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	barStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#333333")).
			Foreground(lipgloss.Color("#FFFFFF"))

	brandStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#5FAFFF")).
			Foreground(lipgloss.Color("#000000")).
			Bold(true).
			Padding(0, 1)

	postStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#555555")).
			Foreground(lipgloss.Color("#FFFFFF")).
			Padding(0, 1)

	segmentStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#333333")).
			Foreground(lipgloss.Color("#AAAAAA")).
			Padding(0, 1)

	alertStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#8B0000")).
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true).
			Padding(0, 1)
)

// Model is the status bar at the bottom of the host screen.
type Model struct {
	width     int
	postID    int
	host      string
	order     string
	recaptcha string
	status    string
}

// New creates a status bar for one post.
func New(postID int, host string) Model {
	return Model{postID: postID, host: host}
}

// SetSize sets the width.
func (m *Model) SetSize(w int) {
	m.width = w
}

// SetOrder sets the displayed sort direction.
func (m *Model) SetOrder(order string) {
	m.order = order
}

// SetRecaptcha sets the displayed bot-mitigation state.
func (m *Model) SetRecaptcha(state string) {
	m.recaptcha = state
}

// SetStatus sets a transient status message.
func (m *Model) SetStatus(text string) {
	m.status = text
}

// Update is a no-op for the status bar.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	return m, nil
}

// View renders the bar: brand and post on the left, widget state on the
// right, background fill between.
func (m Model) View() string {
	left := brandStyle.Render("chime") + postStyle.Render(fmt.Sprintf("post #%d", m.postID))

	var right string
	if m.status != "" {
		right += segmentStyle.Render(m.status)
	}
	if m.order != "" {
		right += segmentStyle.Render(m.order)
	}
	if m.recaptcha == "unavailable" {
		right += alertStyle.Render("recaptcha unavailable")
	} else if m.recaptcha != "" {
		right += segmentStyle.Render("recaptcha " + m.recaptcha)
	}
	if m.host != "" {
		right += segmentStyle.Render(m.host)
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	mid := barStyle.Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Top, left, mid, right)
}
