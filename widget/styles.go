package widget

import "github.com/charmbracelet/lipgloss"

var (
	depthColors = []lipgloss.Color{
		"#5FAFFF", "#828282", "#87D787", "#D7AF5F", "#D75F87", "#AF87D7", "#5FD7D7", "#D7875F",
	}

	accentColor = lipgloss.Color("#5FAFFF")

	headerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF"))
	authorStyle    = lipgloss.NewStyle().Foreground(accentColor).Bold(true)
	metaStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#828282"))
	selectedStyle  = lipgloss.NewStyle().Background(lipgloss.Color("#333333"))
	separatorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#444444"))
	labelStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Bold(true).Width(6)
	bannerStyle    = lipgloss.NewStyle().Foreground(accentColor).Bold(true)
	hintStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#828282"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F"))
	successStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#87D787"))
	spinnerStyle   = lipgloss.NewStyle().Foreground(accentColor)
)
