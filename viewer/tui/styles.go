package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorAccent  = lipgloss.Color("#3B82F6")
	colorSpeaker = lipgloss.Color("#EF4444")
	colorGray    = lipgloss.Color("#666666")
	colorDim     = lipgloss.Color("#444444")
	colorYellow  = lipgloss.Color("#FFFF00")
	colorRed     = lipgloss.Color("#FF0000")
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)

	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim).
			Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	dimStyle      = lipgloss.NewStyle().Foreground(colorGray)
	demoStyle     = lipgloss.NewStyle().Foreground(colorYellow).Bold(true)
	errorStyle    = lipgloss.NewStyle().Foreground(colorRed)

	speakerStyles = [2]lipgloss.Style{
		lipgloss.NewStyle().Bold(true).Foreground(colorSpeaker),
		lipgloss.NewStyle().Bold(true).Foreground(colorAccent),
	}
	activeUtteranceStyle = lipgloss.NewStyle().Border(lipgloss.ThickBorder(), false, false, false, true).
				BorderForeground(colorAccent).PaddingLeft(1)
	utteranceStyle  = lipgloss.NewStyle().PaddingLeft(2)
	activeWordStyle = lipgloss.NewStyle().Reverse(true)

	footerKeyStyle  = lipgloss.NewStyle().Foreground(colorYellow).Bold(true)
	footerDescStyle = lipgloss.NewStyle().Foreground(colorGray)
)
