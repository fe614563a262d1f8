package console

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorPrimary = lipgloss.Color("#4c6ef5")
	colorSuccess = lipgloss.Color("#2CD7C7")
	colorWarning = lipgloss.Color("#F4D03F")
	colorError   = lipgloss.Color("#E74C3C")
	colorMuted   = lipgloss.Color("#6c757d")
)

type styles struct {
	Title    lipgloss.Style
	Menu     lipgloss.Style
	Question lipgloss.Style
	Guess    lipgloss.Style
	Success  lipgloss.Style
	Warning  lipgloss.Style
	Error    lipgloss.Style
	Muted    lipgloss.Style
	Yes      lipgloss.Style
	No       lipgloss.Style
}

// newStyles binds styles to out so colour is only emitted on a terminal.
func newStyles(out io.Writer) styles {
	r := lipgloss.NewRenderer(out)
	return styles{
		Title: r.NewStyle().Bold(true).Foreground(colorPrimary),
		Menu: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorPrimary).
			Padding(0, 1),
		Question: r.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(colorPrimary).
			Padding(0, 1).
			Width(46),
		Guess:   r.NewStyle().Bold(true).Foreground(colorSuccess),
		Success: r.NewStyle().Foreground(colorSuccess),
		Warning: r.NewStyle().Foreground(colorWarning),
		Error:   r.NewStyle().Foreground(colorError),
		Muted:   r.NewStyle().Foreground(colorMuted),
		Yes:     r.NewStyle().SetString("✔").Foreground(colorSuccess),
		No:      r.NewStyle().SetString("✖").Foreground(colorError),
	}
}
