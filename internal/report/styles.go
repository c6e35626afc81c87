package report

import "github.com/charmbracelet/lipgloss"

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	colorBlue   = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	colorGreen  = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	colorYellow = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	colorRed    = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	colorGray   = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	colorWhite  = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	colorBorder = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// headerStyle is used for the report title.
var headerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorWhite).
	Background(colorBlue).
	Padding(0, 1)

// sectionStyle labels a group of rows.
var sectionStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorBlue).
	MarginTop(1)

var labelStyle = lipgloss.NewStyle().
	Foreground(colorGray)

var valueStyle = lipgloss.NewStyle().
	Bold(true).
	Align(lipgloss.Right)

// panelStyle provides a rounded border around the whole report.
var panelStyle = lipgloss.NewStyle().
	Padding(0, 1).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorBorder)

// checkStyle returns a color-coded style for a check outcome.
func checkStyle(ok bool) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	if ok {
		return base.Foreground(colorGreen)
	}
	return base.Foreground(colorRed)
}

// warnStyle flags values that are allowed but worth a look.
var warnStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorYellow)
