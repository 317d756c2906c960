package tui

import "github.com/charmbracelet/lipgloss"

// Shared palette. Severity colors follow the usual terminal conventions so
// log levels read the same here as in most collectors.
var (
	ColorNavy  = lipgloss.Color("17")
	ColorWhite = lipgloss.Color("255")
	ColorGray  = lipgloss.Color("245")
	ColorCyan  = lipgloss.Color("39")
	ColorRed   = lipgloss.Color("196")
)

var (
	sectionStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorGray).
			Padding(0, 1)

	activeSectionStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorCyan).
				Padding(0, 1)

	chartTitleStyle = lipgloss.NewStyle().
			Foreground(ColorWhite).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	errorStyle = lipgloss.NewStyle().
			Foreground(ColorRed)

	titleBarStyle = lipgloss.NewStyle().
			Foreground(ColorWhite).
			Background(ColorNavy).
			Bold(true).
			Padding(0, 1)
)

// severityBarStyles color stacked chart segments. Bars are drawn with
// background color so a segment reads as a solid block.
var severityBarStyles = map[string]lipgloss.Style{
	"TRACE":   lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Background(lipgloss.Color("240")),
	"DEBUG":   lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Background(lipgloss.Color("244")),
	"INFO":    lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Background(lipgloss.Color("39")),
	"WARN":    lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Background(lipgloss.Color("208")),
	"ERROR":   lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Background(lipgloss.Color("196")),
	"FATAL":   lipgloss.NewStyle().Foreground(lipgloss.Color("201")).Background(lipgloss.Color("201")),
	"UNKNOWN": lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Background(lipgloss.Color("250")),
}

// severityTextStyles color log lines in the results pane.
var severityTextStyles = map[string]lipgloss.Style{
	"TRACE": lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	"DEBUG": lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
	"INFO":  lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
	"WARN":  lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	"ERROR": lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	"FATAL": lipgloss.NewStyle().Foreground(lipgloss.Color("201")),
}

func severityTextStyle(level string) lipgloss.Style {
	if style, ok := severityTextStyles[level]; ok {
		return style
	}
	return lipgloss.NewStyle().Foreground(ColorGray)
}

func severityBarStyle(level string) lipgloss.Style {
	if style, ok := severityBarStyles[level]; ok {
		return style
	}
	return severityBarStyles["UNKNOWN"]
}
