package tui

import "github.com/charmbracelet/lipgloss"

// Colors used throughout the browser.
var (
	colorRed    = lipgloss.Color("#FF5F5F")
	colorGreen  = lipgloss.Color("#5FD75F")
	colorYellow = lipgloss.Color("#FFD75F")
	colorCyan   = lipgloss.Color("#5FD7FF")
	colorBlue   = lipgloss.Color("#5F87FF")
	colorGray   = lipgloss.Color("#777777")
	colorDim    = lipgloss.Color("#444444")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorCyan)

	selectedStyle = lipgloss.NewStyle().
			Foreground(colorCyan).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorGray)

	labelStyle = lipgloss.NewStyle().
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorRed).
			Bold(true)

	busyStyle = lipgloss.NewStyle().
			Foreground(colorYellow)

	dividerStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	footerKeyStyle = lipgloss.NewStyle().
			Foreground(colorYellow).
			Bold(true)

	footerDescStyle = lipgloss.NewStyle().
			Foreground(colorGray)

	transcriptStyle = lipgloss.NewStyle().
			PaddingLeft(2)
)

var sentimentStyles = map[string]lipgloss.Style{
	"positive": lipgloss.NewStyle().Foreground(colorGreen).Bold(true),
	"negative": lipgloss.NewStyle().Foreground(colorRed).Bold(true),
	"neutral":  lipgloss.NewStyle().Foreground(colorBlue).Bold(true),
	"other":    lipgloss.NewStyle().Foreground(colorGray).Bold(true),
}

var statusStyles = map[string]lipgloss.Style{
	"analyzed":    lipgloss.NewStyle().Foreground(colorGreen),
	"transcribed": lipgloss.NewStyle().Foreground(colorBlue),
	"uploaded":    lipgloss.NewStyle().Foreground(colorGray),
}
