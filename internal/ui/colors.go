package ui

import "github.com/charmbracelet/lipgloss"

// Semantic colors for CLI status output. ANSI codes keep them readable on
// the serial consoles Jetson boards are often driven from.
const (
	ColorSuccess lipgloss.Color = "2" // Green
	ColorError   lipgloss.Color = "1" // Red
	ColorWarning lipgloss.Color = "3" // Yellow
	ColorInfo    lipgloss.Color = "6" // Cyan
	ColorMuted   lipgloss.Color = "8" // Gray (bright black)
)

// GradientColors is cycled by the spinner while it animates.
var GradientColors = []lipgloss.Color{"2", "6", "4", "6"}
