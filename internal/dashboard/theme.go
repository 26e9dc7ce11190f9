package dashboard

import (
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Dashboard color palette
const (
	ColorSurfaceBg = lipgloss.Color("#12121A")
	ColorBorder    = lipgloss.Color("#2A2A4A")

	// Semantic colors for metrics
	ColorHealthy  = lipgloss.Color("#76B900") // NVIDIA green
	ColorWarning  = lipgloss.Color("#FFAA00")
	ColorCritical = lipgloss.Color("#FF0055")

	// Text colors
	ColorTextPrimary   = lipgloss.Color("#FFFFFF")
	ColorTextSecondary = lipgloss.Color("#B4B4D0")
	ColorTextMuted     = lipgloss.Color("#6B6B8D")

	ColorAccent = lipgloss.Color("#BF40FF")
	ColorBanner = lipgloss.Color("#C000C0") // sudo banner background
	ColorGraph  = lipgloss.Color("#00FFFF")
)

// Thresholds for metric severity levels
const (
	WarningThreshold  = 70.0
	CriticalThreshold = 90.0
)

// Theme holds every style the dashboard and its pages render with. All styles
// come from one renderer, so colour detection happens once, against the
// terminal the program actually writes to.
type Theme struct {
	r *lipgloss.Renderer

	Banner     lipgloss.Style
	Title      lipgloss.Style
	Menu       lipgloss.Style
	MenuActive lipgloss.Style
	MenuKey    lipgloss.Style
	Alert      lipgloss.Style
	Section    lipgloss.Style
	Label      lipgloss.Style
	Value      lipgloss.Style
	Muted      lipgloss.Style
	HelpBox    lipgloss.Style
	HelpTitle  lipgloss.Style
}

// NewTheme builds the styles. A nil renderer targets stdout.
func NewTheme(r *lipgloss.Renderer) *Theme {
	if r == nil {
		r = lipgloss.NewRenderer(os.Stdout)
	}
	return &Theme{
		r: r,

		Banner: r.NewStyle().
			Foreground(ColorTextPrimary).
			Background(ColorBanner).
			Bold(true),

		Title: r.NewStyle().
			Foreground(ColorTextPrimary).
			Bold(true),

		Menu: r.NewStyle().Reverse(true),

		MenuActive: r.NewStyle().
			Foreground(ColorHealthy),

		MenuKey: r.NewStyle().Bold(true),

		Alert: r.NewStyle().
			Foreground(ColorCritical).
			Bold(true),

		Section: r.NewStyle().
			Foreground(ColorAccent).
			Bold(true),

		Label: r.NewStyle().
			Foreground(ColorTextSecondary),

		Value: r.NewStyle().
			Foreground(ColorTextPrimary),

		Muted: r.NewStyle().
			Foreground(ColorTextMuted),

		HelpBox: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorAccent).
			Padding(1, 2),

		HelpTitle: r.NewStyle().
			Foreground(ColorAccent).
			Bold(true).
			MarginBottom(1),
	}
}

// Renderer returns the renderer the theme was built from.
func (t *Theme) Renderer() *lipgloss.Renderer {
	return t.r
}

// NewStyle returns a blank style bound to the theme's renderer.
func (t *Theme) NewStyle() lipgloss.Style {
	return t.r.NewStyle()
}

// MetricColor returns the color for a percentage: green below 70%, amber
// below 90%, red above.
func (t *Theme) MetricColor(percent float64) lipgloss.Color {
	switch {
	case percent >= CriticalThreshold:
		return ColorCritical
	case percent >= WarningThreshold:
		return ColorWarning
	default:
		return ColorHealthy
	}
}

// Metric returns a foreground style for a percentage.
func (t *Theme) Metric(percent float64) lipgloss.Style {
	return t.r.NewStyle().Foreground(t.MetricColor(percent))
}

// TempColor colors a temperature reading: amber from 60°C, red from 80°C.
func (t *Theme) TempColor(celsius float64) lipgloss.Color {
	switch {
	case celsius >= 80:
		return ColorCritical
	case celsius >= 60:
		return ColorWarning
	default:
		return ColorHealthy
	}
}
