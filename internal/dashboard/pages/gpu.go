package pages

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/jtop/internal/dashboard"
	"github.com/rileyhilliard/jtop/internal/telemetry"
)

// graphSeries lists the series the GPU page can plot, by shortcut key.
var graphSeries = []struct {
	key    dashboard.Key
	series string
	title  string
	color  lipgloss.Color
}{
	{"g", telemetry.SeriesGPU, "GPU load", dashboard.ColorHealthy},
	{"c", telemetry.SeriesCPU, "CPU load", dashboard.ColorHealthy},
	{"m", telemetry.SeriesRAM, "RAM usage", dashboard.ColorHealthy},
	{"p", telemetry.SeriesPower, "Total power", dashboard.ColorGraph},
}

type gpuPage struct {
	ctx      *dashboard.PageContext
	selected int // index into graphSeries
}

// NewGPU builds the history page. It plots GPU load by default; g, c, m
// and p switch the plotted series.
func NewGPU(ctx *dashboard.PageContext) dashboard.Page {
	return &gpuPage{ctx: ctx}
}

func (p *gpuPage) Name() string { return "GPU" }

// Keyboard switches the plotted series.
func (p *gpuPage) Keyboard(key dashboard.Key) {
	for i, s := range graphSeries {
		if s.key == key {
			p.selected = i
			return
		}
	}
}

func (p *gpuPage) Draw(_ dashboard.Key, _ dashboard.Mouse) (string, error) {
	snap, err := latest(p.ctx)
	if err != nil {
		return "", err
	}
	t := p.ctx.Theme
	current := graphSeries[p.selected]

	lines := []string{p.status(snap)}

	if p.ctx.History == nil {
		lines = append(lines, t.Muted.Render("History is disabled"))
		return strings.Join(lines, "\n"), nil
	}

	// status, title, graph, legend
	width := p.ctx.Screen.Width - 2
	height := p.ctx.Screen.BodyHeight() - 3
	if height < 1 {
		height = 1
	}

	data := p.ctx.History.Last(current.series, width*2)
	title := current.title
	if n := len(data); n > 0 {
		title += " " + formatSample(current.series, data[n-1])
	}
	lines = append(lines, t.Section.Render(title))

	if len(data) == 0 {
		lines = append(lines, waiting(t))
	} else {
		lines = append(lines, brailleGraph(t, data, width, height, current.color))
	}

	var legend []string
	for i, s := range graphSeries {
		style := t.Muted
		if i == p.selected {
			style = t.Value
		}
		legend = append(legend, style.Render(fmt.Sprintf("%s %s", s.key, s.series)))
	}
	lines = append(lines, strings.Join(legend, "  "))

	return strings.Join(lines, "\n"), nil
}

// status is the one-line GPU summary above the graph.
func (p *gpuPage) status(snap *telemetry.Snapshot) string {
	t := p.ctx.Theme
	gpu, ok := snap.Engines["GR3D"]
	if !ok {
		return t.Muted.Render("No GPU data in this sample")
	}
	s := t.Label.Render("GPU ") + t.Metric(gpu.Load).Render(fmt.Sprintf("%.0f%%", gpu.Load))
	if gpu.FrequencyMHz > 0 {
		s += t.Value.Render(fmt.Sprintf(" @ %dMHz", gpu.FrequencyMHz))
	}
	if c, ok := snap.Temperatures["GPU"]; ok {
		s += t.NewStyle().Foreground(t.TempColor(c)).Render(fmt.Sprintf("  %.1fC", c))
	}
	return s
}

func formatSample(series string, v float64) string {
	if series == telemetry.SeriesPower {
		return formatMilliwatts(v)
	}
	return fmt.Sprintf("%.0f%%", v)
}
