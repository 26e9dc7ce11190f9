package pages

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/jtop/internal/dashboard"
	"github.com/rileyhilliard/jtop/internal/telemetry"
)

const labelWidth = 6

type allPage struct {
	ctx *dashboard.PageContext
}

// NewAll builds the overview page: every metric group of the latest sample.
func NewAll(ctx *dashboard.PageContext) dashboard.Page {
	return &allPage{ctx: ctx}
}

func (p *allPage) Name() string { return "ALL" }

func (p *allPage) Draw(_ dashboard.Key, _ dashboard.Mouse) (string, error) {
	snap, err := latest(p.ctx)
	if err != nil {
		return "", err
	}
	if snap.Empty() {
		return waiting(p.ctx.Theme), nil
	}

	t := p.ctx.Theme
	barWidth := p.ctx.Screen.Width/2 - labelWidth
	if barWidth < 10 {
		barWidth = 10
	}

	var lines []string
	for _, cpu := range snap.CPU {
		label := fmt.Sprintf("CPU%d", cpu.Index+1)
		if !cpu.Online {
			lines = append(lines, p.label(label)+t.Muted.Render("OFF"))
			continue
		}
		lines = append(lines, p.label(label)+bar(t, barWidth, cpu.Percent)+" "+
			t.Value.Render(loadAndFreq(cpu.Percent, cpu.FrequencyMHz)))
	}

	if snap.RAM != nil {
		detail := fmt.Sprintf("%s/%s (lfb %dx%s)",
			formatBytes(snap.RAM.UsedBytes), formatBytes(snap.RAM.TotalBytes),
			snap.RAM.LFBBlocks, formatBytes(snap.RAM.LFBBytes))
		lines = append(lines, p.label("Mem")+bar(t, barWidth, snap.RAM.Percent())+" "+t.Value.Render(detail))
	}
	if snap.Swap != nil {
		detail := fmt.Sprintf("%s/%s (cached %s)",
			formatBytes(snap.Swap.UsedBytes), formatBytes(snap.Swap.TotalBytes), formatBytes(snap.Swap.CachedBytes))
		lines = append(lines, p.label("Swp")+bar(t, barWidth, snap.Swap.Percent())+" "+t.Value.Render(detail))
	}
	if snap.IRAM != nil {
		detail := fmt.Sprintf("%s/%s (lfb %s)",
			formatBytes(snap.IRAM.UsedBytes), formatBytes(snap.IRAM.TotalBytes), formatBytes(snap.IRAM.LFBBytes))
		lines = append(lines, p.label("IRAM")+bar(t, barWidth, snap.IRAM.Percent())+" "+t.Value.Render(detail))
	}

	var idle []string
	for _, name := range snap.EngineNames() {
		e := snap.Engines[name]
		if !e.HasLoad {
			idle = append(idle, t.Label.Render(name)+" "+t.Value.Render(fmt.Sprintf("%dMHz", e.FrequencyMHz)))
			continue
		}
		lines = append(lines, p.label(engineLabel(name))+bar(t, barWidth, e.Load)+" "+
			t.Value.Render(loadAndFreq(e.Load, e.FrequencyMHz)))
	}
	if len(idle) > 0 {
		lines = append(lines, strings.Join(idle, "  "))
	}

	if snap.MTS != nil {
		lines = append(lines, t.Label.Render("MTS")+" "+
			t.Value.Render(fmt.Sprintf("fg %.0f%% bg %.0f%%", snap.MTS.Foreground, snap.MTS.Background)))
	}

	tables := lipgloss.JoinHorizontal(lipgloss.Top,
		p.temperatureTable(snap), "    ", p.powerTable(snap))
	if strings.TrimSpace(tables) != "" {
		lines = append(lines, "", tables)
	}

	return strings.Join(lines, "\n"), nil
}

func (p *allPage) label(s string) string {
	return p.ctx.Theme.Label.Width(labelWidth).Render(s)
}

func (p *allPage) temperatureTable(snap *telemetry.Snapshot) string {
	if len(snap.Temperatures) == 0 {
		return ""
	}
	t := p.ctx.Theme

	lines := []string{t.Section.Render("Temperatures")}
	for _, name := range sortedKeys(snap.Temperatures) {
		c := snap.Temperatures[name]
		lines = append(lines, t.Label.Width(10).Render(name)+
			t.NewStyle().Foreground(t.TempColor(c)).Render(fmt.Sprintf("%6.1fC", c)))
	}
	return strings.Join(lines, "\n")
}

func (p *allPage) powerTable(snap *telemetry.Snapshot) string {
	if len(snap.Power) == 0 {
		return ""
	}
	t := p.ctx.Theme

	lines := []string{t.Section.Render(fmt.Sprintf("%-16s %8s %8s", "Power", "Cur", "Avg"))}
	var cur, avg float64
	for _, name := range sortedKeys(snap.Power) {
		rail := snap.Power[name]
		cur += rail.CurrentMW
		avg += rail.AverageMW
		lines = append(lines, t.Label.Render(fmt.Sprintf("%-16s", name))+
			t.Value.Render(fmt.Sprintf(" %8s %8s", formatMilliwatts(rail.CurrentMW), formatMilliwatts(rail.AverageMW))))
	}
	lines = append(lines, t.Title.Render(fmt.Sprintf("%-16s %8s %8s", "Total", formatMilliwatts(cur), formatMilliwatts(avg))))
	return strings.Join(lines, "\n")
}

// engineLabel maps tegrastats engine names to the labels shown on screen.
func engineLabel(name string) string {
	if name == "GR3D" {
		return "GPU"
	}
	return name
}

func loadAndFreq(load float64, mhz int) string {
	s := fmt.Sprintf("%3.0f%%", load)
	if mhz > 0 {
		s += fmt.Sprintf(" %dMHz", mhz)
	}
	return s
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
