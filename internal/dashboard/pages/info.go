package pages

import (
	"fmt"
	"strings"

	"github.com/rileyhilliard/jtop/internal/dashboard"
)

type infoPage struct {
	ctx *dashboard.PageContext
}

// NewInfo builds the board information page.
func NewInfo(ctx *dashboard.PageContext) dashboard.Page {
	return &infoPage{ctx: ctx}
}

func (p *infoPage) Name() string { return "INFO" }

func (p *infoPage) Draw(_ dashboard.Key, _ dashboard.Mouse) (string, error) {
	snap, err := latest(p.ctx)
	if err != nil {
		return "", err
	}
	t := p.ctx.Theme
	b := p.ctx.Board

	rows := [][2]string{
		{"Machine", b.Machine},
		{"Jetpack", b.Jetpack},
		{"L4T", b.L4T},
		{"Hostname", b.Hostname},
		{"Sampling", p.ctx.Telemetry.Interval().String()},
		{"Refresh", p.ctx.Refresh.String()},
		{"Privileges", privileges(p.ctx.Screen.Elevated)},
	}
	if groups := snap.Groups(); len(groups) > 0 {
		rows = append(rows, [2]string{"Groups", strings.Join(groups, " ")})
	}
	if load, online := snap.CPULoad(); online > 0 {
		rows = append(rows, [2]string{"CPU", fmt.Sprintf("%d/%d online, %.0f%% avg", online, len(snap.CPU), load)})
	}

	lines := []string{t.Section.Render("Board"), ""}
	for _, r := range rows {
		lines = append(lines, t.Label.Width(12).Render(r[0])+t.Value.Render(r[1]))
	}
	return strings.Join(lines, "\n"), nil
}

func privileges(elevated bool) string {
	if elevated {
		return "root"
	}
	return "user (run with sudo for all rails and clocks)"
}
