// Package pages holds the dashboard pages.
package pages

import (
	"fmt"

	"github.com/rileyhilliard/jtop/internal/dashboard"
	"github.com/rileyhilliard/jtop/internal/telemetry"
)

// Default returns the pages in menu order.
func Default() []dashboard.PageFactory {
	return []dashboard.PageFactory{NewAll, NewGPU, NewInfo}
}

// latest returns the current snapshot, or an error when the page was built
// without a telemetry source.
func latest(ctx *dashboard.PageContext) (*telemetry.Snapshot, error) {
	if ctx.Telemetry == nil {
		return nil, fmt.Errorf("no telemetry source")
	}
	snap := ctx.Telemetry.Snapshot()
	if snap == nil {
		return &telemetry.Snapshot{}, nil
	}
	return snap, nil
}

func waiting(t *dashboard.Theme) string {
	return t.Muted.Render("Waiting for tegrastats data...")
}
