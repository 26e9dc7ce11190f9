package cli

import (
	"time"

	"github.com/rileyhilliard/jtop/internal/config"
	"github.com/spf13/cobra"
)

// samplingFlags holds the flags that override config keys. Zero values mean
// "not given"; applyFlags only looks at flags the user actually set.
type samplingFlags struct {
	Tegrastats string
	Interval   time.Duration
	Refresh    time.Duration
	Page       int
}

// addSamplingFlags registers --tegrastats and --interval.
func addSamplingFlags(cmd *cobra.Command, f *samplingFlags) {
	cmd.Flags().StringVar(&f.Tegrastats, "tegrastats", "", "path to the tegrastats binary")
	cmd.Flags().DurationVar(&f.Interval, "interval", 0, "tegrastats sampling interval (e.g., 500ms, 1s)")
}

// addDashboardFlags registers --refresh and --page.
func addDashboardFlags(cmd *cobra.Command, f *samplingFlags) {
	cmd.Flags().DurationVar(&f.Refresh, "refresh", 0, "dashboard frame period (e.g., 250ms)")
	cmd.Flags().IntVar(&f.Page, "page", 0, "page shown at startup, from 1")
}

// applyFlags copies explicitly set flags over the loaded config.
func applyFlags(cmd *cobra.Command, cfg *config.Config, f samplingFlags) {
	flags := cmd.Flags()
	if flags.Changed("tegrastats") {
		cfg.Tegrastats.Path = config.ExpandPath(f.Tegrastats)
	}
	if flags.Changed("interval") {
		cfg.Tegrastats.Interval = f.Interval
	}
	if flags.Changed("refresh") {
		cfg.Refresh = f.Refresh
	}
	if flags.Changed("page") {
		cfg.Page = f.Page
	}
}

// loadConfig loads the config for cmd, applies its flags and validates the
// result.
func loadConfig(cmd *cobra.Command, f samplingFlags) (*config.Config, error) {
	cfg, _, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		return nil, err
	}
	applyFlags(cmd, cfg, f)
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
