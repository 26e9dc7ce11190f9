package cli

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"sync"
	"syscall"

	"github.com/rileyhilliard/jtop/internal/errors"
	"github.com/rileyhilliard/jtop/internal/telemetry"
	"github.com/spf13/cobra"
)

var (
	statsFlags samplingFlags
	statsCount int
	statsJSON  bool
)

// statsCmd prints samples without the dashboard.
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print tegrastats samples without the dashboard",
	Long: `Start tegrastats and print one summary line per sample. Works without a
terminal, so it can be piped or run over a plain SSH session.

Examples:
  jtop stats
  jtop stats --count 1
  jtop stats --json | jq .data.ram`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		err := statsCommand(cmd, statsFlags, statsCount, statsJSON)
		if err != nil && statsJSON {
			_ = WriteJSONFromError(cmd.OutOrStdout(), err)
		}
		return err
	},
}

func init() {
	addSamplingFlags(statsCmd, &statsFlags)
	statsCmd.Flags().IntVarP(&statsCount, "count", "n", 0, "stop after this many samples (0 runs until interrupted)")
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "print one JSON object per sample")
	rootCmd.AddCommand(statsCmd)
}

// statsCommand opens tegrastats and prints samples until count is reached,
// tegrastats exits or the command is interrupted.
func statsCommand(cmd *cobra.Command, f samplingFlags, count int, asJSON bool) error {
	cfg, err := loadConfig(cmd, f)
	if err != nil {
		return err
	}

	closer, err := setupLogging(cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	p := newSamplePrinter(cmd.OutOrStdout(), count, asJSON)
	source := newSource(cfg)

	if err := openSource(cmd.Context(), source, cfg); err != nil {
		return err
	}
	defer source.Close()

	// The first sample is published before anything is attached, so print
	// it directly, then follow along through an observer.
	p.Update(source.Snapshot())
	source.Attach(telemetry.Func(p.Update))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case <-p.Done():
	case <-ctx.Done():
	case <-source.Done():
		if count > 0 && p.Printed() < count {
			return errors.New(errors.ErrExited,
				fmt.Sprintf("tegrastats exited after %d of %d samples", p.Printed(), count),
				"Run tegrastats manually to check it keeps running")
		}
	}
	return p.Err()
}

// samplePrinter writes each snapshot it sees until it has printed count of
// them. It is called from the tegrastats reader goroutine.
type samplePrinter struct {
	mu      sync.Mutex
	w       io.Writer
	json    bool
	limit   int
	printed int
	err     error
	done    chan struct{}
}

func newSamplePrinter(w io.Writer, limit int, asJSON bool) *samplePrinter {
	return &samplePrinter{w: w, json: asJSON, limit: limit, done: make(chan struct{})}
}

// Update prints s. It is a telemetry observer callback.
func (p *samplePrinter) Update(s *telemetry.Snapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.finished() || s.Empty() {
		return
	}

	if p.json {
		p.err = writeJSONLine(p.w, s)
	} else {
		_, p.err = fmt.Fprintln(p.w, formatSummary(s))
	}
	p.printed++

	if p.err != nil || (p.limit > 0 && p.printed >= p.limit) {
		close(p.done)
	}
}

func (p *samplePrinter) finished() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

// Done is closed once the limit is reached or a write fails.
func (p *samplePrinter) Done() <-chan struct{} { return p.done }

// Printed returns the number of samples written.
func (p *samplePrinter) Printed() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.printed
}

// Err returns the write error that stopped the printer, if any.
func (p *samplePrinter) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// formatSummary renders a snapshot as a single line, e.g.
// "RAM 2.0G/3.9G | CPU 12% x4 | GPU 45%@76MHz | CPU 31.5C | 2242mW".
func formatSummary(s *telemetry.Snapshot) string {
	var parts []string

	if s.RAM != nil {
		parts = append(parts, fmt.Sprintf("RAM %s/%s", shortBytes(s.RAM.UsedBytes), shortBytes(s.RAM.TotalBytes)))
	}
	if s.Swap != nil && s.Swap.TotalBytes > 0 {
		parts = append(parts, fmt.Sprintf("SWAP %s/%s", shortBytes(s.Swap.UsedBytes), shortBytes(s.Swap.TotalBytes)))
	}
	if load, online := s.CPULoad(); online > 0 {
		parts = append(parts, fmt.Sprintf("CPU %.0f%% x%d", load, online))
	}
	for _, name := range s.EngineNames() {
		e := s.Engines[name]
		if !e.HasLoad {
			continue
		}
		label := name
		if name == "GR3D" {
			label = "GPU"
		}
		part := fmt.Sprintf("%s %.0f%%", label, e.Load)
		if e.FrequencyMHz > 0 {
			part += fmt.Sprintf("@%dMHz", e.FrequencyMHz)
		}
		parts = append(parts, part)
	}
	if len(s.Temperatures) > 0 {
		names := make([]string, 0, len(s.Temperatures))
		for name := range s.Temperatures {
			names = append(names, name)
		}
		sort.Strings(names)
		temps := make([]string, 0, len(names))
		for _, name := range names {
			temps = append(temps, fmt.Sprintf("%s %.1fC", name, s.Temperatures[name]))
		}
		parts = append(parts, strings.Join(temps, " "))
	}
	if len(s.Power) > 0 {
		var total float64
		for _, rail := range s.Power {
			total += rail.CurrentMW
		}
		parts = append(parts, fmt.Sprintf("%.0fmW", total))
	}

	return strings.Join(parts, " | ")
}

// shortBytes formats a byte count with one decimal and a single-letter unit.
func shortBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%dB", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit && exp < 4; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f%c", float64(b)/float64(div), "KMGTP"[exp])
}
