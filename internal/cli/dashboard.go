package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rileyhilliard/jtop/internal/board"
	"github.com/rileyhilliard/jtop/internal/config"
	"github.com/rileyhilliard/jtop/internal/dashboard"
	"github.com/rileyhilliard/jtop/internal/dashboard/pages"
	"github.com/rileyhilliard/jtop/internal/errors"
	"github.com/rileyhilliard/jtop/internal/logger"
	"github.com/rileyhilliard/jtop/internal/telemetry"
	"github.com/rileyhilliard/jtop/internal/telemetry/parsers"
	"github.com/rileyhilliard/jtop/internal/ui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// isTerminal is swapped in tests.
var isTerminal = term.IsTerminal

// minFirstSampleWait bounds how long startup waits for tegrastats to print.
const minFirstSampleWait = 5 * time.Second

// dashboardCommand starts tegrastats, waits for its first sample and runs
// the dashboard until the user quits or a termination signal arrives.
func dashboardCommand(cmd *cobra.Command, f samplingFlags) error {
	cfg, err := loadConfig(cmd, f)
	if err != nil {
		return err
	}

	if err := requireTerminal(os.Stdin, os.Stdout); err != nil {
		return err
	}

	closer, err := setupLogging(cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	log := logger.NewEnvLogger("[jtop]")
	info := board.Detect("/")
	log.Info("board %q, L4T %s, JetPack %s", info.Machine, info.L4T, info.Jetpack)

	history := telemetry.NewHistory(cfg.History)
	source := newSource(cfg)

	if err := startSource(cmd.Context(), ui.NewSpinner("Waiting for tegrastats"), source, cfg, history); err != nil {
		return err
	}
	defer source.Close()

	engine, err := dashboard.NewEngine(dashboard.Options{
		Pages:     pages.Default(),
		Telemetry: source,
		History:   history,
		Board:     info,
		Elevated:  board.Elevated(),
		Refresh:   cfg.Refresh,
		StartPage: cfg.Page,
		Label:     menuLabel(),
		Logger:    logger.NewEnvLogger("[dashboard]"),
	})
	if err != nil {
		return err
	}

	finished := make(chan struct{})
	defer close(finished)
	go func() {
		// The dashboard keeps showing the last sample; the log says why it froze.
		select {
		case <-source.Done():
			log.Warn("tegrastats exited, dashboard data is no longer updating")
		case <-finished:
		}
	}()

	return engine.Run(cmd.Context())
}

// newSource builds the tegrastats source described by cfg.
func newSource(cfg *config.Config) *telemetry.Source {
	return telemetry.NewSource(telemetry.Config{
		Path:   cfg.Tegrastats.Path,
		Decode: parsers.ParseTegrastats,
		Logger: logger.NewEnvLogger("[telemetry]"),
	})
}

// startSource opens src behind spinner and feeds history from the first
// sample on. The spinner is skipped when the user interrupts startup.
func startSource(ctx context.Context, spinner *ui.Spinner, src *telemetry.Source, cfg *config.Config, history *telemetry.History) error {
	spinner.Start()
	if err := openSource(ctx, src, cfg); err != nil {
		if errors.Is(err, context.Canceled) {
			spinner.Skip()
		} else {
			spinner.Fail()
		}
		return err
	}
	spinner.SetLabel(fmt.Sprintf("tegrastats running (pid %d)", src.PID()))
	spinner.Success()

	// Observers only see samples published after they attach.
	history.Update(src.Snapshot())
	src.Attach(history)
	return nil
}

// openSource opens src, giving up after a few sampling intervals or when
// the user interrupts startup.
func openSource(ctx context.Context, src *telemetry.Source, cfg *config.Config, observers ...telemetry.Observer) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithTimeout(ctx, firstSampleWait(cfg.Tegrastats.Interval))
	defer cancel()

	return src.Open(ctx, cfg.Tegrastats.Interval, observers...)
}

// firstSampleWait is how long to wait for the first sample: ten intervals,
// but never less than minFirstSampleWait.
func firstSampleWait(interval time.Duration) time.Duration {
	if wait := 10 * interval; wait > minFirstSampleWait {
		return wait
	}
	return minFirstSampleWait
}

// requireTerminal fails unless both streams are terminals.
func requireTerminal(in, out *os.File) error {
	if isTerminal(int(in.Fd())) && isTerminal(int(out.Fd())) {
		return nil
	}
	return errors.New(errors.ErrTerminal,
		"jtop needs an interactive terminal",
		"Use 'jtop stats' to print samples without the dashboard")
}

// setupLogging routes the standard logger to the configured file, or
// discards it, for as long as the returned closer is open.
func setupLogging(cfg *config.Config) (io.Closer, error) {
	closer, err := logger.Setup(logger.FileOptions{
		Path:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		Debug:      cfg.Log.Debug,
	})
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Can't open log file "+cfg.Log.File,
			"Check log.file points somewhere writable")
	}
	return closer, nil
}

func menuLabel() string {
	return "jtop " + formatVersion(version)
}
