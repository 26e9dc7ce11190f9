package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/rileyhilliard/jtop/internal/config"
	"github.com/rileyhilliard/jtop/internal/errors"
	"github.com/rileyhilliard/jtop/internal/telemetry"
	"github.com/rileyhilliard/jtop/internal/ui"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleLine = "RAM 2350/3964MB (lfb 193x4MB) SWAP 0/1982MB (cached 0MB) " +
	"CPU [10%@1428,30%@1428,off,off] EMC_FREQ 0%@1600 GR3D_FREQ 45%@76 " +
	"CPU@31.5C GPU@30.5C POM_5V_IN 2242/2242 POM_5V_CPU 406/406"

// isolate runs the test in an empty directory with an empty HOME, so no
// config file on the machine running the tests is picked up.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", t.TempDir())
	return dir
}

// fakeTegrastats writes a shell script that prints sampleLine lines times
// and exits.
func fakeTegrastats(t *testing.T, lines int) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("needs a POSIX shell")
	}
	script := "#!/bin/sh\n"
	for i := 0; i < lines; i++ {
		script += "echo '" + sampleLine + "'\n"
	}
	path := filepath.Join(t.TempDir(), "tegrastats")
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func newTestCmd(t *testing.T, f *samplingFlags) (*cobra.Command, *bytes.Buffer) {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	addSamplingFlags(cmd, f)
	addDashboardFlags(cmd, f)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetContext(context.Background())
	return cmd, &out
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	var names []string
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"stats", "init", "doctor", "version", "completion"} {
		assert.Contains(t, names, want)
	}

	for _, flag := range []string{"tegrastats", "interval", "refresh", "page"} {
		assert.NotNil(t, rootCmd.Flags().Lookup(flag), flag)
	}
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("config"))
}

func TestWriteCompletion(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, writeCompletion(rootCmd, shell, &buf))
			assert.Contains(t, buf.String(), "jtop")
		})
	}

	err := writeCompletion(rootCmd, "tcsh", &bytes.Buffer{})
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestFormatError(t *testing.T) {
	coded := errors.New(errors.ErrTerminal, "jtop needs an interactive terminal", "Use 'jtop stats'")
	assert.Equal(t, coded.Error(), formatError(coded))

	plain := formatError(assert.AnError)
	assert.True(t, strings.HasPrefix(plain, "✗ "))
	assert.Contains(t, plain, "jtop --help")
}

func TestApplyFlags(t *testing.T) {
	var f samplingFlags
	cmd, _ := newTestCmd(t, &f)
	require.NoError(t, cmd.Flags().Set("interval", "1s"))
	require.NoError(t, cmd.Flags().Set("page", "3"))

	cfg := config.DefaultConfig()
	applyFlags(cmd, cfg, f)

	assert.Equal(t, time.Second, cfg.Tegrastats.Interval)
	assert.Equal(t, 3, cfg.Page)
	// Unset flags keep the config values.
	assert.Equal(t, config.DefaultRefresh, cfg.Refresh)
	assert.Equal(t, config.DefaultTegrastatsPath, cfg.Tegrastats.Path)
}

func TestLoadConfig(t *testing.T) {
	t.Run("file then env then flags", func(t *testing.T) {
		dir := isolate(t)
		require.NoError(t, os.WriteFile(filepath.Join(dir, config.ConfigFileName),
			[]byte("refresh: 250ms\npage: 2\nhistory: 10\n"), 0o644))
		t.Setenv("JTOP_PAGE", "3")

		var f samplingFlags
		cmd, _ := newTestCmd(t, &f)
		require.NoError(t, cmd.Flags().Set("refresh", "100ms"))

		cfg, err := loadConfig(cmd, f)
		require.NoError(t, err)
		assert.Equal(t, 100*time.Millisecond, cfg.Refresh)
		assert.Equal(t, 3, cfg.Page)
		assert.Equal(t, 10, cfg.History)
	})

	t.Run("invalid flag value", func(t *testing.T) {
		isolate(t)
		var f samplingFlags
		cmd, _ := newTestCmd(t, &f)
		require.NoError(t, cmd.Flags().Set("interval", "10ms"))

		_, err := loadConfig(cmd, f)
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrConfig))
	})
}

func TestFirstSampleWait(t *testing.T) {
	assert.Equal(t, minFirstSampleWait, firstSampleWait(100*time.Millisecond))
	assert.Equal(t, 20*time.Second, firstSampleWait(2*time.Second))
}

func TestRequireTerminal(t *testing.T) {
	orig := isTerminal
	defer func() { isTerminal = orig }()

	isTerminal = func(int) bool { return true }
	assert.NoError(t, requireTerminal(os.Stdin, os.Stdout))

	isTerminal = func(fd int) bool { return fd != int(os.Stdout.Fd()) }
	err := requireTerminal(os.Stdin, os.Stdout)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrTerminal))
	assert.Contains(t, err.Error(), "jtop stats")
}

func TestSetupLogging(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Log.File = filepath.Join(t.TempDir(), "logs", "jtop.log")

	closer, err := setupLogging(cfg)
	require.NoError(t, err)
	require.NoError(t, closer.Close())
	assert.DirExists(t, filepath.Dir(cfg.Log.File))
}

func TestDashboardCommand_NoTerminal(t *testing.T) {
	isolate(t)
	orig := isTerminal
	defer func() { isTerminal = orig }()
	isTerminal = func(int) bool { return false }

	var f samplingFlags
	cmd, _ := newTestCmd(t, &f)

	err := dashboardCommand(cmd, f)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrTerminal))
}

func TestStatsCommand(t *testing.T) {
	t.Run("one sample", func(t *testing.T) {
		isolate(t)
		var f samplingFlags
		cmd, out := newTestCmd(t, &f)
		require.NoError(t, cmd.Flags().Set("tegrastats", fakeTegrastats(t, 3)))

		require.NoError(t, statsCommand(cmd, f, 1, false))
		lines := strings.Split(strings.TrimSpace(out.String()), "\n")
		require.Len(t, lines, 1)
		assert.Contains(t, lines[0], "RAM 2.3G/3.9G")
		assert.Contains(t, lines[0], "GPU 45%@76MHz")
	})

	t.Run("json", func(t *testing.T) {
		isolate(t)
		var f samplingFlags
		cmd, out := newTestCmd(t, &f)
		require.NoError(t, cmd.Flags().Set("tegrastats", fakeTegrastats(t, 1)))

		require.NoError(t, statsCommand(cmd, f, 1, true))

		var env struct {
			Success bool `json:"success"`
			Data    struct {
				RAM struct {
					TotalBytes int64 `json:"total_bytes"`
				} `json:"ram"`
				Engines map[string]json.RawMessage `json:"engines"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(out.Bytes(), &env))
		assert.True(t, env.Success)
		assert.Equal(t, int64(3964<<20), env.Data.RAM.TotalBytes)
		assert.Contains(t, env.Data.Engines, "GR3D")
	})

	t.Run("tegrastats exits early", func(t *testing.T) {
		isolate(t)
		var f samplingFlags
		cmd, _ := newTestCmd(t, &f)
		require.NoError(t, cmd.Flags().Set("tegrastats", fakeTegrastats(t, 1)))

		err := statsCommand(cmd, f, 5, false)
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrExited))
	})

	t.Run("missing tegrastats", func(t *testing.T) {
		isolate(t)
		var f samplingFlags
		cmd, _ := newTestCmd(t, &f)
		require.NoError(t, cmd.Flags().Set("tegrastats", filepath.Join(t.TempDir(), "nope")))

		err := statsCommand(cmd, f, 1, false)
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrProcess))
	})
}

func TestStartSource(t *testing.T) {
	newSpinner := func() (*ui.Spinner, *bytes.Buffer) {
		var buf bytes.Buffer
		s := ui.NewSpinner("Waiting for tegrastats")
		s.SetOutput(&buf)
		return s, &buf
	}

	t.Run("seeds history with the first sample", func(t *testing.T) {
		isolate(t)
		cfg := config.DefaultConfig()
		cfg.Tegrastats.Path = fakeTegrastats(t, 1)
		src := newSource(cfg)
		defer src.Close()
		history := telemetry.NewHistory(cfg.History)
		spinner, out := newSpinner()

		require.NoError(t, startSource(context.Background(), spinner, src, cfg, history))

		assert.Equal(t, ui.SpinnerSuccess, spinner.State())
		assert.Contains(t, out.String(), "tegrastats running (pid ")
		assert.Equal(t, 1, history.Len(telemetry.SeriesRAM))
		assert.Equal(t, 1, history.Len(telemetry.SeriesGPU))
	})

	t.Run("missing binary fails the spinner", func(t *testing.T) {
		isolate(t)
		cfg := config.DefaultConfig()
		cfg.Tegrastats.Path = filepath.Join(t.TempDir(), "nope")
		history := telemetry.NewHistory(cfg.History)
		spinner, out := newSpinner()

		err := startSource(context.Background(), spinner, newSource(cfg), cfg, history)
		require.Error(t, err)
		assert.Equal(t, ui.SpinnerFailed, spinner.State())
		assert.Contains(t, out.String(), ui.SymbolFail)
		assert.Zero(t, history.Len(telemetry.SeriesRAM))
	})

	t.Run("interrupted startup skips the spinner", func(t *testing.T) {
		if runtime.GOOS == "windows" {
			t.Skip("needs a POSIX shell")
		}
		isolate(t)
		path := filepath.Join(t.TempDir(), "tegrastats")
		require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\nexec sleep 30\n"), 0o755))

		cfg := config.DefaultConfig()
		cfg.Tegrastats.Path = path
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		spinner, _ := newSpinner()

		err := startSource(ctx, spinner, newSource(cfg), cfg, telemetry.NewHistory(cfg.History))
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, ui.SpinnerSkipped, spinner.State())
	})
}
