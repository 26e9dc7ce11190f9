package doctor

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rileyhilliard/jtop/internal/board"
	"github.com/rileyhilliard/jtop/internal/dashboard"
)

// TegrastatsCheck verifies the tegrastats binary exists and is executable.
type TegrastatsCheck struct {
	Path string
}

func (c *TegrastatsCheck) Name() string     { return "tegrastats_binary" }
func (c *TegrastatsCheck) Category() string { return CategoryTegrastats }

func (c *TegrastatsCheck) Run() CheckResult {
	info, err := os.Stat(c.Path)
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("tegrastats not found at %s", c.Path),
			Suggestion: "jtop needs an NVIDIA Jetson with L4T; set tegrastats.path if it lives elsewhere",
		}
	}
	if info.IsDir() || info.Mode().Perm()&0o111 == 0 {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("%s is not executable", c.Path),
			Suggestion: "Check the file mode: chmod +x " + c.Path,
		}
	}
	return pass(c.Name(), "tegrastats: "+c.Path)
}

func (c *TegrastatsCheck) Fix() error { return nil }

// BoardCheck verifies the device-tree model and L4T release can be read
// under Root ("/" on a real board).
type BoardCheck struct {
	Root string
}

func (c *BoardCheck) Name() string     { return "board_identity" }
func (c *BoardCheck) Category() string { return CategoryBoard }

func (c *BoardCheck) Run() CheckResult {
	info := board.Detect(c.Root)
	switch {
	case info.Machine == board.Unknown:
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    "Board model unknown",
			Suggestion: "Couldn't read /" + board.ModelPath + "; this may not be a Jetson",
		}
	case info.L4T == board.Unknown:
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    info.Machine + ", L4T release unknown",
			Suggestion: "Couldn't parse /" + board.ReleasePath,
		}
	case info.Jetpack == board.Unknown:
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    fmt.Sprintf("%s, L4T %s has no known JetPack release", info.Machine, info.L4T),
			Suggestion: "The header shows UNKNOWN for JetPack; everything else works",
		}
	}
	return pass(c.Name(), fmt.Sprintf("%s (L4T %s, JetPack %s)", info.Machine, info.L4T, info.Jetpack))
}

func (c *BoardCheck) Fix() error { return nil }

// PrivilegeCheck warns when not running as root, since some rails and
// clocks are hidden from unprivileged tegrastats.
type PrivilegeCheck struct {
	Elevated func() bool
}

func (c *PrivilegeCheck) Name() string     { return "privileges" }
func (c *PrivilegeCheck) Category() string { return CategoryBoard }

func (c *PrivilegeCheck) Run() CheckResult {
	elevated := board.Elevated
	if c.Elevated != nil {
		elevated = c.Elevated
	}
	if !elevated() {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    "Running without root",
			Suggestion: "Run 'sudo jtop' to see every power rail and clock",
		}
	}
	return pass(c.Name(), "Running as root")
}

func (c *PrivilegeCheck) Fix() error { return nil }

// TerminalCheck verifies stdout is a terminal at least as large as the
// dashboard's minimum size.
type TerminalCheck struct {
	// Size returns the terminal size or an error when stdout is not a terminal.
	Size func() (width, height int, err error)
}

func (c *TerminalCheck) Name() string     { return "terminal_size" }
func (c *TerminalCheck) Category() string { return CategoryTerminal }

func (c *TerminalCheck) Run() CheckResult {
	if c.Size == nil {
		return CheckResult{Name: c.Name(), Status: StatusWarn, Message: "Terminal size unknown"}
	}
	w, h, err := c.Size()
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    "Not running in a terminal",
			Suggestion: "The dashboard needs a terminal; 'jtop stats' works without one",
		}
	}
	if w < dashboard.MinWidth || h < dashboard.MinHeight {
		return CheckResult{
			Name:   c.Name(),
			Status: StatusWarn,
			Message: fmt.Sprintf("Terminal is %dx%d, the dashboard needs %dx%d",
				w, h, dashboard.MinWidth, dashboard.MinHeight),
			Suggestion: "Enlarge the window before starting jtop",
		}
	}
	return pass(c.Name(), fmt.Sprintf("Terminal %dx%d", w, h))
}

func (c *TerminalCheck) Fix() error { return nil }

// SystemChecks configures the checks that look at the machine.
type SystemChecks struct {
	TegrastatsPath string
	Root           string
	Elevated       func() bool
	TerminalSize   func() (int, int, error)
}

// NewSystemChecks returns the tegrastats, board and terminal checks.
func NewSystemChecks(opts SystemChecks) []Check {
	root := opts.Root
	if root == "" {
		root = string(filepath.Separator)
	}
	return []Check{
		&TegrastatsCheck{Path: opts.TegrastatsPath},
		&BoardCheck{Root: root},
		&PrivilegeCheck{Elevated: opts.Elevated},
		&TerminalCheck{Size: opts.TerminalSize},
	}
}

func firstLine(s string) string {
	s = strings.TrimPrefix(strings.TrimSpace(s), "✗ ")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
