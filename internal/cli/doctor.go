package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/jtop/internal/config"
	"github.com/rileyhilliard/jtop/internal/doctor"
	"github.com/rileyhilliard/jtop/internal/errors"
	"github.com/rileyhilliard/jtop/internal/ui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	doctorJSON bool
	doctorFix  bool
)

// doctorCmd diagnoses config and board issues
var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose config, tegrastats and board issues",
	Long: `Run diagnostic checks to find out why the dashboard won't start
or shows less than expected.

Checks:
  - Config file location and validity
  - tegrastats binary
  - Board model, L4T and JetPack release
  - Root privileges
  - Terminal size

Examples:
  jtop doctor
  jtop doctor --fix
  jtop doctor --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return doctorCommand(cmd.OutOrStdout(), doctorOptions{
			JSON:         doctorJSON,
			Fix:          doctorFix,
			Root:         "/",
			TerminalSize: stdoutSize,
		})
	},
}

func init() {
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false, "output in JSON format")
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false, "attempt automatic fixes where possible")
	rootCmd.AddCommand(doctorCmd)
}

// DoctorOutput represents the JSON output for doctor command.
type DoctorOutput struct {
	Categories []CategoryOutput `json:"categories"`
	Summary    SummaryOutput    `json:"summary"`
}

// CategoryOutput represents a category of check results.
type CategoryOutput struct {
	Name    string               `json:"name"`
	Results []doctor.CheckResult `json:"results"`
}

// SummaryOutput summarizes the check results.
type SummaryOutput struct {
	Pass     int  `json:"pass"`
	Warn     int  `json:"warn"`
	Fail     int  `json:"fail"`
	Fixable  int  `json:"fixable"`
	AllClear bool `json:"all_clear"`
}

type doctorOptions struct {
	JSON         bool
	Fix          bool
	Root         string
	Elevated     func() bool
	TerminalSize func() (int, int, error)
}

// doctorCommand implements the doctor command logic. It fails only when a
// check fails; warnings still exit zero.
func doctorCommand(w io.Writer, opts doctorOptions) error {
	checks := collectChecks(opts)
	results := doctor.RunAllParallel(checks)

	if opts.Fix {
		results = doctor.AttemptFixes(checks, results)
	}

	var err error
	if opts.JSON {
		err = outputDoctorJSON(w, checks, results)
	} else {
		err = outputDoctorText(w, checks, results, opts.Fix)
	}
	if err != nil {
		return err
	}

	if doctor.HasFailures(results) {
		return errors.New(errors.ErrConfig,
			doctor.Summary(results),
			"Fix the failing checks above and run 'jtop doctor' again")
	}
	return nil
}

// collectChecks gathers every diagnostic check. The tegrastats path comes
// from the effective config, falling back to the default when the config
// itself is broken.
func collectChecks(opts doctorOptions) []doctor.Check {
	tegrastats := config.DefaultTegrastatsPath
	if cfg, _, err := config.LoadOrDefault(cfgFile); err == nil {
		tegrastats = cfg.Tegrastats.Path
	}

	checks := doctor.NewConfigChecks(cfgFile)
	checks = append(checks, doctor.NewSystemChecks(doctor.SystemChecks{
		TegrastatsPath: tegrastats,
		Root:           opts.Root,
		Elevated:       opts.Elevated,
		TerminalSize:   opts.TerminalSize,
	})...)
	return checks
}

func stdoutSize() (int, int, error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

// outputDoctorJSON writes results grouped by category in check order.
func outputDoctorJSON(w io.Writer, checks []doctor.Check, results []doctor.CheckResult) error {
	grouped := doctor.GroupByCategory(checks)

	output := DoctorOutput{
		Categories: make([]CategoryOutput, 0, len(grouped)),
	}
	for _, cat := range doctor.CategoryOrder {
		indices, ok := grouped[cat]
		if !ok {
			continue
		}
		out := CategoryOutput{Name: cat, Results: make([]doctor.CheckResult, 0, len(indices))}
		for _, idx := range indices {
			out.Results = append(out.Results, results[idx])
		}
		output.Categories = append(output.Categories, out)
	}

	counts := doctor.CountByStatus(results)
	output.Summary = SummaryOutput{
		Pass:     counts[doctor.StatusPass],
		Warn:     counts[doctor.StatusWarn],
		Fail:     counts[doctor.StatusFail],
		Fixable:  doctor.FixableCount(results),
		AllClear: !doctor.HasIssues(results),
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}

type doctorStyles struct {
	success, err, warn, muted, header lipgloss.Style
}

func newDoctorStyles(w io.Writer) doctorStyles {
	r := lipgloss.NewRenderer(w)
	return doctorStyles{
		success: r.NewStyle().Foreground(ui.ColorSuccess),
		err:     r.NewStyle().Foreground(ui.ColorError),
		warn:    r.NewStyle().Foreground(ui.ColorWarning),
		muted:   r.NewStyle().Foreground(ui.ColorMuted),
		header:  r.NewStyle().Bold(true),
	}
}

// outputDoctorText writes the human-readable report.
func outputDoctorText(w io.Writer, checks []doctor.Check, results []doctor.CheckResult, fixed bool) error {
	s := newDoctorStyles(w)
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(s.header.Render("jtop Diagnostic Report"))
	b.WriteString("\n\n")

	grouped := doctor.GroupByCategory(checks)
	for _, category := range doctor.CategoryOrder {
		indices, ok := grouped[category]
		if !ok || len(indices) == 0 {
			continue
		}

		b.WriteString(s.header.Render(category))
		b.WriteString("\n")
		for _, idx := range indices {
			renderCheckResult(&b, results[idx], s)
		}
		b.WriteString("\n")
	}

	b.WriteString(strings.Repeat("━", 60))
	b.WriteString("\n\n")

	if !doctor.HasIssues(results) {
		fmt.Fprintf(&b, "%s %s\n", s.success.Render(ui.SymbolSuccess), doctor.Summary(results))
	} else {
		fmt.Fprintf(&b, "%s %s\n", s.err.Render(ui.SymbolFail), doctor.Summary(results))
		if doctor.FixableCount(results) > 0 && !fixed {
			fmt.Fprintf(&b, "\n  Run with %s to attempt automatic fixes where possible.\n",
				s.muted.Render("--fix"))
		}
	}
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// renderCheckResult renders a single check result.
func renderCheckResult(b *strings.Builder, result doctor.CheckResult, s doctorStyles) {
	symbol, style := ui.SymbolSuccess, s.success
	switch result.Status {
	case doctor.StatusWarn:
		symbol, style = ui.SymbolPending, s.warn
	case doctor.StatusFail:
		symbol, style = ui.SymbolFail, s.err
	}

	fmt.Fprintf(b, "  %s %s\n", style.Render(symbol), result.Message)

	if result.Suggestion != "" && result.Status != doctor.StatusPass {
		for _, line := range strings.Split(result.Suggestion, "\n") {
			fmt.Fprintf(b, "    %s\n", s.muted.Render(line))
		}
	}
}
