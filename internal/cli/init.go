package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/rileyhilliard/jtop/internal/config"
	"github.com/rileyhilliard/jtop/internal/dashboard"
	"github.com/rileyhilliard/jtop/internal/dashboard/pages"
	"github.com/rileyhilliard/jtop/internal/errors"
	"github.com/rileyhilliard/jtop/internal/ui"
	"github.com/spf13/cobra"
)

// InitOptions holds options for the init command.
type InitOptions struct {
	Global         bool // write ~/.config/jtop/config.yaml instead of ./.jtop.yaml
	Overwrite      bool // overwrite an existing file without asking
	NonInteractive bool // skip prompts, write defaults
}

var initOpts InitOptions

// initCmd writes a config file
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a jtop config file",
	Long: `Create a config file with the sampling interval, refresh rate, start page
and log settings. Prompts for each value unless --non-interactive is given.

Examples:
  jtop init
  jtop init --global
  jtop init --non-interactive --force`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Init(cmd, initOpts)
	},
}

func init() {
	initCmd.Flags().BoolVar(&initOpts.Global, "global", false, "write ~/.config/jtop/config.yaml")
	initCmd.Flags().BoolVarP(&initOpts.Overwrite, "force", "f", false, "overwrite existing config")
	initCmd.Flags().BoolVar(&initOpts.NonInteractive, "non-interactive", false, "write defaults without prompting")
	rootCmd.AddCommand(initCmd)
}

// initAnswers holds form values as strings, the way huh inputs edit them.
type initAnswers struct {
	TegrastatsPath string
	Interval       string
	Refresh        string
	Page           string
	LogFile        string
	Debug          bool
}

// Init creates a new config file.
func Init(cmd *cobra.Command, opts InitOptions) error {
	path, err := initPath(opts.Global)
	if err != nil {
		return err
	}

	if _, err := os.Stat(path); err == nil && !opts.Overwrite {
		if opts.NonInteractive {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Config file already exists: %s", path),
				"Use --force to overwrite")
		}

		var overwrite bool
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Config file '%s' already exists. Overwrite?", path)).
					Value(&overwrite),
			),
		)
		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Try running with --force to overwrite")
		}
		if !overwrite {
			cmd.Println("Cancelled.")
			return nil
		}
	}

	answers := defaultAnswers(config.DefaultConfig())
	if !opts.NonInteractive {
		if err := newInitForm(&answers).Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Check terminal compatibility or use --non-interactive")
		}
	}

	cfg, err := answers.config()
	if err != nil {
		return err
	}

	if err := config.Write(path, cfg); err != nil {
		return err
	}

	cmd.Printf("%s Wrote %s\n", ui.SymbolSuccess, path)
	if _, err := os.Stat(cfg.Tegrastats.Path); err != nil {
		cmd.Printf("%s %s was not found; jtop only runs on a Jetson with L4T installed\n",
			ui.SymbolSkipped, cfg.Tegrastats.Path)
	}
	return nil
}

// initPath returns where init writes: ./.jtop.yaml or the global file.
func initPath(global bool) (string, error) {
	if !global {
		return filepath.Join(".", config.ConfigFileName), nil
	}
	path := config.GlobalPath()
	if path == "" {
		return "", errors.New(errors.ErrConfig,
			"Can't determine your home directory",
			"Set HOME, or run 'jtop init' without --global")
	}
	return path, nil
}

func defaultAnswers(cfg *config.Config) initAnswers {
	return initAnswers{
		TegrastatsPath: cfg.Tegrastats.Path,
		Interval:       cfg.Tegrastats.Interval.String(),
		Refresh:        cfg.Refresh.String(),
		Page:           strconv.Itoa(cfg.Page),
		LogFile:        cfg.Log.File,
		Debug:          cfg.Log.Debug,
	}
}

// config converts the answers into a validated Config.
func (a initAnswers) config() (*config.Config, error) {
	cfg := config.DefaultConfig()
	cfg.Tegrastats.Path = strings.TrimSpace(a.TegrastatsPath)
	cfg.Log.File = strings.TrimSpace(a.LogFile)
	cfg.Log.Debug = a.Debug

	var err error
	if cfg.Tegrastats.Interval, err = parseAnswerDuration("interval", a.Interval); err != nil {
		return nil, err
	}
	if cfg.Refresh, err = parseAnswerDuration("refresh", a.Refresh); err != nil {
		return nil, err
	}
	if cfg.Page, err = strconv.Atoi(a.Page); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("'%s' is not a page number", a.Page),
			"Pages are numbered from 1")
	}

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseAnswerDuration(field, s string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return 0, errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("'%s' doesn't look like a valid %s", s, field),
			"Try something like 250ms, 500ms or 1s.")
	}
	return d, nil
}

// newInitForm builds the interactive prompts, writing into a.
func newInitForm(a *initAnswers) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("tegrastats binary").
				Description("jtop runs it in the background to collect samples").
				Placeholder(config.DefaultTegrastatsPath).
				Value(&a.TegrastatsPath).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("tegrastats path is required")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Sampling interval").
				Options(huh.NewOptions("100ms", "250ms", "500ms", "1s", "2s", "5s")...).
				Value(&a.Interval),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Dashboard refresh").
				Description("How often the screen is redrawn, independent of sampling").
				Placeholder(config.DefaultRefresh.String()).
				Value(&a.Refresh).
				Validate(minDuration(config.MinRefresh)),
			huh.NewSelect[string]().
				Title("Start page").
				Options(pageOptions()...).
				Value(&a.Page),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Log file (optional)").
				Description("Diagnostics are discarded while the dashboard runs unless this is set").
				Placeholder("~/.cache/jtop/jtop.log").
				Value(&a.LogFile),
			huh.NewConfirm().
				Title("Log debug messages?").
				Value(&a.Debug),
		),
	)
}

// minDuration validates a duration input against a lower bound.
func minDuration(floor time.Duration) func(string) error {
	return func(s string) error {
		d, err := time.ParseDuration(strings.TrimSpace(s))
		if err != nil {
			return fmt.Errorf("not a duration, try 250ms or 1s")
		}
		if d < floor {
			return fmt.Errorf("must be at least %s", floor)
		}
		return nil
	}
}

// pageOptions lists the dashboard pages as "1 ALL", "2 GPU", ... with the
// page number as value.
func pageOptions() []huh.Option[string] {
	factories := pages.Default()
	opts := make([]huh.Option[string], 0, len(factories))
	for i, f := range factories {
		n := strconv.Itoa(i + 1)
		opts = append(opts, huh.NewOption(n+" "+f(&dashboard.PageContext{}).Name(), n))
	}
	return opts
}
