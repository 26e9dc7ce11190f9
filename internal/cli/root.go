package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rileyhilliard/jtop/internal/errors"
	"github.com/spf13/cobra"
)

// cfgFile is the --config flag shared by every command.
var cfgFile string

// rootFlags holds the dashboard flags of the bare "jtop" command.
var rootFlags samplingFlags

// rootCmd runs the dashboard when called without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "jtop",
	Short: "Live resource monitor for NVIDIA Jetson boards",
	Long: `jtop runs tegrastats in the background and shows CPU, GPU, memory,
engine, temperature and power readings in a full-screen dashboard.

Pages are switched with the digit keys, the arrow keys or the mouse.
Press ? for help and q to quit.

Examples:
  jtop
  jtop --interval 1s --page 2
  sudo jtop --tegrastats /usr/bin/tegrastats`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return dashboardCommand(cmd, rootFlags)
	},
}

// completionCmd generates shell completion scripts
var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate shell completion scripts for jtop.

Examples:
  # Bash
  jtop completion bash > /etc/bash_completion.d/jtop

  # Zsh
  jtop completion zsh > "${fpath[1]}/_jtop"

  # Fish
  jtop completion fish > ~/.config/fish/completions/jtop.fish`,
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeCompletion(cmd.Root(), args[0], cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default ./.jtop.yaml, then ~/.config/jtop/config.yaml)")
	addSamplingFlags(rootCmd, &rootFlags)
	addDashboardFlags(rootCmd, &rootFlags)

	rootCmd.AddCommand(completionCmd)
}

func writeCompletion(root *cobra.Command, shell string, w io.Writer) error {
	switch shell {
	case "bash":
		return root.GenBashCompletion(w)
	case "zsh":
		return root.GenZshCompletion(w)
	case "fish":
		return root.GenFishCompletion(w, true)
	case "powershell":
		return root.GenPowerShellCompletion(w)
	default:
		return errors.New(errors.ErrConfig,
			"Unknown shell: "+shell,
			"Supported shells: bash, zsh, fish, powershell")
	}
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprint(os.Stderr, formatError(err))
		os.Exit(1)
	}
}

// formatError renders coded errors as-is and gives plain ones (usually
// cobra flag errors) the same leading symbol.
func formatError(err error) string {
	var coded *errors.Error
	if errors.As(err, &coded) {
		return coded.Error()
	}
	return fmt.Sprintf("✗ %s\n\n  Run 'jtop --help' for usage.\n", err)
}
