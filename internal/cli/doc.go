// Package cli implements the jtop command-line interface.
//
// # Command Structure
//
// The root command runs the dashboard; everything else is a subcommand:
//
//	jtop                 - Full-screen dashboard
//	jtop stats           - Print samples without the dashboard
//	jtop init            - Create .jtop.yaml or ~/.config/jtop/config.yaml
//	jtop doctor          - Diagnose config, tegrastats and board issues
//	jtop version         - Print build information
//	jtop completion      - Generate shell completion
//
// # Startup
//
// The dashboard command loads config (file, then JTOP_ environment, then
// flags), checks it has a terminal, points logging at the configured file,
// detects the board and opens tegrastats. A spinner runs until the first
// sample is decoded, then the dashboard engine takes over the terminal.
//
// # Flag Handling
//
// --config is a persistent flag available to all subcommands. --tegrastats
// and --interval apply to both the dashboard and stats; --refresh and
// --page only to the dashboard. Flags only override config keys when they
// are given explicitly.
package cli
