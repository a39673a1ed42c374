// Ucremote is a remote control utility for networked mixing consoles.
//
// It provides console discovery, a live terminal dashboard, direct mute
// and parameter commands, and a frame monitor for protocol research.
// The console's TCP control protocol is spoken directly; the vendor's
// own software is not required.
//
// Usage:
//
//	ucremote [command] [flags]
//
// Running without arguments launches the dashboard against the first
// discovered console.
// See 'ucremote --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/feathernet/ucremote/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "ucremote",
	Short: "Mixing Console Remote Control",
	Long: `A standalone utility for controlling networked mixing consoles.

Provides console discovery, a live channel dashboard, direct mute and
parameter commands, and a frame monitor for protocol analysis.

If no command is specified, the dashboard will launch automatically.`,
	Version: version.Version,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: open the dashboard when no subcommand provided
		return runDashboard(cmd, args)
	},
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("ucremote %s (commit: %s)\n", version.Version, version.Commit)
	},
}
