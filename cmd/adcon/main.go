// Adcon is a terminal console for directory account administration.
//
// It provides an interactive full-screen console plus scriptable commands
// for searching accounts and running the account workflows: create, edit,
// password reset, unlock, enable, and disable. All operations go through
// a remote administration service over HTTPS; authentication is asserted
// by the service via session cookies.
//
// Usage:
//
//	adcon [command] [flags]
//
// Running without arguments launches the interactive console.
// See 'adcon --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mkarlsen/adcon/internal/logging"
	"github.com/mkarlsen/adcon/internal/version"
)

func main() {
	logging.InitializeFromEnv()
	defer logging.Sync()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "adcon",
	Short: "Directory Account Administration Console",
	Long: `A terminal console for directory account administration.

Provides an interactive full-screen console and scriptable commands for
searching accounts, creating and editing users, resetting passwords, and
unlocking, enabling, or disabling accounts.

If no command is specified, the interactive console will launch automatically.`,
	Version: version.Version,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: run the console when no subcommand provided
		return runConsole(cmd, args)
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
		fmt.Printf("adcon %s (commit: %s)\n", version.Version, version.Commit)
	},
}
