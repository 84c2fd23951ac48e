// Package cmd provides Cobra CLI commands for tabnest.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tabnest/tabnest/internal/build"
	"github.com/tabnest/tabnest/internal/cli"
)

var (
	app       *cli.App
	buildInfo build.Info
	rootCmd   = &cobra.Command{
		Use:   "tabnest",
		Short: "A tabbed host window for programs that never had tabs",
		Long: `Tabnest - tabs for programs that never had them.

Tabnest opens one host window and runs a content process per tab
(Neovide by default), keeping each process's window sized and placed
over the host's content area. Tabs switch instantly, drag to reorder,
and come back where you left them thanks to session snapshots.

Run 'tabnest' with no arguments to launch the host window, or explore
the subcommands for diagnostics and session management:

  tabnest list-windows     # show what the window system can see
  tabnest doctor           # check runtime requirements
  tabnest sessions         # browse and restore saved sessions
  tabnest config path      # locate the configuration file`,
		RunE: runHost,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip initialization for commands that don't need app context
			switch cmd.Name() {
			case "help", "completion":
				return nil
			}

			var err error
			app, err = cli.NewApp()
			if err != nil {
				return fmt.Errorf("initialize app: %w", err)
			}
			// Set build info from main.go
			app.BuildInfo = buildInfo
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if app != nil {
				_ = app.Close()
			}
		},
	}
)

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// GetApp returns the initialized app (for use by subcommands).
func GetApp() *cli.App {
	return app
}

// SetBuildInfo sets the build information (called from main.go before Execute).
func SetBuildInfo(info build.Info) {
	buildInfo = info
}
