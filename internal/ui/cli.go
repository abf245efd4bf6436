package ui

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/planboard/internal/board"
	"github.com/javiermolinar/planboard/internal/config"
	"github.com/javiermolinar/planboard/internal/planning"
	"github.com/javiermolinar/planboard/internal/tui"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// App holds the CLI application state.
type App struct {
	config    *config.Config
	root      *cobra.Command
	debug     bool   // Enable debug logging
	serverURL string // Overrides board.server_url
}

// NewApp creates a new CLI application with the given config.
func NewApp(cfg *config.Config) *App {
	a := &App{config: cfg}

	a.root = &cobra.Command{
		Use:   "planboard",
		Short: "A terminal scheduling board for workshop operators",
		Long: `Planboard shows the production schedule as one row per operator
over half-day slots. Drag tasks with the mouse or move them with the
keyboard; the scheduling backend resolves collisions and the board
reconciles with it after every change.

Run 'planboard serve' to start the backend, then 'planboard' to open the board.`,
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			return tui.RunWithDebug(a.client(), a.config, a.debug)
		},
	}

	// Add global flags
	a.root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging (logs to "+tui.TracePath+")")
	a.root.PersistentFlags().StringVar(&a.serverURL, "server", "", "Backend URL (default from board.server_url)")

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.serveCmd())
	a.root.AddCommand(a.importCmd())
	a.root.AddCommand(a.snapshotCmd())
	a.root.AddCommand(a.summaryCmd())
	a.root.AddCommand(a.moveCmd())
	a.root.AddCommand(a.resizeCmd())
	a.root.AddCommand(a.nudgeCmd())
	a.root.AddCommand(a.reloadCmd())

	return a
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "planboard %s (commit: %s)\n", Version, Commit)
		},
	}
}

// client returns a backend client for the configured server.
func (a *App) client() *planning.Client {
	url := a.serverURL
	if url == "" {
		url = a.config.Board.ServerURL
	}
	return planning.NewClient(url, planning.WithTimeout(a.config.Board.RequestTimeout.D()))
}

// requestContext bounds one CLI call to the backend.
func (a *App) requestContext() (context.Context, context.CancelFunc) {
	d := a.config.Board.RequestTimeout.D()
	if d <= 0 {
		d = board.DefaultRequestTimeout
	}
	return context.WithTimeout(context.Background(), d)
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.Execute()
}
