package ui

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *App) snapshotCmd() *cobra.Command {
	var verbose bool
	var noColor bool
	var operator int

	cmd := &cobra.Command{
		Use:     "snapshot",
		Aliases: []string{"show"},
		Short:   "Print the board",
		Long: `Fetch the board from the backend and print it one operator at a time.

This is a quick read-only view; run 'planboard' for the interactive board.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if noColor {
				DisableColor()
			}

			ctx, cancel := a.requestContext()
			defer cancel()

			snap, err := a.client().Snapshot(ctx)
			if err != nil {
				return fmt.Errorf("fetching board: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(snap.Operators) == 0 {
				fmt.Fprintln(out, "The board has no operators.")
				return nil
			}

			PrintBoard(out, snap, PrintOpts{
				Geometry: a.config.Geometry(),
				Operator: operator,
				Verbose:  verbose,
			})
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show operation, quantity and due date")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable color output")
	cmd.Flags().IntVarP(&operator, "operator", "o", 0, "Only show this operator")
	return cmd
}
