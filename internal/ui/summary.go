package ui

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize/english"
	"github.com/spf13/cobra"

	"github.com/javiermolinar/planboard/internal/summary"
)

func (a *App) summaryCmd() *cobra.Command {
	var jobs int

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show the load of every operator",
		Long: `Fetch the board and print booked slots against capacity per operator,
followed by the most booked jobs. Absences and closed days do not count as
capacity.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := a.requestContext()
			defer cancel()

			snap, err := a.client().Snapshot(ctx)
			if err != nil {
				return fmt.Errorf("fetching board: %w", err)
			}
			printSummary(cmd.OutOrStdout(), summary.Summarize(snap, a.config.Board.TotalSlots), jobs)
			return nil
		},
	}

	cmd.Flags().IntVarP(&jobs, "jobs", "j", 5, "Number of jobs to list (0 for none)")
	return cmd
}

func printSummary(w io.Writer, s *summary.Summary, jobs int) {
	fmt.Fprintf(w, "=== %s ===\n\n", formatHeader("Load"))

	width := 0
	for _, op := range s.Operators {
		width = max(width, len([]rune(op.Name)))
	}
	for _, op := range s.Operators {
		pct := fmt.Sprintf("%3d%%", op.LoadPercent())
		if op.Booked > op.Capacity {
			pct = formatError(pct)
		}
		fmt.Fprintf(w, "  %s  %s  %s\n",
			formatOperator(fmt.Sprintf("%-*s", width, op.Name)),
			pct,
			formatMuted(fmt.Sprintf("%d/%d slots, %s", op.Booked, op.Capacity, english.Plural(op.Tasks, "task", ""))))
	}

	if jobs > 0 && len(s.Jobs) > 0 {
		fmt.Fprintf(w, "\n%s\n", formatHeader("Jobs:"))
		for i, j := range s.Jobs {
			if i == jobs {
				break
			}
			fmt.Fprintf(w, "  %-20s %s\n", truncate(j.Name, 20), FormatDuration(j.Booked))
		}
	}

	fmt.Fprintf(w, "\nTotal: %d/%d slots booked, load %d%%\n",
		s.Stats.BookedSlots, s.Stats.CapacitySlots, s.Stats.LoadPercent())
}
