package ui

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/planboard/internal/dateutil"
	"github.com/javiermolinar/planboard/internal/planning"
	"github.com/javiermolinar/planboard/internal/task"
)

// ErrOutsideBoard is returned when a date falls outside the slot axis.
var ErrOutsideBoard = errors.New("date is outside the board")

func (a *App) moveCmd() *cobra.Command {
	var operator, start int
	var at string

	cmd := &cobra.Command{
		Use:   "move <task-id>",
		Short: "Move a task to an operator and start slot",
		Long: `Place a task on an operator row. Tasks already there are pushed to the
right to make room.

Examples:
  planboard move 3f2a --operator 2 --slot 10
  planboard move 3f2a --operator 2 --at "wed pm"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if at != "" {
				s, err := a.slotAt(at, time.Now())
				if err != nil {
					return err
				}
				start = s
			}

			ctx, cancel := a.requestContext()
			defer cancel()

			req := planning.MoveRequest{TaskID: args[0], OperatorID: operator, StartSlot: start}
			if _, err := a.client().Move(ctx, req); err != nil {
				return fmt.Errorf("moving task: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s to operator %d, %s\n",
				formatOK("Moved"), formatID(req.TaskID), operator, a.slotLabel(start))
			return nil
		},
	}

	cmd.Flags().IntVarP(&operator, "operator", "o", 0, "Target operator id")
	cmd.Flags().IntVarP(&start, "slot", "s", 0, "Start slot index")
	cmd.Flags().StringVar(&at, "at", "", `Start half-day, e.g. "wed pm" or "2025-08-13 am"`)
	_ = cmd.MarkFlagRequired("operator")
	cmd.MarkFlagsMutuallyExclusive("slot", "at")
	cmd.MarkFlagsOneRequired("slot", "at")
	return cmd
}

func (a *App) resizeCmd() *cobra.Command {
	var operator, start int
	var at string

	cmd := &cobra.Command{
		Use:   "resize <task-id> <duration>",
		Short: "Change the duration of a task",
		Long: `Set a task's duration in half-day slots. Later tasks on the same row are
pushed right when it grows.

With --operator and --slot (or --at) the task is moved in the same step.

Example:
  planboard resize 3f2a 4`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			duration, err := strconv.Atoi(args[1])
			if err != nil || duration < 1 {
				return fmt.Errorf("%w: %q", task.ErrInvalidDuration, args[1])
			}

			req := planning.ResizeRequest{TaskID: args[0], Duration: duration}
			if at != "" {
				if start, err = a.slotAt(at, time.Now()); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("operator") {
				req.OperatorID = &operator
				req.StartSlot = &start
			}

			ctx, cancel := a.requestContext()
			defer cancel()
			if _, err := a.client().Resize(ctx, req); err != nil {
				return fmt.Errorf("resizing task: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s to %s\n",
				formatOK("Resized"), formatID(req.TaskID), FormatDuration(duration))
			return nil
		},
	}

	cmd.Flags().IntVarP(&operator, "operator", "o", 0, "Also move to this operator")
	cmd.Flags().IntVarP(&start, "slot", "s", 0, "Start slot when moving")
	cmd.Flags().StringVar(&at, "at", "", "Start half-day when moving")
	cmd.MarkFlagsMutuallyExclusive("slot", "at")
	return cmd
}

func (a *App) nudgeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "nudge <task-id> <left|right|up|down>",
		Short: "Move a task one step",
		Long: `Move a task one slot left or right, pushing its neighbours along, or to
the operator above or below.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := task.ParseDirection(args[1])
			if err != nil {
				return err
			}

			ctx, cancel := a.requestContext()
			defer cancel()
			res, err := a.client().KeyboardMove(ctx, planning.KeyboardMoveRequest{TaskID: args[0], Direction: string(dir)})
			if err != nil {
				return fmt.Errorf("moving task: %w", err)
			}
			a.printNudge(cmd.OutOrStdout(), args[0], res)
			return nil
		},
	}
}

func (a *App) printNudge(w io.Writer, id string, res *planning.Result) {
	if res.Blocked {
		fmt.Fprintf(w, "%s %s did not move\n", formatError("Blocked:"), formatID(id))
		return
	}
	if res.NewSlot == nil || res.NewOperatorID == nil {
		fmt.Fprintf(w, "%s %s\n", formatOK("Moved"), formatID(id))
		return
	}
	fmt.Fprintf(w, "%s %s to operator %d, %s\n",
		formatOK("Moved"), formatID(id), *res.NewOperatorID, a.slotLabel(*res.NewSlot))
}

func (a *App) reloadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reload",
		Short: "Reload the backend data from its seed",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := a.requestContext()
			defer cancel()
			res, err := a.client().Reload(ctx)
			if err != nil {
				return fmt.Errorf("reloading data: %w", err)
			}
			msg := res.Message
			if msg == "" {
				msg = "Data reloaded"
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatOK(msg))
			return nil
		},
	}
}

// slotAt converts a half-day expression to a slot on the configured axis.
func (a *App) slotAt(expr string, now time.Time) (int, error) {
	hd, err := dateutil.ParseHalfDay(expr, now)
	if err != nil {
		return 0, fmt.Errorf("parsing %q: %w", expr, err)
	}
	g := a.config.Geometry()
	s := g.SlotOf(hd.Date)
	if hd.PM {
		s++
	}
	if s < 0 || s >= g.TotalSlots {
		return 0, fmt.Errorf("%w: %q", ErrOutsideBoard, expr)
	}
	return s, nil
}

func (a *App) slotLabel(s int) string {
	c := a.config.Geometry().Calendar(s)
	return fmt.Sprintf("slot %d (%s %s)", s, c.DayName, c.Label())
}
