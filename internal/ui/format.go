package ui

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"

	"github.com/javiermolinar/planboard/internal/slot"
	"github.com/javiermolinar/planboard/internal/summary"
	"github.com/javiermolinar/planboard/internal/task"
)

// PrintOpts configures board printing.
type PrintOpts struct {
	Geometry     slot.Geometry
	Operator     int  // Only print this operator when non-zero
	Verbose      bool // Show operation, quantity and due date
	MaxNameWidth int  // Maximum task name width (0 = auto)
}

// CalcMaxNameWidth calculates the maximum task name width based on options.
func (o PrintOpts) CalcMaxNameWidth(defaultWidth int) int {
	if o.MaxNameWidth > 0 {
		return o.MaxNameWidth
	}
	if !o.Verbose {
		return defaultWidth
	}
	// "  <id>  Wed 13/08 AM → Wed 13/08 PM  3 slots (1.5 days)  " is ~70 chars
	// with short ids.
	available := termWidth() - 70
	if available > defaultWidth {
		return available
	}
	return defaultWidth
}

// PrintBoard writes the snapshot one operator at a time, tasks in slot order.
func PrintBoard(w io.Writer, snap *task.Snapshot, opts PrintOpts) {
	g := opts.Geometry
	first, last := g.Span(0, g.TotalSlots)
	fmt.Fprintf(w, "=== %s ===\n\n", formatHeader(fmt.Sprintf("%s %s → %s %s (%s)",
		first.DayName, first.Label(), last.DayName, last.Label(),
		english.Plural(g.TotalSlots, "slot", ""))))

	byOperator := make(map[int][]task.Task, len(snap.Operators))
	for _, t := range snap.Tasks {
		byOperator[t.OperatorID] = append(byOperator[t.OperatorID], t)
	}
	maxName := opts.CalcMaxNameWidth(30)

	for _, op := range snap.Operators {
		if opts.Operator != 0 && op.ID != opts.Operator {
			continue
		}
		fmt.Fprintf(w, "%s %s", formatOperator(op.Name), formatMuted(fmt.Sprintf("#%d", op.ID)))
		if len(op.Absences) > 0 {
			fmt.Fprintf(w, "  %s", formatMuted("absent: "+formatSlots(g, op.Absences)))
		}
		fmt.Fprintln(w)

		tasks := byOperator[op.ID]
		task.SortByStart(tasks)
		if len(tasks) == 0 {
			fmt.Fprintf(w, "  %s\n", formatMuted("(no tasks)"))
		}
		for _, t := range tasks {
			PrintTaskRow(w, t, g, maxName, opts.Verbose)
		}
		fmt.Fprintln(w)
	}

	if len(snap.Vacations) > 0 {
		fmt.Fprintf(w, "%s %s\n", formatHeader("Closed:"), formatSlots(g, snap.Vacations))
	}
	stats := summary.Summarize(snap, g.TotalSlots).Stats
	fmt.Fprintf(w, "%s | %s | %s booked | Load: %d%%\n",
		english.Plural(stats.Operators, "operator", ""),
		english.Plural(stats.Tasks, "task", ""),
		english.Plural(stats.BookedSlots, "slot", ""),
		stats.LoadPercent())
}

// PrintTaskRow prints a single task with consistent formatting.
func PrintTaskRow(w io.Writer, t task.Task, g slot.Geometry, maxNameWidth int, verbose bool) {
	name := truncate(t.Name, maxNameWidth)
	job := ""
	if t.JobName != "" {
		job = formatMuted("[" + t.JobName + "]")
	}
	fmt.Fprintf(w, "  %s  %s  %-20s  %-*s  %s\n",
		formatID(t.ID), FormatSpan(g, t.StartSlot, t.Duration), FormatDuration(t.Duration),
		maxNameWidth, name, job)

	if !verbose {
		return
	}
	var details []string
	if t.OperationName != "" {
		details = append(details, t.OperationName)
	}
	if t.Quantity > 0 {
		details = append(details, "qty "+FormatQuantity(t.Quantity))
	}
	if t.DueDate != "" {
		details = append(details, "due "+t.DueDate)
	}
	if t.MissingComponents != "" {
		details = append(details, formatError("missing: "+t.MissingComponents))
	}
	if len(details) > 0 {
		fmt.Fprintf(w, "      %s\n", strings.Join(details, "  ·  "))
	}
}

// FormatSpan formats the first and last half-day a task occupies.
func FormatSpan(g slot.Geometry, start, duration int) string {
	first, last := g.Span(start, duration)
	return fmt.Sprintf("%s %s → %s %s", first.DayName, first.Label(), last.DayName, last.Label())
}

// FormatDuration formats a slot count, with days once it spans more than one.
func FormatDuration(slots int) string {
	s := english.Plural(slots, "slot", "")
	if slots < 2 {
		return s
	}
	unit := "days"
	if slots == 2 {
		unit = "day"
	}
	return fmt.Sprintf("%s (%s %s)", s, humanize.Ftoa(float64(slots)/2), unit)
}

// FormatQuantity formats a quantity with thousands separators.
func FormatQuantity(q float64) string {
	return humanize.Commaf(q)
}

// formatSlots lists slot positions in order, e.g. "Tue 12/08 AM, Fri 22/08 PM".
func formatSlots(g slot.Geometry, slots []int) string {
	sorted := append([]int(nil), slots...)
	sort.Ints(sorted)
	parts := make([]string, len(sorted))
	for i, s := range sorted {
		c := g.Calendar(s)
		parts[i] = c.DayName + " " + c.Label()
	}
	return strings.Join(parts, ", ")
}

// truncate shortens s to at most width runes, marking the cut with "...".
func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 3 {
		return string(r[:width])
	}
	return string(r[:width-3]) + "..."
}
