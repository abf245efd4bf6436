package board

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"
)

// Tooltip is the hover popup of a task. X and Y are screen coordinates of
// its top-left corner.
type Tooltip struct {
	TaskID string
	Title  string
	Lines  []string
	X, Y   int
}

// TooltipController shows a task's details after the pointer rests on it.
type TooltipController struct {
	b *Board

	seq     int
	pending string
	current *Tooltip
}

// Current returns the visible tooltip, or nil.
func (t *TooltipController) Current() *Tooltip {
	return t.current
}

// Enter arms the hover timer for task id. Entering the task that is already
// pending or shown does nothing.
func (t *TooltipController) Enter(id string) tea.Cmd {
	if id == t.pending || (t.current != nil && t.current.TaskID == id) {
		return nil
	}
	t.Leave()
	t.pending = id
	return t.b.after(t.b.opts.HoverDelay, tooltipMsg{seq: t.seq})
}

// Leave cancels a pending tooltip and hides the visible one.
func (t *TooltipController) Leave() {
	t.seq++
	t.pending = ""
	t.current = nil
}

func (t *TooltipController) show(msg tooltipMsg) {
	if msg.seq != t.seq || t.pending == "" {
		return
	}
	n := t.b.view.Node(t.pending)
	t.pending = ""
	if n == nil || n.parent == nil {
		return
	}

	tip := t.build(n)
	w, h := t.b.opts.Measure(tip)

	v := t.b.view
	origin := v.Screen(Point{X: n.left, Y: n.parent.index})
	tip.X = origin.X + n.width/2 - w/2
	if maxX := v.scrollbar.clientWidth - w; tip.X > maxX {
		tip.X = maxX
	}
	tip.X = max(tip.X, 0)
	tip.Y = max(origin.Y-h, 0)

	t.current = &tip
}

func (t *TooltipController) build(n *TaskNode) Tooltip {
	g := t.b.opts.Geometry
	first, last := g.Span(n.StartSlot, n.Duration)

	title := n.Task.Name
	if title == "" {
		title = n.ID
	}
	job := n.Task.JobName
	if j, ok := t.b.view.Job(n.JobID); ok && job == "" {
		job = j.Name
	}

	lines := []string{
		fmt.Sprintf("Job: %s", job),
		fmt.Sprintf("From: %s %s", first.DayName, first.Label()),
		fmt.Sprintf("To: %s %s", last.DayName, last.Label()),
		fmt.Sprintf("Duration: %d slots (%s days)", n.Duration, humanize.Ftoa(float64(n.Duration)/2)),
	}
	if n.Task.OperationName != "" {
		lines = append(lines, fmt.Sprintf("Operation: %s", n.Task.OperationName))
	}
	if n.Task.Quantity > 0 {
		lines = append(lines, fmt.Sprintf("Quantity: %s", humanize.Commaf(n.Task.Quantity)))
	}
	if n.Task.DueDate != "" {
		lines = append(lines, fmt.Sprintf("Due: %s", n.Task.DueDate))
	}
	if n.Task.Employees != "" {
		lines = append(lines, fmt.Sprintf("Employees: %s", n.Task.Employees))
	}
	if n.Task.MissingComponents != "" {
		lines = append(lines, fmt.Sprintf("Missing: %s", n.Task.MissingComponents))
	}
	if url, ok := t.b.Links.URL(n.ID); ok {
		lines = append(lines, fmt.Sprintf("Odoo: %s", url))
	}

	return Tooltip{TaskID: n.ID, Title: title, Lines: lines}
}

// measureTooltip sizes a tooltip drawn with a one-cell border and padding.
func measureTooltip(tip Tooltip) (int, int) {
	w := ansi.StringWidth(tip.Title)
	for _, l := range tip.Lines {
		w = max(w, ansi.StringWidth(l))
	}
	return w + 4, len(tip.Lines) + 3
}
