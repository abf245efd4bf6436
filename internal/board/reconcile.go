package board

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/planboard/internal/task"
)

// followMargin is how many slots of room scroll-follow keeps around a task.
const followMargin = 2

// followMinJump is the largest scroll correction Follow skips, in pixels.
// Skips never exceed the margin, so the task stays on screen.
const followMinJump = 5

// Reconciler merges authoritative snapshots into the live view.
type Reconciler struct {
	b *Board
}

// Reconcile fetches the full snapshot and applies it. When focusID is set
// the task is reselected and focused afterwards, and with autoScroll the
// board scrolls to keep it visible.
func (r *Reconciler) Reconcile(focusID string, autoScroll bool) tea.Cmd {
	b := r.b
	return func() tea.Msg {
		ctx, cancel := b.requestContext()
		defer cancel()
		snap, err := b.backend.Snapshot(ctx)
		return snapshotMsg{snap: snap, focusID: focusID, autoScroll: autoScroll, err: err}
	}
}

func (r *Reconciler) handleSnapshot(msg snapshotMsg) tea.Cmd {
	if msg.err != nil {
		r.b.trace("RECONCILE_FAILED", map[string]any{"error": msg.err.Error()})
		err := msg.err
		return tea.Batch(
			notify(LevelError, MsgCommError),
			func() tea.Msg { return ReloadMsg{Err: err} },
		)
	}

	r.Apply(msg.snap)
	if msg.focusID == "" {
		return nil
	}
	return r.restoreFocus(msg.focusID, msg.autoScroll, 0)
}

// Apply patches the view from snap and returns the counters of the pass.
//
// Metadata is always written; a position off the axis is the one field held
// back. Geometry is left alone while the node is being
// resized or sits in its grace window, and unchanged values are not written.
// A node moves to another row only when its row's operator really differs.
func (r *Reconciler) Apply(snap *task.Snapshot) Stats {
	v := r.b.view
	before := v.stats
	if snap == nil {
		return Stats{}
	}
	v.setJobs(snap.Jobs)
	total := r.b.opts.Geometry.TotalSlots

	for _, t := range snap.Tasks {
		n := v.Node(t.ID)
		if n == nil {
			continue
		}
		if job, ok := v.Job(t.JobID); ok && t.JobName == "" {
			t.JobName = job.Name
		}
		if err := t.Validate(total); err != nil {
			// Off-axis positions are never applied; the rest still is.
			n.setDetails(t)
			v.stats.Rejected++
			r.b.trace("RECONCILE_REJECTED", map[string]any{"task": t.ID, "error": err.Error()})
			continue
		}

		n.setMeta(t)

		if !n.resizing && !r.b.session.IsProtected(t.ID) {
			left, width := v.gridGeometry(n)
			v.setGeometry(n, left, width)
		}

		if n.parent != nil && n.parent.OperatorID == t.OperatorID {
			continue
		}
		if target := v.Row(t.OperatorID); target != nil && !target.Contains(n) {
			v.reparent(n, target)
		}
	}

	pass := diffStats(before, v.stats)
	r.b.trace("RECONCILE", map[string]any{
		"tasks":           len(snap.Tasks),
		"geometry_writes": pass.GeometryWrites,
		"reparents":       pass.Reparents,
		"rejected":        pass.Rejected,
	})
	return pass
}

// restoreFocus selects and focuses id. The node may not sit in its row yet;
// up to len(FocusRetryDelays) more attempts follow before giving up silently.
func (r *Reconciler) restoreFocus(id string, autoScroll bool, attempt int) tea.Cmd {
	n := r.b.view.Node(id)
	if n == nil || n.parent == nil || n.parent.OperatorID != n.OperatorID {
		delays := r.b.opts.FocusRetryDelays
		if attempt >= len(delays) {
			r.b.trace("FOCUS_GAVE_UP", map[string]any{"task": id})
			return nil
		}
		return r.b.after(delays[attempt], focusRetryMsg{id: id, autoScroll: autoScroll, attempt: attempt + 1})
	}

	r.b.Selection.Select(n)
	if !autoScroll {
		return nil
	}
	return r.Follow(n)
}

// Follow jumps the master scrollbar so n is visible with a margin of two
// slots on either side. It returns nil when n is already in view.
func (r *Reconciler) Follow(n *TaskNode) tea.Cmd {
	v := r.b.view
	g := r.b.opts.Geometry
	visible := v.VisibleWidth()
	if visible <= 0 {
		return nil
	}

	start := g.ToPixels(n.StartSlot)
	end := start + g.ToPixels(n.Duration)
	margin := g.ToPixels(followMargin)
	left := v.scrollbar.left

	target := left
	switch {
	case start < left+margin:
		target = max(0, start-margin)
	case end > left+visible-margin:
		target = end - visible + margin
	}
	if jump := abs(target - left); jump == 0 || (jump <= followMinJump && jump < margin) {
		return nil
	}
	return v.scrollbar.SetScrollLeft(target)
}

func diffStats(before, after Stats) Stats {
	return Stats{
		GeometryWrites:      after.GeometryWrites - before.GeometryWrites,
		Reparents:           after.Reparents - before.Reparents,
		ScrollWrites:        after.ScrollWrites - before.ScrollWrites,
		HeaderWrites:        after.HeaderWrites - before.HeaderWrites,
		ScrollEventsDropped: after.ScrollEventsDropped - before.ScrollEventsDropped,
		Rejected:            after.Rejected - before.Rejected,
	}
}
