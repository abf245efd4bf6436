package board

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/planboard/internal/planning"
)

// ResizeController changes a task's duration by dragging its right edge.
// States: idle -> resizing(right) -> idle.
type ResizeController struct {
	b *Board
}

// Active reports whether a resize is in progress.
func (r *ResizeController) Active() bool {
	return r.b.session.resize != ResizeNone
}

// Start begins a resize of task id from pointer column x. The left edge is
// accepted and ignored.
func (r *ResizeController) Start(id string, x int, edge ResizeMode) error {
	if edge != ResizeRight {
		return nil
	}
	s := r.b.session
	if s.Busy() {
		return ErrGestureActive
	}
	n := r.b.view.Node(id)
	if n == nil {
		return ErrUnknownTask
	}

	g := r.b.opts.Geometry
	s.resize = ResizeRight
	s.resizing = n
	s.anchorX = x
	s.originalWidth = g.ToPixels(n.Duration)
	s.originalDuration = n.Duration

	// Layout may have drifted; start from the grid position.
	r.b.view.setGeometry(n, g.ToPixels(n.StartSlot), s.originalWidth)
	n.resizing = true
	r.b.view.pointerCaptured = true
	r.b.view.selectionSuppressed = true

	r.b.trace("RESIZE_START", map[string]any{"task": n.ID, "duration": n.Duration, "x": x})
	return nil
}

// Move follows the pointer to column x. Only the local view changes.
func (r *ResizeController) Move(x int) {
	s := r.b.session
	if s.resize != ResizeRight || s.resizing == nil {
		return
	}
	n := s.resizing
	g := r.b.opts.Geometry

	width := max(g.Width(), s.originalWidth+(x-s.anchorX))
	duration := min(max(1, g.FromPixels(width)), g.MaxDuration(n.StartSlot))

	// The block snaps to whole slots as it grows.
	n.Duration = duration
	r.b.view.setGeometry(n, n.left, g.ToPixels(duration))
}

// Stop ends the gesture and returns the resize request together with the
// grace expiry timer. Without an active resize it does nothing.
func (r *ResizeController) Stop() tea.Cmd {
	s := r.b.session
	if s.resize == ResizeNone {
		return nil
	}
	n := s.resizing
	prev := s.originalDuration
	defer r.release()

	n.resizing = false
	if n.Duration <= 0 {
		return notify(LevelError, ErrInvalidDuration.Error())
	}

	id, duration := n.ID, n.Duration
	deadline := s.Protect(id, r.b.opts.GraceWindow)
	r.b.trace("RESIZE_STOP", map[string]any{"task": id, "from": prev, "to": duration})

	b := r.b
	req := planning.ResizeRequest{TaskID: id, Duration: duration}
	return tea.Batch(
		func() tea.Msg {
			ctx, cancel := b.requestContext()
			defer cancel()
			_, err := b.backend.Resize(ctx, req)
			return resizeResultMsg{id: id, prevDuration: prev, err: err}
		},
		r.b.after(r.b.opts.GraceWindow, graceExpiredMsg{id: id, deadline: deadline}),
	)
}

// release drops pointer capture, text-selection suppression and the session's
// resize state.
func (r *ResizeController) release() {
	r.b.view.pointerCaptured = false
	r.b.view.selectionSuppressed = false
	r.b.session.clearResize()
}

// result handles the resize response. On success the grace window restarts
// from the confirmation and a reconciliation follows shortly. On failure the
// pre-gesture size comes back.
func (r *ResizeController) result(msg resizeResultMsg) tea.Cmd {
	s := r.b.session
	n := r.b.view.Node(msg.id)

	if msg.err != nil {
		s.Unprotect(msg.id)
		if n != nil && !n.resizing {
			n.Duration = msg.prevDuration
			r.b.view.setGeometry(n, n.left, r.b.opts.Geometry.ToPixels(msg.prevDuration))
		}
		r.b.trace("RESIZE_FAILED", map[string]any{"task": msg.id, "error": msg.err.Error()})
		return notify(LevelError, failureText(msg.err, MsgResizeFailed))
	}

	deadline := s.Protect(msg.id, r.b.opts.GraceWindow)
	return tea.Batch(
		r.b.after(r.b.opts.GraceWindow, graceExpiredMsg{id: msg.id, deadline: deadline}),
		r.b.after(r.b.opts.ResizeRefreshDelay, reconcileMsg{focusID: msg.id, autoScroll: true}),
	)
}

// expire ends a grace window and lays the node out from its metadata again,
// which the reconciler kept truthful in the meantime.
func (r *ResizeController) expire(msg graceExpiredMsg) {
	if !r.b.session.expire(msg.id, msg.deadline) {
		return
	}
	n := r.b.view.Node(msg.id)
	if n == nil || n.resizing {
		return
	}
	left, width := r.b.view.gridGeometry(n)
	r.b.view.setGeometry(n, left, width)
}
