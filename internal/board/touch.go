package board

// touchThreshold is the movement, in pixels on either axis, that turns a
// touch into a drag.
const touchThreshold = 10

// TouchTracker recognizes touch drags. Completing one is not supported:
// End reports ErrTouchDragNotImplemented once a drag was recognized.
type TouchTracker struct {
	active   bool
	dragging bool
	start    Point
	taskID   string
}

// Start records a touch on task id at p.
func (t *TouchTracker) Start(id string, p Point) {
	*t = TouchTracker{active: true, start: p, taskID: id}
}

// Move reports whether the touch has become a drag.
func (t *TouchTracker) Move(p Point) bool {
	if !t.active {
		return false
	}
	if abs(p.X-t.start.X) > touchThreshold || abs(p.Y-t.start.Y) > touchThreshold {
		t.dragging = true
	}
	return t.dragging
}

// End finishes the touch.
func (t *TouchTracker) End() error {
	dragging := t.dragging
	*t = TouchTracker{}
	if dragging {
		return ErrTouchDragNotImplemented
	}
	return nil
}

// TaskID returns the task the current touch started on.
func (t *TouchTracker) TaskID() string {
	return t.taskID
}
