package board

import (
	"errors"
	"time"
)

// Gesture errors.
var (
	ErrUnknownTask             = errors.New("unknown task")
	ErrGestureActive           = errors.New("another gesture is in progress")
	ErrInvalidDuration         = errors.New("duration must be at least one slot")
	ErrTouchDragNotImplemented = errors.New("touch drag is not implemented")
	ErrDeleteNotImplemented    = errors.New("task deletion is not implemented")
)

// ResizeMode is the edge a resize gesture drags.
type ResizeMode int

const (
	ResizeNone ResizeMode = iota
	ResizeRight
	// ResizeLeft is recognized but ignored.
	ResizeLeft
)

func (m ResizeMode) String() string {
	switch m {
	case ResizeRight:
		return "right"
	case ResizeLeft:
		return "left"
	default:
		return "none"
	}
}

// Session holds the gesture and selection state of one board.
// Only the bubbletea update loop touches it.
type Session struct {
	selected *TaskNode

	// Drag
	dragged *TaskNode
	payload []byte

	// Resize
	resize           ResizeMode
	resizing         *TaskNode
	anchorX          int
	originalWidth    int
	originalDuration int

	// Grace protection: task id -> deadline. Last writer wins.
	protected map[string]time.Time

	now func() time.Time
}

// NewSession creates an idle session. now defaults to time.Now.
func NewSession(now func() time.Time) *Session {
	if now == nil {
		now = time.Now
	}
	return &Session{
		protected: make(map[string]time.Time),
		now:       now,
	}
}

// Selected returns the selected node, or nil.
func (s *Session) Selected() *TaskNode {
	return s.selected
}

// Dragged returns the node being dragged, or nil.
func (s *Session) Dragged() *TaskNode {
	return s.dragged
}

// Resizing returns the node being resized and the active edge.
func (s *Session) Resizing() (*TaskNode, ResizeMode) {
	return s.resizing, s.resize
}

// Busy reports whether a drag or resize is in progress.
func (s *Session) Busy() bool {
	return s.dragged != nil || s.resize != ResizeNone
}

// Protect shields a task's geometry from snapshots for d and returns the deadline.
func (s *Session) Protect(id string, d time.Duration) time.Time {
	deadline := s.now().Add(d)
	s.protected[id] = deadline
	return deadline
}

// IsProtected reports whether id is inside its grace window.
func (s *Session) IsProtected(id string) bool {
	deadline, ok := s.protected[id]
	return ok && s.now().Before(deadline)
}

// Unprotect drops the grace window of id.
func (s *Session) Unprotect(id string) {
	delete(s.protected, id)
}

// expire removes id's protection if deadline is still the current one.
// A later Protect call for the same id makes older expiries stale.
func (s *Session) expire(id string, deadline time.Time) bool {
	current, ok := s.protected[id]
	if !ok || !current.Equal(deadline) {
		return false
	}
	delete(s.protected, id)
	return true
}

func (s *Session) clearDrag() {
	s.dragged = nil
	s.payload = nil
}

func (s *Session) clearResize() {
	s.resize = ResizeNone
	s.resizing = nil
	s.anchorX = 0
	s.originalWidth = 0
	s.originalDuration = 0
}
