package board

import (
	"encoding/json"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/planboard/internal/planning"
)

const dragOpacity = 0.5

// DragPayload is the transfer data of a drag gesture.
type DragPayload struct {
	TaskID     string `json:"taskId"`
	OperatorID int    `json:"operatorId"`
	StartSlot  int    `json:"startSlot"`
	Duration   int    `json:"duration"`
}

// DragController relocates a task by dropping it on a cell.
// States: idle -> dragging -> idle.
type DragController struct {
	b *Board
}

// Active reports whether a drag is in progress.
func (d *DragController) Active() bool {
	return d.b.session.dragged != nil
}

// Payload returns the encoded transfer data of the current drag.
func (d *DragController) Payload() []byte {
	return d.b.session.payload
}

// Start begins dragging a task. The returned command fades the node on the
// next loop turn, after the drag ghost has been drawn.
func (d *DragController) Start(id string) (tea.Cmd, error) {
	s := d.b.session
	if s.Busy() {
		return nil, ErrGestureActive
	}
	n := d.b.view.Node(id)
	if n == nil {
		return nil, ErrUnknownTask
	}

	payload, err := json.Marshal(DragPayload{
		TaskID:     n.ID,
		OperatorID: n.OperatorID,
		StartSlot:  n.StartSlot,
		Duration:   n.Duration,
	})
	if err != nil {
		return nil, err
	}

	n.dragging = true
	d.b.view.dragActive = true
	s.dragged = n
	s.payload = payload

	d.b.trace("DRAG_START", map[string]any{"task": n.ID, "operator": n.OperatorID, "slot": n.StartSlot})
	return func() tea.Msg { return fadeMsg{id: n.ID} }, nil
}

// Over marks c as the drop target. Any cell accepts a drop, occupied or not:
// overlaps are resolved by the backend.
func (d *DragController) Over(c Cell) bool {
	if !d.Active() {
		return false
	}
	d.b.view.markDrop(c)
	return true
}

// Leave clears the mark of c once the pointer, now at next (content
// coordinates), is really outside the cell.
func (d *DragController) Leave(c Cell, next Point) {
	if d.b.view.CellBounds(c).Contains(next) {
		return
	}
	d.b.view.unmarkDrop(c)
}

// Drop ends the drag on c and returns the move request.
func (d *DragController) Drop(c Cell) tea.Cmd {
	payload := d.b.session.payload
	d.b.view.clearDropMarks()
	d.End()
	if payload == nil {
		return nil
	}

	var p DragPayload
	if err := json.Unmarshal(payload, &p); err != nil || p.TaskID == "" {
		return notify(LevelError, MsgMoveFailed)
	}

	req := planning.MoveRequest{TaskID: p.TaskID, OperatorID: c.OperatorID, StartSlot: c.Slot}
	d.b.trace("DRAG_DROP", map[string]any{"task": p.TaskID, "operator": c.OperatorID, "slot": c.Slot})

	b := d.b
	return func() tea.Msg {
		ctx, cancel := b.requestContext()
		defer cancel()
		_, err := b.backend.Move(ctx, req)
		return moveResultMsg{id: req.TaskID, err: err}
	}
}

// End clears every drag marker. It runs on any termination of the gesture.
func (d *DragController) End() {
	if n := d.b.session.dragged; n != nil {
		n.dragging = false
		n.opacity = 1
	}
	d.b.view.dragActive = false
	d.b.view.clearDropMarks()
	d.b.session.clearDrag()
}

func (d *DragController) fade(msg fadeMsg) {
	n := d.b.session.dragged
	if n == nil || n.ID != msg.id {
		return
	}
	n.opacity = dragOpacity
}

// result reconciles after a confirmed move. A failed move is not rolled
// back: nothing was moved locally.
func (d *DragController) result(msg moveResultMsg) tea.Cmd {
	if msg.err != nil {
		d.b.trace("MOVE_FAILED", map[string]any{"task": msg.id, "error": msg.err.Error()})
		return notify(LevelError, failureText(msg.err, MsgMoveFailed))
	}
	return d.b.Reconciler.Reconcile(msg.id, true)
}
