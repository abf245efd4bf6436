package board

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/planboard/internal/planning"
	"github.com/javiermolinar/planboard/internal/task"
)

// KeyboardController moves and resizes the focused task one step at a time.
type KeyboardController struct {
	b *Board
}

// HandleKey acts on a key name as reported by tea.KeyMsg.String. handled is
// true for every bound key, including the ones that end up sending nothing.
func (k *KeyboardController) HandleKey(key string) (cmd tea.Cmd, handled bool) {
	n := k.b.Selection.ensure()
	if n == nil {
		return nil, false
	}

	switch key {
	case "left", "right", "up", "down":
		dir, _ := task.ParseDirection(key)
		return k.move(n, dir), true
	case "+", "=":
		return k.resize(n, n.Duration+1), true
	case "-":
		if n.Duration <= 1 {
			return nil, true
		}
		return k.resize(n, n.Duration-1), true
	case "delete", "backspace":
		id := n.ID
		return func() tea.Msg { return ConfirmDeleteMsg{TaskID: id} }, true
	}
	return nil, false
}

// Delete is the confirmed deletion. The backend has no delete operation.
func (k *KeyboardController) Delete(id string) tea.Cmd {
	k.b.trace("DELETE_REQUESTED", map[string]any{"task": id})
	return notify(LevelInfo, ErrDeleteNotImplemented.Error())
}

func (k *KeyboardController) move(n *TaskNode, dir task.Direction) tea.Cmd {
	b := k.b
	req := planning.KeyboardMoveRequest{TaskID: n.ID, Direction: string(dir)}
	b.trace("KEY_MOVE", map[string]any{"task": n.ID, "direction": req.Direction})
	return func() tea.Msg {
		ctx, cancel := b.requestContext()
		defer cancel()
		_, err := b.backend.KeyboardMove(ctx, req)
		return keyboardResultMsg{id: req.TaskID, err: err}
	}
}

func (k *KeyboardController) resize(n *TaskNode, duration int) tea.Cmd {
	b := k.b
	req := planning.ResizeRequest{TaskID: n.ID, Duration: duration}
	b.trace("KEY_RESIZE", map[string]any{"task": n.ID, "duration": duration})
	return func() tea.Msg {
		ctx, cancel := b.requestContext()
		defer cancel()
		_, err := b.backend.Resize(ctx, req)
		return keyboardResultMsg{id: req.TaskID, err: err}
	}
}

func (k *KeyboardController) result(msg keyboardResultMsg) tea.Cmd {
	if msg.err != nil {
		k.b.trace("KEY_FAILED", map[string]any{"task": msg.id, "error": msg.err.Error()})
		return notify(LevelError, failureText(msg.err, MsgKeyFailed))
	}
	return k.b.Reconciler.Reconcile(msg.id, true)
}
