// Package planning defines the scheduling backend protocol and a client for it.
package planning

// Routes served by the scheduling backend.
const (
	RouteMove          = "/move_task"
	RouteResize        = "/resize_task"
	RouteResizeAndMove = "/resize_and_move_task"
	RouteKeyboardMove  = "/keyboard_move_task"
	RouteSnapshot      = "/get_planning_data"
	RouteReload        = "/api/reload-data"
)

// MoveRequest places a task on an operator row at a start slot.
type MoveRequest struct {
	TaskID     string `json:"task_id"`
	OperatorID int    `json:"operator_id"`
	StartSlot  int    `json:"start_slot"`
}

// ResizeRequest changes a task's duration. When StartSlot and OperatorID are
// both set the task is moved as well.
type ResizeRequest struct {
	TaskID     string `json:"task_id"`
	Duration   int    `json:"duration"`
	StartSlot  *int   `json:"start_slot,omitempty"`
	OperatorID *int   `json:"operator_id,omitempty"`
}

// KeyboardMoveRequest is a one step move in a direction.
type KeyboardMoveRequest struct {
	TaskID    string `json:"task_id"`
	Direction string `json:"direction"`
}

// Result is the response body of every mutating route.
type Result struct {
	Success       bool   `json:"success"`
	Error         string `json:"error,omitempty"`
	Message       string `json:"message,omitempty"`
	NewSlot       *int   `json:"new_slot,omitempty"`
	NewOperatorID *int   `json:"new_operator_id,omitempty"`
	Blocked       bool   `json:"blocked,omitempty"`
}
