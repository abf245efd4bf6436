// Package task defines the core domain types for planboard.
package task

import (
	"errors"
	"fmt"
	"sort"
)

// Validation errors.
var (
	ErrEmptyID          = errors.New("task id cannot be empty")
	ErrNegativeStart    = errors.New("start slot must be zero or positive")
	ErrInvalidDuration  = errors.New("duration must be at least one slot")
	ErrOutOfRange       = errors.New("task does not fit on the slot axis")
	ErrInvalidOperator  = errors.New("operator id must be positive")
	ErrInvalidDirection = errors.New("direction must be left, right, up or down")
)

// Domain errors.
var (
	ErrTaskNotFound     = errors.New("task not found")
	ErrOperatorNotFound = errors.New("operator not found")
	ErrNoRoom           = errors.New("not enough room to place the task")
)

// Direction is a discrete keyboard move step.
type Direction string

const (
	Left  Direction = "left"
	Right Direction = "right"
	Up    Direction = "up"
	Down  Direction = "down"
)

// ParseDirection validates a direction token.
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(s); d {
	case Left, Right, Up, Down:
		return d, nil
	default:
		return "", ErrInvalidDirection
	}
}

// Task is a block of work occupying a contiguous run of slots on one operator row.
type Task struct {
	ID         string `json:"id" toml:"id"`
	OperatorID int    `json:"operator_id" toml:"operator_id"`
	StartSlot  int    `json:"start_slot" toml:"start_slot"`
	Duration   int    `json:"duration" toml:"duration"`
	JobID      int    `json:"job_id" toml:"job_id"`

	// Display payload, opaque to scheduling.
	Name              string  `json:"name" toml:"name"`
	JobName           string  `json:"job_name,omitempty" toml:"job_name"`
	OperationName     string  `json:"operation_name,omitempty" toml:"operation_name"`
	Quantity          float64 `json:"quantity,omitempty" toml:"quantity"`
	DueDate           string  `json:"due_date,omitempty" toml:"due_date"`
	Employees         string  `json:"employees,omitempty" toml:"employees"`
	MissingComponents string  `json:"missing_components,omitempty" toml:"missing_components"`
}

// End returns the first slot after the task.
func (t Task) End() int {
	return t.StartSlot + t.Duration
}

// Overlaps reports whether two tasks on the same operator share a slot.
func (t Task) Overlaps(other Task) bool {
	if t.OperatorID != other.OperatorID {
		return false
	}
	return RangesOverlap(t.StartSlot, t.Duration, other.StartSlot, other.Duration)
}

// RangesOverlap reports whether [aStart, aStart+aDur) and [bStart, bStart+bDur) intersect.
func RangesOverlap(aStart, aDur, bStart, bDur int) bool {
	return !(aStart+aDur <= bStart || aStart >= bStart+bDur)
}

// Validate checks the structural invariants of a task against an axis length.
func (t Task) Validate(totalSlots int) error {
	if t.ID == "" {
		return ErrEmptyID
	}
	if t.OperatorID <= 0 {
		return ErrInvalidOperator
	}
	if t.StartSlot < 0 {
		return ErrNegativeStart
	}
	if t.Duration < 1 {
		return ErrInvalidDuration
	}
	if t.End() > totalSlots {
		return fmt.Errorf("%w: %d+%d > %d", ErrOutOfRange, t.StartSlot, t.Duration, totalSlots)
	}
	return nil
}

// Operator is a row of the board.
type Operator struct {
	ID       int    `json:"id" toml:"id"`
	Name     string `json:"name" toml:"name"`
	Absences []int  `json:"absences,omitempty" toml:"absences"` // Slot indexes the operator is away
}

// IsAbsent reports whether the operator is away during a slot.
func (o Operator) IsAbsent(slot int) bool {
	for _, s := range o.Absences {
		if s == slot {
			return true
		}
	}
	return false
}

// Job is the business order a task belongs to.
type Job struct {
	ID    int    `json:"id" toml:"id"`
	Name  string `json:"name" toml:"name"`
	Color string `json:"color" toml:"color"`
}

// Snapshot is the authoritative state of the whole board.
type Snapshot struct {
	Tasks     []Task     `json:"tasks"`
	Jobs      []Job      `json:"jobs"`
	Operators []Operator `json:"operators"`
	Vacations []int      `json:"vacations,omitempty"` // Slot indexes closed for everyone
}

// JobByID returns the job with the given id.
func (s *Snapshot) JobByID(id int) (Job, bool) {
	for _, j := range s.Jobs {
		if j.ID == id {
			return j, true
		}
	}
	return Job{}, false
}

// TaskByID returns the task with the given id.
func (s *Snapshot) TaskByID(id string) (Task, bool) {
	for _, t := range s.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return Task{}, false
}

// IsVacation reports whether a slot is closed for everyone.
func (s *Snapshot) IsVacation(slot int) bool {
	for _, v := range s.Vacations {
		if v == slot {
			return true
		}
	}
	return false
}

// SortByStart orders tasks by start slot, then by id for stability.
func SortByStart(tasks []Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		if tasks[i].StartSlot != tasks[j].StartSlot {
			return tasks[i].StartSlot < tasks[j].StartSlot
		}
		return tasks[i].ID < tasks[j].ID
	})
}
