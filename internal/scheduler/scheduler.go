// Package scheduler places tasks on operator rows and resolves collisions between them.
package scheduler

import (
	"fmt"

	"github.com/javiermolinar/planboard/internal/task"
)

const (
	// maxPushChain bounds how many neighbours a keyboard push may shove along.
	maxPushChain = 20
	// maxResolvePasses bounds the pairwise collision resolution loop.
	maxResolvePasses = 50
)

// KeyboardResult describes the outcome of a discrete keyboard step.
type KeyboardResult struct {
	NewSlot       int
	NewOperatorID int
	Blocked       bool // The step was refused because neighbours could not make room
}

// Board is an in-memory working copy of the schedule.
// Every mutating method either applies completely or leaves the board untouched.
type Board struct {
	totalSlots int
	operators  []task.Operator
	tasks      map[string]*task.Task
	order      []string // Insertion order, for stable output
	dirty      map[string]bool
}

// NewBoard copies the tasks of a snapshot into a working board.
func NewBoard(snap *task.Snapshot, totalSlots int) *Board {
	b := &Board{
		totalSlots: totalSlots,
		tasks:      make(map[string]*task.Task),
		dirty:      make(map[string]bool),
	}
	if snap == nil {
		return b
	}
	b.operators = append(b.operators, snap.Operators...)
	for _, t := range snap.Tasks {
		tc := t
		b.tasks[t.ID] = &tc
		b.order = append(b.order, t.ID)
	}
	return b
}

// Task returns a copy of the task with the given id.
func (b *Board) Task(id string) (task.Task, bool) {
	t, ok := b.tasks[id]
	if !ok {
		return task.Task{}, false
	}
	return *t, true
}

// Changed returns copies of every task modified since the board was created.
func (b *Board) Changed() []task.Task {
	var out []task.Task
	for _, id := range b.order {
		if b.dirty[id] {
			out = append(out, *b.tasks[id])
		}
	}
	return out
}

// Move places a task at a new operator and start slot, pushing colliding tasks right.
// A start too close to the end of the axis is pulled back so the task still fits.
func (b *Board) Move(id string, operatorID, startSlot int) error {
	t, ok := b.tasks[id]
	if !ok {
		return task.ErrTaskNotFound
	}
	if !b.hasOperator(operatorID) {
		return task.ErrOperatorNotFound
	}
	if startSlot < 0 {
		return task.ErrNegativeStart
	}
	if startSlot+t.Duration > b.totalSlots {
		startSlot = b.totalSlots - t.Duration
	}

	return b.apply(func(w *Board) error {
		if err := w.pushRight(operatorID, startSlot, t.Duration, id); err != nil {
			return err
		}
		oldOperator := w.tasks[id].OperatorID
		w.set(id, operatorID, startSlot, t.Duration)
		if oldOperator != operatorID && w.firstCollision(operatorID, startSlot, t.Duration, id) != nil {
			w.resolve(operatorID)
		}
		return nil
	})
}

// Resize changes the duration of a task in place and resolves the collisions it creates.
func (b *Board) Resize(id string, duration int) error {
	t, ok := b.tasks[id]
	if !ok {
		return task.ErrTaskNotFound
	}
	if duration < 1 {
		return task.ErrInvalidDuration
	}
	if t.StartSlot+duration > b.totalSlots {
		return fmt.Errorf("%w: %d+%d > %d", task.ErrOutOfRange, t.StartSlot, duration, b.totalSlots)
	}

	return b.apply(func(w *Board) error {
		w.set(id, t.OperatorID, t.StartSlot, duration)
		if w.firstCollision(t.OperatorID, t.StartSlot, duration, id) != nil {
			w.resolve(t.OperatorID)
		}
		return nil
	})
}

// ResizeAndMove sets operator, start and duration at once (left-edge resize).
func (b *Board) ResizeAndMove(id string, operatorID, startSlot, duration int) error {
	t, ok := b.tasks[id]
	if !ok {
		return task.ErrTaskNotFound
	}
	if !b.hasOperator(operatorID) {
		return task.ErrOperatorNotFound
	}
	if startSlot < 0 {
		return task.ErrNegativeStart
	}
	if duration < 1 {
		return task.ErrInvalidDuration
	}
	if startSlot+duration > b.totalSlots {
		return fmt.Errorf("%w: %d+%d > %d", task.ErrOutOfRange, startSlot, duration, b.totalSlots)
	}

	oldOperator := t.OperatorID
	return b.apply(func(w *Board) error {
		w.set(id, operatorID, startSlot, duration)
		if w.firstCollision(operatorID, startSlot, duration, id) != nil {
			w.resolve(operatorID)
		}
		if oldOperator != operatorID {
			w.resolve(oldOperator)
		}
		return nil
	})
}

// KeyboardMove shifts a task one slot left or right, shoving neighbours along,
// or one operator up or down. A blocked horizontal step is not an error.
func (b *Board) KeyboardMove(id string, dir task.Direction) (KeyboardResult, error) {
	t, ok := b.tasks[id]
	if !ok {
		return KeyboardResult{}, task.ErrTaskNotFound
	}

	switch dir {
	case task.Left, task.Right:
		return b.keyboardShift(t, dir)
	case task.Up, task.Down:
		return b.keyboardRow(t, dir)
	default:
		return KeyboardResult{}, task.ErrInvalidDirection
	}
}

func (b *Board) keyboardShift(t *task.Task, dir task.Direction) (KeyboardResult, error) {
	current := t.StartSlot
	newSlot := current - 1
	if dir == task.Right {
		newSlot = current + 1
	}
	newSlot = max(0, min(b.totalSlots-t.Duration, newSlot))
	result := KeyboardResult{NewSlot: current, NewOperatorID: t.OperatorID}
	if newSlot == current {
		return result, nil
	}

	err := b.apply(func(w *Board) error {
		if c := w.nearestCollision(t.OperatorID, newSlot, t.Duration, t.ID, dir); c != nil {
			boundary := newSlot
			if dir == task.Right {
				boundary = newSlot + t.Duration
			}
			if err := w.pushChain(c, dir, boundary, t.ID); err != nil {
				return err
			}
		}
		w.set(t.ID, t.OperatorID, newSlot, t.Duration)
		return nil
	})
	if err != nil {
		result.Blocked = true
		return result, nil
	}
	result.NewSlot = newSlot
	return result, nil
}

func (b *Board) keyboardRow(t *task.Task, dir task.Direction) (KeyboardResult, error) {
	idx := b.operatorIndex(t.OperatorID)
	if idx < 0 {
		return KeyboardResult{}, task.ErrOperatorNotFound
	}
	if dir == task.Up && idx > 0 {
		idx--
	} else if dir == task.Down && idx < len(b.operators)-1 {
		idx++
	}
	target := b.operators[idx].ID
	result := KeyboardResult{NewSlot: t.StartSlot, NewOperatorID: target}
	if target == t.OperatorID {
		return result, nil
	}

	err := b.apply(func(w *Board) error {
		w.set(t.ID, target, t.StartSlot, t.Duration)
		if w.firstCollision(target, t.StartSlot, t.Duration, t.ID) != nil {
			w.resolve(target)
		}
		return nil
	})
	if err != nil {
		return KeyboardResult{}, err
	}
	if moved, ok := b.tasks[t.ID]; ok {
		result.NewSlot = moved.StartSlot
	}
	return result, nil
}

// apply runs fn on a clone and commits the clone only if fn succeeds.
func (b *Board) apply(fn func(w *Board) error) error {
	w := b.clone()
	if err := fn(w); err != nil {
		return err
	}
	b.tasks = w.tasks
	b.dirty = w.dirty
	return nil
}

func (b *Board) clone() *Board {
	c := &Board{
		totalSlots: b.totalSlots,
		operators:  b.operators,
		tasks:      make(map[string]*task.Task, len(b.tasks)),
		order:      b.order,
		dirty:      make(map[string]bool, len(b.dirty)),
	}
	for id, t := range b.tasks {
		tc := *t
		c.tasks[id] = &tc
	}
	for id, d := range b.dirty {
		c.dirty[id] = d
	}
	return c
}

func (b *Board) set(id string, operatorID, start, duration int) {
	t := b.tasks[id]
	if t.OperatorID == operatorID && t.StartSlot == start && t.Duration == duration {
		return
	}
	t.OperatorID = operatorID
	t.StartSlot = start
	t.Duration = duration
	b.dirty[id] = true
}

// row returns the tasks of an operator ordered by start, skipping excluded ids.
func (b *Board) row(operatorID int, exclude ...string) []*task.Task {
	var out []*task.Task
	for _, id := range b.order {
		t := b.tasks[id]
		if t.OperatorID != operatorID || contains(exclude, id) {
			continue
		}
		out = append(out, t)
	}
	sortPtrs(out)
	return out
}

func (b *Board) firstCollision(operatorID, start, duration int, exclude ...string) *task.Task {
	for _, t := range b.row(operatorID, exclude...) {
		if task.RangesOverlap(start, duration, t.StartSlot, t.Duration) {
			return t
		}
	}
	return nil
}

// nearestCollision returns the colliding task closest in the direction of travel.
func (b *Board) nearestCollision(operatorID, start, duration int, exclude string, dir task.Direction) *task.Task {
	var found *task.Task
	for _, t := range b.row(operatorID, exclude) {
		if !task.RangesOverlap(start, duration, t.StartSlot, t.Duration) {
			continue
		}
		if found == nil ||
			(dir == task.Right && t.StartSlot < found.StartSlot) ||
			(dir == task.Left && t.StartSlot > found.StartSlot) {
			found = t
		}
	}
	return found
}

// pushRight makes room for [start, start+duration) by shifting every
// overlapping task, and any task they run into, to the right.
func (b *Board) pushRight(operatorID, start, duration int, exclude string) error {
	cursor := start + duration
	for _, t := range b.row(operatorID, exclude) {
		if t.End() <= start {
			continue
		}
		if t.StartSlot >= cursor {
			break
		}
		if cursor+t.Duration > b.totalSlots {
			return task.ErrNoRoom
		}
		b.set(t.ID, operatorID, cursor, t.Duration)
		cursor = t.End()
	}
	return nil
}

// pushChain shoves c, and every task it runs into, past boundary in dir.
func (b *Board) pushChain(c *task.Task, dir task.Direction, boundary int, mover string) error {
	current := c
	for i := 0; current != nil; i++ {
		if i >= maxPushChain {
			return task.ErrNoRoom
		}
		newStart := boundary
		if dir == task.Left {
			newStart = boundary - current.Duration
			if newStart < 0 {
				return task.ErrNoRoom
			}
		} else if newStart+current.Duration > b.totalSlots {
			return task.ErrNoRoom
		}

		next := b.nearestCollision(current.OperatorID, newStart, current.Duration, current.ID, dir)
		if next != nil && next.ID == mover {
			next = nil
		}
		b.set(current.ID, current.OperatorID, newStart, current.Duration)

		if dir == task.Left {
			boundary = newStart
		} else {
			boundary = newStart + current.Duration
		}
		current = next
	}
	return nil
}

// resolve removes overlaps on a row by pushing the later task of each
// overlapping pair right, or the earlier one left when the right is full.
func (b *Board) resolve(operatorID int) {
	for pass := 0; pass < maxResolvePasses; pass++ {
		tasks := b.row(operatorID)
		collided := false
		for i := 0; i+1 < len(tasks); i++ {
			first, second := tasks[i], tasks[i+1]
			if first.End() <= second.StartSlot {
				continue
			}
			collided = true
			maxStart := b.totalSlots - second.Duration
			switch {
			case first.End() <= maxStart:
				b.set(second.ID, operatorID, first.End(), second.Duration)
			case second.StartSlot-first.Duration >= 0:
				b.set(first.ID, operatorID, second.StartSlot-first.Duration, first.Duration)
			default:
				b.set(second.ID, operatorID, maxStart, second.Duration)
			}
			break
		}
		if !collided {
			return
		}
	}
}

func (b *Board) hasOperator(id int) bool {
	return b.operatorIndex(id) >= 0
}

func (b *Board) operatorIndex(id int) int {
	for i, op := range b.operators {
		if op.ID == id {
			return i
		}
	}
	return -1
}

func contains(ids []string, id string) bool {
	for _, s := range ids {
		if s == id {
			return true
		}
	}
	return false
}

func sortPtrs(tasks []*task.Task) {
	for i := 1; i < len(tasks); i++ {
		for j := i; j > 0 && less(tasks[j], tasks[j-1]); j-- {
			tasks[j], tasks[j-1] = tasks[j-1], tasks[j]
		}
	}
}

func less(a, b *task.Task) bool {
	if a.StartSlot != b.StartSlot {
		return a.StartSlot < b.StartSlot
	}
	return a.ID < b.ID
}
