package task

import "context"

// Repository defines the storage interface for the board.
type Repository interface {
	// Snapshot returns every operator, job and task.
	Snapshot(ctx context.Context) (*Snapshot, error)

	// GetTask retrieves a task by ID. Returns ErrTaskNotFound if it does not exist.
	GetTask(ctx context.Context, id string) (*Task, error)

	// TasksByOperator returns the tasks assigned to one operator, ordered by start slot.
	TasksByOperator(ctx context.Context, operatorID int) ([]Task, error)

	// SaveTasks updates operator, start slot and duration of the given tasks atomically.
	SaveTasks(ctx context.Context, tasks []Task) error

	// Replace drops all data and loads the snapshot in its place.
	Replace(ctx context.Context, snap *Snapshot) error

	// Close releases any resources held by the repository.
	Close() error
}
