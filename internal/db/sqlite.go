// Package db provides SQLite storage implementation.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/javiermolinar/planboard/internal/task"
)

// SQLite implements task.Repository using SQLite.
type SQLite struct {
	db *sql.DB
}

// New creates a new SQLite repository and runs migrations.
func New(path string) (*SQLite, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

const taskColumns = `
	id, operator_id, start_slot, duration, job_id, name, job_name,
	operation_name, quantity, due_date, employees, missing_components
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(r rowScanner) (task.Task, error) {
	var t task.Task
	err := r.Scan(
		&t.ID,
		&t.OperatorID,
		&t.StartSlot,
		&t.Duration,
		&t.JobID,
		&t.Name,
		&t.JobName,
		&t.OperationName,
		&t.Quantity,
		&t.DueDate,
		&t.Employees,
		&t.MissingComponents,
	)
	return t, err
}

// Snapshot returns every operator, job and task.
func (s *SQLite) Snapshot(ctx context.Context) (*task.Snapshot, error) {
	snap := &task.Snapshot{
		Tasks:     []task.Task{},
		Jobs:      []task.Job{},
		Operators: []task.Operator{},
	}

	ops, err := s.operators(ctx)
	if err != nil {
		return nil, err
	}
	snap.Operators = ops

	rows, err := s.db.QueryContext(ctx, `SELECT id, name, color FROM jobs ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying jobs: %w", err)
	}
	for rows.Next() {
		var j task.Job
		if err := rows.Scan(&j.ID, &j.Name, &j.Color); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scanning job: %w", err)
		}
		snap.Jobs = append(snap.Jobs, j)
	}
	if err := closeRows(rows); err != nil {
		return nil, fmt.Errorf("iterating jobs: %w", err)
	}

	rows, err = s.db.QueryContext(ctx, `SELECT `+taskColumns+` FROM tasks ORDER BY operator_id, start_slot, id`)
	if err != nil {
		return nil, fmt.Errorf("querying tasks: %w", err)
	}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scanning task: %w", err)
		}
		snap.Tasks = append(snap.Tasks, t)
	}
	if err := closeRows(rows); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}

	rows, err = s.db.QueryContext(ctx, `SELECT slot FROM vacations ORDER BY slot`)
	if err != nil {
		return nil, fmt.Errorf("querying vacations: %w", err)
	}
	for rows.Next() {
		var slot int
		if err := rows.Scan(&slot); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scanning vacation: %w", err)
		}
		snap.Vacations = append(snap.Vacations, slot)
	}
	if err := closeRows(rows); err != nil {
		return nil, fmt.Errorf("iterating vacations: %w", err)
	}

	return snap, nil
}

func (s *SQLite) operators(ctx context.Context) ([]task.Operator, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM operators ORDER BY position, id`)
	if err != nil {
		return nil, fmt.Errorf("querying operators: %w", err)
	}
	ops := []task.Operator{}
	index := make(map[int]int)
	for rows.Next() {
		var op task.Operator
		if err := rows.Scan(&op.ID, &op.Name); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scanning operator: %w", err)
		}
		index[op.ID] = len(ops)
		ops = append(ops, op)
	}
	if err := closeRows(rows); err != nil {
		return nil, fmt.Errorf("iterating operators: %w", err)
	}

	rows, err = s.db.QueryContext(ctx, `SELECT operator_id, slot FROM operator_absences ORDER BY operator_id, slot`)
	if err != nil {
		return nil, fmt.Errorf("querying absences: %w", err)
	}
	for rows.Next() {
		var opID, slot int
		if err := rows.Scan(&opID, &slot); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scanning absence: %w", err)
		}
		if i, ok := index[opID]; ok {
			ops[i].Absences = append(ops[i].Absences, slot)
		}
	}
	if err := closeRows(rows); err != nil {
		return nil, fmt.Errorf("iterating absences: %w", err)
	}
	return ops, nil
}

// GetTask retrieves a task by ID.
// Returns task.ErrTaskNotFound if it does not exist.
func (s *SQLite) GetTask(ctx context.Context, id string) (*task.Task, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, task.ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying task: %w", err)
	}
	return &t, nil
}

// TasksByOperator returns the tasks of one operator ordered by start slot.
func (s *SQLite) TasksByOperator(ctx context.Context, operatorID int) ([]task.Task, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE operator_id = ? ORDER BY start_slot, id`, operatorID)
	if err != nil {
		return nil, fmt.Errorf("querying tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tasks []task.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning task: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}
	return tasks, nil
}

// SaveTasks writes operator, start slot and duration of the given tasks in one transaction.
func (s *SQLite) SaveTasks(ctx context.Context, tasks []task.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx,
		`UPDATE tasks SET operator_id = ?, start_slot = ?, duration = ? WHERE id = ?`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, t := range tasks {
		result, err := stmt.ExecContext(ctx, t.OperatorID, t.StartSlot, t.Duration, t.ID)
		if err != nil {
			return fmt.Errorf("updating task %s: %w", t.ID, err)
		}
		rows, _ := result.RowsAffected()
		if rows == 0 {
			return fmt.Errorf("task %s: %w", t.ID, task.ErrTaskNotFound)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Replace drops all data and loads the snapshot in its place.
func (s *SQLite) Replace(ctx context.Context, snap *task.Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"tasks", "operator_absences", "operators", "jobs", "vacations"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	for i, op := range snap.Operators {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO operators (id, name, position) VALUES (?, ?, ?)`, op.ID, op.Name, i); err != nil {
			return fmt.Errorf("inserting operator %d: %w", op.ID, err)
		}
		for _, slot := range op.Absences {
			if _, err := tx.ExecContext(ctx,
				`INSERT OR IGNORE INTO operator_absences (operator_id, slot) VALUES (?, ?)`, op.ID, slot); err != nil {
				return fmt.Errorf("inserting absence: %w", err)
			}
		}
	}

	for _, j := range snap.Jobs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO jobs (id, name, color) VALUES (?, ?, ?)`, j.ID, j.Name, j.Color); err != nil {
			return fmt.Errorf("inserting job %d: %w", j.ID, err)
		}
	}

	for _, slot := range snap.Vacations {
		if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO vacations (slot) VALUES (?)`, slot); err != nil {
			return fmt.Errorf("inserting vacation: %w", err)
		}
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO tasks (`+taskColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, t := range snap.Tasks {
		if _, err := stmt.ExecContext(ctx,
			t.ID,
			t.OperatorID,
			t.StartSlot,
			t.Duration,
			t.JobID,
			t.Name,
			t.JobName,
			t.OperationName,
			t.Quantity,
			t.DueDate,
			t.Employees,
			t.MissingComponents,
		); err != nil {
			return fmt.Errorf("inserting task %s: %w", t.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Empty reports whether the database holds no operators yet.
func (s *SQLite) Empty(ctx context.Context) (bool, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM operators`).Scan(&n); err != nil {
		return false, fmt.Errorf("counting operators: %w", err)
	}
	return n == 0, nil
}

// Close releases database resources.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func closeRows(rows *sql.Rows) error {
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return err
	}
	return rows.Close()
}
