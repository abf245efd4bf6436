package db

import "fmt"

// migrate runs database migrations.
func (s *SQLite) migrate() error {
	query := `
		CREATE TABLE IF NOT EXISTS operators (
			id       INTEGER PRIMARY KEY,
			name     TEXT NOT NULL,
			position INTEGER NOT NULL DEFAULT 0
		);

		CREATE TABLE IF NOT EXISTS operator_absences (
			operator_id INTEGER NOT NULL REFERENCES operators(id) ON DELETE CASCADE,
			slot        INTEGER NOT NULL CHECK(slot >= 0),
			PRIMARY KEY (operator_id, slot)
		);

		CREATE TABLE IF NOT EXISTS jobs (
			id    INTEGER PRIMARY KEY,
			name  TEXT NOT NULL,
			color TEXT NOT NULL DEFAULT ''
		);

		CREATE TABLE IF NOT EXISTS tasks (
			id                 TEXT PRIMARY KEY,
			operator_id        INTEGER NOT NULL REFERENCES operators(id),
			start_slot         INTEGER NOT NULL CHECK(start_slot >= 0),
			duration           INTEGER NOT NULL CHECK(duration >= 1),
			job_id             INTEGER NOT NULL DEFAULT 0,
			name               TEXT NOT NULL DEFAULT '',
			job_name           TEXT NOT NULL DEFAULT '',
			operation_name     TEXT NOT NULL DEFAULT '',
			quantity           REAL NOT NULL DEFAULT 0,
			due_date           TEXT NOT NULL DEFAULT '',
			employees          TEXT NOT NULL DEFAULT '',
			missing_components TEXT NOT NULL DEFAULT ''
		);

		CREATE TABLE IF NOT EXISTS vacations (
			slot INTEGER PRIMARY KEY CHECK(slot >= 0)
		);

		CREATE INDEX IF NOT EXISTS idx_tasks_operator ON tasks(operator_id, start_slot);
	`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	return nil
}
