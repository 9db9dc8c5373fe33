package db

import "fmt"

// migrate runs database migrations.
func (s *SQLite) migrate() error {
	query := `
		CREATE TABLE IF NOT EXISTS tasks (
			id          TEXT PRIMARY KEY,
			name        TEXT NOT NULL,
			category    TEXT NOT NULL DEFAULT 'general',
			complete    INTEGER NOT NULL DEFAULT 0 CHECK(complete IN (0, 1)),
			checklist   TEXT NOT NULL DEFAULT '[]',
			created_at  DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_tasks_complete ON tasks(complete);

		CREATE TABLE IF NOT EXISTS snapshots (
			key         TEXT PRIMARY KEY,
			value       TEXT NOT NULL,
			updated_at  DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS day_schedules (
			id            TEXT PRIMARY KEY,
			user_id       TEXT NOT NULL,
			date          DATE NOT NULL,
			schedule_data TEXT NOT NULL,
			created_at    DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_day_schedules_user_date ON day_schedules(user_id, date);

		CREATE TABLE IF NOT EXISTS focus_sessions (
			id               TEXT PRIMARY KEY,
			user_id          TEXT NOT NULL,
			task_id          TEXT NOT NULL DEFAULT '',
			task_name        TEXT NOT NULL DEFAULT '',
			area             TEXT NOT NULL DEFAULT '',
			started_at       DATETIME NOT NULL,
			ended_at         DATETIME NOT NULL,
			duration_seconds INTEGER NOT NULL,
			note             TEXT NOT NULL DEFAULT ''
		);
		CREATE INDEX IF NOT EXISTS idx_focus_sessions_user_started ON focus_sessions(user_id, started_at);
	`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("creating tables: %w", err)
	}

	return nil
}
