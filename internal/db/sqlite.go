// Package db provides SQLite storage implementation.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/javiermolinar/dayboard/internal/task"
)

// SQLite stores tasks, schedule snapshots and the session log in one SQLite file.
// It implements task.Repository, snapshot.Store and sessionlog.Store.
type SQLite struct {
	db *sql.DB
}

// New creates a new SQLite repository and runs migrations.
func New(path string) (*SQLite, error) {
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

// Close releases database resources.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// CreateTask adds a new task to the repository.
func (s *SQLite) CreateTask(ctx context.Context, t *task.Task) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO tasks (id, name, category, complete, checklist, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		t.ID,
		t.Name,
		t.Category,
		t.Complete,
		t.Checklist.Encode(),
		t.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}
	return nil
}

const taskColumns = `id, name, category, complete, checklist, created_at`

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanTask reads one task row. A corrupt checklist decodes to an empty list
// so a single bad row never blocks loading the rest.
func scanTask(row scanner) (*task.Task, error) {
	var (
		t         task.Task
		checklist string
		createdAt string
	)
	if err := row.Scan(&t.ID, &t.Name, &t.Category, &t.Complete, &checklist, &createdAt); err != nil {
		return nil, err
	}
	t.Checklist = task.DecodeChecklist([]byte(checklist))

	created, err := parseTimestamp(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created at: %w", err)
	}
	t.CreatedAt = created
	return &t, nil
}

// GetTask retrieves a task by ID. Returns nil, nil when it does not exist.
func (s *SQLite) GetTask(ctx context.Context, id string) (*task.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = ?`

	t, err := scanTask(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying task: %w", err)
	}
	return t, nil
}

// ListTasks returns every task, oldest first.
func (s *SQLite) ListTasks(ctx context.Context) ([]*task.Task, error) {
	return s.listTasks(ctx, `SELECT `+taskColumns+` FROM tasks ORDER BY created_at, name`)
}

// ListIncompleteTasks returns the tasks not yet complete, oldest first.
func (s *SQLite) ListIncompleteTasks(ctx context.Context) ([]*task.Task, error) {
	return s.listTasks(ctx, `SELECT `+taskColumns+` FROM tasks WHERE complete = 0 ORDER BY created_at, name`)
}

func (s *SQLite) listTasks(ctx context.Context, query string, args ...any) ([]*task.Task, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tasks []*task.Task
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

// SetComplete marks a task complete or incomplete.
func (s *SQLite) SetComplete(ctx context.Context, id string, complete bool) error {
	return s.updateTask(ctx, `UPDATE tasks SET complete = ? WHERE id = ?`, id, complete)
}

// UpdateChecklist replaces a task's checklist.
func (s *SQLite) UpdateChecklist(ctx context.Context, id string, checklist task.Checklist) error {
	return s.updateTask(ctx, `UPDATE tasks SET checklist = ? WHERE id = ?`, id, checklist.Encode())
}

// DeleteTask removes a task.
func (s *SQLite) DeleteTask(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	return requireRow(result, id)
}

func (s *SQLite) updateTask(ctx context.Context, query, id string, value any) error {
	result, err := s.db.ExecContext(ctx, query, value, id)
	if err != nil {
		return fmt.Errorf("updating task: %w", err)
	}
	return requireRow(result, id)
}

func requireRow(result sql.Result, id string) error {
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("%w: %s", task.ErrTaskNotFound, id)
	}
	return nil
}

// parseTimestamp parses a timestamp string in the formats SQLite might return.
func parseTimestamp(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05Z",
		"2006-01-02 15:04:05",
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp format: %s", s)
}
