package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/javiermolinar/dayboard/internal/sessionlog"
)

// AppendSchedule appends a committed day plan to the local session log.
func (s *SQLite) AppendSchedule(ctx context.Context, rec sessionlog.Record) error {
	data, err := json.Marshal(rec.ScheduleData)
	if err != nil {
		return fmt.Errorf("marshaling schedule data: %w", err)
	}

	query := `
		INSERT INTO day_schedules (id, user_id, date, schedule_data, created_at)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err = s.db.ExecContext(ctx, query,
		rec.ID,
		rec.UserID,
		rec.Date,
		string(data),
		rec.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("inserting day schedule: %w", err)
	}
	return nil
}

// ListSchedules returns the committed plans of a user for a day, oldest first.
func (s *SQLite) ListSchedules(ctx context.Context, userID, day string) ([]sessionlog.Record, error) {
	query := `
		SELECT id, user_id, date, schedule_data, created_at
		FROM day_schedules
		WHERE user_id = ? AND date = ?
		ORDER BY created_at
	`
	rows, err := s.db.QueryContext(ctx, query, userID, day)
	if err != nil {
		return nil, fmt.Errorf("querying day schedules: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []sessionlog.Record
	for rows.Next() {
		var (
			rec       sessionlog.Record
			date      string
			data      string
			createdAt string
		)
		if err := rows.Scan(&rec.ID, &rec.UserID, &date, &data, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning day schedule: %w", err)
		}
		rec.Date = normalizeDate(date)
		if err := json.Unmarshal([]byte(data), &rec.ScheduleData); err != nil {
			return nil, fmt.Errorf("parsing schedule data of %s: %w", rec.ID, err)
		}
		if rec.CreatedAt, err = parseTimestamp(createdAt); err != nil {
			return nil, fmt.Errorf("parsing created at: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating day schedules: %w", err)
	}
	return records, nil
}

// AppendFocus appends a focus session.
func (s *SQLite) AppendFocus(ctx context.Context, entry sessionlog.FocusEntry) error {
	query := `
		INSERT INTO focus_sessions (
			id, user_id, task_id, task_name, area, started_at, ended_at, duration_seconds, note
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		entry.ID,
		entry.UserID,
		entry.TaskID,
		entry.TaskName,
		entry.Area,
		entry.StartedAt.UTC().Format(time.RFC3339),
		entry.EndedAt.UTC().Format(time.RFC3339),
		entry.DurationSeconds,
		entry.Note,
	)
	if err != nil {
		return fmt.Errorf("inserting focus session: %w", err)
	}
	return nil
}

// ListFocus returns focus sessions of a user started in [from, to), oldest first.
func (s *SQLite) ListFocus(ctx context.Context, userID string, from, to time.Time) ([]sessionlog.FocusEntry, error) {
	query := `
		SELECT id, user_id, task_id, task_name, area, started_at, ended_at, duration_seconds, note
		FROM focus_sessions
		WHERE user_id = ? AND started_at >= ? AND started_at < ?
		ORDER BY started_at
	`
	rows, err := s.db.QueryContext(ctx, query, userID,
		from.UTC().Format(time.RFC3339), to.UTC().Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("querying focus sessions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []sessionlog.FocusEntry
	for rows.Next() {
		var (
			e              sessionlog.FocusEntry
			started, ended string
		)
		err := rows.Scan(&e.ID, &e.UserID, &e.TaskID, &e.TaskName, &e.Area, &started, &ended, &e.DurationSeconds, &e.Note)
		if err != nil {
			return nil, fmt.Errorf("scanning focus session: %w", err)
		}
		if e.StartedAt, err = parseTimestamp(started); err != nil {
			return nil, fmt.Errorf("parsing started at: %w", err)
		}
		if e.EndedAt, err = parseTimestamp(ended); err != nil {
			return nil, fmt.Errorf("parsing ended at: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating focus sessions: %w", err)
	}
	return entries, nil
}

// normalizeDate trims the "T00:00:00Z" suffix SQLite may add to DATE columns.
func normalizeDate(s string) string {
	if len(s) > 10 && s[10] == 'T' {
		return s[:10]
	}
	return s
}
