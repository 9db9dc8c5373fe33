// Package sessionlog records committed day plans and deep-work focus sessions.
package sessionlog

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/javiermolinar/dayboard/internal/dateutil"
	"github.com/javiermolinar/dayboard/internal/grid"
)

// Validation errors.
var (
	ErrEmptyUser     = errors.New("user id cannot be empty")
	ErrEmptyPlan     = errors.New("day plan has no bookings")
	ErrInvalidWindow = errors.New("focus session must end after it starts")
)

// Record is one committed day plan.
type Record struct {
	ID           string       `json:"id" db:"id"`
	UserID       string       `json:"user_id" db:"user_id"`
	Date         string       `json:"date" db:"date"`
	ScheduleData []grid.Entry `json:"schedule_data" db:"-"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
}

// NewRecord builds a record for the committed schedule of day.
func NewRecord(userID, day string, entries []grid.Entry, now time.Time) (Record, error) {
	if strings.TrimSpace(userID) == "" {
		return Record{}, ErrEmptyUser
	}
	if err := dateutil.ValidateKey(day); err != nil {
		return Record{}, err
	}
	if len(entries) == 0 {
		return Record{}, ErrEmptyPlan
	}
	return Record{
		ID:           uuid.NewString(),
		UserID:       userID,
		Date:         day,
		ScheduleData: entries,
		CreatedAt:    now.UTC(),
	}, nil
}

// FocusEntry is one tracked deep-work session.
type FocusEntry struct {
	ID              string    `json:"id" db:"id"`
	UserID          string    `json:"user_id" db:"user_id"`
	TaskID          string    `json:"task_id" db:"task_id"`
	TaskName        string    `json:"task_name" db:"task_name"`
	Area            string    `json:"area" db:"area"`
	StartedAt       time.Time `json:"started_at" db:"started_at"`
	EndedAt         time.Time `json:"ended_at" db:"ended_at"`
	DurationSeconds int64     `json:"duration_seconds" db:"duration_seconds"`
	Note            string    `json:"note" db:"note"`
}

// NewFocusEntry validates a focus session and computes its duration.
func NewFocusEntry(userID, taskID, taskName, area string, start, end time.Time, note string) (FocusEntry, error) {
	if strings.TrimSpace(userID) == "" {
		return FocusEntry{}, ErrEmptyUser
	}
	if !end.After(start) {
		return FocusEntry{}, ErrInvalidWindow
	}
	return FocusEntry{
		ID:              uuid.NewString(),
		UserID:          userID,
		TaskID:          taskID,
		TaskName:        taskName,
		Area:            area,
		StartedAt:       start.UTC(),
		EndedAt:         end.UTC(),
		DurationSeconds: int64(end.Sub(start) / time.Second),
		Note:            note,
	}, nil
}

// Duration returns the length of the session.
func (f FocusEntry) Duration() time.Duration {
	return time.Duration(f.DurationSeconds) * time.Second
}

// Store is the append-only session log.
type Store interface {
	// AppendSchedule appends a committed day plan.
	AppendSchedule(ctx context.Context, rec Record) error

	// ListSchedules returns the committed plans of a user for a day, oldest first.
	ListSchedules(ctx context.Context, userID, day string) ([]Record, error)

	// AppendFocus appends a focus session.
	AppendFocus(ctx context.Context, entry FocusEntry) error

	// ListFocus returns focus sessions started in [from, to), oldest first.
	ListFocus(ctx context.Context, userID string, from, to time.Time) ([]FocusEntry, error)
}
