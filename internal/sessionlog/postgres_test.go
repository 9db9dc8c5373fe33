package sessionlog

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javiermolinar/dayboard/internal/grid"
)

func newPostgresMock(t *testing.T) (*Postgres, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgres(sqlx.NewDb(db, "postgres")), mock
}

func TestPostgresMigrate(t *testing.T) {
	store, mock := newPostgresMock(t)

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS day_schedules")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, store.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresAppendSchedule(t *testing.T) {
	store, mock := newPostgresMock(t)

	rec := Record{
		ID:     "rec-1",
		UserID: "me",
		Date:   "2024-01-15",
		ScheduleData: []grid.Entry{
			{TimeSlot: "1:00 AM", SlotIndex: 2, TaskID: "a", TaskName: "A", DurationSlots: 2, Area: "work"},
		},
		CreatedAt: time.Date(2024, 1, 15, 23, 59, 0, 0, time.UTC),
	}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO day_schedules")).
		WithArgs("rec-1", "me", "2024-01-15", sqlmock.AnyArg(), rec.CreatedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, store.AppendSchedule(context.Background(), rec))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresAppendSchedule_WrapsErrors(t *testing.T) {
	store, mock := newPostgresMock(t)
	boom := errors.New("connection reset")

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO day_schedules")).WillReturnError(boom)

	err := store.AppendSchedule(context.Background(), Record{ID: "x", UserID: "me", Date: "2024-01-15"})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "inserting day schedule")
}

func TestPostgresListSchedules(t *testing.T) {
	store, mock := newPostgresMock(t)
	created := time.Date(2024, 1, 15, 23, 59, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"id", "user_id", "date", "schedule_data", "created_at"}).
		AddRow("rec-1", "me", "2024-01-15",
			[]byte(`[{"time_slot":"1:00 AM","slot_index":2,"task_id":"a","task_name":"A","duration_slots":2,"area":"work"},
				{"time_slot":"8:00 PM","slot_index":40,"task_id":"b","task_name":"B","duration_slots":1,"area":"home"}]`),
			created)

	mock.ExpectQuery(regexp.QuoteMeta("FROM day_schedules")).
		WithArgs("me", "2024-01-15").
		WillReturnRows(rows)

	records, err := store.ListSchedules(context.Background(), "me", "2024-01-15")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "rec-1", records[0].ID)
	require.Len(t, records[0].ScheduleData, 2)
	assert.Equal(t, 40, records[0].ScheduleData[1].SlotIndex)
	assert.Equal(t, "home", records[0].ScheduleData[1].Area)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresAppendFocus(t *testing.T) {
	store, mock := newPostgresMock(t)
	start := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	entry := FocusEntry{
		ID: "f-1", UserID: "me", TaskID: "t1", TaskName: "Write report", Area: "work",
		StartedAt: start, EndedAt: start.Add(time.Hour), DurationSeconds: 3600,
	}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO focus_sessions")).
		WithArgs("f-1", "me", "t1", "Write report", "work", entry.StartedAt, entry.EndedAt, int64(3600), "").
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, store.AppendFocus(context.Background(), entry))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresListFocus(t *testing.T) {
	store, mock := newPostgresMock(t)
	from := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)
	start := from.Add(9 * time.Hour)

	rows := sqlmock.NewRows([]string{"id", "user_id", "task_id", "task_name", "area", "started_at", "ended_at", "duration_seconds", "note"}).
		AddRow("f-1", "me", "t1", "Write report", "work", start, start.Add(time.Hour), int64(3600), "")

	mock.ExpectQuery(regexp.QuoteMeta("FROM focus_sessions")).
		WithArgs("me", from, to).
		WillReturnRows(rows)

	entries, err := store.ListFocus(context.Background(), "me", from, to)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, time.Hour, entries[0].Duration())
	assert.NoError(t, mock.ExpectationsWereMet())
}
