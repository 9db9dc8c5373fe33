package sessionlog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/zalando/go-keyring"
)

// KeyringService is the OS keyring service under which the Postgres password is stored.
const KeyringService = "dayboard"

// ErrNoCredentials is returned when the keyring holds no password for the user.
var ErrNoCredentials = errors.New("no session log credentials in keyring")

// Postgres is a Store backed by a remote PostgreSQL database.
type Postgres struct {
	db *sqlx.DB
}

// OpenPostgres connects to dsn and ensures the schema exists.
func OpenPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to session log: %w", err)
	}
	p := NewPostgres(db)
	if err := p.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running session log migrations: %w", err)
	}
	return p, nil
}

// NewPostgres wraps an open database handle.
func NewPostgres(db *sqlx.DB) *Postgres {
	return &Postgres{db: db}
}

// PasswordFromKeyring looks up the password stored for user.
func PasswordFromKeyring(user string) (string, error) {
	pw, err := keyring.Get(KeyringService, user)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNoCredentials
		}
		return "", fmt.Errorf("reading keyring: %w", err)
	}
	return pw, nil
}

// StorePassword saves the password for user in the OS keyring.
func StorePassword(user, password string) error {
	if err := keyring.Set(KeyringService, user, password); err != nil {
		return fmt.Errorf("writing keyring: %w", err)
	}
	return nil
}

// Migrate creates the session log tables.
func (p *Postgres) Migrate(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS day_schedules (
			id            TEXT PRIMARY KEY,
			user_id       TEXT NOT NULL,
			date          DATE NOT NULL,
			schedule_data JSONB NOT NULL,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE INDEX IF NOT EXISTS idx_day_schedules_user_date ON day_schedules(user_id, date);

		CREATE TABLE IF NOT EXISTS focus_sessions (
			id               TEXT PRIMARY KEY,
			user_id          TEXT NOT NULL,
			task_id          TEXT NOT NULL DEFAULT '',
			task_name        TEXT NOT NULL DEFAULT '',
			area             TEXT NOT NULL DEFAULT '',
			started_at       TIMESTAMPTZ NOT NULL,
			ended_at         TIMESTAMPTZ NOT NULL,
			duration_seconds BIGINT NOT NULL,
			note             TEXT NOT NULL DEFAULT ''
		);
		CREATE INDEX IF NOT EXISTS idx_focus_sessions_user_started ON focus_sessions(user_id, started_at);
	`
	if _, err := p.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("creating session log tables: %w", err)
	}
	return nil
}

// AppendSchedule inserts a committed day plan.
func (p *Postgres) AppendSchedule(ctx context.Context, rec Record) error {
	data, err := json.Marshal(rec.ScheduleData)
	if err != nil {
		return fmt.Errorf("marshaling schedule data: %w", err)
	}

	query := `
		INSERT INTO day_schedules (id, user_id, date, schedule_data, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := p.db.ExecContext(ctx, query, rec.ID, rec.UserID, rec.Date, data, rec.CreatedAt); err != nil {
		return fmt.Errorf("inserting day schedule: %w", err)
	}
	return nil
}

type scheduleRow struct {
	ID           string    `db:"id"`
	UserID       string    `db:"user_id"`
	Date         string    `db:"date"`
	ScheduleData []byte    `db:"schedule_data"`
	CreatedAt    time.Time `db:"created_at"`
}

// ListSchedules returns the committed plans of a user for a day.
func (p *Postgres) ListSchedules(ctx context.Context, userID, day string) ([]Record, error) {
	query := `
		SELECT id, user_id, to_char(date, 'YYYY-MM-DD') AS date, schedule_data, created_at
		FROM day_schedules
		WHERE user_id = $1 AND date = $2
		ORDER BY created_at
	`
	var rows []scheduleRow
	if err := p.db.SelectContext(ctx, &rows, query, userID, day); err != nil {
		return nil, fmt.Errorf("querying day schedules: %w", err)
	}

	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		rec := Record{ID: row.ID, UserID: row.UserID, Date: row.Date, CreatedAt: row.CreatedAt}
		if err := json.Unmarshal(row.ScheduleData, &rec.ScheduleData); err != nil {
			return nil, fmt.Errorf("parsing schedule data of %s: %w", row.ID, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// AppendFocus inserts a focus session.
func (p *Postgres) AppendFocus(ctx context.Context, entry FocusEntry) error {
	query := `
		INSERT INTO focus_sessions (
			id, user_id, task_id, task_name, area, started_at, ended_at, duration_seconds, note
		) VALUES (
			:id, :user_id, :task_id, :task_name, :area, :started_at, :ended_at, :duration_seconds, :note
		)
	`
	if _, err := p.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("inserting focus session: %w", err)
	}
	return nil
}

// ListFocus returns the focus sessions of a user started in [from, to).
func (p *Postgres) ListFocus(ctx context.Context, userID string, from, to time.Time) ([]FocusEntry, error) {
	query := `
		SELECT id, user_id, task_id, task_name, area, started_at, ended_at, duration_seconds, note
		FROM focus_sessions
		WHERE user_id = $1 AND started_at >= $2 AND started_at < $3
		ORDER BY started_at
	`
	var entries []FocusEntry
	if err := p.db.SelectContext(ctx, &entries, query, userID, from.UTC(), to.UTC()); err != nil {
		return nil, fmt.Errorf("querying focus sessions: %w", err)
	}
	return entries, nil
}

// Close releases the database handle.
func (p *Postgres) Close() error {
	return p.db.Close()
}
