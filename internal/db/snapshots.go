package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/javiermolinar/dayboard/internal/snapshot"
)

// Save writes a schedule snapshot, overwriting the previous one for its day.
func (s *SQLite) Save(ctx context.Context, snap snapshot.Snapshot) error {
	data, err := snapshot.Encode(snap)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO snapshots (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	_, err = s.db.ExecContext(ctx, query, snapshot.Key(snap.Date), string(data), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("writing snapshot %s: %w", snapshot.Key(snap.Date), err)
	}
	return nil
}

// Load returns the snapshot for day, or nil, nil if none is stored.
func (s *SQLite) Load(ctx context.Context, day string) (*snapshot.Snapshot, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM snapshots WHERE key = ?`, snapshot.Key(day)).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading snapshot %s: %w", snapshot.Key(day), err)
	}
	return snapshot.Decode(day, []byte(value))
}
