// Package snapshot persists day schedules to a local key-value store.
package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/javiermolinar/dayboard/internal/dateutil"
	"github.com/javiermolinar/dayboard/internal/grid"
)

// KeyPrefix prefixes every snapshot key.
const KeyPrefix = "schedule_"

// ErrDateMismatch is returned when a stored payload belongs to a different day than its key.
var ErrDateMismatch = errors.New("snapshot date does not match key")

// Snapshot is the stored form of one day's schedule.
// The bookings live under "tasks" for compatibility with existing payloads.
type Snapshot struct {
	Date  string        `json:"date"`
	Tasks grid.Schedule `json:"tasks"`
}

// Store reads and writes snapshots.
type Store interface {
	// Save writes the snapshot under Key(snap.Date), replacing any previous value.
	Save(ctx context.Context, snap Snapshot) error

	// Load returns the snapshot for day, or nil, nil if none is stored.
	Load(ctx context.Context, day string) (*Snapshot, error)
}

// Key returns the storage key for a day.
func Key(day string) string {
	return KeyPrefix + day
}

// Encode validates and serializes a snapshot.
func Encode(snap Snapshot) ([]byte, error) {
	if err := dateutil.ValidateKey(snap.Date); err != nil {
		return nil, fmt.Errorf("snapshot date %q: %w", snap.Date, err)
	}
	if snap.Tasks == nil {
		snap.Tasks = grid.New()
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("marshaling snapshot: %w", err)
	}
	return data, nil
}

// Decode parses a stored payload for day. Bookings with invalid slots or
// missing tasks are dropped and durations are clamped into range.
func Decode(day string, data []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parsing snapshot %s: %w", Key(day), err)
	}
	if snap.Date != "" && snap.Date != day {
		return nil, fmt.Errorf("%w: key %s holds %s", ErrDateMismatch, Key(day), snap.Date)
	}
	snap.Date = day

	cleaned := grid.New()
	for slot, list := range snap.Tasks {
		if !grid.ValidSlot(slot) {
			continue
		}
		for _, b := range list {
			if b.Task.ID == "" {
				continue
			}
			b.Duration = grid.ClampDuration(b.Duration)
			cleaned[slot] = append(cleaned[slot], b)
		}
	}
	snap.Tasks = cleaned
	return &snap, nil
}
