// Package board owns the schedule of the day being viewed and keeps it
// persisted: snapshots on date switches and on a timer, and commits to the
// session log at the end of the day or on demand.
package board

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/javiermolinar/dayboard/internal/dateutil"
	"github.com/javiermolinar/dayboard/internal/grid"
	"github.com/javiermolinar/dayboard/internal/logger"
	"github.com/javiermolinar/dayboard/internal/sessionlog"
	"github.com/javiermolinar/dayboard/internal/snapshot"
	"github.com/javiermolinar/dayboard/internal/task"
)

// Defaults for Options.
const (
	DefaultSnapshotInterval = 30 * time.Second
	DefaultEndOfDayCheck    = time.Minute
	DefaultEndOfDay         = "23:59"

	finalFlushTimeout = 5 * time.Second
)

// ErrNoResize is returned when a resize update arrives without an active session.
var ErrNoResize = errors.New("no resize in progress")

// Options configures a Board.
type Options struct {
	// UserID tags session log records.
	UserID string
	// SnapshotInterval is the background flush period.
	SnapshotInterval time.Duration
	// EndOfDayCheck is how often the wall clock is compared against EndOfDay.
	EndOfDayCheck time.Duration
	// EndOfDay is the local "HH:MM" at which the day is committed.
	EndOfDay string
	// Notifier receives storage failures and commit results.
	Notifier Notifier
	// Logger defaults to logger.Logger.
	Logger *log.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

func (o *Options) setDefaults() {
	if o.SnapshotInterval <= 0 {
		o.SnapshotInterval = DefaultSnapshotInterval
	}
	if o.EndOfDayCheck <= 0 {
		o.EndOfDayCheck = DefaultEndOfDayCheck
	}
	if o.EndOfDay == "" {
		o.EndOfDay = DefaultEndOfDay
	}
	if o.Notifier == nil {
		o.Notifier = LogNotifier{}
	}
	if o.Now == nil {
		o.Now = time.Now
	}
}

// Board is the schedule of one day plus its persistence.
//
// All methods are safe for concurrent use. Mutations and reads hold mu.
// Flush, Persist and Commit run their storage calls outside it on a cloned
// schedule; SwitchDate holds it for the whole switch.
type Board struct {
	snapshots snapshot.Store
	sessions  sessionlog.Store
	opts      Options
	log       *log.Logger

	mu        sync.Mutex
	day       string
	schedule  grid.Schedule
	resize    *grid.ResizeSession
	committed string // wall-clock date of the last end-of-day commit
}

// New creates a board for today with an empty schedule. Call Open to load a day.
func New(snapshots snapshot.Store, sessions sessionlog.Store, opts Options) (*Board, error) {
	if snapshots == nil {
		return nil, errors.New("snapshot store is required")
	}
	if sessions == nil {
		return nil, errors.New("session log store is required")
	}
	if opts.EndOfDay != "" {
		if _, err := grid.SlotForTime(opts.EndOfDay); err != nil {
			return nil, fmt.Errorf("end of day: %w", err)
		}
	}
	opts.setDefaults()

	l := opts.Logger
	if l == nil {
		l = logger.Logger
	}

	return &Board{
		snapshots: snapshots,
		sessions:  sessions,
		opts:      opts,
		log:       l,
		day:       dateutil.Today(opts.Now()),
		schedule:  grid.New(),
	}, nil
}

// Open loads the snapshot for day, or starts it empty.
// Read failures fall back to an empty schedule.
func (b *Board) Open(ctx context.Context, day string) error {
	if err := dateutil.ValidateKey(day); err != nil {
		return err
	}
	s := b.load(ctx, day)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.day = day
	b.schedule = s
	b.resize = nil
	return nil
}

// Day returns the day being viewed.
func (b *Board) Day() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.day
}

// Schedule returns a copy of the current schedule.
func (b *Board) Schedule() grid.Schedule {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.schedule.Clone()
}

// ScheduledRange returns the range label of the first booking of taskID.
func (b *Board) ScheduledRange(taskID string) (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.schedule.ScheduledRange(taskID)
}

// Insert books t at slot with the default duration.
// A task without an ID is rejected with grid.ErrNoTask and nothing changes.
func (b *Board) Insert(slot int, t task.Task) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.schedule.Insert(slot, t); err != nil {
		return err
	}
	b.log.Debug("booking inserted", "day", b.day, "slot", slot, "task", t.ID)
	return nil
}

// Move relocates the booking at from to toSlot, carrying its duration.
func (b *Board) Move(from grid.Position, toSlot, carried int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.resize = nil
	return b.schedule.Move(from, toSlot, carried)
}

// Resize changes the duration of the booking at pos by delta slots.
func (b *Board) Resize(pos grid.Position, delta int) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.schedule.Resize(pos, delta)
}

// Remove deletes the booking at pos.
func (b *Board) Remove(pos grid.Position) (grid.Booking, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.resize = nil
	return b.schedule.Remove(pos)
}

// BeginResize starts a drag resize of the booking at pos, replacing any active one.
func (b *Board) BeginResize(pos grid.Position, slotHeight float64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	r, err := grid.BeginResize(b.schedule, pos, slotHeight)
	if err != nil {
		return err
	}
	b.resize = r
	return nil
}

// UpdateResize applies the drag distance since BeginResize.
func (b *Board) UpdateResize(deltaY float64) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.resize == nil {
		return 0, ErrNoResize
	}
	return b.resize.Update(deltaY)
}

// EndResize finishes the active resize and returns the final duration.
func (b *Board) EndResize() (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.resize == nil {
		return 0, ErrNoResize
	}
	d, err := b.resize.End()
	b.resize = nil
	return d, err
}

// Resizing reports whether a resize session is active.
func (b *Board) Resizing() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.resize != nil
}

// SwitchDate saves the current schedule under the previous day, then loads newDay.
//
// The whole switch runs under the board lock, so an edit either lands before
// the save and is written with the previous day, or waits and applies to newDay.
// An empty schedule is never written on this path, so clearing a day and
// switching away leaves its last saved snapshot in place. If the save fails
// the switch is abandoned and the current day stays loaded.
func (b *Board) SwitchDate(ctx context.Context, newDay string) error {
	if err := dateutil.ValidateKey(newDay); err != nil {
		return err
	}

	prev, loaded, err := b.switchLocked(ctx, newDay)
	if err != nil {
		// Notify without the lock: notifiers may call back into the board.
		b.notifyErr("saving schedule failed", err)
		return fmt.Errorf("saving %s: %w", prev, err)
	}

	b.log.Info("date switched", "from", prev, "to", newDay, "bookings", loaded)
	return nil
}

func (b *Board) switchLocked(ctx context.Context, newDay string) (string, int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	prev := b.day
	if !b.schedule.IsEmpty() {
		if err := b.write(ctx, prev, b.schedule.Clone()); err != nil {
			return prev, 0, err
		}
	}

	b.schedule = b.load(ctx, newDay)
	b.day = newDay
	b.resize = nil
	return prev, b.schedule.Len(), nil
}

// Flush writes the current schedule under the current day if it is non-empty.
func (b *Board) Flush(ctx context.Context) error {
	b.mu.Lock()
	day := b.day
	current := b.schedule.Clone()
	b.mu.Unlock()

	if current.IsEmpty() {
		return nil
	}
	return b.save(ctx, day, current)
}

// Persist writes the current schedule under the current day, even when it
// is empty. Explicit edits use it so that clearing a day sticks.
func (b *Board) Persist(ctx context.Context) error {
	b.mu.Lock()
	day := b.day
	current := b.schedule.Clone()
	b.mu.Unlock()

	return b.save(ctx, day, current)
}

// Commit flattens the current schedule and appends it to the session log.
// The result is also reported to the notifier.
func (b *Board) Commit(ctx context.Context) (sessionlog.Record, error) {
	b.mu.Lock()
	day := b.day
	entries := b.schedule.Flatten()
	b.mu.Unlock()

	rec, err := sessionlog.NewRecord(b.opts.UserID, day, entries, b.opts.Now())
	if err != nil {
		b.notifyErr("commit failed", err)
		return sessionlog.Record{}, fmt.Errorf("building session record: %w", err)
	}
	if err := b.sessions.AppendSchedule(ctx, rec); err != nil {
		b.notifyErr("commit failed", err)
		return sessionlog.Record{}, fmt.Errorf("committing %s: %w", day, err)
	}

	b.log.Info("schedule committed", "day", day, "entries", len(entries))
	b.opts.Notifier.Notify(Notice{Message: fmt.Sprintf("committed %d bookings for %s", len(entries), day)})
	return rec, nil
}

// Run drives the background flush and the end-of-day commit until ctx is done.
// On cancellation it performs one last flush.
func (b *Board) Run(ctx context.Context) error {
	flush := time.NewTicker(b.opts.SnapshotInterval)
	defer flush.Stop()
	eod := time.NewTicker(b.opts.EndOfDayCheck)
	defer eod.Stop()

	b.log.Debug("board timers started", "snapshot_interval", b.opts.SnapshotInterval, "end_of_day", b.opts.EndOfDay)
	for {
		select {
		case <-ctx.Done():
			final, cancel := context.WithTimeout(context.WithoutCancel(ctx), finalFlushTimeout)
			_ = b.Flush(final)
			cancel()
			b.log.Debug("board timers stopped")
			return nil
		case <-flush.C:
			_ = b.Flush(ctx)
		case <-eod.C:
			b.checkEndOfDay(ctx)
		}
	}
}

// checkEndOfDay commits once when the local wall clock reads EndOfDay.
// An empty schedule is skipped without using up the day's commit, so a
// booking added later in the same minute is still committed. A failed
// commit is not retried that day.
func (b *Board) checkEndOfDay(ctx context.Context) {
	now := b.opts.Now()
	if now.Format("15:04") != b.opts.EndOfDay {
		return
	}
	today := dateutil.Key(now)

	b.mu.Lock()
	if b.committed == today {
		b.mu.Unlock()
		return
	}
	empty := b.schedule.IsEmpty()
	if !empty {
		b.committed = today
	}
	b.mu.Unlock()

	if empty {
		b.log.Debug("end of day reached with an empty schedule", "date", today)
		return
	}
	_, _ = b.Commit(ctx)
}

func (b *Board) save(ctx context.Context, day string, s grid.Schedule) error {
	if err := b.write(ctx, day, s); err != nil {
		b.notifyErr("saving schedule failed", err)
		return fmt.Errorf("saving %s: %w", day, err)
	}
	return nil
}

func (b *Board) write(ctx context.Context, day string, s grid.Schedule) error {
	if err := b.snapshots.Save(ctx, snapshot.Snapshot{Date: day, Tasks: s}); err != nil {
		return err
	}
	b.log.Debug("snapshot saved", "day", day, "bookings", s.Len())
	return nil
}

func (b *Board) load(ctx context.Context, day string) grid.Schedule {
	snap, err := b.snapshots.Load(ctx, day)
	if err != nil {
		b.log.Debug("loading snapshot failed, starting empty", "day", day, "err", err)
		return grid.New()
	}
	if snap == nil || snap.Tasks == nil {
		return grid.New()
	}
	return snap.Tasks
}

func (b *Board) notifyErr(msg string, err error) {
	b.log.Error(msg, "err", err)
	b.opts.Notifier.Notify(Notice{Message: msg, Err: err})
}
