package grid

import (
	"errors"
	"math"
)

// ResizeSession errors.
var (
	ErrResizeEnded      = errors.New("resize session has ended")
	ErrInvalidRowHeight = errors.New("slot height must be positive")
)

// ResizeSession tracks a drag on a booking's bottom edge.
//
// The starting duration is captured once at Begin and every Update recomputes
// the duration relative to it, so repeated updates are not cumulative. Each
// Update writes the new duration into the schedule immediately.
type ResizeSession struct {
	schedule   Schedule
	pos        Position
	anchor     int
	slotHeight float64
	ended      bool
}

// BeginResize starts a resize session for the booking at pos.
// slotHeight is the on-screen height of one slot in the units Update receives.
func BeginResize(s Schedule, pos Position, slotHeight float64) (*ResizeSession, error) {
	if slotHeight <= 0 {
		return nil, ErrInvalidRowHeight
	}
	b, ok := s.At(pos)
	if !ok {
		return nil, ErrBookingNotFound
	}
	return &ResizeSession{
		schedule:   s,
		pos:        pos,
		anchor:     b.Duration,
		slotHeight: slotHeight,
	}, nil
}

// Position returns the booking being resized.
func (r *ResizeSession) Position() Position {
	return r.pos
}

// Anchor returns the duration captured when the session began.
func (r *ResizeSession) Anchor() int {
	return r.anchor
}

// Update applies a drag of deltaY since the session began and returns the new duration.
func (r *ResizeSession) Update(deltaY float64) (int, error) {
	if r.ended {
		return 0, ErrResizeEnded
	}
	deltaSlots := int(math.Round(deltaY / r.slotHeight))
	return r.schedule.SetDuration(r.pos, r.anchor+deltaSlots)
}

// End closes the session and returns the final duration.
func (r *ResizeSession) End() (int, error) {
	if r.ended {
		return 0, ErrResizeEnded
	}
	r.ended = true
	b, ok := r.schedule.At(r.pos)
	if !ok {
		return 0, ErrBookingNotFound
	}
	return b.Duration, nil
}

// Ended reports whether End has been called.
func (r *ResizeSession) Ended() bool {
	return r.ended
}
