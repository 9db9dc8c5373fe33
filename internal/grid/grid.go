// Package grid models a single day as 48 half-hour slots holding bookings of tasks.
package grid

import (
	"errors"
	"slices"

	"github.com/javiermolinar/dayboard/internal/task"
)

// Grid errors.
var (
	ErrInvalidSlot     = errors.New("invalid slot position")
	ErrBookingNotFound = errors.New("booking not found in grid")
	ErrNoTask          = errors.New("booking has no task")
)

const (
	// SlotMinutes is the length of one slot in minutes.
	SlotMinutes = 30
	// SlotsPerDay is 24 hours * 2 slots per hour.
	SlotsPerDay = 48
	// MinutesPerDay is 24 hours * 60 minutes.
	MinutesPerDay = 1440

	// DefaultDuration is the duration of a freshly dropped booking (one hour).
	DefaultDuration = 2
	// MinDuration and MaxDuration bound a booking's duration in slots.
	MinDuration = 1
	MaxDuration = 8
)

// Booking is a task placed on the grid. It is anchored by the slot it is stored under.
type Booking struct {
	Task     task.Task `json:"task"`
	Duration int       `json:"duration"`
}

// End returns the first slot after the booking, given its anchor slot.
func (b Booking) End(slot int) int {
	return slot + b.Duration
}

// Covers reports whether a booking anchored at slot occupies target.
func (b Booking) Covers(slot, target int) bool {
	return target >= slot && target < b.End(slot)
}

// Position identifies a booking by its anchor slot and its index in that slot's list.
type Position struct {
	Slot  int
	Index int
}

// Schedule maps a slot index to the bookings starting in that slot.
// Bookings may overlap; a slot with an empty list is the same as an absent one.
type Schedule map[int][]Booking

// New returns an empty schedule.
func New() Schedule {
	return make(Schedule)
}

// ValidSlot reports whether slot is within the day.
func ValidSlot(slot int) bool {
	return slot >= 0 && slot < SlotsPerDay
}

// ClampDuration bounds a duration to [MinDuration, MaxDuration].
func ClampDuration(d int) int {
	return max(MinDuration, min(MaxDuration, d))
}

// Insert appends a new booking of t at slot with the default duration.
// Inserting the same task twice yields two independent bookings.
// A task without an ID is an empty drop and returns ErrNoTask.
func (s Schedule) Insert(slot int, t task.Task) error {
	if t.ID == "" {
		return ErrNoTask
	}
	if !ValidSlot(slot) {
		return ErrInvalidSlot
	}
	s[slot] = append(s[slot], Booking{Task: t, Duration: DefaultDuration})
	return nil
}

// Move removes the booking at from and appends it to toSlot carrying the given duration.
// A non-positive carried duration means it is unknown and DefaultDuration is used.
// Moving within the same slot relocates the booking to the end of that slot's list.
func (s Schedule) Move(from Position, toSlot, carried int) error {
	if !ValidSlot(toSlot) {
		return ErrInvalidSlot
	}
	b, ok := s.At(from)
	if !ok {
		return ErrBookingNotFound
	}
	if carried <= 0 {
		carried = DefaultDuration
	}

	s.removeAt(from)
	s[toSlot] = append(s[toSlot], Booking{Task: b.Task, Duration: carried})
	return nil
}

// Resize changes the duration of the booking at pos by delta slots, clamped to [1, 8].
// It returns the new duration.
func (s Schedule) Resize(pos Position, delta int) (int, error) {
	b, ok := s.At(pos)
	if !ok {
		return 0, ErrBookingNotFound
	}
	return s.SetDuration(pos, b.Duration+delta)
}

// SetDuration sets the duration of the booking at pos, clamped to [1, 8].
func (s Schedule) SetDuration(pos Position, duration int) (int, error) {
	if _, ok := s.At(pos); !ok {
		return 0, ErrBookingNotFound
	}
	duration = ClampDuration(duration)
	s[pos.Slot][pos.Index].Duration = duration
	return duration, nil
}

// Remove deletes the booking at pos. Out-of-range positions leave the schedule untouched.
func (s Schedule) Remove(pos Position) (Booking, error) {
	b, ok := s.At(pos)
	if !ok {
		return Booking{}, ErrBookingNotFound
	}
	s.removeAt(pos)
	return b, nil
}

func (s Schedule) removeAt(pos Position) {
	list := slices.Delete(slices.Clone(s[pos.Slot]), pos.Index, pos.Index+1)
	if len(list) == 0 {
		delete(s, pos.Slot)
		return
	}
	s[pos.Slot] = list
}

// At returns the booking at pos.
func (s Schedule) At(pos Position) (Booking, bool) {
	list := s[pos.Slot]
	if pos.Index < 0 || pos.Index >= len(list) {
		return Booking{}, false
	}
	return list[pos.Index], true
}

// Bookings returns a copy of the bookings anchored at slot.
func (s Schedule) Bookings(slot int) []Booking {
	return slices.Clone(s[slot])
}

// Slots returns the occupied anchor slots in ascending order.
func (s Schedule) Slots() []int {
	slots := make([]int, 0, len(s))
	for slot, list := range s {
		if len(list) > 0 {
			slots = append(slots, slot)
		}
	}
	slices.Sort(slots)
	return slots
}

// Len returns the total number of bookings.
func (s Schedule) Len() int {
	n := 0
	for _, list := range s {
		n += len(list)
	}
	return n
}

// IsEmpty reports whether the schedule holds no bookings.
func (s Schedule) IsEmpty() bool {
	return s.Len() == 0
}

// Clone returns a deep copy of the schedule, dropping empty slots.
func (s Schedule) Clone() Schedule {
	out := make(Schedule, len(s))
	for slot, list := range s {
		if len(list) == 0 {
			continue
		}
		cp := make([]Booking, len(list))
		for i, b := range list {
			b.Task.Checklist = slices.Clone(b.Task.Checklist)
			cp[i] = b
		}
		out[slot] = cp
	}
	return out
}

// Covered is a booking together with its anchor position.
type Covered struct {
	Position
	Booking
}

// Covering returns the bookings whose range includes target, ordered by
// anchor slot then list order. Overlapping bookings are all returned.
func (s Schedule) Covering(target int) []Covered {
	var result []Covered
	for _, slot := range s.Slots() {
		if slot > target {
			break
		}
		for i, b := range s[slot] {
			if b.Covers(slot, target) {
				result = append(result, Covered{Position: Position{Slot: slot, Index: i}, Booking: b})
			}
		}
	}
	return result
}

// Find returns the position of the first booking of taskID, by ascending slot then list order.
func (s Schedule) Find(taskID string) (Position, Booking, bool) {
	for _, slot := range s.Slots() {
		for i, b := range s[slot] {
			if b.Task.ID == taskID {
				return Position{Slot: slot, Index: i}, b, true
			}
		}
	}
	return Position{}, Booking{}, false
}
