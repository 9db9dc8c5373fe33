package grid

import (
	"fmt"
	"time"
)

// TimeLabel returns the 12-hour clock label of a slot's start, e.g. "9:00 AM".
// Slots past the end of the day wrap to the next morning, so range ends stay readable.
func TimeLabel(slot int) string {
	minutes := slot * SlotMinutes
	hour := (minutes / 60) % 24
	displayHour := hour
	switch {
	case hour == 0:
		displayHour = 12
	case hour > 12:
		displayHour = hour - 12
	}
	ampm := "PM"
	if hour < 12 {
		ampm = "AM"
	}
	return fmt.Sprintf("%d:%02d %s", displayHour, minutes%60, ampm)
}

// RangeLabel formats the time range of a booking anchored at slot.
func RangeLabel(slot, duration int) string {
	return TimeLabel(slot) + "-" + TimeLabel(slot+duration)
}

// ScheduledRange returns the time range of the first booking of taskID.
func (s Schedule) ScheduledRange(taskID string) (string, bool) {
	pos, b, ok := s.Find(taskID)
	if !ok {
		return "", false
	}
	return RangeLabel(pos.Slot, b.Duration), true
}

// SlotFor returns the slot containing the wall-clock time of t.
func SlotFor(t time.Time) int {
	return (t.Hour()*60 + t.Minute()) / SlotMinutes
}

// SlotForTime converts "HH:MM" to the slot containing it.
func SlotForTime(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil || len(s) != 5 {
		return 0, fmt.Errorf("%w: time must be in HH:MM format, got %q", ErrInvalidSlot, s)
	}
	return SlotFor(t), nil
}
