package grid

import (
	"errors"
	"testing"
	"time"
)

func TestTimeLabel(t *testing.T) {
	tests := []struct {
		slot int
		want string
	}{
		{0, "12:00 AM"},
		{1, "12:30 AM"},
		{2, "1:00 AM"},
		{18, "9:00 AM"},
		{23, "11:30 AM"},
		{24, "12:00 PM"},
		{25, "12:30 PM"},
		{26, "1:00 PM"},
		{47, "11:30 PM"},
		{48, "12:00 AM"},
	}

	for _, tt := range tests {
		if got := TimeLabel(tt.slot); got != tt.want {
			t.Errorf("TimeLabel(%d) = %q, want %q", tt.slot, got, tt.want)
		}
	}
}

func TestTimeLabel_UniqueAcrossDay(t *testing.T) {
	seen := make(map[string]int)
	for i := range SlotsPerDay {
		label := TimeLabel(i)
		if prev, ok := seen[label]; ok {
			t.Fatalf("label %q used by slots %d and %d", label, prev, i)
		}
		seen[label] = i
	}
}

func TestScheduledRange(t *testing.T) {
	s := New()
	_ = s.Insert(18, newTask("t1", "Write report"))
	_ = s.Insert(30, newTask("t2", "Gym"))
	_ = s.Insert(10, newTask("t2", "Gym"))
	_, _ = s.Resize(Position{Slot: 10, Index: 0}, 1)

	got, ok := s.ScheduledRange("t1")
	if !ok {
		t.Fatal("expected t1 to be found")
	}
	if got != "9:00 AM-10:00 AM" {
		t.Errorf("got %q, want %q", got, "9:00 AM-10:00 AM")
	}

	// First match by ascending slot.
	got, ok = s.ScheduledRange("t2")
	if !ok || got != "5:00 AM-6:30 AM" {
		t.Errorf("got %q (found=%v), want %q", got, ok, "5:00 AM-6:30 AM")
	}

	if _, ok := s.ScheduledRange("missing"); ok {
		t.Error("expected missing task not to be found")
	}
}

func TestSlotForTime(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"00:00", 0},
		{"00:29", 0},
		{"09:00", 18},
		{"13:45", 27},
		{"23:59", 47},
	}
	for _, tt := range tests {
		got, err := SlotForTime(tt.in)
		if err != nil {
			t.Fatalf("SlotForTime(%q) unexpected error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("SlotForTime(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}

	for _, bad := range []string{"9:00", "25:00", "noon", ""} {
		if _, err := SlotForTime(bad); !errors.Is(err, ErrInvalidSlot) {
			t.Errorf("SlotForTime(%q): got %v, want %v", bad, err, ErrInvalidSlot)
		}
	}

	if got := SlotFor(time.Date(2024, 1, 15, 23, 59, 0, 0, time.Local)); got != 47 {
		t.Errorf("SlotFor(23:59) = %d, want 47", got)
	}
}
