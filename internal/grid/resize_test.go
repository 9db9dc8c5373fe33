package grid

import (
	"errors"
	"testing"
)

func TestResizeSession_AnchorsToStartingDuration(t *testing.T) {
	s := New()
	_ = s.Insert(12, newTask("w", "Write"))
	pos := Position{Slot: 12, Index: 0}

	session, err := BeginResize(s, pos, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.Anchor() != 2 {
		t.Fatalf("expected anchor 2, got %d", session.Anchor())
	}

	steps := []struct {
		deltaY float64
		want   int
	}{
		{deltaY: 20, want: 3},
		{deltaY: 41, want: 4},
		{deltaY: 29, want: 3}, // rounds to 1 slot, relative to the anchor
		{deltaY: 9, want: 2},
		{deltaY: -20, want: 1},
		{deltaY: -500, want: 1},
		{deltaY: 500, want: 8},
	}

	for _, step := range steps {
		got, err := session.Update(step.deltaY)
		if err != nil {
			t.Fatalf("Update(%v) unexpected error: %v", step.deltaY, err)
		}
		if got != step.want {
			t.Errorf("Update(%v) = %d, want %d", step.deltaY, got, step.want)
		}
		// Every update is written through immediately.
		if d := s.Bookings(12)[0].Duration; d != step.want {
			t.Errorf("after Update(%v) stored duration %d, want %d", step.deltaY, d, step.want)
		}
	}

	final, err := session.End()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if final != MaxDuration {
		t.Errorf("final duration %d, want %d", final, MaxDuration)
	}
	if !session.Ended() {
		t.Error("expected session to be ended")
	}
	if _, err := session.Update(10); !errors.Is(err, ErrResizeEnded) {
		t.Errorf("got %v, want %v", err, ErrResizeEnded)
	}
	if _, err := session.End(); !errors.Is(err, ErrResizeEnded) {
		t.Errorf("got %v, want %v", err, ErrResizeEnded)
	}
}

func TestBeginResize_Errors(t *testing.T) {
	s := New()
	_ = s.Insert(1, newTask("w", "Write"))

	if _, err := BeginResize(s, Position{Slot: 1, Index: 3}, 10); !errors.Is(err, ErrBookingNotFound) {
		t.Errorf("got %v, want %v", err, ErrBookingNotFound)
	}
	if _, err := BeginResize(s, Position{Slot: 1}, 0); !errors.Is(err, ErrInvalidRowHeight) {
		t.Errorf("got %v, want %v", err, ErrInvalidRowHeight)
	}
}
