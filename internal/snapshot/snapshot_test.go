package snapshot

import (
	"errors"
	"strings"
	"testing"

	"github.com/javiermolinar/dayboard/internal/dateutil"
	"github.com/javiermolinar/dayboard/internal/grid"
	"github.com/javiermolinar/dayboard/internal/task"
)

func TestKey(t *testing.T) {
	if got := Key("2024-01-15"); got != "schedule_2024-01-15" {
		t.Errorf("got %q", got)
	}
}

func TestEncode_Shape(t *testing.T) {
	s := grid.New()
	_ = s.Insert(18, task.Task{ID: "t1", Name: "Write report", Category: "work", Checklist: task.Checklist{}})

	data, err := Encode(Snapshot{Date: "2024-01-15", Tasks: s})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := string(data)
	for _, want := range []string{
		`"date":"2024-01-15"`,
		`"tasks":{"18":[`,
		`"display_name":"Write report"`,
		`"duration":2`,
		`"isComplete":false`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("encoded snapshot %s missing %s", got, want)
		}
	}
}

func TestEncode_RejectsBadDate(t *testing.T) {
	_, err := Encode(Snapshot{Date: "15/01/2024"})
	if !errors.Is(err, dateutil.ErrInvalidDateFormat) {
		t.Errorf("got %v, want %v", err, dateutil.ErrInvalidDateFormat)
	}
}

func TestDecode(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		s := grid.New()
		_ = s.Insert(2, task.Task{ID: "a", Name: "A", Category: "x"})
		_ = s.Insert(2, task.Task{ID: "b", Name: "B", Category: "x"})
		data, err := Encode(Snapshot{Date: "2024-01-15", Tasks: s})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		snap, err := Decode("2024-01-15", data)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got := snap.Tasks.Bookings(2)
		if len(got) != 2 || got[0].Task.ID != "a" || got[1].Task.ID != "b" {
			t.Errorf("unexpected bookings: %+v", got)
		}
	})

	t.Run("drops invalid entries and clamps durations", func(t *testing.T) {
		raw := `{"date":"2024-01-15","tasks":{
			"3":[{"task":{"id":"a","display_name":"A"},"duration":40},{"task":{"display_name":"no id"},"duration":2}],
			"60":[{"task":{"id":"b","display_name":"B"},"duration":2}],
			"4":[{"task":{"id":"c","display_name":"C","checklist":"{corrupt"},"duration":0}]
		}}`
		snap, err := Decode("2024-01-15", []byte(raw))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if snap.Tasks.Len() != 2 {
			t.Fatalf("expected 2 bookings, got %d", snap.Tasks.Len())
		}
		if d := snap.Tasks.Bookings(3)[0].Duration; d != grid.MaxDuration {
			t.Errorf("expected clamped duration %d, got %d", grid.MaxDuration, d)
		}
		c := snap.Tasks.Bookings(4)[0]
		if c.Duration != grid.MinDuration {
			t.Errorf("expected clamped duration %d, got %d", grid.MinDuration, c.Duration)
		}
		if len(c.Task.Checklist) != 0 {
			t.Errorf("expected corrupt checklist to decode empty, got %v", c.Task.Checklist)
		}
	})

	t.Run("date mismatch", func(t *testing.T) {
		_, err := Decode("2024-01-16", []byte(`{"date":"2024-01-15","tasks":{}}`))
		if !errors.Is(err, ErrDateMismatch) {
			t.Errorf("got %v, want %v", err, ErrDateMismatch)
		}
	})

	t.Run("corrupt payload", func(t *testing.T) {
		if _, err := Decode("2024-01-15", []byte(`{"date":`)); err == nil {
			t.Error("expected error for corrupt payload")
		}
	})
}
