package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/javiermolinar/dayboard/internal/grid"
	"github.com/javiermolinar/dayboard/internal/task"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{0, "0m"},
		{30, "30m"},
		{60, "1h"},
		{90, "1h30m"},
		{240, "4h"},
	}
	for _, tc := range tests {
		if got := FormatDuration(tc.minutes); got != tc.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", tc.minutes, got, tc.want)
		}
	}
}

func testSchedule(t *testing.T) grid.Schedule {
	t.Helper()
	s := grid.New()
	steps := []struct {
		slot int
		t    task.Task
	}{
		{18, task.Task{ID: "w", Name: "Write report", Category: "work"}},
		{19, task.Task{ID: "g", Name: "Gym", Category: "health"}},
		{40, task.Task{ID: "r", Name: "Read", Category: "study"}},
	}
	for _, st := range steps {
		if err := s.Insert(st.slot, st.t); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}
	return s
}

func TestSummarize(t *testing.T) {
	st := Summarize(testSchedule(t))

	if st.Bookings != 3 {
		t.Errorf("Bookings: got %d, want 3", st.Bookings)
	}
	if st.BookedMinutes != 180 {
		t.Errorf("BookedMinutes: got %d, want 180", st.BookedMinutes)
	}
	// 18-19, 19-20 overlap at 19, and 40-41: five distinct slots.
	if st.CoveredMinutes != 150 {
		t.Errorf("CoveredMinutes: got %d, want 150", st.CoveredMinutes)
	}
	if st.OverlapSlots != 1 {
		t.Errorf("OverlapSlots: got %d, want 1", st.OverlapSlots)
	}
}

func TestPlainSchedule(t *testing.T) {
	got := PlainSchedule("2026-10-17", testSchedule(t))
	want := "Saturday, October 17, 2026\n" +
		"9:00 AM-10:00 AM Write report (work)\n" +
		"9:30 AM-10:30 AM Gym (health)\n" +
		"8:00 PM-9:00 PM Read (study)\n"
	if got != want {
		t.Errorf("PlainSchedule =\n%s\nwant\n%s", got, want)
	}
}

func TestPrintSchedule_Empty(t *testing.T) {
	var buf bytes.Buffer
	PrintSchedule(&buf, "2026-10-17", grid.New(), 80)
	if !strings.Contains(buf.String(), "Nothing booked.") {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestPrintGrid_AllSlots(t *testing.T) {
	DisableColor()
	var buf bytes.Buffer
	PrintGrid(&buf, "2026-10-17", testSchedule(t), 100)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	// header, blank line, 48 slots
	if len(lines) != 2+grid.SlotsPerDay {
		t.Fatalf("expected %d lines, got %d", 2+grid.SlotsPerDay, len(lines))
	}
	if row := lines[2+19]; !strings.Contains(row, "Write report, Gym") {
		t.Errorf("slot 19 should list both covering bookings: %q", row)
	}
}

func TestPad(t *testing.T) {
	if got := pad("abc", 5); got != "abc  " {
		t.Errorf("pad = %q", got)
	}
	if got := pad("abcdefgh", 5); got != "abcd…" {
		t.Errorf("pad truncation = %q", got)
	}
}
