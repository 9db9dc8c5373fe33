package dateutil

import (
	"errors"
	"testing"
	"time"
)

func TestParseDay(t *testing.T) {
	t.Run("valid date", func(t *testing.T) {
		got, err := ParseDay("2025-01-15")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := time.Date(2025, 1, 15, 0, 0, 0, 0, time.Local)
		if !got.Equal(want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("invalid format", func(t *testing.T) {
		_, err := ParseDay("01-15-2025")
		if !errors.Is(err, ErrInvalidDateFormat) {
			t.Errorf("got error %v, want %v", err, ErrInvalidDateFormat)
		}
	})
}

func TestValidateKey(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"2024-01-15", false},
		{"2024-02-29", false},
		{"2023-02-29", true},
		{"2024-1-15", true},
		{"", true},
		{"schedule_2024-01-15", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			err := ValidateKey(tt.in)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateKey(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
		})
	}
}

func TestAddDays(t *testing.T) {
	tests := []struct {
		key  string
		n    int
		want string
	}{
		{"2024-01-15", 1, "2024-01-16"},
		{"2024-01-31", 1, "2024-02-01"},
		{"2024-03-01", -1, "2024-02-29"},
		{"2024-12-31", 1, "2025-01-01"},
		{"2024-01-15", 0, "2024-01-15"},
	}
	for _, tt := range tests {
		got, err := AddDays(tt.key, tt.n)
		if err != nil {
			t.Fatalf("AddDays(%q, %d) unexpected error: %v", tt.key, tt.n, err)
		}
		if got != tt.want {
			t.Errorf("AddDays(%q, %d) = %q, want %q", tt.key, tt.n, got, tt.want)
		}
	}

	if _, err := AddDays("bogus", 1); !errors.Is(err, ErrInvalidDateFormat) {
		t.Errorf("expected ErrInvalidDateFormat, got %v", err)
	}
}

func TestParseRelativeDay(t *testing.T) {
	// Wednesday
	ref := time.Date(2025, 1, 15, 10, 30, 0, 0, time.Local)

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{name: "empty", input: "", want: "2025-01-15"},
		{name: "today", input: "Today", want: "2025-01-15"},
		{name: "tomorrow", input: "tomorrow", want: "2025-01-16"},
		{name: "yesterday", input: "yesterday", want: "2025-01-14"},
		{name: "next friday", input: "friday", want: "2025-01-17"},
		{name: "same weekday jumps a week", input: "wednesday", want: "2025-01-22"},
		{name: "absolute", input: "2024-12-01", want: "2024-12-01"},
		{name: "garbage", input: "someday", wantErr: ErrInvalidDateFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRelativeDay(tt.input, ref)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("got error %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTruncateToDay(t *testing.T) {
	in := time.Date(2025, 1, 15, 23, 59, 59, 999, time.UTC)
	got := TruncateToDay(in)
	want := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}
