package theme

import (
	"testing"
)

func mustParse(t *testing.T, hex string) rgb {
	t.Helper()
	c, ok := parseRGB(hex)
	if !ok {
		t.Fatalf("parseRGB(%q) failed", hex)
	}
	return c
}

func TestParseRGB(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"#89b4fa", "#89b4fa", true},
		{"#89B4FA", "#89b4fa", true},
		{"#000000", "#000000", true},
		{"#fff", "", false},
		{"89b4fa0", "", false},
		{"#89b4fz", "", false},
	}
	for _, tt := range tests {
		c, ok := parseRGB(tt.in)
		if ok != tt.wantOK {
			t.Errorf("parseRGB(%q) ok = %t, want %t", tt.in, ok, tt.wantOK)
			continue
		}
		if ok && c.String() != tt.want {
			t.Errorf("parseRGB(%q) = %s, want %s", tt.in, c, tt.want)
		}
	}
}

func TestTint(t *testing.T) {
	tests := []struct {
		bg, accent string
		s          float64
		want       string
	}{
		{"#1e1e2e", "#89b4fa", 0, "#1e1e2e"},
		{"#1e1e2e", "#89b4fa", 1, "#89b4fa"},
		{"#000000", "#ffffff", 0.2, "#333333"},
		{"#202020", "#a0a0a0", 0.25, "#404040"},
		{"#202020", "#a0a0a0", 3, "#a0a0a0"},
		{"bogus", "#a0a0a0", 0.5, "#a0a0a0"},
	}
	for _, tt := range tests {
		if got := tint(tt.bg, tt.accent, tt.s); got != tt.want {
			t.Errorf("tint(%s, %s, %v) = %s, want %s", tt.bg, tt.accent, tt.s, got, tt.want)
		}
	}
}

func TestReadable(t *testing.T) {
	tests := []struct {
		bg         string
		candidates []string
		want       string
	}{
		{"#000000", []string{"#111111", "#ffffff"}, "#ffffff"},
		{"#f5f5f5", []string{"#eeeeee", "#222222"}, "#222222"},
		{"#1e1e2e", []string{"bad", "#cdd6f4"}, "#cdd6f4"},
	}
	for _, tt := range tests {
		if got := readable(tt.bg, tt.candidates...); got != tt.want {
			t.Errorf("readable(%s, %v) = %s, want %s", tt.bg, tt.candidates, got, tt.want)
		}
	}
}

// Past bookings sit closer to the page background than current ones, and
// every cell background differs from the page on both dark and light themes.
func TestNewPalette_CellBackgrounds(t *testing.T) {
	for _, name := range Available() {
		t.Run(name, func(t *testing.T) {
			th, err := Load(name)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			p := NewPalette(th)
			bg := mustParse(t, string(p.Bg))

			booking := contrast(bg, mustParse(t, string(p.BookingBg)))
			past := contrast(bg, mustParse(t, string(p.PastBg)))
			if past >= booking {
				t.Errorf("past contrast %.2f should be below booking %.2f", past, booking)
			}
			for label, c := range map[string]string{
				"booking": string(p.BookingBg),
				"past":    string(p.PastBg),
				"preview": string(p.PreviewBg),
				"overlap": string(p.OverlapBg),
			} {
				if c == string(p.Bg) {
					t.Errorf("%s background equals the page background", label)
				}
			}
			if p.BookingBg == p.OverlapBg || p.BookingBg == p.PreviewBg {
				t.Error("overlap and move preview must be distinguishable from bookings")
			}
		})
	}
}

func TestNewPalette_TextFollowsBackground(t *testing.T) {
	dark := NewPalette(&Theme{
		Bg: "#101010", Fg: "#f0f0f0", Accent: "#f0f0f0",
		Booking: "#3060c0", Focus: "#40a040", Warning: "#ffd080",
	})
	if dark.OnAccent != "#101010" {
		t.Errorf("text on a light accent should be the dark bg, got %s", dark.OnAccent)
	}
	if dark.OnBooking != "#f0f0f0" {
		t.Errorf("text on a dark booking cell should be fg, got %s", dark.OnBooking)
	}
	if dark.OnWarning != "#101010" {
		t.Errorf("text on a light warning should be the dark bg, got %s", dark.OnWarning)
	}
}

func TestNewPalette_NilLoadsDefault(t *testing.T) {
	p := NewPalette(nil)
	mocha, err := Load(DefaultName)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.Bg != NewPalette(mocha).Bg || p.PanelBorder != "#b4befe" {
		t.Errorf("nil theme should use %s, got bg %s", DefaultName, p.Bg)
	}
}
