package theme

import (
	"fmt"
	"math"
	"strconv"

	"github.com/charmbracelet/lipgloss"
)

// Tint strengths: how far Bg moves towards an accent for a cell background.
const (
	bookingTint = 0.45
	pastTint    = 0.20
	previewTint = 0.60
	overlapTint = 0.50
)

// Palette is the set of colors the board draws with.
type Palette struct {
	Bg, Surface, Selection  lipgloss.Color
	Fg, Muted               lipgloss.Color
	Accent, Current         lipgloss.Color
	Booking, Focus, Warning lipgloss.Color

	// Cell backgrounds, each an accent tinted into Bg.
	BookingBg lipgloss.Color
	PastBg    lipgloss.Color // Bookings that ended before now
	PreviewBg lipgloss.Color // Where a picked-up booking would land
	OverlapBg lipgloss.Color // Slots covered by more than one booking

	// Text for the matching background: Fg or Bg, whichever contrasts more.
	OnAccent, OnWarning  lipgloss.Color
	OnBooking, OnPast    lipgloss.Color
	OnPreview, OnOverlap lipgloss.Color

	PanelBorder, PanelMuted lipgloss.Color
}

// NewPalette derives the drawing colors of t. A nil theme loads DefaultName.
func NewPalette(t *Theme) *Palette {
	if t == nil {
		t, _ = Load(DefaultName)
	}

	booking := tint(t.Bg, t.Booking, bookingTint)
	past := tint(t.Bg, t.Booking, pastTint)
	preview := tint(t.Bg, t.Focus, previewTint)
	overlap := tint(t.Bg, t.Warning, overlapTint)
	on := func(bg string) lipgloss.Color {
		return lipgloss.Color(readable(bg, t.Fg, t.Bg))
	}

	return &Palette{
		Bg:        lipgloss.Color(t.Bg),
		Surface:   lipgloss.Color(t.Surface),
		Selection: lipgloss.Color(t.Selection),
		Fg:        lipgloss.Color(t.Fg),
		Muted:     lipgloss.Color(t.Muted),
		Accent:    lipgloss.Color(t.Accent),
		Current:   lipgloss.Color(t.Current),
		Booking:   lipgloss.Color(t.Booking),
		Focus:     lipgloss.Color(t.Focus),
		Warning:   lipgloss.Color(t.Warning),

		BookingBg: lipgloss.Color(booking),
		PastBg:    lipgloss.Color(past),
		PreviewBg: lipgloss.Color(preview),
		OverlapBg: lipgloss.Color(overlap),

		OnAccent:  on(t.Accent),
		OnWarning: on(t.Warning),
		OnBooking: on(booking),
		OnPast:    on(past),
		OnPreview: on(preview),
		OnOverlap: on(overlap),

		PanelBorder: lipgloss.Color(t.Panel.Border),
		PanelMuted:  lipgloss.Color(t.Panel.Muted),
	}
}

// rgb is a color with channels in [0, 1].
type rgb struct{ r, g, b float64 }

func parseRGB(hex string) (rgb, bool) {
	if len(hex) != 7 || hex[0] != '#' {
		return rgb{}, false
	}
	v, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return rgb{}, false
	}
	return rgb{
		r: float64(v>>16&0xff) / 255,
		g: float64(v>>8&0xff) / 255,
		b: float64(v&0xff) / 255,
	}, true
}

func (c rgb) String() string {
	byte8 := func(v float64) int { return int(math.Round(v * 255)) }
	return fmt.Sprintf("#%02x%02x%02x", byte8(c.r), byte8(c.g), byte8(c.b))
}

// towards moves c a fraction s of the way to o.
func (c rgb) towards(o rgb, s float64) rgb {
	s = max(0, min(1, s))
	return rgb{
		r: c.r + (o.r-c.r)*s,
		g: c.g + (o.g-c.g)*s,
		b: c.b + (o.b-c.b)*s,
	}
}

// luminance is the WCAG relative luminance.
func (c rgb) luminance() float64 {
	lin := func(v float64) float64 {
		if v <= 0.04045 {
			return v / 12.92
		}
		return math.Pow((v+0.055)/1.055, 2.4)
	}
	return 0.2126*lin(c.r) + 0.7152*lin(c.g) + 0.0722*lin(c.b)
}

func contrast(a, b rgb) float64 {
	la, lb := a.luminance(), b.luminance()
	if la < lb {
		la, lb = lb, la
	}
	return (la + 0.05) / (lb + 0.05)
}

// tint moves bg towards accent by s. Unparseable input returns accent.
func tint(bg, accent string, s float64) string {
	b, ok1 := parseRGB(bg)
	a, ok2 := parseRGB(accent)
	if !ok1 || !ok2 {
		return accent
	}
	return b.towards(a, s).String()
}

// readable returns the candidate with the highest contrast against bg.
func readable(bg string, candidates ...string) string {
	base, ok := parseRGB(bg)
	if !ok || len(candidates) == 0 {
		return bg
	}
	best, bestRatio := candidates[0], -1.0
	for _, c := range candidates {
		v, ok := parseRGB(c)
		if !ok {
			continue
		}
		if r := contrast(base, v); r > bestRatio {
			best, bestRatio = c, r
		}
	}
	return best
}
