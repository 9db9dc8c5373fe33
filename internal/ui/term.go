package ui

import (
	"hash/fnv"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Color definitions for consistent styling across the UI.
var (
	// Bookings: bold cyan
	colorBooked = color.New(color.FgCyan, color.Bold)

	// Overlaps: yellow to make them pop
	colorWarn = color.New(color.FgYellow)

	// Headers: bold
	colorHeader = color.New(color.Bold)

	// Stats and completed items: green
	colorStats = color.New(color.FgGreen)

	// Muted: for secondary information
	colorMuted = color.New(color.FgWhite, color.Faint)

	// categoryColors are assigned to categories by name hash.
	categoryColors = []*color.Color{
		color.New(color.FgCyan),
		color.New(color.FgMagenta),
		color.New(color.FgBlue),
		color.New(color.FgGreen),
		color.New(color.FgYellow),
		color.New(color.FgRed),
	}
)

// termWidth returns the terminal width, or a default if detection fails.
func termWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80 // sensible default
	}
	return width
}

// DisableColor disables all color output.
func DisableColor() {
	color.NoColor = true
}

// EnableColor enables color output (if terminal supports it).
func EnableColor() {
	color.NoColor = false
}

// formatBooked formats a booked task name.
func formatBooked(s string) string {
	return colorBooked.Sprint(s)
}

// formatWarn formats text for warnings such as overlaps.
func formatWarn(s string) string {
	return colorWarn.Sprint(s)
}

// formatHeader formats text as a header.
func formatHeader(s string) string {
	return colorHeader.Sprint(s)
}

// formatStats formats text for statistics.
func formatStats(s string) string {
	return colorStats.Sprint(s)
}

// formatMuted formats text as secondary/muted.
func formatMuted(s string) string {
	return colorMuted.Sprint(s)
}

// formatCategory formats a category tag with a stable per-name color.
func formatCategory(category string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(category))
	c := categoryColors[h.Sum32()%uint32(len(categoryColors))]
	return c.Sprint("[" + category + "]")
}
