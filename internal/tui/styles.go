package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/dayboard/internal/tui/theme"
)

// Styles holds all lipgloss styles for the TUI, derived from a theme.
type Styles struct {
	// Title bar
	TitleStyle  lipgloss.Style
	HeaderStyle lipgloss.Style
	TabStyle    lipgloss.Style
	TabActive   lipgloss.Style

	// Time column
	TimeColumnStyle  lipgloss.Style
	TimeCurrentStyle lipgloss.Style // Slot containing the current time

	// Grid cells
	BookingStyle      lipgloss.Style
	BookingPastStyle  lipgloss.Style
	ContinuationStyle lipgloss.Style // Slots covered but not started by a booking
	OverlapStyle      lipgloss.Style
	EmptyCellStyle    lipgloss.Style
	CursorStyle       lipgloss.Style
	MovePreviewStyle  lipgloss.Style
	ResizeStyle       lipgloss.Style

	// Task panel
	PanelStyle        lipgloss.Style
	PanelTitleStyle   lipgloss.Style
	PanelItemStyle    lipgloss.Style
	PanelSelectStyle  lipgloss.Style
	PanelMutedStyle   lipgloss.Style
	SearchPromptStyle lipgloss.Style
	SearchTextStyle   lipgloss.Style

	// Footer
	FooterStyle      lipgloss.Style
	StatusStyle      lipgloss.Style
	StatusErrorStyle lipgloss.Style
	KeyStyle         lipgloss.Style
	MutedStyle       lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(t *theme.Theme) *Styles {
	p := theme.NewPalette(t)
	s := &Styles{}

	s.TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.OnAccent).
		Background(p.Accent).
		Padding(0, 1)
	s.HeaderStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Fg)
	s.TabStyle = lipgloss.NewStyle().
		Foreground(p.Muted).
		Background(p.Surface).
		Padding(0, 1)
	s.TabActive = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Accent).
		Underline(true).
		Padding(0, 1)

	s.TimeColumnStyle = lipgloss.NewStyle().
		Foreground(p.Muted).
		Width(timeColumnWidth).
		Align(lipgloss.Right)
	s.TimeCurrentStyle = s.TimeColumnStyle.
		Bold(true).
		Foreground(p.Current)

	cell := lipgloss.NewStyle().Padding(0, 1)
	s.BookingStyle = cell.Background(p.BookingBg).Foreground(p.OnBooking)
	s.BookingPastStyle = cell.Background(p.PastBg).Foreground(p.OnPast)
	s.ContinuationStyle = cell.Foreground(p.Booking)
	s.OverlapStyle = cell.Background(p.OverlapBg).Foreground(p.OnOverlap)
	s.EmptyCellStyle = cell.Foreground(p.Muted)
	s.CursorStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Accent)
	s.MovePreviewStyle = cell.Background(p.PreviewBg).Foreground(p.OnPreview).Bold(true)
	s.ResizeStyle = cell.Background(p.Warning).Foreground(p.OnWarning).Bold(true)

	s.PanelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.PanelBorder).
		Padding(0, 1)
	s.PanelTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Fg)
	s.PanelItemStyle = lipgloss.NewStyle().
		Foreground(p.Fg)
	s.PanelSelectStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Fg).
		Background(p.Selection)
	s.PanelMutedStyle = lipgloss.NewStyle().
		Foreground(p.PanelMuted)
	s.SearchPromptStyle = lipgloss.NewStyle().
		Foreground(p.Accent)
	s.SearchTextStyle = lipgloss.NewStyle().
		Foreground(p.Fg)

	s.FooterStyle = lipgloss.NewStyle().
		Foreground(p.Muted)
	s.StatusStyle = lipgloss.NewStyle().
		Foreground(p.Focus)
	s.StatusErrorStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Warning)
	s.KeyStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Accent)
	s.MutedStyle = lipgloss.NewStyle().
		Foreground(p.Muted)

	return s
}
