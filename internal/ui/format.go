package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/javiermolinar/dayboard/internal/dateutil"
	"github.com/javiermolinar/dayboard/internal/grid"
	"github.com/javiermolinar/dayboard/internal/sessionlog"
	"github.com/javiermolinar/dayboard/internal/task"
)

// ScheduleStats holds aggregated numbers for one day's grid.
type ScheduleStats struct {
	Bookings       int
	BookedMinutes  int // sum of booking lengths
	CoveredMinutes int // wall-clock time with at least one booking
	OverlapSlots   int // slots covered by more than one booking
}

// Summarize computes the stats of a schedule.
func Summarize(s grid.Schedule) ScheduleStats {
	var st ScheduleStats
	for _, slot := range s.Slots() {
		for _, b := range s.Bookings(slot) {
			st.Bookings++
			st.BookedMinutes += b.Duration * grid.SlotMinutes
		}
	}
	for slot := 0; slot < grid.SlotsPerDay; slot++ {
		n := len(s.Covering(slot))
		if n > 0 {
			st.CoveredMinutes += grid.SlotMinutes
		}
		if n > 1 {
			st.OverlapSlots++
		}
	}
	return st
}

// FormatDuration formats minutes as a human-readable duration.
func FormatDuration(minutes int) string {
	if minutes == 0 {
		return "0m"
	}
	hours := minutes / 60
	mins := minutes % 60
	if hours == 0 {
		return fmt.Sprintf("%dm", mins)
	}
	if mins == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh%dm", hours, mins)
}

// shortID returns the prefix of an ID shown to users.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// nameWidth returns the column width for task names given the terminal width.
func nameWidth(termWidth int) int {
	// "  ○ xxxxxxxx  " prefix and a category tag of ~14 columns
	w := termWidth - 30
	return max(20, min(60, w))
}

// truncate shortens s to width display columns.
func truncate(s string, width int) string {
	return ansi.Truncate(s, width, "…")
}

// pad truncates s and pads it to width display columns.
func pad(s string, width int) string {
	s = truncate(s, width)
	if n := ansi.StringWidth(s); n < width {
		s += strings.Repeat(" ", width-n)
	}
	return s
}

func statusSymbol(t *task.Task) string {
	if t.Complete {
		return formatStats("✓")
	}
	return "○"
}

// PrintTaskRow prints a single task row with consistent formatting.
func PrintTaskRow(w io.Writer, t *task.Task, width int) {
	progress := ""
	if done, total := t.Checklist.Progress(); total > 0 {
		progress = "  " + formatMuted(fmt.Sprintf("%d/%d", done, total))
	}
	fmt.Fprintf(w, "  %s %s  %s  %s%s\n",
		statusSymbol(t), formatMuted(shortID(t.ID)), pad(t.Name, width), formatCategory(t.Category), progress)
}

// PrintChecklist prints a task's checklist with 1-based step numbers.
func PrintChecklist(w io.Writer, name string, checklist task.Checklist) {
	fmt.Fprintln(w, formatHeader(name))
	if len(checklist) == 0 {
		fmt.Fprintln(w, formatMuted("  No checklist steps."))
		return
	}
	for i, item := range checklist {
		box := "[ ]"
		if item.Done {
			box = formatStats("[x]")
		}
		fmt.Fprintf(w, "  %d. %s %s\n", i+1, box, item.Text)
	}
	done, total := checklist.Progress()
	fmt.Fprintf(w, "  %s\n", formatMuted(fmt.Sprintf("%d of %d done", done, total)))
}

func dayTitle(day string) string {
	t, err := dateutil.ParseDay(day)
	if err != nil {
		return day
	}
	return t.Format("Monday, January 2, 2006")
}

// PrintSchedule prints the bookings of a day in slot order.
func PrintSchedule(w io.Writer, day string, s grid.Schedule, termWidth int) {
	fmt.Fprintf(w, "=== %s ===\n\n", formatHeader(dayTitle(day)))
	if s.IsEmpty() {
		fmt.Fprintln(w, "Nothing booked.")
		return
	}

	width := nameWidth(termWidth)
	for _, slot := range s.Slots() {
		for _, b := range s.Bookings(slot) {
			marker := "  "
			for target := slot; target < min(b.End(slot), grid.SlotsPerDay); target++ {
				if len(s.Covering(target)) > 1 {
					marker = formatWarn("! ")
					break
				}
			}
			fmt.Fprintf(w, "%s%-17s  %s  %s  %s\n",
				marker,
				grid.RangeLabel(slot, b.Duration),
				formatBooked(pad(b.Task.Name, width)),
				formatCategory(b.Task.Category),
				formatMuted(FormatDuration(b.Duration*grid.SlotMinutes)))
		}
	}

	st := Summarize(s)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Booked: %s | Covered: %s | Total: %d bookings\n",
		formatStats(FormatDuration(st.BookedMinutes)), FormatDuration(st.CoveredMinutes), st.Bookings)
	if st.OverlapSlots > 0 {
		fmt.Fprintln(w, formatWarn(fmt.Sprintf("Overlaps in %d slots (%s)",
			st.OverlapSlots, FormatDuration(st.OverlapSlots*grid.SlotMinutes))))
	}
}

// PrintGrid prints all 48 slots with the bookings covering each.
func PrintGrid(w io.Writer, day string, s grid.Schedule, termWidth int) {
	fmt.Fprintf(w, "=== %s ===\n\n", formatHeader(dayTitle(day)))
	width := max(20, termWidth-14)
	for slot := 0; slot < grid.SlotsPerDay; slot++ {
		covered := s.Covering(slot)
		names := make([]string, 0, len(covered))
		for _, c := range covered {
			if c.Slot == slot {
				names = append(names, formatBooked(c.Task.Name))
			} else {
				names = append(names, formatMuted(c.Task.Name))
			}
		}
		fmt.Fprintf(w, "%8s │ %s\n", grid.TimeLabel(slot), truncate(strings.Join(names, ", "), width))
	}
}

// PlainSchedule renders a day's bookings as uncolored text for sharing.
func PlainSchedule(day string, s grid.Schedule) string {
	var sb strings.Builder
	sb.WriteString(dayTitle(day))
	sb.WriteString("\n")
	for _, e := range s.Flatten() {
		fmt.Fprintf(&sb, "%s %s (%s)\n",
			grid.RangeLabel(e.SlotIndex, e.DurationSlots), e.TaskName, e.Area)
	}
	return sb.String()
}

// PrintHistory prints the committed plans of a day.
func PrintHistory(w io.Writer, day string, records []sessionlog.Record) {
	if len(records) == 0 {
		fmt.Fprintf(w, "No committed plans for %s.\n", day)
		return
	}
	for i, rec := range records {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "=== %s %s ===\n",
			formatHeader(rec.CreatedAt.Local().Format("2006-01-02 15:04")),
			formatMuted(shortID(rec.ID)))
		for _, e := range rec.ScheduleData {
			fmt.Fprintf(w, "  %-17s  %s  %s\n",
				grid.RangeLabel(e.SlotIndex, e.DurationSlots), e.TaskName, formatCategory(e.Area))
		}
	}
}

// PrintFocus prints focus sessions and their total.
func PrintFocus(w io.Writer, entries []sessionlog.FocusEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No focus sessions recorded.")
		return
	}
	var total int
	var currentDay string
	for _, e := range entries {
		start := e.StartedAt.Local()
		if d := dateutil.Key(start); d != currentDay {
			if currentDay != "" {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "=== %s ===\n", formatHeader(d))
			currentDay = d
		}
		minutes := int(e.Duration().Minutes())
		total += minutes
		note := ""
		if e.Note != "" {
			note = "  " + formatMuted(e.Note)
		}
		fmt.Fprintf(w, "  %s-%s  %6s  %s %s%s\n",
			start.Format("15:04"), e.EndedAt.Local().Format("15:04"),
			FormatDuration(minutes), e.TaskName, formatCategory(e.Area), note)
	}
	fmt.Fprintf(w, "\nFocused: %s in %d sessions\n", formatStats(FormatDuration(total)), len(entries))
}
