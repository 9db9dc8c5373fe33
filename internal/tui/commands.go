package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/dayboard/internal/board"
	"github.com/javiermolinar/dayboard/internal/dateutil"
	"github.com/javiermolinar/dayboard/internal/grid"
	"github.com/javiermolinar/dayboard/internal/sessionlog"
	"github.com/javiermolinar/dayboard/internal/task"
)

// statusDuration is how long a status message stays in the footer.
const statusDuration = 4 * time.Second

// tasksLoadedMsg is sent when the task catalog is loaded.
type tasksLoadedMsg struct {
	tasks []*task.Task
	err   error
}

// daySwitchedMsg is sent when the board has moved to another day.
type daySwitchedMsg struct {
	day string
	err error
}

// committedMsg is sent when a commit to the session log finishes.
type committedMsg struct {
	record sessionlog.Record
	err    error
}

// statusMsg sets a temporary footer message.
type statusMsg struct {
	text string
	err  error
}

// clearStatusMsg clears the footer message if nothing newer replaced it.
type clearStatusMsg struct {
	seq int
}

// clockTickMsg refreshes the current-time marker.
type clockTickMsg time.Time

func loadTasks(ctx context.Context, p task.Provider) tea.Cmd {
	return func() tea.Msg {
		tasks, err := p.ListIncompleteTasks(ctx)
		return tasksLoadedMsg{tasks: tasks, err: err}
	}
}

func switchDay(ctx context.Context, b *board.Board, day string) tea.Cmd {
	return func() tea.Msg {
		err := b.SwitchDate(ctx, day)
		return daySwitchedMsg{day: day, err: err}
	}
}

func commitDay(ctx context.Context, b *board.Board) tea.Cmd {
	return func() tea.Msg {
		rec, err := b.Commit(ctx)
		return committedMsg{record: rec, err: err}
	}
}

func copyDay(write func(string) error, day string, s grid.Schedule) tea.Cmd {
	return func() tea.Msg {
		if s.IsEmpty() {
			return statusMsg{text: "Nothing to copy"}
		}
		if err := write(plainDay(day, s)); err != nil {
			return statusMsg{text: "Copy failed", err: err}
		}
		return statusMsg{text: "Copied day to clipboard"}
	}
}

func clockTick() tea.Cmd {
	return tea.Tick(time.Minute, func(t time.Time) tea.Msg {
		return clockTickMsg(t)
	})
}

func clearStatusAfter(seq int) tea.Cmd {
	return tea.Tick(statusDuration, func(time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	})
}

// plainDay renders a day's bookings as plain text for the clipboard.
func plainDay(day string, s grid.Schedule) string {
	var sb strings.Builder
	sb.WriteString(dayTitle(day))
	sb.WriteString("\n")
	for _, e := range s.Flatten() {
		fmt.Fprintf(&sb, "%s %s (%s)\n", grid.RangeLabel(e.SlotIndex, e.DurationSlots), e.TaskName, e.Area)
	}
	return sb.String()
}

func dayTitle(day string) string {
	t, err := dateutil.ParseDay(day)
	if err != nil {
		return day
	}
	return t.Format("Monday, January 2, 2006")
}
