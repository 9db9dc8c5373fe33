package tui

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/dayboard/internal/dateutil"
	"github.com/javiermolinar/dayboard/internal/grid"
	"github.com/javiermolinar/dayboard/internal/logger"
)

// resizeRowHeight is the drag distance of one slot: each +/- press is one row.
const resizeRowHeight = 1.0

// handleKeyMsg handles keyboard input.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	logger.Debug("key", "key", msg.String(), "mode", m.mode)

	// Global keys (work in all modes)
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	// Mode-specific handling
	switch m.mode {
	case ModeSearch:
		return m.handleSearchKeys(msg)
	case ModeMove:
		return m.handleMoveKeys(msg)
	case ModeResize:
		return m.handleResizeKeys(msg)
	default:
		return m.handleNormalKeys(msg)
	}
}

// switchBlockedKeys edit or leave the current day and must wait for a day switch.
var switchBlockedKeys = map[string]bool{
	"enter": true, "m": true, "+": true, "=": true, "-": true,
	"x": true, "delete": true, "s": true, "[": true, "]": true, "t": true,
}

// handleNormalKeys handles keys in normal mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.switching && switchBlockedKeys[msg.String()] {
		return m, nil
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "tab":
		if m.view == ViewDay {
			m.view = ViewSchedule
		} else {
			m.view = ViewDay
		}
		m.ensureVisible()

	// Navigation
	case "j", "down":
		m.moveCursor(1)
	case "k", "up":
		m.moveCursor(-1)
	case "J", "ctrl+n":
		m.moveTaskCursor(1)
	case "K", "ctrl+p":
		m.moveTaskCursor(-1)
	case "o":
		m.pick++
	case "g":
		m.cursor = 0
		m.moveCursor(0)
	case "G":
		m.cursor = grid.SlotsPerDay - 1
		m.moveCursor(0)

	case "[":
		return m.shiftDay(-1)
	case "]":
		return m.shiftDay(1)
	case "t":
		return m.goToDay(dateutil.Today(m.now()))

	case "/":
		m.mode = ModeSearch
		return m, m.search.Focus()

	case "enter":
		t, ok := m.selectedTask()
		if !ok {
			return m.setStatus("No task selected", grid.ErrNoTask)
		}
		if err := m.board.Insert(m.cursor, *t); err != nil {
			return m.setStatus("Could not book task", err)
		}
		return m.setStatus(fmt.Sprintf("Booked %s %s", t.Name, grid.RangeLabel(m.cursor, grid.DefaultDuration)), nil)

	case "m":
		c, ok := m.selected()
		if !ok {
			return m.setStatus("Nothing to move here", grid.ErrBookingNotFound)
		}
		m.mode = ModeMove
		m.moving = c.Position
		m.movingItem = c.Booking
		m.cursor = c.Slot
		m.ensureVisible()

	case "+", "=", "-":
		c, ok := m.selected()
		if !ok {
			return m.setStatus("Nothing to resize here", grid.ErrBookingNotFound)
		}
		if err := m.board.BeginResize(c.Position, resizeRowHeight); err != nil {
			return m.setStatus("Could not resize", err)
		}
		m.mode = ModeResize
		m.resizePos = c.Position
		m.resizeAnchor = c.Duration
		m.resizeDelta = 0
		return m.handleResizeKeys(msg)

	case "x", "delete":
		c, ok := m.selected()
		if !ok {
			return m.setStatus("Nothing to remove here", grid.ErrBookingNotFound)
		}
		removed, err := m.board.Remove(c.Position)
		if err != nil {
			return m.setStatus("Could not remove booking", err)
		}
		m.pick = 0
		return m.setStatus("Removed "+removed.Task.Name, nil)

	case "s":
		return m, commitDay(m.ctx, m.board)

	case "y":
		return m, copyDay(m.copy, m.board.Day(), m.board.Schedule())
	}

	return m, nil
}

// handleSearchKeys routes typing into the filter until enter or esc.
func (m Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.search.SetValue("")
		m.search.Blur()
		m.mode = ModeNormal
		m.applyFilter()
		return m, nil
	case "enter":
		m.search.Blur()
		m.mode = ModeNormal
		return m, nil
	case "down", "ctrl+n":
		m.moveTaskCursor(1)
		return m, nil
	case "up", "ctrl+p":
		m.moveTaskCursor(-1)
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.applyFilter()
	return m, cmd
}

// handleMoveKeys moves the picked-up booking with the cursor and drops it on m or enter.
func (m Model) handleMoveKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		m.moveCursor(1)
	case "k", "up":
		m.moveCursor(-1)
	case "esc":
		m.mode = ModeNormal
		return m.setStatus("Move cancelled", nil)
	case "m", "enter":
		m.mode = ModeNormal
		err := m.board.Move(m.moving, m.cursor, m.movingItem.Duration)
		if err != nil {
			return m.setStatus("Could not move booking", err)
		}
		// The moved booking is appended to the target slot's list.
		m.pick = len(m.board.Schedule().Covering(m.cursor)) - 1
		return m.setStatus(fmt.Sprintf("Moved %s to %s",
			m.movingItem.Task.Name, grid.RangeLabel(m.cursor, m.movingItem.Duration)), nil)
	}
	return m, nil
}

// handleResizeKeys grows or shrinks the booking one slot per key press.
func (m Model) handleResizeKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "+", "=":
		return m.updateResize(1)
	case "-":
		return m.updateResize(-1)
	case "enter", "esc":
		m.mode = ModeNormal
		d, err := m.board.EndResize()
		if err != nil {
			return m.setStatus("Resize failed", err)
		}
		return m.setStatus("Duration "+formatSlots(d), nil)
	}
	return m, nil
}

func (m Model) updateResize(step int) (tea.Model, tea.Cmd) {
	d, err := m.board.UpdateResize(float64(m.resizeDelta+step) * resizeRowHeight)
	if err != nil {
		m.mode = ModeNormal
		if errors.Is(err, grid.ErrBookingNotFound) {
			_, _ = m.board.EndResize()
		}
		return m.setStatus("Resize failed", err)
	}
	// Keep the delta within the clamped range so reversing takes effect at once.
	m.resizeDelta = d - m.resizeAnchor
	return m, nil
}

// shiftDay moves the board n days from the current one.
func (m Model) shiftDay(n int) (tea.Model, tea.Cmd) {
	day, err := dateutil.AddDays(m.board.Day(), n)
	if err != nil {
		return m.setStatus("Could not switch day", err)
	}
	return m.goToDay(day)
}

func (m Model) goToDay(day string) (tea.Model, tea.Cmd) {
	if day == m.board.Day() {
		return m, nil
	}
	m.loading = true
	m.switching = true
	return m, switchDay(m.ctx, m.board, day)
}

func formatSlots(n int) string {
	minutes := n * grid.SlotMinutes
	if minutes%60 == 0 {
		return fmt.Sprintf("%dh", minutes/60)
	}
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh%dm", minutes/60, minutes%60)
}
