package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/dayboard/internal/logger"
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.search.Width = max(10, m.panelWidth()-8)
		m.ensureVisible()
		return m, nil

	case tasksLoadedMsg:
		m.loading = false
		if msg.err != nil {
			return m.setStatus("Loading tasks failed", msg.err)
		}
		m.allTasks = msg.tasks
		m.applyFilter()
		return m, nil

	case daySwitchedMsg:
		m.loading = false
		m.switching = false
		if msg.err != nil {
			return m.setStatus("Could not switch day", msg.err)
		}
		m.mode = ModeNormal
		m.focusCursorOnNow()
		return m, nil

	case committedMsg:
		if msg.err != nil {
			return m.setStatus("Commit failed", msg.err)
		}
		return m.setStatus(fmt.Sprintf("Committed %d bookings", len(msg.record.ScheduleData)), nil)

	case noticeMsg:
		logger.Debug("board notice", "message", msg.Message, "failed", msg.Err != nil)
		return m.setStatus(msg.Message, msg.Err)

	case statusMsg:
		return m.setStatus(msg.text, msg.err)

	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
			m.statusErr = false
		}
		return m, nil

	case clockTickMsg:
		return m, clockTick()
	}

	if m.mode == ModeSearch {
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	}
	return m, nil
}

// setStatus shows text in the footer and schedules its removal.
func (m Model) setStatus(text string, err error) (Model, tea.Cmd) {
	m.statusSeq++
	m.statusErr = err != nil
	m.status = text
	if err != nil {
		m.status = fmt.Sprintf("%s: %v", text, err)
	}
	return m, clearStatusAfter(m.statusSeq)
}
