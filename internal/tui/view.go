package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/javiermolinar/dayboard/internal/grid"
)

const (
	// chromeHeight is the title, a spacer, the status line and the help line.
	chromeHeight    = 4
	timeColumnWidth = 8
)

// View renders the TUI.
func (m Model) View() string {
	if m.width < 40 || m.height < chromeHeight+3 {
		return "Terminal too small"
	}

	bodyHeight := m.height - chromeHeight
	panelWidth := m.panelWidth()
	leftWidth := m.width - panelWidth - 1

	var left string
	if m.view == ViewSchedule {
		left = m.renderSchedule(leftWidth, m.gridRows())
	} else {
		left = m.renderDay(leftWidth, bodyHeight)
	}
	left = lipgloss.NewStyle().Width(leftWidth).Height(bodyHeight).MaxHeight(bodyHeight).Render(left)
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, " ", m.renderPanel(panelWidth, bodyHeight))

	return strings.Join([]string{
		m.renderTitle(),
		"",
		body,
		m.renderStatus(),
		m.renderHelp(),
	}, "\n")
}

func (m Model) panelWidth() int {
	return max(24, min(44, m.width/3))
}

func (m Model) renderTitle() string {
	tabs := make([]string, 0, 2)
	for _, v := range []View{ViewDay, ViewSchedule} {
		if v == m.view {
			tabs = append(tabs, m.styles.TabActive.Render(v.String()))
		} else {
			tabs = append(tabs, m.styles.TabStyle.Render(v.String()))
		}
	}
	day := dayTitle(m.board.Day())
	if m.isToday() {
		day += " (today)"
	}
	if m.loading {
		day += " …"
	}
	return lipgloss.JoinHorizontal(lipgloss.Center,
		m.styles.TitleStyle.Render("dayboard"),
		"  ",
		m.styles.HeaderStyle.Render(day),
		"  ",
		strings.Join(tabs, ""),
	)
}

// renderDay lists the bookings in slot order.
func (m Model) renderDay(width, height int) string {
	s := m.board.Schedule()
	sel, hasSel := m.selected()

	lines := []string{
		m.styles.MutedStyle.Render(fmt.Sprintf("Cursor %s", grid.TimeLabel(m.cursor))),
		"",
	}
	if s.IsEmpty() {
		lines = append(lines, m.styles.MutedStyle.Render("Nothing booked. Pick a task with J/K and press enter."))
		return strings.Join(lines, "\n")
	}

	nameWidth := max(8, width-22)
	for _, slot := range s.Slots() {
		for i, b := range s.Bookings(slot) {
			pos := grid.Position{Slot: slot, Index: i}
			marker := "  "
			style := m.styles.PanelItemStyle
			if hasSel && sel.Position == pos {
				marker = m.styles.CursorStyle.Render("› ")
				style = m.styles.PanelSelectStyle
			}
			if m.mode == ModeResize && m.resizePos == pos {
				style = m.styles.ResizeStyle
			}
			line := fmt.Sprintf("%-17s  %s", grid.RangeLabel(slot, b.Duration), ansi.Truncate(b.Task.Name, nameWidth, "…"))
			lines = append(lines, marker+style.Render(line))
		}
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}

// renderSchedule draws rows slots of the full grid starting at the scroll offset.
func (m Model) renderSchedule(width, rows int) string {
	s := m.board.Schedule()
	nowSlot := -1
	if m.isToday() {
		nowSlot = grid.SlotFor(m.now())
	}
	cellWidth := max(4, width-2-timeColumnWidth-1)

	lines := make([]string, 0, rows)
	for slot := m.scroll; slot < min(grid.SlotsPerDay, m.scroll+rows); slot++ {
		prefix := "  "
		if slot == m.cursor {
			prefix = m.styles.CursorStyle.Render("› ")
		}
		label := m.styles.TimeColumnStyle.Render(grid.TimeLabel(slot))
		if slot == nowSlot {
			label = m.styles.TimeCurrentStyle.Render(grid.TimeLabel(slot))
		}
		lines = append(lines, prefix+label+" "+m.renderCell(s, slot, nowSlot, cellWidth))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderCell(s grid.Schedule, slot, nowSlot, width int) string {
	fit := func(style lipgloss.Style, text string) string {
		return style.Width(width).Render(ansi.Truncate(text, max(1, width-2), "…"))
	}

	if m.mode == ModeMove && m.movingItem.Covers(m.cursor, slot) {
		return fit(m.styles.MovePreviewStyle, m.movingItem.Task.Name)
	}

	covering := s.Covering(slot)
	switch len(covering) {
	case 0:
		return fit(m.styles.EmptyCellStyle, "·")
	case 1:
	default:
		names := make([]string, 0, len(covering))
		for _, c := range covering {
			names = append(names, c.Task.Name)
		}
		return fit(m.styles.OverlapStyle, strings.Join(names, ", "))
	}

	c := covering[0]
	if m.mode == ModeResize && c.Position == m.resizePos {
		return fit(m.styles.ResizeStyle, c.Task.Name)
	}
	if c.Slot != slot {
		return fit(m.styles.ContinuationStyle, "│ "+c.Task.Name)
	}

	style := m.styles.BookingStyle
	if nowSlot >= 0 && c.End(c.Slot) <= nowSlot {
		style = m.styles.BookingPastStyle
	}
	return fit(style, fmt.Sprintf("%s  %s", c.Task.Name, formatSlots(c.Duration)))
}

// renderPanel draws the task catalog with its search box.
func (m Model) renderPanel(width, height int) string {
	inner := width - 4 // border and padding
	lines := []string{
		m.styles.PanelTitleStyle.Render("Tasks") + " " + m.styles.PanelMutedStyle.Render(fmt.Sprintf("(%d)", len(m.filtered))),
		m.search.View(),
		"",
	}

	visible := max(1, height-2-len(lines))
	switch {
	case m.loading && m.allTasks == nil:
		lines = append(lines, m.styles.PanelMutedStyle.Render("Loading…"))
	case len(m.filtered) == 0:
		lines = append(lines, m.styles.PanelMutedStyle.Render("No tasks"))
	default:
		start := max(0, m.taskCursor-visible+1)
		for i := start; i < min(len(m.filtered), start+visible); i++ {
			t := m.filtered[i]
			text := t.Name
			if rng, ok := m.board.ScheduledRange(t.ID); ok {
				text += " @ " + rng
			}
			if done, total := t.Checklist.Progress(); total > 0 {
				text += fmt.Sprintf(" %d/%d", done, total)
			}
			text = ansi.Truncate(text, inner, "…")
			if i == m.taskCursor {
				lines = append(lines, m.styles.PanelSelectStyle.Render(text))
			} else {
				lines = append(lines, m.styles.PanelItemStyle.Render(text))
			}
		}
	}

	return m.styles.PanelStyle.
		Width(width - 2).
		Height(height - 2).
		Render(strings.Join(lines, "\n"))
}

func (m Model) renderStatus() string {
	if m.status != "" {
		style := m.styles.StatusStyle
		if m.statusErr {
			style = m.styles.StatusErrorStyle
		}
		return ansi.Truncate(style.Render(m.status), m.width, "…")
	}

	switch m.mode {
	case ModeMove:
		return m.styles.StatusStyle.Render(fmt.Sprintf("MOVE %s to %s",
			m.movingItem.Task.Name, grid.RangeLabel(m.cursor, m.movingItem.Duration)))
	case ModeResize:
		d := grid.ClampDuration(m.resizeAnchor + m.resizeDelta)
		return m.styles.StatusStyle.Render("RESIZE " + formatSlots(d))
	case ModeSearch:
		return m.styles.StatusStyle.Render("SEARCH")
	}
	return ""
}

func (m Model) renderHelp() string {
	var pairs [][2]string
	switch m.mode {
	case ModeMove:
		pairs = [][2]string{{"j/k", "slot"}, {"m", "drop"}, {"esc", "cancel"}}
	case ModeResize:
		pairs = [][2]string{{"+/-", "length"}, {"enter", "done"}}
	case ModeSearch:
		pairs = [][2]string{{"type", "filter"}, {"enter", "keep"}, {"esc", "clear"}}
	default:
		pairs = [][2]string{
			{"tab", "view"}, {"j/k", "slot"}, {"J/K", "task"}, {"enter", "book"},
			{"m", "move"}, {"+/-", "resize"}, {"x", "remove"}, {"[/]", "day"},
			{"s", "commit"}, {"y", "copy"}, {"/", "search"}, {"q", "quit"},
		}
	}

	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		parts = append(parts, m.styles.KeyStyle.Render(p[0])+" "+m.styles.FooterStyle.Render(p[1]))
	}
	return ansi.Truncate(strings.Join(parts, "  "), m.width, "…")
}
