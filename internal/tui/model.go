package tui

import (
	"context"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/dayboard/internal/board"
	"github.com/javiermolinar/dayboard/internal/dateutil"
	"github.com/javiermolinar/dayboard/internal/grid"
	"github.com/javiermolinar/dayboard/internal/task"
	"github.com/javiermolinar/dayboard/internal/tui/theme"
)

// View selects which rendering of the board is shown.
type View int

const (
	ViewDay      View = iota // Booked items in slot order
	ViewSchedule             // All 48 slots
)

// ParseView maps a config value to a View. Unknown values select ViewDay.
func ParseView(s string) View {
	if s == "schedule" {
		return ViewSchedule
	}
	return ViewDay
}

func (v View) String() string {
	if v == ViewSchedule {
		return "Schedule"
	}
	return "Day"
}

// Mode represents the current interaction mode.
type Mode int

const (
	ModeNormal Mode = iota
	ModeSearch      // Typing into the task filter
	ModeMove        // A booking is picked up and follows the cursor
	ModeResize      // +/- change the duration of the booking under the cursor
)

// Default terminal size until the first WindowSizeMsg.
const (
	defaultWidth  = 100
	defaultHeight = 30
)

// Model is the main TUI model.
type Model struct {
	// Dependencies
	ctx    context.Context
	board  *board.Board
	tasks  task.Provider
	styles *Styles
	now    func() time.Time
	copy   func(string) error

	// State
	view   View
	mode   Mode
	cursor int // Slot under the cursor
	pick   int // Which of the bookings covering the cursor is selected
	scroll int // First visible slot in the schedule view

	// Task panel
	allTasks   []*task.Task
	filtered   []*task.Task
	taskCursor int
	search     textinput.Model
	loading    bool
	switching  bool // A day switch is in flight; edits are ignored until it lands

	// Move mode
	moving     grid.Position
	movingItem grid.Booking

	// Resize mode
	resizePos    grid.Position
	resizeAnchor int
	resizeDelta  int

	// Messages
	status    string
	statusErr bool
	statusSeq int

	// Terminal dimensions
	width  int
	height int
}

// New creates a new TUI model over a loaded board.
func New(ctx context.Context, opts Options) Model {
	t, err := theme.Load(opts.Theme)
	if err != nil {
		// Fallback to mocha on error
		t, _ = theme.Load("mocha")
	}
	styles := NewStyles(t)

	search := textinput.New()
	search.Placeholder = "filter tasks"
	search.Prompt = "/ "
	search.CharLimit = 64
	search.PromptStyle = styles.SearchPromptStyle
	search.TextStyle = styles.SearchTextStyle

	m := Model{
		ctx:     ctx,
		board:   opts.Board,
		tasks:   opts.Tasks,
		styles:  styles,
		now:     time.Now,
		copy:    clipboard.WriteAll,
		view:    ParseView(opts.DefaultView),
		search:  search,
		loading: true,
		width:   defaultWidth,
		height:  defaultHeight,
	}
	m.focusCursorOnNow()
	return m
}

// Init loads the task catalog and starts the clock.
func (m Model) Init() tea.Cmd {
	return tea.Batch(loadTasks(m.ctx, m.tasks), clockTick())
}

// isToday reports whether the board shows the current wall-clock day.
func (m Model) isToday() bool {
	return m.board.Day() == dateutil.Today(m.now())
}

// focusCursorOnNow puts the cursor on the current time when viewing today,
// otherwise on the first booking or 9:00.
func (m *Model) focusCursorOnNow() {
	switch {
	case m.isToday():
		m.cursor = grid.SlotFor(m.now())
	default:
		m.cursor = 18
		if slots := m.board.Schedule().Slots(); len(slots) > 0 {
			m.cursor = slots[0]
		}
	}
	m.pick = 0
	m.ensureVisible()
}

// selected returns the booking under the cursor.
func (m Model) selected() (grid.Covered, bool) {
	covering := m.board.Schedule().Covering(m.cursor)
	if len(covering) == 0 {
		return grid.Covered{}, false
	}
	return covering[m.pick%len(covering)], true
}

// selectedTask returns the task highlighted in the panel.
func (m Model) selectedTask() (*task.Task, bool) {
	if m.taskCursor < 0 || m.taskCursor >= len(m.filtered) {
		return nil, false
	}
	return m.filtered[m.taskCursor], true
}

func (m *Model) moveCursor(delta int) {
	m.cursor = max(0, min(grid.SlotsPerDay-1, m.cursor+delta))
	m.pick = 0
	m.ensureVisible()
}

func (m *Model) moveTaskCursor(delta int) {
	if len(m.filtered) == 0 {
		m.taskCursor = 0
		return
	}
	m.taskCursor = max(0, min(len(m.filtered)-1, m.taskCursor+delta))
}

// applyFilter recomputes the visible tasks from the search query.
func (m *Model) applyFilter() {
	m.filtered = task.Filter(m.allTasks, m.search.Value())
	m.moveTaskCursor(0)
}

// gridRows returns how many slots fit in the schedule view.
func (m Model) gridRows() int {
	return max(1, min(grid.SlotsPerDay, m.height-chromeHeight))
}

// ensureVisible scrolls the schedule view so the cursor is on screen.
func (m *Model) ensureVisible() {
	rows := m.gridRows()
	if m.cursor < m.scroll {
		m.scroll = m.cursor
	}
	if m.cursor >= m.scroll+rows {
		m.scroll = m.cursor - rows + 1
	}
	m.scroll = max(0, min(grid.SlotsPerDay-rows, m.scroll))
}
