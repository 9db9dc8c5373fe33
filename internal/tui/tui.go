// Package tui provides the terminal user interface for dayboard.
package tui

import (
	"context"
	"errors"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/dayboard/internal/board"
	"github.com/javiermolinar/dayboard/internal/logger"
	"github.com/javiermolinar/dayboard/internal/task"
)

// Options configures the interactive board.
type Options struct {
	Board    *board.Board
	Tasks    task.Provider
	Notifier *Notifier
	// Theme is a theme name, see theme.Available.
	Theme string
	// DefaultView is "day" or "schedule".
	DefaultView string
}

// Run starts the TUI and the board's background timers.
// Quitting the TUI cancels the timers and waits for the final flush.
func Run(ctx context.Context, opts Options) error {
	if opts.Board == nil {
		return errors.New("board is required")
	}
	if opts.Tasks == nil {
		return errors.New("task provider is required")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := New(ctx, opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if opts.Notifier != nil {
		opts.Notifier.attach(p)
	}

	done := make(chan error, 1)
	go func() {
		done <- opts.Board.Run(ctx)
	}()

	_, err := p.Run()
	cancel()
	if runErr := <-done; runErr != nil {
		logger.Error("board timers stopped with error", "err", runErr)
	}
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}

// noticeMsg carries a board notice into the update loop.
type noticeMsg board.Notice

// Notifier forwards board notices to a running program.
// Notices that arrive before the program starts are delivered once it attaches.
type Notifier struct {
	mu      sync.Mutex
	program *tea.Program
	pending []board.Notice
}

// NewNotifier creates a notifier that is not yet attached to a program.
func NewNotifier() *Notifier {
	return &Notifier{}
}

// Notify implements board.Notifier.
func (n *Notifier) Notify(notice board.Notice) {
	n.mu.Lock()
	p := n.program
	if p == nil {
		n.pending = append(n.pending, notice)
		n.mu.Unlock()
		return
	}
	n.mu.Unlock()

	// Send blocks until the event loop reads the message.
	p.Send(noticeMsg(notice))
}

func (n *Notifier) attach(p *tea.Program) {
	n.mu.Lock()
	n.program = p
	pending := n.pending
	n.pending = nil
	n.mu.Unlock()

	if len(pending) == 0 {
		return
	}
	go func() {
		for _, notice := range pending {
			p.Send(noticeMsg(notice))
		}
	}()
}
