package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/javiermolinar/dayboard/internal/board"
	"github.com/javiermolinar/dayboard/internal/grid"
)

func (a *App) scheduleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "schedule",
		Aliases: []string{"sched"},
		Short:   "View and edit a day's grid",
		Long: `View and edit the bookings on a day's 48-slot grid.

Bookings are addressed either by the task they hold or by --at HH:MM
(the slot they start in) plus --index when several start in that slot.
Every edit is saved to the local snapshot store right away.`,
	}
	cmd.AddCommand(a.scheduleShowCmd())
	cmd.AddCommand(a.scheduleAddCmd())
	cmd.AddCommand(a.scheduleMoveCmd())
	cmd.AddCommand(a.scheduleResizeCmd())
	cmd.AddCommand(a.scheduleRemoveCmd())
	cmd.AddCommand(a.scheduleCommitCmd())
	cmd.AddCommand(a.scheduleHistoryCmd())
	return cmd
}

// bookingFlags addresses one booking on the grid.
type bookingFlags struct {
	date  string
	at    string
	index int
}

func (f *bookingFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.date, "date", "", "Day (YYYY-MM-DD, today, tomorrow, weekday; default: today)")
	cmd.Flags().StringVar(&f.at, "at", "", "Start time of the booking (HH:MM)")
	cmd.Flags().IntVar(&f.index, "index", 0, "Which booking starting at --at, in list order (0-based)")
}

// locate resolves the addressed booking on s, by --at/--index or by task reference.
func (f *bookingFlags) locate(s grid.Schedule, args []string) (grid.Position, grid.Booking, error) {
	if f.at != "" {
		slot, err := grid.SlotForTime(f.at)
		if err != nil {
			return grid.Position{}, grid.Booking{}, err
		}
		pos := grid.Position{Slot: slot, Index: f.index}
		b, ok := s.At(pos)
		if !ok {
			return grid.Position{}, grid.Booking{}, fmt.Errorf("%w at %s index %d", grid.ErrBookingNotFound, f.at, f.index)
		}
		return pos, b, nil
	}
	if len(args) == 0 {
		return grid.Position{}, grid.Booking{}, errors.New("name a task or pass --at")
	}
	pos, b, ok := findBooking(s, args[0])
	if !ok {
		return grid.Position{}, grid.Booking{}, fmt.Errorf("%w: %s", grid.ErrBookingNotFound, args[0])
	}
	return pos, b, nil
}

// findBooking returns the first booking whose task matches ref by ID, ID prefix or name.
func findBooking(s grid.Schedule, ref string) (grid.Position, grid.Booking, bool) {
	if pos, b, ok := s.Find(ref); ok {
		return pos, b, true
	}
	for _, slot := range s.Slots() {
		for i, b := range s.Bookings(slot) {
			if strings.HasPrefix(b.Task.ID, ref) || strings.EqualFold(b.Task.Name, ref) {
				return grid.Position{Slot: slot, Index: i}, b, true
			}
		}
	}
	return grid.Position{}, grid.Booking{}, false
}

// editDay opens a board for the day, applies edit, and persists the result.
func (a *App) editDay(ctx context.Context, date string, edit func(*board.Board) error) (*board.Board, error) {
	day, err := a.resolveDay(date)
	if err != nil {
		return nil, err
	}
	b, err := a.openBoard(ctx, day, board.LogNotifier{})
	if err != nil {
		return nil, err
	}
	if err := edit(b); err != nil {
		return nil, err
	}
	if err := b.Persist(ctx); err != nil {
		return nil, err
	}
	return b, nil
}

func (a *App) scheduleShowCmd() *cobra.Command {
	var (
		date     string
		full     bool
		copyText bool
		noColor  bool
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the bookings of a day",
		Example: `  dayboard schedule show
  dayboard schedule show --date tomorrow --grid
  dayboard schedule show --copy`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if noColor {
				DisableColor()
			}
			day, err := a.resolveDay(date)
			if err != nil {
				return err
			}
			b, err := a.openBoard(cmd.Context(), day, board.LogNotifier{})
			if err != nil {
				return err
			}
			s := b.Schedule()

			out := cmd.OutOrStdout()
			if full {
				PrintGrid(out, day, s, termWidth())
			} else {
				PrintSchedule(out, day, s, termWidth())
			}

			if copyText {
				if err := clipboard.WriteAll(PlainSchedule(day, s)); err != nil {
					return fmt.Errorf("copying to clipboard: %w", err)
				}
				fmt.Fprintln(out, formatMuted("Copied to clipboard."))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day (YYYY-MM-DD, today, tomorrow, weekday; default: today)")
	cmd.Flags().BoolVar(&full, "grid", false, "Show all 48 slots")
	cmd.Flags().BoolVar(&copyText, "copy", false, "Copy the plan to the clipboard")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable color output")
	return cmd
}

func (a *App) scheduleAddCmd() *cobra.Command {
	var (
		date     string
		at       string
		slot     int
		duration int
	)

	cmd := &cobra.Command{
		Use:   "add [task]",
		Short: "Book a task onto the grid",
		Long: `Book a task at a start time. The booking lasts one hour unless
--duration gives another number of half-hour slots (1-8).
Booking the same task twice creates two independent bookings.`,
		Example: `  dayboard schedule add report --at 09:00
  dayboard schedule add "Gym" --slot 36 --duration 3 --date tomorrow`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			target := slot
			if at != "" {
				s, err := grid.SlotForTime(at)
				if err != nil {
					return err
				}
				target = s
			}
			if target < 0 {
				return fmt.Errorf("pass --at HH:MM or --slot 0-%d", grid.SlotsPerDay-1)
			}

			t, err := a.resolveTask(ctx, args[0])
			if err != nil {
				return err
			}

			var final int
			b, err := a.editDay(ctx, date, func(b *board.Board) error {
				if err := b.Insert(target, *t); err != nil {
					return err
				}
				final = grid.DefaultDuration
				if duration <= 0 || duration == grid.DefaultDuration {
					return nil
				}
				pos := grid.Position{Slot: target, Index: len(b.Schedule().Bookings(target)) - 1}
				var err error
				final, err = b.Resize(pos, duration-grid.DefaultDuration)
				return err
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Booked %s %s on %s\n",
				t.Name, grid.RangeLabel(target, final), b.Day())
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day (YYYY-MM-DD, today, tomorrow, weekday; default: today)")
	cmd.Flags().StringVar(&at, "at", "", "Start time (HH:MM)")
	cmd.Flags().IntVar(&slot, "slot", -1, "Start slot (0-47)")
	cmd.Flags().IntVar(&duration, "duration", 0, "Length in half-hour slots (default 2)")
	return cmd
}

func (a *App) scheduleMoveCmd() *cobra.Command {
	var (
		ref bookingFlags
		to  string
	)

	cmd := &cobra.Command{
		Use:   "move [task]",
		Short: "Move a booking to another start time",
		Long: `Move a booking to another start time, keeping its duration.
The booking goes to the end of the target slot's list.`,
		Example: `  dayboard schedule move report --to 14:00
  dayboard schedule move --at 09:00 --index 1 --to 09:30`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			toSlot, err := grid.SlotForTime(to)
			if err != nil {
				return err
			}

			var moved grid.Booking
			_, err = a.editDay(cmd.Context(), ref.date, func(b *board.Board) error {
				pos, booking, err := ref.locate(b.Schedule(), args)
				if err != nil {
					return err
				}
				moved = booking
				return b.Move(pos, toSlot, booking.Duration)
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Moved %s to %s\n",
				moved.Task.Name, grid.RangeLabel(toSlot, moved.Duration))
			return nil
		},
	}

	ref.register(cmd)
	cmd.Flags().StringVar(&to, "to", "", "New start time (HH:MM)")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func (a *App) scheduleResizeCmd() *cobra.Command {
	var (
		ref      bookingFlags
		by       int
		duration int
	)

	cmd := &cobra.Command{
		Use:   "resize [task]",
		Short: "Change how many slots a booking lasts",
		Long: `Grow or shrink a booking by --by slots, or set it with --duration.
Durations are clamped to 1-8 slots (30 minutes to 4 hours).`,
		Example: `  dayboard schedule resize report --by 2
  dayboard schedule resize --at 09:00 --duration 1`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if by == 0 && duration == 0 {
				return errors.New("pass --by or --duration")
			}

			var (
				slot  int
				final int
				name  string
			)
			_, err := a.editDay(cmd.Context(), ref.date, func(b *board.Board) error {
				pos, booking, err := ref.locate(b.Schedule(), args)
				if err != nil {
					return err
				}
				delta := by
				if duration > 0 {
					delta = duration - booking.Duration
				}
				slot, name = pos.Slot, booking.Task.Name
				final, err = b.Resize(pos, delta)
				return err
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Resized %s to %s (%s)\n",
				name, grid.RangeLabel(slot, final), FormatDuration(final*grid.SlotMinutes))
			return nil
		},
	}

	ref.register(cmd)
	cmd.Flags().IntVar(&by, "by", 0, "Slots to add (negative to shrink)")
	cmd.Flags().IntVar(&duration, "duration", 0, "New length in slots")
	return cmd
}

func (a *App) scheduleRemoveCmd() *cobra.Command {
	var ref bookingFlags

	cmd := &cobra.Command{
		Use:     "remove [task]",
		Aliases: []string{"rm"},
		Short:   "Remove a booking from the grid",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var removed grid.Booking
			_, err := a.editDay(cmd.Context(), ref.date, func(b *board.Board) error {
				pos, _, err := ref.locate(b.Schedule(), args)
				if err != nil {
					return err
				}
				removed, err = b.Remove(pos)
				return err
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", removed.Task.Name)
			return nil
		},
	}

	ref.register(cmd)
	return cmd
}

func (a *App) scheduleCommitCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "commit",
		Short: "Append the day's plan to the session log",
		Long: `Flatten the day's bookings in slot order and append them as one record
to the session log. Committing twice appends two records.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			day, err := a.resolveDay(date)
			if err != nil {
				return err
			}
			b, err := a.openBoard(cmd.Context(), day, board.LogNotifier{})
			if err != nil {
				return err
			}
			rec, err := b.Commit(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Committed %d bookings for %s %s\n",
				len(rec.ScheduleData), day, formatMuted("("+shortID(rec.ID)+")"))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day (YYYY-MM-DD, today, yesterday, weekday; default: today)")
	return cmd
}

func (a *App) scheduleHistoryCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the committed plans of a day",
		RunE: func(cmd *cobra.Command, _ []string) error {
			day, err := a.resolveDay(date)
			if err != nil {
				return err
			}
			records, err := a.stores.Sessions.ListSchedules(cmd.Context(), a.config.User, day)
			if err != nil {
				return fmt.Errorf("listing committed plans: %w", err)
			}
			PrintHistory(cmd.OutOrStdout(), day, records)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day (YYYY-MM-DD, today, yesterday, weekday; default: today)")
	return cmd
}
