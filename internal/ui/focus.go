package ui

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/dayboard/internal/dateutil"
	"github.com/javiermolinar/dayboard/internal/sessionlog"
)

func (a *App) focusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "focus",
		Short: "Track deep-work sessions",
		Long: `Record the time you actually spent focused on a task and review it later.
Sessions are stored in the session log next to committed plans.`,
	}
	cmd.AddCommand(a.focusAddCmd())
	cmd.AddCommand(a.focusListCmd())
	return cmd
}

func (a *App) focusAddCmd() *cobra.Command {
	var (
		date  string
		start string
		end   string
		note  string
	)

	cmd := &cobra.Command{
		Use:     "add [task]",
		Short:   "Record a focus session",
		Example: `  dayboard focus add report --start 09:10 --end 10:40 --note "first draft"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			day, err := a.resolveDay(date)
			if err != nil {
				return err
			}
			startAt, err := clockOn(day, start)
			if err != nil {
				return fmt.Errorf("start: %w", err)
			}
			endAt, err := clockOn(day, end)
			if err != nil {
				return fmt.Errorf("end: %w", err)
			}

			t, err := a.resolveTask(ctx, args[0])
			if err != nil {
				return err
			}

			entry, err := sessionlog.NewFocusEntry(a.config.User, t.ID, t.Name, t.Category, startAt, endAt, note)
			if err != nil {
				return err
			}
			if err := a.stores.Sessions.AppendFocus(ctx, entry); err != nil {
				return fmt.Errorf("recording focus session: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s of focus on %s\n",
				formatStats(FormatDuration(int(entry.Duration().Minutes()))), t.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day (YYYY-MM-DD, today, yesterday; default: today)")
	cmd.Flags().StringVar(&start, "start", "", "Start time (HH:MM, required)")
	cmd.Flags().StringVar(&end, "end", "", "End time (HH:MM, required)")
	cmd.Flags().StringVar(&note, "note", "", "Free-form note")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}

func (a *App) focusListCmd() *cobra.Command {
	var (
		date string
		days int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List focus sessions",
		Example: `  dayboard focus list
  dayboard focus list --date 2026-10-12 --days 7`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if days < 1 {
				return fmt.Errorf("days must be at least 1, got %d", days)
			}
			day, err := a.resolveDay(date)
			if err != nil {
				return err
			}
			from, err := dateutil.ParseDay(day)
			if err != nil {
				return err
			}
			to := from.AddDate(0, 0, days)

			entries, err := a.stores.Sessions.ListFocus(cmd.Context(), a.config.User, from, to)
			if err != nil {
				return fmt.Errorf("listing focus sessions: %w", err)
			}
			PrintFocus(cmd.OutOrStdout(), entries)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "First day (YYYY-MM-DD, today, yesterday; default: today)")
	cmd.Flags().IntVar(&days, "days", 1, "Number of days to include")
	return cmd
}

// clockOn returns the local time hh:mm on day.
func clockOn(day, hhmm string) (time.Time, error) {
	d, err := dateutil.ParseDay(day)
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.Parse("15:04", hhmm)
	if err != nil || len(hhmm) != 5 {
		return time.Time{}, fmt.Errorf("time must be in HH:MM format, got %q", hhmm)
	}
	return time.Date(d.Year(), d.Month(), d.Day(), t.Hour(), t.Minute(), 0, 0, d.Location()), nil
}
