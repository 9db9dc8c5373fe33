package ui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/dayboard/internal/task"
)

// ErrAmbiguousTask is returned when a task reference matches more than one task.
var ErrAmbiguousTask = errors.New("task reference is ambiguous")

func (a *App) taskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage the task catalog",
		Long: `Manage the tasks that can be booked onto the day grid.

Tasks are referenced by ID, a unique ID prefix, or their exact name.`,
	}
	cmd.AddCommand(a.taskAddCmd())
	cmd.AddCommand(a.taskListCmd())
	cmd.AddCommand(a.taskDoneCmd())
	cmd.AddCommand(a.taskCheckCmd())
	cmd.AddCommand(a.taskRemoveCmd())
	return cmd
}

func (a *App) taskAddCmd() *cobra.Command {
	var (
		category string
		steps    []string
	)

	cmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Add a new task",
		Example: `  dayboard task add "Write report" --category=work
  dayboard task add "Ship release" --step "tag" --step "announce"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := task.New(args[0], category)
			if err != nil {
				return err
			}
			for _, s := range steps {
				t.Checklist = append(t.Checklist, task.ChecklistItem{Text: s})
			}

			if err := a.stores.Tasks.CreateTask(cmd.Context(), t); err != nil {
				return fmt.Errorf("creating task: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created task %s: %s %s\n",
				shortID(t.ID), t.Name, formatCategory(t.Category))
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", task.DefaultCategory, "Area the task belongs to")
	cmd.Flags().StringArrayVar(&steps, "step", nil, "Checklist step (repeatable)")
	return cmd
}

func (a *App) taskListCmd() *cobra.Command {
	var (
		all    bool
		search string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Long: `List the incomplete tasks that can be booked.

Use --all to include completed tasks and --search to filter by name.`,
		Example: `  dayboard task list
  dayboard task list --search report`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			var (
				tasks []*task.Task
				err   error
			)
			if all {
				tasks, err = a.stores.Tasks.ListTasks(ctx)
			} else {
				tasks, err = a.stores.Tasks.ListIncompleteTasks(ctx)
			}
			if err != nil {
				return fmt.Errorf("listing tasks: %w", err)
			}
			tasks = task.Filter(tasks, search)

			out := cmd.OutOrStdout()
			if len(tasks) == 0 {
				fmt.Fprintln(out, "No tasks found.")
				return nil
			}
			width := nameWidth(termWidth())
			for _, t := range tasks {
				PrintTaskRow(out, t, width)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Include completed tasks")
	cmd.Flags().StringVarP(&search, "search", "s", "", "Only tasks whose name contains this text")
	return cmd
}

func (a *App) taskDoneCmd() *cobra.Command {
	var undo bool

	cmd := &cobra.Command{
		Use:   "done [task]",
		Short: "Mark a task complete",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			t, err := a.resolveTask(ctx, args[0])
			if err != nil {
				return err
			}
			if err := a.stores.Tasks.SetComplete(ctx, t.ID, !undo); err != nil {
				return fmt.Errorf("updating task: %w", err)
			}
			state := "complete"
			if undo {
				state = "incomplete"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Marked %s as %s\n", t.Name, state)
			return nil
		},
	}

	cmd.Flags().BoolVar(&undo, "undo", false, "Mark the task incomplete again")
	return cmd
}

func (a *App) taskCheckCmd() *cobra.Command {
	var add string

	cmd := &cobra.Command{
		Use:   "check [task] [step]",
		Short: "Toggle or add a checklist step",
		Long: `Toggle checklist step N (1-based) of a task, or append a new step with --add.
Without a step number the checklist is printed.`,
		Example: `  dayboard task check report 2
  dayboard task check report --add "proofread"`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			t, err := a.resolveTask(ctx, args[0])
			if err != nil {
				return err
			}

			checklist := append(task.Checklist{}, t.Checklist...)
			changed := false
			if len(args) == 2 {
				n, err := strconv.Atoi(args[1])
				if err != nil || n < 1 || n > len(checklist) {
					return fmt.Errorf("step must be between 1 and %d, got %q", len(checklist), args[1])
				}
				checklist[n-1].Done = !checklist[n-1].Done
				changed = true
			}
			if text := strings.TrimSpace(add); text != "" {
				checklist = append(checklist, task.ChecklistItem{Text: text})
				changed = true
			}
			if changed {
				if err := a.stores.Tasks.UpdateChecklist(ctx, t.ID, checklist); err != nil {
					return fmt.Errorf("updating checklist: %w", err)
				}
			}

			PrintChecklist(cmd.OutOrStdout(), t.Name, checklist)
			return nil
		},
	}

	cmd.Flags().StringVar(&add, "add", "", "Append a new step")
	return cmd
}

func (a *App) taskRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove [task]",
		Short: "Delete a task from the catalog",
		Long: `Delete a task from the catalog.

Bookings already on the grid keep their copy of the task.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			t, err := a.resolveTask(ctx, args[0])
			if err != nil {
				return err
			}
			if err := a.stores.Tasks.DeleteTask(ctx, t.ID); err != nil {
				return fmt.Errorf("deleting task: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %s: %s\n", shortID(t.ID), t.Name)
			return nil
		},
	}
}

// resolveTask finds a task by full ID, unique ID prefix, or exact name.
func (a *App) resolveTask(ctx context.Context, ref string) (*task.Task, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, task.ErrTaskNotFound
	}

	t, err := a.stores.Tasks.GetTask(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("fetching task: %w", err)
	}
	if t != nil {
		return t, nil
	}

	tasks, err := a.stores.Tasks.ListTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}

	var matches []*task.Task
	for _, t := range tasks {
		if strings.HasPrefix(t.ID, ref) || strings.EqualFold(t.Name, ref) {
			matches = append(matches, t)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %s", task.ErrTaskNotFound, ref)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("%w: %q matches %d tasks", ErrAmbiguousTask, ref, len(matches))
	}
}
