package task

import "context"

// Provider supplies the catalog of schedulable work items.
type Provider interface {
	// ListIncompleteTasks returns all tasks not yet marked complete, oldest first.
	ListIncompleteTasks(ctx context.Context) ([]*Task, error)
}

// Repository defines the storage interface for tasks.
type Repository interface {
	Provider

	// CreateTask adds a new task to the repository.
	CreateTask(ctx context.Context, task *Task) error

	// GetTask retrieves a task by ID. Returns nil, nil when it does not exist.
	GetTask(ctx context.Context, id string) (*Task, error)

	// ListTasks returns every task, complete or not.
	ListTasks(ctx context.Context) ([]*Task, error)

	// SetComplete marks a task complete or incomplete.
	SetComplete(ctx context.Context, id string, complete bool) error

	// UpdateChecklist replaces a task's checklist.
	UpdateChecklist(ctx context.Context, id string, checklist Checklist) error

	// DeleteTask removes a task.
	DeleteTask(ctx context.Context, id string) error
}
