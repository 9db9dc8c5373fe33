// Package task defines the work items that can be booked onto a day schedule.
package task

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Validation errors.
var (
	ErrEmptyName     = errors.New("name cannot be empty")
	ErrEmptyCategory = errors.New("category cannot be empty")
)

// Domain errors.
var (
	ErrTaskNotFound = errors.New("task not found")
)

// DefaultCategory is used when a task is created without an explicit category.
const DefaultCategory = "general"

// ChecklistItem is one step of a task's checklist.
type ChecklistItem struct {
	Text string `json:"text"`
	Done bool   `json:"done"`
}

// Checklist is the ordered list of steps of a task.
//
// It decodes leniently: an array, a JSON-encoded string holding an array, or
// null are accepted, and anything else decodes to an empty checklist instead
// of failing the surrounding document.
type Checklist []ChecklistItem

// UnmarshalJSON implements json.Unmarshaler.
func (c *Checklist) UnmarshalJSON(data []byte) error {
	*c = DecodeChecklist(data)
	return nil
}

// DecodeChecklist parses raw checklist JSON. Malformed input yields an empty checklist.
func DecodeChecklist(raw []byte) Checklist {
	var items []ChecklistItem
	if err := json.Unmarshal(raw, &items); err == nil {
		if items == nil {
			return Checklist{}
		}
		return items
	}

	// Some writers stored the checklist as a JSON string.
	var nested string
	if err := json.Unmarshal(raw, &nested); err == nil && nested != "" {
		if err := json.Unmarshal([]byte(nested), &items); err == nil && items != nil {
			return items
		}
	}
	return Checklist{}
}

// Encode returns the JSON form of the checklist, always an array.
func (c Checklist) Encode() string {
	if c == nil {
		return "[]"
	}
	data, err := json.Marshal([]ChecklistItem(c))
	if err != nil {
		return "[]"
	}
	return string(data)
}

// Progress returns the number of completed steps and the total.
func (c Checklist) Progress() (done, total int) {
	for _, item := range c {
		if item.Done {
			done++
		}
	}
	return done, len(c)
}

// Task is a schedulable unit of work.
type Task struct {
	ID        string    `json:"id"`
	Name      string    `json:"display_name"`
	Category  string    `json:"category"`
	Complete  bool      `json:"isComplete"`
	Checklist Checklist `json:"checklist"`
	CreatedAt time.Time `json:"-"`
}

// New creates a new Task with validation.
// An empty category falls back to DefaultCategory.
func New(name, category string) (*Task, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}

	category = strings.ToLower(strings.TrimSpace(category))
	if category == "" {
		category = DefaultCategory
	}

	return &Task{
		ID:        uuid.NewString(),
		Name:      name,
		Category:  category,
		Checklist: Checklist{},
		CreatedAt: time.Now(),
	}, nil
}

// Validate checks the fields a stored task must carry.
func (t *Task) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return ErrEmptyName
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	return nil
}

// Filter returns the tasks whose name contains query, ignoring case.
// An empty query returns all tasks.
func Filter(tasks []*Task, query string) []*Task {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return tasks
	}
	var result []*Task
	for _, t := range tasks {
		if strings.Contains(strings.ToLower(t.Name), query) {
			result = append(result, t)
		}
	}
	return result
}
