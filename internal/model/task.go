package model

import "time"

// Priority levels for tasks. 1 is low, 3 is high.
const (
	PriorityLow    = 1
	PriorityMedium = 2
	PriorityHigh   = 3
)

type Task struct {
	ID           int64
	OwnerID      int64
	Title        string
	Description  string
	Completed    bool
	Priority     int
	DueDate      *time.Time
	CategoryID   *int64
	CategoryName string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type TaskListParams struct {
	OwnerID int64
	// AllOwners broadens the read to every owner's tasks. Only honored for
	// admin read paths; mutations stay owner-scoped.
	AllOwners bool
	Filters   *Filters
	View      *ViewOptions
}

// TaskView is the caller-facing shape of a task.
type TaskView struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Completed   bool    `json:"completed"`
	Priority    int     `json:"priority"`
	DueDate     *string `json:"due_date"`
	Category    *string `json:"category"`
}

// ProcessResult is what the service returns to its host for every utterance:
// the owner's full task list plus an optional status message or error.
type ProcessResult struct {
	Todos   []TaskView `json:"todos"`
	Message string     `json:"message,omitempty"`
	Error   string     `json:"error,omitempty"`
}

func NewTaskView(t Task) TaskView {
	v := TaskView{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		Priority:    t.Priority,
	}
	if t.DueDate != nil {
		s := t.DueDate.Format(time.RFC3339)
		v.DueDate = &s
	}
	if t.CategoryName != "" {
		name := t.CategoryName
		v.Category = &name
	}
	return v
}

func NewTaskViews(tasks []Task) []TaskView {
	views := make([]TaskView, 0, len(tasks))
	for _, t := range tasks {
		views = append(views, NewTaskView(t))
	}
	return views
}
