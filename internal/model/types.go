package model

import (
	"fmt"
	"time"
)

// Status represents the lifecycle state of a task.
type Status string

const (
	StatusTodo       Status = "TODO"
	StatusInProgress Status = "IN_PROGRESS"
	StatusDone       Status = "DONE"

	// StatusAll is a filter value, never stored on a task.
	StatusAll Status = "ALL"
)

// Priority represents task urgency.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// Valid reports whether s is a storable task status.
func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// User is the mocked session identity. The token is fabricated at
// login/registration and never validated afterwards.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Token    string `json:"token"`
}

// SubTask is a boolean-completion checklist item attached to a task.
type SubTask struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	IsDone bool   `json:"isDone"`
}

// Task is a user-owned unit of work. JSON tags match the client payloads.
type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      Status    `json:"status"`
	Priority    Priority  `json:"priority"`
	Category    string    `json:"category"`
	DueDate     string    `json:"dueDate"`
	UserID      string    `json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`
	SubTasks    []SubTask `json:"subTasks"`
}

// Suggestion is the AI-proposed categorization for a task.
type Suggestion struct {
	Category string   `json:"category"`
	Priority Priority `json:"priority"`
}

// Progress returns the sub-task completion percentage, 0 when the task
// has no sub-tasks.
func (t Task) Progress() int {
	if len(t.SubTasks) == 0 {
		return 0
	}
	done := 0
	for _, st := range t.SubTasks {
		if st.IsDone {
			done++
		}
	}
	return done * 100 / len(t.SubTasks)
}

// Validate checks the fields a task must carry before it enters the store.
func (t Task) Validate() error {
	if t.Title == "" {
		return fmt.Errorf("task title is required")
	}
	if !t.Status.Valid() {
		return fmt.Errorf("invalid task status: %q", t.Status)
	}
	if !t.Priority.Valid() {
		return fmt.Errorf("invalid task priority: %q", t.Priority)
	}
	return nil
}
