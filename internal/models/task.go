package models

import "time"

// Task statuses as reported by the backend.
const (
	TaskStatusPending    = "pending"
	TaskStatusInProgress = "in_progress"
	TaskStatusCompleted  = "completed"
)

type Task struct {
	ID                   ID        `json:"id"`
	Title                string    `json:"title"`
	Subject              string    `json:"subject"`
	Status               string    `json:"status"`
	Priority             string    `json:"priority"`
	DueDate              Timestamp `json:"due_date"`
	CompletionPercentage *int      `json:"completion_percentage,omitempty"`
	Notes                string    `json:"notes,omitempty"`
	CreatedAt            Timestamp `json:"created_at"`
}

func (t *Task) IsCompleted() bool {
	return t.Status == TaskStatusCompleted
}

// IsOverdue reports whether the task's due date lies strictly before the
// start of now's calendar day. Completed tasks are never overdue.
func (t *Task) IsOverdue(now time.Time) bool {
	if t.IsCompleted() || t.DueDate.IsZero() {
		return false
	}
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return t.DueDate.Before(dayStart)
}

// IsDueToday reports whether the due date falls on now's calendar day.
func (t *Task) IsDueToday(now time.Time) bool {
	if t.DueDate.IsZero() {
		return false
	}
	y1, m1, d1 := t.DueDate.Date()
	y2, m2, d2 := now.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
