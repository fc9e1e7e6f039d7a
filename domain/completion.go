package domain

import "time"

// Completion is a star: one task marked done on one calendar date.
// TaskName is the task's name at the time the star was earned.
type Completion struct {
	ID            int64     `json:"id"`
	TaskID        int64     `json:"task_id"`
	TaskName      string    `json:"task_name"`
	CompletedDate time.Time `json:"completed_date"`
	Footnote      *string   `json:"footnote,omitempty"`
}

// DateCount is a grouped completion count for a single date.
type DateCount struct {
	Date  time.Time
	Count int
}

// TaskCount is a grouped completion count for a single task.
type TaskCount struct {
	TaskID int64
	Count  int
}
