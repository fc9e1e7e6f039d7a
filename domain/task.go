package domain

import "time"

// MaxTaskNameLength bounds task names, counted in characters.
const MaxTaskNameLength = 255

// Task is a recurring daily activity the user earns stars for.
type Task struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Position  int       `json:"position"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// DailyTask is an active task annotated with the completion state of one date.
type DailyTask struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	CreatedAt      time.Time `json:"created_at"`
	CompletedToday bool      `json:"completed_today"`
	Footnote       *string   `json:"footnote"`
}
