package transport

import (
	"time"

	"github.com/lifelogger/backend/domain"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error      string `json:"error"`
	RetryAfter int    `json:"retry_after,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type CreatedTaskResponse struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	CreatedAt      time.Time `json:"created_at"`
	CompletedToday bool      `json:"completed_today"`
}

type RenamedTaskResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type StarEarnedResponse struct {
	Message       string `json:"message"`
	TaskID        int64  `json:"task_id"`
	CompletedDate string `json:"completed_date"`
}

type FootnoteResponse struct {
	Message  string `json:"message"`
	TaskID   int64  `json:"task_id"`
	Date     string `json:"date"`
	Footnote string `json:"footnote"`
}

type VerifyPasswordResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// NewError returns an error body.
func NewError(message string) ErrorResponse {
	return ErrorResponse{Error: message}
}

// NewMessage returns a message body.
func NewMessage(message string) MessageResponse {
	return MessageResponse{Message: message}
}

func NewCreatedTask(task *domain.Task) CreatedTaskResponse {
	return CreatedTaskResponse{
		ID:        task.ID,
		Name:      task.Name,
		CreatedAt: task.CreatedAt,
	}
}
