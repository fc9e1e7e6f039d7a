package repository

import (
	"context"
	"time"

	"github.com/lifelogger/backend/domain"
)

// CompletionRepository persists stars. Date ranges are closed intervals.
type CompletionRepository interface {
	// Complete reports created=false when the task already has a star on date.
	Complete(ctx context.Context, taskID int64, date time.Time) (created bool, err error)
	// Uncomplete reports whether a row was removed.
	Uncomplete(ctx context.Context, taskID int64, date time.Time) (removed bool, err error)
	SaveFootnote(ctx context.Context, taskID int64, date time.Time, footnote string) (*domain.Completion, error)
	Get(ctx context.Context, taskID int64, date time.Time) (*domain.Completion, error)

	CountForTask(ctx context.Context, taskID int64, start, end time.Time) (int, error)
	CountByTask(ctx context.Context, start, end time.Time) ([]domain.TaskCount, error)
	CountByDate(ctx context.Context, start, end time.Time) ([]domain.DateCount, error)
	CountInRange(ctx context.Context, start, end time.Time) (int, error)
}
