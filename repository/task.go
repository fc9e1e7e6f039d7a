package repository

import (
	"context"
	"time"

	"github.com/lifelogger/backend/domain"
)

// TaskRepository persists tasks. Every read and write targets active tasks only.
type TaskRepository interface {
	ListActive(ctx context.Context, onDate time.Time) ([]domain.DailyTask, error)
	ListActiveSummaries(ctx context.Context) ([]domain.Task, error)
	CountActive(ctx context.Context) (int, error)
	GetActive(ctx context.Context, id int64) (*domain.Task, error)
	Create(ctx context.Context, name string) (*domain.Task, error)
	Rename(ctx context.Context, id int64, name string) error
	Reorder(ctx context.Context, ids []int64) error
	SoftDelete(ctx context.Context, id int64) error
}
