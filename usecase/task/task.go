package task

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/lifelogger/backend/domain"
	"github.com/lifelogger/backend/repository"
)

// CompleteResult describes the outcome of marking a task done.
type CompleteResult struct {
	TaskID        int64
	CompletedDate time.Time
	Created       bool
}

// FootnoteResult echoes a saved footnote.
type FootnoteResult struct {
	TaskID   int64
	Date     time.Time
	Footnote string
}

type UseCase struct {
	tasks       repository.TaskRepository
	completions repository.CompletionRepository
	clock       *domain.Clock
	logger      *zap.Logger
}

func New(tasks repository.TaskRepository, completions repository.CompletionRepository, clock *domain.Clock, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	if clock == nil {
		clock = domain.NewClock(nil, nil)
	}
	return &UseCase{
		tasks:       tasks,
		completions: completions,
		clock:       clock,
		logger:      logger,
	}
}

// ValidateName trims name and enforces the non-empty and length rules.
func ValidateName(name string) (string, error) {
	if name == "" {
		return "", domain.NewValidationError("Task name is required")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", domain.NewValidationError("Task name cannot be empty")
	}
	if utf8.RuneCountInString(name) > domain.MaxTaskNameLength {
		return "", domain.NewValidationError("Task name too long (max 255 characters)")
	}
	return name, nil
}

// ResolveDate falls back to today for the zero date.
func (uc *UseCase) ResolveDate(date time.Time) time.Time {
	if date.IsZero() {
		return uc.clock.Today()
	}
	return domain.DateOf(date)
}

func (uc *UseCase) List(ctx context.Context, date time.Time) ([]domain.DailyTask, error) {
	return uc.tasks.ListActive(ctx, uc.ResolveDate(date))
}

func (uc *UseCase) Create(ctx context.Context, name string) (*domain.Task, error) {
	name, err := ValidateName(name)
	if err != nil {
		return nil, err
	}
	task, err := uc.tasks.Create(ctx, name)
	if err != nil {
		return nil, err
	}
	uc.logger.Info("task created", zap.Int64("task_id", task.ID))
	return task, nil
}

func (uc *UseCase) Rename(ctx context.Context, id int64, name string) (*domain.Task, error) {
	name, err := ValidateName(name)
	if err != nil {
		return nil, err
	}
	if err := uc.tasks.Rename(ctx, id, name); err != nil {
		return nil, err
	}
	return uc.tasks.GetActive(ctx, id)
}

// Reorder assigns positions by index. Ids that match no task are skipped.
func (uc *UseCase) Reorder(ctx context.Context, ids []int64) error {
	if err := uc.tasks.Reorder(ctx, ids); err != nil {
		return err
	}
	uc.logger.Debug("tasks reordered", zap.Int("count", len(ids)))
	return nil
}

func (uc *UseCase) Delete(ctx context.Context, id int64) error {
	if err := uc.tasks.SoftDelete(ctx, id); err != nil {
		return err
	}
	uc.logger.Info("task deleted", zap.Int64("task_id", id))
	return nil
}

func (uc *UseCase) Complete(ctx context.Context, id int64, date time.Time) (*CompleteResult, error) {
	date = uc.ResolveDate(date)
	created, err := uc.completions.Complete(ctx, id, date)
	if err != nil {
		return nil, err
	}
	if created {
		uc.logger.Debug("star earned", zap.Int64("task_id", id), zap.String("date", domain.FormatDate(date)))
	}
	return &CompleteResult{TaskID: id, CompletedDate: date, Created: created}, nil
}

// Uncomplete removes the star and reports ErrCompletionNotFound when there was none.
func (uc *UseCase) Uncomplete(ctx context.Context, id int64, date time.Time) error {
	date = uc.ResolveDate(date)
	removed, err := uc.completions.Uncomplete(ctx, id, date)
	if err != nil {
		return err
	}
	if !removed {
		return domain.ErrCompletionNotFound
	}
	return nil
}

func (uc *UseCase) SaveFootnote(ctx context.Context, id int64, date time.Time, footnote string) (*FootnoteResult, error) {
	date = uc.ResolveDate(date)
	footnote = strings.TrimSpace(footnote)
	if _, err := uc.completions.SaveFootnote(ctx, id, date, footnote); err != nil {
		return nil, err
	}
	return &FootnoteResult{TaskID: id, Date: date, Footnote: footnote}, nil
}
