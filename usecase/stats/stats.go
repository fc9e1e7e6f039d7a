package stats

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/lifelogger/backend/domain"
	"github.com/lifelogger/backend/repository"
)

// UseCase feeds store query results into the pure statistics functions.
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

func (uc *UseCase) reference(ref time.Time) time.Time {
	if ref.IsZero() {
		return uc.clock.Today()
	}
	return domain.DateOf(ref)
}

// Daily returns the gap-filled star series of `days` dates ending at ref.
func (uc *UseCase) Daily(ctx context.Context, days int, ref time.Time) ([]domain.DailyStat, error) {
	ref = uc.reference(ref)
	start, end := SeriesWindow(days, ref)

	counts, err := uc.completions.CountByDate(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return DailySeries(counts, days, ref), nil
}

// Weekly returns the per-task recap of the week ending the day before ref.
func (uc *UseCase) Weekly(ctx context.Context, ref time.Time) (*domain.WeeklyRecap, error) {
	ref = uc.reference(ref)
	start, end := WeeklyWindow(ref)

	tasks, err := uc.tasks.ListActiveSummaries(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := uc.completions.CountByTask(ctx, start, end)
	if err != nil {
		return nil, err
	}

	recap := WeeklyRecap(tasks, counts, ref)
	return &recap, nil
}

// Today compares active tasks against stars recorded for today.
func (uc *UseCase) Today(ctx context.Context) (*domain.TodaySnapshot, error) {
	today := uc.clock.Today()

	total, err := uc.tasks.CountActive(ctx)
	if err != nil {
		return nil, err
	}
	stars, err := uc.completions.CountInRange(ctx, today, today)
	if err != nil {
		return nil, err
	}

	return &domain.TodaySnapshot{
		Date:           domain.FormatDate(today),
		TotalTasks:     total,
		CompletedTasks: stars,
		StarsToday:     stars,
	}, nil
}

// Average returns mean stars per day over the `days` dates before ref.
func (uc *UseCase) Average(ctx context.Context, days int, ref time.Time) (*domain.RollingAverage, error) {
	ref = uc.reference(ref)
	start, end, err := RollingWindow(days, ref)
	if err != nil {
		return nil, err
	}

	total, err := uc.completions.CountInRange(ctx, start, end)
	if err != nil {
		return nil, err
	}

	avg, err := RollingAverage(total, days, ref)
	if err != nil {
		return nil, err
	}
	uc.logger.Debug("rolling average computed",
		zap.Int("days", days),
		zap.Int("total_stars", total),
		zap.Float64("average", avg.Average))
	return &avg, nil
}
