package stats_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifelogger/backend/domain"
	"github.com/lifelogger/backend/repository"
	"github.com/lifelogger/backend/repository/sqlite"
	"github.com/lifelogger/backend/usecase/stats"
)

type fixture struct {
	tasks       repository.TaskRepository
	completions repository.CompletionRepository
	uc          *stats.UseCase
}

func newFixture(t *testing.T, today string) fixture {
	t.Helper()
	db, err := sqlite.Open(context.Background(), sqlite.Options{Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	tasks := sqlite.NewTaskRepository(db)
	completions := sqlite.NewCompletionRepository(db)
	return fixture{
		tasks:       tasks,
		completions: completions,
		uc:          stats.New(tasks, completions, domain.FixedClock(date(t, today)), nil),
	}
}

func date(t *testing.T, value string) time.Time {
	t.Helper()
	d, err := domain.ParseDate(value)
	require.NoError(t, err)
	return d
}

func (f fixture) star(t *testing.T, taskID int64, days ...string) {
	t.Helper()
	for _, d := range days {
		_, err := f.completions.Complete(context.Background(), taskID, date(t, d))
		require.NoError(t, err)
	}
}

func TestUseCase_DailyDefaultsToToday(t *testing.T) {
	f := newFixture(t, "2024-01-10")
	ctx := context.Background()

	read, err := f.tasks.Create(ctx, "Read")
	require.NoError(t, err)
	f.star(t, read.ID, "2024-01-10", "2024-01-08", "2023-12-01")

	series, err := f.uc.Daily(ctx, 7, time.Time{})
	require.NoError(t, err)
	require.Len(t, series, 7)
	assert.Equal(t, "2024-01-04", series[0].Date)
	assert.Equal(t, "2024-01-10", series[6].Date)
	assert.Equal(t, 1, series[6].StarCount)
	assert.Equal(t, 1, series[4].StarCount)

	total := 0
	for _, s := range series {
		total += s.StarCount
	}
	assert.Equal(t, 2, total)
}

func TestUseCase_WeeklyCountsOnlyWindowAndActiveTasks(t *testing.T) {
	f := newFixture(t, "2024-02-01")
	ctx := context.Background()

	read, err := f.tasks.Create(ctx, "Read")
	require.NoError(t, err)
	walk, err := f.tasks.Create(ctx, "Walk")
	require.NoError(t, err)
	gone, err := f.tasks.Create(ctx, "Gone")
	require.NoError(t, err)

	f.star(t, read.ID, "2024-01-03", "2024-01-05", "2024-01-10", "2024-01-11")
	f.star(t, gone.ID, "2024-01-05")
	require.NoError(t, f.tasks.SoftDelete(ctx, gone.ID))
	require.NoError(t, f.tasks.Reorder(ctx, []int64{walk.ID, read.ID}))

	recap, err := f.uc.Weekly(ctx, date(t, "2024-01-11"))
	require.NoError(t, err)
	assert.Equal(t, "2024-01-04", recap.WeekStart)
	assert.Equal(t, "2024-01-10", recap.WeekEnd)
	require.Len(t, recap.Tasks, 2)
	assert.Equal(t, walk.ID, recap.Tasks[0].TaskID)
	assert.Equal(t, 0, recap.Tasks[0].StarCount)
	assert.Equal(t, read.ID, recap.Tasks[1].TaskID)
	assert.Equal(t, 2, recap.Tasks[1].StarCount)
	assert.Equal(t, 28.6, recap.Tasks[1].Percentage)
}

func TestUseCase_Today(t *testing.T) {
	f := newFixture(t, "2024-01-10")
	ctx := context.Background()

	read, err := f.tasks.Create(ctx, "Read")
	require.NoError(t, err)
	_, err = f.tasks.Create(ctx, "Walk")
	require.NoError(t, err)
	f.star(t, read.ID, "2024-01-10", "2024-01-09")

	snapshot, err := f.uc.Today(ctx)
	require.NoError(t, err)
	assert.Equal(t, &domain.TodaySnapshot{
		Date:           "2024-01-10",
		TotalTasks:     2,
		CompletedTasks: 1,
		StarsToday:     1,
	}, snapshot)
}

func TestUseCase_AverageExampleFromHistory(t *testing.T) {
	f := newFixture(t, "2024-03-01")
	ctx := context.Background()

	read, err := f.tasks.Create(ctx, "Read")
	require.NoError(t, err)
	f.star(t, read.ID, "2024-01-10", "2024-01-11")

	avg, err := f.uc.Average(ctx, 7, date(t, "2024-01-11"))
	require.NoError(t, err)
	assert.Equal(t, 1, avg.TotalStars)
	assert.Equal(t, 0.1, avg.Average)
	assert.Equal(t, "2024-01-04", avg.StartDate)
	assert.Equal(t, "2024-01-10", avg.EndDate)

	_, err = f.uc.Average(ctx, 0, time.Time{})
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
}
