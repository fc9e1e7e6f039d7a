package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifelogger/backend/domain"
)

func TestCompletionRepository_CompleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	tasks := NewTaskRepository(db)
	completions := NewCompletionRepository(db)

	task, err := tasks.Create(ctx, "Read")
	require.NoError(t, err)
	day := mustDate(t, "2024-01-10")

	created, err := completions.Complete(ctx, task.ID, day)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = completions.Complete(ctx, task.ID, day)
	require.NoError(t, err)
	assert.False(t, created)

	count, err := completions.CountForTask(ctx, task.ID, day, day)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestCompletionRepository_CompleteRequiresActiveTask(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	tasks := NewTaskRepository(db)
	completions := NewCompletionRepository(db)

	_, err := completions.Complete(ctx, 42, mustDate(t, "2024-01-10"))
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)

	task, err := tasks.Create(ctx, "Read")
	require.NoError(t, err)
	require.NoError(t, tasks.SoftDelete(ctx, task.ID))

	_, err = completions.Complete(ctx, task.ID, mustDate(t, "2024-01-10"))
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestCompletionRepository_UncompleteCompleteUncomplete(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	tasks := NewTaskRepository(db)
	completions := NewCompletionRepository(db)

	task, err := tasks.Create(ctx, "Read")
	require.NoError(t, err)
	day := mustDate(t, "2024-01-10")

	removed, err := completions.Uncomplete(ctx, task.ID, day)
	require.NoError(t, err)
	assert.False(t, removed)

	_, err = completions.SaveFootnote(ctx, task.ID, day, "chapter 3")
	require.NoError(t, err)

	removed, err = completions.Uncomplete(ctx, task.ID, day)
	require.NoError(t, err)
	assert.True(t, removed)

	total, err := completions.CountInRange(ctx, day, day)
	require.NoError(t, err)
	assert.Zero(t, total)

	_, err = completions.Get(ctx, task.ID, day)
	assert.ErrorIs(t, err, domain.ErrCompletionNotFound)
}

func TestCompletionRepository_SaveFootnoteImpliesCompletion(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	tasks := NewTaskRepository(db)
	completions := NewCompletionRepository(db)

	task, err := tasks.Create(ctx, "Read")
	require.NoError(t, err)
	day := mustDate(t, "2024-01-10")

	saved, err := completions.SaveFootnote(ctx, task.ID, day, "chapter 3")
	require.NoError(t, err)
	require.NotNil(t, saved.Footnote)
	assert.Equal(t, "chapter 3", *saved.Footnote)
	assert.Equal(t, "Read", saved.TaskName)

	listed, err := tasks.ListActive(ctx, day)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.True(t, listed[0].CompletedToday)
	require.NotNil(t, listed[0].Footnote)
	assert.Equal(t, "chapter 3", *listed[0].Footnote)

	cleared, err := completions.SaveFootnote(ctx, task.ID, day, "")
	require.NoError(t, err)
	require.NotNil(t, cleared.Footnote, "an explicit empty footnote is kept as text")
	assert.Empty(t, *cleared.Footnote)

	listed, err = tasks.ListActive(ctx, day)
	require.NoError(t, err)
	require.NotNil(t, listed[0].Footnote)
	assert.Equal(t, "", *listed[0].Footnote)

	count, err := completions.CountForTask(ctx, task.ID, day, day)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestCompletionRepository_SaveFootnoteFailureWritesNothing(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	tasks := NewTaskRepository(db)
	completions := NewCompletionRepository(db)

	task, err := tasks.Create(ctx, "Read")
	require.NoError(t, err)
	day := mustDate(t, "2024-01-10")

	_, err = db.ExecContext(ctx, `
		CREATE TRIGGER fail_footnote AFTER INSERT ON daily_task_completions
		WHEN NEW.footnote = 'rejected'
		BEGIN SELECT RAISE(ABORT, 'footnote rejected'); END`)
	require.NoError(t, err)

	_, err = completions.SaveFootnote(ctx, task.ID, day, "rejected")
	require.Error(t, err)

	var rows int
	require.NoError(t, db.GetContext(ctx, &rows, "SELECT COUNT(*) FROM daily_task_completions"))
	assert.Zero(t, rows)

	_, err = completions.Get(ctx, task.ID, day)
	assert.ErrorIs(t, err, domain.ErrCompletionNotFound)
}

func TestCompletionRepository_RenameKeepsHistoricalName(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	tasks := NewTaskRepository(db)
	completions := NewCompletionRepository(db)

	task, err := tasks.Create(ctx, "Read")
	require.NoError(t, err)
	day := mustDate(t, "2024-01-10")

	_, err = completions.Complete(ctx, task.ID, day)
	require.NoError(t, err)
	require.NoError(t, tasks.Rename(ctx, task.ID, "Read fiction"))

	got, err := completions.Get(ctx, task.ID, day)
	require.NoError(t, err)
	assert.Equal(t, "Read", got.TaskName)
}

func TestCompletionRepository_GroupedCounts(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	tasks := NewTaskRepository(db)
	completions := NewCompletionRepository(db)

	read, err := tasks.Create(ctx, "Read")
	require.NoError(t, err)
	walk, err := tasks.Create(ctx, "Walk")
	require.NoError(t, err)

	for _, d := range []string{"2024-01-04", "2024-01-06", "2024-01-10", "2024-01-11"} {
		_, err := completions.Complete(ctx, read.ID, mustDate(t, d))
		require.NoError(t, err)
	}
	_, err = completions.Complete(ctx, walk.ID, mustDate(t, "2024-01-06"))
	require.NoError(t, err)

	start, end := mustDate(t, "2024-01-04"), mustDate(t, "2024-01-10")

	byDate, err := completions.CountByDate(ctx, start, end)
	require.NoError(t, err)
	assert.Equal(t, []domain.DateCount{
		{Date: mustDate(t, "2024-01-04"), Count: 1},
		{Date: mustDate(t, "2024-01-06"), Count: 2},
		{Date: mustDate(t, "2024-01-10"), Count: 1},
	}, byDate)

	byTask, err := completions.CountByTask(ctx, start, end)
	require.NoError(t, err)
	assert.ElementsMatch(t, []domain.TaskCount{
		{TaskID: read.ID, Count: 3},
		{TaskID: walk.ID, Count: 1},
	}, byTask)

	total, err := completions.CountInRange(ctx, start, end)
	require.NoError(t, err)
	assert.Equal(t, 4, total)
}
