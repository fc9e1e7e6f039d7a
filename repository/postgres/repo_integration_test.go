package postgres_test

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/lifelogger/backend/domain"
	pgInfra "github.com/lifelogger/backend/internal/infrastructure/postgres"
	"github.com/lifelogger/backend/repository/postgres"
)

// testcontainers-go panics without a Docker daemon, so check for one first.
func dockerAvailable() bool {
	return exec.Command("docker", "info").Run() == nil
}

func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	if !dockerAvailable() {
		t.Skip("Docker not available, skipping PostgreSQL integration tests")
	}

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("lifelogger"),
		tcpostgres.WithUsername("lifelogger"),
		tcpostgres.WithPassword("lifelogger"),
		tcpostgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Skipf("failed to start PostgreSQL container: %v", err)
	}
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, pgInfra.RunMigrations(connStr, "", nil))

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func date(t *testing.T, value string) time.Time {
	t.Helper()
	d, err := domain.ParseDate(value)
	require.NoError(t, err)
	return d
}

func TestPostgres_TaskAndCompletionLifecycle(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	tasks := postgres.NewTaskRepository(pool)
	completions := postgres.NewCompletionRepository(pool)

	read, err := tasks.Create(ctx, "Read")
	require.NoError(t, err)
	walk, err := tasks.Create(ctx, "Walk")
	require.NoError(t, err)
	day := date(t, "2024-01-10")

	created, err := completions.Complete(ctx, read.ID, day)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = completions.Complete(ctx, read.ID, day)
	require.NoError(t, err)
	assert.False(t, created)

	_, err = completions.SaveFootnote(ctx, walk.ID, day, "around the lake")
	require.NoError(t, err)

	require.NoError(t, tasks.Reorder(ctx, []int64{walk.ID, read.ID, 12345}))
	require.NoError(t, tasks.Rename(ctx, read.ID, "Read fiction"))

	listed, err := tasks.ListActive(ctx, day)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, walk.ID, listed[0].ID)
	assert.True(t, listed[0].CompletedToday)
	require.NotNil(t, listed[0].Footnote)
	assert.Equal(t, "around the lake", *listed[0].Footnote)

	got, err := completions.Get(ctx, read.ID, day)
	require.NoError(t, err)
	assert.Equal(t, "Read", got.TaskName)
	assert.Equal(t, day, got.CompletedDate)

	byDate, err := completions.CountByDate(ctx, date(t, "2024-01-04"), day)
	require.NoError(t, err)
	assert.Equal(t, []domain.DateCount{{Date: day, Count: 2}}, byDate)

	removed, err := completions.Uncomplete(ctx, read.ID, day)
	require.NoError(t, err)
	assert.True(t, removed)

	require.NoError(t, tasks.SoftDelete(ctx, walk.ID))
	assert.ErrorIs(t, tasks.SoftDelete(ctx, walk.ID), domain.ErrTaskNotFound)

	active, err := tasks.CountActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, active)

	total, err := completions.CountInRange(ctx, day, day)
	require.NoError(t, err)
	assert.Equal(t, 1, total, "soft delete keeps completions")
}
