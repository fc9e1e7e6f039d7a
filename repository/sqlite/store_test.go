package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifelogger/backend/domain"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := Open(context.Background(), Options{Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func mustDate(t *testing.T, value string) time.Time {
	t.Helper()
	d, err := domain.ParseDate(value)
	require.NoError(t, err)
	return d
}

func TestOpen_FileDatabaseIsReopenable(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "lifelogger.db")

	db, err := Open(ctx, Options{Path: path, MaxOpenConns: 4})
	require.NoError(t, err)
	_, err = NewTaskRepository(db).Create(ctx, "Read")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = Open(ctx, Options{Path: path})
	require.NoError(t, err)
	defer db.Close()

	var version int
	require.NoError(t, db.Get(&version, "SELECT MAX(version) FROM schema_version"))
	assert.Equal(t, len(migrations), version)

	total, err := NewTaskRepository(db).CountActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestTimestampLayoutSortsLexically(t *testing.T) {
	a := time.Date(2024, 1, 1, 0, 0, 0, 500_000_000, time.UTC)
	b := time.Date(2024, 1, 1, 0, 0, 0, 450_000_000, time.UTC)
	assert.Greater(t, formatTimestamp(a), formatTimestamp(b))

	parsed, err := parseTimestamp(formatTimestamp(a))
	require.NoError(t, err)
	assert.True(t, parsed.Equal(a))
}
