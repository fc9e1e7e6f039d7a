package lifecycle

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_ShutdownRunsHooksInReverse(t *testing.T) {
	m := New(time.Second, nil)

	var order []string
	for _, name := range []string{"database", "monitor", "http_server"} {
		m.Register(name, func(context.Context) error {
			order = append(order, name)
			return nil
		})
	}
	m.Register("ignored", nil)

	require.NoError(t, m.Shutdown(context.Background()))
	assert.Equal(t, []string{"http_server", "monitor", "database"}, order)

	require.NoError(t, m.Shutdown(context.Background()))
	assert.Len(t, order, 3, "second shutdown is a no-op")
}

func TestManager_ShutdownJoinsErrorsAndContinues(t *testing.T) {
	m := New(time.Second, nil)
	errDB := errors.New("db close failed")
	errRedis := errors.New("redis close failed")

	var ran int
	m.Register("database", func(context.Context) error { ran++; return errDB })
	m.Register("redis", func(context.Context) error { ran++; return errRedis })

	err := m.Shutdown(context.Background())
	assert.Equal(t, 2, ran)
	assert.ErrorIs(t, err, errDB)
	assert.ErrorIs(t, err, errRedis)
}

func TestManager_HooksSeeDeadline(t *testing.T) {
	m := New(50*time.Millisecond, nil)
	m.Register("slow", func(ctx context.Context) error {
		_, ok := ctx.Deadline()
		assert.True(t, ok)
		<-ctx.Done()
		return ctx.Err()
	})

	err := m.Shutdown(context.Background())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
