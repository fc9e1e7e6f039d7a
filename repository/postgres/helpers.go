package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/lifelogger/backend/domain"
)

type scanner interface {
	Scan(dest ...interface{}) error
}

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func activeTaskName(ctx context.Context, q querier, id int64) (string, error) {
	const query = `SELECT name FROM tasks WHERE id = $1 AND is_active = TRUE`
	var name string
	if err := q.QueryRow(ctx, query, id).Scan(&name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domain.ErrTaskNotFound
		}
		return "", err
	}
	return name, nil
}

// pgDate keeps only the civil date so DATE parameters never shift across zones.
func pgDate(t time.Time) time.Time {
	return domain.DateOf(t)
}
