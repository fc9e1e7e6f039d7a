package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lifelogger/backend/domain"
	"github.com/lifelogger/backend/repository"
)

type completionRepository struct {
	pool *pgxpool.Pool
}

// NewCompletionRepository returns a Postgres-backed implementation of CompletionRepository.
func NewCompletionRepository(pool *pgxpool.Pool) repository.CompletionRepository {
	return &completionRepository{pool: pool}
}

func (r *completionRepository) Complete(ctx context.Context, taskID int64, date time.Time) (bool, error) {
	var created bool
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		name, err := activeTaskName(ctx, tx, taskID)
		if err != nil {
			return err
		}

		// The unique (task_id, completed_date) constraint decides concurrent races.
		const query = `
		INSERT INTO daily_task_completions (task_id, task_name, completed_date)
		VALUES ($1, $2, $3)
		ON CONFLICT (task_id, completed_date) DO NOTHING
		`
		tag, err := tx.Exec(ctx, query, taskID, name, pgDate(date))
		if err != nil {
			return err
		}
		created = tag.RowsAffected() > 0
		return nil
	})
	return created, err
}

func (r *completionRepository) Uncomplete(ctx context.Context, taskID int64, date time.Time) (bool, error) {
	const query = `DELETE FROM daily_task_completions WHERE task_id = $1 AND completed_date = $2`
	tag, err := r.pool.Exec(ctx, query, taskID, pgDate(date))
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *completionRepository) SaveFootnote(ctx context.Context, taskID int64, date time.Time, footnote string) (*domain.Completion, error) {
	var completion *domain.Completion
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		name, err := activeTaskName(ctx, tx, taskID)
		if err != nil {
			return err
		}

		const query = `
		INSERT INTO daily_task_completions (task_id, task_name, completed_date, footnote)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (task_id, completed_date) DO UPDATE
		SET footnote = EXCLUDED.footnote
		RETURNING id, task_id, task_name, completed_date, footnote
		`
		completion, err = scanCompletion(tx.QueryRow(ctx, query, taskID, name, pgDate(date), footnote))
		return err
	})
	if err != nil {
		return nil, err
	}
	return completion, nil
}

func (r *completionRepository) Get(ctx context.Context, taskID int64, date time.Time) (*domain.Completion, error) {
	const query = `
	SELECT id, task_id, task_name, completed_date, footnote
	FROM daily_task_completions
	WHERE task_id = $1 AND completed_date = $2
	`
	return scanCompletion(r.pool.QueryRow(ctx, query, taskID, pgDate(date)))
}

func (r *completionRepository) CountForTask(ctx context.Context, taskID int64, start, end time.Time) (int, error) {
	const query = `
	SELECT COUNT(*)
	FROM daily_task_completions
	WHERE task_id = $1 AND completed_date BETWEEN $2 AND $3
	`
	var count int
	err := r.pool.QueryRow(ctx, query, taskID, pgDate(start), pgDate(end)).Scan(&count)
	return count, err
}

func (r *completionRepository) CountByTask(ctx context.Context, start, end time.Time) ([]domain.TaskCount, error) {
	const query = `
	SELECT task_id, COUNT(*)
	FROM daily_task_completions
	WHERE completed_date BETWEEN $1 AND $2
	GROUP BY task_id
	`
	rows, err := r.pool.Query(ctx, query, pgDate(start), pgDate(end))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []domain.TaskCount
	for rows.Next() {
		var c domain.TaskCount
		if err := rows.Scan(&c.TaskID, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

func (r *completionRepository) CountByDate(ctx context.Context, start, end time.Time) ([]domain.DateCount, error) {
	const query = `
	SELECT completed_date, COUNT(*)
	FROM daily_task_completions
	WHERE completed_date BETWEEN $1 AND $2
	GROUP BY completed_date
	ORDER BY completed_date ASC
	`
	rows, err := r.pool.Query(ctx, query, pgDate(start), pgDate(end))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []domain.DateCount
	for rows.Next() {
		var c domain.DateCount
		if err := rows.Scan(&c.Date, &c.Count); err != nil {
			return nil, err
		}
		c.Date = domain.DateOf(c.Date)
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

func (r *completionRepository) CountInRange(ctx context.Context, start, end time.Time) (int, error) {
	const query = `
	SELECT COUNT(*)
	FROM daily_task_completions
	WHERE completed_date BETWEEN $1 AND $2
	`
	var total int
	err := r.pool.QueryRow(ctx, query, pgDate(start), pgDate(end)).Scan(&total)
	return total, err
}

func scanCompletion(row scanner) (*domain.Completion, error) {
	var c domain.Completion
	if err := row.Scan(&c.ID, &c.TaskID, &c.TaskName, &c.CompletedDate, &c.Footnote); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCompletionNotFound
		}
		return nil, err
	}
	c.CompletedDate = domain.DateOf(c.CompletedDate)
	return &c, nil
}
