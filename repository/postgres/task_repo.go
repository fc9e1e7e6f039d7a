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

type taskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository returns a Postgres-backed implementation of TaskRepository.
func NewTaskRepository(pool *pgxpool.Pool) repository.TaskRepository {
	return &taskRepository{pool: pool}
}

func (r *taskRepository) ListActive(ctx context.Context, onDate time.Time) ([]domain.DailyTask, error) {
	const query = `
	SELECT t.id, t.name, t.created_at, dtc.id IS NOT NULL AS completed_today, dtc.footnote
	FROM tasks t
	LEFT JOIN daily_task_completions dtc
		ON t.id = dtc.task_id AND dtc.completed_date = $1
	WHERE t.is_active = TRUE
	ORDER BY t.position ASC, t.created_at ASC, t.id ASC
	`
	rows, err := r.pool.Query(ctx, query, pgDate(onDate))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]domain.DailyTask, 0)
	for rows.Next() {
		var task domain.DailyTask
		if err := rows.Scan(&task.ID, &task.Name, &task.CreatedAt, &task.CompletedToday, &task.Footnote); err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

func (r *taskRepository) ListActiveSummaries(ctx context.Context) ([]domain.Task, error) {
	const query = `
	SELECT id, name, position, is_active, created_at
	FROM tasks
	WHERE is_active = TRUE
	ORDER BY position ASC, created_at ASC, id ASC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]domain.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

func (r *taskRepository) CountActive(ctx context.Context) (int, error) {
	var total int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM tasks WHERE is_active = TRUE`).Scan(&total)
	return total, err
}

func (r *taskRepository) GetActive(ctx context.Context, id int64) (*domain.Task, error) {
	const query = `
	SELECT id, name, position, is_active, created_at
	FROM tasks
	WHERE id = $1 AND is_active = TRUE
	`
	return scanTask(r.pool.QueryRow(ctx, query, id))
}

func (r *taskRepository) Create(ctx context.Context, name string) (*domain.Task, error) {
	const query = `
	INSERT INTO tasks (name)
	VALUES ($1)
	RETURNING id, name, position, is_active, created_at
	`
	return scanTask(r.pool.QueryRow(ctx, query, name))
}

func (r *taskRepository) Rename(ctx context.Context, id int64, name string) error {
	const query = `UPDATE tasks SET name = $2 WHERE id = $1 AND is_active = TRUE`
	tag, err := r.pool.Exec(ctx, query, id, name)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *taskRepository) Reorder(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for position, id := range ids {
			batch.Queue(`UPDATE tasks SET position = $1 WHERE id = $2`, position, id)
		}
		return tx.SendBatch(ctx, batch).Close()
	})
}

func (r *taskRepository) SoftDelete(ctx context.Context, id int64) error {
	const query = `UPDATE tasks SET is_active = FALSE WHERE id = $1 AND is_active = TRUE`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func scanTask(row scanner) (*domain.Task, error) {
	var task domain.Task
	if err := row.Scan(
		&task.ID,
		&task.Name,
		&task.Position,
		&task.IsActive,
		&task.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}
	return &task, nil
}
