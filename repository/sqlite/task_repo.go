package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/lifelogger/backend/domain"
	"github.com/lifelogger/backend/repository"
)

type taskRow struct {
	ID        int64  `db:"id"`
	Name      string `db:"name"`
	Position  int    `db:"position"`
	IsActive  bool   `db:"is_active"`
	CreatedAt string `db:"created_at"`
}

func (r taskRow) toDomain() (domain.Task, error) {
	created, err := parseTimestamp(r.CreatedAt)
	if err != nil {
		return domain.Task{}, fmt.Errorf("parsing created_at of task %d: %w", r.ID, err)
	}
	return domain.Task{
		ID:        r.ID,
		Name:      r.Name,
		Position:  r.Position,
		IsActive:  r.IsActive,
		CreatedAt: created,
	}, nil
}

type dailyTaskRow struct {
	ID             int64   `db:"id"`
	Name           string  `db:"name"`
	CreatedAt      string  `db:"created_at"`
	CompletedToday bool    `db:"completed_today"`
	Footnote       *string `db:"footnote"`
}

type taskRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewTaskRepository returns a SQLite-backed implementation of TaskRepository.
func NewTaskRepository(db *sqlx.DB) repository.TaskRepository {
	return &taskRepository{db: db, now: time.Now}
}

func (r *taskRepository) ListActive(ctx context.Context, onDate time.Time) ([]domain.DailyTask, error) {
	const query = `
	SELECT t.id, t.name, t.created_at, dtc.id IS NOT NULL AS completed_today, dtc.footnote
	FROM tasks t
	LEFT JOIN daily_task_completions dtc
		ON t.id = dtc.task_id AND dtc.completed_date = ?
	WHERE t.is_active = 1
	ORDER BY t.position ASC, t.created_at ASC, t.id ASC`

	var rows []dailyTaskRow
	if err := r.db.SelectContext(ctx, &rows, query, domain.FormatDate(onDate)); err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}

	tasks := make([]domain.DailyTask, 0, len(rows))
	for _, row := range rows {
		created, err := parseTimestamp(row.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at of task %d: %w", row.ID, err)
		}
		tasks = append(tasks, domain.DailyTask{
			ID:             row.ID,
			Name:           row.Name,
			CreatedAt:      created,
			CompletedToday: row.CompletedToday,
			Footnote:       row.Footnote,
		})
	}
	return tasks, nil
}

func (r *taskRepository) ListActiveSummaries(ctx context.Context) ([]domain.Task, error) {
	var rows []taskRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT id, name, position, is_active, created_at
		FROM tasks
		WHERE is_active = 1
		ORDER BY position ASC, created_at ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing active tasks: %w", err)
	}

	tasks := make([]domain.Task, 0, len(rows))
	for _, row := range rows {
		task, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

func (r *taskRepository) CountActive(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM tasks WHERE is_active = 1"); err != nil {
		return 0, fmt.Errorf("counting active tasks: %w", err)
	}
	return total, nil
}

func (r *taskRepository) GetActive(ctx context.Context, id int64) (*domain.Task, error) {
	return getActiveTask(ctx, r.db, id)
}

func (r *taskRepository) Create(ctx context.Context, name string) (*domain.Task, error) {
	created := r.now().UTC()
	result, err := r.db.ExecContext(ctx,
		"INSERT INTO tasks (name, created_at) VALUES (?, ?)",
		name, formatTimestamp(created))
	if err != nil {
		return nil, fmt.Errorf("creating task: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("reading task id: %w", err)
	}
	return &domain.Task{
		ID:        id,
		Name:      name,
		IsActive:  true,
		CreatedAt: created,
	}, nil
}

func (r *taskRepository) Rename(ctx context.Context, id int64, name string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE tasks SET name = ? WHERE id = ? AND is_active = 1", name, id)
	if err != nil {
		return fmt.Errorf("renaming task %d: %w", id, err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *taskRepository) Reorder(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PreparexContext(ctx, "UPDATE tasks SET position = ? WHERE id = ?")
	if err != nil {
		return fmt.Errorf("preparing reorder statement: %w", err)
	}
	defer stmt.Close()

	for position, id := range ids {
		if _, err := stmt.ExecContext(ctx, position, id); err != nil {
			return fmt.Errorf("moving task %d: %w", id, err)
		}
	}
	return tx.Commit()
}

func (r *taskRepository) SoftDelete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE tasks SET is_active = 0 WHERE id = ? AND is_active = 1", id)
	if err != nil {
		return fmt.Errorf("deleting task %d: %w", id, err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func getActiveTask(ctx context.Context, q sqlx.QueryerContext, id int64) (*domain.Task, error) {
	var row taskRow
	err := sqlx.GetContext(ctx, q, &row, `
		SELECT id, name, position, is_active, created_at
		FROM tasks
		WHERE id = ? AND is_active = 1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("getting task %d: %w", id, err)
	}
	task, err := row.toDomain()
	if err != nil {
		return nil, err
	}
	return &task, nil
}
