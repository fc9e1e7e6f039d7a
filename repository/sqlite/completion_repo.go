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

type completionRow struct {
	ID            int64   `db:"id"`
	TaskID        int64   `db:"task_id"`
	TaskName      string  `db:"task_name"`
	CompletedDate string  `db:"completed_date"`
	Footnote      *string `db:"footnote"`
}

type completionRepository struct {
	db *sqlx.DB
}

// NewCompletionRepository returns a SQLite-backed implementation of CompletionRepository.
func NewCompletionRepository(db *sqlx.DB) repository.CompletionRepository {
	return &completionRepository{db: db}
}

func (r *completionRepository) Complete(ctx context.Context, taskID int64, date time.Time) (bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	task, err := getActiveTask(ctx, tx, taskID)
	if err != nil {
		return false, err
	}

	result, err := tx.ExecContext(ctx, `
		INSERT INTO daily_task_completions (task_id, task_name, completed_date)
		VALUES (?, ?, ?)
		ON CONFLICT (task_id, completed_date) DO NOTHING`,
		taskID, task.Name, domain.FormatDate(date))
	if err != nil {
		return false, fmt.Errorf("completing task %d: %w", taskID, err)
	}
	rows, _ := result.RowsAffected()

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("committing completion: %w", err)
	}
	return rows > 0, nil
}

func (r *completionRepository) Uncomplete(ctx context.Context, taskID int64, date time.Time) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM daily_task_completions WHERE task_id = ? AND completed_date = ?",
		taskID, domain.FormatDate(date))
	if err != nil {
		return false, fmt.Errorf("removing completion of task %d: %w", taskID, err)
	}
	rows, _ := result.RowsAffected()
	return rows > 0, nil
}

func (r *completionRepository) SaveFootnote(ctx context.Context, taskID int64, date time.Time, footnote string) (*domain.Completion, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	task, err := getActiveTask(ctx, tx, taskID)
	if err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO daily_task_completions (task_id, task_name, completed_date, footnote)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (task_id, completed_date) DO UPDATE SET footnote = excluded.footnote`,
		taskID, task.Name, domain.FormatDate(date), footnote)
	if err != nil {
		return nil, fmt.Errorf("saving footnote of task %d: %w", taskID, err)
	}

	completion, err := getCompletion(ctx, tx, taskID, date)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing footnote: %w", err)
	}
	return completion, nil
}

func (r *completionRepository) Get(ctx context.Context, taskID int64, date time.Time) (*domain.Completion, error) {
	return getCompletion(ctx, r.db, taskID, date)
}

func (r *completionRepository) CountForTask(ctx context.Context, taskID int64, start, end time.Time) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*)
		FROM daily_task_completions
		WHERE task_id = ? AND completed_date BETWEEN ? AND ?`,
		taskID, domain.FormatDate(start), domain.FormatDate(end))
	if err != nil {
		return 0, fmt.Errorf("counting completions of task %d: %w", taskID, err)
	}
	return count, nil
}

func (r *completionRepository) CountByTask(ctx context.Context, start, end time.Time) ([]domain.TaskCount, error) {
	var rows []struct {
		TaskID int64 `db:"task_id"`
		Count  int   `db:"star_count"`
	}
	err := r.db.SelectContext(ctx, &rows, `
		SELECT task_id, COUNT(*) AS star_count
		FROM daily_task_completions
		WHERE completed_date BETWEEN ? AND ?
		GROUP BY task_id`,
		domain.FormatDate(start), domain.FormatDate(end))
	if err != nil {
		return nil, fmt.Errorf("counting completions by task: %w", err)
	}

	counts := make([]domain.TaskCount, 0, len(rows))
	for _, row := range rows {
		counts = append(counts, domain.TaskCount{TaskID: row.TaskID, Count: row.Count})
	}
	return counts, nil
}

func (r *completionRepository) CountByDate(ctx context.Context, start, end time.Time) ([]domain.DateCount, error) {
	var rows []struct {
		Date  string `db:"completed_date"`
		Count int    `db:"star_count"`
	}
	err := r.db.SelectContext(ctx, &rows, `
		SELECT completed_date, COUNT(*) AS star_count
		FROM daily_task_completions
		WHERE completed_date BETWEEN ? AND ?
		GROUP BY completed_date
		ORDER BY completed_date ASC`,
		domain.FormatDate(start), domain.FormatDate(end))
	if err != nil {
		return nil, fmt.Errorf("counting completions by date: %w", err)
	}

	counts := make([]domain.DateCount, 0, len(rows))
	for _, row := range rows {
		date, err := domain.ParseDate(row.Date)
		if err != nil {
			return nil, fmt.Errorf("parsing completed_date %q: %w", row.Date, err)
		}
		counts = append(counts, domain.DateCount{Date: date, Count: row.Count})
	}
	return counts, nil
}

func (r *completionRepository) CountInRange(ctx context.Context, start, end time.Time) (int, error) {
	var total int
	err := r.db.GetContext(ctx, &total, `
		SELECT COUNT(*)
		FROM daily_task_completions
		WHERE completed_date BETWEEN ? AND ?`,
		domain.FormatDate(start), domain.FormatDate(end))
	if err != nil {
		return 0, fmt.Errorf("counting completions: %w", err)
	}
	return total, nil
}

func getCompletion(ctx context.Context, q sqlx.QueryerContext, taskID int64, date time.Time) (*domain.Completion, error) {
	var row completionRow
	err := sqlx.GetContext(ctx, q, &row, `
		SELECT id, task_id, task_name, completed_date, footnote
		FROM daily_task_completions
		WHERE task_id = ? AND completed_date = ?`,
		taskID, domain.FormatDate(date))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCompletionNotFound
		}
		return nil, fmt.Errorf("getting completion of task %d: %w", taskID, err)
	}

	completed, err := domain.ParseDate(row.CompletedDate)
	if err != nil {
		return nil, fmt.Errorf("parsing completed_date %q: %w", row.CompletedDate, err)
	}
	return &domain.Completion{
		ID:            row.ID,
		TaskID:        row.TaskID,
		TaskName:      row.TaskName,
		CompletedDate: completed,
		Footnote:      row.Footnote,
	}, nil
}
