package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/trailtrack/apiserver/internal/dbx"
	"github.com/trailtrack/apiserver/types"
)

const taskColumns = `id, owner_id, linked_type, linked_id, title, due_at, priority, status, created_at, updated_at`

// TaskRepository handles persistence for tasks.
type TaskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// List returns the owner's tasks by ascending due time. Tasks without a due
// time sort last (postgres default for ascending order).
func (r *TaskRepository) List(ctx context.Context, ownerID int) ([]types.Task, error) {
	const query = `SELECT ` + taskColumns + ` FROM tasks WHERE owner_id = $1 ORDER BY due_at, id`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]types.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *TaskRepository) Get(ctx context.Context, ownerID, id int) (types.Task, error) {
	return getTask(ctx, r.db, ownerID, id, false)
}

func (r *TaskRepository) Create(ctx context.Context, task types.Task) (types.Task, error) {
	now := time.Now().UTC()
	task.CreatedAt = now
	task.UpdatedAt = now

	const query = `
		INSERT INTO tasks (owner_id, linked_type, linked_id, title, due_at, priority, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		task.OwnerID,
		task.LinkedType,
		task.LinkedID,
		task.Title,
		task.DueAt,
		task.Priority,
		task.Status,
		task.CreatedAt,
		task.UpdatedAt,
	).Scan(&task.ID); err != nil {
		return types.Task{}, fmt.Errorf("insert task: %w", err)
	}
	return task, nil
}

// Modify loads the owner's task, applies fn and writes the result back in
// one transaction.
func (r *TaskRepository) Modify(ctx context.Context, ownerID, id int, fn func(*types.Task) error) (types.Task, error) {
	var out types.Task
	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		task, err := getTask(ctx, tx, ownerID, id, true)
		if err != nil {
			return err
		}
		if err := fn(&task); err != nil {
			return err
		}
		task.UpdatedAt = time.Now().UTC()

		const query = `
			UPDATE tasks
			SET linked_type = $1,
				linked_id = $2,
				title = $3,
				due_at = $4,
				priority = $5,
				status = $6,
				updated_at = $7
			WHERE id = $8 AND owner_id = $9`
		if _, err := tx.ExecContext(
			ctx,
			query,
			task.LinkedType,
			task.LinkedID,
			task.Title,
			task.DueAt,
			task.Priority,
			task.Status,
			task.UpdatedAt,
			task.ID,
			task.OwnerID,
		); err != nil {
			return fmt.Errorf("update task: %w", err)
		}
		out = task
		return nil
	})
	if err != nil {
		return types.Task{}, err
	}
	return out, nil
}

func (r *TaskRepository) Delete(ctx context.Context, ownerID, id int) error {
	return deleteOwned(ctx, r.db, "tasks", ownerID, id)
}

func getTask(ctx context.Context, db dbx.DBTX, ownerID, id int, forUpdate bool) (types.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1 AND owner_id = $2`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	return scanTask(db.QueryRowContext(ctx, query, id, ownerID))
}

func scanTask(row rowScanner) (types.Task, error) {
	var task types.Task
	err := row.Scan(
		&task.ID,
		&task.OwnerID,
		&task.LinkedType,
		&task.LinkedID,
		&task.Title,
		&task.DueAt,
		&task.Priority,
		&task.Status,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Task{}, ErrNotFound
		}
		return types.Task{}, err
	}
	return task, nil
}
