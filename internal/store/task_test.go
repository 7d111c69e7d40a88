package store

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trailtrack/apiserver/types"
)

var taskRowColumns = []string{
	"id", "owner_id", "linked_type", "linked_id", "title", "due_at", "priority", "status", "created_at", "updated_at",
}

func TestTaskRepository_List_OrderedByDueAt(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaskRepository(db)
	at := time.Date(2024, 3, 1, 14, 30, 0, 0, time.UTC)

	mock.ExpectQuery(`FROM tasks WHERE owner_id = \$1 ORDER BY due_at, id`).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows(taskRowColumns).
			AddRow(3, 5, "lead", 4, "Call back", at, "high", "open", at, at).
			AddRow(1, 5, "account", 1, "Send deck", nil, "medium", "open", at, at))

	tasks, err := repo.List(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	require.NotNil(t, tasks[0].DueAt)
	assert.Equal(t, at, *tasks[0].DueAt)
	assert.Nil(t, tasks[1].DueAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_Modify_ClearsDueAt(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaskRepository(db)
	at := time.Date(2024, 3, 1, 14, 30, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM tasks WHERE id = \$1 AND owner_id = \$2 FOR UPDATE`).
		WithArgs(3, 5).
		WillReturnRows(sqlmock.NewRows(taskRowColumns).
			AddRow(3, 5, "lead", 4, "Call back", at, "high", "open", at, at))
	mock.ExpectExec(`UPDATE tasks`).
		WithArgs("lead", 4, "Call back", nil, "high", "done", sqlmock.AnyArg(), 3, 5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	task, err := repo.Modify(context.Background(), 5, 3, func(task *types.Task) error {
		task.DueAt = nil
		task.Status = types.TaskStatusDone
		return nil
	})
	require.NoError(t, err)
	assert.Nil(t, task.DueAt)
	assert.Equal(t, "done", task.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
