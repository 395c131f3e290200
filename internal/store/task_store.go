package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"tarefas/internal/model"
)

// taskColumns is the canonical select list for task queries; scanTask
// depends on this order.
const taskColumns = "id, text, done, createdAt, listId, notes, dueDate"

// taskOrder is the canonical ordering for task queries: open tasks
// first, then by due date with undated tasks last, then newest first.
const taskOrder = "done ASC, dueDate IS NULL ASC, dueDate ASC, createdAt DESC"

// GetAllTasks retrieves every task.
func (s *SQLiteStore) GetAllTasks(ctx context.Context) ([]model.Task, error) {
	return s.queryTasks(ctx,
		"SELECT "+taskColumns+" FROM todos ORDER BY "+taskOrder)
}

// GetTasksByList retrieves the tasks belonging to the given list. An
// empty listID returns every task; an id matching no list returns an
// empty result, not an error.
func (s *SQLiteStore) GetTasksByList(ctx context.Context, listID string) ([]model.Task, error) {
	if listID == "" {
		return s.GetAllTasks(ctx)
	}
	return s.queryTasks(ctx,
		"SELECT "+taskColumns+" FROM todos WHERE listId = ? ORDER BY "+taskOrder,
		listID)
}

// CreateTask inserts a new task with a generated id, done=false, and
// createdAt set to the current instant. An empty ListID falls back to
// the sentinel list.
func (s *SQLiteStore) CreateTask(ctx context.Context, nt model.NewTask) (*model.Task, error) {
	task := model.Task{
		ID:        uuid.New().String(),
		Text:      nt.Text,
		Done:      false,
		CreatedAt: s.now().UTC(),
		ListID:    nt.ListID,
		Notes:     nt.Notes,
		DueDate:   nt.DueDate,
	}
	if task.ListID == "" {
		task.ListID = model.DefaultListID
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO todos (id, text, done, createdAt, listId, notes, dueDate)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		task.ID, task.Text, boolToInt(task.Done), formatTime(task.CreatedAt),
		task.ListID, task.Notes, formatTimePtr(task.DueDate),
	)
	if err != nil {
		return nil, fmt.Errorf("creating task: %w", err)
	}

	return &task, nil
}

// SetTaskDone flips the completion flag for the task matching id and
// returns the updated row, or (nil, nil) if no such task exists.
func (s *SQLiteStore) SetTaskDone(ctx context.Context, id string, done bool) (*model.Task, error) {
	result, err := s.db.ExecContext(ctx,
		"UPDATE todos SET done = ? WHERE id = ?",
		boolToInt(done), id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating task %s status: %w", id, err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return nil, nil
	}

	return s.taskByID(ctx, s.db, id)
}

// UpdateTask merges the patch over the persisted row and writes the
// result back. The read and write run in one transaction so concurrent
// partial updates cannot lose each other's fields. Returns (nil, nil)
// if no task with that id exists. Id, done, and createdAt are never
// written.
func (s *SQLiteStore) UpdateTask(ctx context.Context, id string, patch model.TaskPatch) (*model.Task, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning task update: %w", err)
	}
	defer tx.Rollback()

	task, err := s.taskByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, nil
	}

	if patch.Text != nil {
		task.Text = *patch.Text
	}
	if patch.Notes != nil {
		task.Notes = patch.Notes
	}
	if patch.DueDate != nil {
		task.DueDate = patch.DueDate
	}
	if patch.ListID != nil {
		task.ListID = *patch.ListID
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE todos SET text = ?, notes = ?, dueDate = ?, listId = ?
		WHERE id = ?`,
		task.Text, task.Notes, formatTimePtr(task.DueDate), task.ListID,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating task %s: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing task %s update: %w", id, err)
	}

	return task, nil
}

// queryTasks runs a task select and scans the result set.
func (s *SQLiteStore) queryTasks(ctx context.Context, query string, args ...interface{}) ([]model.Task, error) {
	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying tasks: %w", err)
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}

	return tasks, rows.Err()
}

// taskByID reads a single task through either the db handle or an open
// transaction. A missing row is (nil, nil).
func (s *SQLiteStore) taskByID(ctx context.Context, q sqlx.QueryerContext, id string) (*model.Task, error) {
	row := q.QueryRowxContext(ctx,
		"SELECT "+taskColumns+" FROM todos WHERE id = ?", id)

	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting task %s: %w", id, err)
	}

	return &task, nil
}
