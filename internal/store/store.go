package store

import (
	"context"

	"tarefas/internal/model"
)

// Store defines the persistence interface for tasks and lists.
//
// Operations that target a single task by id return (nil, nil) when no
// task with that id exists; callers must treat the nil result as
// "not found" rather than a failure.
type Store interface {
	// === Tasks ===

	GetAllTasks(ctx context.Context) ([]model.Task, error)
	GetTasksByList(ctx context.Context, listID string) ([]model.Task, error)
	CreateTask(ctx context.Context, nt model.NewTask) (*model.Task, error)
	SetTaskDone(ctx context.Context, id string, done bool) (*model.Task, error)
	UpdateTask(ctx context.Context, id string, patch model.TaskPatch) (*model.Task, error)

	// === Lists ===

	GetAllLists(ctx context.Context) ([]model.List, error)
	CreateList(ctx context.Context, name string) (*model.List, error)

	// === Diagnostics ===

	SchemaVersion(ctx context.Context) (int, error)
	EngineVersion(ctx context.Context) (string, error)
}
