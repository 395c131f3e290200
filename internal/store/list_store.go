package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"tarefas/internal/model"
)

// GetAllLists retrieves every list, sorted by name ascending.
func (s *SQLiteStore) GetAllLists(ctx context.Context) ([]model.List, error) {
	rows, err := s.db.QueryxContext(ctx,
		"SELECT id, name FROM todo_lists ORDER BY name ASC")
	if err != nil {
		return nil, fmt.Errorf("querying lists: %w", err)
	}
	defer rows.Close()

	var lists []model.List
	for rows.Next() {
		var l model.List
		if err := rows.Scan(&l.ID, &l.Name); err != nil {
			return nil, fmt.Errorf("scanning list row: %w", err)
		}
		lists = append(lists, l)
	}

	return lists, rows.Err()
}

// CreateList inserts a new list with a generated id and returns the
// persisted row. Name validation is the caller's job.
func (s *SQLiteStore) CreateList(ctx context.Context, name string) (*model.List, error) {
	list := model.List{
		ID:   uuid.New().String(),
		Name: name,
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO todo_lists (id, name) VALUES (?, ?)",
		list.ID, list.Name,
	)
	if err != nil {
		return nil, fmt.Errorf("creating list: %w", err)
	}

	return &list, nil
}
