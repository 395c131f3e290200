package model

import "time"

// DefaultListID is the id of the sentinel list that always exists after
// migration. Tasks created without an explicit list belong to it.
const DefaultListID = "default-list"

// DefaultListName is the display name seeded for the sentinel list.
const DefaultListName = "Todas as Tarefas"

// Task is a single checklist item.
type Task struct {
	ID        string     `json:"id" db:"id"`
	Text      string     `json:"text" db:"text"`
	Done      bool       `json:"done" db:"done"`
	CreatedAt time.Time  `json:"created_at" db:"createdAt"`
	ListID    string     `json:"list_id" db:"listId"`
	Notes     *string    `json:"notes,omitempty" db:"notes"`
	DueDate   *time.Time `json:"due_date,omitempty" db:"dueDate"`
}

// List is a named grouping of tasks.
type List struct {
	ID   string `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// NewTask carries the caller-supplied fields for task creation.
// ListID defaults to DefaultListID when empty; Notes and DueDate
// are optional.
type NewTask struct {
	Text    string
	ListID  string
	Notes   *string
	DueDate *time.Time
}

// TaskPatch is a partial update to a task. Nil fields keep the value
// currently persisted. ID and CreatedAt are not patchable.
type TaskPatch struct {
	Text    *string
	Notes   *string
	DueDate *time.Time
	ListID  *string
}
