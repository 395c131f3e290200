package store

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"

	"tarefas/internal/model"
)

// newRawStore opens an in-memory database without running migrations,
// so tests can stage arbitrary starting schemas.
func newRawStore(t *testing.T) *SQLiteStore {
	t.Helper()

	db, err := sqlx.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("opening raw store: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	return &SQLiteStore{db: db, now: time.Now}
}

// stageVersion1 builds the original single-table schema with the given
// task rows and stamps the store at version 1.
func stageVersion1(t *testing.T, s *SQLiteStore, texts []string) {
	t.Helper()

	_, err := s.db.Exec(`
		CREATE TABLE todos (
			id        TEXT PRIMARY KEY,
			text      TEXT NOT NULL,
			done      INTEGER NOT NULL DEFAULT 0,
			createdAt TEXT NOT NULL
		)`)
	if err != nil {
		t.Fatalf("creating v1 schema: %v", err)
	}

	for i, text := range texts {
		_, err := s.db.Exec(
			"INSERT INTO todos (id, text, done, createdAt) VALUES (?, ?, 0, ?)",
			// Fixed ids keep assertions simple.
			string(rune('a'+i)), text, formatTime(time.Now()),
		)
		if err != nil {
			t.Fatalf("inserting v1 row: %v", err)
		}
	}

	if _, err := s.db.Exec("PRAGMA user_version = 1"); err != nil {
		t.Fatalf("stamping version 1: %v", err)
	}
}

func TestFreshMigration(t *testing.T) {
	s, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	defer s.Close()

	ctx := context.Background()

	version, err := s.SchemaVersion(ctx)
	if err != nil {
		t.Fatalf("reading schema version: %v", err)
	}
	if version != 2 {
		t.Errorf("schema version = %d, want 2", version)
	}

	tasks, err := s.GetAllTasks(ctx)
	if err != nil {
		t.Fatalf("getting tasks: %v", err)
	}
	if len(tasks) != 3 {
		t.Fatalf("got %d seeded tasks, want 3", len(tasks))
	}
	for _, task := range tasks {
		if task.Done {
			t.Errorf("seeded task %q should not be done", task.Text)
		}
		if task.ListID != model.DefaultListID {
			t.Errorf("seeded task %q listId = %q, want %q",
				task.Text, task.ListID, model.DefaultListID)
		}
		if task.ID == "" {
			t.Errorf("seeded task %q has empty id", task.Text)
		}
	}

	lists, err := s.GetAllLists(ctx)
	if err != nil {
		t.Fatalf("getting lists: %v", err)
	}
	if len(lists) != 1 {
		t.Fatalf("got %d seeded lists, want 1", len(lists))
	}
	if lists[0].ID != model.DefaultListID || lists[0].Name != model.DefaultListName {
		t.Errorf("seeded list = %+v, want {%s %s}",
			lists[0], model.DefaultListID, model.DefaultListName)
	}
}

func TestMigrationIdempotent(t *testing.T) {
	s := newRawStore(t)

	if err := s.runMigrations(); err != nil {
		t.Fatalf("first migration run: %v", err)
	}
	if err := s.runMigrations(); err != nil {
		t.Fatalf("second migration run: %v", err)
	}

	ctx := context.Background()

	version, err := s.SchemaVersion(ctx)
	if err != nil {
		t.Fatalf("reading schema version: %v", err)
	}
	if version != 2 {
		t.Errorf("schema version = %d, want 2", version)
	}

	tasks, err := s.GetAllTasks(ctx)
	if err != nil {
		t.Fatalf("getting tasks: %v", err)
	}
	if len(tasks) != 3 {
		t.Errorf("got %d tasks after double migration, want 3", len(tasks))
	}

	lists, err := s.GetAllLists(ctx)
	if err != nil {
		t.Fatalf("getting lists: %v", err)
	}
	if len(lists) != 1 {
		t.Errorf("got %d lists after double migration, want 1", len(lists))
	}
}

func TestMigrationFromVersion1(t *testing.T) {
	s := newRawStore(t)
	stageVersion1(t, s, []string{"old task one", "old task two"})

	if err := s.runMigrations(); err != nil {
		t.Fatalf("migrating from v1: %v", err)
	}

	ctx := context.Background()

	version, err := s.SchemaVersion(ctx)
	if err != nil {
		t.Fatalf("reading schema version: %v", err)
	}
	if version != 2 {
		t.Errorf("schema version = %d, want 2", version)
	}

	// Existing rows survive and get backfilled onto the sentinel list;
	// the v1 seed step must not run again.
	tasks, err := s.GetAllTasks(ctx)
	if err != nil {
		t.Fatalf("getting tasks: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("got %d tasks, want the 2 pre-existing ones", len(tasks))
	}
	for _, task := range tasks {
		if task.ListID != model.DefaultListID {
			t.Errorf("task %q listId = %q, want backfilled %q",
				task.Text, task.ListID, model.DefaultListID)
		}
	}

	lists, err := s.GetAllLists(ctx)
	if err != nil {
		t.Fatalf("getting lists: %v", err)
	}
	if len(lists) != 1 || lists[0].ID != model.DefaultListID {
		t.Errorf("lists = %+v, want only the sentinel list", lists)
	}
}

func TestMigrationToleratesPartialColumnAdd(t *testing.T) {
	s := newRawStore(t)
	stageVersion1(t, s, []string{"survivor"})

	// Simulate a process killed mid-step: listId was added but the
	// version marker never advanced.
	if _, err := s.db.Exec("ALTER TABLE todos ADD COLUMN listId TEXT"); err != nil {
		t.Fatalf("staging partial column add: %v", err)
	}

	if err := s.runMigrations(); err != nil {
		t.Fatalf("migrating over partial step: %v", err)
	}

	ctx := context.Background()
	tasks, err := s.GetAllTasks(ctx)
	if err != nil {
		t.Fatalf("getting tasks: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("got %d tasks, want 1", len(tasks))
	}
	if tasks[0].ListID != model.DefaultListID {
		t.Errorf("listId = %q, want %q", tasks[0].ListID, model.DefaultListID)
	}
}

func TestMigrationDoesNotReseedNonEmptyTable(t *testing.T) {
	s := newRawStore(t)

	// Simulate a process killed after creating and seeding the todos
	// table but before stamping version 1.
	_, err := s.db.Exec(`
		CREATE TABLE todos (
			id        TEXT PRIMARY KEY,
			text      TEXT NOT NULL,
			done      INTEGER NOT NULL DEFAULT 0,
			createdAt TEXT NOT NULL
		)`)
	if err != nil {
		t.Fatalf("staging partial v1 schema: %v", err)
	}
	_, err = s.db.Exec(
		"INSERT INTO todos (id, text, done, createdAt) VALUES ('x', 'leftover', 0, ?)",
		formatTime(time.Now()),
	)
	if err != nil {
		t.Fatalf("staging leftover row: %v", err)
	}

	if err := s.runMigrations(); err != nil {
		t.Fatalf("migrating over partial seed: %v", err)
	}

	tasks, err := s.GetAllTasks(context.Background())
	if err != nil {
		t.Fatalf("getting tasks: %v", err)
	}
	if len(tasks) != 1 {
		t.Errorf("got %d tasks, want only the leftover row", len(tasks))
	}
}

func TestVersionAccessors(t *testing.T) {
	s, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	defer s.Close()

	ctx := context.Background()

	version, err := s.SchemaVersion(ctx)
	if err != nil {
		t.Fatalf("reading schema version: %v", err)
	}
	if version != 2 {
		t.Errorf("schema version = %d, want 2", version)
	}

	engine, err := s.EngineVersion(ctx)
	if err != nil {
		t.Fatalf("reading engine version: %v", err)
	}
	if engine == "" {
		t.Error("engine version should not be empty")
	}
}
