package store

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"tarefas/internal/model"
)

// migration holds a single schema migration step with its target version.
// Steps are applied strictly in order, one at a time, and never skipped
// or rolled back. Each step must tolerate re-running over a store left
// mid-way by a killed process, since the version marker only advances
// when the step's transaction commits.
type migration struct {
	version int
	apply   func(s *SQLiteStore, tx *sqlx.Tx) error
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{version: 1, apply: (*SQLiteStore).migrateCreateTasks},
	{version: 2, apply: (*SQLiteStore).migrateAddLists},
}

// seedTasks is the demonstration content inserted on a fresh install.
// Ids are generated at migration time.
var seedTasks = []string{
	"Comprar pão na padaria",
	"Responder e-mails pendentes",
	"Agendar consulta no dentista",
}

// runMigrations reads the persisted version marker and applies any
// outstanding migration steps in order. Each step and its version bump
// commit in a single transaction.
func (s *SQLiteStore) runMigrations() error {
	var current int
	if err := s.db.Get(&current, "PRAGMA user_version"); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}

		tx, err := s.db.Beginx()
		if err != nil {
			return fmt.Errorf("beginning migration v%d: %w", m.version, err)
		}

		if err := m.apply(s, tx); err != nil {
			tx.Rollback()
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}

		// PRAGMA does not take bind parameters.
		if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", m.version)); err != nil {
			tx.Rollback()
			return fmt.Errorf("persisting schema version %d: %w", m.version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration v%d: %w", m.version, err)
		}

		slog.Info("applied schema migration", "version", m.version)
		current = m.version
	}

	return nil
}

// migrateCreateTasks is step 0→1: the original single-table schema plus
// demonstration rows.
func (s *SQLiteStore) migrateCreateTasks(tx *sqlx.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS todos (
			id        TEXT PRIMARY KEY,
			text      TEXT NOT NULL,
			done      INTEGER NOT NULL DEFAULT 0,
			createdAt TEXT NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("creating todos table: %w", err)
	}

	// Seed only into an empty table, so a rerun over a partial prior
	// migration does not duplicate the demo rows.
	var count int
	if err := tx.Get(&count, "SELECT COUNT(*) FROM todos"); err != nil {
		return fmt.Errorf("counting todos: %w", err)
	}
	if count > 0 {
		return nil
	}

	createdAt := formatTime(s.now())
	for _, text := range seedTasks {
		_, err := tx.Exec(
			"INSERT INTO todos (id, text, done, createdAt) VALUES (?, ?, 0, ?)",
			uuid.New().String(), text, createdAt,
		)
		if err != nil {
			return fmt.Errorf("seeding demo task: %w", err)
		}
	}

	return nil
}

// migrateAddLists is step 1→2: the list table, the three task columns
// that reference it, the sentinel list row, and the listId backfill.
func (s *SQLiteStore) migrateAddLists(tx *sqlx.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS todo_lists (
			id   TEXT PRIMARY KEY,
			name TEXT NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("creating todo_lists table: %w", err)
	}

	for _, column := range []string{"listId", "notes", "dueDate"} {
		if err := addColumnIfMissing(tx, "todos", column); err != nil {
			return err
		}
	}

	_, err = tx.Exec(
		"INSERT OR IGNORE INTO todo_lists (id, name) VALUES (?, ?)",
		model.DefaultListID, model.DefaultListName,
	)
	if err != nil {
		return fmt.Errorf("seeding default list: %w", err)
	}

	_, err = tx.Exec(
		"UPDATE todos SET listId = ? WHERE listId IS NULL",
		model.DefaultListID,
	)
	if err != nil {
		return fmt.Errorf("backfilling task listId: %w", err)
	}

	return nil
}

// addColumnIfMissing adds a nullable TEXT column, consulting the table
// metadata first so a rerun over a partially migrated store is a no-op
// rather than an ALTER failure.
func addColumnIfMissing(tx *sqlx.Tx, table, column string) error {
	var count int
	err := tx.Get(&count,
		"SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?",
		table, column,
	)
	if err != nil {
		return fmt.Errorf("inspecting %s schema: %w", table, err)
	}
	if count > 0 {
		slog.Debug("column already present, skipping", "table", table, "column", column)
		return nil
	}

	_, err = tx.Exec(fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s TEXT", table, column))
	if err != nil {
		return fmt.Errorf("adding column %s.%s: %w", table, column, err)
	}
	return nil
}
