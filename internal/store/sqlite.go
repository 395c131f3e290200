package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"tarefas/internal/model"
)

// timeLayout is the on-disk timestamp format: ISO-8601 in UTC with a
// fixed-width fractional part, so lexicographic order matches
// chronological order.
const timeLayout = "2006-01-02T15:04:05.000000Z07:00"

// SQLiteStore implements the Store interface using a local SQLite database.
type SQLiteStore struct {
	db *sqlx.DB

	// now supplies timestamps for inserts; overridable in tests.
	now func() time.Time
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations. No data
// access happens until migration reaches the terminal version.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// The application model is a single local writer; one connection
	// also keeps :memory: databases from splitting across the pool.
	db.SetMaxOpenConns(1)

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Enable foreign keys.
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &SQLiteStore{db: db, now: time.Now}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SchemaVersion returns the persisted schema version marker.
// A store that has never been migrated reports 0.
func (s *SQLiteStore) SchemaVersion(ctx context.Context) (int, error) {
	var version int
	if err := s.db.GetContext(ctx, &version, "PRAGMA user_version"); err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return version, nil
}

// EngineVersion returns the SQLite library version string.
func (s *SQLiteStore) EngineVersion(ctx context.Context) (string, error) {
	var version string
	if err := s.db.GetContext(ctx, &version, "SELECT sqlite_version()"); err != nil {
		return "", fmt.Errorf("reading engine version: %w", err)
	}
	return version, nil
}

// formatTime renders a timestamp in the on-disk layout.
func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// formatTimePtr renders an optional timestamp, preserving NULL.
func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := formatTime(*t)
	return &formatted
}

// parseTime reads a stored ISO-8601 timestamp back into a time.Time.
func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing stored timestamp %q: %w", s, err)
	}
	return t, nil
}

// scanTask scans a task row: timestamps come back as ISO-8601 strings and
// nullable columns as pointers.
func scanTask(rows interface{ Scan(dest ...interface{}) error }) (model.Task, error) {
	var (
		task      model.Task
		doneInt   int
		createdAt string
		listID    *string
		dueDate   *string
	)

	err := rows.Scan(
		&task.ID, &task.Text, &doneInt, &createdAt,
		&listID, &task.Notes, &dueDate,
	)
	if err != nil {
		return model.Task{}, fmt.Errorf("scanning task row: %w", err)
	}

	task.Done = doneInt != 0

	task.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return model.Task{}, err
	}

	// listId is only null on stores mid-way through migration; the
	// backfill step maps every remaining null to the sentinel list.
	if listID != nil {
		task.ListID = *listID
	} else {
		task.ListID = model.DefaultListID
	}

	if dueDate != nil {
		due, err := parseTime(*dueDate)
		if err != nil {
			return model.Task{}, err
		}
		task.DueDate = &due
	}

	return task, nil
}

// boolToInt converts a boolean to 0 or 1 for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
