// Package sqlstore persists tasks in a SQL database through database/sql.
// SQLite, PostgreSQL and MySQL share one schema; only placeholders differ.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"tasklist/internal/service"
	"tasklist/internal/storage"
)

// Dialect selects the database/sql driver and placeholder style.
type Dialect string

const (
	SQLite   Dialect = "sqlite"
	Postgres Dialect = "postgres"
	MySQL    Dialect = "mysql"
)

func (d Dialect) driverName() (string, error) {
	switch d {
	case SQLite:
		return "sqlite3", nil
	case Postgres:
		return "postgres", nil
	case MySQL:
		return "mysql", nil
	default:
		return "", fmt.Errorf("unsupported sql dialect %q", string(d))
	}
}

const schema = `CREATE TABLE IF NOT EXISTS tasks (
    id VARCHAR(24) PRIMARY KEY,
    text TEXT NOT NULL,
    completed BOOLEAN NOT NULL DEFAULT FALSE,
    created_ns BIGINT NOT NULL
)`

// Store is a SQL-backed storage.Store.
type Store struct {
	db      *sql.DB
	dialect Dialect
	newID   func() string
	now     func() time.Time
}

// Open connects to dsn, checks the connection and creates the table.
// For SQLite the DSN is a file path.
func Open(ctx context.Context, dialect Dialect, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("empty dsn")
	}
	driver, err := dialect.driverName()
	if err != nil {
		return nil, err
	}
	if dialect == SQLite {
		if err := ensureDir(dsn); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dialect, err)
	}
	if dialect == SQLite {
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", dialect, err)
	}

	s := New(db, dialect)
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an open database. The table must already exist or be created
// by Open.
func New(db *sql.DB, dialect Dialect) *Store {
	return &Store{db: db, dialect: dialect, newID: storage.NewID, now: time.Now}
}

func ensureDir(path string) error {
	if strings.HasPrefix(path, "file:") || path == ":memory:" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func (s *Store) migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

// rebind rewrites ? placeholders as $1, $2, ... for PostgreSQL.
func (s *Store) rebind(query string) string {
	if s.dialect != Postgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *Store) Create(ctx context.Context, text string) (service.Task, error) {
	task := service.Task{ID: s.newID(), Text: text}
	_, err := s.db.ExecContext(ctx,
		s.rebind(`INSERT INTO tasks (id, text, completed, created_ns) VALUES (?, ?, ?, ?)`),
		task.ID, task.Text, false, s.now().UnixNano())
	if err != nil {
		return service.Task{}, fmt.Errorf("insert task: %w", err)
	}
	return task, nil
}

func (s *Store) List(ctx context.Context) ([]service.Task, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, text, completed FROM tasks ORDER BY created_ns ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []service.Task{}
	for rows.Next() {
		var t service.Task
		if err := rows.Scan(&t.ID, &t.Text, &t.Completed); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// Update writes only the set fields in one statement, so concurrent partial
// updates of the same row cannot drop each other's field. MySQL reports zero
// affected rows for no-op updates, so existence is decided by the read that
// follows in the same transaction.
func (s *Store) Update(ctx context.Context, id string, upd service.TaskUpdate) (service.Task, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return service.Task{}, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var text sql.NullString
	if upd.Text != nil {
		text = sql.NullString{String: *upd.Text, Valid: true}
	}
	var completed sql.NullBool
	if upd.Completed != nil {
		completed = sql.NullBool{Bool: *upd.Completed, Valid: true}
	}
	if _, err := tx.ExecContext(ctx,
		s.rebind(`UPDATE tasks SET text = COALESCE(?, text), completed = COALESCE(?, completed) WHERE id = ?`),
		text, completed, id); err != nil {
		return service.Task{}, fmt.Errorf("update task: %w", err)
	}

	var t service.Task
	err = tx.QueryRowContext(ctx, s.rebind(`SELECT id, text, completed FROM tasks WHERE id = ?`), id).
		Scan(&t.ID, &t.Text, &t.Completed)
	if errors.Is(err, sql.ErrNoRows) {
		return service.Task{}, storage.ErrNotFound
	}
	if err != nil {
		return service.Task{}, fmt.Errorf("get task: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return service.Task{}, fmt.Errorf("commit: %w", err)
	}
	return t, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM tasks WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// Close releases the database resources.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

var _ storage.Store = (*Store)(nil)
