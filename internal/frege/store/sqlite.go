package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	mdwerror "github.com/msto63/mAF/foundation/core/error"
)

// SQLiteStore implements Store using SQLite in WAL mode
type SQLiteStore struct {
	db *sql.DB
}

// SQLiteConfig holds configuration for the SQLite store
type SQLiteConfig struct {
	Path string
}

// DefaultSQLiteConfig returns default configuration
func DefaultSQLiteConfig() SQLiteConfig {
	return SQLiteConfig{
		Path: "./data/history.db",
	}
}

// NewSQLiteStore opens (and if needed creates) the history database
func NewSQLiteStore(cfg SQLiteConfig) (*SQLiteStore, error) {
	dir := filepath.Dir(cfg.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, dbError(err, "failed to create directory", "store.NewSQLiteStore").
			WithDetail("path", dir)
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000")
	if err != nil {
		return nil, dbError(err, "failed to open database", "store.NewSQLiteStore")
	}
	// database/sql pools connections; SQLite serialises writers anyway
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, dbError(err, "failed to initialize schema", "store.NewSQLiteStore")
	}

	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS history (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		mode TEXT NOT NULL,
		input TEXT NOT NULL,
		output TEXT NOT NULL,
		error_count INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_history_created ON history(created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_history_session ON history(session_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Save stores an entry, filling in ID and CreatedAt when unset
func (s *SQLiteStore) Save(ctx context.Context, entry *Entry) error {
	if !entry.Mode.Valid() {
		return mdwerror.Newf("unknown history mode %q", entry.Mode).
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("store.Save")
	}
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	entry.CreatedAt = entry.CreatedAt.UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO history (id, session_id, mode, input, output, error_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.SessionID, string(entry.Mode), entry.Input, entry.Output,
		entry.ErrorCount, entry.CreatedAt)
	if err != nil {
		return dbError(err, "failed to save history entry", "store.Save").
			WithDetail("id", entry.ID)
	}
	return nil
}

// Query lists matching entries, newest first
func (s *SQLiteStore) Query(ctx context.Context, filter Filter) ([]*Entry, error) {
	where, args := filter.where()
	query := `SELECT id, session_id, mode, input, output, error_count, created_at FROM history` +
		where + ` ORDER BY created_at DESC, rowid DESC`

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, dbError(err, "failed to query history", "store.Query")
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		var e Entry
		var mode string
		if err := rows.Scan(&e.ID, &e.SessionID, &mode, &e.Input, &e.Output, &e.ErrorCount, &e.CreatedAt); err != nil {
			return nil, dbError(err, "failed to scan history entry", "store.Query")
		}
		e.Mode = Mode(mode)
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError(err, "failed to read history", "store.Query")
	}

	return entries, nil
}

// Count returns the number of matching entries; Limit is ignored
func (s *SQLiteStore) Count(ctx context.Context, filter Filter) (int, error) {
	where, args := filter.where()

	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM history`+where, args...).Scan(&n); err != nil {
		return 0, dbError(err, "failed to count history", "store.Count")
	}
	return n, nil
}

// Prune deletes entries older than the given age
func (s *SQLiteStore) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-olderThan)

	res, err := s.db.ExecContext(ctx, `DELETE FROM history WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, dbError(err, "failed to prune history", "store.Prune")
	}
	return res.RowsAffected()
}

// Ping checks the database connection
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (f Filter) where() (string, []interface{}) {
	var conds []string
	var args []interface{}

	if f.SessionID != "" {
		conds = append(conds, "session_id = ?")
		args = append(args, f.SessionID)
	}
	if f.Mode != "" {
		conds = append(conds, "mode = ?")
		args = append(args, string(f.Mode))
	}
	if f.OnlyFailed {
		conds = append(conds, "error_count > 0")
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func dbError(err error, msg, op string) *mdwerror.Error {
	return mdwerror.Wrap(err, msg).
		WithCode(mdwerror.CodeDatabaseError).
		WithOperation(op)
}
