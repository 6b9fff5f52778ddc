package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver "sqlite3" (cgo)
	_ "modernc.org/sqlite"          // SQLite driver "sqlite" (pure Go)
)

// ErrCorruptRecord is returned by Load when the stored collection cannot be decoded.
var ErrCorruptRecord = errors.New("corrupt session record")

// SessionRepository persists the whole session collection as one record.
type SessionRepository interface {
	// Load returns the stored collection, or nil if nothing was stored yet.
	Load(ctx context.Context) ([]Session, error)
	// SaveAll replaces the stored collection.
	SaveAll(ctx context.Context, sessions []Session) error
	Close() error
}

type SQLiteStore struct {
	db  *sql.DB
	key string
}

// NewSQLiteStore opens the database with the given driver ("sqlite3" or
// "sqlite") and stores the collection under key.
func NewSQLiteStore(driver, dataSourceName, key string) (*SQLiteStore, error) {
	db, err := sql.Open(driver, dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One record, one writer. A single connection also keeps ":memory:" coherent.
	db.SetMaxOpenConns(1)

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &SQLiteStore{db: db, key: key}
	if err = store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS records (
        key TEXT PRIMARY KEY,
        value TEXT NOT NULL,
        updated_at DATETIME NOT NULL
    );
    `
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) Load(ctx context.Context) ([]Session, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM records WHERE key = ?", s.key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query session record: %w", err)
	}

	var sessions []Session
	if err := json.Unmarshal([]byte(value), &sessions); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptRecord, err)
	}
	return sessions, nil
}

func (s *SQLiteStore) SaveAll(ctx context.Context, sessions []Session) error {
	if sessions == nil {
		sessions = []Session{}
	}
	value, err := json.Marshal(sessions)
	if err != nil {
		return fmt.Errorf("failed to marshal sessions: %w", err)
	}

	if err := s.put(ctx, string(value)); err != nil {
		return fmt.Errorf("failed to write session record: %w", err)
	}
	return nil
}

func (s *SQLiteStore) put(ctx context.Context, value string) error {
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO records (key, value, updated_at) VALUES (?, ?, ?)
        ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
    `, s.key, value, time.Now().UTC())
	return err
}
