package session

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLite is a Store persisted in a single-table SQLite database so the CLI
// keeps its session across invocations.
type SQLite struct {
	db     *sql.DB
	mu     sync.Mutex
	closed bool
}

// OpenSQLite opens (or creates) the session database at path and enables WAL
// journal mode.
func OpenSQLite(path string) (*SQLite, error) {
	// ensure parent directory exists to avoid SQLITE_CANTOPEN errors
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := ensureSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("session schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

func ensureSchema(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS Session (
            Key TEXT PRIMARY KEY,
            Value TEXT NOT NULL,
            UpdatedAt TIMESTAMP NOT NULL
        );`)
	return err
}

func (s *SQLite) check() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	return nil
}

func (s *SQLite) Get(key string) (string, bool, error) {
	if err := s.check(); err != nil {
		return "", false, err
	}
	var v string
	err := s.db.QueryRow(`SELECT Value FROM Session WHERE Key = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (s *SQLite) Set(key, value string) error {
	if err := s.check(); err != nil {
		return err
	}
	_, err := s.db.Exec(`INSERT INTO Session (Key, Value, UpdatedAt) VALUES (?,?,?)
        ON CONFLICT(Key) DO UPDATE SET Value = excluded.Value, UpdatedAt = excluded.UpdatedAt`,
		key, value, time.Now().UTC())
	return err
}

func (s *SQLite) Delete(key string) error {
	if err := s.check(); err != nil {
		return err
	}
	_, err := s.db.Exec(`DELETE FROM Session WHERE Key = ?`, key)
	return err
}

func (s *SQLite) Clear() error {
	if err := s.check(); err != nil {
		return err
	}
	_, err := s.db.Exec(`DELETE FROM Session`)
	return err
}

// Close releases the database. Further calls return ErrClosed.
func (s *SQLite) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
