// Package sqlitestore is the default durable storage.Store: a single-table
// SQLite database in the console's data directory.
package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jrsteele09/news-admin/storage"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

var _ storage.Store = (*Store)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS kv (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	expires_at INTEGER NOT NULL DEFAULT 0,
	secure     INTEGER NOT NULL DEFAULT 0,
	same_site  TEXT NOT NULL DEFAULT ''
)`

type Store struct {
	db  *sql.DB
	now func() time.Time
}

type Option func(*Store)

// WithNowFunc overrides the clock used for TTL checks.
func WithNowFunc(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// Open opens (creating if needed) the database at path.
func Open(ctx context.Context, path string, opts ...Option) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, fmt.Errorf("failed to create storage directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	for _, stmt := range []string{"PRAGMA journal_mode=WAL", "PRAGMA synchronous=NORMAL", schema} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to initialise database: %w", err)
		}
	}

	s := &Store{db: db, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	e, err := s.Lookup(ctx, key)
	if err != nil {
		return "", err
	}
	return e.Value, nil
}

func (s *Store) Lookup(ctx context.Context, key string) (storage.Entry, error) {
	var (
		e         storage.Entry
		expiresAt int64
		secure    bool
		sameSite  string
	)
	row := s.db.QueryRowContext(ctx, `SELECT value, expires_at, secure, same_site FROM kv WHERE key = ?`, key)
	if err := row.Scan(&e.Value, &expiresAt, &secure, &sameSite); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Entry{}, storage.ErrNotFound
		}
		return storage.Entry{}, fmt.Errorf("lookup %s: %w", key, err)
	}

	if expiresAt != 0 {
		e.ExpiresAt = time.Unix(0, expiresAt)
		if !s.now().Before(e.ExpiresAt) {
			if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
				return storage.Entry{}, fmt.Errorf("purge expired %s: %w", key, err)
			}
			return storage.Entry{}, storage.ErrNotFound
		}
	}
	e.Secure = secure
	e.SameSite = storage.SameSite(sameSite)
	return e, nil
}

func (s *Store) Set(ctx context.Context, key, value string, opts storage.SetOptions) error {
	var expiresAt int64
	if opts.TTL > 0 {
		expiresAt = s.now().Add(opts.TTL).UnixNano()
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO kv (key, value, expires_at, secure, same_site) VALUES (?, ?, ?, ?, ?)
ON CONFLICT(key) DO UPDATE SET
	value = excluded.value,
	expires_at = excluded.expires_at,
	secure = excluded.secure,
	same_site = excluded.same_site`,
		key, value, expiresAt, opts.Secure, string(opts.SameSite))
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
