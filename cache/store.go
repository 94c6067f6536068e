package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chazu/bridgegen/codegen"
	"github.com/fxamacker/cbor/v2"

	_ "modernc.org/sqlite"
)

// ErrMiss indicates that no artifacts are stored under a fingerprint.
var ErrMiss = errors.New("cache miss")

// entry is the stored form of one module's artifacts.
type entry struct {
	Rust    string `cbor:"rust"`
	Swift   string `cbor:"swift"`
	CHeader string `cbor:"header"`
}

// Store is an SQLite database of generated artifacts keyed by fingerprint.
// It is safe for concurrent use; writes are serialized by database/sql.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates the cache database at path.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating cache directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}
	// A single connection keeps ":memory:" databases alive and serializes writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}
	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS artifacts (
		key     TEXT PRIMARY KEY,
		module  TEXT NOT NULL,
		data    BLOB NOT NULL,
		created INTEGER NOT NULL
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating table: %w", err)
	}
	log.Debugf("opened cache %s", path)
	return &Store{db: db, path: path}, nil
}

// Path returns the database location.
func (s *Store) Path() string { return s.path }

// Close closes the database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Get returns the artifacts stored under key, or ErrMiss.
func (s *Store) Get(ctx context.Context, key string) (*codegen.Artifacts, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, "SELECT data FROM artifacts WHERE key = ?", key).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMiss
		}
		return nil, fmt.Errorf("querying cache: %w", err)
	}
	var e entry
	if err := cbor.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("cache: unmarshal artifacts: %w", err)
	}
	return &codegen.Artifacts{Rust: e.Rust, Swift: e.Swift, CHeader: e.CHeader}, nil
}

// Put stores out under key, replacing any previous entry.
func (s *Store) Put(ctx context.Context, key, module string, out *codegen.Artifacts) error {
	data, err := encMode.Marshal(entry{Rust: out.Rust, Swift: out.Swift, CHeader: out.CHeader})
	if err != nil {
		return fmt.Errorf("cache: marshal artifacts: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO artifacts (key, module, data, created) VALUES (?, ?, ?, ?)",
		key, module, data, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("saving artifacts: %w", err)
	}
	log.Debugf("cached %s as %s", module, key[:min(12, len(key))])
	return nil
}

// Len returns the number of stored entries.
func (s *Store) Len(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM artifacts").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting cache entries: %w", err)
	}
	return n, nil
}

// Clear removes every entry.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM artifacts"); err != nil {
		return fmt.Errorf("clearing cache: %w", err)
	}
	return nil
}
