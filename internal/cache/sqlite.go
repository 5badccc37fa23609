// Package cache persists processed documents across runs, keyed by
// absolute path and invalidated by file modification time.
package cache

import (
	"bytes"
	"compress/flate"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/docfind/docfind/internal/errors"
	"github.com/docfind/docfind/internal/index"
)

// Store is a SQLite-backed document cache. A lookup hits only when the
// file's current mtime equals the mtime recorded at store time.
type Store struct {
	mu     sync.RWMutex
	db     *sql.DB
	path   string
	closed bool
}

// validateIntegrity checks an existing cache database before opening.
// Returns nil when the file is absent or passes the integrity check.
func validateIntegrity(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	db, err := sql.Open("sqlite", path+"?mode=ro")
	if err != nil {
		return fmt.Errorf("cannot open for validation: %w", err)
	}
	defer db.Close()

	var result string
	if err := db.QueryRow("PRAGMA integrity_check").Scan(&result); err != nil {
		return fmt.Errorf("integrity check failed: %w", err)
	}
	if result != "ok" {
		return fmt.Errorf("database corrupted: %s", result)
	}
	return nil
}

// Open creates or opens the cache database at path. An empty path opens
// an in-memory cache for testing. A corrupted database is removed and
// recreated rather than failing the run.
func Open(path string) (*Store, error) {
	var dsn string
	if path == "" {
		dsn = ":memory:"
	} else {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, errors.CacheError(fmt.Sprintf("create cache directory %s", dir), err)
		}

		if validErr := validateIntegrity(path); validErr != nil {
			slog.Warn("cache_db_corrupted",
				slog.String("path", path),
				slog.String("error", validErr.Error()))

			if removeErr := os.Remove(path); removeErr != nil && !os.IsNotExist(removeErr) {
				return nil, errors.CacheError(
					fmt.Sprintf("cache corrupted at %s and cannot remove", path), removeErr)
			}
			_ = os.Remove(path + "-wal")
			_ = os.Remove(path + "-shm")

			slog.Info("cache_db_cleared", slog.String("path", path))
		}

		dsn = path + "?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.CacheError("open cache database", err)
	}

	// Single writer to prevent lock contention.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	// WAL must be set via PRAGMA for modernc.org/sqlite; DSN params
	// may be ignored.
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA temp_store = MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, errors.CacheError("set pragma", err)
		}
	}

	s := &Store{db: db, path: path}
	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, errors.CacheError("initialize cache schema", err)
	}
	return s, nil
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY
	);

	CREATE TABLE IF NOT EXISTS document_cache (
		path          TEXT PRIMARY KEY,
		last_modified INTEGER NOT NULL,
		payload       BLOB NOT NULL,
		created_at    INTEGER NOT NULL
	);

	INSERT OR IGNORE INTO schema_version (version) VALUES (1);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Lookup returns the cached document for path when the entry's recorded
// mtime matches the file's current mtime. A missing entry, stale mtime,
// or undecodable payload all report a miss.
func (s *Store) Lookup(ctx context.Context, path string) (*index.Document, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, false, errors.CacheError("cache is closed", nil)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, false, errors.FileAccessError(path, err)
	}
	currentMtime := info.ModTime().Unix()

	var storedMtime int64
	var payload []byte
	row := s.db.QueryRowContext(ctx,
		`SELECT last_modified, payload FROM document_cache WHERE path = ?`, path)
	if err := row.Scan(&storedMtime, &payload); err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, errors.CacheError("query cache entry", err)
	}

	if storedMtime != currentMtime {
		return nil, false, nil
	}

	doc, err := decodePayload(payload)
	if err != nil {
		slog.Warn("cache_payload_undecodable",
			slog.String("path", path),
			slog.String("error", err.Error()))
		return nil, false, nil
	}
	return doc, true, nil
}

// Store writes or replaces the cache entry for doc.Path, recording the
// file's current mtime.
func (s *Store) Store(ctx context.Context, doc *index.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errors.CacheError("cache is closed", nil)
	}

	info, err := os.Stat(doc.Path)
	if err != nil {
		return errors.FileAccessError(doc.Path, err)
	}

	payload, err := encodePayload(doc)
	if err != nil {
		return errors.CacheError("encode cache payload", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.CacheError("begin cache transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO document_cache (path, last_modified, payload, created_at)
		 VALUES (?, ?, ?, ?)`,
		doc.Path, info.ModTime().Unix(), payload, time.Now().Unix())
	if err != nil {
		return errors.CacheError("write cache entry", err)
	}
	return tx.Commit()
}

// Invalidate removes the cache entry for path. Removing an absent entry
// is not an error.
func (s *Store) Invalidate(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errors.CacheError("cache is closed", nil)
	}

	_, err := s.db.ExecContext(ctx,
		`DELETE FROM document_cache WHERE path = ?`, path)
	if err != nil {
		return errors.CacheError("invalidate cache entry", err)
	}
	return nil
}

// ClearAll removes every cache entry.
func (s *Store) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errors.CacheError("cache is closed", nil)
	}

	_, err := s.db.ExecContext(ctx, `DELETE FROM document_cache`)
	if err != nil {
		return errors.CacheError("clear cache", err)
	}
	return nil
}

// Count returns the number of cached entries.
func (s *Store) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return 0, errors.CacheError("cache is closed", nil)
	}

	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM document_cache`).Scan(&n)
	if err != nil {
		return 0, errors.CacheError("count cache entries", err)
	}
	return n, nil
}

// Close releases the database handle. Safe to call more than once.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

// encodePayload serializes a document as deflate-compressed JSON.
func encodePayload(doc *index.Document) ([]byte, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.DefaultCompression)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(raw); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodePayload(payload []byte) (*index.Document, error) {
	r := flate.NewReader(bytes.NewReader(payload))
	defer r.Close()

	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var doc index.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	if doc.WordPositions == nil {
		doc.WordPositions = map[string][]int{}
	}
	return &doc, nil
}
