// Package cache persists chart ratings in a local SQLite database.
//
// Rows are keyed by chart digest, playback rate, and the engine params
// fingerprint, so retuning the engine naturally invalidates old entries.
// Only the scan collaborator uses the cache; the core pipeline never
// touches storage.
package cache

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/seiru/msdcalc/internal/skillset"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS ratings (
	digest      TEXT NOT NULL,
	rate        REAL NOT NULL,
	fingerprint TEXT NOT NULL,
	overall     REAL NOT NULL,
	stream      REAL NOT NULL,
	jumpstream  REAL NOT NULL,
	handstream  REAL NOT NULL,
	stamina     REAL NOT NULL,
	jackspeed   REAL NOT NULL,
	chordjack   REAL NOT NULL,
	technical   REAL NOT NULL,
	created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (digest, rate, fingerprint)
);`

// Store is a rating cache backed by a single SQLite file.
type Store struct {
	db *sql.DB
}

// Open creates a Store at path, creating the file, its parent directory,
// and the schema as needed. It applies recommended pragmas.
func Open(path string) (*Store, error) {
	if err := ensureDir(path); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Digest returns the cache key for raw chart bytes.
func Digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Get looks up the scores for (digest, rate, fingerprint). The second
// return value reports whether the row existed.
func (s *Store) Get(ctx context.Context, digest string, rate float64, fingerprint string) (skillset.ScoreSet, bool, error) {
	const query = `
SELECT overall, stream, jumpstream, handstream, stamina, jackspeed, chordjack, technical
FROM ratings WHERE digest = ? AND rate = ? AND fingerprint = ?`

	var scores skillset.ScoreSet
	err := s.db.QueryRowContext(ctx, query, digest, rate, fingerprint).Scan(
		&scores.Overall,
		&scores.Stream,
		&scores.Jumpstream,
		&scores.Handstream,
		&scores.Stamina,
		&scores.JackSpeed,
		&scores.Chordjack,
		&scores.Technical,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return skillset.ScoreSet{}, false, nil
	}
	if err != nil {
		return skillset.ScoreSet{}, false, fmt.Errorf("cache lookup: %w", err)
	}
	return scores, true, nil
}

// Put stores the scores for (digest, rate, fingerprint), replacing any
// previous row with the same key.
func (s *Store) Put(ctx context.Context, digest string, rate float64, fingerprint string, scores skillset.ScoreSet) error {
	const query = `
INSERT OR REPLACE INTO ratings
(digest, rate, fingerprint, overall, stream, jumpstream, handstream, stamina, jackspeed, chordjack, technical)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		digest,
		rate,
		fingerprint,
		scores.Overall,
		scores.Stream,
		scores.Jumpstream,
		scores.Handstream,
		scores.Stamina,
		scores.JackSpeed,
		scores.Chordjack,
		scores.Technical,
	)
	if err != nil {
		return fmt.Errorf("cache store: %w", err)
	}
	return nil
}

// PurgeStale deletes every row computed under a different fingerprint.
// Scans call it once at startup so retired tunings do not pile up.
func (s *Store) PurgeStale(ctx context.Context, fingerprint string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM ratings WHERE fingerprint != ?`, fingerprint)
	if err != nil {
		return 0, fmt.Errorf("cache purge: %w", err)
	}
	return res.RowsAffected()
}

// Count returns the number of cached ratings.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM ratings`).Scan(&n); err != nil {
		return 0, fmt.Errorf("cache count: %w", err)
	}
	return n, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// applyPragmas configures SQLite for single-process scanning workloads.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// ensureDir creates the parent directory of path if it doesn't exist.
func ensureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
