// Package store persists computed bounding boxes in a SQLite database so a
// new session skips the per-image pixel scans for assets it has seen
// before. The store is a cache, not a source of truth: callers treat every
// failure as a miss.
package store

import (
	"database/sql"
	"fmt"
	"sync"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/apehub/apegen/internal/bbox"
)

// Store is a sqlite-backed bbox.Store.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open opens (creating if needed) the box database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open box store: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close() // nolint:errcheck
			return nil, fmt.Errorf("failed to set pragma %q: %w", pragma, err)
		}
	}

	schema := `CREATE TABLE IF NOT EXISTS boxes (
		source TEXT PRIMARY KEY,
		x REAL NOT NULL,
		y REAL NOT NULL,
		width REAL NOT NULL,
		height REAL NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close() // nolint:errcheck
		return nil, fmt.Errorf("failed to create box schema: %w", err)
	}

	return &Store{db: db}, nil
}

// GetBox returns the stored box for a source, if present.
func (s *Store) GetBox(source string) (bbox.Box, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var box bbox.Box
	row := s.db.QueryRow("SELECT x, y, width, height FROM boxes WHERE source = ?", source)
	if err := row.Scan(&box.X, &box.Y, &box.Width, &box.Height); err != nil {
		if err == sql.ErrNoRows {
			return bbox.Box{}, false, nil
		}
		return bbox.Box{}, false, fmt.Errorf("failed to read box for %s: %w", source, err)
	}

	box.CenterX = box.X + box.Width/2
	box.CenterY = box.Y + box.Height/2
	return box, true, nil
}

// PutBox upserts the box for a source.
func (s *Store) PutBox(source string, box bbox.Box) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		"INSERT OR REPLACE INTO boxes (source, x, y, width, height) VALUES (?, ?, ?, ?, ?)",
		source, box.X, box.Y, box.Width, box.Height,
	)
	if err != nil {
		return fmt.Errorf("failed to store box for %s: %w", source, err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
