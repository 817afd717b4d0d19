// Package sqlitestorage implements the storage.Root contract over a local
// SQLite database file. It wraps the gormroot backend via composition —
// the only SQLite-specific concern is connection acquisition.
package sqlitestorage

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/arcatdmz/koma/internal/database"
	"github.com/arcatdmz/koma/internal/storage/gormroot"
)

// Config holds configuration for the SQLite root.
type Config struct {
	Path    string // database file; empty for in-memory
	Project string
	Scratch bool
}

// Root wraps the gormroot backend for SQLite.
type Root struct {
	*gormroot.Root
}

// New opens (or creates) the database file and returns a root scoped to
// the configured project name.
func New(cfg Config, log zerolog.Logger) (*Root, error) {
	db, err := database.NewManager(log).GetSqliteDB(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("opening SQLite DB: %w", err)
	}
	inner, err := gormroot.New(db, cfg.Project, cfg.Scratch)
	if err != nil {
		return nil, err
	}
	return &Root{Root: inner}, nil
}
