// Package pgstorage implements the storage.Root contract over a shared
// Postgres database, for studios that keep project assets on a central
// server. It wraps the gormroot backend via composition.
package pgstorage

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/arcatdmz/koma/internal/database"
	"github.com/arcatdmz/koma/internal/storage/gormroot"
)

// Config holds configuration for the Postgres root. Connection settings
// come from the db.* configuration keys.
type Config struct {
	Project string
}

// Root wraps the gormroot backend for Postgres.
type Root struct {
	*gormroot.Root
}

// New connects to the configured Postgres database and returns a root
// scoped to the given project name. Postgres roots are never scratch.
func New(cfg Config, log zerolog.Logger) (*Root, error) {
	db, err := database.NewManager(log).GetPostgresDB()
	if err != nil {
		return nil, fmt.Errorf("connecting to Postgres: %w", err)
	}
	inner, err := gormroot.New(db, cfg.Project, false)
	if err != nil {
		return nil, err
	}
	return &Root{Root: inner}, nil
}
