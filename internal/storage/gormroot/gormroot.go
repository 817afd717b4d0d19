// Package gormroot implements the storage.Root contract over a GORM
// database: each named file under the root is one row keyed by name. The
// SQLite and Postgres roots wrap it with driver-specific connection
// acquisition — the only database-specific concern lives there.
package gormroot

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/arcatdmz/koma/internal/storage"
)

// Entry is one named file stored as a row.
type Entry struct {
	Project string `gorm:"primaryKey;size:255"`
	Name    string `gorm:"primaryKey;size:255"`
	Data    []byte
	Meta    datatypes.JSON
}

// TableName keeps the table name stable across dialects.
func (Entry) TableName() string {
	return "project_files"
}

// entryMeta is the JSON stored in the Meta column.
type entryMeta struct {
	Size      int       `json:"size"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Root is a project root backed by a project_files table.
type Root struct {
	db      *gorm.DB
	project string
	scratch bool
}

// New migrates the file table and returns a root scoped to one project
// name.
func New(db *gorm.DB, project string, scratch bool) (*Root, error) {
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("migrating project_files: %w", err)
	}
	return &Root{db: db, project: project, scratch: scratch}, nil
}

func (r *Root) Name() string {
	return r.project
}

func (r *Root) Scratch() bool {
	return r.scratch
}

func (r *Root) File(name string, create bool) (storage.File, error) {
	var count int64
	err := r.db.Model(&Entry{}).
		Where("project = ? AND name = ?", r.project, name).
		Count(&count).Error
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", name, err)
	}
	if count == 0 {
		if !create {
			return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, name)
		}
		if err := r.put(name, []byte{}); err != nil {
			return nil, err
		}
	}
	return &file{root: r, name: name}, nil
}

func (r *Root) Remove(name string) error {
	err := r.db.Where("project = ? AND name = ?", r.project, name).
		Delete(&Entry{}).Error
	if err != nil {
		return fmt.Errorf("removing %s: %w", name, err)
	}
	return nil
}

func (r *Root) List() ([]string, error) {
	var names []string
	err := r.db.Model(&Entry{}).
		Where("project = ?", r.project).
		Pluck("name", &names).Error
	if err != nil {
		return nil, fmt.Errorf("listing root: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

// Permission reports Granted; database access control is handled by the
// connection credentials, not interactive prompts.
func (r *Root) Permission(storage.Mode) storage.Permission {
	return storage.Granted
}

func (r *Root) RequestPermission(storage.Mode) storage.Permission {
	return storage.Granted
}

// put upserts a row inside a transaction, so readers observe the old or
// the new content in full.
func (r *Root) put(name string, data []byte) error {
	metaJSON, err := json.Marshal(entryMeta{
		Size:      len(data),
		UpdatedAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("encoding meta for %s: %w", name, err)
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		entry := Entry{
			Project: r.project,
			Name:    name,
			Data:    data,
			Meta:    datatypes.JSON(metaJSON),
		}
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "project"}, {Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"data", "meta"}),
		}).Create(&entry).Error
		if err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}
		return nil
	})
}

type file struct {
	root *Root
	name string
}

func (f *file) Name() string {
	return f.name
}

func (f *file) ReadText() (string, error) {
	b, err := f.ReadBinary()
	return string(b), err
}

func (f *file) ReadBinary() ([]byte, error) {
	var entry Entry
	err := f.root.db.
		Where("project = ? AND name = ?", f.root.project, f.name).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, f.name)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", f.name, err)
	}
	return entry.Data, nil
}

func (f *file) OpenWritable() (storage.Writer, error) {
	return &writer{file: f}, nil
}

type writer struct {
	file   *file
	buf    []byte
	closed bool
}

func (w *writer) Write(p []byte) error {
	if w.closed {
		return fmt.Errorf("write to %s after close", w.file.name)
	}
	w.buf = append(w.buf, p...)
	return nil
}

func (w *writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	return w.file.root.put(w.file.name, w.buf)
}
