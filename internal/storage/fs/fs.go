// Package fsstorage implements the storage.Root contract over an OS
// directory. Writes go to a temporary file in the same directory and are
// renamed over the target on Close, so readers observe either the old or
// the new content, never a truncated file.
package fsstorage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/arcatdmz/koma/internal/storage"
)

// Config holds filesystem root settings.
type Config struct {
	Dir     string
	Scratch bool // wiped on new-project
}

// Root is a project root backed by one OS directory.
type Root struct {
	cfg Config
}

// New creates the directory when absent and returns a root over it.
func New(cfg Config) (*Root, error) {
	if cfg.Dir == "" {
		return nil, storage.ErrNoStorageContext
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating root dir: %w", err)
	}
	return &Root{cfg: cfg}, nil
}

// Name returns the directory path.
func (r *Root) Name() string {
	return r.cfg.Dir
}

// Scratch reports whether the directory is a disposable scratch location.
func (r *Root) Scratch() bool {
	return r.cfg.Scratch
}

// File resolves a named entry in the directory.
func (r *Root) File(name string, create bool) (storage.File, error) {
	path := filepath.Join(r.cfg.Dir, filepath.Base(name))
	_, err := os.Stat(path)
	switch {
	case err == nil:
	case errors.Is(err, fs.ErrNotExist):
		if !create {
			return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, name)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("creating %s: %w", name, err)
		}
		if err := f.Close(); err != nil {
			return nil, fmt.Errorf("creating %s: %w", name, err)
		}
	case errors.Is(err, fs.ErrPermission):
		return nil, fmt.Errorf("%w: %s", storage.ErrPermissionDenied, name)
	default:
		return nil, fmt.Errorf("stat %s: %w", name, err)
	}
	return &file{path: path, name: filepath.Base(name)}, nil
}

// Remove deletes a named entry. Missing entries are ignored.
func (r *Root) Remove(name string) error {
	err := os.Remove(filepath.Join(r.cfg.Dir, filepath.Base(name)))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing %s: %w", name, err)
	}
	return nil
}

// List returns the names of all regular files in the directory.
func (r *Root) List() ([]string, error) {
	entries, err := os.ReadDir(r.cfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("listing root: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// Permission always reports Granted; OS-level access failures surface as
// ErrPermissionDenied from the individual operations instead.
func (r *Root) Permission(storage.Mode) storage.Permission {
	return storage.Granted
}

// RequestPermission always reports Granted.
func (r *Root) RequestPermission(storage.Mode) storage.Permission {
	return storage.Granted
}

type file struct {
	path string
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
	b, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, f.name)
	}
	if errors.Is(err, fs.ErrPermission) {
		return nil, fmt.Errorf("%w: %s", storage.ErrPermissionDenied, f.name)
	}
	return b, err
}

func (f *file) OpenWritable() (storage.Writer, error) {
	tmp, err := os.CreateTemp(filepath.Dir(f.path), "."+f.name+".*")
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return nil, fmt.Errorf("%w: %s", storage.ErrPermissionDenied, f.name)
		}
		return nil, fmt.Errorf("opening %s for write: %w", f.name, err)
	}
	return &writer{tmp: tmp, target: f.path}, nil
}

type writer struct {
	tmp    *os.File
	target string
	failed bool
}

func (w *writer) Write(p []byte) error {
	if _, err := w.tmp.Write(p); err != nil {
		w.failed = true
		return fmt.Errorf("writing %s: %w", w.target, err)
	}
	return nil
}

// Close commits the write by renaming the temp file over the target. On
// failure the temp file is discarded and the target keeps its previous
// content.
func (w *writer) Close() error {
	if w.failed {
		w.tmp.Close()
		os.Remove(w.tmp.Name())
		return fmt.Errorf("write to %s aborted", w.target)
	}
	if err := w.tmp.Sync(); err != nil {
		w.tmp.Close()
		os.Remove(w.tmp.Name())
		return fmt.Errorf("syncing %s: %w", w.target, err)
	}
	if err := w.tmp.Close(); err != nil {
		os.Remove(w.tmp.Name())
		return fmt.Errorf("closing temp for %s: %w", w.target, err)
	}
	if err := os.Rename(w.tmp.Name(), w.target); err != nil {
		os.Remove(w.tmp.Name())
		return fmt.Errorf("committing %s: %w", w.target, err)
	}
	return nil
}
