// internal/storage/memory/memory.go
package memorystorage

import (
	"fmt"
	"sort"
	"sync"

	"github.com/arcatdmz/koma/internal/storage"
)

// Config holds in-memory root settings. The permission fields let tests
// exercise the prompt/deny paths; the zero value grants everything.
type Config struct {
	Name        string
	Scratch     bool
	ReadPerm    storage.Permission
	WritePerm   storage.Permission
	GrantPrompt bool // whether RequestPermission upgrades Prompt to Granted
}

// Root stores entries in memory. Writers buffer their content and commit
// on Close, matching the observable atomicity of the filesystem root.
type Root struct {
	mu      sync.RWMutex
	cfg     Config
	entries map[string][]byte
}

// New creates an empty in-memory root.
func New(cfg Config) *Root {
	if cfg.Name == "" {
		cfg.Name = "memory"
	}
	return &Root{
		cfg:     cfg,
		entries: make(map[string][]byte),
	}
}

func (r *Root) Name() string {
	return r.cfg.Name
}

func (r *Root) Scratch() bool {
	return r.cfg.Scratch
}

func (r *Root) File(name string, create bool) (storage.File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[name]; !ok {
		if !create {
			return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, name)
		}
		r.entries[name] = []byte{}
	}
	return &file{root: r, name: name}, nil
}

func (r *Root) Remove(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, name)
	return nil
}

func (r *Root) List() ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (r *Root) Permission(mode storage.Mode) storage.Permission {
	if mode == storage.ModeRead {
		return r.cfg.ReadPerm
	}
	return r.cfg.WritePerm
}

func (r *Root) RequestPermission(mode storage.Mode) storage.Permission {
	p := r.Permission(mode)
	if p == storage.Prompt && r.cfg.GrantPrompt {
		r.mu.Lock()
		if mode == storage.ModeRead {
			r.cfg.ReadPerm = storage.Granted
		} else {
			r.cfg.WritePerm = storage.Granted
		}
		r.mu.Unlock()
		return storage.Granted
	}
	if p == storage.Prompt {
		return storage.Denied
	}
	return p
}

// Len returns the number of entries; used by tests.
func (r *Root) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
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
	f.root.mu.RLock()
	defer f.root.mu.RUnlock()
	data, ok := f.root.entries[f.name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, f.name)
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
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
	w.file.root.mu.Lock()
	defer w.file.root.mu.Unlock()
	w.file.root.entries[w.file.name] = w.buf
	return nil
}
