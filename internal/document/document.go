// Package document owns the canonical mutable project tree and the
// operations over it: new/open/save/saveAs, the frame/layer mutation API
// and undo/redo. All persistence flows through the save coordinator, so
// no two logical saves and no two logical opens are ever in flight for
// one store.
package document

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/arcatdmz/koma/internal/blob"
	"github.com/arcatdmz/koma/internal/coordinator"
	"github.com/arcatdmz/koma/internal/history"
	"github.com/arcatdmz/koma/internal/metrics"
	"github.com/arcatdmz/koma/internal/model"
	"github.com/arcatdmz/koma/internal/serializer"
	"github.com/arcatdmz/koma/internal/storage"
)

// Dependencies holds all dependencies for the document store.
type Dependencies struct {
	Logger            *slog.Logger
	CoordinatorLogger coordinator.Logger
	Metrics           *metrics.Manager // optional
	HistoryCapacity   int
}

// Store is the document store. It starts with a deep clone of the default
// project template and no storage root bound.
type Store struct {
	mu      sync.Mutex
	project *model.Project
	root    storage.Root

	log     *slog.Logger
	blobs   *blob.Store
	ser     *serializer.Serializer
	hist    *history.Log
	coord   *coordinator.Coordinator
	metrics *metrics.Manager
}

// New creates a document store.
func New(deps Dependencies) (*Store, error) {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.CoordinatorLogger == nil {
		deps.CoordinatorLogger = deps.Logger
	}
	blobs := blob.NewStore()
	s := &Store{
		project: model.DefaultProject(),
		log:     deps.Logger,
		blobs:   blobs,
		ser:     serializer.New(blobs),
		hist:    history.NewLog(deps.HistoryCapacity),
		metrics: deps.Metrics,
	}
	coord, err := coordinator.New(s.persist, deps.CoordinatorLogger)
	if err != nil {
		return nil, fmt.Errorf("creating save coordinator: %w", err)
	}
	s.coord = coord
	s.hist.Push(s.project.Content())
	return s, nil
}

// Project returns the live project tree. Callers read it; all mutation
// goes through the mutation API so history and autosave stay consistent.
func (s *Store) Project() *model.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.project
}

// Root returns the currently bound storage root, or nil.
func (s *Store) Root() storage.Root {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.root
}

// SetRoot binds a storage root without loading from it.
func (s *Store) SetRoot(root storage.Root) {
	s.mu.Lock()
	s.root = root
	s.mu.Unlock()
}

// CreateNew resets the tree to a fresh default project and clears the
// undo history. When the bound root is a disposable scratch location its
// entries are deleted as well.
func (s *Store) CreateNew(ctx context.Context) error {
	s.coord.Pause()
	defer s.coord.Resume()

	s.mu.Lock()
	root := s.root
	s.project = model.DefaultProject()
	s.mu.Unlock()

	s.hist.Clear()
	s.hist.Push(s.Project().Content())

	if root != nil && root.Scratch() {
		s.blobs.Forget(root)
		names, err := root.List()
		if err != nil {
			return fmt.Errorf("listing scratch root: %w", err)
		}
		for _, name := range names {
			if err := root.Remove(name); err != nil {
				return fmt.Errorf("clearing scratch root: %w", err)
			}
		}
	}
	s.log.Info("created new project")
	return nil
}

// Open loads the project stored under root, replacing the current tree.
// It is single-flighted: a call arriving while another open is in flight
// is dropped. The load is all-or-nothing — on any failure the current
// tree stays installed.
func (s *Store) Open(ctx context.Context, root storage.Root) error {
	return s.coord.Open(ctx, func(ctx context.Context) error {
		if root == nil {
			root = s.Root()
		}
		if root == nil {
			return storage.ErrNoStorageContext
		}
		if err := storage.Ensure(root, storage.ModeRead); err != nil {
			return err
		}

		s.coord.Pause()
		defer s.coord.Resume()

		m, err := serializer.ReadManifest(root)
		if err != nil {
			return err
		}
		loaded, err := s.ser.Unflatten(m, root)
		if err != nil {
			return err
		}
		merged := model.MergeWithDefaults(loaded)
		if err := merged.Validate(); err != nil {
			return fmt.Errorf("%w: %v", serializer.ErrMalformedManifest, err)
		}

		s.mu.Lock()
		s.project = merged
		s.root = root
		s.mu.Unlock()

		s.hist.Clear()
		s.hist.Push(merged.Content())

		s.log.Info("opened project", "name", merged.Name, "root", root.Name(),
			"frames", len(merged.Komas))
		return nil
	})
}

// Save persists the current tree to the bound root, coalescing concurrent
// requests into one trailing run.
func (s *Store) Save(ctx context.Context) error {
	return s.coord.Save(ctx)
}

// SaveAs binds a new root and persists the current tree to it. Subsequent
// saves target the new root.
func (s *Store) SaveAs(ctx context.Context, root storage.Root) error {
	if root == nil {
		return storage.ErrNoStorageContext
	}
	s.SetRoot(root)
	return s.coord.Save(ctx)
}

// Undo restores the previous content snapshot. A no-op when the history
// cursor is already at the oldest entry.
func (s *Store) Undo(ctx context.Context) {
	c, ok := s.hist.Undo()
	if !ok {
		return
	}
	s.restore(ctx, c)
}

// Redo restores the next content snapshot. A no-op when the cursor is at
// the newest entry.
func (s *Store) Redo(ctx context.Context) {
	c, ok := s.hist.Redo()
	if !ok {
		return
	}
	s.restore(ctx, c)
}

// restore installs a snapshot directly, bypassing snapshot capture:
// applying undo/redo is a tracked mutation for autosave purposes but must
// not push new history entries.
func (s *Store) restore(ctx context.Context, c model.Content) {
	s.mu.Lock()
	s.project.SetContent(c)
	s.mu.Unlock()
	s.autosave(ctx)
}

// HistoryLen returns the number of stored undo snapshots.
func (s *Store) HistoryLen() int {
	return s.hist.Len()
}

// persist is the saver installed into the coordinator. It flattens a
// clone of the tree (blob identity survives cloning, so the blob store
// still skips unchanged assets) and writes the manifest last, after every
// asset is durable.
func (s *Store) persist(ctx context.Context) error {
	s.mu.Lock()
	root := s.root
	if root == nil {
		s.mu.Unlock()
		return storage.ErrNoStorageContext
	}
	p := s.project.Clone()
	s.mu.Unlock()

	if err := storage.Ensure(root, storage.ModeReadWrite); err != nil {
		return err
	}

	start := time.Now()
	m, err := s.ser.Flatten(p, root)
	if err == nil {
		err = serializer.WriteManifest(root, m)
	}

	if s.metrics != nil {
		s.metrics.RecordSave(p.Name, len(p.Komas), time.Since(start), err)
	}
	if err != nil {
		return err
	}
	s.log.Debug("saved project", "name", p.Name, "root", root.Name(),
		"duration", time.Since(start))
	return nil
}

// autosave marks the tree dirty. Mutators call it explicitly after every
// change; the coordinator coalesces the resulting save requests. Without
// a bound root there is nowhere to save, so the request is dropped.
func (s *Store) autosave(ctx context.Context) {
	if s.Root() == nil {
		return
	}
	if err := s.coord.Save(ctx); err != nil {
		s.log.Error("autosave failed", "error", err)
	}
}
