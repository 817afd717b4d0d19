// Package blob persists binary values under project roots and memoizes
// writes so re-saving an unchanged project skips all asset I/O.
// Memoization is keyed on blob identity, not content: two blobs holding
// identical bytes are written twice. The memo is an in-process cache with
// no durability meaning; dropping it only costs redundant writes.
package blob

import (
	"fmt"
	"sync"

	"github.com/arcatdmz/koma/internal/model"
	"github.com/arcatdmz/koma/internal/storage"
)

type memoKey struct {
	blobID   string
	filename string
}

// Store saves and opens blobs against storage roots.
type Store struct {
	mu    sync.Mutex
	saved map[storage.Root]map[memoKey]struct{}
}

// NewStore creates an empty blob store.
func NewStore() *Store {
	return &Store{
		saved: make(map[storage.Root]map[memoKey]struct{}),
	}
}

// Save persists the blob under the given filename and returns the
// filename. Saving the same blob instance under the same filename for the
// same root is a no-op.
func (s *Store) Save(root storage.Root, filename string, b *model.Blob) (string, error) {
	if root == nil {
		return "", storage.ErrNoStorageContext
	}
	key := memoKey{blobID: b.ID(), filename: filename}

	s.mu.Lock()
	if _, ok := s.saved[root][key]; ok {
		s.mu.Unlock()
		return filename, nil
	}
	s.mu.Unlock()

	if err := storage.Ensure(root, storage.ModeReadWrite); err != nil {
		return "", err
	}
	f, err := root.File(filename, true)
	if err != nil {
		return "", err
	}
	w, err := f.OpenWritable()
	if err != nil {
		return "", err
	}
	if err := w.Write(b.Data()); err != nil {
		w.Close()
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("committing %s: %w", filename, err)
	}

	s.remember(root, key)
	return filename, nil
}

// Open reads the named blob from the root. The result is recorded in the
// memo, so saving a freshly loaded blob back under its own name performs
// no I/O.
func (s *Store) Open(root storage.Root, filename string) (*model.Blob, error) {
	if root == nil {
		return nil, storage.ErrNoStorageContext
	}
	if err := storage.Ensure(root, storage.ModeRead); err != nil {
		return nil, err
	}
	f, err := root.File(filename, false)
	if err != nil {
		return nil, err
	}
	data, err := f.ReadBinary()
	if err != nil {
		return nil, err
	}
	b := model.NewBlob(data)
	s.remember(root, memoKey{blobID: b.ID(), filename: filename})
	return b, nil
}

// Forget drops all memo entries for a root. Called when a root is wiped
// or unbound.
func (s *Store) Forget(root storage.Root) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.saved, root)
}

func (s *Store) remember(root storage.Root, key memoKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.saved[root]
	if !ok {
		m = make(map[memoKey]struct{})
		s.saved[root] = m
	}
	m[key] = struct{}{}
}
