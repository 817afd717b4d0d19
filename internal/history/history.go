// Package history keeps a bounded log of deep-cloned content snapshots
// for undo/redo. Only the undoable sub-tree (capture cursor + komas) is
// tracked; session state never enters the log.
package history

import (
	"sync"

	"github.com/arcatdmz/koma/internal/model"
)

// DefaultCapacity bounds the log when no capacity is configured.
const DefaultCapacity = 400

// Log is a fixed-capacity history of content snapshots with a cursor.
// When the log is full the oldest snapshot is evicted. Pushing while the
// cursor sits behind the newest entry discards the redo tail.
type Log struct {
	mu     sync.Mutex
	snaps  []model.Content
	cursor int // index of the current snapshot, -1 when empty
	cap    int
}

// NewLog creates an empty log. A capacity below 1 falls back to
// DefaultCapacity.
func NewLog(capacity int) *Log {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Log{
		snaps:  make([]model.Content, 0, capacity),
		cursor: -1,
		cap:    capacity,
	}
}

// Push records a deep clone of the content as the newest snapshot.
func (l *Log) Push(c model.Content) {
	l.mu.Lock()
	defer l.mu.Unlock()

	// Drop any redo tail.
	l.snaps = l.snaps[:l.cursor+1]

	if len(l.snaps) == l.cap {
		copy(l.snaps, l.snaps[1:])
		l.snaps = l.snaps[:l.cap-1]
	}
	l.snaps = append(l.snaps, c.Clone())
	l.cursor = len(l.snaps) - 1
}

// Undo moves the cursor one snapshot back and returns a clone of it.
// Returns false when there is nothing to undo; the cursor clamps without
// error.
func (l *Log) Undo() (model.Content, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cursor <= 0 {
		return model.Content{}, false
	}
	l.cursor--
	return l.snaps[l.cursor].Clone(), true
}

// Redo moves the cursor one snapshot forward and returns a clone of it.
// Returns false when there is nothing to redo.
func (l *Log) Redo() (model.Content, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cursor < 0 || l.cursor >= len(l.snaps)-1 {
		return model.Content{}, false
	}
	l.cursor++
	return l.snaps[l.cursor].Clone(), true
}

// Clear discards all snapshots and resets the cursor. Called after open
// and new-project, since loaded content is not something to undo out of.
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.snaps = l.snaps[:0]
	l.cursor = -1
}

// Len returns the number of stored snapshots.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.snaps)
}
