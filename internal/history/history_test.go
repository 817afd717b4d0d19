package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcatdmz/koma/internal/model"
)

func contentAt(frame int) model.Content {
	return model.Content{
		CaptureShot: model.Cursor{Frame: frame},
		Komas:       []model.Koma{},
	}
}

func TestUndoRedoWalk(t *testing.T) {
	log := NewLog(0)
	for i := 0; i < 3; i++ {
		log.Push(contentAt(i))
	}

	c, ok := log.Undo()
	require.True(t, ok)
	assert.Equal(t, 1, c.CaptureShot.Frame)

	c, ok = log.Undo()
	require.True(t, ok)
	assert.Equal(t, 0, c.CaptureShot.Frame)

	_, ok = log.Undo()
	assert.False(t, ok, "cursor clamps at the oldest snapshot")

	c, ok = log.Redo()
	require.True(t, ok)
	assert.Equal(t, 1, c.CaptureShot.Frame)

	c, ok = log.Redo()
	require.True(t, ok)
	assert.Equal(t, 2, c.CaptureShot.Frame)

	_, ok = log.Redo()
	assert.False(t, ok, "cursor clamps at the newest snapshot")
}

func TestEmptyLog(t *testing.T) {
	log := NewLog(0)

	_, ok := log.Undo()
	assert.False(t, ok)
	_, ok = log.Redo()
	assert.False(t, ok)
}

func TestPushDropsRedoTail(t *testing.T) {
	log := NewLog(0)
	for i := 0; i < 3; i++ {
		log.Push(contentAt(i))
	}

	_, ok := log.Undo()
	require.True(t, ok)
	_, ok = log.Undo()
	require.True(t, ok)

	log.Push(contentAt(99))

	_, ok = log.Redo()
	assert.False(t, ok, "a push after undo discards the redo tail")
	assert.Equal(t, 2, log.Len())

	c, ok := log.Undo()
	require.True(t, ok)
	assert.Equal(t, 0, c.CaptureShot.Frame)
}

func TestCapacityEvictsOldest(t *testing.T) {
	log := NewLog(5)
	for i := 0; i < 8; i++ {
		log.Push(contentAt(i))
	}

	assert.Equal(t, 5, log.Len())

	// Walk back to the oldest surviving snapshot.
	var last model.Content
	for {
		c, ok := log.Undo()
		if !ok {
			break
		}
		last = c
	}
	assert.Equal(t, 3, last.CaptureShot.Frame)
}

func TestSnapshotsAreIsolated(t *testing.T) {
	log := NewLog(0)
	content := model.Content{
		CaptureShot: model.Cursor{Frame: 1, Layer: 0},
		Komas:       []model.Koma{{Shots: []*model.Shot{nil}}},
	}
	log.Push(content)
	log.Push(contentAt(7))

	// Mutating the original after the push must not affect the snapshot.
	content.Komas[0].Shots = append(content.Komas[0].Shots, nil)

	restored, ok := log.Undo()
	require.True(t, ok)
	require.Len(t, restored.Komas, 1)
	assert.Len(t, restored.Komas[0].Shots, 1)

	// Mutating a restored clone must not affect the log either.
	restored.Komas[0].Shots = nil
	again, ok := log.Redo()
	require.True(t, ok)
	_ = again
	back, ok := log.Undo()
	require.True(t, ok)
	assert.Len(t, back.Komas[0].Shots, 1)
}

func TestClear(t *testing.T) {
	log := NewLog(0)
	for i := 0; i < 3; i++ {
		log.Push(contentAt(i))
	}

	log.Clear()
	assert.Equal(t, 0, log.Len())
	_, ok := log.Undo()
	assert.False(t, ok)
}

func TestDefaultCapacity(t *testing.T) {
	log := NewLog(-1)
	for i := 0; i < DefaultCapacity+10; i++ {
		log.Push(contentAt(i))
	}
	assert.Equal(t, DefaultCapacity, log.Len())
}
