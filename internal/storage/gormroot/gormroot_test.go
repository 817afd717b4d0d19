package gormroot

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcatdmz/koma/internal/database"
	"github.com/arcatdmz/koma/internal/storage"
)

func newTestRoot(t *testing.T, project string) *Root {
	t.Helper()
	db, err := database.NewManager(zerolog.Nop()).
		GetSqliteDB(filepath.Join(t.TempDir(), "roots.db"))
	require.NoError(t, err)

	root, err := New(db, project, false)
	require.NoError(t, err)
	return root
}

func TestUpsertRoundTrip(t *testing.T) {
	root := newTestRoot(t, "clay")

	f, err := root.File("shot.jpg", true)
	require.NoError(t, err)

	w, err := f.OpenWritable()
	require.NoError(t, err)
	require.NoError(t, w.Write([]byte("v1")))
	require.NoError(t, w.Close())

	// Overwrite replaces the full row content.
	w, err = f.OpenWritable()
	require.NoError(t, err)
	require.NoError(t, w.Write([]byte("v2 longer")))
	require.NoError(t, w.Close())

	got, err := f.ReadBinary()
	require.NoError(t, err)
	assert.Equal(t, []byte("v2 longer"), got)
}

func TestNotFound(t *testing.T) {
	root := newTestRoot(t, "clay")

	_, err := root.File("missing.jpg", false)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestProjectsAreIsolated(t *testing.T) {
	db, err := database.NewManager(zerolog.Nop()).
		GetSqliteDB(filepath.Join(t.TempDir(), "roots.db"))
	require.NoError(t, err)

	a, err := New(db, "project-a", false)
	require.NoError(t, err)
	b, err := New(db, "project-b", false)
	require.NoError(t, err)

	f, err := a.File("x.jpg", true)
	require.NoError(t, err)
	w, err := f.OpenWritable()
	require.NoError(t, err)
	require.NoError(t, w.Write([]byte("a's bytes")))
	require.NoError(t, w.Close())

	_, err = b.File("x.jpg", false)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	names, err := a.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"x.jpg"}, names)
}

func TestRemoveAndList(t *testing.T) {
	root := newTestRoot(t, "clay")

	for _, name := range []string{"b.wav", "a.jpg"} {
		_, err := root.File(name, true)
		require.NoError(t, err)
	}

	names, err := root.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"a.jpg", "b.wav"}, names)

	require.NoError(t, root.Remove("a.jpg"))
	require.NoError(t, root.Remove("a.jpg"), "removing a missing entry is not an error")

	names, err = root.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"b.wav"}, names)
}
