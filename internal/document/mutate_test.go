package document

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcatdmz/koma/internal/model"
)

func TestSetShotGrowsOnDemand(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	shot := &model.Shot{JPG: model.NewBlob([]byte("x"))}

	s.SetShot(ctx, 5, 2, shot)

	p := s.Project()
	require.Len(t, p.Komas, 6)
	require.Len(t, p.Komas[5].Shots, 3)
	assert.Nil(t, p.Komas[5].Shots[0])
	assert.Nil(t, p.Komas[5].Shots[1])
	assert.Same(t, shot, p.Komas[5].Shots[2])
	assert.Empty(t, p.Komas[0].Shots, "intermediate komas are empty, not padded")

	assert.Same(t, shot, s.Shot(5, 2))
}

func TestShotOutOfRange(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	s.SetShot(ctx, 0, 0, &model.Shot{})

	assert.Nil(t, s.Shot(-1, 0))
	assert.Nil(t, s.Shot(0, -1))
	assert.Nil(t, s.Shot(99, 0))
	assert.Nil(t, s.Shot(0, 99))
}

func TestSetShotNegativeIndicesIgnored(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.SetShot(ctx, -1, 0, &model.Shot{})
	s.SetShot(ctx, 0, -1, &model.Shot{})
	assert.Empty(t, s.Project().Komas)
}

func TestSequencesNeverShrink(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.SetDuration(ctx, 10)
	require.Len(t, s.Project().Komas, 10)

	s.SetDuration(ctx, 3)
	assert.Len(t, s.Project().Komas, 10)
}

func TestAddBackupAndTarget(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	backup := &model.Shot{JPG: model.NewBlob([]byte("b"))}
	s.AddBackup(ctx, 2, backup)
	target := &model.TargetMeta{Camera: model.CameraConfig{ISO: 800}}
	s.SetTarget(ctx, 2, target)

	p := s.Project()
	require.Len(t, p.Komas, 3)
	require.Len(t, p.Komas[2].Backups, 1)
	assert.Same(t, backup, p.Komas[2].Backups[0])
	assert.Same(t, target, p.Komas[2].Target)
}

func TestSetCaptureShotClampsNegative(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.SetCaptureShot(ctx, -5, -1)
	assert.Equal(t, model.Cursor{Frame: 0, Layer: 0}, s.Project().CaptureShot)
}

func TestLayerSettingsGrowWithDefaults(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	ls := s.LayerSettings(ctx, 3)
	assert.Equal(t, model.LayerSettings{Opacity: 1, BlendMode: "normal"}, ls)
	assert.Len(t, s.Project().Layers, 4)

	s.SetLayerSettings(ctx, 3, model.LayerSettings{Opacity: 0.5, BlendMode: "multiply"})
	assert.Equal(t, 0.5, s.Project().Layers[3].Opacity)
}

func TestPreviewRangeClamps(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	s.SetDuration(ctx, 10)

	s.SetOutPoint(ctx, 99)
	assert.Equal(t, 9, s.Project().PreviewRange[1], "out point clamps to the last frame")

	s.SetInPoint(ctx, -3)
	assert.Equal(t, 0, s.Project().PreviewRange[0])

	s.SetOutPoint(ctx, 5)
	s.SetInPoint(ctx, 7)
	assert.Equal(t, 5, s.Project().PreviewRange[0], "in point clamps to the out point")

	s.SetOutPoint(ctx, 2)
	assert.Equal(t, 5, s.Project().PreviewRange[1], "out point clamps to the in point")
}

func TestUndoRedoContent(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.SetCaptureShot(ctx, 3, 0)
	s.SetCaptureShot(ctx, 5, 0)
	require.Equal(t, 3, s.HistoryLen())

	s.Undo(ctx)
	assert.Equal(t, 3, s.Project().CaptureShot.Frame)
	s.Undo(ctx)
	assert.Equal(t, 0, s.Project().CaptureShot.Frame)
	s.Undo(ctx)
	assert.Equal(t, 0, s.Project().CaptureShot.Frame, "undo clamps at the baseline")

	s.Redo(ctx)
	assert.Equal(t, 3, s.Project().CaptureShot.Frame)
	s.Redo(ctx)
	assert.Equal(t, 5, s.Project().CaptureShot.Frame)
	s.Redo(ctx)
	assert.Equal(t, 5, s.Project().CaptureShot.Frame, "redo clamps at the newest snapshot")

	assert.Equal(t, 3, s.HistoryLen(), "restoring never pushes new snapshots")
}

func TestMutationAfterUndoDropsRedo(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.SetCaptureShot(ctx, 3, 0)
	s.SetCaptureShot(ctx, 5, 0)
	s.Undo(ctx)
	s.SetCaptureShot(ctx, 7, 0)

	s.Redo(ctx)
	assert.Equal(t, 7, s.Project().CaptureShot.Frame)
}

func TestSessionStateIsNotUndoable(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	before := s.HistoryLen()

	s.SetName(ctx, "renamed")
	s.SetFrameRate(ctx, 24)
	s.SetOnionskin(ctx, -2)
	s.SetLayerSettings(ctx, 0, model.LayerSettings{Opacity: 0.2, BlendMode: "screen"})
	s.SetAudio(ctx, &model.AudioTrack{Source: model.NewBlob([]byte("wav"))})
	s.SetVisibility(ctx, "layer-0", false)
	s.AddMarker(ctx, model.Marker{Label: "m", Position: 1}, nil)

	assert.Equal(t, before, s.HistoryLen())
	assert.Equal(t, "renamed", s.Project().Name)
	assert.Equal(t, float64(24), s.Project().FrameRate)
	assert.False(t, s.Project().Visibility["layer-0"])
}

func TestSetFrameRateRejectsNonPositive(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.SetFrameRate(ctx, 0)
	s.SetFrameRate(ctx, -15)
	assert.Equal(t, float64(model.DefaultFrameRate), s.Project().FrameRate)
}

func TestUndoRestoresShots(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	first := &model.Shot{JPG: model.NewBlob([]byte("first"))}
	second := &model.Shot{JPG: model.NewBlob([]byte("second"))}
	s.SetShot(ctx, 0, 0, first)
	s.SetShot(ctx, 0, 0, second)

	s.Undo(ctx)
	got := s.Shot(0, 0)
	require.NotNil(t, got)
	assert.Same(t, first.JPG, got.JPG, "snapshots share blob instances")
}
