// internal/document/mutate.go
//
// The frame/layer mutation API. Indexed accessors never panic for
// out-of-range indices; mutators grow the underlying sequences on demand
// and never shrink them. Content mutations (capture cursor, komas) push
// an undo snapshot; session mutations only mark the tree dirty.
package document

import (
	"context"

	"github.com/arcatdmz/koma/internal/model"
)

// Shot returns the shot at the given slot, or nil when the frame or layer
// is out of bounds or the slot is empty.
func (s *Store) Shot(frame, layer int) *model.Shot {
	s.mu.Lock()
	defer s.mu.Unlock()
	if frame < 0 || frame >= len(s.project.Komas) {
		return nil
	}
	shots := s.project.Komas[frame].Shots
	if layer < 0 || layer >= len(shots) {
		return nil
	}
	return shots[layer]
}

// SetShot assigns a shot to the given slot, appending empty komas and nil
// layer slots until the indices are valid.
func (s *Store) SetShot(ctx context.Context, frame, layer int, shot *model.Shot) {
	if frame < 0 || layer < 0 {
		return
	}
	s.mu.Lock()
	s.growKomas(frame + 1)
	koma := &s.project.Komas[frame]
	for len(koma.Shots) <= layer {
		koma.Shots = append(koma.Shots, nil)
	}
	koma.Shots[layer] = shot
	s.snapshotLocked()
	s.mu.Unlock()

	s.autosave(ctx)
}

// AddBackup appends a backup shot to the given frame, growing the koma
// sequence when needed.
func (s *Store) AddBackup(ctx context.Context, frame int, shot *model.Shot) {
	if frame < 0 {
		return
	}
	s.mu.Lock()
	s.growKomas(frame + 1)
	koma := &s.project.Komas[frame]
	koma.Backups = append(koma.Backups, shot)
	s.snapshotLocked()
	s.mu.Unlock()

	s.autosave(ctx)
}

// SetTarget stores per-frame capture target metadata.
func (s *Store) SetTarget(ctx context.Context, frame int, target *model.TargetMeta) {
	if frame < 0 {
		return
	}
	s.mu.Lock()
	s.growKomas(frame + 1)
	s.project.Komas[frame].Target = target
	s.snapshotLocked()
	s.mu.Unlock()

	s.autosave(ctx)
}

// SetCaptureShot moves the capture cursor. Negative indices clamp to 0.
func (s *Store) SetCaptureShot(ctx context.Context, frame, layer int) {
	s.mu.Lock()
	s.project.CaptureShot = model.Cursor{
		Frame: max(frame, 0),
		Layer: max(layer, 0),
	}
	s.snapshotLocked()
	s.mu.Unlock()

	s.autosave(ctx)
}

// SetDuration grows the koma sequence to hold at least frames entries.
// Sequences never shrink implicitly.
func (s *Store) SetDuration(ctx context.Context, frames int) {
	s.mu.Lock()
	s.growKomas(frames)
	s.snapshotLocked()
	s.mu.Unlock()

	s.autosave(ctx)
}

// LayerSettings returns the settings for the given layer, growing the
// layer sequence with defaults on demand.
func (s *Store) LayerSettings(ctx context.Context, layer int) model.LayerSettings {
	if layer < 0 {
		return model.LayerSettings{}
	}
	s.mu.Lock()
	grown := s.growLayers(layer + 1)
	out := s.project.Layers[layer]
	s.mu.Unlock()

	if grown {
		s.autosave(ctx)
	}
	return out
}

// SetLayerSettings assigns settings for the given layer, growing the
// layer sequence on demand. Layer settings are session state and do not
// enter the undo history.
func (s *Store) SetLayerSettings(ctx context.Context, layer int, ls model.LayerSettings) {
	if layer < 0 {
		return
	}
	s.mu.Lock()
	s.growLayers(layer + 1)
	s.project.Layers[layer] = ls
	s.mu.Unlock()

	s.autosave(ctx)
}

// SetInPoint sets the preview range in point, clamped to
// [0, previewRange[1]].
func (s *Store) SetInPoint(ctx context.Context, v int) {
	s.mu.Lock()
	v = min(max(v, 0), s.project.PreviewRange[1])
	s.project.PreviewRange[0] = v
	s.mu.Unlock()

	s.autosave(ctx)
}

// SetOutPoint sets the preview range out point, clamped to
// [previewRange[0], last valid frame index].
func (s *Store) SetOutPoint(ctx context.Context, v int) {
	s.mu.Lock()
	v = min(max(v, s.project.PreviewRange[0]), s.project.LastFrameIndex())
	s.project.PreviewRange[1] = v
	s.mu.Unlock()

	s.autosave(ctx)
}

// SetName renames the project.
func (s *Store) SetName(ctx context.Context, name string) {
	s.mu.Lock()
	s.project.Name = name
	s.mu.Unlock()

	s.autosave(ctx)
}

// SetFrameRate sets the playback frame rate. Non-positive rates are
// ignored.
func (s *Store) SetFrameRate(ctx context.Context, rate float64) {
	if rate <= 0 {
		return
	}
	s.mu.Lock()
	s.project.FrameRate = rate
	s.mu.Unlock()

	s.autosave(ctx)
}

// SetOnionskin sets the signed onionskin frame offset.
func (s *Store) SetOnionskin(ctx context.Context, offset int) {
	s.mu.Lock()
	s.project.Onionskin = offset
	s.mu.Unlock()

	s.autosave(ctx)
}

// SetAudio installs or clears the project audio track.
func (s *Store) SetAudio(ctx context.Context, audio *model.AudioTrack) {
	s.mu.Lock()
	s.project.Audio = audio
	s.mu.Unlock()

	s.autosave(ctx)
}

// AddMarker appends a timeline marker, registering its sound when one is
// attached.
func (s *Store) AddMarker(ctx context.Context, m model.Marker, sound *model.Blob) {
	s.mu.Lock()
	s.project.Markers = append(s.project.Markers, m)
	if m.Sound != "" && sound != nil {
		if s.project.Sounds == nil {
			s.project.Sounds = make(map[string]*model.Blob)
		}
		s.project.Sounds[m.Sound] = sound
	}
	s.mu.Unlock()

	s.autosave(ctx)
}

// SetVisibility toggles a visibility map entry.
func (s *Store) SetVisibility(ctx context.Context, key string, visible bool) {
	s.mu.Lock()
	if s.project.Visibility == nil {
		s.project.Visibility = make(map[string]bool)
	}
	s.project.Visibility[key] = visible
	s.mu.Unlock()

	s.autosave(ctx)
}

// growKomas appends empty komas until the sequence holds n entries.
// Callers hold s.mu.
func (s *Store) growKomas(n int) {
	for len(s.project.Komas) < n {
		s.project.Komas = append(s.project.Komas, model.Koma{})
	}
}

// growLayers appends default layer settings until the sequence holds n
// entries. Callers hold s.mu.
func (s *Store) growLayers(n int) bool {
	grown := false
	for len(s.project.Layers) < n {
		s.project.Layers = append(s.project.Layers, model.LayerSettings{
			Opacity:   1,
			BlendMode: "normal",
		})
		grown = true
	}
	return grown
}

// snapshotLocked pushes the current content sub-tree onto the undo log.
// Callers hold s.mu.
func (s *Store) snapshotLocked() {
	s.hist.Push(s.project.Content())
}
