// Package serializer converts between the in-memory project tree with
// binary leaves and the persistable manifest tree with filename leaves.
// Flattening saves every binary through the blob store; unflattening is
// the mirror walk. Both walks follow the statically known schema — there
// is no generic object traversal.
package serializer

import (
	"fmt"
	"sort"

	"github.com/arcatdmz/koma/internal/blob"
	"github.com/arcatdmz/koma/internal/model"
	"github.com/arcatdmz/koma/internal/queue"
	"github.com/arcatdmz/koma/internal/storage"
)

// writeWorkers bounds the asset write fan-out within one flatten pass.
const writeWorkers = 4

// Serializer flattens and unflattens project trees against a blob store.
type Serializer struct {
	blobs *blob.Store
}

// New creates a serializer over the given blob store.
func New(blobs *blob.Store) *Serializer {
	return &Serializer{blobs: blobs}
}

type writeJob struct {
	filename string
	blob     *model.Blob
}

// Flatten walks the project depth-first, persists every binary leaf under
// a deterministic filename and returns the manifest with filenames
// substituted for blobs. Asset writes are collected during the walk and
// fanned out across a bounded worker set; filenames are position-derived,
// so write order does not matter.
func (s *Serializer) Flatten(p *model.Project, root storage.Root) (*Manifest, error) {
	if root == nil {
		return nil, storage.ErrNoStorageContext
	}

	jobs := queue.New[writeJob]()
	m := &Manifest{
		Name:         p.Name,
		FrameRate:    p.FrameRate,
		CaptureShot:  p.CaptureShot,
		PreviewRange: p.PreviewRange,
		Onionskin:    p.Onionskin,
		Komas:        make([]KomaManifest, len(p.Komas)),
		Layers:       append([]model.LayerSettings(nil), p.Layers...),
		Markers:      append([]model.Marker(nil), p.Markers...),
		Viewport:     &p.Viewport,
		Timeline:     &p.Timeline,
		Visibility:   p.Visibility,
	}

	for frame := range p.Komas {
		m.Komas[frame] = s.flattenKoma(p.Name, frame, &p.Komas[frame], jobs)
	}

	if p.Audio != nil && p.Audio.Source != nil {
		m.Audio = &AudioManifest{
			Source:     AudioFileName,
			StartFrame: p.Audio.StartFrame,
		}
		jobs.Push(writeJob{filename: AudioFileName, blob: p.Audio.Source})
	}

	if len(p.Sounds) > 0 {
		m.Sounds = make(map[string]string, len(p.Sounds))
		names := make([]string, 0, len(p.Sounds))
		for name := range p.Sounds {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			filename := markerSoundName(name)
			m.Sounds[name] = filename
			jobs.Push(writeJob{filename: filename, blob: p.Sounds[name]})
		}
	}

	err := queue.Drain(jobs, writeWorkers, func(j writeJob) error {
		_, err := s.blobs.Save(root, j.filename, j.blob)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("flattening %s: %w", p.Name, err)
	}
	return m, nil
}

func (s *Serializer) flattenKoma(project string, frame int, k *model.Koma, jobs *queue.Queue[writeJob]) KomaManifest {
	out := KomaManifest{
		Shots: make([]*ShotManifest, len(k.Shots)),
	}
	for layer, shot := range k.Shots {
		out.Shots[layer] = flattenShot(project, layerQuery(layer), frame, shot, jobs)
	}
	if len(k.Backups) > 0 {
		out.Backups = make([]*ShotManifest, len(k.Backups))
		for i, shot := range k.Backups {
			out.Backups[i] = flattenShot(project, backupQuery(i), frame, shot, jobs)
		}
	}
	if k.Target != nil {
		out.Target = &TargetManifest{
			Camera:   k.Target.Camera,
			Pose:     k.Target.Pose,
			Lighting: k.Target.Lighting,
		}
	}
	return out
}

// flattenShot substitutes filenames for the shot's binaries. A nil shot
// stays nil: empty layer slots produce neither manifest entries nor I/O.
func flattenShot(project, query string, frame int, shot *model.Shot, jobs *queue.Queue[writeJob]) *ShotManifest {
	if shot == nil {
		return nil
	}
	out := &ShotManifest{
		Camera:   shot.Camera,
		Pose:     shot.Pose,
		Lighting: shot.Lighting,
		TakenAt:  shot.TakenAt,
	}
	if shot.LV != nil {
		out.LV = assetName(project, lvQuery(query), frame, extImage)
		jobs.Push(writeJob{filename: out.LV, blob: shot.LV})
	}
	if shot.JPG != nil {
		out.JPG = assetName(project, query, frame, extImage)
		jobs.Push(writeJob{filename: out.JPG, blob: shot.JPG})
	}
	if shot.Raw != nil {
		out.Raw = assetName(project, query, frame, extRaw)
		jobs.Push(writeJob{filename: out.Raw, blob: shot.Raw})
	}
	return out
}

// Unflatten performs the mirror walk, resolving every filename leaf
// through the blob store. Optional leaves are only resolved when present
// in the manifest; any failure aborts the whole pass so a partially
// resolved tree is never returned.
func (s *Serializer) Unflatten(m *Manifest, root storage.Root) (*model.Project, error) {
	if root == nil {
		return nil, storage.ErrNoStorageContext
	}

	p := &model.Project{
		Name:         m.Name,
		FrameRate:    m.FrameRate,
		CaptureShot:  m.CaptureShot,
		PreviewRange: m.PreviewRange,
		Onionskin:    m.Onionskin,
		Layers:       append([]model.LayerSettings(nil), m.Layers...),
		Markers:      append([]model.Marker(nil), m.Markers...),
		Visibility:   m.Visibility,
	}
	if m.Viewport != nil {
		p.Viewport = *m.Viewport
	}
	if m.Timeline != nil {
		p.Timeline = *m.Timeline
	}

	if m.Komas != nil {
		p.Komas = make([]model.Koma, len(m.Komas))
		for frame := range m.Komas {
			koma, err := s.unflattenKoma(&m.Komas[frame], root)
			if err != nil {
				return nil, fmt.Errorf("frame %d: %w", frame, err)
			}
			p.Komas[frame] = koma
		}
	}

	if m.Audio != nil {
		source, err := s.blobs.Open(root, m.Audio.Source)
		if err != nil {
			return nil, fmt.Errorf("audio track: %w", err)
		}
		p.Audio = &model.AudioTrack{
			Source:     source,
			StartFrame: m.Audio.StartFrame,
		}
	}

	if len(m.Sounds) > 0 {
		p.Sounds = make(map[string]*model.Blob, len(m.Sounds))
		for name, filename := range m.Sounds {
			b, err := s.blobs.Open(root, filename)
			if err != nil {
				return nil, fmt.Errorf("sound %s: %w", name, err)
			}
			p.Sounds[name] = b
		}
	}

	return p, nil
}

func (s *Serializer) unflattenKoma(km *KomaManifest, root storage.Root) (model.Koma, error) {
	out := model.Koma{}
	if km.Shots != nil {
		out.Shots = make([]*model.Shot, len(km.Shots))
		for layer, sm := range km.Shots {
			shot, err := s.unflattenShot(sm, root)
			if err != nil {
				return model.Koma{}, fmt.Errorf("layer %d: %w", layer, err)
			}
			out.Shots[layer] = shot
		}
	}
	if km.Backups != nil {
		out.Backups = make([]*model.Shot, len(km.Backups))
		for i, sm := range km.Backups {
			shot, err := s.unflattenShot(sm, root)
			if err != nil {
				return model.Koma{}, fmt.Errorf("backup %d: %w", i, err)
			}
			out.Backups[i] = shot
		}
	}
	if km.Target != nil {
		out.Target = &model.TargetMeta{
			Camera:   km.Target.Camera,
			Pose:     km.Target.Pose,
			Lighting: km.Target.Lighting,
		}
	}
	return out, nil
}

// unflattenShot resolves a shot's filenames back to blobs. A null slot
// stays null with no I/O attempted.
func (s *Serializer) unflattenShot(sm *ShotManifest, root storage.Root) (*model.Shot, error) {
	if sm == nil {
		return nil, nil
	}
	shot := &model.Shot{
		Camera:   sm.Camera,
		Pose:     sm.Pose,
		Lighting: sm.Lighting,
		TakenAt:  sm.TakenAt,
	}
	var err error
	if sm.LV != "" {
		if shot.LV, err = s.blobs.Open(root, sm.LV); err != nil {
			return nil, err
		}
	}
	if sm.JPG != "" {
		if shot.JPG, err = s.blobs.Open(root, sm.JPG); err != nil {
			return nil, err
		}
	}
	if sm.Raw != "" {
		if shot.Raw, err = s.blobs.Open(root, sm.Raw); err != nil {
			return nil, err
		}
	}
	return shot, nil
}
