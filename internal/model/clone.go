// internal/model/clone.go
//
// Explicit structural deep copy over the project tree. Blobs are immutable
// values, so clones share blob pointers; everything mutable is copied.
package model

// Clone returns a deep copy of the project.
func (p *Project) Clone() *Project {
	if p == nil {
		return nil
	}
	out := *p
	out.Komas = cloneKomas(p.Komas)
	out.Layers = append([]LayerSettings(nil), p.Layers...)
	out.Markers = append([]Marker(nil), p.Markers...)
	out.Audio = p.Audio.clone()
	if p.Sounds != nil {
		out.Sounds = make(map[string]*Blob, len(p.Sounds))
		for k, v := range p.Sounds {
			out.Sounds[k] = v
		}
	}
	if p.Visibility != nil {
		out.Visibility = make(map[string]bool, len(p.Visibility))
		for k, v := range p.Visibility {
			out.Visibility[k] = v
		}
	}
	return &out
}

// Clone returns a deep copy of the undoable sub-tree.
func (c Content) Clone() Content {
	return Content{
		CaptureShot: c.CaptureShot,
		Komas:       cloneKomas(c.Komas),
	}
}

func cloneKomas(komas []Koma) []Koma {
	if komas == nil {
		return nil
	}
	out := make([]Koma, len(komas))
	for i := range komas {
		out[i] = komas[i].clone()
	}
	return out
}

func (k Koma) clone() Koma {
	out := Koma{
		Target: k.Target.clone(),
	}
	if k.Shots != nil {
		out.Shots = make([]*Shot, len(k.Shots))
		for i, s := range k.Shots {
			out.Shots[i] = s.Clone()
		}
	}
	if k.Backups != nil {
		out.Backups = make([]*Shot, len(k.Backups))
		for i, s := range k.Backups {
			out.Backups[i] = s.Clone()
		}
	}
	return out
}

// Clone returns a deep copy of the shot. Blob pointers are shared; blobs
// are immutable and keeping the identity token intact lets the blob store
// skip rewriting a shot that was merely snapshotted and restored.
func (s *Shot) Clone() *Shot {
	if s == nil {
		return nil
	}
	out := *s
	out.Pose = s.Pose.clone()
	out.Lighting = s.Lighting.clone()
	return &out
}

func (t *TargetMeta) clone() *TargetMeta {
	if t == nil {
		return nil
	}
	out := *t
	out.Pose = t.Pose.clone()
	out.Lighting = t.Lighting.clone()
	return &out
}

func (t *TrackerPose) clone() *TrackerPose {
	if t == nil {
		return nil
	}
	out := *t
	return &out
}

func (l *Lighting) clone() *Lighting {
	if l == nil {
		return nil
	}
	out := *l
	return &out
}

func (a *AudioTrack) clone() *AudioTrack {
	if a == nil {
		return nil
	}
	out := *a
	return &out
}
