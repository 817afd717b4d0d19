// internal/model/defaults.go
package model

// DefaultFrameRate is the frame rate new projects start with.
const DefaultFrameRate = 15

// defaultTemplate is the template every new project is cloned from.
// Never hand this out directly; callers get deep clones.
var defaultTemplate = Project{
	Name:         "untitled",
	FrameRate:    DefaultFrameRate,
	CaptureShot:  Cursor{Frame: 0, Layer: 0},
	PreviewRange: [2]int{0, 0},
	Onionskin:    0,
	Komas:        []Koma{},
	Layers: []LayerSettings{
		{Opacity: 1, BlendMode: "normal"},
	},
	Markers:    []Marker{},
	Sounds:     map[string]*Blob{},
	Viewport:   ViewportSettings{Scale: 1},
	Timeline:   TimelineSettings{Scale: 1},
	Visibility: map[string]bool{},
}

// DefaultProject returns a fresh deep clone of the default project
// template, so callers can never alias template substructure.
func DefaultProject() *Project {
	return defaultTemplate.Clone()
}

// Merge reconciles a loaded project with a default template, field by
// field. Non-array fields take the loaded value when present (non-zero or
// non-nil), otherwise the default; slice- and map-typed fields are taken
// wholesale from the loaded tree when non-nil and are never merged
// element-wise. This keeps newly introduced scalar fields forward
// compatible without ever injecting default array elements into loaded
// content. Merge is idempotent.
func Merge(loaded, defaults *Project) *Project {
	out := defaults.Clone()
	if loaded == nil {
		return out
	}

	if loaded.Name != "" {
		out.Name = loaded.Name
	}
	if loaded.FrameRate > 0 {
		out.FrameRate = loaded.FrameRate
	}
	// Zero cursor, range and onionskin are valid values; take them as-is.
	out.CaptureShot = loaded.CaptureShot
	out.PreviewRange = loaded.PreviewRange
	out.Onionskin = loaded.Onionskin

	if loaded.Komas != nil {
		out.Komas = cloneKomas(loaded.Komas)
	}
	if loaded.Layers != nil {
		out.Layers = append([]LayerSettings(nil), loaded.Layers...)
	}
	if loaded.Markers != nil {
		out.Markers = append([]Marker(nil), loaded.Markers...)
	}
	if loaded.Audio != nil {
		out.Audio = loaded.Audio.clone()
	}
	if loaded.Sounds != nil {
		out.Sounds = make(map[string]*Blob, len(loaded.Sounds))
		for k, v := range loaded.Sounds {
			out.Sounds[k] = v
		}
	}
	if loaded.Visibility != nil {
		out.Visibility = make(map[string]bool, len(loaded.Visibility))
		for k, v := range loaded.Visibility {
			out.Visibility[k] = v
		}
	}
	if loaded.Viewport != (ViewportSettings{}) {
		out.Viewport = loaded.Viewport
	}
	if loaded.Timeline != (TimelineSettings{}) {
		out.Timeline = loaded.Timeline
	}
	return out
}

// MergeWithDefaults reconciles a loaded project with the current default
// template.
func MergeWithDefaults(loaded *Project) *Project {
	return Merge(loaded, &defaultTemplate)
}

// Validate checks the invariants a project must satisfy after load.
func (p *Project) Validate() error {
	if p.Name == "" {
		return errRequired("name")
	}
	if p.FrameRate <= 0 {
		return errRequired("frameRate")
	}
	if p.PreviewRange[0] > p.PreviewRange[1] {
		return errInvalid("previewRange", "in point after out point")
	}
	if p.CaptureShot.Frame < 0 || p.CaptureShot.Layer < 0 {
		return errInvalid("captureShot", "negative index")
	}
	return nil
}
