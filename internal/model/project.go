// internal/model/project.go
package model

import "time"

// Cursor addresses one slot in the frame/layer grid.
type Cursor struct {
	Frame int `json:"frame"`
	Layer int `json:"layer"`
}

// CameraConfig is the camera configuration captured with a shot or stored
// as a per-frame target.
type CameraConfig struct {
	ISO          int    `json:"iso,omitempty"`
	ShutterSpeed string `json:"shutterSpeed,omitempty"`
	Aperture     string `json:"aperture,omitempty"`
	WhiteBalance string `json:"whiteBalance,omitempty"`
}

// TrackerPose is a spatial tracker sample: position plus orientation
// quaternion in the tracker's reference space.
type TrackerPose struct {
	Position [3]float64 `json:"position"`
	Rotation [4]float64 `json:"rotation"`
}

// Lighting is a lighting snapshot for a frame or shot.
type Lighting struct {
	Intensity float64 `json:"intensity"`
	ColorTemp int     `json:"colorTemp"`
}

// Shot is one captured image set occupying a layer slot within a Koma.
// Its blobs are exclusively referenced by the shot in memory; the durable
// copy lives in the blob store, addressed by filename.
type Shot struct {
	LV       *Blob // live-view preview
	JPG      *Blob // full resolution
	Raw      *Blob // optional camera raw
	Camera   CameraConfig
	Pose     *TrackerPose
	Lighting *Lighting
	TakenAt  time.Time
}

// TargetMeta is per-frame capture target metadata: the camera configuration,
// tracker pose and lighting the frame should be re-shot with.
type TargetMeta struct {
	Camera   CameraConfig
	Pose     *TrackerPose
	Lighting *Lighting
}

// Koma is the set of shots captured across all layers at one frame.
// A nil entry in Shots is an empty layer slot.
type Koma struct {
	Shots   []*Shot
	Backups []*Shot
	Target  *TargetMeta
}

// LayerSettings holds per-layer compositing settings.
type LayerSettings struct {
	Opacity   float64 `json:"opacity"`
	BlendMode string  `json:"blendMode"`
}

// AudioTrack is the project's optional audio track.
type AudioTrack struct {
	Source     *Blob
	StartFrame int
}

// Marker is a timeline annotation. Sound names a key into Project.Sounds.
type Marker struct {
	Label    string  `json:"label"`
	Position float64 `json:"position"`
	Duration int     `json:"duration"`
	Color    string  `json:"color,omitempty"`
	Sound    string  `json:"sound,omitempty"`
}

// ViewportSettings is session state for the viewport, excluded from undo.
type ViewportSettings struct {
	Scale float64 `json:"scale"`
	PanX  float64 `json:"panX"`
	PanY  float64 `json:"panY"`
	Grid  bool    `json:"grid"`
}

// TimelineSettings is session state for the timeline, excluded from undo.
type TimelineSettings struct {
	Scale       float64 `json:"scale"`
	ScrollFrame int     `json:"scrollFrame"`
}

// Content is the undoable sub-tree of a project: the capture cursor and the
// koma sequence. Audio, viewport, layer settings and name are session state
// and deliberately excluded.
type Content struct {
	CaptureShot Cursor
	Komas       []Koma
}

// Project is the root aggregate held by the document store.
type Project struct {
	Name         string
	FrameRate    float64
	CaptureShot  Cursor
	PreviewRange [2]int
	Onionskin    int // signed frame offset
	Komas        []Koma
	Layers       []LayerSettings
	Audio        *AudioTrack
	Markers      []Marker
	Sounds       map[string]*Blob
	Viewport     ViewportSettings
	Timeline     TimelineSettings
	Visibility   map[string]bool
}

// Content returns the undoable sub-tree of the project. The result shares
// structure with the project; clone it before storing.
func (p *Project) Content() Content {
	return Content{
		CaptureShot: p.CaptureShot,
		Komas:       p.Komas,
	}
}

// SetContent installs an undoable sub-tree into the project.
func (p *Project) SetContent(c Content) {
	p.CaptureShot = c.CaptureShot
	p.Komas = c.Komas
}

// AllKomas returns the koma sequence padded with empty komas up to
// CaptureShot.Frame+1. The stored sequence is never extended eagerly; this
// derived view is what the timeline renders.
func (p *Project) AllKomas() []Koma {
	need := p.CaptureShot.Frame + 1
	if len(p.Komas) >= need {
		return p.Komas
	}
	out := make([]Koma, need)
	copy(out, p.Komas)
	return out
}

// LastFrameIndex returns the last valid frame index of the padded koma view.
func (p *Project) LastFrameIndex() int {
	n := len(p.AllKomas())
	if n == 0 {
		return 0
	}
	return n - 1
}
