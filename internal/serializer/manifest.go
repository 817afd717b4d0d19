// internal/serializer/manifest.go
package serializer

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/arcatdmz/koma/internal/model"
	"github.com/arcatdmz/koma/internal/storage"
)

// ManifestName is the single manifest document every project root holds.
const ManifestName = "project.json"

// ErrMalformedManifest is returned when the manifest fails to parse or
// fails required-field validation after the defaults merge.
var ErrMalformedManifest = errors.New("serializer: malformed manifest")

// Manifest mirrors the project tree with every binary leaf replaced by a
// filename string. Scalar fields a newer schema may add are merged from
// the default template at load time.
type Manifest struct {
	Name         string                  `json:"name"`
	FrameRate    float64                 `json:"frameRate"`
	CaptureShot  model.Cursor            `json:"captureShot"`
	PreviewRange [2]int                  `json:"previewRange"`
	Onionskin    int                     `json:"onionskin"`
	Komas        []KomaManifest          `json:"komas"`
	Layers       []model.LayerSettings   `json:"layers,omitempty"`
	Audio        *AudioManifest          `json:"audio,omitempty"`
	Markers      []model.Marker          `json:"markers,omitempty"`
	Sounds       map[string]string       `json:"sounds,omitempty"`
	Viewport     *model.ViewportSettings `json:"viewport,omitempty"`
	Timeline     *model.TimelineSettings `json:"timeline,omitempty"`
	Visibility   map[string]bool         `json:"visibility,omitempty"`
}

// KomaManifest is one frame's worth of shot slots. A null slot is an
// empty layer.
type KomaManifest struct {
	Shots   []*ShotManifest `json:"shots"`
	Backups []*ShotManifest `json:"backups,omitempty"`
	Target  *TargetManifest `json:"target,omitempty"`
}

// ShotManifest references a shot's binaries by filename.
type ShotManifest struct {
	LV       string             `json:"lv,omitempty"`
	JPG      string             `json:"jpg,omitempty"`
	Raw      string             `json:"raw,omitempty"`
	Camera   model.CameraConfig `json:"camera"`
	Pose     *model.TrackerPose `json:"pose,omitempty"`
	Lighting *model.Lighting    `json:"lighting,omitempty"`
	TakenAt  time.Time          `json:"takenAt,omitzero"`
}

// TargetManifest carries per-frame capture target metadata.
type TargetManifest struct {
	Camera   model.CameraConfig `json:"camera"`
	Pose     *model.TrackerPose `json:"pose,omitempty"`
	Lighting *model.Lighting    `json:"lighting,omitempty"`
}

// AudioManifest references the audio track binary by filename.
type AudioManifest struct {
	Source     string `json:"source"`
	StartFrame int    `json:"startFrame"`
}

// WriteManifest persists the manifest as the root's project.json.
func WriteManifest(root storage.Root, m *Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}
	f, err := root.File(ManifestName, true)
	if err != nil {
		return err
	}
	w, err := f.OpenWritable()
	if err != nil {
		return err
	}
	if err := w.Write(data); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

// ReadManifest loads and parses the root's project.json. A missing
// manifest surfaces as storage.ErrNotFound; a document that fails to
// parse surfaces as ErrMalformedManifest.
func ReadManifest(root storage.Root) (*Manifest, error) {
	f, err := root.File(ManifestName, false)
	if err != nil {
		return nil, err
	}
	text, err := f.ReadText()
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := json.Unmarshal([]byte(text), &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedManifest, err)
	}
	return &m, nil
}
