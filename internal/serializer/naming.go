// internal/serializer/naming.go
//
// Asset filenames are derived from content position, not traversal order:
// project name, a query descriptor for the slot (layer=<n>, backup=<n>),
// and a zero-padded frame number, joined with an extension chosen by
// asset kind. Re-serializing an unchanged tree therefore reproduces the
// exact same names.
package serializer

import (
	"fmt"
	"strings"
)

const (
	extImage = "jpg"
	extRaw   = "dng"
	extSound = "wav"

	// AudioFileName holds the project audio track.
	AudioFileName = "audio." + extSound
)

// assetName builds `<name>_<query>_<frame %04d>.<ext>`.
func assetName(project, query string, frame int, ext string) string {
	return fmt.Sprintf("%s_%s_%04d.%s", sanitizeName(project), query, frame, ext)
}

func layerQuery(layer int) string {
	return fmt.Sprintf("layer=%d", layer)
}

func backupQuery(index int) string {
	return fmt.Sprintf("backup=%d", index)
}

// lvQuery marks the live-view variant of a slot; full-res and live-view
// previews share the jpg extension and need distinct names.
func lvQuery(query string) string {
	return query + "_lv"
}

// markerSoundName builds `marker_<name>.wav`.
func markerSoundName(name string) string {
	return fmt.Sprintf("marker_%s.%s", sanitizeName(name), extSound)
}

// sanitizeName makes a project or sound name safe as a filename fragment.
func sanitizeName(name string) string {
	r := strings.NewReplacer(" ", "_", ":", "_", "/", "_", "\\", "_")
	return r.Replace(name)
}
