package ports

import (
	"image"
)

// DebugSink abstracts debug output for intermediate render results.
// The compositor hands it one snapshot per layer so a broken layer can be
// located without re-running the render.
type DebugSink interface {
	// Enabled returns true if debug output is enabled.
	Enabled() bool

	// SaveParamsJSON saves the effect and background parameters used for a render.
	SaveParamsJSON(data []byte) error

	// SaveLayer saves the surface state after the named layer has been drawn.
	// Index is the position of the layer in draw order.
	SaveLayer(index int, name string, img image.Image) error
}
