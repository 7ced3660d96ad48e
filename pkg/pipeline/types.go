package pipeline

import (
	"image"

	"github.com/user/canvasfx/pkg/effects"
	"github.com/user/canvasfx/pkg/ports"
)

// =============================================================================
// Common Types
// =============================================================================

// Dimension represents width and height.
type Dimension struct {
	Width  int
	Height int
}

// Empty reports whether either side is non-positive.
func (d Dimension) Empty() bool {
	return d.Width <= 0 || d.Height <= 0
}

// Layer names in draw order. They are used for debug output and for
// reporting skipped layers.
const (
	LayerBackground = "background"
	LayerShadow     = "shadow"
	LayerImage      = "image"
	LayerGlow       = "glow"
	LayerOutline    = "outline"
)

// LayerVisibility toggles the layers a user can hide. Effect layers are
// controlled by their own Enabled flags.
type LayerVisibility struct {
	Background bool `json:"background" yaml:"background"`
	Image      bool `json:"image" yaml:"image"`
}

// DefaultLayerVisibility shows every layer.
func DefaultLayerVisibility() LayerVisibility {
	return LayerVisibility{Background: true, Image: true}
}

// =============================================================================
// Layout Stage Types
// =============================================================================

// LayoutInput contains the source size and the box the canvas must fit in.
type LayoutInput struct {
	SourceWidth  int
	SourceHeight int
	MaxWidth     int // Maximum canvas width (default: 400)
	MaxHeight    int // Maximum canvas height (default: 400)
}

// DefaultLayoutInput returns LayoutInput with default values.
func DefaultLayoutInput() LayoutInput {
	return LayoutInput{
		MaxWidth:  400,
		MaxHeight: 400,
	}
}

// LayoutResult contains the canvas size derived from the source.
type LayoutResult struct {
	Canvas Dimension

	// Scale is the factor applied to the source to reach the canvas size.
	Scale float64
}

// =============================================================================
// Adjust Stage Types
// =============================================================================

// AdjustInput contains the image to color-adjust. The image is expected at
// canvas resolution so blur radii are in canvas pixels.
type AdjustInput struct {
	Image   image.Image
	Effects effects.ImageEffects
}

// AdjustResult contains the adjusted image. When no adjustment applies,
// Image is the input image itself.
type AdjustResult struct {
	Image             image.Image
	FiltersApplied    bool
	PixelStageApplied bool
}

// =============================================================================
// Transform Stage Types
// =============================================================================

// TransformInput contains the adjusted image and the canvas to place it on.
type TransformInput struct {
	Image   image.Image
	Effects effects.ImageEffects
	Canvas  Dimension
}

// TransformResult contains the subject layer: a canvas-sized image with the
// transformed subject centered on it.
type TransformResult struct {
	Layer       image.Image
	Transformed bool
}

// =============================================================================
// Layer Stage Types
// =============================================================================

// BackgroundInput contains parameters for painting the background layer.
type BackgroundInput struct {
	Surface    ports.Surface
	Background effects.BackgroundData
}

// BackgroundResult reports what the background stage did.
type BackgroundResult struct {
	Drawn bool

	// Pending is true when a background image is still loading. The layer
	// is left empty and a redraw is expected once the load completes.
	Pending bool
}

// ShadowInput contains parameters for painting the shadow layer.
type ShadowInput struct {
	Surface ports.Surface
	Shadow  effects.Shadow

	// Subject is the placed subject layer the silhouette derives from.
	Subject image.Image
}

// GlowInput contains parameters for painting the glow layer.
type GlowInput struct {
	Surface ports.Surface
	Glow    effects.Glow

	// MaskSource supplies the silhouette. When nil, the current surface
	// content is read back and used instead.
	MaskSource image.Image
}

// OutlineInput contains parameters for painting the outline layer.
type OutlineInput struct {
	Surface ports.Surface
	Outline effects.Outline

	// Seed drives the jitter of the vintage and artistic kinds. Zero derives
	// a seed from the outline parameters.
	Seed int64
}

// LayerResult reports whether a layer stage painted anything.
type LayerResult struct {
	Drawn bool
}

// =============================================================================
// Composite Stage Types
// =============================================================================

// CompositeInput contains everything a single render needs. Effects and
// Background are value snapshots; nothing here is shared with the caller.
type CompositeInput struct {
	Source     image.Image
	Effects    effects.ImageEffects
	Background effects.BackgroundData
	Canvas     Dimension
	Layers     LayerVisibility
	Seed       int64
}

// CompositeResult contains the rendered canvas and a report of the layers.
type CompositeResult struct {
	Image *image.RGBA

	// Drawn lists the layers that painted, in draw order.
	Drawn []string

	// Skipped lists layers that failed and were left out of the output.
	Skipped []string

	// Pending is true when the background image is still loading.
	Pending bool
}

// =============================================================================
// Encode Types
// =============================================================================

// EncodeOptions controls how a rendered canvas is written out.
type EncodeOptions struct {
	Format  ports.ImageFormat
	Quality int // JPEG quality (default: 90)
}

// DefaultEncodeOptions returns EncodeOptions with default values.
func DefaultEncodeOptions() EncodeOptions {
	return EncodeOptions{
		Format:  ports.FormatPNG,
		Quality: 90,
	}
}

// EncodeInput contains the rendered canvas to encode.
type EncodeInput struct {
	Image   image.Image
	Options EncodeOptions
}

// EncodeResult contains the encoded file.
type EncodeResult struct {
	Data     []byte
	Format   ports.ImageFormat
	FileSize int64
}
