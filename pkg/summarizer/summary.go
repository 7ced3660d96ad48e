// Package summarizer provides summary generation for render results.
package summarizer

import (
	"fmt"
	"time"

	"github.com/user/canvasfx/pkg/effects"
)

// Summary contains all data collected during a render.
type Summary struct {
	// Metadata
	GeneratedAt time.Time

	// Input image
	Source SourceInfo

	// Canvas the layers were drawn on
	Canvas CanvasInfo

	// Look applied to the image
	Look LookInfo

	// Layer report
	Layers LayerInfo

	// Encoded output details
	Output OutputInfo
}

// SourceInfo describes the source image.
type SourceInfo struct {
	Path   string
	Width  int
	Height int
}

// CanvasInfo contains the canvas size.
type CanvasInfo struct {
	Width  int
	Height int
}

// LookInfo describes the effects and background in human terms.
type LookInfo struct {
	Preset     string
	Template   string
	Background string
	Effects    []string // one entry per enabled effect or non-neutral group
}

// LayerInfo reports what the compositor drew.
type LayerInfo struct {
	Drawn   []string
	Skipped []string
	Pending bool // background image was still loading
}

// OutputInfo contains information about the written file.
type OutputInfo struct {
	Path     string
	Format   string
	FileSize int64
	Duration time.Duration
}

// NewSummary creates a new Summary with the current timestamp.
func NewSummary() *Summary {
	return &Summary{
		GeneratedAt: time.Now(),
	}
}

// Builder provides a fluent interface for building a Summary.
type Builder struct {
	summary *Summary
}

// NewBuilder creates a new Builder.
func NewBuilder() *Builder {
	return &Builder{
		summary: NewSummary(),
	}
}

// WithSource sets source image information.
func (b *Builder) WithSource(path string, width, height int) *Builder {
	b.summary.Source = SourceInfo{Path: path, Width: width, Height: height}
	return b
}

// WithCanvas sets the canvas size.
func (b *Builder) WithCanvas(width, height int) *Builder {
	b.summary.Canvas = CanvasInfo{Width: width, Height: height}
	return b
}

// WithLook describes the effects and background that were applied.
func (b *Builder) WithLook(preset, template string, e effects.ImageEffects, bg effects.BackgroundData) *Builder {
	b.summary.Look = LookInfo{
		Preset:     preset,
		Template:   template,
		Background: DescribeBackground(bg),
		Effects:    DescribeEffects(e),
	}
	return b
}

// WithLayers sets the layer report.
func (b *Builder) WithLayers(drawn, skipped []string, pending bool) *Builder {
	b.summary.Layers = LayerInfo{
		Drawn:   append([]string(nil), drawn...),
		Skipped: append([]string(nil), skipped...),
		Pending: pending,
	}
	return b
}

// WithOutput sets output file information.
func (b *Builder) WithOutput(output OutputInfo) *Builder {
	b.summary.Output = output
	return b
}

// Build returns the constructed Summary.
func (b *Builder) Build() *Summary {
	return b.summary
}

// DescribeEffects lists the enabled effects and the adjustment groups that
// differ from neutral.
func DescribeEffects(e effects.ImageEffects) []string {
	var out []string
	if e.HasFilters() {
		out = append(out, fmt.Sprintf("filters (brightness %g, contrast %g, saturation %g, blur %g, hue %g, sepia %g, grayscale %g, invert %g)",
			e.Brightness, e.Contrast, e.Saturation, e.Blur, e.Hue, e.Sepia, e.Grayscale, e.Invert))
	}
	if e.HasPixelAdjustments() {
		out = append(out, fmt.Sprintf("adjust (vibrance %g, exposure %g, temperature %g, tint %g)",
			e.Vibrance, e.Exposure, e.Temperature, e.Tint))
	}
	if e.HasTransform() {
		out = append(out, fmt.Sprintf("transform (scale %g%%, rotation %g, flipH %t, flipV %t)",
			e.Scale, e.Rotation, e.FlipH, e.FlipV))
	}
	if s := e.Shadow; s.Enabled {
		out = append(out, fmt.Sprintf("shadow %s (offset %g,%g, blur %g, %s %g%%)", s.Type, s.OffsetX, s.OffsetY, s.Blur, s.Color, s.Opacity))
	}
	if g := e.Glow; g.Enabled {
		out = append(out, fmt.Sprintf("glow %s (blur %g, %s %g%%, intensity %g)", g.Type, g.Blur, g.Color, g.Opacity, g.Intensity))
	}
	if o := e.Outline; o.Enabled {
		out = append(out, fmt.Sprintf("outline %s (%gpx %s, %s %g%%)", o.Type, o.Width, o.Style, o.Color, o.Opacity))
	}
	return out
}

// DescribeBackground summarizes a background in one line.
func DescribeBackground(bg effects.BackgroundData) string {
	switch bg.Type {
	case effects.BackgroundColor:
		return "color " + bg.Color
	case effects.BackgroundGradient:
		if bg.Gradient == nil {
			return "gradient (empty)"
		}
		return fmt.Sprintf("%s gradient, %d colors", bg.Gradient.Type, len(bg.Gradient.Colors))
	case effects.BackgroundPattern:
		if bg.Pattern == nil {
			return "pattern (empty)"
		}
		return fmt.Sprintf("pattern %s (%gpx)", bg.Pattern.Type, bg.Pattern.Scale)
	case effects.BackgroundImage:
		if bg.Image == nil {
			return "image (empty)"
		}
		return fmt.Sprintf("image (%s)", bg.Image.Fit)
	default:
		return string(bg.Type)
	}
}
