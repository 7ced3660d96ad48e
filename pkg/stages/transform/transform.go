// Package transform implements the subject placement stage: flips,
// rotation and scale about the canvas center.
package transform

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"

	"github.com/user/canvasfx/pkg/effects"
	"github.com/user/canvasfx/pkg/pipeline"
)

// Stage places the adjusted image on a canvas-sized layer.
// This is a pure function with no external dependencies.
type Stage struct{}

// NewStage creates a new transform stage.
func NewStage() *Stage {
	return &Stage{}
}

// Execute places the image.
func (s *Stage) Execute(ctx context.Context, input pipeline.TransformInput) (pipeline.TransformResult, error) {
	if input.Image == nil {
		return pipeline.TransformResult{}, fmt.Errorf("no image to place")
	}
	if input.Canvas.Empty() {
		return pipeline.TransformResult{}, fmt.Errorf("invalid canvas %dx%d", input.Canvas.Width, input.Canvas.Height)
	}
	layer, transformed := Place(input.Image, input.Effects, input.Canvas)
	return pipeline.TransformResult{Layer: layer, Transformed: transformed}, nil
}

// Place returns a canvas-sized layer with img centered on it after
// flipping, rotating clockwise by Rotation degrees and scaling by
// Scale percent, in that order. An image that already matches the canvas
// and needs no transform is returned as is.
func Place(img image.Image, e effects.ImageEffects, canvas pipeline.Dimension) (image.Image, bool) {
	b := img.Bounds()
	if !e.HasTransform() {
		if b.Min == (image.Point{}) && b.Dx() == canvas.Width && b.Dy() == canvas.Height {
			return img, false
		}
		return center(img, canvas), false
	}

	out := imaging.Clone(img)
	if e.FlipH {
		out = imaging.FlipH(out)
	}
	if e.FlipV {
		out = imaging.FlipV(out)
	}

	if rot := math.Mod(e.Rotation, 360); rot != 0 && !math.IsNaN(rot) {
		// imaging rotates counter-clockwise.
		out = imaging.Rotate(out, -rot, color.Transparent)
	}

	scale := effects.NonNegative(e.Scale) / 100
	if scale != 1 {
		return scaled(out, math.Min(scale, MaxScale(canvas)), canvas), true
	}

	return center(out, canvas), true
}

// MaxScale returns the largest scale factor applied on a canvas: one source
// pixel stretched across the longer canvas side.
func MaxScale(canvas pipeline.Dimension) float64 {
	return float64(max(canvas.Width, canvas.Height, 1))
}

// scaled resizes img by scale and centers it on the canvas. Only the source
// pixels that land on the canvas are resampled.
func scaled(img image.Image, scale float64, canvas pipeline.Dimension) *image.NRGBA {
	layer := imaging.New(canvas.Width, canvas.Height, color.NRGBA{})
	b := img.Bounds()
	w := int(math.Round(float64(b.Dx()) * scale))
	h := int(math.Round(float64(b.Dy()) * scale))
	if w < 1 || h < 1 {
		return layer
	}

	x0, x1, atX := visibleSpan(b.Dx(), w, canvas.Width, scale)
	y0, y1, atY := visibleSpan(b.Dy(), h, canvas.Height, scale)
	crop := imaging.Crop(img, image.Rect(b.Min.X+x0, b.Min.Y+y0, b.Min.X+x1, b.Min.Y+y1))
	cw, ch := w, h
	if x1-x0 != b.Dx() {
		cw = int(math.Round(float64(x1-x0) * scale))
	}
	if y1-y0 != b.Dy() {
		ch = int(math.Round(float64(y1-y0) * scale))
	}
	return imaging.Paste(layer, imaging.Resize(crop, cw, ch, imaging.Linear), image.Pt(atX, atY))
}

// visibleSpan returns the source range [lo, hi) along an axis of n pixels
// that lands on a canvas axis of c pixels once scaled to s pixels and
// centered, and the canvas position of source pixel lo.
func visibleSpan(n, s, c int, scale float64) (lo, hi, at int) {
	pos := int(math.Floor(float64(c-s) / 2))
	if pos >= 0 {
		return 0, n, pos
	}
	lo = int(math.Floor(float64(-pos) / scale))
	hi = min(n, int(math.Ceil(float64(c-pos)/scale)))
	if lo >= hi {
		lo = hi - 1
	}
	return lo, hi, pos + int(math.Round(float64(lo)*scale))
}

// center pastes img onto a transparent canvas so that both centers align.
func center(img image.Image, canvas pipeline.Dimension) *image.NRGBA {
	b := img.Bounds()
	pos := image.Pt(
		int(math.Floor(float64(canvas.Width-b.Dx())/2)),
		int(math.Floor(float64(canvas.Height-b.Dy())/2)),
	)
	return imaging.Paste(imaging.New(canvas.Width, canvas.Height, color.NRGBA{}), img, pos)
}
