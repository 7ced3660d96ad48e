// Package layout implements the canvas sizing stage.
package layout

import (
	"context"
	"math"

	"github.com/user/canvasfx/pkg/pipeline"
)

// Stage derives the canvas size from the source image.
// This is a pure function with no external dependencies.
type Stage struct{}

// NewStage creates a new layout stage.
func NewStage() *Stage {
	return &Stage{}
}

// Execute calculates the canvas size for the input source.
func (s *Stage) Execute(ctx context.Context, input pipeline.LayoutInput) (pipeline.LayoutResult, error) {
	return ComputeLayout(input), nil
}

// ComputeLayout performs the layout calculation.
// This is exposed as a standalone function for testing and reuse.
//
// The source aspect ratio is fitted into the max box: a source wider than
// the box ratio takes the full width, otherwise the full height. The source
// is scaled up as well as down. Sides are truncated to whole pixels, and
// never drop below 1.
func ComputeLayout(input pipeline.LayoutInput) pipeline.LayoutResult {
	maxW, maxH := input.MaxWidth, input.MaxHeight
	if maxW <= 0 || maxH <= 0 {
		def := pipeline.DefaultLayoutInput()
		maxW, maxH = def.MaxWidth, def.MaxHeight
	}
	if input.SourceWidth <= 0 || input.SourceHeight <= 0 {
		return pipeline.LayoutResult{Canvas: pipeline.Dimension{Width: maxW, Height: maxH}, Scale: 1}
	}

	aspect := float64(input.SourceWidth) / float64(input.SourceHeight)
	var w, h float64
	if aspect > float64(maxW)/float64(maxH) {
		w = float64(maxW)
		h = float64(maxW) / aspect
	} else {
		w = float64(maxH) * aspect
		h = float64(maxH)
	}

	canvas := pipeline.Dimension{
		Width:  atLeastOne(w),
		Height: atLeastOne(h),
	}
	return pipeline.LayoutResult{
		Canvas: canvas,
		Scale:  float64(canvas.Width) / float64(input.SourceWidth),
	}
}

// ComputeCanvas is a shorthand for ComputeLayout returning only the canvas.
func ComputeCanvas(srcW, srcH, maxW, maxH int) pipeline.Dimension {
	return ComputeLayout(pipeline.LayoutInput{
		SourceWidth:  srcW,
		SourceHeight: srcH,
		MaxWidth:     maxW,
		MaxHeight:    maxH,
	}).Canvas
}

func atLeastOne(v float64) int {
	n := int(math.Trunc(v))
	if n < 1 {
		return 1
	}
	return n
}
