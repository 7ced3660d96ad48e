// Package glow implements the glow layer: a halo painted from a silhouette
// and screened onto the surface.
package glow

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/user/canvasfx/pkg/effects"
	"github.com/user/canvasfx/pkg/pipeline"
	"github.com/user/canvasfx/pkg/ports"
	"github.com/user/canvasfx/pkg/raster"
)

// Stage paints the glow layer.
type Stage struct {
	logger ports.Logger
}

// NewStage creates a new glow stage.
func NewStage(logger ports.Logger) *Stage {
	return &Stage{logger: logger.WithComponent("glow")}
}

// Execute builds a binary mask from the mask source (or the surface itself),
// paints every recipe pass from it and screens the result onto the surface.
//
// The halo is confined by style: outside glows only around the subject,
// inside only within it. Nothing is painted farther than the largest pass
// blur plus spread from the subject, and both are capped at the canvas
// diagonal.
func (s *Stage) Execute(ctx context.Context, input pipeline.GlowInput) (pipeline.LayerResult, error) {
	g := input.Glow
	if !g.Enabled {
		return pipeline.LayerResult{}, nil
	}
	if input.Surface == nil {
		return pipeline.LayerResult{}, fmt.Errorf("no surface")
	}

	var source image.Image = input.MaskSource
	if source == nil {
		source = input.Surface.Snapshot()
	}
	core := raster.MaskFromAlpha(source)
	if core.Empty() {
		return pipeline.LayerResult{}, nil
	}

	reach := raster.Diagonal(core.Width, core.Height)
	passes := Recipe(g)
	for i := range passes {
		passes[i].Blur = math.Min(passes[i].Blur, reach)
	}
	spread := math.Min(effects.NonNegative(g.Spread), reach)
	light := core
	if spread > 0 {
		light = core.Dilate(spread)
	}
	envelope := core.Dilate(Reach(passes) + spread)
	style := g.Style
	if !style.Valid() {
		style = effects.GlowOutside
	}

	s.logger.Debug("Drawing %s glow with %d passes", string(g.Type), len(passes))

	halo := image.NewRGBA(image.Rect(0, 0, core.Width, core.Height))
	drawn := false
	for _, p := range passes {
		c := effects.MustColor(p.Color, p.Alpha)
		if c.A == 0 {
			continue
		}
		cov := coverage(style, core, light, p.Blur/2).Intersect(envelope)
		raster.Composite(halo, cov.Colorize(paint(g, c, core.Width, core.Height)), image.Point{}, 1, ports.BlendNormal)
		drawn = true
	}
	if !drawn {
		return pipeline.LayerResult{}, nil
	}

	input.Surface.DrawImage(halo, 0, 0, 1, ports.BlendScreen)
	return pipeline.LayerResult{Drawn: true}, nil
}

// coverage returns where a pass with the given Gaussian sigma lands.
func coverage(style effects.GlowStyle, core, light *raster.Mask, sigma float64) *raster.Mask {
	outside := func() *raster.Mask { return light.Blurred(sigma).Intersect(core.Invert()) }
	inside := func() *raster.Mask { return core.Invert().Blurred(sigma).Intersect(core) }

	switch style {
	case effects.GlowInside:
		return inside()
	case effects.GlowBoth:
		return outside().Union(inside())
	default:
		return outside()
	}
}

// paint returns the color source for a pass. Gradient glows run diagonally
// from the pass color to color2 at the same alpha.
func paint(g effects.Glow, c color.NRGBA, w, h int) func(x, y int) color.NRGBA {
	if g.Type != effects.GlowGradient || g.Color2 == "" {
		return func(x, y int) color.NRGBA { return c }
	}
	end := effects.MustColor(g.Color2, float64(c.A)/255)
	span := float64(w + h - 2)
	if span <= 0 {
		span = 1
	}
	return func(x, y int) color.NRGBA {
		return effects.LerpColor(c, end, float64(x+y)/span)
	}
}
