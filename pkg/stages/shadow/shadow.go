// Package shadow implements the silhouette shadow layer.
package shadow

import (
	"context"
	"fmt"
	"image/color"
	"math"

	"github.com/user/canvasfx/pkg/effects"
	"github.com/user/canvasfx/pkg/pipeline"
	"github.com/user/canvasfx/pkg/ports"
	"github.com/user/canvasfx/pkg/raster"
)

// Stage paints the shadow beneath the subject.
type Stage struct {
	logger ports.Logger
}

// NewStage creates a new shadow stage.
func NewStage(logger ports.Logger) *Stage {
	return &Stage{logger: logger.WithComponent("shadow")}
}

// Execute derives a silhouette from the subject layer and multiplies it
// onto the surface at the shadow offset.
//
// The silhouette carries the shadow opacity in its alpha, and the buffer is
// composited at that opacity again, so a 50% shadow darkens by a quarter.
// Blur and spread enlarge the buffer by max(2·spread, 4·blur) so neither is
// clipped at the subject edge.
func (s *Stage) Execute(ctx context.Context, input pipeline.ShadowInput) (pipeline.LayerResult, error) {
	sh := input.Shadow
	if !sh.Enabled {
		return pipeline.LayerResult{}, nil
	}
	if input.Surface == nil {
		return pipeline.LayerResult{}, fmt.Errorf("no surface")
	}
	if input.Subject == nil {
		return pipeline.LayerResult{}, fmt.Errorf("no subject to derive a silhouette from")
	}

	opacity := effects.Opacity01(sh.Opacity)
	if opacity == 0 {
		return pipeline.LayerResult{}, nil
	}

	silhouette := raster.MaskFromAlpha(input.Subject)
	if silhouette.Empty() {
		return pipeline.LayerResult{}, nil
	}

	reach := raster.Diagonal(silhouette.Width, silhouette.Height)
	blur := math.Min(effects.NonNegative(sh.Blur), reach)
	spread := math.Min(effects.NonNegative(sh.Spread), reach)
	offX := int(math.Round(clampAbs(sh.OffsetX, reach)))
	offY := int(math.Round(clampAbs(sh.OffsetY, reach)))

	buf, pad := Spread(silhouette, float32(opacity), spread, blur)
	if blur > 0 {
		buf = buf.Blurred(blur)
	}

	s.logger.Debug("Drawing %s shadow (blur %.1f, spread %.1f)", string(sh.Type), blur, spread)
	img := buf.Colorize(fill(sh, buf.Width, buf.Height))
	input.Surface.DrawImage(img, offX-pad, offY-pad, opacity, ports.BlendMultiply)
	return pipeline.LayerResult{Drawn: true}, nil
}

// MaxSpreadCopies bounds how many grown silhouettes Spread draws. Wider
// spreads draw every k-th step.
const MaxSpreadCopies = 64

// Spread returns the silhouette weighted by opacity inside a buffer padded by
// the returned amount on every side. Each spread step i draws the
// silhouette grown by i pixels per side at a weight falling linearly from
// opacity to zero.
func Spread(silhouette *raster.Mask, opacity float32, spread, blur float64) (*raster.Mask, int) {
	if spread <= 0 && blur <= 0 {
		out := raster.NewMask(silhouette.Width, silhouette.Height)
		out.DrawOver(silhouette, 0, 0, opacity)
		return out, 0
	}

	extra := int(math.Ceil(math.Max(spread*2, blur*4)))
	pad := extra / 2
	out := raster.NewMask(silhouette.Width+extra, silhouette.Height+extra)
	out.DrawOver(silhouette, pad, pad, opacity)

	steps := int(math.Ceil(spread))
	stride := 1 + (steps-1)/MaxSpreadCopies
	for i := stride; i < steps && i <= pad; i += stride {
		weight := opacity * opacity * float32(1-float64(i)/spread)
		grown := silhouette.Scaled(silhouette.Width+2*i, silhouette.Height+2*i)
		out.DrawOver(grown, pad-i, pad-i, weight)
	}
	return out, pad
}

// fill returns the color source for the shadow buffer. Gradient shadows run
// diagonally from color to color2, or fade color out when color2 is unset.
func fill(sh effects.Shadow, w, h int) func(x, y int) color.NRGBA {
	base := effects.MustColor(sh.Color, 1)
	if sh.Type != effects.ShadowGradient {
		return func(x, y int) color.NRGBA { return base }
	}

	end := base
	end.A = 0
	if sh.Color2 != "" {
		end = effects.MustColor(sh.Color2, 1)
	}
	span := float64(w + h - 2)
	if span <= 0 {
		span = 1
	}
	return func(x, y int) color.NRGBA {
		return effects.LerpColor(base, end, float64(x+y)/span)
	}
}

func clampAbs(v, limit float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(-limit, math.Min(v, limit))
}
