package ggrenderer

import (
	"image/color"
	"math"
	"sort"

	"github.com/fogleman/gg"

	"github.com/user/canvasfx/pkg/ports"
)

// toPattern converts a gradient paint into a gg pattern. It returns nil for
// solid paints and for gradients with fewer than two stops, which callers
// draw as a solid color.
func toPattern(p ports.Paint) gg.Pattern {
	g := p.Gradient
	if g == nil || len(g.Stops) < 2 {
		return nil
	}

	switch g.Kind {
	case ports.GradientRadial:
		grad := gg.NewRadialGradient(g.X0, g.Y0, g.R0, g.X0, g.Y0, g.R1)
		addStops(grad, g.Stops)
		return grad
	case ports.GradientConic:
		return newConicGradient(g.X0, g.Y0, g.Angle, g.Stops)
	default:
		grad := gg.NewLinearGradient(g.X0, g.Y0, g.X1, g.Y1)
		addStops(grad, g.Stops)
		return grad
	}
}

func addStops(grad gg.Gradient, stops []ports.ColorStop) {
	for _, s := range stops {
		grad.AddColorStop(s.Offset, solid(s.Color))
	}
}

// conicGradient sweeps clockwise around a center point, starting at angle
// radians from the positive x axis.
type conicGradient struct {
	cx, cy float64
	angle  float64
	stops  []ports.ColorStop
}

func newConicGradient(cx, cy, angle float64, stops []ports.ColorStop) *conicGradient {
	sorted := append([]ports.ColorStop(nil), stops...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Offset < sorted[j].Offset })
	return &conicGradient{cx: cx, cy: cy, angle: angle, stops: sorted}
}

// ColorAt implements gg.Pattern.
func (g *conicGradient) ColorAt(x, y int) color.Color {
	dx := float64(x) + 0.5 - g.cx
	dy := float64(y) + 0.5 - g.cy
	theta := math.Atan2(dy, dx) - g.angle
	t := math.Mod(theta, 2*math.Pi) / (2 * math.Pi)
	if t < 0 {
		t++
	}
	return interpolateStops(g.stops, t)
}

// interpolateStops evaluates sorted color stops at t in [0, 1], clamping
// to the first and last stop outside their range.
func interpolateStops(stops []ports.ColorStop, t float64) color.Color {
	first := stops[0]
	if t <= first.Offset {
		return solid(first.Color)
	}
	for i := 1; i < len(stops); i++ {
		s0, s1 := stops[i-1], stops[i]
		if t > s1.Offset {
			continue
		}
		span := s1.Offset - s0.Offset
		if span <= 0 {
			return solid(s1.Color)
		}
		return lerpRGBA(solid(s0.Color), solid(s1.Color), (t-s0.Offset)/span)
	}
	return solid(stops[len(stops)-1].Color)
}

func lerpRGBA(a, b color.Color, t float64) color.Color {
	r0, g0, b0, a0 := a.RGBA()
	r1, g1, b1, a1 := b.RGBA()
	mix := func(u, v uint32) uint8 {
		return uint8((float64(u) + (float64(v)-float64(u))*t) / 257)
	}
	return color.RGBA{R: mix(r0, r1), G: mix(g0, g1), B: mix(b0, b1), A: mix(a0, a1)}
}

var _ gg.Pattern = (*conicGradient)(nil)
