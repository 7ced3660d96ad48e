// Package outline implements the outline layer: a stroke around the canvas
// bounds in one of the outline styles.
package outline

import (
	"context"
	"fmt"
	"hash/fnv"
	"image/color"
	"math"
	"math/rand"

	"github.com/user/canvasfx/pkg/effects"
	"github.com/user/canvasfx/pkg/pipeline"
	"github.com/user/canvasfx/pkg/ports"
	"github.com/user/canvasfx/pkg/raster"
)

// Stage paints the outline layer.
type Stage struct {
	logger ports.Logger
}

// NewStage creates a new outline stage.
func NewStage(logger ports.Logger) *Stage {
	return &Stage{logger: logger.WithComponent("outline")}
}

// Rect is a stroke path rectangle in surface coordinates.
type Rect struct {
	X, Y, W, H float64
}

// Grow returns r expanded by d on every side.
func (r Rect) Grow(d float64) Rect {
	return Rect{X: r.X - d, Y: r.Y - d, W: r.W + 2*d, H: r.H + 2*d}
}

// Bounds returns the stroke path for a width×height surface: the surface
// edge moved inward by the style offset.
func Bounds(style effects.OutlineStyle, strokeWidth float64, width, height int) Rect {
	off := style.Offset(strokeWidth)
	return Rect{X: off, Y: off, W: float64(width) - 2*off, H: float64(height) - 2*off}
}

// Execute strokes the outline onto the surface.
func (s *Stage) Execute(ctx context.Context, input pipeline.OutlineInput) (pipeline.LayerResult, error) {
	o := input.Outline
	if !o.Enabled {
		return pipeline.LayerResult{}, nil
	}
	if input.Surface == nil {
		return pipeline.LayerResult{}, fmt.Errorf("no surface")
	}

	surface := input.Surface
	reach := raster.Diagonal(surface.Width(), surface.Height())
	width := math.Min(effects.NonNegative(o.Width), reach)
	opacity := effects.Opacity01(o.Opacity)
	if width == 0 || opacity == 0 {
		return pipeline.LayerResult{}, nil
	}

	r := Bounds(o.Style, width, surface.Width(), surface.Height())
	if r.W <= 0 || r.H <= 0 {
		s.logger.Debug("Outline rectangle is empty, skipping")
		return pipeline.LayerResult{}, nil
	}

	p := painter{
		surface: surface,
		outline: o,
		width:   width,
		opacity: opacity,
		rng:     rand.New(rand.NewSource(Seed(o, input.Seed))),
	}
	s.logger.Debug("Drawing %s outline (width %.1f)", string(o.Type), width)
	p.paint(r)
	return pipeline.LayerResult{Drawn: true}, nil
}

// Seed returns the jitter seed: explicit when non-zero, otherwise a hash of
// the outline parameters so equal inputs render identically.
func Seed(o effects.Outline, explicit int64) int64 {
	if explicit != 0 {
		return explicit
	}
	h := fnv.New64a()
	fmt.Fprintf(h, "%+v", o)
	return int64(h.Sum64())
}

type painter struct {
	surface ports.Surface
	outline effects.Outline
	width   float64
	opacity float64
	rng     *rand.Rand
}

func (p *painter) paint(r Rect) {
	o := p.outline
	w := p.width

	switch o.Type {
	case effects.OutlineGradient:
		p.stroke(r, p.plain(p.twoStop()))
	case effects.OutlineDouble:
		outer := p.solid(0.8)
		outer.Width = w / 2
		p.stroke(r.Grow(1), outer)
		inner := p.solid(1)
		inner.Width = w / 2
		p.stroke(r, inner)
	case effects.OutlineCorners:
		p.corners(r, p.plain(ports.SolidPaint(p.color(o.Color, 1))))
	case effects.OutlineCornersGradient:
		p.corners(r, p.plain(p.twoStop()))
	case effects.OutlineDashed:
		st := p.solid(1)
		st.Dash = []float64{orDefault(o.DashLength, 10), orDefault(o.GapLength, 5)}
		p.stroke(r, st)
	case effects.OutlineDotted:
		st := p.solid(1)
		st.Dash = []float64{1, orDefault(o.GapLength, 3)}
		p.stroke(r, st)
	case effects.OutlineInset:
		p.insetShadow(r)
		p.stroke(r, p.solid(1))
	case effects.OutlineNeonGlow:
		rings := NeonRings(o.GlowIntensity, p.surface.Width(), p.surface.Height())
		for i := rings; i >= 1; i-- {
			st := p.solid(float64(rings-i+1) / float64(rings))
			st.Width = w + 2*float64(i)
			p.stroke(r.Grow(float64(i)), st)
		}
		p.stroke(r, p.solid(1))
	case effects.OutlineRainbow:
		p.stroke(r, p.plain(p.rainbow()))
	case effects.OutlineVintage:
		st := p.solid(1)
		st.Dash = []float64{3 * w, w}
		amp := 0.3 * w
		p.stroke(Rect{
			X: r.X + p.jitter(amp),
			Y: r.Y + p.jitter(amp),
			W: r.W + p.jitter(amp),
			H: r.H + p.jitter(amp),
		}, st)
	case effects.OutlineModern:
		st := p.solid(1)
		st.Join = ports.JoinRound
		st.Radius = math.Min(10, 2*w)
		p.stroke(r, st)
	case effects.OutlineArtistic:
		st := p.solid(1)
		st.Cap = ports.CapRound
		st.Join = ports.JoinRound
		switch o.Pattern {
		case "brush":
			st.Dash = []float64{2 * w, 0.5 * w}
		case "ink":
			st.Dash = []float64{1, w, 3 * w, 0.5 * w}
		}
		amp := 0.2 * w
		r.X += p.jitter(amp)
		r.Y += p.jitter(amp)
		p.stroke(r, st)
	default:
		p.stroke(r, p.solid(1))
	}
}

func (p *painter) stroke(r Rect, st ports.Stroke) {
	p.surface.StrokeRect(r.X, r.Y, r.W, r.H, st)
}

// corners strokes the four corner boxes of r.
func (p *painter) corners(r Rect, st ports.Stroke) {
	size := orDefault(p.outline.CornerRadius, 20)
	cw := math.Min(size, r.W/2)
	ch := math.Min(size, r.H/2)
	for _, c := range [][2]float64{
		{r.X, r.Y},
		{r.X + r.W - cw, r.Y},
		{r.X, r.Y + r.H - ch},
		{r.X + r.W - cw, r.Y + r.H - ch},
	} {
		p.surface.StrokeRect(c[0], c[1], cw, ch, st)
	}
}

// insetShadow darkens beneath the stroke ring, offset down and right by
// half the stroke width and blurred by the stroke width.
func (p *painter) insetShadow(r Rect) {
	w := p.width
	ring := Ring(p.surface.Width(), p.surface.Height(), r, w)
	if ring.Empty() {
		return
	}
	shade := ring.Blurred(w / 2).Colorize(func(x, y int) color.NRGBA {
		return color.NRGBA{A: uint8(math.Round(255 * 0.3 * p.opacity))}
	})
	shift := int(math.Round(w / 2))
	p.surface.DrawImage(shade, shift, shift, 1, ports.BlendNormal)
}

// plain returns a square-cornered stroke of the outline width.
func (p *painter) plain(paint ports.Paint) ports.Stroke {
	return ports.Stroke{Paint: paint, Width: p.width}
}

// solid returns a stroke in the outline color at factor times its opacity.
func (p *painter) solid(factor float64) ports.Stroke {
	return p.plain(ports.SolidPaint(p.color(p.outline.Color, factor)))
}

func (p *painter) color(s string, factor float64) color.NRGBA {
	return effects.MustColor(s, p.opacity*factor)
}

// diagonal returns a linear gradient across the surface from the top-left
// to the bottom-right corner.
func (p *painter) diagonal(stops ...ports.ColorStop) ports.Paint {
	return ports.Paint{
		Color: p.color(p.outline.Color, 1),
		Gradient: &ports.Gradient{
			Kind:  ports.GradientLinear,
			X1:    float64(p.surface.Width()),
			Y1:    float64(p.surface.Height()),
			Stops: stops,
		},
	}
}

func (p *painter) twoStop() ports.Paint {
	o := p.outline
	return p.diagonal(
		ports.ColorStop{Offset: 0, Color: p.color(o.Color, 1)},
		ports.ColorStop{Offset: 1, Color: p.color(effects.ColorOr(o.Color2, o.Color), 1)},
	)
}

func (p *painter) rainbow() ports.Paint {
	o := p.outline
	return p.diagonal(
		ports.ColorStop{Offset: 0, Color: p.color(o.Color, 1)},
		ports.ColorStop{Offset: 0.25, Color: p.color(effects.ColorOr(o.Color2, "#FFFF00"), 1)},
		ports.ColorStop{Offset: 0.5, Color: p.color(effects.ColorOr(o.Color3, "#00FF00"), 1)},
		ports.ColorStop{Offset: 0.75, Color: p.color("#0000FF", 1)},
		ports.ColorStop{Offset: 1, Color: p.color("#FF00FF", 1)},
	)
}

// jitter returns a uniform offset in [-amp/2, amp/2).
func (p *painter) jitter(amp float64) float64 {
	return (p.rng.Float64() - 0.5) * amp
}

// Ring returns the coverage of a square-cornered stroke of the given width
// along r, sampled at pixel centers.
func Ring(width, height int, r Rect, strokeWidth float64) *raster.Mask {
	m := raster.NewMask(width, height)
	half := strokeWidth / 2
	for y := 0; y < height; y++ {
		cy := float64(y) + 0.5
		for x := 0; x < width; x++ {
			cx := float64(x) + 0.5
			inOuter := cx >= r.X-half && cx < r.X+r.W+half && cy >= r.Y-half && cy < r.Y+r.H+half
			inInner := cx >= r.X+half && cx < r.X+r.W-half && cy >= r.Y+half && cy < r.Y+r.H-half
			if inOuter && !inInner {
				m.Set(x, y, 1)
			}
		}
	}
	return m
}

// NeonRings returns the number of glow rings for a neon outline: the
// rounded glow intensity, at least one and at most the surface diagonal
// since rings grow by a pixel each.
func NeonRings(intensity float64, width, height int) int {
	rings := math.Round(math.Min(orDefault(intensity, 5), math.Ceil(raster.Diagonal(width, height))))
	if rings < 1 {
		return 1
	}
	return int(rings)
}

func orDefault(v, fallback float64) float64 {
	if math.IsNaN(v) || v <= 0 {
		return fallback
	}
	return v
}
