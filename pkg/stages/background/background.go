// Package background implements the background layer: solid colors,
// gradients, procedural patterns and images.
package background

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"

	"github.com/user/canvasfx/pkg/effects"
	"github.com/user/canvasfx/pkg/pipeline"
	"github.com/user/canvasfx/pkg/ports"
)

// defaultTileSize is the pattern tile side when no scale is given.
const defaultTileSize = 20

// Stage paints the background layer.
type Stage struct {
	renderer ports.Renderer
	cache    ports.ImageCache
	logger   ports.Logger
}

// NewStage creates a new background stage. cache may be nil, in which case
// image backgrounds are never drawn.
func NewStage(renderer ports.Renderer, cache ports.ImageCache, logger ports.Logger) *Stage {
	return &Stage{
		renderer: renderer,
		cache:    cache,
		logger:   logger.WithComponent("background"),
	}
}

// Execute paints the background described by input onto the surface.
// A payload missing for its type is a no-op, not an error.
func (s *Stage) Execute(ctx context.Context, input pipeline.BackgroundInput) (pipeline.BackgroundResult, error) {
	if input.Surface == nil {
		return pipeline.BackgroundResult{}, fmt.Errorf("no surface")
	}

	bg := input.Background
	switch bg.Type {
	case effects.BackgroundColor:
		return s.paintColor(input.Surface, bg.Color), nil
	case effects.BackgroundGradient:
		return s.paintGradient(input.Surface, bg.Gradient), nil
	case effects.BackgroundPattern:
		return s.paintPattern(input.Surface, bg.Pattern), nil
	case effects.BackgroundImage:
		return s.paintImage(input.Surface, bg.Image), nil
	default:
		s.logger.Debug("Unknown background type %q, skipping", string(bg.Type))
		return pipeline.BackgroundResult{}, nil
	}
}

func (s *Stage) paintColor(surface ports.Surface, value string) pipeline.BackgroundResult {
	if value == "" {
		return pipeline.BackgroundResult{}
	}
	c, ok := effects.ResolveColor(value, 1)
	if !ok {
		s.logger.Debug("Unparsable color %q, painting transparent", value)
	}
	surface.FillRect(0, 0, float64(surface.Width()), float64(surface.Height()), ports.SolidPaint(c))
	return pipeline.BackgroundResult{Drawn: true}
}

func (s *Stage) paintGradient(surface ports.Surface, spec *effects.GradientSpec) pipeline.BackgroundResult {
	if spec == nil || len(spec.Colors) == 0 {
		return pipeline.BackgroundResult{}
	}
	w, h := float64(surface.Width()), float64(surface.Height())

	if len(spec.Colors) == 1 {
		surface.FillRect(0, 0, w, h, ports.SolidPaint(effects.MustColor(spec.Colors[0], 1)))
		return pipeline.BackgroundResult{Drawn: true}
	}

	surface.FillRect(0, 0, w, h, ports.Paint{Gradient: GradientGeometry(spec, w, h)})
	return pipeline.BackgroundResult{Drawn: true}
}

// GradientGeometry builds the gradient for a w x h surface.
//
// Linear gradients start at the origin and end at (w·cos θ, h·sin θ) for
// direction θ in degrees. Radial gradients grow from the center to half the
// longer side. Conic gradients sweep around the center starting at θ.
func GradientGeometry(spec *effects.GradientSpec, w, h float64) *ports.Gradient {
	angle := spec.Direction * math.Pi / 180
	g := &ports.Gradient{Stops: Stops(spec)}

	switch spec.Type {
	case effects.GradientRadial:
		g.Kind = ports.GradientRadial
		g.X0, g.Y0 = w/2, h/2
		g.R1 = math.Max(w, h) / 2
	case effects.GradientConic:
		g.Kind = ports.GradientConic
		g.X0, g.Y0 = w/2, h/2
		g.Angle = angle
	default:
		g.Kind = ports.GradientLinear
		g.X1 = w * math.Cos(angle)
		g.Y1 = h * math.Sin(angle)
	}
	return g
}

// Stops distributes the gradient colors. Explicit stops are used when
// there is one per color; otherwise colors are spread evenly over [0, 1].
func Stops(spec *effects.GradientSpec) []ports.ColorStop {
	n := len(spec.Colors)
	explicit := len(spec.Stops) == n
	stops := make([]ports.ColorStop, n)
	for i, c := range spec.Colors {
		offset := 0.0
		switch {
		case explicit:
			offset = math.Max(0, math.Min(1, spec.Stops[i]))
		case n > 1:
			offset = float64(i) / float64(n-1)
		}
		stops[i] = ports.ColorStop{Offset: offset, Color: effects.MustColor(c, 1)}
	}
	return stops
}

func (s *Stage) paintPattern(surface ports.Surface, spec *effects.PatternSpec) pipeline.BackgroundResult {
	if spec == nil || spec.Type == "" {
		return pipeline.BackgroundResult{}
	}
	shape := effects.ClassifyPattern(spec.Type)
	if shape == effects.PatternNone {
		s.logger.Debug("Unknown pattern %q, skipping", spec.Type)
		return pipeline.BackgroundResult{}
	}

	size := defaultTileSize
	if scale := effects.NonNegative(spec.Scale); scale > 0 {
		size = int(math.Max(1, math.Round(scale)))
	}
	tile := s.renderer.CreateSurface(size, size)
	drawTile(tile, shape)

	// Zero opacity reads as unset, matching how pattern payloads are authored.
	opacity := spec.Opacity
	if opacity == 0 {
		opacity = 100
	}
	surface.FillPattern(tile.ToImage(), effects.Opacity01(opacity))
	return pipeline.BackgroundResult{Drawn: true}
}

// drawTile paints one pattern tile in black on a transparent surface.
func drawTile(tile ports.Surface, shape effects.PatternShape) {
	s := float64(tile.Width())
	line := ports.Stroke{Paint: ports.SolidPaint(color.Black), Width: 1}

	switch shape {
	case effects.PatternDots:
		tile.FillCircle(s/2, s/2, 1, ports.SolidPaint(color.Black))
	case effects.PatternDiagonal:
		tile.StrokeLine(0, 0, s, s, line)
	case effects.PatternGrid:
		tile.StrokeLine(0, 0, s, 0, line)
		tile.StrokeLine(0, 0, 0, s, line)
	}
}

func (s *Stage) paintImage(surface ports.Surface, spec *effects.ImageSpec) pipeline.BackgroundResult {
	if spec == nil || spec.URL == "" {
		return pipeline.BackgroundResult{}
	}
	if s.cache == nil {
		s.logger.Debug("No image cache, skipping image background")
		return pipeline.BackgroundResult{}
	}

	img, ok := s.cache.Get(spec.URL)
	if !ok {
		s.logger.Debug("Background image not loaded yet, deferring")
		return pipeline.BackgroundResult{Pending: true}
	}
	if img == nil || img.Bounds().Empty() {
		return pipeline.BackgroundResult{}
	}

	opacity := spec.Opacity
	if opacity == 0 {
		opacity = 100
	}
	DrawFitted(surface, img, spec.Fit, effects.NonNegative(spec.Blur), effects.Opacity01(opacity))
	return pipeline.BackgroundResult{Drawn: true}
}

// DrawFitted draws img onto the surface according to the fit mode. When blur
// is positive the image is first resampled to its displayed size and blurred
// there, so the blur radius is in surface pixels. An empty fit mode means
// cover.
func DrawFitted(surface ports.Surface, img image.Image, fit effects.FitMode, blur, opacity float64) {
	sw, sh := surface.Width(), surface.Height()
	b := img.Bounds()
	iw, ih := float64(b.Dx()), float64(b.Dy())

	var dw, dh int
	switch fit {
	case effects.FitRepeat:
		tile := img
		if blur > 0 {
			tile = imaging.Blur(img, blur)
		}
		surface.FillPattern(tile, opacity)
		return
	case effects.FitFill:
		dw, dh = sw, sh
	case effects.FitContain:
		scale := math.Min(float64(sw)/iw, float64(sh)/ih)
		dw, dh = displaySize(iw*scale), displaySize(ih*scale)
	default:
		scale := math.Max(float64(sw)/iw, float64(sh)/ih)
		dw, dh = displaySize(iw*scale), displaySize(ih*scale)
	}

	displayed := imaging.Resize(img, dw, dh, imaging.Linear)
	if blur > 0 {
		displayed = imaging.Blur(displayed, blur)
	}
	x := int(math.Round(float64(sw-dw) / 2))
	y := int(math.Round(float64(sh-dh) / 2))
	surface.DrawImage(displayed, x, y, opacity, ports.BlendNormal)
}

func displaySize(v float64) int {
	n := int(math.Round(v))
	if n < 1 {
		return 1
	}
	return n
}
