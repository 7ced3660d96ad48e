package effects

import "strings"

// ShadowKind selects the shadow variant.
type ShadowKind string

const (
	ShadowDrop     ShadowKind = "drop"
	ShadowInner    ShadowKind = "inner"
	ShadowLeft     ShadowKind = "left"
	ShadowRight    ShadowKind = "right"
	ShadowGradient ShadowKind = "gradient"
)

// Valid reports whether k is a known shadow kind.
func (k ShadowKind) Valid() bool {
	switch k {
	case ShadowDrop, ShadowInner, ShadowLeft, ShadowRight, ShadowGradient:
		return true
	}
	return false
}

// OutlineKind selects the outline stroke recipe.
type OutlineKind string

const (
	OutlineSolid           OutlineKind = "solid"
	OutlineGradient        OutlineKind = "gradient"
	OutlineDouble          OutlineKind = "double"
	OutlineCorners         OutlineKind = "corners"
	OutlineCornersGradient OutlineKind = "corners-gradient"
	OutlineDashed          OutlineKind = "dashed"
	OutlineDotted          OutlineKind = "dotted"
	OutlineInset           OutlineKind = "inset"
	OutlineNeonGlow        OutlineKind = "neon-glow"
	OutlineRainbow         OutlineKind = "rainbow"
	OutlineVintage         OutlineKind = "vintage"
	OutlineModern          OutlineKind = "modern"
	OutlineArtistic        OutlineKind = "artistic"
)

// OutlineKinds lists every outline kind in picker order.
var OutlineKinds = []OutlineKind{
	OutlineSolid, OutlineGradient, OutlineDouble, OutlineCorners,
	OutlineCornersGradient, OutlineDashed, OutlineDotted, OutlineInset,
	OutlineNeonGlow, OutlineRainbow, OutlineVintage, OutlineModern, OutlineArtistic,
}

// Valid reports whether k is a known outline kind.
func (k OutlineKind) Valid() bool {
	for _, known := range OutlineKinds {
		if k == known {
			return true
		}
	}
	return false
}

// OutlineStyle positions the stroke relative to the nominal edge.
type OutlineStyle string

const (
	OutlineOutside OutlineStyle = "outside"
	OutlineInside  OutlineStyle = "inside"
	OutlineCenter  OutlineStyle = "center"
)

// Offset returns how far the stroke path moves inward from the surface
// edge for a stroke of the given width.
func (s OutlineStyle) Offset(width float64) float64 {
	switch s {
	case OutlineInside:
		return -width / 2
	case OutlineCenter:
		return 0
	default:
		return width / 2
	}
}

// GlowKind selects the glow recipe.
type GlowKind string

const (
	GlowSolid     GlowKind = "solid"
	GlowGradient  GlowKind = "gradient"
	GlowRainbow   GlowKind = "rainbow"
	GlowSoft      GlowKind = "soft"
	GlowNeon      GlowKind = "neon"
	GlowColorful  GlowKind = "colorful"
	GlowRim       GlowKind = "rim"
	GlowHalo      GlowKind = "halo"
	GlowChromatic GlowKind = "chromatic"
	GlowFire      GlowKind = "fire"
	GlowIce       GlowKind = "ice"
	GlowAurora    GlowKind = "aurora"
)

// GlowKinds lists every glow kind in picker order.
var GlowKinds = []GlowKind{
	GlowSolid, GlowGradient, GlowRainbow, GlowSoft, GlowNeon, GlowColorful,
	GlowRim, GlowHalo, GlowChromatic, GlowFire, GlowIce, GlowAurora,
}

// Valid reports whether k is a known glow kind.
func (k GlowKind) Valid() bool {
	for _, known := range GlowKinds {
		if k == known {
			return true
		}
	}
	return false
}

// GlowStyle selects which side of the subject edge the glow occupies.
type GlowStyle string

const (
	GlowOutside GlowStyle = "outside"
	GlowInside  GlowStyle = "inside"
	GlowBoth    GlowStyle = "both"
)

// Valid reports whether s is a known glow style.
func (s GlowStyle) Valid() bool {
	return s == GlowOutside || s == GlowInside || s == GlowBoth
}

// BackgroundKind selects the background renderer.
type BackgroundKind string

const (
	BackgroundColor    BackgroundKind = "color"
	BackgroundGradient BackgroundKind = "gradient"
	BackgroundPattern  BackgroundKind = "pattern"
	BackgroundImage    BackgroundKind = "image"
)

// Valid reports whether k is a known background kind.
func (k BackgroundKind) Valid() bool {
	switch k {
	case BackgroundColor, BackgroundGradient, BackgroundPattern, BackgroundImage:
		return true
	}
	return false
}

// GradientKind selects the gradient geometry for gradient backgrounds.
type GradientKind string

const (
	GradientLinear GradientKind = "linear"
	GradientRadial GradientKind = "radial"
	GradientConic  GradientKind = "conic"
)

// FitMode controls how a background image covers the surface.
type FitMode string

const (
	FitCover   FitMode = "cover"
	FitContain FitMode = "contain"
	FitFill    FitMode = "fill"
	FitRepeat  FitMode = "repeat"
)

// PatternShape is the procedural tile drawn for a pattern background.
type PatternShape int

const (
	PatternNone PatternShape = iota
	PatternDots
	PatternDiagonal
	PatternGrid
)

// Built-in pattern identifiers. Pattern types are stored as the CSS
// background expression the swatch was drawn with.
const (
	PatternTypeDots     = "radial-gradient(circle, #000 1px, transparent 1px)"
	PatternTypeLines    = "repeating-linear-gradient(45deg, #000, #000 1px, transparent 1px, transparent 10px)"
	PatternTypeGrid     = "linear-gradient(#000 1px, transparent 1px), linear-gradient(90deg, #000 1px, transparent 1px)"
	PatternTypeHexagons = "radial-gradient(circle at 50% 50%, #000 2px, transparent 2px)"
)

// ClassifyPattern maps a pattern type string to the tile it produces.
// The checks run in this order because "linear-gradient" is a substring
// of "repeating-linear-gradient". The short names dots, lines and grid
// are accepted for hand-written documents.
func ClassifyPattern(patternType string) PatternShape {
	switch patternType {
	case "dots", "hexagons":
		return PatternDots
	case "lines":
		return PatternDiagonal
	case "grid":
		return PatternGrid
	}
	switch {
	case strings.Contains(patternType, "radial-gradient"):
		return PatternDots
	case strings.Contains(patternType, "repeating-linear-gradient"):
		return PatternDiagonal
	case strings.Contains(patternType, "linear-gradient"):
		return PatternGrid
	default:
		return PatternNone
	}
}
