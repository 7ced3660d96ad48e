// Package effects defines the parameter model consumed by the render engine:
// image effects (filters, color science, transform, shadow, outline, glow)
// and background descriptions.
package effects

import "math"

// Neutral values. A field at its neutral value contributes no visible change.
const (
	NeutralBrightness  = 100.0
	NeutralContrast    = 100.0
	NeutralSaturation  = 100.0
	NeutralVibrance    = 60.0
	NeutralExposure    = -6.0
	NeutralHighlights  = 62.0
	NeutralShadows     = 0.0
	NeutralTemperature = 0.0
	NeutralTint        = 0.0
	NeutralScale       = 100.0
)

// ImageEffects is the complete description of the image layer treatment.
type ImageEffects struct {
	// Basic filters with CSS filter semantics.
	Brightness float64 `json:"brightness" yaml:"brightness"`
	Contrast   float64 `json:"contrast" yaml:"contrast"`
	Saturation float64 `json:"saturation" yaml:"saturation"`
	Blur       float64 `json:"blur" yaml:"blur"`
	Hue        float64 `json:"hue" yaml:"hue"`
	Sepia      float64 `json:"sepia" yaml:"sepia"`
	Grayscale  float64 `json:"grayscale" yaml:"grayscale"`
	Invert     float64 `json:"invert" yaml:"invert"`

	// Per-pixel color science.
	Vibrance    float64 `json:"vibrance" yaml:"vibrance"`
	Exposure    float64 `json:"exposure" yaml:"exposure"`
	Highlights  float64 `json:"highlights" yaml:"highlights"`
	Shadows     float64 `json:"shadows" yaml:"shadows"`
	Temperature float64 `json:"temperature" yaml:"temperature"`
	Tint        float64 `json:"tint" yaml:"tint"`

	// Transform applied to the image layer about the canvas center.
	Scale    float64 `json:"scale" yaml:"scale"`
	Rotation float64 `json:"rotation" yaml:"rotation"`
	FlipH    bool    `json:"flipH" yaml:"flipH"`
	FlipV    bool    `json:"flipV" yaml:"flipV"`

	Shadow  Shadow  `json:"shadow" yaml:"shadow"`
	Outline Outline `json:"outline" yaml:"outline"`
	Glow    Glow    `json:"glow" yaml:"glow"`
}

// Shadow describes the silhouette shadow drawn beneath the image.
type Shadow struct {
	Enabled bool       `json:"enabled" yaml:"enabled"`
	Type    ShadowKind `json:"type" yaml:"type"`
	OffsetX float64    `json:"offsetX" yaml:"offsetX"`
	OffsetY float64    `json:"offsetY" yaml:"offsetY"`
	Blur    float64    `json:"blur" yaml:"blur"`
	Color   string     `json:"color" yaml:"color"`
	Color2  string     `json:"color2,omitempty" yaml:"color2,omitempty"`
	Opacity float64    `json:"opacity" yaml:"opacity"`
	Spread  float64    `json:"spread" yaml:"spread"`
}

// Outline describes the stroke drawn around the image bounds.
type Outline struct {
	Enabled bool         `json:"enabled" yaml:"enabled"`
	Type    OutlineKind  `json:"type" yaml:"type"`
	Width   float64      `json:"width" yaml:"width"`
	Color   string       `json:"color" yaml:"color"`
	Color2  string       `json:"color2,omitempty" yaml:"color2,omitempty"`
	Color3  string       `json:"color3,omitempty" yaml:"color3,omitempty"`
	Opacity float64      `json:"opacity" yaml:"opacity"`
	Style   OutlineStyle `json:"style" yaml:"style"`

	CornerRadius  float64 `json:"cornerRadius,omitempty" yaml:"cornerRadius,omitempty"`
	DashLength    float64 `json:"dashLength,omitempty" yaml:"dashLength,omitempty"`
	GapLength     float64 `json:"gapLength,omitempty" yaml:"gapLength,omitempty"`
	GlowIntensity float64 `json:"glowIntensity,omitempty" yaml:"glowIntensity,omitempty"`
	Pattern       string  `json:"pattern,omitempty" yaml:"pattern,omitempty"`
}

// Glow describes the halo derived from the composited subject.
type Glow struct {
	Enabled   bool      `json:"enabled" yaml:"enabled"`
	Type      GlowKind  `json:"type" yaml:"type"`
	Blur      float64   `json:"blur" yaml:"blur"`
	Color     string    `json:"color" yaml:"color"`
	Color2    string    `json:"color2,omitempty" yaml:"color2,omitempty"`
	Color3    string    `json:"color3,omitempty" yaml:"color3,omitempty"`
	Opacity   float64   `json:"opacity" yaml:"opacity"`
	Intensity float64   `json:"intensity" yaml:"intensity"`
	Spread    float64   `json:"spread,omitempty" yaml:"spread,omitempty"`
	Style     GlowStyle `json:"style,omitempty" yaml:"style,omitempty"`

	// Animation is reserved. Glow output does not vary between renders.
	Animation bool `json:"animation,omitempty" yaml:"animation,omitempty"`
}

// BackgroundData describes what is painted beneath every other layer.
type BackgroundData struct {
	Type     BackgroundKind `json:"type" yaml:"type"`
	Color    string         `json:"color,omitempty" yaml:"color,omitempty"`
	Gradient *GradientSpec  `json:"gradient,omitempty" yaml:"gradient,omitempty"`
	Pattern  *PatternSpec   `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Image    *ImageSpec     `json:"image,omitempty" yaml:"image,omitempty"`
}

// GradientSpec is a gradient background payload.
type GradientSpec struct {
	Type      GradientKind `json:"type" yaml:"type"`
	Colors    []string     `json:"colors" yaml:"colors"`
	Direction float64      `json:"direction" yaml:"direction"`
	Stops     []float64    `json:"stops,omitempty" yaml:"stops,omitempty"`
}

// PatternSpec is a procedural pattern background payload.
type PatternSpec struct {
	Type    string  `json:"type" yaml:"type"`
	Scale   float64 `json:"scale" yaml:"scale"`
	Opacity float64 `json:"opacity" yaml:"opacity"`
}

// ImageSpec is an image background payload.
type ImageSpec struct {
	URL     string  `json:"url" yaml:"url"`
	Fit     FitMode `json:"fit" yaml:"fit"`
	Opacity float64 `json:"opacity" yaml:"opacity"`
	Blur    float64 `json:"blur" yaml:"blur"`
}

// DefaultImageEffects returns the effects a new editing session starts with.
// Every adjustment is neutral and every sub-effect is disabled.
func DefaultImageEffects() ImageEffects {
	return ImageEffects{
		Brightness:  NeutralBrightness,
		Contrast:    NeutralContrast,
		Saturation:  NeutralSaturation,
		Vibrance:    NeutralVibrance,
		Exposure:    NeutralExposure,
		Highlights:  NeutralHighlights,
		Shadows:     NeutralShadows,
		Temperature: NeutralTemperature,
		Tint:        NeutralTint,
		Scale:       NeutralScale,
		Shadow: Shadow{
			Type:    ShadowDrop,
			OffsetX: 10,
			OffsetY: 10,
			Blur:    10,
			Color:   "#000000",
			Opacity: 50,
		},
		Outline: Outline{
			Type:    OutlineSolid,
			Width:   2,
			Color:   "#000000",
			Opacity: 100,
			Style:   OutlineOutside,
		},
		Glow: Glow{
			Type:      GlowSolid,
			Blur:      10,
			Color:     "#ffffff",
			Opacity:   50,
			Intensity: 1,
			Style:     GlowOutside,
		},
	}
}

// DefaultBackground returns a plain white background.
func DefaultBackground() BackgroundData {
	return BackgroundData{Type: BackgroundColor, Color: "#ffffff"}
}

// ShadowPreset returns the shadow a picker selection enables: offset 10/10,
// blur 10, black at 50%, and a gray second stop for the gradient kind.
func ShadowPreset(kind ShadowKind) Shadow {
	s := Shadow{
		Enabled: true,
		Type:    kind,
		OffsetX: 10,
		OffsetY: 10,
		Blur:    10,
		Color:   "#000000",
		Opacity: 50,
	}
	if kind == ShadowGradient {
		s.Color2 = "#666666"
	}
	return s
}

// HasFilters reports whether any basic filter differs from neutral.
func (e ImageEffects) HasFilters() bool {
	return e.Brightness != NeutralBrightness ||
		e.Contrast != NeutralContrast ||
		e.Saturation != NeutralSaturation ||
		e.Blur != 0 ||
		e.Hue != 0 ||
		e.Sepia != 0 ||
		e.Grayscale != 0 ||
		e.Invert != 0
}

// HasPixelAdjustments reports whether the per-pixel stage has work to do.
func (e ImageEffects) HasPixelAdjustments() bool {
	return e.Vibrance != NeutralVibrance ||
		e.Exposure != NeutralExposure ||
		e.Highlights != NeutralHighlights ||
		e.Shadows != NeutralShadows ||
		e.Temperature != NeutralTemperature ||
		e.Tint != NeutralTint
}

// HasTransform reports whether the image layer needs a transform.
func (e ImageEffects) HasTransform() bool {
	return e.Scale != NeutralScale || math.Mod(e.Rotation, 360) != 0 || e.FlipH || e.FlipV
}

// Clone returns a deep copy that shares no slices or pointers with b.
func (b BackgroundData) Clone() BackgroundData {
	out := b
	if b.Gradient != nil {
		g := *b.Gradient
		g.Colors = append([]string(nil), b.Gradient.Colors...)
		if b.Gradient.Stops != nil {
			g.Stops = append([]float64(nil), b.Gradient.Stops...)
		}
		out.Gradient = &g
	}
	if b.Pattern != nil {
		p := *b.Pattern
		out.Pattern = &p
	}
	if b.Image != nil {
		img := *b.Image
		out.Image = &img
	}
	return out
}

// Opacity01 converts a 0-100 opacity to [0, 1], clamping out-of-range values.
func Opacity01(v float64) float64 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 100 {
		return 1
	}
	return v / 100
}

// NonNegative clamps v to zero or more, mapping NaN to zero.
func NonNegative(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return v
}
