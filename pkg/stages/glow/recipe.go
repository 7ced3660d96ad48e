package glow

import (
	"math"

	"github.com/user/canvasfx/pkg/effects"
)

// Pass is one blurred copy of the silhouette. Blur is a canvas shadow blur
// radius; the Gaussian applied is half of it.
type Pass struct {
	Color string
	Alpha float64
	Blur  float64
}

// Recipe expands a glow into its passes. Alpha already includes opacity
// and intensity. Kinds without a recipe of their own, rainbow included,
// render as solid.
func Recipe(g effects.Glow) []Pass {
	base := effects.Opacity01(g.Opacity) * effects.NonNegative(g.Intensity)
	blur := effects.NonNegative(g.Blur)

	single := func(factor, blurScale float64) []Pass {
		return []Pass{{Color: g.Color, Alpha: base * factor, Blur: blur * blurScale}}
	}

	switch g.Type {
	case effects.GlowSoft:
		return single(0.5, 2)
	case effects.GlowRim:
		return single(0.7, 0.5)
	case effects.GlowHalo:
		return single(1, 1.5)
	case effects.GlowColorful:
		return palette([]string{
			g.Color,
			effects.ColorOr(g.Color2, "#FFFF00"),
			effects.ColorOr(g.Color3, "#FF00FF"),
		}, base, blur, 3, nil)
	case effects.GlowChromatic:
		return palette([]string{
			g.Color,
			effects.ColorOr(g.Color2, "#FF0000"),
			effects.ColorOr(g.Color3, "#00FF00"),
			"#0000FF",
			"#FF00FF",
		}, base, blur, 2, nil)
	case effects.GlowFire:
		return palette([]string{"#FFFF00", "#FFA500", "#FF4500", "#FF0000"}, base, blur, 2, nil)
	case effects.GlowIce:
		return palette([]string{"#E0FFFF", "#87CEEB", "#4682B4", "#000080"}, base, blur, 2, nil)
	case effects.GlowAurora:
		// Fixed wave phase keeps renders reproducible.
		wave := func(i int) float64 { return math.Sin(float64(i)) * 5 }
		return palette([]string{
			g.Color,
			effects.ColorOr(g.Color2, "#00FF00"),
			effects.ColorOr(g.Color3, "#0080FF"),
			"#8000FF",
			"#FF0080",
		}, base, blur, 2, wave)
	default:
		return single(1, 1)
	}
}

// palette builds one pass per color. Pass i fades by (1 - i/n) and its blur
// grows by i·step plus an optional wave offset.
func palette(colors []string, base, blur, step float64, wave func(int) float64) []Pass {
	n := float64(len(colors))
	passes := make([]Pass, len(colors))
	for i, c := range colors {
		b := blur + float64(i)*step
		if wave != nil {
			b += wave(i)
		}
		passes[i] = Pass{
			Color: c,
			Alpha: base * (1 - float64(i)/n),
			Blur:  math.Max(0, b),
		}
	}
	return passes
}

// Reach returns the largest blur among the passes.
func Reach(passes []Pass) float64 {
	reach := 0.0
	for _, p := range passes {
		reach = math.Max(reach, p.Blur)
	}
	return reach
}
