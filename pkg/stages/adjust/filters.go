package adjust

import (
	"math"

	"github.com/disintegration/gift"

	"github.com/user/canvasfx/pkg/effects"
)

// colorOp maps non-premultiplied channels in [0, 1].
type colorOp func(r, g, b float32) (float32, float32, float32)

// Filters returns the gift filter chain equivalent to the CSS filter list
// brightness, contrast, saturate, blur, hue-rotate, sepia, grayscale, invert.
// A filter at its neutral value is left out. The result is empty when every
// filter is neutral.
func Filters(e effects.ImageEffects) []gift.Filter {
	var pre, post []colorOp

	if e.Brightness != effects.NeutralBrightness {
		pre = append(pre, brightness(amount(e.Brightness)))
	}
	if e.Contrast != effects.NeutralContrast {
		pre = append(pre, contrast(amount(e.Contrast)))
	}
	if e.Saturation != effects.NeutralSaturation {
		pre = append(pre, matrixOp(saturateMatrix(amount(e.Saturation))))
	}
	if e.Hue != 0 {
		post = append(post, matrixOp(hueRotateMatrix(e.Hue)))
	}
	if e.Sepia != 0 {
		post = append(post, matrixOp(sepiaMatrix(unit(e.Sepia))))
	}
	if e.Grayscale != 0 {
		post = append(post, matrixOp(grayscaleMatrix(unit(e.Grayscale))))
	}
	if e.Invert != 0 {
		post = append(post, invert(unit(e.Invert)))
	}

	var filters []gift.Filter
	if len(pre) > 0 {
		filters = append(filters, chain(pre))
	}
	if blur := effects.NonNegative(e.Blur); blur > 0 {
		filters = append(filters, gift.GaussianBlur(float32(blur)))
	}
	if len(post) > 0 {
		filters = append(filters, chain(post))
	}
	return filters
}

// chain applies ops in order, clamping after each as CSS does between
// filter primitives.
func chain(ops []colorOp) gift.Filter {
	return gift.ColorFunc(func(r, g, b, a float32) (float32, float32, float32, float32) {
		for _, op := range ops {
			r, g, b = op(r, g, b)
			r, g, b = clamp(r), clamp(g), clamp(b)
		}
		return r, g, b, a
	})
}

func brightness(k float32) colorOp {
	return func(r, g, b float32) (float32, float32, float32) {
		return r * k, g * k, b * k
	}
}

func contrast(k float32) colorOp {
	return func(r, g, b float32) (float32, float32, float32) {
		return (r-0.5)*k + 0.5, (g-0.5)*k + 0.5, (b-0.5)*k + 0.5
	}
}

func invert(k float32) colorOp {
	return func(r, g, b float32) (float32, float32, float32) {
		return k + r*(1-2*k), k + g*(1-2*k), k + b*(1-2*k)
	}
}

type matrix [3][3]float32

func matrixOp(m matrix) colorOp {
	return func(r, g, b float32) (float32, float32, float32) {
		return m[0][0]*r + m[0][1]*g + m[0][2]*b,
			m[1][0]*r + m[1][1]*g + m[1][2]*b,
			m[2][0]*r + m[2][1]*g + m[2][2]*b
	}
}

func saturateMatrix(s float32) matrix {
	return matrix{
		{0.213 + 0.787*s, 0.715 - 0.715*s, 0.072 - 0.072*s},
		{0.213 - 0.213*s, 0.715 + 0.285*s, 0.072 - 0.072*s},
		{0.213 - 0.213*s, 0.715 - 0.715*s, 0.072 + 0.928*s},
	}
}

func hueRotateMatrix(degrees float64) matrix {
	rad := degrees * math.Pi / 180
	c := float32(math.Cos(rad))
	s := float32(math.Sin(rad))
	return matrix{
		{0.213 + c*0.787 - s*0.213, 0.715 - c*0.715 - s*0.715, 0.072 - c*0.072 + s*0.928},
		{0.213 - c*0.213 + s*0.143, 0.715 + c*0.285 + s*0.140, 0.072 - c*0.072 - s*0.283},
		{0.213 - c*0.213 - s*0.787, 0.715 - c*0.715 + s*0.715, 0.072 + c*0.928 + s*0.072},
	}
}

func sepiaMatrix(a float32) matrix {
	k := 1 - a
	return matrix{
		{0.393 + 0.607*k, 0.769 - 0.769*k, 0.189 - 0.189*k},
		{0.349 - 0.349*k, 0.686 + 0.314*k, 0.168 - 0.168*k},
		{0.272 - 0.272*k, 0.534 - 0.534*k, 0.131 + 0.869*k},
	}
}

func grayscaleMatrix(a float32) matrix {
	k := 1 - a
	return matrix{
		{0.2126 + 0.7874*k, 0.7152 - 0.7152*k, 0.0722 - 0.0722*k},
		{0.2126 - 0.2126*k, 0.7152 + 0.2848*k, 0.0722 - 0.0722*k},
		{0.2126 - 0.2126*k, 0.7152 - 0.7152*k, 0.0722 + 0.9278*k},
	}
}

// amount converts a percentage multiplier to a factor, clamping below at 0.
func amount(percent float64) float32 {
	return float32(effects.NonNegative(percent) / 100)
}

// unit converts a percentage to a factor in [0, 1].
func unit(percent float64) float32 {
	return float32(effects.Opacity01(percent))
}

func clamp(v float32) float32 {
	if v != v || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
