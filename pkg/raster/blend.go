package raster

import (
	"image"
	"math"

	"github.com/disintegration/gift"

	"github.com/user/canvasfx/pkg/ports"
)

// Composite draws src onto dst with its top-left corner at `at`, scaling the
// source alpha by opacity and combining colors with the given blend mode.
//
// Separable modes follow the W3C compositing formula
//
//	co = cs·(1 - ab) + cb·(1 - as) + as·ab·B(Cs, Cb)
//	ao = as + ab·(1 - as)
//
// evaluated on premultiplied values. Pixels whose effective source alpha is
// zero leave dst untouched.
func Composite(dst *image.RGBA, src image.Image, at image.Point, opacity float64, mode ports.BlendMode) {
	if dst == nil || src == nil || math.IsNaN(opacity) || opacity <= 0 {
		return
	}
	if opacity > 1 {
		opacity = 1
	}
	sb := src.Bounds()
	db := dst.Bounds()
	target := image.Rectangle{Min: at, Max: at.Add(sb.Size())}.Intersect(db)
	if target.Empty() {
		return
	}

	op := float32(opacity)
	for y := target.Min.Y; y < target.Max.Y; y++ {
		sy := sb.Min.Y + (y - at.Y)
		for x := target.Min.X; x < target.Max.X; x++ {
			sx := sb.Min.X + (x - at.X)
			r, g, b, a := src.At(sx, sy).RGBA()
			if a == 0 {
				continue
			}
			sr := float32(r) / 65535 * op
			sg := float32(g) / 65535 * op
			sbl := float32(b) / 65535 * op
			sa := float32(a) / 65535 * op
			if sa*255 < 0.5 {
				continue
			}

			i := dst.PixOffset(x, y)
			dr := float32(dst.Pix[i]) / 255
			dg := float32(dst.Pix[i+1]) / 255
			dbl := float32(dst.Pix[i+2]) / 255
			da := float32(dst.Pix[i+3]) / 255

			var or, og, ob float32
			switch mode {
			case ports.BlendMultiply:
				or = multiply(sr, dr, sa, da)
				og = multiply(sg, dg, sa, da)
				ob = multiply(sbl, dbl, sa, da)
			case ports.BlendScreen:
				or = sr + dr - sr*dr
				og = sg + dg - sg*dg
				ob = sbl + dbl - sbl*dbl
			default:
				or = sr + dr*(1-sa)
				og = sg + dg*(1-sa)
				ob = sbl + dbl*(1-sa)
			}
			oa := sa + da*(1-sa)

			dst.Pix[i] = toByte(or)
			dst.Pix[i+1] = toByte(og)
			dst.Pix[i+2] = toByte(ob)
			dst.Pix[i+3] = toByte(oa)
		}
	}
}

// multiply is the premultiplied form of B(Cs, Cb) = Cs·Cb.
func multiply(s, d, sa, da float32) float32 {
	return s*(1-da) + d*(1-sa) + s*d
}

// Blur returns a Gaussian-blurred copy of img. Sigma follows the CSS
// blur() radius convention: the standard deviation in pixels.
func Blur(img image.Image, sigma float64) *image.NRGBA {
	var filters []gift.Filter
	if sigma > 0 {
		filters = append(filters, gift.GaussianBlur(float32(sigma)))
	}
	g := gift.New(filters...)
	dst := image.NewNRGBA(g.Bounds(img.Bounds()))
	g.Draw(dst, img)
	return dst
}

// ToRGBA returns img as an *image.RGBA with a zero origin, copying only when needed.
func ToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Bounds().Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	Composite(out, img, image.Point{}, 1, ports.BlendNormal)
	return out
}

func toByte(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
