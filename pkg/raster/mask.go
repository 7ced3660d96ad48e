// Package raster holds the pixel-level building blocks shared by the effect
// stages: alpha masks for silhouette-derived effects, blend-mode compositing
// and Gaussian blur.
package raster

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/gift"
	"golang.org/x/image/draw"
)

// Mask is a single-channel coverage buffer with values in [0, 1].
// It records which pixels belong to a subject independently of color.
type Mask struct {
	Width  int
	Height int
	Pix    []float32
}

// NewMask creates an empty mask.
func NewMask(width, height int) *Mask {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Mask{Width: width, Height: height, Pix: make([]float32, width*height)}
}

// MaskFromAlpha builds a binary mask: every pixel of img with alpha > 0
// becomes fully covered. The mask origin is img.Bounds().Min.
func MaskFromAlpha(img image.Image) *Mask {
	b := img.Bounds()
	m := NewMask(b.Dx(), b.Dy())
	switch src := img.(type) {
	case *image.RGBA:
		for y := 0; y < m.Height; y++ {
			row := src.PixOffset(b.Min.X, b.Min.Y+y)
			for x := 0; x < m.Width; x++ {
				if src.Pix[row+x*4+3] > 0 {
					m.Pix[y*m.Width+x] = 1
				}
			}
		}
	case *image.NRGBA:
		for y := 0; y < m.Height; y++ {
			row := src.PixOffset(b.Min.X, b.Min.Y+y)
			for x := 0; x < m.Width; x++ {
				if src.Pix[row+x*4+3] > 0 {
					m.Pix[y*m.Width+x] = 1
				}
			}
		}
	default:
		for y := 0; y < m.Height; y++ {
			for x := 0; x < m.Width; x++ {
				if _, _, _, a := img.At(b.Min.X+x, b.Min.Y+y).RGBA(); a > 0 {
					m.Pix[y*m.Width+x] = 1
				}
			}
		}
	}
	return m
}

// At returns the coverage at (x, y), or 0 outside the mask.
func (m *Mask) At(x, y int) float32 {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return 0
	}
	return m.Pix[y*m.Width+x]
}

// Set stores a coverage value clamped to [0, 1].
func (m *Mask) Set(x, y int, v float32) {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return
	}
	m.Pix[y*m.Width+x] = clamp01(v)
}

// Clone returns a copy of the mask.
func (m *Mask) Clone() *Mask {
	out := &Mask{Width: m.Width, Height: m.Height, Pix: make([]float32, len(m.Pix))}
	copy(out.Pix, m.Pix)
	return out
}

// Empty reports whether no pixel has coverage.
func (m *Mask) Empty() bool {
	for _, v := range m.Pix {
		if v > 0 {
			return false
		}
	}
	return true
}

// Invert returns 1 - coverage for every pixel.
func (m *Mask) Invert() *Mask {
	out := m.Clone()
	for i, v := range out.Pix {
		out.Pix[i] = 1 - v
	}
	return out
}

// Intersect returns the per-pixel product of two masks of the same size.
func (m *Mask) Intersect(o *Mask) *Mask {
	out := m.Clone()
	for i := range out.Pix {
		out.Pix[i] *= o.At(i%m.Width, i/m.Width)
	}
	return out
}

// Union returns the per-pixel maximum of two masks of the same size.
func (m *Mask) Union(o *Mask) *Mask {
	out := m.Clone()
	for i := range out.Pix {
		if v := o.At(i%m.Width, i/m.Width); v > out.Pix[i] {
			out.Pix[i] = v
		}
	}
	return out
}

// Dilate returns a binary mask covering every pixel within radius r of a
// covered pixel. Non-positive radii return a binary copy.
func (m *Mask) Dilate(r float64) *Mask {
	out := NewMask(m.Width, m.Height)
	if math.IsNaN(r) || r < 0 {
		r = 0
	}
	dist := m.distance()
	limit := float32(r)
	for i, d := range dist {
		if d <= limit {
			out.Pix[i] = 1
		}
	}
	return out
}

// distance computes, for every pixel, the approximate Euclidean distance to
// the nearest covered pixel using a two-pass 3-4 chamfer transform.
func (m *Mask) distance() []float32 {
	const inf = float32(math.MaxFloat32 / 4)
	w, h := m.Width, m.Height
	d := make([]float32, w*h)
	for i, v := range m.Pix {
		if v > 0 {
			d[i] = 0
		} else {
			d[i] = inf
		}
	}
	relax := func(i, x, y int, cost float32) {
		if x < 0 || y < 0 || x >= w || y >= h {
			return
		}
		if v := d[y*w+x] + cost; v < d[i] {
			d[i] = v
		}
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			relax(i, x-1, y, 3)
			relax(i, x, y-1, 3)
			relax(i, x-1, y-1, 4)
			relax(i, x+1, y-1, 4)
		}
	}
	for y := h - 1; y >= 0; y-- {
		for x := w - 1; x >= 0; x-- {
			i := y*w + x
			relax(i, x+1, y, 3)
			relax(i, x, y+1, 3)
			relax(i, x+1, y+1, 4)
			relax(i, x-1, y+1, 4)
		}
	}
	for i := range d {
		d[i] /= 3
	}
	return d
}

// MaxKernelSigma bounds the Gaussian run at full resolution. Wider blurs
// run on a downsampled copy that is scaled back up afterwards.
const MaxKernelSigma = 16

// Diagonal returns the diagonal of a width×height area. No blur, spread
// or offset reaches farther than this across it.
func Diagonal(width, height int) float64 {
	return math.Hypot(float64(width), float64(height))
}

// Blurred returns the mask convolved with a Gaussian of the given sigma.
func (m *Mask) Blurred(sigma float64) *Mask {
	if math.IsNaN(sigma) || sigma <= 0 || m.Width == 0 || m.Height == 0 {
		return m.Clone()
	}
	if sigma <= MaxKernelSigma {
		return m.gaussian(sigma)
	}

	f := sigma / MaxKernelSigma
	w := int(math.Ceil(float64(m.Width) / f))
	h := int(math.Ceil(float64(m.Height) / f))
	small := m.resample(w, h, draw.BiLinear)
	return small.gaussian(sigma*float64(w)/float64(m.Width)).resample(m.Width, m.Height, draw.BiLinear)
}

func (m *Mask) gaussian(sigma float64) *Mask {
	src := m.toGray16()
	g := gift.New(gift.GaussianBlur(float32(sigma)))
	dst := image.NewGray16(g.Bounds(src.Bounds()))
	g.Draw(dst, src)
	return maskFromGray16(dst)
}

// Scaled resamples the mask to the given size with bilinear filtering.
func (m *Mask) Scaled(width, height int) *Mask {
	return m.resample(width, height, draw.ApproxBiLinear)
}

func (m *Mask) resample(width, height int, scaler draw.Scaler) *Mask {
	if width <= 0 || height <= 0 {
		return NewMask(0, 0)
	}
	if width == m.Width && height == m.Height {
		return m.Clone()
	}
	dst := image.NewGray16(image.Rect(0, 0, width, height))
	scaler.Scale(dst, dst.Bounds(), m.toGray16(), image.Rect(0, 0, m.Width, m.Height), draw.Src, nil)
	return maskFromGray16(dst)
}

// DrawOver composites src onto m at (x, y) with alpha-over semantics, each
// source value first multiplied by weight.
func (m *Mask) DrawOver(src *Mask, x, y int, weight float32) {
	weight = clamp01(weight)
	if weight == 0 {
		return
	}
	for sy := 0; sy < src.Height; sy++ {
		dy := y + sy
		if dy < 0 || dy >= m.Height {
			continue
		}
		for sx := 0; sx < src.Width; sx++ {
			dx := x + sx
			if dx < 0 || dx >= m.Width {
				continue
			}
			a := src.Pix[sy*src.Width+sx] * weight
			if a == 0 {
				continue
			}
			i := dy*m.Width + dx
			m.Pix[i] = a + m.Pix[i]*(1-a)
		}
	}
}

// Colorize paints the mask: the color returned by fill for each pixel has
// its alpha multiplied by the pixel coverage.
func (m *Mask) Colorize(fill func(x, y int) color.NRGBA) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, m.Width, m.Height))
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			cov := m.Pix[y*m.Width+x]
			if cov <= 0 {
				continue
			}
			c := fill(x, y)
			a := float32(c.A) * cov
			if a < 0.5 {
				continue
			}
			o := out.PixOffset(x, y)
			out.Pix[o] = c.R
			out.Pix[o+1] = c.G
			out.Pix[o+2] = c.B
			out.Pix[o+3] = uint8(a + 0.5)
		}
	}
	return out
}

func (m *Mask) toGray16() *image.Gray16 {
	g := image.NewGray16(image.Rect(0, 0, m.Width, m.Height))
	for i, v := range m.Pix {
		y := uint16(clamp01(v)*65535 + 0.5)
		g.Pix[i*2] = uint8(y >> 8)
		g.Pix[i*2+1] = uint8(y)
	}
	return g
}

func maskFromGray16(g *image.Gray16) *Mask {
	b := g.Bounds()
	m := NewMask(b.Dx(), b.Dy())
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			m.Pix[y*m.Width+x] = float32(g.Gray16At(b.Min.X+x, b.Min.Y+y).Y) / 65535
		}
	}
	return m
}

func clamp01(v float32) float32 {
	if v != v || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
