package mocks

import (
	"image"
	"sync"

	"github.com/user/canvasfx/pkg/ports"
	"github.com/user/canvasfx/pkg/raster"
)

// Renderer is a mock implementation of ports.Renderer.
type Renderer struct {
	CreateSurfaceFunc func(width, height int) ports.Surface
	DecodeImageFunc   func(data []byte, format ports.ImageFormat) (image.Image, error)
	EncodeImageFunc   func(img image.Image, format ports.ImageFormat, quality int) ([]byte, error)
	ResizeImageFunc   func(img image.Image, width, height int) image.Image
}

func (m *Renderer) CreateSurface(width, height int) ports.Surface {
	if m.CreateSurfaceFunc != nil {
		return m.CreateSurfaceFunc(width, height)
	}
	return NewSurface(width, height)
}

func (m *Renderer) DecodeImage(data []byte, format ports.ImageFormat) (image.Image, error) {
	if m.DecodeImageFunc != nil {
		return m.DecodeImageFunc(data, format)
	}
	return image.NewRGBA(image.Rect(0, 0, 100, 100)), nil
}

func (m *Renderer) EncodeImage(img image.Image, format ports.ImageFormat, quality int) ([]byte, error) {
	if m.EncodeImageFunc != nil {
		return m.EncodeImageFunc(img, format, quality)
	}
	return []byte{}, nil
}

func (m *Renderer) ResizeImage(img image.Image, width, height int) image.Image {
	if m.ResizeImageFunc != nil {
		return m.ResizeImageFunc(img, width, height)
	}
	return image.NewRGBA(image.Rect(0, 0, width, height))
}

var _ ports.Renderer = (*Renderer)(nil)

// RectCall records a FillRect or StrokeRect call.
type RectCall struct {
	X, Y, W, H float64
	Paint      ports.Paint
	Stroke     ports.Stroke
}

// LineCall records a StrokeLine call.
type LineCall struct {
	X1, Y1, X2, Y2 float64
	Stroke         ports.Stroke
}

// ImageCall records a DrawImage call.
type ImageCall struct {
	X, Y    int
	Bounds  image.Rectangle
	Opacity float64
	Mode    ports.BlendMode
}

// Surface is a mock implementation of ports.Surface. Vector calls are only
// recorded; image draws are composited into a real buffer so pixel-based
// stages can be checked.
type Surface struct {
	mu sync.Mutex

	img *image.RGBA

	Fills    []RectCall
	Strokes  []RectCall
	Circles  int
	Lines    []LineCall
	Images   []ImageCall
	Patterns int
	Clears   int
}

// NewSurface creates a new mock Surface.
func NewSurface(width, height int) *Surface {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	return &Surface{img: image.NewRGBA(image.Rect(0, 0, width, height))}
}

func (m *Surface) Width() int  { return m.img.Bounds().Dx() }
func (m *Surface) Height() int { return m.img.Bounds().Dy() }

func (m *Surface) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Clears++
	for i := range m.img.Pix {
		m.img.Pix[i] = 0
	}
}

func (m *Surface) FillRect(x, y, w, h float64, paint ports.Paint) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Fills = append(m.Fills, RectCall{X: x, Y: y, W: w, H: h, Paint: paint})
}

func (m *Surface) FillCircle(cx, cy, r float64, paint ports.Paint) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Circles++
}

func (m *Surface) StrokeRect(x, y, w, h float64, stroke ports.Stroke) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Strokes = append(m.Strokes, RectCall{X: x, Y: y, W: w, H: h, Stroke: stroke})
}

func (m *Surface) StrokeLine(x1, y1, x2, y2 float64, stroke ports.Stroke) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Lines = append(m.Lines, LineCall{X1: x1, Y1: y1, X2: x2, Y2: y2, Stroke: stroke})
}

func (m *Surface) DrawImage(img image.Image, x, y int, opacity float64, mode ports.BlendMode) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Images = append(m.Images, ImageCall{X: x, Y: y, Bounds: img.Bounds(), Opacity: opacity, Mode: mode})
	raster.Composite(m.img, img, image.Pt(x, y), opacity, mode)
}

func (m *Surface) DrawImageScaled(img image.Image, x, y, width, height float64, opacity float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Images = append(m.Images, ImageCall{X: int(x), Y: int(y), Opacity: opacity})
}

func (m *Surface) FillPattern(img image.Image, opacity float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Patterns++
}

func (m *Surface) Snapshot() *image.RGBA {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := image.NewRGBA(m.img.Bounds())
	copy(out.Pix, m.img.Pix)
	return out
}

func (m *Surface) ToImage() image.Image {
	return m.img
}

var _ ports.Surface = (*Surface)(nil)
