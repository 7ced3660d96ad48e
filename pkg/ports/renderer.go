package ports

import (
	"image"
	"image/color"
)

// Renderer abstracts surface allocation and image codec operations.
type Renderer interface {
	// CreateSurface creates a new transparent drawing surface with the specified dimensions.
	CreateSurface(width, height int) Surface

	// DecodeImage decodes image data into an image.Image.
	DecodeImage(data []byte, format ImageFormat) (image.Image, error)

	// EncodeImage encodes an image to the specified format.
	EncodeImage(img image.Image, format ImageFormat, quality int) ([]byte, error)

	// ResizeImage resizes an image to the specified dimensions.
	ResizeImage(img image.Image, width, height int) image.Image
}

// Surface is a 2D drawing target. All coordinates are in surface pixels
// with the origin at the top-left corner.
type Surface interface {
	// Width returns the surface width in pixels.
	Width() int

	// Height returns the surface height in pixels.
	Height() int

	// Clear resets every pixel to transparent.
	Clear()

	// FillRect fills a rectangle with the given paint.
	FillRect(x, y, w, h float64, paint Paint)

	// FillCircle fills a circle with the given paint.
	FillCircle(cx, cy, r float64, paint Paint)

	// StrokeRect strokes a rectangle outline. A positive Radius in the
	// stroke style produces rounded corners.
	StrokeRect(x, y, w, h float64, stroke Stroke)

	// StrokeLine strokes a straight line between two points.
	StrokeLine(x1, y1, x2, y2 float64, stroke Stroke)

	// DrawImage composites an image with its top-left corner at (x, y).
	// Opacity is a global alpha in [0, 1].
	DrawImage(img image.Image, x, y int, opacity float64, mode BlendMode)

	// DrawImageScaled draws an image scaled to the specified dimensions.
	DrawImageScaled(img image.Image, x, y, width, height float64, opacity float64)

	// FillPattern tiles the whole surface with img, starting at the origin.
	FillPattern(img image.Image, opacity float64)

	// Snapshot returns a copy of the current surface pixels.
	Snapshot() *image.RGBA

	// ToImage returns the surface as an image.Image without copying.
	ToImage() image.Image
}

// BlendMode selects how source pixels combine with the destination.
type BlendMode int

const (
	// BlendNormal is source-over compositing.
	BlendNormal BlendMode = iota
	// BlendMultiply darkens the destination by the source.
	BlendMultiply
	// BlendScreen lightens the destination by the source.
	BlendScreen
)

// String returns the canvas name of the blend mode.
func (m BlendMode) String() string {
	switch m {
	case BlendMultiply:
		return "multiply"
	case BlendScreen:
		return "screen"
	default:
		return "source-over"
	}
}

// Paint describes how a fill or stroke is colored. Exactly one of Color or
// Gradient is used; Gradient wins when both are set.
type Paint struct {
	Color    color.Color
	Gradient *Gradient
}

// SolidPaint returns a Paint with a single color.
func SolidPaint(c color.Color) Paint {
	return Paint{Color: c}
}

// GradientKind selects the gradient geometry.
type GradientKind int

const (
	GradientLinear GradientKind = iota
	GradientRadial
	GradientConic
)

// ColorStop is a gradient stop at Offset in [0, 1].
type ColorStop struct {
	Offset float64
	Color  color.Color
}

// Gradient describes a linear, radial, or conic gradient.
//
// Linear gradients run from (X0, Y0) to (X1, Y1). Radial gradients are
// centered at (X0, Y0) and grow from radius R0 to R1. Conic gradients sweep
// clockwise around (X0, Y0) starting at Angle radians.
type Gradient struct {
	Kind   GradientKind
	X0, Y0 float64
	X1, Y1 float64
	R0, R1 float64
	Angle  float64
	Stops  []ColorStop
}

// LineCap specifies the shape of stroke end points.
type LineCap int

const (
	CapButt LineCap = iota
	CapRound
	CapSquare
)

// LineJoin specifies the shape of stroke corners.
type LineJoin int

const (
	JoinMiter LineJoin = iota
	JoinRound
	JoinBevel
)

// Stroke defines line rendering properties.
type Stroke struct {
	Paint  Paint
	Width  float64
	Dash   []float64
	Cap    LineCap
	Join   LineJoin
	Radius float64
}

// ImageFormat specifies image encoding format.
type ImageFormat int

const (
	FormatPNG ImageFormat = iota
	FormatJPEG
	FormatAuto
)

// ParseImageFormat maps a format name to an ImageFormat. Unknown names map to PNG.
func ParseImageFormat(s string) ImageFormat {
	switch s {
	case "jpeg", "jpg":
		return FormatJPEG
	case "auto":
		return FormatAuto
	default:
		return FormatPNG
	}
}

// String returns the file extension style name of the format.
func (f ImageFormat) String() string {
	switch f {
	case FormatJPEG:
		return "jpeg"
	case FormatAuto:
		return "auto"
	default:
		return "png"
	}
}
