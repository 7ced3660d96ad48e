package raster

import (
	"image"
	"image/color"
	"testing"

	"github.com/user/canvasfx/pkg/ports"
)

func solidRGBA(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
	}
	return img
}

func TestMaskFromAlpha(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	img.SetNRGBA(1, 1, color.NRGBA{10, 20, 30, 1})
	img.SetNRGBA(2, 3, color.NRGBA{0, 0, 0, 255})

	m := MaskFromAlpha(img)
	if m.Width != 4 || m.Height != 4 {
		t.Fatalf("unexpected size %dx%d", m.Width, m.Height)
	}
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			want := float32(0)
			if (x == 1 && y == 1) || (x == 2 && y == 3) {
				want = 1
			}
			if got := m.At(x, y); got != want {
				t.Errorf("At(%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestMask_Dilate(t *testing.T) {
	m := NewMask(21, 21)
	m.Set(10, 10, 1)

	d := m.Dilate(3)
	tests := []struct {
		x, y int
		want float32
	}{
		{10, 10, 1},
		{13, 10, 1},
		{10, 7, 1},
		{14, 10, 0},
		{12, 12, 1},
		{13, 13, 0},
		{0, 0, 0},
	}
	for _, tt := range tests {
		if got := d.At(tt.x, tt.y); got != tt.want {
			t.Errorf("At(%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}

	if got := m.Dilate(0).At(11, 10); got != 0 {
		t.Errorf("zero-radius dilate grew the mask")
	}
}

func TestMask_InvertIntersectUnion(t *testing.T) {
	a := NewMask(2, 1)
	a.Set(0, 0, 1)
	b := NewMask(2, 1)
	b.Set(1, 0, 0.5)

	inv := a.Invert()
	if inv.At(0, 0) != 0 || inv.At(1, 0) != 1 {
		t.Errorf("invert = %v", inv.Pix)
	}
	if got := a.Intersect(b); got.At(0, 0) != 0 || got.At(1, 0) != 0 {
		t.Errorf("intersect = %v", got.Pix)
	}
	if got := a.Union(b); got.At(0, 0) != 1 || got.At(1, 0) != 0.5 {
		t.Errorf("union = %v", got.Pix)
	}
}

func TestMask_BlurredSpreadsCoverage(t *testing.T) {
	m := NewMask(30, 30)
	for y := 10; y < 20; y++ {
		for x := 10; x < 20; x++ {
			m.Set(x, y, 1)
		}
	}

	b := m.Blurred(2)
	if b.At(8, 15) <= 0 {
		t.Error("blur should spread coverage outside the square")
	}
	if b.At(15, 15) < 0.9 {
		t.Errorf("center coverage dropped to %v", b.At(15, 15))
	}
	if b.At(0, 0) > 0.001 {
		t.Errorf("far corner picked up coverage %v", b.At(0, 0))
	}

	same := m.Blurred(0)
	if same.At(10, 10) != 1 || same.At(9, 10) != 0 {
		t.Error("zero sigma should copy")
	}
}

func TestMask_BlurredWideSigma(t *testing.T) {
	m := NewMask(200, 200)
	for y := 80; y < 120; y++ {
		for x := 80; x < 120; x++ {
			m.Set(x, y, 1)
		}
	}

	b := m.Blurred(100)
	if b.Width != 200 || b.Height != 200 {
		t.Fatalf("unexpected size %dx%d", b.Width, b.Height)
	}
	for i, v := range b.Pix {
		if v < 0 || v > 1 {
			t.Fatalf("pixel %d out of range: %v", i, v)
		}
	}
	center, corner := b.At(100, 100), b.At(0, 0)
	if center >= 1 || center <= corner {
		t.Errorf("center = %v, corner = %v", center, corner)
	}
	if corner <= 0 {
		t.Error("wide blur should reach the corner")
	}
}

func TestDiagonal(t *testing.T) {
	if got := Diagonal(3, 4); got != 5 {
		t.Errorf("Diagonal(3, 4) = %v", got)
	}
}

func TestMask_Scaled(t *testing.T) {
	m := NewMask(10, 10)
	for i := range m.Pix {
		m.Pix[i] = 1
	}
	s := m.Scaled(20, 16)
	if s.Width != 20 || s.Height != 16 {
		t.Fatalf("unexpected size %dx%d", s.Width, s.Height)
	}
	if s.At(10, 8) < 0.99 {
		t.Errorf("scaled interior = %v", s.At(10, 8))
	}
}

func TestMask_DrawOver(t *testing.T) {
	dst := NewMask(4, 4)
	src := NewMask(2, 2)
	for i := range src.Pix {
		src.Pix[i] = 1
	}

	dst.DrawOver(src, 1, 1, 0.5)
	dst.DrawOver(src, 1, 1, 0.5)

	if got := dst.At(1, 1); got != 0.75 {
		t.Errorf("over twice at 0.5 = %v, want 0.75", got)
	}
	if dst.At(0, 0) != 0 || dst.At(3, 3) != 0 {
		t.Error("draw leaked outside the source rect")
	}

	dst.DrawOver(src, 3, 3, 1)
	if dst.At(3, 3) != 1 {
		t.Error("clipped draw should still cover the visible pixel")
	}
}

func TestMask_Colorize(t *testing.T) {
	m := NewMask(2, 1)
	m.Set(0, 0, 1)
	m.Set(1, 0, 0.5)

	img := m.Colorize(func(x, y int) color.NRGBA { return color.NRGBA{255, 0, 0, 200} })
	if got := img.NRGBAAt(0, 0); got != (color.NRGBA{255, 0, 0, 200}) {
		t.Errorf("full coverage = %v", got)
	}
	if got := img.NRGBAAt(1, 0); got.A != 100 {
		t.Errorf("half coverage alpha = %d, want 100", got.A)
	}
}

func TestComposite(t *testing.T) {
	tests := []struct {
		name    string
		dst     color.RGBA
		src     color.RGBA
		opacity float64
		mode    ports.BlendMode
		want    color.RGBA
	}{
		{"normal opaque", color.RGBA{255, 255, 255, 255}, color.RGBA{255, 0, 0, 255}, 1, ports.BlendNormal, color.RGBA{255, 0, 0, 255}},
		{"normal half", color.RGBA{0, 0, 0, 255}, color.RGBA{255, 255, 255, 255}, 0.5, ports.BlendNormal, color.RGBA{128, 128, 128, 255}},
		{"multiply black half", color.RGBA{255, 255, 255, 255}, color.RGBA{0, 0, 0, 255}, 0.5, ports.BlendMultiply, color.RGBA{128, 128, 128, 255}},
		{"multiply white", color.RGBA{100, 150, 200, 255}, color.RGBA{255, 255, 255, 255}, 1, ports.BlendMultiply, color.RGBA{100, 150, 200, 255}},
		{"multiply onto transparent", color.RGBA{0, 0, 0, 0}, color.RGBA{0, 0, 0, 255}, 1, ports.BlendMultiply, color.RGBA{0, 0, 0, 255}},
		{"screen white", color.RGBA{10, 20, 30, 255}, color.RGBA{255, 255, 255, 255}, 1, ports.BlendScreen, color.RGBA{255, 255, 255, 255}},
		{"screen black", color.RGBA{10, 20, 30, 255}, color.RGBA{0, 0, 0, 255}, 1, ports.BlendScreen, color.RGBA{10, 20, 30, 255}},
		{"screen half", color.RGBA{0, 0, 0, 255}, color.RGBA{255, 255, 255, 255}, 0.5, ports.BlendScreen, color.RGBA{128, 128, 128, 255}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst := solidRGBA(2, 2, tt.dst)
			src := solidRGBA(2, 2, tt.src)
			Composite(dst, src, image.Point{}, tt.opacity, tt.mode)
			if got := dst.RGBAAt(1, 1); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestComposite_TransparentSourceLeavesDestination(t *testing.T) {
	base := color.RGBA{12, 34, 56, 200}
	for _, mode := range []ports.BlendMode{ports.BlendNormal, ports.BlendMultiply, ports.BlendScreen} {
		dst := solidRGBA(3, 3, base)
		Composite(dst, image.NewRGBA(image.Rect(0, 0, 3, 3)), image.Point{}, 1, mode)
		Composite(dst, solidRGBA(3, 3, color.RGBA{0, 0, 0, 255}), image.Point{}, 0, mode)
		for y := 0; y < 3; y++ {
			for x := 0; x < 3; x++ {
				if got := dst.RGBAAt(x, y); got != base {
					t.Fatalf("%s: pixel (%d,%d) changed to %v", mode, x, y, got)
				}
			}
		}
	}
}

func TestComposite_OffsetAndClipping(t *testing.T) {
	dst := solidRGBA(4, 4, color.RGBA{0, 0, 0, 255})
	src := solidRGBA(4, 4, color.RGBA{255, 255, 255, 255})

	Composite(dst, src, image.Pt(2, -1), 1, ports.BlendNormal)

	if got := dst.RGBAAt(1, 0); got.R != 0 {
		t.Errorf("pixel left of offset was painted: %v", got)
	}
	if got := dst.RGBAAt(3, 2); got.R != 255 {
		t.Errorf("pixel inside offset was not painted: %v", got)
	}
	if got := dst.RGBAAt(3, 3); got.R != 0 {
		t.Errorf("pixel below clipped source was painted: %v", got)
	}
}

func TestBlur(t *testing.T) {
	img := solidRGBA(10, 10, color.RGBA{0, 0, 0, 255})
	img.SetRGBA(5, 5, color.RGBA{255, 255, 255, 255})

	out := Blur(img, 1.5)
	if out.Bounds().Dx() != 10 || out.Bounds().Dy() != 10 {
		t.Fatalf("blur changed bounds: %v", out.Bounds())
	}
	if c := out.NRGBAAt(5, 5); c.R == 255 || c.R == 0 {
		t.Errorf("center should be softened, got %v", c)
	}
	if c := out.NRGBAAt(6, 5); c.R == 0 {
		t.Errorf("neighbour should brighten, got %v", c)
	}

	same := Blur(img, 0)
	if same.NRGBAAt(5, 5).R != 255 {
		t.Error("zero sigma should copy")
	}
}

func TestToRGBA(t *testing.T) {
	src := image.NewNRGBA(image.Rect(5, 5, 7, 7))
	src.SetNRGBA(5, 5, color.NRGBA{200, 100, 50, 255})

	out := ToRGBA(src)
	if out.Bounds() != image.Rect(0, 0, 2, 2) {
		t.Fatalf("bounds = %v", out.Bounds())
	}
	if got := out.RGBAAt(0, 0); got != (color.RGBA{200, 100, 50, 255}) {
		t.Errorf("pixel = %v", got)
	}

	rgba := image.NewRGBA(image.Rect(0, 0, 1, 1))
	if ToRGBA(rgba) != rgba {
		t.Error("zero-origin RGBA should be returned as is")
	}
}
