package adjust

import (
	"context"
	"image"
	"image/color"
	"testing"

	"github.com/user/canvasfx/pkg/adapters/logger"
	"github.com/user/canvasfx/pkg/effects"
	"github.com/user/canvasfx/pkg/pipeline"
)

func gradientImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 255 / w), G: uint8(y * 255 / h), B: uint8((x + y) % 256), A: 255})
		}
	}
	return img
}

func TestStage_NeutralReturnsInput(t *testing.T) {
	stage := NewStage(logger.NewNoop(), 2)
	src := gradientImage(8, 8)

	result, err := stage.Execute(context.Background(), pipeline.AdjustInput{Image: src, Effects: effects.DefaultImageEffects()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Image != image.Image(src) {
		t.Error("neutral effects should return the input image")
	}
	if result.FiltersApplied || result.PixelStageApplied {
		t.Errorf("nothing should be applied: %+v", result)
	}
}

func TestStage_NilImage(t *testing.T) {
	stage := NewStage(logger.NewNoop(), 1)
	if _, err := stage.Execute(context.Background(), pipeline.AdjustInput{}); err == nil {
		t.Error("expected error for nil image")
	}
}

func TestPixel_NeutralIsIdentity(t *testing.T) {
	e := effects.DefaultImageEffects()
	// Highlights and shadows are reserved and must not change pixels either.
	e.Highlights = 10
	e.Shadows = 90
	p := NewPixel(e)

	for r := 0; r < 256; r += 15 {
		for g := 0; g < 256; g += 17 {
			for b := 0; b < 256; b += 51 {
				gr, gg, gb := p.Apply(uint8(r), uint8(g), uint8(b))
				if int(gr) != r || int(gg) != g || int(gb) != b {
					t.Fatalf("(%d,%d,%d) became (%d,%d,%d)", r, g, b, gr, gg, gb)
				}
			}
		}
	}
}

func TestPixel_Steps(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*effects.ImageEffects)
		in     [3]uint8
		want   [3]uint8
	}{
		{
			name:   "exposure +50%",
			modify: func(e *effects.ImageEffects) { e.Exposure = 44 },
			in:     [3]uint8{100, 200, 0},
			want:   [3]uint8{150, 255, 0},
		},
		{
			name:   "temperature warms",
			modify: func(e *effects.ImageEffects) { e.Temperature = 50 },
			in:     [3]uint8{100, 100, 100},
			want:   [3]uint8{110, 100, 90},
		},
		{
			name:   "tint toward green",
			modify: func(e *effects.ImageEffects) { e.Tint = 100 },
			in:     [3]uint8{100, 100, 100},
			want:   [3]uint8{90, 120, 90},
		},
		{
			name:   "vibrance doubles distance from gray",
			modify: func(e *effects.ImageEffects) { e.Vibrance = 160 },
			in:     [3]uint8{100, 50, 0},
			want:   [3]uint8{150, 50, 0},
		},
		{
			name:   "vibrance skips neutral gray",
			modify: func(e *effects.ImageEffects) { e.Vibrance = 160 },
			in:     [3]uint8{80, 80, 80},
			want:   [3]uint8{80, 80, 80},
		},
		{
			name:   "temperature clamps below zero",
			modify: func(e *effects.ImageEffects) { e.Temperature = 100 },
			in:     [3]uint8{250, 0, 5},
			want:   [3]uint8{255, 0, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := effects.DefaultImageEffects()
			tt.modify(&e)
			r, g, b := NewPixel(e).Apply(tt.in[0], tt.in[1], tt.in[2])
			if got := [3]uint8{r, g, b}; got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestChannel_RoundsHalfToEven(t *testing.T) {
	if channel(2.5) != 2 || channel(3.5) != 4 {
		t.Errorf("channel(2.5)=%d channel(3.5)=%d", channel(2.5), channel(3.5))
	}
	if channel(-3) != 0 || channel(300) != 255 {
		t.Error("channel should clamp")
	}
}

func TestStage_PixelStageIsDeterministic(t *testing.T) {
	e := effects.DefaultImageEffects()
	e.Vibrance = 90
	e.Exposure = 10
	e.Temperature = -30
	e.Tint = 15

	src := gradientImage(37, 53)
	single, err := NewStage(logger.NewNoop(), 1).Execute(context.Background(), pipeline.AdjustInput{Image: src, Effects: e})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	many, err := NewStage(logger.NewNoop(), 7).Execute(context.Background(), pipeline.AdjustInput{Image: src, Effects: e})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	a := single.Image.(*image.NRGBA)
	b := many.Image.(*image.NRGBA)
	for i := range a.Pix {
		if a.Pix[i] != b.Pix[i] {
			t.Fatalf("worker count changed byte %d: %d vs %d", i, a.Pix[i], b.Pix[i])
		}
	}
	if !many.PixelStageApplied || many.FiltersApplied {
		t.Errorf("unexpected flags: %+v", many)
	}
	if src.NRGBAAt(3, 3) == a.NRGBAAt(3, 3) {
		t.Error("expected the source to be left alone and the copy to change")
	}
}

func TestStage_Filters(t *testing.T) {
	red := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for i := 0; i < len(red.Pix); i += 4 {
		red.Pix[i], red.Pix[i+3] = 255, 255
	}

	tests := []struct {
		name   string
		modify func(*effects.ImageEffects)
		check  func(c color.NRGBA) bool
	}{
		{
			name:   "invert",
			modify: func(e *effects.ImageEffects) { e.Invert = 100 },
			check:  func(c color.NRGBA) bool { return c.R < 2 && c.G > 253 && c.B > 253 },
		},
		{
			name:   "grayscale",
			modify: func(e *effects.ImageEffects) { e.Grayscale = 100 },
			check:  func(c color.NRGBA) bool { return c.R == c.G && c.G == c.B && c.R > 50 && c.R < 60 },
		},
		{
			name:   "brightness zero is black",
			modify: func(e *effects.ImageEffects) { e.Brightness = 0 },
			check:  func(c color.NRGBA) bool { return c.R == 0 && c.A == 255 },
		},
		{
			name:   "saturation zero is gray",
			modify: func(e *effects.ImageEffects) { e.Saturation = 0 },
			check:  func(c color.NRGBA) bool { return c.R == c.G && c.G == c.B },
		},
	}

	stage := NewStage(logger.NewNoop(), 2)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := effects.DefaultImageEffects()
			tt.modify(&e)
			result, err := stage.Execute(context.Background(), pipeline.AdjustInput{Image: red, Effects: e})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !result.FiltersApplied {
				t.Error("expected filters to apply")
			}
			c := color.NRGBAModel.Convert(result.Image.At(2, 2)).(color.NRGBA)
			if !tt.check(c) {
				t.Errorf("unexpected pixel %v", c)
			}
		})
	}
}

func TestFilters_NeutralIsEmpty(t *testing.T) {
	if got := Filters(effects.DefaultImageEffects()); len(got) != 0 {
		t.Errorf("expected no filters, got %d", len(got))
	}

	e := effects.DefaultImageEffects()
	e.Blur = 2
	e.Hue = 90
	e.Contrast = 120
	if got := Filters(e); len(got) != 3 {
		t.Errorf("expected pre, blur and post filters, got %d", len(got))
	}
}

func TestStage_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := effects.DefaultImageEffects()
	e.Exposure = 20
	if _, err := NewStage(logger.NewNoop(), 2).Execute(ctx, pipeline.AdjustInput{Image: gradientImage(4, 16), Effects: e}); err == nil {
		t.Error("expected error for canceled context")
	}
}
