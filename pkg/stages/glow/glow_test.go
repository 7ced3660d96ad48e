package glow

import (
	"context"
	"image"
	"image/color"
	"math"
	"testing"
	"time"

	"github.com/user/canvasfx/pkg/adapters/ggrenderer"
	"github.com/user/canvasfx/pkg/effects"
	"github.com/user/canvasfx/pkg/mocks"
	"github.com/user/canvasfx/pkg/pipeline"
	"github.com/user/canvasfx/pkg/ports"
)

// subject returns a size×size layer with an opaque red square covering
// [lo, hi) on both axes.
func subject(size, lo, hi int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := lo; y < hi; y++ {
		for x := lo; x < hi; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 255, A: 255})
		}
	}
	return img
}

// composed paints a dark backdrop with the subject on top, the way the
// compositor leaves the surface before the glow layer.
func composed(layer image.Image) ports.Surface {
	s := ggrenderer.New().CreateSurface(layer.Bounds().Dx(), layer.Bounds().Dy())
	s.FillRect(0, 0, float64(s.Width()), float64(s.Height()), ports.SolidPaint(color.RGBA{R: 32, G: 32, B: 32, A: 255}))
	s.DrawImage(layer, 0, 0, 1, ports.BlendNormal)
	return s
}

func neon(blur float64) effects.Glow {
	return effects.Glow{
		Enabled:   true,
		Type:      effects.GlowNeon,
		Blur:      blur,
		Color:     "#00FFFF",
		Opacity:   100,
		Intensity: 1,
	}
}

// chebyshev returns the chessboard distance from (x, y) to [lo, hi)².
func chebyshev(x, y, lo, hi int) int {
	axis := func(v int) int {
		switch {
		case v < lo:
			return lo - v
		case v >= hi:
			return v - hi + 1
		}
		return 0
	}
	dx, dy := axis(x), axis(y)
	if dx > dy {
		return dx
	}
	return dy
}

func TestStage_Disabled(t *testing.T) {
	surface := mocks.NewSurface(10, 10)
	g := neon(5)
	g.Enabled = false

	res, err := NewStage(mocks.NewLogger()).Execute(context.Background(), pipeline.GlowInput{Surface: surface, Glow: g})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if res.Drawn || len(surface.Images) != 0 {
		t.Error("disabled glow should not draw")
	}
}

func TestStage_NoSurface(t *testing.T) {
	if _, err := NewStage(mocks.NewLogger()).Execute(context.Background(), pipeline.GlowInput{Glow: neon(5)}); err == nil {
		t.Error("expected error without a surface")
	}
}

func TestStage_ConfinedToBoundary(t *testing.T) {
	const size, lo, hi = 48, 14, 34
	const blur = 6

	layer := subject(size, lo, hi)
	before := composed(layer).Snapshot()
	surface := composed(layer)

	res, err := NewStage(mocks.NewLogger()).Execute(context.Background(), pipeline.GlowInput{
		Surface:    surface,
		Glow:       neon(blur),
		MaskSource: layer,
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !res.Drawn {
		t.Fatal("expected glow to draw")
	}

	after := surface.Snapshot()
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			d := chebyshev(x, y, lo, hi)
			changed := after.RGBAAt(x, y) != before.RGBAAt(x, y)
			if d == 0 && changed {
				t.Fatalf("interior pixel (%d,%d) changed", x, y)
			}
			if d > blur && changed {
				t.Fatalf("pixel (%d,%d) at distance %d changed beyond blur %d", x, y, d, blur)
			}
		}
	}

	near := after.RGBAAt(hi, (lo+hi)/2)
	if near.G <= 32 || near.B <= 32 {
		t.Errorf("pixel next to the edge should be lit cyan, got %v", near)
	}
	if near.R != 32 {
		t.Errorf("screening cyan should leave red unchanged, got %v", near)
	}
}

func TestStage_SpreadWidensReach(t *testing.T) {
	const size, lo, hi = 48, 18, 30

	layer := subject(size, lo, hi)
	g := neon(2)
	g.Spread = 6

	surface := composed(layer)
	if _, err := NewStage(mocks.NewLogger()).Execute(context.Background(), pipeline.GlowInput{
		Surface: surface, Glow: g, MaskSource: layer,
	}); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	// Five pixels out is inside the spread ring and lit at full strength.
	lit := surface.Snapshot().RGBAAt(hi+4, (lo+hi)/2)
	if lit.G < 200 {
		t.Errorf("spread ring should be lit, got %v", lit)
	}
	far := surface.Snapshot().RGBAAt(1, 1)
	if far != (color.RGBA{R: 32, G: 32, B: 32, A: 255}) {
		t.Errorf("far corner changed: %v", far)
	}
}

func TestStage_OversizedBlurAndSpread(t *testing.T) {
	const size, lo, hi = 48, 18, 30

	layer := subject(size, lo, hi)
	g := neon(1e6)
	g.Spread = 1e6
	before := composed(layer).Snapshot()
	surface := composed(layer)

	done := make(chan error, 1)
	go func() {
		_, err := NewStage(mocks.NewLogger()).Execute(context.Background(), pipeline.GlowInput{
			Surface: surface, Glow: g, MaskSource: layer,
		})
		done <- err
	}()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Execute failed: %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("oversized glow did not finish")
	}

	after := surface.Snapshot()
	if after.RGBAAt((lo+hi)/2, (lo+hi)/2) != before.RGBAAt((lo+hi)/2, (lo+hi)/2) {
		t.Error("outside glow should leave the subject untouched")
	}
	if lit := after.RGBAAt(hi+2, (lo+hi)/2); lit.G <= 32 {
		t.Errorf("pixel next to the subject should be lit, got %v", lit)
	}
}

func TestStage_InsideStyle(t *testing.T) {
	const size, lo, hi = 48, 8, 40

	layer := subject(size, lo, hi)
	before := composed(layer).Snapshot()
	g := neon(4)
	g.Style = effects.GlowInside

	surface := composed(layer)
	if _, err := NewStage(mocks.NewLogger()).Execute(context.Background(), pipeline.GlowInput{
		Surface: surface, Glow: g, MaskSource: layer,
	}); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	after := surface.Snapshot()
	if edge := after.RGBAAt(lo, size/2); edge.G == 0 {
		t.Errorf("inner edge should be lit, got %v", edge)
	}
	if after.RGBAAt(size/2, size/2) != before.RGBAAt(size/2, size/2) {
		t.Error("deep interior should stay unchanged")
	}
	if after.RGBAAt(lo-2, size/2) != before.RGBAAt(lo-2, size/2) {
		t.Error("inside glow must not paint outside the subject")
	}
}

func TestStage_ReadsBackSurface(t *testing.T) {
	surface := mocks.NewSurface(20, 20)
	surface.DrawImage(subject(20, 6, 14), 0, 0, 1, ports.BlendNormal)

	res, err := NewStage(mocks.NewLogger()).Execute(context.Background(), pipeline.GlowInput{
		Surface: surface,
		Glow:    neon(4),
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !res.Drawn {
		t.Fatal("expected glow from surface content")
	}
	last := surface.Images[len(surface.Images)-1]
	if last.Mode != ports.BlendScreen || last.Opacity != 1 {
		t.Errorf("glow should be screened at full opacity, got %+v", last)
	}
}

func TestStage_EmptySilhouette(t *testing.T) {
	surface := mocks.NewSurface(10, 10)
	res, err := NewStage(mocks.NewLogger()).Execute(context.Background(), pipeline.GlowInput{
		Surface:    surface,
		Glow:       neon(4),
		MaskSource: image.NewRGBA(image.Rect(0, 0, 10, 10)),
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if res.Drawn {
		t.Error("transparent mask source should draw nothing")
	}
}

func TestStage_ZeroIntensity(t *testing.T) {
	surface := mocks.NewSurface(20, 20)
	g := neon(4)
	g.Intensity = 0

	res, err := NewStage(mocks.NewLogger()).Execute(context.Background(), pipeline.GlowInput{
		Surface: surface, Glow: g, MaskSource: subject(20, 6, 14),
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if res.Drawn {
		t.Error("zero intensity should draw nothing")
	}
}

func TestRecipe(t *testing.T) {
	base := effects.Glow{Color: "#112233", Blur: 10, Opacity: 50, Intensity: 2}

	tests := []struct {
		kind   effects.GlowKind
		passes int
		alpha  float64
		blur   float64
	}{
		{effects.GlowSolid, 1, 1, 10},
		{effects.GlowNeon, 1, 1, 10},
		{effects.GlowGradient, 1, 1, 10},
		{effects.GlowRainbow, 1, 1, 10},
		{effects.GlowSoft, 1, 0.5, 20},
		{effects.GlowRim, 1, 0.7, 5},
		{effects.GlowHalo, 1, 1, 15},
		{effects.GlowColorful, 3, 1, 10},
		{effects.GlowChromatic, 5, 1, 10},
		{effects.GlowFire, 4, 1, 10},
		{effects.GlowIce, 4, 1, 10},
		{effects.GlowAurora, 5, 1, 10},
		{"unknown", 1, 1, 10},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			g := base
			g.Type = tt.kind
			passes := Recipe(g)
			if len(passes) != tt.passes {
				t.Fatalf("passes = %d, want %d", len(passes), tt.passes)
			}
			if math.Abs(passes[0].Alpha-tt.alpha) > 1e-9 {
				t.Errorf("first alpha = %v, want %v", passes[0].Alpha, tt.alpha)
			}
			if math.Abs(passes[0].Blur-tt.blur) > 1e-9 {
				t.Errorf("first blur = %v, want %v", passes[0].Blur, tt.blur)
			}
		})
	}
}

func TestRecipe_Palettes(t *testing.T) {
	fire := Recipe(effects.Glow{Type: effects.GlowFire, Blur: 4, Opacity: 100, Intensity: 1})
	wantColors := []string{"#FFFF00", "#FFA500", "#FF4500", "#FF0000"}
	for i, p := range fire {
		if p.Color != wantColors[i] {
			t.Errorf("fire pass %d color = %s, want %s", i, p.Color, wantColors[i])
		}
		if want := 4 + 2*float64(i); p.Blur != want {
			t.Errorf("fire pass %d blur = %v, want %v", i, p.Blur, want)
		}
		if want := 1 - float64(i)/4; math.Abs(p.Alpha-want) > 1e-9 {
			t.Errorf("fire pass %d alpha = %v, want %v", i, p.Alpha, want)
		}
	}

	colorful := Recipe(effects.Glow{Type: effects.GlowColorful, Color: "#000000", Color2: "#123456", Blur: 1, Opacity: 100, Intensity: 1})
	if colorful[1].Color != "#123456" || colorful[2].Color != "#FF00FF" {
		t.Errorf("colorful palette = %+v", colorful)
	}
	if colorful[2].Blur != 7 {
		t.Errorf("colorful pass 2 blur = %v, want 7", colorful[2].Blur)
	}

	aurora := Recipe(effects.Glow{Type: effects.GlowAurora, Color: "#000000", Blur: 0, Opacity: 100, Intensity: 1})
	if want := 2 + math.Sin(1)*5; math.Abs(aurora[1].Blur-want) > 1e-9 {
		t.Errorf("aurora pass 1 blur = %v, want %v", aurora[1].Blur, want)
	}
	for i, p := range aurora {
		if p.Blur < 0 {
			t.Errorf("aurora pass %d blur negative: %v", i, p.Blur)
		}
	}
	if again := Recipe(effects.Glow{Type: effects.GlowAurora, Color: "#000000", Opacity: 100, Intensity: 1}); again[3].Blur != aurora[3].Blur {
		t.Error("aurora must not vary between calls")
	}
}

func TestRecipe_NegativeIntensity(t *testing.T) {
	passes := Recipe(effects.Glow{Type: effects.GlowSolid, Opacity: 100, Intensity: -3})
	if passes[0].Alpha != 0 {
		t.Errorf("negative intensity alpha = %v, want 0", passes[0].Alpha)
	}
}

func TestReach(t *testing.T) {
	if got := Reach(Recipe(effects.Glow{Type: effects.GlowIce, Blur: 3})); got != 9 {
		t.Errorf("Reach = %v, want 9", got)
	}
}
