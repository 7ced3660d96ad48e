package session

import (
	"context"
	"errors"
	"image"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/user/canvasfx/pkg/adapters/ggrenderer"
	"github.com/user/canvasfx/pkg/adapters/logger"
	"github.com/user/canvasfx/pkg/effects"
	"github.com/user/canvasfx/pkg/mocks"
	"github.com/user/canvasfx/pkg/pipeline"
	"github.com/user/canvasfx/pkg/presets"
	"github.com/user/canvasfx/pkg/stages/composite"
	"github.com/user/canvasfx/pkg/template"
)

// recordingStage is a composite stage mock that reports each render.
type recordingStage struct {
	mu     sync.Mutex
	inputs []pipeline.CompositeInput
	err    error
	done   chan pipeline.CompositeInput
}

func newRecordingStage() *recordingStage {
	return &recordingStage{done: make(chan pipeline.CompositeInput, 16)}
}

func (m *recordingStage) Execute(ctx context.Context, input pipeline.CompositeInput) (pipeline.CompositeResult, error) {
	m.mu.Lock()
	m.inputs = append(m.inputs, input)
	m.mu.Unlock()
	defer func() { m.done <- input }()
	if m.err != nil {
		return pipeline.CompositeResult{}, m.err
	}
	return pipeline.CompositeResult{
		Image: image.NewRGBA(image.Rect(0, 0, input.Canvas.Width, input.Canvas.Height)),
		Drawn: []string{pipeline.LayerBackground},
	}, nil
}

func (m *recordingStage) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.inputs)
}

func (m *recordingStage) wait(t *testing.T) pipeline.CompositeInput {
	t.Helper()
	select {
	case in := <-m.done:
		return in
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a render")
		return pipeline.CompositeInput{}
	}
}

func start(t *testing.T, s *Session) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- s.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		if err := <-errc; !errors.Is(err, context.Canceled) {
			t.Errorf("Run returned %v, want context.Canceled", err)
		}
	})
}

func TestSession_Defaults(t *testing.T) {
	s := New(newRecordingStage(), Config{}, logger.NewNoop())

	if s.Canvas() != (pipeline.Dimension{Width: 400, Height: 400}) {
		t.Errorf("canvas = %+v, want 400x400", s.Canvas())
	}
	if s.Effects() != effects.DefaultImageEffects() {
		t.Error("effects should start at defaults")
	}
	if s.Background().Color != "#ffffff" {
		t.Errorf("background = %+v", s.Background())
	}
	if _, ok := s.Latest(); ok {
		t.Error("no frame should exist before Run")
	}
}

func TestSession_LoadImageSizesCanvasOnce(t *testing.T) {
	s := New(newRecordingStage(), Config{MaxWidth: 400, MaxHeight: 400}, logger.NewNoop())

	s.LoadImage(image.NewRGBA(image.Rect(0, 0, 1000, 500)))
	if got := s.Canvas(); got != (pipeline.Dimension{Width: 400, Height: 200}) {
		t.Errorf("canvas = %+v, want 400x200", got)
	}

	s.UpdateEffects(func(e *effects.ImageEffects) { e.Scale = 150 })
	if got := s.Canvas(); got != (pipeline.Dimension{Width: 400, Height: 200}) {
		t.Errorf("effect changes must not resize the canvas, got %+v", got)
	}

	s.LoadImage(image.NewRGBA(image.Rect(0, 0, 300, 600)))
	if got := s.Canvas(); got != (pipeline.Dimension{Width: 200, Height: 400}) {
		t.Errorf("canvas = %+v, want 200x400", got)
	}
}

func TestSession_RedrawCoalesces(t *testing.T) {
	stage := newRecordingStage()
	s := New(stage, Config{}, logger.NewNoop())

	for i := 0; i < 5; i++ {
		s.RequestRedraw()
	}
	start(t, s)
	stage.wait(t)

	s.UpdateEffects(func(e *effects.ImageEffects) { e.Sepia = 40 })
	in := stage.wait(t)

	if in.Effects.Sepia != 40 {
		t.Errorf("second render saw sepia %v, want 40", in.Effects.Sepia)
	}
	if got := stage.calls(); got != 2 {
		t.Errorf("expected 2 renders, got %d", got)
	}
}

func TestSession_RenderUsesSnapshots(t *testing.T) {
	stage := newRecordingStage()
	s := New(stage, Config{Seed: 5}, logger.NewNoop())
	s.UpdateBackground(func(b *effects.BackgroundData) {
		b.Type = effects.BackgroundGradient
		b.Gradient = &effects.GradientSpec{Type: effects.GradientLinear, Colors: []string{"#000000", "#ffffff"}}
	})

	start(t, s)
	in := stage.wait(t)

	s.UpdateBackground(func(b *effects.BackgroundData) { b.Gradient.Colors[0] = "#ff0000" })

	if in.Background.Gradient.Colors[0] != "#000000" {
		t.Error("a render input must not see later edits")
	}
	if in.Seed != 5 {
		t.Errorf("seed = %d, want 5", in.Seed)
	}
	if s.Background().Gradient.Colors[0] != "#ff0000" {
		t.Error("the edit should be stored")
	}
}

func TestSession_UpdateEffectsWorksOnCopy(t *testing.T) {
	s := New(newRecordingStage(), Config{}, logger.NewNoop())

	var seen *effects.ImageEffects
	s.UpdateEffects(func(e *effects.ImageEffects) {
		e.Outline.Enabled = true
		seen = e
	})
	seen.Outline.Width = 99

	if s.Effects().Outline.Width == 99 {
		t.Error("mutating the callback pointer later must not change the session")
	}
	if !s.Effects().Outline.Enabled {
		t.Error("the change made inside the callback should be kept")
	}
}

func TestSession_ConcurrentUpdatesKeepEveryChange(t *testing.T) {
	s := New(newRecordingStage(), Config{}, logger.NewNoop())
	s.UpdateEffects(func(e *effects.ImageEffects) { e.Outline.Width = 0 })
	s.UpdateBackground(func(b *effects.BackgroundData) { b.Pattern = &effects.PatternSpec{} })

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.UpdateEffects(func(e *effects.ImageEffects) {
				w := e.Outline.Width
				runtime.Gosched()
				e.Outline.Width = w + 1
			})
		}()
		go func() {
			defer wg.Done()
			s.UpdateBackground(func(b *effects.BackgroundData) {
				scale := b.Pattern.Scale
				runtime.Gosched()
				b.Pattern.Scale = scale + 1
			})
		}()
	}
	wg.Wait()

	if got := s.Effects().Outline.Width; got != n {
		t.Errorf("outline width = %v, want %d", got, n)
	}
	if got := s.Background().Pattern.Scale; got != n {
		t.Errorf("pattern scale = %v, want %d", got, n)
	}
}

func TestSession_SetLayerVisible(t *testing.T) {
	s := New(newRecordingStage(), Config{}, logger.NewNoop())

	if err := s.SetLayerVisible(pipeline.LayerBackground, false); err != nil {
		t.Fatal(err)
	}
	if err := s.SetLayerVisible(pipeline.LayerImage, false); err != nil {
		t.Fatal(err)
	}
	if l := s.Layers(); l.Background || l.Image {
		t.Errorf("layers = %+v, want both hidden", l)
	}
	if err := s.SetLayerVisible(pipeline.LayerGlow, false); err == nil {
		t.Error("effect layers are toggled by their own flags")
	}
}

func TestSession_ApplyPreset(t *testing.T) {
	s := New(newRecordingStage(), Config{}, logger.NewNoop())

	if err := s.ApplyPreset("dramatic"); err != nil {
		t.Fatalf("ApplyPreset failed: %v", err)
	}
	want, _ := presets.Apply("dramatic", effects.DefaultImageEffects())
	if s.Effects() != want {
		t.Error("preset not applied")
	}

	before := s.Effects()
	if err := s.ApplyPreset("unknown"); !errors.Is(err, presets.ErrUnknown) {
		t.Errorf("expected ErrUnknown, got %v", err)
	}
	if s.Effects() != before {
		t.Error("unknown preset must leave effects untouched")
	}
}

func TestSession_TemplateRoundTrip(t *testing.T) {
	s := New(newRecordingStage(), Config{}, logger.NewNoop())
	s.UpdateEffects(func(e *effects.ImageEffects) { e.Glow.Enabled = true })
	s.UpdateBackground(func(b *effects.BackgroundData) { b.Color = "#123456" })

	tpl := s.Template("Look", "desc")
	if tpl.Name != "Look" || tpl.Status != template.StatusInactive {
		t.Errorf("template = %+v", tpl)
	}

	other := New(newRecordingStage(), Config{}, logger.NewNoop())
	other.ApplyTemplate(tpl)

	if other.Effects() != s.Effects() {
		t.Error("effects should transfer through the template")
	}
	if other.Background().Color != "#123456" {
		t.Errorf("background = %+v", other.Background())
	}
}

func TestSession_OnFrameAndLatest(t *testing.T) {
	stage := newRecordingStage()
	s := New(stage, Config{}, logger.NewNoop())

	frames := make(chan pipeline.CompositeResult, 4)
	s.OnFrame(func(r pipeline.CompositeResult) { frames <- r })
	s.LoadImage(image.NewRGBA(image.Rect(0, 0, 10, 10)))

	start(t, s)

	select {
	case r := <-frames:
		if r.Image.Bounds().Dx() != 400 {
			t.Errorf("frame width = %d, want 400", r.Image.Bounds().Dx())
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a frame")
	}

	latest, ok := s.Latest()
	if !ok || latest.Image == nil {
		t.Error("Latest should return the rendered frame")
	}
}

func TestSession_RenderErrorKeepsLoopAlive(t *testing.T) {
	stage := newRecordingStage()
	stage.err = errors.New("boom")
	log := mocks.NewLogger()
	s := New(stage, Config{}, log)

	s.RequestRedraw()
	start(t, s)
	stage.wait(t)

	s.RequestRedraw()
	stage.wait(t)

	if _, ok := s.Latest(); ok {
		t.Error("failed renders should not produce a frame")
	}
}

// notifier stands in for the image cache.
type notifier struct {
	fn func(url string)
}

func (n *notifier) OnLoad(fn func(url string)) { n.fn = fn }

func TestSession_WatchRedrawsOnLoad(t *testing.T) {
	stage := newRecordingStage()
	s := New(stage, Config{}, logger.NewNoop())
	n := &notifier{}
	s.Watch(n)

	start(t, s)
	n.fn("bg.png")
	stage.wait(t)
}

func TestSession_WithCompositor(t *testing.T) {
	cache := mocks.NewImageCache()
	stage := composite.NewStage(ggrenderer.New(), cache, mocks.NewDebugSink(false), logger.NewNoop(), 1)
	s := New(stage, Config{MaxWidth: 40, MaxHeight: 40}, logger.NewNoop())

	frames := make(chan pipeline.CompositeResult, 4)
	s.OnFrame(func(r pipeline.CompositeResult) { frames <- r })
	s.UpdateBackground(func(b *effects.BackgroundData) { b.Color = "#00ff00" })

	start(t, s)

	select {
	case r := <-frames:
		if got := r.Image.RGBAAt(20, 20); got.G != 255 || got.R != 0 {
			t.Errorf("pixel = %v, want green background", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a frame")
	}
}
