// Package session holds the canonical editing state of one image and
// re-renders it whenever that state changes.
package session

import (
	"context"
	"fmt"
	"image"
	"sync"

	"github.com/user/canvasfx/pkg/effects"
	"github.com/user/canvasfx/pkg/pipeline"
	"github.com/user/canvasfx/pkg/ports"
	"github.com/user/canvasfx/pkg/presets"
	"github.com/user/canvasfx/pkg/stages/layout"
	"github.com/user/canvasfx/pkg/template"
)

// Config sets the canvas box and jitter seed for a session.
type Config struct {
	MaxWidth  int
	MaxHeight int
	Seed      int64
}

// LoadNotifier reports finished background image loads.
type LoadNotifier interface {
	OnLoad(fn func(url string))
}

// Session owns the effect, background and layer state. Mutators apply
// their change to a copy and swap it in, then ask for a redraw. Renders
// happen only inside Run, one at a time, on value snapshots.
type Session struct {
	stage  pipeline.Stage[pipeline.CompositeInput, pipeline.CompositeResult]
	logger ports.Logger
	config Config

	mu         sync.Mutex
	source     image.Image
	canvas     pipeline.Dimension
	effects    effects.ImageEffects
	background effects.BackgroundData
	layers     pipeline.LayerVisibility
	latest     pipeline.CompositeResult
	rendered   bool
	onFrame    func(pipeline.CompositeResult)

	redraw chan struct{}
}

// New creates a session with default effects and a white background.
func New(stage pipeline.Stage[pipeline.CompositeInput, pipeline.CompositeResult], config Config, logger ports.Logger) *Session {
	if config.MaxWidth <= 0 || config.MaxHeight <= 0 {
		def := pipeline.DefaultLayoutInput()
		config.MaxWidth, config.MaxHeight = def.MaxWidth, def.MaxHeight
	}
	return &Session{
		stage:      stage,
		logger:     logger.WithComponent("session"),
		config:     config,
		effects:    effects.DefaultImageEffects(),
		background: effects.DefaultBackground(),
		layers:     pipeline.DefaultLayerVisibility(),
		canvas:     pipeline.Dimension{Width: config.MaxWidth, Height: config.MaxHeight},
		redraw:     make(chan struct{}, 1),
	}
}

// Watch redraws whenever n finishes loading an image.
func (s *Session) Watch(n LoadNotifier) {
	n.OnLoad(func(url string) {
		s.logger.Debug("Redraw after loading %s", url)
		s.RequestRedraw()
	})
}

// LoadImage replaces the source image. The canvas size is derived from it
// here and stays fixed until the next LoadImage.
func (s *Session) LoadImage(img image.Image) {
	var w, h int
	if img != nil {
		w, h = img.Bounds().Dx(), img.Bounds().Dy()
	}
	canvas := layout.ComputeCanvas(w, h, s.config.MaxWidth, s.config.MaxHeight)

	s.mu.Lock()
	s.source = img
	s.canvas = canvas
	s.mu.Unlock()

	s.logger.Debug("Canvas size: %dx%d", canvas.Width, canvas.Height)
	s.RequestRedraw()
}

// Canvas returns the current canvas size.
func (s *Session) Canvas() pipeline.Dimension {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.canvas
}

// Effects returns a copy of the current image effects.
func (s *Session) Effects() effects.ImageEffects {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.effects
}

// Background returns a copy of the current background.
func (s *Session) Background() effects.BackgroundData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.background.Clone()
}

// Layers returns the current layer visibility.
func (s *Session) Layers() pipeline.LayerVisibility {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.layers
}

// UpdateEffects applies fn to a copy of the effects and stores the result.
// Concurrent updates are serialized, so fn must not call back into the
// session.
func (s *Session) UpdateEffects(fn func(*effects.ImageEffects)) {
	s.mu.Lock()
	next := s.effects
	fn(&next)
	s.effects = next
	s.mu.Unlock()
	s.RequestRedraw()
}

// UpdateBackground applies fn to a copy of the background and stores the
// result. Like UpdateEffects it holds the session lock while fn runs.
func (s *Session) UpdateBackground(fn func(*effects.BackgroundData)) {
	s.mu.Lock()
	next := s.background.Clone()
	fn(&next)
	s.background = next.Clone()
	s.mu.Unlock()
	s.RequestRedraw()
}

// SetLayerVisible shows or hides the background or image layer.
func (s *Session) SetLayerVisible(layer string, visible bool) error {
	s.mu.Lock()
	switch layer {
	case pipeline.LayerBackground:
		s.layers.Background = visible
	case pipeline.LayerImage:
		s.layers.Image = visible
	default:
		s.mu.Unlock()
		return fmt.Errorf("layer %q cannot be toggled", layer)
	}
	s.mu.Unlock()
	s.RequestRedraw()
	return nil
}

// ApplyPreset applies a named filter preset. An unknown name leaves the
// effects untouched.
func (s *Session) ApplyPreset(name string) error {
	s.mu.Lock()
	next, err := presets.Apply(name, s.effects)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.effects = next
	s.mu.Unlock()

	s.logger.Debug("Applied preset %s", name)
	s.RequestRedraw()
	return nil
}

// ApplyTemplate replaces the effects and background with a template's.
func (s *Session) ApplyTemplate(t template.Template) {
	s.mu.Lock()
	s.effects = t.ImageEffects
	s.background = t.BackgroundData.Clone()
	s.mu.Unlock()

	s.logger.Debug("Applied template %s", t.Name)
	s.RequestRedraw()
}

// Template captures the current look as an unsaved template.
func (s *Session) Template(name, description string) template.Template {
	s.mu.Lock()
	defer s.mu.Unlock()
	return template.Template{
		Name:           name,
		Description:    description,
		ImageEffects:   s.effects,
		BackgroundData: s.background.Clone(),
		Status:         template.StatusInactive,
	}
}

// RequestRedraw schedules a render. It never blocks, and requests made
// before the loop picks one up collapse into a single render.
func (s *Session) RequestRedraw() {
	select {
	case s.redraw <- struct{}{}:
	default:
	}
}

// OnFrame registers a callback invoked from Run after every render.
func (s *Session) OnFrame(fn func(pipeline.CompositeResult)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onFrame = fn
}

// Latest returns the newest rendered frame.
func (s *Session) Latest() (pipeline.CompositeResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest, s.rendered
}

// Run renders on every redraw request until ctx is done.
func (s *Session) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.redraw:
			s.render(ctx)
		}
	}
}

func (s *Session) render(ctx context.Context) {
	input, onFrame := s.snapshot()

	result, err := s.stage.Execute(ctx, input)
	if err != nil {
		s.logger.Warn("Render failed: %s", err)
		return
	}

	s.mu.Lock()
	s.latest = result
	s.rendered = true
	s.mu.Unlock()

	if onFrame != nil {
		onFrame(result)
	}
}

func (s *Session) snapshot() (pipeline.CompositeInput, func(pipeline.CompositeResult)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return pipeline.CompositeInput{
		Source:     s.source,
		Effects:    s.effects,
		Background: s.background.Clone(),
		Canvas:     s.canvas,
		Layers:     s.layers,
		Seed:       s.config.Seed,
	}, s.onFrame
}
