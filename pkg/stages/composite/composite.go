// Package composite implements the compositor: it clears a surface and
// paints the layers in their fixed order.
package composite

import (
	"context"
	"encoding/json"
	"fmt"
	"image"

	"github.com/user/canvasfx/pkg/pipeline"
	"github.com/user/canvasfx/pkg/ports"
	"github.com/user/canvasfx/pkg/stages/adjust"
	"github.com/user/canvasfx/pkg/stages/background"
	"github.com/user/canvasfx/pkg/stages/glow"
	"github.com/user/canvasfx/pkg/stages/layout"
	"github.com/user/canvasfx/pkg/stages/outline"
	"github.com/user/canvasfx/pkg/stages/shadow"
	"github.com/user/canvasfx/pkg/stages/transform"
)

// Stage renders one frame: background, shadow, color-adjusted image, glow
// and outline, in that order. A failing layer is logged and skipped; the
// other layers still paint.
type Stage struct {
	renderer ports.Renderer
	sink     ports.DebugSink
	logger   ports.Logger

	adjust     *adjust.Stage
	transform  *transform.Stage
	background *background.Stage
	shadow     *shadow.Stage
	glow       *glow.Stage
	outline    *outline.Stage
}

// NewStage creates a new compositor. The cache supplies background images;
// it may be nil when image backgrounds are not used.
func NewStage(renderer ports.Renderer, cache ports.ImageCache, sink ports.DebugSink, logger ports.Logger, numWorkers int) *Stage {
	return &Stage{
		renderer:   renderer,
		sink:       sink,
		logger:     logger.WithComponent("composite"),
		adjust:     adjust.NewStage(logger, numWorkers),
		transform:  transform.NewStage(),
		background: background.NewStage(renderer, cache, logger),
		shadow:     shadow.NewStage(logger),
		glow:       glow.NewStage(logger),
		outline:    outline.NewStage(logger),
	}
}

// Execute renders a frame onto a freshly cleared surface.
func (s *Stage) Execute(ctx context.Context, input pipeline.CompositeInput) (pipeline.CompositeResult, error) {
	canvas := input.Canvas
	if canvas.Empty() && input.Source != nil {
		b := input.Source.Bounds()
		def := pipeline.DefaultLayoutInput()
		canvas = layout.ComputeCanvas(b.Dx(), b.Dy(), def.MaxWidth, def.MaxHeight)
	}
	if canvas.Empty() {
		return pipeline.CompositeResult{}, fmt.Errorf("invalid canvas %dx%d", canvas.Width, canvas.Height)
	}
	if err := ctx.Err(); err != nil {
		return pipeline.CompositeResult{}, err
	}

	s.logger.Debug("Compositing %dx%d canvas", canvas.Width, canvas.Height)
	s.saveParams(input, canvas)

	surface := s.renderer.CreateSurface(canvas.Width, canvas.Height)
	surface.Clear()

	f := &frame{stage: s, surface: surface}

	// The subject is prepared first: the shadow layer beneath the image
	// derives its silhouette from it.
	var subject image.Image
	showImage := input.Layers.Image && input.Source != nil
	if showImage {
		f.guard(pipeline.LayerImage, func() (bool, error) {
			var err error
			subject, err = s.prepareSubject(ctx, input, canvas)
			return false, err
		})
	}

	if input.Layers.Background {
		f.layer(pipeline.LayerBackground, func() (bool, error) {
			res, err := s.background.Execute(ctx, pipeline.BackgroundInput{Surface: surface, Background: input.Background})
			f.pending = f.pending || res.Pending
			return res.Drawn, err
		})
	}

	if subject != nil {
		f.layer(pipeline.LayerShadow, func() (bool, error) {
			res, err := s.shadow.Execute(ctx, pipeline.ShadowInput{Surface: surface, Shadow: input.Effects.Shadow, Subject: subject})
			return res.Drawn, err
		})
		f.layer(pipeline.LayerImage, func() (bool, error) {
			surface.DrawImage(subject, 0, 0, 1, ports.BlendNormal)
			return true, nil
		})
	}

	f.layer(pipeline.LayerGlow, func() (bool, error) {
		in := pipeline.GlowInput{Surface: surface, Glow: input.Effects.Glow}
		if subject != nil {
			in.MaskSource = subject
		}
		res, err := s.glow.Execute(ctx, in)
		return res.Drawn, err
	})

	f.layer(pipeline.LayerOutline, func() (bool, error) {
		res, err := s.outline.Execute(ctx, pipeline.OutlineInput{Surface: surface, Outline: input.Effects.Outline, Seed: input.Seed})
		return res.Drawn, err
	})

	s.logger.Debug("Composited %d layers, skipped %d", len(f.drawn), len(f.skipped))
	return pipeline.CompositeResult{
		Image:   surface.Snapshot(),
		Drawn:   f.drawn,
		Skipped: f.skipped,
		Pending: f.pending,
	}, nil
}

// prepareSubject resizes the source to the canvas, color-adjusts it and
// places it with the image transform.
func (s *Stage) prepareSubject(ctx context.Context, input pipeline.CompositeInput, canvas pipeline.Dimension) (image.Image, error) {
	src := input.Source
	if b := src.Bounds(); b.Dx() != canvas.Width || b.Dy() != canvas.Height {
		src = s.renderer.ResizeImage(src, canvas.Width, canvas.Height)
	}

	adjusted, err := s.adjust.Execute(ctx, pipeline.AdjustInput{Image: src, Effects: input.Effects})
	if err != nil {
		return nil, fmt.Errorf("adjust: %w", err)
	}

	placed, err := s.transform.Execute(ctx, pipeline.TransformInput{Image: adjusted.Image, Effects: input.Effects, Canvas: canvas})
	if err != nil {
		return nil, fmt.Errorf("transform: %w", err)
	}
	return placed.Layer, nil
}

func (s *Stage) saveParams(input pipeline.CompositeInput, canvas pipeline.Dimension) {
	if s.sink == nil || !s.sink.Enabled() {
		return
	}
	data, err := json.MarshalIndent(struct {
		Canvas     pipeline.Dimension       `json:"canvas"`
		Layers     pipeline.LayerVisibility `json:"layers"`
		Effects    interface{}              `json:"imageEffects"`
		Background interface{}              `json:"backgroundData"`
	}{canvas, input.Layers, input.Effects, input.Background}, "", "  ")
	if err == nil {
		err = s.sink.SaveParamsJSON(data)
	}
	if err != nil {
		s.logger.Warn("Failed to save debug parameters: %s", err)
	}
}

// frame tracks one render pass.
type frame struct {
	stage   *Stage
	surface ports.Surface
	index   int
	drawn   []string
	skipped []string
	pending bool
}

// layer runs a layer under guard and hands the surface to the debug sink
// once the layer has painted.
func (f *frame) layer(name string, paint func() (bool, error)) {
	if !f.guard(name, paint) {
		return
	}
	sink := f.stage.sink
	if sink != nil && sink.Enabled() {
		if err := sink.SaveLayer(f.index, name, f.surface.Snapshot()); err != nil {
			f.stage.logger.Warn("Failed to save debug layer %s: %s", name, err)
		}
	}
	f.index++
}

// guard runs paint, converting an error or a panic into a skipped layer.
// It reports whether paint completed and drew something.
func (f *frame) guard(name string, paint func() (bool, error)) (drawn bool) {
	defer func() {
		if r := recover(); r != nil {
			f.skip(name, fmt.Errorf("panic: %v", r))
			drawn = false
		}
	}()

	drawn, err := paint()
	if err != nil {
		f.skip(name, err)
		return false
	}
	if drawn {
		f.drawn = append(f.drawn, name)
	}
	return drawn
}

func (f *frame) skip(name string, err error) {
	f.stage.logger.Warn("Layer %s skipped: %s", name, err)
	for _, n := range f.skipped {
		if n == name {
			return
		}
	}
	f.skipped = append(f.skipped, name)
}
