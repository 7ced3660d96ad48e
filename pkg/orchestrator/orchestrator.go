// Package orchestrator coordinates the batch render pipeline: load the
// source, size the canvas, composite the layers, encode and write.
package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/ideamans/go-l10n"

	"github.com/user/canvasfx/pkg/effects"
	"github.com/user/canvasfx/pkg/pipeline"
	"github.com/user/canvasfx/pkg/ports"
)

// Config contains all configuration for the orchestrator.
type Config struct {
	// Input
	SourcePath string
	OutputPath string

	// Layout
	MaxWidth  int
	MaxHeight int

	// Look
	Effects    effects.ImageEffects
	Background effects.BackgroundData
	Layers     pipeline.LayerVisibility
	Seed       int64

	// Encoding
	Format  ports.ImageFormat
	Quality int

	// BackgroundTimeout bounds how long a render waits for a background
	// image before writing the output without it.
	BackgroundTimeout time.Duration
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	layout := pipeline.DefaultLayoutInput()
	encode := pipeline.DefaultEncodeOptions()
	return Config{
		MaxWidth:          layout.MaxWidth,
		MaxHeight:         layout.MaxHeight,
		Effects:           effects.DefaultImageEffects(),
		Background:        effects.DefaultBackground(),
		Layers:            pipeline.DefaultLayerVisibility(),
		Format:            encode.Format,
		Quality:           encode.Quality,
		BackgroundTimeout: 30 * time.Second,
	}
}

// ImageWaiter blocks until every in-flight image load has settled.
type ImageWaiter interface {
	Wait(ctx context.Context) error
}

// Orchestrator coordinates the execution of all pipeline stages.
type Orchestrator struct {
	layoutStage    pipeline.Stage[pipeline.LayoutInput, pipeline.LayoutResult]
	compositeStage pipeline.Stage[pipeline.CompositeInput, pipeline.CompositeResult]
	encodeStage    pipeline.Stage[pipeline.EncodeInput, pipeline.EncodeResult]
	loader         ports.ImageLoader
	images         ImageWaiter
	fs             ports.FileSystem
	logger         ports.Logger
}

// New creates a new Orchestrator. images may be nil when backgrounds
// never reference external images.
func New(
	layoutStage pipeline.Stage[pipeline.LayoutInput, pipeline.LayoutResult],
	compositeStage pipeline.Stage[pipeline.CompositeInput, pipeline.CompositeResult],
	encodeStage pipeline.Stage[pipeline.EncodeInput, pipeline.EncodeResult],
	loader ports.ImageLoader,
	images ImageWaiter,
	fs ports.FileSystem,
	logger ports.Logger,
) *Orchestrator {
	return &Orchestrator{
		layoutStage:    layoutStage,
		compositeStage: compositeStage,
		encodeStage:    encodeStage,
		loader:         loader,
		images:         images,
		fs:             fs,
		logger:         logger,
	}
}

// Run executes the complete pipeline.
func (o *Orchestrator) Run(ctx context.Context, config Config) (RunResult, error) {
	started := time.Now()
	o.logger.Info(l10n.T("Starting render"))

	// 1. Load source
	var source pipeline.Dimension
	input := pipeline.CompositeInput{
		Effects:    config.Effects,
		Background: config.Background,
		Layers:     config.Layers,
		Seed:       config.Seed,
	}
	if config.SourcePath != "" {
		o.logger.Info(l10n.F("Loading source image %s", config.SourcePath))
		img, err := o.loader.Load(ctx, config.SourcePath)
		if err != nil {
			o.logger.Error(l10n.F("Failed to load source image: %s", err))
			return RunResult{}, fmt.Errorf("load source: %w", err)
		}
		input.Source = img
		source = pipeline.Dimension{Width: img.Bounds().Dx(), Height: img.Bounds().Dy()}
	}

	// 2. Canvas size
	layout, err := o.layoutStage.Execute(ctx, pipeline.LayoutInput{
		SourceWidth:  source.Width,
		SourceHeight: source.Height,
		MaxWidth:     config.MaxWidth,
		MaxHeight:    config.MaxHeight,
	})
	if err != nil {
		o.logger.Error(l10n.F("Failed to calculate layout: %s", err))
		return RunResult{}, fmt.Errorf("layout stage: %w", err)
	}
	input.Canvas = layout.Canvas
	o.logger.Info(l10n.F("Canvas size: %dx%d", layout.Canvas.Width, layout.Canvas.Height))

	// 3. Composite, once more if the background image arrived late
	composite, err := o.compositeStage.Execute(ctx, input)
	if err != nil {
		o.logger.Error(l10n.F("Failed to composite layers: %s", err))
		return RunResult{}, fmt.Errorf("composite stage: %w", err)
	}
	if composite.Pending && o.images != nil {
		o.logger.Info(l10n.T("Waiting for background image"))
		composite, err = o.rerender(ctx, config, input, composite)
		if err != nil {
			return RunResult{}, err
		}
	}
	if composite.Pending {
		o.logger.Warn(l10n.T("Background image is not ready, writing without it"))
	}

	// 4. Encode
	encoded, err := o.encodeStage.Execute(ctx, pipeline.EncodeInput{
		Image:   composite.Image,
		Options: pipeline.EncodeOptions{Format: config.Format, Quality: config.Quality},
	})
	if err != nil {
		o.logger.Error(l10n.F("Failed to encode image: %s", err))
		return RunResult{}, fmt.Errorf("encode stage: %w", err)
	}
	o.logger.Info(l10n.F("Image encoded: %d bytes", encoded.FileSize))

	// 5. Write output file
	if err := o.fs.WriteFile(config.OutputPath, encoded.Data); err != nil {
		o.logger.Error(l10n.F("Failed to write output: %s", err))
		return RunResult{}, fmt.Errorf("write output: %w", err)
	}

	o.logger.Info(l10n.T("Render completed successfully"))

	return RunResult{
		SourcePath:   config.SourcePath,
		OutputPath:   config.OutputPath,
		SourceWidth:  source.Width,
		SourceHeight: source.Height,
		CanvasWidth:  layout.Canvas.Width,
		CanvasHeight: layout.Canvas.Height,
		Drawn:        composite.Drawn,
		Skipped:      composite.Skipped,
		Pending:      composite.Pending,
		Format:       encoded.Format,
		FileSize:     encoded.FileSize,
		Duration:     time.Since(started),
	}, nil
}

// rerender waits for outstanding image loads and composites again. A
// timeout keeps the first result rather than failing the run.
func (o *Orchestrator) rerender(ctx context.Context, config Config, input pipeline.CompositeInput, first pipeline.CompositeResult) (pipeline.CompositeResult, error) {
	waitCtx := ctx
	if config.BackgroundTimeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, config.BackgroundTimeout)
		defer cancel()
	}
	if err := o.images.Wait(waitCtx); err != nil {
		if ctx.Err() != nil {
			return first, ctx.Err()
		}
		return first, nil
	}

	composite, err := o.compositeStage.Execute(ctx, input)
	if err != nil {
		o.logger.Error(l10n.F("Failed to composite layers: %s", err))
		return first, fmt.Errorf("composite stage: %w", err)
	}
	return composite, nil
}

// RunResult contains the results of a render for summary generation.
type RunResult struct {
	SourcePath string
	OutputPath string

	SourceWidth  int
	SourceHeight int
	CanvasWidth  int
	CanvasHeight int

	// Layers
	Drawn   []string
	Skipped []string
	Pending bool // Background image never arrived

	// Output
	Format   ports.ImageFormat
	FileSize int64
	Duration time.Duration
}
