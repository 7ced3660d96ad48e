package canvasfx

import (
	"context"
	"fmt"
	"image"

	"github.com/user/canvasfx/pkg/adapters/ggrenderer"
	"github.com/user/canvasfx/pkg/adapters/imageloader"
	"github.com/user/canvasfx/pkg/adapters/logger"
	"github.com/user/canvasfx/pkg/adapters/nullsink"
	"github.com/user/canvasfx/pkg/adapters/osfilesystem"
	"github.com/user/canvasfx/pkg/imagecache"
	"github.com/user/canvasfx/pkg/pipeline"
	"github.com/user/canvasfx/pkg/stages/composite"
	"github.com/user/canvasfx/pkg/stages/layout"
)

// Render composites src with cfg and returns the canvas. Background images
// are loaded from data URIs, local paths or http(s) and awaited before the
// final render. A nil src renders the background alone.
func Render(ctx context.Context, src image.Image, cfg Config) (pipeline.CompositeResult, error) {
	log := logger.NewNoop()
	cache := imagecache.New(ctx, imageloader.New(osfilesystem.New()), log)
	stage := composite.NewStage(ggrenderer.New(), cache, nullsink.New(), log, 0)

	input := pipeline.CompositeInput{
		Source:     src,
		Effects:    cfg.Effects,
		Background: cfg.Background.Clone(),
		Layers:     cfg.Layers,
		Seed:       cfg.Seed,
	}
	var w, h int
	if src != nil {
		w, h = src.Bounds().Dx(), src.Bounds().Dy()
	}
	input.Canvas = layout.ComputeCanvas(w, h, cfg.MaxWidth, cfg.MaxHeight)

	result, err := stage.Execute(ctx, input)
	if err != nil {
		return result, fmt.Errorf("composite: %w", err)
	}
	if !result.Pending {
		return result, nil
	}

	if err := cache.Wait(ctx); err != nil {
		return result, err
	}
	return stage.Execute(ctx, input)
}
