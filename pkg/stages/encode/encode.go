// Package encode implements the output encoding stage.
package encode

import (
	"context"
	"fmt"

	"github.com/user/canvasfx/pkg/pipeline"
	"github.com/user/canvasfx/pkg/ports"
)

// Stage encodes a rendered canvas into PNG or JPEG bytes.
type Stage struct {
	renderer ports.Renderer
	logger   ports.Logger
}

// NewStage creates a new encode stage.
func NewStage(renderer ports.Renderer, logger ports.Logger) *Stage {
	return &Stage{
		renderer: renderer,
		logger:   logger.WithComponent("encode"),
	}
}

// Execute encodes the canvas with the requested format.
func (s *Stage) Execute(ctx context.Context, input pipeline.EncodeInput) (pipeline.EncodeResult, error) {
	result := pipeline.EncodeResult{}

	if input.Image == nil || input.Image.Bounds().Empty() {
		return result, fmt.Errorf("no image to encode")
	}
	if err := ctx.Err(); err != nil {
		return result, err
	}

	opts := input.Options
	format := opts.Format
	if format == ports.FormatAuto {
		format = ports.FormatPNG
	}
	quality := opts.Quality
	if quality <= 0 || quality > 100 {
		quality = pipeline.DefaultEncodeOptions().Quality
	}

	data, err := s.renderer.EncodeImage(input.Image, format, quality)
	if err != nil {
		return result, fmt.Errorf("encode image: %w", err)
	}
	s.logger.Debug("Encoded %d bytes", len(data))

	result.Data = data
	result.Format = format
	result.FileSize = int64(len(data))

	return result, nil
}
