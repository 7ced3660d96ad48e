// Package adjust implements the color adjustment stage: a CSS-style filter
// chain followed by per-pixel color science.
package adjust

import (
	"context"
	"fmt"
	"image"
	"runtime"
	"sync"

	"github.com/disintegration/gift"
	"github.com/disintegration/imaging"

	"github.com/user/canvasfx/pkg/pipeline"
	"github.com/user/canvasfx/pkg/ports"
)

// Stage color-adjusts the subject image.
type Stage struct {
	logger     ports.Logger
	numWorkers int
}

// NewStage creates a new adjust stage.
func NewStage(logger ports.Logger, numWorkers int) *Stage {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &Stage{
		logger:     logger.WithComponent("adjust"),
		numWorkers: numWorkers,
	}
}

// Execute applies the filter chain and then the pixel stage. Either part is
// skipped when all of its values are neutral; when both are skipped the
// input image is returned untouched.
func (s *Stage) Execute(ctx context.Context, input pipeline.AdjustInput) (pipeline.AdjustResult, error) {
	if input.Image == nil {
		return pipeline.AdjustResult{}, fmt.Errorf("no image to adjust")
	}

	e := input.Effects
	filters := Filters(e)
	pixels := e.HasPixelAdjustments()
	if len(filters) == 0 && !pixels {
		return pipeline.AdjustResult{Image: input.Image}, nil
	}

	var out *image.NRGBA
	if len(filters) > 0 {
		s.logger.Debug("Applying %d filters", len(filters))
		g := gift.New(filters...)
		out = image.NewNRGBA(g.Bounds(input.Image.Bounds()))
		g.Draw(out, input.Image)
	} else {
		out = imaging.Clone(input.Image)
	}

	if pixels {
		s.logger.Debug("Running pixel stage with %d workers", s.numWorkers)
		if err := s.applyPixels(ctx, out, NewPixel(e)); err != nil {
			return pipeline.AdjustResult{}, err
		}
	}

	return pipeline.AdjustResult{
		Image:             out,
		FiltersApplied:    len(filters) > 0,
		PixelStageApplied: pixels,
	}, nil
}

// band is a horizontal strip of rows [y0, y1).
type band struct {
	y0, y1 int
}

// applyPixels runs the pixel stage over img in place using a worker pool.
// Bands are disjoint, so the result does not depend on scheduling.
func (s *Stage) applyPixels(ctx context.Context, img *image.NRGBA, p Pixel) error {
	b := img.Bounds()
	height := b.Dy()
	if height == 0 {
		return nil
	}

	bandHeight := (height + s.numWorkers*4 - 1) / (s.numWorkers * 4)
	if bandHeight < 1 {
		bandHeight = 1
	}
	numBands := (height + bandHeight - 1) / bandHeight

	jobs := make(chan band, numBands)
	errChan := make(chan error, s.numWorkers)

	var wg sync.WaitGroup
	for w := 0; w < s.numWorkers; w++ {
		wg.Add(1)
		go s.worker(ctx, &wg, img, p, jobs, errChan)
	}

	for y := 0; y < height; y += bandHeight {
		end := y + bandHeight
		if end > height {
			end = height
		}
		jobs <- band{y0: b.Min.Y + y, y1: b.Min.Y + end}
	}
	close(jobs)

	wg.Wait()
	close(errChan)

	if err := <-errChan; err != nil {
		return fmt.Errorf("pixel stage: %w", err)
	}
	return nil
}

func (s *Stage) worker(
	ctx context.Context,
	wg *sync.WaitGroup,
	img *image.NRGBA,
	p Pixel,
	jobs <-chan band,
	errChan chan<- error,
) {
	defer wg.Done()

	b := img.Bounds()
	for j := range jobs {
		select {
		case <-ctx.Done():
			select {
			case errChan <- ctx.Err():
			default:
			}
			return
		default:
		}

		for y := j.y0; y < j.y1; y++ {
			i := img.PixOffset(b.Min.X, y)
			for x := 0; x < b.Dx(); x++ {
				img.Pix[i], img.Pix[i+1], img.Pix[i+2] = p.Apply(img.Pix[i], img.Pix[i+1], img.Pix[i+2])
				i += 4
			}
		}
	}
}
