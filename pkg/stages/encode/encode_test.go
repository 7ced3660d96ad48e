package encode

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"testing"

	"github.com/user/canvasfx/pkg/adapters/ggrenderer"
	"github.com/user/canvasfx/pkg/adapters/logger"
	"github.com/user/canvasfx/pkg/mocks"
	"github.com/user/canvasfx/pkg/pipeline"
	"github.com/user/canvasfx/pkg/ports"
)

func TestStage_Execute(t *testing.T) {
	stage := NewStage(ggrenderer.New(), logger.NewNoop())

	input := pipeline.EncodeInput{
		Image:   image.NewRGBA(image.Rect(0, 0, 64, 48)),
		Options: pipeline.DefaultEncodeOptions(),
	}

	result, err := stage.Execute(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Format != ports.FormatPNG {
		t.Errorf("expected PNG, got %v", result.Format)
	}
	if result.FileSize != int64(len(result.Data)) {
		t.Errorf("FileSize %d does not match data length %d", result.FileSize, len(result.Data))
	}

	cfg, err := png.DecodeConfig(bytes.NewReader(result.Data))
	if err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}
	if cfg.Width != 64 || cfg.Height != 48 {
		t.Errorf("expected 64x48, got %dx%d", cfg.Width, cfg.Height)
	}
}

func TestStage_Execute_Options(t *testing.T) {
	tests := []struct {
		name        string
		opts        pipeline.EncodeOptions
		wantFormat  ports.ImageFormat
		wantQuality int
	}{
		{"jpeg keeps quality", pipeline.EncodeOptions{Format: ports.FormatJPEG, Quality: 70}, ports.FormatJPEG, 70},
		{"zero quality uses default", pipeline.EncodeOptions{Format: ports.FormatJPEG}, ports.FormatJPEG, 90},
		{"out of range quality uses default", pipeline.EncodeOptions{Format: ports.FormatJPEG, Quality: 150}, ports.FormatJPEG, 90},
		{"auto writes png", pipeline.EncodeOptions{Format: ports.FormatAuto, Quality: 50}, ports.FormatPNG, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotFormat ports.ImageFormat
			var gotQuality int
			renderer := &mocks.Renderer{
				EncodeImageFunc: func(img image.Image, format ports.ImageFormat, quality int) ([]byte, error) {
					gotFormat, gotQuality = format, quality
					return []byte{1, 2, 3}, nil
				},
			}
			stage := NewStage(renderer, logger.NewNoop())

			result, err := stage.Execute(context.Background(), pipeline.EncodeInput{
				Image:   image.NewRGBA(image.Rect(0, 0, 4, 4)),
				Options: tt.opts,
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if gotFormat != tt.wantFormat || result.Format != tt.wantFormat {
				t.Errorf("format = %v (result %v), want %v", gotFormat, result.Format, tt.wantFormat)
			}
			if gotQuality != tt.wantQuality {
				t.Errorf("quality = %d, want %d", gotQuality, tt.wantQuality)
			}
			if result.FileSize != 3 {
				t.Errorf("FileSize = %d, want 3", result.FileSize)
			}
		})
	}
}

func TestStage_Execute_NoImage(t *testing.T) {
	stage := NewStage(&mocks.Renderer{}, logger.NewNoop())

	if _, err := stage.Execute(context.Background(), pipeline.EncodeInput{}); err == nil {
		t.Error("expected error for missing image")
	}
	empty := pipeline.EncodeInput{Image: image.NewRGBA(image.Rectangle{})}
	if _, err := stage.Execute(context.Background(), empty); err == nil {
		t.Error("expected error for empty image")
	}
}

func TestStage_Execute_EncoderError(t *testing.T) {
	boom := errors.New("boom")
	renderer := &mocks.Renderer{
		EncodeImageFunc: func(img image.Image, format ports.ImageFormat, quality int) ([]byte, error) {
			return nil, boom
		},
	}
	stage := NewStage(renderer, logger.NewNoop())

	_, err := stage.Execute(context.Background(), pipeline.EncodeInput{Image: image.NewRGBA(image.Rect(0, 0, 2, 2))})
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped encoder error, got %v", err)
	}
}

func TestStage_Execute_ContextCancelled(t *testing.T) {
	stage := NewStage(&mocks.Renderer{}, logger.NewNoop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := stage.Execute(ctx, pipeline.EncodeInput{Image: image.NewRGBA(image.Rect(0, 0, 2, 2))})
	if err == nil {
		t.Error("expected error for cancelled context")
	}
}
