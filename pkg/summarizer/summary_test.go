package summarizer

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/user/canvasfx/pkg/effects"
	"github.com/user/canvasfx/pkg/mocks"
)

func TestNewSummary(t *testing.T) {
	before := time.Now()
	summary := NewSummary()
	after := time.Now()

	if summary.GeneratedAt.Before(before) || summary.GeneratedAt.After(after) {
		t.Errorf("GeneratedAt should be between %v and %v, got %v",
			before, after, summary.GeneratedAt)
	}
}

func TestBuilder(t *testing.T) {
	fx := effects.DefaultImageEffects()
	fx.Outline.Enabled = true
	drawn := []string{"background", "image", "outline"}

	summary := NewBuilder().
		WithSource("in.png", 800, 600).
		WithCanvas(400, 300).
		WithLook("", "Sunset", fx, effects.DefaultBackground()).
		WithLayers(drawn, nil, false).
		WithOutput(OutputInfo{Path: "out.png", Format: "png", FileSize: 10}).
		Build()

	drawn[0] = "changed"

	if summary.Source.Width != 800 || summary.Canvas.Height != 300 {
		t.Errorf("sizes = %+v / %+v", summary.Source, summary.Canvas)
	}
	if summary.Look.Template != "Sunset" || summary.Look.Background != "color #ffffff" {
		t.Errorf("look = %+v", summary.Look)
	}
	if len(summary.Look.Effects) != 1 || !strings.HasPrefix(summary.Look.Effects[0], "outline solid") {
		t.Errorf("effects = %v", summary.Look.Effects)
	}
	if summary.Layers.Drawn[0] != "background" {
		t.Error("layer lists should be copied")
	}
	if summary.Output.FileSize != 10 {
		t.Errorf("output = %+v", summary.Output)
	}
}

func TestDescribeEffects(t *testing.T) {
	if got := DescribeEffects(effects.DefaultImageEffects()); len(got) != 0 {
		t.Errorf("neutral effects should describe nothing, got %v", got)
	}

	fx := effects.DefaultImageEffects()
	fx.Sepia = 30
	fx.Temperature = 10
	fx.FlipH = true
	fx.Shadow.Enabled = true
	fx.Glow.Enabled = true
	fx.Outline.Enabled = true

	got := DescribeEffects(fx)
	prefixes := []string{"filters", "adjust", "transform", "shadow drop", "glow solid", "outline solid"}
	if len(got) != len(prefixes) {
		t.Fatalf("got %d entries, want %d: %v", len(got), len(prefixes), got)
	}
	for i, p := range prefixes {
		if !strings.HasPrefix(got[i], p) {
			t.Errorf("entry %d = %q, want prefix %q", i, got[i], p)
		}
	}
}

func TestDescribeBackground(t *testing.T) {
	tests := []struct {
		bg   effects.BackgroundData
		want string
	}{
		{effects.BackgroundData{Type: effects.BackgroundColor, Color: "#000000"}, "color #000000"},
		{effects.BackgroundData{Type: effects.BackgroundGradient, Gradient: &effects.GradientSpec{Type: effects.GradientLinear, Colors: []string{"#000", "#fff"}}}, "linear gradient, 2 colors"},
		{effects.BackgroundData{Type: effects.BackgroundPattern, Pattern: &effects.PatternSpec{Type: "dots", Scale: 20}}, "pattern dots (20px)"},
		{effects.BackgroundData{Type: effects.BackgroundImage, Image: &effects.ImageSpec{Fit: effects.FitCover}}, "image (cover)"},
		{effects.BackgroundData{Type: effects.BackgroundImage}, "image (empty)"},
	}

	for _, tt := range tests {
		if got := DescribeBackground(tt.bg); got != tt.want {
			t.Errorf("DescribeBackground = %q, want %q", got, tt.want)
		}
	}
}

func TestWriter_Write(t *testing.T) {
	fs := mocks.NewFileSystem()
	w := NewWriter(FormatFunc(func(s *Summary) string { return "report" }), fs)

	if err := w.Write("reports/summary.md", NewSummary()); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	data, ok := fs.GetFile("reports/summary.md")
	if !ok || string(data) != "report" {
		t.Errorf("written = %q", data)
	}
}

func TestWriter_WriteError(t *testing.T) {
	fs := mocks.NewFileSystem()
	fs.WriteFileFunc = func(path string, data []byte) error { return errors.New("read-only") }
	w := NewWriter(NewMarkdownFormatter(), fs)

	if err := w.Write("summary.md", NewSummary()); err == nil {
		t.Error("expected write error")
	}
}
