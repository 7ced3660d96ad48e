// Package canvasfx provides a high-level API for rendering images with
// layered canvas effects.
package canvasfx

import (
	"errors"
	"fmt"

	"github.com/user/canvasfx/pkg/effects"
	"github.com/user/canvasfx/pkg/orchestrator"
	"github.com/user/canvasfx/pkg/pipeline"
	"github.com/user/canvasfx/pkg/ports"
	"github.com/user/canvasfx/pkg/presets"
)

// QualityPreset represents a JPEG quality preset name.
type QualityPreset string

const (
	QualityLow    QualityPreset = "low"
	QualityMedium QualityPreset = "medium"
	QualityHigh   QualityPreset = "high"
)

// JPEGQuality returns the JPEG quality for the given preset.
func JPEGQuality(preset QualityPreset) int {
	switch preset {
	case QualityLow:
		return 60
	case QualityHigh:
		return 95
	default: // medium
		return 85
	}
}

// Config represents the configuration for a render.
type Config struct {
	// Canvas box the source is fitted into
	MaxWidth  int // default: 400
	MaxHeight int // default: 400

	// Look
	Effects    effects.ImageEffects
	Background effects.BackgroundData
	Layers     pipeline.LayerVisibility
	Seed       int64 // Jitter seed for vintage and artistic outlines (0 = derived)

	// Encoding
	Format  ports.ImageFormat
	Quality int // JPEG quality (1-100)
}

// ConfigBuilder provides a fluent interface for building Config.
type ConfigBuilder struct {
	config Config
	errs   []error
}

// NewConfigBuilder creates a new ConfigBuilder with editor defaults: a
// white background, neutral adjustments and every effect disabled.
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{
		config: defaults(),
	}
}

func defaults() Config {
	return Config{
		MaxWidth:   400,
		MaxHeight:  400,
		Effects:    effects.DefaultImageEffects(),
		Background: effects.DefaultBackground(),
		Layers:     pipeline.DefaultLayerVisibility(),
		Format:     ports.FormatPNG,
		Quality:    JPEGQuality(QualityMedium),
	}
}

// Build returns the final Config, applying validation and constraints.
// It fails when a builder step was given an unknown preset or color.
func (b *ConfigBuilder) Build() (Config, error) {
	cfg := b.config
	cfg.Background = cfg.Background.Clone()

	// Enforce a canvas of at least one pixel
	if cfg.MaxWidth < 1 {
		cfg.MaxWidth = 1
	}
	if cfg.MaxHeight < 1 {
		cfg.MaxHeight = 1
	}

	// Clamp JPEG quality
	if cfg.Quality < 1 {
		cfg.Quality = 1
	}
	if cfg.Quality > 100 {
		cfg.Quality = 100
	}

	return cfg, errors.Join(b.errs...)
}

// WithMaxCanvas sets the box the canvas is fitted into.
func (b *ConfigBuilder) WithMaxCanvas(width, height int) *ConfigBuilder {
	b.config.MaxWidth = width
	b.config.MaxHeight = height
	return b
}

// WithEffects replaces the image effects.
func (b *ConfigBuilder) WithEffects(e effects.ImageEffects) *ConfigBuilder {
	b.config.Effects = e
	return b
}

// WithShadow enables a shadow of the given kind with picker defaults.
func (b *ConfigBuilder) WithShadow(kind effects.ShadowKind) *ConfigBuilder {
	b.config.Effects.Shadow = effects.ShadowPreset(kind)
	return b
}

// WithOutline sets the outline and enables it.
func (b *ConfigBuilder) WithOutline(o effects.Outline) *ConfigBuilder {
	o.Enabled = true
	b.config.Effects.Outline = o
	return b
}

// WithGlow sets the glow and enables it.
func (b *ConfigBuilder) WithGlow(g effects.Glow) *ConfigBuilder {
	g.Enabled = true
	b.config.Effects.Glow = g
	return b
}

// WithPreset applies a named filter preset to the current effects.
func (b *ConfigBuilder) WithPreset(name string) *ConfigBuilder {
	e, err := presets.Apply(name, b.config.Effects)
	if err != nil {
		b.errs = append(b.errs, err)
		return b
	}
	b.config.Effects = e
	return b
}

// WithBackground replaces the background.
func (b *ConfigBuilder) WithBackground(bg effects.BackgroundData) *ConfigBuilder {
	b.config.Background = bg.Clone()
	return b
}

// WithBackgroundColor sets a solid background color (hex or CSS name).
func (b *ConfigBuilder) WithBackgroundColor(c string) *ConfigBuilder {
	if _, ok := effects.ResolveColor(c, 1); !ok {
		b.errs = append(b.errs, fmt.Errorf("invalid background color %q", c))
		return b
	}
	b.config.Background = effects.BackgroundData{Type: effects.BackgroundColor, Color: c}
	return b
}

// WithLayers sets which of the background and image layers are drawn.
func (b *ConfigBuilder) WithLayers(background, image bool) *ConfigBuilder {
	b.config.Layers = pipeline.LayerVisibility{Background: background, Image: image}
	return b
}

// WithSeed sets the jitter seed for vintage and artistic outlines.
func (b *ConfigBuilder) WithSeed(seed int64) *ConfigBuilder {
	b.config.Seed = seed
	return b
}

// WithFormat sets the output format.
func (b *ConfigBuilder) WithFormat(format ports.ImageFormat) *ConfigBuilder {
	b.config.Format = format
	return b
}

// WithQuality sets the JPEG quality (1-100).
func (b *ConfigBuilder) WithQuality(quality int) *ConfigBuilder {
	b.config.Quality = quality
	return b
}

// WithQualityPreset applies a quality preset (low, medium, high).
func (b *ConfigBuilder) WithQualityPreset(preset QualityPreset) *ConfigBuilder {
	b.config.Quality = JPEGQuality(preset)
	return b
}

// ToOrchestratorConfig converts Config to orchestrator.Config.
func (c Config) ToOrchestratorConfig(source, outputPath string) orchestrator.Config {
	oc := orchestrator.DefaultConfig()

	oc.SourcePath = source
	oc.OutputPath = outputPath

	oc.MaxWidth = c.MaxWidth
	oc.MaxHeight = c.MaxHeight

	oc.Effects = c.Effects
	oc.Background = c.Background.Clone()
	oc.Layers = c.Layers
	oc.Seed = c.Seed

	oc.Format = c.Format
	oc.Quality = c.Quality

	return oc
}
