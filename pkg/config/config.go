// Package config provides configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/user/canvasfx/pkg/effects"
	"github.com/user/canvasfx/pkg/orchestrator"
	"github.com/user/canvasfx/pkg/pipeline"
	"github.com/user/canvasfx/pkg/ports"
)

// Config represents the full configuration for canvasfx.
type Config struct {
	// Output
	OutputPath string `yaml:"output"`
	Format     string `yaml:"format"`
	Quality    int    `yaml:"quality"`

	// Layout
	MaxWidth  int `yaml:"max_width"`
	MaxHeight int `yaml:"max_height"`

	// Look
	EffectsPath     string                   `yaml:"effects"`
	BackgroundPath  string                   `yaml:"background"`
	Preset          string                   `yaml:"preset"`
	BackgroundColor string                   `yaml:"background_color"`
	Layers          pipeline.LayerVisibility `yaml:"layers"`
	Seed            int64                    `yaml:"seed"`

	// Background images
	BackgroundTimeoutSec int `yaml:"background_timeout_sec"`

	// Templates
	TemplateDir string `yaml:"template_dir"`

	// Logging
	LogLevel string `yaml:"log_level"`

	// Debug
	Debug    bool   `yaml:"debug"`
	DebugDir string `yaml:"debug_dir"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		// Output
		Format:  "png",
		Quality: 90,

		// Layout
		MaxWidth:  400,
		MaxHeight: 400,

		// Look
		Layers: pipeline.DefaultLayerVisibility(),

		BackgroundTimeoutSec: 30,

		TemplateDir: "./templates",
		LogLevel:    "info",
		DebugDir:    "./debug",
	}
}

// LoadFromFile loads configuration from a YAML file. Keys missing from the
// file keep their default values.
func LoadFromFile(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	return cfg, nil
}

// LookupFunc reads an environment variable.
type LookupFunc func(key string) (string, bool)

// Environ returns a lookup over the process environment, falling back to
// the variables of a dotenv file. A missing file is not an error.
func Environ(dotenvPath string) (LookupFunc, error) {
	vars, err := godotenv.Read(dotenvPath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read %s: %w", dotenvPath, err)
		}
		vars = map[string]string{}
	}
	return func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := vars[key]
		return v, ok
	}, nil
}

// ApplyEnv overrides fields from CANVASFX_* variables.
func (c Config) ApplyEnv(lookup LookupFunc) (Config, error) {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) error {
		v, ok := lookup(key)
		if !ok || v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = n
		return nil
	}

	str("CANVASFX_FORMAT", &c.Format)
	str("CANVASFX_LOG_LEVEL", &c.LogLevel)
	str("CANVASFX_TEMPLATE_DIR", &c.TemplateDir)
	str("CANVASFX_DEBUG_DIR", &c.DebugDir)
	for key, dst := range map[string]*int{
		"CANVASFX_MAX_WIDTH":  &c.MaxWidth,
		"CANVASFX_MAX_HEIGHT": &c.MaxHeight,
		"CANVASFX_QUALITY":    &c.Quality,
	} {
		if err := num(key, dst); err != nil {
			return c, err
		}
	}
	return c, nil
}

// ParseColor parses a hex color string (with or without '#') or a CSS
// color name.
func ParseColor(s string) (color.Color, error) {
	c, ok := effects.ResolveColor(s, 1)
	if !ok {
		return color.Black, fmt.Errorf("invalid color %q", s)
	}
	return c, nil
}

// LoadDocuments reads the effects and background documents named by the
// config. Unset paths yield the defaults. A background color set in the
// config replaces the background document.
func (c Config) LoadDocuments(fsys ports.FileSystem) (effects.ImageEffects, effects.BackgroundData, error) {
	fx := effects.DefaultImageEffects()
	bg := effects.DefaultBackground()

	if c.EffectsPath != "" {
		data, err := fsys.ReadFile(c.EffectsPath)
		if err != nil {
			return fx, bg, fmt.Errorf("read effects: %w", err)
		}
		if fx, err = effects.LoadEffects(data); err != nil {
			return fx, bg, fmt.Errorf("effects %s: %w", c.EffectsPath, err)
		}
	}

	if c.BackgroundPath != "" {
		data, err := fsys.ReadFile(c.BackgroundPath)
		if err != nil {
			return fx, bg, fmt.Errorf("read background: %w", err)
		}
		if bg, err = effects.LoadBackground(data); err != nil {
			return fx, bg, fmt.Errorf("background %s: %w", c.BackgroundPath, err)
		}
	}

	if c.BackgroundColor != "" {
		if _, err := ParseColor(c.BackgroundColor); err != nil {
			return fx, bg, err
		}
		bg = effects.BackgroundData{Type: effects.BackgroundColor, Color: c.BackgroundColor}
	}

	return fx, bg, nil
}

// ToOrchestratorConfig converts Config to orchestrator.Config.
func (c Config) ToOrchestratorConfig(source string, fx effects.ImageEffects, bg effects.BackgroundData) orchestrator.Config {
	return orchestrator.Config{
		SourcePath: source,
		OutputPath: c.OutputPath,

		MaxWidth:  c.MaxWidth,
		MaxHeight: c.MaxHeight,

		Effects:    fx,
		Background: bg,
		Layers:     c.Layers,
		Seed:       c.Seed,

		Format:  ports.ParseImageFormat(c.Format),
		Quality: c.Quality,

		BackgroundTimeout: time.Duration(c.BackgroundTimeoutSec) * time.Second,
	}
}
