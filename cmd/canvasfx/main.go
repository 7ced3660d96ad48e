// Package main provides the CLI entry point for canvasfx.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/ideamans/go-l10n"

	"github.com/user/canvasfx/pkg/adapters/filesink"
	"github.com/user/canvasfx/pkg/adapters/ggrenderer"
	"github.com/user/canvasfx/pkg/adapters/imageloader"
	"github.com/user/canvasfx/pkg/adapters/logger"
	"github.com/user/canvasfx/pkg/adapters/nullsink"
	"github.com/user/canvasfx/pkg/adapters/osfilesystem"
	"github.com/user/canvasfx/pkg/config"
	"github.com/user/canvasfx/pkg/effects"
	"github.com/user/canvasfx/pkg/imagecache"
	"github.com/user/canvasfx/pkg/orchestrator"
	"github.com/user/canvasfx/pkg/ports"
	"github.com/user/canvasfx/pkg/presets"
	"github.com/user/canvasfx/pkg/stages/composite"
	"github.com/user/canvasfx/pkg/stages/encode"
	"github.com/user/canvasfx/pkg/stages/layout"
	"github.com/user/canvasfx/pkg/summarizer"
	"github.com/user/canvasfx/pkg/template"
)

// CLI defines the command-line interface with subcommands.
type CLI struct {
	Render   RenderCmd   `cmd:"" help:"Render an image with effects and a background."`
	Presets  PresetsCmd  `cmd:"" help:"List the built-in effect presets."`
	Template TemplateCmd `cmd:"" help:"Manage saved templates."`
	Version  VersionCmd  `cmd:"" help:"Show version information."`
}

// RenderCmd defines the render subcommand.
type RenderCmd struct {
	// Required arguments
	Image  string `arg:"" help:"Source image (file path, URL or data URI)."`
	Output string `short:"o" help:"Output image file path."`

	// Look
	Effects      string  `short:"e" help:"Effects document (JSON or YAML)."`
	Background   string  `short:"b" help:"Background document (JSON or YAML)."`
	Preset       string  `short:"p" help:"Effect preset applied on top of the effects."`
	Template     string  `short:"t" help:"ID of a saved template to apply."`
	Store        string  `help:"Template store directory (default: ./templates)."`
	BgColor      *string `help:"Solid background color (hex or CSS name)."`
	NoBackground bool    `help:"Hide the background layer."`
	NoImage      bool    `help:"Hide the image layer."`
	Seed         *int64  `help:"Seed for the jittered outline kinds."`

	// Canvas and output
	MaxWidth  *int   `short:"W" help:"Maximum canvas width (default: 400)."`
	MaxHeight *int   `short:"H" help:"Maximum canvas height (default: 400)."`
	Format    string `short:"f" help:"Output format (png or jpeg)."`
	Quality   *int   `short:"q" help:"JPEG quality (1-100)."`

	// Configuration
	Config  string `short:"c" help:"YAML config file."`
	EnvFile string `default:".env" help:"Dotenv file with CANVASFX_* overrides."`
	Summary string `short:"s" help:"Output execution summary to file (Markdown format)."`

	// Debug options
	Debug    bool   `short:"d" help:"Save each layer to the debug directory."`
	DebugDir string `help:"Directory for debug output."`

	// Logging options
	LogLevel string `short:"l" help:"Log level (debug, info, warn, error)."`
	Quiet    bool   `short:"Q" help:"Suppress all log output."`
}

// VersionCmd shows version information.
type VersionCmd struct{}

var version = "dev"

func main() {
	cli := CLI{}

	ctx := kong.Parse(&cli,
		kong.Name("canvasfx"),
		kong.Description(l10n.T("Compose images with shadows, glows, outlines and backgrounds.")),
		kong.UsageOnError(),
	)

	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}

// Validate checks the enumerated flags before anything runs.
func (cmd *RenderCmd) Validate() error {
	switch cmd.Format {
	case "", "png", "jpeg", "jpg":
	default:
		return fmt.Errorf("%s", l10n.F("Unknown format %q", cmd.Format))
	}
	switch cmd.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%s", l10n.F("Unknown log level %q", cmd.LogLevel))
	}
	return nil
}

// Run executes the render command.
func (cmd *RenderCmd) Run() error {
	cfg, err := loadConfig(cmd.Config, cmd.EnvFile)
	if err != nil {
		return err
	}
	cmd.applyFlags(&cfg)
	if cfg.OutputPath == "" {
		return fmt.Errorf("%s", l10n.T("Output path is required (-o or output in the config file)"))
	}

	// Create logger
	var log ports.Logger
	if cmd.Quiet {
		log = logger.NewNoop()
	} else {
		log = logger.NewConsole(ports.ParseLogLevel(cfg.LogLevel))
	}

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			log.Warn(l10n.T("Interrupted, shutting down..."))
			cancel()
		case <-ctx.Done():
		}
	}()

	// Create adapters
	fs := osfilesystem.New()
	renderer := ggrenderer.New()
	loader := imageloader.New(fs)
	cache := imagecache.New(ctx, loader, log)

	fx, bg, templateName, err := resolveLook(cfg, cmd.Template, fs)
	if err != nil {
		return err
	}

	// Create debug sink
	var sink ports.DebugSink
	if cfg.Debug {
		if err := fs.MkdirAll(cfg.DebugDir); err != nil {
			return fmt.Errorf("create debug directory: %w", err)
		}
		sink = filesink.New(cfg.DebugDir, fs, renderer)
	} else {
		sink = nullsink.New()
	}

	// Create stages
	layoutStage := layout.NewStage()
	compositeStage := composite.NewStage(renderer, cache, sink, log, runtime.NumCPU())
	encodeStage := encode.NewStage(renderer, log)

	// Create orchestrator
	orch := orchestrator.New(
		layoutStage,
		compositeStage,
		encodeStage,
		loader,
		cache,
		fs,
		log,
	)

	orchConfig := cfg.ToOrchestratorConfig(cmd.Image, fx, bg)

	log.Info(l10n.F("Rendering %s", cmd.Image))

	result, err := orch.Run(ctx, orchConfig)
	if err != nil {
		return err
	}

	log.Info(l10n.F("Output saved to %s", cfg.OutputPath))

	if cmd.Summary != "" {
		summary := summarizer.NewBuilder().
			WithSource(result.SourcePath, result.SourceWidth, result.SourceHeight).
			WithCanvas(result.CanvasWidth, result.CanvasHeight).
			WithLook(cfg.Preset, templateName, fx, bg).
			WithLayers(result.Drawn, result.Skipped, result.Pending).
			WithOutput(summarizer.OutputInfo{
				Path:     result.OutputPath,
				Format:   result.Format.String(),
				FileSize: result.FileSize,
				Duration: result.Duration,
			}).
			Build()

		formatter := summarizer.NewMarkdownFormatter(
			summarizer.WithTranslator(l10n.T),
			summarizer.WithVersion(version),
		)
		if err := summarizer.NewWriter(formatter, fs).Write(cmd.Summary, summary); err != nil {
			log.Warn(l10n.F("Failed to write summary: %s", err))
		} else {
			log.Info(l10n.F("Summary saved to %s", cmd.Summary))
		}
	}

	return nil
}

// applyFlags overrides config values with the flags that were given.
func (cmd *RenderCmd) applyFlags(cfg *config.Config) {
	if cmd.Output != "" {
		cfg.OutputPath = cmd.Output
	}
	if cmd.Effects != "" {
		cfg.EffectsPath = cmd.Effects
	}
	if cmd.Background != "" {
		cfg.BackgroundPath = cmd.Background
	}
	if cmd.Preset != "" {
		cfg.Preset = cmd.Preset
	}
	if cmd.Store != "" {
		cfg.TemplateDir = cmd.Store
	}
	if cmd.BgColor != nil {
		cfg.BackgroundColor = *cmd.BgColor
	}
	if cmd.NoBackground {
		cfg.Layers.Background = false
	}
	if cmd.NoImage {
		cfg.Layers.Image = false
	}
	if cmd.Seed != nil {
		cfg.Seed = *cmd.Seed
	}
	if cmd.MaxWidth != nil {
		cfg.MaxWidth = *cmd.MaxWidth
	}
	if cmd.MaxHeight != nil {
		cfg.MaxHeight = *cmd.MaxHeight
	}
	if cmd.Format != "" {
		cfg.Format = cmd.Format
	}
	if cmd.Quality != nil {
		cfg.Quality = *cmd.Quality
	}
	if cmd.Debug {
		cfg.Debug = true
	}
	if cmd.DebugDir != "" {
		cfg.DebugDir = cmd.DebugDir
	}
	if cmd.LogLevel != "" {
		cfg.LogLevel = cmd.LogLevel
	}
}

// resolveLook loads the effects and background documents, swaps in the
// saved template when one is named and applies the preset last. A
// background color from the flags or config still wins over the template.
func resolveLook(cfg config.Config, templateID string, fs ports.FileSystem) (effects.ImageEffects, effects.BackgroundData, string, error) {
	fx, bg, err := cfg.LoadDocuments(fs)
	if err != nil {
		return fx, bg, "", err
	}

	var templateName string
	if templateID != "" {
		t, err := template.NewFileStore(fs, cfg.TemplateDir).Get(templateID)
		if err != nil {
			return fx, bg, "", fmt.Errorf("load template %s: %w", templateID, err)
		}
		fx, bg, templateName = t.ImageEffects, t.BackgroundData, t.Name
		if cfg.BackgroundColor != "" {
			bg = effects.BackgroundData{Type: effects.BackgroundColor, Color: cfg.BackgroundColor}
		}
	}

	if cfg.Preset != "" {
		if fx, err = presets.Apply(cfg.Preset, fx); err != nil {
			return fx, bg, templateName, err
		}
	}
	return fx, bg, templateName, nil
}

// loadConfig builds the config from defaults, the optional YAML file and
// the environment, in increasing precedence.
func loadConfig(path, envFile string) (config.Config, error) {
	cfg := config.Defaults()
	if path != "" {
		var err error
		if cfg, err = config.LoadFromFile(path); err != nil {
			return cfg, err
		}
	}

	lookup, err := config.Environ(envFile)
	if err != nil {
		return cfg, err
	}
	return cfg.ApplyEnv(lookup)
}

// Run executes the presets command.
func (cmd *PresetsCmd) Run() error {
	for _, name := range presets.Names() {
		desc, _ := presets.Describe(name)
		fmt.Printf("%-12s %s\n", name, l10n.T(desc))
	}
	return nil
}

// Run executes the version command.
func (cmd *VersionCmd) Run() error {
	fmt.Println(l10n.F("canvasfx version %s", version))
	return nil
}
