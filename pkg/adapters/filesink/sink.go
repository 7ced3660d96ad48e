// Package filesink provides a file-based debug sink implementation.
package filesink

import (
	"fmt"
	"image"
	"path/filepath"

	"github.com/user/canvasfx/pkg/ports"
)

// Sink writes render parameters and per-layer snapshots under a directory:
//
//	<dir>/params.json
//	<dir>/layers/00-background.png, 01-shadow.png, ...
type Sink struct {
	baseDir  string
	fs       ports.FileSystem
	renderer ports.Renderer
}

// New creates a new FileSink.
func New(baseDir string, fs ports.FileSystem, renderer ports.Renderer) *Sink {
	return &Sink{
		baseDir:  baseDir,
		fs:       fs,
		renderer: renderer,
	}
}

// Enabled returns true as this sink saves output.
func (s *Sink) Enabled() bool {
	return true
}

// SaveParamsJSON saves the render parameters as JSON.
func (s *Sink) SaveParamsJSON(data []byte) error {
	return s.fs.WriteFile(filepath.Join(s.baseDir, "params.json"), data)
}

// SaveLayer saves the surface after a layer as PNG.
func (s *Sink) SaveLayer(index int, name string, img image.Image) error {
	dir := filepath.Join(s.baseDir, "layers")
	if err := s.fs.MkdirAll(dir); err != nil {
		return err
	}
	data, err := s.renderer.EncodeImage(img, ports.FormatPNG, 0)
	if err != nil {
		return fmt.Errorf("encode layer %s: %w", name, err)
	}
	return s.fs.WriteFile(filepath.Join(dir, fmt.Sprintf("%02d-%s.png", index, name)), data)
}

// Ensure Sink implements ports.DebugSink
var _ ports.DebugSink = (*Sink)(nil)
