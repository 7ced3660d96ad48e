package mocks

import (
	"image"
	"sync"

	"github.com/user/canvasfx/pkg/ports"
)

// DebugSink is a mock implementation of ports.DebugSink.
type DebugSink struct {
	mu sync.RWMutex

	enabled bool

	ParamsJSON []byte
	LayerNames []string
	Layers     map[string]image.Image
}

// NewDebugSink creates a new mock DebugSink.
func NewDebugSink(enabled bool) *DebugSink {
	return &DebugSink{
		enabled: enabled,
		Layers:  make(map[string]image.Image),
	}
}

func (m *DebugSink) Enabled() bool {
	return m.enabled
}

func (m *DebugSink) SaveParamsJSON(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ParamsJSON = data
	return nil
}

func (m *DebugSink) SaveLayer(index int, name string, img image.Image) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LayerNames = append(m.LayerNames, name)
	m.Layers[name] = img
	return nil
}

var _ ports.DebugSink = (*DebugSink)(nil)

// NullSink is a no-op implementation of ports.DebugSink.
type NullSink struct{}

func (m *NullSink) Enabled() bool { return false }
func (m *NullSink) SaveParamsJSON(data []byte) error { return nil }
func (m *NullSink) SaveLayer(index int, name string, img image.Image) error { return nil }

var _ ports.DebugSink = (*NullSink)(nil)
