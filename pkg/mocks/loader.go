package mocks

import (
	"context"
	"fmt"
	"image"
	"sync"

	"github.com/user/canvasfx/pkg/ports"
)

// ImageLoader is a mock implementation of ports.ImageLoader.
type ImageLoader struct {
	mu    sync.Mutex
	calls map[string]int

	LoadFunc func(ctx context.Context, url string) (image.Image, error)
}

// NewImageLoader creates a new mock ImageLoader.
func NewImageLoader() *ImageLoader {
	return &ImageLoader{calls: make(map[string]int)}
}

func (m *ImageLoader) Load(ctx context.Context, url string) (image.Image, error) {
	m.mu.Lock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[url]++
	m.mu.Unlock()

	if m.LoadFunc != nil {
		return m.LoadFunc(ctx, url)
	}
	return image.NewRGBA(image.Rect(0, 0, 100, 100)), nil
}

// Calls returns how many times url was loaded (for test verification).
func (m *ImageLoader) Calls(url string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[url]
}

var _ ports.ImageLoader = (*ImageLoader)(nil)

// ImageCache is a mock implementation of ports.ImageCache backed by a map.
// URLs missing from the map report as still loading.
type ImageCache struct {
	mu     sync.Mutex
	images map[string]image.Image
	misses map[string]int
}

// NewImageCache creates a new mock ImageCache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images: make(map[string]image.Image),
		misses: make(map[string]int),
	}
}

// Put makes img resident under url.
func (m *ImageCache) Put(url string, img image.Image) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.images[url] = img
}

func (m *ImageCache) Get(url string) (image.Image, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	img, ok := m.images[url]
	if !ok {
		m.misses[url]++
	}
	return img, ok
}

// Misses returns how many lookups of url found nothing (for test verification).
func (m *ImageCache) Misses(url string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.misses[url]
}

var _ ports.ImageCache = (*ImageCache)(nil)

// ErrLoad is returned by loaders built with FailingLoader.
var ErrLoad = fmt.Errorf("mock load failure")

// FailingLoader returns a LoadFunc that always fails with ErrLoad.
func FailingLoader() func(ctx context.Context, url string) (image.Image, error) {
	return func(ctx context.Context, url string) (image.Image, error) {
		return nil, ErrLoad
	}
}
