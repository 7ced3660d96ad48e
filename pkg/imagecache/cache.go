// Package imagecache keeps decoded background images resident and loads
// missing ones in the background.
package imagecache

import (
	"context"
	"errors"
	"fmt"
	"image"
	"regexp"
	"sync"

	"github.com/user/canvasfx/pkg/ports"
)

// ErrUnsupportedURL is recorded for URLs no loader can fetch.
var ErrUnsupportedURL = errors.New("unsupported image URL")

var schemePattern = regexp.MustCompile(`^([a-zA-Z][a-zA-Z0-9+.-]+):`)

// Supported reports whether url is a data URI, a file or http(s) URL, or a
// plain path.
func Supported(url string) bool {
	if url == "" {
		return false
	}
	m := schemePattern.FindStringSubmatch(url)
	if m == nil {
		return true
	}
	switch m[1] {
	case "data", "file", "http", "https":
		return true
	}
	return false
}

// entry is one URL's load state. done is closed once img or err is set;
// settled is closed after the OnLoad callback has run as well.
type entry struct {
	img     image.Image
	err     error
	done    chan struct{}
	settled chan struct{}
}

// Cache deduplicates image loads. Get never blocks: a missing image starts
// one background load and reports a miss; the OnLoad callback fires when
// it becomes resident. Failed loads are remembered and never retried.
//
// Cache is safe for concurrent use.
type Cache struct {
	ctx    context.Context
	loader ports.ImageLoader
	logger ports.Logger

	mu      sync.Mutex
	entries map[string]*entry
	onLoad  func(url string)
}

// New creates a cache. Loads run under ctx and stop when it is canceled.
func New(ctx context.Context, loader ports.ImageLoader, logger ports.Logger) *Cache {
	return &Cache{
		ctx:     ctx,
		loader:  loader,
		logger:  logger.WithComponent("imagecache"),
		entries: make(map[string]*entry),
	}
}

// OnLoad registers fn to be called after an image becomes resident. fn runs
// on the loading goroutine and must not block.
func (c *Cache) OnLoad(fn func(url string)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onLoad = fn
}

// Get returns the image for url if it is resident.
func (c *Cache) Get(url string) (image.Image, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[url]; ok {
		select {
		case <-e.done:
			return e.img, e.img != nil
		default:
			return nil, false
		}
	}

	e := &entry{done: make(chan struct{}), settled: make(chan struct{})}
	c.entries[url] = e

	if !Supported(url) {
		e.err = fmt.Errorf("%w: %q", ErrUnsupportedURL, url)
		close(e.done)
		close(e.settled)
		c.logger.Warn("Failed to load background image %s: %s", url, e.err)
		return nil, false
	}

	go c.load(url, e)
	return nil, false
}

// Err returns the recorded failure for url, or nil if it loaded, is still
// loading, or was never requested.
func (c *Cache) Err(url string) error {
	c.mu.Lock()
	e, ok := c.entries[url]
	c.mu.Unlock()
	if !ok {
		return nil
	}
	select {
	case <-e.done:
		return e.err
	default:
		return nil
	}
}

// Wait blocks until every load started before the call has finished,
// OnLoad callback included, or ctx is done. Loads started by a concurrent
// Get may or may not be waited for.
func (c *Cache) Wait(ctx context.Context) error {
	c.mu.Lock()
	pending := make([]chan struct{}, 0, len(c.entries))
	for _, e := range c.entries {
		pending = append(pending, e.settled)
	}
	c.mu.Unlock()

	for _, settled := range pending {
		select {
		case <-settled:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (c *Cache) load(url string, e *entry) {
	defer close(e.settled)

	c.logger.Debug("Loading background image %s", url)
	img, err := c.loader.Load(c.ctx, url)
	if err == nil && img == nil {
		err = fmt.Errorf("loader returned no image")
	}

	c.mu.Lock()
	if err != nil {
		e.err = err
	} else {
		e.img = img
	}
	close(e.done)
	onLoad := c.onLoad
	c.mu.Unlock()

	if err != nil {
		c.logger.Warn("Failed to load background image %s: %s", url, err)
		return
	}
	c.logger.Debug("Background image %s loaded", url)
	if onLoad != nil {
		onLoad(url)
	}
}

var _ ports.ImageCache = (*Cache)(nil)
