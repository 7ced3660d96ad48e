// Package imageloader provides an image loader for data URIs, local files
// and http(s) URLs.
package imageloader

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/vincent-petithory/dataurl"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/user/canvasfx/pkg/ports"
)

// DefaultMaxBytes caps the size of a downloaded image.
const DefaultMaxBytes = 32 << 20

// Loader implements ports.ImageLoader.
type Loader struct {
	fs       ports.FileSystem
	client   *http.Client
	maxBytes int64
}

// New creates a loader that reads local files through fs.
func New(fs ports.FileSystem) *Loader {
	return &Loader{
		fs:       fs,
		client:   &http.Client{Timeout: 30 * time.Second},
		maxBytes: DefaultMaxBytes,
	}
}

// WithHTTPClient replaces the client used for http(s) URLs.
func (l *Loader) WithHTTPClient(c *http.Client) *Loader {
	l.client = c
	return l
}

// Load fetches and decodes the image at locator.
func (l *Loader) Load(ctx context.Context, locator string) (image.Image, error) {
	data, err := l.fetch(ctx, locator)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

func (l *Loader) fetch(ctx context.Context, locator string) ([]byte, error) {
	switch {
	case strings.HasPrefix(locator, "data:"):
		du, err := dataurl.DecodeString(locator)
		if err != nil {
			return nil, fmt.Errorf("parse data URI: %w", err)
		}
		return du.Data, nil
	case strings.HasPrefix(locator, "http://"), strings.HasPrefix(locator, "https://"):
		return l.download(ctx, locator)
	case strings.HasPrefix(locator, "file://"):
		u, err := url.Parse(locator)
		if err != nil {
			return nil, fmt.Errorf("parse file URL: %w", err)
		}
		return l.readFile(u.Path)
	default:
		return l.readFile(locator)
	}
}

func (l *Loader) readFile(path string) ([]byte, error) {
	if l.fs == nil {
		return nil, fmt.Errorf("no file system for %s", path)
	}
	data, err := l.fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

func (l *Loader) download(ctx context.Context, locator string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, locator, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", locator, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d", locator, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, l.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(data)) > l.maxBytes {
		return nil, fmt.Errorf("fetch %s: image exceeds %d bytes", locator, l.maxBytes)
	}
	return data, nil
}

// Ensure Loader implements ports.ImageLoader
var _ ports.ImageLoader = (*Loader)(nil)
