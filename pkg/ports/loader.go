package ports

import (
	"context"
	"image"
)

// ImageLoader fetches and decodes an image from a locator.
// Supported locators are data URIs, file paths (optionally file://) and http(s) URLs.
type ImageLoader interface {
	Load(ctx context.Context, url string) (image.Image, error)
}

// ImageCache hands out images that are already resident and loads the
// rest in the background.
type ImageCache interface {
	// Get returns the decoded image and true when it has finished loading.
	// Otherwise it makes sure a load is in flight and returns false.
	Get(url string) (image.Image, bool)
}
