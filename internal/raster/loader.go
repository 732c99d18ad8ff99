package raster

import (
	"fmt"
	"os"
	"sync"
)

// ImageCache provides thread-safe caching of decoded rasters to avoid
// redundant disk reads.
//
// Cached rasters are shared between callers. This is safe because no
// transform writes into its input buffer; every operation allocates its own
// output.
//
// # Memory Management
//
// Cached images remain in memory until explicitly removed via Evict() or
// Clear(). Long-running processes handling many images should evict them
// once they are done.
//
// # Example Usage
//
//	cache := raster.NewImageCache()
//	img, err := cache.Load("/path/to/image.png")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	cache.Evict("/path/to/image.png")
type ImageCache struct {
	mu      sync.RWMutex
	images  map[string]Image
	formats map[string]string
}

// NewImageCache creates and initializes a new empty image cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images:  make(map[string]Image),
		formats: make(map[string]string),
	}
}

// Load retrieves a raster from the cache or decodes it from disk.
//
// The image is cached using the exact path string provided. Different paths
// to the same file (e.g., relative vs absolute) result in separate entries.
//
// # Errors
//
// Every failure, including a missing file, is a *DecodeError.
func (c *ImageCache) Load(path string) (Image, error) {
	c.mu.RLock()
	if img, ok := c.images[path]; ok {
		c.mu.RUnlock()
		return img, nil
	}
	c.mu.RUnlock()

	img, format, err := DecodeFile(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.images[path] = img
	c.formats[path] = format
	c.mu.Unlock()

	return img, nil
}

// Format returns the decoder format of a cached image, or "" if the path has
// not been loaded.
func (c *ImageCache) Format(path string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.formats[path]
}

// Clear removes all images from the cache.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]Image)
	c.formats = make(map[string]string)
	c.mu.Unlock()
}

// Evict removes a specific image from the cache by its path. Unknown paths
// are ignored.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	delete(c.formats, path)
	c.mu.Unlock()
}

// Len returns the number of cached images.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

// ImageInfo contains metadata about a loaded image file.
type ImageInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Channels is 1 for grayscale sources and 3 for everything else.
	Channels int `json:"channels"`

	// Format is the format reported by the decoder, e.g. "png" or "jpeg".
	Format string `json:"format"`

	// FileSizeBytes is the size of the image file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadImageInfo loads an image through the cache and describes it.
func LoadImageInfo(cache *ImageCache, path string) (*ImageInfo, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	return &ImageInfo{
		Width:         img.Width(),
		Height:        img.Height(),
		Channels:      img.Channels(),
		Format:        cache.Format(path),
		FileSizeBytes: stat.Size(),
	}, nil
}
