package raster

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// createTestImageFile writes a solid-color PNG and returns its path.
func createTestImageFile(t *testing.T, width, height int, c color.Color) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}

	path := filepath.Join(t.TempDir(), "test-image.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return path
}

func TestImageCache_Load(t *testing.T) {
	cache := NewImageCache()
	imgPath := createTestImageFile(t, 100, 80, color.RGBA{255, 0, 0, 255})

	img1, err := cache.Load(imgPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if img1.Width() != 100 || img1.Height() != 80 {
		t.Errorf("unexpected dimensions: got %dx%d, want 100x80", img1.Width(), img1.Height())
	}
	if img1.Channels() != 3 {
		t.Errorf("Channels: got %d, want 3", img1.Channels())
	}

	// Red must land in the last slot of each BGR triplet.
	b, g, r := img1.(*BGR).BGRAt(10, 10)
	if b != 0 || g != 0 || r != 255 {
		t.Errorf("BGRAt: got (%d,%d,%d), want (0,0,255)", b, g, r)
	}

	img2, err := cache.Load(imgPath)
	if err != nil {
		t.Fatalf("second Load failed: %v", err)
	}
	if img1 != img2 {
		t.Error("second Load did not return cached image")
	}
	if got := cache.Format(imgPath); got != "png" {
		t.Errorf("Format: got %q, want png", got)
	}
}

func TestImageCache_Load_NonExistent(t *testing.T) {
	cache := NewImageCache()
	_, err := cache.Load("/nonexistent/path/to/image.png")
	if !errors.Is(err, ErrDecode) {
		t.Errorf("Load error = %v, want ErrDecode", err)
	}
}

func TestImageCache_Load_InvalidImage(t *testing.T) {
	cache := NewImageCache()
	path := filepath.Join(t.TempDir(), "invalid.png")
	if err := os.WriteFile(path, []byte("not an image"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	_, err := cache.Load(path)
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("Load error = %v, want *DecodeError", err)
	}
	if de.Source != path {
		t.Errorf("Source: got %q, want %q", de.Source, path)
	}
}

func TestImageCache_ClearAndEvict(t *testing.T) {
	cache := NewImageCache()
	p1 := createTestImageFile(t, 10, 10, color.RGBA{0, 255, 0, 255})
	p2 := createTestImageFile(t, 12, 12, color.RGBA{0, 0, 255, 255})

	for _, p := range []string{p1, p2} {
		if _, err := cache.Load(p); err != nil {
			t.Fatalf("Load failed: %v", err)
		}
	}
	if cache.Len() != 2 {
		t.Fatalf("Len: got %d, want 2", cache.Len())
	}

	cache.Evict(p1)
	cache.Evict("/nonexistent/path")
	if cache.Len() != 1 {
		t.Errorf("after Evict: got %d images, want 1", cache.Len())
	}
	if cache.Format(p1) != "" {
		t.Error("Evict did not drop the format entry")
	}

	cache.Clear()
	if cache.Len() != 0 {
		t.Errorf("Clear did not empty cache: %d images remain", cache.Len())
	}
}

func TestImageCache_ConcurrentAccess(t *testing.T) {
	cache := NewImageCache()
	imgPath := createTestImageFile(t, 50, 50, color.RGBA{128, 128, 128, 255})

	var wg sync.WaitGroup
	errs := make(chan error, 50)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := cache.Load(imgPath); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent Load failed: %v", err)
	}
}

func TestLoadImageInfo(t *testing.T) {
	cache := NewImageCache()
	imgPath := createTestImageFile(t, 64, 32, color.RGBA{10, 20, 30, 255})

	info, err := LoadImageInfo(cache, imgPath)
	if err != nil {
		t.Fatalf("LoadImageInfo failed: %v", err)
	}
	if info.Width != 64 || info.Height != 32 {
		t.Errorf("dimensions: got %dx%d, want 64x32", info.Width, info.Height)
	}
	if info.Format != "png" {
		t.Errorf("Format: got %q, want png", info.Format)
	}
	if info.Channels != 3 {
		t.Errorf("Channels: got %d, want 3", info.Channels)
	}
	if info.FileSizeBytes <= 0 {
		t.Errorf("FileSizeBytes: got %d, want > 0", info.FileSizeBytes)
	}
}
