package transform

import (
	"testing"

	"github.com/ironsheep/picwizard/internal/raster"
)

func solidGray(w, h int, v uint8) *raster.Gray {
	img := raster.NewGray(w, h)
	for i := range img.Pix {
		img.Pix[i] = v
	}
	return img
}

func solidBGR(w, h int, b, g, r uint8) *raster.BGR {
	img := raster.NewBGR(w, h)
	for i := 0; i < len(img.Pix); i += 3 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2] = b, g, r
	}
	return img
}

// patternGray fills an image with a deterministic spread of intensities.
func patternGray(w, h int) *raster.Gray {
	img := raster.NewGray(w, h)
	for i := range img.Pix {
		img.Pix[i] = uint8((i*37 + i/w*11) % 256)
	}
	return img
}

func patternBGR(w, h int) *raster.BGR {
	img := raster.NewBGR(w, h)
	for i := range img.Pix {
		img.Pix[i] = uint8((i*53 + 17) % 256)
	}
	return img
}

func assertSameSize(t *testing.T, got, want raster.Image) {
	t.Helper()
	if got.Width() != want.Width() || got.Height() != want.Height() || got.Channels() != want.Channels() {
		t.Fatalf("shape = %dx%dx%d, want %dx%dx%d",
			got.Width(), got.Height(), got.Channels(), want.Width(), want.Height(), want.Channels())
	}
}

func assertPixEqual(t *testing.T, got, want raster.Image) {
	t.Helper()
	assertSameSize(t, got, want)
	g, w := raster.PixData(got), raster.PixData(want)
	for i := range g {
		if g[i] != w[i] {
			t.Fatalf("sample %d = %d, want %d", i, g[i], w[i])
		}
	}
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
