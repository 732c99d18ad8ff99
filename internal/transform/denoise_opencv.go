//go:build opencv

package transform

import (
	"fmt"

	"gocv.io/x/gocv"

	"github.com/ironsheep/picwizard/internal/raster"
)

// DenoiseBackend names the NoiseReduction implementation compiled in.
const DenoiseBackend = "opencv"

func denoise(img raster.Image, h float64) (raster.Image, error) {
	w, ht := img.Width(), img.Height()
	matType := gocv.MatTypeCV8UC1
	if img.Channels() == 3 {
		matType = gocv.MatTypeCV8UC3
	}

	src, err := gocv.NewMatFromBytes(ht, w, matType, raster.PixData(img))
	if err != nil {
		return nil, fmt.Errorf("failed to wrap image for OpenCV: %w", err)
	}
	defer src.Close()

	dst := gocv.NewMat()
	defer dst.Close()

	if img.Channels() == 3 {
		gocv.FastNlMeansDenoisingColoredWithParams(src, &dst, float32(h), float32(h), TemplateWindow, SearchWindow)
	} else {
		gocv.FastNlMeansDenoisingWithParams(src, &dst, float32(h), TemplateWindow, SearchWindow)
	}
	if dst.Empty() {
		return nil, fmt.Errorf("OpenCV returned an empty result")
	}

	out := raster.NewLike(img, w, ht)
	copy(raster.PixData(out), dst.ToBytes())
	return out, nil
}
