package transform

import (
	"math"

	"github.com/ironsheep/picwizard/internal/raster"
)

// Non-local means window sizes. They are fixed, not tunable per call.
const (
	TemplateWindow = 7
	SearchWindow   = 21
)

// NoiseReduction denoises img with non-local means of filter strength h,
// applied alike to luminance and color. Larger h removes more noise along
// with more detail; h = 0 returns an unchanged copy.
//
// The backend is selected at build time: pure Go by default, OpenCV's
// fastNlMeansDenoising family with the opencv build tag (see
// DenoiseBackend).
func NoiseReduction(img raster.Image, h float64) (raster.Image, error) {
	if h <= 0 {
		return raster.Clone(img), nil
	}
	return denoise(img, h)
}

// nlMeans filters the planes of one image jointly. For every pixel p and
// every candidate q in the search window, the patch distance is the mean
// squared difference over the template window and over all planes; q
// contributes with weight exp(-distance/h^2).
//
// Patch distances for one offset are box sums over a single difference
// image, computed through an integral image, so the cost per pixel does
// not depend on the template size.
func nlMeans(planes [][]float64, w, h int, strength float64) [][]float64 {
	n := w * h
	tr := TemplateWindow / 2
	sr := SearchWindow / 2
	h2 := strength * strength * float64(len(planes))

	sums := make([][]float64, len(planes))
	for c := range sums {
		sums[c] = make([]float64, n)
	}
	weights := make([]float64, n)
	diff := make([]float64, n)
	integral := make([]float64, (w+1)*(h+1))

	for dy := -sr; dy <= sr; dy++ {
		for dx := -sr; dx <= sr; dx++ {
			for y := 0; y < h; y++ {
				qy := clampIndex(y+dy, h)
				for x := 0; x < w; x++ {
					q := qy*w + clampIndex(x+dx, w)
					var d float64
					for _, p := range planes {
						e := p[y*w+x] - p[q]
						d += e * e
					}
					diff[y*w+x] = d
				}
			}
			buildIntegral(integral, diff, w, h)

			for y := 0; y < h; y++ {
				y0, y1 := max(y-tr, 0), min(y+tr+1, h)
				qy := clampIndex(y+dy, h)
				for x := 0; x < w; x++ {
					x0, x1 := max(x-tr, 0), min(x+tr+1, w)
					area := float64((x1 - x0) * (y1 - y0))
					box := integral[y1*(w+1)+x1] - integral[y0*(w+1)+x1] -
						integral[y1*(w+1)+x0] + integral[y0*(w+1)+x0]
					wt := math.Exp(-box / (area * h2))

					i, q := y*w+x, qy*w+clampIndex(x+dx, w)
					weights[i] += wt
					for c, p := range planes {
						sums[c][i] += wt * p[q]
					}
				}
			}
		}
	}

	for c := range sums {
		for i := range sums[c] {
			sums[c][i] /= weights[i]
		}
	}
	return sums
}

func buildIntegral(integral, src []float64, w, h int) {
	stride := w + 1
	for y := 0; y < h; y++ {
		var row float64
		for x := 0; x < w; x++ {
			row += src[y*w+x]
			integral[(y+1)*stride+x+1] = integral[y*stride+x+1] + row
		}
	}
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
