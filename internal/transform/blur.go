package transform

import (
	"image"
	"math"

	"github.com/disintegration/gift"

	"github.com/ironsheep/picwizard/internal/raster"
)

// autoSigma is the standard deviation used for a Gaussian kernel of size k
// when none is given (the same rule OpenCV applies for sigma <= 0).
func autoSigma(k int) float64 {
	return 0.3*(float64(k-1)*0.5-1) + 0.8
}

// oddKernelSize bumps an even size to the next odd one.
func oddKernelSize(k int) int {
	if k%2 == 0 {
		return k + 1
	}
	return k
}

// gaussianKernel builds a normalized k x k Gaussian kernel in row-major order.
func gaussianKernel(k int, sigma float64) []float32 {
	if sigma <= 0 {
		sigma = autoSigma(k)
	}
	half := k / 2
	oneD := make([]float64, k)
	var sum float64
	for i := range oneD {
		d := float64(i - half)
		oneD[i] = math.Exp(-(d * d) / (2 * sigma * sigma))
		sum += oneD[i]
	}
	for i := range oneD {
		oneD[i] /= sum
	}

	kernel := make([]float32, k*k)
	for y := 0; y < k; y++ {
		for x := 0; x < k; x++ {
			kernel[y*k+x] = float32(oneD[y] * oneD[x])
		}
	}
	return kernel
}

// blur convolves img with a k x k Gaussian. k must be odd; sigma <= 0 selects
// autoSigma(k). Borders replicate the nearest edge pixel.
func blur(img raster.Image, k int, sigma float64) raster.Image {
	if k <= 1 {
		return raster.Clone(img)
	}
	g := gift.New(gift.Convolution(gaussianKernel(k, sigma), false, false, false, 0))
	src := raster.ToNRGBA(img)
	dst := image.NewNRGBA(g.Bounds(src.Bounds()))
	g.Draw(dst, src)
	return raster.FromNRGBA(dst, img.Channels())
}

// GaussianBlur smooths img with a radius x radius Gaussian kernel. An even
// radius is incremented to the next odd value and the standard deviation is
// derived from the kernel size.
func GaussianBlur(img raster.Image, radius int) raster.Image {
	return blur(img, oddKernelSize(radius), 0)
}
