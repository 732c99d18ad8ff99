package transform

import (
	"fmt"
	"math"

	"github.com/ironsheep/picwizard/internal/raster"
)

// Edge detection methods accepted by EdgeDetection.
const (
	EdgeSobel = "sobel"
	EdgeCanny = "canny"
)

// SobelColorThreshold is the gradient magnitude below which Sobel zeroes a
// pixel of a color input.
const SobelColorThreshold = 50

// EdgeDetection finds intensity edges on the grayscale version of img.
//
// Parameters:
//   - method: EdgeSobel or EdgeCanny.
//   - threshold1, threshold2: Canny hysteresis thresholds on the raw Sobel
//     magnitude scale. Their order does not matter; the smaller is the weak
//     threshold. Sobel ignores them.
//
// Returns, for grayscale input, the edge map itself: the gradient magnitude
// (saturated at 255) for Sobel, or a binary 0/255 map for Canny. For color
// input the original pixel is kept where an edge is found and every other
// pixel is set to black.
//
// # Algorithm
//
//  1. Gradients: 3x3 Sobel operators, borders replicate the nearest pixel.
//     magnitude = sqrt(Gx² + Gy²)
//
//  2. Sobel: an edge is any pixel with magnitude >= SobelColorThreshold.
//
//  3. Canny: non-maximum suppression along the gradient direction thins
//     ridges to one pixel, then hysteresis keeps every pixel above the high
//     threshold plus every pixel above the low threshold that is 8-connected
//     to one of those.
//
// A flat image has zero gradient everywhere and therefore no edges.
func EdgeDetection(img raster.Image, method string, threshold1, threshold2 float64) (raster.Image, error) {
	gray := raster.ToGray(img)
	w, h := gray.Width(), gray.Height()
	mag, dir := sobelGradients(gray)

	var edges *raster.Gray
	switch method {
	case EdgeSobel:
		edges = raster.NewGray(w, h)
		for i, m := range mag {
			edges.Pix[i] = raster.Clamp8(m)
		}
	case EdgeCanny:
		low, high := math.Min(threshold1, threshold2), math.Max(threshold1, threshold2)
		edges = hysteresis(suppressNonMaxima(mag, dir, w, h), w, h, low, high)
	default:
		return nil, fmt.Errorf("unknown edge detection method %q", method)
	}

	src, ok := img.(*raster.BGR)
	if !ok {
		return edges, nil
	}

	out := raster.NewBGR(w, h)
	for i := range edges.Pix {
		keep := edges.Pix[i] != 0
		if method == EdgeSobel {
			keep = mag[i] >= SobelColorThreshold
		}
		if keep {
			copy(out.Pix[i*3:i*3+3], src.Pix[i*3:i*3+3])
		}
	}
	return out, nil
}

// sobelGradients returns per-pixel gradient magnitude and direction.
func sobelGradients(gray *raster.Gray) (mag, dir []float64) {
	w, h := gray.Width(), gray.Height()
	mag = make([]float64, w*h)
	dir = make([]float64, w*h)

	sobelX := [3][3]float64{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}
	sobelY := [3][3]float64{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var gx, gy float64
			for ky := -1; ky <= 1; ky++ {
				for kx := -1; kx <= 1; kx++ {
					v := float64(gray.Pix[clampIndex(y+ky, h)*w+clampIndex(x+kx, w)])
					gx += v * sobelX[ky+1][kx+1]
					gy += v * sobelY[ky+1][kx+1]
				}
			}
			mag[y*w+x] = math.Sqrt(gx*gx + gy*gy)
			dir[y*w+x] = math.Atan2(gy, gx)
		}
	}
	return mag, dir
}

// suppressNonMaxima keeps a magnitude only where it is a local maximum
// across the edge. Border pixels are always suppressed.
func suppressNonMaxima(mag, dir []float64, w, h int) []float64 {
	out := make([]float64, len(mag))
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			i := y*w + x
			m := mag[i]
			if m == 0 {
				continue
			}

			angle := dir[i]
			var n1, n2 float64
			switch {
			case (angle >= -math.Pi/8 && angle < math.Pi/8) || (angle >= 7*math.Pi/8 || angle < -7*math.Pi/8):
				n1, n2 = mag[i-1], mag[i+1]
			case (angle >= math.Pi/8 && angle < 3*math.Pi/8) || (angle >= -7*math.Pi/8 && angle < -5*math.Pi/8):
				n1, n2 = mag[i-w-1], mag[i+w+1]
			case (angle >= 3*math.Pi/8 && angle < 5*math.Pi/8) || (angle >= -5*math.Pi/8 && angle < -3*math.Pi/8):
				n1, n2 = mag[i-w], mag[i+w]
			default:
				n1, n2 = mag[i-w+1], mag[i+w-1]
			}

			if m >= n1 && m >= n2 {
				out[i] = m
			}
		}
	}
	return out
}

// hysteresis marks strong pixels (> high) and grows them through weak
// pixels (> low) with an 8-connected flood fill.
func hysteresis(nms []float64, w, h int, low, high float64) *raster.Gray {
	out := raster.NewGray(w, h)
	stack := make([]int, 0, 64)
	for i, v := range nms {
		if v > high && out.Pix[i] == 0 {
			out.Pix[i] = 255
			stack = append(stack, i)
		}
	}

	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x, y := i%w, i/w
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				nx, ny := x+dx, y+dy
				if nx < 0 || ny < 0 || nx >= w || ny >= h {
					continue
				}
				j := ny*w + nx
				if out.Pix[j] == 0 && nms[j] > low {
					out.Pix[j] = 255
					stack = append(stack, j)
				}
			}
		}
	}
	return out
}
