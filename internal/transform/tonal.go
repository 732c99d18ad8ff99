package transform

import (
	"fmt"
	"math"
	"sort"

	"github.com/ironsheep/picwizard/internal/raster"
)

// MinGamma replaces a non-positive gamma in GammaCorrection.
const MinGamma = 0.01

// equalizeLUT builds the histogram-equalization table for a 256-bin
// histogram holding total samples. The lowest occupied bin maps to 0 and
// the cumulative distribution is stretched over [0,255]. A histogram with a
// single occupied bin maps every intensity to itself.
func equalizeLUT(hist *[256]int, total int) raster.LUT {
	first := 0
	for first < 255 && hist[first] == 0 {
		first++
	}
	if hist[first] == total {
		return raster.IdentityLUT()
	}

	var lut raster.LUT
	scale := 255.0 / float64(total-hist[first])
	sum := 0
	for i := first + 1; i < 256; i++ {
		sum += hist[i]
		lut[i] = raster.Clamp8(float64(sum) * scale)
	}
	return lut
}

// HistogramEqualization flattens the intensity histogram. Grayscale input is
// equalized directly. Color input is equalized on the luma (Y) channel of
// YUV and converted back, leaving chroma untouched.
func HistogramEqualization(img raster.Image) raster.Image {
	switch v := img.(type) {
	case *raster.Gray:
		var hist [256]int
		for _, p := range v.Pix {
			hist[p]++
		}
		lut := equalizeLUT(&hist, len(v.Pix))
		return lut.Apply(v)
	case *raster.BGR:
		n := v.Width() * v.Height()
		luma := make([]float64, n)
		var hist [256]int
		for i := 0; i < n; i++ {
			p := v.Pix[i*3 : i*3+3]
			luma[i] = 0.114*float64(p[0]) + 0.587*float64(p[1]) + 0.299*float64(p[2])
			hist[raster.Clamp8(luma[i])]++
		}
		lut := equalizeLUT(&hist, n)

		// U and V are scaled differences c-Y, so replacing Y with Y' and
		// converting back shifts every channel by the same Y'-Y.
		out := raster.NewBGR(v.Width(), v.Height())
		for i := 0; i < n; i++ {
			delta := float64(lut[raster.Clamp8(luma[i])]) - luma[i]
			for c := 0; c < 3; c++ {
				out.Pix[i*3+c] = raster.Clamp8(float64(v.Pix[i*3+c]) + delta)
			}
		}
		return out
	}
	return HistogramEqualization(raster.FromImage(img))
}

// GammaLUT returns the table output = 255 * (input/255)^(1/gamma).
// A gamma <= 0 is replaced by MinGamma.
func GammaLUT(gamma float64) raster.LUT {
	if gamma <= 0 {
		gamma = MinGamma
	}
	inv := 1.0 / gamma
	return raster.BuildLUT(func(v float64) float64 {
		return 255 * math.Pow(v/255, inv)
	})
}

// GammaCorrection adjusts brightness non-linearly on every channel. A gamma
// of 1 leaves the image unchanged.
func GammaCorrection(img raster.Image, gamma float64) raster.Image {
	lut := GammaLUT(gamma)
	return lut.Apply(img)
}

// LogTransformation maps each channel through c*ln(1+v) with
// c = 255/ln(1+max), where max is that channel's brightest value. A channel
// that is entirely black passes through unchanged.
func LogTransformation(img raster.Image) raster.Image {
	src := raster.PixData(img)
	channels := img.Channels()
	out := raster.NewLike(img, img.Width(), img.Height())
	dst := raster.PixData(out)

	for c := 0; c < channels; c++ {
		maxVal := 0
		for i := c; i < len(src); i += channels {
			if int(src[i]) > maxVal {
				maxVal = int(src[i])
			}
		}

		lut := raster.IdentityLUT()
		if maxVal > 0 {
			scale := 255 / math.Log1p(float64(maxVal))
			lut = raster.BuildLUT(func(v float64) float64 {
				return scale * math.Log1p(v)
			})
		}
		for i := c; i < len(src); i += channels {
			dst[i] = lut[src[i]]
		}
	}
	return out
}

// DicomWindow clips intensities to [level-width/2, level+width/2] and
// stretches that window linearly over [0,255].
func DicomWindow(img *raster.Gray, width, level float64) (*raster.Gray, error) {
	if !(width > 0) {
		return nil, fmt.Errorf("window width must be positive, got %g", width)
	}
	lower := level - width/2
	upper := level + width/2
	lut := raster.BuildLUT(func(v float64) float64 {
		v = math.Max(lower, math.Min(upper, v))
		return (v - lower) * 255 / (upper - lower)
	})
	return lut.Apply(img).(*raster.Gray), nil
}

// GrayLevelSlicing sets pixels with intensity in [minVal,maxVal] to 255.
// With highlightOnly every other pixel becomes 0; otherwise it is kept.
func GrayLevelSlicing(img *raster.Gray, minVal, maxVal int, highlightOnly bool) *raster.Gray {
	lut := raster.IdentityLUT()
	for i := range lut {
		switch {
		case i >= minVal && i <= maxVal:
			lut[i] = 255
		case highlightOnly:
			lut[i] = 0
		}
	}
	return lut.Apply(img).(*raster.Gray)
}

// ControlPoint is one (x, y) vertex of a piecewise-linear intensity curve.
type ControlPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PiecewiseLUT interpolates linearly between consecutive control points
// (sorted by X). Segments whose endpoints share an X are skipped. Inputs
// outside the covered X range keep their value.
func PiecewiseLUT(points []ControlPoint) (raster.LUT, error) {
	if len(points) < 2 {
		return raster.LUT{}, fmt.Errorf("need at least 2 control points, got %d", len(points))
	}
	sorted := make([]ControlPoint, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].X < sorted[j].X })

	lut := raster.IdentityLUT()
	for i := 0; i+1 < len(sorted); i++ {
		p0, p1 := sorted[i], sorted[i+1]
		if p1.X == p0.X {
			continue
		}
		slope := (p1.Y - p0.Y) / (p1.X - p0.X)
		start := int(math.Max(0, math.Ceil(p0.X)))
		end := int(math.Min(255, math.Floor(p1.X)))
		for x := start; x <= end; x++ {
			lut[x] = raster.Clamp8(p0.Y + (float64(x)-p0.X)*slope)
		}
	}
	return lut, nil
}

// PiecewiseLinear remaps intensities along the curve through points.
func PiecewiseLinear(img *raster.Gray, points []ControlPoint) (*raster.Gray, error) {
	lut, err := PiecewiseLUT(points)
	if err != nil {
		return nil, err
	}
	return lut.Apply(img).(*raster.Gray), nil
}

// BitPlaneSlicing isolates bit plane (0 = least significant, 7 = most):
// pixels with that bit set become 255, all others 0.
func BitPlaneSlicing(img *raster.Gray, plane int) (*raster.Gray, error) {
	if plane < 0 || plane > 7 {
		return nil, fmt.Errorf("bit plane must be in [0,7], got %d", plane)
	}
	mask := 1 << plane
	var lut raster.LUT
	for i := range lut {
		if i&mask != 0 {
			lut[i] = 255
		}
	}
	return lut.Apply(img).(*raster.Gray), nil
}
