package transform

import (
	"math"

	"github.com/ironsheep/picwizard/internal/raster"
)

// ColorBalance scales the red, green and blue channels by their factors,
// saturating at 255.
func ColorBalance(img *raster.BGR, rFactor, gFactor, bFactor float64) *raster.BGR {
	var luts [3]raster.LUT
	for c, f := range [3]float64{bFactor, gFactor, rFactor} {
		luts[c] = raster.BuildLUT(func(v float64) float64 { return v * f })
	}

	out := raster.NewBGR(img.Width(), img.Height())
	for i, v := range img.Pix {
		out.Pix[i] = luts[i%3][v]
	}
	return out
}

// Sepia transform rows, producing red, green and blue from (r, g, b).
var sepiaMatrix = [3][3]float64{
	{0.393, 0.769, 0.189},
	{0.349, 0.686, 0.168},
	{0.272, 0.534, 0.131},
}

// SepiaFilter blends img with its sepia-toned version. intensity 0 returns
// the original colors and 1 the full sepia tone; values outside [0,1] are
// clamped to that range.
func SepiaFilter(img *raster.BGR, intensity float64) *raster.BGR {
	intensity = math.Max(0, math.Min(1, intensity))

	out := raster.NewBGR(img.Width(), img.Height())
	for i := 0; i < len(img.Pix); i += 3 {
		b := float64(img.Pix[i]) / 255
		g := float64(img.Pix[i+1]) / 255
		r := float64(img.Pix[i+2]) / 255
		orig := [3]float64{r, g, b}

		for row, coef := range sepiaMatrix {
			tone := math.Min(1, coef[0]*r+coef[1]*g+coef[2]*b)
			v := (1-intensity)*orig[row] + intensity*tone
			// rows are R, G, B; storage is B, G, R
			out.Pix[i+2-row] = raster.Clamp8(v * 255)
		}
	}
	return out
}
