package transform

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"

	"github.com/disintegration/imaging"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/picwizard/internal/raster"
)

// RGBColor represents an RGB color with 8-bit components.
type RGBColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// HSLColor represents a color in HSL (Hue, Saturation, Lightness) color space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent (0=gray, 100=vivid)
	L int `json:"l"` // Lightness: 0-100 percent (0=black, 50=normal, 100=white)
}

// Swatch is one dominant color of an image.
type Swatch struct {
	Hex        string   `json:"hex"`        // Hex color "#rrggbb"
	RGB        RGBColor `json:"rgb"`        // RGB components
	HSL        HSLColor `json:"hsl"`        // HSL representation
	Percentage float64  `json:"percentage"` // Share of sampled pixels in this cluster (0-100)
}

// Palette lists swatches by descending cluster membership.
type Palette []Swatch

// Hex returns the hex strings of every swatch, in palette order.
func (p Palette) Hex() []string {
	out := make([]string, len(p))
	for i, s := range p {
		out[i] = s.Hex
	}
	return out
}

// MaxPaletteColors bounds the number of clusters ExtractPalette will fit.
const MaxPaletteColors = 32

// PaletteOptions tunes the k-means search behind ExtractPalette.
type PaletteOptions struct {
	// Seed makes the clustering reproducible: equal seeds and equal images
	// give equal palettes.
	Seed uint64 `koanf:"seed"`

	// Attempts is the number of independent restarts; the most compact
	// clustering wins.
	Attempts int `koanf:"attempts"`

	// MaxIterations bounds each restart.
	MaxIterations int `koanf:"max_iterations"`

	// Epsilon stops a restart once no center moves further than this
	// (in 8-bit RGB units).
	Epsilon float64 `koanf:"epsilon"`

	// SampleSize is the bounding box the image is shrunk into before
	// clustering. Smaller images are used as is.
	SampleSize int `koanf:"sample_size"`
}

// DefaultPaletteOptions returns the options used when none are configured.
func DefaultPaletteOptions() PaletteOptions {
	return PaletteOptions{
		Seed:          1,
		Attempts:      10,
		MaxIterations: 100,
		Epsilon:       1.0,
		SampleSize:    150,
	}
}

// Validate reports the first option outside its usable range.
func (o PaletteOptions) Validate() error {
	switch {
	case o.Attempts < 1:
		return fmt.Errorf("palette attempts must be at least 1, got %d", o.Attempts)
	case o.MaxIterations < 1:
		return fmt.Errorf("palette max_iterations must be at least 1, got %d", o.MaxIterations)
	case o.Epsilon < 0:
		return fmt.Errorf("palette epsilon must not be negative, got %g", o.Epsilon)
	case o.SampleSize < 1:
		return fmt.Errorf("palette sample_size must be at least 1, got %d", o.SampleSize)
	}
	return nil
}

// ExtractPalette finds the numColors dominant colors of img.
//
// The image is shrunk to fit SampleSize x SampleSize, its pixels are
// clustered in RGB space with k-means, and the cluster centers are returned
// sorted by how many pixels they hold (most common first).
//
// # Clustering
//
// Centers are seeded with k-means++ from a PCG generator seeded with
// opts.Seed. Each of opts.Attempts restarts runs Lloyd iterations until no
// center moves more than opts.Epsilon or opts.MaxIterations is reached. The
// restart with the smallest total squared distance is kept.
//
// # Fewer Colors
//
// When the image holds fewer distinct colors than numColors, one swatch per
// distinct color is returned. A solid image always yields a single swatch
// of exactly that color.
func ExtractPalette(img *raster.BGR, numColors int, opts PaletteOptions) (Palette, error) {
	if numColors < 1 || numColors > MaxPaletteColors {
		return nil, fmt.Errorf("number of colors must be in [1,%d], got %d", MaxPaletteColors, numColors)
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	sample := imaging.Fit(raster.ToNRGBA(img), opts.SampleSize, opts.SampleSize, imaging.Linear)
	points := make([][3]float64, 0, sample.Bounds().Dx()*sample.Bounds().Dy())
	distinct := make(map[[3]uint8]struct{})
	for i := 0; i < len(sample.Pix); i += 4 {
		px := [3]uint8{sample.Pix[i], sample.Pix[i+1], sample.Pix[i+2]}
		distinct[px] = struct{}{}
		points = append(points, [3]float64{float64(px[0]), float64(px[1]), float64(px[2])})
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("image has no pixels")
	}

	k := min(numColors, len(distinct))
	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))

	var best kmeansResult
	for attempt := 0; attempt < opts.Attempts; attempt++ {
		res := kmeans(points, k, opts.MaxIterations, opts.Epsilon, rng)
		if attempt == 0 || res.compactness < best.compactness {
			best = res
		}
	}

	counts := make([]int, k)
	for _, l := range best.labels {
		counts[l]++
	}

	palette := make(Palette, 0, k)
	for c, center := range best.centers {
		if counts[c] == 0 {
			continue
		}
		palette = append(palette, newSwatch(center, float64(counts[c])/float64(len(points))*100))
	}
	sort.SliceStable(palette, func(i, j int) bool {
		if palette[i].Percentage != palette[j].Percentage {
			return palette[i].Percentage > palette[j].Percentage
		}
		return palette[i].Hex < palette[j].Hex
	})
	return palette, nil
}

func newSwatch(center [3]float64, pct float64) Swatch {
	c := colorful.Color{R: center[0] / 255, G: center[1] / 255, B: center[2] / 255}.Clamped()
	r, g, b := c.RGB255()
	h, s, l := c.Hsl()
	return Swatch{
		Hex:        c.Hex(),
		RGB:        RGBColor{R: r, G: g, B: b},
		HSL:        HSLColor{H: int(math.Round(h)) % 360, S: int(math.Round(s * 100)), L: int(math.Round(l * 100))},
		Percentage: pct,
	}
}

type kmeansResult struct {
	centers     [][3]float64
	labels      []int
	compactness float64
}

func sqDist(a, b [3]float64) float64 {
	d0, d1, d2 := a[0]-b[0], a[1]-b[1], a[2]-b[2]
	return d0*d0 + d1*d1 + d2*d2
}

// kmeans runs one k-means++ seeded restart of Lloyd's algorithm.
func kmeans(points [][3]float64, k, maxIter int, epsilon float64, rng *rand.Rand) kmeansResult {
	centers := seedCenters(points, k, rng)
	labels := make([]int, len(points))
	eps2 := epsilon * epsilon

	for iter := 0; iter < maxIter; iter++ {
		assign(points, centers, labels)

		sums := make([][3]float64, k)
		counts := make([]int, k)
		for i, p := range points {
			l := labels[i]
			sums[l][0] += p[0]
			sums[l][1] += p[1]
			sums[l][2] += p[2]
			counts[l]++
		}

		var shift float64
		for c := range centers {
			next := centers[c]
			if counts[c] > 0 {
				n := float64(counts[c])
				next = [3]float64{sums[c][0] / n, sums[c][1] / n, sums[c][2] / n}
			} else {
				next = points[farthestPoint(points, centers, labels)]
			}
			shift = math.Max(shift, sqDist(next, centers[c]))
			centers[c] = next
		}
		if shift <= eps2 {
			break
		}
	}

	compactness := assign(points, centers, labels)
	return kmeansResult{centers: centers, labels: labels, compactness: compactness}
}

// assign labels every point with its nearest center and returns the total
// squared distance.
func assign(points, centers [][3]float64, labels []int) float64 {
	var total float64
	for i, p := range points {
		bestC, bestD := 0, math.Inf(1)
		for c, center := range centers {
			if d := sqDist(p, center); d < bestD {
				bestC, bestD = c, d
			}
		}
		labels[i] = bestC
		total += bestD
	}
	return total
}

func farthestPoint(points, centers [][3]float64, labels []int) int {
	far, farD := 0, -1.0
	for i, p := range points {
		if d := sqDist(p, centers[labels[i]]); d > farD {
			far, farD = i, d
		}
	}
	return far
}

// seedCenters picks k starting centers with k-means++: the first uniformly,
// each following one with probability proportional to its squared distance
// from the nearest center already chosen.
func seedCenters(points [][3]float64, k int, rng *rand.Rand) [][3]float64 {
	centers := make([][3]float64, 0, k)
	centers = append(centers, points[rng.IntN(len(points))])

	dist := make([]float64, len(points))
	for i, p := range points {
		dist[i] = sqDist(p, centers[0])
	}

	for len(centers) < k {
		var total float64
		for _, d := range dist {
			total += d
		}

		next := 0
		if total > 0 {
			target := rng.Float64() * total
			for i, d := range dist {
				target -= d
				if target < 0 && d > 0 {
					next = i
					break
				}
				if d > 0 {
					next = i
				}
			}
		}
		centers = append(centers, points[next])
		for i, p := range points {
			dist[i] = math.Min(dist[i], sqDist(p, points[next]))
		}
	}
	return centers
}
