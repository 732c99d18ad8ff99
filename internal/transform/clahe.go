package transform

import (
	"fmt"
	"math"

	"github.com/ironsheep/picwizard/internal/raster"
)

// CLAHE applies contrast-limited adaptive histogram equalization.
//
// The image is split into a grid x grid mesh of tiles (fewer when the image
// is narrower than grid pixels). Each tile's histogram is clipped at
// clipLimit times the uniform bin height, the clipped excess is spread over
// all bins, and the resulting equalization tables are blended bilinearly
// between neighbouring tile centers.
//
// Color images are processed on the L* channel of L*a*b* only.
func CLAHE(img raster.Image, clipLimit float64, grid int) (raster.Image, error) {
	if !(clipLimit > 0) {
		return nil, fmt.Errorf("clip limit must be positive, got %g", clipLimit)
	}
	if grid < 1 {
		return nil, fmt.Errorf("grid size must be at least 1, got %d", grid)
	}

	w, h := img.Width(), img.Height()
	switch v := img.(type) {
	case *raster.Gray:
		out := raster.NewGray(w, h)
		out.Pix = claheChannel(v.Pix, w, h, clipLimit, grid)
		return out, nil
	case *raster.BGR:
		lab := toLab(v)
		l8 := make([]uint8, len(lab.L))
		for i, l := range lab.L {
			l8[i] = raster.Clamp8(l)
		}
		for i, l := range claheChannel(l8, w, h, clipLimit, grid) {
			lab.L[i] = float64(l)
		}
		return fromLab(lab, w, h), nil
	}
	return CLAHE(raster.FromImage(img), clipLimit, grid)
}

// tileEdges splits n pixels into tiles contiguous spans. tiles must not
// exceed n, so every span holds at least one pixel.
func tileEdges(n, tiles int) []int {
	edges := make([]int, tiles+1)
	for i := range edges {
		edges[i] = i * n / tiles
	}
	return edges
}

func claheChannel(src []uint8, w, h int, clipLimit float64, grid int) []uint8 {
	tilesX, tilesY := min(grid, w), min(grid, h)
	xs, ys := tileEdges(w, tilesX), tileEdges(h, tilesY)

	luts := make([]raster.LUT, tilesX*tilesY)
	for ty := 0; ty < tilesY; ty++ {
		for tx := 0; tx < tilesX; tx++ {
			var hist [256]int
			for y := ys[ty]; y < ys[ty+1]; y++ {
				for _, v := range src[y*w+xs[tx] : y*w+xs[tx+1]] {
					hist[v]++
				}
			}
			area := (xs[tx+1] - xs[tx]) * (ys[ty+1] - ys[ty])
			luts[ty*tilesX+tx] = clippedEqualizeLUT(&hist, area, clipLimit)
		}
	}

	tileW := float64(w) / float64(tilesX)
	tileH := float64(h) / float64(tilesY)
	out := make([]uint8, len(src))
	for y := 0; y < h; y++ {
		ty1, ty2, ya := neighbourTiles(y, tileH, tilesY)
		for x := 0; x < w; x++ {
			tx1, tx2, xa := neighbourTiles(x, tileW, tilesX)
			v := src[y*w+x]
			top := (1-xa)*float64(luts[ty1*tilesX+tx1][v]) + xa*float64(luts[ty1*tilesX+tx2][v])
			bottom := (1-xa)*float64(luts[ty2*tilesX+tx1][v]) + xa*float64(luts[ty2*tilesX+tx2][v])
			out[y*w+x] = raster.Clamp8((1-ya)*top + ya*bottom)
		}
	}
	return out
}

// neighbourTiles returns the two tiles whose centers bracket pixel p and the
// blend weight of the second one.
func neighbourTiles(p int, tileSize float64, tiles int) (int, int, float64) {
	f := (float64(p)+0.5)/tileSize - 0.5
	t1 := int(math.Floor(f))
	weight := f - float64(t1)
	t2 := t1 + 1
	if t1 < 0 {
		t1 = 0
	}
	if t2 >= tiles {
		t2 = tiles - 1
	}
	return t1, t2, weight
}

// clippedEqualizeLUT clips hist in place and returns its equalization table.
func clippedEqualizeLUT(hist *[256]int, area int, clipLimit float64) raster.LUT {
	limit := max(int(clipLimit*float64(area)/256), 1)

	excess := 0
	for i, c := range hist {
		if c > limit {
			excess += c - limit
			hist[i] = limit
		}
	}
	batch := excess / 256
	residual := excess - batch*256
	for i := range hist {
		hist[i] += batch
	}
	if residual > 0 {
		step := max(256/residual, 1)
		for i := 0; i < 256 && residual > 0; i += step {
			hist[i]++
			residual--
		}
	}

	var lut raster.LUT
	scale := 255.0 / float64(area)
	sum := 0
	for i, c := range hist {
		sum += c
		lut[i] = raster.Clamp8(float64(sum) * scale)
	}
	return lut
}
