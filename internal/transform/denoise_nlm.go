//go:build !opencv

package transform

import "github.com/ironsheep/picwizard/internal/raster"

// DenoiseBackend names the NoiseReduction implementation compiled in.
const DenoiseBackend = "go"

func denoise(img raster.Image, h float64) (raster.Image, error) {
	w, ht := img.Width(), img.Height()
	switch v := img.(type) {
	case *raster.Gray:
		plane := make([]float64, len(v.Pix))
		for i, p := range v.Pix {
			plane[i] = float64(p)
		}
		res := nlMeans([][]float64{plane}, w, ht, h)[0]
		out := raster.NewGray(w, ht)
		for i, p := range res {
			out.Pix[i] = raster.Clamp8(p)
		}
		return out, nil
	case *raster.BGR:
		lab := toLab(v)
		res := nlMeans([][]float64{lab.L, lab.A, lab.B}, w, ht, h)
		return fromLab(labPlanes{L: res[0], A: res[1], B: res[2]}, w, ht), nil
	}
	return denoise(raster.FromImage(img), h)
}
