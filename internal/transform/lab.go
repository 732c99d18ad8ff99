package transform

import (
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/picwizard/internal/raster"
)

// labPlanes holds an image in L*a*b* using 8-bit display scaling:
// L in [0,255] and a, b offset by 128. Values are kept as floats so that the
// round trip through fromLab loses nothing when a plane is left untouched.
type labPlanes struct {
	L, A, B []float64
}

func toLab(img *raster.BGR) labPlanes {
	n := img.Width() * img.Height()
	p := labPlanes{
		L: make([]float64, n),
		A: make([]float64, n),
		B: make([]float64, n),
	}
	for i := 0; i < n; i++ {
		px := img.Pix[i*3 : i*3+3]
		c := colorful.Color{R: float64(px[2]) / 255, G: float64(px[1]) / 255, B: float64(px[0]) / 255}
		l, a, b := c.Lab()
		p.L[i] = l * 255
		p.A[i] = a*100 + 128
		p.B[i] = b*100 + 128
	}
	return p
}

func fromLab(p labPlanes, width, height int) *raster.BGR {
	out := raster.NewBGR(width, height)
	for i := range p.L {
		c := colorful.Lab(p.L[i]/255, (p.A[i]-128)/100, (p.B[i]-128)/100).Clamped()
		r, g, b := c.RGB255()
		out.Pix[i*3], out.Pix[i*3+1], out.Pix[i*3+2] = b, g, r
	}
	return out
}
