package transform

import (
	"math"
	"testing"

	"github.com/ironsheep/picwizard/internal/raster"
)

func TestEdgeDetectionUniform(t *testing.T) {
	inputs := []raster.Image{solidGray(12, 12, 128), solidBGR(12, 12, 200, 50, 10)}
	for _, method := range []string{EdgeCanny, EdgeSobel} {
		for _, img := range inputs {
			out, err := EdgeDetection(img, method, 100, 200)
			if err != nil {
				t.Fatal(err)
			}
			assertSameSize(t, out, img)
			for i, p := range raster.PixData(out) {
				if p != 0 {
					t.Fatalf("%s: sample %d = %d, want 0", method, i, p)
				}
			}
		}
	}
}

// verticalStep returns an image that is black left of column edge and
// (b, g, r) from it on.
func verticalStep(w, h, edge int, b, g, r uint8) *raster.BGR {
	img := raster.NewBGR(w, h)
	for y := 0; y < h; y++ {
		for x := edge; x < w; x++ {
			img.SetBGR(x, y, b, g, r)
		}
	}
	return img
}

func TestCannyStep(t *testing.T) {
	gray := raster.ToGray(verticalStep(10, 10, 5, 255, 255, 255))
	out, err := EdgeDetection(gray, EdgeCanny, 100, 200)
	if err != nil {
		t.Fatal(err)
	}
	edges := out.(*raster.Gray)

	for y := 1; y < 9; y++ {
		if edges.GrayAt(4, y) != 255 || edges.GrayAt(5, y) != 255 {
			t.Errorf("row %d: edge columns = %d,%d, want 255", y, edges.GrayAt(4, y), edges.GrayAt(5, y))
		}
		if edges.GrayAt(1, y) != 0 || edges.GrayAt(8, y) != 0 {
			t.Errorf("row %d: flat area marked as edge", y)
		}
	}
}

// diagonalStep returns a gray image that is white where x > y.
func diagonalStep(size int) *raster.Gray {
	img := raster.NewGray(size, size)
	for y := 0; y < size; y++ {
		for x := y + 1; x < size; x++ {
			img.SetGray(x, y, 255)
		}
	}
	return img
}

func TestCannyDiagonalStep(t *testing.T) {
	const size = 20
	out, err := EdgeDetection(diagonalStep(size), EdgeCanny, 100, 200)
	if err != nil {
		t.Fatal(err)
	}
	edges := out.(*raster.Gray)

	// Like the vertical step, the ridge is two pixels wide: x == y and
	// x == y+1 on every row clear of the border.
	for y := 2; y < size-2; y++ {
		var count int
		for x := 0; x < size; x++ {
			if edges.GrayAt(x, y) == 255 {
				count++
			}
		}
		if count != 2 {
			t.Errorf("row %d: %d edge pixels, want 2", y, count)
		}
		if edges.GrayAt(y, y) != 255 || edges.GrayAt(y+1, y) != 255 {
			t.Errorf("row %d: edge pixels = %d,%d, want 255", y, edges.GrayAt(y, y), edges.GrayAt(y+1, y))
		}
	}
}

func TestSuppressNonMaximaDiagonals(t *testing.T) {
	tests := []struct {
		name     string
		angle    float64
		nx, ny   int
		wantKept bool
	}{
		{"down-right gradient, stronger across", math.Pi / 4, 2, 2, false},
		{"down-right gradient, stronger across behind", math.Pi / 4, 0, 0, false},
		{"down-right gradient, stronger along", math.Pi / 4, 2, 0, true},
		{"down-left gradient, stronger across", 3 * math.Pi / 4, 0, 2, false},
		{"down-left gradient, stronger across behind", 3 * math.Pi / 4, 2, 0, false},
		{"down-left gradient, stronger along", 3 * math.Pi / 4, 2, 2, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mag := make([]float64, 9)
			dir := make([]float64, 9)
			mag[4], dir[4] = 10, tt.angle
			mag[tt.ny*3+tt.nx] = 50

			out := suppressNonMaxima(mag, dir, 3, 3)
			if kept := out[4] == 10; kept != tt.wantKept {
				t.Errorf("center kept = %v, want %v", kept, tt.wantKept)
			}
		})
	}
}

func TestCannyThresholdOrder(t *testing.T) {
	img := raster.ToGray(verticalStep(10, 10, 5, 255, 255, 255))
	a, err := EdgeDetection(img, EdgeCanny, 100, 200)
	if err != nil {
		t.Fatal(err)
	}
	b, err := EdgeDetection(img, EdgeCanny, 200, 100)
	if err != nil {
		t.Fatal(err)
	}
	assertPixEqual(t, a, b)
}

func TestEdgeDetectionColorMask(t *testing.T) {
	img := verticalStep(10, 10, 5, 0, 0, 255)

	for _, method := range []string{EdgeSobel, EdgeCanny} {
		t.Run(method, func(t *testing.T) {
			out, err := EdgeDetection(img, method, 100, 200)
			if err != nil {
				t.Fatal(err)
			}
			c := out.(*raster.BGR)
			if b, g, r := c.BGRAt(5, 5); b != 0 || g != 0 || r != 255 {
				t.Errorf("edge pixel = %d,%d,%d, want original red", b, g, r)
			}
			if b, g, r := c.BGRAt(8, 5); b != 0 || g != 0 || r != 0 {
				t.Errorf("flat red pixel = %d,%d,%d, want black", b, g, r)
			}
		})
	}
}

func TestSobelGrayMagnitude(t *testing.T) {
	img := raster.ToGray(verticalStep(6, 6, 3, 20, 20, 20))
	out, err := EdgeDetection(img, EdgeSobel, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	g := out.(*raster.Gray)
	// a step of 20 gives |Gx| = 20*(1+2+1)
	if g.GrayAt(2, 2) != 80 || g.GrayAt(3, 2) != 80 {
		t.Errorf("magnitude = %d,%d, want 80", g.GrayAt(2, 2), g.GrayAt(3, 2))
	}
	if g.GrayAt(0, 2) != 0 {
		t.Errorf("flat magnitude = %d, want 0", g.GrayAt(0, 2))
	}
}

func TestEdgeDetectionUnknownMethod(t *testing.T) {
	if _, err := EdgeDetection(solidGray(3, 3, 0), "laplace", 1, 2); err == nil {
		t.Error("expected error for unknown method")
	}
}
