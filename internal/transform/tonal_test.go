package transform

import (
	"testing"

	"github.com/ironsheep/picwizard/internal/raster"
)

func TestGammaCorrectionIdentity(t *testing.T) {
	for _, img := range []raster.Image{patternGray(16, 9), patternBGR(7, 5)} {
		assertPixEqual(t, GammaCorrection(img, 1.0), img)
	}
}

func TestGammaLUT(t *testing.T) {
	if GammaLUT(0) != GammaLUT(MinGamma) {
		t.Error("gamma 0 should use the floor")
	}
	if GammaLUT(-3) != GammaLUT(MinGamma) {
		t.Error("negative gamma should use the floor")
	}

	lut := GammaLUT(2.2)
	if lut[0] != 0 || lut[255] != 255 {
		t.Errorf("endpoints = %d,%d, want 0,255", lut[0], lut[255])
	}
	if lut[128] != 186 {
		t.Errorf("lut[128] = %d, want 186", lut[128])
	}
}

func TestGammaCorrectionDoesNotMutateInput(t *testing.T) {
	img := patternGray(8, 8)
	before := raster.Clone(img)
	GammaCorrection(img, 0.4)
	assertPixEqual(t, img, before)
}

func TestHistogramEqualization(t *testing.T) {
	t.Run("gray two levels", func(t *testing.T) {
		img := raster.NewGray(4, 2)
		for i := range img.Pix {
			img.Pix[i] = 100
			if i%2 == 1 {
				img.Pix[i] = 150
			}
		}
		out := HistogramEqualization(img).(*raster.Gray)
		for i, p := range out.Pix {
			want := uint8(0)
			if i%2 == 1 {
				want = 255
			}
			if p != want {
				t.Fatalf("pixel %d = %d, want %d", i, p, want)
			}
		}
	})

	t.Run("uniform unchanged", func(t *testing.T) {
		img := solidGray(5, 5, 77)
		assertPixEqual(t, HistogramEqualization(img), img)
	})

	t.Run("color keeps neutral pixels neutral", func(t *testing.T) {
		img := raster.NewBGR(2, 2)
		for i := 0; i < 4; i++ {
			v := uint8(100)
			if i%2 == 1 {
				v = 150
			}
			img.SetBGR(i%2, i/2, v, v, v)
		}
		out := HistogramEqualization(img).(*raster.BGR)
		for y := 0; y < 2; y++ {
			for x := 0; x < 2; x++ {
				b, g, r := out.BGRAt(x, y)
				want := uint8(0)
				if x == 1 {
					want = 255
				}
				if b != want || g != want || r != want {
					t.Errorf("(%d,%d) = %d,%d,%d, want %d", x, y, b, g, r, want)
				}
			}
		}
	})
}

func TestLogTransformation(t *testing.T) {
	t.Run("channel max maps to 255", func(t *testing.T) {
		img := solidBGR(3, 3, 100, 0, 200)
		out := LogTransformation(img).(*raster.BGR)
		b, g, r := out.BGRAt(1, 1)
		if b != 255 || g != 0 || r != 255 {
			t.Errorf("pixel = %d,%d,%d, want 255,0,255", b, g, r)
		}
	})

	t.Run("black passes through", func(t *testing.T) {
		img := solidGray(4, 4, 0)
		assertPixEqual(t, LogTransformation(img), img)
	})

	t.Run("monotonic", func(t *testing.T) {
		img := raster.NewGray(256, 1)
		for i := range img.Pix {
			img.Pix[i] = uint8(i)
		}
		out := LogTransformation(img).(*raster.Gray)
		for i := 1; i < 256; i++ {
			if out.Pix[i] < out.Pix[i-1] {
				t.Fatalf("not monotonic at %d", i)
			}
		}
		if out.Pix[255] != 255 {
			t.Errorf("max = %d, want 255", out.Pix[255])
		}
	})
}

func TestDicomWindow(t *testing.T) {
	img := raster.NewGray(256, 1)
	for i := range img.Pix {
		img.Pix[i] = uint8(i)
	}

	t.Run("full range is identity", func(t *testing.T) {
		out, err := DicomWindow(img, 255, 127.5)
		if err != nil {
			t.Fatal(err)
		}
		assertPixEqual(t, out, img)
	})

	t.Run("narrow window", func(t *testing.T) {
		out, err := DicomWindow(img, 100, 50)
		if err != nil {
			t.Fatal(err)
		}
		tests := []struct{ in, want uint8 }{
			{0, 0},
			{50, 128},
			{100, 255},
			{200, 255},
		}
		for _, tt := range tests {
			if got := out.Pix[tt.in]; got != tt.want {
				t.Errorf("f(%d) = %d, want %d", tt.in, got, tt.want)
			}
		}
	})

	t.Run("zero width", func(t *testing.T) {
		if _, err := DicomWindow(img, 0, 50); err == nil {
			t.Error("expected error for zero width")
		}
	})
}

func TestGrayLevelSlicing(t *testing.T) {
	img := raster.NewGray(4, 1)
	copy(img.Pix, []uint8{50, 100, 200, 250})

	tests := []struct {
		name          string
		highlightOnly bool
		want          []uint8
	}{
		{"keep background", false, []uint8{50, 255, 255, 250}},
		{"highlight only", true, []uint8{0, 255, 255, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := GrayLevelSlicing(img, 100, 200, tt.highlightOnly)
			for i, w := range tt.want {
				if out.Pix[i] != w {
					t.Errorf("pixel %d = %d, want %d", i, out.Pix[i], w)
				}
			}
		})
	}
}

func TestPiecewiseLUT(t *testing.T) {
	t.Run("identity", func(t *testing.T) {
		lut, err := PiecewiseLUT([]ControlPoint{{0, 0}, {255, 255}})
		if err != nil {
			t.Fatal(err)
		}
		if lut != raster.IdentityLUT() {
			t.Error("expected identity table")
		}
	})

	t.Run("inversion from unsorted points", func(t *testing.T) {
		lut, err := PiecewiseLUT([]ControlPoint{{255, 0}, {0, 255}})
		if err != nil {
			t.Fatal(err)
		}
		for i := range lut {
			if int(lut[i]) != 255-i {
				t.Fatalf("lut[%d] = %d, want %d", i, lut[i], 255-i)
			}
		}
	})

	t.Run("outside range keeps value", func(t *testing.T) {
		lut, err := PiecewiseLUT([]ControlPoint{{50, 100}, {100, 150}})
		if err != nil {
			t.Fatal(err)
		}
		for in, want := range map[int]uint8{10: 10, 50: 100, 75: 125, 100: 150, 200: 200} {
			if lut[in] != want {
				t.Errorf("lut[%d] = %d, want %d", in, lut[in], want)
			}
		}
	})

	t.Run("shared x is skipped", func(t *testing.T) {
		lut, err := PiecewiseLUT([]ControlPoint{{0, 0}, {100, 200}, {100, 50}, {255, 255}})
		if err != nil {
			t.Fatal(err)
		}
		if lut[0] != 0 || lut[255] != 255 {
			t.Errorf("endpoints = %d,%d", lut[0], lut[255])
		}
	})

	t.Run("too few points", func(t *testing.T) {
		if _, err := PiecewiseLUT([]ControlPoint{{0, 0}}); err == nil {
			t.Error("expected error")
		}
	})
}

func TestBitPlaneSlicing(t *testing.T) {
	tests := []struct {
		name  string
		value uint8
		plane int
		want  uint8
	}{
		{"white msb", 255, 7, 255},
		{"black msb", 0, 7, 0},
		{"one lsb", 1, 0, 255},
		{"one msb", 1, 7, 0},
		{"128 msb", 128, 7, 255},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := BitPlaneSlicing(solidGray(3, 3, tt.value), tt.plane)
			if err != nil {
				t.Fatal(err)
			}
			for _, p := range out.Pix {
				if p != tt.want {
					t.Fatalf("got %d, want %d", p, tt.want)
				}
			}
		})
	}

	if _, err := BitPlaneSlicing(solidGray(1, 1, 0), 8); err == nil {
		t.Error("expected error for plane 8")
	}
}
