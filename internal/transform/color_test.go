package transform

import "testing"

func TestColorBalance(t *testing.T) {
	img := solidBGR(3, 2, 40, 100, 200)

	tests := []struct {
		name       string
		r, g, b    float64
		wB, wG, wR uint8
	}{
		{"neutral", 1, 1, 1, 40, 100, 200},
		{"boost red saturates", 2, 1, 1, 40, 100, 255},
		{"halve green", 1, 0.5, 1, 40, 50, 200},
		{"drop blue", 1, 1, 0, 0, 100, 200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := ColorBalance(img, tt.r, tt.g, tt.b)
			assertSameSize(t, out, img)
			b, g, r := out.BGRAt(2, 1)
			if b != tt.wB || g != tt.wG || r != tt.wR {
				t.Errorf("pixel = %d,%d,%d, want %d,%d,%d", b, g, r, tt.wB, tt.wG, tt.wR)
			}
		})
	}
}

func TestSepiaFilter(t *testing.T) {
	t.Run("zero intensity", func(t *testing.T) {
		img := patternBGR(6, 6)
		assertPixEqual(t, SepiaFilter(img, 0), img)
	})

	t.Run("white at full intensity", func(t *testing.T) {
		out := SepiaFilter(solidBGR(2, 2, 255, 255, 255), 1)
		b, g, r := out.BGRAt(0, 0)
		if b != 239 || g != 255 || r != 255 {
			t.Errorf("pixel = %d,%d,%d, want 239,255,255", b, g, r)
		}
	})

	t.Run("black stays black", func(t *testing.T) {
		out := SepiaFilter(solidBGR(2, 2, 0, 0, 0), 1)
		for _, p := range out.Pix {
			if p != 0 {
				t.Fatalf("sample = %d, want 0", p)
			}
		}
	})

	t.Run("intensity is clamped", func(t *testing.T) {
		img := patternBGR(4, 4)
		assertPixEqual(t, SepiaFilter(img, 3), SepiaFilter(img, 1))
	})
}
