package raster

// LUT maps every 8-bit input intensity to an output intensity. Entries are
// uint8, so a table is clamped to [0,255] by construction.
type LUT [256]uint8

// IdentityLUT returns the table that maps every intensity to itself.
func IdentityLUT() LUT {
	var l LUT
	for i := range l {
		l[i] = uint8(i)
	}
	return l
}

// BuildLUT evaluates f for every intensity, rounding and saturating the result.
func BuildLUT(f func(v float64) float64) LUT {
	var l LUT
	for i := range l {
		l[i] = Clamp8(f(float64(i)))
	}
	return l
}

// Apply maps every channel of every pixel through the table and returns the
// result in a new buffer of the same variant.
func (l *LUT) Apply(img Image) Image {
	out := NewLike(img, img.Width(), img.Height())
	dst := PixData(out)
	for i, v := range PixData(img) {
		dst[i] = l[v]
	}
	return out
}
