package raster

import (
	"image"
	"image/color"
	"math"
)

// Image is the shape-query capability shared by the Gray and BGR variants.
type Image interface {
	image.Image

	// Width is the number of pixel columns.
	Width() int

	// Height is the number of pixel rows.
	Height() int

	// Channels is 1 for grayscale and 3 for color.
	Channels() int
}

// Gray is a single-channel 8-bit image. Pix holds Width*Height intensities in
// row-major order.
type Gray struct {
	Pix    []uint8
	width  int
	height int
}

// NewGray allocates a black grayscale image.
func NewGray(width, height int) *Gray {
	return &Gray{
		Pix:    make([]uint8, width*height),
		width:  width,
		height: height,
	}
}

func (g *Gray) Width() int              { return g.width }
func (g *Gray) Height() int             { return g.height }
func (g *Gray) Channels() int           { return 1 }
func (g *Gray) ColorModel() color.Model { return color.GrayModel }
func (g *Gray) Bounds() image.Rectangle { return image.Rect(0, 0, g.width, g.height) }
func (g *Gray) PixOffset(x, y int) int  { return y*g.width + x }
func (g *Gray) GrayAt(x, y int) uint8   { return g.Pix[y*g.width+x] }

// SetGray stores intensity v at (x, y).
func (g *Gray) SetGray(x, y int, v uint8) {
	g.Pix[y*g.width+x] = v
}

// At implements image.Image. Out-of-bounds coordinates return black.
func (g *Gray) At(x, y int) color.Color {
	if x < 0 || y < 0 || x >= g.width || y >= g.height {
		return color.Gray{}
	}
	return color.Gray{Y: g.Pix[y*g.width+x]}
}

// BGR is a three-channel 8-bit color image stored as interleaved
// blue, green, red triplets.
type BGR struct {
	Pix    []uint8
	width  int
	height int
}

// NewBGR allocates a black color image.
func NewBGR(width, height int) *BGR {
	return &BGR{
		Pix:    make([]uint8, width*height*3),
		width:  width,
		height: height,
	}
}

func (c *BGR) Width() int              { return c.width }
func (c *BGR) Height() int             { return c.height }
func (c *BGR) Channels() int           { return 3 }
func (c *BGR) ColorModel() color.Model { return color.RGBAModel }
func (c *BGR) Bounds() image.Rectangle { return image.Rect(0, 0, c.width, c.height) }
func (c *BGR) PixOffset(x, y int) int  { return (y*c.width + x) * 3 }

// At implements image.Image. Out-of-bounds coordinates return opaque black.
func (c *BGR) At(x, y int) color.Color {
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return color.RGBA{A: 255}
	}
	i := c.PixOffset(x, y)
	return color.RGBA{R: c.Pix[i+2], G: c.Pix[i+1], B: c.Pix[i], A: 255}
}

// BGRAt returns the blue, green and red components at (x, y).
func (c *BGR) BGRAt(x, y int) (b, g, r uint8) {
	i := c.PixOffset(x, y)
	return c.Pix[i], c.Pix[i+1], c.Pix[i+2]
}

// SetBGR stores a pixel given in blue, green, red order.
func (c *BGR) SetBGR(x, y int, b, g, r uint8) {
	i := c.PixOffset(x, y)
	c.Pix[i], c.Pix[i+1], c.Pix[i+2] = b, g, r
}

// PixData returns the raw interleaved buffer of either variant.
func PixData(img Image) []uint8 {
	switch v := img.(type) {
	case *Gray:
		return v.Pix
	case *BGR:
		return v.Pix
	}
	return nil
}

// NewLike allocates an empty image of the same variant as img.
func NewLike(img Image, width, height int) Image {
	if img.Channels() == 1 {
		return NewGray(width, height)
	}
	return NewBGR(width, height)
}

// Clone returns a deep copy of img.
func Clone(img Image) Image {
	out := NewLike(img, img.Width(), img.Height())
	copy(PixData(out), PixData(img))
	return out
}

// Clamp8 rounds v to the nearest integer and saturates it to [0,255].
func Clamp8(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
