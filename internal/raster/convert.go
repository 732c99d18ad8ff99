package raster

import (
	"image"
)

// BT.601 luma weights in 14-bit fixed point. They sum to 1<<14, so a gray
// pixel replicated across three channels converts back to itself exactly.
const (
	lumaR = 4899
	lumaG = 9617
	lumaB = 1868
)

// Luma returns the BT.601 intensity of a color pixel, rounded to 8 bits.
func Luma(b, g, r uint8) uint8 {
	return uint8((int(r)*lumaR + int(g)*lumaG + int(b)*lumaB + 1<<13) >> 14)
}

// FromImage converts any image.Image into a raster buffer.
//
// *image.Gray and *image.Gray16 become Gray; every other color model becomes
// BGR. Transparent pixels are composited over black because color.RGBA()
// returns alpha-premultiplied components. *Gray and *BGR are returned as is.
func FromImage(src image.Image) Image {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	switch s := src.(type) {
	case *Gray:
		return s
	case *BGR:
		return s
	case *image.Gray:
		out := NewGray(w, h)
		for y := 0; y < h; y++ {
			row := s.Pix[(y+bounds.Min.Y-s.Rect.Min.Y)*s.Stride+(bounds.Min.X-s.Rect.Min.X):]
			copy(out.Pix[y*w:(y+1)*w], row[:w])
		}
		return out
	case *image.Gray16:
		out := NewGray(w, h)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				out.Pix[y*w+x] = uint8(s.Gray16At(x+bounds.Min.X, y+bounds.Min.Y).Y >> 8)
			}
		}
		return out
	case *image.NRGBA:
		out := NewBGR(w, h)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				si := s.PixOffset(x+bounds.Min.X, y+bounds.Min.Y)
				a := uint32(s.Pix[si+3])
				di := (y*w + x) * 3
				out.Pix[di] = premultiply(s.Pix[si+2], a)
				out.Pix[di+1] = premultiply(s.Pix[si+1], a)
				out.Pix[di+2] = premultiply(s.Pix[si], a)
			}
		}
		return out
	case *image.RGBA:
		out := NewBGR(w, h)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				si := s.PixOffset(x+bounds.Min.X, y+bounds.Min.Y)
				di := (y*w + x) * 3
				out.Pix[di], out.Pix[di+1], out.Pix[di+2] = s.Pix[si+2], s.Pix[si+1], s.Pix[si]
			}
		}
		return out
	}

	out := NewBGR(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, _ := src.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			di := (y*w + x) * 3
			out.Pix[di], out.Pix[di+1], out.Pix[di+2] = uint8(b>>8), uint8(g>>8), uint8(r>>8)
		}
	}
	return out
}

func premultiply(v uint8, a uint32) uint8 {
	if a == 0xff {
		return v
	}
	return uint8((uint32(v)*a + 127) / 255)
}

// ToGray returns a new grayscale copy of img.
func ToGray(img Image) *Gray {
	switch v := img.(type) {
	case *Gray:
		out := NewGray(v.width, v.height)
		copy(out.Pix, v.Pix)
		return out
	case *BGR:
		out := NewGray(v.width, v.height)
		for i := range out.Pix {
			p := v.Pix[i*3 : i*3+3]
			out.Pix[i] = Luma(p[0], p[1], p[2])
		}
		return out
	}
	return ToGray(FromImage(img))
}

// ToBGR returns a new color copy of img. Gray intensities are replicated
// across all three channels.
func ToBGR(img Image) *BGR {
	switch v := img.(type) {
	case *BGR:
		out := NewBGR(v.width, v.height)
		copy(out.Pix, v.Pix)
		return out
	case *Gray:
		out := NewBGR(v.width, v.height)
		for i, p := range v.Pix {
			out.Pix[i*3], out.Pix[i*3+1], out.Pix[i*3+2] = p, p, p
		}
		return out
	}
	return ToBGR(FromImage(img))
}

// WithChannels converts img to the requested channel count (1 or 3),
// returning img itself when it already matches.
func WithChannels(img Image, channels int) Image {
	if img.Channels() == channels {
		return img
	}
	if channels == 1 {
		return ToGray(img)
	}
	return ToBGR(img)
}

// ToNRGBA copies img into an opaque *image.NRGBA for use with the standard
// library and third-party filters.
func ToNRGBA(img Image) *image.NRGBA {
	w, h := img.Width(), img.Height()
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	switch v := img.(type) {
	case *Gray:
		for i, p := range v.Pix {
			o := out.Pix[i*4 : i*4+4]
			o[0], o[1], o[2], o[3] = p, p, p, 0xff
		}
	case *BGR:
		for i := 0; i < w*h; i++ {
			o := out.Pix[i*4 : i*4+4]
			s := v.Pix[i*3 : i*3+3]
			o[0], o[1], o[2], o[3] = s[2], s[1], s[0], 0xff
		}
	}
	return out
}

// FromNRGBA converts the result of a third-party filter back into the
// variant named by channels. For a single channel the red component is
// used, which is exact when the filter preserved gray input.
func FromNRGBA(src *image.NRGBA, channels int) Image {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if channels == 1 {
		out := NewGray(w, h)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				out.Pix[y*w+x] = src.Pix[src.PixOffset(x+bounds.Min.X, y+bounds.Min.Y)]
			}
		}
		return out
	}
	out := NewBGR(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			si := src.PixOffset(x+bounds.Min.X, y+bounds.Min.Y)
			di := (y*w + x) * 3
			out.Pix[di], out.Pix[di+1], out.Pix[di+2] = src.Pix[si+2], src.Pix[si+1], src.Pix[si]
		}
	}
	return out
}

// ToStd returns a standard library image suitable for encoding: *image.Gray
// for grayscale input and *image.NRGBA for color.
func ToStd(img Image) image.Image {
	if g, ok := img.(*Gray); ok {
		out := image.NewGray(image.Rect(0, 0, g.width, g.height))
		copy(out.Pix, g.Pix)
		return out
	}
	return ToNRGBA(img)
}
