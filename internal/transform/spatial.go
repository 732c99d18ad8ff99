package transform

import (
	"fmt"
	"math"

	"github.com/anthonynsimon/bild/convolution"
	"github.com/disintegration/imaging"

	"github.com/ironsheep/picwizard/internal/raster"
)

// MaxScaleFactor bounds SuperResolution so a single call cannot allocate an
// unbounded output buffer.
const MaxScaleFactor = 8

// UnsharpMask sharpens by subtracting a blurred copy:
// (amount+1)*original - amount*blurred. The blur uses a radius x radius
// Gaussian (even radii are bumped to odd) with the given sigma. When
// threshold > 0, samples whose |original-blurred| is below threshold keep
// their original value.
func UnsharpMask(img raster.Image, radius int, sigma, amount, threshold float64) raster.Image {
	blurred := blur(img, oddKernelSize(radius), sigma)
	src, bl := raster.PixData(img), raster.PixData(blurred)

	out := raster.NewLike(img, img.Width(), img.Height())
	dst := raster.PixData(out)
	for i, o := range src {
		of, bf := float64(o), float64(bl[i])
		if threshold > 0 && math.Abs(of-bf) < threshold {
			dst[i] = o
			continue
		}
		dst[i] = raster.Clamp8((amount+1)*of - amount*bf)
	}
	return out
}

// Sharpen convolves img with a 3x3 high-pass kernel: eight -1 neighbours
// around a center weight of 9+strength. Results are rounded like Clamp8.
func Sharpen(img raster.Image, strength float64) raster.Image {
	k := convolution.NewKernel(3, 3)
	for i := range k.Matrix {
		k.Matrix[i] = -1
	}
	k.Matrix[4] = 9 + strength

	// bild truncates after adding Bias, so half a level rounds to nearest.
	res := convolution.Convolve(raster.ToNRGBA(img), k, &convolution.Options{Bias: 0.5, Wrap: false, KeepAlpha: true})
	return raster.WithChannels(raster.FromImage(res), img.Channels())
}

// EnhanceVessels emphasises thin linear structures with a light 3x3 blur
// subtracted from the original: (1+strength)*original - strength*blurred.
func EnhanceVessels(img raster.Image, strength float64) raster.Image {
	blurred := blur(img, 3, 0)
	src, bl := raster.PixData(img), raster.PixData(blurred)

	out := raster.NewLike(img, img.Width(), img.Height())
	dst := raster.PixData(out)
	for i, o := range src {
		dst[i] = raster.Clamp8((1+strength)*float64(o) - strength*float64(bl[i]))
	}
	return out
}

// SuperResolution upsamples img by an integer factor with bicubic
// (Catmull-Rom) interpolation. It adds no detail that is not already in the
// source; it is plain interpolation, not a learned super-resolution model.
func SuperResolution(img raster.Image, scale int) (raster.Image, error) {
	if scale < 1 || scale > MaxScaleFactor {
		return nil, fmt.Errorf("scale factor must be in [1,%d], got %d", MaxScaleFactor, scale)
	}
	if scale == 1 {
		return raster.Clone(img), nil
	}
	res := imaging.Resize(raster.ToNRGBA(img), img.Width()*scale, img.Height()*scale, imaging.CatmullRom)
	return raster.FromNRGBA(res, img.Channels()), nil
}
