// Package raster holds the pixel buffers the enhancement engine works on.
//
// An image is either single-channel grayscale (Gray) or three-channel color
// (BGR). Both variants satisfy the Image interface, which answers shape
// queries (Width, Height, Channels) and also implements image.Image so a
// buffer can be handed to any Go image library or encoder without copying
// through an intermediate type.
//
// # Channel Order
//
// Color pixels are stored interleaved in blue, green, red order. Every
// conversion in this package (FromImage, ToGray, ToNRGBA, At) honours that
// order, so callers that index Pix directly must do the same:
//
//	i := img.PixOffset(x, y)
//	b, g, r := img.Pix[i], img.Pix[i+1], img.Pix[i+2]
//
// # Ownership
//
// Buffers are never shared between images. Conversions and LUT application
// allocate a new buffer, which is what allows decoded images to be cached and
// reused by several callers at once (see ImageCache).
//
// # Decoding
//
// Decode accepts PNG, JPEG, GIF, BMP, TIFF and WebP input. Any failure is
// reported as a *DecodeError, which matches ErrDecode under errors.Is.
package raster
