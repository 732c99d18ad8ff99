package raster

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif" // Register GIF format decoder
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"strings"

	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

// ErrDecode is matched by every error Decode and DecodeFile return for input
// that cannot be turned into a raster.
var ErrDecode = errors.New("decode failure")

// DecodeError wraps the underlying decoder or I/O error.
type DecodeError struct {
	Source string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("decode failure: %s: %v", e.Source, e.Err)
	}
	return fmt.Sprintf("decode failure: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Is reports ErrDecode as a match so callers need not use errors.As.
func (e *DecodeError) Is(target error) bool { return target == ErrDecode }

// Decode reads an encoded image and returns it as a raster along with the
// format name reported by the decoder ("png", "jpeg", "gif", "bmp", "tiff",
// "webp").
func Decode(r io.Reader) (Image, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", &DecodeError{Err: err}
	}
	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, "", &DecodeError{Err: fmt.Errorf("empty image %dx%d", bounds.Dx(), bounds.Dy())}
	}
	return FromImage(img), format, nil
}

// DecodeFile opens and decodes the image at path.
func DecodeFile(path string) (Image, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", &DecodeError{Source: path, Err: err}
	}
	defer f.Close()

	img, format, err := Decode(f)
	if err != nil {
		var de *DecodeError
		if errors.As(err, &de) {
			de.Source = path
		}
		return nil, "", err
	}
	return img, format, nil
}

// Supported output formats for Encode.
const (
	FormatPNG  = "png"
	FormatJPEG = "jpeg"
)

// NormalizeFormat maps user-supplied format names onto the names Encode
// understands. Unknown names fall back to PNG.
func NormalizeFormat(format string) string {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "jpg", "jpeg":
		return FormatJPEG
	default:
		return FormatPNG
	}
}

// MimeType returns the MIME type for an output format.
func MimeType(format string) string {
	if NormalizeFormat(format) == FormatJPEG {
		return "image/jpeg"
	}
	return "image/png"
}

// Encode writes img as PNG or JPEG. quality only applies to JPEG and is
// clamped to [1,100].
func Encode(w io.Writer, img Image, format string, quality int) error {
	std := ToStd(img)
	switch NormalizeFormat(format) {
	case FormatJPEG:
		if quality < 1 {
			quality = 1
		}
		if quality > 100 {
			quality = 100
		}
		if err := jpeg.Encode(w, std, &jpeg.Options{Quality: quality}); err != nil {
			return fmt.Errorf("failed to encode jpeg: %w", err)
		}
	default:
		if err := png.Encode(w, std); err != nil {
			return fmt.Errorf("failed to encode png: %w", err)
		}
	}
	return nil
}
