// Package transform implements the enhancement catalog: pure functions from
// a raster (plus typed parameters) to a new raster or, for palette
// extraction, to a list of color swatches.
//
// # Variants
//
// Each function's signature states which raster variant it accepts:
//
//   - raster.Image: grayscale and color are both handled (e.g. GammaCorrection)
//   - *raster.Gray: the caller converts to grayscale first (e.g. DicomWindow)
//   - *raster.BGR: the caller converts to color first (e.g. SepiaFilter)
//
// Conversion between variants happens at the call boundary (see the dispatch
// package), never inside a transform.
//
// # Purity
//
// No function in this package writes to its input. Outputs are always new
// buffers, so an input may be shared between goroutines and reused after a
// failed call. Intermediate float planes, histograms and lookup tables are
// local to each call; the package holds no mutable state.
//
// # Numeric Range
//
// Every output sample is rounded and saturated to [0,255] (raster.Clamp8),
// so overflow and wrap-around cannot occur regardless of parameters.
//
// # Determinism
//
// All operations are deterministic for identical inputs. ExtractPalette is
// deterministic for a given PaletteOptions.Seed.
package transform
