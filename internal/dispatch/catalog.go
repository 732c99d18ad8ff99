package dispatch

import (
	"github.com/ironsheep/picwizard/internal/raster"
	"github.com/ironsheep/picwizard/internal/transform"
)

// Parameter structs, one per operation signature.

type noParams struct{}

// GammaParams configures gamma_correction.
type GammaParams struct {
	Gamma float64
}

// CLAHEParams configures clahe_enhance.
type CLAHEParams struct {
	ClipLimit float64
	GridSize  int
}

// DicomParams configures dicom_window.
type DicomParams struct {
	WindowWidth float64
	WindowLevel float64
}

// SlicingParams configures gray_level_slicing.
type SlicingParams struct {
	MinVal        int
	MaxVal        int
	HighlightOnly bool
}

// PiecewiseParams configures piecewise_linear_transform.
type PiecewiseParams struct {
	Points []transform.ControlPoint
}

// BitPlaneParams configures bit_plane_slicing.
type BitPlaneParams struct {
	BitPlane int
}

// BlurParams configures gaussian_blur.
type BlurParams struct {
	Radius int
}

// UnsharpParams configures unsharp_mask.
type UnsharpParams struct {
	Radius    int
	Amount    float64
	Sigma     float64
	Threshold float64
}

// StrengthParams is shared by sharpen, noise_reduction and enhance_vessels.
type StrengthParams struct {
	Strength float64
}

// ScaleParams configures super_resolution.
type ScaleParams struct {
	ScaleFactor int
}

// EdgeParams configures edge_detection.
type EdgeParams struct {
	Method     string
	Threshold1 float64
	Threshold2 float64
}

// BalanceParams holds the per-channel multipliers of color_balance.
type BalanceParams struct {
	RFactor float64
	GFactor float64
	BFactor float64
}

// SepiaParams configures sepia_filter.
type SepiaParams struct {
	Intensity float64
}

// PaletteParams configures extract_palette.
type PaletteParams struct {
	NumColors int
}

func imageResult(img raster.Image) *Result {
	return &Result{Image: img}
}

func imageResultErr(img raster.Image, err error) (*Result, error) {
	if err != nil {
		return nil, err
	}
	return &Result{Image: img}, nil
}

func bindNone(Values) (noParams, error) {
	return noParams{}, nil
}

// strength is shared by sharpen, enhance_vessels and noise_reduction.
func strengthParam(def string) []ParamSpec {
	return []ParamSpec{{Name: "strength", Type: TypeFloat, Default: def, Help: "filter strength (>= 0)"}}
}

func bindStrength(v Values) (StrengthParams, error) {
	p := StrengthParams{Strength: v.Float("strength")}
	if p.Strength < 0 {
		return p, v.invalid("strength", "must not be negative")
	}
	return p, nil
}

func registerCatalog(d *Dispatcher) {
	registerTonal(d)
	registerSpatial(d)
	registerColor(d)
}

func registerTonal(d *Dispatcher) {
	register(d, &entry[noParams]{
		name:        "histogram_equalization",
		description: "Spread intensities so the cumulative histogram is close to uniform (luma only for color images).",
		accepts:     AcceptsAny,
		bind:        bindNone,
		run: func(_ *Dispatcher, img raster.Image, _ noParams) (*Result, error) {
			return imageResult(transform.HistogramEqualization(img)), nil
		},
	})

	register(d, &entry[GammaParams]{
		name:        "gamma_correction",
		description: "Non-linear brightness adjustment: out = 255*(in/255)^(1/gamma).",
		accepts:     AcceptsAny,
		params: []ParamSpec{
			{Name: "gamma", Type: TypeFloat, Default: "1.0", Help: "gamma > 1 brightens, < 1 darkens; values <= 0 are raised to 0.01"},
		},
		bind: func(v Values) (GammaParams, error) {
			return GammaParams{Gamma: v.Float("gamma")}, nil
		},
		run: func(d *Dispatcher, img raster.Image, p GammaParams) (*Result, error) {
			if p.Gamma <= 0 {
				d.log.Warn().Float64("gamma", p.Gamma).Float64("floor", transform.MinGamma).
					Msg("non-positive gamma replaced by floor")
			}
			return imageResult(transform.GammaCorrection(img, p.Gamma)), nil
		},
	})

	register(d, &entry[noParams]{
		name:        "log_transformation",
		description: "Logarithmic mapping that expands dark tones, scaled per channel so the brightest value stays 255.",
		accepts:     AcceptsAny,
		bind:        bindNone,
		run: func(_ *Dispatcher, img raster.Image, _ noParams) (*Result, error) {
			return imageResult(transform.LogTransformation(img)), nil
		},
	})

	register(d, &entry[CLAHEParams]{
		name:        "clahe_enhance",
		description: "Contrast-limited adaptive histogram equalization on the lightness channel.",
		accepts:     AcceptsAny,
		params: []ParamSpec{
			{Name: "clip_limit", Type: TypeFloat, Default: "2.0", Help: "histogram clip limit relative to a uniform bin (> 0)"},
			{Name: "grid_size", Type: TypeInt, Default: "8", Help: "tiles per side (>= 1)"},
		},
		bind: func(v Values) (CLAHEParams, error) {
			p := CLAHEParams{ClipLimit: v.Float("clip_limit"), GridSize: v.Int("grid_size")}
			if p.ClipLimit <= 0 {
				return p, v.invalid("clip_limit", "must be positive")
			}
			if p.GridSize < 1 {
				return p, v.invalid("grid_size", "must be at least 1")
			}
			return p, nil
		},
		run: func(_ *Dispatcher, img raster.Image, p CLAHEParams) (*Result, error) {
			return imageResultErr(transform.CLAHE(img, p.ClipLimit, p.GridSize))
		},
	})

	register(d, &entry[DicomParams]{
		name:        "dicom_window",
		description: "Radiology windowing: clip to [level-width/2, level+width/2] and stretch to [0,255].",
		accepts:     AcceptsGray,
		restore:     true,
		params: []ParamSpec{
			{Name: "window_width", Type: TypeFloat, Default: "400", Help: "window width (> 0)"},
			{Name: "window_level", Type: TypeFloat, Default: "50", Help: "window center"},
		},
		bind: func(v Values) (DicomParams, error) {
			p := DicomParams{WindowWidth: v.Float("window_width"), WindowLevel: v.Float("window_level")}
			if p.WindowWidth <= 0 {
				return p, v.invalid("window_width", "must be positive")
			}
			return p, nil
		},
		run: func(_ *Dispatcher, img raster.Image, p DicomParams) (*Result, error) {
			return imageResultErr(transform.DicomWindow(img.(*raster.Gray), p.WindowWidth, p.WindowLevel))
		},
	})

	register(d, &entry[SlicingParams]{
		name:        "gray_level_slicing",
		description: "Highlight intensities in [min_val, max_val] as white.",
		accepts:     AcceptsGray,
		restore:     true,
		params: []ParamSpec{
			{Name: "min_val", Type: TypeInt, Default: "100", Help: "lower bound of the highlighted band (0-255)"},
			{Name: "max_val", Type: TypeInt, Default: "200", Help: "upper bound of the highlighted band (0-255)"},
			{Name: "highlight_only", Type: TypeBool, Default: "false", Help: "set everything outside the band to black"},
		},
		bind: func(v Values) (SlicingParams, error) {
			p := SlicingParams{MinVal: v.Int("min_val"), MaxVal: v.Int("max_val"), HighlightOnly: v.Bool("highlight_only")}
			if p.MinVal < 0 || p.MinVal > 255 {
				return p, v.invalid("min_val", "must be in [0,255]")
			}
			if p.MaxVal < 0 || p.MaxVal > 255 {
				return p, v.invalid("max_val", "must be in [0,255]")
			}
			if p.MinVal > p.MaxVal {
				return p, v.invalid("max_val", "must not be below min_val (%d)", p.MinVal)
			}
			return p, nil
		},
		run: func(_ *Dispatcher, img raster.Image, p SlicingParams) (*Result, error) {
			return imageResult(transform.GrayLevelSlicing(img.(*raster.Gray), p.MinVal, p.MaxVal, p.HighlightOnly)), nil
		},
	})

	register(d, &entry[PiecewiseParams]{
		name:        "piecewise_linear_transform",
		description: "Remap intensities along a curve through (x,y) control points.",
		accepts:     AcceptsGray,
		restore:     true,
		params: []ParamSpec{
			{Name: "points", Type: TypePoints, Default: "(0,0),(255,255)", Help: "control points, e.g. (0,0),(100,50),(255,255)"},
		},
		bind: func(v Values) (PiecewiseParams, error) {
			p := PiecewiseParams{Points: v.Points("points")}
			if len(p.Points) < 2 {
				return p, v.invalid("points", "need at least 2 control points")
			}
			for i, pt := range p.Points {
				if pt.X < 0 || pt.X > 255 || pt.Y < 0 || pt.Y > 255 {
					return p, v.invalid("points", "point %d (%g,%g) is outside [0,255]", i+1, pt.X, pt.Y)
				}
			}
			return p, nil
		},
		run: func(_ *Dispatcher, img raster.Image, p PiecewiseParams) (*Result, error) {
			return imageResultErr(transform.PiecewiseLinear(img.(*raster.Gray), p.Points))
		},
	})

	register(d, &entry[BitPlaneParams]{
		name:        "bit_plane_slicing",
		description: "Show one bit plane of the intensity as a black and white mask.",
		accepts:     AcceptsGray,
		restore:     true,
		params: []ParamSpec{
			{Name: "bit_plane", Type: TypeInt, Default: "7", Help: "0 = least significant, 7 = most significant"},
		},
		bind: func(v Values) (BitPlaneParams, error) {
			p := BitPlaneParams{BitPlane: v.Int("bit_plane")}
			if p.BitPlane < 0 || p.BitPlane > 7 {
				return p, v.invalid("bit_plane", "must be in [0,7]")
			}
			return p, nil
		},
		run: func(_ *Dispatcher, img raster.Image, p BitPlaneParams) (*Result, error) {
			return imageResultErr(transform.BitPlaneSlicing(img.(*raster.Gray), p.BitPlane))
		},
	})
}

func registerSpatial(d *Dispatcher) {
	register(d, &entry[BlurParams]{
		name:        "gaussian_blur",
		description: "Gaussian smoothing with a radius x radius kernel (even radii are rounded up).",
		accepts:     AcceptsAny,
		params: []ParamSpec{
			{Name: "radius", Type: TypeInt, Default: "3", Help: "kernel size in pixels (1-99)"},
		},
		bind: func(v Values) (BlurParams, error) {
			p := BlurParams{Radius: v.Int("radius")}
			if p.Radius < 1 || p.Radius > 99 {
				return p, v.invalid("radius", "must be in [1,99]")
			}
			return p, nil
		},
		run: func(_ *Dispatcher, img raster.Image, p BlurParams) (*Result, error) {
			return imageResult(transform.GaussianBlur(img, p.Radius)), nil
		},
	})

	register(d, &entry[UnsharpParams]{
		name:        "unsharp_mask",
		description: "Sharpen by subtracting a Gaussian-blurred copy: (amount+1)*original - amount*blurred.",
		accepts:     AcceptsAny,
		params: []ParamSpec{
			{Name: "radius", Type: TypeInt, Default: "5", Help: "blur kernel size in pixels (1-99)"},
			{Name: "amount", Type: TypeFloat, Default: "1.0", Help: "sharpening strength (>= 0)"},
			{Name: "sigma", Type: TypeFloat, Default: "1.0", Help: "blur standard deviation; 0 derives it from radius"},
			{Name: "threshold", Type: TypeFloat, Default: "0", Help: "leave pixels whose difference from the blur is below this"},
		},
		bind: func(v Values) (UnsharpParams, error) {
			p := UnsharpParams{
				Radius:    v.Int("radius"),
				Amount:    v.Float("amount"),
				Sigma:     v.Float("sigma"),
				Threshold: v.Float("threshold"),
			}
			switch {
			case p.Radius < 1 || p.Radius > 99:
				return p, v.invalid("radius", "must be in [1,99]")
			case p.Amount < 0:
				return p, v.invalid("amount", "must not be negative")
			case p.Sigma < 0:
				return p, v.invalid("sigma", "must not be negative")
			case p.Threshold < 0:
				return p, v.invalid("threshold", "must not be negative")
			}
			return p, nil
		},
		run: func(_ *Dispatcher, img raster.Image, p UnsharpParams) (*Result, error) {
			return imageResult(transform.UnsharpMask(img, p.Radius, p.Sigma, p.Amount, p.Threshold)), nil
		},
	})

	register(d, &entry[StrengthParams]{
		name:        "sharpen",
		description: "3x3 high-pass sharpening kernel with center weight 9+strength.",
		accepts:     AcceptsAny,
		params:      strengthParam("1.0"),
		bind:        bindStrength,
		run: func(_ *Dispatcher, img raster.Image, p StrengthParams) (*Result, error) {
			return imageResult(transform.Sharpen(img, p.Strength)), nil
		},
	})

	register(d, &entry[StrengthParams]{
		name:        "noise_reduction",
		description: "Non-local means denoising (template window 7, search window 21).",
		accepts:     AcceptsAny,
		params:      strengthParam("7"),
		bind:        bindStrength,
		run: func(_ *Dispatcher, img raster.Image, p StrengthParams) (*Result, error) {
			return imageResultErr(transform.NoiseReduction(img, p.Strength))
		},
	})

	register(d, &entry[StrengthParams]{
		name:        "enhance_vessels",
		description: "Emphasise thin line structures by subtracting a light 3x3 blur.",
		accepts:     AcceptsAny,
		params:      strengthParam("1.5"),
		bind:        bindStrength,
		run: func(_ *Dispatcher, img raster.Image, p StrengthParams) (*Result, error) {
			return imageResult(transform.EnhanceVessels(img, p.Strength)), nil
		},
	})

	register(d, &entry[ScaleParams]{
		name:        "super_resolution",
		description: "Bicubic upsampling by an integer factor (interpolation, not a learned model).",
		accepts:     AcceptsAny,
		params: []ParamSpec{
			{Name: "scale_factor", Type: TypeInt, Default: "2", Help: "integer upscale factor (1-8)"},
		},
		bind: func(v Values) (ScaleParams, error) {
			p := ScaleParams{ScaleFactor: v.Int("scale_factor")}
			if p.ScaleFactor < 1 || p.ScaleFactor > transform.MaxScaleFactor {
				return p, v.invalid("scale_factor", "must be in [1,%d]", transform.MaxScaleFactor)
			}
			return p, nil
		},
		run: func(_ *Dispatcher, img raster.Image, p ScaleParams) (*Result, error) {
			return imageResultErr(transform.SuperResolution(img, p.ScaleFactor))
		},
	})

	register(d, &entry[EdgeParams]{
		name:        "edge_detection",
		description: "Sobel gradient magnitude or Canny edges; color input keeps its original colors on edges only.",
		accepts:     AcceptsAny,
		params: []ParamSpec{
			{Name: "method", Type: TypeEnum, Default: transform.EdgeSobel, Values: []string{transform.EdgeSobel, transform.EdgeCanny}, Help: "edge detector"},
			{Name: "threshold1", Type: TypeFloat, Default: "100", Help: "Canny hysteresis threshold (>= 0)"},
			{Name: "threshold2", Type: TypeFloat, Default: "200", Help: "Canny hysteresis threshold (>= 0)"},
		},
		bind: func(v Values) (EdgeParams, error) {
			p := EdgeParams{Method: v.String("method"), Threshold1: v.Float("threshold1"), Threshold2: v.Float("threshold2")}
			if p.Threshold1 < 0 {
				return p, v.invalid("threshold1", "must not be negative")
			}
			if p.Threshold2 < 0 {
				return p, v.invalid("threshold2", "must not be negative")
			}
			return p, nil
		},
		run: func(_ *Dispatcher, img raster.Image, p EdgeParams) (*Result, error) {
			return imageResultErr(transform.EdgeDetection(img, p.Method, p.Threshold1, p.Threshold2))
		},
	})
}

func registerColor(d *Dispatcher) {
	register(d, &entry[BalanceParams]{
		name:        "color_balance",
		description: "Scale the red, green and blue channels independently.",
		accepts:     AcceptsColor,
		params: []ParamSpec{
			{Name: "r_factor", Type: TypeFloat, Default: "1.0", Help: "red multiplier (>= 0)"},
			{Name: "g_factor", Type: TypeFloat, Default: "1.0", Help: "green multiplier (>= 0)"},
			{Name: "b_factor", Type: TypeFloat, Default: "1.0", Help: "blue multiplier (>= 0)"},
		},
		bind: func(v Values) (BalanceParams, error) {
			p := BalanceParams{RFactor: v.Float("r_factor"), GFactor: v.Float("g_factor"), BFactor: v.Float("b_factor")}
			for _, name := range []string{"r_factor", "g_factor", "b_factor"} {
				if v.Float(name) < 0 {
					return p, v.invalid(name, "must not be negative")
				}
			}
			return p, nil
		},
		run: func(_ *Dispatcher, img raster.Image, p BalanceParams) (*Result, error) {
			return imageResult(transform.ColorBalance(img.(*raster.BGR), p.RFactor, p.GFactor, p.BFactor)), nil
		},
	})

	register(d, &entry[SepiaParams]{
		name:        "sepia_filter",
		description: "Blend with a sepia-toned version of the image.",
		accepts:     AcceptsColor,
		params: []ParamSpec{
			{Name: "intensity", Type: TypeFloat, Default: "0.5", Help: "0 = original, 1 = full sepia"},
		},
		bind: func(v Values) (SepiaParams, error) {
			p := SepiaParams{Intensity: v.Float("intensity")}
			if p.Intensity < 0 || p.Intensity > 1 {
				return p, v.invalid("intensity", "must be in [0,1]")
			}
			return p, nil
		},
		run: func(_ *Dispatcher, img raster.Image, p SepiaParams) (*Result, error) {
			return imageResult(transform.SepiaFilter(img.(*raster.BGR), p.Intensity)), nil
		},
	})

	register(d, &entry[PaletteParams]{
		name:        "extract_palette",
		description: "Dominant colors by k-means clustering, most common first.",
		accepts:     AcceptsColor,
		palette:     true,
		params: []ParamSpec{
			{Name: "num_colors", Type: TypeInt, Default: "5", Help: "number of colors to extract (1-32)"},
		},
		bind: func(v Values) (PaletteParams, error) {
			p := PaletteParams{NumColors: v.Int("num_colors")}
			if p.NumColors < 1 || p.NumColors > transform.MaxPaletteColors {
				return p, v.invalid("num_colors", "must be in [1,%d]", transform.MaxPaletteColors)
			}
			return p, nil
		},
		run: func(d *Dispatcher, img raster.Image, p PaletteParams) (*Result, error) {
			palette, err := transform.ExtractPalette(img.(*raster.BGR), p.NumColors, d.paletteOptions)
			if err != nil {
				return nil, err
			}
			return &Result{Palette: palette}, nil
		},
	})
}
