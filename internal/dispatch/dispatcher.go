package dispatch

import (
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ironsheep/picwizard/internal/raster"
	"github.com/ironsheep/picwizard/internal/transform"
)

// Variant states which raster variant an operation works on.
type Variant string

const (
	AcceptsAny   Variant = "any"
	AcceptsGray  Variant = "gray"
	AcceptsColor Variant = "color"
)

// Result is the outcome of Apply. Exactly one of Image and Palette is set.
type Result struct {
	Image   raster.Image
	Palette transform.Palette
}

// OperationInfo describes a catalog entry for listings and help output.
type OperationInfo struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Accepts     Variant     `json:"accepts"`
	Output      string      `json:"output"`
	Params      []ParamSpec `json:"params"`
}

// operation is the type-erased form of an entry.
type operation interface {
	info() OperationInfo
	invoke(d *Dispatcher, img raster.Image, v Values) (*Result, error)
}

// entry binds an operation's coerced parameters into its typed parameter
// struct P and runs the transform.
//
// The image handed to run has already been converted to the accepted
// variant. When restore is set, an image result is converted back to the
// caller's channel count.
type entry[P any] struct {
	name        string
	description string
	accepts     Variant
	restore     bool
	palette     bool
	params      []ParamSpec
	bind        func(v Values) (P, error)
	run         func(d *Dispatcher, img raster.Image, p P) (*Result, error)
}

func (e *entry[P]) info() OperationInfo {
	out := "image"
	if e.palette {
		out = "palette"
	}
	params := e.params
	if params == nil {
		params = []ParamSpec{}
	}
	return OperationInfo{
		Name:        e.name,
		Description: e.description,
		Accepts:     e.accepts,
		Output:      out,
		Params:      params,
	}
}

func (e *entry[P]) invoke(d *Dispatcher, img raster.Image, v Values) (*Result, error) {
	p, err := e.bind(v)
	if err != nil {
		return nil, err
	}

	in := raster.FromImage(img)
	switch e.accepts {
	case AcceptsGray:
		in = raster.WithChannels(in, 1)
	case AcceptsColor:
		in = raster.WithChannels(in, 3)
	}

	res, err := e.run(d, in, p)
	if err != nil {
		return nil, &ProcessingError{Operation: e.name, Err: err}
	}
	if res == nil || (res.Image == nil && res.Palette == nil) {
		return nil, &ProcessingError{Operation: e.name, Err: fmt.Errorf("transform produced no output")}
	}
	if e.restore && res.Image != nil {
		res.Image = raster.WithChannels(res.Image, img.Channels())
	}
	return res, nil
}

// Dispatcher maps operation names onto the transform catalog. It holds no
// per-call state and is safe for concurrent use.
type Dispatcher struct {
	ops            map[string]operation
	log            zerolog.Logger
	paletteOptions transform.PaletteOptions
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger used for per-call debug events. The global
// zerolog logger is used by default.
func WithLogger(l zerolog.Logger) Option {
	return func(d *Dispatcher) {
		d.log = l
	}
}

// WithPaletteOptions overrides the clustering options of extract_palette.
func WithPaletteOptions(o transform.PaletteOptions) Option {
	return func(d *Dispatcher) {
		d.paletteOptions = o
	}
}

// New returns a Dispatcher with the full enhancement catalog registered.
func New(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		ops:            make(map[string]operation),
		log:            log.Logger,
		paletteOptions: transform.DefaultPaletteOptions(),
	}
	for _, opt := range opts {
		opt(d)
	}
	registerCatalog(d)
	return d
}

func register[P any](d *Dispatcher, e *entry[P]) {
	if _, dup := d.ops[e.name]; dup {
		panic("dispatch: duplicate operation " + e.name)
	}
	d.ops[e.name] = e
}

// Has reports whether op names a catalog entry.
func (d *Dispatcher) Has(op string) bool {
	_, ok := d.ops[op]
	return ok
}

// Operations lists every catalog entry sorted by name.
func (d *Dispatcher) Operations() []OperationInfo {
	infos := make([]OperationInfo, 0, len(d.ops))
	for _, op := range d.ops {
		infos = append(infos, op.info())
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

// Apply runs operation op on img with the given string parameters.
//
// Parameters missing from params take their documented default; present
// ones must parse, or Apply fails with an *InvalidParameterError naming
// them. Keys that op does not declare are ignored.
//
// img is never modified. On failure no image is returned.
//
// # Errors
//
//   - *UnknownOperationError (ErrUnknownOperation): op is not in the catalog.
//   - *InvalidParameterError (ErrInvalidParameter): coercion or a domain
//     constraint failed.
//   - *ProcessingError (ErrProcessingFailure): the transform failed or
//     panicked.
func (d *Dispatcher) Apply(op string, img raster.Image, params map[string]string) (res *Result, err error) {
	e, ok := d.ops[op]
	if !ok {
		return nil, &UnknownOperationError{Name: op}
	}
	if img == nil || img.Width() <= 0 || img.Height() <= 0 {
		return nil, &ProcessingError{Operation: op, Err: fmt.Errorf("empty image")}
	}

	v, err := coerce(op, e.info().Params, params)
	if err != nil {
		return nil, err
	}

	d.log.Debug().
		Str("operation", op).
		Interface("params", params).
		Int("width", img.Width()).
		Int("height", img.Height()).
		Int("channels", img.Channels()).
		Msg("applying enhancement")

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			res, err = nil, &ProcessingError{Operation: op, Err: fmt.Errorf("panic: %v", r)}
		}
		if err != nil {
			d.log.Debug().Err(err).Str("operation", op).Msg("enhancement failed")
			return
		}
		d.log.Debug().
			Str("operation", op).
			Dur("elapsed", time.Since(start)).
			Msg("enhancement applied")
	}()

	return e.invoke(d, img, v)
}
