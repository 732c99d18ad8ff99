// Package dispatch is the single entry point into the enhancement catalog.
//
// A Dispatcher maps an operation name and a map of string parameters onto a
// typed call into package transform:
//
//	d := dispatch.New()
//	res, err := d.Apply("gamma_correction", img, map[string]string{"gamma": "2.2"})
//	if err != nil {
//	    return err
//	}
//	out := res.Image
//
// # Parameters
//
// Every operation declares a schema of ParamSpec values. Absent keys take
// the declared default; present keys are coerced by one shared code path and
// then bound into the operation's parameter struct, where domain constraints
// are checked. A malformed value is always an error and is never replaced by
// the default. The one deliberate repair is gamma_correction, where
// gamma <= 0 is raised to transform.MinGamma and logged at warn level.
//
// # Variants
//
// Each entry declares the raster variant it accepts. The dispatcher converts
// the input at the boundary, and entries that work on grayscale convert the
// result back to the caller's channel count. Transforms themselves never
// branch on channel count.
//
// # Errors
//
// Apply fails with *UnknownOperationError, *InvalidParameterError or
// *ProcessingError; match the kind with errors.Is against
// ErrUnknownOperation, ErrInvalidParameter and ErrProcessingFailure.
package dispatch
