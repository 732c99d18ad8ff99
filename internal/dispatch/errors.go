package dispatch

import (
	"errors"
	"fmt"
)

// Error kinds reported by Apply. Match them with errors.Is; the concrete
// types below carry the details and are reachable through errors.As.
var (
	ErrUnknownOperation  = errors.New("unknown operation")
	ErrInvalidParameter  = errors.New("invalid parameter")
	ErrProcessingFailure = errors.New("processing failure")
)

// UnknownOperationError names an operation that has no catalog entry.
type UnknownOperationError struct {
	Name string
}

func (e *UnknownOperationError) Error() string {
	return fmt.Sprintf("unknown enhancement method: %s", e.Name)
}

func (e *UnknownOperationError) Is(target error) bool {
	return target == ErrUnknownOperation
}

// InvalidParameterError reports a parameter that failed coercion or a
// domain constraint.
type InvalidParameterError struct {
	Operation string
	Name      string
	Value     string
	Reason    string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("%s: invalid parameter %s=%q: %s", e.Operation, e.Name, e.Value, e.Reason)
}

func (e *InvalidParameterError) Is(target error) bool {
	return target == ErrInvalidParameter
}

// ProcessingError wraps a failure raised while a transform was running.
type ProcessingError struct {
	Operation string
	Err       error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("%s: processing failed: %v", e.Operation, e.Err)
}

func (e *ProcessingError) Unwrap() error {
	return e.Err
}

func (e *ProcessingError) Is(target error) bool {
	return target == ErrProcessingFailure
}
