package pair

import "errors"

var (
	// ErrShapeUnsupported is returned by ShapeSpec for potentials without a
	// shape definition. Callers must treat it as fatal.
	ErrShapeUnsupported = errors.New("pair: shape definition not supported for this pair potential")

	// ErrMissingParam indicates a required parameter key was absent.
	ErrMissingParam = errors.New("pair: missing parameter")

	// ErrInvalidParam indicates a parameter value of the wrong kind.
	ErrInvalidParam = errors.New("pair: invalid parameter value")

	// ErrUnknownParam indicates a key the potential does not recognize.
	ErrUnknownParam = errors.New("pair: unknown parameter")
)
