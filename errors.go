package fractal

import "errors"

// Sentinel errors returned by the package.
var (
	// ErrInvalidRange is returned when a CodeTransformer is built with k == 0.
	ErrInvalidRange = errors.New("fractal: transform range must be non-zero")

	// ErrInvalidSize is returned for a non-positive canvas dimension.
	ErrInvalidSize = errors.New("fractal: invalid canvas size")

	// ErrInvalidConfig is returned by Config.Validate.
	ErrInvalidConfig = errors.New("fractal: invalid configuration")

	// ErrFallbackToCore indicates the backend cannot render this frame.
	// The renderer continues with the progressive core.
	ErrFallbackToCore = errors.New("fractal: falling back to core renderer")
)
