package field

import "errors"

// Construction errors. Queries never fail.
var (
	// ErrInvalidSamples indicates a grid with fewer than one sample per axis.
	ErrInvalidSamples = errors.New("field: grid samples must be positive")

	// ErrInvalidSpacing indicates a non-positive or non-finite grid spacing.
	ErrInvalidSpacing = errors.New("field: grid spacing must be positive and finite")

	// ErrInvalidOrigin indicates a grid origin with NaN or Inf components.
	ErrInvalidOrigin = errors.New("field: grid origin must be finite")

	// ErrDataLength indicates a sample buffer that does not hold samples^3 vectors.
	ErrDataLength = errors.New("field: sample buffer length does not match grid size")
)
