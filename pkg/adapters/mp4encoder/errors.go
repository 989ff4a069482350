package mp4encoder

import "errors"

var (
	// ErrNotInitialized is returned when encoder methods are called before Begin.
	ErrNotInitialized = errors.New("mp4encoder: encoder not initialized")

	// ErrBadDimensions is returned when Begin gets non-positive dimensions.
	ErrBadDimensions = errors.New("mp4encoder: invalid dimensions")
)
