package strip

import "errors"

var (
	// ErrInvalidParameter is returned before any pixel is written when an
	// effect or strip parameter is out of range.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrIndexOutOfRange is returned for pixel indices outside [0, N).
	ErrIndexOutOfRange = errors.New("pixel index out of range")
	// ErrDriverUnavailable wraps failures of the underlying LED output.
	ErrDriverUnavailable = errors.New("led driver unavailable")
)
