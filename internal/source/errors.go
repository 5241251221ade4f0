package source

import "errors"

// Input errors.
var (
	ErrIndexOutOfRange  = errors.New("face references a missing texture coordinate")
	ErrInputNotFound    = errors.New("input not found on disk or in any archive")
	ErrUnsupportedInput = errors.New("unsupported input format")
)
