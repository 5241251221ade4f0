package robj

import (
	"errors"
	"fmt"
)

// Export errors. Every one of them aborts the whole export.
var (
	ErrNotAMesh             = errors.New("object is not a mesh")
	ErrMissingUVChannel     = errors.New("mesh has no UV channel")
	ErrUVFaceCountMismatch  = errors.New("UV face count does not match mesh faces")
	ErrUnsupportedFaceArity = errors.New("unsupported face arity")
	ErrTooManyUVCoords      = fmt.Errorf("too many UV coords: %w", ErrUnsupportedFaceArity)
	ErrIO                   = errors.New("robj I/O failure")

	ErrInvalidFrameRange = errors.New("frame start is after frame end")
	ErrVertexOutOfRange  = errors.New("face references a missing vertex")
	ErrTopologyChanged   = errors.New("mesh topology changed between frames")
	ErrLayoutMismatch    = errors.New("buffer size does not match header layout")
)

// FaceError locates a failure inside the object list.
// Face is -1 when the error concerns the whole object.
type FaceError struct {
	Object string
	Face   int
	Err    error
}

func (e *FaceError) Error() string {
	if e.Face < 0 {
		return fmt.Sprintf("object %q: %v", e.Object, e.Err)
	}
	return fmt.Sprintf("object %q face %d: %v", e.Object, e.Face, e.Err)
}

func (e *FaceError) Unwrap() error {
	return e.Err
}

func objectError(name string, err error) error {
	return &FaceError{Object: name, Face: -1, Err: err}
}

func faceError(name string, face int, err error) error {
	return &FaceError{Object: name, Face: face, Err: err}
}
