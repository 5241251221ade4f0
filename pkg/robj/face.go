package robj

import "fmt"

// Shape is the face variant: a triangle or a quad.
type Shape uint8

const (
	ShapeTriangle Shape = 3
	ShapeQuad     Shape = 4
)

// String returns a human-readable shape name.
func (s Shape) String() string {
	switch s {
	case ShapeTriangle:
		return "Triangle"
	case ShapeQuad:
		return "Quad"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(s))
	}
}

// Corners returns the number of corners of the shape.
func (s Shape) Corners() int {
	return int(s)
}

// Corner positions of each emitted triangle, by shape.
// A quad (v0,v1,v2,v3) always splits into (v0,v1,v2) and (v0,v2,v3).
var (
	triangleSplit = [][3]int{{0, 1, 2}}
	quadSplit     = [][3]int{{0, 1, 2}, {0, 2, 3}}
)

func (s Shape) split() ([][3]int, error) {
	switch s {
	case ShapeTriangle:
		return triangleSplit, nil
	case ShapeQuad:
		return quadSplit, nil
	default:
		return nil, fmt.Errorf("%w: %d corners", ErrUnsupportedFaceArity, uint8(s))
	}
}

// Triangles returns how many triangles the shape emits.
func (s Shape) Triangles() int {
	split, err := s.split()
	if err != nil {
		return 0
	}
	return len(split)
}

// ShapeFor maps a corner count to a shape.
func ShapeFor(corners int) (Shape, error) {
	switch corners {
	case 3:
		return ShapeTriangle, nil
	case 4:
		return ShapeQuad, nil
	default:
		return 0, fmt.Errorf("%w: %d corners", ErrUnsupportedFaceArity, corners)
	}
}

// ShapeForUV maps a UV face's corner count to a shape.
// More than four UV corners reports ErrTooManyUVCoords.
func ShapeForUV(corners int) (Shape, error) {
	if corners > 4 {
		return 0, fmt.Errorf("%w: %d corners", ErrTooManyUVCoords, corners)
	}
	return ShapeFor(corners)
}

// Triangulate splits per-corner data of a face into triangles.
// The returned triangles keep the source winding.
func Triangulate[T any](shape Shape, corners []T) ([][3]T, error) {
	split, err := shape.split()
	if err != nil {
		return nil, err
	}
	if len(corners) != shape.Corners() {
		return nil, fmt.Errorf("%w: %s given %d corners", ErrUnsupportedFaceArity, shape, len(corners))
	}

	tris := make([][3]T, len(split))
	for i, idx := range split {
		tris[i] = [3]T{corners[idx[0]], corners[idx[1]], corners[idx[2]]}
	}
	return tris, nil
}

// Face is one mesh face as handed over by the host.
type Face struct {
	Shape  Shape
	Verts  [4]int     // vertex indices; only the first Shape.Corners() are used
	Smooth bool       // use per-vertex normals instead of Normal
	Normal [3]float32 // face normal in object space
}

// NewFace builds a face from a vertex index list of length 3 or 4.
func NewFace(verts []int, smooth bool, normal [3]float32) (Face, error) {
	shape, err := ShapeFor(len(verts))
	if err != nil {
		return Face{}, err
	}
	f := Face{Shape: shape, Smooth: smooth, Normal: normal}
	copy(f.Verts[:], verts)
	return f, nil
}

// Corners returns the face's vertex indices.
func (f Face) Corners() []int {
	n := f.Shape.Corners()
	if n > len(f.Verts) {
		n = len(f.Verts)
	}
	return f.Verts[:n]
}

// Triangles splits the face's vertex indices into triangles.
func (f Face) Triangles() ([][3]int, error) {
	return Triangulate(f.Shape, f.Corners())
}
