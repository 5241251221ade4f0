// Package robj exports animated triangle meshes to the ROBJ vertex-animation format.
//
// An ROBJ file is a 12-byte header (triangle count, first frame, last frame)
// followed by a per-corner UV table and, for every frame, all corner normals
// then all corner positions. Corners are matched across tables purely by
// position, so every pass walks objects, faces, triangles and corners in the
// same order.
package robj

import "github.com/Faultbox/midgard-robj/pkg/math"

// Vertex is a mesh vertex in object space.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
}

// Mesh is a snapshot of an object's geometry at one frame.
type Mesh struct {
	Vertices []Vertex
	Faces    []Face
	// UVs holds one UV face per geometric face. Nil means the mesh has no UV channel.
	UVs [][][2]float32
}

// TriangleCount returns the number of triangles the mesh's faces emit.
func (m *Mesh) TriangleCount() int {
	total := 0
	for _, f := range m.Faces {
		total += f.Shape.Triangles()
	}
	return total
}

// Object is a selected scene item.
type Object struct {
	Name  string
	Mesh  *Mesh // nil when the item carries no mesh data
	World math.Mat4
}

// Scene is the host's frame-scrub capability.
//
// EvaluateAt returns every selected object, in selection order, as it is at
// frame. Implementations must keep object, face and vertex order identical
// for every frame of one export; the exporter only checks triangle counts.
type Scene interface {
	EvaluateAt(frame int) ([]Object, error)
}

// StaticScene is a Scene whose objects do not change over time.
type StaticScene []Object

// EvaluateAt returns the same objects for every frame.
func (s StaticScene) EvaluateAt(int) ([]Object, error) {
	return s, nil
}

// SceneFunc adapts a function to the Scene interface.
type SceneFunc func(frame int) ([]Object, error)

// EvaluateAt calls f(frame).
func (f SceneFunc) EvaluateAt(frame int) ([]Object, error) {
	return f(frame)
}
