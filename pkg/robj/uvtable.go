package robj

import "fmt"

// UVTable is the per-corner UV data shared by every frame.
type UVTable struct {
	Data      []float32 // 6 floats per triangle: (u,v) for each corner
	Triangles int
}

// BuildUVTable walks objects and faces in order and emits the UV of every
// triangle corner. The triangle count sizes every later frame table.
func BuildUVTable(objects []Object) (UVTable, error) {
	var table UVTable
	for _, obj := range objects {
		if obj.Mesh == nil {
			return UVTable{}, objectError(obj.Name, ErrNotAMesh)
		}
		mesh := obj.Mesh
		if mesh.UVs == nil {
			return UVTable{}, objectError(obj.Name, ErrMissingUVChannel)
		}
		if len(mesh.UVs) != len(mesh.Faces) {
			return UVTable{}, objectError(obj.Name, fmt.Errorf("%w: %d UV faces, %d faces",
				ErrUVFaceCountMismatch, len(mesh.UVs), len(mesh.Faces)))
		}

		for i, uvFace := range mesh.UVs {
			shape, err := ShapeForUV(len(uvFace))
			if err != nil {
				return UVTable{}, faceError(obj.Name, i, err)
			}
			if shape != mesh.Faces[i].Shape {
				return UVTable{}, faceError(obj.Name, i, fmt.Errorf("%w: %s UVs on a %s face",
					ErrUVFaceCountMismatch, shape, mesh.Faces[i].Shape))
			}

			tris, err := Triangulate(shape, uvFace)
			if err != nil {
				return UVTable{}, faceError(obj.Name, i, err)
			}
			for _, tri := range tris {
				for _, uv := range tri {
					table.Data = append(table.Data, uv[0], uv[1])
				}
			}
			table.Triangles += len(tris)
		}
	}
	return table, nil
}
