package robj

import "fmt"

// FrameTable holds one frame's corner data.
// Both slices carry 9 floats per triangle, in UV table order.
type FrameTable struct {
	Normals   []float32
	Positions []float32
}

// Triangles returns the number of triangles in the frame.
func (f FrameTable) Triangles() int {
	return len(f.Positions) / 9
}

// SampleFrame converts evaluated objects into world-space corner normals and
// positions. triangles is the count from the UV pass; it sizes the buffers
// and any difference reports ErrTopologyChanged.
func SampleFrame(objects []Object, triangles int) (FrameTable, error) {
	frame := FrameTable{
		Normals:   make([]float32, 0, triangles*9),
		Positions: make([]float32, 0, triangles*9),
	}

	for _, obj := range objects {
		if obj.Mesh == nil {
			return FrameTable{}, objectError(obj.Name, ErrNotAMesh)
		}
		if err := sampleObject(&frame, obj); err != nil {
			return FrameTable{}, err
		}
	}

	if got := frame.Triangles(); got != triangles {
		return FrameTable{}, fmt.Errorf("%w: %d triangles, expected %d", ErrTopologyChanged, got, triangles)
	}
	return frame, nil
}

func sampleObject(frame *FrameTable, obj Object) error {
	mesh := obj.Mesh
	normalMatrix := obj.World.Upper3()

	world := make([][3]float32, len(mesh.Vertices))
	for i, v := range mesh.Vertices {
		world[i] = obj.World.TransformPoint(v.Position)
	}

	for fi, face := range mesh.Faces {
		tris, err := face.Triangles()
		if err != nil {
			return faceError(obj.Name, fi, err)
		}
		for _, vid := range face.Corners() {
			if vid < 0 || vid >= len(mesh.Vertices) {
				return faceError(obj.Name, fi, fmt.Errorf("%w: index %d of %d", ErrVertexOutOfRange, vid, len(mesh.Vertices)))
			}
		}

		var faceNormal [3]float32
		if !face.Smooth {
			faceNormal = normalMatrix.TransformNormal(face.Normal)
		}

		for _, tri := range tris {
			for _, vid := range tri {
				n := faceNormal
				if face.Smooth {
					n = normalMatrix.TransformNormal(mesh.Vertices[vid].Normal)
				}
				p := world[vid]
				frame.Normals = append(frame.Normals, n[0], n[1], n[2])
				frame.Positions = append(frame.Positions, p[0], p[1], p[2])
			}
		}
	}
	return nil
}

// SampleFrames evaluates scene at every frame in [start, end] and returns the
// concatenated vertex tables: per frame, all normals then all positions.
func SampleFrames(scene Scene, start, end, triangles int) ([]float32, error) {
	if start > end {
		return nil, fmt.Errorf("%w: %d > %d", ErrInvalidFrameRange, start, end)
	}

	frames := end - start + 1
	verts := make([]float32, 0, frames*triangles*18)
	for f := start; f <= end; f++ {
		objects, err := scene.EvaluateAt(f)
		if err != nil {
			return nil, fmt.Errorf("evaluating frame %d: %w", f, err)
		}
		table, err := SampleFrame(objects, triangles)
		if err != nil {
			return nil, fmt.Errorf("sampling frame %d: %w", f, err)
		}
		verts = append(verts, table.Normals...)
		verts = append(verts, table.Positions...)
	}
	return verts, nil
}
