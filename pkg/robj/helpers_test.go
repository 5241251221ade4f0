package robj

import (
	"encoding/binary"
	stdmath "math"
	"os"
	"testing"

	"github.com/Faultbox/midgard-robj/pkg/math"
)

// makeCube builds a unit cube of six flat quads centered on the origin.
func makeCube(t *testing.T, name string, world math.Mat4) Object {
	t.Helper()

	positions := [][3]float32{
		{-1, -1, -1}, {1, -1, -1}, {1, 1, -1}, {-1, 1, -1},
		{-1, -1, 1}, {1, -1, 1}, {1, 1, 1}, {-1, 1, 1},
	}
	quads := []struct {
		verts  []int
		normal [3]float32
	}{
		{[]int{0, 3, 2, 1}, [3]float32{0, 0, -1}},
		{[]int{4, 5, 6, 7}, [3]float32{0, 0, 1}},
		{[]int{0, 1, 5, 4}, [3]float32{0, -1, 0}},
		{[]int{3, 7, 6, 2}, [3]float32{0, 1, 0}},
		{[]int{0, 4, 7, 3}, [3]float32{-1, 0, 0}},
		{[]int{1, 2, 6, 5}, [3]float32{1, 0, 0}},
	}

	mesh := &Mesh{}
	for _, p := range positions {
		mesh.Vertices = append(mesh.Vertices, Vertex{
			Position: p,
			Normal:   math.Vec3FromArray(p).Normalize().Array(),
		})
	}
	for _, q := range quads {
		f, err := NewFace(q.verts, false, q.normal)
		if err != nil {
			t.Fatalf("NewFace(%v): %v", q.verts, err)
		}
		mesh.Faces = append(mesh.Faces, f)
		mesh.UVs = append(mesh.UVs, [][2]float32{{0, 0}, {1, 0}, {1, 1}, {0, 1}})
	}
	return Object{Name: name, Mesh: mesh, World: world}
}

// makeTriangle builds a single smooth triangle in the XY plane.
func makeTriangle(t *testing.T, name string) Object {
	t.Helper()
	f, err := NewFace([]int{0, 1, 2}, true, [3]float32{0, 0, 1})
	if err != nil {
		t.Fatalf("NewFace: %v", err)
	}
	return Object{
		Name: name,
		Mesh: &Mesh{
			Vertices: []Vertex{
				{Position: [3]float32{0, 0, 0}, Normal: [3]float32{0, 0, 1}},
				{Position: [3]float32{1, 0, 0}, Normal: [3]float32{0, 0, 1}},
				{Position: [3]float32{0, 1, 0}, Normal: [3]float32{0, 0, 1}},
			},
			Faces: []Face{f},
			UVs:   [][][2]float32{{{0, 0}, {1, 0}, {0, 1}}},
		},
		World: math.Identity(),
	}
}

// decodedFile is an ROBJ file split along its header layout.
type decodedFile struct {
	Header Header
	UV     []float32
	Frames []FrameTable
}

func readROBJ(t *testing.T, path string) decodedFile {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	if len(data) < HeaderSize {
		t.Fatalf("file too short: %d bytes", len(data))
	}

	var d decodedFile
	d.Header = Header{
		Triangles:  int32(binary.LittleEndian.Uint32(data[0:])),
		FrameStart: int32(binary.LittleEndian.Uint32(data[4:])),
		FrameEnd:   int32(binary.LittleEndian.Uint32(data[8:])),
	}
	l := d.Header.Layout()
	if int64(len(data)) != l.Size() {
		t.Fatalf("file size %d, layout says %d", len(data), l.Size())
	}

	floats := func(off, n int64) []float32 {
		out := make([]float32, n)
		for i := range out {
			out[i] = stdmath.Float32frombits(binary.LittleEndian.Uint32(data[off+int64(i)*4:]))
		}
		return out
	}
	d.UV = floats(l.UVOffset(), l.UVFloats())
	for i := int64(0); i < l.Frames; i++ {
		d.Frames = append(d.Frames, FrameTable{
			Normals:   floats(l.NormalsOffset(i), l.TableFloats()),
			Positions: floats(l.PositionsOffset(i), l.TableFloats()),
		})
	}
	return d
}

func near(a, b float32) bool {
	d := a - b
	return d < 1e-5 && d > -1e-5
}
