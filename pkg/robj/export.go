package robj

import "fmt"

// Result summarizes a finished export.
type Result struct {
	Objects   int
	Triangles int
	Frames    int
	Bytes     int64
}

// Export samples scene over the closed frame range [start, end] and writes
// one ROBJ file to path. Every buffer is built before the file is opened, so
// a failed export never leaves output behind.
func Export(scene Scene, start, end int, path string) (Result, error) {
	if start > end {
		return Result{}, fmt.Errorf("%w: %d > %d", ErrInvalidFrameRange, start, end)
	}

	objects, err := scene.EvaluateAt(start)
	if err != nil {
		return Result{}, fmt.Errorf("evaluating frame %d: %w", start, err)
	}
	uv, err := BuildUVTable(objects)
	if err != nil {
		return Result{}, fmt.Errorf("building UV table: %w", err)
	}

	header, err := NewHeader(uv.Triangles, start, end)
	if err != nil {
		return Result{}, err
	}

	verts, err := SampleFrames(scene, start, end, uv.Triangles)
	if err != nil {
		return Result{}, err
	}

	size, err := WriteFile(path, header, uv.Data, verts)
	if err != nil {
		return Result{}, fmt.Errorf("writing %s: %w", path, err)
	}

	return Result{
		Objects:   len(objects),
		Triangles: uv.Triangles,
		Frames:    end - start + 1,
		Bytes:     size,
	}, nil
}
