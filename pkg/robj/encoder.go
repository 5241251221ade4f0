package robj

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	stdmath "math"
	"os"
	"path/filepath"
)

// HeaderSize is the size of the ROBJ header in bytes.
const HeaderSize = 12

const (
	uvFloatsPerTriangle    = 3 * 2
	tableFloatsPerTriangle = 3 * 3
	frameFloatsPerTriangle = 2 * tableFloatsPerTriangle
	floatSize              = 4
)

// Header is the fixed ROBJ file header.
type Header struct {
	Triangles  int32
	FrameStart int32
	FrameEnd   int32
}

// NewHeader checks that the values fit the header's int32 fields.
func NewHeader(triangles, start, end int) (Header, error) {
	for _, v := range []int{triangles, start, end} {
		if v < stdmath.MinInt32 || v > stdmath.MaxInt32 {
			return Header{}, fmt.Errorf("%w: %d does not fit in int32", ErrLayoutMismatch, v)
		}
	}
	if triangles < 0 {
		return Header{}, fmt.Errorf("%w: negative triangle count %d", ErrLayoutMismatch, triangles)
	}
	return Header{Triangles: int32(triangles), FrameStart: int32(start), FrameEnd: int32(end)}, nil
}

// Layout returns the byte layout implied by the header.
func (h Header) Layout() Layout {
	return Layout{Triangles: int64(h.Triangles), Frames: h.Frames()}
}

// Frames returns the number of sampled frames, zero for an inverted range.
func (h Header) Frames() int64 {
	if h.FrameEnd < h.FrameStart {
		return 0
	}
	return int64(h.FrameEnd) - int64(h.FrameStart) + 1
}

// Layout is the offset arithmetic of an ROBJ file. All offsets are in bytes
// from the start of the file; there is no padding anywhere.
type Layout struct {
	Triangles int64
	Frames    int64
}

// UVFloats returns the number of floats in the UV table.
func (l Layout) UVFloats() int64 { return l.Triangles * uvFloatsPerTriangle }

// TableFloats returns the number of floats in one frame's normal (or position) table.
func (l Layout) TableFloats() int64 { return l.Triangles * tableFloatsPerTriangle }

// FrameFloats returns the number of floats in one frame.
func (l Layout) FrameFloats() int64 { return l.Triangles * frameFloatsPerTriangle }

// VertexFloats returns the number of floats across all frames.
func (l Layout) VertexFloats() int64 { return l.Frames * l.FrameFloats() }

// UVOffset returns the offset of the UV table.
func (l Layout) UVOffset() int64 { return HeaderSize }

// FrameOffset returns the offset of frame i (0-based).
func (l Layout) FrameOffset(i int64) int64 {
	return l.UVOffset() + l.UVFloats()*floatSize + i*l.FrameFloats()*floatSize
}

// NormalsOffset returns the offset of frame i's normal table.
func (l Layout) NormalsOffset(i int64) int64 { return l.FrameOffset(i) }

// PositionsOffset returns the offset of frame i's position table.
func (l Layout) PositionsOffset(i int64) int64 {
	return l.FrameOffset(i) + l.TableFloats()*floatSize
}

// Size returns the total file size.
func (l Layout) Size() int64 { return l.FrameOffset(l.Frames) }

// Encode writes header, UV table and vertex tables as little-endian values.
func Encode(w io.Writer, h Header, uv, verts []float32) error {
	l := h.Layout()
	if int64(len(uv)) != l.UVFloats() {
		return fmt.Errorf("%w: UV table has %d floats, header needs %d", ErrLayoutMismatch, len(uv), l.UVFloats())
	}
	if int64(len(verts)) != l.VertexFloats() {
		return fmt.Errorf("%w: vertex tables have %d floats, header needs %d", ErrLayoutMismatch, len(verts), l.VertexFloats())
	}

	if err := binary.Write(w, binary.LittleEndian, h); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, uv); err != nil {
		return fmt.Errorf("writing UV table: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, verts); err != nil {
		return fmt.Errorf("writing vertex tables: %w", err)
	}
	return nil
}

// WriteFile encodes to a temporary file next to path and renames it into
// place. On failure the destination is left untouched.
func WriteFile(path string, h Header, uv, verts []float32) (int64, error) {
	l := h.Layout()
	if int64(len(uv)) != l.UVFloats() || int64(len(verts)) != l.VertexFloats() {
		return 0, Encode(io.Discard, h, uv, verts)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".robj-*")
	if err != nil {
		return 0, fmt.Errorf("%w: creating temp file: %w", ErrIO, err)
	}
	tmpPath := tmp.Name()
	_ = os.Chmod(tmpPath, 0644)

	fail := func(err error) (int64, error) {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return 0, fmt.Errorf("%w: %w", ErrIO, err)
	}

	bw := bufio.NewWriterSize(tmp, 64*1024)
	if err := Encode(bw, h, uv, verts); err != nil {
		return fail(err)
	}
	if err := bw.Flush(); err != nil {
		return fail(err)
	}
	if err := tmp.Sync(); err != nil {
		return fail(err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return 0, fmt.Errorf("%w: %w", ErrIO, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return 0, fmt.Errorf("%w: renaming into place: %w", ErrIO, err)
	}
	return l.Size(), nil
}
