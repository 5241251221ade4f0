package formats

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// OBJ format errors.
var (
	ErrOBJSyntax     = errors.New("invalid OBJ statement")
	ErrOBJIndexRange = errors.New("OBJ index out of range")
)

// OBJNoSmoothing marks faces read before any "s" statement.
const OBJNoSmoothing = -1

// OBJCorner references one face corner. Indices are zero-based into the
// file-wide pools; TexCoord and Normal are -1 when absent.
type OBJCorner struct {
	Position int
	TexCoord int
	Normal   int
}

// OBJFace is a polygon of any arity. SmoothGroup is 0 for "s off",
// positive for a smoothing group, OBJNoSmoothing when unset.
type OBJFace struct {
	Corners     []OBJCorner
	SmoothGroup int
}

// OBJObject is a named run of faces started by an "o" or "g" statement.
type OBJObject struct {
	Name  string
	Faces []OBJFace
}

// OBJ is a parsed Wavefront OBJ file.
type OBJ struct {
	Positions [][3]float32
	TexCoords [][2]float32
	Normals   [][3]float32
	Objects   []OBJObject
}

// ParseOBJ parses OBJ text. Statements other than v, vt, vn, f, o, g and s
// are ignored. Faces before the first "o" or "g" belong to "default".
func ParseOBJ(r io.Reader) (*OBJ, error) {
	obj := &OBJ{}
	current := OBJObject{Name: "default"}
	smooth := OBJNoSmoothing

	flush := func() {
		if len(current.Faces) > 0 {
			obj.Objects = append(obj.Objects, current)
		}
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		var err error
		switch fields[0] {
		case "v":
			var v [3]float32
			v, err = parseOBJFloats3(fields[1:])
			obj.Positions = append(obj.Positions, v)
		case "vn":
			var v [3]float32
			v, err = parseOBJFloats3(fields[1:])
			obj.Normals = append(obj.Normals, v)
		case "vt":
			var uv [2]float32
			uv, err = parseOBJTexCoord(fields[1:])
			obj.TexCoords = append(obj.TexCoords, uv)
		case "f":
			var face OBJFace
			face, err = obj.parseFace(fields[1:])
			face.SmoothGroup = smooth
			current.Faces = append(current.Faces, face)
		case "o", "g":
			flush()
			name := "default"
			if len(fields) > 1 {
				name = strings.Join(fields[1:], " ")
			}
			current = OBJObject{Name: name}
		case "s":
			smooth, err = parseOBJSmoothing(fields[1:])
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading OBJ: %w", err)
	}
	flush()

	return obj, nil
}

// ParseOBJBytes parses OBJ text held in memory.
func ParseOBJBytes(data []byte) (*OBJ, error) {
	return ParseOBJ(bytes.NewReader(data))
}

// ParseOBJFile parses an OBJ file from disk.
func ParseOBJFile(path string) (*OBJ, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening OBJ file: %w", err)
	}
	defer f.Close()
	return ParseOBJ(f)
}

// FaceCount returns the number of faces across all objects.
func (o *OBJ) FaceCount() int {
	total := 0
	for _, object := range o.Objects {
		total += len(object.Faces)
	}
	return total
}

func (o *OBJ) parseFace(args []string) (OBJFace, error) {
	if len(args) == 0 {
		return OBJFace{}, fmt.Errorf("%w: face without corners", ErrOBJSyntax)
	}
	face := OBJFace{Corners: make([]OBJCorner, len(args))}
	for i, arg := range args {
		// v, v/vt, v//vn, v/vt/vn
		parts := strings.Split(arg, "/")
		if len(parts) > 3 || parts[0] == "" {
			return OBJFace{}, fmt.Errorf("%w: corner %q", ErrOBJSyntax, arg)
		}

		var err error
		c := OBJCorner{TexCoord: -1, Normal: -1}
		if c.Position, err = resolveOBJIndex(parts[0], len(o.Positions)); err != nil {
			return OBJFace{}, err
		}
		if len(parts) > 1 && parts[1] != "" {
			if c.TexCoord, err = resolveOBJIndex(parts[1], len(o.TexCoords)); err != nil {
				return OBJFace{}, err
			}
		}
		if len(parts) > 2 && parts[2] != "" {
			if c.Normal, err = resolveOBJIndex(parts[2], len(o.Normals)); err != nil {
				return OBJFace{}, err
			}
		}
		face.Corners[i] = c
	}
	return face, nil
}

// resolveOBJIndex converts a one-based or negative (relative) index into
// a zero-based index into a pool of n elements.
func resolveOBJIndex(s string, n int) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: index %q", ErrOBJSyntax, s)
	}
	switch {
	case i > 0 && i <= n:
		return i - 1, nil
	case i < 0 && -i <= n:
		return n + i, nil
	default:
		return 0, fmt.Errorf("%w: %d of %d", ErrOBJIndexRange, i, n)
	}
}

func parseOBJFloats3(args []string) ([3]float32, error) {
	var v [3]float32
	if len(args) < 3 {
		return v, fmt.Errorf("%w: expected 3 components, got %d", ErrOBJSyntax, len(args))
	}
	for i := range v {
		f, err := strconv.ParseFloat(args[i], 32)
		if err != nil {
			return v, fmt.Errorf("%w: %q", ErrOBJSyntax, args[i])
		}
		v[i] = float32(f)
	}
	return v, nil
}

func parseOBJTexCoord(args []string) ([2]float32, error) {
	var uv [2]float32
	if len(args) < 1 {
		return uv, fmt.Errorf("%w: empty texture coordinate", ErrOBJSyntax)
	}
	for i := 0; i < len(uv) && i < len(args); i++ {
		f, err := strconv.ParseFloat(args[i], 32)
		if err != nil {
			return uv, fmt.Errorf("%w: %q", ErrOBJSyntax, args[i])
		}
		uv[i] = float32(f)
	}
	return uv, nil
}

func parseOBJSmoothing(args []string) (int, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("%w: empty smoothing group", ErrOBJSyntax)
	}
	switch args[0] {
	case "off":
		return 0, nil
	case "on":
		return 1, nil
	}
	group, err := strconv.Atoi(args[0])
	if err != nil || group < 0 {
		return 0, fmt.Errorf("%w: smoothing group %q", ErrOBJSyntax, args[0])
	}
	return group, nil
}
