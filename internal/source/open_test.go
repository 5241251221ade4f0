package source

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Faultbox/midgard-robj/internal/config"
	"github.com/Faultbox/midgard-robj/pkg/encoding"
	"github.com/Faultbox/midgard-robj/pkg/robj"
)

// memArchive is an in-memory Archive keyed by normalized path.
type memArchive struct {
	files map[string][]byte
	err   error
}

func (a *memArchive) Contains(path string) bool {
	_, ok := a.files[encoding.NormalizeGRFPath(path)]
	return ok
}

func (a *memArchive) Read(path string) ([]byte, error) {
	if a.err != nil {
		return nil, a.err
	}
	return a.files[encoding.NormalizeGRFPath(path)], nil
}

// triangleRSM serializes a v1.5 model holding one flat triangle node.
func triangleRSM() []byte {
	var buf bytes.Buffer
	w := func(v any) { binary.Write(&buf, binary.LittleEndian, v) }
	name := func(s string) {
		var fixed [40]byte
		copy(fixed[:], s)
		w(fixed)
	}

	buf.WriteString("GRSM")
	w([2]uint8{1, 5})
	w(int32(1000)) // anim length
	w(int32(1))    // flat shading
	w(uint8(255))  // alpha
	w([16]byte{})
	w(int32(0)) // textures
	name("tri")
	w(int32(1)) // nodes

	name("tri")
	name("")
	w(int32(0)) // node textures
	w([9]float32{1, 0, 0, 0, 1, 0, 0, 0, 1})
	w([3]float32{}) // offset
	w([3]float32{}) // position
	w(float32(0))   // rot angle
	w([3]float32{0, 1, 0})
	w([3]float32{1, 1, 1})
	w(int32(3))
	w([3][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}})
	w(int32(3))
	for _, uv := range [][2]float32{{0, 0}, {1, 0}, {0, 1}} {
		w([4]uint8{255, 255, 255, 255})
		w(uv)
	}
	w(int32(1))
	w([3]uint16{0, 1, 2})
	w([3]uint16{0, 1, 2})
	w(uint16(0)) // texture id
	w(uint16(0)) // padding
	w(int32(0))  // two side
	w(int32(0))  // smooth group
	w(int32(0))  // rot keys
	w(int32(0))  // scale keys
	w(int32(0))  // volume boxes
	return buf.Bytes()
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.RSM.FlipY = false
	return cfg
}

func TestOpenFromDisk(t *testing.T) {
	dir := t.TempDir()
	objPath := filepath.Join(dir, "quad.obj")
	rsmPath := filepath.Join(dir, "Tri.RSM")
	os.WriteFile(objPath, []byte(texturedQuad), 0644)
	os.WriteFile(rsmPath, triangleRSM(), 0644)

	tests := []struct {
		path      string
		wantName  string
		triangles int
	}{
		{objPath, "quad/Quad", 2},
		{rsmPath, "Tri/tri", 1},
	}

	for _, tt := range tests {
		t.Run(filepath.Base(tt.path), func(t *testing.T) {
			scene, err := Open(tt.path, testConfig(), nil)
			if err != nil {
				t.Fatalf("Open: %v", err)
			}
			objects, err := scene.EvaluateAt(0)
			if err != nil {
				t.Fatalf("EvaluateAt: %v", err)
			}
			if objects[0].Name != tt.wantName {
				t.Errorf("Name = %q, want %q", objects[0].Name, tt.wantName)
			}
			uv, err := robj.BuildUVTable(objects)
			if err != nil {
				t.Fatalf("BuildUVTable: %v", err)
			}
			if uv.Triangles != tt.triangles {
				t.Errorf("Triangles = %d, want %d", uv.Triangles, tt.triangles)
			}
		})
	}
}

func TestOpenFromArchive(t *testing.T) {
	archive := &memArchive{files: map[string][]byte{
		"data/model/tri.rsm": triangleRSM(),
	}}

	scene, err := Open(`data\model\TRI.rsm`, testConfig(), archive)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	objects, _ := scene.EvaluateAt(0)
	if len(objects) != 1 || objects[0].Name != "TRI/tri" {
		t.Errorf("objects = %+v", objects)
	}
}

func TestOpenErrors(t *testing.T) {
	dir := t.TempDir()
	txtPath := filepath.Join(dir, "notes.txt")
	os.WriteFile(txtPath, []byte("hello"), 0644)
	badRSM := filepath.Join(dir, "bad.rsm")
	os.WriteFile(badRSM, []byte("XXXX"), 0644)
	badOBJ := filepath.Join(dir, "bad.obj")
	os.WriteFile(badOBJ, []byte("f 1 2 3\n"), 0644)

	readErr := errors.New("disk on fire")
	broken := &memArchive{files: map[string][]byte{"data/a.rsm": nil}, err: readErr}

	tests := []struct {
		name    string
		path    string
		archive Archive
		wantErr error
	}{
		{"missing", filepath.Join(dir, "missing.rsm"), nil, ErrInputNotFound},
		{"missing from archive", "data/b.rsm", broken, ErrInputNotFound},
		{"unsupported extension", txtPath, nil, ErrUnsupportedInput},
		{"archive read failure", "data/a.rsm", broken, readErr},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Open(tt.path, testConfig(), tt.archive)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
		})
	}

	for _, path := range []string{badRSM, badOBJ} {
		if _, err := Open(path, testConfig(), nil); err == nil || !strings.Contains(err.Error(), "parsing") {
			t.Errorf("Open(%s) = %v, want parse error", filepath.Base(path), err)
		}
	}
}

func TestOpenAllCombinesInOrder(t *testing.T) {
	dir := t.TempDir()
	objPath := filepath.Join(dir, "quad.obj")
	rsmPath := filepath.Join(dir, "tri.rsm")
	os.WriteFile(objPath, []byte(texturedQuad), 0644)
	os.WriteFile(rsmPath, triangleRSM(), 0644)

	scene, err := OpenAll([]string{rsmPath, objPath}, testConfig(), nil)
	if err != nil {
		t.Fatalf("OpenAll: %v", err)
	}
	objects, err := scene.EvaluateAt(3)
	if err != nil {
		t.Fatalf("EvaluateAt: %v", err)
	}
	if len(objects) != 2 || objects[0].Name != "tri/tri" || objects[1].Name != "quad/Quad" {
		t.Errorf("objects = %+v", objects)
	}

	if _, err := OpenAll([]string{rsmPath, filepath.Join(dir, "nope.obj")}, testConfig(), nil); !errors.Is(err, ErrInputNotFound) {
		t.Errorf("got %v, want ErrInputNotFound", err)
	}
}

func TestCombinedWrapsErrors(t *testing.T) {
	boom := errors.New("boom")
	scene := Combined{
		robj.StaticScene{},
		robj.SceneFunc(func(int) ([]robj.Object, error) { return nil, boom }),
	}
	_, err := scene.EvaluateAt(0)
	if !errors.Is(err, boom) || !strings.Contains(err.Error(), "input 1") {
		t.Errorf("got %v", err)
	}
}
