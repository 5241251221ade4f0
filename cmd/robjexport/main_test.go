package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Faultbox/midgard-robj/pkg/robj"
)

const triangleOBJ = `o Tri
v 0 0 0
v 1 0 0
v 0 1 0
vt 0 0
vt 1 0
vt 0 1
f 1/1 2/2 3/3
`

func writeModel(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tri.obj")
	if err := os.WriteFile(path, []byte(triangleOBJ), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// noConfig points -config at an empty file so no user config leaks in.
func noConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunExport(t *testing.T) {
	model := writeModel(t)
	out := filepath.Join(t.TempDir(), "tri.robj")

	tests := []struct {
		name string
		args []string
	}{
		{"explicit command", []string{"export", "-config", noConfig(t), "-start", "1", "-end", "3", "-o", out, model}},
		{"default command", []string{"-config", noConfig(t), "-start", "1", "-end", "3", "-o", out, model}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			if err := run(tt.args, &stdout, &stderr); err != nil {
				t.Fatalf("run: %v\nstderr: %s", err, stderr.String())
			}
			if !strings.Contains(stdout.String(), "1 triangles, 3 frames") {
				t.Errorf("stdout = %q", stdout.String())
			}

			info, err := os.Stat(out)
			if err != nil {
				t.Fatalf("output missing: %v", err)
			}
			h, _ := robj.NewHeader(1, 1, 3)
			if info.Size() != h.Layout().Size() {
				t.Errorf("size = %d, want %d", info.Size(), h.Layout().Size())
			}
		})
	}
}

func TestRunExportErrors(t *testing.T) {
	model := writeModel(t)
	out := filepath.Join(t.TempDir(), "x.robj")

	var stdout, stderr bytes.Buffer
	err := run([]string{"export", "-config", noConfig(t), "-o", out}, &stdout, &stderr)
	if !errors.Is(err, errUsage) {
		t.Errorf("no inputs: got %v, want usage error", err)
	}

	err = run([]string{"export", "-config", noConfig(t), "-start", "5", "-end", "1", "-o", out, model}, &stdout, &stderr)
	if err == nil {
		t.Error("expected error for inverted range")
	}

	err = run([]string{"export", "-config", noConfig(t), "-o", out, filepath.Join(t.TempDir(), "gone.obj")}, &stdout, &stderr)
	if err == nil {
		t.Error("expected error for missing input")
	}
	if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
		t.Error("failed export must not create output")
	}
}

func TestRunPreview(t *testing.T) {
	model := writeModel(t)
	dir := t.TempDir()

	var stdout, stderr bytes.Buffer
	err := run([]string{"preview", "-config", noConfig(t), "-frame", "2", "-o", filepath.Join(dir, "tri.robj"), model}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("run: %v\nstderr: %s", err, stderr.String())
	}
	if _, err := os.Stat(filepath.Join(dir, "tri.glb")); err != nil {
		t.Errorf("preview file missing: %v", err)
	}
}

func TestRunLayout(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if err := run([]string{"layout", "-triangles", "2", "-start", "0", "-end", "9", "-frames", "2"}, &stdout, &stderr); err != nil {
		t.Fatalf("run: %v", err)
	}

	// 12 + 2*6*4 = 60 bytes before frame 0; each frame 2*18*4 = 144
	out := stdout.String()
	for _, want := range []string{
		"Frames:      10 (0..9)",
		"Size:        1500 bytes",
		"normals 1",
		"204",
		"... 8 more frames",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	if err := run([]string{"layout", "-start", "3", "-end", "1"}, &stdout, &stderr); !errors.Is(err, robj.ErrInvalidFrameRange) {
		t.Errorf("got %v, want ErrInvalidFrameRange", err)
	}
}

func TestRunInitConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "robjexport.yaml")

	var stdout, stderr bytes.Buffer
	if err := run([]string{"init-config", path}, &stdout, &stderr); err != nil {
		t.Fatalf("run: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "frame_end: 29") {
		t.Errorf("config = %s", data)
	}

	if err := run([]string{"init-config", path}, &stdout, &stderr); err == nil {
		t.Error("expected error when file exists")
	}
	if err := run([]string{"init-config", "-f", path}, &stdout, &stderr); err != nil {
		t.Errorf("forced overwrite: %v", err)
	}
}

func TestRunUnknownCommand(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if err := run([]string{"frobnicate"}, &stdout, &stderr); !errors.Is(err, errUsage) {
		t.Errorf("got %v, want usage error", err)
	}
	if !strings.Contains(stderr.String(), "Unknown command") {
		t.Errorf("stderr = %q", stderr.String())
	}

	stdout.Reset()
	if err := run([]string{"help"}, &stdout, &stderr); err != nil || !strings.Contains(stdout.String(), "Usage:") {
		t.Errorf("help: %v, %q", err, stdout.String())
	}
}
