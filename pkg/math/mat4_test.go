package math

import (
	"math"
	"testing"
)

func TestIdentity(t *testing.T) {
	m := Identity()
	// Diagonal should be 1
	if m[0] != 1 || m[5] != 1 || m[10] != 1 || m[15] != 1 {
		t.Error("Identity diagonal should be 1")
	}
	// Off-diagonal should be 0
	if m[1] != 0 || m[4] != 0 {
		t.Error("Identity off-diagonal should be 0")
	}
}

func TestMulIdentity(t *testing.T) {
	m := Translate(1, 2, 3)
	id := Identity()
	result := m.Mul(id)

	for i := 0; i < 16; i++ {
		if result[i] != m[i] {
			t.Errorf("M * I should equal M, element %d: got %f, want %f", i, result[i], m[i])
		}
	}
}

func TestTranslate(t *testing.T) {
	m := Translate(5, 10, 15)

	// Translation lives in column 4 (indices 12, 13, 14)
	if m[12] != 5 || m[13] != 10 || m[14] != 15 {
		t.Errorf("Translate: got (%f, %f, %f), want (5, 10, 15)", m[12], m[13], m[14])
	}
}

func TestTransformPoint(t *testing.T) {
	m := Translate(10, 20, 30)
	result := m.TransformPoint([3]float32{1, 2, 3})

	expected := [3]float32{11, 22, 33}
	if result != expected {
		t.Errorf("TransformPoint: got %v, want %v", result, expected)
	}
}

func TestTransformPointScaleThenTranslate(t *testing.T) {
	m := Translate(1, 0, 0).Mul(Scale(2, 2, 2))
	result := m.TransformPoint([3]float32{1, 2, 3})

	expected := [3]float32{3, 4, 6}
	if result != expected {
		t.Errorf("TransformPoint: got %v, want %v", result, expected)
	}
}

func TestTransformDirectionIgnoresTranslation(t *testing.T) {
	m := Translate(100, 200, 300)
	d := [3]float32{0, 1, 0}
	if got := m.TransformDirection(d); got != d {
		t.Errorf("TransformDirection: got %v, want %v", got, d)
	}
}

func TestRotateAxisY90(t *testing.T) {
	m := RotateAxis([3]float32{0, 1, 0}, float32(math.Pi/2))
	result := m.TransformPoint([3]float32{1, 0, 0})

	// After 90 degree Y rotation, (1,0,0) becomes approximately (0,0,-1)
	if abs(result[0]) > 0.001 || abs(result[1]) > 0.001 || abs(result[2]+1) > 0.001 {
		t.Errorf("RotateAxis Y 90: got %v, want (0, 0, -1)", result)
	}
}

func TestUpper3(t *testing.T) {
	m := Translate(7, 8, 9).Mul(Scale(2, 3, 4))
	want := Mat3{
		2, 0, 0,
		0, 3, 0,
		0, 0, 4,
	}
	if got := m.Upper3(); got != want {
		t.Errorf("Upper3: got %v, want %v", got, want)
	}
}

func TestFromMat3x3(t *testing.T) {
	m3 := [9]float32{
		1, 2, 3,
		4, 5, 6,
		7, 8, 9,
	}
	m4 := FromMat3x3(m3)

	if m4[0] != 1 || m4[1] != 2 || m4[2] != 3 {
		t.Error("FromMat3x3 column 0 incorrect")
	}
	if m4[4] != 4 || m4[5] != 5 || m4[6] != 6 {
		t.Error("FromMat3x3 column 1 incorrect")
	}
	if m4[15] != 1 {
		t.Errorf("FromMat3x3 [15] should be 1, got %f", m4[15])
	}
}

func TestDeterminant3(t *testing.T) {
	tests := []struct {
		name string
		m    Mat4
		want float32
	}{
		{"identity", Identity(), 1},
		{"scale", Scale(2, 3, 4), 24},
		{"mirror y", Scale(1, -1, 1), -1},
		{"translation ignored", Translate(5, 5, 5), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.Determinant3(); got != tt.want {
				t.Errorf("Determinant3() = %v, want %v", got, tt.want)
			}
		})
	}
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
