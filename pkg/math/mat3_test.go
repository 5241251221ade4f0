package math

import (
	"math"
	"testing"
)

func TestMat3MulVecIdentity(t *testing.T) {
	v := [3]float32{1, 2, 3}
	if got := Mat3Identity().MulVec(v); got != v {
		t.Errorf("I * v = %v, want %v", got, v)
	}
}

func TestMat3TransformNormal(t *testing.T) {
	tests := []struct {
		name string
		m    Mat3
		n    [3]float32
		want [3]float32
	}{
		{"identity", Mat3Identity(), [3]float32{0, 0, 1}, [3]float32{0, 0, 1}},
		{"uniform scale renormalized", Scale(5, 5, 5).Upper3(), [3]float32{1, 0, 0}, [3]float32{1, 0, 0}},
		{"zero stays zero", Mat3Identity(), [3]float32{}, [3]float32{}},
		{"rotate z 90", RotateAxis([3]float32{0, 0, 1}, float32(math.Pi/2)).Upper3(), [3]float32{1, 0, 0}, [3]float32{0, 1, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.m.TransformNormal(tt.n)
			for i := range got {
				if abs(got[i]-tt.want[i]) > 1e-5 {
					t.Fatalf("TransformNormal(%v) = %v, want %v", tt.n, got, tt.want)
				}
			}
		})
	}
}
