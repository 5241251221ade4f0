package math

// Mat3 is a 3x3 matrix in column-major order.
type Mat3 [9]float32

// Mat3Identity returns a 3x3 identity matrix.
func Mat3Identity() Mat3 {
	return Mat3{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}
}

// MulVec multiplies the matrix by a column vector.
func (m Mat3) MulVec(v [3]float32) [3]float32 {
	return [3]float32{
		m[0]*v[0] + m[3]*v[1] + m[6]*v[2],
		m[1]*v[0] + m[4]*v[1] + m[7]*v[2],
		m[2]*v[0] + m[5]*v[1] + m[8]*v[2],
	}
}

// Determinant returns the determinant.
func (m Mat3) Determinant() float32 {
	return m[0]*(m[4]*m[8]-m[7]*m[5]) -
		m[3]*(m[1]*m[8]-m[7]*m[2]) +
		m[6]*(m[1]*m[5]-m[4]*m[2])
}

// TransformNormal rotates n by m and renormalizes the result.
// A zero-length result stays zero.
func (m Mat3) TransformNormal(n [3]float32) [3]float32 {
	return Vec3FromArray(m.MulVec(n)).Normalize().Array()
}
