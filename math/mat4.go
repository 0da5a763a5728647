package math

import "github.com/chewxy/math32"

// Mat4 is a 4x4 transform in row-vector convention: p' = p.MulMat(m), and
// m1.Mul(m2) applies m1 first. Translation lives in row 3, which makes the
// memory layout directly uploadable to OpenGL with transpose=false.
type Mat4 [4][4]float32

func Mat4Identity() Mat4 {
	return Mat4{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

func Mat4Zero() Mat4 {
	return Mat4{}
}

func (m Mat4) Mul(other Mat4) Mat4 {
	result := Mat4Zero()
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			for k := 0; k < 4; k++ {
				result[i][j] += m[i][k] * other[k][j]
			}
		}
	}
	return result
}

func (m Mat4) MulVec(v Vec4) Vec4 {
	return v.MulMat(m)
}

func (m Mat4) MulVec3(v Vec3) Vec3 {
	result := m.MulVec(v.ToVec4(1.0))
	return result.ToVec3DivW()
}

func (m Mat4) Transpose() Mat4 {
	return Mat4{
		{m[0][0], m[1][0], m[2][0], m[3][0]},
		{m[0][1], m[1][1], m[2][1], m[3][1]},
		{m[0][2], m[1][2], m[2][2], m[3][2]},
		{m[0][3], m[1][3], m[2][3], m[3][3]},
	}
}

func Mat4Translation(translation Vec3) Mat4 {
	m := Mat4Identity()
	m[3][0] = translation.X
	m[3][1] = translation.Y
	m[3][2] = translation.Z
	return m
}

func Mat4Scale(scale Vec3) Mat4 {
	m := Mat4Identity()
	m[0][0] = scale.X
	m[1][1] = scale.Y
	m[2][2] = scale.Z
	return m
}

func Mat4RotationX(angle float32) Mat4 {
	c := math32.Cos(angle)
	s := math32.Sin(angle)
	return Mat4{
		{1, 0, 0, 0},
		{0, c, s, 0},
		{0, -s, c, 0},
		{0, 0, 0, 1},
	}
}

func Mat4RotationY(angle float32) Mat4 {
	c := math32.Cos(angle)
	s := math32.Sin(angle)
	return Mat4{
		{c, 0, -s, 0},
		{0, 1, 0, 0},
		{s, 0, c, 0},
		{0, 0, 0, 1},
	}
}

func Mat4RotationZ(angle float32) Mat4 {
	c := math32.Cos(angle)
	s := math32.Sin(angle)
	return Mat4{
		{c, s, 0, 0},
		{-s, c, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

// Mat4Perspective builds a right-handed perspective projection with an OpenGL
// clip volume (z in [-w, w]). fovY is the vertical field of view in radians.
func Mat4Perspective(fovY, aspect, near, far float32) Mat4 {
	tanHalfFovy := math32.Tan(fovY / 2)

	m := Mat4Zero()
	m[0][0] = 1 / (aspect * tanHalfFovy)
	m[1][1] = 1 / tanHalfFovy
	m[2][2] = -(far + near) / (far - near)
	m[2][3] = -1
	m[3][2] = -(2 * far * near) / (far - near)
	return m
}

func Mat4LookAt(eye, target, up Vec3) Mat4 {
	zAxis := eye.Sub(target).Normalize()
	xAxis := up.Cross(zAxis).Normalize()
	yAxis := zAxis.Cross(xAxis)

	return Mat4{
		{xAxis.X, yAxis.X, zAxis.X, 0},
		{xAxis.Y, yAxis.Y, zAxis.Y, 0},
		{xAxis.Z, yAxis.Z, zAxis.Z, 0},
		{-xAxis.Dot(eye), -yAxis.Dot(eye), -zAxis.Dot(eye), 1},
	}
}

func Mat4TRS(translation Vec3, euler Vec3, scale Vec3) Mat4 {
	return Mat4Scale(scale).Mul(Mat4Rotation(euler)).Mul(Mat4Translation(translation))
}

func Mat4Rotation(euler Vec3) Mat4 {
	return Mat4RotationZ(euler.Z).Mul(Mat4RotationX(euler.X)).Mul(Mat4RotationY(euler.Y))
}

// det3 is the determinant of a 3x3 given row by row.
func det3(a, b, c, d, e, f, g, h, i float32) float32 {
	return a*(e*i-f*h) - b*(d*i-f*g) + c*(d*h-e*g)
}

// Determinant3 returns the determinant of the upper-left 3x3 block. Its sign
// tells whether the transform is orientation-preserving: a reflected model
// matrix has a negative value and flips triangle winding.
func (m Mat4) Determinant3() float32 {
	return det3(
		m[0][0], m[0][1], m[0][2],
		m[1][0], m[1][1], m[1][2],
		m[2][0], m[2][1], m[2][2],
	)
}

func (m Mat4) Determinant() float32 {
	return m[0][0]*m.cofactor(0, 0) + m[0][1]*m.cofactor(0, 1) +
		m[0][2]*m.cofactor(0, 2) + m[0][3]*m.cofactor(0, 3)
}

// cofactor returns (-1)^(i+j) times the 3x3 minor with row i / column j removed.
func (m Mat4) cofactor(i, j int) float32 {
	var sub [9]float32
	n := 0
	for r := 0; r < 4; r++ {
		if r == i {
			continue
		}
		for c := 0; c < 4; c++ {
			if c == j {
				continue
			}
			sub[n] = m[r][c]
			n++
		}
	}
	d := det3(sub[0], sub[1], sub[2], sub[3], sub[4], sub[5], sub[6], sub[7], sub[8])
	if (i+j)%2 != 0 {
		return -d
	}
	return d
}

// Inverse returns the full adjugate inverse. A singular matrix returns
// identity, matching the renderer's "degenerate transform draws unchanged"
// fallback.
func (m Mat4) Inverse() Mat4 {
	det := m.Determinant()
	if det == 0 {
		return Mat4Identity()
	}

	invDet := 1 / det
	inv := Mat4Zero()
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			// adjugate: transpose of the cofactor matrix
			inv[j][i] = m.cofactor(i, j) * invDet
		}
	}
	return inv
}

// NormalMatrix returns transpose(inverse(m)), the transform that keeps
// normals perpendicular under non-uniform scale. Required for reflected
// model matrices, whose negative-determinant scale would otherwise flip
// normals the wrong way.
func (m Mat4) NormalMatrix() Mat4 {
	return m.Inverse().Transpose()
}
