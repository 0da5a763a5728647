package math

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
)

const eps = 1e-4

func mat4Near(t *testing.T, expected, got Mat4, msg string) {
	t.Helper()
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			assert.InDeltaf(t, expected[i][j], got[i][j], eps,
				"%s: element [%d][%d]", msg, i, j)
		}
	}
}

func TestVec3Operations(t *testing.T) {
	v1 := NewVec3(1, 2, 3)
	v2 := NewVec3(4, 5, 6)

	assert.Equal(t, NewVec3(5, 7, 9), v1.Add(v2))
	assert.Equal(t, NewVec3(3, 3, 3), v2.Sub(v1))
	assert.Equal(t, NewVec3(2, 4, 6), v1.Mul(2))
	assert.Equal(t, float32(32), v1.Dot(v2)) // 1*4 + 2*5 + 3*6

	// Right x Up = Front in a right-handed system
	assert.Equal(t, Vec3Front, Vec3Right.Cross(Vec3Up))
}

func TestVec3Normalize(t *testing.T) {
	n := NewVec3(3, 0, 0).Normalize()
	assert.Equal(t, NewVec3(1, 0, 0), n)
	assert.InDelta(t, 1, n.Length(), eps)

	// Zero vector must not produce NaN
	z := Vec3Zero.Normalize()
	assert.Equal(t, Vec3Zero, z)
	assert.False(t, math32.IsNaN(z.X))
}

func TestMat4TranslationRowVector(t *testing.T) {
	m := Mat4Translation(NewVec3(1, 2, 3))
	p := m.MulVec3(NewVec3(0, 0, 0))
	assert.Equal(t, NewVec3(1, 2, 3), p)
}

func TestMat4MulOrder(t *testing.T) {
	// a.Mul(b) applies a first: scale then translate lands at (2+1, 0, 0)
	scale := Mat4Scale(NewVec3(2, 2, 2))
	trans := Mat4Translation(NewVec3(1, 0, 0))
	p := scale.Mul(trans).MulVec3(NewVec3(1, 0, 0))
	assert.Equal(t, NewVec3(3, 0, 0), p)
}

func TestMat4Transpose(t *testing.T) {
	m := Mat4Translation(NewVec3(1, 2, 3))
	tr := m.Transpose()
	assert.Equal(t, float32(1), tr[0][3])
	mat4Near(t, m, tr.Transpose(), "double transpose")
}

func TestMat4Inverse(t *testing.T) {
	cases := []struct {
		name string
		m    Mat4
	}{
		{"identity", Mat4Identity()},
		{"translation", Mat4Translation(NewVec3(1, -2, 3))},
		{"rotation", Mat4RotationY(0.7)},
		{"nonuniform scale", Mat4Scale(NewVec3(2, -1, 0.5))},
		{"composed", Mat4Scale(NewVec3(1, -1, 1)).Mul(Mat4RotationX(0.3)).Mul(Mat4Translation(NewVec3(0, 1, 0)))},
		{"perspective", Mat4Perspective(1.0, 1.5, 0.1, 100)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mat4Near(t, Mat4Identity(), tc.m.Mul(tc.m.Inverse()), "m * inv(m)")
			mat4Near(t, Mat4Identity(), tc.m.Inverse().Mul(tc.m), "inv(m) * m")
		})
	}
}

func TestMat4InverseSingular(t *testing.T) {
	mat4Near(t, Mat4Identity(), Mat4Zero().Inverse(), "singular falls back to identity")
}

func TestMat4Determinant3(t *testing.T) {
	assert.InDelta(t, 1, Mat4Identity().Determinant3(), eps)
	assert.InDelta(t, -1, Mat4Scale(NewVec3(1, -1, 1)).Determinant3(), eps)
	assert.InDelta(t, 8, Mat4Scale(NewVec3(2, 2, 2)).Determinant3(), eps)
	// rotations preserve orientation
	assert.InDelta(t, 1, Mat4RotationZ(1.3).Determinant3(), eps)
}

func TestMat4NormalMatrix(t *testing.T) {
	// For a rotation, the normal matrix equals the matrix itself.
	r := Mat4RotationY(0.5)
	mat4Near(t, r, r.NormalMatrix(), "rotation normal matrix")

	// For a non-uniform scale it must be the inverse scale.
	s := Mat4Scale(NewVec3(2, 1, 1))
	n := s.NormalMatrix()
	assert.InDelta(t, 0.5, n[0][0], eps)
	assert.InDelta(t, 1.0, n[1][1], eps)
}

func TestMat4Perspective(t *testing.T) {
	proj := Mat4Perspective(math32.Pi/2, 1, 1, 10)

	// A point on the near plane maps to clip z = -w.
	near := NewVec4(0, 0, -1, 1).MulMat(proj)
	assert.InDelta(t, -near.W, near.Z, eps)

	// A point on the far plane maps to clip z = +w.
	far := NewVec4(0, 0, -10, 1).MulMat(proj)
	assert.InDelta(t, far.W, far.Z, eps)
}

func TestMat4LookAt(t *testing.T) {
	view := Mat4LookAt(NewVec3(0, 0, 5), Vec3Zero, Vec3Up)

	// The eye maps to the origin of camera space.
	assert.Equal(t, Vec3Zero, view.MulVec3(NewVec3(0, 0, 5)))

	// The target sits in front of the camera (negative z).
	p := view.MulVec3(Vec3Zero)
	assert.InDelta(t, -5, p.Z, eps)
}

func TestMat4TRS(t *testing.T) {
	m := Mat4TRS(NewVec3(5, 0, 0), Vec3Zero, NewVec3(2, 2, 2))
	// Scale applies before translation.
	assert.Equal(t, NewVec3(7, 0, 0), m.MulVec3(NewVec3(1, 0, 0)))
}
