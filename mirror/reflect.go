// Package mirror builds the transforms for planar-reflection rendering:
// the reflection matrix that mirrors geometry and lights across a plane,
// and the oblique projection that clips the mirrored draw at the plane.
package mirror

import (
	"mirror-engine/math"
)

// Plane is n·x + d = 0 with a unit normal.
type Plane struct {
	Normal math.Vec3
	D      float32
}

// NewPlane normalizes the given normal and rescales d to match.
func NewPlane(normal math.Vec3, d float32) Plane {
	length := normal.Length()
	if length == 0 {
		return Plane{Normal: math.Vec3Up, D: d}
	}
	return Plane{Normal: normal.Mul(1 / length), D: d / length}
}

// PlaneY is the horizontal mirror plane y = height.
func PlaneY(height float32) Plane {
	return Plane{Normal: math.Vec3Up, D: -height}
}

// SignedDistance is positive on the side the normal points to.
func (p Plane) SignedDistance(point math.Vec3) float32 {
	return p.Normal.Dot(point) + p.D
}

// Vec4 returns the plane coefficients (nx, ny, nz, d).
func (p Plane) Vec4() math.Vec4 {
	return math.Vec4{X: p.Normal.X, Y: p.Normal.Y, Z: p.Normal.Z, W: p.D}
}

// ReflectionMatrix returns the affine transform mirroring points across the
// plane: the Householder map I - 2nnᵀ plus a -2dn translation. For y = -1
// this equals translating the plane to the origin, negating y, and
// translating back. The matrix is its own inverse and has determinant -1,
// so it flips triangle winding (see FlipsWinding).
func ReflectionMatrix(p Plane) math.Mat4 {
	n := p.Normal
	r := math.Mat4Identity()

	r[0][0] = 1 - 2*n.X*n.X
	r[0][1] = -2 * n.X * n.Y
	r[0][2] = -2 * n.X * n.Z
	r[1][0] = -2 * n.Y * n.X
	r[1][1] = 1 - 2*n.Y*n.Y
	r[1][2] = -2 * n.Y * n.Z
	r[2][0] = -2 * n.Z * n.X
	r[2][1] = -2 * n.Z * n.Y
	r[2][2] = 1 - 2*n.Z*n.Z

	r[3][0] = -2 * p.D * n.X
	r[3][1] = -2 * p.D * n.Y
	r[3][2] = -2 * p.D * n.Z
	return r
}

// ReflectPoint mirrors a single point across the plane. The renderer uses
// this on the light position for the mirrored draw so that reflected
// highlights land where the mirrored geometry expects them.
func ReflectPoint(p Plane, point math.Vec3) math.Vec3 {
	return point.Sub(p.Normal.Mul(2 * p.SignedDistance(point)))
}

// ReflectDirection mirrors a direction vector (normal, light direction)
// across the plane: the linear part of the reflection, no translation.
func ReflectDirection(p Plane, dir math.Vec3) math.Vec3 {
	return dir.Sub(p.Normal.Mul(2 * p.Normal.Dot(dir)))
}

// FlipsWinding reports whether the transform reverses triangle winding
// order. A mirrored draw must flip (or disable) face culling when this is
// true, otherwise the rasterizer culls every mirrored triangle.
func FlipsWinding(m math.Mat4) bool {
	return m.Determinant3() < 0
}
