package mirror

import (
	"mirror-engine/math"
)

// ObliqueProjection replaces the near-plane row of proj so that the near
// clip plane coincides with the given world-space plane (Lengyel's method).
// The GPU's built-in clipping then rejects mirrored geometry behind the
// mirror without any shader-side work. Must be recomputed whenever the
// camera or the plane changes.
//
// The visible half-space is the mirror side away from the camera. The plane
// may be passed in either orientation; the sign is fixed up internally.
func ObliqueProjection(proj, view math.Mat4, p Plane) math.Mat4 {
	// Plane to camera space. Points map with p' = p·V, so plane coefficients
	// map with the inverse transpose.
	c := p.Vec4().MulMat(view.Inverse().Transpose())

	// The camera sits at the origin of camera space and must be on the
	// negative side of the clip plane (the visible half-space is the far
	// side of the mirror). Plane function at the origin is c.W.
	if c.W > 0 {
		c = c.Mul(-1)
	}

	// Corner of the view frustum diagonally opposite the plane, expressed in
	// camera space via the projection's inverse diagonal terms.
	q := math.Vec4{
		X: (sgn(c.X) + proj[2][0]) / proj[0][0],
		Y: (sgn(c.Y) + proj[2][1]) / proj[1][1],
		Z: -1,
		W: (1 + proj[2][2]) / proj[3][2],
	}

	// Scale the plane so the far plane of the new frustum stays usable, then
	// substitute it for the z output column (clip z = dot(c', p) - w).
	scaled := c.Mul(2 / c.Dot(q))
	out := proj
	out[0][2] = scaled.X
	out[1][2] = scaled.Y
	out[2][2] = scaled.Z + 1
	out[3][2] = scaled.W
	return out
}

func sgn(v float32) float32 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
