package scene

import (
	mmath "mirror-engine/math"
)

// Camera is a look-at camera with a perspective projection. Matrices are
// cached and rebuilt lazily when any parameter changes.
type Camera struct {
	Position    mmath.Vec3
	Target      mmath.Vec3
	Up          mmath.Vec3
	FOV         float32
	AspectRatio float32
	NearPlane   float32
	FarPlane    float32

	viewMatrix       mmath.Mat4
	projectionMatrix mmath.Mat4
	dirty            bool
}

func NewCamera(fov, aspectRatio, nearPlane, farPlane float32) *Camera {
	return &Camera{
		Position:    mmath.NewVec3(0, 0, 5),
		Target:      mmath.Vec3Zero,
		Up:          mmath.Vec3Up,
		FOV:         fov,
		AspectRatio: aspectRatio,
		NearPlane:   nearPlane,
		FarPlane:    farPlane,
		dirty:       true,
	}
}

func (c *Camera) SetPosition(pos mmath.Vec3) {
	c.Position = pos
	c.dirty = true
}

func (c *Camera) LookAt(target mmath.Vec3) {
	c.Target = target
	c.dirty = true
}

func (c *Camera) UpdateAspectRatio(width, height float32) {
	if height > 0 {
		c.AspectRatio = width / height
		c.dirty = true
	}
}

func (c *Camera) ViewMatrix() mmath.Mat4 {
	if c.dirty {
		c.updateMatrices()
	}
	return c.viewMatrix
}

func (c *Camera) ProjectionMatrix() mmath.Mat4 {
	if c.dirty {
		c.updateMatrices()
	}
	return c.projectionMatrix
}

func (c *Camera) updateMatrices() {
	c.viewMatrix = mmath.Mat4LookAt(c.Position, c.Target, c.Up)
	c.projectionMatrix = mmath.Mat4Perspective(c.FOV, c.AspectRatio, c.NearPlane, c.FarPlane)
	c.dirty = false
}
