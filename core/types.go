package core

import (
	"mirror-engine/math"
)

type Color struct {
	R, G, B, A float32
}

var (
	ColorWhite = Color{1, 1, 1, 1}
	ColorBlack = Color{0, 0, 0, 1}
	ColorRed   = Color{1, 0, 0, 1}
	ColorGreen = Color{0, 1, 0, 1}
	ColorBlue  = Color{0, 0, 1, 1}
)

// Vertex is the CPU-side vertex layout uploaded verbatim to the GPU.
// Attribute offsets are derived with unsafe.Offsetof in the backend, so
// field order here is part of the vertex buffer contract.
type Vertex struct {
	Position math.Vec3
	Normal   math.Vec3
	UV       math.Vec2
	Color    Color
}

type ClearValue struct {
	Color   Color
	Depth   float32
	Stencil uint32
}

// DefaultClear clears to a dark background with the depth and stencil
// buffers reset for a fresh mirror pass.
func DefaultClear() ClearValue {
	return ClearValue{
		Color:   Color{R: 0.1, G: 0.1, B: 0.12, A: 1},
		Depth:   1,
		Stencil: 0,
	}
}
