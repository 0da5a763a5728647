package scene

import (
	"fmt"

	"mirror-engine/core"
	"mirror-engine/materials"
	"mirror-engine/math"
)

// Mesh holds CPU-side vertex/index data. It is immutable after load;
// GPU upload is managed by the renderer backend.
type Mesh struct {
	Name     string
	Vertices []core.Vertex
	Indices  []uint32

	// Material holds surface shading properties. If nil, the renderer uses
	// materials.DefaultMaterial().
	Material *materials.Material

	// GPUData is set by the renderer backend (e.g. *opengl.GPUMesh).
	// Do not access directly; use the Device API.
	GPUData interface{}
}

// NewMesh builds a Mesh and validates the index invariants. Every mesh that
// enters the renderer goes through here, so a draw can assume valid indices.
func NewMesh(name string, vertices []core.Vertex, indices []uint32) (*Mesh, error) {
	m := &Mesh{
		Name:     name,
		Vertices: vertices,
		Indices:  indices,
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("mesh %q: %w", name, err)
	}
	return m, nil
}

// Validate checks the index invariants: indices come in triangles and every
// index is a valid offset into the vertex slice.
func (m *Mesh) Validate() error {
	if len(m.Vertices) == 0 {
		return fmt.Errorf("no vertices")
	}
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("index count %d is not a multiple of 3", len(m.Indices))
	}
	for i, idx := range m.Indices {
		if int(idx) >= len(m.Vertices) {
			return fmt.Errorf("index %d out of range at position %d (vertex count %d)",
				idx, i, len(m.Vertices))
		}
	}
	return nil
}

func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// mustMesh wraps NewMesh for the built-in primitives, whose data is known
// valid at compile time.
func mustMesh(name string, vertices []core.Vertex, indices []uint32) *Mesh {
	m, err := NewMesh(name, vertices, indices)
	if err != nil {
		panic(err)
	}
	return m
}

// CreateUnitTriangle returns the single triangle (0,0,0) (1,0,0) (0,1,0)
// with +z normals.
func CreateUnitTriangle() *Mesh {
	n := math.Vec3Front
	vertices := []core.Vertex{
		{Position: math.NewVec3(0, 0, 0), Normal: n, UV: math.NewVec2(0, 0), Color: core.ColorWhite},
		{Position: math.NewVec3(1, 0, 0), Normal: n, UV: math.NewVec2(1, 0), Color: core.ColorWhite},
		{Position: math.NewVec3(0, 1, 0), Normal: n, UV: math.NewVec2(0, 1), Color: core.ColorWhite},
	}
	return mustMesh("UnitTriangle", vertices, []uint32{0, 1, 2})
}

// CreateGroundPlane returns a horizontal quad of the given half-extent at
// height y, facing up. This is the mirror surface: it is drawn twice per
// frame, once into the stencil buffer and once blended over the reflection.
func CreateGroundPlane(halfExtent, y float32) *Mesh {
	n := math.Vec3Up
	s := halfExtent
	vertices := []core.Vertex{
		{Position: math.NewVec3(-s, y, -s), Normal: n, UV: math.NewVec2(0, 0), Color: core.ColorWhite},
		{Position: math.NewVec3(s, y, -s), Normal: n, UV: math.NewVec2(1, 0), Color: core.ColorWhite},
		{Position: math.NewVec3(s, y, s), Normal: n, UV: math.NewVec2(1, 1), Color: core.ColorWhite},
		{Position: math.NewVec3(-s, y, s), Normal: n, UV: math.NewVec2(0, 1), Color: core.ColorWhite},
	}
	// Counter-clockwise seen from above (+y)
	indices := []uint32{0, 2, 1, 0, 3, 2}
	mesh := mustMesh("MirrorGround", vertices, indices)
	mesh.Material = materials.MirrorGroundMaterial()
	return mesh
}

// CreateCube returns a cube of the given edge length centered at the origin,
// used as the demo object when no model file is supplied.
func CreateCube(size float32) *Mesh {
	s := size / 2

	face := func(normal math.Vec3, a, b, c, d math.Vec3) []core.Vertex {
		return []core.Vertex{
			{Position: a, Normal: normal, UV: math.NewVec2(0, 0), Color: core.ColorWhite},
			{Position: b, Normal: normal, UV: math.NewVec2(1, 0), Color: core.ColorWhite},
			{Position: c, Normal: normal, UV: math.NewVec2(1, 1), Color: core.ColorWhite},
			{Position: d, Normal: normal, UV: math.NewVec2(0, 1), Color: core.ColorWhite},
		}
	}

	var vertices []core.Vertex
	vertices = append(vertices, face(math.Vec3Front,
		math.NewVec3(-s, -s, s), math.NewVec3(s, -s, s), math.NewVec3(s, s, s), math.NewVec3(-s, s, s))...)
	vertices = append(vertices, face(math.Vec3Back,
		math.NewVec3(s, -s, -s), math.NewVec3(-s, -s, -s), math.NewVec3(-s, s, -s), math.NewVec3(s, s, -s))...)
	vertices = append(vertices, face(math.Vec3Up,
		math.NewVec3(-s, s, s), math.NewVec3(s, s, s), math.NewVec3(s, s, -s), math.NewVec3(-s, s, -s))...)
	vertices = append(vertices, face(math.Vec3Down,
		math.NewVec3(-s, -s, -s), math.NewVec3(s, -s, -s), math.NewVec3(s, -s, s), math.NewVec3(-s, -s, s))...)
	vertices = append(vertices, face(math.Vec3Right,
		math.NewVec3(s, -s, s), math.NewVec3(s, -s, -s), math.NewVec3(s, s, -s), math.NewVec3(s, s, s))...)
	vertices = append(vertices, face(math.Vec3Left,
		math.NewVec3(-s, -s, -s), math.NewVec3(-s, -s, s), math.NewVec3(-s, s, s), math.NewVec3(-s, s, -s))...)

	var indices []uint32
	for f := uint32(0); f < 6; f++ {
		base := f * 4
		indices = append(indices, base, base+1, base+2, base+2, base+3, base)
	}

	return mustMesh("Cube", vertices, indices)
}
