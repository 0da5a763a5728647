package materials

import (
	"mirror-engine/core"
)

// Material holds the per-surface shading inputs. Per-frame lighting scalars
// (emitted/ambient radiance and reflection coefficients) come from
// shading.Params instead; the material contributes the base color and
// opacity.
type Material struct {
	Name      string
	BaseColor core.Color
	Opacity   float32 // 1.0 = fully opaque; below 1 the renderer blends
}

func NewMaterial(name string) *Material {
	return &Material{
		Name:      name,
		BaseColor: core.Color{R: 0.8, G: 0.8, B: 0.8, A: 1.0},
		Opacity:   1.0,
	}
}

// Translucent reports whether the surface needs the blended ground pass.
func (m *Material) Translucent() bool {
	return m.Opacity < 1.0
}

// Clone creates a copy of the material under a new name.
func (m *Material) Clone(newName string) *Material {
	clone := *m
	clone.Name = newName
	return &clone
}

func DefaultMaterial() *Material {
	return NewMaterial("Default")
}

// MirrorGroundMaterial is the semi-transparent slab the reflection shows
// through. Alpha 0.5 composites the mirrored object under the ground tint.
func MirrorGroundMaterial() *Material {
	m := NewMaterial("MirrorGround")
	m.BaseColor = core.Color{R: 0.55, G: 0.6, B: 0.65, A: 0.5}
	m.Opacity = 0.5
	return m
}

// BrassMaterial approximates the classic teapot rendering look.
func BrassMaterial() *Material {
	m := NewMaterial("Brass")
	m.BaseColor = core.Color{R: 0.78, G: 0.57, B: 0.11, A: 1.0}
	return m
}
