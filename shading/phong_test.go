package shading

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"

	"mirror-engine/core"
	"mirror-engine/math"
	"mirror-engine/mirror"
)

func TestAmbientOnlyWhenLightBehindSurface(t *testing.T) {
	p := Params{Le: 1, La: 0.3, Kd: 0.8, Ks: 0.5, Shininess: 32}
	base := core.Color{R: 1, G: 0.5, B: 0.25, A: 1}

	// Light below a surface facing up: N·L < 0, only the ambient term.
	got := Eval(
		math.Vec3Zero, math.Vec3Up,
		math.NewVec3(0, 2, 0), math.NewVec3(0, -5, 0),
		p, base,
	)

	assert.InDelta(t, 0.3*1, got.R, 1e-5)
	assert.InDelta(t, 0.3*0.5, got.G, 1e-5)
	assert.InDelta(t, 0.3*0.25, got.B, 1e-5)
	assert.Equal(t, base.A, got.A)
}

func TestHeadOnLighting(t *testing.T) {
	// Light and eye directly above the surface point: N·L = 1 and the
	// halfway vector equals the normal, so the specular term is ks·Le.
	p := Params{Le: 2, La: 0.1, Kd: 0.5, Ks: 0.25, Shininess: 10}
	base := core.ColorWhite

	got := Eval(
		math.Vec3Zero, math.Vec3Up,
		math.NewVec3(0, 3, 0), math.NewVec3(0, 7, 0),
		p, base,
	)

	want := 0.1 + 2*0.5 + 2*0.25 // La + Le·kd + Le·ks
	assert.InDelta(t, want, got.R, 1e-5)
	assert.InDelta(t, want, got.G, 1e-5)
}

func TestDegenerateNormalNoNaN(t *testing.T) {
	got := Eval(
		math.Vec3Zero, math.Vec3Zero,
		math.NewVec3(0, 2, 0), math.NewVec3(1, 1, 1),
		DefaultParams(), core.ColorWhite,
	)
	assert.False(t, math32.IsNaN(got.R))
	assert.False(t, math32.IsNaN(got.G))
	assert.False(t, math32.IsNaN(got.B))
}

func TestShininessSharpensHighlight(t *testing.T) {
	base := core.ColorWhite
	// Off-peak viewing geometry: higher shininess must dim the highlight.
	pos := math.Vec3Zero
	normal := math.Vec3Up
	eye := math.NewVec3(1, 2, 0)
	light := math.NewVec3(-1, 2, 0.5)

	dull := Eval(pos, normal, eye, light, Params{Le: 1, Ks: 1, Shininess: 4}, base)
	sharp := Eval(pos, normal, eye, light, Params{Le: 1, Ks: 1, Shininess: 64}, base)
	assert.Greater(t, dull.R, sharp.R)
}

func TestMirroredLightingConsistency(t *testing.T) {
	// Reflecting the whole configuration (surface point, normal, eye,
	// light) across the mirror plane is an isometry: every dot product in
	// the Phong model is preserved, so the mirrored draw of the reflected
	// geometry receives exactly the illumination of the original.
	plane := mirror.PlaneY(-1)
	p := DefaultParams()
	base := core.Color{R: 0.78, G: 0.57, B: 0.11, A: 1}

	pos := math.NewVec3(0.3, 0.8, -0.2)
	normal := math.NewVec3(0.2, 0.9, 0.1).Normalize()
	eye := math.NewVec3(0, 1.5, 5)
	light := math.NewVec3(2, 3, 2)

	original := Eval(pos, normal, eye, light, p, base)
	mirrored := Eval(
		mirror.ReflectPoint(plane, pos),
		mirror.ReflectDirection(plane, normal),
		mirror.ReflectPoint(plane, eye),
		mirror.ReflectPoint(plane, light),
		p, base,
	)

	assert.InDelta(t, original.R, mirrored.R, 1e-5)
	assert.InDelta(t, original.G, mirrored.G, 1e-5)
	assert.InDelta(t, original.B, mirrored.B, 1e-5)
}
