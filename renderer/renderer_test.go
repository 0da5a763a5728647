package renderer

import (
	"encoding/binary"
	"fmt"
	stdmath "math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mirror-engine/core"
	"mirror-engine/math"
	"mirror-engine/mirror"
	"mirror-engine/scene"
	"mirror-engine/shading"
)

// drawRecord captures the device state at one draw submission.
type drawRecord struct {
	Mesh       string
	Cull       CullMode
	Blend      bool
	DepthWrite bool
	ColorWrite bool
	Stencil    StencilState
	Uniforms   []byte
}

// mockDevice records every call so tests can assert the pass sequence
// without a GPU context.
type mockDevice struct {
	uploaded []string
	clears   int
	presents int
	draws    []drawRecord

	cull       CullMode
	blend      bool
	depthWrite bool
	colorWrite bool
	stencil    StencilState
	uniforms   []byte

	failDraw string // mesh name whose draw fails
}

func newMockDevice() *mockDevice {
	return &mockDevice{depthWrite: true, colorWrite: true}
}

func (d *mockDevice) UploadMesh(mesh *scene.Mesh) error {
	d.uploaded = append(d.uploaded, mesh.Name)
	return nil
}

func (d *mockDevice) ReleaseMesh(mesh *scene.Mesh) {}

func (d *mockDevice) WriteUniforms(data []byte) error {
	d.uniforms = append([]byte(nil), data...)
	return nil
}

func (d *mockDevice) SetCullMode(mode CullMode)     { d.cull = mode }
func (d *mockDevice) SetBlend(enabled bool)         { d.blend = enabled }
func (d *mockDevice) SetDepthWrite(enabled bool)    { d.depthWrite = enabled }
func (d *mockDevice) SetColorWrite(enabled bool)    { d.colorWrite = enabled }
func (d *mockDevice) SetStencil(state StencilState) { d.stencil = state }
func (d *mockDevice) Clear(clear core.ClearValue)   { d.clears++ }
func (d *mockDevice) Present()                      { d.presents++ }
func (d *mockDevice) Destroy()                      {}

func (d *mockDevice) Draw(mesh *scene.Mesh) error {
	if mesh.Name == d.failDraw {
		return fmt.Errorf("injected failure")
	}
	d.draws = append(d.draws, drawRecord{
		Mesh:       mesh.Name,
		Cull:       d.cull,
		Blend:      d.blend,
		DepthWrite: d.depthWrite,
		ColorWrite: d.colorWrite,
		Stencil:    d.stencil,
		Uniforms:   d.uniforms,
	})
	return nil
}

func uniformFloat(buf []byte, offset int) float32 {
	return stdmath.Float32frombits(binary.LittleEndian.Uint32(buf[offset:]))
}

func uniformVec3(buf []byte, offset int) math.Vec3 {
	return math.NewVec3(
		uniformFloat(buf, offset),
		uniformFloat(buf, offset+4),
		uniformFloat(buf, offset+8),
	)
}

func uniformMat4(buf []byte, offset int) math.Mat4 {
	var m math.Mat4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			m[i][j] = uniformFloat(buf, offset+(i*4+j)*4)
		}
	}
	return m
}

func newTestRenderer(t *testing.T, device Device, opts Options) *MirrorRenderer {
	t.Helper()
	camera := scene.NewCamera(0.9, 4.0/3.0, 0.1, 100)
	camera.SetPosition(math.NewVec3(0, 1.5, 5))
	camera.LookAt(math.Vec3Zero)

	r, err := NewMirrorRenderer(device, scene.CreateCube(1), camera, opts)
	require.NoError(t, err)
	return r
}

func TestFullFramePassSequence(t *testing.T) {
	device := newMockDevice()
	r := newTestRenderer(t, device, DefaultOptions())

	err := r.RenderFrame(math.Mat4Identity(), shading.DefaultParams())
	require.NoError(t, err)

	assert.Equal(t, 1, device.clears)
	assert.Equal(t, 1, device.presents)
	require.Len(t, device.draws, 4)

	// 1: ground marks the stencil footprint, color and depth writes off.
	ground1 := device.draws[0]
	assert.Equal(t, "MirrorGround", ground1.Mesh)
	assert.False(t, ground1.ColorWrite)
	assert.False(t, ground1.DepthWrite)
	assert.True(t, ground1.Stencil.Enabled)
	assert.Equal(t, StencilAlways, ground1.Stencil.Func)
	assert.Equal(t, StencilReplace, ground1.Stencil.PassOp)

	// 2: mirrored object, stencil-gated, culling flipped, depth written.
	mirrored := device.draws[1]
	assert.Equal(t, "Cube", mirrored.Mesh)
	assert.Equal(t, CullFront, mirrored.Cull)
	assert.True(t, mirrored.DepthWrite)
	assert.True(t, mirrored.Stencil.Enabled)
	assert.Equal(t, StencilEqual, mirrored.Stencil.Func)
	assert.Equal(t, uint32(1), mirrored.Stencil.Ref)

	// 3: ground blended over the reflection, no depth write.
	ground2 := device.draws[2]
	assert.Equal(t, "MirrorGround", ground2.Mesh)
	assert.True(t, ground2.Blend)
	assert.False(t, ground2.DepthWrite)
	assert.False(t, ground2.Stencil.Enabled)
	assert.True(t, ground2.ColorWrite)

	// 4: real object last, default state restored.
	realDraw := device.draws[3]
	assert.Equal(t, "Cube", realDraw.Mesh)
	assert.Equal(t, CullBack, realDraw.Cull)
	assert.False(t, realDraw.Blend)
	assert.True(t, realDraw.DepthWrite)
	assert.False(t, realDraw.Stencil.Enabled)
}

func TestMinimalVariantSkipsGround(t *testing.T) {
	device := newMockDevice()
	opts := DefaultOptions()
	opts.Ground = false
	r := newTestRenderer(t, device, opts)

	require.NoError(t, r.RenderFrame(math.Mat4Identity(), shading.DefaultParams()))

	require.Len(t, device.draws, 2)
	assert.Equal(t, "Cube", device.draws[0].Mesh)
	assert.Equal(t, CullFront, device.draws[0].Cull)
	assert.False(t, device.draws[0].Stencil.Enabled, "no stencil without the ground")
	assert.Equal(t, "Cube", device.draws[1].Mesh)
	assert.Equal(t, CullBack, device.draws[1].Cull)
}

func TestUniformsRewrittenPerDraw(t *testing.T) {
	device := newMockDevice()
	r := newTestRenderer(t, device, DefaultOptions())
	light := math.NewVec3(2, 3, 2)
	r.SetLight(light)

	model := math.Mat4RotationY(0.5)
	require.NoError(t, r.RenderFrame(model, shading.DefaultParams()))
	require.Len(t, device.draws, 4)

	mirrored := device.draws[1]
	realDraw := device.draws[3]

	// The mirrored draw sees the reflected light, the real draw the
	// original one. Sharing a stale buffer between them is the bug the
	// per-draw rewrite prevents.
	mirroredLight := uniformVec3(mirrored.Uniforms, UniformOffsetLight)
	realLight := uniformVec3(realDraw.Uniforms, UniformOffsetLight)
	assert.InDelta(t, -5, mirroredLight.Y, 1e-5, "light y mirrored across y=-1")
	assert.InDelta(t, 3, realLight.Y, 1e-5)
	assert.Equal(t, light.X, realLight.X)

	// Model matrices differ by the reflection.
	wantMirrored := model.Mul(mirror.ReflectionMatrix(mirror.PlaneY(-1)))
	gotMirrored := uniformMat4(mirrored.Uniforms, UniformOffsetModel)
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			assert.InDelta(t, wantMirrored[i][j], gotMirrored[i][j], 1e-5)
		}
	}

	gotReal := uniformMat4(realDraw.Uniforms, UniformOffsetModel)
	assert.Equal(t, model, gotReal)

	// Normal matrix is the inverse transpose, not the model matrix.
	gotNormal := uniformMat4(mirrored.Uniforms, UniformOffsetNormal)
	wantNormal := wantMirrored.NormalMatrix()
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			assert.InDelta(t, wantNormal[i][j], gotNormal[i][j], 1e-5)
		}
	}
}

func TestFrameAbortsOnDrawFailure(t *testing.T) {
	device := newMockDevice()
	r := newTestRenderer(t, device, DefaultOptions())
	device.failDraw = "Cube"

	err := r.RenderFrame(math.Mat4Identity(), shading.DefaultParams())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mirrored pass")

	// The frame stopped at the failing submission: only the ground stencil
	// draw landed, and nothing was presented.
	assert.Len(t, device.draws, 1)
	assert.Equal(t, 0, device.presents)
}

func TestStatsCountDrawsAndTriangles(t *testing.T) {
	device := newMockDevice()
	r := newTestRenderer(t, device, DefaultOptions())

	require.NoError(t, r.RenderFrame(math.Mat4Identity(), shading.DefaultParams()))

	stats := r.Stats()
	assert.Equal(t, 4, stats.Draws)
	// cube 12 triangles twice + ground 2 triangles twice
	assert.Equal(t, 28, stats.Triangles)
}
