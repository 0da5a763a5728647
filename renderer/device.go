package renderer

import (
	"mirror-engine/core"
	"mirror-engine/scene"
)

// CullMode selects which triangle faces the rasterizer discards.
type CullMode int

const (
	CullBack  CullMode = iota // default for unreflected draws
	CullFront                 // mirrored draws: reflection flips winding
	CullNone
)

// StencilState is the fixed-function stencil configuration for one pass.
type StencilState struct {
	Enabled bool
	Ref     uint32
	Func    StencilFunc
	PassOp  StencilOp // applied when both stencil and depth tests pass
}

type StencilFunc int

const (
	StencilAlways StencilFunc = iota
	StencilEqual
)

type StencilOp int

const (
	StencilKeep StencilOp = iota
	StencilReplace
)

// StencilOff disables the stencil test.
func StencilOff() StencilState {
	return StencilState{}
}

// StencilMark writes ref into the stencil buffer wherever the draw covers,
// used by the ground footprint pass.
func StencilMark(ref uint32) StencilState {
	return StencilState{Enabled: true, Ref: ref, Func: StencilAlways, PassOp: StencilReplace}
}

// StencilTest passes only where the stencil buffer equals ref, used to gate
// the mirrored draw to the mirror footprint.
func StencilTest(ref uint32) StencilState {
	return StencilState{Enabled: true, Ref: ref, Func: StencilEqual, PassOp: StencilKeep}
}

// Device is the thin GPU abstraction the pass orchestrator drives: buffer
// upload, uniform writes, fixed-function state toggles, and draw
// submission. internal/opengl implements it; tests substitute a recording
// mock so the reflection and pass logic run without a GPU context.
type Device interface {
	// UploadMesh transfers vertex/index data to the GPU. Idempotent per mesh.
	UploadMesh(mesh *scene.Mesh) error
	ReleaseMesh(mesh *scene.Mesh)

	// WriteUniforms rewrites the per-draw uniform buffer. Must be called
	// before every draw: the mirrored and real draws share one buffer but
	// need different matrix sets and light vectors.
	WriteUniforms(data []byte) error

	SetCullMode(mode CullMode)
	SetBlend(enabled bool)
	SetDepthWrite(enabled bool)
	SetColorWrite(enabled bool)
	SetStencil(state StencilState)

	Clear(clear core.ClearValue)
	Draw(mesh *scene.Mesh) error
	Present()

	Destroy()
}
