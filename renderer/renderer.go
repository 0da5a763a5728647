package renderer

import (
	"fmt"

	"mirror-engine/core"
	"mirror-engine/math"
	"mirror-engine/mirror"
	"mirror-engine/scene"
	"mirror-engine/shading"
)

// Options configure the fixed parts of the reflection pipeline.
type Options struct {
	// MirrorHeight is the y coordinate of the mirror plane.
	MirrorHeight float32

	// GroundExtent is the half-extent of the mirror ground quad.
	GroundExtent float32

	// Ground selects the full composition: stencil-masked reflection under
	// an alpha-blended ground. When false only the mirrored and real object
	// draws run (the minimal two-draw variant).
	Ground bool
}

func DefaultOptions() Options {
	return Options{
		MirrorHeight: -1,
		GroundExtent: 3,
		Ground:       true,
	}
}

// FrameStats are the draw counters from the most recent frame.
type FrameStats struct {
	Draws     int
	Triangles int
}

// MirrorRenderer renders one object and its planar reflection each frame.
// The reflection matrix is derived once from the mirror plane; transform
// sets and uniform buffers are recomputed and rewritten every frame.
//
// Frame sequence (full variant):
//  1. clear color+depth+stencil
//  2. ground into the stencil buffer only (mirror footprint)
//  3. mirrored object, stencil-gated, oblique-clipped, culling flipped
//  4. ground again with alpha blending over the reflection
//  5. real object last, so the translucent ground never occludes it
//  6. present
type MirrorRenderer struct {
	device Device
	object *scene.Mesh
	ground *scene.Mesh
	Camera *scene.Camera

	plane      mirror.Plane
	reflection math.Mat4
	light      math.Vec3

	lastStats FrameStats
}

// NewMirrorRenderer validates and uploads the meshes and precomputes the
// reflection matrix. Failures here are startup failures: the caller should
// treat them as fatal.
func NewMirrorRenderer(device Device, object *scene.Mesh, camera *scene.Camera, opts Options) (*MirrorRenderer, error) {
	if err := object.Validate(); err != nil {
		return nil, fmt.Errorf("object mesh: %w", err)
	}
	if err := device.UploadMesh(object); err != nil {
		return nil, fmt.Errorf("upload object: %w", err)
	}

	r := &MirrorRenderer{
		device: device,
		object: object,
		Camera: camera,
		plane:  mirror.PlaneY(opts.MirrorHeight),
		light:  math.NewVec3(2, 3, 2),
	}
	r.reflection = mirror.ReflectionMatrix(r.plane)

	if opts.Ground {
		r.ground = scene.CreateGroundPlane(opts.GroundExtent, opts.MirrorHeight)
		if err := device.UploadMesh(r.ground); err != nil {
			return nil, fmt.Errorf("upload ground: %w", err)
		}
	}
	return r, nil
}

// SetLight moves the world-space point light. The mirrored draw derives its
// own reflected copy each frame.
func (r *MirrorRenderer) SetLight(pos math.Vec3) {
	r.light = pos
}

// Plane returns the mirror plane the renderer reflects across.
func (r *MirrorRenderer) Plane() mirror.Plane {
	return r.plane
}

// RenderFrame runs one pass sequence for the object under the given model
// matrix. params are re-read from the caller every frame, never cached. A
// failed draw submission aborts the frame with an error; the caller logs it
// and skips to the next frame, there is no mid-frame recovery.
func (r *MirrorRenderer) RenderFrame(model math.Mat4, params shading.Params) error {
	view := r.Camera.ViewMatrix()
	proj := r.Camera.ProjectionMatrix()
	stats := FrameStats{}

	r.device.Clear(core.DefaultClear())

	// ── Ground footprint into stencil ────────────────────────────────────
	if r.ground != nil {
		r.device.SetColorWrite(false)
		r.device.SetDepthWrite(false)
		r.device.SetStencil(StencilMark(1))
		r.device.SetCullMode(CullNone)
		if err := r.drawMesh(r.ground, NewTransformSet(math.Mat4Identity(), view, proj), r.light, params, &stats); err != nil {
			return fmt.Errorf("ground stencil pass: %w", err)
		}
		r.device.SetColorWrite(true)
		r.device.SetDepthWrite(true)
	}

	// ── Mirrored object ──────────────────────────────────────────────────
	// Reflect both the geometry and the light so the mirrored highlights
	// stay physically consistent, and clip at the mirror plane so nothing
	// behind it leaks into the reflection.
	reflectedModel := model.Mul(r.reflection)
	mirrorProj := mirror.ObliqueProjection(proj, view, r.plane)
	mirroredSet := NewTransformSet(reflectedModel, view, mirrorProj)

	if mirror.FlipsWinding(reflectedModel) {
		r.device.SetCullMode(CullFront)
	} else {
		r.device.SetCullMode(CullBack)
	}
	if r.ground != nil {
		r.device.SetStencil(StencilTest(1))
	} else {
		r.device.SetStencil(StencilOff())
	}
	if err := r.drawMesh(r.object, mirroredSet, mirror.ReflectPoint(r.plane, r.light), params, &stats); err != nil {
		return fmt.Errorf("mirrored pass: %w", err)
	}

	// ── Translucent ground over the reflection ───────────────────────────
	if r.ground != nil {
		r.device.SetStencil(StencilOff())
		r.device.SetCullMode(CullNone)
		r.device.SetBlend(true)
		r.device.SetDepthWrite(false)
		if err := r.drawMesh(r.ground, NewTransformSet(math.Mat4Identity(), view, proj), r.light, params, &stats); err != nil {
			return fmt.Errorf("ground blend pass: %w", err)
		}
		r.device.SetBlend(false)
		r.device.SetDepthWrite(true)
	}

	// ── Real object ──────────────────────────────────────────────────────
	r.device.SetStencil(StencilOff())
	r.device.SetCullMode(CullBack)
	if err := r.drawMesh(r.object, NewTransformSet(model, view, proj), r.light, params, &stats); err != nil {
		return fmt.Errorf("real pass: %w", err)
	}

	r.device.Present()
	r.lastStats = stats
	return nil
}

// drawMesh packs a fresh uniform buffer and submits one draw. Each draw
// rewrites the shared buffer: the mirrored and real draws must never see
// each other's matrices or light.
func (r *MirrorRenderer) drawMesh(mesh *scene.Mesh, ts TransformSet, light math.Vec3, params shading.Params, stats *FrameStats) error {
	u := DrawUniforms{
		MVP:          ts.MVP,
		Model:        ts.Model,
		NormalMatrix: ts.NormalMatrix,
		Eye:          r.Camera.Position,
		Light:        light,
		Params:       params,
	}
	if err := r.device.WriteUniforms(u.Marshal()); err != nil {
		return fmt.Errorf("write uniforms: %w", err)
	}
	if err := r.device.Draw(mesh); err != nil {
		return fmt.Errorf("draw %s: %w", mesh.Name, err)
	}
	stats.Draws++
	stats.Triangles += mesh.TriangleCount()
	return nil
}

// Stats returns counters from the most recent RenderFrame call.
func (r *MirrorRenderer) Stats() FrameStats {
	return r.lastStats
}

// Destroy releases GPU resources owned by the renderer.
func (r *MirrorRenderer) Destroy() {
	r.device.ReleaseMesh(r.object)
	if r.ground != nil {
		r.device.ReleaseMesh(r.ground)
	}
}
