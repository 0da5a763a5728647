// Package opengl implements renderer.Device on OpenGL 4.1 core via go-gl.
package opengl

import (
	"fmt"
	"strings"
	"unsafe"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"mirror-engine/core"
	"mirror-engine/renderer"
	"mirror-engine/scene"
)

// GPUMesh holds the OpenGL buffer objects for an uploaded mesh.
type GPUMesh struct {
	VAO        uint32
	VBO        uint32
	EBO        uint32
	IndexCount int32
}

// Renderer is the OpenGL rendering backend. It owns one shader program and
// one 240-byte uniform buffer shared by every draw; renderer.MirrorRenderer
// rewrites the buffer before each draw.
type Renderer struct {
	program uint32
	ubo     uint32

	// Base color lives outside the uniform block: it is per-surface, not
	// per-draw, and keeping it a plain uniform preserves the fixed block
	// layout.
	baseColorLoc int32

	gpuMeshes map[*scene.Mesh]*GPUMesh
}

const uniformBlockBinding = 0

// ── Shaders ──────────────────────────────────────────────────────────────────

// vertex shader: MVP to clip space, world-space position and normal to the
// fragment stage. The normal uses the inverse-transpose model matrix from
// the uniform block; the reflected model matrix has a negative-determinant
// scale that mat3(model) alone would get wrong.
const vertSrc = `
#version 410 core
layout(location = 0) in vec3 inPosition;
layout(location = 1) in vec3 inNormal;
layout(location = 2) in vec2 inUV;
layout(location = 3) in vec4 inColor;

layout(std140) uniform DrawUniforms {
    mat4 mvp;
    mat4 model;
    mat4 normalMat;
    vec4 eye;    // xyz + pad
    vec4 light;  // xyz + emitted radiance Le in w
    vec4 params; // La, kd, ks, shininess
} u;

out vec3 fragWorldPos;
out vec3 fragNormal;
out vec4 fragColor;

void main() {
    vec4 worldPos = u.model * vec4(inPosition, 1.0);
    gl_Position  = u.mvp * vec4(inPosition, 1.0);
    fragWorldPos = worldPos.xyz;
    fragNormal   = mat3(u.normalMat) * inNormal;
    fragColor    = inColor;
}
` + "\x00"

// fragment shader: Phong with a single point light, no attenuation, no
// shadows. Matches shading.Eval exactly.
const fragSrc = `
#version 410 core
in vec3 fragWorldPos;
in vec3 fragNormal;
in vec4 fragColor;

out vec4 outColor;

layout(std140) uniform DrawUniforms {
    mat4 mvp;
    mat4 model;
    mat4 normalMat;
    vec4 eye;
    vec4 light;
    vec4 params;
} u;

uniform vec4 baseColor;

void main() {
    float Le        = u.light.w;
    float La        = u.params.x;
    float kd        = u.params.y;
    float ks        = u.params.z;
    float shininess = u.params.w;

    vec4 base = baseColor * fragColor;

    // Guard the degenerate zero normal instead of emitting NaN.
    float nLen = length(fragNormal);
    vec3 N = nLen > 0.0 ? fragNormal / nLen : vec3(0.0);
    vec3 L = normalize(u.light.xyz - fragWorldPos);
    vec3 V = normalize(u.eye.xyz - fragWorldPos);
    vec3 H = normalize(L + V);

    float diff = max(dot(N, L), 0.0);
    float spec = diff > 0.0 ? pow(max(dot(N, H), 0.0), shininess) : 0.0;

    vec3 color = La * base.rgb
               + Le * (kd * diff * base.rgb + ks * spec * vec3(1.0));
    outColor = vec4(color, base.a);
}
` + "\x00"

// NewRenderer compiles the shader pair and allocates the uniform buffer.
// An OpenGL context must be current on the calling thread.
func NewRenderer() (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	version := gl.GoStr(gl.GetString(gl.VERSION))
	fmt.Printf("OpenGL version: %s\n", version)

	prog, err := newProgram(vertSrc, fragSrc)
	if err != nil {
		return nil, fmt.Errorf("shader compile: %w", err)
	}

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	r := &Renderer{
		program:      prog,
		baseColorLoc: gl.GetUniformLocation(prog, gl.Str("baseColor\x00")),
		gpuMeshes:    make(map[*scene.Mesh]*GPUMesh),
	}

	// Uniform block: GL 4.1 has no binding= qualifier, bind it here.
	blockIdx := gl.GetUniformBlockIndex(prog, gl.Str("DrawUniforms\x00"))
	if blockIdx == gl.INVALID_INDEX {
		return nil, fmt.Errorf("uniform block DrawUniforms not found")
	}
	gl.UniformBlockBinding(prog, blockIdx, uniformBlockBinding)

	gl.GenBuffers(1, &r.ubo)
	gl.BindBuffer(gl.UNIFORM_BUFFER, r.ubo)
	gl.BufferData(gl.UNIFORM_BUFFER, renderer.UniformBlockSize, nil, gl.DYNAMIC_DRAW)
	gl.BindBufferBase(gl.UNIFORM_BUFFER, uniformBlockBinding, r.ubo)
	gl.BindBuffer(gl.UNIFORM_BUFFER, 0)

	return r, nil
}

func (r *Renderer) SetViewport(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

// ── renderer.Device implementation ───────────────────────────────────────────

func (r *Renderer) UploadMesh(mesh *scene.Mesh) error {
	if _, ok := r.gpuMeshes[mesh]; ok {
		return nil
	}
	if len(mesh.Vertices) == 0 {
		return fmt.Errorf("mesh %q has no vertices", mesh.Name)
	}

	stride := int32(unsafe.Sizeof(core.Vertex{}))

	gpu := &GPUMesh{IndexCount: int32(len(mesh.Indices))}

	gl.GenVertexArrays(1, &gpu.VAO)
	gl.GenBuffers(1, &gpu.VBO)
	gl.BindVertexArray(gpu.VAO)

	gl.BindBuffer(gl.ARRAY_BUFFER, gpu.VBO)
	gl.BufferData(gl.ARRAY_BUFFER,
		len(mesh.Vertices)*int(stride),
		gl.Ptr(mesh.Vertices),
		gl.STATIC_DRAW)

	var v core.Vertex
	posOff := int(unsafe.Offsetof(v.Position))
	normOff := int(unsafe.Offsetof(v.Normal))
	uvOff := int(unsafe.Offsetof(v.UV))
	colorOff := int(unsafe.Offsetof(v.Color))

	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, gl.PtrOffset(posOff))

	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, gl.PtrOffset(normOff))

	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointer(2, 2, gl.FLOAT, false, stride, gl.PtrOffset(uvOff))

	gl.EnableVertexAttribArray(3)
	gl.VertexAttribPointer(3, 4, gl.FLOAT, false, stride, gl.PtrOffset(colorOff))

	gl.GenBuffers(1, &gpu.EBO)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, gpu.EBO)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER,
		len(mesh.Indices)*4,
		gl.Ptr(mesh.Indices),
		gl.STATIC_DRAW)

	gl.BindVertexArray(0)

	r.gpuMeshes[mesh] = gpu
	mesh.GPUData = gpu
	return nil
}

func (r *Renderer) ReleaseMesh(mesh *scene.Mesh) {
	gpu, ok := r.gpuMeshes[mesh]
	if !ok {
		return
	}
	gl.DeleteBuffers(1, &gpu.VBO)
	gl.DeleteBuffers(1, &gpu.EBO)
	gl.DeleteVertexArrays(1, &gpu.VAO)
	delete(r.gpuMeshes, mesh)
	mesh.GPUData = nil
}

func (r *Renderer) WriteUniforms(data []byte) error {
	if len(data) != renderer.UniformBlockSize {
		return fmt.Errorf("uniform buffer is %d bytes, want %d", len(data), renderer.UniformBlockSize)
	}
	gl.BindBuffer(gl.UNIFORM_BUFFER, r.ubo)
	gl.BufferSubData(gl.UNIFORM_BUFFER, 0, len(data), gl.Ptr(data))
	gl.BindBuffer(gl.UNIFORM_BUFFER, 0)
	return nil
}

func (r *Renderer) SetCullMode(mode renderer.CullMode) {
	switch mode {
	case renderer.CullNone:
		gl.Disable(gl.CULL_FACE)
	case renderer.CullFront:
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.FRONT)
	default:
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.BACK)
	}
}

func (r *Renderer) SetBlend(enabled bool) {
	if enabled {
		gl.Enable(gl.BLEND)
	} else {
		gl.Disable(gl.BLEND)
	}
}

func (r *Renderer) SetDepthWrite(enabled bool) {
	gl.DepthMask(enabled)
}

func (r *Renderer) SetColorWrite(enabled bool) {
	gl.ColorMask(enabled, enabled, enabled, enabled)
}

func (r *Renderer) SetStencil(state renderer.StencilState) {
	if !state.Enabled {
		gl.Disable(gl.STENCIL_TEST)
		return
	}
	gl.Enable(gl.STENCIL_TEST)

	fn := uint32(gl.ALWAYS)
	if state.Func == renderer.StencilEqual {
		fn = gl.EQUAL
	}
	gl.StencilFunc(fn, int32(state.Ref), 0xFF)

	op := uint32(gl.KEEP)
	if state.PassOp == renderer.StencilReplace {
		op = gl.REPLACE
	}
	gl.StencilOp(gl.KEEP, gl.KEEP, op)
}

func (r *Renderer) Clear(clear core.ClearValue) {
	c := clear.Color
	gl.ClearColor(c.R, c.G, c.B, c.A)
	gl.ClearDepth(float64(clear.Depth))
	gl.ClearStencil(int32(clear.Stencil))
	// Depth and stencil writes must be on for the clear to reach them.
	gl.DepthMask(true)
	gl.StencilMask(0xFF)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT | gl.STENCIL_BUFFER_BIT)
}

func (r *Renderer) Draw(mesh *scene.Mesh) error {
	gpu, ok := r.gpuMeshes[mesh]
	if !ok {
		return fmt.Errorf("mesh %q not uploaded", mesh.Name)
	}

	gl.UseProgram(r.program)

	mat := mesh.Material
	bc := core.ColorWhite
	if mat != nil {
		bc = mat.BaseColor
		bc.A = mat.Opacity
	}
	gl.Uniform4f(r.baseColorLoc, bc.R, bc.G, bc.B, bc.A)

	gl.BindVertexArray(gpu.VAO)
	gl.DrawElements(gl.TRIANGLES, gpu.IndexCount, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
	return nil
}

func (r *Renderer) Present() {
	// Buffer swap is owned by core.Window; flush so the frame is submitted
	// before the swap.
	gl.Flush()
}

func (r *Renderer) Destroy() {
	for mesh := range r.gpuMeshes {
		r.ReleaseMesh(mesh)
	}
	gl.DeleteBuffers(1, &r.ubo)
	gl.DeleteProgram(r.program)
}

// ── Shader helpers ───────────────────────────────────────────────────────────

func newProgram(vertSrc, fragSrc string) (uint32, error) {
	vert, err := compileShader(vertSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, fmt.Errorf("vertex: %w", err)
	}
	frag, err := compileShader(fragSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, fmt.Errorf("fragment: %w", err)
	}

	prog := gl.CreateProgram()
	gl.AttachShader(prog, vert)
	gl.AttachShader(prog, frag)
	gl.LinkProgram(prog)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(prog, logLen, nil, gl.Str(log))
		return 0, fmt.Errorf("link failed: %v", log)
	}

	gl.DeleteShader(vert)
	gl.DeleteShader(frag)
	return prog, nil
}

func compileShader(src string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csrc, free := gl.Strs(src)
	gl.ShaderSource(shader, 1, csrc, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(log))
		return 0, fmt.Errorf("compile failed: %v", log)
	}
	return shader, nil
}
