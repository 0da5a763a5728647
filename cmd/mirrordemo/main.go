// Command mirrordemo renders a rotating object above a semi-transparent
// mirror ground: the reflection is stencil-masked to the ground footprint,
// clipped at the mirror plane, and composited under the blended ground.
//
// Usage:
//
//	mirrordemo [model.obj | model.glb]
//
// Without a model argument a cube is rendered. Keys 1/2 lower and raise
// emitted radiance, 3/4 ambient, 5/6 diffuse, 7/8 specular, 9/0 shininess;
// these are polled every frame so changes take effect immediately.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"

	"mirror-engine/core"
	"mirror-engine/internal/opengl"
	meshio "mirror-engine/io"
	"mirror-engine/materials"
	"mirror-engine/math"
	"mirror-engine/renderer"
	"mirror-engine/scene"
	"mirror-engine/shading"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "mirrordemo: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	window, err := core.NewWindow(core.DefaultWindowConfig())
	if err != nil {
		return err
	}
	defer window.Destroy()

	device, err := opengl.NewRenderer()
	if err != nil {
		return err
	}
	defer device.Destroy()

	fw, fh := window.GetFramebufferSize()
	device.SetViewport(fw, fh)

	mesh, err := loadObject()
	if err != nil {
		return err
	}
	mesh.Material = materials.BrassMaterial()

	camera := scene.NewCamera(0.9, float32(fw)/float32(fh), 0.1, 100)
	camera.SetPosition(math.NewVec3(0, 1.5, 5))
	camera.LookAt(math.NewVec3(0, -0.25, 0))

	opts := renderer.DefaultOptions()
	engine, err := renderer.NewMirrorRenderer(device, mesh, camera, opts)
	if err != nil {
		return err
	}
	defer engine.Destroy()
	engine.SetLight(math.NewVec3(2, 3, 2))

	fmt.Printf("Rendering %q: %d triangles\n", mesh.Name, mesh.TriangleCount())

	params := shading.DefaultParams()
	angle := float32(0)
	last := time.Now()

	for !window.ShouldClose() {
		window.PollEvents()

		now := time.Now()
		dt := float32(now.Sub(last).Seconds())
		last = now
		angle += 0.6 * dt

		// Parameters come from the keyboard every frame, no caching.
		updateParams(window, &params, dt)

		fw, fh = window.GetFramebufferSize()
		device.SetViewport(fw, fh)
		camera.UpdateAspectRatio(float32(fw), float32(fh))

		model := math.Mat4RotationY(angle)
		if err := engine.RenderFrame(model, params); err != nil {
			// Per-frame failures are not recoverable mid-frame: log and
			// move on to the next frame.
			fmt.Printf("frame skipped: %v\n", err)
		}

		window.SwapBuffers()
	}
	return nil
}

func loadObject() (*scene.Mesh, error) {
	if len(os.Args) < 2 {
		return scene.CreateCube(1), nil
	}

	path := os.Args[1]
	switch strings.ToLower(filepath.Ext(path)) {
	case ".obj":
		return meshio.LoadOBJ(path)
	case ".glb", ".gltf":
		meshes, err := scene.LoadGLTF(path)
		if err != nil {
			return nil, err
		}
		return meshes[0], nil
	default:
		return nil, fmt.Errorf("unsupported model format %q", path)
	}
}

// updateParams maps held keys to the lighting scalars. Pairs of keys lower
// and raise each coefficient.
func updateParams(w *core.Window, p *shading.Params, dt float32) {
	adjust := func(down, up glfw.Key, v *float32, speed, min, max float32) {
		if w.IsKeyPressed(down) {
			*v -= speed * dt
		}
		if w.IsKeyPressed(up) {
			*v += speed * dt
		}
		if *v < min {
			*v = min
		}
		if *v > max {
			*v = max
		}
	}

	adjust(glfw.Key1, glfw.Key2, &p.Le, 1, 0, 5)
	adjust(glfw.Key3, glfw.Key4, &p.La, 0.5, 0, 1)
	adjust(glfw.Key5, glfw.Key6, &p.Kd, 0.5, 0, 1)
	adjust(glfw.Key7, glfw.Key8, &p.Ks, 0.5, 0, 1)
	adjust(glfw.Key9, glfw.Key0, &p.Shininess, 40, 1, 256)
}
