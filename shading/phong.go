// Package shading evaluates the renderer's Phong illumination model on the
// CPU. It mirrors the fragment shader exactly and serves as the reference
// for lighting tests, in particular the mirrored-light consistency checks.
package shading

import (
	"github.com/chewxy/math32"

	"mirror-engine/core"
	"mirror-engine/math"
)

// Params are the per-frame lighting scalars: emitted radiance Le, ambient
// radiance La, and the diffuse/specular reflection coefficients.
type Params struct {
	Le        float32
	La        float32
	Kd        float32
	Ks        float32
	Shininess float32
}

// DefaultParams match the demo's initial slider values.
func DefaultParams() Params {
	return Params{Le: 1.0, La: 0.2, Kd: 0.8, Ks: 0.5, Shininess: 32}
}

// Eval computes the Phong color at a surface point:
//
//	La·base + Le·(kd·max(N·L,0)·base + ks·max(N·H,0)^shininess)
//
// with H = normalize(L+V). Single point light, no attenuation, no
// shadowing. Degenerate (zero) normals produce the ambient term only
// instead of NaN.
func Eval(pos, normal, eye, light math.Vec3, p Params, base core.Color) core.Color {
	n := normal.Normalize()
	l := light.Sub(pos).Normalize()
	v := eye.Sub(pos).Normalize()
	h := l.Add(v).Normalize()

	diffuse := max32(n.Dot(l), 0)
	specular := float32(0)
	if diffuse > 0 {
		specular = math32.Pow(max32(n.Dot(h), 0), p.Shininess)
	}

	kd := p.Le * p.Kd * diffuse
	ks := p.Le * p.Ks * specular

	return core.Color{
		R: p.La*base.R + kd*base.R + ks,
		G: p.La*base.G + kd*base.G + ks,
		B: p.La*base.B + kd*base.B + ks,
		A: base.A,
	}
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
