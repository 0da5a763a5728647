package renderer

import (
	"mirror-engine/math"
)

// TransformSet bundles the per-draw matrices. NormalMatrix is always the
// inverse transpose of Model; a reflected model matrix carries a
// negative-determinant scale, so using Model directly would flip normals.
type TransformSet struct {
	Model        math.Mat4
	MVP          math.Mat4
	NormalMatrix math.Mat4
}

// NewTransformSet derives the MVP and normal matrix from a model matrix and
// the camera's view/projection pair.
func NewTransformSet(model, view, proj math.Mat4) TransformSet {
	return TransformSet{
		Model:        model,
		MVP:          model.Mul(view).Mul(proj),
		NormalMatrix: model.NormalMatrix(),
	}
}
