package renderer

import (
	"encoding/binary"
	stdmath "math"

	"mirror-engine/math"
	"mirror-engine/shading"
)

// Byte offsets of the per-draw uniform block. The GLSL std140 block in the
// backend expects exactly this layout; any reordering is a breaking change.
const (
	UniformOffsetMVP    = 0   // mat4, 64 bytes
	UniformOffsetModel  = 64  // mat4, 64 bytes
	UniformOffsetNormal = 128 // mat4, 64 bytes
	UniformOffsetEye    = 192 // vec4: eye xyz + pad
	UniformOffsetLight  = 208 // vec4: light xyz + emitted radiance Le in w
	UniformOffsetParams = 224 // vec4: La, kd, ks, shininess
	UniformBlockSize    = 240
)

// DrawUniforms is everything one draw call needs: the transform set, the
// camera and light, and the frame's lighting scalars. Packed fresh for each
// of the mirrored and real draws.
type DrawUniforms struct {
	MVP          math.Mat4
	Model        math.Mat4
	NormalMatrix math.Mat4
	Eye          math.Vec3
	Light        math.Vec3
	Params       shading.Params
}

// Marshal serializes the uniforms into the fixed 240-byte layout, little
// endian, ready for GPU upload.
func (u *DrawUniforms) Marshal() []byte {
	buf := make([]byte, UniformBlockSize)
	putMat4(buf[UniformOffsetMVP:], u.MVP)
	putMat4(buf[UniformOffsetModel:], u.Model)
	putMat4(buf[UniformOffsetNormal:], u.NormalMatrix)
	putVec4(buf[UniformOffsetEye:], u.Eye.X, u.Eye.Y, u.Eye.Z, 0)
	putVec4(buf[UniformOffsetLight:], u.Light.X, u.Light.Y, u.Light.Z, u.Params.Le)
	putVec4(buf[UniformOffsetParams:], u.Params.La, u.Params.Kd, u.Params.Ks, u.Params.Shininess)
	return buf
}

func putMat4(buf []byte, m math.Mat4) {
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			binary.LittleEndian.PutUint32(buf[(i*4+j)*4:], stdmath.Float32bits(m[i][j]))
		}
	}
}

func putVec4(buf []byte, x, y, z, w float32) {
	binary.LittleEndian.PutUint32(buf[0:], stdmath.Float32bits(x))
	binary.LittleEndian.PutUint32(buf[4:], stdmath.Float32bits(y))
	binary.LittleEndian.PutUint32(buf[8:], stdmath.Float32bits(z))
	binary.LittleEndian.PutUint32(buf[12:], stdmath.Float32bits(w))
}
