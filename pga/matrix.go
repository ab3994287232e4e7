package pga

import (
	"log"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const matrixScaleEpsilon = 1e-4

// FromMat3 converts an orthonormal rotation matrix to a pure-rotation
// motor. Branch selection on the largest diagonal term keeps the
// extraction numerically stable. Rows carrying scale are renormalized
// first; non-uniform scale cannot be represented by a motor and the
// conversion is only approximate in that case.
func FromMat3(m mgl32.Mat3) Motor {
	r0 := mgl32.Vec3{m.At(0, 0), m.At(0, 1), m.At(0, 2)}
	r1 := mgl32.Vec3{m.At(1, 0), m.At(1, 1), m.At(1, 2)}
	r2 := mgl32.Vec3{m.At(2, 0), m.At(2, 1), m.At(2, 2)}

	l0, l1, l2 := r0.Len(), r1.Len(), r2.Len()
	if mgl32.Abs(l0-1) > matrixScaleEpsilon ||
		mgl32.Abs(l1-1) > matrixScaleEpsilon ||
		mgl32.Abs(l2-1) > matrixScaleEpsilon {
		if mgl32.Abs(l0-l1) > matrixScaleEpsilon || mgl32.Abs(l1-l2) > matrixScaleEpsilon {
			log.Printf("[pga] Non-uniform scale (%v %v %v) in rotation matrix, conversion is approximate", l0, l1, l2)
		}
		r0 = r0.Mul(1 / l0)
		r1 = r1.Mul(1 / l1)
		r2 = r2.Mul(1 / l2)
	}

	m00, m01, m02 := r0[0], r0[1], r0[2]
	m10, m11, m12 := r1[0], r1[1], r1[2]
	m20, m21, m22 := r2[0], r2[1], r2[2]

	var q mgl32.Quat
	if tr := m00 + m11 + m22; tr > 0 {
		s := float32(math.Sqrt(float64(tr+1))) * 2
		q = mgl32.Quat{W: s / 4, V: mgl32.Vec3{(m21 - m12) / s, (m02 - m20) / s, (m10 - m01) / s}}
	} else if m00 > m11 && m00 > m22 {
		s := float32(math.Sqrt(float64(1+m00-m11-m22))) * 2
		q = mgl32.Quat{W: (m21 - m12) / s, V: mgl32.Vec3{s / 4, (m01 + m10) / s, (m02 + m20) / s}}
	} else if m11 > m22 {
		s := float32(math.Sqrt(float64(1+m11-m00-m22))) * 2
		q = mgl32.Quat{W: (m02 - m20) / s, V: mgl32.Vec3{(m01 + m10) / s, s / 4, (m12 + m21) / s}}
	} else {
		s := float32(math.Sqrt(float64(1+m22-m00-m11))) * 2
		q = mgl32.Quat{W: (m10 - m01) / s, V: mgl32.Vec3{(m02 + m20) / s, (m12 + m21) / s, s / 4}}
	}

	return FromQuat(q.Normalize())
}

// FromMat4 converts a rigid 4x4 matrix (rotation + translation, column
// vector convention) to a motor. Scale in the upper 3x3 follows the
// FromMat3 rules.
func FromMat4(m mgl32.Mat4) Motor {
	rot := FromMat3(m.Mat3())
	return ComposeTranslator(mgl32.Vec3{m[12], m[13], m[14]}, rot)
}
