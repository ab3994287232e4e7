// Package pga implements rigid 3d transforms as motors of projective
// geometric algebra. A motor replaces the usual 4x4 matrix / quaternion
// pair with a single 8-component even multivector.
package pga

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Motor is [s, e23, e31, e12, e01, e02, e03, e0123].
// Normalized motors satisfy s^2+e23^2+e31^2+e12^2 == 1 and
// s*e0123 == e23*e01 + e31*e02 + e12*e03.
type Motor [8]float32

// Bivector is [e23, e31, e12, e01, e02, e03], a line with weight.
// Exp of a bivector is a motor.
type Bivector [6]float32

func Identity() Motor {
	return Motor{1, 0, 0, 0, 0, 0, 0, 0}
}

// FromQuat builds a pure-rotation motor from a rotation quaternion.
// Motor rotors are reversed relative to quaternions, hence the negation.
func FromQuat(q mgl32.Quat) Motor {
	return Motor{q.W, -q.X(), -q.Y(), -q.Z(), 0, 0, 0, 0}
}

// RotorQuat returns the rotation quaternion of the rotor part of m.
func (m Motor) RotorQuat() mgl32.Quat {
	return mgl32.Quat{W: m[0], V: mgl32.Vec3{-m[1], -m[2], -m[3]}}
}

// Translator builds a pure-translation motor moving points by t.
func Translator(t mgl32.Vec3) Motor {
	return Motor{1, 0, 0, 0, t[0], t[1], t[2], 0}
}

// TRMotor builds the motor applying rotation q first, then translation t.
func TRMotor(q mgl32.Quat, t mgl32.Vec3) Motor {
	return ComposeTranslator(t, FromQuat(q))
}

// Reverse negates the bivector slots, keeping s and e0123.
func (m Motor) Reverse() Motor {
	return Motor{m[0], -m[1], -m[2], -m[3], -m[4], -m[5], -m[6], m[7]}
}

// Compose returns the geometric product a*b: the motor applying b first,
// then a. 48 multiplies.
func Compose(a, b Motor) Motor {
	var c Motor
	ComposeInto(&c, a, b)
	return c
}

// ComposeInto is Compose writing into dst. dst must not alias a or b.
func ComposeInto(dst *Motor, a, b Motor) {
	dst[0] = a[0]*b[0] - a[1]*b[1] - a[2]*b[2] - a[3]*b[3]
	dst[1] = a[0]*b[1] + a[1]*b[0] - a[2]*b[3] + a[3]*b[2]
	dst[2] = a[0]*b[2] + a[2]*b[0] - a[3]*b[1] + a[1]*b[3]
	dst[3] = a[0]*b[3] + a[3]*b[0] - a[1]*b[2] + a[2]*b[1]
	dst[4] = a[0]*b[4] + a[4]*b[0] - a[2]*b[6] + a[3]*b[5] - a[5]*b[3] + a[6]*b[2] - a[7]*b[1] - a[1]*b[7]
	dst[5] = a[0]*b[5] + a[5]*b[0] + a[1]*b[6] - a[3]*b[4] + a[4]*b[3] - a[6]*b[1] - a[7]*b[2] - a[2]*b[7]
	dst[6] = a[0]*b[6] + a[6]*b[0] + a[2]*b[4] - a[1]*b[5] + a[5]*b[1] - a[4]*b[2] - a[7]*b[3] - a[3]*b[7]
	dst[7] = a[0]*b[7] + a[7]*b[0] + a[1]*b[4] + a[2]*b[5] + a[3]*b[6] + a[4]*b[1] + a[5]*b[2] + a[6]*b[3]
}

// ComposeRotor is Compose where a is a pure rotation (ideal part zero).
func ComposeRotor(a, b Motor) Motor {
	return Motor{
		a[0]*b[0] - a[1]*b[1] - a[2]*b[2] - a[3]*b[3],
		a[0]*b[1] + a[1]*b[0] - a[2]*b[3] + a[3]*b[2],
		a[0]*b[2] + a[2]*b[0] - a[3]*b[1] + a[1]*b[3],
		a[0]*b[3] + a[3]*b[0] - a[1]*b[2] + a[2]*b[1],
		a[0]*b[4] - a[2]*b[6] + a[3]*b[5] - a[1]*b[7],
		a[0]*b[5] + a[1]*b[6] - a[3]*b[4] - a[2]*b[7],
		a[0]*b[6] + a[2]*b[4] - a[1]*b[5] - a[3]*b[7],
		a[0]*b[7] + a[1]*b[4] + a[2]*b[5] + a[3]*b[6],
	}
}

// ComposeTranslator is Compose where the left operand is a pure
// translation by t. 12 multiplies.
func ComposeTranslator(t mgl32.Vec3, b Motor) Motor {
	return Motor{
		b[0], b[1], b[2], b[3],
		b[4] + t[0]*b[0] - t[1]*b[3] + t[2]*b[2],
		b[5] + t[1]*b[0] + t[0]*b[3] - t[2]*b[1],
		b[6] + t[2]*b[0] + t[1]*b[1] - t[0]*b[2],
		b[7] + t[0]*b[1] + t[1]*b[2] + t[2]*b[3],
	}
}

// ComposeMotorTranslator is Compose where the right operand is a pure
// translation by t.
func ComposeMotorTranslator(a Motor, t mgl32.Vec3) Motor {
	return Motor{
		a[0], a[1], a[2], a[3],
		a[4] + a[0]*t[0] + a[3]*t[1] - a[2]*t[2],
		a[5] + a[0]*t[1] + a[1]*t[2] - a[3]*t[0],
		a[6] + a[0]*t[2] + a[2]*t[0] - a[1]*t[1],
		a[7] + a[1]*t[0] + a[2]*t[1] + a[3]*t[2],
	}
}

// Translation returns the translation vector effected by m, equal to
// ApplyToOrigin. m must be normalized.
func (m Motor) Translation() mgl32.Vec3 {
	return mgl32.Vec3{
		m[0]*m[4] + m[3]*m[5] - m[2]*m[6] + m[1]*m[7],
		m[0]*m[5] - m[3]*m[4] + m[1]*m[6] + m[2]*m[7],
		m[0]*m[6] + m[2]*m[4] - m[1]*m[5] + m[3]*m[7],
	}
}

// ScaleTranslation rebuilds m with its translation vector multiplied
// component-wise by s, keeping the rotation part. Motors cannot carry
// scale themselves; hierarchical scale is absorbed into translations this
// way at load time.
func (m Motor) ScaleTranslation(s mgl32.Vec3) Motor {
	t := m.Translation()
	rotor := Motor{m[0], m[1], m[2], m[3], 0, 0, 0, 0}
	return ComposeTranslator(mgl32.Vec3{t[0] * s[0], t[1] * s[1], t[2] * s[2]}, rotor)
}

// ApplyToPoint evaluates the sandwich m*p*~m for a euclidean point.
// Result is garbage if m is not normalized.
func (m Motor) ApplyToPoint(p mgl32.Vec3) mgl32.Vec3 {
	return m.ApplyToDirection(p).Add(m.Translation())
}

// ApplyToDirection transforms an ideal (point at infinity) direction:
// rotation only, no translation.
func (m Motor) ApplyToDirection(d mgl32.Vec3) mgl32.Vec3 {
	s, r1, r2, r3 := m[0], m[1], m[2], m[3]

	// d - 2s*(r x d) + 2*r x (r x d)
	cx := r2*d[2] - r3*d[1]
	cy := r3*d[0] - r1*d[2]
	cz := r1*d[1] - r2*d[0]
	return mgl32.Vec3{
		d[0] - 2*s*cx + 2*(r2*cz-r3*cy),
		d[1] - 2*s*cy + 2*(r3*cx-r1*cz),
		d[2] - 2*s*cz + 2*(r1*cy-r2*cx),
	}
}

// ApplyToOrigin is ApplyToPoint of (0,0,0).
func (m Motor) ApplyToOrigin() mgl32.Vec3 {
	return m.Translation()
}

// RotorDot is the 4-component dot product of the rotation parts.
// Negative means a and b sit on opposite sheets of the double cover.
func RotorDot(a, b Motor) float32 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2] + a[3]*b[3]
}

// ShortestPath returns candidate negated in full when its rotation part
// opposes current, so that blending current with the result interpolates
// along the minor arc. Shared by skinning blends and rotation lerp.
func ShortestPath(current, candidate Motor) Motor {
	if RotorDot(current, candidate) <= 0 {
		for i := range candidate {
			candidate[i] = -candidate[i]
		}
	}
	return candidate
}

// ShortestPathQuat is ShortestPath for raw quaternion keyframe values.
func ShortestPathQuat(current, candidate mgl32.Quat) mgl32.Quat {
	if current.Dot(candidate) < 0 {
		return candidate.Scale(-1)
	}
	return candidate
}
