package pga

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// logEpsilon guards the general Log formula, which divides by 1-s^2 and
// is unstable near zero rotation angle.
const logEpsilon = 1e-6

// Line returns the rotation generator whose Exp rotates by angle radians
// counterclockwise about the axis line through the origin. axis must be
// unit length.
func Line(axis mgl32.Vec3, angle float32) Bivector {
	h := -angle / 2
	return Bivector{axis[0] * h, axis[1] * h, axis[2] * h, 0, 0, 0}
}

// Exp is the exponential map from lines to motors.
func Exp(b Bivector) Motor {
	l := b[0]*b[0] + b[1]*b[1] + b[2]*b[2]
	if l == 0 {
		// pure translation generator, the general formula divides by zero
		return Motor{1, 0, 0, 0, b[3], b[4], b[5], 0}
	}

	m := b[0]*b[3] + b[1]*b[4] + b[2]*b[5]
	a := float32(math.Sqrt(float64(l)))
	c := float32(math.Cos(float64(a)))
	s := float32(math.Sin(float64(a))) / a
	t := m / l * (c - s)

	return Motor{
		c,
		s * b[0], s * b[1], s * b[2],
		s*b[3] + t*b[0],
		s*b[4] + t*b[1],
		s*b[5] + t*b[2],
		m * s,
	}
}

// Log is the inverse of Exp for normalized motors.
func Log(m Motor) Bivector {
	if math.Abs(float64(m[0]-1)) < logEpsilon {
		return Bivector{0, 0, 0, m[4], m[5], m[6]}
	}

	a := 1 / (1 - m[0]*m[0])
	b := float32(math.Acos(float64(m[0]))) * float32(math.Sqrt(float64(a)))
	c := a * m[7] * (1 - m[0]*b)

	return Bivector{
		b * m[1], b * m[2], b * m[3],
		b*m[4] + c*m[1],
		b*m[5] + c*m[2],
		b*m[6] + c*m[3],
	}
}

// Normalize rescales the rotation part to unit norm and applies the
// first-order correction restoring orthogonality of the ideal part.
// Required after any weighted sum of motors, which breaks both invariants.
func (m Motor) Normalize() Motor {
	u := 1 / float32(math.Sqrt(float64(m[0]*m[0]+m[1]*m[1]+m[2]*m[2]+m[3]*m[3])))
	d := (m[0]*m[7] - (m[1]*m[4] + m[2]*m[5] + m[3]*m[6])) * u * u

	return Motor{
		m[0] * u, m[1] * u, m[2] * u, m[3] * u,
		(m[4] + d*m[1]) * u,
		(m[5] + d*m[2]) * u,
		(m[6] + d*m[3]) * u,
		(m[7] - d*m[0]) * u,
	}
}

// Sqrt returns the half-motor of a normalized motor. Undefined at a 180
// degree rotation (s == -1), where the normalization divides by zero.
func (m Motor) Sqrt() Motor {
	m[0] += 1
	return m.Normalize()
}

// Blender accumulates a weighted sum of motors with short-path sign
// disambiguation. The zero value is ready to use.
type Blender struct {
	sum Motor
	any bool
}

// Add accumulates w*m, negating m first when its rotation part opposes
// the running sum.
func (b *Blender) Add(m Motor, w float32) {
	if b.any {
		m = ShortestPath(b.sum, m)
	}
	b.any = true
	for i := range b.sum {
		b.sum[i] += w * m[i]
	}
}

// Result renormalizes and returns the accumulated motor.
func (b *Blender) Result() Motor {
	return b.sum.Normalize()
}
