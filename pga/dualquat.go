package pga

import (
	"gonum.org/v1/gonum/num/dualquat"
	"gonum.org/v1/gonum/num/quat"
)

// Motors and dual quaternions describe the same group of rigid motions.
// The even subalgebra carrying motors multiplies in reverse quaternion
// order, so the rotor maps through quaternion conjugation. Note the ideal
// part maps without the conventional 1/2 factor: our translators are
// 1+eps*t, not 1+eps*t/2.

// ToDualQuat converts a motor to a gonum dual quaternion.
func (m Motor) ToDualQuat() dualquat.Number {
	return dualquat.Number{
		Real: quat.Number{Real: float64(m[0]), Imag: float64(-m[1]), Jmag: float64(-m[2]), Kmag: float64(-m[3])},
		Dual: quat.Number{Real: float64(m[7]), Imag: float64(m[4]), Jmag: float64(m[5]), Kmag: float64(m[6])},
	}
}

// FromDualQuat is the inverse of ToDualQuat.
func FromDualQuat(q dualquat.Number) Motor {
	return Motor{
		float32(q.Real.Real), float32(-q.Real.Imag), float32(-q.Real.Jmag), float32(-q.Real.Kmag),
		float32(q.Dual.Imag), float32(q.Dual.Jmag), float32(q.Dual.Kmag), float32(q.Dual.Real),
	}
}
