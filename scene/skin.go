package scene

import (
	"github.com/mogaika/motor_viewer/pga"
)

// MotorFloats is the uniform footprint of one joint motor.
const MotorFloats = 8

// Skin references joint nodes (weakly, nodes are owned by the graph) and
// owns one inverse bind motor per joint. The palette is the flattened
// per-joint motor array consumed as a skinning uniform block.
type Skin struct {
	Name              string
	Joints            []*Node
	InverseBindMotors []pga.Motor
	Skeleton          *Node

	palette []float32
}

func NewSkin(name string, joints []*Node, inverseBind []pga.Motor, skeleton *Node) *Skin {
	return &Skin{
		Name:              name,
		Joints:            joints,
		InverseBindMotors: inverseBind,
		Skeleton:          skeleton,
		palette:           make([]float32, len(joints)*MotorFloats),
	}
}

// NeedsUpdate reports whether any joint's world motor was recomputed
// since the palette was last packed.
func (s *Skin) NeedsUpdate() bool {
	for _, j := range s.Joints {
		if j.state != stateClean {
			return true
		}
	}
	return false
}

// UpdatePalette recomputes skinMotor[i] = jointWorld[i] * inverseBind[i]
// for every joint and packs the result in joint order. Joint world motors
// must already be resolved, including joints reachable only through a
// skeleton root outside this skin's hierarchy; Scene.UpdateWorldTransforms
// resolves the whole graph for that reason.
func (s *Skin) UpdatePalette() {
	var m pga.Motor
	for i, j := range s.Joints {
		pga.ComposeInto(&m, j.WorldTransform, s.InverseBindMotors[i])
		copy(s.palette[i*MotorFloats:(i+1)*MotorFloats], m[:])
	}
}

// Palette returns the flat per-joint motor buffer. The slice is rewritten
// in place by UpdatePalette; callers must not retain it across frames.
func (s *Skin) Palette() []float32 { return s.palette }

// JointMotor reads one motor back out of the packed palette.
func (s *Skin) JointMotor(i int) pga.Motor {
	var m pga.Motor
	copy(m[:], s.palette[i*MotorFloats:(i+1)*MotorFloats])
	return m
}

// BlendVertex computes the weighted blend of up to four joint motors the
// way the skinning shader does, with short-path sign disambiguation and a
// final renormalization. Zero-weight influences are skipped.
func (s *Skin) BlendVertex(joints [4]int, weights [4]float32) pga.Motor {
	var b pga.Blender
	for k := 0; k < 4; k++ {
		if weights[k] == 0 {
			continue
		}
		b.Add(s.JointMotor(joints[k]), weights[k])
	}
	return b.Result()
}
