package scene

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/mogaika/motor_viewer/pga"
)

type Scene struct {
	Name       string
	Roots      []*Node
	Nodes      []*Node
	Skins      []*Skin
	Animations []*Animation

	// Placement is the externally supplied motor placing the whole model
	// in the world. Roots resolve against it, not against identity.
	Placement pga.Motor
}

func NewScene(name string) *Scene {
	return &Scene{
		Name:      name,
		Placement: pga.Identity(),
	}
}

func (s *Scene) AnimationIndex(name string) (int, error) {
	for i, a := range s.Animations {
		if a.Name == name {
			return i, nil
		}
	}
	return 0, errors.Errorf("no animation %q in scene %q", name, s.Name)
}

// Animate samples animation ia at time ta into the node pose channels and
// rebuilds local motors of the touched nodes. With ib >= 0 the second
// animation is sampled at tb and lerped over the first with factor beta
// (0 keeps the first, 1 replaces it).
func (s *Scene) Animate(ia int, ta float32, ib int, tb float32, beta float32) {
	touched := make(map[*Node]struct{})
	s.Animations[ia].apply(ta, touched)
	if ib >= 0 && beta > 0 {
		s.Animations[ib].applyBlend(tb, beta, touched)
	}
	for n := range touched {
		n.RebuildTransform()
	}
}

// UpdateWorldTransforms resolves world motors of the whole graph,
// parents before children, recomputing only dirty subtrees.
func (s *Scene) UpdateWorldTransforms() {
	for _, r := range s.Roots {
		r.resolve(s.Placement)
	}
}

// UpdateSkins repacks the palette of every skin with at least one
// recomputed joint, then returns all nodes to clean. Must run after
// UpdateWorldTransforms within the same frame.
func (s *Scene) UpdateSkins() {
	for _, sk := range s.Skins {
		if sk.NeedsUpdate() {
			sk.UpdatePalette()
		}
	}
	for _, r := range s.Roots {
		r.sweep()
	}
}

// SetPlacement replaces the world placement motor and invalidates the
// whole graph.
func (s *Scene) SetPlacement(m pga.Motor) {
	s.Placement = m
	for _, r := range s.Roots {
		r.MarkDirty()
	}
}

// ApplyScaleCompensation bakes the node scale hierarchy into translations
// once after load. Motors cannot represent scale, so the cumulative scale
// above each node is computed top-down and absorbed into the node's local
// translation and into the inverse bind translations of every skin. Exact
// for uniform scales; non-uniform scales do not commute with rotation and
// are approximated.
func (s *Scene) ApplyScaleCompensation() {
	one := mgl32.Vec3{1, 1, 1}
	for _, r := range s.Roots {
		r.computeWorldScale(one)
	}
	for _, n := range s.Nodes {
		n.RebuildTransform()
	}
	for _, sk := range s.Skins {
		for i, j := range sk.Joints {
			sk.InverseBindMotors[i] = sk.InverseBindMotors[i].ScaleTranslation(j.ParentWorldScale())
		}
	}
}
