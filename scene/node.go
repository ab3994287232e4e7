// Package scene holds the motor-based scene graph: node hierarchy with
// world transform resolution, skins with per-joint motor palettes, and
// keyframe animation sampling. Per frame the pipeline order is
// Animate -> UpdateWorldTransforms -> UpdateSkins; every stage consumes
// the dirty state produced by the previous one.
package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/motor_viewer/pga"
)

type nodeState uint8

const (
	// world transform matches the local transform and the parent chain
	stateClean nodeState = iota
	// local transform or an ancestor changed, world motor is stale
	stateDirty
	// world motor was recomputed this frame, skins have not consumed it yet
	stateUpdated
)

type Node struct {
	Name string

	// local motor, rebuilt from Rotation/Translation when animated
	Transform      pga.Motor
	WorldTransform pga.Motor

	// raw transform channels written by the animation sampler
	Rotation    mgl32.Quat
	Translation mgl32.Vec3
	Scale       mgl32.Vec3

	// cumulative scale product down from the root, set once at load
	WorldScale mgl32.Vec3

	Skin *Skin

	// node owns children; parent is a weak back-reference used for
	// scale lookup only
	Children []*Node
	parent   *Node

	state nodeState
}

func NewNode(name string) *Node {
	return &Node{
		Name:       name,
		Transform:  pga.Identity(),
		Rotation:   mgl32.QuatIdent(),
		Scale:      mgl32.Vec3{1, 1, 1},
		WorldScale: mgl32.Vec3{1, 1, 1},
		state:      stateDirty,
	}
}

func (n *Node) AddChild(c *Node) {
	c.parent = n
	n.Children = append(n.Children, c)
}

func (n *Node) Parent() *Node { return n.parent }

// ParentWorldScale is the cumulative scale above this node; the scale a
// translation expressed in this node's local space must be multiplied by.
func (n *Node) ParentWorldScale() mgl32.Vec3 {
	if n.parent == nil {
		return mgl32.Vec3{1, 1, 1}
	}
	return n.parent.WorldScale
}

func (n *Node) MarkDirty()  { n.state = stateDirty }
func (n *Node) Dirty() bool { return n.state == stateDirty }

// RebuildTransform rebuilds the local motor from the raw rotation and
// translation channels, rotation first, with the translation absorbed
// through the parent's world scale, and schedules world recomputation.
func (n *Node) RebuildTransform() {
	ps := n.ParentWorldScale()
	t := mgl32.Vec3{n.Translation[0] * ps[0], n.Translation[1] * ps[1], n.Translation[2] * ps[2]}
	n.Transform = pga.ComposeTranslator(t, pga.FromQuat(n.Rotation))
	n.state = stateDirty
}

// resolve recomputes the world motor top-down. A recomputed node marks
// every direct child dirty regardless of its prior state: an ancestor
// change invalidates all descendants.
func (n *Node) resolve(parentWorld pga.Motor) {
	if n.state == stateDirty {
		n.WorldTransform = pga.Compose(parentWorld, n.Transform)
		n.state = stateUpdated
		for _, c := range n.Children {
			c.state = stateDirty
		}
	}
	for _, c := range n.Children {
		c.resolve(n.WorldTransform)
	}
}

// sweep returns recomputed nodes to clean once all consumers ran.
func (n *Node) sweep() {
	if n.state == stateUpdated {
		n.state = stateClean
	}
	for _, c := range n.Children {
		c.sweep()
	}
}

// computeWorldScale fills WorldScale top-down:
// worldScale(node) = worldScale(parent) * ownScale(node).
func (n *Node) computeWorldScale(parentScale mgl32.Vec3) {
	n.WorldScale = mgl32.Vec3{
		parentScale[0] * n.Scale[0],
		parentScale[1] * n.Scale[1],
		parentScale[2] * n.Scale[2],
	}
	for _, c := range n.Children {
		c.computeWorldScale(n.WorldScale)
	}
}
