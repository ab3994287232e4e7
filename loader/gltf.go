// Package loader builds motor scenes from glTF 2.0 files. Matrices and
// TRS node transforms are converted to motors at load; scale is stripped
// into the per-node scale channel and baked into translations by the
// scene's scale compensation pass.
package loader

import (
	"log"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/mogaika/motor_viewer/pga"
	"github.com/mogaika/motor_viewer/scene"
	"github.com/mogaika/motor_viewer/utils"
)

var identityMatrix = [16]float32{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 1, 0,
	0, 0, 0, 1,
}

func Open(path string) (*scene.Scene, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Unable to open gltf %q", path)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return FromDocument(doc, name)
}

func FromDocument(doc *gltf.Document, name string) (*scene.Scene, error) {
	s := scene.NewScene(name)

	nodes := buildNodes(doc, s)

	if err := buildSkins(doc, s, nodes); err != nil {
		return nil, errors.Wrapf(err, "Unable to load skins")
	}
	if err := buildAnimations(doc, s, nodes); err != nil {
		return nil, errors.Wrapf(err, "Unable to load animations")
	}
	synthesizeRestChannels(s, nodes)

	s.ApplyScaleCompensation()
	s.UpdateWorldTransforms()
	s.UpdateSkins()
	return s, nil
}

// buildNodes converts every glTF node and wires the hierarchy. Returns
// scene nodes indexed as in doc.Nodes.
func buildNodes(doc *gltf.Document, s *scene.Scene) []*scene.Node {
	var rng utils.RandomNameGenerator

	nodes := make([]*scene.Node, len(doc.Nodes))
	for i, gn := range doc.Nodes {
		name := gn.Name
		if name == "" {
			name = rng.RandomName()
		}
		n := scene.NewNode(name)

		if gn.Matrix != identityMatrix {
			m := mgl32.Mat4(gn.Matrix)
			n.Rotation, n.Translation, n.Scale = decomposeMatrix(m)
		} else {
			n.Rotation = quatFromGLTF(gn.Rotation)
			n.Translation = mgl32.Vec3(gn.Translation)
			n.Scale = mgl32.Vec3(gn.Scale)
		}
		nodes[i] = n
	}

	isChild := make([]bool, len(nodes))
	for i, gn := range doc.Nodes {
		for _, ci := range gn.Children {
			nodes[i].AddChild(nodes[ci])
			isChild[ci] = true
		}
	}

	for i, n := range nodes {
		if !isChild[i] {
			s.Roots = append(s.Roots, n)
		}
	}
	s.Nodes = nodes
	return nodes
}

func buildSkins(doc *gltf.Document, s *scene.Scene, nodes []*scene.Node) error {
	for si, gs := range doc.Skins {
		joints := make([]*scene.Node, len(gs.Joints))
		for i, ji := range gs.Joints {
			joints[i] = nodes[ji]
		}

		inverseBind := make([]pga.Motor, len(joints))
		if gs.InverseBindMatrices != nil {
			mats, err := readMat4s(doc, *gs.InverseBindMatrices)
			if err != nil {
				return errors.Wrapf(err, "Skin %d inverse bind matrices", si)
			}
			if len(mats) != len(joints) {
				return errors.Errorf("Skin %d: %d inverse bind matrices for %d joints", si, len(mats), len(joints))
			}
			for i, m := range mats {
				inverseBind[i] = pga.FromMat4(m)
			}
		} else {
			for i := range inverseBind {
				inverseBind[i] = pga.Identity()
			}
		}

		var skeleton *scene.Node
		if gs.Skeleton != nil {
			skeleton = nodes[*gs.Skeleton]
		}

		sk := scene.NewSkin(gs.Name, joints, inverseBind, skeleton)
		s.Skins = append(s.Skins, sk)

		for ni, gn := range doc.Nodes {
			if gn.Skin != nil && *gn.Skin == uint32(si) {
				nodes[ni].Skin = sk
			}
		}
	}
	return nil
}

func buildAnimations(doc *gltf.Document, s *scene.Scene, nodes []*scene.Node) error {
	for ai, ga := range doc.Animations {
		anim := &scene.Animation{Name: ga.Name}

		for ci, gc := range ga.Channels {
			if gc.Sampler == nil || gc.Target.Node == nil {
				continue
			}
			sampler := ga.Samplers[*gc.Sampler]

			times, err := readFloats(doc, *sampler.Input)
			if err != nil {
				return errors.Wrapf(err, "Animation %d channel %d input", ai, ci)
			}
			if len(times) == 0 {
				continue
			}

			c := &scene.Channel{
				Target: nodes[*gc.Target.Node],
				Times:  times,
			}

			switch gc.Target.Path {
			case gltf.TRSTranslation:
				c.Path = scene.PathTranslation
				c.VecKeys, err = readVec3s(doc, *sampler.Output)
			case gltf.TRSRotation:
				c.Path = scene.PathRotation
				c.QuatKeys, err = readQuats(doc, *sampler.Output)
			case gltf.TRSScale:
				log.Printf("[loader] Animation %q: scale channel on node %d skipped, scale is baked at load", ga.Name, *gc.Target.Node)
				continue
			default:
				continue
			}
			if err != nil {
				return errors.Wrapf(err, "Animation %d channel %d output", ai, ci)
			}

			if sampler.Interpolation == gltf.InterpolationCubicSpline {
				log.Printf("[loader] Animation %q: cubic spline sampler reduced to linear", ga.Name)
				c.VecKeys = middleKeys(c.VecKeys)
				c.QuatKeys = middleKeys(c.QuatKeys)
			}

			keys := len(c.VecKeys) + len(c.QuatKeys)
			if keys != len(c.Times) {
				return errors.Errorf("Animation %d channel %d: %d keys for %d times", ai, ci, keys, len(c.Times))
			}

			anim.Channels = append(anim.Channels, c)
		}

		anim.ComputeDuration()
		s.Animations = append(s.Animations, anim)
	}
	return nil
}

// middleKeys extracts the vertex values of a cubic spline key triple
// (in-tangent, value, out-tangent).
func middleKeys[T any](keys []T) []T {
	if len(keys)%3 != 0 {
		return keys
	}
	out := make([]T, 0, len(keys)/3)
	for i := 1; i < len(keys); i += 3 {
		out = append(out, keys[i])
	}
	return out
}

type channelKey struct {
	node *scene.Node
	path scene.TargetPath
}

// synthesizeRestChannels gives every animation a single-key channel for
// each node property some other animation touches but this one does not.
// Without it, switching or blending between animations with different
// channel sets leaves stale pose values on the untouched nodes.
func synthesizeRestChannels(s *scene.Scene, nodes []*scene.Node) {
	targeted := make(map[channelKey]struct{})
	for _, a := range s.Animations {
		for _, c := range a.Channels {
			targeted[channelKey{c.Target, c.Path}] = struct{}{}
		}
	}

	for _, a := range s.Animations {
		has := make(map[channelKey]struct{}, len(a.Channels))
		for _, c := range a.Channels {
			has[channelKey{c.Target, c.Path}] = struct{}{}
		}

		// iterate nodes, not the map, to keep channel order deterministic
		for _, n := range nodes {
			for _, p := range []scene.TargetPath{scene.PathTranslation, scene.PathRotation} {
				k := channelKey{n, p}
				if _, need := targeted[k]; !need {
					continue
				}
				if _, ok := has[k]; ok {
					continue
				}
				c := &scene.Channel{Target: n, Path: p, Times: []float32{0}}
				if p == scene.PathTranslation {
					c.VecKeys = []mgl32.Vec3{n.Translation}
				} else {
					c.QuatKeys = []mgl32.Quat{n.Rotation}
				}
				a.Channels = append(a.Channels, c)
			}
		}
	}
}

func quatFromGLTF(v [4]float32) mgl32.Quat {
	return mgl32.Quat{W: v[3], V: mgl32.Vec3{v[0], v[1], v[2]}}.Normalize()
}

// decomposeMatrix splits a column-major transform matrix into rotation,
// translation and per-axis scale (column norms). Negative determinants
// (mirroring) are not handled.
func decomposeMatrix(m mgl32.Mat4) (q mgl32.Quat, t, s mgl32.Vec3) {
	t = mgl32.Vec3{m[12], m[13], m[14]}

	m3 := m.Mat3()
	for c := 0; c < 3; c++ {
		s[c] = mgl32.Vec3{m3[c*3], m3[c*3+1], m3[c*3+2]}.Len()
		if s[c] != 0 {
			m3[c*3] /= s[c]
			m3[c*3+1] /= s[c]
			m3[c*3+2] /= s[c]
		}
	}

	q = pga.FromMat3(m3).RotorQuat()
	return q, t, s
}

func readFloats(doc *gltf.Document, accessor uint32) ([]float32, error) {
	data, err := modeler.ReadAccessor(doc, doc.Accessors[accessor], nil)
	if err != nil {
		return nil, err
	}
	v, ok := data.([]float32)
	if !ok {
		return nil, errors.Errorf("Accessor %d: expected scalar floats, got %T", accessor, data)
	}
	return v, nil
}

func readVec3s(doc *gltf.Document, accessor uint32) ([]mgl32.Vec3, error) {
	data, err := modeler.ReadAccessor(doc, doc.Accessors[accessor], nil)
	if err != nil {
		return nil, err
	}
	raw, ok := data.([][3]float32)
	if !ok {
		return nil, errors.Errorf("Accessor %d: expected vec3 floats, got %T", accessor, data)
	}
	out := make([]mgl32.Vec3, len(raw))
	for i, v := range raw {
		out[i] = mgl32.Vec3(v)
	}
	return out, nil
}

func readQuats(doc *gltf.Document, accessor uint32) ([]mgl32.Quat, error) {
	data, err := modeler.ReadAccessor(doc, doc.Accessors[accessor], nil)
	if err != nil {
		return nil, err
	}
	raw, ok := data.([][4]float32)
	if !ok {
		return nil, errors.Errorf("Accessor %d: expected vec4 floats, got %T", accessor, data)
	}
	out := make([]mgl32.Quat, len(raw))
	for i, v := range raw {
		out[i] = quatFromGLTF(v)
	}
	return out, nil
}

func readMat4s(doc *gltf.Document, accessor uint32) ([]mgl32.Mat4, error) {
	data, err := modeler.ReadAccessor(doc, doc.Accessors[accessor], nil)
	if err != nil {
		return nil, err
	}
	raw, ok := data.([][4][4]float32)
	if !ok {
		return nil, errors.Errorf("Accessor %d: expected mat4 floats, got %T", accessor, data)
	}
	out := make([]mgl32.Mat4, len(raw))
	for i, m := range raw {
		var flat mgl32.Mat4
		for c := 0; c < 4; c++ {
			for r := 0; r < 4; r++ {
				flat[c*4+r] = m[c][r]
			}
		}
		out[i] = flat
	}
	return out, nil
}
