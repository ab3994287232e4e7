package scene

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/motor_viewer/pga"
)

func vecChannel(n *Node, times []float32, keys []mgl32.Vec3) *Channel {
	return &Channel{Target: n, Path: PathTranslation, Times: times, VecKeys: keys}
}

func quatChannel(n *Node, times []float32, keys []mgl32.Quat) *Channel {
	return &Channel{Target: n, Path: PathRotation, Times: times, QuatKeys: keys}
}

func TestSampleExactKeyframe(t *testing.T) {
	c := vecChannel(nil,
		[]float32{0, 1, 2},
		[]mgl32.Vec3{{0, 0, 0}, {1, 2, 3}, {4, 5, 6}})

	// a time landing on a keyframe returns the stored value bit-exact
	for i, tm := range c.Times {
		if got := c.SampleVec(tm); got != c.VecKeys[i] {
			t.Errorf("SampleVec(%v) = %v, want key %v exactly", tm, got, c.VecKeys[i])
		}
	}
}

func TestSampleInterpolationAndClamp(t *testing.T) {
	c := vecChannel(nil,
		[]float32{0, 2},
		[]mgl32.Vec3{{0, 0, 0}, {4, 0, 0}})

	if got := c.SampleVec(1); !v3Near(got, mgl32.Vec3{2, 0, 0}) {
		t.Errorf("midpoint sample = %v, want (2,0,0)", got)
	}
	if got := c.SampleVec(-1); got != c.VecKeys[0] {
		t.Errorf("before-start sample = %v, want first key", got)
	}
	if got := c.SampleVec(5); got != c.VecKeys[1] {
		t.Errorf("past-end sample = %v, want last key", got)
	}
}

func TestSampleCursorScrub(t *testing.T) {
	times := []float32{0, 0.5, 1, 1.5, 2}
	keys := []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}, {3, 0, 0}, {4, 0, 0}}

	c := vecChannel(nil, times, keys)
	probes := []float32{0.1, 0.6, 0.6, 1.7, 2.5, 0.3, 1.2}
	for _, tm := range probes {
		fresh := vecChannel(nil, times, keys)
		got, want := c.SampleVec(tm), fresh.SampleVec(tm)
		if !v3Near(got, want) {
			t.Errorf("cursor sample at %v = %v, fresh channel gives %v", tm, got, want)
		}
	}
}

func TestSampleQuatShortPath(t *testing.T) {
	deg := float32(math.Pi / 180)
	c := quatChannel(nil,
		[]float32{0, 1},
		[]mgl32.Quat{
			mgl32.QuatRotate(170*deg, mgl32.Vec3{0, 0, 1}),
			mgl32.QuatRotate(-170*deg, mgl32.Vec3{0, 0, 1}),
		})

	got := c.SampleQuat(0.5)
	if !near(got.Len(), 1) {
		t.Errorf("sampled quat not unit: |q| = %v", got.Len())
	}
	want := mgl32.QuatRotate(180*deg, mgl32.Vec3{0, 0, 1})
	if !near(float32(math.Abs(float64(got.Dot(want)))), 1) {
		t.Errorf("midpoint quat = %v, want ±%v", got, want)
	}
}

func TestAnimateRebuildsWorldPose(t *testing.T) {
	s, _, mid, leaf := testChain()
	q := mgl32.QuatRotate(float32(math.Pi/2), mgl32.Vec3{0, 0, 1})

	s.Animations = []*Animation{{
		Name: "pose",
		Channels: []*Channel{
			quatChannel(mid, []float32{0}, []mgl32.Quat{q}),
			vecChannel(mid, []float32{0}, []mgl32.Vec3{{1, 0, 0}}),
			vecChannel(leaf, []float32{0}, []mgl32.Vec3{{1, 0, 0}}),
		},
	}}
	s.Animations[0].ComputeDuration()

	s.Animate(0, 0, -1, 0, 0)
	s.UpdateWorldTransforms()
	s.UpdateSkins()

	if !motorNear(mid.Transform, pga.TRMotor(q, mgl32.Vec3{1, 0, 0})) {
		t.Errorf("mid local motor = %v", mid.Transform)
	}
	// leaf's local +x is rotated into +y by mid before mid's translation
	if got := leaf.WorldTransform.Translation(); !v3Near(got, mgl32.Vec3{1, 1, 0}) {
		t.Errorf("leaf world translation = %v, want (1,1,0)", got)
	}
}

func TestAnimateCrossFade(t *testing.T) {
	s, _, mid, _ := testChain()
	qa := mgl32.QuatIdent()
	qb := mgl32.QuatRotate(float32(math.Pi/2), mgl32.Vec3{0, 0, 1})

	s.Animations = []*Animation{
		{Name: "a", Channels: []*Channel{
			vecChannel(mid, []float32{0}, []mgl32.Vec3{{0, 0, 0}}),
			quatChannel(mid, []float32{0}, []mgl32.Quat{qa}),
		}},
		{Name: "b", Channels: []*Channel{
			vecChannel(mid, []float32{0}, []mgl32.Vec3{{2, 0, 0}}),
			quatChannel(mid, []float32{0}, []mgl32.Quat{qb}),
		}},
	}

	s.Animate(0, 0, 1, 0, 0)
	if !v3Near(mid.Translation, mgl32.Vec3{0, 0, 0}) {
		t.Errorf("beta=0 translation = %v, want first pose", mid.Translation)
	}

	s.Animate(0, 0, 1, 0, 1)
	if !v3Near(mid.Translation, mgl32.Vec3{2, 0, 0}) {
		t.Errorf("beta=1 translation = %v, want second pose", mid.Translation)
	}
	if !near(float32(math.Abs(float64(mid.Rotation.Dot(qb)))), 1) {
		t.Errorf("beta=1 rotation = %v, want %v", mid.Rotation, qb)
	}

	s.Animate(0, 0, 1, 0, 0.5)
	if !v3Near(mid.Translation, mgl32.Vec3{1, 0, 0}) {
		t.Errorf("beta=0.5 translation = %v, want midpoint", mid.Translation)
	}
	if !near(mid.Rotation.Len(), 1) {
		t.Errorf("beta=0.5 rotation not renormalized: |q| = %v", mid.Rotation.Len())
	}
}

func TestComputeDuration(t *testing.T) {
	a := &Animation{Channels: []*Channel{
		vecChannel(nil, []float32{0, 0.5}, []mgl32.Vec3{{}, {}}),
		vecChannel(nil, []float32{0, 1.25}, []mgl32.Vec3{{}, {}}),
	}}
	a.ComputeDuration()
	if !near(a.Duration, 1.25) {
		t.Errorf("duration = %v, want 1.25", a.Duration)
	}
}
