package player

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/motor_viewer/pga"
	"github.com/mogaika/motor_viewer/scene"
)

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-5
}

// two one-second clips moving the single node to x=1 and x=2
func testPlayerScene() (*scene.Scene, *scene.Node) {
	n := scene.NewNode("n")
	s := scene.NewScene("test")
	s.Roots = []*scene.Node{n}
	s.Nodes = []*scene.Node{n}

	clip := func(name string, x float32) *scene.Animation {
		a := &scene.Animation{Name: name, Channels: []*scene.Channel{{
			Target:  n,
			Path:    scene.PathTranslation,
			Times:   []float32{0, 1},
			VecKeys: []mgl32.Vec3{{0, 0, 0}, {x, 0, 0}},
		}}}
		a.ComputeDuration()
		return a
	}
	s.Animations = []*scene.Animation{clip("one", 1), clip("two", 2)}
	return s, n
}

func TestStepAdvancesAndLoops(t *testing.T) {
	s, n := testPlayerScene()
	p := NewPlayer(s)

	p.Step(0.5)
	if got := n.WorldTransform.Translation()[0]; !near(got, 0.5) {
		t.Errorf("x after 0.5s = %v, want 0.5", got)
	}

	// 0.5 + 1.25 wraps the one-second clip to t=0.75
	p.Step(1.25)
	if got := n.WorldTransform.Translation()[0]; !near(got, 0.75) {
		t.Errorf("x after loop wrap = %v, want 0.75", got)
	}
}

func TestStepNoLoopClamps(t *testing.T) {
	s, n := testPlayerScene()
	p := NewPlayer(s)
	p.SetLoop(false)

	p.Step(5)
	if got := n.WorldTransform.Translation()[0]; !near(got, 1) {
		t.Errorf("x past clip end = %v, want clamped 1", got)
	}
}

func TestSpeed(t *testing.T) {
	s, n := testPlayerScene()
	p := NewPlayer(s)
	p.SetSpeed(0.5)

	p.Step(1)
	if got := n.WorldTransform.Translation()[0]; !near(got, 0.5) {
		t.Errorf("x at half speed = %v, want 0.5", got)
	}
}

func TestBlendToCrossFade(t *testing.T) {
	s, n := testPlayerScene()
	p := NewPlayer(s)

	if err := p.BlendTo(1, 1); err != nil {
		t.Fatal(err)
	}

	// halfway through the fade: clip one at t=0.5 gives x=0.5, clip two
	// at t=0.5 gives x=1, beta=0.5 blends to 0.75
	p.Step(0.5)
	if got := n.WorldTransform.Translation()[0]; !near(got, 0.75) {
		t.Errorf("x mid-fade = %v, want 0.75", got)
	}

	// fade completes, target becomes primary
	p.Step(0.5)
	f := p.Snapshot()
	if f.Clip != 1 || f.Blending {
		t.Errorf("after fade: clip=%d blending=%v, want clip 1 not blending", f.Clip, f.Blending)
	}
	if got := n.WorldTransform.Translation()[0]; !near(got, 2) {
		t.Errorf("x after fade completion = %v, want 2", got)
	}
}

func TestBlendToZeroDurationSwitches(t *testing.T) {
	s, _ := testPlayerScene()
	p := NewPlayer(s)

	if err := p.BlendTo(1, 0); err != nil {
		t.Fatal(err)
	}
	f := p.Snapshot()
	if f.Clip != 1 || f.Blending {
		t.Errorf("zero duration blend: clip=%d blending=%v", f.Clip, f.Blending)
	}
}

func TestPlayByName(t *testing.T) {
	s, _ := testPlayerScene()
	p := NewPlayer(s)

	if err := p.PlayByName("two"); err != nil {
		t.Fatal(err)
	}
	if f := p.Snapshot(); f.Clip != 1 {
		t.Errorf("clip = %d, want 1", f.Clip)
	}
	if err := p.PlayByName("nope"); err == nil {
		t.Errorf("expected error for unknown animation")
	}
}

func TestSnapshotCopiesPalette(t *testing.T) {
	s, n := testPlayerScene()
	sk := scene.NewSkin("skin", []*scene.Node{n}, []pga.Motor{pga.Identity()}, nil)
	s.Skins = []*scene.Skin{sk}
	p := NewPlayer(s)

	p.Step(0.5)
	f := p.Snapshot()
	if len(f.Skins) != 1 || len(f.Skins[0].Motors) != scene.MotorFloats {
		t.Fatalf("snapshot palette shape: %d skins", len(f.Skins))
	}
	// skin motor is a translator, slot 4 carries x
	if got := f.Skins[0].Motors[4]; !near(got, 0.5) {
		t.Fatalf("palette x = %v, want 0.5", got)
	}

	// snapshot must not alias the live palette
	p.Step(0.25)
	if got := f.Skins[0].Motors[4]; !near(got, 0.5) {
		t.Errorf("snapshot palette changed after Step: x = %v", got)
	}
}
