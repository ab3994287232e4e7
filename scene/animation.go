package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/motor_viewer/pga"
)

type TargetPath uint8

const (
	PathTranslation TargetPath = iota
	PathRotation
)

// Channel animates one property of one node. Times and the matching key
// slice are parallel; curFrame/curTime cache the last search position so
// monotonically advancing playback finds its bracket in O(1).
type Channel struct {
	Target *Node
	Path   TargetPath

	Times    []float32
	VecKeys  []mgl32.Vec3
	QuatKeys []mgl32.Quat

	curFrame int
	curTime  float32
}

// seek returns the smallest frame index f with Times[f] >= t, scanning
// forward from the cached cursor when time moved forward and restarting
// from 0 on scrubs and loop wraps.
func (c *Channel) seek(t float32) int {
	f := 0
	if t >= c.curTime {
		f = c.curFrame
	}
	for f < len(c.Times) && c.Times[f] < t {
		f++
	}
	c.curFrame = f
	c.curTime = t
	return f
}

// bracket resolves t to two key indices and an interpolation fraction.
// i0 == i1 signals an exact key or an out-of-range time: the caller must
// return the key value untouched, avoiding interpolation drift.
func (c *Channel) bracket(t float32) (i0, i1 int, u float32) {
	f := c.seek(t)
	if f == 0 {
		return 0, 0, 0
	}
	if f >= len(c.Times) {
		last := len(c.Times) - 1
		return last, last, 0
	}
	t0, t1 := c.Times[f-1], c.Times[f]
	u = mgl32.Clamp((t-t0)/(t1-t0), 0, 1)
	if u >= 1 {
		return f, f, 0
	}
	return f - 1, f, u
}

func (c *Channel) SampleVec(t float32) mgl32.Vec3 {
	i0, i1, u := c.bracket(t)
	if i0 == i1 {
		return c.VecKeys[i0]
	}
	a, b := c.VecKeys[i0], c.VecKeys[i1]
	return a.Add(b.Sub(a).Mul(u))
}

func (c *Channel) SampleQuat(t float32) mgl32.Quat {
	i0, i1, u := c.bracket(t)
	if i0 == i1 {
		return c.QuatKeys[i0]
	}
	a := c.QuatKeys[i0]
	b := pga.ShortestPathQuat(a, c.QuatKeys[i1])
	return quatLerp(a, b, u).Normalize()
}

func quatLerp(a, b mgl32.Quat, u float32) mgl32.Quat {
	return mgl32.Quat{
		W: a.W + (b.W-a.W)*u,
		V: a.V.Add(b.V.Sub(a.V).Mul(u)),
	}
}

type Animation struct {
	Name     string
	Channels []*Channel

	// max keyframe time across all channels
	Duration float32
}

func (a *Animation) ComputeDuration() {
	a.Duration = 0
	for _, c := range a.Channels {
		if n := len(c.Times); n > 0 && c.Times[n-1] > a.Duration {
			a.Duration = c.Times[n-1]
		}
	}
}

// apply samples every channel at t and writes the raw node properties.
// Touched nodes are recorded for the local motor rebuild.
func (a *Animation) apply(t float32, touched map[*Node]struct{}) {
	for _, c := range a.Channels {
		switch c.Path {
		case PathTranslation:
			c.Target.Translation = c.SampleVec(t)
		case PathRotation:
			c.Target.Rotation = c.SampleQuat(t)
		}
		touched[c.Target] = struct{}{}
	}
}

// applyBlend samples every channel at t and blends the result over the
// node's current pose with factor beta, sign-correcting rotations against
// the value already stored so the cross-fade takes the minor arc.
func (a *Animation) applyBlend(t, beta float32, touched map[*Node]struct{}) {
	for _, c := range a.Channels {
		switch c.Path {
		case PathTranslation:
			cur := c.Target.Translation
			v := c.SampleVec(t)
			c.Target.Translation = cur.Add(v.Sub(cur).Mul(beta))
		case PathRotation:
			cur := c.Target.Rotation
			q := pga.ShortestPathQuat(cur, c.SampleQuat(t))
			c.Target.Rotation = quatLerp(cur, q, beta).Normalize()
		}
		touched[c.Target] = struct{}{}
	}
}
