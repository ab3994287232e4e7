// Package player drives a scene's animation playback: clip selection,
// looping, speed, cross-fades between clips, and per-frame evaluation of
// the transform and skinning pipeline.
package player

import (
	"math"
	"sync"

	"github.com/pkg/errors"

	"github.com/mogaika/motor_viewer/pga"
	"github.com/mogaika/motor_viewer/scene"
)

type Player struct {
	mu sync.Mutex
	s  *scene.Scene

	clip    int
	time    float32
	speed   float32
	loop    bool
	playing bool

	blending      bool
	blendTo       int
	blendToTime   float32
	blendDuration float32
	blendElapsed  float32
}

func NewPlayer(s *scene.Scene) *Player {
	p := &Player{
		s:     s,
		clip:  -1,
		speed: 1,
		loop:  true,
	}
	if len(s.Animations) > 0 {
		p.clip = 0
		p.playing = true
	}
	return p
}

func (p *Player) Scene() *scene.Scene { return p.s }

func (p *Player) Play(clip int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if clip < 0 || clip >= len(p.s.Animations) {
		return errors.Errorf("No animation %d (scene has %d)", clip, len(p.s.Animations))
	}
	p.clip = clip
	p.time = 0
	p.playing = true
	p.blending = false
	return nil
}

func (p *Player) PlayByName(name string) error {
	i, err := p.s.AnimationIndex(name)
	if err != nil {
		return err
	}
	return p.Play(i)
}

// BlendTo starts a cross-fade from the current clip into clip over
// duration seconds. The current clip keeps advancing underneath until the
// fade completes and the target becomes primary.
func (p *Player) BlendTo(clip int, duration float32) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if clip < 0 || clip >= len(p.s.Animations) {
		return errors.Errorf("No animation %d (scene has %d)", clip, len(p.s.Animations))
	}
	if duration <= 0 || p.clip < 0 {
		p.clip = clip
		p.time = 0
		p.playing = true
		p.blending = false
		return nil
	}
	p.blending = true
	p.blendTo = clip
	p.blendToTime = 0
	p.blendDuration = duration
	p.blendElapsed = 0
	p.playing = true
	return nil
}

func (p *Player) Seek(t float32) {
	p.mu.Lock()
	p.time = t
	p.mu.Unlock()
}

func (p *Player) SetSpeed(speed float32) {
	p.mu.Lock()
	p.speed = speed
	p.mu.Unlock()
}

func (p *Player) SetLoop(loop bool) {
	p.mu.Lock()
	p.loop = loop
	p.mu.Unlock()
}

func (p *Player) SetPlaying(playing bool) {
	p.mu.Lock()
	p.playing = playing
	p.mu.Unlock()
}

func wrapTime(t, duration float32, loop bool) float32 {
	if duration <= 0 {
		return 0
	}
	if t > duration {
		if !loop {
			return duration
		}
		return float32(math.Mod(float64(t), float64(duration)))
	}
	return t
}

// Step advances playback by dt seconds and reevaluates the scene:
// animation sampling, world transform resolution, skin palettes.
func (p *Player) Step(dt float32) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.clip < 0 {
		// static model, still honor placement changes
		p.s.UpdateWorldTransforms()
		p.s.UpdateSkins()
		return
	}

	beta := float32(0)
	if p.playing {
		p.time = wrapTime(p.time+dt*p.speed, p.s.Animations[p.clip].Duration, p.loop)

		if p.blending {
			p.blendElapsed += dt
			p.blendToTime = wrapTime(p.blendToTime+dt*p.speed, p.s.Animations[p.blendTo].Duration, p.loop)

			beta = p.blendElapsed / p.blendDuration
			if beta >= 1 {
				p.clip = p.blendTo
				p.time = p.blendToTime
				p.blending = false
				beta = 0
			}
		}
	} else if p.blending {
		beta = p.blendElapsed / p.blendDuration
	}

	second := -1
	if p.blending {
		second = p.blendTo
	}
	p.s.Animate(p.clip, p.time, second, p.blendToTime, beta)
	p.s.UpdateWorldTransforms()
	p.s.UpdateSkins()
}

// NodePose is one node's resolved world motor.
type NodePose struct {
	Name  string
	World pga.Motor
}

// SkinPalette is one skin's packed per-joint motor buffer.
type SkinPalette struct {
	Name   string
	Joints int
	Motors []float32
}

// Frame is a self-contained copy of the evaluated scene state, safe to
// hand to encoders after the player moved on.
type Frame struct {
	Scene    string
	Clip     int
	Time     float32
	Blending bool
	Blend    float32
	Nodes    []NodePose
	Skins    []SkinPalette
}

func (p *Player) Snapshot() *Frame {
	p.mu.Lock()
	defer p.mu.Unlock()

	f := &Frame{
		Scene:    p.s.Name,
		Clip:     p.clip,
		Time:     p.time,
		Blending: p.blending,
		Nodes:    make([]NodePose, len(p.s.Nodes)),
		Skins:    make([]SkinPalette, len(p.s.Skins)),
	}
	if p.blending {
		f.Blend = p.blendElapsed / p.blendDuration
	}
	for i, n := range p.s.Nodes {
		f.Nodes[i] = NodePose{Name: n.Name, World: n.WorldTransform}
	}
	for i, sk := range p.s.Skins {
		pal := sk.Palette()
		f.Skins[i] = SkinPalette{
			Name:   sk.Name,
			Joints: len(sk.Joints),
			Motors: append([]float32(nil), pal...),
		}
	}
	return f
}
