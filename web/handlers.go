package web

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/mogaika/motor_viewer/config"
	"github.com/mogaika/motor_viewer/pga"
	"github.com/mogaika/motor_viewer/utils"
	"github.com/mogaika/motor_viewer/webutils"
)

func HandlerAjaxConfig(w http.ResponseWriter, r *http.Request) {
	webutils.WriteJson(w, config.Get())
}

type ajaxAnimation struct {
	Index    int
	Name     string
	Channels int
	Duration float32
}

type ajaxScene struct {
	Name       string
	Nodes      []string
	Skins      []string
	Animations []ajaxAnimation
}

func HandlerAjaxScene(w http.ResponseWriter, r *http.Request) {
	s := ServerPlayer.Scene()

	result := ajaxScene{Name: s.Name}
	for _, n := range s.Nodes {
		result.Nodes = append(result.Nodes, n.Name)
	}
	for _, sk := range s.Skins {
		result.Skins = append(result.Skins, sk.Name)
	}
	for i, a := range s.Animations {
		result.Animations = append(result.Animations, ajaxAnimation{
			Index:    i,
			Name:     a.Name,
			Channels: len(a.Channels),
			Duration: a.Duration,
		})
	}
	webutils.WriteJson(w, &result)
}

type ajaxNode struct {
	Name           string
	Parent         string
	Children       []string
	Translation    [3]float32
	Rotation       [4]float32
	EulerDegrees   [3]float32
	Scale          [3]float32
	WorldScale     [3]float32
	Transform      pga.Motor
	WorldTransform pga.Motor
	WorldPosition  [3]float32
}

func HandlerAjaxSceneNode(w http.ResponseWriter, r *http.Request) {
	s := ServerPlayer.Scene()
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id < 0 || id >= len(s.Nodes) {
		webutils.WriteError(w, fmt.Errorf("Invalid node id %q", mux.Vars(r)["id"]))
		return
	}
	n := s.Nodes[id]

	result := ajaxNode{
		Name:           n.Name,
		Translation:    n.Translation,
		Rotation:       [4]float32{n.Rotation.V[0], n.Rotation.V[1], n.Rotation.V[2], n.Rotation.W},
		EulerDegrees:   utils.RadiansToDegreeV3(utils.QuatToEuler(n.Rotation)),
		Scale:          n.Scale,
		WorldScale:     n.WorldScale,
		Transform:      n.Transform,
		WorldTransform: n.WorldTransform,
		WorldPosition:  n.WorldTransform.Translation(),
	}
	if n.Parent() != nil {
		result.Parent = n.Parent().Name
	}
	for _, c := range n.Children {
		result.Children = append(result.Children, c.Name)
	}
	webutils.WriteJson(w, &result)
}

type ajaxSkinJoint struct {
	Name        string
	InverseBind pga.Motor
	SkinMotor   pga.Motor
}

type ajaxSkin struct {
	Name     string
	Skeleton string
	Joints   []ajaxSkinJoint
}

func HandlerAjaxSceneSkin(w http.ResponseWriter, r *http.Request) {
	s := ServerPlayer.Scene()
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id < 0 || id >= len(s.Skins) {
		webutils.WriteError(w, fmt.Errorf("Invalid skin id %q", mux.Vars(r)["id"]))
		return
	}
	sk := s.Skins[id]

	result := ajaxSkin{Name: sk.Name}
	if sk.Skeleton != nil {
		result.Skeleton = sk.Skeleton.Name
	}
	for i, j := range sk.Joints {
		result.Joints = append(result.Joints, ajaxSkinJoint{
			Name:        j.Name,
			InverseBind: sk.InverseBindMotors[i],
			SkinMotor:   sk.JointMotor(i),
		})
	}
	webutils.WriteJson(w, &result)
}

func HandlerAjaxAnimations(w http.ResponseWriter, r *http.Request) {
	s := ServerPlayer.Scene()
	result := make([]ajaxAnimation, 0, len(s.Animations))
	for i, a := range s.Animations {
		result = append(result, ajaxAnimation{
			Index:    i,
			Name:     a.Name,
			Channels: len(a.Channels),
			Duration: a.Duration,
		})
	}
	webutils.WriteJson(w, result)
}

func HandlerAjaxFrame(w http.ResponseWriter, r *http.Request) {
	webutils.WriteJson(w, ServerPlayer.Snapshot())
}

// animation route parameter is an index or a clip name
func resolveAnimation(param string) (int, error) {
	if id, err := strconv.Atoi(param); err == nil {
		return id, nil
	}
	return ServerPlayer.Scene().AnimationIndex(param)
}

func HandlerActionPlay(w http.ResponseWriter, r *http.Request) {
	id, err := resolveAnimation(mux.Vars(r)["animation"])
	if err == nil {
		err = ServerPlayer.Play(id)
	}
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	webutils.WriteJson(w, "ok")
}

func HandlerActionBlend(w http.ResponseWriter, r *http.Request) {
	id, err := resolveAnimation(mux.Vars(r)["animation"])
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	duration, err := strconv.ParseFloat(mux.Vars(r)["duration"], 32)
	if err != nil {
		webutils.WriteError(w, fmt.Errorf("Invalid blend duration %q", mux.Vars(r)["duration"]))
		return
	}
	if err := ServerPlayer.BlendTo(id, float32(duration)); err != nil {
		webutils.WriteError(w, err)
		return
	}
	webutils.WriteJson(w, "ok")
}

func HandlerActionSeek(w http.ResponseWriter, r *http.Request) {
	t, err := strconv.ParseFloat(mux.Vars(r)["time"], 32)
	if err != nil {
		webutils.WriteError(w, fmt.Errorf("Invalid time %q", mux.Vars(r)["time"]))
		return
	}
	ServerPlayer.Seek(float32(t))
	webutils.WriteJson(w, "ok")
}

func HandlerActionSpeed(w http.ResponseWriter, r *http.Request) {
	speed, err := strconv.ParseFloat(mux.Vars(r)["speed"], 32)
	if err != nil {
		webutils.WriteError(w, fmt.Errorf("Invalid speed %q", mux.Vars(r)["speed"]))
		return
	}
	ServerPlayer.SetSpeed(float32(speed))
	webutils.WriteJson(w, "ok")
}

func HandlerActionPause(w http.ResponseWriter, r *http.Request) {
	ServerPlayer.SetPlaying(false)
	webutils.WriteJson(w, "ok")
}

func HandlerActionResume(w http.ResponseWriter, r *http.Request) {
	ServerPlayer.SetPlaying(true)
	webutils.WriteJson(w, "ok")
}

func HandlerDumpScene(w http.ResponseWriter, r *http.Request) {
	s := ServerPlayer.Scene()
	webutils.WriteFile(w, strings.NewReader(utils.SDump(s)), s.Name+".txt")
}

func HandlerDumpFrame(w http.ResponseWriter, r *http.Request) {
	f := ServerPlayer.Snapshot()
	webutils.WriteJsonFile(w, f, f.Scene+"_frame")
}
