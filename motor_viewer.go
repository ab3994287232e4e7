package main

import (
	"flag"
	"log"

	"github.com/mogaika/motor_viewer/config"
	"github.com/mogaika/motor_viewer/loader"
	"github.com/mogaika/motor_viewer/player"
	"github.com/mogaika/motor_viewer/web"
)

func main() {
	var addr, cfgpath, model, animation, webdir string
	var speed, framerate float64
	var loop bool
	flag.StringVar(&addr, "i", "", "Address of server")
	flag.StringVar(&cfgpath, "config", "motor_viewer.yaml", "Path to config file")
	flag.StringVar(&model, "model", "", "Path to gltf model")
	flag.StringVar(&animation, "anim", "", "Animation to play on start")
	flag.StringVar(&webdir, "webdir", "", "Path to web client files")
	flag.Float64Var(&speed, "speed", 0, "Playback speed override")
	flag.Float64Var(&framerate, "fps", 0, "Playback frame rate override")
	flag.BoolVar(&loop, "loop", true, "Loop animation playback")
	flag.Parse()

	if model == "" {
		flag.PrintDefaults()
		return
	}

	cfg, err := config.Load(cfgpath)
	if err != nil {
		log.Fatal(err)
	}
	if addr != "" {
		cfg.Listen = addr
	}
	if animation != "" {
		cfg.DefaultAnimation = animation
	}
	if webdir != "" {
		cfg.WebDir = webdir
	}
	if speed != 0 {
		cfg.Speed = float32(speed)
	}
	if framerate != 0 {
		cfg.FrameRate = float32(framerate)
	}
	cfg.Loop = loop
	config.Set(cfg)

	s, err := loader.Open(model)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("[main] Loaded scene %q: %d nodes, %d skins, %d animations",
		s.Name, len(s.Nodes), len(s.Skins), len(s.Animations))

	p := player.NewPlayer(s)
	p.SetSpeed(cfg.Speed)
	p.SetLoop(cfg.Loop)
	if cfg.DefaultAnimation != "" {
		if err := p.PlayByName(cfg.DefaultAnimation); err != nil {
			log.Printf("[main] %v", err)
		}
	}

	if err := web.StartServer(cfg.Listen, p, cfg.WebDir, cfg.FrameRate); err != nil {
		log.Fatal(err)
	}
}
