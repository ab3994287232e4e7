package web

import (
	"log"
	"net/http"
	"os"
	"path"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/mogaika/motor_viewer/player"
)

var ServerPlayer *player.Player

func StartServer(addr string, p *player.Player, webPath string, frameRate float32) error {
	ServerPlayer = p

	hub := NewHub(p)
	go hub.Run(frameRate)

	r := mux.NewRouter()
	r.HandleFunc("/json/config", HandlerAjaxConfig)
	r.HandleFunc("/json/scene", HandlerAjaxScene)
	r.HandleFunc("/json/scene/nodes/{id}", HandlerAjaxSceneNode)
	r.HandleFunc("/json/scene/skins/{id}", HandlerAjaxSceneSkin)
	r.HandleFunc("/json/scene/animations", HandlerAjaxAnimations)
	r.HandleFunc("/json/frame", HandlerAjaxFrame)
	r.HandleFunc("/action/play/{animation}", HandlerActionPlay)
	r.HandleFunc("/action/blend/{animation}/{duration}", HandlerActionBlend)
	r.HandleFunc("/action/seek/{time}", HandlerActionSeek)
	r.HandleFunc("/action/speed/{speed}", HandlerActionSpeed)
	r.HandleFunc("/action/pause", HandlerActionPause)
	r.HandleFunc("/action/resume", HandlerActionResume)
	r.HandleFunc("/dump/scene", HandlerDumpScene)
	r.HandleFunc("/dump/frame", HandlerDumpFrame)
	r.HandleFunc("/ws", hub.HandlerWebsocket)

	r.PathPrefix("/").Handler(http.FileServer(http.Dir(path.Join(webPath, "data"))))

	h := handlers.RecoveryHandler()(r)
	h = handlers.LoggingHandler(os.Stdout, h)

	log.Printf("[web] Starting server %v", addr)

	return http.ListenAndServe(addr, h)
}
