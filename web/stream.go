package web

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mogaika/motor_viewer/player"
)

// Hub drives the playback clock and pushes one frame snapshot per tick
// to every connected websocket client.
type Hub struct {
	p        *player.Player
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

func NewHub(p *player.Player) *Hub {
	return &Hub{
		p:       p,
		clients: make(map[*websocket.Conn]struct{}),
		upgrader: websocket.Upgrader{
			// viewer pages are served from file:// during development
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (h *Hub) Run(frameRate float32) {
	if frameRate <= 0 {
		frameRate = 60
	}
	dt := 1 / frameRate

	ticker := time.NewTicker(time.Duration(float64(time.Second) / float64(frameRate)))
	defer ticker.Stop()

	for range ticker.C {
		h.p.Step(dt)
		h.broadcast(h.p.Snapshot())
	}
}

func (h *Hub) broadcast(f *player.Frame) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.clients) == 0 {
		return
	}

	data, err := json.Marshal(f)
	if err != nil {
		log.Printf("[web] Error marshaling frame: %v", err)
		return
	}

	for c := range h.clients {
		if err := c.WriteMessage(websocket.TextMessage, data); err != nil {
			c.Close()
			delete(h.clients, c)
		}
	}
}

func (h *Hub) HandlerWebsocket(w http.ResponseWriter, r *http.Request) {
	c, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[web] Websocket upgrade failed: %v", err)
		return
	}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	count := len(h.clients)
	h.mu.Unlock()
	log.Printf("[web] Websocket client connected (%d total)", count)

	// clients only listen; the read loop exists to notice disconnects
	go func() {
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
		h.mu.Lock()
		delete(h.clients, c)
		h.mu.Unlock()
		c.Close()
	}()
}
