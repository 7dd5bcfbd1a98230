package server

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/ayusman/mudra/internal/app"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// TelemetryHandler streams pipeline telemetry to WebSocket clients. Each
// client gets its own subscription to the application's feed, so the
// pipeline is never read twice.
type TelemetryHandler struct {
	app *app.App
}

// NewTelemetryHandler creates a new TelemetryHandler for the given application.
func NewTelemetryHandler(a *app.App) *TelemetryHandler {
	return &TelemetryHandler{app: a}
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *TelemetryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	ch, cancel := h.app.Subscribe()
	defer cancel()

	// Drain client messages so close frames are processed; a read error
	// means the client is gone.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case t := <-ch:
			if err := conn.WriteJSON(t); err != nil {
				return
			}
		}
	}
}
