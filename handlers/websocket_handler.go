package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/quadrahub/chaveamento/brackets"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The bracket feed is public read-only data; origin filtering is
	// left to the CORS policy on the API itself.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type WebSocketHandler struct {
	hub    *brackets.Hub
	logger *slog.Logger
}

func NewWebSocketHandler(hub *brackets.Hub, logger *slog.Logger) *WebSocketHandler {
	return &WebSocketHandler{hub: hub, logger: logger}
}

// ServeWs subscribes a client to live updates for one modality.
// Clients connect to /ws/{modality}.
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	modality, err := getModalityFromURL(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error to the client.
		h.logger.Warn("websocket upgrade failed",
			slog.String("modality", string(modality)), slog.Any("error", err))
		return
	}

	client := h.hub.NewClient(conn, modality)
	go client.WritePump()
	go client.ReadPump()
}
