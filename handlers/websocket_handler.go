package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/Dosada05/bracket-engine/realtime"
	"github.com/Dosada05/bracket-engine/services"
	"github.com/gorilla/websocket"
)

const snapshotMessageType = "bracket-snapshot"

type WebSocketHandler struct {
	hub            *realtime.Hub
	bracketService services.BracketService
	upgrader       websocket.Upgrader
	logger         *slog.Logger
}

// NewWebSocketHandler accepts connections from allowedOrigins; "*" allows any origin.
func NewWebSocketHandler(hub *realtime.Hub, bs services.BracketService, allowedOrigins []string, logger *slog.Logger) *WebSocketHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &WebSocketHandler{
		hub:            hub,
		bracketService: bs,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		logger: logger,
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, a := range allowed {
			if a == "*" || a == origin {
				return true
			}
		}
		return false
	}
}

// ServeWs подключает клиента к комнате турнира /ws/tournaments/{tournamentID}.
// The current bracket, when one exists, is sent right after the client joins.
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		h.logger.Warn("Failed to upgrade connection", slog.Int("tournament_id", tournamentID), slog.Any("error", err))
		return
	}

	roomID := realtime.RoomForTournament(tournamentID)
	client := &realtime.Client{
		Hub:  h.hub,
		Conn: conn,
		Send: make(chan []byte, 256),
		Room: roomID,
	}
	client.Hub.Register <- client

	go client.WritePump()
	go client.ReadPump()

	h.logger.Debug("WebSocket client joined", slog.String("room", roomID))

	bracket, err := h.bracketService.GetBracket(r.Context(), tournamentID)
	if err != nil {
		return
	}
	msg, err := json.Marshal(realtime.WebSocketMessage{Type: snapshotMessageType, Payload: bracket, RoomID: roomID})
	if err != nil {
		h.logger.Error("Failed to marshal bracket snapshot", slog.Int("tournament_id", tournamentID), slog.Any("error", err))
		return
	}

	client.Mu.Lock()
	defer client.Mu.Unlock()
	if !client.IsClosed {
		select {
		case client.Send <- msg:
		default:
		}
	}
}
