package chat

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	chatService "github.com/lazy-care/backend/internal/service/chat"
)

// WebSocketHandler serves a live chat connection: the client sends user
// messages as JSON frames and receives the stored exchange back.
type WebSocketHandler struct {
	chatSvc  *chatService.Service
	upgrader websocket.Upgrader
}

// NewWebSocketHandler creates the live chat handler.
func NewWebSocketHandler(chatSvc *chatService.Service) *WebSocketHandler {
	return &WebSocketHandler{
		chatSvc: chatSvc,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes registers the websocket endpoint.
func (h *WebSocketHandler) RegisterRoutes(r chi.Router) {
	r.Get("/chat/{email}/live", h.handleWebSocket)
}

type inboundMessage struct {
	Message string `json:"message"`
}

type outgoingMessage struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

func (h *WebSocketHandler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")
	if email == "" {
		http.Error(w, "email is required", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ws] upgrade failed for %s: %v", email, err)
		return
	}
	defer conn.Close()

	log.Printf("[ws] live chat opened for %s", email)

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[ws] read error for %s: %v", email, err)
			}
			return
		}

		if inbound.Message == "" {
			h.send(conn, outgoingMessage{Type: "error", Error: "message is required"})
			continue
		}

		record, err := h.chatSvc.AppendExchange(r.Context(), email, inbound.Message)
		if err != nil {
			h.send(conn, outgoingMessage{Type: "error", Error: exchangeErrorText(err)})
			continue
		}

		h.send(conn, outgoingMessage{Type: "exchange", Data: record})
	}
}

func (h *WebSocketHandler) send(conn *websocket.Conn, msg outgoingMessage) {
	msg.Timestamp = time.Now().UnixMilli()
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("[ws] failed to marshal frame: %v", err)
		return
	}
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		log.Printf("[ws] failed to write frame: %v", err)
	}
}

func exchangeErrorText(err error) string {
	if errors.Is(err, chatService.ErrMessageRequired) || errors.Is(err, chatService.ErrEmailRequired) {
		return err.Error()
	}
	return "failed to generate AI response"
}
