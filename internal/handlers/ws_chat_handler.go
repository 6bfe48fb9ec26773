package handlers

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/nurbek-a/taskline/internal/models"
	"github.com/nurbek-a/taskline/internal/services"
	jwtutil "github.com/nurbek-a/taskline/pkg/jwt"
	"github.com/nurbek-a/taskline/pkg/middleware"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type WSMessage struct {
	Type       string `json:"type"` // "text", "typing"
	ReceiverID string `json:"receiver_id"`
	SenderID   string `json:"sender_id,omitempty"`
	Text       string `json:"text,omitempty"`
	Typing     bool   `json:"typing,omitempty"`
	CreatedAt  string `json:"created_at,omitempty"`
}

// ChatHandler serves the websocket chat and its history endpoint.
type ChatHandler struct {
	Service   *services.ChatService
	JWTSecret string

	mu      sync.Mutex
	clients map[string]*websocket.Conn
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func NewChatHandler(service *services.ChatService, jwtSecret string) *ChatHandler {
	return &ChatHandler{
		Service:   service,
		JWTSecret: jwtSecret,
		clients:   make(map[string]*websocket.Conn),
	}
}

// ChatWebSocketHandler upgrades the connection and relays messages.
func (h *ChatHandler) ChatWebSocketHandler(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "Missing token", http.StatusUnauthorized)
		return
	}
	claims, err := jwtutil.ValidateToken(token, h.JWTSecret)
	if err != nil {
		log.WithError(err).Warn("WebSocket auth failed")
		http.Error(w, "Invalid token", http.StatusUnauthorized)
		return
	}
	userID := claims.UserID

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Warn("WebSocket upgrade failed")
		return
	}

	h.mu.Lock()
	h.clients[userID] = conn
	h.mu.Unlock()

	log.WithField("userID", userID).Info("WebSocket connected")

	defer func() {
		h.mu.Lock()
		delete(h.clients, userID)
		h.mu.Unlock()
		conn.Close()
		log.WithField("userID", userID).Info("WebSocket disconnected")
	}()

	for {
		var msg WSMessage
		if err := conn.ReadJSON(&msg); err != nil {
			break // client disconnected
		}

		if msg.Type == "typing" {
			h.mu.Lock()
			if receiverConn, ok := h.clients[msg.ReceiverID]; ok {
				receiverConn.WriteJSON(map[string]interface{}{
					"type":      "typing",
					"sender_id": userID,
					"typing":    msg.Typing,
				})
			}
			h.mu.Unlock()
			continue
		}

		if msg.Type == "" || msg.Type == "text" {
			senderObjID, _ := primitive.ObjectIDFromHex(userID)
			receiverObjID, err := primitive.ObjectIDFromHex(msg.ReceiverID)
			if err != nil {
				continue
			}

			h.mu.Lock()
			receiverConn, receiverOnline := h.clients[msg.ReceiverID]
			h.mu.Unlock()

			newMsg := &models.Message{
				SenderID:   senderObjID,
				ReceiverID: receiverObjID,
				Text:       msg.Text,
			}
			if _, err := h.Service.SendMessage(r.Context(), newMsg, receiverOnline); err != nil {
				log.WithError(err).Warn("Failed to persist chat message")
				continue
			}

			response := map[string]interface{}{
				"type":        "text",
				"sender_id":   userID,
				"receiver_id": msg.ReceiverID,
				"text":        msg.Text,
				"created_at":  newMsg.CreatedAt.Format(time.RFC3339),
				"id":          newMsg.ID.Hex(),
			}

			h.mu.Lock()
			if receiverOnline {
				_ = receiverConn.WriteJSON(response)
			}
			_ = conn.WriteJSON(response)
			h.mu.Unlock()
		}
	}
}

// GetChatHistoryHandler handles GET /messages/{userId}.
func (h *ChatHandler) GetChatHistoryHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	messages, err := h.Service.GetChat(r.Context(), claims.UserID, mux.Vars(r)["userId"])
	if err != nil {
		http.Error(w, "Failed to get chat history", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(messages)
}
