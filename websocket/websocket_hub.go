package websocket

import (
	"PinguinGuard/models"
	"net/http"
	"time"
)

// Типы сообщений
const (
	MessageTypeVerdict = "verdict"
	MessageTypeRefresh = "refresh"
)

// WebSocketMessage структура сообщения для WebSocket
type WebSocketMessage struct {
	Type      string          `json:"type"`
	ChildID   string          `json:"child_uid"`
	Verdict   *models.Verdict `json:"verdict,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// ServeWs upgrades the request and subscribes the connection to childID's
// verdicts until it disconnects.
func ServeWs(hub *Hub, w http.ResponseWriter, r *http.Request, userID, userType, childID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		hub.logger.Error("upgrade failed", "user", userID, "error", err)
		return
	}

	client := NewClient(hub, conn, userID, userType, childID)
	if err := hub.Register(client); err != nil {
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()
}
