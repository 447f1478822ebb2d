package websocket

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
)

const (
	// Время ожидания записи сообщения
	writeWait = 10 * time.Second

	// Время ожидания чтения сообщений от клиента
	pongWait = 60 * time.Second

	// Период отправки пингов, должен быть меньше pongWait
	pingPeriod = (pongWait * 9) / 10

	// Максимальный размер входящего сообщения
	maxMessageSize = 1024

	sendBufferSize = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Мобильные клиенты не присылают Origin
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Client is one websocket connection watching a single child's verdicts.
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	UserID   string // firebase_uid подключившегося
	UserType string // parent или child
	ChildID  string
	send     chan WebSocketMessage
}

func NewClient(hub *Hub, conn *websocket.Conn, userID, userType, childID string) *Client {
	return &Client{
		hub:      hub,
		conn:     conn,
		UserID:   userID,
		UserType: userType,
		ChildID:  childID,
		send:     make(chan WebSocketMessage, sendBufferSize),
	}
}

// trySend queues msg without blocking. Callers hold one of the hub locks so
// the channel cannot be closed underneath them.
func (c *Client) trySend(msg WebSocketMessage) bool {
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// disconnect closes the connection; ReadPump then unregisters the client.
func (c *Client) disconnect() {
	if c.conn != nil {
		c.conn.Close()
	}
}

// ReadPump handles control frames and "refresh" requests until the
// connection fails, then unregisters the client.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warn("unexpected close", "user", c.UserID, "error", err)
			}
			return
		}

		var msg WebSocketMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			c.hub.logger.Debug("ignoring malformed message", "user", c.UserID, "error", err)
			continue
		}
		if msg.Type == MessageTypeRefresh {
			c.hub.Refresh(c.ChildID)
		}
	}
}

// WritePump sends queued verdicts and keepalive pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Канал закрыт хабом
				c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteJSON(message); err != nil {
				c.hub.logger.Warn("write failed", "user", c.UserID, "error", err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
