package websocket

import (
	"PinguinGuard/logger"
	"PinguinGuard/models"
	"PinguinGuard/services"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Monitor is the part of services.RestrictionMonitor the hub drives.
type Monitor interface {
	Start(childID string, callback services.VerdictCallback) error
	Stop(childID string) error
	Refresh(childID string) bool
}

// Hub fans verdict changes out to every client watching a child. The first
// client for a child starts monitoring it and the last one to leave stops it.
type Hub struct {
	monitor Monitor
	logger  *log.Logger

	// lifeMu serializes registration so monitor start/stop never interleave
	// for one child. It is never taken by the verdict callback.
	lifeMu sync.Mutex

	// Клиенты, сгруппированные по child_uid
	mu      sync.Mutex
	clients map[string]map[*Client]bool
	last    map[string]models.Verdict
}

func NewHub(monitor Monitor) *Hub {
	return &Hub{
		monitor: monitor,
		logger:  logger.With("websocket"),
		clients: make(map[string]map[*Client]bool),
		last:    make(map[string]models.Verdict),
	}
}

// Register adds a client. Clients joining an already observed child get the
// current verdict straight away.
func (h *Hub) Register(client *Client) error {
	h.lifeMu.Lock()
	defer h.lifeMu.Unlock()

	h.mu.Lock()
	first := len(h.clients[client.ChildID]) == 0
	if first {
		h.clients[client.ChildID] = make(map[*Client]bool)
	}
	h.clients[client.ChildID][client] = true
	last, known := h.last[client.ChildID]
	h.mu.Unlock()

	if first {
		err := h.monitor.Start(client.ChildID, h.BroadcastVerdict)
		if err != nil && !errors.Is(err, models.ErrAlreadyMonitoring) {
			h.mu.Lock()
			h.remove(client)
			h.mu.Unlock()
			h.logger.Error("failed to start monitor", "child", client.ChildID, "error", err)
			return err
		}
	} else if known {
		client.trySend(verdictMessage(client.ChildID, last))
	}

	h.logger.Info("client registered", "user", client.UserID, "type", client.UserType, "child", client.ChildID)
	return nil
}

// Unregister removes a client; unknown clients are ignored.
func (h *Hub) Unregister(client *Client) {
	h.lifeMu.Lock()
	defer h.lifeMu.Unlock()

	h.mu.Lock()
	present := h.remove(client)
	empty := len(h.clients[client.ChildID]) == 0
	if empty {
		delete(h.clients, client.ChildID)
		delete(h.last, client.ChildID)
	}
	h.mu.Unlock()

	if !present {
		return
	}
	h.logger.Info("client unregistered", "user", client.UserID, "child", client.ChildID)

	if empty {
		if err := h.monitor.Stop(client.ChildID); err != nil && !errors.Is(err, models.ErrNotFound) {
			h.logger.Warn("failed to stop monitor", "child", client.ChildID, "error", err)
		}
	}
}

// remove must be called with mu held.
func (h *Hub) remove(client *Client) bool {
	clients, ok := h.clients[client.ChildID]
	if !ok || !clients[client] {
		return false
	}
	delete(clients, client)
	close(client.send)
	return true
}

// BroadcastVerdict sends a verdict to every client of the child. It never
// blocks: a client whose buffer is full is disconnected.
func (h *Hub) BroadcastVerdict(childID string, verdict models.Verdict) {
	msg := verdictMessage(childID, verdict)

	h.mu.Lock()
	defer h.mu.Unlock()
	clients, ok := h.clients[childID]
	if !ok {
		return
	}
	h.last[childID] = verdict
	for client := range clients {
		if !client.trySend(msg) {
			h.logger.Warn("client too slow, disconnecting", "user", client.UserID, "child", childID)
			client.disconnect()
		}
	}
}

// Refresh asks for an immediate re-evaluation of the child.
func (h *Hub) Refresh(childID string) {
	h.monitor.Refresh(childID)
}

// ClientCount returns the number of clients watching childID.
func (h *Hub) ClientCount(childID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients[childID])
}

func verdictMessage(childID string, verdict models.Verdict) WebSocketMessage {
	v := verdict
	return WebSocketMessage{
		Type:      MessageTypeVerdict,
		ChildID:   childID,
		Verdict:   &v,
		Timestamp: time.Now(),
	}
}
