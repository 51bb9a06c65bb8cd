package notifications

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rollcall-dev/rollcall/internal/models"
	log "github.com/sirupsen/logrus"
)

const writeWait = 10 * time.Second

var (
	userClients   = make(map[uint]map[*websocket.Conn]bool)
	userClientsMu sync.RWMutex
)

// RegisterClient attaches a websocket connection to the user's stream.
func RegisterClient(userID uint, conn *websocket.Conn) {
	userClientsMu.Lock()
	defer userClientsMu.Unlock()

	if userClients[userID] == nil {
		userClients[userID] = make(map[*websocket.Conn]bool)
	}

	userClients[userID][conn] = true
}

// UnregisterClient detaches a connection, dropping the user's entry when
// the last one closes.
func UnregisterClient(userID uint, conn *websocket.Conn) {
	userClientsMu.Lock()
	defer userClientsMu.Unlock()

	if clients, exists := userClients[userID]; exists {
		delete(clients, conn)

		if len(clients) == 0 {
			delete(userClients, userID)
		}
	}
}

// BroadcastTrigger pushes a freshly created trigger to the user's open
// connections. Polling via /notifications/check stays the source of truth;
// this is a best-effort nudge.
func BroadcastTrigger(userID uint, trigger *models.NotificationTrigger) {
	userClientsMu.RLock()
	clients, exists := userClients[userID]
	if !exists || len(clients) == 0 {
		userClientsMu.RUnlock()
		return
	}

	// Copy so the lock is not held while writing to sockets
	clientsCopy := make([]*websocket.Conn, 0, len(clients))
	for conn := range clients {
		clientsCopy = append(clientsCopy, conn)
	}
	userClientsMu.RUnlock()

	for _, conn := range clientsCopy {
		if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			log.Errorf("Failed to set write deadline for broadcast: %v", err)
			continue
		}

		err := conn.WriteJSON(map[string]interface{}{
			"type":       "trigger",
			"trigger_id": trigger.ID,
			"kind":       trigger.NotificationType,
			"created_at": trigger.CreatedAt,
		})

		if err != nil {
			log.Errorf("Failed to broadcast trigger to client: %v", err)
			UnregisterClient(userID, conn)
			conn.Close()
		}
	}
}
