package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/rathinsam/Vehicle-Parking-app/internal/domain"
)

var upgrader = websocket.Upgrader{
	// The dashboard is served locally; any origin may subscribe.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WebSocketManager fans view notifications out to every connected client.
type WebSocketManager struct {
	clients    map[*websocket.Conn]bool
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	broadcast  chan []byte
	done       chan struct{}
	mutex      sync.RWMutex
	logger     *zap.Logger
}

func NewWebSocketManager(logger *zap.Logger) *WebSocketManager {
	return &WebSocketManager{
		clients:    make(map[*websocket.Conn]bool),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		broadcast:  make(chan []byte, 64),
		done:       make(chan struct{}),
		logger:     logger.With(zap.String("component", "websocket")),
	}
}

// Start runs the fan-out loop until ctx is done, then closes all clients.
// Start must be called at most once.
func (wsm *WebSocketManager) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(wsm.done)
			wsm.mutex.Lock()
			for client := range wsm.clients {
				client.Close()
				delete(wsm.clients, client)
			}
			wsm.mutex.Unlock()
			return

		case client := <-wsm.register:
			wsm.mutex.Lock()
			wsm.clients[client] = true
			n := len(wsm.clients)
			wsm.mutex.Unlock()
			wsm.logger.Info("client connected", zap.Int("clients", n))

		case client := <-wsm.unregister:
			wsm.mutex.Lock()
			if _, ok := wsm.clients[client]; ok {
				delete(wsm.clients, client)
				client.Close()
			}
			n := len(wsm.clients)
			wsm.mutex.Unlock()
			wsm.logger.Info("client disconnected", zap.Int("clients", n))

		case message := <-wsm.broadcast:
			wsm.mutex.Lock()
			for client := range wsm.clients {
				if err := client.WriteMessage(websocket.TextMessage, message); err != nil {
					wsm.logger.Warn("write to client failed", zap.Error(err))
					client.Close()
					delete(wsm.clients, client)
				}
			}
			wsm.mutex.Unlock()
		}
	}
}

// Notify queues n for every client. It never blocks; when the queue is full
// the notification is dropped.
func (wsm *WebSocketManager) Notify(n domain.ViewNotification) {
	message, err := json.Marshal(n)
	if err != nil {
		wsm.logger.Error("marshal notification", zap.Error(err), zap.String("type", string(n.Type)))
		return
	}

	select {
	case wsm.broadcast <- message:
	default:
		wsm.logger.Warn("broadcast queue full, dropping notification", zap.String("type", string(n.Type)))
	}
}

// add hands conn to the fan-out loop. It reports false once the manager has
// stopped, in which case conn is left to the caller.
func (wsm *WebSocketManager) add(conn *websocket.Conn) bool {
	select {
	case wsm.register <- conn:
		return true
	case <-wsm.done:
		return false
	}
}

func (wsm *WebSocketManager) remove(conn *websocket.Conn) {
	select {
	case wsm.unregister <- conn:
	case <-wsm.done:
	}
}

func (wsm *WebSocketManager) Clients() int {
	wsm.mutex.RLock()
	defer wsm.mutex.RUnlock()
	return len(wsm.clients)
}

type WebSocketHandler struct {
	wsManager *WebSocketManager
}

func NewWebSocketHandler(wsManager *WebSocketManager) *WebSocketHandler {
	return &WebSocketHandler{wsManager: wsManager}
}

// GET /ws
func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.wsManager.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	if !h.wsManager.add(conn) {
		conn.Close()
		return
	}

	// Clients only listen; reading just detects the disconnect.
	go func() {
		defer h.wsManager.remove(conn)

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					h.wsManager.logger.Warn("websocket read failed", zap.Error(err))
				}
				return
			}
		}
	}()
}
