// internal/websocket/hub.go
package websocket

import (
	"context"
	"sync"

	"screenerbot-gateway/internal/domain/event"
	wstypes "screenerbot-gateway/internal/domain/websocket"

	"go.uber.org/zap"
)

// Hub fans activity events out to connected admin clients.
type Hub struct {
	// Registered clients by session id
	clients map[string]map[*Client]bool
	mu      sync.RWMutex

	// Registration/unregistration
	Register   chan *Client
	unregister chan *Client

	// Broadcasting
	broadcast chan *wstypes.WSMessage

	// Handler registry for modular message handling
	handlerRegistry *HandlerRegistry

	logger *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:         make(map[string]map[*Client]bool),
		Register:        make(chan *Client),
		unregister:      make(chan *Client, 64),
		broadcast:       make(chan *wstypes.WSMessage, 256),
		handlerRegistry: NewHandlerRegistry(),
		logger:          logger,
	}
}

// RegisterHandler registers a message handler
func (h *Hub) RegisterHandler(handler MessageHandler) error {
	return h.handlerRegistry.Register(handler)
}

// HandleClientMessage processes a message from a client using registered handlers.
// It reports whether a handler took the message.
func (h *Hub) HandleClientMessage(ctx context.Context, client *Client, msg *wstypes.WSMessage) (bool, error) {
	handler, exists := h.handlerRegistry.GetHandler(msg.Type)
	if !exists {
		return false, nil
	}
	return true, handler.HandleMessage(ctx, client, msg)
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case client := <-h.Register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case msg := <-h.broadcast:
			h.BroadcastMessage(msg)
		}
	}
}

// Record queues an activity event for every connected client. It never
// blocks; when the queue is full the event is dropped.
func (h *Hub) Record(_ context.Context, e *event.Event) error {
	select {
	case h.broadcast <- wstypes.NewMessage(wstypes.EventTypeActivity, e):
		return nil
	default:
		return ErrFeedBacklogged
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[client.sessionID] == nil {
		h.clients[client.sessionID] = make(map[*Client]bool)
	}
	h.clients[client.sessionID][client] = true

	h.logger.Info("activity client connected",
		zap.String("email", client.email),
		zap.String("session", client.sessionID),
		zap.Int("total", h.totalClients()),
	)

	client.SendMessage(wstypes.NewMessage(wstypes.EventTypeConnected, map[string]interface{}{
		"email":      client.email,
		"session_id": client.sessionID,
	}))
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.clients[client.sessionID]; ok {
		if _, exists := clients[client]; exists {
			delete(clients, client)
			client.Close()

			if len(clients) == 0 {
				delete(h.clients, client.sessionID)
			}

			h.logger.Info("activity client disconnected",
				zap.String("email", client.email),
				zap.String("session", client.sessionID),
				zap.Int("total", h.totalClients()),
			)
		}
	}
}

// BroadcastMessage delivers msg to every registered client.
func (h *Hub) BroadcastMessage(msg *wstypes.WSMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, clients := range h.clients {
		for client := range clients {
			client.SendMessage(msg)
		}
	}
}

func (h *Hub) TotalClients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.totalClients()
}

// dropClient schedules removal without blocking the caller. Callers may hold
// mu for reading, so an overflow removal runs on its own goroutine.
func (h *Hub) dropClient(client *Client) {
	select {
	case h.unregister <- client:
	default:
		h.logger.Warn("unregister queue full, removing directly", zap.String("session", client.sessionID))
		go h.unregisterClient(client)
	}
}

func (h *Hub) totalClients() int {
	total := 0
	for _, clients := range h.clients {
		total += len(clients)
	}
	return total
}

func (h *Hub) shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, clients := range h.clients {
		for client := range clients {
			client.Close()
		}
		delete(h.clients, id)
	}
}
