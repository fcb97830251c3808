// internal/websocket/handler.go
package websocket

import (
	"context"
	"fmt"
	"sync"

	wstypes "screenerbot-gateway/internal/domain/websocket"
)

// MessageHandler serves client frames of the event types it declares.
type MessageHandler interface {
	HandleMessage(ctx context.Context, client *Client, msg *wstypes.WSMessage) error
	SupportedEvents() []wstypes.EventType
}

// HandlerRegistry routes client frames by event type.
type HandlerRegistry struct {
	mu       sync.RWMutex
	handlers map[wstypes.EventType]MessageHandler
}

func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{
		handlers: make(map[wstypes.EventType]MessageHandler),
	}
}

// Register claims every event type the handler supports. Built-in types and
// types already claimed are rejected.
func (r *HandlerRegistry) Register(handler MessageHandler) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, eventType := range handler.SupportedEvents() {
		switch eventType {
		case wstypes.EventTypePing, wstypes.EventTypePong, wstypes.EventTypeConnected, wstypes.EventTypeError:
			return fmt.Errorf("event type %q is built in", eventType)
		}
		if _, taken := r.handlers[eventType]; taken {
			return fmt.Errorf("event type %q already has a handler", eventType)
		}
	}
	for _, eventType := range handler.SupportedEvents() {
		r.handlers[eventType] = handler
	}
	return nil
}

func (r *HandlerRegistry) GetHandler(eventType wstypes.EventType) (MessageHandler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	handler, exists := r.handlers[eventType]
	return handler, exists
}
