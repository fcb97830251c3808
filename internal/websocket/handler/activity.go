// internal/websocket/handler/activity.go
package handler

import (
	"context"
	"fmt"

	"screenerbot-gateway/internal/domain/event"
	wstypes "screenerbot-gateway/internal/domain/websocket"
	ws "screenerbot-gateway/internal/websocket"
)

const (
	defaultRecent = 20
	maxRecent     = 200
)

// RecentLister reads stored activity, newest first.
type RecentLister interface {
	Recent(ctx context.Context, limit int) ([]*event.Event, error)
}

// ActivityHandler answers "recent" frames with stored activity so a client
// can backfill before live events arrive.
type ActivityHandler struct {
	activity RecentLister
}

func NewActivityHandler(activity RecentLister) *ActivityHandler {
	return &ActivityHandler{activity: activity}
}

// SupportedEvents returns events this handler supports
func (h *ActivityHandler) SupportedEvents() []wstypes.EventType {
	return []wstypes.EventType{wstypes.EventTypeRecent}
}

func (h *ActivityHandler) HandleMessage(ctx context.Context, client *ws.Client, msg *wstypes.WSMessage) error {
	if msg.Type != wstypes.EventTypeRecent {
		return fmt.Errorf("%w: %s", ws.ErrUnsupported, msg.Type)
	}

	var req wstypes.RecentRequest
	if err := ws.DecodeData(msg.Data, &req); err != nil {
		client.SendError("invalid_request", "Invalid recent request", err.Error())
		return nil
	}
	limit := req.Limit
	if limit <= 0 {
		limit = defaultRecent
	}
	if limit > maxRecent {
		limit = maxRecent
	}

	events, err := h.activity.Recent(ctx, limit)
	if err != nil {
		client.SendError("recent_failed", "Failed to load recent activity", err.Error())
		return nil
	}

	client.SendMessage(wstypes.NewMessage(wstypes.EventTypeRecent, map[string]interface{}{
		"events": events,
		"count":  len(events),
	}))
	return nil
}
