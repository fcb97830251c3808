package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"screenerbot-gateway/internal/domain/event"
	wstypes "screenerbot-gateway/internal/domain/websocket"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type frame struct {
	Type wstypes.EventType `json:"type"`
	Data json.RawMessage   `json:"data"`
}

func startHub(t *testing.T) (*Hub, *websocket.Conn) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	hub := NewHub(zap.NewNop())
	go hub.Run(ctx)

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		client := NewClient(hub, conn, &ClientAuth{SessionID: "jti-1", Email: "admin@example.com", Role: "admin"})
		hub.Register <- client
		go client.WritePump()
		go client.ReadPump()
	}))
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if f := readFrame(t, conn); f.Type != wstypes.EventTypeConnected {
		t.Fatalf("first frame = %s, want connected", f.Type)
	}
	return hub, conn
}

func readFrame(t *testing.T, conn *websocket.Conn) frame {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var f frame
	if err := conn.ReadJSON(&f); err != nil {
		t.Fatalf("read frame: %v", err)
	}
	return f
}

func TestHubBroadcastsActivity(t *testing.T) {
	t.Parallel()

	hub, conn := startHub(t)
	if n := hub.TotalClients(); n != 1 {
		t.Fatalf("TotalClients() = %d, want 1", n)
	}

	e := event.New(event.TypeCallInitiated)
	e.CallID = "call-1"
	if err := hub.Record(context.Background(), e); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	f := readFrame(t, conn)
	if f.Type != wstypes.EventTypeActivity {
		t.Fatalf("frame type = %s, want activity", f.Type)
	}
	var got event.Event
	if err := json.Unmarshal(f.Data, &got); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if got.ID != e.ID || got.Type != event.TypeCallInitiated || got.CallID != "call-1" {
		t.Errorf("event = %+v, want %s call-1", got, event.TypeCallInitiated)
	}
}

func TestClientPingPong(t *testing.T) {
	t.Parallel()

	_, conn := startHub(t)
	if err := conn.WriteJSON(map[string]string{"type": "ping"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if f := readFrame(t, conn); f.Type != wstypes.EventTypePong {
		t.Errorf("frame type = %s, want pong", f.Type)
	}

	if err := conn.WriteJSON(map[string]string{"type": "subscribe"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if f := readFrame(t, conn); f.Type != wstypes.EventTypeError {
		t.Errorf("frame type = %s, want error", f.Type)
	}
}

func TestRecordDoesNotBlockWithoutRun(t *testing.T) {
	t.Parallel()

	hub := NewHub(zap.NewNop())
	var err error
	for i := 0; i < cap(hub.broadcast)+1; i++ {
		err = hub.Record(context.Background(), event.New(event.TypeLogin))
	}
	if err != ErrFeedBacklogged {
		t.Errorf("Record() on full queue = %v, want ErrFeedBacklogged", err)
	}
}

type stubHandler struct{ types []wstypes.EventType }

func (s stubHandler) HandleMessage(context.Context, *Client, *wstypes.WSMessage) error { return nil }
func (s stubHandler) SupportedEvents() []wstypes.EventType                             { return s.types }

func TestHandlerRegistry(t *testing.T) {
	t.Parallel()

	r := NewHandlerRegistry()
	if err := r.Register(stubHandler{types: []wstypes.EventType{wstypes.EventTypeRecent}}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := r.Register(stubHandler{types: []wstypes.EventType{wstypes.EventTypeRecent}}); err == nil {
		t.Error("Register() duplicate should fail")
	}
	if err := r.Register(stubHandler{types: []wstypes.EventType{wstypes.EventTypePing}}); err == nil {
		t.Error("Register() built-in type should fail")
	}
	if _, ok := r.GetHandler(wstypes.EventTypeRecent); !ok {
		t.Error("GetHandler(recent) not found")
	}
}

func TestDropClientWhenQueueFull(t *testing.T) {
	t.Parallel()

	hub := NewHub(zap.NewNop())
	for i := 0; i < cap(hub.unregister); i++ {
		hub.unregister <- NewClient(hub, nil, &ClientAuth{SessionID: "queued"})
	}

	victim := NewClient(hub, nil, &ClientAuth{SessionID: "jti-9", Email: "admin@example.com"})
	hub.mu.Lock()
	hub.clients["jti-9"] = map[*Client]bool{victim: true}
	hub.mu.Unlock()

	// Broadcast drops slow clients while holding the read lock.
	hub.mu.RLock()
	hub.dropClient(victim)
	hub.mu.RUnlock()

	deadline := time.Now().Add(2 * time.Second)
	for hub.TotalClients() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("TotalClients() = %d, want 0", hub.TotalClients())
		}
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case <-victim.ctx.Done():
	default:
		t.Error("dropped client was not closed")
	}
	hub.mu.RLock()
	_, ok := hub.clients["jti-9"]
	hub.mu.RUnlock()
	if ok {
		t.Error("empty session entry left behind")
	}
}
