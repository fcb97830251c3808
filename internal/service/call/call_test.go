package call

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"screenerbot-gateway/internal/domain/call"
	"screenerbot-gateway/internal/domain/event"
	xerrors "screenerbot-gateway/internal/pkg/errors"
	"screenerbot-gateway/internal/pkg/vapi"

	"go.uber.org/zap"
)

type memoryRecorder struct {
	mu     sync.Mutex
	events []*event.Event
}

func (m *memoryRecorder) Record(_ context.Context, e *event.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
	return nil
}

func (m *memoryRecorder) types() []event.Type {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]event.Type, 0, len(m.events))
	for _, e := range m.events {
		out = append(out, e.Type)
	}
	return out
}

func newService(t *testing.T, handler http.HandlerFunc, opts Options) (*CallService, *memoryRecorder) {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	client := vapi.New(vapi.Config{BaseURL: ts.URL, StorageBaseURL: ts.URL + "/storage", APIKey: "sk-test", Timeout: time.Second})
	rec := &memoryRecorder{}
	return NewCallService(client, rec, opts, zap.NewNop()), rec
}

func TestPlaceOutboundCallValidation(t *testing.T) {
	t.Parallel()

	var hits int
	var mu sync.Mutex
	svc, _ := newService(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		hits++
		mu.Unlock()
		w.WriteHeader(http.StatusCreated)
	}, Options{PhoneNumberID: "pn-1"})

	cases := []struct {
		name string
		req  call.OutboundCallRequest
		msg  string
	}{
		{"missing phone", call.OutboundCallRequest{AssistantID: "a1"}, "Phone number required"},
		{"bad format", call.OutboundCallRequest{PhoneNumber: "14155552671", AssistantID: "a1"}, PhoneFormatMessage},
		{"missing assistant", call.OutboundCallRequest{PhoneNumber: "+14155552671"}, "Assistant ID required"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.PlaceOutboundCall(context.Background(), "user@example.com", &tc.req)
			if !errors.Is(err, xerrors.ErrInvalidInput) {
				t.Fatalf("error = %v, want ErrInvalidInput", err)
			}
			if err.Error() != tc.msg {
				t.Errorf("message = %q, want %q", err.Error(), tc.msg)
			}
		})
	}

	mu.Lock()
	defer mu.Unlock()
	if hits != 0 {
		t.Errorf("upstream hits = %d, want 0", hits)
	}
}

func TestPlaceOutboundCallSuccess(t *testing.T) {
	t.Parallel()

	var sent vapi.PhoneCallRequest
	svc, rec := newService(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&sent)
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id":"call-77","status":"queued"}`)
	}, Options{PhoneNumberID: "pn-1", DefaultAssistantID: "asst-default"})

	got, err := svc.PlaceOutboundCall(context.Background(), "user@example.com", &call.OutboundCallRequest{PhoneNumber: "+14155552671"})
	if err != nil {
		t.Fatalf("PlaceOutboundCall() error = %v", err)
	}
	if got.CallID != "call-77" {
		t.Errorf("callId = %q, want %q", got.CallID, "call-77")
	}
	if sent.AssistantID != "asst-default" || sent.PhoneNumberID != "pn-1" {
		t.Errorf("sent = %+v, want default assistant and configured number", sent)
	}
	if types := rec.types(); len(types) != 1 || types[0] != event.TypeCallInitiated {
		t.Errorf("recorded = %v, want [%s]", types, event.TypeCallInitiated)
	}
}

func TestPlaceOutboundCallFailures(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		status    int
		body      string
		wantErr   error
		wantEvent event.Type
	}{
		{"payment required", http.StatusPaymentRequired, `{"message":"payment required"}`, xerrors.ErrQuotaExceeded, event.TypeCallQuotaExceeded},
		{"balance text", http.StatusBadRequest, `{"message":"Insufficient balance"}`, xerrors.ErrQuotaExceeded, event.TypeCallQuotaExceeded},
		{"other upstream", http.StatusBadRequest, `{"message":"assistant not found"}`, xerrors.ErrUpstream, event.TypeCallFailed},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			svc, rec := newService(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = io.WriteString(w, tc.body)
			}, Options{PhoneNumberID: "pn-1"})

			_, err := svc.PlaceOutboundCall(context.Background(), "u@example.com", &call.OutboundCallRequest{
				PhoneNumber: "+14155552671",
				AssistantID: "a1",
			})
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("error = %v, want %v", err, tc.wantErr)
			}
			if types := rec.types(); len(types) != 1 || types[0] != tc.wantEvent {
				t.Errorf("recorded = %v, want [%s]", types, tc.wantEvent)
			}
		})
	}
}

func TestGetCallNormalizes(t *testing.T) {
	t.Parallel()

	svc, _ := newService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/call/c1" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"message":"Not Found"}`)
			return
		}
		_, _ = io.WriteString(w, `{
			"id":"c1","type":"outboundPhoneCall","createdAt":"2024-05-01T10:00:00Z",
			"artifact":{
				"recordingUrl":"https://storage.example/abc123.mp3",
				"structuredOutputs":[{"name":"age","result":34},{"name":"","result":"x"}]
			}
		}`)
	}, Options{})

	got, err := svc.GetCall(context.Background(), "c1")
	if err != nil {
		t.Fatalf("GetCall() error = %v", err)
	}
	if got.RecordingURL == nil || *got.RecordingURL != "/recording/abc123.mp3?ext=mp3" {
		t.Errorf("recordingUrl = %v, want /recording/abc123.mp3?ext=mp3", got.RecordingURL)
	}
	if string(got.StructuredOutputs["age"]) != "34" || len(got.StructuredOutputs) != 1 {
		t.Errorf("structuredOutputs = %v, want {age:34}", got.StructuredOutputs)
	}

	_, err = svc.GetCall(context.Background(), "missing")
	if xerrors.StatusCode(err) != http.StatusNotFound {
		t.Errorf("StatusCode() = %d, want %d", xerrors.StatusCode(err), http.StatusNotFound)
	}
}

func TestListCallLogsFiltersFields(t *testing.T) {
	t.Parallel()

	svc, _ := newService(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[{"id":"c1","type":"outboundPhoneCall","createdAt":"2024-05-01T10:00:00Z","cost":0.12,"customer":{"number":"+14155552671"}}]`)
	}, Options{})

	got, err := svc.ListCallLogs(context.Background())
	if err != nil {
		t.Fatalf("ListCallLogs() error = %v", err)
	}
	body, _ := json.Marshal(got)
	want := `[{"id":"c1","type":"outboundPhoneCall","createdAt":"2024-05-01T10:00:00Z","startedAt":null,"endedAt":null}]`
	if string(body) != want {
		t.Errorf("json = %s, want %s", body, want)
	}
}

func TestFetchRecording(t *testing.T) {
	t.Parallel()

	svc, _ := newService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/storage/gone.mp3" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = io.WriteString(w, "ID3audio")
	}, Options{RecordingMaxConcurrent: 1})

	rec, err := svc.FetchRecording(context.Background(), "abc123.mp3", "mp3")
	if err != nil {
		t.Fatalf("FetchRecording() error = %v", err)
	}
	if rec.ContentType != "audio/mpeg" || string(rec.Body) != "ID3audio" {
		t.Errorf("recording = %q %q, want audio/mpeg ID3audio", rec.ContentType, rec.Body)
	}

	if _, err := svc.FetchRecording(context.Background(), "gone.mp3", "mp3"); xerrors.StatusCode(err) != http.StatusNotFound {
		t.Errorf("missing recording status = %d, want %d", xerrors.StatusCode(err), http.StatusNotFound)
	}

	for _, id := range []string{"", "..", "a/b", `a\b`} {
		if _, err := svc.FetchRecording(context.Background(), id, "wav"); !errors.Is(err, xerrors.ErrInvalidInput) {
			t.Errorf("FetchRecording(%q) error = %v, want ErrInvalidInput", id, err)
		}
	}
}

func TestFetchRecordingBusy(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	started := make(chan struct{}, 1)
	svc, _ := newService(t, func(w http.ResponseWriter, r *http.Request) {
		started <- struct{}{}
		select {
		case <-release:
		case <-r.Context().Done():
		}
		_, _ = io.WriteString(w, "RIFF")
	}, Options{RecordingMaxConcurrent: 1})
	defer close(release)

	done := make(chan error, 1)
	go func() {
		_, err := svc.FetchRecording(context.Background(), "slow.wav", "wav")
		done <- err
	}()
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := svc.FetchRecording(ctx, "second.wav", "wav"); !errors.Is(err, xerrors.ErrBusy) {
		t.Fatalf("error = %v, want ErrBusy", err)
	}

	release <- struct{}{}
	if err := <-done; err != nil {
		t.Fatalf("first fetch error = %v", err)
	}
}
