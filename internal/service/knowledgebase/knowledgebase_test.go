package knowledgebase

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"screenerbot-gateway/internal/domain/knowledgebase"
	xerrors "screenerbot-gateway/internal/pkg/errors"
	"screenerbot-gateway/internal/pkg/vapi"

	"go.uber.org/zap"
)

type fakeVapi struct {
	mu        sync.Mutex
	uploaded  []string
	failOn    string
	toolCalls int
	toolFiles []string
}

func (f *fakeVapi) handler(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch r.URL.Path {
	case "/file":
		_, hdr, err := r.FormFile("file")
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if hdr.Filename == f.failOn {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = io.WriteString(w, "unsupported file type")
			return
		}
		f.uploaded = append(f.uploaded, hdr.Filename)
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "id-" + hdr.Filename})
	case "/tool":
		f.toolCalls++
		var body struct {
			KnowledgeBases []struct {
				FileIDs []string `json:"fileIds"`
			} `json:"knowledgeBases"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if len(body.KnowledgeBases) == 1 {
			f.toolFiles = body.KnowledgeBases[0].FileIDs
		}
		_, _ = io.WriteString(w, `{"id":"tool-1","type":"query"}`)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func newService(t *testing.T, fake *fakeVapi) *KnowledgeBaseService {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(fake.handler))
	t.Cleanup(ts.Close)
	return NewKnowledgeBaseService(vapi.New(vapi.Config{BaseURL: ts.URL, Timeout: time.Second}), nil, zap.NewNop())
}

func uploads(names ...string) []knowledgebase.Upload {
	out := make([]knowledgebase.Upload, 0, len(names))
	for _, n := range names {
		out = append(out, knowledgebase.Upload{Filename: n, Content: strings.NewReader("content of " + n)})
	}
	return out
}

func TestUploadCreatesToolOverAllFiles(t *testing.T) {
	t.Parallel()

	fake := &fakeVapi{}
	got, err := newService(t, fake).Upload(context.Background(), "u@example.com", uploads("a.pdf", "b.txt"))
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if !got.Success || got.ToolID != "tool-1" {
		t.Errorf("result = %+v", got)
	}
	if strings.Join(got.FileIDs, ",") != "id-a.pdf,id-b.txt" {
		t.Errorf("fileIds = %v, want [id-a.pdf id-b.txt]", got.FileIDs)
	}
	fake.mu.Lock()
	defer fake.mu.Unlock()
	if strings.Join(fake.toolFiles, ",") != "id-a.pdf,id-b.txt" {
		t.Errorf("tool fileIds = %v", fake.toolFiles)
	}
}

func TestUploadRequiresFiles(t *testing.T) {
	t.Parallel()

	_, err := newService(t, &fakeVapi{}).Upload(context.Background(), "u@example.com", nil)
	if !errors.Is(err, xerrors.ErrInvalidInput) {
		t.Fatalf("error = %v, want ErrInvalidInput", err)
	}
}

func TestUploadStopsOnFailureWithoutRollback(t *testing.T) {
	t.Parallel()

	fake := &fakeVapi{failOn: "b.exe"}
	_, err := newService(t, fake).Upload(context.Background(), "u@example.com", uploads("a.pdf", "b.exe", "c.pdf"))
	if xerrors.StatusCode(err) != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want %d", xerrors.StatusCode(err), http.StatusUnprocessableEntity)
	}
	fake.mu.Lock()
	defer fake.mu.Unlock()
	if len(fake.uploaded) != 1 || fake.uploaded[0] != "a.pdf" {
		t.Errorf("uploaded = %v, want [a.pdf]", fake.uploaded)
	}
	if fake.toolCalls != 0 {
		t.Errorf("tool calls = %d, want 0", fake.toolCalls)
	}
}
