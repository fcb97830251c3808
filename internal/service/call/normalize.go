package call

import (
	"bytes"
	"encoding/json"
	"net/url"
	"sort"
	"strings"

	"screenerbot-gateway/internal/domain/call"
)

// Normalize projects a raw call record onto the client-facing view. It never
// fails: missing fields become nulls or empties.
func Normalize(raw *call.RawCall) *call.NormalizedCall {
	out := &call.NormalizedCall{
		StructuredOutputs: map[string]json.RawMessage{},
	}
	if raw == nil {
		return out
	}

	out.ID = raw.ID
	out.Type = raw.Type
	out.Transcript = selectTranscript(raw)
	out.CreatedAt = firstTimestamp(raw.CreatedAt, raw.StartedAt)

	var structured json.RawMessage
	recordingURL := raw.RecordingURL
	if raw.Artifact != nil {
		structured = raw.Artifact.StructuredOutputs
		if recordingURL == "" {
			recordingURL = raw.Artifact.RecordingURL
		}
	}
	if !present(structured) {
		structured = raw.StructuredOutputs
	}
	out.StructuredOutputs = foldStructuredOutputs(structured)
	out.RecordingURL = RewriteRecordingURL(recordingURL)

	return out
}

func selectTranscript(raw *call.RawCall) json.RawMessage {
	candidates := []json.RawMessage{raw.Transcript}
	if raw.Artifact != nil {
		candidates = append(candidates, raw.Artifact.Transcript)
	}
	candidates = append(candidates, raw.MessagesOpenAIFormatted)
	if raw.Artifact != nil {
		candidates = append(candidates, raw.Artifact.MessagesOpenAIFormatted)
	}
	for _, c := range candidates {
		if present(c) {
			return c
		}
	}
	return nil
}

func firstTimestamp(values ...*string) *string {
	for _, v := range values {
		if v != nil && *v != "" {
			return v
		}
	}
	return nil
}

// foldStructuredOutputs accepts the ordered list form and the id-keyed object
// form. Later names overwrite earlier ones.
func foldStructuredOutputs(raw json.RawMessage) map[string]json.RawMessage {
	out := map[string]json.RawMessage{}
	if !present(raw) {
		return out
	}

	var entries []call.StructuredOutput
	switch bytes.TrimSpace(raw)[0] {
	case '[':
		if err := json.Unmarshal(raw, &entries); err != nil {
			return out
		}
	case '{':
		var keyed map[string]call.StructuredOutput
		if err := json.Unmarshal(raw, &keyed); err != nil {
			return out
		}
		keys := make([]string, 0, len(keyed))
		for k := range keyed {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			entries = append(entries, keyed[k])
		}
	default:
		return out
	}

	for _, e := range entries {
		if e.Name == "" {
			continue
		}
		result := e.Result
		if len(result) == 0 {
			result = json.RawMessage("null")
		}
		out[e.Name] = result
	}
	return out
}

// RewriteRecordingURL turns an upstream storage URL into a gateway-relative
// link of the form /recording/{id}?ext={ext}.
func RewriteRecordingURL(rawURL string) *string {
	id := recordingID(rawURL)
	if id == "" {
		return nil
	}
	link := "/recording/" + url.PathEscape(id) + "?ext=" + url.QueryEscape(extensionOf(id))
	return &link
}

func recordingID(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return ""
	}
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		p = u.Path
	} else if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	p = strings.TrimRight(p, "/")
	seg := p[strings.LastIndex(p, "/")+1:]
	if seg == "." || seg == ".." {
		return ""
	}
	return seg
}

func extensionOf(id string) string {
	i := strings.LastIndex(id, ".")
	if i < 0 || i == len(id)-1 {
		return "wav"
	}
	return id[i+1:]
}

func present(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) > 0 && !bytes.Equal(t, []byte("null")) && !bytes.Equal(t, []byte(`""`))
}
