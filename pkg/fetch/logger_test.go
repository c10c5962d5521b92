package fetch

import (
	"context"
	"errors"
	"net/http"
	"testing"
)

type logEntry struct {
	level, msg, key string
	obj             any
}

type recordingLogger struct {
	entries []logEntry
}

func (r *recordingLogger) DebugObj(msg, key string, obj any) {
	r.entries = append(r.entries, logEntry{"debug", msg, key, obj})
}

func (r *recordingLogger) WarnObj(msg, key string, obj any) {
	r.entries = append(r.entries, logEntry{"warn", msg, key, obj})
}

func TestClientLogsFailedStatusAsWarning(t *testing.T) {
	rec := &recordingLogger{}
	tr := &fakeTransport{resp: &fakeResponse{status: http.StatusBadGateway, text: "Bad Gateway"}}
	c := NewClient(Settings{BaseURL: "https://api.x"}, WithHTTPClient(tr), WithLogger(rec))

	_, err := Request[user](context.Background(), c, http.MethodGet, "/x", nil, nil)
	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected *FetchError, got %v", err)
	}

	if len(rec.entries) != 2 {
		t.Fatalf("entries = %#v", rec.entries)
	}
	if rec.entries[0].level != "debug" || rec.entries[0].msg != "fetch request" {
		t.Fatalf("first entry = %#v", rec.entries[0])
	}
	warn := rec.entries[1]
	meta, _ := warn.obj.(map[string]any)
	if warn.level != "warn" || meta["url"] != "https://api.x/x" || meta["status"] != http.StatusBadGateway {
		t.Fatalf("warn entry = %#v", warn)
	}
}

func TestNilLoggerDiscards(t *testing.T) {
	tr := &fakeTransport{resp: &fakeResponse{status: http.StatusOK, body: []byte(`{}`)}}
	c := NewClient(Settings{}, WithHTTPClient(tr), WithLogger(nil))

	if _, err := Request[user](context.Background(), c, http.MethodGet, "/x", nil, nil); err != nil {
		t.Fatalf("Request: %v", err)
	}
	if _, ok := c.log.(discard); !ok {
		t.Fatalf("expected discarding logger, got %T", c.log)
	}
}
