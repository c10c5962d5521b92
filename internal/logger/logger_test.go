package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/samvad-hq/samvad-fetcher/internal/config"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		" WARN ":  zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"":        zapcore.InfoLevel,
		"bogus":   zapcore.InfoLevel,
	}
	for raw, want := range cases {
		if got := parseLevel(raw); got != want {
			t.Fatalf("parseLevel(%q) = %s, want %s", raw, got, want)
		}
	}
}

func TestZapLoggerWritesStructuredObject(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWriter(&config.Config{AppName: "fetcher", Env: "test", LogLevel: "debug"}, &buf)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}

	log.DebugObj("request issued", "request_meta", map[string]any{"method": "GET"})

	line := strings.TrimSpace(buf.String())
	var entry map[string]any
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("decode log line %q: %v", line, err)
	}
	if entry["msg"] != "request issued" {
		t.Fatalf("msg = %v", entry["msg"])
	}
	if entry["app"] != "fetcher" {
		t.Fatalf("app = %v", entry["app"])
	}
	meta, ok := entry["request_meta"].(map[string]any)
	if !ok || meta["method"] != "GET" {
		t.Fatalf("request_meta = %#v", entry["request_meta"])
	}
	if _, ok := entry["ts"]; !ok {
		t.Fatalf("expected ts field in %v", entry)
	}
}

func TestZapLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWriter(&config.Config{LogLevel: "warn"}, &buf)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}

	log.InfoObj("hidden", "k", 1)
	if buf.Len() != 0 {
		t.Fatalf("expected info to be filtered, got %s", buf.String())
	}
	log.WarnObj("shown", "k", 1)
	if !strings.Contains(buf.String(), "shown") {
		t.Fatalf("expected warn entry, got %s", buf.String())
	}
}

func TestObjLoggingReportsCallerSite(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWriter(&config.Config{LogLevel: "debug"}, &buf)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}

	log.InfoObj("adapter", "k", 1)
	InfoObj("package helper", "k", 2)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected two entries, got %q", buf.String())
	}
	for _, line := range lines {
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("decode log line %q: %v", line, err)
		}
		caller, _ := entry["caller"].(string)
		if !strings.Contains(caller, "logger_test.go") {
			t.Fatalf("caller = %q, want the calling test file", caller)
		}
	}
}
