package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

func TestParseRequestCommand(t *testing.T) {
	cli := &CLI{}
	parser, err := kong.New(cli)
	if err != nil {
		t.Fatalf("kong.New: %v", err)
	}

	ctx, err := parser.Parse([]string{
		"-f", "yaml",
		"request", "post", "/users",
		"-p", "id=5",
		"-H", "Content-Type=text/plain",
		"-d", `{"name":"Rina"}`,
	})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !strings.HasPrefix(ctx.Command(), "request") {
		t.Fatalf("command = %q", ctx.Command())
	}
	if cli.Format != "yaml" || cli.Request.Method != "post" || cli.Request.Endpoint != "/users" {
		t.Fatalf("cli = %#v", cli)
	}

	opts := cli.Request.Flags.options()
	if v := opts.Params["id"]; v == nil || *v != "5" {
		t.Fatalf("params = %#v", opts.Params)
	}
	if opts.Headers["Content-Type"] != "text/plain" {
		t.Fatalf("headers = %#v", opts.Headers)
	}
}

func TestParseRejectsUnknownFormat(t *testing.T) {
	parser, err := kong.New(&CLI{})
	if err != nil {
		t.Fatalf("kong.New: %v", err)
	}
	if _, err := parser.Parse([]string{"-f", "xml", "token", "show"}); err == nil {
		t.Fatalf("expected enum validation error")
	}
}

func TestOptionsWithoutParams(t *testing.T) {
	opts := RequestFlags{}.options()
	if opts.Params != nil {
		t.Fatalf("expected nil params, got %#v", opts.Params)
	}
}

func TestReadBody(t *testing.T) {
	if body, err := readBody(""); err != nil || body != nil {
		t.Fatalf("empty body = %v err=%v", body, err)
	}
	if _, err := readBody("{not json"); err == nil {
		t.Fatalf("expected invalid JSON error")
	}

	path := filepath.Join(t.TempDir(), "body.json")
	if err := os.WriteFile(path, []byte(`{"a":1}`), 0o600); err != nil {
		t.Fatalf("write body: %v", err)
	}
	body, err := readBody("@" + path)
	if err != nil {
		t.Fatalf("readBody file: %v", err)
	}
	raw, ok := body.(json.RawMessage)
	if !ok || string(raw) != `{"a":1}` {
		t.Fatalf("body = %#v", body)
	}
}
