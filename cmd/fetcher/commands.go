package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/samvad-hq/samvad-fetcher/internal/app"
	"github.com/samvad-hq/samvad-fetcher/pkg/fetch"
)

// CLI is the kong command tree.
type CLI struct {
	Format string `short:"f" enum:"json,yaml" default:"json" help:"Output format (json|yaml)."`

	Request RequestCmd `cmd:"" help:"Send a JSON request and print the response envelope."`
	Image   ImageCmd   `cmd:"" help:"Fetch an image and optionally save it."`
	Token   TokenCmd   `cmd:"" help:"Manage the stored access token."`
}

type printer struct {
	w      io.Writer
	format string
}

// env is bound into every command's Run.
type env struct {
	ctx     context.Context
	fetcher *app.Fetcher
	out     *printer
}

func (p *printer) print(v any) error { return app.Render(p.w, p.format, v) }

// RequestFlags are shared by request and image.
type RequestFlags struct {
	Param  map[string]string `short:"p" help:"Query parameter as key=value (repeatable)."`
	Header map[string]string `short:"H" help:"Header override as key=value (repeatable)."`
}

func (r RequestFlags) options() *fetch.Options {
	opts := &fetch.Options{Headers: r.Header}
	if len(r.Param) > 0 {
		opts.Params = make(fetch.Params, len(r.Param))
		for k, v := range r.Param {
			opts.Params[k] = fetch.Value(v)
		}
	}
	return opts
}

type RequestCmd struct {
	Flags RequestFlags `embed:""`

	Method   string `arg:"" help:"HTTP method."`
	Endpoint string `arg:"" help:"Relative path or absolute URL."`
	Data     string `short:"d" help:"JSON request body; @file reads it from a file."`
}

func (c *RequestCmd) Run(e *env) error {
	body, err := readBody(c.Data)
	if err != nil {
		return err
	}

	resp, err := e.fetcher.Request(e.ctx, strings.ToUpper(c.Method), c.Endpoint, body, c.Flags.options())
	if err != nil {
		return printFailure(e.out, err)
	}
	return e.out.print(resp)
}

type ImageCmd struct {
	Flags RequestFlags `embed:""`

	Endpoint string `arg:"" help:"Relative path or absolute URL."`
	Out      string `short:"o" type:"path" help:"Write the image bytes to this file."`
}

func (c *ImageCmd) Run(e *env) error {
	resp, data, err := e.fetcher.Image(e.ctx, c.Endpoint, c.Flags.options())
	if err != nil {
		return printFailure(e.out, err)
	}
	if c.Out != "" && data != nil {
		if err := os.WriteFile(c.Out, data, 0o644); err != nil {
			return fmt.Errorf("write image: %w", err)
		}
	}
	return e.out.print(resp)
}

type TokenCmd struct {
	Set   TokenSetCmd   `cmd:"" help:"Store an access token."`
	Show  TokenShowCmd  `cmd:"" help:"Show the stored token's claims and validity."`
	Clear TokenClearCmd `cmd:"" help:"Remove the stored token."`
}

type TokenSetCmd struct {
	Token string `arg:"" help:"JWT access token."`
}

func (c *TokenSetCmd) Run(e *env) error { return e.fetcher.SetToken(c.Token) }

type TokenShowCmd struct{}

func (c *TokenShowCmd) Run(e *env) error {
	status, err := e.fetcher.TokenStatus()
	if err != nil {
		return err
	}
	return e.out.print(status)
}

type TokenClearCmd struct{}

func (c *TokenClearCmd) Run(e *env) error { return e.fetcher.ClearToken() }

// readBody turns the --data flag into a request body; "" means none.
func readBody(raw string) (any, error) {
	if raw == "" {
		return nil, nil
	}
	data := []byte(raw)
	if strings.HasPrefix(raw, "@") {
		b, err := os.ReadFile(strings.TrimPrefix(raw, "@"))
		if err != nil {
			return nil, fmt.Errorf("read body file: %w", err)
		}
		data = b
	}
	if !json.Valid(data) {
		return nil, errors.New("request body is not valid JSON")
	}
	return json.RawMessage(data), nil
}

// printFailure prints a FetchError as structured output before returning it.
func printFailure(out *printer, err error) error {
	var fe *fetch.FetchError
	if errors.As(err, &fe) {
		if perr := out.print(fe); perr != nil {
			return perr
		}
	}
	return err
}
