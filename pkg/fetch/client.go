package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"reflect"
	"time"

	"github.com/samvad-hq/samvad-fetcher/pkg/httpclient"
)

const (
	// StageLocalhost enables the artificial latency of the image pipeline.
	StageLocalhost = "localhost"

	DefaultLocalDelay = 500 * time.Millisecond
	DefaultTimeout    = 15 * time.Second
)

// Settings is the read-only environment a Client runs in.
type Settings struct {
	BaseURL    string
	Stage      string
	Language   string
	LocalDelay time.Duration
}

// NewSettings returns Settings with the default local delay.
func NewSettings(baseURL, stage, language string) Settings {
	return Settings{
		BaseURL:    baseURL,
		Stage:      stage,
		Language:   language,
		LocalDelay: DefaultLocalDelay,
	}
}

// Options carries the per-call extras. Cancellation comes from the context.
type Options struct {
	Params  Params
	Headers map[string]string
}

// Client issues single-shot authenticated requests.
type Client struct {
	http     httpclient.Client
	settings Settings
	creds    CredentialProvider
	blobs    *BlobStore
	log      Logger
}

// ClientOption customizes a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the transport.
func WithHTTPClient(hc httpclient.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithCredentials sets the bearer token source.
func WithCredentials(p CredentialProvider) ClientOption {
	return func(c *Client) {
		if p != nil {
			c.creds = p
		}
	}
}

// WithBlobStore sets where image bodies are kept.
func WithBlobStore(s *BlobStore) ClientOption {
	return func(c *Client) {
		if s != nil {
			c.blobs = s
		}
	}
}

// WithLogger sets the logger; nil keeps logging off.
func WithLogger(log Logger) ClientOption {
	return func(c *Client) { c.log = orDiscard(log) }
}

// NewClient builds a Client; without options it talks through resty with no credentials.
func NewClient(settings Settings, opts ...ClientOption) *Client {
	c := &Client{
		settings: settings,
		creds:    noCredentials{},
		log:      discard{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = httpclient.NewRestyClient(DefaultTimeout)
	}
	if c.blobs == nil {
		c.blobs = NewBlobStore(settings.BaseURL)
	}
	return c
}

// Blobs returns the store backing image refs.
func (c *Client) Blobs() *BlobStore { return c.blobs }

// Request runs the JSON pipeline and decodes a successful body into T.
// Statuses outside [200, 300) return *FetchError; 204, 304 and undecodable
// bodies yield a nil Data.
func Request[T any](ctx context.Context, c *Client, method, endpoint string, body any, opts *Options) (*Response[T], error) {
	if opts == nil {
		opts = &Options{}
	}

	url := BuildURL(c.settings.BaseURL, endpoint, opts.Params)
	token, ok := c.creds.BearerToken(ctx)
	headers := MergeHeaders(JSONHeaders(token, ok), opts.Headers)

	payload, err := encodeBody(body)
	if err != nil {
		return nil, err
	}

	resp, err := c.do(ctx, httpclient.Request{
		Method:  method,
		URL:     url,
		Headers: headers,
		Body:    payload,
	})
	if err != nil {
		return nil, err
	}

	out := &Response[T]{Status: resp.StatusCode(), StatusText: resp.StatusText()}
	if noContent(out.Status) {
		return out, nil
	}
	out.Data = decodeJSON[T](resp.Body())
	return out, nil
}

// Image runs the image pipeline: a GET whose body is registered in the
// client's BlobStore and returned as an ObjectRef.
func (c *Client) Image(ctx context.Context, endpoint string, opts *Options) (*Response[ObjectRef], error) {
	if opts == nil {
		opts = &Options{}
	}

	url := BuildURL(c.settings.BaseURL, endpoint, opts.Params)
	token, ok := c.creds.BearerToken(ctx)
	headers := MergeHeaders(ImageHeaders(token, ok, c.settings.Language), opts.Headers)

	if err := c.throttle(ctx); err != nil {
		return nil, err
	}

	resp, err := c.do(ctx, httpclient.Request{
		Method:  http.MethodGet,
		URL:     url,
		Headers: headers,
	})
	if err != nil {
		return nil, err
	}

	out := &Response[ObjectRef]{Status: resp.StatusCode(), StatusText: resp.StatusText()}
	if noContent(out.Status) {
		return out, nil
	}
	ref, err := c.blobs.Create(resp.Body(), resp.Header("Content-Type"))
	if err != nil {
		c.log.WarnObj("image blob not created", "fetch_error", map[string]any{
			"url":   url,
			"error": err.Error(),
		})
		return out, nil
	}
	out.Data = &ref
	return out, nil
}

// do performs the single network attempt and validates the status.
func (c *Client) do(ctx context.Context, req httpclient.Request) (httpclient.Response, error) {
	c.log.DebugObj("fetch request", "fetch_request", map[string]any{
		"method":   req.Method,
		"url":      req.URL,
		"has_body": req.Body != nil,
	})

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL, err)
	}

	if !ValidateStatus(resp.StatusCode()) {
		c.log.WarnObj("fetch failed", "fetch_response", map[string]any{
			"method": req.Method,
			"url":    req.URL,
			"status": resp.StatusCode(),
		})
		return nil, newFetchError(resp.StatusCode(), resp.StatusText())
	}

	c.log.DebugObj("fetch response", "fetch_response", map[string]any{
		"method": req.Method,
		"url":    req.URL,
		"status": resp.StatusCode(),
		"bytes":  len(resp.Body()),
	})
	return resp, nil
}

// throttle simulates production latency when running against localhost.
func (c *Client) throttle(ctx context.Context) error {
	if c.settings.Stage != StageLocalhost || c.settings.LocalDelay <= 0 {
		return nil
	}

	timer := time.NewTimer(c.settings.LocalDelay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// encodeBody JSON-encodes body; empty bodies (nil, zero scalars, empty
// strings or byte slices) are not sent at all.
func encodeBody(body any) ([]byte, error) {
	switch b := body.(type) {
	case nil:
		return nil, nil
	case json.RawMessage:
		if len(b) == 0 {
			return nil, nil
		}
		return b, nil
	case []byte:
		if len(b) == 0 {
			return nil, nil
		}
		return b, nil
	}

	rv := reflect.ValueOf(body)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		if rv.IsNil() {
			return nil, nil
		}
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		if rv.IsZero() {
			return nil, nil
		}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request body: %w", err)
	}
	return payload, nil
}
