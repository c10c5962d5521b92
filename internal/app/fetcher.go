package app

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/samvad-hq/samvad-fetcher/internal/config"
	"github.com/samvad-hq/samvad-fetcher/internal/logger"
	"github.com/samvad-hq/samvad-fetcher/internal/storage"
	"github.com/samvad-hq/samvad-fetcher/pkg/fetch"
	"github.com/samvad-hq/samvad-fetcher/pkg/httpclient"
)

// Fetcher wires config, the credential store and the fetch client for the CLI.
type Fetcher struct {
	cfg    *config.Config
	store  storage.Store
	client *fetch.Client
	log    logger.Logger
	now    func() time.Time
}

// NewFetcher builds the runtime from config.
func NewFetcher(cfg *config.Config, log logger.Logger) (*Fetcher, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}

	store, err := storage.NewStore(cfg.TokenStoreType, cfg.TokenStorePath)
	if err != nil {
		return nil, fmt.Errorf("init token store: %w", err)
	}
	log.InfoObj("token store initialized", "storage_config", map[string]any{
		"type": cfg.TokenStoreType,
		"path": cfg.TokenStorePath,
	})

	settings := fetch.Settings{
		BaseURL:    cfg.BackendURL,
		Stage:      cfg.Stage,
		Language:   cfg.Language,
		LocalDelay: cfg.LocalDelay,
	}
	client := fetch.NewClient(settings,
		fetch.WithHTTPClient(httpclient.NewRestyClient(cfg.RequestTimeout)),
		fetch.WithCredentials(fetch.NewStoredCredentials(store, log)),
		fetch.WithLogger(log),
	)

	return &Fetcher{
		cfg:    cfg,
		store:  store,
		client: client,
		log:    log,
		now:    time.Now,
	}, nil
}

// Client returns the configured fetch client.
func (f *Fetcher) Client() *fetch.Client { return f.client }

// Request runs the JSON pipeline with an untyped result.
func (f *Fetcher) Request(ctx context.Context, method, endpoint string, body any, opts *fetch.Options) (*fetch.Response[any], error) {
	if f == nil || f.client == nil {
		return nil, fmt.Errorf("fetcher is not initialized")
	}
	return fetch.Request[any](ctx, f.client, method, endpoint, body, opts)
}

// Image runs the image pipeline and returns the envelope plus the fetched bytes.
// The blob is revoked before returning since the CLI has no renderer to hand it to.
func (f *Fetcher) Image(ctx context.Context, endpoint string, opts *fetch.Options) (*fetch.Response[fetch.ObjectRef], []byte, error) {
	if f == nil || f.client == nil {
		return nil, nil, fmt.Errorf("fetcher is not initialized")
	}
	resp, err := f.client.Image(ctx, endpoint, opts)
	if err != nil {
		return nil, nil, err
	}
	if resp.Data == nil {
		return resp, nil, nil
	}
	blobs := f.client.Blobs()
	blob, _ := blobs.Resolve(*resp.Data)
	blobs.Revoke(*resp.Data)
	return resp, blob.Data, nil
}

// TokenStatus describes the stored credential.
type TokenStatus struct {
	Present   bool           `json:"present" yaml:"present"`
	Usable    bool           `json:"usable" yaml:"usable"`
	ExpiresAt *time.Time     `json:"expires_at,omitempty" yaml:"expires_at,omitempty"`
	Claims    map[string]any `json:"claims,omitempty" yaml:"claims,omitempty"`
	Error     string         `json:"error,omitempty" yaml:"error,omitempty"`
}

// SetToken stores token under the access token key. It plays the part of the
// login flow; the fetch client itself never writes credentials.
func (f *Fetcher) SetToken(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("token is empty")
	}
	if _, err := fetch.ParseJWT(token); err != nil {
		return fmt.Errorf("invalid token: %w", err)
	}
	if err := f.store.Put(fetch.AccessTokenKey, token); err != nil {
		return fmt.Errorf("store token: %w", err)
	}
	f.log.InfoObj("token stored", "token_meta", map[string]any{"key": fetch.AccessTokenKey})
	return nil
}

// ClearToken removes the stored token.
func (f *Fetcher) ClearToken() error {
	if err := f.store.Delete(fetch.AccessTokenKey); err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	return nil
}

// TokenStatus inspects the stored token without sending it anywhere.
func (f *Fetcher) TokenStatus() (TokenStatus, error) {
	token, err := f.store.Get(fetch.AccessTokenKey)
	if err != nil {
		return TokenStatus{}, fmt.Errorf("read token: %w", err)
	}
	if token == "" {
		return TokenStatus{}, nil
	}

	status := TokenStatus{Present: true}
	claims, err := fetch.ParseJWT(token)
	if err != nil {
		status.Error = err.Error()
		return status, nil
	}
	status.Claims = claims.Raw
	if claims.Exp != nil {
		if exp, ok := expiryTime(*claims.Exp); ok {
			status.ExpiresAt = &exp
		}
	}
	status.Usable = !claims.Expired(f.now())
	return status, nil
}

// expiryTime converts an exp claim to a time, rejecting values outside the
// years encoding/json can render.
func expiryTime(exp float64) (time.Time, bool) {
	if math.IsNaN(exp) || exp < minExpiry || exp > maxExpiry {
		return time.Time{}, false
	}
	sec, frac := math.Modf(exp)
	return time.Unix(int64(sec), int64(frac*1e9)).UTC(), true
}

var (
	minExpiry = float64(time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC).Unix())
	maxExpiry = float64(time.Date(9999, time.December, 31, 23, 59, 59, 0, time.UTC).Unix())
)

// Close releases the token store.
func (f *Fetcher) Close() {
	if f == nil || f.store == nil {
		return
	}
	if err := f.store.Close(); err != nil {
		f.log.ErrorObj("token store close failed", "error", err)
	}
}
