package fetch

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// AccessTokenKey is the storage key holding the bearer token.
const AccessTokenKey = "access_token"

// ErrNoPayload reports a token without a payload segment.
var ErrNoPayload = errors.New("token has no payload segment")

// Claims is the subset of a JWT payload the client inspects.
type Claims struct {
	// Exp is seconds since epoch; nil when the claim is missing.
	Exp *float64       `json:"exp"`
	Raw map[string]any `json:"-"`
}

// Expired reports whether the token is unusable at now.
// A missing exp claim counts as expired.
func (c *Claims) Expired(now time.Time) bool {
	if c == nil || c.Exp == nil {
		return true
	}
	return *c.Exp <= float64(now.Unix())
}

// ParseJWT decodes the payload segment of token without verifying it.
func ParseJWT(token string) (*Claims, error) {
	parts := strings.Split(token, ".")
	if len(parts) < 2 || parts[1] == "" {
		return nil, ErrNoPayload
	}

	segment := strings.NewReplacer("+", "-", "/", "_").Replace(strings.TrimRight(parts[1], "="))
	raw, err := base64.RawURLEncoding.DecodeString(segment)
	if err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}

	var claims Claims
	if err := json.Unmarshal(raw, &claims); err != nil {
		return nil, fmt.Errorf("parse payload: %w", err)
	}
	if err := json.Unmarshal(raw, &claims.Raw); err != nil {
		return nil, fmt.Errorf("parse payload: %w", err)
	}
	return &claims, nil
}

// CredentialProvider supplies the bearer token for outgoing requests.
type CredentialProvider interface {
	BearerToken(ctx context.Context) (string, bool)
}

// TokenReader is the read side of the client-local credential store.
type TokenReader interface {
	Get(key string) (string, error)
}

// StoredCredentials reads the token from a TokenReader and drops it once expired.
type StoredCredentials struct {
	store TokenReader
	log   Logger
	now   func() time.Time
}

// NewStoredCredentials builds a provider over store.
func NewStoredCredentials(store TokenReader, log Logger) *StoredCredentials {
	return &StoredCredentials{store: store, log: orDiscard(log), now: time.Now}
}

// BearerToken returns the stored token when present and unexpired.
func (s *StoredCredentials) BearerToken(context.Context) (string, bool) {
	if s == nil || s.store == nil {
		return "", false
	}

	token, err := s.store.Get(AccessTokenKey)
	if err != nil {
		s.log.WarnObj("token store read failed", "token_error", map[string]any{
			"key":   AccessTokenKey,
			"error": err.Error(),
		})
		return "", false
	}
	if token == "" {
		return "", false
	}

	claims, err := ParseJWT(token)
	if err != nil {
		s.log.DebugObj("stored token unreadable", "token_error", map[string]any{
			"error": err.Error(),
		})
		return "", false
	}
	if claims.Expired(s.now()) {
		s.log.DebugObj("stored token expired", "token_meta", map[string]any{
			"exp": claims.Exp,
		})
		return "", false
	}
	return token, true
}

// StaticCredentials always returns the same token; empty means none.
type StaticCredentials string

func (s StaticCredentials) BearerToken(context.Context) (string, bool) {
	return string(s), s != ""
}

type noCredentials struct{}

func (noCredentials) BearerToken(context.Context) (string, bool) { return "", false }
