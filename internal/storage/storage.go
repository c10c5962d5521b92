package storage

import (
	"fmt"
	"strings"
)

// Package storage provides the client-local credential store.

// Store is a small persistent string key/value store.
// Get returns "" with a nil error when the key is absent.
type Store interface {
	Close() error
	Get(key string) (string, error)
	Put(key, value string) error
	Delete(key string) error
}

// Supported store types.
const (
	TypeBBolt  = "bbolt"
	TypeMemory = "memory"
	TypeNone   = "none"
)

// NewStore creates the configured storage backend.
func NewStore(typ, path string) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))

	switch typ {
	case "", TypeNone, "disabled":
		return noopStore{}, nil
	case TypeMemory:
		return NewMemoryStore(), nil
	case TypeBBolt:
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		return openBolt(path)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

type noopStore struct{}

func (noopStore) Close() error               { return nil }
func (noopStore) Get(string) (string, error) { return "", nil }
func (noopStore) Put(string, string) error   { return nil }
func (noopStore) Delete(string) error        { return nil }
