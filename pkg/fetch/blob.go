package fetch

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// ObjectRef is a process-local handle to bytes held by a BlobStore,
// formatted like a browser object URL ("blob:<origin>/<uuid>").
type ObjectRef string

// Blob is the content behind an ObjectRef.
type Blob struct {
	Data        []byte
	ContentType string
}

// BlobStore keeps fetched binary bodies addressable by ObjectRef until revoked.
type BlobStore struct {
	origin string
	mu     sync.RWMutex
	blobs  map[ObjectRef]Blob
}

// NewBlobStore creates a store whose refs carry origin; empty origin becomes "null".
func NewBlobStore(origin string) *BlobStore {
	origin = strings.TrimRight(strings.TrimSpace(origin), "/")
	if origin == "" {
		origin = "null"
	}
	return &BlobStore{origin: origin, blobs: make(map[ObjectRef]Blob)}
}

// Create registers data and returns its reference.
func (s *BlobStore) Create(data []byte, contentType string) (ObjectRef, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generate blob id: %w", err)
	}
	ref := ObjectRef("blob:" + s.origin + "/" + id.String())

	cp := make([]byte, len(data))
	copy(cp, data)

	s.mu.Lock()
	s.blobs[ref] = Blob{Data: cp, ContentType: contentType}
	s.mu.Unlock()
	return ref, nil
}

// Resolve returns the blob behind ref.
func (s *BlobStore) Resolve(ref ObjectRef) (Blob, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.blobs[ref]
	return b, ok
}

// Revoke releases ref. Revoking an unknown ref is a no-op.
func (s *BlobStore) Revoke(ref ObjectRef) {
	s.mu.Lock()
	delete(s.blobs, ref)
	s.mu.Unlock()
}

// Len returns the number of live refs.
func (s *BlobStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blobs)
}
