package storage

import (
	"path/filepath"
	"testing"
)

func TestBoltStorePersistsValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "credentials.db")

	store, err := openBolt(path)
	if err != nil {
		t.Fatalf("openBolt: %v", err)
	}

	got, err := store.Get("access_token")
	if err != nil || got != "" {
		t.Fatalf("expected empty value, got %q err=%v", got, err)
	}

	if err := store.Put("access_token", "abc.def.ghi"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := openBolt(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	got, err = reopened.Get("access_token")
	if err != nil || got != "abc.def.ghi" {
		t.Fatalf("expected persisted token, got %q err=%v", got, err)
	}

	if err := reopened.Delete("access_token"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	got, err = reopened.Get("access_token")
	if err != nil || got != "" {
		t.Fatalf("expected value removed, got %q err=%v", got, err)
	}
}

func TestBoltStoreDeleteMissingKey(t *testing.T) {
	store, err := openBolt(filepath.Join(t.TempDir(), "credentials.db"))
	if err != nil {
		t.Fatalf("openBolt: %v", err)
	}
	defer store.Close()

	if err := store.Delete("nope"); err != nil {
		t.Fatalf("Delete missing key: %v", err)
	}
}

func TestNewStoreSupportsNoop(t *testing.T) {
	store, err := NewStore("none", "")
	if err != nil {
		t.Fatalf("NewStore none: %v", err)
	}
	if err := store.Put("x", "y"); err != nil {
		t.Fatalf("noop store Put: %v", err)
	}
	if got, _ := store.Get("x"); got != "" {
		t.Fatalf("noop store should not retain values, got %q", got)
	}
}

func TestNewStoreMemory(t *testing.T) {
	store, err := NewStore(" Memory ", "")
	if err != nil {
		t.Fatalf("NewStore memory: %v", err)
	}
	if err := store.Put("k", "v"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if got, _ := store.Get("k"); got != "v" {
		t.Fatalf("Get = %q", got)
	}
}

func TestNewStoreValidation(t *testing.T) {
	if _, err := NewStore(TypeBBolt, " "); err == nil {
		t.Fatalf("expected error for bbolt without path")
	}
	if _, err := NewStore("redis", ""); err == nil {
		t.Fatalf("expected error for unsupported type")
	}
}
