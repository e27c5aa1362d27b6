package credential

import (
	"context"
	"errors"
	"testing"

	"github.com/kapu/prompt-studio-go/internal/storage"
	studioerrors "github.com/kapu/prompt-studio-go/pkg/errors"
	"go.uber.org/zap"
)

type failingStore struct {
	*storage.MemoryStore
}

func (f failingStore) Set(context.Context, string, string) error {
	return errors.New("disk full")
}

func TestStoreLoadsPersistedCredential(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemoryStore()
	_ = backend.Set(ctx, "geminiApiKey", "persisted")

	store := NewStore(backend, "geminiApiKey", "seed", zap.NewNop())
	if err := store.Init(ctx); err != nil {
		t.Fatalf("Init returned error: %v", err)
	}

	value, ok := store.Get()
	if !ok || value != "persisted" {
		t.Fatalf("expected persisted credential, got %q (%v)", value, ok)
	}
}

func TestStoreFallsBackToSeedWithoutPersisting(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemoryStore()

	store := NewStore(backend, "geminiApiKey", "seed", zap.NewNop())
	if err := store.Init(ctx); err != nil {
		t.Fatalf("Init returned error: %v", err)
	}

	if value, _ := store.Get(); value != "seed" {
		t.Fatalf("expected seed credential, got %q", value)
	}
	if _, ok, _ := backend.Get(ctx, "geminiApiKey"); ok {
		t.Fatalf("seed must not be persisted")
	}
}

func TestStoreMissingWithoutSeed(t *testing.T) {
	store := NewStore(storage.NewMemoryStore(), "geminiApiKey", "", zap.NewNop())
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("Init returned error: %v", err)
	}
	if !store.Missing() {
		t.Fatalf("expected missing credential")
	}
}

func TestSetPersistsAndClearRemoves(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemoryStore()
	store := NewStore(backend, "geminiApiKey", "", zap.NewNop())
	_ = store.Init(ctx)

	if err := store.Set(ctx, "user-key"); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	if value, ok, _ := backend.Get(ctx, "geminiApiKey"); !ok || value != "user-key" {
		t.Fatalf("credential not persisted: %q", value)
	}

	reloaded := NewStore(backend, "geminiApiKey", "", zap.NewNop())
	_ = reloaded.Init(ctx)
	if value, _ := reloaded.Get(); value != "user-key" {
		t.Fatalf("reloaded store returned %q", value)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear returned error: %v", err)
	}
	if _, ok, _ := backend.Get(ctx, "geminiApiKey"); ok {
		t.Fatalf("credential should be removed from storage")
	}
	if !store.Missing() {
		t.Fatalf("store should report missing after clear")
	}
}

func TestSetKeepsPreviousValueWhenStorageFails(t *testing.T) {
	ctx := context.Background()
	backend := failingStore{storage.NewMemoryStore()}
	store := NewStore(backend, "geminiApiKey", "seed", zap.NewNop())
	_ = store.Init(ctx)

	if err := store.Set(ctx, "new-key"); !studioerrors.IsStorage(err) {
		t.Fatalf("expected storage error, got %v", err)
	}
	if value, _ := store.Get(); value != "seed" {
		t.Fatalf("in-memory credential changed despite failed write: %q", value)
	}
}
