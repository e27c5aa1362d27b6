package preference

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/kapu/prompt-studio-go/internal/domain"
	"github.com/kapu/prompt-studio-go/internal/storage"
	"github.com/kapu/prompt-studio-go/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type readOnlyStore struct {
	*storage.MemoryStore
}

func (readOnlyStore) Set(context.Context, string, string) error {
	return stderrors.New("read-only")
}

func TestThemeDefaultsToDark(t *testing.T) {
	store := NewThemeStore(storage.NewMemoryStore(), "appTheme", zap.NewNop())
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("Init returned error: %v", err)
	}
	if store.Get() != domain.ThemeDark {
		t.Fatalf("expected dark default, got %q", store.Get())
	}
}

func TestThemeUnknownStoredValueFallsBackToDark(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemoryStore()
	_ = backend.Set(ctx, "appTheme", "sepia")

	store := NewThemeStore(backend, "appTheme", zap.NewNop())
	_ = store.Init(ctx)
	if store.Get() != domain.ThemeDark {
		t.Fatalf("expected dark fallback, got %q", store.Get())
	}
}

func TestThemeTogglePersists(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemoryStore()
	store := NewThemeStore(backend, "appTheme", zap.NewNop())
	_ = store.Init(ctx)

	theme, err := store.Toggle(ctx)
	if err != nil {
		t.Fatalf("Toggle returned error: %v", err)
	}
	if theme != domain.ThemeLight {
		t.Fatalf("expected light after toggle, got %q", theme)
	}
	if value, _, _ := backend.Get(ctx, "appTheme"); value != "light" {
		t.Fatalf("theme not persisted, stored %q", value)
	}

	theme, _ = store.Toggle(ctx)
	if theme != domain.ThemeDark {
		t.Fatalf("expected dark after second toggle, got %q", theme)
	}
}

func TestThemeFailedPersistIsLoggedAndKeepsTheme(t *testing.T) {
	ctx := context.Background()
	core, logs := observer.New(zap.ErrorLevel)
	store := NewThemeStore(readOnlyStore{storage.NewMemoryStore()}, "appTheme", zap.New(core))
	_ = store.Init(ctx)

	theme, err := store.Toggle(ctx)
	if !errors.IsStorage(err) {
		t.Fatalf("expected storage error, got %v", err)
	}
	if theme != domain.ThemeDark || store.Get() != domain.ThemeDark {
		t.Fatalf("theme must stay dark after a failed persist, got %q", store.Get())
	}
	if logs.FilterMessage("Failed to persist theme").Len() != 1 {
		t.Fatalf("expected one error log, got %d entries", logs.Len())
	}
}
