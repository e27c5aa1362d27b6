package preference

import (
	"context"
	"sync"

	"github.com/kapu/prompt-studio-go/internal/domain"
	"github.com/kapu/prompt-studio-go/internal/storage"
	"github.com/kapu/prompt-studio-go/pkg/errors"
	"go.uber.org/zap"
)

// ThemeStore persists the light/dark preference.
type ThemeStore struct {
	mu      sync.RWMutex
	backend storage.Store
	key     string
	theme   domain.Theme
	logger  *zap.Logger
}

func NewThemeStore(backend storage.Store, key string, logger *zap.Logger) *ThemeStore {
	return &ThemeStore{backend: backend, key: key, theme: domain.ThemeDark, logger: logger}
}

func (t *ThemeStore) Init(ctx context.Context) error {
	value, ok, err := t.backend.Get(ctx, t.key)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if ok {
		t.theme = domain.ParseTheme(value)
	} else {
		t.theme = domain.ThemeDark
	}
	return nil
}

func (t *ThemeStore) Get() domain.Theme {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.theme
}

func (t *ThemeStore) Set(ctx context.Context, theme domain.Theme) error {
	theme = domain.ParseTheme(string(theme))

	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.backend.Set(ctx, t.key, string(theme)); err != nil {
		t.logger.Error("Failed to persist theme", zap.String("theme", string(theme)), zap.Error(err))
		if errors.IsStorage(err) {
			return err
		}
		return errors.NewStorageError("failed to persist theme", "set", t.key, err)
	}
	t.theme = theme
	t.logger.Debug("Theme updated", zap.String("theme", string(theme)))
	return nil
}

// Toggle flips the theme and returns the new value.
func (t *ThemeStore) Toggle(ctx context.Context) (domain.Theme, error) {
	next := t.Get().Toggle()
	if err := t.Set(ctx, next); err != nil {
		return t.Get(), err
	}
	return next, nil
}
