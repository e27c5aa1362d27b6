package credential

import (
	"context"
	"sync"

	"github.com/kapu/prompt-studio-go/internal/storage"
	"github.com/kapu/prompt-studio-go/pkg/errors"
	"go.uber.org/zap"
)

// Store holds the user's API credential and mirrors it to persisted storage.
type Store struct {
	mu      sync.RWMutex
	backend storage.Store
	key     string
	seed    string
	value   string
	logger  *zap.Logger
}

// NewStore creates a credential store. seed is used when nothing is persisted; it is
// never written to storage.
func NewStore(backend storage.Store, key, seed string, logger *zap.Logger) *Store {
	return &Store{
		backend: backend,
		key:     key,
		seed:    seed,
		logger:  logger,
	}
}

// Init loads the persisted credential once at startup.
func (s *Store) Init(ctx context.Context) error {
	value, ok, err := s.backend.Get(ctx, s.key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case ok && value != "":
		s.value = value
	case s.seed != "":
		s.value = s.seed
		s.logger.Info("Using configured API key until one is saved")
	default:
		s.value = ""
		s.logger.Info("No API key stored, user must supply one")
	}
	return nil
}

func (s *Store) Get() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value, s.value != ""
}

// Missing signals that the user has to supply a credential.
func (s *Store) Missing() bool {
	_, ok := s.Get()
	return !ok
}

// Set overwrites the persisted credential; an empty value clears it.
func (s *Store) Set(ctx context.Context, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if value == "" {
		if err := s.backend.Delete(ctx, s.key); err != nil {
			return storageError("del", s.key, err)
		}
		s.value = ""
		s.logger.Info("API key cleared")
		return nil
	}

	if err := s.backend.Set(ctx, s.key, value); err != nil {
		return storageError("set", s.key, err)
	}
	s.value = value
	s.logger.Info("API key updated")
	return nil
}

func (s *Store) Clear(ctx context.Context) error {
	return s.Set(ctx, "")
}

func storageError(operation, key string, err error) error {
	if errors.IsStorage(err) {
		return err
	}
	return errors.NewStorageError("failed to persist API key", operation, key, err)
}
