package library

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"sync"

	"github.com/kapu/prompt-studio-go/internal/domain"
	"github.com/kapu/prompt-studio-go/internal/storage"
	"github.com/kapu/prompt-studio-go/pkg/errors"
	"go.uber.org/zap"
)

var ErrNotFound = stderrors.New("prompt not found in library")

// Store is the saved prompt library, most recently saved first and unique by id.
// Every mutation persists the whole sequence before it becomes visible.
type Store struct {
	mu      sync.RWMutex
	backend storage.Store
	key     string
	records []*domain.Record
	logger  *zap.Logger
}

func NewStore(backend storage.Store, key string, logger *zap.Logger) *Store {
	return &Store{
		backend: backend,
		key:     key,
		logger:  logger,
	}
}

// Init loads the library once; a missing key yields an empty library. Entries without
// an id or with an unknown mode are dropped.
func (s *Store) Init(ctx context.Context) error {
	raw, ok, err := s.backend.Get(ctx, s.key)
	if err != nil {
		return err
	}

	var records []*domain.Record
	if ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &records); err != nil {
			return errors.NewStorageError("saved prompts are not valid JSON", "load", s.key, err)
		}
	}

	filtered := make([]*domain.Record, 0, len(records))
	for _, rec := range records {
		if rec != nil && rec.ID != "" && rec.Mode.Valid() {
			filtered = append(filtered, rec)
		}
	}

	s.mu.Lock()
	s.records = filtered
	s.mu.Unlock()

	s.logger.Info("Prompt library loaded", zap.Int("count", len(filtered)))
	return nil
}

// List returns a copy of the library in display order.
func (s *Store) List() []*domain.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.Record, len(s.records))
	for i, rec := range s.records {
		out[i] = rec.Clone()
	}
	return out
}

func (s *Store) Get(id string) (*domain.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, rec := range s.records {
		if rec.ID == id {
			return rec.Clone(), true
		}
	}
	return nil, false
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Save upserts record at the front of the library.
func (s *Store) Save(ctx context.Context, record *domain.Record) error {
	if record == nil || record.ID == "" {
		return errors.NewValidationError("record id is required", "id", "")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]*domain.Record, 0, len(s.records)+1)
	next = append(next, record.Clone())
	for _, rec := range s.records {
		if rec.ID != record.ID {
			next = append(next, rec)
		}
	}

	if err := s.persist(ctx, next); err != nil {
		return err
	}
	s.records = next
	s.logger.Debug("Prompt saved", zap.String("id", record.ID), zap.String("mode", string(record.Mode)))
	return nil
}

// Delete removes id from the library. Unknown ids are ignored.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]*domain.Record, 0, len(s.records))
	for _, rec := range s.records {
		if rec.ID != id {
			next = append(next, rec)
		}
	}
	if len(next) == len(s.records) {
		return nil
	}

	if err := s.persist(ctx, next); err != nil {
		return err
	}
	s.records = next
	s.logger.Debug("Prompt deleted", zap.String("id", id))
	return nil
}

// Edit replaces only the English and Vietnamese texts of id.
func (s *Store) Edit(ctx context.Context, id, english, vietnamese string) (*domain.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	index := -1
	for i, rec := range s.records {
		if rec.ID == id {
			index = i
			break
		}
	}
	if index < 0 {
		return nil, ErrNotFound
	}

	next := make([]*domain.Record, len(s.records))
	copy(next, s.records)
	next[index] = s.records[index].WithTexts(english, vietnamese)

	if err := s.persist(ctx, next); err != nil {
		return nil, err
	}
	s.records = next
	return next[index].Clone(), nil
}

func (s *Store) persist(ctx context.Context, records []*domain.Record) error {
	data, err := json.Marshal(records)
	if err != nil {
		return errors.NewStorageError("failed to encode saved prompts", "persist", s.key, err)
	}
	if err := s.backend.Set(ctx, s.key, string(data)); err != nil {
		s.logger.Error("Failed to persist prompt library", zap.Int("count", len(records)), zap.Error(err))
		if errors.IsStorage(err) {
			return err
		}
		return errors.NewStorageError("failed to persist saved prompts", "persist", s.key, err)
	}
	return nil
}
