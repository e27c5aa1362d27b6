// Package studio is the session facade over the prompt studio: generation, the saved
// prompt library, the API credential and the theme preference.
package studio

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/kapu/prompt-studio-go/internal/app"
	"github.com/kapu/prompt-studio-go/internal/config"
	"github.com/kapu/prompt-studio-go/internal/domain"
	"github.com/kapu/prompt-studio-go/internal/library"
	"github.com/kapu/prompt-studio-go/internal/util"
	"github.com/kapu/prompt-studio-go/pkg/errors"
	"go.uber.org/zap"
)

type (
	Record          = domain.Record
	FileInfo        = domain.FileInfo
	Mode            = domain.Mode
	Request         = domain.Request
	StructuredInput = domain.StructuredInput
	MediaInput      = domain.MediaInput
	Theme           = domain.Theme
)

const (
	ModeStructured = domain.ModeStructured
	ModeImage      = domain.ModeImage
	ModeVideo      = domain.ModeVideo

	ThemeLight = domain.ThemeLight
	ThemeDark  = domain.ThemeDark
)

var (
	// ErrBusy is returned by Generate while another generation is pending.
	ErrBusy = stderrors.New("a generation is already in progress")
	// ErrNotFound is returned when an id matches neither the current result nor a saved prompt.
	ErrNotFound = library.ErrNotFound
)

func NewStructuredRequest(input StructuredInput) Request { return domain.NewStructuredRequest(input) }
func NewImageRequest(input *MediaInput) Request          { return domain.NewImageRequest(input) }
func NewVideoRequest(input *MediaInput) Request          { return domain.NewVideoRequest(input) }

// Studio holds one session: the current result plus the persisted stores.
type Studio struct {
	container *app.Container
	logger    *zap.Logger
	ownLogger bool

	busy    atomic.Bool
	mu      sync.RWMutex
	current *domain.Record
}

// Open loads configuration from the environment and assembles a session.
func Open(ctx context.Context, opts ...app.Option) (*Studio, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger, err := util.NewLogger(cfg.Logging.Level, cfg.Logging.File)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	container, err := app.Build(ctx, cfg, logger, opts...)
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}

	s, err := New(container)
	if err != nil {
		container.Close()
		return nil, err
	}
	s.ownLogger = true
	return s, nil
}

// New wraps an already built container.
func New(container *app.Container) (*Studio, error) {
	if container == nil || container.Orchestrator == nil || container.Library == nil ||
		container.Credentials == nil || container.Theme == nil {
		return nil, fmt.Errorf("studio container is not fully initialized")
	}
	logger := container.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Studio{container: container, logger: logger}, nil
}

// Generate produces a new record and makes it the current result. The previous result
// is cleared before the remote calls start.
func (s *Studio) Generate(ctx context.Context, req Request) (*Record, error) {
	if !s.busy.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer s.busy.Store(false)

	s.setCurrent(nil)

	rec, err := s.container.Orchestrator.ProduceRecord(ctx, req)
	if err != nil {
		return nil, err
	}

	s.setCurrent(rec)
	return rec.Clone(), nil
}

// Busy reports whether a generation is pending.
func (s *Studio) Busy() bool {
	return s.busy.Load()
}

// Current returns the latest generated record, or nil.
func (s *Studio) Current() *Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Clone()
}

func (s *Studio) setCurrent(rec *domain.Record) {
	s.mu.Lock()
	s.current = rec
	s.mu.Unlock()
}

// Save stores the current record, or re-saves a library record, under id.
// Records whose generation fell back cannot be saved.
func (s *Studio) Save(ctx context.Context, id string) error {
	rec := s.lookup(id)
	if rec == nil {
		return ErrNotFound
	}
	if rec.GenerationFailed {
		return errors.NewValidationError("Không thể lưu prompt tạo thất bại.", "id", id)
	}
	return s.container.Library.Save(ctx, rec)
}

// Delete removes a saved prompt. Unknown ids are ignored.
func (s *Studio) Delete(ctx context.Context, id string) error {
	return s.container.Library.Delete(ctx, id)
}

// Edit replaces both texts of the record with id, in the current result and in the
// library, whichever hold it.
func (s *Studio) Edit(ctx context.Context, id, english, vietnamese string) (*Record, error) {
	var updated *domain.Record

	rec, err := s.container.Library.Edit(ctx, id, english, vietnamese)
	switch {
	case err == nil:
		updated = rec
	case !stderrors.Is(err, library.ErrNotFound):
		return nil, err
	}

	s.mu.Lock()
	if s.current != nil && s.current.ID == id {
		s.current = s.current.WithTexts(english, vietnamese)
		if updated == nil {
			updated = s.current.Clone()
		}
	}
	s.mu.Unlock()

	if updated == nil {
		return nil, ErrNotFound
	}
	return updated, nil
}

// Library returns the saved prompts, most recent first.
func (s *Studio) Library() []*Record {
	return s.container.Library.List()
}

func (s *Studio) lookup(id string) *domain.Record {
	s.mu.RLock()
	if s.current != nil && s.current.ID == id {
		rec := s.current.Clone()
		s.mu.RUnlock()
		return rec
	}
	s.mu.RUnlock()

	if rec, ok := s.container.Library.Get(id); ok {
		return rec
	}
	return nil
}

func (s *Studio) Credential() string {
	value, _ := s.container.Credentials.Get()
	return value
}

// SetCredential persists the API key; an empty value clears it.
func (s *Studio) SetCredential(ctx context.Context, value string) error {
	return s.container.Credentials.Set(ctx, value)
}

func (s *Studio) CredentialMissing() bool {
	return s.container.Credentials.Missing()
}

func (s *Studio) Theme() Theme {
	return s.container.Theme.Get()
}

func (s *Studio) ToggleTheme(ctx context.Context) (Theme, error) {
	return s.container.Theme.Toggle(ctx)
}

// Close releases the storage backend. Every mutation is already persisted.
func (s *Studio) Close() {
	s.container.Close()
	if s.ownLogger {
		_ = s.logger.Sync()
	}
}
