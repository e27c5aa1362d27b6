package app

import (
	"context"
	"fmt"

	"github.com/kapu/prompt-studio-go/internal/config"
	"github.com/kapu/prompt-studio-go/internal/credential"
	"github.com/kapu/prompt-studio-go/internal/idgen"
	"github.com/kapu/prompt-studio-go/internal/library"
	"github.com/kapu/prompt-studio-go/internal/media"
	"github.com/kapu/prompt-studio-go/internal/orchestrator"
	"github.com/kapu/prompt-studio-go/internal/preference"
	"github.com/kapu/prompt-studio-go/internal/prompt"
	"github.com/kapu/prompt-studio-go/internal/service/ai"
	"github.com/kapu/prompt-studio-go/internal/storage"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

// Container bundles the assembled stores and services behind a studio session.
type Container struct {
	Config *config.Config
	Logger *zap.Logger

	Storage      storage.Store
	Credentials  *credential.Store
	Theme        *preference.ThemeStore
	Library      *library.Store
	Generator    *ai.Client
	Validator    *media.Validator
	Orchestrator *orchestrator.Orchestrator

	closers []func()
}

// Option overrides a component Build would otherwise create from config.
type Option func(*buildOptions)

type buildOptions struct {
	store   storage.Store
	factory ai.ProviderFactory
}

// WithStore uses backend instead of opening the configured storage backend.
func WithStore(backend storage.Store) Option {
	return func(o *buildOptions) {
		o.store = backend
	}
}

// WithProviderFactory replaces the configured remote provider.
func WithProviderFactory(factory ai.ProviderFactory) Option {
	return func(o *buildOptions) {
		o.factory = factory
	}
}

// Build opens storage, loads the persisted credential, theme and library, and wires
// the generation client into the orchestrator.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts ...Option) (container *Container, err error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var options buildOptions
	for _, opt := range opts {
		opt(&options)
	}

	var closers []func()
	defer func() {
		if err != nil {
			for i := len(closers) - 1; i >= 0; i-- {
				closers[i]()
			}
		}
	}()

	// Storage
	backend := options.store
	if backend == nil {
		backend, err = OpenStorage(cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open storage: %w", err)
		}
		closers = append(closers, func() {
			_ = backend.Close()
		})
	}

	credentials := credential.NewStore(backend, cfg.Keys.Credential, cfg.SeedCredential(), logger)
	theme := preference.NewThemeStore(backend, cfg.Keys.Theme, logger)
	lib := library.NewStore(backend, cfg.Keys.SavedPrompts, logger)

	p := pool.New().WithContext(ctx)
	p.Go(func(ctx context.Context) error {
		if err := credentials.Init(ctx); err != nil {
			return fmt.Errorf("failed to load credential: %w", err)
		}
		return nil
	})
	p.Go(func(ctx context.Context) error {
		if err := theme.Init(ctx); err != nil {
			return fmt.Errorf("failed to load theme: %w", err)
		}
		return nil
	})
	p.Go(func(ctx context.Context) error {
		if err := lib.Init(ctx); err != nil {
			return fmt.Errorf("failed to load prompt library: %w", err)
		}
		return nil
	})
	if err := p.Wait(); err != nil {
		return nil, err
	}

	// AI stack
	factory := options.factory
	if factory == nil {
		factory, err = ai.NewProviderFactory(ai.ProviderSettings{
			Provider:              cfg.AI.Provider,
			GeminiTextModel:       cfg.Gemini.TextModel,
			GeminiMultimodalModel: cfg.Gemini.MultimodalModel,
			OpenAIModel:           cfg.OpenAI.Model,
			OpenAIBaseURL:         cfg.OpenAI.BaseURL,
			AnthropicModel:        cfg.Anthro.Model,
			AnthropicMaxTokens:    cfg.Anthro.MaxTokens,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create provider factory: %w", err)
		}
	}

	prompts := prompt.DefaultPromptBuilder()
	generator := ai.NewClient(factory, prompts, logger)
	validator := media.NewValidator(cfg.MaxUploadBytes())

	ids, err := idgen.New(cfg.IDs.Node)
	if err != nil {
		return nil, fmt.Errorf("failed to create id generator: %w", err)
	}

	orch, err := orchestrator.New(orchestrator.Dependencies{
		Generator:   generator,
		Credentials: credentials,
		IDs:         ids,
		Validator:   validator,
		Prompts:     prompts,
		Logger:      logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create orchestrator: %w", err)
	}

	logger.Info("Prompt studio assembled",
		zap.String("provider", cfg.AI.Provider),
		zap.String("storage", cfg.Storage.Backend),
		zap.Bool("credential_missing", credentials.Missing()),
		zap.Int("saved_prompts", lib.Len()),
	)

	return &Container{
		Config:       cfg,
		Logger:       logger,
		Storage:      backend,
		Credentials:  credentials,
		Theme:        theme,
		Library:      lib,
		Generator:    generator,
		Validator:    validator,
		Orchestrator: orch,
		closers:      closers,
	}, nil
}

// OpenStorage opens the backend selected by STORAGE_BACKEND.
func OpenStorage(cfg *config.Config, logger *zap.Logger) (storage.Store, error) {
	switch cfg.Storage.Backend {
	case config.BackendMemory:
		return storage.NewMemoryStore(), nil
	case config.BackendFile:
		return storage.NewFileStore(cfg.Storage.File, logger)
	case config.BackendSQLite:
		return storage.NewSQLiteStore(cfg.Storage.SQLitePath, logger)
	case config.BackendRedis:
		return storage.NewRedisStore(storage.RedisConfig{
			Host:      cfg.Redis.Host,
			Port:      cfg.Redis.Port,
			Password:  cfg.Redis.Password,
			DB:        cfg.Redis.DB,
			KeyPrefix: cfg.Redis.KeyPrefix,
		}, logger)
	case config.BackendPostgres:
		return storage.NewPostgresStore(storage.PostgresConfig{
			Host:     cfg.Postgres.Host,
			Port:     cfg.Postgres.Port,
			User:     cfg.Postgres.User,
			Password: cfg.Postgres.Password,
			Database: cfg.Postgres.Database,
		}, logger)
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", cfg.Storage.Backend)
	}
}

// Close releases everything Build opened, in reverse order.
func (c *Container) Close() {
	if c == nil {
		return
	}
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}
