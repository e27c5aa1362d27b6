package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Provider names accepted by AI_PROVIDER.
const (
	ProviderGemini    = "gemini"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Storage backends accepted by STORAGE_BACKEND.
const (
	BackendFile     = "file"
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

type Config struct {
	AI       AIConfig
	Gemini   GeminiConfig
	OpenAI   OpenAIConfig
	Anthro   AnthropicConfig
	Storage  StorageConfig
	Redis    RedisConfig
	Postgres PostgresConfig
	Keys     KeysConfig
	Upload   UploadConfig
	IDs      IDConfig
	Logging  LoggingConfig
}

type AIConfig struct {
	Provider string
}

type GeminiConfig struct {
	APIKey          string
	TextModel       string
	MultimodalModel string
}

type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type AnthropicConfig struct {
	APIKey    string
	Model     string
	MaxTokens int
}

type StorageConfig struct {
	Backend    string
	File       string
	SQLitePath string
}

type RedisConfig struct {
	Host      string
	Port      int
	Password  string
	DB        int
	KeyPrefix string
}

type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

// KeysConfig names the persisted storage keys.
type KeysConfig struct {
	Credential   string
	Theme        string
	SavedPrompts string
}

type UploadConfig struct {
	MaxFileSizeMB int
}

type IDConfig struct {
	Node int64
}

type LoggingConfig struct {
	Level string
	File  string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		AI: AIConfig{
			Provider: strings.ToLower(getEnv("AI_PROVIDER", ProviderGemini)),
		},
		Gemini: GeminiConfig{
			APIKey:          getEnv("GEMINI_API_KEY", ""),
			TextModel:       getEnv("GEMINI_TEXT_MODEL", "gemini-2.5-flash"),
			MultimodalModel: getEnv("GEMINI_MULTIMODAL_MODEL", "gemini-2.5-flash"),
		},
		OpenAI: OpenAIConfig{
			APIKey:  getEnv("OPENAI_API_KEY", ""),
			Model:   getEnv("OPENAI_MODEL", "gpt-4.1-mini"),
			BaseURL: getEnv("OPENAI_BASE_URL", ""),
		},
		Anthro: AnthropicConfig{
			APIKey:    getEnv("ANTHROPIC_API_KEY", ""),
			Model:     getEnv("ANTHROPIC_MODEL", "claude-sonnet-4-5"),
			MaxTokens: getEnvInt("ANTHROPIC_MAX_TOKENS", 2048),
		},
		Storage: StorageConfig{
			Backend:    strings.ToLower(getEnv("STORAGE_BACKEND", BackendFile)),
			File:       getEnv("STORAGE_FILE", "data/promptstudio.json"),
			SQLitePath: getEnv("SQLITE_PATH", "data/promptstudio.db"),
		},
		Redis: RedisConfig{
			Host:      getEnv("REDIS_HOST", "localhost"),
			Port:      getEnvInt("REDIS_PORT", 6379),
			Password:  getEnv("REDIS_PASSWORD", ""),
			DB:        getEnvInt("REDIS_DB", 0),
			KeyPrefix: getEnv("REDIS_KEY_PREFIX", "promptstudio:"),
		},
		Postgres: PostgresConfig{
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnvInt("POSTGRES_PORT", 5432),
			User:     getEnv("POSTGRES_USER", "postgres"),
			Password: getEnv("POSTGRES_PASSWORD", ""),
			Database: getEnv("POSTGRES_DB", "promptstudio"),
		},
		Keys: KeysConfig{
			Credential:   getEnv("STORAGE_KEY_CREDENTIAL", "geminiApiKey"),
			Theme:        getEnv("STORAGE_KEY_THEME", "appTheme"),
			SavedPrompts: getEnv("STORAGE_KEY_SAVED_PROMPTS", "savedAppPrompts"),
		},
		Upload: UploadConfig{
			MaxFileSizeMB: getEnvInt("UPLOAD_MAX_FILE_SIZE_MB", 5),
		},
		IDs: IDConfig{
			Node: int64(getEnvInt("ID_NODE", 1)),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			File:  getEnv("LOG_FILE", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.AI.Provider {
	case ProviderGemini, ProviderOpenAI, ProviderAnthropic:
	default:
		return fmt.Errorf("AI_PROVIDER %q is not supported", c.AI.Provider)
	}

	switch c.Storage.Backend {
	case BackendMemory, BackendRedis, BackendPostgres:
	case BackendFile:
		if c.Storage.File == "" {
			return fmt.Errorf("STORAGE_FILE is required for the file backend")
		}
	case BackendSQLite:
		if c.Storage.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required for the sqlite backend")
		}
	default:
		return fmt.Errorf("STORAGE_BACKEND %q is not supported", c.Storage.Backend)
	}

	if c.Keys.Credential == "" || c.Keys.Theme == "" || c.Keys.SavedPrompts == "" {
		return fmt.Errorf("storage keys must not be empty")
	}
	if c.Keys.Credential == c.Keys.SavedPrompts || c.Keys.Theme == c.Keys.SavedPrompts || c.Keys.Credential == c.Keys.Theme {
		return fmt.Errorf("storage keys must be distinct")
	}
	if c.Upload.MaxFileSizeMB <= 0 {
		return fmt.Errorf("UPLOAD_MAX_FILE_SIZE_MB must be positive")
	}
	if c.IDs.Node < 0 || c.IDs.Node > 1023 {
		return fmt.Errorf("ID_NODE must be between 0 and 1023")
	}
	if c.AI.Provider == ProviderAnthropic && c.Anthro.MaxTokens <= 0 {
		return fmt.Errorf("ANTHROPIC_MAX_TOKENS must be positive")
	}
	return nil
}

// SeedCredential returns the API key configured for the active provider, if any.
func (c *Config) SeedCredential() string {
	switch c.AI.Provider {
	case ProviderOpenAI:
		return c.OpenAI.APIKey
	case ProviderAnthropic:
		return c.Anthro.APIKey
	default:
		return c.Gemini.APIKey
	}
}

// MaxUploadBytes converts the configured megabyte limit to bytes.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.Upload.MaxFileSizeMB) * 1024 * 1024
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
