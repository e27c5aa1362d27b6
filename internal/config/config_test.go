package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("AI_PROVIDER", "")
	t.Setenv("STORAGE_BACKEND", "")
	t.Setenv("UPLOAD_MAX_FILE_SIZE_MB", "")
	t.Setenv("GEMINI_API_KEY", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ProviderGemini, cfg.AI.Provider)
	require.Equal(t, BackendFile, cfg.Storage.Backend)
	require.Equal(t, "geminiApiKey", cfg.Keys.Credential)
	require.Equal(t, "appTheme", cfg.Keys.Theme)
	require.Equal(t, "savedAppPrompts", cfg.Keys.SavedPrompts)
	require.Equal(t, int64(5*1024*1024), cfg.MaxUploadBytes())
}

func TestLoadRejectsUnknownProvider(t *testing.T) {
	t.Setenv("AI_PROVIDER", "mystery")

	_, err := Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "AI_PROVIDER")
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Setenv("AI_PROVIDER", "gemini")
	t.Setenv("STORAGE_BACKEND", "floppy")

	_, err := Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "STORAGE_BACKEND")
}

func TestSeedCredentialFollowsProvider(t *testing.T) {
	cfg := &Config{
		AI:     AIConfig{Provider: ProviderOpenAI},
		Gemini: GeminiConfig{APIKey: "gemini-key"},
		OpenAI: OpenAIConfig{APIKey: "openai-key"},
		Anthro: AnthropicConfig{APIKey: "anthropic-key"},
	}
	require.Equal(t, "openai-key", cfg.SeedCredential())

	cfg.AI.Provider = ProviderAnthropic
	require.Equal(t, "anthropic-key", cfg.SeedCredential())

	cfg.AI.Provider = ProviderGemini
	require.Equal(t, "gemini-key", cfg.SeedCredential())
}

func TestValidateRejectsDuplicateKeys(t *testing.T) {
	cfg := &Config{
		AI:      AIConfig{Provider: ProviderGemini},
		Storage: StorageConfig{Backend: BackendMemory},
		Keys:    KeysConfig{Credential: "same", Theme: "theme", SavedPrompts: "same"},
		Upload:  UploadConfig{MaxFileSizeMB: 5},
	}
	require.Error(t, cfg.Validate())
}
