package ai

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Provider performs one remote generation round trip.
type Provider interface {
	Name() string
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}

// ProviderFactory builds a provider bound to the user's credential.
type ProviderFactory func(ctx context.Context, credential string) (Provider, error)

// ProviderType constants
const (
	ProviderGemini    = "gemini"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

var (
	ErrInvalidProvider  = errors.New("invalid provider")
	ErrEmptyResponse    = errors.New("model returned an empty response")
	ErrUnsupportedMedia = errors.New("media type is not supported by this provider")
)

// ProviderSettings selects and configures the remote provider.
type ProviderSettings struct {
	Provider              string
	GeminiTextModel       string
	GeminiMultimodalModel string
	OpenAIModel           string
	OpenAIBaseURL         string
	AnthropicModel        string
	AnthropicMaxTokens    int
}

// NewProviderFactory returns a factory for the configured provider.
func NewProviderFactory(settings ProviderSettings, logger *zap.Logger) (ProviderFactory, error) {
	switch settings.Provider {
	case ProviderGemini, "":
		return func(ctx context.Context, credential string) (Provider, error) {
			return NewGeminiProvider(ctx, credential, settings.GeminiTextModel, settings.GeminiMultimodalModel, logger)
		}, nil
	case ProviderOpenAI:
		return func(_ context.Context, credential string) (Provider, error) {
			return NewOpenAIProvider(credential, settings.OpenAIBaseURL, settings.OpenAIModel, logger), nil
		}, nil
	case ProviderAnthropic:
		return func(_ context.Context, credential string) (Provider, error) {
			return NewAnthropicProvider(credential, settings.AnthropicModel, settings.AnthropicMaxTokens, logger), nil
		}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidProvider, settings.Provider)
	}
}
