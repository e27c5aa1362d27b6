package ai

import (
	"context"
	"strings"

	"github.com/kapu/prompt-studio-go/internal/domain"
	"github.com/kapu/prompt-studio-go/internal/prompt"
	"github.com/kapu/prompt-studio-go/pkg/errors"
	"go.uber.org/zap"
)

const (
	opGenerateText  = "generate_text"
	opGenerateMedia = "generate_media"
	opTranslate     = "translate"
)

// Client is the remote generation client. Every call builds a provider for the given
// credential and issues exactly one request: no retry, no cache, no rate limiting.
type Client struct {
	factory ProviderFactory
	prompts *prompt.PromptBuilder
	logger  *zap.Logger
}

func NewClient(factory ProviderFactory, prompts *prompt.PromptBuilder, logger *zap.Logger) *Client {
	if prompts == nil {
		prompts = prompt.DefaultPromptBuilder()
	}
	return &Client{
		factory: factory,
		prompts: prompts,
		logger:  logger,
	}
}

// GenerateFromText refines a combined structured request into a prompt.
func (c *Client) GenerateFromText(ctx context.Context, credential, combinedInput string) (string, error) {
	system, err := c.prompts.RefineSystemInstruction()
	if err != nil {
		return "", errors.NewGenerationError("failed to build system instruction", "", opGenerateText, err)
	}

	return c.generate(ctx, credential, opGenerateText, GenerateRequest{
		SystemInstruction: system,
		Parts:             []Part{{Text: combinedInput}},
		Config:            GetPresetConfig(PresetRefine),
	})
}

// GenerateFromMedia describes an image or video as a prompt for art/video generators.
func (c *Client) GenerateFromMedia(ctx context.Context, credential string, media []byte, mimeType, hint string) (string, error) {
	system, err := c.prompts.MediaSystemInstruction()
	if err != nil {
		return "", errors.NewGenerationError("failed to build system instruction", "", opGenerateMedia, err)
	}
	hintText, err := c.prompts.MediaHint(hint)
	if err != nil {
		return "", errors.NewGenerationError("failed to build media hint", "", opGenerateMedia, err)
	}

	return c.generate(ctx, credential, opGenerateMedia, GenerateRequest{
		SystemInstruction: system,
		Parts: []Part{
			{Data: media, MIMEType: mimeType},
			{Text: hintText},
		},
		Config:     GetPresetConfig(PresetDescribe),
		Multimodal: true,
	})
}

// Translate returns a faithful translation of text into target.
func (c *Client) Translate(ctx context.Context, credential, text string, target domain.Language) (string, error) {
	if credential == "" {
		return "", missingCredential()
	}

	request, err := c.prompts.Translate(text, target)
	if err != nil {
		return "", errors.NewTranslationError("failed to build translation prompt", "", string(target), err)
	}

	provider, err := c.factory(ctx, credential)
	if err != nil {
		return "", errors.NewTranslationError("failed to create AI client", "", string(target), err)
	}

	out, err := provider.Generate(ctx, GenerateRequest{
		Parts:  []Part{{Text: request}},
		Config: GetPresetConfig(PresetTranslate),
	})
	if err == nil {
		out = strings.TrimSpace(out)
		if out == "" {
			err = ErrEmptyResponse
		}
	}
	if err != nil {
		c.logger.Warn("Translation failed",
			zap.String("provider", provider.Name()),
			zap.String("target", string(target)),
			zap.Error(err),
		)
		return "", errors.NewTranslationError("failed to translate text", provider.Name(), string(target), err)
	}
	return out, nil
}

func (c *Client) generate(ctx context.Context, credential, operation string, req GenerateRequest) (string, error) {
	if credential == "" {
		return "", missingCredential()
	}

	provider, err := c.factory(ctx, credential)
	if err != nil {
		return "", errors.NewGenerationError("failed to create AI client", "", operation, err)
	}

	out, err := provider.Generate(ctx, req)
	if err == nil {
		out = strings.TrimSpace(out)
		if out == "" {
			err = ErrEmptyResponse
		}
	}
	if err != nil {
		c.logger.Warn("Prompt generation failed",
			zap.String("provider", provider.Name()),
			zap.String("operation", operation),
			zap.Error(err),
		)
		return "", errors.NewGenerationError("failed to generate prompt", provider.Name(), operation, err)
	}
	return out, nil
}

func missingCredential() error {
	return errors.NewConfigurationError("API key is not set", "credential")
}
