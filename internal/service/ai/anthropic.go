package ai

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/zap"
)

var anthropicImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// AnthropicProvider implements Provider for the Anthropic Messages API.
type AnthropicProvider struct {
	client    anthropic.Client
	model     string
	maxTokens int
	logger    *zap.Logger
}

func NewAnthropicProvider(apiKey, model string, maxTokens int, logger *zap.Logger) *AnthropicProvider {
	if model == "" {
		model = "claude-sonnet-4-5"
	}
	if maxTokens <= 0 {
		maxTokens = 2048
	}
	return &AnthropicProvider{
		client:    anthropic.NewClient(option.WithAPIKey(apiKey), option.WithMaxRetries(0)),
		model:     model,
		maxTokens: maxTokens,
		logger:    logger,
	}
}

func (p *AnthropicProvider) Name() string {
	return "Anthropic"
}

func (p *AnthropicProvider) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	blocks := make([]anthropic.ContentBlockParamUnion, 0, len(req.Parts))
	for _, part := range req.Parts {
		if part.IsMedia() {
			mediaType := strings.ToLower(part.MIMEType)
			if mediaType == "image/jpg" {
				mediaType = "image/jpeg"
			}
			if !anthropicImageTypes[mediaType] {
				return "", fmt.Errorf("%w: Anthropic does not accept %s", ErrUnsupportedMedia, part.MIMEType)
			}
			blocks = append(blocks, anthropic.NewImageBlockBase64(mediaType, base64.StdEncoding.EncodeToString(part.Data)))
			continue
		}
		blocks = append(blocks, anthropic.NewTextBlock(part.Text))
	}

	maxTokens := p.maxTokens
	if req.Config.MaxOutputTokens > 0 {
		maxTokens = req.Config.MaxOutputTokens
	}

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(p.model),
		MaxTokens:   int64(maxTokens),
		Messages:    []anthropic.MessageParam{anthropic.NewUserMessage(blocks...)},
		Temperature: anthropic.Float(float64(req.Config.Temperature)),
	}
	// Recent models reject temperature and top_p together; top_k is still accepted.
	if req.Config.TopK > 0 {
		params.TopK = anthropic.Int(int64(req.Config.TopK))
	}
	if req.SystemInstruction != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.SystemInstruction}}
	}

	p.logger.Debug("Generating with Anthropic",
		zap.String("model", p.model),
		zap.Int("parts", len(req.Parts)),
	)

	resp, err := p.client.Messages.New(ctx, params)
	if err != nil {
		p.logger.Error("Anthropic generation failed", zap.Error(err))
		return "", err
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}

	text := sb.String()
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
