package ai

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"go.uber.org/zap"
)

// OpenAIProvider wraps the OpenAI chat completion client. Images are sent as data
// URLs; video input is not supported. SDK retries are disabled.
type OpenAIProvider struct {
	client       *openai.Client
	defaultModel string
	logger       *zap.Logger
}

func NewOpenAIProvider(apiKey, baseURL, defaultModel string, logger *zap.Logger) *OpenAIProvider {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if defaultModel == "" {
		defaultModel = "gpt-4.1-mini"
	}

	client := openai.NewClient(opts...)
	return &OpenAIProvider{
		client:       &client,
		defaultModel: defaultModel,
		logger:       logger,
	}
}

func (o *OpenAIProvider) Name() string {
	return "OpenAI"
}

func (o *OpenAIProvider) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	if o.client == nil {
		return "", fmt.Errorf("OpenAI client not initialized")
	}
	if req.HasVideo() {
		return "", fmt.Errorf("%w: OpenAI chat completions do not accept video", ErrUnsupportedMedia)
	}

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if req.SystemInstruction != "" {
		messages = append(messages, openai.SystemMessage(req.SystemInstruction))
	}
	messages = append(messages, openAIUserMessage(req.Parts))

	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(o.defaultModel),
		Messages:    messages,
		Temperature: openai.Float(float64(req.Config.Temperature)),
	}
	if req.Config.TopP > 0 {
		params.TopP = openai.Float(float64(req.Config.TopP))
	}
	if req.Config.MaxOutputTokens > 0 {
		params.MaxCompletionTokens = openai.Int(int64(req.Config.MaxOutputTokens))
	}

	o.logger.Debug("Generating with OpenAI",
		zap.String("model", o.defaultModel),
		zap.Int("parts", len(req.Parts)),
	)

	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		o.logger.Error("OpenAI generation failed", zap.Error(err))
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in OpenAI response")
	}

	text := resp.Choices[0].Message.Content
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}

	o.logger.Debug("OpenAI response received",
		zap.Int("length", len(text)),
		zap.Int64("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int64("completion_tokens", resp.Usage.CompletionTokens),
	)
	return text, nil
}

func openAIUserMessage(parts []Part) openai.ChatCompletionMessageParamUnion {
	if len(parts) == 1 && !parts[0].IsMedia() {
		return openai.UserMessage(parts[0].Text)
	}

	content := make([]openai.ChatCompletionContentPartUnionParam, 0, len(parts))
	for _, p := range parts {
		if p.IsMedia() {
			content = append(content, openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
				URL: dataURL(p.MIMEType, p.Data),
			}))
			continue
		}
		content = append(content, openai.TextContentPart(p.Text))
	}
	return openai.UserMessage(content)
}

func dataURL(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
