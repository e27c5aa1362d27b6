package ai

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// GeminiProvider wraps the Gemini client for text and multimodal generation.
type GeminiProvider struct {
	client          *genai.Client
	textModel       string
	multimodalModel string
	logger          *zap.Logger
}

func NewGeminiProvider(ctx context.Context, apiKey, textModel, multimodalModel string, logger *zap.Logger) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	if textModel == "" {
		textModel = "gemini-2.5-flash"
	}
	if multimodalModel == "" {
		multimodalModel = textModel
	}

	return &GeminiProvider{
		client:          client,
		textModel:       textModel,
		multimodalModel: multimodalModel,
		logger:          logger,
	}, nil
}

func (g *GeminiProvider) Name() string {
	return "Gemini"
}

func (g *GeminiProvider) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	if g.client == nil {
		return "", fmt.Errorf("gemini client not initialized")
	}

	modelName := g.textModel
	if req.Multimodal {
		modelName = g.multimodalModel
	}

	g.logger.Debug("Generating with Gemini",
		zap.String("model", modelName),
		zap.Int("parts", len(req.Parts)),
		zap.Float32("temperature", req.Config.Temperature),
	)

	resp, err := g.client.Models.GenerateContent(ctx, modelName, []*genai.Content{
		{
			Role:  "user",
			Parts: toGeminiParts(req.Parts),
		},
	}, toGeminiConfig(req))
	if err != nil {
		g.logger.Error("Gemini generation failed", zap.String("model", modelName), zap.Error(err))
		return "", err
	}

	text := extractTextFromGeminiResponse(resp)
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}

	g.logger.Debug("Gemini response received", zap.Int("length", len(text)))
	return text, nil
}

func toGeminiParts(parts []Part) []*genai.Part {
	out := make([]*genai.Part, 0, len(parts))
	for _, p := range parts {
		if p.IsMedia() {
			out = append(out, &genai.Part{
				InlineData: &genai.Blob{
					MIMEType: p.MIMEType,
					Data:     p.Data,
				},
			})
			continue
		}
		out = append(out, &genai.Part{Text: p.Text})
	}
	return out
}

func toGeminiConfig(req GenerateRequest) *genai.GenerateContentConfig {
	temperature := req.Config.Temperature
	genConfig := &genai.GenerateContentConfig{
		Temperature: &temperature,
	}
	if req.Config.TopP > 0 {
		topP := req.Config.TopP
		genConfig.TopP = &topP
	}
	if req.Config.TopK > 0 {
		topK := float32(req.Config.TopK)
		genConfig.TopK = &topK
	}
	if req.Config.MaxOutputTokens > 0 {
		genConfig.MaxOutputTokens = int32(req.Config.MaxOutputTokens)
	}
	if req.SystemInstruction != "" {
		genConfig.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: req.SystemInstruction}},
		}
	}
	return genConfig
}

func extractTextFromGeminiResponse(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return ""
	}

	var texts []string
	for _, part := range candidate.Content.Parts {
		if part.Text != "" && !part.Thought {
			texts = append(texts, part.Text)
		}
	}

	return strings.Join(texts, "")
}
