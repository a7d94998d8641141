package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"mcq-generator/internal/config"
	"mcq-generator/internal/domain"
	"mcq-generator/internal/logger"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

type geminiModels interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiClient implements domain.LLMClient with the Google Gen AI SDK.
type GeminiClient struct {
	models      geminiModels
	modelName   string
	temperature float32
	timeout     time.Duration
	pricing     Pricing
}

var _ domain.LLMClient = (*GeminiClient)(nil)

func NewGeminiClient(ctx context.Context, cfg config.LLMConfig) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key cannot be empty")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiClient{
		models:      client.Models,
		modelName:   cfg.Model,
		temperature: float32(cfg.Temperature),
		timeout:     cfg.Timeout,
		pricing:     PricingFromConfig(cfg),
	}, nil
}

func (c *GeminiClient) Generate(ctx context.Context, prompt string) (*domain.Completion, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	result, err := c.models.GenerateContent(ctx, c.modelName, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature: genai.Ptr(c.temperature),
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, domain.NewLLMServiceError(fmt.Errorf("LLM request timed out: %w", err))
		}
		logger.Get().Error("Gemini generate content failed", zap.String("model", c.modelName), zap.Error(err))
		return nil, domain.NewLLMServiceError(fmt.Errorf("generate content: %w", err))
	}

	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return nil, domain.NewLLMServiceError(errors.New("empty response from Gemini"))
	}
	var text strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" {
			text.WriteString(part.Text)
		}
	}

	var usage domain.TokenUsage
	if md := result.UsageMetadata; md != nil {
		usage.PromptTokens = int(md.PromptTokenCount)
		usage.CompletionTokens = int(md.CandidatesTokenCount)
		usage.TotalTokens = int(md.TotalTokenCount)
	}
	usage.EstimatedCost = c.pricing.Cost(usage)

	return &domain.Completion{Text: strings.TrimSpace(text.String()), Usage: usage}, nil
}
