package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"mcq-generator/internal/config"
	"mcq-generator/internal/domain"
	"mcq-generator/internal/logger"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
)

// contentGenerator is the part of a langchaingo model the adapter needs.
type contentGenerator interface {
	GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error)
}

// LangchainClient implements domain.LLMClient over any langchaingo chat model.
type LangchainClient struct {
	model       contentGenerator
	modelName   string
	temperature float64
	timeout     time.Duration
	pricing     Pricing
}

var _ domain.LLMClient = (*LangchainClient)(nil)

// NewOpenAIClient builds a client for the OpenAI chat completions API.
func NewOpenAIClient(cfg config.LLMConfig) (*LangchainClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai API key cannot be empty")
	}
	opts := []openai.Option{
		openai.WithToken(cfg.APIKey),
		openai.WithModel(cfg.Model),
		openai.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}
	model, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create LangchainGo OpenAI client: %w", err)
	}
	return newLangchainClient(model, cfg), nil
}

// NewOllamaClient builds a client for a local Ollama server.
func NewOllamaClient(cfg config.LLMConfig) (*LangchainClient, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("ollama server URL cannot be empty")
	}
	model, err := ollama.New(
		ollama.WithServerURL(cfg.BaseURL),
		ollama.WithModel(cfg.Model),
		ollama.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create LangchainGo Ollama client: %w", err)
	}
	return newLangchainClient(model, cfg), nil
}

func newLangchainClient(model contentGenerator, cfg config.LLMConfig) *LangchainClient {
	return &LangchainClient{
		model:       model,
		modelName:   cfg.Model,
		temperature: cfg.Temperature,
		timeout:     cfg.Timeout,
		pricing:     PricingFromConfig(cfg),
	}
}

// Generate sends prompt as a single human message.
func (c *LangchainClient) Generate(ctx context.Context, prompt string) (*domain.Completion, error) {
	l := logger.Get()

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	messages := []llms.MessageContent{llms.TextParts(llms.ChatMessageTypeHuman, prompt)}
	start := time.Now()
	resp, err := c.model.GenerateContent(ctx, messages, llms.WithTemperature(c.temperature))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			l.Error("LLM request timed out", zap.String("model", c.modelName), zap.Duration("timeout", c.timeout))
			return nil, domain.NewLLMServiceError(fmt.Errorf("LLM request timed out: %w", err))
		}
		l.Error("Failed to get response from LLM", zap.String("model", c.modelName), zap.Error(err))
		return nil, domain.NewLLMServiceError(fmt.Errorf("LLM call failed: %w", err))
	}
	if resp == nil || len(resp.Choices) == 0 {
		return nil, domain.NewLLMServiceError(errors.New("LLM returned no choices"))
	}

	choice := resp.Choices[0]
	usage := usageFromGenerationInfo(choice.GenerationInfo)
	usage.EstimatedCost = c.pricing.Cost(usage)

	l.Debug("LLM call finished",
		zap.String("model", c.modelName),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("prompt_tokens", usage.PromptTokens),
		zap.Int("completion_tokens", usage.CompletionTokens))

	return &domain.Completion{Text: strings.TrimSpace(choice.Content), Usage: usage}, nil
}

// usageFromGenerationInfo reads the token counters providers place in
// GenerationInfo. Values arrive as int from openai and may be other numeric
// types from other backends.
func usageFromGenerationInfo(info map[string]any) domain.TokenUsage {
	usage := domain.TokenUsage{
		PromptTokens:     toInt(info["PromptTokens"]),
		CompletionTokens: toInt(info["CompletionTokens"]),
		TotalTokens:      toInt(info["TotalTokens"]),
	}
	if usage.TotalTokens == 0 {
		usage.TotalTokens = usage.PromptTokens + usage.CompletionTokens
	}
	return usage
}

func toInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int32:
		return int(n)
	case int64:
		return int(n)
	case float64:
		return int(n)
	case float32:
		return int(n)
	default:
		return 0
	}
}
