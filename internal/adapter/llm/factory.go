package llm

import (
	"context"
	"fmt"

	"mcq-generator/internal/config"
	"mcq-generator/internal/domain"
)

// New returns the client for cfg.Provider.
func New(ctx context.Context, cfg config.LLMConfig) (domain.LLMClient, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		return NewOpenAIClient(cfg)
	case config.ProviderOllama:
		return NewOllamaClient(cfg)
	case config.ProviderGemini:
		return NewGeminiClient(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.Provider)
	}
}
