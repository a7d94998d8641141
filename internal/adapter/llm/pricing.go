package llm

import (
	"mcq-generator/internal/config"
	"mcq-generator/internal/domain"
)

// Pricing holds per-1K-token prices in USD.
type Pricing struct {
	PromptPer1K     float64
	CompletionPer1K float64
}

func PricingFromConfig(cfg config.LLMConfig) Pricing {
	return Pricing{PromptPer1K: cfg.PromptCostPer1K, CompletionPer1K: cfg.CompletionCostPer1K}
}

// Cost estimates the USD price of a call.
func (p Pricing) Cost(u domain.TokenUsage) float64 {
	return float64(u.PromptTokens)/1000*p.PromptPer1K + float64(u.CompletionTokens)/1000*p.CompletionPer1K
}
