package embedding

import (
	"bytes"
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"net/http"
	"time"

	"mcq-generator/internal/adapter"
	"mcq-generator/internal/cache"
	"mcq-generator/internal/config"
	"mcq-generator/internal/domain"
	"mcq-generator/internal/logger"
	"mcq-generator/internal/util"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const defaultEmbeddingTTL = 168 * time.Hour

// Service implements domain.EmbeddingService over a langchaingo embedder.
// Vectors are cached gob-encoded under a key derived from the text hash.
type Service struct {
	embedder embeddings.Embedder
	source   string
	model    string
	cache    domain.Cache
	ttl      time.Duration
	sfGroup  singleflight.Group
}

var _ domain.EmbeddingService = (*Service)(nil)

// New builds the embedder selected by cfg.Embedding.Source.
func New(cfg *config.Config, c domain.Cache) (*Service, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config instance cannot be nil for embedding service")
	}
	ecfg := cfg.Embedding
	ttl := cfg.ParseTTLStringOrDefault(cfg.CacheTTLs.Embedding, defaultEmbeddingTTL)

	switch ecfg.Source {
	case config.ProviderOpenAI:
		return NewOpenAI(ecfg.APIKey, ecfg.Model, c, ttl)
	case config.ProviderOllama:
		return NewOllama(ecfg.ServerURL, ecfg.Model, c, ttl)
	default:
		return nil, fmt.Errorf("unsupported embedding source %q", ecfg.Source)
	}
}

func NewOpenAI(apiKey, modelName string, c domain.Cache, ttl time.Duration) (*Service, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai API key cannot be empty")
	}
	if modelName == "" {
		modelName = "text-embedding-ada-002"
	}
	llm, err := openai.New(
		openai.WithToken(apiKey),
		openai.WithEmbeddingModel(modelName),
		openai.WithHTTPClient(&http.Client{Timeout: 30 * time.Second}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create LangchainGo OpenAI LLM client for embedder: %w", err)
	}
	embedder, err := embeddings.NewEmbedder(llm)
	if err != nil {
		return nil, fmt.Errorf("failed to create generic embedder from OpenAI LLM: %w", err)
	}
	return newService(embedder, config.ProviderOpenAI, modelName, c, ttl), nil
}

func NewOllama(serverURL, modelName string, c domain.Cache, ttl time.Duration) (*Service, error) {
	if serverURL == "" {
		return nil, fmt.Errorf("ollama server URL cannot be empty")
	}
	if modelName == "" {
		return nil, fmt.Errorf("ollama model name cannot be empty")
	}
	llm, err := ollama.New(
		ollama.WithModel(modelName),
		ollama.WithServerURL(serverURL),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create LangchainGo Ollama LLM client for embedder: %w", err)
	}
	embedder, err := embeddings.NewEmbedder(llm)
	if err != nil {
		return nil, fmt.Errorf("failed to create generic embedder from Ollama LLM: %w", err)
	}
	return newService(embedder, config.ProviderOllama, modelName, c, ttl), nil
}

func newService(embedder embeddings.Embedder, source, model string, c domain.Cache, ttl time.Duration) *Service {
	if c == nil {
		c = adapter.NoopCache{}
	}
	return &Service{embedder: embedder, source: source, model: model, cache: c, ttl: ttl}
}

// Generate returns the embedding for text, consulting the cache first.
func (s *Service) Generate(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("input text cannot be empty for embedding")
	}
	l := logger.Get()
	cacheKey := cache.GenerateCacheKey(cache.ServiceEmbedding, s.source, util.SHA256Hex(text), s.model)

	cached, err := s.cache.Get(ctx, cacheKey)
	switch {
	case err == nil:
		var vec []float32
		errDecode := gob.NewDecoder(bytes.NewReader([]byte(cached))).Decode(&vec)
		if errDecode == nil {
			return vec, nil
		}
		l.Warn("Failed to decode cached embedding", zap.String("cacheKey", cacheKey), zap.Error(errDecode))
	case !errors.Is(err, domain.ErrCacheMiss):
		l.Warn("Failed to read embedding cache", zap.String("cacheKey", cacheKey), zap.Error(err))
	}

	res, err, _ := s.sfGroup.Do(cacheKey, func() (interface{}, error) {
		vec, fetchErr := s.embedder.EmbedQuery(ctx, text)
		if fetchErr != nil {
			return nil, fmt.Errorf("failed to generate embedding using %s: %w", s.source, fetchErr)
		}
		if len(vec) == 0 {
			return nil, fmt.Errorf("received empty embedding from %s", s.source)
		}

		var buf bytes.Buffer
		if errEncode := gob.NewEncoder(&buf).Encode(vec); errEncode != nil {
			l.Warn("Failed to gob encode embedding for caching", zap.Error(errEncode))
			return vec, nil
		}
		if errSet := s.cache.Set(ctx, cacheKey, buf.String(), s.ttl); errSet != nil {
			l.Warn("Failed to cache embedding", zap.String("cacheKey", cacheKey), zap.Error(errSet))
		}
		return vec, nil
	})
	if err != nil {
		return nil, err
	}
	vec, ok := res.([]float32)
	if !ok {
		return nil, fmt.Errorf("unexpected type from singleflight.Do for embedding: %T", res)
	}
	return vec, nil
}
