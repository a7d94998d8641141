// Package app wires the adapters and services shared by every front-end
// (HTTP API, batch CLI, Telegram bot).
package app

import (
	"context"
	"fmt"
	"time"

	"mcq-generator/internal/adapter"
	"mcq-generator/internal/adapter/embedding"
	"mcq-generator/internal/adapter/extractor"
	"mcq-generator/internal/adapter/llm"
	"mcq-generator/internal/adapter/quizgen"
	"mcq-generator/internal/adapter/transcriber"
	"mcq-generator/internal/cache"
	"mcq-generator/internal/config"
	"mcq-generator/internal/database"
	"mcq-generator/internal/domain"
	"mcq-generator/internal/logger"
	"mcq-generator/internal/repository"
	"mcq-generator/internal/service"
	"mcq-generator/internal/template"
	"mcq-generator/internal/validation"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const defaultQuizTTL = 24 * time.Hour

// Components holds everything a front-end needs. Close releases the
// database and cache connections.
type Components struct {
	Config    *config.Config
	Cache     domain.Cache
	DB        *sqlx.DB
	Template  *template.Store
	Validator *validation.Validator
	MCQ       service.MCQService
	Auth      service.AuthService

	redisClient *redis.Client
}

// Build connects the storage layers, runs migrations and assembles the services.
func Build(ctx context.Context, cfg *config.Config) (*Components, error) {
	appLogger := logger.Get()
	c := &Components{Config: cfg}

	c.Cache = adapter.NoopCache{}
	if cfg.Redis.Address != "" {
		redisClient, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			return nil, err
		}
		c.redisClient = redisClient
		c.Cache = adapter.NewRedisCacheAdapter(redisClient)
		appLogger.Info("Successfully connected to Redis", zap.String("address", cfg.Redis.Address))
	} else {
		appLogger.Warn("Redis cache is not configured. Running without cache.")
	}

	db, err := database.NewSQLiteDB(cfg.DB)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.DB = db
	if err := database.RunMigrations(db.DB); err != nil {
		c.Close()
		return nil, err
	}

	c.Template, err = template.Load(cfg.Quiz.TemplatePath)
	if err != nil {
		c.Close()
		return nil, err
	}

	llmClient, err := llm.New(ctx, cfg.LLM)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	appLogger.Info("LLM client initialized", zap.String("provider", cfg.LLM.Provider), zap.String("model", cfg.LLM.Model))

	trans, err := transcriber.New(cfg, c.Cache)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to create transcriber: %w", err)
	}

	var embeddings domain.EmbeddingService
	if cfg.Embedding.Enabled {
		svc, err := embedding.New(cfg, c.Cache)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("failed to create embedding service: %w", err)
		}
		embeddings = svc
		appLogger.Info("Embedding service initialized", zap.String("source", cfg.Embedding.Source), zap.String("model", cfg.Embedding.Model))
	}

	c.Validator = validation.NewValidator(cfg.Quiz)
	c.MCQ, err = service.NewMCQService(service.MCQDeps{
		Extractor:   extractor.New(cfg.Quiz.MaxTextChars),
		Transcriber: trans,
		Generator:   quizgen.NewGenerator(llmClient),
		Embeddings:  embeddings,
		Repo:        repository.NewQuizRepository(db),
		Cache:       c.Cache,
		Template:    c.Template,
		Validator:   c.Validator,
	}, service.MCQOptions{
		QuizTTL:             cfg.ParseTTLStringOrDefault(cfg.CacheTTLs.Quiz, defaultQuizTTL),
		SimilarityThreshold: cfg.Embedding.SimilarityThreshold,
		MaxAudioDuration:    cfg.Transcription.MaxDuration,
	})
	if err != nil {
		c.Close()
		return nil, err
	}

	c.Auth, err = service.NewAuthService(cfg.Auth)
	if err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

// Close releases the connections opened by Build.
func (c *Components) Close() {
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			logger.Get().Warn("Failed to close database", zap.Error(err))
		}
	}
	if c.redisClient != nil {
		if err := c.redisClient.Close(); err != nil {
			logger.Get().Warn("Failed to close Redis client", zap.Error(err))
		}
	}
}
