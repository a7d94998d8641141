package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("ENV", "")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("ACCESS_KEY", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 8090, cfg.Server.Port)
	assert.Equal(t, 60*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "sk-test", cfg.LLM.APIKey)
	assert.Equal(t, "sk-test", cfg.Transcription.APIKey)
	assert.Equal(t, "Test@123", cfg.Auth.AccessKey)
	assert.NotEmpty(t, cfg.Auth.JWTSecret)
	assert.Equal(t, 3, cfg.Quiz.MinQuestions)
	assert.Equal(t, 50, cfg.Quiz.MaxQuestions)
	assert.Equal(t, 15*time.Second, cfg.Transcription.MaxDuration)
	assert.Equal(t, "sqlite3", cfg.DB.Driver)
}

func TestLoadConfig_GeneratesRandomJWTSecret(t *testing.T) {
	t.Setenv("ENV", "")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("AUTH_JWT_SECRET", "")

	first, err := LoadConfig()
	require.NoError(t, err)
	second, err := LoadConfig()
	require.NoError(t, err)

	assert.Regexp(t, `^[0-9a-f]{64}$`, first.Auth.JWTSecret)
	assert.NotContains(t, first.Auth.JWTSecret, first.Auth.AccessKey)
	assert.NotEqual(t, first.Auth.JWTSecret, second.Auth.JWTSecret)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("ENV", "")
	t.Setenv("ACCESS_KEY", "s3cret")
	t.Setenv("REDIS_ADDRESS", "localhost:6380")
	t.Setenv("LLM_PROVIDER", "ollama")
	t.Setenv("LLM_MODEL", "llama3")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.Auth.AccessKey)
	assert.Equal(t, "localhost:6380", cfg.Redis.Address)
	assert.Equal(t, "ollama", cfg.LLM.Provider)
	assert.Equal(t, "llama3", cfg.LLM.Model)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			LLM:           LLMConfig{Provider: "openai"},
			Transcription: TranscriptionConfig{Provider: "whisper_cli"},
			Quiz:          QuizConfig{MinQuestions: 3, MaxQuestions: 50},
			Embedding:     EmbeddingConfig{SimilarityThreshold: 0.9},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid config", mutate: func(c *Config) {}},
		{name: "unknown llm provider", mutate: func(c *Config) { c.LLM.Provider = "anthropic-x" }, wantErr: true},
		{name: "unknown transcription provider", mutate: func(c *Config) { c.Transcription.Provider = "google" }, wantErr: true},
		{name: "max below min", mutate: func(c *Config) { c.Quiz.MaxQuestions = 2 }, wantErr: true},
		{name: "unknown embedding source", mutate: func(c *Config) { c.Embedding.Enabled = true; c.Embedding.Source = "cohere" }, wantErr: true},
		{name: "ollama embeddings", mutate: func(c *Config) { c.Embedding.Enabled = true; c.Embedding.Source = "ollama" }},
		{name: "threshold out of range", mutate: func(c *Config) { c.Embedding.SimilarityThreshold = 1.5 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate_DefaultsBatchConcurrency(t *testing.T) {
	cfg := Config{
		LLM:           LLMConfig{Provider: "gemini"},
		Transcription: TranscriptionConfig{Provider: "openai"},
		Quiz:          QuizConfig{MinQuestions: 1, MaxQuestions: 1},
		Embedding:     EmbeddingConfig{SimilarityThreshold: 1},
	}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 1, cfg.Batch.Concurrency)
}

func TestParseTTLStringOrDefault(t *testing.T) {
	cfg := &Config{}
	def := 5 * time.Minute

	assert.Equal(t, def, cfg.ParseTTLStringOrDefault("", def))
	assert.Equal(t, def, cfg.ParseTTLStringOrDefault("not-a-duration", def))
	assert.Equal(t, def, cfg.ParseTTLStringOrDefault("-1h", def))
	assert.Equal(t, 2*time.Hour, cfg.ParseTTLStringOrDefault("2h", def))
}
