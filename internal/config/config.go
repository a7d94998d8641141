package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	ProviderOpenAI     = "openai"
	ProviderOllama     = "ollama"
	ProviderGemini     = "gemini"
	ProviderWhisperCLI = "whisper_cli"
)

type Config struct {
	Server        ServerConfig
	Logger        LoggerConfig
	Auth          AuthConfig
	LLM           LLMConfig
	Embedding     EmbeddingConfig
	Transcription TranscriptionConfig
	Quiz          QuizConfig
	DB            DBConfig
	Redis         RedisConfig
	CacheTTLs     CacheTTLConfig
	Batch         BatchConfig
	Telegram      TelegramConfig
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	BodyLimit    int
}

type LoggerConfig struct {
	Level string `yaml:"level"`
	Env   string `yaml:"env"`
}

type AuthConfig struct {
	AccessKey string        `yaml:"access_key"`
	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
}

type LLMConfig struct {
	Provider            string
	Model               string
	APIKey              string
	BaseURL             string
	Temperature         float64
	Timeout             time.Duration
	PromptCostPer1K     float64
	CompletionCostPer1K float64
}

type EmbeddingConfig struct {
	Enabled             bool
	Source              string
	Model               string
	ServerURL           string
	APIKey              string
	SimilarityThreshold float64
}

type TranscriptionConfig struct {
	Provider    string
	Model       string
	APIKey      string
	BaseURL     string
	BinaryPath  string
	ModelPath   string
	FFmpegPath  string
	Language    string
	MaxDuration time.Duration
	Timeout     time.Duration
}

type QuizConfig struct {
	TemplatePath  string
	MinQuestions  int
	MaxQuestions  int
	MaxSubjectLen int
	MaxToneLen    int
	MaxTextChars  int
}

type DBConfig struct {
	Driver string
	DSN    string
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// CacheTTLConfig holds TTLs as duration strings ("24h", "30m").
type CacheTTLConfig struct {
	Quiz       string
	Transcript string
	Embedding  string
}

type BatchConfig struct {
	Concurrency int
}

type TelegramConfig struct {
	Token string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8090)
	v.SetDefault("server.read_timeout", 60)
	v.SetDefault("server.write_timeout", 60)
	v.SetDefault("server.idle_timeout", 20)
	v.SetDefault("server.body_limit", 10*1024*1024)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.env", "development")

	v.SetDefault("auth.access_key", "Test@123")
	v.SetDefault("auth.token_ttl", "12h")

	v.SetDefault("llm.provider", "openai")
	v.SetDefault("llm.model", "gpt-3.5-turbo")
	v.SetDefault("llm.temperature", 0.5)
	v.SetDefault("llm.timeout", "90s")
	v.SetDefault("llm.prompt_cost_per_1k", 0.0015)
	v.SetDefault("llm.completion_cost_per_1k", 0.002)

	v.SetDefault("embedding.enabled", false)
	v.SetDefault("embedding.source", "openai")
	v.SetDefault("embedding.model", "text-embedding-ada-002")
	v.SetDefault("embedding.server_url", "http://localhost:11434")
	v.SetDefault("embedding.similarity_threshold", 0.92)

	v.SetDefault("transcription.provider", "openai")
	v.SetDefault("transcription.model", "whisper-1")
	v.SetDefault("transcription.base_url", "https://api.openai.com/v1")
	v.SetDefault("transcription.binary_path", "whisper-cli")
	v.SetDefault("transcription.ffmpeg_path", "ffmpeg")
	v.SetDefault("transcription.language", "en")
	v.SetDefault("transcription.max_duration", "15s")
	v.SetDefault("transcription.timeout", "60s")

	v.SetDefault("quiz.template_path", "Response.json")
	v.SetDefault("quiz.min_questions", 3)
	v.SetDefault("quiz.max_questions", 50)
	v.SetDefault("quiz.max_subject_len", 20)
	v.SetDefault("quiz.max_tone_len", 20)
	v.SetDefault("quiz.max_text_chars", 60000)

	v.SetDefault("db.driver", "sqlite3")
	v.SetDefault("db.dsn", "mcq.db")

	v.SetDefault("cache_ttls.quiz", "24h")
	v.SetDefault("cache_ttls.transcript", "24h")
	v.SetDefault("cache_ttls.embedding", "168h")

	v.SetDefault("batch.concurrency", 4)
}

func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// Add config paths based on environment
	if os.Getenv("ENV") == "test" {
		v.AddConfigPath("../../config")
		v.AddConfigPath("../../")
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		fmt.Println("No config file found, using defaults and environment")
	} else if configFile := v.ConfigFileUsed(); configFile != "" {
		absPath, _ := filepath.Abs(configFile)
		fmt.Printf("Using config file: %s\n", absPath)
	}

	config := &Config{
		Server: ServerConfig{
			Port:         v.GetInt("server.port"),
			ReadTimeout:  time.Duration(v.GetInt("server.read_timeout")) * time.Second,
			WriteTimeout: time.Duration(v.GetInt("server.write_timeout")) * time.Second,
			IdleTimeout:  time.Duration(v.GetInt("server.idle_timeout")) * time.Second,
			BodyLimit:    v.GetInt("server.body_limit"),
		},
		Logger: LoggerConfig{
			Level: v.GetString("logger.level"),
			Env:   v.GetString("logger.env"),
		},
		Auth: AuthConfig{
			AccessKey: v.GetString("auth.access_key"),
			JWTSecret: v.GetString("auth.jwt_secret"),
			TokenTTL:  v.GetDuration("auth.token_ttl"),
		},
		LLM: LLMConfig{
			Provider:            strings.ToLower(v.GetString("llm.provider")),
			Model:               v.GetString("llm.model"),
			APIKey:              v.GetString("llm.api_key"),
			BaseURL:             v.GetString("llm.base_url"),
			Temperature:         v.GetFloat64("llm.temperature"),
			Timeout:             v.GetDuration("llm.timeout"),
			PromptCostPer1K:     v.GetFloat64("llm.prompt_cost_per_1k"),
			CompletionCostPer1K: v.GetFloat64("llm.completion_cost_per_1k"),
		},
		Embedding: EmbeddingConfig{
			Enabled:             v.GetBool("embedding.enabled"),
			Source:              strings.ToLower(v.GetString("embedding.source")),
			Model:               v.GetString("embedding.model"),
			ServerURL:           v.GetString("embedding.server_url"),
			APIKey:              v.GetString("embedding.api_key"),
			SimilarityThreshold: v.GetFloat64("embedding.similarity_threshold"),
		},
		Transcription: TranscriptionConfig{
			Provider:    strings.ToLower(v.GetString("transcription.provider")),
			Model:       v.GetString("transcription.model"),
			APIKey:      v.GetString("transcription.api_key"),
			BaseURL:     v.GetString("transcription.base_url"),
			BinaryPath:  v.GetString("transcription.binary_path"),
			FFmpegPath:  v.GetString("transcription.ffmpeg_path"),
			ModelPath:   v.GetString("transcription.model_path"),
			Language:    v.GetString("transcription.language"),
			MaxDuration: v.GetDuration("transcription.max_duration"),
			Timeout:     v.GetDuration("transcription.timeout"),
		},
		Quiz: QuizConfig{
			TemplatePath:  v.GetString("quiz.template_path"),
			MinQuestions:  v.GetInt("quiz.min_questions"),
			MaxQuestions:  v.GetInt("quiz.max_questions"),
			MaxSubjectLen: v.GetInt("quiz.max_subject_len"),
			MaxToneLen:    v.GetInt("quiz.max_tone_len"),
			MaxTextChars:  v.GetInt("quiz.max_text_chars"),
		},
		DB: DBConfig{
			Driver: v.GetString("db.driver"),
			DSN:    v.GetString("db.dsn"),
		},
		Redis: RedisConfig{
			Address:  v.GetString("redis.address"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		CacheTTLs: CacheTTLConfig{
			Quiz:       v.GetString("cache_ttls.quiz"),
			Transcript: v.GetString("cache_ttls.transcript"),
			Embedding:  v.GetString("cache_ttls.embedding"),
		},
		Batch: BatchConfig{
			Concurrency: v.GetInt("batch.concurrency"),
		},
		Telegram: TelegramConfig{
			Token: v.GetString("telegram.token"),
		},
	}

	// Override with environment variables if set
	if openAIKey := os.Getenv("OPENAI_API_KEY"); openAIKey != "" {
		if config.LLM.APIKey == "" {
			config.LLM.APIKey = openAIKey
		}
		if config.Embedding.APIKey == "" {
			config.Embedding.APIKey = openAIKey
		}
		if config.Transcription.APIKey == "" {
			config.Transcription.APIKey = openAIKey
		}
	}
	if geminiKey := os.Getenv("GEMINI_API_KEY"); geminiKey != "" && config.LLM.Provider == ProviderGemini && config.LLM.APIKey == "" {
		config.LLM.APIKey = geminiKey
	}
	if accessKey := os.Getenv("ACCESS_KEY"); accessKey != "" {
		config.Auth.AccessKey = accessKey
	}
	if redisAddress := os.Getenv("REDIS_ADDRESS"); redisAddress != "" {
		config.Redis.Address = redisAddress
	}
	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		config.Redis.Password = redisPassword
	}
	if token := os.Getenv("TELEGRAM_TOKEN"); token != "" {
		config.Telegram.Token = token
	}
	if config.LLM.Provider == ProviderOllama && config.LLM.BaseURL == "" {
		config.LLM.BaseURL = config.Embedding.ServerURL
	}
	if config.Auth.JWTSecret == "" {
		// Tokens then only survive for the lifetime of the process.
		secret, err := randomSecret()
		if err != nil {
			return nil, err
		}
		config.Auth.JWTSecret = secret
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// randomSecret returns 32 random bytes, hex-encoded.
func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate jwt secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// Validate checks the semantic constraints that viper cannot express.
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case ProviderOpenAI, ProviderOllama, ProviderGemini:
	default:
		return fmt.Errorf("unsupported llm.provider: %q", c.LLM.Provider)
	}
	switch c.Transcription.Provider {
	case ProviderOpenAI, ProviderWhisperCLI:
	default:
		return fmt.Errorf("unsupported transcription.provider: %q", c.Transcription.Provider)
	}
	if c.Embedding.Enabled && c.Embedding.Source != ProviderOpenAI && c.Embedding.Source != ProviderOllama {
		return fmt.Errorf("unsupported embedding.source: %q", c.Embedding.Source)
	}
	if c.Quiz.MinQuestions <= 0 || c.Quiz.MaxQuestions < c.Quiz.MinQuestions {
		return fmt.Errorf("invalid question bounds: min=%d max=%d", c.Quiz.MinQuestions, c.Quiz.MaxQuestions)
	}
	if c.Embedding.SimilarityThreshold <= 0 || c.Embedding.SimilarityThreshold > 1 {
		return fmt.Errorf("embedding.similarity_threshold must be in (0,1], got %v", c.Embedding.SimilarityThreshold)
	}
	if c.Batch.Concurrency <= 0 {
		c.Batch.Concurrency = 1
	}
	return nil
}

// ParseTTLStringOrDefault parses a duration string such as "24h" and returns
// defaultTTL when the string is empty or malformed.
func (c *Config) ParseTTLStringOrDefault(ttlString string, defaultTTL time.Duration) time.Duration {
	if ttlString == "" {
		return defaultTTL
	}
	d, err := time.ParseDuration(ttlString)
	if err != nil || d <= 0 {
		return defaultTTL
	}
	return d
}
