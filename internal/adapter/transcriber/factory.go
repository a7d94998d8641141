package transcriber

import (
	"fmt"
	"time"

	"mcq-generator/internal/config"
	"mcq-generator/internal/domain"
	"mcq-generator/pkg/executor"
)

const defaultTranscriptTTL = 24 * time.Hour

// New builds the configured transcriber wrapped in the transcript cache.
func New(cfg *config.Config, c domain.Cache) (domain.Transcriber, error) {
	var (
		base domain.Transcriber
		err  error
	)
	switch cfg.Transcription.Provider {
	case config.ProviderOpenAI:
		base, err = NewOpenAITranscriber(cfg.Transcription)
	case config.ProviderWhisperCLI:
		base, err = NewWhisperCLITranscriber(cfg.Transcription, executor.New())
	default:
		return nil, fmt.Errorf("unsupported transcription provider %q", cfg.Transcription.Provider)
	}
	if err != nil {
		return nil, err
	}
	ttl := cfg.ParseTTLStringOrDefault(cfg.CacheTTLs.Transcript, defaultTranscriptTTL)
	return NewCached(base, c, ttl), nil
}
