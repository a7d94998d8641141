package transcriber

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"mcq-generator/internal/config"
	"mcq-generator/internal/domain"
	"mcq-generator/internal/logger"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// audioClient is the part of the go-openai client used for transcription.
type audioClient interface {
	CreateTranscription(ctx context.Context, request openai.AudioRequest) (openai.AudioResponse, error)
}

// OpenAITranscriber calls the OpenAI audio transcription endpoint.
type OpenAITranscriber struct {
	client   audioClient
	model    string
	language string

	maxDuration time.Duration
}

var _ domain.Transcriber = (*OpenAITranscriber)(nil)

func NewOpenAITranscriber(cfg config.TranscriptionConfig) (*OpenAITranscriber, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai API key cannot be empty for transcription")
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if baseURL := strings.TrimRight(cfg.BaseURL, "/"); baseURL != "" {
		clientCfg.BaseURL = baseURL
	}
	clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	model := cfg.Model
	if model == "" {
		model = openai.Whisper1
	}
	return &OpenAITranscriber{
		client:   openai.NewClientWithConfig(clientCfg),
		model:    model,
		language: cfg.Language,

		maxDuration: cfg.MaxDuration,
	}, nil
}

func (t *OpenAITranscriber) Transcribe(ctx context.Context, filename string, audio []byte) (string, error) {
	if filename == "" {
		filename = "recording.wav"
	}

	start := time.Now()
	resp, err := t.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    t.model,
		FilePath: filepath.Base(filename),
		Reader:   bytes.NewReader(audio),
		Language: t.language,
		Format:   openai.AudioResponseFormatVerboseJSON,
	})
	if err != nil {
		var apiErr *openai.APIError
		switch {
		case errors.As(err, &apiErr):
			return "", domain.NewTranscriptionError("transcription service rejected the audio", err).
				WithContext("status", apiErr.HTTPStatusCode)
		case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
			return "", domain.NewTranscriptionError("transcription request timed out", err)
		default:
			return "", domain.NewTranscriptionError("transcription request failed", err)
		}
	}
	logger.Get().Debug("Transcription response received",
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("audio_bytes", len(audio)))

	// verbose_json reports the decoded length, which covers containers the
	// upload check cannot measure.
	if err := CheckDuration(time.Duration(resp.Duration*float64(time.Second)), t.maxDuration); err != nil {
		return "", err
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", errCouldNotUnderstand()
	}
	return text, nil
}

func errCouldNotUnderstand() *domain.DomainError {
	return domain.NewTranscriptionError("could not understand audio", nil)
}
