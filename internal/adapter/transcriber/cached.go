package transcriber

import (
	"context"
	"errors"
	"time"

	"mcq-generator/internal/cache"
	"mcq-generator/internal/domain"
	"mcq-generator/internal/logger"
	"mcq-generator/internal/util"

	"go.uber.org/zap"
)

// Cached memoises transcripts by the SHA-256 of the audio bytes.
type Cached struct {
	next  domain.Transcriber
	cache domain.Cache
	ttl   time.Duration
}

var _ domain.Transcriber = (*Cached)(nil)

func NewCached(next domain.Transcriber, c domain.Cache, ttl time.Duration) *Cached {
	return &Cached{next: next, cache: c, ttl: ttl}
}

func (c *Cached) Transcribe(ctx context.Context, filename string, audio []byte) (string, error) {
	l := logger.Get()
	key := cache.GenerateCacheKey(cache.ServiceTranscript, "text", util.SHA256Bytes(audio))

	text, err := c.cache.Get(ctx, key)
	if err == nil && text != "" {
		l.Debug("Transcript cache hit", zap.String("cacheKey", key))
		return text, nil
	}
	if err != nil && !errors.Is(err, domain.ErrCacheMiss) {
		l.Warn("Failed to read transcript cache", zap.String("cacheKey", key), zap.Error(err))
	}

	text, err = c.next.Transcribe(ctx, filename, audio)
	if err != nil {
		return "", err
	}
	if err := c.cache.Set(ctx, key, text, c.ttl); err != nil {
		l.Warn("Failed to cache transcript", zap.String("cacheKey", key), zap.Error(err))
	}
	return text, nil
}
