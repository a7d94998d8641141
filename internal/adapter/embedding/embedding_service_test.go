package embedding

import (
	"bytes"
	"context"
	"encoding/gob"
	"errors"
	"testing"
	"time"

	"mcq-generator/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockEmbedder struct {
	mock.Mock
}

func (m *MockEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	args := m.Called(ctx, texts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([][]float32), args.Error(1)
}

func (m *MockEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float32), args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockCache) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func gobEncode(t *testing.T, v []float32) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, gob.NewEncoder(&buf).Encode(v))
	return buf.String()
}

func TestService_Generate_CacheMiss(t *testing.T) {
	ctx := context.Background()
	emb := new(MockEmbedder)
	c := new(MockCache)
	svc := newService(emb, "openai", "text-embedding-ada-002", c, time.Hour)

	vec := []float32{0.1, 0.2, 0.3}
	c.On("Get", ctx, mock.AnythingOfType("string")).Return("", domain.ErrCacheMiss).Once()
	emb.On("EmbedQuery", ctx, "photosynthesis").Return(vec, nil).Once()
	c.On("Set", ctx, mock.AnythingOfType("string"), gobEncode(t, vec), time.Hour).Return(nil).Once()

	got, err := svc.Generate(ctx, "photosynthesis")
	require.NoError(t, err)
	assert.Equal(t, vec, got)
	emb.AssertExpectations(t)
	c.AssertExpectations(t)

	key := c.Calls[0].Arguments.String(1)
	assert.Contains(t, key, "mcqgen:embedding:openai:")
	assert.Contains(t, key, ":text-embedding-ada-002")
}

func TestService_Generate_CacheHit(t *testing.T) {
	ctx := context.Background()
	emb := new(MockEmbedder)
	c := new(MockCache)
	svc := newService(emb, "ollama", "nomic-embed-text", c, time.Hour)

	vec := []float32{1, 2}
	c.On("Get", ctx, mock.AnythingOfType("string")).Return(gobEncode(t, vec), nil).Once()

	got, err := svc.Generate(ctx, "cells")
	require.NoError(t, err)
	assert.Equal(t, vec, got)
	emb.AssertNotCalled(t, "EmbedQuery", mock.Anything, mock.Anything)
}

func TestService_Generate_CorruptCacheFallsBackToEmbedder(t *testing.T) {
	ctx := context.Background()
	emb := new(MockEmbedder)
	c := new(MockCache)
	svc := newService(emb, "openai", "m", c, time.Hour)

	vec := []float32{0.5}
	c.On("Get", ctx, mock.Anything).Return("not gob", nil).Once()
	emb.On("EmbedQuery", ctx, "atoms").Return(vec, nil).Once()
	c.On("Set", ctx, mock.Anything, mock.Anything, time.Hour).Return(errors.New("redis down")).Once()

	got, err := svc.Generate(ctx, "atoms")
	require.NoError(t, err)
	assert.Equal(t, vec, got)
}

func TestService_Generate_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("empty text", func(t *testing.T) {
		svc := newService(new(MockEmbedder), "openai", "m", nil, time.Hour)
		_, err := svc.Generate(ctx, "")
		assert.ErrorContains(t, err, "input text cannot be empty")
	})

	t.Run("embedder error", func(t *testing.T) {
		emb := new(MockEmbedder)
		emb.On("EmbedQuery", ctx, "x").Return(nil, errors.New("boom")).Once()
		svc := newService(emb, "ollama", "m", nil, time.Hour)
		_, err := svc.Generate(ctx, "x")
		assert.ErrorContains(t, err, "failed to generate embedding using ollama")
	})

	t.Run("empty vector", func(t *testing.T) {
		emb := new(MockEmbedder)
		emb.On("EmbedQuery", ctx, "x").Return([]float32{}, nil).Once()
		svc := newService(emb, "openai", "m", nil, time.Hour)
		_, err := svc.Generate(ctx, "x")
		assert.ErrorContains(t, err, "received empty embedding")
	})
}

func TestConstructors_Validation(t *testing.T) {
	_, err := NewOpenAI("", "m", nil, time.Hour)
	assert.ErrorContains(t, err, "API key cannot be empty")

	_, err = NewOllama("", "m", nil, time.Hour)
	assert.ErrorContains(t, err, "server URL cannot be empty")

	_, err = NewOllama("http://localhost:11434", "", nil, time.Hour)
	assert.ErrorContains(t, err, "model name cannot be empty")

	svc, err := NewOllama("http://localhost:11434", "nomic-embed-text", nil, time.Hour)
	require.NoError(t, err)
	assert.NotNil(t, svc)
}
