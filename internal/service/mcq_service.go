package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"mcq-generator/internal/adapter"
	"mcq-generator/internal/adapter/transcriber"
	"mcq-generator/internal/cache"
	"mcq-generator/internal/domain"
	"mcq-generator/internal/logger"
	"mcq-generator/internal/util"
	"mcq-generator/internal/validation"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultListLimit = 20
	defaultQuizTTL   = 24 * time.Hour
)

// FileInput is an uploaded document.
type FileInput struct {
	Filename    string
	ContentType string
	Data        []byte
}

// AudioInput is a recorded or uploaded audio clip.
type AudioInput struct {
	Filename string
	Data     []byte
}

// MCQService defines the quiz generation operations exposed to the front-ends.
type MCQService interface {
	GenerateFromFile(ctx context.Context, in FileInput, p validation.Params) (*domain.GenerationResult, error)
	GenerateFromAudio(ctx context.Context, in AudioInput, p validation.Params) (*domain.GenerationResult, error)
	GenerateFromText(ctx context.Context, text string, p validation.Params) (*domain.GenerationResult, error)
	Transcribe(ctx context.Context, in AudioInput) (string, error)
	GetQuiz(ctx context.Context, id string) (*domain.GenerationResult, error)
	ListQuizzes(ctx context.Context, limit int) ([]*domain.GenerationResult, error)
}

// MCQDeps are the collaborators of the MCQ service. Embeddings may be nil,
// which disables duplicate-question removal.
type MCQDeps struct {
	Extractor   domain.TextExtractor
	Transcriber domain.Transcriber
	Generator   domain.QuizGenerator
	Embeddings  domain.EmbeddingService
	Repo        domain.QuizRepository
	Cache       domain.Cache
	Template    domain.TemplateProvider
	Validator   *validation.Validator
}

// MCQOptions tune caching, deduplication and audio limits.
type MCQOptions struct {
	QuizTTL             time.Duration
	SimilarityThreshold float64
	MaxAudioDuration    time.Duration
}

type mcqService struct {
	deps    MCQDeps
	opts    MCQOptions
	sfGroup singleflight.Group
}

// NewMCQService creates a new instance of MCQService.
func NewMCQService(deps MCQDeps, opts MCQOptions) (MCQService, error) {
	switch {
	case deps.Extractor == nil:
		return nil, errors.New("text extractor is required")
	case deps.Transcriber == nil:
		return nil, errors.New("transcriber is required")
	case deps.Generator == nil:
		return nil, errors.New("quiz generator is required")
	case deps.Repo == nil:
		return nil, errors.New("quiz repository is required")
	case deps.Template == nil:
		return nil, errors.New("template provider is required")
	case deps.Validator == nil:
		return nil, errors.New("validator is required")
	}
	if deps.Cache == nil {
		deps.Cache = adapter.NoopCache{}
	}
	if opts.QuizTTL <= 0 {
		opts.QuizTTL = defaultQuizTTL
	}
	return &mcqService{deps: deps, opts: opts}, nil
}

func (s *mcqService) GenerateFromFile(ctx context.Context, in FileInput, p validation.Params) (*domain.GenerationResult, error) {
	p, err := s.params(p)
	if err != nil {
		return nil, err
	}
	if len(in.Data) == 0 {
		return nil, domain.NewInvalidInputError("Please upload a PDF or text file.")
	}
	text, err := s.deps.Extractor.Extract(ctx, in.Filename, in.ContentType, in.Data)
	if err != nil {
		return nil, err
	}
	return s.generate(ctx, text, p, domain.SourceFile)
}

func (s *mcqService) GenerateFromAudio(ctx context.Context, in AudioInput, p validation.Params) (*domain.GenerationResult, error) {
	p, err := s.params(p)
	if err != nil {
		return nil, err
	}
	text, err := s.Transcribe(ctx, in)
	if err != nil {
		return nil, err
	}
	return s.generate(ctx, text, p, domain.SourceAudio)
}

func (s *mcqService) GenerateFromText(ctx context.Context, text string, p validation.Params) (*domain.GenerationResult, error) {
	p, err := s.params(p)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, domain.ValidationErrors{domain.NewMissingFieldError("text")}
	}
	return s.generate(ctx, text, p, domain.SourceText)
}

func (s *mcqService) Transcribe(ctx context.Context, in AudioInput) (string, error) {
	if err := transcriber.CheckClip(in.Filename, in.Data, s.opts.MaxAudioDuration); err != nil {
		return "", err
	}
	text, err := s.deps.Transcriber.Transcribe(ctx, in.Filename, in.Data)
	if err != nil {
		return "", err
	}
	logger.Get().Debug("Transcribed audio clip", zap.String("filename", in.Filename), zap.Int("chars", len(text)))
	return text, nil
}

func (s *mcqService) GetQuiz(ctx context.Context, id string) (*domain.GenerationResult, error) {
	if errs := s.deps.Validator.ValidateQuizID(id); len(errs) > 0 {
		return nil, errs
	}
	res, err := s.deps.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.NewInternalError("Failed to load quiz", err)
	}
	if res == nil {
		return nil, domain.NewQuizNotFoundError(id)
	}
	return res, nil
}

func (s *mcqService) ListQuizzes(ctx context.Context, limit int) ([]*domain.GenerationResult, error) {
	if limit == 0 {
		limit = DefaultListLimit
	}
	if errs := s.deps.Validator.ValidateListLimit(limit); len(errs) > 0 {
		return nil, errs
	}
	results, err := s.deps.Repo.ListRecent(ctx, limit)
	if err != nil {
		return nil, domain.NewInternalError("Failed to list quizzes", err)
	}
	return results, nil
}

func (s *mcqService) params(p validation.Params) (validation.Params, error) {
	p = s.deps.Validator.NormalizeParams(p)
	if errs := s.deps.Validator.ValidateParams(p); len(errs) > 0 {
		return p, errs
	}
	return p, nil
}

func (s *mcqService) generate(ctx context.Context, text string, p validation.Params, source domain.Source) (*domain.GenerationResult, error) {
	l := logger.Get()
	template := s.deps.Template.ResponseJSON()
	cacheKey := cache.GenerateCacheKey(cache.ServiceQuiz, "result",
		util.SHA256Hex(string(source), text, strconv.Itoa(p.Number), p.Subject, p.Tone, template))

	if cached, ok := s.lookup(ctx, cacheKey); ok {
		l.Info("Serving quiz from cache", zap.String("cacheKey", cacheKey), zap.String("id", cached.ID))
		return cached, nil
	}

	res, err, shared := s.sfGroup.Do(cacheKey, func() (interface{}, error) {
		req := domain.GenerationRequest{
			Text:    text,
			Number:  p.Number,
			Subject: p.Subject,
			Tone:    p.Tone,
			Source:  source,
		}
		result, genErr := s.deps.Generator.GenerateAndEvaluate(ctx, req, template)
		if genErr != nil {
			return nil, genErr
		}
		result.Quiz = s.dedupe(ctx, result.Quiz)
		result.ID = util.NewULID()
		if result.CreatedAt.IsZero() {
			result.CreatedAt = time.Now().UTC()
		}

		if saveErr := s.deps.Repo.Save(ctx, result); saveErr != nil {
			l.Error("Failed to persist quiz", zap.String("id", result.ID), zap.Error(saveErr))
		}
		s.store(ctx, cacheKey, result)
		return result, nil
	})
	if err != nil {
		l.Error("Quiz generation failed", zap.String("subject", p.Subject), zap.String("source", string(source)), zap.Error(err))
		return nil, err
	}
	result, ok := res.(*domain.GenerationResult)
	if !ok {
		return nil, domain.NewInternalError(fmt.Sprintf("unexpected type from singleflight.Do: %T", res), nil)
	}
	if shared {
		l.Debug("Shared in-flight quiz generation", zap.String("cacheKey", cacheKey))
	}
	return result, nil
}

func (s *mcqService) lookup(ctx context.Context, key string) (*domain.GenerationResult, bool) {
	raw, err := s.deps.Cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			logger.Get().Warn("Failed to read quiz cache", zap.String("cacheKey", key), zap.Error(err))
		}
		return nil, false
	}
	var res domain.GenerationResult
	if err := json.Unmarshal([]byte(raw), &res); err != nil {
		logger.Get().Warn("Failed to decode cached quiz", zap.String("cacheKey", key), zap.Error(err))
		return nil, false
	}
	return &res, true
}

func (s *mcqService) store(ctx context.Context, key string, res *domain.GenerationResult) {
	data, err := json.Marshal(res)
	if err != nil {
		logger.Get().Warn("Failed to encode quiz for caching", zap.Error(err))
		return
	}
	if err := s.deps.Cache.Set(ctx, key, string(data), s.opts.QuizTTL); err != nil {
		logger.Get().Warn("Failed to cache quiz", zap.String("cacheKey", key), zap.Error(err))
	}
}

// dedupe drops questions whose text embedding is too close to an earlier
// question. Any embedding failure leaves the quiz untouched.
func (s *mcqService) dedupe(ctx context.Context, quiz domain.Quiz) domain.Quiz {
	if s.deps.Embeddings == nil || s.opts.SimilarityThreshold <= 0 || len(quiz) < 2 {
		return quiz
	}
	l := logger.Get()

	type kept struct {
		key string
		vec []float32
	}
	var keep []kept
	dropped := 0
	for _, key := range quiz.Keys() {
		vec, err := s.deps.Embeddings.Generate(ctx, quiz[key].MCQ)
		if err != nil {
			l.Warn("Skipping duplicate removal, embedding failed", zap.String("question", key), zap.Error(err))
			return quiz
		}
		duplicate := false
		for _, k := range keep {
			sim, err := util.CosineSimilarity(vec, k.vec)
			if err != nil {
				l.Warn("Skipping duplicate removal, vectors not comparable", zap.Error(err))
				return quiz
			}
			if sim >= s.opts.SimilarityThreshold {
				l.Info("Dropping near-duplicate question",
					zap.String("question", key), zap.String("similarTo", k.key), zap.Float64("similarity", sim))
				duplicate = true
				break
			}
		}
		if duplicate {
			dropped++
			continue
		}
		keep = append(keep, kept{key: key, vec: vec})
	}
	if dropped == 0 {
		return quiz
	}

	out := make(domain.Quiz, len(keep))
	for _, k := range keep {
		out[k.key] = quiz[k.key]
	}
	return out.Renumber()
}
