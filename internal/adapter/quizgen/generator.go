package quizgen

import (
	"context"
	"encoding/json"
	"time"

	"mcq-generator/internal/domain"
	"mcq-generator/internal/logger"

	"github.com/tmc/langchaingo/prompts"
	"go.uber.org/zap"
)

// Generator asks the model for a quiz and then for a review of that quiz.
type Generator struct {
	llm          domain.LLMClient
	quizPrompt   prompts.PromptTemplate
	reviewPrompt prompts.PromptTemplate
	now          func() time.Time
}

var _ domain.QuizGenerator = (*Generator)(nil)

func NewGenerator(llm domain.LLMClient) *Generator {
	return &Generator{
		llm:          llm,
		quizPrompt:   newQuizPrompt(),
		reviewPrompt: newReviewPrompt(),
		now:          time.Now,
	}
}

// GenerateAndEvaluate runs both prompts. A failed review is logged and leaves
// Review empty; the quiz itself is still returned.
func (g *Generator) GenerateAndEvaluate(ctx context.Context, req domain.GenerationRequest, responseJSON string) (*domain.GenerationResult, error) {
	l := logger.Get().With(zap.String("subject", req.Subject), zap.Int("number", req.Number))

	quizPrompt, err := g.quizPrompt.Format(map[string]any{
		"text":          req.Text,
		"number":        req.Number,
		"subject":       req.Subject,
		"tone":          req.Tone,
		"response_json": responseJSON,
	})
	if err != nil {
		return nil, domain.NewInternalError("failed to build quiz prompt", err)
	}

	completion, err := g.llm.Generate(ctx, quizPrompt)
	if err != nil {
		return nil, err
	}
	usage := completion.Usage

	quiz, err := ParseQuiz(completion.Text)
	if err != nil {
		l.Error("Failed to parse quiz from LLM response", zap.Error(err), zap.String("raw_response", completion.Text))
		return nil, err
	}
	switch {
	case len(quiz) > req.Number:
		l.Info("LLM returned extra questions, trimming", zap.Int("returned", len(quiz)))
		quiz = quiz.Truncate(req.Number)
	case len(quiz) < req.Number:
		l.Warn("LLM returned fewer questions than requested", zap.Int("returned", len(quiz)))
	}

	review := g.review(ctx, l, req.Subject, quiz, &usage)

	l.Info("Quiz generated",
		zap.Int("questions", len(quiz)),
		zap.Int("total_tokens", usage.TotalTokens),
		zap.Int("prompt_tokens", usage.PromptTokens),
		zap.Int("completion_tokens", usage.CompletionTokens),
		zap.Float64("total_cost", usage.EstimatedCost))

	return &domain.GenerationResult{
		Quiz:      quiz,
		Review:    review,
		Usage:     usage,
		Subject:   req.Subject,
		Tone:      req.Tone,
		Number:    req.Number,
		Source:    req.Source,
		CreatedAt: g.now().UTC(),
	}, nil
}

func (g *Generator) review(ctx context.Context, l *zap.Logger, subject string, quiz domain.Quiz, usage *domain.TokenUsage) string {
	quizJSON, err := json.Marshal(quiz)
	if err != nil {
		l.Warn("Failed to marshal quiz for review", zap.Error(err))
		return ""
	}
	prompt, err := g.reviewPrompt.Format(map[string]any{"subject": subject, "quiz": string(quizJSON)})
	if err != nil {
		l.Warn("Failed to build review prompt", zap.Error(err))
		return ""
	}
	completion, err := g.llm.Generate(ctx, prompt)
	if err != nil {
		l.Warn("Quiz review failed, returning quiz without review", zap.Error(err))
		return ""
	}
	usage.Add(completion.Usage)
	return completion.Text
}
