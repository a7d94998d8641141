package domain

import "context"

// Completion is the text an LLM returned together with its token counters.
type Completion struct {
	Text  string
	Usage TokenUsage
}

// LLMClient sends a single prompt to a hosted language model.
type LLMClient interface {
	Generate(ctx context.Context, prompt string) (*Completion, error)
}

// QuizGenerator builds the quiz prompt, calls the model and parses the quiz.
type QuizGenerator interface {
	GenerateAndEvaluate(ctx context.Context, req GenerationRequest, responseJSON string) (*GenerationResult, error)
}

// TextExtractor turns an uploaded document into plain text.
type TextExtractor interface {
	Extract(ctx context.Context, filename, contentType string, data []byte) (string, error)
}

// Transcriber converts an audio clip into text.
type Transcriber interface {
	Transcribe(ctx context.Context, filename string, audio []byte) (string, error)
}

// EmbeddingService produces vector embeddings for text.
type EmbeddingService interface {
	Generate(ctx context.Context, text string) ([]float32, error)
}

// TemplateProvider exposes the JSON document describing the expected quiz shape.
type TemplateProvider interface {
	ResponseJSON() string
}

// QuizRepository persists generated quizzes.
type QuizRepository interface {
	Save(ctx context.Context, result *GenerationResult) error
	// GetByID returns nil, nil when no quiz has the given id.
	GetByID(ctx context.Context, id string) (*GenerationResult, error)
	ListRecent(ctx context.Context, limit int) ([]*GenerationResult, error)
}
