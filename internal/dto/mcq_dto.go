package dto

import (
	"time"

	"mcq-generator/internal/domain"
)

// GenerateTextRequest is the JSON body of POST /api/mcq/text.
type GenerateTextRequest struct {
	Text    string `json:"text" example:"Photosynthesis is the process..."`
	Number  int    `json:"number" example:"5"`
	Subject string `json:"subject" example:"biology"`
	Tone    string `json:"tone" example:"Simple"`
}

// UsageResponse reports the token counters of a generation.
type UsageResponse struct {
	PromptTokens     int     `json:"prompt_tokens"`
	CompletionTokens int     `json:"completion_tokens"`
	TotalTokens      int     `json:"total_tokens"`
	EstimatedCost    float64 `json:"estimated_cost"`
}

// QuizRowResponse is one question flattened for display.
type QuizRowResponse struct {
	Index   int    `json:"index"`
	MCQ     string `json:"mcq"`
	Choices string `json:"choices"`
	Correct string `json:"correct"`
}

// MCQResponse is returned by every generation and history endpoint.
type MCQResponse struct {
	ID        string            `json:"id"`
	Subject   string            `json:"subject"`
	Tone      string            `json:"tone"`
	Number    int               `json:"number"`
	Source    string            `json:"source"`
	Quiz      domain.Quiz       `json:"quiz"`
	Rows      []QuizRowResponse `json:"rows"`
	Review    string            `json:"review"`
	Usage     UsageResponse     `json:"usage"`
	CreatedAt time.Time         `json:"created_at"`
}

// QuizListResponse is returned by GET /api/quizzes.
type QuizListResponse struct {
	Quizzes []MCQResponse `json:"quizzes"`
	Count   int           `json:"count"`
}

// TranscriptResponse is returned by POST /api/transcribe.
type TranscriptResponse struct {
	Text string `json:"text"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status string `json:"status"`
	Cache  string `json:"cache"`
}

// NewMCQResponse flattens a generation result. A quiz that cannot be laid out
// as rows is reported as domain.ErrInvalidTableData.
func NewMCQResponse(res *domain.GenerationResult) (MCQResponse, error) {
	rows, err := res.Quiz.Rows()
	if err != nil {
		return MCQResponse{}, err
	}
	out := MCQResponse{
		ID:      res.ID,
		Subject: res.Subject,
		Tone:    res.Tone,
		Number:  res.Number,
		Source:  string(res.Source),
		Quiz:    res.Quiz,
		Rows:    make([]QuizRowResponse, 0, len(rows)),
		Review:  res.Review,
		Usage: UsageResponse{
			PromptTokens:     res.Usage.PromptTokens,
			CompletionTokens: res.Usage.CompletionTokens,
			TotalTokens:      res.Usage.TotalTokens,
			EstimatedCost:    res.Usage.EstimatedCost,
		},
		CreatedAt: res.CreatedAt,
	}
	for _, r := range rows {
		out.Rows = append(out.Rows, QuizRowResponse{Index: r.Index, MCQ: r.MCQ, Choices: r.Choices, Correct: r.Correct})
	}
	return out, nil
}
