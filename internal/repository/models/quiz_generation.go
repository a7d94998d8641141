package models

import "time"

// QuizGeneration is the quiz_generations row.
type QuizGeneration struct {
	ID               string    `db:"id"`
	Subject          string    `db:"subject"`
	Tone             string    `db:"tone"`
	Number           int       `db:"number"`
	Source           string    `db:"source"`
	QuizJSON         string    `db:"quiz_json"`
	Review           string    `db:"review"`
	PromptTokens     int       `db:"prompt_tokens"`
	CompletionTokens int       `db:"completion_tokens"`
	TotalTokens      int       `db:"total_tokens"`
	EstimatedCost    float64   `db:"estimated_cost"`
	CreatedAt        time.Time `db:"created_at"`
}
