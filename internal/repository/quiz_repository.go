package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"mcq-generator/internal/domain"
	"mcq-generator/internal/repository/models"

	"github.com/jmoiron/sqlx"
)

const quizColumns = `id, subject, tone, number, source, quiz_json, review,
	prompt_tokens, completion_tokens, total_tokens, estimated_cost, created_at`

// QuizRepository implements domain.QuizRepository using sqlx.
type QuizRepository struct {
	db *sqlx.DB
}

var _ domain.QuizRepository = (*QuizRepository)(nil)

func NewQuizRepository(db *sqlx.DB) *QuizRepository {
	return &QuizRepository{db: db}
}

func (r *QuizRepository) Save(ctx context.Context, result *domain.GenerationResult) error {
	row, err := toModel(result)
	if err != nil {
		return err
	}
	query := `INSERT INTO quiz_generations (` + quizColumns + `)
	          VALUES (:id, :subject, :tone, :number, :source, :quiz_json, :review,
	                  :prompt_tokens, :completion_tokens, :total_tokens, :estimated_cost, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("failed to save quiz generation %s: %w", result.ID, err)
	}
	return nil
}

// GetByID returns nil, nil when no row matches.
func (r *QuizRepository) GetByID(ctx context.Context, id string) (*domain.GenerationResult, error) {
	var row models.QuizGeneration
	query := `SELECT ` + quizColumns + ` FROM quiz_generations WHERE id = ?`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get quiz generation %s: %w", id, err)
	}
	return toDomain(&row)
}

// ListRecent returns up to limit generations, newest first.
func (r *QuizRepository) ListRecent(ctx context.Context, limit int) ([]*domain.GenerationResult, error) {
	var rows []models.QuizGeneration
	query := `SELECT ` + quizColumns + ` FROM quiz_generations ORDER BY created_at DESC, id DESC LIMIT ?`
	if err := r.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list quiz generations: %w", err)
	}
	results := make([]*domain.GenerationResult, 0, len(rows))
	for i := range rows {
		res, err := toDomain(&rows[i])
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

func toModel(res *domain.GenerationResult) (*models.QuizGeneration, error) {
	if res == nil {
		return nil, errors.New("nil generation result")
	}
	quizJSON, err := json.Marshal(res.Quiz)
	if err != nil {
		return nil, fmt.Errorf("failed to encode quiz: %w", err)
	}
	return &models.QuizGeneration{
		ID:               res.ID,
		Subject:          res.Subject,
		Tone:             res.Tone,
		Number:           res.Number,
		Source:           string(res.Source),
		QuizJSON:         string(quizJSON),
		Review:           res.Review,
		PromptTokens:     res.Usage.PromptTokens,
		CompletionTokens: res.Usage.CompletionTokens,
		TotalTokens:      res.Usage.TotalTokens,
		EstimatedCost:    res.Usage.EstimatedCost,
		CreatedAt:        res.CreatedAt.UTC(),
	}, nil
}

func toDomain(row *models.QuizGeneration) (*domain.GenerationResult, error) {
	var quiz domain.Quiz
	if err := json.Unmarshal([]byte(row.QuizJSON), &quiz); err != nil {
		return nil, fmt.Errorf("failed to decode stored quiz %s: %w", row.ID, err)
	}
	return &domain.GenerationResult{
		ID:     row.ID,
		Quiz:   quiz,
		Review: row.Review,
		Usage: domain.TokenUsage{
			PromptTokens:     row.PromptTokens,
			CompletionTokens: row.CompletionTokens,
			TotalTokens:      row.TotalTokens,
			EstimatedCost:    row.EstimatedCost,
		},
		Subject:   row.Subject,
		Tone:      row.Tone,
		Number:    row.Number,
		Source:    domain.Source(row.Source),
		CreatedAt: row.CreatedAt.UTC(),
	}, nil
}
