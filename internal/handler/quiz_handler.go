package handler

import (
	"mcq-generator/internal/dto"
	"mcq-generator/internal/middleware"
	"mcq-generator/internal/service"

	"github.com/gofiber/fiber/v2"
)

// QuizHandler serves previously generated quizzes.
type QuizHandler struct {
	service service.MCQService
}

// NewQuizHandler creates a new QuizHandler instance
func NewQuizHandler(service service.MCQService) *QuizHandler {
	return &QuizHandler{service: service}
}

// GetQuiz godoc
// @Summary Get a generated quiz
// @Tags quizzes
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Quiz ID (ULID)"
// @Success 200 {object} dto.MCQResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /quizzes/{id} [get]
func (h *QuizHandler) GetQuiz(c *fiber.Ctx) error {
	id, _ := c.Locals(middleware.ValidatedQuizIDKey).(string)
	if id == "" {
		id = c.Params("id")
	}
	res, err := h.service.GetQuiz(c.UserContext(), id)
	if err != nil {
		return err
	}
	return respond(c, res)
}

// ListQuizzes godoc
// @Summary List recently generated quizzes
// @Tags quizzes
// @Produce json
// @Security ApiKeyAuth
// @Param limit query int false "Maximum number of quizzes (1-100)" default(20)
// @Success 200 {object} dto.QuizListResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Router /quizzes [get]
func (h *QuizHandler) ListQuizzes(c *fiber.Ctx) error {
	limit, _ := c.Locals(middleware.ValidatedLimitKey).(int)
	results, err := h.service.ListQuizzes(c.UserContext(), limit)
	if err != nil {
		return err
	}

	out := dto.QuizListResponse{Quizzes: make([]dto.MCQResponse, 0, len(results))}
	for _, res := range results {
		item, err := dto.NewMCQResponse(res)
		if err != nil {
			continue
		}
		out.Quizzes = append(out.Quizzes, item)
	}
	out.Count = len(out.Quizzes)
	return c.JSON(out)
}
