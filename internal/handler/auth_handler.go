package handler

import (
	"mcq-generator/internal/domain"
	"mcq-generator/internal/dto"
	"mcq-generator/internal/logger"
	"mcq-generator/internal/service"
	"mcq-generator/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type AuthHandler struct {
	authService service.AuthService
	validator   *validation.Validator
}

func NewAuthHandler(authService service.AuthService, validator *validation.Validator) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validator:   validator,
	}
}

// IssueToken exchanges the shared access key for a bearer token.
// @Summary Issue an access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.TokenRequest true "Access key"
// @Success 200 {object} dto.TokenResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Router /auth/token [post]
func (h *AuthHandler) IssueToken(c *fiber.Ctx) error {
	var req dto.TokenRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("Invalid request body")
	}
	if errs := h.validator.ValidateAccessKey(req.AccessKey); len(errs) > 0 {
		return errs
	}

	token, expiresAt, err := h.authService.IssueToken(c.UserContext(), req.AccessKey)
	if err != nil {
		return err
	}
	logger.Get().Info("Issued access token", zap.Time("expiresAt", expiresAt), zap.String("ip", c.IP()))
	return c.JSON(dto.TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
	})
}
