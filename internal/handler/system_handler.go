package handler

import (
	"context"
	_ "embed"
	"time"

	"mcq-generator/internal/domain"
	"mcq-generator/internal/dto"
	"mcq-generator/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

//go:embed web/index.html
var indexHTML []byte

// SystemHandler serves the web UI, the response template and health checks.
type SystemHandler struct {
	template domain.TemplateProvider
	cache    domain.Cache
}

func NewSystemHandler(template domain.TemplateProvider, cache domain.Cache) *SystemHandler {
	return &SystemHandler{template: template, cache: cache}
}

// Index serves the single-page UI.
func (h *SystemHandler) Index(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(indexHTML)
}

// Template godoc
// @Summary Current response template
// @Description Returns the JSON document that describes the expected quiz shape
// @Tags system
// @Produce json
// @Success 200 {object} domain.Quiz
// @Router /template [get]
func (h *SystemHandler) Template(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
	return c.SendString(h.template.ResponseJSON())
}

// Health godoc
// @Summary Health check
// @Tags system
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Failure 503 {object} dto.HealthResponse
// @Router /health [get]
func (h *SystemHandler) Health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	if err := h.cache.Ping(ctx); err != nil {
		logger.Get().Warn("Cache health check failed", zap.Error(err))
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.HealthResponse{Status: "degraded", Cache: "unavailable"})
	}
	return c.JSON(dto.HealthResponse{Status: "ok", Cache: "ok"})
}
