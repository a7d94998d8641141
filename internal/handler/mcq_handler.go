package handler

import (
	"io"
	"mime/multipart"
	"strconv"
	"strings"

	"mcq-generator/internal/domain"
	"mcq-generator/internal/dto"
	"mcq-generator/internal/logger"
	"mcq-generator/internal/service"
	"mcq-generator/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	missingFileMessage  = "Please upload a PDF or text file."
	missingAudioMessage = "Please record or upload an audio clip."
)

// MCQHandler handles quiz generation HTTP requests
type MCQHandler struct {
	service service.MCQService
}

// NewMCQHandler creates a new MCQHandler instance
func NewMCQHandler(service service.MCQService) *MCQHandler {
	return &MCQHandler{service: service}
}

// GenerateFromFile godoc
// @Summary Generate a quiz from a document
// @Description Extracts the text of an uploaded PDF or text file and generates multiple-choice questions from it
// @Tags mcq
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param file formData file true "PDF or text file"
// @Param number formData int true "Number of questions (3-50)"
// @Param subject formData string true "Subject"
// @Param tone formData string false "Complexity level" default(Simple)
// @Success 200 {object} dto.MCQResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 415 {object} middleware.ErrorResponse
// @Failure 502 {object} middleware.ErrorResponse
// @Failure 503 {object} middleware.ErrorResponse
// @Router /mcq/file [post]
func (h *MCQHandler) GenerateFromFile(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return domain.NewInvalidInputError(missingFileMessage)
	}
	params, err := formParams(c)
	if err != nil {
		return err
	}
	data, err := readUpload(fh)
	if err != nil {
		return err
	}

	res, err := h.service.GenerateFromFile(c.UserContext(), service.FileInput{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Data:        data,
	}, params)
	if err != nil {
		return err
	}
	return respond(c, res)
}

// GenerateFromAudio godoc
// @Summary Generate a quiz from an audio clip
// @Description Transcribes a recorded clip (at most 15 seconds) and generates multiple-choice questions from the transcript
// @Tags mcq
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param audio formData file true "Audio clip (wav, webm, ogg, mp3)"
// @Param number formData int true "Number of questions (3-50)"
// @Param subject formData string true "Subject"
// @Param tone formData string false "Complexity level" default(Simple)
// @Success 200 {object} dto.MCQResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 422 {object} middleware.ErrorResponse
// @Failure 503 {object} middleware.ErrorResponse
// @Router /mcq/audio [post]
func (h *MCQHandler) GenerateFromAudio(c *fiber.Ctx) error {
	in, err := audioInput(c)
	if err != nil {
		return err
	}
	params, err := formParams(c)
	if err != nil {
		return err
	}
	res, err := h.service.GenerateFromAudio(c.UserContext(), in, params)
	if err != nil {
		return err
	}
	return respond(c, res)
}

// GenerateFromText godoc
// @Summary Generate a quiz from raw text
// @Tags mcq
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body dto.GenerateTextRequest true "Text and quiz parameters"
// @Success 200 {object} dto.MCQResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 502 {object} middleware.ErrorResponse
// @Failure 503 {object} middleware.ErrorResponse
// @Router /mcq/text [post]
func (h *MCQHandler) GenerateFromText(c *fiber.Ctx) error {
	var req dto.GenerateTextRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Get().Debug("Failed to parse text request", zap.Error(err))
		return domain.NewInvalidInputError("Invalid request body")
	}
	res, err := h.service.GenerateFromText(c.UserContext(), req.Text, validation.Params{
		Number:  req.Number,
		Subject: req.Subject,
		Tone:    req.Tone,
	})
	if err != nil {
		return err
	}
	return respond(c, res)
}

// Transcribe godoc
// @Summary Transcribe an audio clip
// @Tags mcq
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param audio formData file true "Audio clip"
// @Success 200 {object} dto.TranscriptResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 422 {object} middleware.ErrorResponse
// @Router /transcribe [post]
func (h *MCQHandler) Transcribe(c *fiber.Ctx) error {
	in, err := audioInput(c)
	if err != nil {
		return err
	}
	text, err := h.service.Transcribe(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.JSON(dto.TranscriptResponse{Text: text})
}

func respond(c *fiber.Ctx, res *domain.GenerationResult) error {
	out, err := dto.NewMCQResponse(res)
	if err != nil {
		return domain.NewInvalidLLMResponseError("Error in the table data", err)
	}
	return c.JSON(out)
}

// formParams reads number, subject and tone from a multipart form.
func formParams(c *fiber.Ctx) (validation.Params, error) {
	p := validation.Params{
		Subject: c.FormValue("subject"),
		Tone:    c.FormValue("tone"),
	}
	raw := strings.TrimSpace(c.FormValue("number"))
	if raw == "" {
		return p, domain.ValidationErrors{domain.NewMissingFieldError("number")}
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return p, domain.ValidationErrors{domain.NewInvalidFormatError("number", raw)}
	}
	p.Number = n
	return p, nil
}

func audioInput(c *fiber.Ctx) (service.AudioInput, error) {
	fh, err := c.FormFile("audio")
	if err != nil {
		return service.AudioInput{}, domain.NewInvalidInputError(missingAudioMessage)
	}
	data, err := readUpload(fh)
	if err != nil {
		return service.AudioInput{}, err
	}
	return service.AudioInput{Filename: fh.Filename, Data: data}, nil
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, domain.NewInternalError("Failed to open upload", err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, domain.NewInternalError("Failed to read upload", err)
	}
	return data, nil
}
