package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"mcq-generator/internal/config"
	"mcq-generator/internal/domain"
	"mcq-generator/internal/dto"
	"mcq-generator/internal/handler"
	"mcq-generator/internal/middleware"
	"mcq-generator/internal/service"
	"mcq-generator/internal/util"
	"mcq-generator/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Manual Mocks ---

type MockMCQService struct {
	GenerateFromFileFunc  func(ctx context.Context, in service.FileInput, p validation.Params) (*domain.GenerationResult, error)
	GenerateFromAudioFunc func(ctx context.Context, in service.AudioInput, p validation.Params) (*domain.GenerationResult, error)
	GenerateFromTextFunc  func(ctx context.Context, text string, p validation.Params) (*domain.GenerationResult, error)
	TranscribeFunc        func(ctx context.Context, in service.AudioInput) (string, error)
	GetQuizFunc           func(ctx context.Context, id string) (*domain.GenerationResult, error)
	ListQuizzesFunc       func(ctx context.Context, limit int) ([]*domain.GenerationResult, error)
}

func (m *MockMCQService) GenerateFromFile(ctx context.Context, in service.FileInput, p validation.Params) (*domain.GenerationResult, error) {
	if m.GenerateFromFileFunc != nil {
		return m.GenerateFromFileFunc(ctx, in, p)
	}
	panic("MockMCQService.GenerateFromFileFunc not implemented")
}

func (m *MockMCQService) GenerateFromAudio(ctx context.Context, in service.AudioInput, p validation.Params) (*domain.GenerationResult, error) {
	if m.GenerateFromAudioFunc != nil {
		return m.GenerateFromAudioFunc(ctx, in, p)
	}
	panic("MockMCQService.GenerateFromAudioFunc not implemented")
}

func (m *MockMCQService) GenerateFromText(ctx context.Context, text string, p validation.Params) (*domain.GenerationResult, error) {
	if m.GenerateFromTextFunc != nil {
		return m.GenerateFromTextFunc(ctx, text, p)
	}
	panic("MockMCQService.GenerateFromTextFunc not implemented")
}

func (m *MockMCQService) Transcribe(ctx context.Context, in service.AudioInput) (string, error) {
	if m.TranscribeFunc != nil {
		return m.TranscribeFunc(ctx, in)
	}
	panic("MockMCQService.TranscribeFunc not implemented")
}

func (m *MockMCQService) GetQuiz(ctx context.Context, id string) (*domain.GenerationResult, error) {
	if m.GetQuizFunc != nil {
		return m.GetQuizFunc(ctx, id)
	}
	panic("MockMCQService.GetQuizFunc not implemented")
}

func (m *MockMCQService) ListQuizzes(ctx context.Context, limit int) ([]*domain.GenerationResult, error) {
	if m.ListQuizzesFunc != nil {
		return m.ListQuizzesFunc(ctx, limit)
	}
	panic("MockMCQService.ListQuizzesFunc not implemented")
}

type MockAuthService struct {
	IssueTokenFunc  func(ctx context.Context, accessKey string) (string, time.Time, error)
	ValidateJWTFunc func(ctx context.Context, tokenString string) (*dto.AuthClaims, error)
}

func (m *MockAuthService) IssueToken(ctx context.Context, accessKey string) (string, time.Time, error) {
	if m.IssueTokenFunc != nil {
		return m.IssueTokenFunc(ctx, accessKey)
	}
	panic("MockAuthService.IssueTokenFunc not implemented")
}

func (m *MockAuthService) ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error) {
	if m.ValidateJWTFunc != nil {
		return m.ValidateJWTFunc(ctx, tokenString)
	}
	panic("MockAuthService.ValidateJWTFunc not implemented")
}

type stubTemplate string

func (s stubTemplate) ResponseJSON() string { return string(s) }

type stubCache struct {
	domain.Cache
	pingErr error
}

func (s stubCache) Ping(context.Context) error { return s.pingErr }

// --- Helpers ---

func sampleResult() *domain.GenerationResult {
	return &domain.GenerationResult{
		ID: util.NewULID(),
		Quiz: domain.Quiz{
			"1": {MCQ: "What is H2O?", Options: map[string]string{"a": "Water", "b": "Salt"}, Correct: "a"},
		},
		Review:    "Simple enough.",
		Usage:     domain.TokenUsage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15},
		Subject:   "chemistry",
		Tone:      "Simple",
		Number:    3,
		Source:    domain.SourceFile,
		CreatedAt: time.Now().UTC(),
	}
}

func newApp(mcq service.MCQService, auth service.AuthService) *fiber.App {
	v := validation.NewValidator(config.QuizConfig{})
	vm := middleware.NewValidationMiddleware(v)
	mcqHandler := handler.NewMCQHandler(mcq)
	quizHandler := handler.NewQuizHandler(mcq)
	authHandler := handler.NewAuthHandler(auth, v)
	systemHandler := handler.NewSystemHandler(stubTemplate(`{"1":{}}`), stubCache{})

	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	app.Get("/", systemHandler.Index)
	app.Get("/health", systemHandler.Health)
	api := app.Group("/api")
	api.Get("/template", systemHandler.Template)
	api.Post("/auth/token", authHandler.IssueToken)
	protected := middleware.Protected(auth)
	api.Post("/mcq/file", protected, mcqHandler.GenerateFromFile)
	api.Post("/mcq/audio", protected, mcqHandler.GenerateFromAudio)
	api.Post("/mcq/text", protected, mcqHandler.GenerateFromText)
	api.Post("/transcribe", protected, mcqHandler.Transcribe)
	api.Get("/quizzes", protected, vm.ValidateListLimit(), quizHandler.ListQuizzes)
	api.Get("/quizzes/:id", protected, vm.ValidateQuizID(), quizHandler.GetQuiz)
	return app
}

func okAuth() *MockAuthService {
	return &MockAuthService{ValidateJWTFunc: func(ctx context.Context, tokenString string) (*dto.AuthClaims, error) {
		return &dto.AuthClaims{TokenType: "access"}, nil
	}}
}

func multipartRequest(t *testing.T, url string, fields map[string]string, fileField, filename string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if fileField != "" {
		fw, err := w.CreateFormFile(fileField, filename)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, url, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer token")
	return req
}

func decodeBody(t *testing.T, r io.Reader, out interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(r).Decode(out))
}

// --- Tests ---

func TestGenerateFromFile_Success(t *testing.T) {
	var gotIn service.FileInput
	var gotParams validation.Params
	mcq := &MockMCQService{GenerateFromFileFunc: func(ctx context.Context, in service.FileInput, p validation.Params) (*domain.GenerationResult, error) {
		gotIn, gotParams = in, p
		return sampleResult(), nil
	}}
	app := newApp(mcq, okAuth())

	req := multipartRequest(t, "/api/mcq/file", map[string]string{"number": "3", "subject": "chemistry", "tone": ""}, "file", "notes.txt", []byte("water is wet"))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body dto.MCQResponse
	decodeBody(t, resp.Body, &body)
	require.Len(t, body.Rows, 1)
	assert.Equal(t, 1, body.Rows[0].Index)
	assert.Equal(t, "a-> Water || b-> Salt", body.Rows[0].Choices)
	assert.Equal(t, "Simple enough.", body.Review)
	assert.Equal(t, 15, body.Usage.TotalTokens)

	assert.Equal(t, "notes.txt", gotIn.Filename)
	assert.Equal(t, []byte("water is wet"), gotIn.Data)
	assert.Equal(t, validation.Params{Number: 3, Subject: "chemistry"}, gotParams)
}

func TestGenerateFromFile_MissingUpload(t *testing.T) {
	app := newApp(&MockMCQService{}, okAuth())

	req := multipartRequest(t, "/api/mcq/file", map[string]string{"number": "3", "subject": "x"}, "", "", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var body middleware.ErrorResponse
	decodeBody(t, resp.Body, &body)
	assert.Equal(t, "Please upload a PDF or text file.", body.Message)
}

func TestGenerateFromFile_BadNumber(t *testing.T) {
	app := newApp(&MockMCQService{}, okAuth())

	req := multipartRequest(t, "/api/mcq/file", map[string]string{"number": "many", "subject": "x"}, "file", "a.txt", []byte("t"))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var body middleware.ValidationErrorResponse
	decodeBody(t, resp.Body, &body)
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "number", body.Errors[0].Field)
}

func TestGenerateFromFile_ServiceErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"unsupported", domain.NewUnsupportedFileError("image/png"), fiber.StatusUnsupportedMediaType},
		{"llm down", domain.NewLLMServiceError(errors.New("dial tcp")), fiber.StatusServiceUnavailable},
		{"bad json", domain.NewInvalidLLMResponseError("not json", nil), fiber.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mcq := &MockMCQService{GenerateFromFileFunc: func(ctx context.Context, in service.FileInput, p validation.Params) (*domain.GenerationResult, error) {
				return nil, tt.err
			}}
			app := newApp(mcq, okAuth())
			req := multipartRequest(t, "/api/mcq/file", map[string]string{"number": "3", "subject": "x"}, "file", "a.png", []byte{0x89})
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}

func TestGenerateFromAudio(t *testing.T) {
	mcq := &MockMCQService{GenerateFromAudioFunc: func(ctx context.Context, in service.AudioInput, p validation.Params) (*domain.GenerationResult, error) {
		assert.Equal(t, "recording.webm", in.Filename)
		return sampleResult(), nil
	}}
	app := newApp(mcq, okAuth())

	req := multipartRequest(t, "/api/mcq/audio", map[string]string{"number": "4", "subject": "history"}, "audio", "recording.webm", []byte("opus"))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	req = multipartRequest(t, "/api/mcq/audio", map[string]string{"number": "4", "subject": "history"}, "", "", nil)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestGenerateFromText(t *testing.T) {
	mcq := &MockMCQService{GenerateFromTextFunc: func(ctx context.Context, text string, p validation.Params) (*domain.GenerationResult, error) {
		assert.Equal(t, "plain notes", text)
		assert.Equal(t, 5, p.Number)
		return sampleResult(), nil
	}}
	app := newApp(mcq, okAuth())

	body := `{"text":"plain notes","number":5,"subject":"bio","tone":"Hard"}`
	req := httptest.NewRequest(http.MethodPost, "/api/mcq/text", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer token")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestTranscribe(t *testing.T) {
	mcq := &MockMCQService{TranscribeFunc: func(ctx context.Context, in service.AudioInput) (string, error) {
		if len(in.Data) == 1 {
			return "", domain.NewTranscriptionError("could not understand audio", nil)
		}
		return "hello world", nil
	}}
	app := newApp(mcq, okAuth())

	resp, err := app.Test(multipartRequest(t, "/api/transcribe", nil, "audio", "a.wav", []byte("RIFF")), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var out dto.TranscriptResponse
	decodeBody(t, resp.Body, &out)
	assert.Equal(t, "hello world", out.Text)

	resp, err = app.Test(multipartRequest(t, "/api/transcribe", nil, "audio", "a.wav", []byte{1}), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	auth := &MockAuthService{ValidateJWTFunc: func(ctx context.Context, tokenString string) (*dto.AuthClaims, error) {
		return nil, errors.New("invalid jwt token")
	}}
	app := newApp(&MockMCQService{}, auth)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/quizzes", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req := httptest.NewRequest(http.MethodGet, "/api/quizzes", nil)
	req.Header.Set("Authorization", "Bearer expired")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestIssueToken(t *testing.T) {
	expiry := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	auth := &MockAuthService{IssueTokenFunc: func(ctx context.Context, accessKey string) (string, time.Time, error) {
		if accessKey != "Test@123" {
			return "", time.Time{}, domain.NewUnauthorizedError("Wrong Password")
		}
		return "signed", expiry, nil
	}}
	app := newApp(&MockMCQService{}, auth)

	post := func(body string) *http.Response {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/token", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		return resp
	}

	resp := post(`{"access_key":"Test@123"}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var tok dto.TokenResponse
	decodeBody(t, resp.Body, &tok)
	assert.Equal(t, "signed", tok.AccessToken)
	assert.Equal(t, "Bearer", tok.TokenType)
	assert.True(t, expiry.Equal(tok.ExpiresAt))

	resp = post(`{"access_key":"wrong"}`)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	var errBody middleware.ErrorResponse
	decodeBody(t, resp.Body, &errBody)
	assert.Equal(t, "Wrong Password", errBody.Message)

	resp = post(`{"access_key":""}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestQuizHistory(t *testing.T) {
	stored := sampleResult()
	mcq := &MockMCQService{
		GetQuizFunc: func(ctx context.Context, id string) (*domain.GenerationResult, error) {
			if id == stored.ID {
				return stored, nil
			}
			return nil, domain.NewQuizNotFoundError(id)
		},
		ListQuizzesFunc: func(ctx context.Context, limit int) ([]*domain.GenerationResult, error) {
			assert.Equal(t, 2, limit)
			return []*domain.GenerationResult{stored, stored}, nil
		},
	}
	app := newApp(mcq, okAuth())

	get := func(path string) *http.Response {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Authorization", "Bearer token")
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		return resp
	}

	resp := get("/api/quizzes/" + stored.ID)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var one dto.MCQResponse
	decodeBody(t, resp.Body, &one)
	assert.Equal(t, stored.ID, one.ID)

	resp = get("/api/quizzes/" + util.NewULID())
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp = get("/api/quizzes/bogus")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = get("/api/quizzes?limit=2")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var list dto.QuizListResponse
	decodeBody(t, resp.Body, &list)
	assert.Equal(t, 2, list.Count)
}

func TestSystemRoutes(t *testing.T) {
	app := newApp(&MockMCQService{}, okAuth())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	html, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(html), "MediaRecorder")

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/template", nil), -1)
	require.NoError(t, err)
	raw, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"1":{}}`, string(raw))

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestHealth_CacheDown(t *testing.T) {
	h := handler.NewSystemHandler(stubTemplate("{}"), stubCache{pingErr: errors.New("refused")})
	app := fiber.New()
	app.Get("/health", h.Health)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}
