package extractor

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"mcq-generator/internal/domain"
	"mcq-generator/internal/logger"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"
)

type kind int

const (
	kindUnsupported kind = iota
	kindPDF
	kindText
)

var textExtensions = map[string]bool{".txt": true, ".md": true, ".csv": true, ".text": true}

// Extractor implements domain.TextExtractor for PDF and plain-text uploads.
type Extractor struct {
	maxChars int
}

var _ domain.TextExtractor = (*Extractor)(nil)

// New returns an extractor that truncates output to maxChars runes.
// maxChars <= 0 disables truncation.
func New(maxChars int) *Extractor {
	return &Extractor{maxChars: maxChars}
}

func (e *Extractor) Extract(ctx context.Context, filename, contentType string, data []byte) (string, error) {
	var (
		text string
		err  error
	)
	switch detect(filename, contentType) {
	case kindPDF:
		text, err = readPDF(ctx, data)
	case kindText:
		if !utf8.Valid(data) {
			return "", domain.NewUnsupportedFileError(contentType).WithContext("reason", "text file is not valid UTF-8")
		}
		text = string(data)
	default:
		return "", domain.NewUnsupportedFileError(contentType)
	}
	if err != nil {
		return "", err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", domain.NewInvalidInputError("The uploaded file contains no readable text")
	}
	return e.truncate(filename, text), nil
}

func (e *Extractor) truncate(filename, text string) string {
	if e.maxChars <= 0 || utf8.RuneCountInString(text) <= e.maxChars {
		return text
	}
	runes := []rune(text)
	logger.Get().Info("Truncating extracted text",
		zap.String("filename", filename),
		zap.Int("chars", len(runes)),
		zap.Int("max_chars", e.maxChars))
	return string(runes[:e.maxChars])
}

func detect(filename, contentType string) kind {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(contentType))
	}
	switch {
	case mediaType == "application/pdf":
		return kindPDF
	case strings.HasPrefix(mediaType, "text/"):
		return kindText
	}

	ext := strings.ToLower(filepath.Ext(filename))
	switch {
	case ext == ".pdf":
		return kindPDF
	case textExtensions[ext]:
		return kindText
	}
	return kindUnsupported
}

func readPDF(ctx context.Context, data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", domain.NewUnsupportedFileError("application/pdf").WithContext("reason", fmt.Sprintf("unreadable PDF: %v", err))
	}

	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		pageText, err := p.GetPlainText(nil)
		if err != nil {
			logger.Get().Warn("Skipping unreadable PDF page", zap.Int("page", i), zap.Error(err))
			continue
		}
		sb.WriteString(pageText)
	}
	return sb.String(), nil
}
