package validation

import (
	"strings"
	"unicode/utf8"

	"mcq-generator/internal/config"
	"mcq-generator/internal/domain"
	"mcq-generator/internal/util"
)

const (
	DefaultTone     = "Simple"
	MaxAccessKeyLen = 50
	MinListLimit    = 1
	MaxListLimit    = 100
)

// Params are the form inputs shared by every generation entry point.
type Params struct {
	Number  int
	Subject string
	Tone    string
}

// Validator provides request validation functionality
type Validator struct {
	minQuestions  int
	maxQuestions  int
	maxSubjectLen int
	maxToneLen    int
}

// NewValidator creates a validator bounded by the quiz configuration.
func NewValidator(cfg config.QuizConfig) *Validator {
	v := &Validator{
		minQuestions:  cfg.MinQuestions,
		maxQuestions:  cfg.MaxQuestions,
		maxSubjectLen: cfg.MaxSubjectLen,
		maxToneLen:    cfg.MaxToneLen,
	}
	if v.minQuestions <= 0 {
		v.minQuestions = 3
	}
	if v.maxQuestions < v.minQuestions {
		v.maxQuestions = 50
	}
	if v.maxSubjectLen <= 0 {
		v.maxSubjectLen = 20
	}
	if v.maxToneLen <= 0 {
		v.maxToneLen = 20
	}
	return v
}

// NormalizeParams trims the inputs and fills the default tone.
func (v *Validator) NormalizeParams(p Params) Params {
	p.Subject = strings.TrimSpace(p.Subject)
	p.Tone = strings.TrimSpace(p.Tone)
	if p.Tone == "" {
		p.Tone = DefaultTone
	}
	return p
}

// ValidateParams checks already-normalized generation parameters.
func (v *Validator) ValidateParams(p Params) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if p.Number < v.minQuestions || p.Number > v.maxQuestions {
		errors = append(errors, domain.NewOutOfRangeError("number", p.Number, v.minQuestions, v.maxQuestions))
	}

	if p.Subject == "" {
		errors = append(errors, domain.NewMissingFieldError("subject"))
	} else if n := utf8.RuneCountInString(p.Subject); n > v.maxSubjectLen {
		errors = append(errors, domain.NewTooLongError("subject", n, v.maxSubjectLen))
	}

	if n := utf8.RuneCountInString(p.Tone); n > v.maxToneLen {
		errors = append(errors, domain.NewTooLongError("tone", n, v.maxToneLen))
	}

	return errors
}

// ValidateAccessKey checks the shape of the shared key, not its value.
func (v *Validator) ValidateAccessKey(key string) domain.ValidationErrors {
	var errors domain.ValidationErrors
	if key == "" {
		errors = append(errors, domain.NewMissingFieldError("access_key"))
	} else if n := utf8.RuneCountInString(key); n > MaxAccessKeyLen {
		errors = append(errors, domain.NewTooLongError("access_key", n, MaxAccessKeyLen))
	}
	return errors
}

// ValidateQuizID validates a stored quiz identifier.
func (v *Validator) ValidateQuizID(id string) domain.ValidationErrors {
	var errors domain.ValidationErrors
	if strings.TrimSpace(id) == "" {
		errors = append(errors, domain.NewMissingFieldError("id"))
	} else if !util.IsValidULID(id) {
		errors = append(errors, domain.NewInvalidFormatError("id", id))
	}
	return errors
}

// ValidateListLimit validates the page size of the history listing.
func (v *Validator) ValidateListLimit(limit int) domain.ValidationErrors {
	var errors domain.ValidationErrors
	if limit < MinListLimit || limit > MaxListLimit {
		errors = append(errors, domain.NewOutOfRangeError("limit", limit, MinListLimit, MaxListLimit))
	}
	return errors
}
