package domain

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Source describes where the quiz text came from.
type Source string

const (
	SourceFile  Source = "file"
	SourceAudio Source = "audio"
	SourceText  Source = "text"
)

// MCQ is a single multiple-choice question as produced by the LLM.
type MCQ struct {
	MCQ     string            `json:"mcq" yaml:"mcq"`
	Options map[string]string `json:"options" yaml:"options"`
	Correct string            `json:"correct" yaml:"correct"`
}

// Quiz maps the question index ("1", "2", ...) to its question.
type Quiz map[string]MCQ

// TableRow is the flattened, display-oriented view of one question.
type TableRow struct {
	Index   int    `json:"index" yaml:"index"`
	MCQ     string `json:"mcq" yaml:"mcq"`
	Choices string `json:"choices" yaml:"choices"`
	Correct string `json:"correct" yaml:"correct"`
}

// Keys returns the question keys in numeric order. Non-numeric keys sort
// after the numeric ones, lexically.
func (q Quiz) Keys() []string {
	keys := make([]string, 0, len(q))
	for k := range q {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		ni, erri := strconv.Atoi(keys[i])
		nj, errj := strconv.Atoi(keys[j])
		switch {
		case erri == nil && errj == nil:
			return ni < nj
		case erri == nil:
			return true
		case errj == nil:
			return false
		default:
			return keys[i] < keys[j]
		}
	})
	return keys
}

// Validate checks that every question can be rendered and answered.
func (q Quiz) Validate() error {
	if len(q) == 0 {
		return NewInvalidLLMResponseError("quiz contains no questions", nil)
	}
	for _, key := range q.Keys() {
		item := q[key]
		if strings.TrimSpace(item.MCQ) == "" {
			return NewInvalidLLMResponseError(fmt.Sprintf("question %s has no text", key), nil)
		}
		if len(item.Options) < 2 {
			return NewInvalidLLMResponseError(fmt.Sprintf("question %s has fewer than two options", key), nil)
		}
		if !item.HasValidAnswer() {
			return NewInvalidLLMResponseError(fmt.Sprintf("question %s has a correct answer that is not one of its options", key), nil)
		}
	}
	return nil
}

// HasValidAnswer reports whether Correct names one of the option keys or
// repeats one of the option texts.
func (m MCQ) HasValidAnswer() bool {
	correct := strings.TrimSpace(m.Correct)
	if correct == "" {
		return false
	}
	for key, text := range m.Options {
		if strings.EqualFold(key, correct) || strings.EqualFold(strings.TrimSpace(text), correct) {
			return true
		}
	}
	return false
}

// OptionKeys returns the option keys sorted ("a", "b", "c", "d").
func (m MCQ) OptionKeys() []string {
	keys := make([]string, 0, len(m.Options))
	for k := range m.Options {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Rows flattens the quiz for tabular display, numbering rows from 1.
func (q Quiz) Rows() ([]TableRow, error) {
	if len(q) == 0 {
		return nil, ErrInvalidTableData
	}
	rows := make([]TableRow, 0, len(q))
	for i, key := range q.Keys() {
		item := q[key]
		if item.MCQ == "" || len(item.Options) == 0 {
			return nil, ErrInvalidTableData
		}
		choices := make([]string, 0, len(item.Options))
		for _, opt := range item.OptionKeys() {
			choices = append(choices, fmt.Sprintf("%s-> %s", opt, item.Options[opt]))
		}
		rows = append(rows, TableRow{
			Index:   i + 1,
			MCQ:     item.MCQ,
			Choices: strings.Join(choices, " || "),
			Correct: item.Correct,
		})
	}
	return rows, nil
}

// Truncate keeps the first n questions in key order and renumbers them.
func (q Quiz) Truncate(n int) Quiz {
	out := make(Quiz, n)
	for i, key := range q.Keys() {
		if i >= n {
			break
		}
		out[strconv.Itoa(i+1)] = q[key]
	}
	return out
}

// Renumber returns a copy of the quiz keyed 1..len(q) in key order.
func (q Quiz) Renumber() Quiz {
	return q.Truncate(len(q))
}

// GenerationRequest carries the inputs substituted into the quiz prompt.
type GenerationRequest struct {
	Text    string
	Number  int
	Subject string
	Tone    string
	Source  Source
}

// TokenUsage mirrors the counters an LLM provider reports for a call.
type TokenUsage struct {
	PromptTokens     int     `json:"prompt_tokens" yaml:"prompt_tokens"`
	CompletionTokens int     `json:"completion_tokens" yaml:"completion_tokens"`
	TotalTokens      int     `json:"total_tokens" yaml:"total_tokens"`
	EstimatedCost    float64 `json:"estimated_cost" yaml:"estimated_cost"`
}

// Add accumulates another call's usage.
func (u *TokenUsage) Add(other TokenUsage) {
	u.PromptTokens += other.PromptTokens
	u.CompletionTokens += other.CompletionTokens
	u.TotalTokens += other.TotalTokens
	u.EstimatedCost += other.EstimatedCost
}

// GenerationResult is the outcome of one generate-and-review run.
type GenerationResult struct {
	ID        string     `json:"id"`
	Quiz      Quiz       `json:"quiz"`
	Review    string     `json:"review"`
	Usage     TokenUsage `json:"usage"`
	Subject   string     `json:"subject"`
	Tone      string     `json:"tone"`
	Number    int        `json:"number"`
	Source    Source     `json:"source"`
	CreatedAt time.Time  `json:"created_at"`
}
