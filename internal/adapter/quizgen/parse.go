package quizgen

import (
	"encoding/json"
	"fmt"
	"strings"

	"mcq-generator/internal/domain"
)

// cleanResponse strips reasoning blocks and markdown fences and returns the
// outermost JSON object in raw.
func cleanResponse(raw string) (string, error) {
	s := strings.TrimSpace(raw)

	for {
		start := strings.Index(s, "<think>")
		if start == -1 {
			break
		}
		end := strings.Index(s, "</think>")
		if end == -1 || end < start {
			break
		}
		s = strings.TrimSpace(s[:start] + s[end+len("</think>"):])
	}

	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)

	jsonStart := strings.Index(s, "{")
	jsonEnd := strings.LastIndex(s, "}")
	if jsonStart == -1 || jsonEnd == -1 || jsonEnd < jsonStart {
		return "", fmt.Errorf("no JSON object found in LLM response")
	}
	return s[jsonStart : jsonEnd+1], nil
}

// ParseQuiz turns a raw model reply into a validated Quiz.
func ParseQuiz(raw string) (domain.Quiz, error) {
	extracted, err := cleanResponse(raw)
	if err != nil {
		return nil, domain.NewInvalidLLMResponseError("LLM response did not contain a quiz", err)
	}
	var quiz domain.Quiz
	if err := json.Unmarshal([]byte(extracted), &quiz); err != nil {
		return nil, domain.NewInvalidLLMResponseError("LLM response is not valid quiz JSON", err)
	}
	if err := quiz.Validate(); err != nil {
		return nil, err
	}
	return quiz, nil
}
