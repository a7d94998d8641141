package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"mcq-generator/internal/domain"
	"mcq-generator/internal/service"
	"mcq-generator/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type fakeMCQ struct {
	service.MCQService
	mu   sync.Mutex
	seen []service.FileInput
}

func (f *fakeMCQ) GenerateFromFile(_ context.Context, in service.FileInput, p validation.Params) (*domain.GenerationResult, error) {
	f.mu.Lock()
	f.seen = append(f.seen, in)
	f.mu.Unlock()
	if string(in.Data) == "bad" {
		return nil, domain.NewInvalidInputError("no text")
	}
	res := sample()
	res.Subject = p.Subject
	return res, nil
}

func sample() *domain.GenerationResult {
	return &domain.GenerationResult{
		ID: "01J0000000000000000000000A",
		Quiz: domain.Quiz{
			"1": {MCQ: "Capital of France?", Options: map[string]string{"a": "Paris", "b": "Rome"}, Correct: "a"},
		},
		Review: "Fine.",
		Tone:   "Simple",
	}
}

func TestWriteQuiz_CSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeQuiz(&buf, FormatCSV, "notes.txt", sample()))
	assert.Equal(t, "index,mcq,choices,correct\n1,Capital of France?,a-> Paris || b-> Rome,a\n", buf.String())
}

func TestWriteQuiz_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeQuiz(&buf, FormatYAML, "notes.txt", sample()))

	var doc quizFile
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "notes.txt", doc.Source)
	assert.Equal(t, "Paris", doc.Quiz["1"].Options["a"])
	require.Len(t, doc.Rows, 1)
	assert.Equal(t, "a", doc.Rows[0].Correct)
}

func TestWriteQuiz_UnknownFormat(t *testing.T) {
	assert.Error(t, writeQuiz(&bytes.Buffer{}, "xml", "notes.txt", sample()))
	assert.False(t, validFormat("xml"))
}

func TestRunner_Run(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "quizzes")
	good := filepath.Join(in, "good.txt")
	bad := filepath.Join(in, "bad.txt")
	require.NoError(t, os.WriteFile(good, []byte("France is a country."), 0o644))
	require.NoError(t, os.WriteFile(bad, []byte("bad"), 0o644))

	mcq := &fakeMCQ{}
	r := &Runner{
		MCQ:         mcq,
		Params:      validation.Params{Number: 3, Subject: "geo", Tone: "Simple"},
		Format:      FormatJSON,
		OutDir:      out,
		Concurrency: 2,
	}
	failed := r.Run(context.Background(), []string{good, bad, filepath.Join(in, "missing.txt")})

	assert.Equal(t, 2, failed)
	assert.Len(t, mcq.seen, 2)
	data, err := os.ReadFile(filepath.Join(out, "good.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"subject": "geo"`)
	assert.Contains(t, string(data), `"source": "`+good+`"`)
}
