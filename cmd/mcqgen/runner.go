package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"

	"mcq-generator/internal/domain"
	"mcq-generator/internal/logger"
	"mcq-generator/internal/service"
	"mcq-generator/internal/validation"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatCSV  = "csv"
)

func validFormat(f string) bool {
	return f == FormatJSON || f == FormatYAML || f == FormatCSV
}

// Runner generates one quiz per input file and writes it next to the others
// in OutDir.
type Runner struct {
	MCQ         service.MCQService
	Params      validation.Params
	Format      string
	OutDir      string
	Concurrency int
}

// quizFile is the document written for each input.
type quizFile struct {
	ID      string            `json:"id" yaml:"id"`
	Source  string            `json:"source" yaml:"source"`
	Subject string            `json:"subject" yaml:"subject"`
	Tone    string            `json:"tone" yaml:"tone"`
	Quiz    domain.Quiz       `json:"quiz" yaml:"quiz"`
	Rows    []domain.TableRow `json:"rows" yaml:"rows"`
	Review  string            `json:"review" yaml:"review"`
	Usage   domain.TokenUsage `json:"usage" yaml:"usage"`
}

// Run processes every file and returns how many failed. A failing file is
// logged and does not stop the others.
func (r *Runner) Run(ctx context.Context, files []string) int {
	if err := os.MkdirAll(r.OutDir, 0o755); err != nil {
		logger.Get().Error("Failed to create output directory", zap.String("dir", r.OutDir), zap.Error(err))
		return len(files)
	}

	var failed atomic.Int32
	g, gctx := errgroup.WithContext(ctx)
	limit := r.Concurrency
	if limit <= 0 {
		limit = 1
	}
	g.SetLimit(limit)

	for _, path := range files {
		g.Go(func() error {
			out, err := r.processFile(gctx, path)
			if err != nil {
				failed.Add(1)
				logger.Get().Error("Failed to generate quiz", zap.String("file", path), zap.Error(err))
				return nil
			}
			logger.Get().Info("Quiz written", zap.String("file", path), zap.String("output", out))
			return nil
		})
	}
	_ = g.Wait()
	return int(failed.Load())
}

func (r *Runner) processFile(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	res, err := r.MCQ.GenerateFromFile(ctx, service.FileInput{
		Filename:    filepath.Base(path),
		ContentType: mime.TypeByExtension(filepath.Ext(path)),
		Data:        data,
	}, r.Params)
	if err != nil {
		return "", err
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	outPath := filepath.Join(r.OutDir, base+"."+r.Format)
	f, err := os.Create(outPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := writeQuiz(f, r.Format, path, res); err != nil {
		return "", fmt.Errorf("write %s: %w", outPath, err)
	}
	return outPath, nil
}

func writeQuiz(w io.Writer, format, source string, res *domain.GenerationResult) error {
	rows, err := res.Quiz.Rows()
	if err != nil {
		return err
	}
	switch format {
	case FormatCSV:
		cw := csv.NewWriter(w)
		if err := cw.Write([]string{"index", "mcq", "choices", "correct"}); err != nil {
			return err
		}
		for _, row := range rows {
			if err := cw.Write([]string{strconv.Itoa(row.Index), row.MCQ, row.Choices, row.Correct}); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	case FormatYAML, FormatJSON:
		doc := quizFile{
			ID:      res.ID,
			Source:  source,
			Subject: res.Subject,
			Tone:    res.Tone,
			Quiz:    res.Quiz,
			Rows:    rows,
			Review:  res.Review,
			Usage:   res.Usage,
		}
		if format == FormatYAML {
			enc := yaml.NewEncoder(w)
			enc.SetIndent(2)
			if err := enc.Encode(doc); err != nil {
				return err
			}
			return enc.Close()
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}
