// Package template holds the RESPONSE_JSON document that shows the model
// what shape the quiz must have.
package template

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"mcq-generator/internal/domain"
	"mcq-generator/internal/logger"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

//go:embed default_response.json
var defaultResponseJSON []byte

// Store serves the current template. Reads are lock-free; reloads swap the
// whole value.
type Store struct {
	path    string
	current atomic.Value // string
}

var _ domain.TemplateProvider = (*Store)(nil)

// Load reads path, or the embedded default when path does not exist. A file
// that exists but is malformed is an error.
func Load(path string) (*Store, error) {
	s := &Store{path: path}
	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
	case errors.Is(err, os.ErrNotExist) || path == "":
		logger.Get().Info("Response template not found, using built-in default", zap.String("path", path))
		raw = defaultResponseJSON
	default:
		return nil, fmt.Errorf("read response template %s: %w", path, err)
	}
	compact, err := normalize(raw)
	if err != nil {
		return nil, fmt.Errorf("response template %s: %w", path, err)
	}
	s.current.Store(compact)
	return s, nil
}

func (s *Store) ResponseJSON() string {
	return s.current.Load().(string)
}

// Reload re-reads the file and keeps the previous template if it is invalid.
func (s *Store) Reload() error {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("read response template: %w", err)
	}
	compact, err := normalize(raw)
	if err != nil {
		return err
	}
	s.current.Store(compact)
	return nil
}

// Watch reloads the template whenever its file is written or recreated.
// It blocks until ctx is done.
func (s *Store) Watch(ctx context.Context) error {
	if s.path == "" {
		return nil
	}
	l := logger.Get()
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create template watcher: %w", err)
	}
	defer w.Close()

	// Editors often replace files by rename, so the directory is watched.
	dir := filepath.Dir(s.path)
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	target := filepath.Clean(s.path)
	l.Info("Watching response template", zap.String("path", target))

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return fmt.Errorf("template watcher events channel closed")
			}
			if filepath.Clean(event.Name) != target || !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if err := s.Reload(); err != nil {
				l.Warn("Ignoring invalid response template, keeping previous", zap.Error(err))
				continue
			}
			l.Info("Response template reloaded", zap.String("path", target))
		case err, ok := <-w.Errors:
			if !ok {
				return fmt.Errorf("template watcher errors channel closed")
			}
			l.Error("Template watcher error", zap.Error(err))
		}
	}
}

// normalize checks that raw is quiz-shaped and returns it compacted.
func normalize(raw []byte) (string, error) {
	var quiz domain.Quiz
	if err := json.Unmarshal(raw, &quiz); err != nil {
		return "", fmt.Errorf("template is not a quiz-shaped JSON object: %w", err)
	}
	if len(quiz) == 0 {
		return "", errors.New("template has no entries")
	}
	for _, key := range quiz.Keys() {
		item := quiz[key]
		if strings.TrimSpace(item.MCQ) == "" || len(item.Options) == 0 {
			return "", fmt.Errorf("template entry %s needs mcq and options", key)
		}
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return "", err
	}
	return buf.String(), nil
}
