package transcriber

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"mcq-generator/internal/config"
	"mcq-generator/internal/domain"
	"mcq-generator/internal/logger"
	"mcq-generator/pkg/executor"

	"go.uber.org/zap"
)

// WhisperCLITranscriber shells out to a local whisper.cpp build. Non-WAV
// clips are first converted to 16 kHz mono WAV with ffmpeg.
type WhisperCLITranscriber struct {
	exec       executor.Executor
	binaryPath string
	modelPath  string
	ffmpegPath string
	language   string
	tempDir    string

	maxDuration time.Duration
}

var _ domain.Transcriber = (*WhisperCLITranscriber)(nil)

func NewWhisperCLITranscriber(cfg config.TranscriptionConfig, exec executor.Executor) (*WhisperCLITranscriber, error) {
	if cfg.BinaryPath == "" {
		return nil, fmt.Errorf("transcription.binary_path is required for whisper_cli")
	}
	if cfg.ModelPath == "" {
		return nil, fmt.Errorf("transcription.model_path is required for whisper_cli")
	}
	language := cfg.Language
	if language == "" {
		language = "en"
	}
	return &WhisperCLITranscriber{
		exec:       exec,
		binaryPath: cfg.BinaryPath,
		modelPath:  cfg.ModelPath,
		ffmpegPath: cfg.FFmpegPath,
		language:   language,

		maxDuration: cfg.MaxDuration,
	}, nil
}

func (t *WhisperCLITranscriber) Transcribe(ctx context.Context, filename string, audio []byte) (string, error) {
	l := logger.Get()

	dir, err := os.MkdirTemp(t.tempDir, "mcqgen-audio-*")
	if err != nil {
		return "", domain.NewInternalError("failed to create temp dir for audio", err)
	}
	defer os.RemoveAll(dir)

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = ".bin"
	}
	inputPath := filepath.Join(dir, "input"+ext)
	if err := os.WriteFile(inputPath, audio, 0o600); err != nil {
		return "", domain.NewInternalError("failed to write audio clip", err)
	}

	wavPath := inputPath
	if !IsWAV(filename, audio) {
		if t.ffmpegPath == "" {
			return "", domain.NewInvalidInputError("Only WAV audio is supported by the local transcriber")
		}
		wavPath = filepath.Join(dir, "input_16k.wav")
		args := []string{"-i", inputPath, "-vn", "-ar", "16000", "-ac", "1", "-c:a", "pcm_s16le", "-y", wavPath}
		if _, err := t.exec.Execute(ctx, t.ffmpegPath, args...); err != nil {
			return "", domain.NewTranscriptionError("failed to convert audio", err)
		}
		converted, err := os.ReadFile(wavPath)
		if err != nil {
			return "", domain.NewTranscriptionError("failed to convert audio", err)
		}
		dur, err := WAVDuration(converted)
		if err != nil {
			return "", domain.NewTranscriptionError("failed to convert audio", err)
		}
		if err := CheckDuration(dur, t.maxDuration); err != nil {
			return "", err
		}
	}

	outputPrefix := filepath.Join(dir, "transcript")
	args := []string{
		"-m", t.modelPath,
		"-f", wavPath,
		"-otxt",
		"-l", t.language,
		"-nt",
		"--output-file", outputPrefix,
	}
	if _, err := t.exec.Execute(ctx, t.binaryPath, args...); err != nil {
		l.Error("whisper transcribe failed", zap.Error(err))
		return "", domain.NewTranscriptionError("transcription failed", err)
	}

	raw, err := os.ReadFile(outputPrefix + ".txt")
	if err != nil {
		return "", domain.NewTranscriptionError("transcription produced no output", err)
	}
	text := strings.Join(strings.Fields(string(raw)), " ")
	if text == "" || text == "[BLANK_AUDIO]" {
		return "", errCouldNotUnderstand()
	}
	return text, nil
}
