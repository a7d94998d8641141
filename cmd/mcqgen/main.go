// Command mcqgen generates quizzes for a batch of documents.
//
//	mcqgen -subject biology -number 10 -format yaml -out quizzes notes1.pdf notes2.txt
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"mcq-generator/internal/app"
	"mcq-generator/internal/config"
	"mcq-generator/internal/logger"
	"mcq-generator/internal/validation"

	"go.uber.org/zap"
)

func main() {
	subject := flag.String("subject", "", "quiz subject (required)")
	tone := flag.String("tone", validation.DefaultTone, "complexity level of the questions")
	number := flag.Int("number", 5, "number of questions per file")
	format := flag.String("format", FormatJSON, "output format: json, yaml or csv")
	outDir := flag.String("out", ".", "output directory")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] file...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}
	if !validFormat(*format) {
		log.Fatalf("unsupported format %q", *format)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := logger.Initialize(cfg.Logger); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	components, err := app.Build(ctx, cfg)
	if err != nil {
		l.Fatal("Failed to initialize application", zap.Error(err))
	}
	defer components.Close()

	runner := &Runner{
		MCQ:         components.MCQ,
		Params:      validation.Params{Number: *number, Subject: *subject, Tone: *tone},
		Format:      *format,
		OutDir:      *outDir,
		Concurrency: cfg.Batch.Concurrency,
	}
	failed := runner.Run(ctx, flag.Args())
	if failed > 0 {
		l.Error("Batch finished with failures", zap.Int("failed", failed), zap.Int("total", flag.NArg()))
		components.Close()
		logger.Sync()
		os.Exit(1)
	}
	l.Info("Batch finished", zap.Int("total", flag.NArg()))
}
