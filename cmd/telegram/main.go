package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"mcq-generator/internal/app"
	"mcq-generator/internal/config"
	"mcq-generator/internal/logger"
	"mcq-generator/internal/telegram"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := logger.Initialize(cfg.Logger); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	if cfg.Telegram.Token == "" {
		appLogger.Fatal("telegram.token is not configured (set TELEGRAM_TOKEN)")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	components, err := app.Build(ctx, cfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize application", zap.Error(err))
	}
	defer components.Close()

	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		appLogger.Fatal("Failed to connect to Telegram", zap.Error(err))
	}
	appLogger.Info("Authorized on account", zap.String("username", api.Self.UserName))

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := api.GetUpdatesChan(u)

	bot := telegram.NewBot(api, components.MCQ, cfg.Transcription.MaxDuration)
	go func() {
		<-ctx.Done()
		api.StopReceivingUpdates()
	}()
	bot.Run(ctx, updates)
	appLogger.Info("Bot stopped")
}
