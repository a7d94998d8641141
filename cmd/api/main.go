// @title MCQ Generator API
// @version 1.0
// @description Generates multiple-choice quizzes from documents, text and short audio recordings.
// @host localhost:8090
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_JWT_TOKEN' to authorize.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "mcq-generator/cmd/api/docs"
	"mcq-generator/internal/app"
	"mcq-generator/internal/config"
	"mcq-generator/internal/handler"
	"mcq-generator/internal/logger"
	"mcq-generator/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	components, err := app.Build(ctx, cfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize application", zap.Error(err))
	}
	defer components.Close()

	go func() {
		if err := components.Template.Watch(ctx); err != nil {
			appLogger.Warn("Template hot reload disabled", zap.Error(err))
		}
	}()

	// Initialize handlers
	vm := middleware.NewValidationMiddleware(components.Validator)
	mcqHandler := handler.NewMCQHandler(components.MCQ)
	quizHandler := handler.NewQuizHandler(components.MCQ)
	authHandler := handler.NewAuthHandler(components.Auth, components.Validator)
	systemHandler := handler.NewSystemHandler(components.Template, components.Cache)

	fiberApp := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		BodyLimit:    cfg.Server.BodyLimit,
		ErrorHandler: middleware.ErrorHandler(),
	})

	fiberApp.Use(recover.New())
	fiberApp.Use(middleware.RequestLogger())
	fiberApp.Use(cors.New(cors.Config{AllowOrigins: "*", AllowMethods: "GET,POST,OPTIONS", AllowHeaders: "Origin,Content-Type,Accept,Authorization", MaxAge: 300}))

	fiberApp.Get("/", systemHandler.Index)
	fiberApp.Get("/health", systemHandler.Health)
	fiberApp.Get("/swagger/*", swagger.HandlerDefault)

	apiGroup := fiberApp.Group("/api")
	apiGroup.Get("/template", systemHandler.Template)
	apiGroup.Post("/auth/token", authHandler.IssueToken)

	protected := middleware.Protected(components.Auth)
	apiGroup.Post("/mcq/file", protected, mcqHandler.GenerateFromFile)
	apiGroup.Post("/mcq/audio", protected, mcqHandler.GenerateFromAudio)
	apiGroup.Post("/mcq/text", protected, mcqHandler.GenerateFromText)
	apiGroup.Post("/transcribe", protected, mcqHandler.Transcribe)
	apiGroup.Get("/quizzes", protected, vm.ValidateListLimit(), quizHandler.ListQuizzes)
	apiGroup.Get("/quizzes/:id", protected, vm.ValidateQuizID(), quizHandler.GetQuiz)

	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", cfg.Logger.Env))
		if err := fiberApp.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := fiberApp.ShutdownWithContext(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
