package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"recruitpme/cv-matcher/internal/config"
	"recruitpme/cv-matcher/internal/handlers"
	"recruitpme/cv-matcher/internal/logger"
	"recruitpme/cv-matcher/internal/services"
)

func main() {
	cfg := config.Load()

	zapLogger, err := logger.New(cfg.Server.Env == "production", cfg.Server.Env == "development")
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("config loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("embed_model", cfg.Gemini.EmbedModel),
	)

	// Storage
	storageService := services.NewStorageService(cfg.Storage.UploadPath, cfg.Storage.AllowedExtensions)
	if err := storageService.EnsureUploadDir(); err != nil {
		zapLogger.Fatal("failed to create upload directory", zap.Error(err))
	}

	// Embedding model (loaded once, reused, never swapped mid-request)
	ctx := context.Background()
	embeddingModel, err := services.NewGeminiModel(ctx, cfg.Gemini, cfg.Matching.EmbeddingDimension)
	if err != nil {
		zapLogger.Fatal("failed to initialize embedding model", zap.Error(err))
	}
	zapLogger.Info("embedding model initialized")

	// Pipeline components
	processor := services.NewTextProcessor()
	encoder := services.NewTextEncoder(embeddingModel, cfg.Matching)
	matcher := services.NewMatcher(cfg.Matching)
	recognizer := services.NewProseRecognizer()
	analyzer := services.NewEntityAnalyzer(recognizer, cfg.Analysis, zapLogger)
	summarizer := services.NewMatchSummarizer(analyzer)
	extractor := services.NewCVExtractor(cfg.Storage.AllowedExtensions, zapLogger)

	matchService := services.NewMatchService(
		processor,
		encoder,
		matcher,
		analyzer,
		summarizer,
		cfg.Worker.Concurrency,
		zapLogger,
	)
	zapLogger.Info("services initialized")

	// Handlers
	matchHandler := handlers.NewMatchHandler(
		matchService,
		extractor,
		storageService,
		cfg.Storage.UploadPath,
		cfg.Storage.MaxFileSize,
	)
	analyzeHandler := handlers.NewAnalyzeHandler(
		matchService,
		extractor,
		storageService,
		cfg.Storage.MaxFileSize,
	)

	app := fiber.New(fiber.Config{
		AppName:      "RecruitPME CV Matcher API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize),
		ErrorHandler: customErrorHandler,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	api := app.Group("/api/v1")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	api.Post("/match", matchHandler.HandleMatch)
	api.Post("/analyze/cv", analyzeHandler.HandleAnalyzeCV)
	api.Post("/analyze/job", analyzeHandler.HandleAnalyzeJob)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "RecruitPME CV Matcher API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/match",
				"POST /api/v1/analyze/cv",
				"POST /api/v1/analyze/job",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		zapLogger.Info("shutting down server")
		if err := app.Shutdown(); err != nil {
			zapLogger.Error("server forced to shutdown", zap.Error(err))
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	zapLogger.Info("server starting", zap.String("addr", addr))

	if err := app.Listen(addr); err != nil {
		zapLogger.Fatal("failed to start server", zap.Error(err))
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
