// @title Quizify API
// @version 1.0
// @description API for generating, grading, and emailing LLM-backed quizzes.
// @host localhost:8080
// @BasePath /api
// @schemes http https
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"quizify/internal/adapter"
	"quizify/internal/adapter/mailer"
	"quizify/internal/cache"
	"quizify/internal/config"
	"quizify/internal/database"
	"quizify/internal/domain"
	"quizify/internal/handler"
	"quizify/internal/logger"
	"quizify/internal/middleware"
	"quizify/internal/quizgen"
	"quizify/internal/repository"
	"quizify/internal/service"

	_ "quizify/cmd/api/docs"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// requestLogger logs every HTTP request with timing and status.
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		path := c.Path()
		method := c.Method()

		err := c.Next()

		logger.Get().Info("HTTP Request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("duration", time.Since(start)),
			zap.String("ip", c.IP()),
		)

		return err
	}
}

// newTextGenerator builds the LLM backend selected by LLM_SOURCE.
func newTextGenerator(cfg *config.Config, appLogger *zap.Logger) domain.TextGenerator {
	switch cfg.LLM.Source {
	case "openai":
		appLogger.Info("Initializing OpenAI generator", zap.String("model", cfg.LLM.OpenAI.Model))
		gen, err := quizgen.NewOpenAIGenerator(cfg.LLM.OpenAI.APIKey, cfg.LLM.OpenAI.Model, cfg.LLM.Timeout)
		if err != nil {
			appLogger.Fatal("Failed to create OpenAI generator", zap.Error(err))
		}
		return gen
	case "ollama":
		appLogger.Info("Initializing Ollama generator",
			zap.String("server_url", cfg.LLM.Ollama.ServerURL),
			zap.String("model", cfg.LLM.Ollama.Model))
		gen, err := quizgen.NewOllamaGenerator(cfg.LLM.Ollama.ServerURL, cfg.LLM.Ollama.Model, cfg.LLM.Timeout)
		if err != nil {
			appLogger.Fatal("Failed to create Ollama generator", zap.Error(err))
		}
		return gen
	default:
		appLogger.Fatal("Unsupported LLM source. Check LLM_SOURCE in config.",
			zap.String("source", cfg.LLM.Source))
		return nil
	}
}

func main() {
	// Optional .env for local development.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	generator := newTextGenerator(cfg, appLogger)

	db, err := database.NewSQLXOracleDB(cfg.GetDSN())
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	quizRepository := repository.NewQuizDatabaseAdapter(db)
	attemptRepository := repository.NewAttemptDatabaseAdapter(db)

	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	appLogger.Info("Successfully connected to Redis")
	cacheAdapter := adapter.NewRedisCacheAdapter(redisClient)

	smtpMailer, err := mailer.NewSMTPMailer(cfg.SMTP)
	if err != nil {
		appLogger.Fatal("Failed to configure SMTP mailer", zap.Error(err))
	}

	quizService := service.NewQuizService(quizRepository, attemptRepository, generator, cacheAdapter, cfg)
	emailService := service.NewEmailService(attemptRepository, quizRepository, smtpMailer)

	quizHandler := handler.NewQuizHandler(quizService, emailService)

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(requestLogger())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
		MaxAge:       300,
	}))
	app.Use(recover.New())

	app.Get("/swagger/*", swagger.HandlerDefault)

	quizHandler.RegisterRoutes(app.Group("/api"))

	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", cfg.Logger.Env))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		appLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
