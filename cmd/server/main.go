package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hellowhq67/pte-practice-service/internal/ai"
	"github.com/hellowhq67/pte-practice-service/internal/cache"
	"github.com/hellowhq67/pte-practice-service/internal/config"
	"github.com/hellowhq67/pte-practice-service/internal/handlers"
	"github.com/hellowhq67/pte-practice-service/internal/repositories/postgres"
	"github.com/hellowhq67/pte-practice-service/internal/services"
	"github.com/hellowhq67/pte-practice-service/internal/utils"
	"github.com/hellowhq67/pte-practice-service/pkg"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	var logger utils.Logger
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		logger = utils.NewDefaultLogger()
	} else {
		logger = utils.NewDevelopmentLogger()
	}
	slogger := utils.ToSlogLogger(logger)

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		logger.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}

	redisClient, err := pkg.NewRedisClient(cfg)
	if err != nil {
		logger.Error("Failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	publisher, err := cfg.Events.CreateEventPublisher(slogger)
	if err != nil {
		logger.Error("Failed to create event publisher", "error", err)
		os.Exit(1)
	}
	defer publisher.Close()

	var provider ai.Provider
	if cfg.OpenAIAPIKey != "" {
		openai, err := ai.NewOpenAIProvider(ai.OpenAIConfig{
			APIKey:  cfg.OpenAIAPIKey,
			BaseURL: cfg.OpenAIBaseURL,
			Model:   cfg.OpenAIModel,
		})
		if err != nil {
			logger.Error("Failed to create AI provider", "error", err)
			os.Exit(1)
		}
		provider = ai.WithRetry(openai, ai.DefaultRetryConfig())
	} else {
		logger.Warn("OPENAI_API_KEY not set, AI scoring endpoints will report unavailable")
	}

	// Repositories
	questionRepo := postgres.NewQuestionPostgreSQL(db)
	attemptRepo := postgres.NewAttemptPostgreSQL(db)
	userRepo := postgres.NewUserPostgreSQL(db)

	// Shared infrastructure
	cacheService := cache.NewRedisCache(redisClient, logger)
	validate := utils.NewValidator()

	// Services
	questionService := services.NewQuestionService(questionRepo, cacheService, slogger, validate)
	practiceService := services.NewPracticeService(questionRepo, attemptRepo, publisher, slogger, validate)
	aiScoringService := services.NewAIScoringService(attemptRepo, questionRepo, provider, publisher, slogger)
	importService := services.NewImportService(questionRepo, publisher, slogger, validate)
	userService := services.NewUserService(userRepo, slogger, validate)

	// HTTP
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.LoggerMiddleware(logger))

	handlerManager := handlers.NewHandlerManager(questionService, importService, practiceService, aiScoringService, userService, logger)
	handlerManager.SetupRoutes(router)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("Starting server", "port", cfg.Port, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Forced shutdown", "error", err)
	}
	logger.Info("Server stopped")
}
