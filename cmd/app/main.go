package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pr-review-dashboard/internal/analyzer"
	"pr-review-dashboard/internal/config"
	"pr-review-dashboard/internal/database"
	"pr-review-dashboard/internal/handler"
	"pr-review-dashboard/internal/repository"
	"pr-review-dashboard/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
)

func main() {
	// Логгер
	logger := logrus.New()
	logger.SetLevel(logrus.InfoLevel)
	logger.SetFormatter(&logrus.JSONFormatter{})

	// Конфиг
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Warnf(".env not found: %v", err)
	}

	// База данных (database/sql)
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		logger.Fatalf("Database connection failed: %v", err)
	}
	defer db.Close()
	logger.Info("Database connected")

	// Анализатор
	gemini, err := analyzer.NewGeminiAnalyzer(cfg.GeminiKey, cfg.GeminiModel)
	if err != nil {
		logger.Fatalf("Analyzer init failed: %v", err)
	}

	// Репозитории
	repoStore := repository.NewRepositoryRepo(db)
	prRepo := repository.NewPRRepository(db)
	fileRepo := repository.NewPRFileRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	mergeStatusRepo := repository.NewMergeStatusRepository(db)
	insightRepo := repository.NewInsightRepository(db)

	// Use Cases
	mergeStatusUC := usecase.NewMergeStatusUseCase(commentRepo, mergeStatusRepo)
	commentUC := usecase.NewCommentUseCase(commentRepo, reviewRepo, mergeStatusUC)
	reviewUC := usecase.NewReviewUseCase(gemini, prRepo, fileRepo, reviewRepo, commentRepo, insightRepo, mergeStatusUC)
	prUC := usecase.NewPRUseCase(repoStore, prRepo, fileRepo, insightRepo)

	// Echo + Handlers
	e := echo.New()
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(handler.LoggingMiddleware(logger))

	// Handlers
	apiHandler := handler.NewAPIHandler(prUC, reviewUC, commentUC, mergeStatusUC, logger)
	handler.RegisterRoutes(e, apiHandler)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	// Запуск сервера
	go func() {
		if err := e.Start(":" + cfg.ServerPort); err != nil {
			logger.Infof("Server stopped: %v", err)
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Fatalf("Shutdown failed: %v", err)
	}

	logger.Info("Server exited")
}
