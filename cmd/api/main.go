package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tnhnyldz/LinkShorteningAssignment/internal/config"
	"github.com/tnhnyldz/LinkShorteningAssignment/internal/handler"
	"github.com/tnhnyldz/LinkShorteningAssignment/internal/middleware"
	"github.com/tnhnyldz/LinkShorteningAssignment/internal/repository"
	"github.com/tnhnyldz/LinkShorteningAssignment/internal/service"
	"go.uber.org/zap"
)

func main() {
	// Загрузка конфига
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Инициализация логгера
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Подключение к БД (postgres)
	db, err := repository.NewPostgresDB(cfg.DB)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()
	logger.Info("Connected to PostgreSQL")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := db.InitSchema(ctx); err != nil {
		cancel()
		logger.Fatal("Failed to initialize schema", zap.Error(err))
	}
	cancel()

	// Подключение к Redis
	redis, err := repository.NewRedisClient(cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redis.Close()
	logger.Info("Connected to Redis")

	// Инициализация репозиториев
	linkRepo := repository.NewLinkRepository(db)
	userRepo := repository.NewUserRepository(db)
	clickRepo := repository.NewClickRepository(db)
	cacheRepo := repository.NewCacheRepository(redis)

	// Инициализация сервисов
	keygen := service.NewKeyGenerator()
	linkService := service.NewLinkService(linkRepo, userRepo, cacheRepo, keygen, cfg.App.BaseURL, logger)
	userService := service.NewUserService(userRepo, linkRepo)
	authService := service.NewAuthService(userRepo, cfg.JWT)

	// Инициализация процессора кликов (Worker Pool)
	clickProcessor := service.NewClickProcessor(clickRepo, logger)
	clickProcessor.Start()
	defer clickProcessor.Stop()

	// Инициализация middleware
	rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		BurstSize:         cfg.RateLimit.BurstSize,
		CleanupInterval:   time.Minute,
	})

	// Настройка роутера
	router := handler.NewRouter(handler.RouterDeps{
		LinkService:    linkService,
		UserService:    userService,
		AuthService:    authService,
		ClickProcessor: clickProcessor,
		HealthHandler:  handler.NewHealthHandler(db, redis),
		RateLimiter:    rateLimiter,
		JWTConfig:      cfg.JWT,
		Logger:         logger,
	})

	// Запуск сервера
	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Запуск в горутине
	go func() {
		logger.Info("Server starting", zap.String("port", cfg.App.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
