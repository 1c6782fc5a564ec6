package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/avatarctic/content-board/configs"
	"github.com/avatarctic/content-board/internal/application/services"
	"github.com/avatarctic/content-board/internal/core/domain/permission"
	"github.com/avatarctic/content-board/internal/core/ports"
	"github.com/avatarctic/content-board/internal/infrastructure/db"
	"github.com/avatarctic/content-board/internal/infrastructure/health"
	"github.com/avatarctic/content-board/internal/infrastructure/httpserver"
	"github.com/avatarctic/content-board/internal/infrastructure/metrics"
	"github.com/avatarctic/content-board/internal/infrastructure/redis"
	"github.com/avatarctic/content-board/internal/infrastructure/repositories"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	logger := logrus.New()
	if cfg.Log.Format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		logger.SetLevel(logrus.InfoLevel)
	} else {
		logger.SetLevel(level)
	}

	logger.Info("Starting content board...")

	matrix := permission.DefaultMatrix()
	if cfg.Board.MatrixFile != "" {
		matrix, err = permission.LoadMatrixFile(cfg.Board.MatrixFile)
		if err != nil {
			logger.Fatal("Failed to load permission matrix:", err)
		}
		logger.WithField("file", cfg.Board.MatrixFile).Info("Loaded permission matrix override")
		for role, caps := range matrix.UnknownCapabilities() {
			logger.WithFields(logrus.Fields{"role": role, "capabilities": caps}).Warn("Permission matrix grants capabilities the board does not recognise")
		}
	}

	database, err := db.NewDatabaseWithConfig(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database:", err)
	}
	defer database.Close()

	logger.Info("Connected to database successfully")

	if err := database.Migrate(cfg.Database.MigrationsPath); err != nil {
		logger.Fatal("Failed to run migrations:", err)
	}

	hcSlice := []ports.HealthChecker{health.NewDBHealthChecker(database)}

	cardRepo := repositories.NewCardRepository(database, logger)
	eventRepo := repositories.NewEventRepository(database, logger)

	// Stage reads go through Redis when it is enabled; the card repository serves them otherwise.
	var stageRepo ports.StageRepository = cardRepo
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewRedisClient(&cfg.Redis)
		if err != nil {
			logger.Fatal("Failed to connect to Redis:", err)
		}
		defer redisClient.Close()
		logger.Info("Connected to Redis successfully")

		redisCache := redis.NewRedisCache(redisClient, cfg.Redis.KeyPrefix)
		stageRepo = repositories.NewCachingStageRepository(cardRepo, redisCache, cfg.Board.StageCacheTTL)
		hcSlice = append(hcSlice, health.NewRedisHealthChecker(redisClient))
	}

	var boardMetrics ports.BoardMetrics
	if cfg.Metrics.Enabled {
		boardMetrics = metrics.NewBoardMetrics()
	}

	evaluator := services.NewPermissionEvaluator(matrix)
	policy := services.NewStageAccessPolicy(evaluator)
	engine := services.NewCardOrderingEngine(logger)
	transitionService := services.NewStageTransitionService(cardRepo, engine, policy, boardMetrics, cfg.Board.MoveRetryAttempts, logger)
	cardService := services.NewCardService(cardRepo, stageRepo, engine, policy, evaluator, boardMetrics, logger)
	eventService := services.NewEventService(eventRepo, logger)
	tokenService := services.NewTokenService(&cfg.JWT)

	serverConfig := &httpserver.ServerConfig{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		TLSCertFile:    cfg.Server.TLSCertFile,
		TLSKeyFile:     cfg.Server.TLSKeyFile,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Environment:    cfg.Server.Environment,
		MetricsEnabled: cfg.Metrics.Enabled,
		MetricsPath:    cfg.Metrics.Path,
	}

	deps := httpserver.ServerDeps{
		TokenService:      tokenService,
		Evaluator:         evaluator,
		Policy:            policy,
		TransitionService: transitionService,
		CardService:       cardService,
		EventService:      eventService,
		HealthCheckers:    hcSlice,
	}

	server := httpserver.NewServer(serverConfig, logger, deps)

	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown:", err)
	}

	logger.Info("Server exited")
}
