package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"brandreco/business/scoring"
	"brandreco/business/updater"
	psqlRepo "brandreco/internal/repository/postgres"
	redisRepo "brandreco/internal/repository/redis"
	"brandreco/pkg/config"
	"brandreco/pkg/database"
	redisClient "brandreco/pkg/database/redis"
	"brandreco/pkg/logger"
	"brandreco/pkg/metrics"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting db-update app", "app", cfg.App.Name, "version", cfg.App.Version)

	metrics.Init()

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	rdb, err := redisClient.NewRedisClient(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", "error", err)
	}
	defer func() {
		if err := redisClient.CloseRedisClient(rdb); err != nil {
			logger.Error("Failed to close Redis client", "error", err)
		}
	}()

	// Init validate
	validate := validator.New()

	// Init repo
	interactionRepo := psqlRepo.NewInteractionRepository(db)
	scoreRepo := redisRepo.NewScoreRepository(rdb)

	// Init service
	scoringService, err := scoring.NewService(scoring.Params{
		LastNWeeks:            cfg.Scoring.LastNWeeks,
		PWeight:               cfg.Scoring.PWeight,
		WWeight:               cfg.Scoring.WWeight,
		DecayWeight:           cfg.Scoring.DecayWeight,
		DecayWeightMultiplier: cfg.Scoring.DecayWeightMultiplier,
	}, validate)
	if err != nil {
		logger.Fatal("Failed to build scoring service", "error", err)
	}

	updaterService := updater.NewService(
		interactionRepo,
		scoreRepo,
		scoringService,
		cfg.Scoring.LastNWeeks,
		cfg.Updater.MinRecordExpected,
	)

	// Ops listener: health and prometheus scrape while the batch runs
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echomiddleware.Recover())
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, fres.Response.StatusOK("db-update app running"))
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Ops listener starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start ops listener", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	exitCode := 0
	if err := updaterService.Update(ctx); err != nil {
		logger.Error("Db update app failed", "error", err)
		exitCode = 1
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Ops listener shutdown error", "error", err)
	}

	os.Exit(exitCode)
}
