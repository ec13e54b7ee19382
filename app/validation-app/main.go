package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"brandreco/business/scoring"
	"brandreco/business/validation"
	"brandreco/domain"
	psqlRepo "brandreco/internal/repository/postgres"
	"brandreco/internal/trainer"
	"brandreco/pkg/config"
	"brandreco/pkg/database"
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
	logger.Info("Starting validation app", "app", cfg.App.Name, "version", cfg.App.Version)

	metrics.Init()

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	// Init validate
	validate := validator.New()

	// Init repo
	interactionRepo := psqlRepo.NewInteractionRepository(db)
	productRepo := psqlRepo.NewProductRepository(db)
	validationRunRepo := psqlRepo.NewValidationRunRepository(db)

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

	seed := cfg.Validation.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger.Info("Validation randomness seeded", "seed", seed)

	validationService, err := validation.NewService(
		validation.Params{
			NRec:       cfg.Validation.NRec,
			KVal:       cfg.Validation.KVal,
			Alpha:      cfg.Validation.AlphaVal,
			BGCutpoint: cfg.Validation.BGCutpoint,
			CycleCount: cfg.Validation.CycleCount,
			NSample:    cfg.Validation.NSample,
		},
		trainer.NewArtifactLoader(cfg.Validation.CFArtifactPath),
		// content-based artifact is trained out-of-process from the
		// product_information rows checked below
		trainer.NewArtifactLoader(cfg.Validation.CBArtifactPath),
		validationRunRepo,
		rand.New(rand.NewSource(seed)),
		validate,
	)
	if err != nil {
		logger.Fatal("Failed to build validation service", "error", err)
	}

	// Ops listener: health and prometheus scrape while the batch runs
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echomiddleware.Recover())
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, fres.Response.StatusOK("validation app running"))
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
	if err := run(ctx, cfg, interactionRepo, productRepo, scoringService, validationService); err != nil {
		logger.Error("Validation app failed", "error", err)
		exitCode = 1
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Ops listener shutdown error", "error", err)
	}

	os.Exit(exitCode)
}

func run(
	ctx context.Context,
	cfg *config.Config,
	interactionRepo *psqlRepo.InteractionRepository,
	productRepo *psqlRepo.ProductRepository,
	scoringService *scoring.Service,
	validationService *validation.Service,
) error {
	start := time.Now()

	events, err := interactionRepo.FetchInteractions(ctx, cfg.Scoring.LastNWeeks)
	if err != nil {
		return err
	}
	logger.Info("Customer interactions fetched", "rows", len(events))

	scored, err := scoringService.ScoreInteractions(events)
	if err != nil {
		return err
	}

	// Catalog sanity check: scored segments should be known products
	products, err := productRepo.FindAll(ctx)
	if err != nil {
		return err
	}
	logCatalogCoverage(scored, products)

	report, err := validationService.Run(ctx, scored)
	if err != nil {
		return err
	}

	metrics.ValidationRunDuration.Observe(time.Since(start).Seconds())
	logger.Info("Validation completed",
		"run_id", report.RunID,
		"collaborative_maf_at_k", report.Collaborative[validation.MetricMAFAtK],
		"content_maf_at_k", report.Content[validation.MetricMAFAtK],
		"blended_maf_at_k", report.Blended[validation.MetricMAFAtK],
		"elapsed", time.Since(start).String(),
	)

	return nil
}

// logCatalogCoverage warns when scored segments reference brand/gender
// pairs absent from the product catalog, a symptom of a stale extract.
func logCatalogCoverage(scored []domain.ScoredInteraction, products []domain.ProductInfo) {
	known := make(map[string]struct{}, len(products))
	for _, p := range products {
		known[scoring.BrandGenderKey(p.BrandID, p.Gender)] = struct{}{}
	}

	unknown := 0
	seen := make(map[string]struct{})
	for _, sc := range scored {
		if _, ok := seen[sc.BrandGender]; ok {
			continue
		}
		seen[sc.BrandGender] = struct{}{}
		if _, ok := known[sc.BrandGender]; !ok {
			unknown++
		}
	}

	if unknown > 0 {
		logger.Warn("Scored segments missing from product catalog",
			"unknown_segments", unknown, "distinct_segments", len(seen))
		return
	}

	logger.Info("Catalog coverage check passed",
		"distinct_segments", len(seen), "catalog_rows", len(products))
}
