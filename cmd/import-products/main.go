package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/navafv/familyplus/internal/clients"
	"github.com/navafv/familyplus/internal/config"
	"github.com/navafv/familyplus/internal/jobs"
	"github.com/navafv/familyplus/internal/models"
	"github.com/navafv/familyplus/internal/repository"
)

// import-products loads the external catalog into the store database.
// It is configured through the same environment as the storefront.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	if level, err := logrus.ParseLevel(cfg.App.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	db, err := gorm.Open(postgres.Open(cfg.GetDatabaseDSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	if err := repository.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	retrier := clients.NewRetrier(clients.DefaultRetryConfig(cfg.Import.MaxRetries))
	source := clients.NewCatalogClient(cfg.Import.APIURL, cfg.Import.RequestTimeout, retrier)
	downloader := clients.NewImageDownloader(
		clients.NewLocalMediaStore(cfg.Import.MediaDir),
		cfg.Import.DownloadsPerSecond,
		cfg.Import.RequestTimeout,
		retrier,
	)
	catalogRepo := repository.NewCatalogRepository(db)

	job := jobs.NewCatalogImportJob(source, catalogRepo, downloader, logger)

	startedAt := time.Now()
	outcomes, err := job.Run(ctx)
	if err != nil && outcomes == nil {
		log.Fatalf("Catalog import failed: %v", err)
	}
	if err != nil {
		logger.WithError(err).Warn("Catalog import interrupted")
	}

	result := models.Summarize(outcomes)
	logger.WithFields(logrus.Fields{
		"source":  cfg.Import.APIURL,
		"total":   result.TotalRows,
		"created": result.CreatedCount,
		"skipped": result.SkippedCount,
		"failed":  result.FailedCount,
	}).Info("Catalog import finished")

	outcomesJSON, err := json.Marshal(outcomes)
	if err != nil {
		log.Fatalf("Failed to encode import outcomes: %v", err)
	}
	run := &models.ImportRun{
		Source:       cfg.Import.APIURL,
		StartedAt:    startedAt,
		FinishedAt:   time.Now(),
		TotalRows:    result.TotalRows,
		CreatedCount: result.CreatedCount,
		SkippedCount: result.SkippedCount,
		FailedCount:  result.FailedCount,
		Outcomes:     datatypes.JSON(outcomesJSON),
	}
	if err := catalogRepo.CreateImportRun(context.Background(), run); err != nil {
		logger.WithError(err).Error("Failed to record import run")
	}

	if cfg.Import.ReportPath != "" {
		if err := jobs.WriteImportReport(cfg.Import.ReportPath, cfg.Import.APIURL, startedAt, result); err != nil {
			logger.WithError(err).Error("Failed to write import report")
		} else {
			log.Printf("✓ Import report written to %s", cfg.Import.ReportPath)
		}
	}
}
