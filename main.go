package main

import (
	"fmt"
	"os"
	"time"

	"locamoi-scraper/config"
	"locamoi-scraper/gazetteer"
	"locamoi-scraper/geocode"
	"locamoi-scraper/scraper/locamoi"
	"locamoi-scraper/services"
	"locamoi-scraper/storage"
	"locamoi-scraper/utils"
)

func main() {
	logger := utils.NewLogger()
	cfg := config.Load()

	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration: %v", err)
		os.Exit(1)
	}

	regions, err := gazetteer.Load(cfg.GazetteerPath)
	if err != nil {
		logger.Error("Failed to load gazetteer: %v", err)
		os.Exit(1)
	}

	logger.Info("=== Locamoi Scraping System starting ===")
	logger.Info("Config — max pages: %d | fetch workers: %d | geocode workers: %d | rate: %dms",
		cfg.MaxPages, cfg.FetchConcurrency, cfg.GeocodeConcurrency, cfg.RateLimitMs)

	rawWriter, err := storage.NewRawCSVWriter(cfg.RawCSVPath)
	if err != nil {
		logger.Error("Failed to create raw CSV writer: %v", err)
		os.Exit(1)
	}

	cleanWriter, err := storage.NewCleanCSVWriter(cfg.CleanCSVPath)
	if err != nil {
		logger.Error("Failed to create clean CSV writer: %v", err)
		os.Exit(1)
	}

	scraper := locamoi.New(cfg, logger)
	rawListings, failedTasks := scraper.Scrape(regions)
	if failedTasks > 0 {
		logger.Warn("%d tasks failed and contributed no listings", failedTasks)
	}

	logger.Info("Scraped %d raw listings — writing to CSV...", len(rawListings))
	if err := rawWriter.Write(rawListings); err != nil {
		logger.Error("Raw CSV write failed: %v", err)
	} else {
		logger.Info("Raw listings saved to %s", cfg.RawCSVPath)
	}
	if err := rawWriter.Close(); err != nil {
		logger.Error("Closing raw CSV: %v", err)
	}

	geoClient := geocode.NewClient(cfg.PositionStackKey, cfg.GeocodeCountry,
		time.Duration(cfg.GeocodeTimeoutS)*time.Second)
	resolver := geocode.NewResolver(geoClient, logger, cfg.GeocodeConcurrency, cfg.GeocodeDelayMs)

	cleaner := services.NewCleaner(logger)
	stages := append(cleaner.Stages(), services.Stage{Name: "geocode", Apply: resolver.Annotate})
	pipeline := services.NewPipeline(logger, stages...)

	cleanListings := pipeline.Run(rawListings)
	logger.Info("Cleaned dataset: %d listings", len(cleanListings))

	if err := cleanWriter.Write(cleanListings); err != nil {
		logger.Error("Clean CSV write failed: %v", err)
	} else {
		logger.Info("Clean dataset saved to %s", cfg.CleanCSVPath)
	}
	if err := cleanWriter.Close(); err != nil {
		logger.Error("Closing clean CSV: %v", err)
	}

	// Database mirror is best effort: the CSV on disk is the artifact of
	// record and the run completes without PostgreSQL.
	if pgWriter, err := storage.NewPostgresWriter(cfg.DSN(), logger); err != nil {
		logger.Warn("PostgreSQL unavailable — skipping database mirror: %v", err)
	} else {
		if err := pgWriter.Write(cleanListings); err != nil {
			logger.Error("PostgreSQL write failed: %v", err)
		} else {
			logger.Info("Clean listings mirrored to PostgreSQL (table: listings)")
		}
		if err := pgWriter.Close(); err != nil {
			logger.Error("Closing PostgreSQL: %v", err)
		}
	}

	statsSvc := services.NewStatsService(logger)
	report := statsSvc.Generate(cleanListings)
	statsSvc.Print(report)

	fmt.Printf("  Done. Raw CSV → %s | Clean CSV → %s\n\n",
		cfg.RawCSVPath, cfg.CleanCSVPath)
}
