package main

import (
	"log"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"replab/adapters/codegen"
	"replab/adapters/excel"
	"replab/adapters/postgres"
	"replab/adapters/storage"
	"replab/app"
	"replab/domain/registry"
	"replab/internal/config"
	"replab/internal/errors"
	"replab/internal/validation"
	"replab/ui"
)

// initDatabase initializes the PostgreSQL database connection
func initDatabase(appConfig *config.Config) (*sqlx.DB, error) {
	if appConfig.Database.URL == "" {
		return nil, errors.ConfigInvalid("DATABASE_URL is required")
	}

	db, err := sqlx.Connect("postgres", appConfig.Database.URL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}
	if err := db.Ping(); err != nil {
		return nil, errors.Wrap(err, "failed to ping database")
	}
	return db, nil
}

func main() {
	// Load .env if present (development convenience)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := initDatabase(appConfig)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	planRepo := postgres.NewPlanRepository(db)
	paperRepo := postgres.NewPaperRepository(db)
	claimRepo := postgres.NewClaimRepository(db)
	assetRepo := postgres.NewAssetRepository(db)

	store := storage.NewLocalStore(appConfig.Artifacts.Root)
	factory := codegen.NewFactory(registry.Default(), excel.NewSniffer(), appConfig.Materialize)
	validator := validation.NewNotebookValidator()
	service := app.NewMaterializeService(factory, validator, store, assetRepo, claimRepo)

	// Artifacts file server runs alongside the API
	artifacts := ui.NewArtifactsApp(appConfig.Artifacts.Root)
	go func() {
		if err := artifacts.Run(":" + appConfig.Server.ArtifactsPort); err != nil {
			log.Fatalf("Artifacts server failed: %v", err)
		}
	}()

	server := ui.NewServer(planRepo, paperRepo, assetRepo, store, service)
	if err := server.Run(":" + appConfig.Server.Port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
