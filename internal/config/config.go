package config

import (
	"os"
	"strconv"

	"replab/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Database    DatabaseConfig
	Server      ServerConfig
	Artifacts   ArtifactConfig
	Materialize MaterializeConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	URL string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port          string
	GinMode       string
	ArtifactsPort string
}

// ArtifactConfig holds where materialized artifacts are written
type ArtifactConfig struct {
	Root string
}

// MaterializeConfig holds generation-side defaults baked into notebooks.
// These become env-var defaults inside the generated code, not values the
// generator reads at its own runtime.
type MaterializeConfig struct {
	OfflineMode     bool
	DatasetCacheDir string
	MaxTrainSamples int
	MaxBOWFeatures  int
	UploadStageDir  string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	cfg := &Config{
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Server: ServerConfig{
			Port:          getEnv("PORT", "8080"),
			GinMode:       getEnv("GIN_MODE", "debug"),
			ArtifactsPort: getEnv("ARTIFACTS_PORT", "8081"),
		},
		Artifacts: ArtifactConfig{
			Root: getEnv("ARTIFACT_ROOT", "./artifacts"),
		},
		Materialize: MaterializeConfig{
			OfflineMode:     getEnvBool("OFFLINE_MODE", false),
			DatasetCacheDir: getEnv("DATASET_CACHE_DIR", "./data"),
			MaxTrainSamples: getEnvInt("MAX_TRAIN_SAMPLES", 5000),
			MaxBOWFeatures:  getEnvInt("MAX_BOW_FEATURES", 1000),
			UploadStageDir:  getEnv("UPLOAD_STAGE_DIR", "./uploads"),
		},
	}

	if cfg.Artifacts.Root == "" {
		return nil, errors.ConfigInvalid("ARTIFACT_ROOT must not be empty")
	}
	if cfg.Materialize.MaxTrainSamples <= 0 {
		return nil, errors.ConfigInvalid("MAX_TRAIN_SAMPLES must be positive")
	}
	if cfg.Materialize.MaxBOWFeatures <= 0 {
		return nil, errors.ConfigInvalid("MAX_BOW_FEATURES must be positive")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}
