package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
	"valorant-sync/internal/constants"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

type Config struct {
	RiotAPIKey   string
	RiotBaseURL  string
	CatalogURL   string
	DBPath       string
	LogLevel     string
	SyncInterval time.Duration
	SyncWorkers  int
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		RiotAPIKey:   getEnv("RIOT_API_KEY", ""),
		RiotBaseURL:  getEnv("RIOT_BASE_URL", "https://ap.api.riotgames.com"),
		CatalogURL:   getEnv("CATALOG_URL", "https://valorant-api.com/v1"),
		DBPath:       getEnv("DB_PATH", "valorant.db"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		SyncInterval: getEnvDuration("SYNC_INTERVAL", constants.SyncInterval),
		SyncWorkers:  getEnvInt("SYNC_WORKERS", constants.SyncWorkers),
	}

	if cfg.RiotAPIKey == "" {
		return nil, fmt.Errorf("RIOT_API_KEY is required")
	}
	if cfg.SyncWorkers < 1 {
		return nil, fmt.Errorf("SYNC_WORKERS must be at least 1")
	}

	logger.Info().
		Str("db_path", cfg.DBPath).
		Str("log_level", cfg.LogLevel).
		Dur("sync_interval", cfg.SyncInterval).
		Int("sync_workers", cfg.SyncWorkers).
		Msg("configuration loaded")

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
