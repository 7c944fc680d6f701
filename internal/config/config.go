package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config is the hosting runtime's configuration, read from the environment
// (optionally seeded from a .env file).
type Config struct {
	DatabaseDriver string `validate:"oneof=sqlite postgres"`
	DatabasePath   string `validate:"required_if=DatabaseDriver sqlite"`
	DatabaseDSN    string `validate:"required_if=DatabaseDriver postgres"`
	ListenPort     int    `validate:"gte=0,lte=65535"`
	ChainID        uint64 `validate:"required"`
}

// Load reads configuration from the environment. A missing .env file is not
// an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseDriver: envOr("INDEXER_DB_DRIVER", "sqlite"),
		DatabasePath:   envOr("INDEXER_DB_PATH", defaultDBPath()),
		DatabaseDSN:    os.Getenv("INDEXER_DB_DSN"),
		ListenPort:     8080,
		ChainID:        1,
	}

	if v := os.Getenv("INDEXER_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid INDEXER_PORT %q: %w", v, err)
		}
		cfg.ListenPort = port
	}

	if v := os.Getenv("INDEXER_CHAIN_ID"); v != "" {
		chainID, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid INDEXER_CHAIN_ID %q: %w", v, err)
		}
		cfg.ChainID = chainID
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "split-indexer.db"
	}
	return home + "/split-indexer.db"
}
