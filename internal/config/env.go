package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables that override the config file.
const (
	EnvDB        = "GOALPOST_DB"
	EnvCurrency  = "GOALPOST_CURRENCY"
	EnvLedgerDir = "GOALPOST_LEDGER_DIR"
	EnvLogLevel  = "GOALPOST_LOG_LEVEL"
)

// LoadDotEnv loads KEY=VALUE pairs from path into the process environment.
// Variables already set win. A missing file is not an error.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// ApplyEnv returns cfg with GOALPOST_* overrides applied.
func ApplyEnv(cfg Config) Config {
	if v := strings.TrimSpace(os.Getenv(EnvDB)); v != "" {
		cfg.Storage.DBPath = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvCurrency)); v != "" {
		cfg.General.Currency = strings.ToUpper(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLedgerDir)); v != "" {
		cfg.General.LedgerDir = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Log.Level = v
	}
	return cfg
}
