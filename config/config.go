// Package config loads the gateway's process configuration from environment
// variables, with .env dev convenience loading.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all gateway configuration, per SPEC_FULL.md §6.
type Config struct {
	Enabled           bool
	Scheme            string
	Network           string
	Asset             string
	AssetDecimals     int
	DefaultPayTo      string
	MaxTimeoutSeconds int
	MimeType          string

	FacilitatorBaseURL string

	HiveBaseURL     string
	HiveAccount     string
	HiveTokenHeader string
	HiveToken       string

	ListenAddr string
}

// Load reads configuration from environment variables. A .env file in the
// working directory is loaded first if present (dev convenience); real
// environment variables always take precedence since godotenv.Load never
// overwrites an already-set variable.
func Load() (*Config, error) {
	_ = godotenv.Load() // no-op if .env is absent

	cfg := &Config{
		Enabled:           getEnvBool("X402_ENABLED", false),
		Scheme:            getEnv("X402_SCHEME", "exact"),
		Network:           getEnv("X402_NETWORK", "base-sepolia"),
		Asset:             getEnv("X402_ASSET", "0x036CbD53842c5426634E7929541eC2318f3dCF7e"),
		AssetDecimals:     getEnvInt("X402_ASSET_DECIMALS", 6),
		DefaultPayTo:      getEnv("X402_DEFAULT_PAY_TO", ""),
		MaxTimeoutSeconds: getEnvInt("X402_MAX_TIMEOUT_SECONDS", 30),
		MimeType:          getEnv("X402_MIME_TYPE", ""),

		FacilitatorBaseURL: getEnv("X402_FACILITATOR_URL", ""),

		HiveBaseURL:     getEnv("HIVE_BASE_URL", ""),
		HiveAccount:     getEnv("HIVE_ACCOUNT", ""),
		HiveTokenHeader: getEnv("HIVE_TOKEN_HEADER", "Authorization"),
		HiveToken:       getEnv("HIVE_TOKEN", ""),

		ListenAddr: getEnv("LISTEN_ADDR", ":8080"),
	}

	if cfg.Enabled {
		if cfg.FacilitatorBaseURL == "" {
			return nil, fmt.Errorf("X402_FACILITATOR_URL env var is required when X402_ENABLED is set")
		}
		if cfg.AssetDecimals < 0 {
			return nil, fmt.Errorf("X402_ASSET_DECIMALS must be non-negative")
		}
		if cfg.MaxTimeoutSeconds <= 0 {
			return nil, fmt.Errorf("X402_MAX_TIMEOUT_SECONDS must be positive")
		}
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := getEnv(key, "")
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	v := getEnv(key, "")
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
