package config

import (
	"os"
	"testing"
)

func clearX402Env(t *testing.T) {
	t.Helper()
	keys := []string{
		"X402_ENABLED", "X402_SCHEME", "X402_NETWORK", "X402_ASSET", "X402_ASSET_DECIMALS",
		"X402_DEFAULT_PAY_TO", "X402_MAX_TIMEOUT_SECONDS", "X402_MIME_TYPE", "X402_FACILITATOR_URL",
		"HIVE_BASE_URL", "HIVE_ACCOUNT", "HIVE_TOKEN_HEADER", "HIVE_TOKEN", "LISTEN_ADDR",
	}
	for _, k := range keys {
		old, existed := os.LookupEnv(k)
		_ = os.Unsetenv(k)
		t.Cleanup(func() {
			if existed {
				_ = os.Setenv(k, old)
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	clearX402Env(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Enabled {
		t.Fatal("expected Enabled=false by default")
	}
	if cfg.Scheme != "exact" {
		t.Fatalf("Scheme = %q, want exact", cfg.Scheme)
	}
	if cfg.AssetDecimals != 6 {
		t.Fatalf("AssetDecimals = %d, want 6", cfg.AssetDecimals)
	}
	if cfg.ListenAddr != ":8080" {
		t.Fatalf("ListenAddr = %q, want :8080", cfg.ListenAddr)
	}
}

func TestLoadRequiresFacilitatorURLWhenEnabled(t *testing.T) {
	clearX402Env(t)
	t.Setenv("X402_ENABLED", "true")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when enabled without a facilitator URL")
	}
}

func TestLoadSucceedsWhenEnabledWithFacilitator(t *testing.T) {
	clearX402Env(t)
	t.Setenv("X402_ENABLED", "true")
	t.Setenv("X402_FACILITATOR_URL", "https://facilitator.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.Enabled {
		t.Fatal("expected Enabled=true")
	}
	if cfg.FacilitatorBaseURL != "https://facilitator.example.com" {
		t.Fatalf("FacilitatorBaseURL = %q", cfg.FacilitatorBaseURL)
	}
}

func TestLoadOverridesFromEnv(t *testing.T) {
	clearX402Env(t)
	t.Setenv("X402_SCHEME", "custom-scheme")
	t.Setenv("X402_ASSET_DECIMALS", "18")
	t.Setenv("LISTEN_ADDR", ":9090")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Scheme != "custom-scheme" {
		t.Fatalf("Scheme = %q, want custom-scheme", cfg.Scheme)
	}
	if cfg.AssetDecimals != 18 {
		t.Fatalf("AssetDecimals = %d, want 18", cfg.AssetDecimals)
	}
	if cfg.ListenAddr != ":9090" {
		t.Fatalf("ListenAddr = %q, want :9090", cfg.ListenAddr)
	}
}
