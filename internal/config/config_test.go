package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Trading.MinStockPrice != 5.0 {
		t.Errorf("min_stock_price = %v, want 5.0", cfg.Trading.MinStockPrice)
	}
	if cfg.Trading.DropThreshold != 0.30 || cfg.Trading.ProfitTarget != 0.10 {
		t.Errorf("thresholds = %v/%v, want 0.30/0.10", cfg.Trading.DropThreshold, cfg.Trading.ProfitTarget)
	}
	if cfg.Cache.Enabled == nil || !*cfg.Cache.Enabled {
		t.Error("caching should default to enabled")
	}
	if cfg.Cache.PriceExpirySeconds != 120 || cfg.Cache.HistoryExpirySeconds != 1800 || cfg.Cache.FilterExpirySeconds != 600 {
		t.Error("unexpected default cache expiries")
	}
	if cfg.Cache.MarketClosedMultiplier != 6 {
		t.Errorf("closed multiplier = %v, want 6", cfg.Cache.MarketClosedMultiplier)
	}
	if len(cfg.Trading.Symbols) == 0 {
		t.Error("default symbol universe should not be empty")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
trading:
  drop_threshold: 0.20
  symbols: ["AAPL", "MSFT"]
cache:
  enabled: false
`
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CACHE_PRICE_EXPIRY", "42")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Trading.DropThreshold != 0.20 {
		t.Errorf("drop_threshold = %v, want 0.20 from file", cfg.Trading.DropThreshold)
	}
	if len(cfg.Trading.Symbols) != 2 {
		t.Errorf("symbols = %v, want the configured pair", cfg.Trading.Symbols)
	}
	if cfg.Cache.Enabled == nil || *cfg.Cache.Enabled {
		t.Error("cache.enabled=false in the file must stick")
	}
	if cfg.Cache.PriceExpirySeconds != 42 {
		t.Errorf("price expiry = %d, want env override 42", cfg.Cache.PriceExpirySeconds)
	}
}

func TestValidate_Rejects(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	cfg.Trading.DropThreshold = 1.5
	if err := cfg.Validate(); err == nil {
		t.Error("drop threshold above 1 should be rejected")
	}

	cfg.Trading.DropThreshold = 0.3
	cfg.Trading.LookbackDays = 1
	if err := cfg.Validate(); err == nil {
		t.Error("lookback below 2 should be rejected")
	}
}
