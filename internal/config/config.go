package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Alpaca struct {
		APIKey    string `yaml:"api_key"`
		SecretKey string `yaml:"secret_key"`
		Paper     *bool  `yaml:"paper"`
	} `yaml:"alpaca"`
	Trading struct {
		MinStockPrice float64  `yaml:"min_stock_price"`
		DropThreshold float64  `yaml:"drop_threshold"`
		ProfitTarget  float64  `yaml:"profit_target"`
		LookbackDays  int      `yaml:"lookback_days"`
		Symbols       []string `yaml:"symbols"`
	} `yaml:"trading"`
	Cache struct {
		Enabled                *bool   `yaml:"enabled"`
		PriceExpirySeconds     int     `yaml:"price_expiry_seconds"`
		HistoryExpirySeconds   int     `yaml:"history_expiry_seconds"`
		FilterExpirySeconds    int     `yaml:"filter_expiry_seconds"`
		MarketClosedMultiplier float64 `yaml:"market_closed_multiplier"`
		File                   string  `yaml:"file"`
	} `yaml:"cache"`
	Files struct {
		Watchlist string `yaml:"watchlist"`
		Holdings  string `yaml:"holdings"`
		Trades    string `yaml:"trades"`
	} `yaml:"files"`
	Schedule struct {
		CycleCron string `yaml:"cycle_cron"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	HTTP struct {
		ListenAddr string `yaml:"listen_addr"`
	} `yaml:"http"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("APCA_API_KEY_ID"); v != "" {
		cfg.Alpaca.APIKey = v
	}
	if v := os.Getenv("APCA_API_SECRET_KEY"); v != "" {
		cfg.Alpaca.SecretKey = v
	}
	if v := os.Getenv("PAPER_TRADING"); v != "" {
		b := v == "true" || v == "True" || v == "1"
		cfg.Alpaca.Paper = &b
	}
	if v := os.Getenv("ENABLE_CACHING"); v != "" {
		b := v == "true" || v == "True" || v == "1"
		cfg.Cache.Enabled = &b
	}
	if v := os.Getenv("CACHE_PRICE_EXPIRY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Cache.PriceExpirySeconds = n
		}
	}
	if v := os.Getenv("CACHE_HISTORY_EXPIRY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Cache.HistoryExpirySeconds = n
		}
	}
	if v := os.Getenv("CACHE_FILTER_EXPIRY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Cache.FilterExpirySeconds = n
		}
	}
	if v := os.Getenv("CACHE_MARKET_CLOSED_MULTIPLIER"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Cache.MarketClosedMultiplier = f
		}
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("CYCLE_CRON"); v != "" {
		cfg.Schedule.CycleCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		cfg.HTTP.ListenAddr = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	applyDefaults(cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Alpaca.Paper == nil {
		b := true
		cfg.Alpaca.Paper = &b
	}
	if cfg.Trading.MinStockPrice == 0 {
		cfg.Trading.MinStockPrice = 5.0 // avoid penny stocks
	}
	if cfg.Trading.DropThreshold == 0 {
		cfg.Trading.DropThreshold = 0.30
	}
	if cfg.Trading.ProfitTarget == 0 {
		cfg.Trading.ProfitTarget = 0.10
	}
	if cfg.Trading.LookbackDays == 0 {
		cfg.Trading.LookbackDays = 7
	}
	if len(cfg.Trading.Symbols) == 0 {
		cfg.Trading.Symbols = DefaultSymbols
	}
	if cfg.Cache.Enabled == nil {
		b := true
		cfg.Cache.Enabled = &b
	}
	if cfg.Cache.PriceExpirySeconds == 0 {
		cfg.Cache.PriceExpirySeconds = 120
	}
	if cfg.Cache.HistoryExpirySeconds == 0 {
		cfg.Cache.HistoryExpirySeconds = 1800
	}
	if cfg.Cache.FilterExpirySeconds == 0 {
		cfg.Cache.FilterExpirySeconds = 600
	}
	if cfg.Cache.MarketClosedMultiplier == 0 {
		cfg.Cache.MarketClosedMultiplier = 6
	}
	if cfg.Cache.File == "" {
		cfg.Cache.File = "data/cache.json"
	}
	if cfg.Files.Watchlist == "" {
		cfg.Files.Watchlist = "data/watchlist.json"
	}
	if cfg.Files.Holdings == "" {
		cfg.Files.Holdings = "data/holdings.json"
	}
	if cfg.Files.Trades == "" {
		cfg.Files.Trades = "data/trades.json"
	}
	if cfg.Schedule.CycleCron == "" {
		cfg.Schedule.CycleCron = "0 */5 * * * *" // every 5 minutes
	}
	if cfg.HTTP.ListenAddr == "" {
		cfg.HTTP.ListenAddr = ":5000"
	}
}

// Validate checks that the strategy parameters are sane.
func (c *Config) Validate() error {
	if c.Trading.MinStockPrice < 0 {
		return fmt.Errorf("trading.min_stock_price must not be negative")
	}
	if c.Trading.DropThreshold <= 0 || c.Trading.DropThreshold >= 1 {
		return fmt.Errorf("trading.drop_threshold must be a fraction in (0,1)")
	}
	if c.Trading.ProfitTarget <= 0 || c.Trading.ProfitTarget >= 1 {
		return fmt.Errorf("trading.profit_target must be a fraction in (0,1)")
	}
	if c.Trading.LookbackDays < 2 {
		return fmt.Errorf("trading.lookback_days must be at least 2")
	}
	if len(c.Trading.Symbols) == 0 {
		return fmt.Errorf("trading.symbols must not be empty")
	}
	return nil
}
