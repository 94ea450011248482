package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"DipCatcher/internal/broker"
	"DipCatcher/internal/cache"
	"DipCatcher/internal/config"
	"DipCatcher/internal/engine"
	"DipCatcher/internal/market"
	"DipCatcher/internal/model"
	"DipCatcher/internal/notifier"
	"DipCatcher/internal/recorder"
	"DipCatcher/internal/risk"
	"DipCatcher/internal/scheduler"
	"DipCatcher/internal/web"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] DipCatcher starting...")

	// .env first so config env overrides can see it
	if err := godotenv.Load(); err == nil {
		log.Println("[INFO] loaded .env")
	}

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Init cache
	priceCache := cache.New(cfg.Cache.File, cache.Options{
		Enabled:          *cfg.Cache.Enabled,
		PriceExpiry:      time.Duration(cfg.Cache.PriceExpirySeconds) * time.Second,
		HistoryExpiry:    time.Duration(cfg.Cache.HistoryExpirySeconds) * time.Second,
		FilterExpiry:     time.Duration(cfg.Cache.FilterExpirySeconds) * time.Second,
		ClosedMultiplier: cfg.Cache.MarketClosedMultiplier,
	})

	// Init fetcher and broker
	var fetcher market.Fetcher
	var orders broker.Broker
	if cfg.Alpaca.APIKey != "" && cfg.Alpaca.SecretKey != "" {
		fetcher = market.NewAlpacaFetcher(cfg.Alpaca.APIKey, cfg.Alpaca.SecretKey)
		orders = broker.NewAlpacaBroker(cfg.Alpaca.APIKey, cfg.Alpaca.SecretKey, *cfg.Alpaca.Paper)
	} else {
		log.Println("[WARN] no Alpaca credentials, using yahoo data and paper orders")
		fetcher = market.NewYahooFetcher(cfg.Proxy)
		orders = &broker.PaperBroker{}
	}
	log.Printf("[INFO] data source: %s | broker: %s", fetcher.Name(), orders.Name())

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Init engine
	store := &engine.Store{
		WatchlistFile: cfg.Files.Watchlist,
		HoldingsFile:  cfg.Files.Holdings,
		TradesFile:    cfg.Files.Trades,
	}
	eng := engine.New(engine.Params{
		MinStockPrice: cfg.Trading.MinStockPrice,
		DropThreshold: cfg.Trading.DropThreshold,
		ProfitTarget:  cfg.Trading.ProfitTarget,
		LookbackDays:  cfg.Trading.LookbackDays,
		Symbols:       cfg.Trading.Symbols,
	}, priceCache, fetcher, orders, risk.NewCooldownLedger(0), rec, store)

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init Telegram notifier and wire trade alerts
	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
	sched := scheduler.NewScheduler(ctx, eng, tn)
	eng.OnTrade = func(t model.TradeRecord, reason string) {
		sched.NotifyTrade(notifier.FormatTrade(&t, reason))
	}
	if err := sched.RegisterAll(cfg.Schedule.CycleCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Start HTTP API for the dashboard
	srv := web.NewServer(cfg.HTTP.ListenAddr, eng)
	go func() {
		if err := srv.Start(ctx); err != nil {
			log.Printf("[ERROR] http server: %v", err)
		}
	}()

	// Start Telegram polling
	if tn.Enabled() {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Println("[INFO] Telegram polling started")
	}

	// Optional: run immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing trading cycle now")
		go sched.RunCycleNow()
	}

	log.Println("[INFO] DipCatcher is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	priceCache.SaveNow()
	log.Println("[INFO] DipCatcher stopped")
}
