package scheduler

import (
	"context"
	"fmt"
	"log"

	"DipCatcher/internal/engine"
	"DipCatcher/internal/notifier"

	"github.com/robfig/cron/v3"
)

// Scheduler drives trading cycles on a cron schedule. Cycle jobs never
// overlap: the chain skips a tick while the previous cycle is running, and
// the engine serializes manual triggers against scheduled ones.
type Scheduler struct {
	Cron     *cron.Cron
	Engine   *engine.Engine
	Notifier *notifier.TelegramNotifier
	Ctx      context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, e *engine.Engine, tn *notifier.TelegramNotifier) *Scheduler {
	return &Scheduler{
		Cron: cron.New(
			cron.WithSeconds(),
			cron.WithChain(
				cron.SkipIfStillRunning(cron.DefaultLogger),
				cron.Recover(cron.DefaultLogger),
			),
		),
		Engine:   e,
		Notifier: tn,
		Ctx:      ctx,
	}
}

// RegisterAll registers the trading cycle and the nightly maintenance task.
func (s *Scheduler) RegisterAll(cycleCron string) error {
	if _, err := s.Cron.AddFunc(cycleCron, s.cycleTask); err != nil {
		return fmt.Errorf("register cycle task: %w", err)
	}
	// Nightly: sweep expired cache entries and flush to disk.
	if _, err := s.Cron.AddFunc("0 0 0 * * *", s.nightlyTask); err != nil {
		return fmt.Errorf("register nightly task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunCycleNow executes a trading cycle immediately (manual trigger / RUN_ON_START).
func (s *Scheduler) RunCycleNow() {
	s.cycleTask()
}

func (s *Scheduler) cycleTask() {
	s.Engine.RunCycle()
}

func (s *Scheduler) nightlyTask() {
	cleared := s.Engine.ClearExpiredCache()
	log.Printf("[INFO] nightly maintenance: %d expired cache entries cleared", cleared)
}

// HandleCommand processes a Telegram command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	switch command {
	case "/portfolio":
		summary := s.Engine.PortfolioSummary()
		return notifier.FormatPortfolio(&summary)
	case "/cache":
		status := s.Engine.CacheStatus()
		return notifier.FormatCacheStatus(&status)
	case "/cycle":
		go s.RunCycleNow()
		return "Trading cycle started"
	default:
		return "Commands:\n• /portfolio\n• /cache\n• /cycle"
	}
}

// NotifyTrade sends a trade alert, best-effort with retry.
func (s *Scheduler) NotifyTrade(text string) {
	if !s.Notifier.Enabled() {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] send trade alert: %v", err)
	}
}
