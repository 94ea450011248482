// Package engine runs the watchlist/holdings position lifecycle: drop
// scanning, entry timing, and profit-target exits, one cycle at a time.
package engine

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"DipCatcher/internal/analysis"
	"DipCatcher/internal/broker"
	"DipCatcher/internal/cache"
	"DipCatcher/internal/market"
	"DipCatcher/internal/model"
	"DipCatcher/internal/recorder"
	"DipCatcher/internal/risk"
)

// entryWindowDays is how much recent history the entry-signal scoring uses.
const entryWindowDays = 5

// Params are the strategy knobs consumed by the engine.
type Params struct {
	MinStockPrice float64
	DropThreshold float64 // fraction, e.g. 0.30
	ProfitTarget  float64 // fraction, e.g. 0.10
	LookbackDays  int
	Symbols       []string
}

// Engine is the position lifecycle engine. One cycle runs to completion
// before the next may start; Run* entry points serialize on a mutex.
type Engine struct {
	mu       sync.Mutex
	params   Params
	cache    *cache.Cache
	fetcher  market.Fetcher
	broker   broker.Broker
	cooldown *risk.CooldownLedger
	rec      recorder.Recorder
	store    *Store

	// OnTrade, when set, is invoked after every executed order. Used to
	// fan out trade alerts without the engine knowing about transports.
	OnTrade func(t model.TradeRecord, reason string)

	now func() time.Time
}

// New constructs an engine. All collaborators are required; pass a
// NoopRecorder when no database is configured.
func New(params Params, c *cache.Cache, f market.Fetcher, b broker.Broker, cd *risk.CooldownLedger, rec recorder.Recorder, store *Store) *Engine {
	return &Engine{
		params:   params,
		cache:    c,
		fetcher:  f,
		broker:   b,
		cooldown: cd,
		rec:      rec,
		store:    store,
		now:      time.Now,
	}
}

// getCurrentPrice returns the cached-or-fetched price for symbol. False
// means no data this cycle, a benign state retried next cycle.
func (e *Engine) getCurrentPrice(symbol string) (float64, bool) {
	key := cache.Key(cache.CategoryPrice, symbol, "")
	var price float64
	if e.cache.Get(key, cache.CategoryPrice, &price) {
		return price, true
	}
	price, err := e.fetcher.FetchCurrentPrice(symbol)
	if err != nil || price <= 0 {
		return 0, false
	}
	e.cache.Set(key, price)
	return price, true
}

// getPriceHistory returns cached-or-fetched daily bars for symbol.
func (e *Engine) getPriceHistory(symbol string, days int) ([]model.OHLCV, bool) {
	key := cache.Key(cache.CategoryHistory, symbol, fmt.Sprintf("days_%d", days))
	var bars []model.OHLCV
	if e.cache.Get(key, cache.CategoryHistory, &bars) {
		return bars, true
	}
	bars, err := e.fetcher.FetchDailyBars(symbol, days)
	if err != nil || len(bars) < 2 {
		return nil, false
	}
	e.cache.Set(key, bars)
	return bars, true
}

// filterStocksAbovePrice returns the universe symbols trading above the
// minimum price. The whole result is cached as one blob keyed by threshold.
func (e *Engine) filterStocksAbovePrice(symbols []string) []string {
	key := cache.Key(cache.CategoryFilter, fmt.Sprintf("above_%.2f", e.params.MinStockPrice), "")
	var cached []string
	if e.cache.Get(key, cache.CategoryFilter, &cached) {
		log.Printf("[INFO] using cached stock filter: %d stocks above $%.2f", len(cached), e.params.MinStockPrice)
		return cached
	}

	log.Printf("[INFO] filtering %d stocks above $%.2f", len(symbols), e.params.MinStockPrice)
	filtered := make([]string, 0, len(symbols))
	for _, symbol := range symbols {
		if price, ok := e.getCurrentPrice(symbol); ok && price > e.params.MinStockPrice {
			filtered = append(filtered, symbol)
		}
	}
	e.cache.Set(key, filtered)
	log.Printf("[INFO] filtering complete: %d stocks above $%.2f", len(filtered), e.params.MinStockPrice)
	return filtered
}

// UpdateWatchlist scans the universe for symbols that dropped past the
// threshold and adds new ones to the watchlist. Persists only when at least
// one symbol was added.
func (e *Engine) UpdateWatchlist() error {
	log.Println("[INFO] scanning for new drop opportunities")

	watchlist := e.store.LoadWatchlist()
	eligible := e.filterStocksAbovePrice(e.params.Symbols)

	added := 0
	for _, symbol := range eligible {
		if _, ok := watchlist[symbol]; ok {
			continue
		}
		bars, ok := e.getPriceHistory(symbol, e.params.LookbackDays)
		if !ok {
			continue
		}
		a, err := analysis.CheckDrop(symbol, bars, e.params.DropThreshold)
		if err != nil {
			if !errors.Is(err, analysis.ErrInsufficientData) {
				log.Printf("[ERROR] drop analysis %s: %v", symbol, err)
			}
			continue
		}
		if !a.MeetsCriteria {
			continue
		}
		price, ok := e.getCurrentPrice(symbol)
		if !ok {
			price = a.LatestPrice
		}
		watchlist[symbol] = model.WatchlistEntry{
			Symbol:            symbol,
			AddedAt:           e.now(),
			DropDetectedPrice: price,
			Status:            model.StatusWatching,
			DropAnalysis:      a,
		}
		added++
		log.Printf("[INFO] added %s to watchlist: %.1f%% drop from high $%.2f",
			symbol, a.DropFromHigh*100, a.HighestPrice)
	}

	if added > 0 {
		if err := e.store.SaveWatchlist(watchlist); err != nil {
			return err
		}
		log.Printf("[INFO] added %d new stocks to watchlist", added)
	} else {
		log.Println("[INFO] no new drops found")
	}
	return nil
}

// TryToBuy evaluates every watching symbol for entry and buys one share of
// each that qualifies. Symbols already held are skipped, never evicted.
func (e *Engine) TryToBuy() error {
	watchlist := e.store.LoadWatchlist()
	holdings := e.store.LoadHoldings()

	if len(watchlist) == 0 {
		log.Println("[INFO] watchlist is empty")
		return nil
	}
	log.Printf("[INFO] analyzing %d stocks for entry signals", len(watchlist))

	bought := 0
	for symbol, info := range watchlist {
		if info.Status != model.StatusWatching {
			continue
		}
		// Duplicate-prevention guard: at most one open position per symbol.
		if _, held := holdings[symbol]; held {
			log.Printf("[INFO] skipping %s: already holding", symbol)
			continue
		}
		if !e.cooldown.ShouldTrade(symbol) {
			log.Printf("[INFO] skipping %s: loss cooldown active", symbol)
			continue
		}

		price, ok := e.getCurrentPrice(symbol)
		if !ok {
			continue // no data this cycle, retry next
		}
		bars, ok := e.getPriceHistory(symbol, entryWindowDays)
		if !ok {
			continue
		}
		sig, err := analysis.EvaluateEntry(symbol, bars)
		if err != nil {
			if !errors.Is(err, analysis.ErrInsufficientData) {
				log.Printf("[ERROR] entry analysis %s: %v", symbol, err)
			}
			continue
		}
		if !sig.Enter {
			continue
		}

		orderID, err := e.broker.SubmitMarketOrder(symbol, 1, model.SideBuy)
		if err != nil {
			// Leave the symbol on the watchlist and retry next cycle.
			log.Printf("[ERROR] buy order %s: %v", symbol, err)
			continue
		}

		holdings[symbol] = model.HoldingEntry{
			Symbol:           symbol,
			BuyPrice:         price,
			BuyDate:          e.now(),
			Quantity:         1,
			Status:           model.StatusHolding,
			EntryReason:      sig.Reason,
			OriginalAnalysis: info.DropAnalysis,
		}
		delete(watchlist, symbol)
		bought++

		e.logTrade(symbol, model.SideBuy, price, 1, sig.Reason)
		log.Printf("[INFO] BOUGHT %s at $%.2f (order %s) - %s", symbol, price, orderID, sig.Reason)
	}

	if bought > 0 {
		if err := e.store.SaveBook(watchlist, holdings); err != nil {
			return err
		}
		log.Printf("[INFO] executed %d buy orders", bought)
	} else {
		log.Println("[INFO] no stocks ready for entry yet")
	}
	return nil
}

// TryToSell exits every holding that reached the profit target.
func (e *Engine) TryToSell() error {
	holdings := e.store.LoadHoldings()

	if len(holdings) == 0 {
		log.Println("[INFO] no current holdings")
		return nil
	}
	log.Printf("[INFO] checking %d holdings for profit targets", len(holdings))

	sold := 0
	for symbol, info := range holdings {
		if info.Status != model.StatusHolding {
			continue
		}
		price, ok := e.getCurrentPrice(symbol)
		if !ok {
			continue // no data this cycle, retry next
		}

		profitPct := (price - info.BuyPrice) / info.BuyPrice
		if profitPct < e.params.ProfitTarget {
			continue
		}

		orderID, err := e.broker.SubmitMarketOrder(symbol, info.Quantity, model.SideSell)
		if err != nil {
			log.Printf("[ERROR] sell order %s: %v", symbol, err)
			continue
		}

		profit := (price - info.BuyPrice) * float64(info.Quantity)
		e.logTrade(symbol, model.SideSell, price, info.Quantity, fmt.Sprintf("profit %.1f%%", profitPct*100))
		delete(holdings, symbol)
		sold++
		log.Printf("[INFO] SOLD %s for $%.2f profit (%.1f%%, order %s)", symbol, profit, profitPct*100, orderID)
	}

	if sold > 0 {
		if err := e.store.SaveHoldings(holdings); err != nil {
			return err
		}
		log.Printf("[INFO] executed %d sell orders", sold)
	} else {
		log.Println("[INFO] no holdings ready for profit-taking yet")
	}
	return nil
}

// logTrade appends to the trade log and records the trade, best-effort.
func (e *Engine) logTrade(symbol string, action model.OrderSide, price float64, qty int, reason string) {
	t := model.TradeRecord{
		Timestamp: e.now(),
		Symbol:    symbol,
		Action:    action,
		Price:     price,
		Quantity:  qty,
	}
	if err := e.store.AppendTrade(t); err != nil {
		log.Printf("[ERROR] log trade %s %s: %v", action, symbol, err)
	}
	if err := e.rec.RecordTrade(&recorder.TradeEvent{
		Symbol: symbol, Action: action, Price: price, Quantity: qty, Reason: reason,
	}); err != nil {
		log.Printf("[ERROR] record trade %s %s: %v", action, symbol, err)
	}
	if e.OnTrade != nil {
		e.OnTrade(t, reason)
	}
}

// RunCycle runs the three passes in order, sweeps the cache, and returns a
// portfolio summary. A panic anywhere in the cycle is logged and ends the
// cycle early without crashing the process.
func (e *Engine) RunCycle() (summary model.PortfolioSummary) {
	e.mu.Lock()
	defer e.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			log.Printf("[ERROR] trading cycle aborted: %v", r)
		}
	}()

	log.Println("[INFO] starting trading cycle")

	if err := e.UpdateWatchlist(); err != nil {
		log.Printf("[ERROR] update watchlist: %v", err)
	}
	if err := e.TryToBuy(); err != nil {
		log.Printf("[ERROR] buy pass: %v", err)
	}
	if err := e.TryToSell(); err != nil {
		log.Printf("[ERROR] sell pass: %v", err)
	}

	cleared := e.cache.ClearExpired()

	summary = e.PortfolioSummary()
	stats := e.cache.Stats()

	log.Printf("[INFO] portfolio: $%.2f (P&L $%.2f, %.1f%%) | holdings %d | watchlist %d",
		summary.TotalValue, summary.ProfitLoss, summary.ProfitLossPct,
		summary.HoldingsCount, summary.WatchlistCount)
	log.Printf("[INFO] cache: %d entries (%d prices, %d history) | %.2fMB | market %s",
		stats.TotalEntries, stats.PriceEntries, stats.HistoryEntries,
		stats.CacheSizeMB, marketLabel(stats.MarketOpen))

	if err := e.rec.RecordCycle(&recorder.CycleEvent{
		TotalValue:     summary.TotalValue,
		TotalCost:      summary.TotalCost,
		ProfitLoss:     summary.ProfitLoss,
		ProfitLossPct:  summary.ProfitLossPct,
		HoldingsCount:  summary.HoldingsCount,
		WatchlistCount: summary.WatchlistCount,
		CacheEntries:   stats.TotalEntries,
		CacheCleared:   cleared,
		MarketOpen:     stats.MarketOpen,
	}); err != nil {
		log.Printf("[ERROR] record cycle: %v", err)
	}

	log.Println("[INFO] trading cycle completed")
	return summary
}

func marketLabel(open bool) string {
	if open {
		return "open"
	}
	return "closed"
}

// PortfolioSummary values the current holdings at cached-or-fetched prices.
// Holdings with no price this cycle contribute neither value nor cost.
func (e *Engine) PortfolioSummary() model.PortfolioSummary {
	holdings := e.store.LoadHoldings()
	watchlist := e.store.LoadWatchlist()

	var totalValue, totalCost float64
	for symbol, info := range holdings {
		if price, ok := e.getCurrentPrice(symbol); ok {
			totalValue += price * float64(info.Quantity)
			totalCost += info.BuyPrice * float64(info.Quantity)
		}
	}

	s := model.PortfolioSummary{
		TotalValue:     totalValue,
		TotalCost:      totalCost,
		ProfitLoss:     totalValue - totalCost,
		HoldingsCount:  len(holdings),
		WatchlistCount: len(watchlist),
	}
	if totalCost > 0 {
		s.ProfitLossPct = s.ProfitLoss / totalCost * 100
	}
	return s
}

// CacheStatus is the dashboard-facing cache read model.
func (e *Engine) CacheStatus() model.CacheStatus {
	return model.CacheStatus{
		Enabled: e.cache.Enabled(),
		Stats:   e.cache.Stats(),
	}
}

// ClearExpiredCache sweeps expired entries and flushes the cache to disk.
// Used by the nightly maintenance task.
func (e *Engine) ClearExpiredCache() int {
	cleared := e.cache.ClearExpired()
	e.cache.SaveNow()
	return cleared
}

// ClearCache clears the whole cache, or only the given symbol's entries.
func (e *Engine) ClearCache(symbol string) {
	if symbol != "" {
		e.cache.ClearSymbol(symbol)
		return
	}
	e.cache.ClearAll()
}
