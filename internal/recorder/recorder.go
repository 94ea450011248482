package recorder

import "DipCatcher/internal/model"

// TradeEvent records one executed order.
type TradeEvent struct {
	Symbol   string
	Action   model.OrderSide
	Price    float64
	Quantity int
	Reason   string
}

// CycleEvent records the portfolio and cache state after one trading cycle.
type CycleEvent struct {
	TotalValue     float64
	TotalCost      float64
	ProfitLoss     float64
	ProfitLossPct  float64
	HoldingsCount  int
	WatchlistCount int
	CacheEntries   int
	CacheCleared   int
	MarketOpen     bool
}

// Recorder persists historical data for analysis. Failures are logged by
// callers and never abort a cycle.
type Recorder interface {
	RecordTrade(evt *TradeEvent) error
	RecordCycle(evt *CycleEvent) error
	Close() error
}
