package model

// PortfolioSummary is the dashboard-facing read model of the current book.
type PortfolioSummary struct {
	TotalValue     float64 `json:"total_value"`
	TotalCost      float64 `json:"total_cost"`
	ProfitLoss     float64 `json:"profit_loss"`
	ProfitLossPct  float64 `json:"profit_loss_pct"` // percentage, e.g. 10.7
	HoldingsCount  int     `json:"holdings_count"`
	WatchlistCount int     `json:"watchlist_count"`
}

// CacheStats summarizes the expiring cache contents.
type CacheStats struct {
	TotalEntries   int     `json:"total_entries"`
	PriceEntries   int     `json:"price_entries"`
	HistoryEntries int     `json:"history_entries"`
	FilterEntries  int     `json:"filter_entries"`
	OtherEntries   int     `json:"other_entries"`
	CacheSizeMB    float64 `json:"cache_size_mb"`
	MarketOpen     bool    `json:"market_open"`
}

// CacheStatus is the dashboard-facing cache read model.
type CacheStatus struct {
	Enabled bool       `json:"enabled"`
	Stats   CacheStats `json:"stats"`
}
