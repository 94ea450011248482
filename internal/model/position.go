package model

import "time"

// WatchlistEntry is a symbol flagged as a dip candidate, not yet purchased.
type WatchlistEntry struct {
	Symbol            string       `json:"symbol"`
	AddedAt           time.Time    `json:"added_at"`
	DropDetectedPrice float64      `json:"drop_detected_price"`
	Status            string       `json:"status"`
	DropAnalysis      DropAnalysis `json:"drop_analysis"`
}

// HoldingEntry is an open position owned by the bot.
type HoldingEntry struct {
	Symbol           string       `json:"symbol"`
	BuyPrice         float64      `json:"buy_price"`
	BuyDate          time.Time    `json:"buy_date"`
	Quantity         int          `json:"quantity"`
	Status           string       `json:"status"`
	EntryReason      string       `json:"entry_reason"`
	OriginalAnalysis DropAnalysis `json:"original_analysis"`
}

// TradeRecord is one line of the append-only trade log.
type TradeRecord struct {
	Timestamp time.Time `json:"timestamp"`
	Symbol    string    `json:"symbol"`
	Action    OrderSide `json:"action"`
	Price     float64   `json:"price"`
	Quantity  int       `json:"quantity"`
}

// Entry status values. A watchlist entry stays "watching" until it is
// promoted to a holding; there is no automatic expiry.
const (
	StatusWatching = "watching"
	StatusHolding  = "holding"
)

// Valid reports whether a loaded watchlist record carries its required fields.
func (w *WatchlistEntry) Valid() bool {
	return w.Symbol != "" && w.Status != "" && !w.AddedAt.IsZero()
}

// Valid reports whether a loaded holding record carries its required fields.
func (h *HoldingEntry) Valid() bool {
	return h.Symbol != "" && h.Status != "" && h.BuyPrice > 0 && h.Quantity > 0
}
