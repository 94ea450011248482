package model

// DropAnalysis describes how far a symbol has fallen over the lookback window.
type DropAnalysis struct {
	Symbol        string  `json:"symbol"`
	HighestPrice  float64 `json:"highest_price"`
	StartPrice    float64 `json:"start_price"`
	LatestPrice   float64 `json:"latest_price"`
	DropFromHigh  float64 `json:"drop_from_high"`  // fraction, e.g. 0.35
	DropFromStart float64 `json:"drop_from_start"` // fraction
	DaysAnalyzed  int     `json:"days_analyzed"`
	MeetsCriteria bool    `json:"meets_criteria"`
}

// Entry signal names, in evaluation order.
const (
	SignalPriceStabilizing = "price_stabilizing"
	SignalDecentVolume     = "decent_volume"
	SignalAboveRecentLow   = "above_recent_low"
)

// EntrySignal is the result of timing a buy after a drop has been detected.
// Enter is true when at least two of the three heuristic signals fired.
type EntrySignal struct {
	Symbol  string   `json:"symbol"`
	Signals []string `json:"signals"`
	Enter   bool     `json:"enter"`
	Reason  string   `json:"reason"`
}
