// Package market provides price data fetchers for the trading engine.
package market

import "DipCatcher/internal/model"

// Fetcher defines the interface for fetching market data. A fetch error is
// treated by callers as "no data this cycle", not as a fatal condition.
type Fetcher interface {
	FetchCurrentPrice(symbol string) (float64, error)
	FetchDailyBars(symbol string, days int) ([]model.OHLCV, error)
	Name() string
}

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Prices map[string]float64
	Bars   map[string][]model.OHLCV
	Errs   map[string]error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchCurrentPrice(symbol string) (float64, error) {
	if err := m.Errs[symbol]; err != nil {
		return 0, err
	}
	return m.Prices[symbol], nil
}

func (m *MockFetcher) FetchDailyBars(symbol string, _ int) ([]model.OHLCV, error) {
	if err := m.Errs[symbol]; err != nil {
		return nil, err
	}
	return m.Bars[symbol], nil
}
