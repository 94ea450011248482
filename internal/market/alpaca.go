package market

import (
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/go-resty/resty/v2"

	"DipCatcher/internal/model"
)

const alpacaDataURL = "https://data.alpaca.markets/v2"

// AlpacaFetcher implements Fetcher using the Alpaca market data API.
type AlpacaFetcher struct {
	client *resty.Client
}

// NewAlpacaFetcher creates a fetcher authenticated with the given key pair.
func NewAlpacaFetcher(apiKey, secretKey string) *AlpacaFetcher {
	client := resty.New()
	client.SetBaseURL(alpacaDataURL)
	client.SetTimeout(30 * time.Second)
	client.SetHeader("APCA-API-KEY-ID", apiKey)
	client.SetHeader("APCA-API-SECRET-KEY", secretKey)
	return &AlpacaFetcher{client: client}
}

func (f *AlpacaFetcher) Name() string { return "alpaca" }

// alpacaBar is a single bar from the Alpaca bars endpoint.
type alpacaBar struct {
	T time.Time `json:"t"`
	O float64   `json:"o"`
	H float64   `json:"h"`
	L float64   `json:"l"`
	C float64   `json:"c"`
	V float64   `json:"v"`
}

type alpacaBarsResponse struct {
	Bars map[string][]alpacaBar `json:"bars"`
}

// FetchDailyBars returns up to `days` of daily bars for symbol. Fewer than
// 2 available bars is reported as no data.
func (f *AlpacaFetcher) FetchDailyBars(symbol string, days int) ([]model.OHLCV, error) {
	end := time.Now()
	// Ask for extra calendar days so weekends and holidays still leave
	// enough trading bars.
	start := end.AddDate(0, 0, -(days + 10))

	var result alpacaBarsResponse
	resp, err := f.client.R().
		SetQueryParams(map[string]string{
			"symbols":   symbol,
			"timeframe": "1Day",
			"start":     start.Format(time.RFC3339),
			"end":       end.Format(time.RFC3339),
			"limit":     fmt.Sprintf("%d", days+10),
			"feed":      "iex",
		}).
		SetResult(&result).
		Get("/stocks/bars")
	if err != nil {
		return nil, fmt.Errorf("alpaca bars %s: %w", symbol, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("alpaca bars %s: status %d", symbol, resp.StatusCode())
	}

	raw := result.Bars[symbol]
	if len(raw) < 2 {
		return nil, fmt.Errorf("alpaca bars %s: only %d bars", symbol, len(raw))
	}

	bars := make([]model.OHLCV, 0, len(raw))
	for _, b := range raw {
		bars = append(bars, model.OHLCV{
			Time:   b.T,
			Open:   b.O,
			High:   b.H,
			Low:    b.L,
			Close:  b.C,
			Volume: b.V,
		})
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	if len(bars) > days {
		bars = bars[len(bars)-days:]
	}
	return bars, nil
}

// FetchCurrentPrice returns the latest available daily close for symbol.
func (f *AlpacaFetcher) FetchCurrentPrice(symbol string) (float64, error) {
	bars, err := f.FetchDailyBars(symbol, 7)
	if err != nil {
		return 0, err
	}
	return bars[len(bars)-1].Close, nil
}
