package broker

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"DipCatcher/internal/model"
)

const (
	alpacaPaperURL = "https://paper-api.alpaca.markets"
	alpacaLiveURL  = "https://api.alpaca.markets"
)

// AlpacaBroker submits market orders through the Alpaca trading API.
type AlpacaBroker struct {
	client *resty.Client
	paper  bool
}

// NewAlpacaBroker creates a broker against the paper or live endpoint.
func NewAlpacaBroker(apiKey, secretKey string, paper bool) *AlpacaBroker {
	baseURL := alpacaLiveURL
	if paper {
		baseURL = alpacaPaperURL
	}
	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetTimeout(30 * time.Second)
	client.SetHeader("APCA-API-KEY-ID", apiKey)
	client.SetHeader("APCA-API-SECRET-KEY", secretKey)
	return &AlpacaBroker{client: client, paper: paper}
}

func (b *AlpacaBroker) Name() string {
	if b.paper {
		return "alpaca-paper"
	}
	return "alpaca"
}

type orderRequest struct {
	Symbol        string `json:"symbol"`
	Qty           string `json:"qty"`
	Side          string `json:"side"`
	Type          string `json:"type"`
	TimeInForce   string `json:"time_in_force"`
	ClientOrderID string `json:"client_order_id"`
}

type orderResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// SubmitMarketOrder places a GTC market order and returns the broker order ID.
func (b *AlpacaBroker) SubmitMarketOrder(symbol string, qty int, side model.OrderSide) (string, error) {
	req := orderRequest{
		Symbol:        symbol,
		Qty:           fmt.Sprintf("%d", qty),
		Side:          strings.ToLower(string(side)),
		Type:          "market",
		TimeInForce:   "gtc",
		ClientOrderID: uuid.NewString(),
	}

	var result orderResponse
	resp, err := b.client.R().
		SetBody(req).
		SetResult(&result).
		Post("/v2/orders")
	if err != nil {
		return "", fmt.Errorf("submit %s %s: %w", side, symbol, err)
	}
	if resp.StatusCode() != http.StatusOK && resp.StatusCode() != http.StatusCreated {
		return "", fmt.Errorf("submit %s %s: status %d, body: %s", side, symbol, resp.StatusCode(), resp.String())
	}
	return result.ID, nil
}
