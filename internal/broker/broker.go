// Package broker submits market orders to the brokerage.
package broker

import (
	"fmt"
	"log"
	"strings"

	"DipCatcher/internal/model"
)

// Broker defines the order-submission interface. A non-nil error means the
// order was not accepted; state changes must not be applied.
type Broker interface {
	SubmitMarketOrder(symbol string, qty int, side model.OrderSide) (orderID string, err error)
	Name() string
}

// PaperBroker acknowledges every order without touching a real account.
// Used when no brokerage credentials are configured.
type PaperBroker struct {
	orders int
}

func (p *PaperBroker) Name() string { return "paper" }

func (p *PaperBroker) SubmitMarketOrder(symbol string, qty int, side model.OrderSide) (string, error) {
	p.orders++
	id := fmt.Sprintf("paper-%d", p.orders)
	log.Printf("[INFO] [PAPER TRADE] would %s %d share(s) of %s (order %s)",
		strings.ToLower(string(side)), qty, symbol, id)
	return id, nil
}

// FailingBroker rejects every order. Test double for order-failure paths.
type FailingBroker struct{}

func (FailingBroker) Name() string { return "failing" }

func (FailingBroker) SubmitMarketOrder(symbol string, qty int, side model.OrderSide) (string, error) {
	return "", fmt.Errorf("order rejected: %s %d %s", side, qty, symbol)
}
