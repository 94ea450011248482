// Package risk holds the no-repeat-loss cooldown ledger.
//
// The ledger is consulted by the buy pass but nothing records losses into it
// yet: the sell pass only exits at a profit, so no loss event exists to write.
// RecordLoss is provided for a future stop-loss exit.
package risk

import (
	"sync"
	"time"
)

// DefaultCooldown is how long a symbol is avoided after a recorded loss.
const DefaultCooldown = 5 * 24 * time.Hour

// CooldownLedger tracks the last losing exit per symbol.
type CooldownLedger struct {
	mu       sync.Mutex
	losses   map[string]time.Time
	cooldown time.Duration

	now func() time.Time
}

// NewCooldownLedger creates a ledger with the given cooldown window;
// zero means DefaultCooldown.
func NewCooldownLedger(cooldown time.Duration) *CooldownLedger {
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	return &CooldownLedger{
		losses:   make(map[string]time.Time),
		cooldown: cooldown,
		now:      time.Now,
	}
}

// ShouldTrade reports whether symbol is clear of its loss cooldown.
func (l *CooldownLedger) ShouldTrade(symbol string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	last, ok := l.losses[symbol]
	if !ok {
		return true
	}
	return l.now().Sub(last) > l.cooldown
}

// RecordLoss marks symbol as having just closed at a loss.
func (l *CooldownLedger) RecordLoss(symbol string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.losses[symbol] = l.now()
}
