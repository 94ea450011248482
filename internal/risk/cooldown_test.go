package risk

import (
	"testing"
	"time"
)

func TestShouldTrade(t *testing.T) {
	base := time.Date(2024, 1, 10, 10, 0, 0, 0, time.UTC)
	l := NewCooldownLedger(5 * 24 * time.Hour)
	l.now = func() time.Time { return base }

	if !l.ShouldTrade("AAPL") {
		t.Error("symbol with no recorded loss should be tradable")
	}

	l.RecordLoss("AAPL")
	if l.ShouldTrade("AAPL") {
		t.Error("symbol should be blocked right after a loss")
	}

	l.now = func() time.Time { return base.Add(4 * 24 * time.Hour) }
	if l.ShouldTrade("AAPL") {
		t.Error("symbol should still be blocked inside the cooldown")
	}

	l.now = func() time.Time { return base.Add(5*24*time.Hour + time.Minute) }
	if !l.ShouldTrade("AAPL") {
		t.Error("symbol should be tradable after the cooldown")
	}
}
