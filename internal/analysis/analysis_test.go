package analysis

import (
	"errors"
	"math"
	"testing"
	"time"

	"DipCatcher/internal/model"
)

func bar(day int, high, low, close, volume float64) model.OHLCV {
	return model.OHLCV{
		Time:   time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC),
		Open:   close,
		High:   high,
		Low:    low,
		Close:  close,
		Volume: volume,
	}
}

func TestCheckDrop_DetectsDropFromHigh(t *testing.T) {
	// High of 100 early in the window, closing at 65: a 35% drop.
	bars := []model.OHLCV{
		bar(1, 95, 90, 92, 1e6),
		bar(2, 100, 94, 97, 1e6),
		bar(3, 96, 88, 90, 1e6),
		bar(4, 90, 82, 84, 1e6),
		bar(5, 85, 76, 78, 1e6),
		bar(6, 80, 70, 72, 1e6),
		bar(7, 74, 64, 65, 1e6),
	}
	a, err := CheckDrop("TEST", bars, 0.30)
	if err != nil {
		t.Fatalf("CheckDrop: %v", err)
	}
	if math.Abs(a.DropFromHigh-0.35) > 1e-9 {
		t.Errorf("DropFromHigh = %.4f, want 0.35", a.DropFromHigh)
	}
	if !a.MeetsCriteria {
		t.Error("35%% drop should meet a 30%% threshold")
	}
	if a.HighestPrice != 100 || a.LatestPrice != 65 || a.DaysAnalyzed != 7 {
		t.Errorf("unexpected analysis: %+v", a)
	}
}

func TestCheckDrop_BelowThreshold(t *testing.T) {
	bars := []model.OHLCV{
		bar(1, 100, 95, 98, 1e6),
		bar(2, 99, 90, 92, 1e6),
	}
	a, err := CheckDrop("TEST", bars, 0.30)
	if err != nil {
		t.Fatalf("CheckDrop: %v", err)
	}
	if a.MeetsCriteria {
		t.Errorf("8%% drop should not meet a 30%% threshold (got %.4f)", a.DropFromHigh)
	}
}

func TestCheckDrop_InsufficientData(t *testing.T) {
	_, err := CheckDrop("TEST", []model.OHLCV{bar(1, 100, 95, 98, 1e6)}, 0.30)
	if !errors.Is(err, ErrInsufficientData) {
		t.Errorf("expected ErrInsufficientData, got %v", err)
	}
}

func TestEvaluateEntry_AllSignals(t *testing.T) {
	// Yesterday 100, today 97 (-3%), today's volume equals the average,
	// close 3% above the period low.
	bars := []model.OHLCV{
		bar(1, 105, 100, 102, 1e6),
		bar(2, 103, 94.17, 100, 1e6),
		bar(3, 101, 96, 97, 1e6),
	}
	sig, err := EvaluateEntry("TEST", bars)
	if err != nil {
		t.Fatalf("EvaluateEntry: %v", err)
	}
	if len(sig.Signals) != 3 {
		t.Errorf("expected 3 signals, got %v", sig.Signals)
	}
	if !sig.Enter {
		t.Error("3/3 signals should authorize entry")
	}
}

func TestEvaluateEntry_TwoOfThree(t *testing.T) {
	// A 50% single-day crash kills price_stabilizing; volume and
	// above_recent_low still fire, and 2 of 3 is still a go.
	bars := []model.OHLCV{
		bar(1, 210, 195, 205, 1e6),
		bar(2, 206, 190, 200, 1e6),
		bar(3, 201, 95, 100, 1e6),
	}
	// Lift the lows so the close clears low*1.02.
	for i := range bars {
		bars[i].Low = 90
	}
	sig, err := EvaluateEntry("TEST", bars)
	if err != nil {
		t.Fatalf("EvaluateEntry: %v", err)
	}
	if len(sig.Signals) != 2 {
		t.Errorf("expected 2 signals, got %v", sig.Signals)
	}
	if !sig.Enter {
		t.Error("2/3 signals should authorize entry")
	}
	for _, s := range sig.Signals {
		if s == model.SignalPriceStabilizing {
			t.Error("price_stabilizing should not fire on a 50%% daily drop")
		}
	}
}

func TestEvaluateEntry_OneSignalWaits(t *testing.T) {
	// Flat price (stabilizing fires), no volume data, sitting on the low.
	bars := []model.OHLCV{
		bar(1, 101, 100, 100, 0),
		bar(2, 101, 100, 100, 0),
		bar(3, 101, 100, 100, 0),
	}
	sig, err := EvaluateEntry("TEST", bars)
	if err != nil {
		t.Fatalf("EvaluateEntry: %v", err)
	}
	if sig.Enter {
		t.Errorf("a single signal must not authorize entry: %v", sig.Signals)
	}
	if len(sig.Signals) != 1 || sig.Signals[0] != model.SignalPriceStabilizing {
		t.Errorf("expected only price_stabilizing, got %v", sig.Signals)
	}
}

func TestEvaluateEntry_InsufficientData(t *testing.T) {
	bars := []model.OHLCV{bar(1, 101, 100, 100, 0), bar(2, 101, 100, 100, 0)}
	_, err := EvaluateEntry("TEST", bars)
	if !errors.Is(err, ErrInsufficientData) {
		t.Errorf("expected ErrInsufficientData, got %v", err)
	}
}
