package analysis

import (
	"fmt"
	"strings"

	"DipCatcher/internal/model"
)

const (
	// maxDailyDrop is the largest same-day decline still counted as
	// "price stabilizing".
	maxDailyDrop = -0.05
	// minVolumeRatio is today's volume as a fraction of the period average.
	minVolumeRatio = 0.5
	// minAboveLow is how far above the period low the price must sit.
	minAboveLow = 1.02
	// minSignals is how many of the three signals authorize an entry.
	minSignals = 2
)

// EvaluateEntry scores a candidate over its recent bars (typically the last
// 5 days). Requires at least 3 bars. Entry is authorized when at least 2 of
// the 3 signals fire.
func EvaluateEntry(symbol string, bars []model.OHLCV) (model.EntrySignal, error) {
	if len(bars) < 3 {
		return model.EntrySignal{}, ErrInsufficientData
	}

	current := bars[len(bars)-1].Close
	prevClose := bars[len(bars)-2].Close

	var signals []string

	// 1. Price stabilization: not falling too rapidly today.
	if prevClose > 0 {
		dailyChange := (current - prevClose) / prevClose
		if dailyChange > maxDailyDrop {
			signals = append(signals, model.SignalPriceStabilizing)
		}
	}

	// 2. Volume: only evaluated when volume data exists.
	var avgVolume float64
	for _, b := range bars {
		avgVolume += b.Volume
	}
	avgVolume /= float64(len(bars))
	if avgVolume > 0 && bars[len(bars)-1].Volume > avgVolume*minVolumeRatio {
		signals = append(signals, model.SignalDecentVolume)
	}

	// 3. Clear of the recent low.
	lowest := bars[0].Low
	for _, b := range bars {
		if b.Low < lowest {
			lowest = b.Low
		}
	}
	if current > lowest*minAboveLow {
		signals = append(signals, model.SignalAboveRecentLow)
	}

	sig := model.EntrySignal{
		Symbol:  symbol,
		Signals: signals,
		Enter:   len(signals) >= minSignals,
	}
	if sig.Enter {
		sig.Reason = fmt.Sprintf("Entry signals: %s", strings.Join(signals, ", "))
	} else {
		sig.Reason = fmt.Sprintf("Waiting: only %d signals", len(signals))
	}
	return sig, nil
}
