// Package analysis holds the pure price heuristics behind the trading
// decisions: drop detection over a lookback window and entry-signal scoring.
package analysis

import (
	"errors"

	"DipCatcher/internal/model"
)

// ErrInsufficientData marks an analysis skipped for lack of bars. Callers
// treat it as "try again next cycle", distinct from criteria not met.
var ErrInsufficientData = errors.New("insufficient data")

// CheckDrop measures the decline from the period high (and from the period
// start) to the last close. Requires at least 2 bars.
func CheckDrop(symbol string, bars []model.OHLCV, dropThreshold float64) (model.DropAnalysis, error) {
	if len(bars) < 2 {
		return model.DropAnalysis{}, ErrInsufficientData
	}

	highest := bars[0].High
	for _, b := range bars {
		if b.High > highest {
			highest = b.High
		}
	}
	start := bars[0].Close
	latest := bars[len(bars)-1].Close

	a := model.DropAnalysis{
		Symbol:       symbol,
		HighestPrice: highest,
		StartPrice:   start,
		LatestPrice:  latest,
		DaysAnalyzed: len(bars),
	}
	if highest > 0 {
		a.DropFromHigh = (highest - latest) / highest
	}
	if start > 0 {
		a.DropFromStart = (start - latest) / start
	}
	a.MeetsCriteria = a.DropFromHigh >= dropThreshold
	return a, nil
}
