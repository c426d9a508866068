// Package strategy holds the ORB trading logic: opening-range extraction,
// signal classification, the per-day trade simulator, and result aggregation.
// Everything here is a pure function over already-fetched bar slices.
package strategy

import (
	"time"

	"github.com/tradekit/orbpulse/internal/domain/models"
	"github.com/tradekit/orbpulse/internal/marketdata"
)

// OpeningRange finds the session's 09:30 bar in a day's series and returns
// its high/low. ok is false when the bar is missing or the range has zero
// width (both produce no signal).
func OpeningRange(bars []models.Bar) (models.OpeningRange, bool) {
	for _, b := range bars {
		if marketdata.IsOpeningRangeBar(b.Time) {
			r := models.OpeningRange{High: b.High, Low: b.Low}
			return r, r.Valid()
		}
	}
	return models.OpeningRange{}, false
}

// Evaluate classifies a reference price against the opening range.
//
// Strict inequalities on both bounds: a price exactly at a bound is NEUTRAL.
// The returned entry level is the breached bound, or the range midpoint for
// NEUTRAL (display only, not tradable).
func Evaluate(orb models.OpeningRange, price float64) (models.Signal, float64) {
	switch {
	case price > orb.High:
		return models.SignalBuyCall, orb.High
	case price < orb.Low:
		return models.SignalBuyPut, orb.Low
	default:
		return models.SignalNeutral, orb.Midpoint()
	}
}

// FindEntryTime scans bars strictly after the opening-range window in
// chronological order and returns the timestamp of the first close that
// breaches the relevant bound. The scan stops at the first qualifying bar.
//
// The zero time is returned for NEUTRAL signals or when no bar has triggered
// yet ("no entry yet").
func FindEntryTime(bars []models.Bar, orb models.OpeningRange, signal models.Signal) time.Time {
	if signal == models.SignalNeutral {
		return time.Time{}
	}
	for _, b := range bars {
		if !marketdata.AfterOpeningRange(b.Time) {
			continue
		}
		if signal == models.SignalBuyCall && b.Close > orb.High {
			return b.Time
		}
		if signal == models.SignalBuyPut && b.Close < orb.Low {
			return b.Time
		}
	}
	return time.Time{}
}
