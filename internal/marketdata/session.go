// Package marketdata provides intraday bar retrieval, the NYSE trading
// calendar, and regular-session time helpers for the scanner and backtest.
package marketdata

import "time"

// Regular session landmarks for a 15-minute bar series, exchange-local.
const (
	OpenHour       = 9  // 09:30 market open / opening-range bar
	OpenMinute     = 30
	RangeEndHour   = 9 // 09:45 opening range complete
	RangeEndMinute = 45
	LastBarHour    = 15 // 15:45 last tradable 15m bar (closes 16:00)
	LastBarMinute  = 45
	CloseHour      = 16
	CloseMinute    = 0

	// Trading minutes per regular session, used for 0-DTE expiry fractions.
	SessionMinutes = 390
)

// Eastern is the exchange timezone. It must resolve on any platform with
// tzdata available; time.LoadLocation failure here is a deployment error.
var Eastern = mustLoadLocation("America/New_York")

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic("marketdata: load location " + name + ": " + err.Error())
	}
	return loc
}

// IsOpeningRangeBar reports whether the bar timestamp is exactly the 09:30
// session-open candle.
func IsOpeningRangeBar(ts time.Time) bool {
	return ts.Hour() == OpenHour && ts.Minute() == OpenMinute
}

// AfterOpeningRange reports whether the bar timestamp is at or after 09:45.
func AfterOpeningRange(ts time.Time) bool {
	return ts.Hour() > RangeEndHour || (ts.Hour() == RangeEndHour && ts.Minute() >= RangeEndMinute)
}

// WithinTradableWindow reports whether the bar timestamp is at or before the
// last tradable bar of the regular session (15:45 for 15-minute bars).
func WithinTradableWindow(ts time.Time) bool {
	return ts.Hour() < LastBarHour || (ts.Hour() == LastBarHour && ts.Minute() <= LastBarMinute)
}

// InScanWindow reports whether the API should serve live scans: Mon-Fri
// trading days, 09:25 to 16:30 exchange time.
func InScanWindow(now time.Time) bool {
	now = now.In(Eastern)
	if !IsTradingDay(now) {
		return false
	}
	start := time.Date(now.Year(), now.Month(), now.Day(), 9, 25, 0, 0, Eastern)
	end := time.Date(now.Year(), now.Month(), now.Day(), 16, 30, 0, 0, Eastern)
	return !now.Before(start) && now.Before(end)
}

// RangeComplete reports whether the opening range has finished forming
// (09:45 or later, exchange time).
func RangeComplete(now time.Time) bool {
	now = now.In(Eastern)
	ready := time.Date(now.Year(), now.Month(), now.Day(), RangeEndHour, RangeEndMinute, 0, 0, Eastern)
	return !now.Before(ready)
}

// YearsToSessionClose returns the remaining fraction of the trading year
// until today's 16:00 close, floored at one minute so same-day expiries
// never collapse to zero.
func YearsToSessionClose(now time.Time) float64 {
	now = now.In(Eastern)
	close := time.Date(now.Year(), now.Month(), now.Day(), CloseHour, CloseMinute, 0, 0, Eastern)
	minutes := close.Sub(now).Minutes()
	if minutes < 1 {
		minutes = 1
	}
	return minutes / (365 * SessionMinutes)
}
