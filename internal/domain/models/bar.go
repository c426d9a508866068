package models

import "time"

// Bar is a single intraday OHLCV candle, localized to exchange time.
// Bars are immutable once fetched and ordered by Time within a trading day.
type Bar struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// OpeningRange holds the high/low of the session's first bar (the 09:30
// candle for a 15-minute series).
//
// A range with High <= Low is invalid and produces no signal.
type OpeningRange struct {
	High float64
	Low  float64
}

// Width returns the range width (High - Low).
func (r OpeningRange) Width() float64 { return r.High - r.Low }

// Valid reports whether the range can produce a tradable signal.
func (r OpeningRange) Valid() bool { return r.High > r.Low }

// Midpoint returns the center of the range, used as the display-only entry
// level for NEUTRAL tickers.
func (r OpeningRange) Midpoint() float64 { return (r.High + r.Low) / 2 }
