package models

import "time"

// Signal classifies a reference price against the opening range.
type Signal string

const (
	SignalBuyCall Signal = "BUY CALL" // price closed above the range high
	SignalBuyPut  Signal = "BUY PUT"  // price closed below the range low
	SignalNeutral Signal = "NEUTRAL"  // price inside the range (bounds inclusive)
)

// OptionKind selects the Black-Scholes branch for delta/theta.
type OptionKind string

const (
	Call OptionKind = "call"
	Put  OptionKind = "put"
)

// Greeks carries the options context attached to a live scan row.
// Valid is false when the pricing preconditions were not met
// (e.g. zero time to expiry).
type Greeks struct {
	Delta       float64 `json:"delta" example:"0.531"`
	ThetaHourly float64 `json:"theta_hourly" example:"-0.0214"`
	IV          float64 `json:"iv" example:"0.35"`
	Valid       bool    `json:"valid" example:"true"`
}

// ScanRow is one ticker's result from a live ORB scan.
//
// EntryTime is the zero time while no post-range bar has breached the
// relevant bound ("no entry yet").
//
// swagger:model ScanRow
type ScanRow struct {
	Ticker        string    `json:"ticker" example:"NVDA"`
	Signal        Signal    `json:"signal" example:"BUY CALL"`
	ORBHigh       float64   `json:"orb_high" example:"132.50"`
	ORBLow        float64   `json:"orb_low" example:"130.10"`
	EntryLevel    float64   `json:"entry_level" example:"132.50"`
	EntryTime     time.Time `json:"entry_time,omitempty"`
	CurrentPrice  float64   `json:"current_price" example:"133.42"`
	Diff          float64   `json:"diff" example:"0.92"`
	Greeks        Greeks    `json:"greeks"`
	RelativeVol   float64   `json:"rel_vol" example:"1.24"`
	CurrentVolume float64   `json:"curr_vol" example:"18210400"`
}

// HasEntry reports whether a breakout bar has been seen for this row.
func (r ScanRow) HasEntry() bool { return !r.EntryTime.IsZero() }
