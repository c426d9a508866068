package models

import "time"

// Direction of a simulated ORB position.
type Direction string

const (
	Long  Direction = "LONG"
	Short Direction = "SHORT"
)

// ExitReason records why a simulated position was closed. The three reasons
// are mutually exclusive; the first condition hit in bar order wins.
type ExitReason string

const (
	ExitTakeProfit ExitReason = "TP"
	ExitStopLoss   ExitReason = "SL"
	ExitEndOfDay   ExitReason = "EOD"
)

// Trade is the outcome of simulating one ticker-day. At most one Trade is
// produced per (ticker, day); it is immutable once created.
//
// Prices are in underlying points. PnLPercent = PnLPoints / Entry * 100.
type Trade struct {
	Date       time.Time
	Ticker     string
	Direction  Direction
	Signal     Signal
	ORBHigh    float64
	ORBLow     float64
	ORBRange   float64
	Entry      float64
	EntryTime  time.Time
	Stop       float64
	Target     float64
	Exit       float64
	ExitReason ExitReason
	PnLPoints  float64
	PnLPercent float64
}

// Win reports whether the trade closed with positive points.
func (t Trade) Win() bool { return t.PnLPoints > 0 }

// DailySummary aggregates all trades taken on one calendar day.
type DailySummary struct {
	Date        time.Time
	Trades      int
	Wins        int
	WinRate     float64 // percent, 1 decimal
	TotalPnLPct float64 // 3 decimals
}

// TickerStats aggregates a ticker's trades over the whole backtest.
//
// swagger:model TickerStats
type TickerStats struct {
	Ticker      string  `json:"ticker" example:"NVDA"`
	Trades      int     `json:"trades" example:"38"`
	Wins        int     `json:"wins" example:"17"`
	WinRate     float64 `json:"win_rate" example:"44.7"`
	AvgPnLPct   float64 `json:"avg_pnl_pct" example:"0.112"`
	TotalPnLPct float64 `json:"total_pnl_pct" example:"4.256"`
	TakeProfits int     `json:"tp_count" example:"9"`
	StopLosses  int     `json:"sl_count" example:"14"`
	EndOfDays   int     `json:"eod_count" example:"15"`
}

// BacktestSummary is the overall roll-up printed at the end of a run.
type BacktestSummary struct {
	Trades      int
	Wins        int
	Losses      int
	WinRate     float64
	AvgPnLPct   float64
	TotalPnLPct float64
	TakeProfits int
	StopLosses  int
	EndOfDays   int
}
