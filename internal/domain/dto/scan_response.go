package dto

import "github.com/tradekit/orbpulse/internal/domain/models"

// Scan statuses returned by GET /api/v1/scan.
const (
	ScanStatusOK           = "ok"
	ScanStatusMarketClosed = "market_closed"
	ScanStatusTooEarly     = "too_early"
)

// ScanResponse is the JSON structure returned by the GET /api/v1/scan
// endpoint.
//
// Rows is empty (not null) when the market is closed or the opening range
// has not completed yet; Status and Message explain why.
type ScanResponse struct {
	Status     string           `json:"status" example:"ok"`
	Message    string           `json:"message,omitempty" example:"Market closed. Scanning resumes at 9:25 AM ET (Mon-Fri)."`
	ServerTime string           `json:"server_time" example:"2026-03-02 10:15:04 ET"`
	ScanTime   string           `json:"scan_time,omitempty" example:"10:14:31 ET"`
	Rows       []models.ScanRow `json:"rows"`
}

// StatsResponse is returned by GET /api/v1/stats for a single ticker.
//
// Fields mirror the persisted per-ticker backtest aggregates and may differ
// from internal domain models to keep the API surface decoupled. RunDate is
// the date of the backtest run the aggregates come from.
type StatsResponse struct {
	Ticker      string  `json:"ticker" example:"NVDA"`
	RunDate     string  `json:"run_date,omitempty" example:"2026-03-06"`
	Trades      int     `json:"trades" example:"38"`
	Wins        int     `json:"wins" example:"17"`
	WinRate     float64 `json:"win_rate" example:"44.7"`
	AvgPnLPct   float64 `json:"avg_pnl_pct" example:"0.112"`
	TotalPnLPct float64 `json:"total_pnl_pct" example:"4.256"`
	TakeProfits int     `json:"tp_count" example:"9"`
	StopLosses  int     `json:"sl_count" example:"14"`
	EndOfDays   int     `json:"eod_count" example:"15"`
}
