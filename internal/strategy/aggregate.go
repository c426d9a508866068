package strategy

import (
	"math"
	"sort"
	"time"

	"github.com/tradekit/orbpulse/internal/domain/models"
)

// DailySummaries folds trades into per-calendar-day aggregates, sorted by
// date ascending. The fold is order-independent over the input.
func DailySummaries(trades []models.Trade) []models.DailySummary {
	byDay := make(map[time.Time]*models.DailySummary)
	for _, t := range trades {
		s, ok := byDay[t.Date]
		if !ok {
			s = &models.DailySummary{Date: t.Date}
			byDay[t.Date] = s
		}
		s.Trades++
		if t.Win() {
			s.Wins++
		}
		s.TotalPnLPct += t.PnLPercent
	}

	out := make([]models.DailySummary, 0, len(byDay))
	for _, s := range byDay {
		s.WinRate = round1(float64(s.Wins) / float64(s.Trades) * 100)
		s.TotalPnLPct = round3(s.TotalPnLPct)
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// TickerStats folds trades into per-ticker aggregates, sorted by total P&L
// percent descending. The fold is order-independent over the input.
func TickerStats(trades []models.Trade) []models.TickerStats {
	byTicker := make(map[string]*models.TickerStats)
	sums := make(map[string]float64)
	for _, t := range trades {
		s, ok := byTicker[t.Ticker]
		if !ok {
			s = &models.TickerStats{Ticker: t.Ticker}
			byTicker[t.Ticker] = s
		}
		s.Trades++
		if t.Win() {
			s.Wins++
		}
		sums[t.Ticker] += t.PnLPercent
		switch t.ExitReason {
		case models.ExitTakeProfit:
			s.TakeProfits++
		case models.ExitStopLoss:
			s.StopLosses++
		case models.ExitEndOfDay:
			s.EndOfDays++
		}
	}

	out := make([]models.TickerStats, 0, len(byTicker))
	for ticker, s := range byTicker {
		total := sums[ticker]
		s.WinRate = round1(float64(s.Wins) / float64(s.Trades) * 100)
		s.AvgPnLPct = round3(total / float64(s.Trades))
		s.TotalPnLPct = round3(total)
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalPnLPct != out[j].TotalPnLPct {
			return out[i].TotalPnLPct > out[j].TotalPnLPct
		}
		return out[i].Ticker < out[j].Ticker
	})
	return out
}

// Summarize rolls all trades into the overall backtest summary.
func Summarize(trades []models.Trade) models.BacktestSummary {
	var s models.BacktestSummary
	var totalPct float64
	for _, t := range trades {
		s.Trades++
		if t.Win() {
			s.Wins++
		}
		totalPct += t.PnLPercent
		switch t.ExitReason {
		case models.ExitTakeProfit:
			s.TakeProfits++
		case models.ExitStopLoss:
			s.StopLosses++
		case models.ExitEndOfDay:
			s.EndOfDays++
		}
	}
	s.Losses = s.Trades - s.Wins
	if s.Trades > 0 {
		s.WinRate = round1(float64(s.Wins) / float64(s.Trades) * 100)
		s.AvgPnLPct = round3(totalPct / float64(s.Trades))
		s.TotalPnLPct = round3(totalPct)
	}
	return s
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
