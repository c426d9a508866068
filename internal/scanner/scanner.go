// Package scanner runs the live ORB scan across the ticker universe and
// produces the rows served by the API and the scan CLI mode.
package scanner

import (
	"context"
	"math"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tradekit/orbpulse/internal/domain/models"
	"github.com/tradekit/orbpulse/internal/logger"
	"github.com/tradekit/orbpulse/internal/marketdata"
	"github.com/tradekit/orbpulse/internal/pricing"
	"github.com/tradekit/orbpulse/internal/strategy"
)

const maxParallel = 8

// Config carries the scan parameters, populated from the global config.
type Config struct {
	Tickers      []string
	MaxRows      int
	RiskFreeRate float64
	DefaultIV    float64
}

// Scanner evaluates the ORB signal for every configured ticker.
type Scanner struct {
	fetcher marketdata.Fetcher
	cfg     Config
	now     func() time.Time // injected clock, defaults to time.Now
}

// New constructs a Scanner. A nil clock falls back to time.Now.
func New(fetcher marketdata.Fetcher, cfg Config, now func() time.Time) *Scanner {
	if now == nil {
		now = time.Now
	}
	return &Scanner{fetcher: fetcher, cfg: cfg, now: now}
}

// Run scans the universe concurrently and returns the signal rows:
// NEUTRAL tickers excluded, sorted by entry time (rows without an entry
// last), capped at cfg.MaxRows.
//
// A ticker whose data fetch or range extraction fails is logged and skipped;
// one bad ticker never fails the scan.
func (s *Scanner) Run(ctx context.Context) ([]models.ScanRow, error) {
	start := time.Now()
	logger.L().Info().Int("tickers", len(s.cfg.Tickers)).Msg("scan start")

	rows := make([]*models.ScanRow, len(s.cfg.Tickers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallel)

	for i, ticker := range s.cfg.Tickers {
		idx := i
		sym := ticker
		g.Go(func() error {
			row, err := s.scanTicker(gctx, sym)
			if err != nil {
				// Absence, not failure: the ticker contributes no row.
				logger.L().Warn().Str("ticker", sym).Err(err).Msg("ticker skipped")
				return nil
			}
			rows[idx] = row
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]models.ScanRow, 0, len(rows))
	for _, r := range rows {
		if r == nil || r.Signal == models.SignalNeutral {
			continue
		}
		out = append(out, *r)
	}

	// Earliest breakout first; "no entry yet" rows sort last.
	sort.SliceStable(out, func(i, j int) bool {
		ti, tj := out[i].EntryTime, out[j].EntryTime
		switch {
		case ti.IsZero():
			return false
		case tj.IsZero():
			return true
		default:
			return ti.Before(tj)
		}
	})

	if s.cfg.MaxRows > 0 && len(out) > s.cfg.MaxRows {
		out = out[:s.cfg.MaxRows]
	}

	logger.L().Info().Int("rows", len(out)).Dur("elapsed", time.Since(start)).Msg("scan complete")
	return out, nil
}

// scanTicker evaluates one symbol: today's opening range, the current
// signal, the first entry bar, and the Greeks context.
func (s *Scanner) scanTicker(ctx context.Context, ticker string) (*models.ScanRow, error) {
	bars, err := s.fetcher.IntradayBars(ctx, ticker, 1)
	if err != nil {
		return nil, err
	}
	if len(bars) == 0 {
		return nil, errNoData
	}

	orb, ok := strategy.OpeningRange(bars)
	if !ok {
		return nil, errNoOpeningRange
	}

	latest := bars[len(bars)-1]
	signal, entryLevel := strategy.Evaluate(orb, latest.Close)
	entryTime := strategy.FindEntryTime(bars, orb, signal)

	row := &models.ScanRow{
		Ticker:        ticker,
		Signal:        signal,
		ORBHigh:       orb.High,
		ORBLow:        orb.Low,
		EntryLevel:    entryLevel,
		EntryTime:     entryTime,
		CurrentPrice:  latest.Close,
		Diff:          latest.Close - entryLevel,
		CurrentVolume: latest.Volume,
	}

	row.Greeks = s.greeks(ctx, ticker, signal, latest.Close)
	row.RelativeVol = s.relativeVolume(ctx, ticker, latest.Volume)

	return row, nil
}

// greeks prices an at-the-money 0-DTE contract for the signal's direction.
// NEUTRAL rows are priced as calls, for display only.
func (s *Scanner) greeks(ctx context.Context, ticker string, signal models.Signal, spot float64) models.Greeks {
	kind := models.Call
	if signal == models.SignalBuyPut {
		kind = models.Put
	}

	iv, err := s.fetcher.Volatility(ctx, ticker)
	if err != nil {
		logger.L().Warn().Str("ticker", ticker).Err(err).Msg("volatility fetch failed")
		iv = 0
	}
	sigma := pricing.EstimateIV(iv, s.cfg.DefaultIV)

	strike := math.Round(spot) // nearest-dollar ATM strike
	t := marketdata.YearsToSessionClose(s.now())

	delta, ok1 := pricing.Delta(spot, strike, s.cfg.RiskFreeRate, sigma, t, kind)
	theta, ok2 := pricing.ThetaHourly(spot, strike, s.cfg.RiskFreeRate, sigma, t, kind)

	return models.Greeks{
		Delta:       delta,
		ThetaHourly: theta,
		IV:          sigma,
		Valid:       ok1 && ok2,
	}
}

func (s *Scanner) relativeVolume(ctx context.Context, ticker string, current float64) float64 {
	avg, err := s.fetcher.AvgDailyVolume(ctx, ticker)
	if err != nil || avg <= 0 {
		return 0
	}
	return math.Round(current/avg*100) / 100
}
