// Package backtest replays the ORB strategy over historical intraday data,
// aggregates the results, persists them, and writes CSV reports.
package backtest

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tradekit/orbpulse/internal/domain/models"
	"github.com/tradekit/orbpulse/internal/logger"
	"github.com/tradekit/orbpulse/internal/marketdata"
	"github.com/tradekit/orbpulse/internal/storage"
	"github.com/tradekit/orbpulse/internal/strategy"
)

const maxParallel = 8

// Config carries the backtest parameters, populated from the global config.
type Config struct {
	Tickers       []string
	LookbackDays  int
	MinBarsPerDay int
}

// Result bundles everything a backtest run produces.
type Result struct {
	RunDate time.Time
	Trades  []models.Trade
	Daily   []models.DailySummary
	Stats   []models.TickerStats
	Summary models.BacktestSummary
}

// Runner drives the backtest: fetch, simulate, aggregate, persist.
type Runner struct {
	fetcher marketdata.Fetcher
	repo    storage.BacktestRepository // nil disables persistence
	cfg     Config
	now     func() time.Time
}

// NewRunner constructs a Runner. repo may be nil to skip persistence; a nil
// clock falls back to time.Now.
func NewRunner(fetcher marketdata.Fetcher, repo storage.BacktestRepository, cfg Config, now func() time.Time) *Runner {
	if now == nil {
		now = time.Now
	}
	return &Runner{fetcher: fetcher, repo: repo, cfg: cfg, now: now}
}

// Run executes the backtest across all configured tickers. Tickers are
// processed concurrently; each ticker-day simulation is independent, and the
// final aggregation is order-insensitive.
//
// A ticker whose fetch fails contributes zero trades; it never aborts the
// run.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	logger.L().Info().
		Int("tickers", len(r.cfg.Tickers)).
		Int("lookback_days", r.cfg.LookbackDays).
		Msg("backtest start")

	// Replay only the last LookbackDays trading days; fetchers may return
	// more calendar history than that.
	window := marketdata.LastNTradingDays(r.cfg.LookbackDays, r.now())
	cutoff := window[len(window)-1]

	perTicker := make([][]models.Trade, len(r.cfg.Tickers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallel)

	for i, ticker := range r.cfg.Tickers {
		idx := i
		sym := ticker
		g.Go(func() error {
			trades, err := r.runTicker(gctx, sym, cutoff)
			if err != nil {
				logger.L().Warn().Str("ticker", sym).Err(err).Msg("ticker skipped")
				return nil
			}
			perTicker[idx] = trades
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var trades []models.Trade
	for _, tt := range perTicker {
		trades = append(trades, tt...)
	}

	res := &Result{
		RunDate: truncate(r.now().In(marketdata.Eastern)),
		Trades:  trades,
		Daily:   strategy.DailySummaries(trades),
		Stats:   strategy.TickerStats(trades),
		Summary: strategy.Summarize(trades),
	}

	if r.repo != nil {
		if err := r.persist(res); err != nil {
			return nil, fmt.Errorf("persist backtest run: %w", err)
		}
	}

	logger.L().Info().
		Int("trades", len(trades)).
		Dur("elapsed", time.Since(start)).
		Msg("backtest complete")
	return res, nil
}

// runTicker fetches the lookback window for one symbol and simulates every
// day at or after the cutoff that has enough bars.
func (r *Runner) runTicker(ctx context.Context, ticker string, cutoff time.Time) ([]models.Trade, error) {
	bars, err := r.fetcher.IntradayBars(ctx, ticker, r.cfg.LookbackDays)
	if err != nil {
		return nil, err
	}
	if len(bars) == 0 {
		return nil, nil
	}

	byDay := marketdata.GroupByDay(bars)
	var trades []models.Trade
	for _, day := range marketdata.SortedDays(byDay) {
		if day.Before(cutoff) {
			continue
		}
		dayBars := byDay[day]
		// Early close or data gap: skip thin days before simulating.
		if len(dayBars) < r.cfg.MinBarsPerDay {
			continue
		}
		if trade, ok := strategy.SimulateDay(ticker, day, dayBars); ok {
			trades = append(trades, trade)
		}
	}

	logger.L().Debug().Str("ticker", ticker).Int("trades", len(trades)).Msg("ticker done")
	return trades, nil
}

// persist replaces any existing run for the same date, then records the run
// log entry and the trade batch.
func (r *Runner) persist(res *Result) error {
	exists, err := r.repo.HasRunForDate(res.RunDate)
	if err != nil {
		return err
	}
	if exists {
		if err := r.repo.DeleteRunByDate(res.RunDate); err != nil {
			return err
		}
	}
	if err := r.repo.InsertRun(res.RunDate, r.cfg.LookbackDays, len(res.Trades)); err != nil {
		return err
	}
	if len(res.Trades) == 0 {
		return nil
	}
	return r.repo.InsertTradesBatch(res.RunDate, res.Trades)
}

func truncate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
