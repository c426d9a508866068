package storage

import (
	"database/sql"
	"math"
	"time"

	pq "github.com/lib/pq"

	"github.com/tradekit/orbpulse/internal/domain/models"
)

// BacktestRepository defines the contract for persisting and querying
// backtest results.
type BacktestRepository interface {
	InsertRun(runDate time.Time, lookbackDays, tradeCount int) error
	DeleteRunByDate(runDate time.Time) error
	HasRunForDate(runDate time.Time) (bool, error)
	InsertTradesBatch(runDate time.Time, trades []models.Trade) error
	GetTickerStats(ticker string) (*models.TickerStats, error)
	GetLatestRunDate() (*time.Time, error)
}

type backtestRepository struct {
	db *sql.DB
}

func NewBacktestRepository(db *sql.DB) BacktestRepository {
	return &backtestRepository{db: db}
}

// InsertRun records (or updates) the run log entry for a given run date.
func (r *backtestRepository) InsertRun(runDate time.Time, lookbackDays, tradeCount int) error {
	_, err := r.db.Exec(`
		INSERT INTO backtest_runs (run_date, lookback_days, trade_count)
		VALUES ($1, $2, $3)
		ON CONFLICT (run_date)
		DO UPDATE SET lookback_days = EXCLUDED.lookback_days,
					  trade_count = EXCLUDED.trade_count,
					  created_at = NOW()
	`, runDate, lookbackDays, tradeCount)
	return err
}

// HasRunForDate checks whether a backtest run was already recorded for a day.
func (r *backtestRepository) HasRunForDate(runDate time.Time) (bool, error) {
	var exists bool
	err := r.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM backtest_runs WHERE run_date = $1)`, runDate).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// DeleteRunByDate removes a run and its trades so the day can be replayed.
func (r *backtestRepository) DeleteRunByDate(runDate time.Time) error {
	if _, err := r.db.Exec(`DELETE FROM backtest_trades WHERE run_date = $1`, runDate); err != nil {
		return err
	}
	_, err := r.db.Exec(`DELETE FROM backtest_runs WHERE run_date = $1`, runDate)
	return err
}

// InsertTradesBatch inserts a run's trades in a single transaction via COPY.
func (r *backtestRepository) InsertTradesBatch(runDate time.Time, trades []models.Trade) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}

	// Bulk load: results are reproducible, durability can wait for commit.
	if _, err := tx.Exec(`SET LOCAL synchronous_commit = OFF`); err != nil {
		_ = tx.Rollback()
		return err
	}

	stmt, err := tx.Prepare(pq.CopyIn(
		"backtest_trades",
		"run_date",
		"trade_date",
		"ticker",
		"direction",
		"signal",
		"orb_high",
		"orb_low",
		"orb_range",
		"entry_price",
		"entry_time",
		"stop_price",
		"target_price",
		"exit_price",
		"exit_reason",
		"pnl_points",
		"pnl_percent",
	))
	if err != nil {
		_ = tx.Rollback()
		return err
	}

	for _, t := range trades {
		if _, err := stmt.Exec(
			runDate,
			t.Date,
			t.Ticker,
			string(t.Direction),
			string(t.Signal),
			t.ORBHigh,
			t.ORBLow,
			t.ORBRange,
			t.Entry,
			t.EntryTime,
			t.Stop,
			t.Target,
			t.Exit,
			string(t.ExitReason),
			t.PnLPoints,
			t.PnLPercent,
		); err != nil {
			_ = stmt.Close()
			_ = tx.Rollback()
			return err
		}
	}

	if _, err := stmt.Exec(); err != nil {
		_ = stmt.Close()
		_ = tx.Rollback()
		return err
	}
	if err := stmt.Close(); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

// GetLatestRunDate returns the most recent recorded run date, or nil when no
// run has been persisted yet.
func (r *backtestRepository) GetLatestRunDate() (*time.Time, error) {
	var d sql.NullTime
	err := r.db.QueryRow(`SELECT MAX(run_date) FROM backtest_runs`).Scan(&d)
	if err != nil {
		return nil, err
	}
	if !d.Valid {
		return nil, nil
	}
	return &d.Time, nil
}

// GetTickerStats aggregates a ticker's trades from the latest persisted run.
// Returns (nil, nil) when the ticker has no trades.
func (r *backtestRepository) GetTickerStats(ticker string) (*models.TickerStats, error) {
	query := `
		SELECT
			COUNT(*) AS trades,
			COUNT(*) FILTER (WHERE pnl_points > 0) AS wins,
			COALESCE(AVG(pnl_percent), 0) AS avg_pnl_pct,
			COALESCE(SUM(pnl_percent), 0) AS total_pnl_pct,
			COUNT(*) FILTER (WHERE exit_reason = 'TP') AS tp_count,
			COUNT(*) FILTER (WHERE exit_reason = 'SL') AS sl_count,
			COUNT(*) FILTER (WHERE exit_reason = 'EOD') AS eod_count
		FROM backtest_trades
		WHERE ticker = $1
		  AND run_date = (SELECT MAX(run_date) FROM backtest_runs)
	`

	var s models.TickerStats
	s.Ticker = ticker
	err := r.db.QueryRow(query, ticker).Scan(
		&s.Trades,
		&s.Wins,
		&s.AvgPnLPct,
		&s.TotalPnLPct,
		&s.TakeProfits,
		&s.StopLosses,
		&s.EndOfDays,
	)
	if err != nil {
		return nil, err
	}
	if s.Trades == 0 {
		return nil, nil
	}

	// Same rounding policy as the in-memory aggregator: win rate to 1
	// decimal, P&L percentages to 3.
	s.WinRate = round1(float64(s.Wins) / float64(s.Trades) * 100)
	s.AvgPnLPct = round3(s.AvgPnLPct)
	s.TotalPnLPct = round3(s.TotalPnLPct)
	return &s, nil
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
