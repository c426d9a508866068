//go:build integration
// +build integration

package storage

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	_ "github.com/lib/pq"
	goose "github.com/pressly/goose/v3"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/tradekit/orbpulse/internal/domain/models"
)

// startPostgres spins up a Postgres container and returns a DSN and terminate func.
func startPostgres(t *testing.T) (dsn string, terminate func()) {
	t.Helper()
	ctx := context.Background()

	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_DB":       "orbpulse",
			"POSTGRES_USER":     "postgres",
			"POSTGRES_PASSWORD": "postgres",
		},
		WaitingFor: wait.ForSQL("5432/tcp", "postgres", func(host string, port nat.Port) string {
			return fmt.Sprintf("host=%s port=%s user=postgres password=postgres dbname=orbpulse sslmode=disable", host, port.Port())
		}).WithStartupTimeout(60 * time.Second),
	}

	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	if err != nil {
		t.Fatalf("container start: %v", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}

	dsn = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", "postgres", "postgres", host, port.Port(), "orbpulse")
	terminate = func() { _ = container.Terminate(context.Background()) }
	return dsn, terminate
}

func openDB(t *testing.T, dsn string) *sql.DB {
	t.Helper()
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.Ping(); err != nil {
		t.Fatalf("ping: %v", err)
	}
	return db
}

func runMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	if err := goose.SetDialect("postgres"); err != nil {
		t.Fatalf("dialect: %v", err)
	}
	// migrations path relative to this test file (internal/storage → ../../db/migrations)
	path := filepath.Join("..", "..", "db", "migrations")
	if err := goose.Up(db, path); err != nil {
		t.Fatalf("migrate up: %v", err)
	}
}

func mkTrade(day time.Time, ticker string, pnlPoints, pnlPercent float64, reason models.ExitReason) models.Trade {
	return models.Trade{
		Date:       day,
		Ticker:     ticker,
		Direction:  models.Long,
		Signal:     models.SignalBuyCall,
		ORBHigh:    101,
		ORBLow:     99,
		ORBRange:   2,
		Entry:      101.05,
		EntryTime:  day.Add(10 * time.Hour),
		Stop:       99.05,
		Target:     105.05,
		Exit:       101.05 + pnlPoints,
		ExitReason: reason,
		PnLPoints:  pnlPoints,
		PnLPercent: pnlPercent,
	}
}

// seedRun persists a run and its trades through the repository itself, the
// same write path the backtest runner uses.
func seedRun(t *testing.T, repo BacktestRepository, runDate time.Time, trades []models.Trade) {
	t.Helper()
	if err := repo.InsertRun(runDate, 60, len(trades)); err != nil {
		t.Fatalf("insert run: %v", err)
	}
	if err := repo.InsertTradesBatch(runDate, trades); err != nil {
		t.Fatalf("insert trades: %v", err)
	}
}

func TestRepository_Integration(t *testing.T) {
	dsn, terminate := startPostgres(t)
	defer terminate()
	db := openDB(t, dsn)
	defer db.Close()
	runMigrations(t, db)

	repo := NewBacktestRepository(db)

	older := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)
	latest := time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC)

	// Two runs; stats must come from the latest one only.
	seedRun(t, repo, older, []models.Trade{
		mkTrade(older.AddDate(0, 0, -1), "NVDA", 9.9, 9.9, models.ExitTakeProfit),
	})
	seedRun(t, repo, latest, []models.Trade{
		mkTrade(latest.AddDate(0, 0, -2), "NVDA", 2.0, 0.55, models.ExitTakeProfit),
		mkTrade(latest.AddDate(0, 0, -1), "NVDA", -1.0, -0.2512345, models.ExitStopLoss),
		mkTrade(latest, "NVDA", 0.5, 0.1239999, models.ExitEndOfDay),
		mkTrade(latest, "TSLA", -2.0, -0.61, models.ExitStopLoss),
	})

	t.Run("run log exists", func(t *testing.T) {
		ok, err := repo.HasRunForDate(latest)
		if err != nil || !ok {
			t.Fatalf("exists want true, got ok=%v err=%v", ok, err)
		}
		ok, err = repo.HasRunForDate(latest.AddDate(0, 0, 1))
		if err != nil || ok {
			t.Fatalf("exists want false, got ok=%v err=%v", ok, err)
		}
	})

	t.Run("latest run date", func(t *testing.T) {
		d, err := repo.GetLatestRunDate()
		if err != nil {
			t.Fatalf("latest run date: %v", err)
		}
		if d == nil || !d.Equal(latest) {
			t.Fatalf("latest run date = %v, want %s", d, latest)
		}
	})

	t.Run("stats from latest run, rounded", func(t *testing.T) {
		s, err := repo.GetTickerStats("NVDA")
		if err != nil {
			t.Fatalf("stats: %v", err)
		}
		if s == nil {
			t.Fatalf("nil stats")
		}
		// Three trades from the latest run; the 9.9-point winner in the
		// older run must not leak in.
		if s.Trades != 3 || s.Wins != 2 {
			t.Fatalf("got trades=%d wins=%d, want 3/2", s.Trades, s.Wins)
		}
		if s.WinRate != 66.7 {
			t.Fatalf("win rate = %v, want 66.7", s.WinRate)
		}
		if s.AvgPnLPct != 0.141 || s.TotalPnLPct != 0.423 {
			t.Fatalf("pnl not rounded to 3 decimals: avg=%v total=%v", s.AvgPnLPct, s.TotalPnLPct)
		}
		if s.TakeProfits != 1 || s.StopLosses != 1 || s.EndOfDays != 1 {
			t.Fatalf("exit counts: %+v", s)
		}
	})

	t.Run("unknown ticker", func(t *testing.T) {
		s, err := repo.GetTickerStats("ZZZZ")
		if err != nil || s != nil {
			t.Fatalf("want nil, nil; got %+v, %v", s, err)
		}
	})

	t.Run("delete run and replay", func(t *testing.T) {
		if err := repo.DeleteRunByDate(latest); err != nil {
			t.Fatalf("delete: %v", err)
		}
		var cnt int
		if err := db.QueryRow("SELECT COUNT(*) FROM backtest_trades WHERE run_date=$1", latest).Scan(&cnt); err != nil {
			t.Fatalf("count: %v", err)
		}
		if cnt != 0 {
			t.Fatalf("expected 0 rows after delete, got %d", cnt)
		}
		d, err := repo.GetLatestRunDate()
		if err != nil {
			t.Fatalf("latest run date: %v", err)
		}
		if d == nil || !d.Equal(older) {
			t.Fatalf("latest run date after delete = %v, want %s", d, older)
		}
	})
}
