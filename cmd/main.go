package main

//
//  @title           orbpulse API
//  @version         1.0
//  @description     Intraday opening range breakout scanner with options Greeks context.
//  @termsOfService  https://github.com/tradekit/orbpulse
//  @contact.name    API Support
//  @contact.url     https://github.com/tradekit/orbpulse
//  @contact.email   support@example.com
//  @license.name    MIT
//  @license.url     https://opensource.org/licenses/MIT
//  @host            localhost:8080
//  @BasePath        /
//  @schemes         http
//
//  @tag.name        scan
//  @tag.description Live opening range breakout signals
//
//  @tag.name        stats
//  @tag.description Persisted backtest aggregates
//
//  @tag.name        health
//  @tag.description Liveness and readiness probes

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tradekit/orbpulse/config"
	_ "github.com/tradekit/orbpulse/docs" // swagger docs
	"github.com/tradekit/orbpulse/internal/app"
	"github.com/tradekit/orbpulse/internal/backtest"
	"github.com/tradekit/orbpulse/internal/domain/models"
	"github.com/tradekit/orbpulse/internal/logger"
	"github.com/tradekit/orbpulse/internal/marketdata"
	"github.com/tradekit/orbpulse/internal/scanner"
	"github.com/tradekit/orbpulse/internal/storage"
)

// startServer initializes and starts the HTTP server in a separate goroutine.
func startServer(router http.Handler, port string) *http.Server {
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.L().Info().Str("port", port).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Fatal().Err(err).Msg("server failed to start")
		}
	}()

	return server
}

// gracefulShutdown gracefully terminates the HTTP server and cleans up
// resources when an OS interrupt signal (SIGINT, SIGTERM) is received.
func gracefulShutdown(ctx context.Context, server *http.Server, cleanup func()) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	logger.L().Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.L().Fatal().Err(err).Msg("server forced to shutdown")
	}

	cleanup()
	logger.L().Info().Msg("server exited gracefully")
}

// printScanTable renders scan rows as a console table, one line per signal.
func printScanTable(rows []models.ScanRow) {
	if len(rows) == 0 {
		fmt.Println("No breakout signals right now.")
		return
	}

	fmt.Printf("%-8s %-9s %9s %9s %9s %8s %7s %8s %8s %7s\n",
		"Ticker", "Signal", "ORB High", "ORB Low", "Price", "Entry", "Delta", "Theta/h", "IV", "RelVol")
	for _, r := range rows {
		entry := "-"
		if r.HasEntry() {
			entry = r.EntryTime.Format("15:04")
		}
		delta, theta := "-", "-"
		if r.Greeks.Valid {
			delta = fmt.Sprintf("%.3f", r.Greeks.Delta)
			theta = fmt.Sprintf("%.3f", r.Greeks.ThetaHourly)
		}
		fmt.Printf("%-8s %-9s %9.2f %9.2f %9.2f %8s %7s %8s %8.2f %7.2f\n",
			r.Ticker, r.Signal, r.ORBHigh, r.ORBLow, r.CurrentPrice, entry, delta, theta, r.Greeks.IV, r.RelativeVol)
	}
}

// runScan executes a single live scan and prints the results.
func runScan(ctx context.Context) {
	cfg := config.AppConfig.Scanner
	s := scanner.New(marketdata.NewYahooFetcher(), scanner.Config{
		Tickers:      cfg.Tickers,
		MaxRows:      cfg.MaxRows,
		RiskFreeRate: cfg.RiskFreeRate,
		DefaultIV:    cfg.DefaultIV,
	}, nil)

	rows, err := s.Run(ctx)
	if err != nil {
		logger.L().Fatal().Err(err).Msg("scan failed")
	}
	printScanTable(rows)
}

// runBacktest replays the strategy over the lookback window, writes CSV
// reports, and persists the run when Postgres is reachable.
func runBacktest(ctx context.Context, days int, out string) {
	cfg := config.AppConfig

	lookback := cfg.Backtest.LookbackDays
	if days > 0 {
		lookback = days
	}
	resultsDir := cfg.Backtest.ResultsDir
	if out != "" {
		resultsDir = out
	}

	// Persistence is best effort: a missing database downgrades the run to
	// CSV-only output.
	var repo storage.BacktestRepository
	db, err := app.InitPostgres(cfg)
	if err != nil {
		logger.L().Warn().Err(err).Msg("postgres unavailable, results will not be persisted")
	} else {
		defer func() { _ = db.Close() }()
		repo = storage.NewBacktestRepository(db)
	}

	runner := backtest.NewRunner(marketdata.NewYahooFetcher(), repo, backtest.Config{
		Tickers:       cfg.Scanner.Tickers,
		LookbackDays:  lookback,
		MinBarsPerDay: cfg.Backtest.MinBarsPerDay,
	}, nil)

	res, err := runner.Run(ctx)
	if err != nil {
		logger.L().Fatal().Err(err).Msg("backtest failed")
	}
	if err := backtest.WriteReports(resultsDir, res); err != nil {
		logger.L().Fatal().Err(err).Msg("write reports failed")
	}
	backtest.PrintSummary(os.Stdout, res)
	logger.L().Info().Str("dir", resultsDir).Msg("reports written")
}

// main is the entry point of the orbpulse application.
//
// Modes (selected via --mode flag):
//   - scan:     Runs one live scan over the ticker universe and prints signals.
//   - backtest: Replays the strategy over historical data and writes CSV reports.
//   - api:      Starts the REST API serving cached scans and backtest stats.
//
// Flags:
//   - --mode: Execution mode ("scan", "backtest", or "api"). Default: "scan".
//   - --days: Lookback days for backtest mode. Defaults to BACKTEST_LOOKBACK_DAYS.
//   - --out:  Output directory for backtest reports. Defaults to BACKTEST_RESULTS_DIR.
//   - --port: Port for the API server. Defaults to value from config (SERVER_PORT).
func main() {
	ctx := context.Background()

	// Load configuration from environment or .env file
	config.LoadConfig()

	// Initialize JSON logger
	logger.Init()

	mode := flag.String("mode", "scan", "Mode: scan, backtest, or api")
	days := flag.Int("days", 0, "Lookback days for backtest mode (0=config default)")
	out := flag.String("out", "", "Output directory for backtest reports (empty=config default)")
	port := flag.String("port", config.AppConfig.Server.Port, "Port for API mode")
	flag.Parse()

	switch *mode {
	case "scan":
		logger.L().Info().Msg("running live scan")
		runScan(ctx)

	case "backtest":
		logger.L().Info().Msg("running backtest")
		runBacktest(ctx, *days, *out)

	case "api":
		logger.L().Info().Msg("starting API server")

		router, cleanup, err := app.InitializeApp()
		if err != nil {
			logger.L().Fatal().Err(err).Msg("app init error")
		}

		server := startServer(router, *port)
		gracefulShutdown(ctx, server, cleanup)

	default:
		logger.L().Fatal().Str("mode", *mode).Msg("unknown mode")
	}
}
