package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"

	"github.com/tradekit/orbpulse/config"
	"github.com/tradekit/orbpulse/internal/api"
	"github.com/tradekit/orbpulse/internal/logger"
	"github.com/tradekit/orbpulse/internal/marketdata"
	"github.com/tradekit/orbpulse/internal/scanner"
	"github.com/tradekit/orbpulse/internal/service"
	"github.com/tradekit/orbpulse/internal/storage"
)

// Refresh the scan cache every 5 minutes during the 9-16 ET block on
// weekdays. The scan service's own gate keeps holiday and pre-range
// refreshes from reaching the data source.
const prewarmSpec = "*/5 9-16 * * MON-FRI"

// InitializeApp sets up all application dependencies and returns
// a fully configured Gin router, a cleanup function for graceful shutdown,
// and any error encountered during initialization.
//
// Responsibilities:
//   - Connects to PostgreSQL using InitPostgres().
//   - Initializes the repository, service, and HTTP handler layers.
//   - Configures the Gin router with all API routes.
//   - Registers health and readiness probes.
//   - Starts the scan cache prewarm scheduler.
//   - Provides a cleanup function to close resources (DB, scheduler).
func InitializeApp() (*gin.Engine, func(), error) {
	// Load global configuration
	cfg := config.AppConfig

	// Connect to PostgreSQL
	// indirection for unit testing
	db, err := postgresOpener(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize postgres: %w", err)
	}

	// Repository layer (backtest aggregates served by /api/v1/stats)
	repo := storage.NewBacktestRepository(db)

	// Live scan pipeline: Yahoo bars -> scanner -> TTL-cached service
	fetcher := marketdata.NewYahooFetcher()
	scan := scanner.New(fetcher, scanner.Config{
		Tickers:      cfg.Scanner.Tickers,
		MaxRows:      cfg.Scanner.MaxRows,
		RiskFreeRate: cfg.Scanner.RiskFreeRate,
		DefaultIV:    cfg.Scanner.DefaultIV,
	}, nil)

	ttl := time.Duration(cfg.Scanner.CacheTTLSeconds) * time.Second
	scanSvc := service.NewScanService(scan, ttl, nil)
	statsSvc := service.NewStatsService(repo)

	// HTTP handler layer
	handler := api.NewHandler(scanSvc, statsSvc)

	// Setup Gin router with routes
	router := api.NewRouter(handler)

	// Register health and readiness probes
	healthHandler := api.NewHealthHandler(db.Ping)
	healthHandler.Register(router)

	// Prewarm the scan cache on a schedule so interactive requests rarely
	// pay the full fetch latency.
	sched := newPrewarmScheduler(scanSvc)
	sched.Start()

	// Cleanup resources on shutdown
	cleanup := func() {
		ctx := sched.Stop()
		<-ctx.Done()
		_ = db.Close()
	}

	return router, cleanup, nil
}

// newPrewarmScheduler builds the cron scheduler that refreshes the scan
// cache during market hours. Exchange-local schedule regardless of host TZ.
func newPrewarmScheduler(scanSvc service.ScanService) *cron.Cron {
	c := cron.New(cron.WithLocation(marketdata.Eastern))
	_, err := c.AddFunc(prewarmSpec, func() {
		now := time.Now()
		if !marketdata.InScanWindow(now) || !marketdata.RangeComplete(now) {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := scanSvc.Refresh(ctx); err != nil {
			logger.L().Warn().Err(err).Msg("scan prewarm failed")
		}
	})
	if err != nil {
		// The spec is a compile-time constant; a parse failure is a bug.
		panic("app: invalid prewarm schedule: " + err.Error())
	}
	return c
}
