package service

import (
	"context"
	"sync"
	"time"

	"github.com/tradekit/orbpulse/internal/domain/dto"
	"github.com/tradekit/orbpulse/internal/domain/models"
	"github.com/tradekit/orbpulse/internal/logger"
	"github.com/tradekit/orbpulse/internal/marketdata"
)

const (
	serverTimeLayout = "2006-01-02 15:04:05 ET"
	scanTimeLayout   = "15:04:05 ET"

	msgMarketClosed = "Market closed. Scanning resumes at 9:25 AM ET (Mon-Fri)."
	msgTooEarly     = "Opening range forming. First signals at 9:45 AM ET."
)

// ScanRunner produces the current signal rows. Satisfied by *scanner.Scanner.
type ScanRunner interface {
	Run(ctx context.Context) ([]models.ScanRow, error)
}

// ScanService defines business logic for serving live scan results.
type ScanService interface {
	GetScan(ctx context.Context) (*dto.ScanResponse, error)
	Refresh(ctx context.Context) error
}

type scanService struct {
	runner ScanRunner
	ttl    time.Duration
	now    func() time.Time

	mu       sync.Mutex
	rows     []models.ScanRow
	scanTime time.Time // zero until the first successful scan
}

// NewScanService constructs a ScanService that caches scan results for ttl.
// A nil clock falls back to time.Now.
func NewScanService(runner ScanRunner, ttl time.Duration, now func() time.Time) ScanService {
	if now == nil {
		now = time.Now
	}
	return &scanService{runner: runner, ttl: ttl, now: now}
}

// GetScan gates on market hours and serves cached rows, rescanning only when
// the cache is older than the TTL.
//
// Outside the scan window (09:25-16:30 ET on trading days) it returns a
// market_closed response without touching the data source; before the opening
// range completes at 09:45 it returns too_early.
func (s *scanService) GetScan(ctx context.Context) (*dto.ScanResponse, error) {
	now := s.now().In(marketdata.Eastern)
	resp := &dto.ScanResponse{
		ServerTime: now.Format(serverTimeLayout),
		Rows:       []models.ScanRow{},
	}

	if !marketdata.InScanWindow(now) {
		resp.Status = dto.ScanStatusMarketClosed
		resp.Message = msgMarketClosed
		return resp, nil
	}
	if !marketdata.RangeComplete(now) {
		resp.Status = dto.ScanStatusTooEarly
		resp.Message = msgTooEarly
		return resp, nil
	}

	rows, scanTime, err := s.cachedRows(ctx, now)
	if err != nil {
		return nil, err
	}

	resp.Status = dto.ScanStatusOK
	resp.ScanTime = scanTime.In(marketdata.Eastern).Format(scanTimeLayout)
	resp.Rows = rows
	return resp, nil
}

// Refresh forces a rescan regardless of cache age. Used by the background
// prewarm job so interactive requests rarely pay the fetch latency.
func (s *scanService) Refresh(ctx context.Context) error {
	rows, err := s.runner.Run(ctx)
	if err != nil {
		return err
	}
	now := s.now()

	s.mu.Lock()
	s.rows = rows
	s.scanTime = now
	s.mu.Unlock()

	logger.L().Debug().Int("rows", len(rows)).Msg("scan cache refreshed")
	return nil
}

// cachedRows returns the cached scan, rescanning when stale. A stale cache
// plus a failing rescan returns the error; there is no silent fallback to
// outdated rows.
func (s *scanService) cachedRows(ctx context.Context, now time.Time) ([]models.ScanRow, time.Time, error) {
	s.mu.Lock()
	fresh := !s.scanTime.IsZero() && now.Sub(s.scanTime) < s.ttl
	rows, scanTime := s.rows, s.scanTime
	s.mu.Unlock()

	if fresh {
		return rows, scanTime, nil
	}
	if err := s.Refresh(ctx); err != nil {
		return nil, time.Time{}, err
	}

	s.mu.Lock()
	rows, scanTime = s.rows, s.scanTime
	s.mu.Unlock()
	return rows, scanTime, nil
}
