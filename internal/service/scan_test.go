package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tradekit/orbpulse/internal/domain/dto"
	"github.com/tradekit/orbpulse/internal/domain/models"
	"github.com/tradekit/orbpulse/internal/marketdata"
)

type stubRunner struct {
	rows  []models.ScanRow
	err   error
	calls int
}

func (r *stubRunner) Run(_ context.Context) ([]models.ScanRow, error) {
	r.calls++
	return r.rows, r.err
}

// clockAt returns an injectable clock pinned to the given instant, plus a
// setter to advance it.
func clockAt(t time.Time) (func() time.Time, func(time.Time)) {
	cur := t
	return func() time.Time { return cur }, func(nt time.Time) { cur = nt }
}

func midSession() time.Time {
	// Tuesday 2026-03-03, 11:00 ET.
	return time.Date(2026, time.March, 3, 11, 0, 0, 0, marketdata.Eastern)
}

func TestGetScan_MarketClosed(t *testing.T) {
	runner := &stubRunner{}
	now, _ := clockAt(time.Date(2026, time.March, 7, 11, 0, 0, 0, marketdata.Eastern)) // Saturday
	svc := NewScanService(runner, time.Minute, now)

	resp, err := svc.GetScan(context.Background())
	if err != nil {
		t.Fatalf("GetScan: %v", err)
	}
	if resp.Status != dto.ScanStatusMarketClosed {
		t.Fatalf("status = %q, want market_closed", resp.Status)
	}
	if resp.Rows == nil || len(resp.Rows) != 0 {
		t.Fatalf("rows must be empty, not null: %+v", resp.Rows)
	}
	if runner.calls != 0 {
		t.Fatalf("closed market must not trigger a scan")
	}
}

func TestGetScan_TooEarly(t *testing.T) {
	runner := &stubRunner{}
	now, _ := clockAt(time.Date(2026, time.March, 3, 9, 30, 0, 0, marketdata.Eastern))
	svc := NewScanService(runner, time.Minute, now)

	resp, err := svc.GetScan(context.Background())
	if err != nil {
		t.Fatalf("GetScan: %v", err)
	}
	if resp.Status != dto.ScanStatusTooEarly {
		t.Fatalf("status = %q, want too_early", resp.Status)
	}
	if runner.calls != 0 {
		t.Fatalf("forming range must not trigger a scan")
	}
}

func TestGetScan_CachesWithinTTL(t *testing.T) {
	runner := &stubRunner{rows: []models.ScanRow{{Ticker: "NVDA", Signal: models.SignalBuyCall}}}
	now, advance := clockAt(midSession())
	svc := NewScanService(runner, 60*time.Second, now)

	for i := 0; i < 3; i++ {
		resp, err := svc.GetScan(context.Background())
		if err != nil {
			t.Fatalf("GetScan: %v", err)
		}
		if resp.Status != dto.ScanStatusOK || len(resp.Rows) != 1 {
			t.Fatalf("unexpected response: %+v", resp)
		}
		if resp.ScanTime == "" {
			t.Fatalf("ok response must carry a scan time")
		}
		advance(now().Add(10 * time.Second))
	}
	if runner.calls != 1 {
		t.Fatalf("expected a single scan within the TTL, got %d", runner.calls)
	}

	advance(now().Add(60 * time.Second))
	if _, err := svc.GetScan(context.Background()); err != nil {
		t.Fatalf("GetScan after expiry: %v", err)
	}
	if runner.calls != 2 {
		t.Fatalf("expected a rescan after expiry, got %d calls", runner.calls)
	}
}

func TestGetScan_ScanFailureSurfaces(t *testing.T) {
	runner := &stubRunner{err: errors.New("upstream down")}
	now, _ := clockAt(midSession())
	svc := NewScanService(runner, time.Minute, now)

	if _, err := svc.GetScan(context.Background()); err == nil {
		t.Fatalf("expected scan failure to surface")
	}
}

func TestRefresh_PrimesCache(t *testing.T) {
	runner := &stubRunner{rows: []models.ScanRow{{Ticker: "AAPL", Signal: models.SignalBuyPut}}}
	now, _ := clockAt(midSession())
	svc := NewScanService(runner, time.Minute, now)

	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	resp, err := svc.GetScan(context.Background())
	if err != nil {
		t.Fatalf("GetScan: %v", err)
	}
	if len(resp.Rows) != 1 || resp.Rows[0].Ticker != "AAPL" {
		t.Fatalf("unexpected rows: %+v", resp.Rows)
	}
	if runner.calls != 1 {
		t.Fatalf("primed cache must be served without a second scan, got %d calls", runner.calls)
	}
}
