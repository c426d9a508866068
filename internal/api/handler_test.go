package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tradekit/orbpulse/internal/domain/dto"
	"github.com/tradekit/orbpulse/internal/domain/models"
	"github.com/tradekit/orbpulse/internal/service"
)

type mockScanService struct {
	resp *dto.ScanResponse
	err  error
}

func (m *mockScanService) GetScan(_ context.Context) (*dto.ScanResponse, error) { return m.resp, m.err }
func (m *mockScanService) Refresh(_ context.Context) error                      { return nil }

var _ service.ScanService = (*mockScanService)(nil)

type mockStatsService struct {
	resp    *models.TickerStats
	runDate *time.Time
	err     error
}

func (m *mockStatsService) GetTickerStats(_ context.Context, _ string) (*models.TickerStats, *time.Time, error) {
	return m.resp, m.runDate, m.err
}

var _ service.StatsService = (*mockStatsService)(nil)

func timePtr(t time.Time) *time.Time { return &t }

func setupRouterWithMocks(scan service.ScanService, stats service.StatsService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(scan, stats)
	r := gin.New()
	v1 := r.Group("/api/v1")
	v1.GET("/scan", h.GetScan)
	v1.GET("/stats", h.GetStats)
	return r
}

func TestGetScan_TableDriven(t *testing.T) {
	okResp := &dto.ScanResponse{
		Status:     dto.ScanStatusOK,
		ServerTime: "2026-03-03 11:00:00 ET",
		ScanTime:   "10:59:41 ET",
		Rows:       []models.ScanRow{{Ticker: "NVDA", Signal: models.SignalBuyCall}},
	}
	closedResp := &dto.ScanResponse{
		Status:     dto.ScanStatusMarketClosed,
		Message:    "Market closed. Scanning resumes at 9:25 AM ET (Mon-Fri).",
		ServerTime: "2026-03-07 11:00:00 ET",
		Rows:       []models.ScanRow{},
	}

	cases := []struct {
		name   string
		svc    *mockScanService
		status int
		assert func(t *testing.T, body []byte)
	}{
		{
			name:   "scan ok",
			svc:    &mockScanService{resp: okResp},
			status: http.StatusOK,
			assert: func(t *testing.T, body []byte) {
				var out dto.ScanResponse
				if err := json.Unmarshal(body, &out); err != nil {
					t.Fatalf("invalid json: %v", err)
				}
				if out.Status != dto.ScanStatusOK || len(out.Rows) != 1 || out.Rows[0].Ticker != "NVDA" {
					t.Fatalf("unexpected body: %+v", out)
				}
			},
		},
		{
			name:   "market closed still 200",
			svc:    &mockScanService{resp: closedResp},
			status: http.StatusOK,
			assert: func(t *testing.T, body []byte) {
				var out dto.ScanResponse
				if err := json.Unmarshal(body, &out); err != nil {
					t.Fatalf("invalid json: %v", err)
				}
				if out.Status != dto.ScanStatusMarketClosed {
					t.Fatalf("unexpected status: %q", out.Status)
				}
				if out.Rows == nil {
					t.Fatalf("rows must serialize as [], not null")
				}
			},
		},
		{
			name:   "upstream failure",
			svc:    &mockScanService{err: errors.New("yahoo down")},
			status: http.StatusBadGateway,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := setupRouterWithMocks(tc.svc, &mockStatsService{})
			req := httptest.NewRequest(http.MethodGet, "/api/v1/scan", nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, w.Code)
			}
			if tc.assert != nil {
				tc.assert(t, w.Body.Bytes())
			}
		})
	}
}

func TestGetStats_TableDriven(t *testing.T) {
	cases := []struct {
		name   string
		svc    *mockStatsService
		query  string
		status int
		assert func(t *testing.T, body []byte)
	}{
		{
			name:   "missing ticker",
			svc:    &mockStatsService{},
			query:  "/api/v1/stats",
			status: http.StatusBadRequest,
		},
		{
			name:   "not found",
			svc:    &mockStatsService{resp: nil, err: nil},
			query:  "/api/v1/stats?ticker=ZZZZ",
			status: http.StatusNotFound,
		},
		{
			name:   "internal error",
			svc:    &mockStatsService{resp: nil, err: errors.New("db down")},
			query:  "/api/v1/stats?ticker=NVDA",
			status: http.StatusInternalServerError,
		},
		{
			name: "success",
			svc: &mockStatsService{
				resp: &models.TickerStats{
					Ticker: "NVDA", Trades: 38, Wins: 17, WinRate: 44.7,
					AvgPnLPct: 0.112, TotalPnLPct: 4.256,
					TakeProfits: 9, StopLosses: 14, EndOfDays: 15,
				},
				runDate: timePtr(time.Date(2026, time.March, 6, 0, 0, 0, 0, time.UTC)),
			},
			query:  "/api/v1/stats?ticker=nvda",
			status: http.StatusOK,
			assert: func(t *testing.T, body []byte) {
				var out dto.StatsResponse
				if err := json.Unmarshal(body, &out); err != nil {
					t.Fatalf("invalid json: %v", err)
				}
				if out.Ticker != "NVDA" || out.Trades != 38 || out.WinRate != 44.7 {
					t.Fatalf("unexpected body: %+v", out)
				}
				if out.RunDate != "2026-03-06" {
					t.Fatalf("run_date = %q, want 2026-03-06", out.RunDate)
				}
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := setupRouterWithMocks(&mockScanService{}, tc.svc)
			req := httptest.NewRequest(http.MethodGet, tc.query, nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, w.Code)
			}
			if tc.assert != nil {
				tc.assert(t, w.Body.Bytes())
			}
		})
	}
}
