package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/tradekit/orbpulse/internal/domain/dto"
	"github.com/tradekit/orbpulse/internal/domain/models"
)

func TestNewRouter_WiringAndMiddlewares(t *testing.T) {
	gin.SetMode(gin.TestMode)

	scan := &mockScanService{resp: &dto.ScanResponse{
		Status:     dto.ScanStatusOK,
		ServerTime: "2026-03-03 11:00:00 ET",
		ScanTime:   "10:59:41 ET",
		Rows:       []models.ScanRow{{Ticker: "NVDA", Signal: models.SignalBuyCall}},
	}}
	h := NewHandler(scan, &mockStatsService{})
	r := NewRouter(h)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/scan", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	// RequestID middleware must inject the header
	if w.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected X-Request-ID header to be set")
	}

	var out dto.ScanResponse
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid json response: %v", err)
	}
	if out.Status != dto.ScanStatusOK || len(out.Rows) != 1 {
		t.Fatalf("unexpected body: %+v", out)
	}
}
