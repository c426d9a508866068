package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tradekit/orbpulse/internal/domain/dto"
	"github.com/tradekit/orbpulse/internal/service"
)

// Handler provides HTTP handlers for the scan and stats endpoints.
//
// Responsibilities:
//   - Validate incoming HTTP query parameters
//   - Interact with the service layer
//   - Translate service results into response DTOs
//   - Return structured JSON responses with appropriate HTTP status codes
type Handler struct {
	scan  service.ScanService
	stats service.StatsService
}

// NewHandler constructs a new Handler instance.
func NewHandler(scan service.ScanService, stats service.StatsService) *Handler {
	return &Handler{scan: scan, stats: stats}
}

// GetScan handles GET /api/v1/scan requests.
//
// Responses:
//   - 200 OK: ScanResponse with status "ok", "market_closed", or "too_early".
//     Rows are populated only for "ok".
//   - 502 Bad Gateway: The upstream market data source failed.
//
// GetScan godoc
// @Summary      Live ORB scan
// @Description  Returns current opening range breakout signals with option Greeks context. Outside market hours returns status market_closed; before 9:45 AM ET returns too_early.
// @Tags         scan
// @Produce      json
// @Success      200  {object}  dto.ScanResponse   "Success"
// @Failure      502  {object}  dto.ErrorResponse  "Upstream Failure"
// @Router       /api/v1/scan [get]
func (h *Handler) GetScan(c *gin.Context) {
	resp, err := h.scan.GetScan(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, dto.NewErrorResponse("scan failed", err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetStats handles GET /api/v1/stats requests.
//
// Query Parameters:
//   - ticker (string, required): Stock ticker symbol (e.g., "NVDA").
//
// Responses:
//   - 200 OK: StatsResponse with the latest backtest aggregates.
//   - 400 Bad Request: Missing ticker parameter.
//   - 404 Not Found: No persisted backtest trades for the ticker.
//   - 500 Internal Server Error: Failure in repository or database layer.
//
// GetStats godoc
// @Summary      Backtest stats by ticker
// @Description  Returns win rate and P&L aggregates from the latest persisted backtest run
// @Tags         stats
// @Produce      json
// @Param        ticker  query     string  true  "Stock ticker" example(NVDA)
// @Success      200     {object}  dto.StatsResponse  "Success"
// @Failure      400     {object}  dto.ErrorResponse  "Bad Request"
// @Failure      404     {object}  dto.ErrorResponse  "Not Found"
// @Failure      500     {object}  dto.ErrorResponse  "Internal Error"
// @Router       /api/v1/stats [get]
func (h *Handler) GetStats(c *gin.Context) {
	ticker := strings.ToUpper(strings.TrimSpace(c.Query("ticker")))
	if ticker == "" {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("ticker is required", nil))
		return
	}

	stats, runDate, err := h.stats.GetTickerStats(c.Request.Context(), ticker)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("failed to fetch stats", err))
		return
	}
	if stats == nil {
		c.JSON(http.StatusNotFound, dto.NewErrorResponse("no backtest data found", nil))
		return
	}

	resp := dto.StatsResponse{
		Ticker:      stats.Ticker,
		Trades:      stats.Trades,
		Wins:        stats.Wins,
		WinRate:     stats.WinRate,
		AvgPnLPct:   stats.AvgPnLPct,
		TotalPnLPct: stats.TotalPnLPct,
		TakeProfits: stats.TakeProfits,
		StopLosses:  stats.StopLosses,
		EndOfDays:   stats.EndOfDays,
	}
	if runDate != nil {
		resp.RunDate = runDate.Format("2006-01-02")
	}

	c.JSON(http.StatusOK, resp)
}
