package marketdata

import (
	"context"
	"sort"
	"time"

	"github.com/tradekit/orbpulse/internal/domain/models"
)

// Fetcher retrieves intraday market data for one symbol.
//
// Implementations must return bars localized to exchange time, in
// chronological order. Volatility may return (0, nil) when no estimate is
// available; callers fall back to the configured default.
type Fetcher interface {
	// IntradayBars returns 15-minute OHLCV bars covering the last `days`
	// calendar days.
	IntradayBars(ctx context.Context, symbol string, days int) ([]models.Bar, error)

	// AvgDailyVolume returns the mean daily share volume over roughly the
	// last five sessions, or 0 when unavailable.
	AvgDailyVolume(ctx context.Context, symbol string) (float64, error)

	// Volatility returns an annualized implied-volatility estimate, or 0
	// when none is available.
	Volatility(ctx context.Context, symbol string) (float64, error)

	// Name identifies the provider (e.g. "yahoo", "mock").
	Name() string
}

// GroupByDay splits a bar series into per-calendar-day slices keyed by the
// bar's exchange-local date, returning the days in chronological order.
// Within-day bar order is preserved.
func GroupByDay(bars []models.Bar) map[time.Time][]models.Bar {
	byDay := make(map[time.Time][]models.Bar)
	for _, b := range bars {
		day := truncateToDate(b.Time)
		byDay[day] = append(byDay[day], b)
	}
	return byDay
}

// SortedDays returns the keys of a GroupByDay result in ascending order.
func SortedDays(byDay map[time.Time][]models.Bar) []time.Time {
	days := make([]time.Time, 0, len(byDay))
	for d := range byDay {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days
}

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Bars   []models.Bar
	AvgVol float64
	IV     float64
	Err    error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) IntradayBars(_ context.Context, _ string, _ int) ([]models.Bar, error) {
	return m.Bars, m.Err
}

func (m *MockFetcher) AvgDailyVolume(_ context.Context, _ string) (float64, error) {
	return m.AvgVol, nil
}

func (m *MockFetcher) Volatility(_ context.Context, _ string) (float64, error) {
	return m.IV, nil
}
