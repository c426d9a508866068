package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/tradekit/orbpulse/internal/domain/models"
)

const yahooChartBase = "https://query1.finance.yahoo.com/v8/finance/chart"

// YahooFetcher implements Fetcher using the Yahoo Finance public chart API.
type YahooFetcher struct {
	Client *http.Client
}

// NewYahooFetcher creates a Yahoo Finance fetcher with a sane timeout.
func NewYahooFetcher() *YahooFetcher {
	return &YahooFetcher{
		Client: &http.Client{Timeout: 30 * time.Second},
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

// yahooChart is the response structure from the Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []interface{} `json:"open"`
					High   []interface{} `json:"high"`
					Low    []interface{} `json:"low"`
					Close  []interface{} `json:"close"`
					Volume []interface{} `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func toFloat(v interface{}) float64 {
	if v == nil {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}

func (f *YahooFetcher) fetchChart(ctx context.Context, symbol, interval, rng string) ([]models.Bar, error) {
	u := fmt.Sprintf("%s/%s?interval=%s&range=%s",
		yahooChartBase, url.PathEscape(symbol), interval, rng)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, string(body))
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 {
		return nil, fmt.Errorf("yahoo: no data returned")
	}

	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo: missing quote indicators")
	}
	quote := result.Indicators.Quote[0]
	bars := make([]models.Bar, 0, len(result.Timestamp))

	for i, ts := range result.Timestamp {
		// Yahoo sometimes emits quote arrays shorter than the timestamp
		// array; treat the tail as absent bars.
		if i >= len(quote.Open) || i >= len(quote.High) || i >= len(quote.Low) ||
			i >= len(quote.Close) || i >= len(quote.Volume) {
			break
		}
		o := toFloat(quote.Open[i])
		h := toFloat(quote.High[i])
		l := toFloat(quote.Low[i])
		c := toFloat(quote.Close[i])
		if o == 0 && h == 0 && l == 0 && c == 0 {
			continue // skip null bars (halts, holidays)
		}
		bars = append(bars, models.Bar{
			Time:   time.Unix(ts, 0).In(Eastern),
			Open:   o,
			High:   h,
			Low:    l,
			Close:  c,
			Volume: toFloat(quote.Volume[i]),
		})
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars, nil
}

// IntradayBars returns 15-minute bars for the last `days` calendar days,
// localized to exchange time.
func (f *YahooFetcher) IntradayBars(ctx context.Context, symbol string, days int) ([]models.Bar, error) {
	rng := "60d" // Yahoo max lookback for 15m data
	switch {
	case days <= 1:
		rng = "1d"
	case days <= 5:
		rng = "5d"
	case days <= 30:
		rng = "1mo"
	}
	return f.fetchChart(ctx, symbol, "15m", rng)
}

// AvgDailyVolume returns the mean volume of the last five completed daily
// bars, excluding today's partial bar when present.
func (f *YahooFetcher) AvgDailyVolume(ctx context.Context, symbol string) (float64, error) {
	bars, err := f.fetchChart(ctx, symbol, "1d", "1mo")
	if err != nil {
		return 0, err
	}
	if len(bars) > 1 {
		bars = bars[:len(bars)-1] // drop the in-progress session
	}
	if len(bars) > 5 {
		bars = bars[len(bars)-5:]
	}
	if len(bars) == 0 {
		return 0, nil
	}
	var sum float64
	for _, b := range bars {
		sum += b.Volume
	}
	return sum / float64(len(bars)), nil
}

// Volatility estimates annualized volatility from the last 30 daily closes.
// Yahoo's chart API carries no implied-volatility field, so a realized-vol
// proxy stands in; callers clamp it through pricing.EstimateIV.
func (f *YahooFetcher) Volatility(ctx context.Context, symbol string) (float64, error) {
	bars, err := f.fetchChart(ctx, symbol, "1d", "3mo")
	if err != nil {
		return 0, err
	}
	if len(bars) > 31 {
		bars = bars[len(bars)-31:]
	}
	if len(bars) < 2 {
		return 0, nil
	}

	// Annualized close-to-close volatility over ~30 sessions.
	rets := make([]float64, 0, len(bars)-1)
	for i := 1; i < len(bars); i++ {
		prev := bars[i-1].Close
		if prev <= 0 {
			continue
		}
		rets = append(rets, bars[i].Close/prev-1)
	}
	if len(rets) < 2 {
		return 0, nil
	}
	var mean float64
	for _, r := range rets {
		mean += r
	}
	mean /= float64(len(rets))
	var variance float64
	for _, r := range rets {
		variance += (r - mean) * (r - mean)
	}
	variance /= float64(len(rets) - 1)

	if variance <= 0 {
		return 0, nil
	}
	return math.Sqrt(variance) * math.Sqrt(252), nil
}
