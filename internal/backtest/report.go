package backtest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/tradekit/orbpulse/internal/domain/models"
	"github.com/tradekit/orbpulse/internal/marketdata"
)

// Rounding policy for serialized trades: prices and points 2 decimals,
// percentages 3 decimals. Round-trips are exact under this policy.
const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

var tradeHeader = []string{
	"date", "ticker", "direction", "signal",
	"orb_high", "orb_low", "orb_range",
	"entry", "entry_time", "stop", "target",
	"exit", "exit_reason", "pnl_points", "pnl_pct",
}

// WriteReports writes trades.csv, daily_summary.csv, and ticker_stats.csv
// into dir, creating it when missing.
func WriteReports(dir string, res *Result) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create results dir: %w", err)
	}
	if err := writeCSV(filepath.Join(dir, "trades.csv"), tradeHeader, tradeRecords(res.Trades)); err != nil {
		return err
	}
	if err := writeCSV(filepath.Join(dir, "daily_summary.csv"), dailyHeader, dailyRecords(res.Daily)); err != nil {
		return err
	}
	return writeCSV(filepath.Join(dir, "ticker_stats.csv"), statsHeader, statsRecords(res.Stats))
}

func writeCSV(path string, header []string, records [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	if err := w.WriteAll(records); err != nil {
		return err
	}
	return w.Error()
}

// MarshalTrade serializes one trade as a CSV record under the documented
// rounding policy.
func MarshalTrade(t models.Trade) []string {
	return []string{
		t.Date.Format(dateLayout),
		t.Ticker,
		string(t.Direction),
		string(t.Signal),
		f2(t.ORBHigh),
		f2(t.ORBLow),
		f2(t.ORBRange),
		f2(t.Entry),
		t.EntryTime.Format(timeLayout),
		f2(t.Stop),
		f2(t.Target),
		f2(t.Exit),
		string(t.ExitReason),
		f2(t.PnLPoints),
		f3(t.PnLPercent),
	}
}

// UnmarshalTrade parses a CSV record produced by MarshalTrade. The entry
// time is restored on the trade's date in exchange time.
func UnmarshalTrade(rec []string) (models.Trade, error) {
	var t models.Trade
	if len(rec) != len(tradeHeader) {
		return t, fmt.Errorf("invalid record length: expected %d, got %d", len(tradeHeader), len(rec))
	}

	date, err := time.ParseInLocation(dateLayout, rec[0], marketdata.Eastern)
	if err != nil {
		return t, fmt.Errorf("invalid date: %w", err)
	}
	clock, err := time.Parse(timeLayout, rec[8])
	if err != nil {
		return t, fmt.Errorf("invalid entry_time: %w", err)
	}

	fields := make([]float64, len(rec))
	for _, i := range []int{4, 5, 6, 7, 9, 10, 11, 13, 14} {
		v, err := strconv.ParseFloat(rec[i], 64)
		if err != nil {
			return t, fmt.Errorf("invalid %s: %w", tradeHeader[i], err)
		}
		fields[i] = v
	}

	t.Date = date
	t.Ticker = rec[1]
	t.Direction = models.Direction(rec[2])
	t.Signal = models.Signal(rec[3])
	t.ORBHigh = fields[4]
	t.ORBLow = fields[5]
	t.ORBRange = fields[6]
	t.Entry = fields[7]
	t.EntryTime = time.Date(date.Year(), date.Month(), date.Day(), clock.Hour(), clock.Minute(), 0, 0, marketdata.Eastern)
	t.Stop = fields[9]
	t.Target = fields[10]
	t.Exit = fields[11]
	t.ExitReason = models.ExitReason(rec[12])
	t.PnLPoints = fields[13]
	t.PnLPercent = fields[14]
	return t, nil
}

// ReadTrades parses a trades.csv written by WriteReports.
func ReadTrades(r io.Reader) ([]models.Trade, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) != len(tradeHeader) {
		return nil, fmt.Errorf("invalid header length: expected %d, got %d", len(tradeHeader), len(header))
	}

	var trades []models.Trade
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		t, err := UnmarshalTrade(rec)
		if err != nil {
			return nil, err
		}
		trades = append(trades, t)
	}
	return trades, nil
}

func tradeRecords(trades []models.Trade) [][]string {
	out := make([][]string, 0, len(trades))
	for _, t := range trades {
		out = append(out, MarshalTrade(t))
	}
	return out
}

var dailyHeader = []string{"date", "trades", "wins", "win_rate", "total_pnl_pct"}

func dailyRecords(daily []models.DailySummary) [][]string {
	out := make([][]string, 0, len(daily))
	for _, d := range daily {
		out = append(out, []string{
			d.Date.Format(dateLayout),
			strconv.Itoa(d.Trades),
			strconv.Itoa(d.Wins),
			f1(d.WinRate),
			f3(d.TotalPnLPct),
		})
	}
	return out
}

var statsHeader = []string{
	"ticker", "trades", "wins", "win_rate",
	"avg_pnl_pct", "total_pnl_pct", "tp_count", "sl_count", "eod_count",
}

func statsRecords(stats []models.TickerStats) [][]string {
	out := make([][]string, 0, len(stats))
	for _, s := range stats {
		out = append(out, []string{
			s.Ticker,
			strconv.Itoa(s.Trades),
			strconv.Itoa(s.Wins),
			f1(s.WinRate),
			f3(s.AvgPnLPct),
			f3(s.TotalPnLPct),
			strconv.Itoa(s.TakeProfits),
			strconv.Itoa(s.StopLosses),
			strconv.Itoa(s.EndOfDays),
		})
	}
	return out
}

// PrintSummary writes the human-readable run summary to w.
func PrintSummary(w io.Writer, res *Result) {
	s := res.Summary
	sep := "======================================================================"

	fmt.Fprintf(w, "\n%s\n", sep)
	fmt.Fprintln(w, "  ORB BACKTEST  -  15-min Opening Range Breakout")
	fmt.Fprintln(w, "  Strategy: break of 9:30-9:45 range  |  SL=range  TP=2x range")
	fmt.Fprintln(w, sep)
	fmt.Fprintf(w, "  Total trades    : %d\n", s.Trades)
	fmt.Fprintf(w, "  Wins / Losses   : %d / %d\n", s.Wins, s.Losses)
	fmt.Fprintf(w, "  Win rate        : %.1f%%\n", s.WinRate)
	fmt.Fprintf(w, "  Avg P&L per trd : %+.3f%%\n", s.AvgPnLPct)
	fmt.Fprintf(w, "  Total P&L (sum) : %+.3f%%\n", s.TotalPnLPct)
	fmt.Fprintf(w, "  TP / SL / EOD   : %d / %d / %d\n", s.TakeProfits, s.StopLosses, s.EndOfDays)
	fmt.Fprintln(w, sep)

	fmt.Fprintln(w, "\n  Per-ticker statistics:")
	fmt.Fprintf(w, "  %-8s %6s %6s %10s %10s %4s %4s %4s\n",
		"Ticker", "Trades", "Win%", "Avg P&L%", "Tot P&L%", "TP", "SL", "EOD")
	fmt.Fprintln(w, "  --------------------------------------------------------------")
	for _, st := range res.Stats {
		fmt.Fprintf(w, "  %-8s %6d %5.1f%% %+10.3f %+10.3f %4d %4d %4d\n",
			st.Ticker, st.Trades, st.WinRate, st.AvgPnLPct, st.TotalPnLPct,
			st.TakeProfits, st.StopLosses, st.EndOfDays)
	}
	fmt.Fprintln(w, sep)
}

func f1(v float64) string { return strconv.FormatFloat(v, 'f', 1, 64) }
func f2(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }
func f3(v float64) string { return strconv.FormatFloat(v, 'f', 3, 64) }
