package strategy

import (
	"time"

	"github.com/tradekit/orbpulse/internal/domain/models"
	"github.com/tradekit/orbpulse/internal/marketdata"
)

// Risk:reward is fixed at 1:2. Stop = range width, target = 2x width.
const rewardRatio = 2.0

// SimulateDay replays the ORB strategy over one ticker's bars for a single
// trading day (exchange-localized, chronological). It returns at most one
// trade; ok is false when the day produced none.
//
// Rules:
//   - Opening range: the 09:30 bar; missing or zero-width range means no trade.
//   - Entry: first post-09:45 close above the high (LONG at the high) or
//     below the low (SHORT at the low); first breakout only.
//   - Exit: scanning bars after entry, take-profit before stop-loss within a
//     bar, else end-of-day at the last tradable bar's close.
func SimulateDay(ticker string, day time.Time, bars []models.Bar) (models.Trade, bool) {
	orb, ok := OpeningRange(bars)
	if !ok {
		return models.Trade{}, false
	}

	stopDist := orb.Width()
	targetDist := orb.Width() * rewardRatio

	// Tradable window: 09:45 through the 15:45 bar.
	window := make([]models.Bar, 0, len(bars))
	for _, b := range bars {
		if marketdata.AfterOpeningRange(b.Time) && marketdata.WithinTradableWindow(b.Time) {
			window = append(window, b)
		}
	}
	if len(window) == 0 {
		return models.Trade{}, false
	}

	// Entry: first close outside the range, either direction.
	var (
		direction models.Direction
		entry     float64
		entryIdx  = -1
	)
	for i, b := range window {
		if b.Close > orb.High {
			direction = models.Long
			entry = orb.High
			entryIdx = i
			break
		}
		if b.Close < orb.Low {
			direction = models.Short
			entry = orb.Low
			entryIdx = i
			break
		}
	}
	if entryIdx < 0 {
		return models.Trade{}, false
	}

	var stop, target float64
	if direction == models.Long {
		target = entry + targetDist
		stop = entry - stopDist
	} else {
		target = entry - targetDist
		stop = entry + stopDist
	}

	remaining := window[entryIdx+1:]
	exit, reason := findExit(direction, target, stop, remaining)
	if reason == models.ExitEndOfDay {
		// Close at the last available bar; entry on the final bar exits at
		// that same bar's close.
		last := window[len(window)-1]
		if len(remaining) > 0 {
			last = remaining[len(remaining)-1]
		}
		exit = last.Close
	}

	pnlPts := exit - entry
	if direction == models.Short {
		pnlPts = entry - exit
	}

	signal := models.SignalBuyCall
	if direction == models.Short {
		signal = models.SignalBuyPut
	}

	return models.Trade{
		Date:       day,
		Ticker:     ticker,
		Direction:  direction,
		Signal:     signal,
		ORBHigh:    orb.High,
		ORBLow:     orb.Low,
		ORBRange:   orb.Width(),
		Entry:      entry,
		EntryTime:  window[entryIdx].Time,
		Stop:       stop,
		Target:     target,
		Exit:       exit,
		ExitReason: reason,
		PnLPoints:  pnlPts,
		PnLPercent: pnlPts / entry * 100,
	}, true
}

// findExit walks the bars after entry and returns the first triggered exit.
// Within a single bar the take-profit check wins over the stop-loss check.
func findExit(direction models.Direction, target, stop float64, bars []models.Bar) (float64, models.ExitReason) {
	for _, b := range bars {
		if direction == models.Long {
			if b.High >= target {
				return target, models.ExitTakeProfit
			}
			if b.Low <= stop {
				return stop, models.ExitStopLoss
			}
		} else {
			if b.Low <= target {
				return target, models.ExitTakeProfit
			}
			if b.High >= stop {
				return stop, models.ExitStopLoss
			}
		}
	}
	return 0, models.ExitEndOfDay
}
