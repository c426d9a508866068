package service

import (
	"context"
	"time"

	"github.com/tradekit/orbpulse/internal/domain/models"
	"github.com/tradekit/orbpulse/internal/storage"
)

// StatsService defines business logic for querying persisted backtest
// aggregates.
type StatsService interface {
	GetTickerStats(ctx context.Context, ticker string) (*models.TickerStats, *time.Time, error)
}

type statsService struct {
	repo storage.BacktestRepository
}

func NewStatsService(repo storage.BacktestRepository) StatsService {
	return &statsService{repo: repo}
}

// GetTickerStats returns the latest-run aggregates for one ticker together
// with the date of that run, or (nil, nil, nil) when the ticker has no
// persisted trades.
func (s *statsService) GetTickerStats(_ context.Context, ticker string) (*models.TickerStats, *time.Time, error) {
	stats, err := s.repo.GetTickerStats(ticker)
	if err != nil || stats == nil {
		return nil, nil, err
	}
	runDate, err := s.repo.GetLatestRunDate()
	if err != nil {
		return nil, nil, err
	}
	return stats, runDate, nil
}
