package service

import (
	"context"

	"github.com/bistronome/resto-ui-api/internal/core"
	"github.com/bistronome/resto-ui-api/internal/domain/model"
)

// StatsServiceOptions groups dependencies for StatsService.
type StatsServiceOptions struct {
	Stats core.StatsRepository
}

// StatsService serves the manager dashboard aggregates.
type StatsService struct {
	stats core.StatsRepository
}

// NewStatsService constructs a new StatsService.
func NewStatsService(opts StatsServiceOptions) *StatsService {
	return &StatsService{stats: opts.Stats}
}

// Dashboard computes the dashboard figures at read time.
func (s *StatsService) Dashboard(ctx context.Context) (*model.DashboardStats, error) {
	return s.stats.DashboardStats(ctx)
}
