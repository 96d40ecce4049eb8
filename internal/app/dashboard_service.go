package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jonasbrito1/gbcidadenova-sub000/internal/domain/dashboard"
)

// DashboardService exposes the read-only summary metrics.
type DashboardService struct {
	repo dashboard.Repository
	loc  *time.Location
}

func NewDashboardService(repo dashboard.Repository, loc *time.Location) *DashboardService {
	return &DashboardService{repo: repo, loc: loc}
}

func (s *DashboardService) Summary(ctx context.Context) (*dashboard.Summary, error) {
	summary, err := s.repo.Summary(ctx, time.Now().In(s.loc), LookaheadDays)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate dashboard summary: %w", err)
	}
	return summary, nil
}
