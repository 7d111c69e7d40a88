package services

import (
	"context"

	"github.com/trailtrack/apiserver/types"
)

const centsPerUnit = 100

// StatsRepository reads per-owner aggregates.
type StatsRepository interface {
	Counts(ctx context.Context, ownerID int) (types.RecordCounts, error)
}

// DashboardService computes the dashboard counters. Nothing is cached;
// every call reads current storage.
type DashboardService struct {
	repo StatsRepository
}

func NewDashboardService(repo StatsRepository) *DashboardService {
	return &DashboardService{repo: repo}
}

func (s *DashboardService) Stats(ctx context.Context, ownerID int) (types.DashboardStats, error) {
	counts, err := s.repo.Counts(ctx, ownerID)
	if err != nil {
		return types.DashboardStats{}, err
	}
	return types.DashboardStats{
		TotalLeads:    counts.TotalLeads,
		OpenLeads:     counts.OpenLeads,
		TotalAccounts: counts.TotalAccounts,
		OpenTasks:     counts.OpenTasks,
		PipelineValue: float64(counts.OpenPipelineCents) / centsPerUnit,
	}, nil
}
