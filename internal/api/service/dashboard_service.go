package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Federated-ICS/backend-webapp/internal/api/dto"
	"github.com/Federated-ICS/backend-webapp/internal/api/repository"
	"github.com/Federated-ICS/backend-webapp/internal/cache"
)

// DashboardService aggregates cross-domain stats for the overview screen.
type DashboardService interface {
	GetSnapshot(ctx context.Context) (*dto.DashboardSnapshot, error)
	Refresh(ctx context.Context) (*dto.DashboardSnapshot, error)
}

type dashboardService struct {
	alerts  *repository.AlertRepo
	fl      *repository.FLRepo
	cache   *cache.DashboardCache
	emitter EventEmitter
	logger  *slog.Logger
}

func NewDashboardService(alerts *repository.AlertRepo, fl *repository.FLRepo, dashCache *cache.DashboardCache, emitter EventEmitter, logger *slog.Logger) DashboardService {
	return &dashboardService{
		alerts:  alerts,
		fl:      fl,
		cache:   dashCache,
		emitter: emitter,
		logger:  logger,
	}
}

// GetSnapshot serves the cached snapshot when present, recomputing on a miss.
func (s *dashboardService) GetSnapshot(ctx context.Context) (*dto.DashboardSnapshot, error) {
	if s.cache != nil {
		snap, ok, err := s.cache.Get(ctx)
		if err != nil {
			s.logger.Warn("dashboard cache read failed", "error", err)
		} else if ok {
			return &snap, nil
		}
	}

	snap, err := s.compute(ctx)
	if err != nil {
		return nil, err
	}
	s.store(ctx, snap)
	return snap, nil
}

// Refresh recomputes the snapshot, repopulates the cache and pushes a
// dashboard_update to every connected client.
func (s *dashboardService) Refresh(ctx context.Context) (*dto.DashboardSnapshot, error) {
	snap, err := s.compute(ctx)
	if err != nil {
		return nil, err
	}
	s.store(ctx, snap)
	s.emitter.EmitDashboardUpdate(snap)
	return snap, nil
}

func (s *dashboardService) compute(ctx context.Context) (*dto.DashboardSnapshot, error) {
	stats, err := s.alerts.GetStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compute alert stats: %w", err)
	}

	snap := &dto.DashboardSnapshot{AlertStats: stats}

	round, err := s.fl.GetLatestRound(ctx)
	switch {
	case err == nil:
		snap.FLStatus = &dto.FLStatusSummary{
			RoundNumber:   round.RoundNumber,
			Progress:      round.Progress,
			Phase:         string(round.Phase),
			ModelAccuracy: round.ModelAccuracy,
		}
	case errors.Is(err, repository.ErrNotFound):
		// No training has run yet, the dashboard shows alerts only.
	default:
		return nil, fmt.Errorf("failed to fetch latest round: %w", err)
	}

	return snap, nil
}

func (s *dashboardService) store(ctx context.Context, snap *dto.DashboardSnapshot) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, *snap); err != nil {
		s.logger.Warn("failed to cache dashboard snapshot", "error", err)
	}
}
