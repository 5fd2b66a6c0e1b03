package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/google/uuid"

	"github.com/Federated-ICS/backend-webapp/internal/api/dto"
	"github.com/Federated-ICS/backend-webapp/internal/api/models"
	"github.com/Federated-ICS/backend-webapp/internal/api/repository"
	"github.com/Federated-ICS/backend-webapp/internal/cache"
)

// AlertService handles security alert business logic.
type AlertService interface {
	ListAlerts(ctx context.Context, filters dto.AlertFilters) (*dto.AlertListResponse, error)
	GetAlert(ctx context.Context, id uuid.UUID) (*models.Alert, error)
	CreateAlert(ctx context.Context, input dto.CreateAlertDTO) (*models.Alert, error)
	UpdateAlertStatus(ctx context.Context, id uuid.UUID, status string) (*models.Alert, error)
	DeleteAlert(ctx context.Context, id uuid.UUID) error
	GetStats(ctx context.Context) (*dto.AlertStats, error)
}

type alertService struct {
	repo    *repository.AlertRepo
	emitter EventEmitter
	cache   *cache.DashboardCache
	logger  *slog.Logger
}

func NewAlertService(repo *repository.AlertRepo, emitter EventEmitter, dashCache *cache.DashboardCache, logger *slog.Logger) AlertService {
	return &alertService{
		repo:    repo,
		emitter: emitter,
		cache:   dashCache,
		logger:  logger,
	}
}

func (s *alertService) ListAlerts(ctx context.Context, filters dto.AlertFilters) (*dto.AlertListResponse, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.Limit < 1 || filters.Limit > 100 {
		filters.Limit = 20
	}

	alerts, total, err := s.repo.GetAll(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}

	pages := int(math.Ceil(float64(total) / float64(filters.Limit)))
	if pages < 1 {
		pages = 1
	}

	return &dto.AlertListResponse{
		Alerts: alerts,
		Total:  total,
		Page:   filters.Page,
		Pages:  pages,
		Limit:  filters.Limit,
	}, nil
}

func (s *alertService) GetAlert(ctx context.Context, id uuid.UUID) (*models.Alert, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *alertService) CreateAlert(ctx context.Context, input dto.CreateAlertDTO) (*models.Alert, error) {
	alert := input.ToModel()
	if err := s.repo.Create(ctx, &alert); err != nil {
		return nil, fmt.Errorf("failed to create alert: %w", err)
	}

	s.invalidateDashboard(ctx)
	s.emitter.EmitAlertCreated(&alert)

	return &alert, nil
}

func (s *alertService) UpdateAlertStatus(ctx context.Context, id uuid.UUID, status string) (*models.Alert, error) {
	alert, err := s.repo.UpdateStatus(ctx, id, models.AlertStatus(status))
	if err != nil {
		return nil, err
	}

	s.invalidateDashboard(ctx)
	s.emitter.EmitAlertUpdated(alert)

	return alert, nil
}

func (s *alertService) DeleteAlert(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateDashboard(ctx)
	return nil
}

func (s *alertService) GetStats(ctx context.Context) (*dto.AlertStats, error) {
	stats, err := s.repo.GetStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compute alert stats: %w", err)
	}
	return &stats, nil
}

// invalidateDashboard drops the cached dashboard snapshot after a write.
// A stale snapshot is worse than a recompute on the next read.
func (s *alertService) invalidateDashboard(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("failed to invalidate dashboard cache", "error", err)
	}
}
