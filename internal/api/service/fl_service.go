package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/Federated-ICS/backend-webapp/internal/api/dto"
	"github.com/Federated-ICS/backend-webapp/internal/api/models"
	"github.com/Federated-ICS/backend-webapp/internal/api/repository"
)

// FLService manages federated learning rounds and per-facility clients.
type FLService interface {
	GetCurrentRound(ctx context.Context) (*models.FLRound, error)
	GetRound(ctx context.Context, id int64) (*models.FLRound, error)
	ListRounds(ctx context.Context, limit, offset int) (*dto.RoundListResponse, error)
	TriggerRound(ctx context.Context) (*models.FLRound, error)
	UpdateRoundProgress(ctx context.Context, id int64, input dto.RoundProgressDTO) (*models.FLRound, error)
	CompleteRound(ctx context.Context, id int64, input dto.CompleteRoundDTO) (*models.FLRound, error)
	ListClients(ctx context.Context) ([]models.FLClient, error)
	GetClient(ctx context.Context, id uuid.UUID) (*models.FLClient, error)
	UpdateClient(ctx context.Context, id uuid.UUID, input dto.ClientUpdateDTO) (*models.FLClient, error)
	GetPrivacyMetrics(ctx context.Context) (*dto.PrivacyMetrics, error)
}

type flService struct {
	repo    *repository.FLRepo
	emitter EventEmitter
	logger  *slog.Logger
}

func NewFLService(repo *repository.FLRepo, emitter EventEmitter, logger *slog.Logger) FLService {
	return &flService{
		repo:    repo,
		emitter: emitter,
		logger:  logger,
	}
}

// GetCurrentRound returns the in-progress round, falling back to the most
// recently completed one so the dashboard always has something to show.
// Returns nil with no error when no round has ever run.
func (s *flService) GetCurrentRound(ctx context.Context) (*models.FLRound, error) {
	round, err := s.repo.GetCurrentRound(ctx)
	if err == nil {
		return round, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to fetch current round: %w", err)
	}

	round, err = s.repo.GetLatestRound(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch latest round: %w", err)
	}
	return round, nil
}

func (s *flService) GetRound(ctx context.Context, id int64) (*models.FLRound, error) {
	return s.repo.GetRoundByID(ctx, id)
}

func (s *flService) ListRounds(ctx context.Context, limit, offset int) (*dto.RoundListResponse, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	rounds, err := s.repo.GetAllRounds(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list rounds: %w", err)
	}
	return &dto.RoundListResponse{Rounds: rounds}, nil
}

// TriggerRound starts a new training round. Rejected while another round
// is still in progress, one aggregation at a time.
func (s *flService) TriggerRound(ctx context.Context) (*models.FLRound, error) {
	if _, err := s.repo.GetCurrentRound(ctx); err == nil {
		return nil, ErrRoundInProgress
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check for active round: %w", err)
	}

	next, err := s.repo.NextRoundNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compute next round number: %w", err)
	}

	round, err := s.repo.CreateRound(ctx, next)
	if err != nil {
		return nil, fmt.Errorf("failed to create round: %w", err)
	}

	s.emitter.EmitFLProgress(round)
	return round, nil
}

func (s *flService) UpdateRoundProgress(ctx context.Context, id int64, input dto.RoundProgressDTO) (*models.FLRound, error) {
	round, err := s.repo.UpdateRoundProgress(ctx, id, input.Progress, input.Phase)
	if err != nil {
		return nil, err
	}

	s.emitter.EmitFLProgress(round)
	return round, nil
}

func (s *flService) CompleteRound(ctx context.Context, id int64, input dto.CompleteRoundDTO) (*models.FLRound, error) {
	round, err := s.repo.CompleteRound(ctx, id, input.ModelAccuracy)
	if err != nil {
		return nil, err
	}

	s.emitter.EmitFLProgress(round)
	return round, nil
}

func (s *flService) ListClients(ctx context.Context) ([]models.FLClient, error) {
	return s.repo.GetAllClients(ctx)
}

func (s *flService) GetClient(ctx context.Context, id uuid.UUID) (*models.FLClient, error) {
	return s.repo.GetClientByID(ctx, id)
}

func (s *flService) UpdateClient(ctx context.Context, id uuid.UUID, input dto.ClientUpdateDTO) (*models.FLClient, error) {
	client, err := s.repo.UpdateClient(ctx, id, input)
	if err != nil {
		return nil, err
	}

	s.emitter.EmitFLProgress(client)
	return client, nil
}

// GetPrivacyMetrics reports the differential-privacy configuration of the
// training pipeline. The budget figures are fixed per deployment.
func (s *flService) GetPrivacyMetrics(ctx context.Context) (*dto.PrivacyMetrics, error) {
	return &dto.PrivacyMetrics{
		Epsilon:                0.5,
		Delta:                  "1e-5",
		DataSize:               "2.5 TB",
		Encryption:             "AES-256 + Secure Aggregation",
		PrivacyBudgetRemaining: 0.72,
	}, nil
}
