package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/Federated-ICS/backend-webapp/internal/api/dto"
	"github.com/Federated-ICS/backend-webapp/internal/api/models"
	"github.com/Federated-ICS/backend-webapp/internal/api/repository"
)

// PredictionService handles attack prediction records produced by the
// correlation engine.
type PredictionService interface {
	ListPredictions(ctx context.Context, limit, offset int, validated *bool) (*dto.PredictionListResponse, error)
	GetPrediction(ctx context.Context, id uuid.UUID) (*models.Prediction, error)
	GetLatestPrediction(ctx context.Context) (*models.Prediction, error)
	CreatePrediction(ctx context.Context, input dto.CreatePredictionDTO) (*models.Prediction, error)
	ValidatePrediction(ctx context.Context, id uuid.UUID) (*models.Prediction, error)
}

type predictionService struct {
	repo    *repository.PredictionRepo
	emitter EventEmitter
	logger  *slog.Logger
}

func NewPredictionService(repo *repository.PredictionRepo, emitter EventEmitter, logger *slog.Logger) PredictionService {
	return &predictionService{
		repo:    repo,
		emitter: emitter,
		logger:  logger,
	}
}

func (s *predictionService) ListPredictions(ctx context.Context, limit, offset int, validated *bool) (*dto.PredictionListResponse, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	predictions, err := s.repo.GetAll(ctx, limit, offset, validated)
	if err != nil {
		return nil, fmt.Errorf("failed to list predictions: %w", err)
	}
	return &dto.PredictionListResponse{Predictions: predictions}, nil
}

func (s *predictionService) GetPrediction(ctx context.Context, id uuid.UUID) (*models.Prediction, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *predictionService) GetLatestPrediction(ctx context.Context) (*models.Prediction, error) {
	return s.repo.GetLatest(ctx)
}

func (s *predictionService) CreatePrediction(ctx context.Context, input dto.CreatePredictionDTO) (*models.Prediction, error) {
	prediction := input.ToModel()
	if err := s.repo.Create(ctx, &prediction); err != nil {
		return nil, fmt.Errorf("failed to create prediction: %w", err)
	}

	// Predicted techniques land on the attack graph view.
	s.emitter.EmitAttackDetected(&prediction)

	return &prediction, nil
}

func (s *predictionService) ValidatePrediction(ctx context.Context, id uuid.UUID) (*models.Prediction, error) {
	return s.repo.Validate(ctx, id)
}
