package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Federated-ICS/backend-webapp/internal/api/dto"
	"github.com/Federated-ICS/backend-webapp/internal/api/models"
)

// GraphStore is the Neo4j-backed technique graph. Satisfied by graph.Store;
// an interface here keeps handler tests off the driver.
type GraphStore interface {
	AttackGraph(ctx context.Context) (*models.AttackGraph, error)
	Techniques(ctx context.Context) ([]models.TechniqueDetails, error)
	TechniqueByID(ctx context.Context, id string) (*models.TechniqueDetails, error)
	MarkDetected(ctx context.Context, id string) error
}

// MitreService serves the MITRE ATT&CK for ICS technique graph.
type MitreService interface {
	GetAttackGraph(ctx context.Context) (*models.AttackGraph, error)
	ListTechniques(ctx context.Context) ([]models.TechniqueDetails, error)
	GetTechnique(ctx context.Context, id string) (*models.TechniqueDetails, error)
	RecordDetection(ctx context.Context, input dto.AttackDetectionDTO) (*dto.AttackDetectedEvent, error)
}

type mitreService struct {
	store   GraphStore
	emitter EventEmitter
	logger  *slog.Logger
}

func NewMitreService(store GraphStore, emitter EventEmitter, logger *slog.Logger) MitreService {
	return &mitreService{
		store:   store,
		emitter: emitter,
		logger:  logger,
	}
}

func (s *mitreService) GetAttackGraph(ctx context.Context) (*models.AttackGraph, error) {
	graph, err := s.store.AttackGraph(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build attack graph: %w", err)
	}
	return graph, nil
}

func (s *mitreService) ListTechniques(ctx context.Context) ([]models.TechniqueDetails, error) {
	techniques, err := s.store.Techniques(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list techniques: %w", err)
	}
	return techniques, nil
}

func (s *mitreService) GetTechnique(ctx context.Context, id string) (*models.TechniqueDetails, error) {
	return s.store.TechniqueByID(ctx, id)
}

// RecordDetection flags a technique as observed in live traffic and pushes
// the detection to attack-graph subscribers.
func (s *mitreService) RecordDetection(ctx context.Context, input dto.AttackDetectionDTO) (*dto.AttackDetectedEvent, error) {
	if err := s.store.MarkDetected(ctx, input.TechniqueID); err != nil {
		return nil, fmt.Errorf("failed to mark technique %s detected: %w", input.TechniqueID, err)
	}

	event := &dto.AttackDetectedEvent{
		TechniqueID:   input.TechniqueID,
		TechniqueName: input.TechniqueName,
		Confidence:    input.Confidence,
		Type:          input.Type,
		FacilityID:    input.FacilityID,
		Evidence:      input.Evidence,
		Timestamp:     time.Now().UTC(),
	}
	s.emitter.EmitAttackDetected(event)

	return event, nil
}
