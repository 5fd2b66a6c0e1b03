package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Federated-ICS/backend-webapp/internal/api/dto"
	"github.com/Federated-ICS/backend-webapp/internal/api/models"
)

// The six fixed facilities participating in every training round.
var facilities = []struct {
	ID   string
	Name string
}{
	{"facility_a", "Facility A"},
	{"facility_b", "Facility B"},
	{"facility_c", "Facility C"},
	{"facility_d", "Facility D"},
	{"facility_e", "Facility E"},
	{"facility_f", "Facility F"},
}

type FLRepo struct {
	db *gorm.DB
}

func NewFLRepo(db *gorm.DB) *FLRepo {
	return &FLRepo{db: db}
}

// CreateRound starts a new round with one client per facility.
func (r *FLRepo) CreateRound(ctx context.Context, roundNumber int) (*models.FLRound, error) {
	round := models.FLRound{
		RoundNumber:  roundNumber,
		Status:       models.RoundStatusInProgress,
		Phase:        models.PhaseDistributing,
		StartTime:    time.Now().UTC(),
		Epsilon:      0.5,
		TotalClients: len(facilities),
	}
	for _, f := range facilities {
		round.Clients = append(round.Clients, models.FLClient{
			FacilityID:  f.ID,
			Name:        f.Name,
			Status:      models.ClientStatusActive,
			TotalEpochs: 10,
			LastUpdate:  time.Now().UTC(),
		})
	}

	if err := r.db.WithContext(ctx).Create(&round).Error; err != nil {
		return nil, fmt.Errorf("create fl round: %w", err)
	}
	return &round, nil
}

func (r *FLRepo) GetRoundByID(ctx context.Context, id int64) (*models.FLRound, error) {
	var round models.FLRound
	err := r.db.WithContext(ctx).Preload("Clients").First(&round, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get fl round: %w", err)
	}
	return &round, nil
}

// GetCurrentRound returns the most recent in-progress round, or ErrNotFound.
func (r *FLRepo) GetCurrentRound(ctx context.Context) (*models.FLRound, error) {
	var round models.FLRound
	err := r.db.WithContext(ctx).
		Preload("Clients").
		Where("status = ?", models.RoundStatusInProgress).
		Order("round_number desc").
		First(&round).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get current fl round: %w", err)
	}
	return &round, nil
}

// GetLatestRound returns the newest round regardless of status.
func (r *FLRepo) GetLatestRound(ctx context.Context) (*models.FLRound, error) {
	var round models.FLRound
	err := r.db.WithContext(ctx).
		Preload("Clients").
		Order("round_number desc").
		First(&round).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get latest fl round: %w", err)
	}
	return &round, nil
}

func (r *FLRepo) GetAllRounds(ctx context.Context, limit, offset int) ([]models.FLRound, error) {
	var rounds []models.FLRound
	if err := r.db.WithContext(ctx).
		Preload("Clients").
		Order("round_number desc").
		Limit(limit).
		Offset(offset).
		Find(&rounds).Error; err != nil {
		return nil, fmt.Errorf("list fl rounds: %w", err)
	}
	return rounds, nil
}

// UpdateRoundProgress bumps the progress (and optionally the phase) and
// returns the refreshed round.
func (r *FLRepo) UpdateRoundProgress(ctx context.Context, id int64, progress int, phase *string) (*models.FLRound, error) {
	updates := map[string]interface{}{"progress": progress}
	if phase != nil {
		updates["phase"] = *phase
	}
	result := r.db.WithContext(ctx).
		Model(&models.FLRound{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return nil, fmt.Errorf("update fl round progress: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.GetRoundByID(ctx, id)
}

// CompleteRound finalizes a round with its achieved model accuracy.
func (r *FLRepo) CompleteRound(ctx context.Context, id int64, modelAccuracy float64) (*models.FLRound, error) {
	now := time.Now().UTC()
	result := r.db.WithContext(ctx).
		Model(&models.FLRound{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":         models.RoundStatusCompleted,
			"phase":          models.PhaseComplete,
			"progress":       100,
			"end_time":       now,
			"model_accuracy": modelAccuracy,
		})
	if result.Error != nil {
		return nil, fmt.Errorf("complete fl round: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.GetRoundByID(ctx, id)
}

// GetAllClients returns the clients of the current round, empty when no
// round is in progress.
func (r *FLRepo) GetAllClients(ctx context.Context) ([]models.FLClient, error) {
	round, err := r.GetCurrentRound(ctx)
	if errors.Is(err, ErrNotFound) {
		return []models.FLClient{}, nil
	}
	if err != nil {
		return nil, err
	}
	return round.Clients, nil
}

func (r *FLRepo) GetClientByID(ctx context.Context, id uuid.UUID) (*models.FLClient, error) {
	var client models.FLClient
	err := r.db.WithContext(ctx).First(&client, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get fl client: %w", err)
	}
	return &client, nil
}

// UpdateClient applies a partial client update and refreshes last_update.
func (r *FLRepo) UpdateClient(ctx context.Context, id uuid.UUID, d dto.ClientUpdateDTO) (*models.FLClient, error) {
	updates := map[string]interface{}{"last_update": time.Now().UTC()}
	if d.Status != nil {
		updates["status"] = *d.Status
	}
	if d.Progress != nil {
		updates["progress"] = *d.Progress
	}
	if d.CurrentEpoch != nil {
		updates["current_epoch"] = *d.CurrentEpoch
	}
	if d.Loss != nil {
		updates["loss"] = *d.Loss
	}
	if d.Accuracy != nil {
		updates["accuracy"] = *d.Accuracy
	}

	result := r.db.WithContext(ctx).
		Model(&models.FLClient{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return nil, fmt.Errorf("update fl client: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.GetClientByID(ctx, id)
}

// NextRoundNumber returns max(round_number)+1, starting at 1.
func (r *FLRepo) NextRoundNumber(ctx context.Context) (int, error) {
	var max *int
	if err := r.db.WithContext(ctx).
		Model(&models.FLRound{}).
		Select("MAX(round_number)").
		Scan(&max).Error; err != nil {
		return 0, fmt.Errorf("next round number: %w", err)
	}
	if max == nil {
		return 1, nil
	}
	return *max + 1, nil
}
