package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Federated-ICS/backend-webapp/internal/api/models"
)

type PredictionRepo struct {
	db *gorm.DB
}

func NewPredictionRepo(db *gorm.DB) *PredictionRepo {
	return &PredictionRepo{db: db}
}

func (r *PredictionRepo) Create(ctx context.Context, p *models.Prediction) error {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("create prediction: %w", err)
	}
	return nil
}

func (r *PredictionRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Prediction, error) {
	var p models.Prediction
	err := r.db.WithContext(ctx).
		Preload("PredictedTechniques", func(db *gorm.DB) *gorm.DB {
			return db.Order("rank asc")
		}).
		First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get prediction: %w", err)
	}
	return &p, nil
}

// GetAll returns predictions newest first; validated filters when non-nil.
func (r *PredictionRepo) GetAll(ctx context.Context, limit, offset int, validated *bool) ([]models.Prediction, error) {
	query := r.db.WithContext(ctx).
		Preload("PredictedTechniques", func(db *gorm.DB) *gorm.DB {
			return db.Order("rank asc")
		}).
		Order("timestamp desc").
		Limit(limit).
		Offset(offset)
	if validated != nil {
		query = query.Where("validated = ?", *validated)
	}

	var list []models.Prediction
	if err := query.Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list predictions: %w", err)
	}
	return list, nil
}

func (r *PredictionRepo) GetLatest(ctx context.Context) (*models.Prediction, error) {
	var p models.Prediction
	err := r.db.WithContext(ctx).
		Preload("PredictedTechniques", func(db *gorm.DB) *gorm.DB {
			return db.Order("rank asc")
		}).
		Order("timestamp desc").
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get latest prediction: %w", err)
	}
	return &p, nil
}

// Validate marks a prediction as confirmed by a subsequent real detection.
func (r *PredictionRepo) Validate(ctx context.Context, id uuid.UUID) (*models.Prediction, error) {
	now := time.Now().UTC()
	result := r.db.WithContext(ctx).
		Model(&models.Prediction{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"validated":       true,
			"validation_time": now,
		})
	if result.Error != nil {
		return nil, fmt.Errorf("validate prediction: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, id)
}
