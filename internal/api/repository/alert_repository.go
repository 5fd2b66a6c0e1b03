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

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("record not found")

type AlertRepo struct {
	db *gorm.DB
}

func NewAlertRepo(db *gorm.DB) *AlertRepo {
	return &AlertRepo{db: db}
}

func (r *AlertRepo) Create(ctx context.Context, alert *models.Alert) error {
	if err := r.db.WithContext(ctx).Create(alert).Error; err != nil {
		return fmt.Errorf("create alert: %w", err)
	}
	return nil
}

func (r *AlertRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Alert, error) {
	var alert models.Alert
	err := r.db.WithContext(ctx).Preload("Sources").First(&alert, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get alert: %w", err)
	}
	return &alert, nil
}

// GetAll returns alerts filtered and paginated, newest first, together with
// the total match count.
func (r *AlertRepo) GetAll(ctx context.Context, f dto.AlertFilters) ([]models.Alert, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Alert{})
	query = applyFilters(query, f)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count alerts: %w", err)
	}

	var list []models.Alert
	offset := (f.Page - 1) * f.Limit
	if err := query.
		Preload("Sources").
		Order("timestamp desc").
		Limit(f.Limit).
		Offset(offset).
		Find(&list).Error; err != nil {
		return nil, 0, fmt.Errorf("list alerts: %w", err)
	}

	return list, total, nil
}

func applyFilters(query *gorm.DB, f dto.AlertFilters) *gorm.DB {
	if f.Severity != "" && f.Severity != "all" {
		query = query.Where("severity = ?", f.Severity)
	}
	if f.Facility != "" && f.Facility != "All Facilities" {
		query = query.Where("facility_id = ?", f.Facility)
	}
	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}
	if f.Search != "" {
		p := "%" + f.Search + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ?", p, p)
	}
	if f.TimeRange != "" {
		now := time.Now().UTC()
		switch f.TimeRange {
		case "Last 24 hours":
			query = query.Where("timestamp >= ?", now.Add(-24*time.Hour))
		case "Last 7 days":
			query = query.Where("timestamp >= ?", now.AddDate(0, 0, -7))
		case "Last 30 days":
			query = query.Where("timestamp >= ?", now.AddDate(0, 0, -30))
		}
	}
	return query
}

// UpdateStatus transitions an alert and returns the refreshed row.
func (r *AlertRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status models.AlertStatus) (*models.Alert, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Alert{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return nil, fmt.Errorf("update alert status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *AlertRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Alert{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("delete alert: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetStats computes the dashboard counters in one pass per counter.
func (r *AlertRepo) GetStats(ctx context.Context) (dto.AlertStats, error) {
	var stats dto.AlertStats
	db := r.db.WithContext(ctx).Model(&models.Alert{})

	if err := db.Count(&stats.Total).Error; err != nil {
		return stats, fmt.Errorf("count alerts: %w", err)
	}
	if err := r.db.WithContext(ctx).Model(&models.Alert{}).
		Where("severity = ?", models.SeverityCritical).
		Count(&stats.Critical).Error; err != nil {
		return stats, fmt.Errorf("count critical alerts: %w", err)
	}
	if err := r.db.WithContext(ctx).Model(&models.Alert{}).
		Where("status IN ?", []models.AlertStatus{models.AlertStatusNew, models.AlertStatusAcknowledged}).
		Count(&stats.Unresolved).Error; err != nil {
		return stats, fmt.Errorf("count unresolved alerts: %w", err)
	}
	if err := r.db.WithContext(ctx).Model(&models.Alert{}).
		Where("status = ?", models.AlertStatusFalsePositive).
		Count(&stats.FalsePositives).Error; err != nil {
		return stats, fmt.Errorf("count false positives: %w", err)
	}

	return stats, nil
}
