package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Alert severity levels
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// Alert lifecycle states
type AlertStatus string

const (
	AlertStatusNew           AlertStatus = "new"
	AlertStatusAcknowledged  AlertStatus = "acknowledged"
	AlertStatusResolved      AlertStatus = "resolved"
	AlertStatusFalsePositive AlertStatus = "false-positive"
)

type Alert struct {
	ID          uuid.UUID   `json:"id" gorm:"type:uuid;primaryKey"`
	Timestamp   time.Time   `json:"timestamp" gorm:"not null;index"`
	FacilityID  string      `json:"facility_id" gorm:"not null;index"`
	Severity    Severity    `json:"severity" gorm:"not null;index"`
	Title       string      `json:"title" gorm:"not null"`
	Description string      `json:"description" gorm:"type:text"`
	Status      AlertStatus `json:"status" gorm:"not null;index;default:new"`

	// Attack classification
	AttackType *string `json:"attack_type,omitempty"` // e.g. "T0846"
	AttackName *string `json:"attack_name,omitempty"` // e.g. "Port Scan"

	// Correlation
	CorrelationConfidence *float64 `json:"correlation_confidence,omitempty"`
	CorrelationSummary    *string  `json:"correlation_summary,omitempty"`

	// Context analysis
	ContextAnalysis JSONMap `json:"context_analysis,omitempty" gorm:"type:jsonb"`

	// association
	Sources []AlertSource `json:"sources" gorm:"foreignKey:AlertID;constraint:OnDelete:CASCADE;"`
}

func (Alert) TableName() string {
	return "alerts"
}

func (a *Alert) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Timestamp.IsZero() {
		a.Timestamp = time.Now().UTC()
	}
	return nil
}

// AlertSource is one detection-layer vote that contributed to an alert.
type AlertSource struct {
	ID      uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	AlertID uuid.UUID `json:"alert_id" gorm:"type:uuid;index"`

	Layer           int       `json:"layer"`      // 1, 2, or 3
	ModelName       string    `json:"model_name"` // "LSTM", "Isolation Forest", etc.
	Confidence      float64   `json:"confidence"`
	DetectionTime   time.Time `json:"detection_time"`
	Evidence        string    `json:"evidence" gorm:"type:text"`
	ContextEvidence JSONMap   `json:"context_evidence,omitempty" gorm:"type:jsonb"`
}

func (AlertSource) TableName() string {
	return "alert_sources"
}

func (s *AlertSource) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.DetectionTime.IsZero() {
		s.DetectionTime = time.Now().UTC()
	}
	return nil
}
