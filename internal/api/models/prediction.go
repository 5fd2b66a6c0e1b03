package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Prediction struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Timestamp time.Time `json:"timestamp" gorm:"not null;index"`

	CurrentTechnique     string     `json:"current_technique" gorm:"not null"`
	CurrentTechniqueName string     `json:"current_technique_name" gorm:"not null"`
	AlertID              *uuid.UUID `json:"alert_id,omitempty" gorm:"type:uuid"`

	Validated      bool       `json:"validated" gorm:"default:false"`
	ValidationTime *time.Time `json:"validation_time,omitempty"`

	// association
	PredictedTechniques []PredictedTechnique `json:"predicted_techniques" gorm:"foreignKey:PredictionID;constraint:OnDelete:CASCADE;"`
}

func (Prediction) TableName() string {
	return "predictions"
}

func (p *Prediction) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Timestamp.IsZero() {
		p.Timestamp = time.Now().UTC()
	}
	return nil
}

// PredictedTechnique is one ranked next-step candidate of a prediction.
type PredictedTechnique struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	PredictionID uuid.UUID `json:"prediction_id" gorm:"type:uuid;index"`

	TechniqueID   string  `json:"technique_id" gorm:"not null"` // e.g. "T0800"
	TechniqueName string  `json:"technique_name" gorm:"not null"`
	Probability   float64 `json:"probability" gorm:"not null"`
	Rank          int     `json:"rank" gorm:"not null"`
	Timeframe     *string `json:"timeframe,omitempty"` // e.g. "15-60 minutes"
}

func (PredictedTechnique) TableName() string {
	return "predicted_techniques"
}

func (t *PredictedTechnique) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
