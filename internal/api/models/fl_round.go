package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Federated learning round states
type RoundStatus string

const (
	RoundStatusInProgress RoundStatus = "in-progress"
	RoundStatusCompleted  RoundStatus = "completed"
	RoundStatusFailed     RoundStatus = "failed"
)

// Round phases, in execution order
type RoundPhase string

const (
	PhaseDistributing RoundPhase = "distributing"
	PhaseTraining     RoundPhase = "training"
	PhaseAggregating  RoundPhase = "aggregating"
	PhaseComplete     RoundPhase = "complete"
)

// FL client liveness states
type ClientStatus string

const (
	ClientStatusActive  ClientStatus = "active"
	ClientStatusDelayed ClientStatus = "delayed"
	ClientStatusOffline ClientStatus = "offline"
)

type FLRound struct {
	ID          int64       `json:"id" gorm:"primaryKey;autoIncrement"`
	RoundNumber int         `json:"round_number" gorm:"uniqueIndex;not null"`
	Status      RoundStatus `json:"status" gorm:"not null;default:in-progress"`
	Phase       RoundPhase  `json:"phase" gorm:"not null;default:distributing"`

	StartTime time.Time  `json:"start_time" gorm:"not null"`
	EndTime   *time.Time `json:"end_time,omitempty"`

	Progress      int      `json:"progress" gorm:"default:0"` // 0-100
	Epsilon       float64  `json:"epsilon" gorm:"default:0.5"`
	ModelAccuracy *float64 `json:"model_accuracy,omitempty"`

	ClientsActive int `json:"clients_active" gorm:"default:0"`
	TotalClients  int `json:"total_clients" gorm:"default:6"`

	// association
	Clients []FLClient `json:"clients" gorm:"foreignKey:RoundID;constraint:OnDelete:CASCADE;"`
}

func (FLRound) TableName() string {
	return "fl_rounds"
}

func (r *FLRound) BeforeCreate(tx *gorm.DB) error {
	if r.StartTime.IsZero() {
		r.StartTime = time.Now().UTC()
	}
	return nil
}

type FLClient struct {
	ID      uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	RoundID int64     `json:"round_id" gorm:"index"`

	FacilityID string       `json:"facility_id" gorm:"not null"`
	Name       string       `json:"name" gorm:"not null"`
	Status     ClientStatus `json:"status" gorm:"not null;default:active"`

	Progress     int `json:"progress" gorm:"default:0"` // 0-100
	CurrentEpoch int `json:"current_epoch" gorm:"default:0"`
	TotalEpochs  int `json:"total_epochs" gorm:"default:10"`

	Loss     *float64 `json:"loss,omitempty"`
	Accuracy *float64 `json:"accuracy,omitempty"`

	LastUpdate time.Time `json:"last_update"`
}

func (FLClient) TableName() string {
	return "fl_clients"
}

func (c *FLClient) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.LastUpdate.IsZero() {
		c.LastUpdate = time.Now().UTC()
	}
	return nil
}
