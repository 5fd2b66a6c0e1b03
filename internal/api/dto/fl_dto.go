package dto

import "github.com/Federated-ICS/backend-webapp/internal/api/models"

// RoundProgressDTO used for PUT /api/fl/rounds/:round_id/progress
type RoundProgressDTO struct {
	Progress int     `json:"progress" binding:"min=0,max=100"`
	Phase    *string `json:"phase,omitempty" binding:"omitempty,oneof=distributing training aggregating complete"`
}

// CompleteRoundDTO used for POST /api/fl/rounds/:round_id/complete
type CompleteRoundDTO struct {
	ModelAccuracy float64 `json:"model_accuracy" binding:"required"`
}

// ClientUpdateDTO used for PUT /api/fl/clients/:client_id (partial updates allowed)
type ClientUpdateDTO struct {
	Status       *string  `json:"status,omitempty" binding:"omitempty,oneof=active delayed offline"`
	Progress     *int     `json:"progress,omitempty" binding:"omitempty,min=0,max=100"`
	CurrentEpoch *int     `json:"current_epoch,omitempty"`
	Loss         *float64 `json:"loss,omitempty"`
	Accuracy     *float64 `json:"accuracy,omitempty"`
}

// RoundListResponse wraps the paginated round history.
type RoundListResponse struct {
	Rounds []models.FLRound `json:"rounds"`
}

// PrivacyMetrics reports the differential-privacy posture of training.
type PrivacyMetrics struct {
	Epsilon                float64 `json:"epsilon"`
	Delta                  string  `json:"delta"`
	DataSize               string  `json:"data_size"`
	Encryption             string  `json:"encryption"`
	PrivacyBudgetRemaining float64 `json:"privacy_budget_remaining"`
}
