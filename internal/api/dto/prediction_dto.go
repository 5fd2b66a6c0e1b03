package dto

import (
	"github.com/google/uuid"

	"github.com/Federated-ICS/backend-webapp/internal/api/models"
)

// CreatePredictionDTO used for POST /api/predictions
type CreatePredictionDTO struct {
	CurrentTechnique     string                  `json:"current_technique" binding:"required"`
	CurrentTechniqueName string                  `json:"current_technique_name" binding:"required"`
	AlertID              *uuid.UUID              `json:"alert_id,omitempty"`
	PredictedTechniques  []PredictedTechniqueDTO `json:"predicted_techniques"`
}

type PredictedTechniqueDTO struct {
	TechniqueID   string  `json:"technique_id" binding:"required"`
	TechniqueName string  `json:"technique_name" binding:"required"`
	Probability   float64 `json:"probability"`
	Rank          int     `json:"rank"`
	Timeframe     *string `json:"timeframe,omitempty"`
}

// PredictionListResponse wraps the paginated prediction list.
type PredictionListResponse struct {
	Predictions []models.Prediction `json:"predictions"`
}

// Converters
func (d CreatePredictionDTO) ToModel() models.Prediction {
	p := models.Prediction{
		CurrentTechnique:     d.CurrentTechnique,
		CurrentTechniqueName: d.CurrentTechniqueName,
		AlertID:              d.AlertID,
	}
	for _, t := range d.PredictedTechniques {
		p.PredictedTechniques = append(p.PredictedTechniques, models.PredictedTechnique{
			TechniqueID:   t.TechniqueID,
			TechniqueName: t.TechniqueName,
			Probability:   t.Probability,
			Rank:          t.Rank,
			Timeframe:     t.Timeframe,
		})
	}
	return p
}
