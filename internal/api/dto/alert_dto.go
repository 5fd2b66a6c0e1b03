package dto

import (
	"time"

	"github.com/Federated-ICS/backend-webapp/internal/api/models"
)

// CreateAlertDTO used for POST /api/alerts
type CreateAlertDTO struct {
	FacilityID  string                 `json:"facility_id" binding:"required"`
	Severity    string                 `json:"severity" binding:"required,oneof=critical high medium low"`
	Title       string                 `json:"title" binding:"required"`
	Description string                 `json:"description"`
	Sources     []AlertSourceDTO       `json:"sources"`
	AttackType  *string                `json:"attack_type,omitempty"`
	AttackName  *string                `json:"attack_name,omitempty"`
	Context     map[string]interface{} `json:"context_analysis,omitempty"`
}

type AlertSourceDTO struct {
	Layer           int                    `json:"layer"`
	ModelName       string                 `json:"model_name"`
	Confidence      float64                `json:"confidence"`
	DetectionTime   time.Time              `json:"detection_time"`
	Evidence        string                 `json:"evidence"`
	ContextEvidence map[string]interface{} `json:"context_evidence,omitempty"`
}

// UpdateAlertStatusDTO used for PUT /api/alerts/:alert_id/status
type UpdateAlertStatusDTO struct {
	Status string `json:"status" binding:"required,oneof=acknowledged resolved false-positive"`
}

// AlertFilters captures the list query parameters.
type AlertFilters struct {
	Severity  string // critical|high|medium|low|all
	Facility  string
	Status    string
	Search    string // matched against title and description
	TimeRange string // "Last 24 hours" | "Last 7 days" | "Last 30 days"
	Page      int
	Limit     int
}

// AlertListResponse is the paginated list payload.
type AlertListResponse struct {
	Alerts []models.Alert `json:"alerts"`
	Total  int64          `json:"total"`
	Page   int            `json:"page"`
	Pages  int            `json:"pages"`
	Limit  int            `json:"limit"`
}

// AlertStats are the aggregate counters shown on the dashboard.
type AlertStats struct {
	Total          int64 `json:"total"`
	Critical       int64 `json:"critical"`
	Unresolved     int64 `json:"unresolved"` // new + acknowledged
	FalsePositives int64 `json:"false_positives"`
}

// Converters
func (d CreateAlertDTO) ToModel() models.Alert {
	alert := models.Alert{
		FacilityID:  d.FacilityID,
		Severity:    models.Severity(d.Severity),
		Title:       d.Title,
		Description: d.Description,
		Status:      models.AlertStatusNew,
		AttackType:  d.AttackType,
		AttackName:  d.AttackName,
	}
	if d.Context != nil {
		alert.ContextAnalysis = models.JSONMap(d.Context)
	}
	for _, s := range d.Sources {
		source := models.AlertSource{
			Layer:         s.Layer,
			ModelName:     s.ModelName,
			Confidence:    s.Confidence,
			DetectionTime: s.DetectionTime,
			Evidence:      s.Evidence,
		}
		if s.ContextEvidence != nil {
			source.ContextEvidence = models.JSONMap(s.ContextEvidence)
		}
		alert.Sources = append(alert.Sources, source)
	}
	return alert
}
