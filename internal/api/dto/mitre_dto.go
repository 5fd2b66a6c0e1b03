package dto

import "time"

// AttackDetectionDTO used for POST /api/mitre/detections. Recording a
// detection flags the technique in the graph and notifies subscribers.
type AttackDetectionDTO struct {
	TechniqueID   string  `json:"technique_id" binding:"required"`
	TechniqueName string  `json:"technique_name"`
	Confidence    float64 `json:"confidence"`
	Type          string  `json:"type"` // "current" or "predicted"
	FacilityID    string  `json:"facility_id"`
	Evidence      string  `json:"evidence"`
}

// AttackDetectedEvent is the payload broadcast on attack_detected.
type AttackDetectedEvent struct {
	TechniqueID   string    `json:"technique_id"`
	TechniqueName string    `json:"technique_name"`
	Confidence    float64   `json:"confidence"`
	Type          string    `json:"type"`
	FacilityID    string    `json:"facility_id"`
	Evidence      string    `json:"evidence"`
	Timestamp     time.Time `json:"timestamp"`
}
