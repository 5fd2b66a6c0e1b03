package dto

// DashboardSnapshot is the aggregate pushed on dashboard_update events and
// served from the stats endpoint. Cached in Redis between recomputes.
type DashboardSnapshot struct {
	AlertStats AlertStats       `json:"alertStats"`
	FLStatus   *FLStatusSummary `json:"flStatus,omitempty"`
}

// FLStatusSummary is the dashboard view of the latest training round.
type FLStatusSummary struct {
	RoundNumber   int      `json:"round_number"`
	Progress      int      `json:"progress"`
	Phase         string   `json:"phase"`
	ModelAccuracy *float64 `json:"model_accuracy,omitempty"`
}
