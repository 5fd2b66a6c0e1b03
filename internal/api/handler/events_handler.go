package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Federated-ICS/backend-webapp/internal/api/service"
)

// EventsHandler fires synthetic events through the emitter so the realtime
// path can be exercised without the detection pipeline running.
type EventsHandler struct {
	emitter service.EventEmitter
}

func NewEventsHandler(emitter service.EventEmitter) *EventsHandler {
	return &EventsHandler{
		emitter: emitter,
	}
}

// RegisterRoutes registers the test event triggers
func (h *EventsHandler) RegisterRoutes(router *gin.RouterGroup) {
	events := router.Group("/events/test")
	{
		events.POST("/alert", h.TriggerAlert)
		events.POST("/alert-updated", h.TriggerAlertUpdated)
		events.POST("/fl-progress", h.TriggerFLProgress)
		events.POST("/attack", h.TriggerAttack)
		events.POST("/dashboard", h.TriggerDashboard)
	}
}

// TriggerAlert emits a sample alert_created event
// POST /api/events/test/alert
func (h *EventsHandler) TriggerAlert(c *gin.Context) {
	h.emitter.EmitAlertCreated(gin.H{
		"id":          uuid.New().String(),
		"timestamp":   time.Now().UTC(),
		"facility_id": "facility_a",
		"severity":    "critical",
		"title":       "Test alert from event trigger",
		"description": "Synthetic alert for websocket verification",
		"status":      "new",
	})
	c.JSON(http.StatusOK, gin.H{"message": "alert_created event sent"})
}

// TriggerAlertUpdated emits a sample alert_updated event
// POST /api/events/test/alert-updated
func (h *EventsHandler) TriggerAlertUpdated(c *gin.Context) {
	h.emitter.EmitAlertUpdated(gin.H{
		"id":          uuid.New().String(),
		"timestamp":   time.Now().UTC(),
		"facility_id": "facility_a",
		"severity":    "critical",
		"title":       "Test alert from event trigger",
		"description": "Synthetic alert for websocket verification",
		"status":      "acknowledged",
	})
	c.JSON(http.StatusOK, gin.H{"message": "alert_updated event sent"})
}

// TriggerFLProgress emits a sample fl_progress event
// POST /api/events/test/fl-progress
func (h *EventsHandler) TriggerFLProgress(c *gin.Context) {
	h.emitter.EmitFLProgress(gin.H{
		"round_number": 42,
		"status":       "in-progress",
		"phase":        "training",
		"progress":     65,
	})
	c.JSON(http.StatusOK, gin.H{"message": "fl_progress event sent"})
}

// TriggerAttack emits a sample attack_detected event
// POST /api/events/test/attack
func (h *EventsHandler) TriggerAttack(c *gin.Context) {
	h.emitter.EmitAttackDetected(gin.H{
		"technique_id":   "T0886",
		"technique_name": "Remote Services",
		"confidence":     0.93,
		"type":           "current",
		"facility_id":    "facility_b",
		"timestamp":      time.Now().UTC(),
	})
	c.JSON(http.StatusOK, gin.H{"message": "attack_detected event sent"})
}

// TriggerDashboard emits a sample dashboard_update to every client
// POST /api/events/test/dashboard
func (h *EventsHandler) TriggerDashboard(c *gin.Context) {
	h.emitter.EmitDashboardUpdate(gin.H{
		"alertStats": gin.H{
			"total":           12,
			"critical":        3,
			"unresolved":      7,
			"false_positives": 1,
		},
	})
	c.JSON(http.StatusOK, gin.H{"message": "dashboard_update event sent"})
}
