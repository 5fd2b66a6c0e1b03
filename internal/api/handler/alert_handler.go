package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Federated-ICS/backend-webapp/internal/api/dto"
	"github.com/Federated-ICS/backend-webapp/internal/api/repository"
	"github.com/Federated-ICS/backend-webapp/internal/api/service"
)

type AlertHandler struct {
	alertService service.AlertService
}

func NewAlertHandler(alertService service.AlertService) *AlertHandler {
	return &AlertHandler{
		alertService: alertService,
	}
}

// RegisterRoutes registers alert-related routes
func (h *AlertHandler) RegisterRoutes(router *gin.RouterGroup) {
	alerts := router.Group("/alerts")
	{
		alerts.GET("", h.List)           // List alerts with filters and pagination
		alerts.POST("", h.Create)        // Ingest a new alert
		alerts.GET("/stats", h.GetStats) // Aggregate counters
		alerts.GET("/:alert_id", h.GetByID)
		alerts.PUT("/:alert_id/status", h.UpdateStatus) // Triage transitions
		alerts.DELETE("/:alert_id", h.Delete)
	}
}

// List returns alerts matching the query filters
// GET /api/alerts
func (h *AlertHandler) List(c *gin.Context) {
	filters := dto.AlertFilters{
		Severity:  c.DefaultQuery("severity", "all"),
		Facility:  c.Query("facility"),
		Status:    c.Query("status"),
		Search:    c.Query("search"),
		TimeRange: c.Query("time_range"),
	}
	filters.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filters.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))

	resp, err := h.alertService.ListAlerts(c.Request.Context(), filters)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list alerts"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Create ingests a new alert from the detection pipeline
// POST /api/alerts
func (h *AlertHandler) Create(c *gin.Context) {
	var req dto.CreateAlertDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	alert, err := h.alertService.CreateAlert(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create alert"})
		return
	}

	c.JSON(http.StatusCreated, alert)
}

// GetByID returns a single alert with its detection sources
// GET /api/alerts/:alert_id
func (h *AlertHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("alert_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid alert ID"})
		return
	}

	alert, err := h.alertService.GetAlert(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Alert not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch alert"})
		return
	}

	c.JSON(http.StatusOK, alert)
}

// UpdateStatus moves an alert through the triage workflow
// PUT /api/alerts/:alert_id/status
func (h *AlertHandler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("alert_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid alert ID"})
		return
	}

	var req dto.UpdateAlertStatusDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	alert, err := h.alertService.UpdateAlertStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Alert not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update alert status"})
		return
	}

	c.JSON(http.StatusOK, alert)
}

// Delete removes an alert
// DELETE /api/alerts/:alert_id
func (h *AlertHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("alert_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid alert ID"})
		return
	}

	if err := h.alertService.DeleteAlert(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Alert not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete alert"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Alert deleted"})
}

// GetStats returns the aggregate alert counters
// GET /api/alerts/stats
func (h *AlertHandler) GetStats(c *gin.Context) {
	stats, err := h.alertService.GetStats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute alert stats"})
		return
	}

	c.JSON(http.StatusOK, stats)
}
