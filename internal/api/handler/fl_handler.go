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

type FLHandler struct {
	flService service.FLService
}

func NewFLHandler(flService service.FLService) *FLHandler {
	return &FLHandler{
		flService: flService,
	}
}

// RegisterRoutes registers federated learning routes
func (h *FLHandler) RegisterRoutes(router *gin.RouterGroup) {
	fl := router.Group("/fl")
	{
		fl.GET("/rounds", h.ListRounds)
		fl.POST("/rounds", h.TriggerRound) // Start a new training round
		fl.GET("/rounds/current", h.GetCurrentRound)
		fl.GET("/rounds/:round_id", h.GetRound)
		fl.PUT("/rounds/:round_id/progress", h.UpdateRoundProgress)
		fl.POST("/rounds/:round_id/complete", h.CompleteRound)
		fl.GET("/clients", h.ListClients)
		fl.GET("/clients/:client_id", h.GetClient)
		fl.PUT("/clients/:client_id", h.UpdateClient)
		fl.GET("/privacy", h.GetPrivacyMetrics)
	}
}

// GetCurrentRound returns the active round, or the latest finished one.
// Responds with null when training has never run.
// GET /api/fl/rounds/current
func (h *FLHandler) GetCurrentRound(c *gin.Context) {
	round, err := h.flService.GetCurrentRound(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch current round"})
		return
	}

	c.JSON(http.StatusOK, round)
}

// ListRounds returns the round history
// GET /api/fl/rounds
func (h *FLHandler) ListRounds(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	resp, err := h.flService.ListRounds(c.Request.Context(), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list rounds"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// TriggerRound starts a new training round across all facilities
// POST /api/fl/rounds
func (h *FLHandler) TriggerRound(c *gin.Context) {
	round, err := h.flService.TriggerRound(c.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrRoundInProgress) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start round"})
		return
	}

	c.JSON(http.StatusCreated, round)
}

// GetRound returns a single round with its clients
// GET /api/fl/rounds/:round_id
func (h *FLHandler) GetRound(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("round_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid round ID"})
		return
	}

	round, err := h.flService.GetRound(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Round not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch round"})
		return
	}

	c.JSON(http.StatusOK, round)
}

// UpdateRoundProgress reports aggregation progress for a round
// PUT /api/fl/rounds/:round_id/progress
func (h *FLHandler) UpdateRoundProgress(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("round_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid round ID"})
		return
	}

	var req dto.RoundProgressDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	round, err := h.flService.UpdateRoundProgress(c.Request.Context(), id, req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Round not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update round"})
		return
	}

	c.JSON(http.StatusOK, round)
}

// CompleteRound finalizes a round with the aggregated model accuracy
// POST /api/fl/rounds/:round_id/complete
func (h *FLHandler) CompleteRound(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("round_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid round ID"})
		return
	}

	var req dto.CompleteRoundDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	round, err := h.flService.CompleteRound(c.Request.Context(), id, req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Round not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to complete round"})
		return
	}

	c.JSON(http.StatusOK, round)
}

// ListClients returns the per-facility clients of the current round
// GET /api/fl/clients
func (h *FLHandler) ListClients(c *gin.Context) {
	clients, err := h.flService.ListClients(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list clients"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"clients": clients})
}

// GetClient returns a single facility client
// GET /api/fl/clients/:client_id
func (h *FLHandler) GetClient(c *gin.Context) {
	id, err := uuid.Parse(c.Param("client_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid client ID"})
		return
	}

	client, err := h.flService.GetClient(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Client not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch client"})
		return
	}

	c.JSON(http.StatusOK, client)
}

// UpdateClient applies a partial training-status update from a facility
// PUT /api/fl/clients/:client_id
func (h *FLHandler) UpdateClient(c *gin.Context) {
	id, err := uuid.Parse(c.Param("client_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid client ID"})
		return
	}

	var req dto.ClientUpdateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	client, err := h.flService.UpdateClient(c.Request.Context(), id, req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Client not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update client"})
		return
	}

	c.JSON(http.StatusOK, client)
}

// GetPrivacyMetrics returns the differential-privacy posture
// GET /api/fl/privacy
func (h *FLHandler) GetPrivacyMetrics(c *gin.Context) {
	metrics, err := h.flService.GetPrivacyMetrics(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch privacy metrics"})
		return
	}

	c.JSON(http.StatusOK, metrics)
}
