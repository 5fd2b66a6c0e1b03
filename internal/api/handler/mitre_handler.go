package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Federated-ICS/backend-webapp/internal/api/dto"
	"github.com/Federated-ICS/backend-webapp/internal/api/service"
)

type MitreHandler struct {
	mitreService service.MitreService
}

func NewMitreHandler(mitreService service.MitreService) *MitreHandler {
	return &MitreHandler{
		mitreService: mitreService,
	}
}

// RegisterRoutes registers MITRE ATT&CK graph routes
func (h *MitreHandler) RegisterRoutes(router *gin.RouterGroup) {
	mitre := router.Group("/mitre")
	{
		mitre.GET("/attack-graph", h.GetAttackGraph)
		mitre.GET("/techniques", h.ListTechniques)
		mitre.GET("/techniques/:technique_id", h.GetTechnique)
		mitre.POST("/detections", h.RecordDetection)
	}
}

// GetAttackGraph returns detected techniques, their likely successors and
// the links between them
// GET /api/mitre/attack-graph
func (h *MitreHandler) GetAttackGraph(c *gin.Context) {
	graph, err := h.mitreService.GetAttackGraph(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build attack graph"})
		return
	}

	c.JSON(http.StatusOK, graph)
}

// ListTechniques returns the known ATT&CK for ICS techniques
// GET /api/mitre/techniques
func (h *MitreHandler) ListTechniques(c *gin.Context) {
	techniques, err := h.mitreService.ListTechniques(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list techniques"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"techniques": techniques})
}

// GetTechnique returns detail for one technique
// GET /api/mitre/techniques/:technique_id
func (h *MitreHandler) GetTechnique(c *gin.Context) {
	technique, err := h.mitreService.GetTechnique(c.Request.Context(), c.Param("technique_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch technique"})
		return
	}
	if technique == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Technique not found"})
		return
	}

	c.JSON(http.StatusOK, technique)
}

// RecordDetection flags a technique as observed and notifies subscribers
// POST /api/mitre/detections
func (h *MitreHandler) RecordDetection(c *gin.Context) {
	var req dto.AttackDetectionDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, err := h.mitreService.RecordDetection(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record detection"})
		return
	}

	c.JSON(http.StatusCreated, event)
}
