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

type PredictionHandler struct {
	predictionService service.PredictionService
}

func NewPredictionHandler(predictionService service.PredictionService) *PredictionHandler {
	return &PredictionHandler{
		predictionService: predictionService,
	}
}

// RegisterRoutes registers prediction routes
func (h *PredictionHandler) RegisterRoutes(router *gin.RouterGroup) {
	predictions := router.Group("/predictions")
	{
		predictions.GET("", h.List)
		predictions.POST("", h.Create) // Ingest from the correlation engine
		predictions.GET("/latest", h.GetLatest)
		predictions.GET("/:prediction_id", h.GetByID)
		predictions.POST("/:prediction_id/validate", h.Validate)
	}
}

// List returns predictions, optionally filtered by validation state
// GET /api/predictions
func (h *PredictionHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	var validated *bool
	if v := c.Query("validated"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid validated filter"})
			return
		}
		validated = &parsed
	}

	resp, err := h.predictionService.ListPredictions(c.Request.Context(), limit, offset, validated)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list predictions"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Create records a new attack prediction
// POST /api/predictions
func (h *PredictionHandler) Create(c *gin.Context) {
	var req dto.CreatePredictionDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	prediction, err := h.predictionService.CreatePrediction(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create prediction"})
		return
	}

	c.JSON(http.StatusCreated, prediction)
}

// GetLatest returns the most recent prediction
// GET /api/predictions/latest
func (h *PredictionHandler) GetLatest(c *gin.Context) {
	prediction, err := h.predictionService.GetLatestPrediction(c.Request.Context())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No predictions recorded"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch prediction"})
		return
	}

	c.JSON(http.StatusOK, prediction)
}

// GetByID returns a single prediction with its ranked techniques
// GET /api/predictions/:prediction_id
func (h *PredictionHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("prediction_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid prediction ID"})
		return
	}

	prediction, err := h.predictionService.GetPrediction(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Prediction not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch prediction"})
		return
	}

	c.JSON(http.StatusOK, prediction)
}

// Validate marks a prediction as confirmed by an analyst
// POST /api/predictions/:prediction_id/validate
func (h *PredictionHandler) Validate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("prediction_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid prediction ID"})
		return
	}

	prediction, err := h.predictionService.ValidatePrediction(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Prediction not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate prediction"})
		return
	}

	c.JSON(http.StatusOK, prediction)
}
