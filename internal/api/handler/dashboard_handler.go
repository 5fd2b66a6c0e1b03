package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Federated-ICS/backend-webapp/internal/api/service"
)

type DashboardHandler struct {
	dashboardService service.DashboardService
}

func NewDashboardHandler(dashboardService service.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
	}
}

// RegisterRoutes registers dashboard routes
func (h *DashboardHandler) RegisterRoutes(router *gin.RouterGroup) {
	dashboard := router.Group("/dashboard")
	{
		dashboard.GET("/stats", h.GetStats)
		dashboard.POST("/refresh", h.Refresh) // Recompute and broadcast
	}
}

// GetStats serves the aggregate snapshot, cached between recomputes
// GET /api/dashboard/stats
func (h *DashboardHandler) GetStats(c *gin.Context) {
	snap, err := h.dashboardService.GetSnapshot(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute dashboard stats"})
		return
	}

	c.JSON(http.StatusOK, snap)
}

// Refresh recomputes the snapshot and pushes it to every connected client
// POST /api/dashboard/refresh
func (h *DashboardHandler) Refresh(c *gin.Context) {
	snap, err := h.dashboardService.Refresh(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to refresh dashboard"})
		return
	}

	c.JSON(http.StatusOK, snap)
}
