package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/route-planner/service-planner/internal/application"
	"github.com/route-planner/service-planner/internal/platform/response"
)

// OverlayHandler handles HTTP requests for the accessibility overlay.
type OverlayHandler struct {
	service *application.OverlayService
}

// NewOverlayHandler creates a new OverlayHandler.
func NewOverlayHandler(service *application.OverlayService) *OverlayHandler {
	return &OverlayHandler{service: service}
}

// RegisterRoutes registers the overlay routes.
func (h *OverlayHandler) RegisterRoutes(r *gin.RouterGroup) {
	overlay := r.Group("/api/v1/overlay")
	{
		overlay.GET("", h.GetState)
		overlay.POST("/toggle", h.Toggle)
		overlay.GET("/distribution", h.GetDistribution)
	}
}

// GetState returns the overlay toggle and panel state.
func (h *OverlayHandler) GetState(c *gin.Context) {
	response.Success(c, h.service.State())
}

// Toggle shows or hides the overlay.
func (h *OverlayHandler) Toggle(c *gin.Context) {
	result, err := h.service.Toggle(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// GetDistribution returns the accessibility distribution chart.
func (h *OverlayHandler) GetDistribution(c *gin.Context) {
	response.Success(c, h.service.Distribution())
}
