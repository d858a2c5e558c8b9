package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/route-planner/service-planner/internal/platform/response"
	"github.com/route-planner/service-planner/internal/render"
)

// MapHandler exposes the drawn map layers.
type MapHandler struct {
	renderer *render.Map
}

// NewMapHandler creates a new MapHandler.
func NewMapHandler(renderer *render.Map) *MapHandler {
	return &MapHandler{renderer: renderer}
}

// RegisterRoutes registers the map routes.
func (h *MapHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/api/v1/map", h.GetMap)
}

// GetMap returns the viewport, tile layer and current layers as GeoJSON.
func (h *MapHandler) GetMap(c *gin.Context) {
	response.Success(c, h.renderer.Snapshot())
}
