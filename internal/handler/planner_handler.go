package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/route-planner/service-planner/internal/application"
	"github.com/route-planner/service-planner/internal/platform/response"
)

// SelectModeRequest is the body of POST /api/v1/planner/mode.
type SelectModeRequest struct {
	Mode string `json:"mode" binding:"required"`
}

// PlannerHandler handles HTTP requests for the planner form and the route list.
type PlannerHandler struct {
	service  *application.PlannerService
	notifier *application.NotificationService
}

// NewPlannerHandler creates a new PlannerHandler.
func NewPlannerHandler(service *application.PlannerService, notifier *application.NotificationService) *PlannerHandler {
	return &PlannerHandler{service: service, notifier: notifier}
}

// RegisterRoutes registers the planner, route list and notification routes.
func (h *PlannerHandler) RegisterRoutes(r *gin.RouterGroup) {
	planner := r.Group("/api/v1/planner")
	{
		planner.GET("", h.GetSnapshot)
		planner.POST("/mode", h.SelectMode)
		planner.PUT("/inputs", h.UpdateInputs)
		planner.POST("/swap", h.SwapInputs)
		planner.POST("/plan", h.PlanRoute)
	}

	routes := r.Group("/api/v1/routes")
	{
		routes.GET("", h.ListRoutes)
		routes.POST("/:id/select", h.ShowRoute)
		routes.DELETE("/:id", h.DeleteRoute)
	}

	r.GET("/api/v1/notifications", h.ListNotifications)
}

// GetSnapshot returns the complete planner state.
func (h *PlannerHandler) GetSnapshot(c *gin.Context) {
	result, err := h.service.Snapshot(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// SelectMode sets the transport mode.
func (h *PlannerHandler) SelectMode(c *gin.Context) {
	var req SelectModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.SelectMode(c.Request.Context(), req.Mode)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// UpdateInputs changes the postal code fields and the range.
func (h *PlannerHandler) UpdateInputs(c *gin.Context) {
	var req application.UpdateInputsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.UpdateInputs(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// SwapInputs exchanges the from and to postal codes.
func (h *PlannerHandler) SwapInputs(c *gin.Context) {
	result, err := h.service.SwapInputs(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// PlanRoute forwards a route request to the backend. An optional body overrides the form.
func (h *PlannerHandler) PlanRoute(c *gin.Context) {
	var override *application.PlanRouteRequest
	if c.Request.ContentLength != 0 {
		var req application.PlanRouteRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		override = &req
	}

	result, err := h.service.PlanRoute(c.Request.Context(), override)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, result)
}

// ListRoutes returns the route list.
func (h *PlannerHandler) ListRoutes(c *gin.Context) {
	result, err := h.service.ListRoutes(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ShowRoute selects a route and draws it.
func (h *PlannerHandler) ShowRoute(c *gin.Context) {
	id, ok := routeID(c)
	if !ok {
		return
	}

	result, err := h.service.ShowRoute(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// DeleteRoute removes a route from the list.
func (h *PlannerHandler) DeleteRoute(c *gin.Context) {
	id, ok := routeID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteRoute(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.service.ListRoutes(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ListNotifications returns the notifications that have not expired.
func (h *PlannerHandler) ListNotifications(c *gin.Context) {
	response.Success(c, h.notifier.Active())
}

func routeID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		response.BadRequest(c, "invalid route ID")
		return 0, false
	}
	return id, true
}
