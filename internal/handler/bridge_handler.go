package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/route-planner/service-planner/internal/application"
	"github.com/route-planner/service-planner/internal/platform/response"
)

const maxRouteDetailsBytes = 8 << 20

// BridgeHandler is the HTTP call-in used by webhook backends.
type BridgeHandler struct {
	service  *application.PlannerService
	maxBytes int64
}

// NewBridgeHandler creates a new BridgeHandler.
func NewBridgeHandler(service *application.PlannerService) *BridgeHandler {
	return &BridgeHandler{service: service, maxBytes: maxRouteDetailsBytes}
}

// RegisterRoutes registers the bridge routes.
func (h *BridgeHandler) RegisterRoutes(r *gin.RouterGroup) {
	bridge := r.Group("/api/v1/bridge")
	{
		bridge.POST("/route-details", h.ReceiveRouteDetails)
	}
}

// ReceiveRouteDetails accepts a route-details object, or a JSON string holding one.
func (h *BridgeHandler) ReceiveRouteDetails(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, response.Envelope{
				Error: &response.ErrorBody{
					Code:    "PAYLOAD_TOO_LARGE",
					Message: fmt.Sprintf("route details must not exceed %d bytes", tooLarge.Limit),
				},
			})
			return
		}
		response.BadRequest(c, "failed to read request body")
		return
	}

	payload := string(body)
	if trimmed := bytes.TrimSpace(body); len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			payload = s
		}
	}

	result, err := h.service.ReceiveRouteDetails(c.Request.Context(), payload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}
