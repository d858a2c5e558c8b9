package handler

import (
	"io"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/route-planner/service-planner/internal/application"
)

// EventsHandler streams UI events as server-sent events.
type EventsHandler struct {
	hub       *application.EventHub
	keepAlive time.Duration
}

// NewEventsHandler creates a new EventsHandler that sends a ping every keepAlive.
func NewEventsHandler(hub *application.EventHub, keepAlive time.Duration) *EventsHandler {
	return &EventsHandler{hub: hub, keepAlive: keepAlive}
}

// RegisterRoutes registers the event stream route.
func (h *EventsHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/api/v1/events", h.Stream)
}

// Stream writes events until the client disconnects.
func (h *EventsHandler) Stream(c *gin.Context) {
	events, unsubscribe := h.hub.Subscribe()
	defer unsubscribe()

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()

	ctx := c.Request.Context()
	c.SSEvent("ready", gin.H{"at": time.Now().UTC()})
	c.Writer.Flush()

	c.Stream(func(_ io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case evt, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent(string(evt.Type), evt)
			return true
		case t := <-ticker.C:
			c.SSEvent("ping", gin.H{"at": t.UTC()})
			return true
		}
	})
}
