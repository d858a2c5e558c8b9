// Package bridge is the boundary with the routing backend: route requests go
// out through a Dispatcher, route details come back as JSON strings.
package bridge

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/route-planner/service-planner/internal/domain/route"
)

// RouteRequest is the call-out payload handed to the backend.
type RouteRequest struct {
	RequestID   string     `json:"request_id"`
	Origin      string     `json:"origin"`
	Destination string     `json:"destination"`
	Mode        route.Mode `json:"mode"`
	Range       *int       `json:"range,omitempty"`
	RequestedAt time.Time  `json:"requested_at"`
}

// NewRouteRequest builds a request. The range is only carried for modes that
// use the range control.
func NewRouteRequest(origin, destination string, mode route.Mode, searchRange int) RouteRequest {
	req := RouteRequest{
		RequestID:   uuid.New().String(),
		Origin:      origin,
		Destination: destination,
		Mode:        mode,
		RequestedAt: time.Now().UTC(),
	}
	if mode.SupportsRange() {
		r := searchRange
		req.Range = &r
	}
	return req
}

// Dispatcher forwards a route request to the backend. It does not wait for
// the route itself; that arrives later through a DeliveryHandler.
type Dispatcher interface {
	Dispatch(ctx context.Context, req RouteRequest) error
}

// DeliveryHandler receives a raw route-details payload from the backend.
type DeliveryHandler func(ctx context.Context, payload string)
