package bridge

import (
	"context"
)

// ChannelBridge connects the planner to a backend running in the same process.
// The backend reads Requests and answers through Deliver.
type ChannelBridge struct {
	requests   chan RouteRequest
	deliveries chan string
}

// NewChannelBridge creates a bridge whose channels hold up to buffer items.
func NewChannelBridge(buffer int) *ChannelBridge {
	return &ChannelBridge{
		requests:   make(chan RouteRequest, buffer),
		deliveries: make(chan string, buffer),
	}
}

// Dispatch implements Dispatcher. It blocks until the request is queued or ctx ends.
func (b *ChannelBridge) Dispatch(ctx context.Context, req RouteRequest) error {
	select {
	case b.requests <- req:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Requests is the stream of route requests for the backend.
func (b *ChannelBridge) Requests() <-chan RouteRequest {
	return b.requests
}

// Deliver queues a route-details payload from the backend.
func (b *ChannelBridge) Deliver(ctx context.Context, payload string) error {
	select {
	case b.deliveries <- payload:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run hands every delivered payload to handler, in arrival order, until ctx is cancelled.
func (b *ChannelBridge) Run(ctx context.Context, handler DeliveryHandler) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case payload := <-b.deliveries:
			handler(ctx, payload)
		}
	}
}
