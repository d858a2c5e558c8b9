package events

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/route-planner/service-planner/internal/bridge"
	"github.com/route-planner/service-planner/internal/platform/kafka"
)

// EventPublisher is the part of the Kafka producer the publisher needs.
type EventPublisher interface {
	PublishEventWithKey(ctx context.Context, topic, key string, event kafka.CloudEvent) error
}

// RouteRequestPublisher is a bridge.Dispatcher that publishes route requests to Kafka.
type RouteRequestPublisher struct {
	producer EventPublisher
	topic    string
	logger   *zap.Logger
}

// NewRouteRequestPublisher creates a publisher writing to topic.
func NewRouteRequestPublisher(producer EventPublisher, topic string, logger *zap.Logger) *RouteRequestPublisher {
	return &RouteRequestPublisher{producer: producer, topic: topic, logger: logger}
}

// Dispatch implements bridge.Dispatcher.
func (p *RouteRequestPublisher) Dispatch(ctx context.Context, req bridge.RouteRequest) error {
	ce, err := kafka.NewCloudEvent(Source, RouteRequested, req)
	if err != nil {
		return err
	}

	if err := p.producer.PublishEventWithKey(ctx, p.topic, req.RequestID, ce); err != nil {
		return fmt.Errorf("failed to publish route request: %w", err)
	}

	p.logger.Info("route request published",
		zap.String("request_id", req.RequestID),
		zap.String("mode", req.Mode.String()),
	)
	return nil
}
