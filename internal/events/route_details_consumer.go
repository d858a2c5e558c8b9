package events

import (
	"context"
	"encoding/json"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/route-planner/service-planner/internal/application"
	"github.com/route-planner/service-planner/internal/platform/kafka"
)

// RouteDetailsReceiver accepts a raw route-details payload. It is implemented
// by application.PlannerService.
type RouteDetailsReceiver interface {
	ReceiveRouteDetails(ctx context.Context, payload string) (*application.RouteDTO, error)
}

// RouteDetailsConsumer listens to route-details events and hands them to the planner.
type RouteDetailsConsumer struct {
	consumer *kafka.Consumer
	receiver RouteDetailsReceiver
	logger   *zap.Logger
}

// NewRouteDetailsConsumer creates a new RouteDetailsConsumer.
func NewRouteDetailsConsumer(
	brokers []string,
	groupID string,
	topic string,
	receiver RouteDetailsReceiver,
	logger *zap.Logger,
) *RouteDetailsConsumer {
	return &RouteDetailsConsumer{
		consumer: kafka.NewConsumer(brokers, groupID, topic, logger),
		receiver: receiver,
		logger:   logger,
	}
}

// Start begins consuming route-details events. This blocks until the context is cancelled.
func (c *RouteDetailsConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// Close closes the underlying Kafka consumer.
func (c *RouteDetailsConsumer) Close() error {
	return c.consumer.Close()
}

func (c *RouteDetailsConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	ce, err := kafka.ParseCloudEvent(msg.Value)
	if err != nil {
		c.logger.Error("failed to parse cloud event from route details topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return nil // Don't retry malformed messages
	}

	if ce.Type != RouteDetails {
		c.logger.Debug("ignoring unhandled event type", zap.String("type", ce.Type))
		return nil
	}

	c.logger.Info("processing route details event", zap.String("event_id", ce.ID))

	route, err := c.receiver.ReceiveRouteDetails(ctx, payloadOf(ce.Data))
	if err != nil {
		// The planner has already notified the user.
		c.logger.Error("failed to apply route details",
			zap.String("event_id", ce.ID),
			zap.Error(err),
		)
		return nil
	}

	c.logger.Info("route details applied",
		zap.String("event_id", ce.ID),
		zap.Int("route_id", route.ID),
	)
	return nil
}

// payloadOf returns the route-details JSON. Backends may send it as an object
// or as a JSON string holding the object.
func payloadOf(data json.RawMessage) string {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return s
	}
	return string(data)
}
