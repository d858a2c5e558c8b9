package kafka

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/avast/retry-go/v4"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// EnsureTopics creates the given topics on the cluster controller, retrying while the broker starts.
// Existing topics are left untouched.
func EnsureTopics(ctx context.Context, brokers []string, logger *zap.Logger, topics ...string) error {
	if len(brokers) == 0 {
		return fmt.Errorf("no kafka brokers configured")
	}

	return retry.Do(
		func() error { return createTopics(brokers[0], topics) },
		retry.Context(ctx),
		retry.Attempts(5),
		retry.Delay(500*time.Millisecond),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			logger.Warn("kafka not ready, retrying topic creation",
				zap.Uint("attempt", n+1),
				zap.Error(err),
			)
		}),
	)
}

func createTopics(broker string, topics []string) error {
	conn, err := kafkago.Dial("tcp", broker)
	if err != nil {
		return fmt.Errorf("failed to dial kafka: %w", err)
	}
	defer conn.Close()

	controller, err := conn.Controller()
	if err != nil {
		return fmt.Errorf("failed to get kafka controller: %w", err)
	}

	controllerConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	if err != nil {
		return fmt.Errorf("failed to connect to kafka controller: %w", err)
	}
	defer controllerConn.Close()

	configs := make([]kafkago.TopicConfig, len(topics))
	for i, topic := range topics {
		configs[i] = kafkago.TopicConfig{
			Topic:             topic,
			NumPartitions:     1,
			ReplicationFactor: 1,
		}
	}
	return controllerConn.CreateTopics(configs...)
}
