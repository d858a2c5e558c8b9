//go:build integration

package main_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	kafkamodule "github.com/testcontainers/testcontainers-go/modules/kafka"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/route-planner/service-planner/internal/application"
	plannerEvents "github.com/route-planner/service-planner/internal/events"
	"github.com/route-planner/service-planner/internal/overlay"
	"github.com/route-planner/service-planner/internal/platform/database"
	"github.com/route-planner/service-planner/internal/platform/kafka"
	"github.com/route-planner/service-planner/internal/postal"
	"github.com/route-planner/service-planner/internal/render"
	"github.com/route-planner/service-planner/internal/repository"
)

const (
	requestTopic  = "route.requests"
	responseTopic = "route.details"
)

// testInfra holds shared test infrastructure.
type testInfra struct {
	DB           *gorm.DB
	KafkaBrokers []string
	Cleanup      func()
}

// plannerStack holds wired-up planner components.
type plannerStack struct {
	Planner         *application.PlannerService
	Notifier        *application.NotificationService
	Postal          *repository.GormPostalRepository
	Consumer        *plannerEvents.RouteDetailsConsumer
	CleanupProducer func()
}

// setupContainers starts PostgreSQL and Kafka testcontainers and returns a connected GORM DB.
func setupContainers(t *testing.T) *testInfra {
	t.Helper()
	ctx := context.Background()
	logger := zap.NewNop()

	pgReq := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "test_planner",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	pgContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: pgReq,
		Started:          true,
	})
	require.NoError(t, err, "failed to start PostgreSQL container")

	pgHost, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	pgPort, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)

	cfg := database.PostgresConfig{
		Host:     pgHost,
		Port:     pgPort.Port(),
		User:     "test",
		Password: "test",
		DBName:   "test_planner",
		SSLMode:  "disable",
	}

	var db *gorm.DB
	require.Eventually(t, func() bool {
		var err error
		db, err = database.Connect(cfg, logger)
		return err == nil
	}, 30*time.Second, time.Second, "PostgreSQL not ready for connections")
	require.NoError(t, db.AutoMigrate(&repository.PostalCodeModel{}))

	kafkaContainer, err := kafkamodule.Run(ctx, "confluentinc/confluent-local:7.5.0")
	require.NoError(t, err, "failed to start Kafka container")

	kafkaBrokers, err := kafkaContainer.Brokers(ctx)
	require.NoError(t, err, "failed to get Kafka brokers")

	require.NoError(t, kafka.EnsureTopics(ctx, kafkaBrokers, logger, requestTopic, responseTopic))
	// Give Kafka a moment to propagate topic metadata.
	time.Sleep(time.Second)

	cleanup := func() {
		if err := kafkaContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate Kafka container: %v", err)
		}
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate PostgreSQL container: %v", err)
		}
	}

	return &testInfra{
		DB:           db,
		KafkaBrokers: kafkaBrokers,
		Cleanup:      cleanup,
	}
}

// setupPlannerStack wires the planner to the Kafka bridge and the PostgreSQL postal directory.
func setupPlannerStack(t *testing.T, db *gorm.DB, brokers []string) *plannerStack {
	t.Helper()
	logger, _ := zap.NewDevelopment()

	postalRepo := repository.NewGormPostalRepository(db)
	hub := application.NewEventHub(16, logger)
	notifier := application.NewNotificationService(hub, logger)
	renderer := render.New(render.DefaultViewport(), render.TileLayer{}, nil)
	overlaySvc := application.NewOverlayService(overlay.StaticSource{}, renderer, notifier, hub, logger)

	producer := kafka.NewProducer(brokers, logger)
	planner := application.NewPlannerService(
		repository.NewMemoryRouteRepository(),
		renderer,
		plannerEvents.NewRouteRequestPublisher(producer, requestTopic, logger),
		notifier,
		hub,
		application.PlannerOptions{
			Directory:       postalRepo,
			Overlay:         overlaySvc,
			DispatchTimeout: 10 * time.Second,
		},
		logger,
	)

	groupID := fmt.Sprintf("test-planner-%s", uuid.New().String()[:8])
	consumer := plannerEvents.NewRouteDetailsConsumer(brokers, groupID, responseTopic, planner, logger)

	return &plannerStack{
		Planner:         planner,
		Notifier:        notifier,
		Postal:          postalRepo,
		Consumer:        consumer,
		CleanupProducer: func() { _ = producer.Close() },
	}
}

// seedPostalCodes stores the codes used by the tests.
func seedPostalCodes(t *testing.T, repo *repository.GormPostalRepository) {
	t.Helper()
	require.NoError(t, repo.Seed(context.Background(), []postal.Code{
		{Zip: "6211AB", Lat: 50.8510, Lon: 5.6900},
		{Zip: "6229HX", Lat: 50.8300, Lon: 5.7200},
	}))
}

// publishTestEvent publishes a CloudEvent to Kafka.
func publishTestEvent(t *testing.T, brokers []string, topic, source, eventType string, data any) {
	t.Helper()
	logger, _ := zap.NewDevelopment()
	producer := kafka.NewProducer(brokers, logger)
	defer func() { _ = producer.Close() }()

	ce, err := kafka.NewCloudEvent(source, eventType, data)
	require.NoError(t, err, "failed to create cloud event")

	err = producer.PublishEvent(context.Background(), topic, ce)
	require.NoError(t, err, "failed to publish event")
}

// consumeOneEvent reads from a Kafka topic until it finds an event of the expected type.
func consumeOneEvent(t *testing.T, brokers []string, topic, expectedType string, timeout time.Duration) kafka.CloudEvent {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	groupID := fmt.Sprintf("test-assert-%s", uuid.New().String()[:8])
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     brokers,
		GroupID:     groupID,
		Topic:       topic,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafkago.FirstOffset,
	})
	defer func() { _ = reader.Close() }()

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				t.Fatalf("timed out waiting for event type %q on topic %q", expectedType, topic)
			}
			continue
		}
		ce, err := kafka.ParseCloudEvent(msg.Value)
		if err != nil {
			continue
		}
		if ce.Type == expectedType {
			return ce
		}
	}
}

// waitForRoutes polls the planner until it holds n routes.
func waitForRoutes(t *testing.T, planner *application.PlannerService, n int, timeout time.Duration) []application.RouteDTO {
	t.Helper()
	var result []application.RouteDTO
	require.Eventually(t, func() bool {
		routes, err := planner.ListRoutes(context.Background())
		if err != nil || len(routes) != n {
			return false
		}
		result = routes
		return true
	}, timeout, 200*time.Millisecond, "planner did not reach %d routes", n)
	return result
}
