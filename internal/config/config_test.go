package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Port)
	assert.Equal(t, "development", cfg.AppEnv)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, TransportChannel, cfg.Bridge.Transport)
	assert.Equal(t, 10*time.Second, cfg.Bridge.Timeout)
	assert.Equal(t, "postalAccUpdated.csv", cfg.OverlaySource)
	assert.Equal(t, DirectoryNone, cfg.PostalDirectory)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaConfig.Brokers)
	assert.Equal(t, "route.requests", cfg.KafkaConfig.RequestTopic)
	assert.Equal(t, "route.details", cfg.KafkaConfig.ResponseTopic)
	assert.Equal(t, "5432", cfg.DBConfig.Port)
	assert.Empty(t, cfg.AllowedOrigins)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PLANNER_PORT", "9090")
	t.Setenv("PLANNER_BRIDGE_TRANSPORT", "Kafka")
	t.Setenv("PLANNER_BRIDGE_TIMEOUT", "3s")
	t.Setenv("PLANNER_KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092")
	t.Setenv("PLANNER_POSTAL_DIRECTORY", "postgres")
	t.Setenv("PLANNER_DB_NAME", "routes")
	t.Setenv("PLANNER_CORS_ORIGINS", "http://localhost:5173")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Port)
	assert.Equal(t, TransportKafka, cfg.Bridge.Transport)
	assert.Equal(t, 3*time.Second, cfg.Bridge.Timeout)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaConfig.Brokers)
	assert.Equal(t, DirectoryPostgres, cfg.PostalDirectory)
	assert.Equal(t, "routes", cfg.DBConfig.DBName)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.AllowedOrigins)
}

func TestLoad_InvalidSettings(t *testing.T) {
	t.Chdir(t.TempDir())

	t.Run("webhook without url", func(t *testing.T) {
		t.Setenv("PLANNER_BRIDGE_TRANSPORT", "webhook")
		_, err := Load()
		assert.ErrorContains(t, err, "BRIDGE_BACKEND_URL")
	})

	t.Run("unknown transport", func(t *testing.T) {
		t.Setenv("PLANNER_BRIDGE_TRANSPORT", "carrier-pigeon")
		_, err := Load()
		assert.ErrorContains(t, err, "unknown bridge transport")
	})

	t.Run("unknown directory", func(t *testing.T) {
		t.Setenv("PLANNER_POSTAL_DIRECTORY", "ldap")
		_, err := Load()
		assert.ErrorContains(t, err, "unknown postal directory")
	})
}
