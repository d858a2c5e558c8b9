package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/route-planner/service-planner/internal/platform/database"
)

// EnvPrefix is prepended to every environment variable.
const EnvPrefix = "PLANNER"

// Bridge transports.
const (
	TransportChannel = "channel"
	TransportWebhook = "webhook"
	TransportKafka   = "kafka"
)

// Postal directory backends.
const (
	DirectoryNone     = "none"
	DirectoryCSV      = "csv"
	DirectoryPostgres = "postgres"
)

// BridgeConfig selects how route requests reach the backend.
type BridgeConfig struct {
	Transport  string
	BackendURL string
	Timeout    time.Duration
}

// KafkaConfig holds the broker settings of the kafka transport.
type KafkaConfig struct {
	Brokers       []string
	GroupPrefix   string
	RequestTopic  string
	ResponseTopic string
}

// MapConfig holds the tile layer settings.
type MapConfig struct {
	TileURL     string
	Attribution string
}

// ServiceConfig holds all configuration for the planner service.
type ServiceConfig struct {
	Port            string
	AppEnv          string
	StaticDir       string
	AllowedOrigins  []string
	OverlaySource   string
	OverlayTimeout  time.Duration
	PostalDirectory string
	PostalCSVPath   string
	SeedPostalCodes bool
	Bridge          BridgeConfig
	KafkaConfig     KafkaConfig
	DBConfig        database.PostgresConfig
	Map             MapConfig
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", ":8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("STATIC_DIR", "")
	v.SetDefault("CORS_ORIGINS", "")
	v.SetDefault("OVERLAY_SOURCE", "postalAccUpdated.csv")
	v.SetDefault("OVERLAY_TIMEOUT", "30s")
	v.SetDefault("POSTAL_DIRECTORY", DirectoryNone)
	v.SetDefault("POSTAL_CSV_PATH", "postal_codes.csv")
	v.SetDefault("POSTAL_SEED", false)
	v.SetDefault("BRIDGE_TRANSPORT", TransportChannel)
	v.SetDefault("BRIDGE_BACKEND_URL", "")
	v.SetDefault("BRIDGE_TIMEOUT", "10s")
	v.SetDefault("KAFKA_BROKERS", "localhost:9092")
	v.SetDefault("KAFKA_GROUP_PREFIX", "")
	v.SetDefault("KAFKA_REQUEST_TOPIC", "route.requests")
	v.SetDefault("KAFKA_RESPONSE_TOPIC", "route.details")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "planner")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("MAP_TILE_URL", "")
	v.SetDefault("MAP_ATTRIBUTION", "")
}

// Load reads configuration from environment variables. A .env file in the
// working directory is loaded first when present.
func Load() (*ServiceConfig, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &ServiceConfig{
		Port:            v.GetString("PORT"),
		AppEnv:          v.GetString("APP_ENV"),
		StaticDir:       v.GetString("STATIC_DIR"),
		AllowedOrigins:  splitList(v.GetString("CORS_ORIGINS")),
		OverlaySource:   v.GetString("OVERLAY_SOURCE"),
		OverlayTimeout:  v.GetDuration("OVERLAY_TIMEOUT"),
		PostalDirectory: strings.ToLower(v.GetString("POSTAL_DIRECTORY")),
		PostalCSVPath:   v.GetString("POSTAL_CSV_PATH"),
		SeedPostalCodes: v.GetBool("POSTAL_SEED"),
		Bridge: BridgeConfig{
			Transport:  strings.ToLower(v.GetString("BRIDGE_TRANSPORT")),
			BackendURL: v.GetString("BRIDGE_BACKEND_URL"),
			Timeout:    v.GetDuration("BRIDGE_TIMEOUT"),
		},
		KafkaConfig: KafkaConfig{
			Brokers:       splitList(v.GetString("KAFKA_BROKERS")),
			GroupPrefix:   v.GetString("KAFKA_GROUP_PREFIX"),
			RequestTopic:  v.GetString("KAFKA_REQUEST_TOPIC"),
			ResponseTopic: v.GetString("KAFKA_RESPONSE_TOPIC"),
		},
		DBConfig: database.PostgresConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		Map: MapConfig{
			TileURL:     v.GetString("MAP_TILE_URL"),
			Attribution: v.GetString("MAP_ATTRIBUTION"),
		},
	}

	if !strings.Contains(cfg.Port, ":") {
		cfg.Port = ":" + cfg.Port
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings that select a component.
func (c *ServiceConfig) Validate() error {
	switch c.Bridge.Transport {
	case TransportChannel:
	case TransportWebhook:
		if c.Bridge.BackendURL == "" {
			return fmt.Errorf("%s_BRIDGE_BACKEND_URL is required for the webhook transport", EnvPrefix)
		}
	case TransportKafka:
		if len(c.KafkaConfig.Brokers) == 0 {
			return fmt.Errorf("%s_KAFKA_BROKERS is required for the kafka transport", EnvPrefix)
		}
	default:
		return fmt.Errorf("unknown bridge transport %q", c.Bridge.Transport)
	}

	switch c.PostalDirectory {
	case DirectoryNone, DirectoryPostgres:
	case DirectoryCSV:
		if c.PostalCSVPath == "" {
			return fmt.Errorf("%s_POSTAL_CSV_PATH is required for the csv postal directory", EnvPrefix)
		}
	default:
		return fmt.Errorf("unknown postal directory %q", c.PostalDirectory)
	}

	if c.Bridge.Timeout < 0 {
		return fmt.Errorf("%s_BRIDGE_TIMEOUT must not be negative", EnvPrefix)
	}
	return nil
}

// IsDevelopment reports whether the service runs in development mode.
func (c *ServiceConfig) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
