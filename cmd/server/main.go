package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/route-planner/service-planner/internal/application"
	"github.com/route-planner/service-planner/internal/bridge"
	"github.com/route-planner/service-planner/internal/config"
	routeDomain "github.com/route-planner/service-planner/internal/domain/route"
	plannerEvents "github.com/route-planner/service-planner/internal/events"
	"github.com/route-planner/service-planner/internal/handler"
	"github.com/route-planner/service-planner/internal/overlay"
	"github.com/route-planner/service-planner/internal/platform/database"
	"github.com/route-planner/service-planner/internal/platform/kafka"
	"github.com/route-planner/service-planner/internal/platform/logger"
	"github.com/route-planner/service-planner/internal/platform/middleware"
	"github.com/route-planner/service-planner/internal/postal"
	"github.com/route-planner/service-planner/internal/render"
	"github.com/route-planner/service-planner/internal/repository"
)

const serviceName = "service-planner"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, serviceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting service-planner",
		zap.String("port", cfg.Port),
		zap.String("bridge", cfg.Bridge.Transport),
		zap.String("postal_directory", cfg.PostalDirectory),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	checks := map[string]handler.HealthCheck{}

	// Initialize postal directory
	directory, db, err := openDirectory(ctx, cfg, log)
	if err != nil {
		log.Fatal("failed to open postal directory", zap.Error(err))
	}
	if db != nil {
		checks["database"] = func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}
	}

	// Initialize event hub, notifications and map
	hub := application.NewEventHub(64, log)
	notifier := application.NewNotificationService(hub, log)
	renderer := render.New(
		render.DefaultViewport(),
		render.TileLayer{URLTemplate: cfg.Map.TileURL, Attribution: cfg.Map.Attribution},
		routeDomain.NewStandardLineStyle(),
	)

	// Initialize overlay service
	overlayService := application.NewOverlayService(
		overlay.NewSource(cfg.OverlaySource, cfg.OverlayTimeout, log),
		renderer,
		notifier,
		hub,
		log,
	)

	// Initialize bridge dispatcher
	var (
		dispatcher bridge.Dispatcher
		channel    *bridge.ChannelBridge
		producer   *kafka.Producer
	)
	switch cfg.Bridge.Transport {
	case config.TransportWebhook:
		dispatcher = bridge.NewWebhookDispatcher(cfg.Bridge.BackendURL, cfg.Bridge.Timeout, log)
	case config.TransportKafka:
		if err := kafka.EnsureTopics(ctx, cfg.KafkaConfig.Brokers, log,
			cfg.KafkaConfig.RequestTopic, cfg.KafkaConfig.ResponseTopic); err != nil {
			log.Fatal("failed to ensure kafka topics", zap.Error(err))
		}
		producer = kafka.NewProducer(cfg.KafkaConfig.Brokers, log)
		defer func() { _ = producer.Close() }()
		dispatcher = plannerEvents.NewRouteRequestPublisher(producer, cfg.KafkaConfig.RequestTopic, log)
	default:
		log.Warn("channel bridge selected; route requests wait for an in-process backend")
		// Unbuffered: a request only succeeds once a backend has taken it.
		channel = bridge.NewChannelBridge(0)
		dispatcher = channel
	}

	// Initialize planner service
	plannerService := application.NewPlannerService(
		repository.NewMemoryRouteRepository(),
		renderer,
		dispatcher,
		notifier,
		hub,
		application.PlannerOptions{
			Directory:       directory,
			Overlay:         overlayService,
			DispatchTimeout: cfg.Bridge.Timeout,
		},
		log,
	)

	// Start route-details delivery
	switch {
	case producer != nil:
		groupID := cfg.KafkaConfig.GroupPrefix + serviceName
		detailsConsumer := plannerEvents.NewRouteDetailsConsumer(
			cfg.KafkaConfig.Brokers,
			groupID,
			cfg.KafkaConfig.ResponseTopic,
			plannerService,
			log,
		)
		defer func() { _ = detailsConsumer.Close() }()

		go func() {
			log.Info("starting route details consumer")
			if err := detailsConsumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("route details consumer error", zap.Error(err))
			}
		}()
	case channel != nil:
		go func() {
			_ = channel.Run(ctx, func(ctx context.Context, payload string) {
				_, _ = plannerService.ReceiveRouteDetails(ctx, payload)
			})
		}()
	}

	// Build the accessibility chart once
	go func() {
		if err := overlayService.LoadDistribution(ctx); err != nil {
			log.Warn("accessibility distribution not loaded", zap.Error(err))
		}
	}()

	// Initialize HTTP handlers
	plannerHandler := handler.NewPlannerHandler(plannerService, notifier)
	bridgeHandler := handler.NewBridgeHandler(plannerService)
	mapHandler := handler.NewMapHandler(renderer)
	overlayHandler := handler.NewOverlayHandler(overlayService)
	eventsHandler := handler.NewEventsHandler(hub, 15*time.Second)

	// Setup Gin router
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.RecoveryMiddleware(log, func(message string) { notifier.Notify(message) }))
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))
	router.Use(middleware.SecurityHeadersMiddleware())

	// Register health check routes
	healthHandler := handler.NewHealthHandler(serviceName, checks)
	healthHandler.RegisterRoutes(router)

	// Register routes
	plannerHandler.RegisterRoutes(&router.RouterGroup)
	bridgeHandler.RegisterRoutes(&router.RouterGroup)
	mapHandler.RegisterRoutes(&router.RouterGroup)
	overlayHandler.RegisterRoutes(&router.RouterGroup)
	eventsHandler.RegisterRoutes(&router.RouterGroup)

	// Serve the map page
	if cfg.StaticDir != "" {
		router.NoRoute(gin.WrapH(http.FileServer(http.Dir(cfg.StaticDir))))
	}

	// Create HTTP server. No write timeout: the event stream stays open.
	srv := &http.Server{
		Addr:              cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down service-planner...")

	// Cancel the consumer context
	cancel()

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info("service-planner stopped")
}

// openDirectory builds the configured postal directory. The returned *gorm.DB
// is non-nil only for the postgres backend.
func openDirectory(ctx context.Context, cfg *config.ServiceConfig, log *zap.Logger) (postal.Directory, *gorm.DB, error) {
	switch cfg.PostalDirectory {
	case config.DirectoryCSV:
		codes, err := readPostalCSV(cfg.PostalCSVPath, log)
		if err != nil {
			return nil, nil, err
		}
		log.Info("postal directory loaded", zap.Int("codes", len(codes)))
		return postal.NewMemoryDirectory(codes), nil, nil

	case config.DirectoryPostgres:
		db, err := database.Connect(cfg.DBConfig, log)
		if err != nil {
			return nil, nil, err
		}
		if err := db.AutoMigrate(&repository.PostalCodeModel{}); err != nil {
			return nil, nil, fmt.Errorf("failed to run auto-migration: %w", err)
		}

		repo := repository.NewGormPostalRepository(db)
		if cfg.SeedPostalCodes {
			codes, err := readPostalCSV(cfg.PostalCSVPath, log)
			if err != nil {
				return nil, nil, err
			}
			if err := repo.Seed(ctx, codes); err != nil {
				return nil, nil, err
			}
			log.Info("postal codes seeded", zap.Int("codes", len(codes)))
		}
		return repo, db, nil

	default:
		return nil, nil, nil
	}
}

func readPostalCSV(path string, log *zap.Logger) ([]postal.Code, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open postal codes: %w", err)
	}
	defer f.Close()
	return postal.ReadCSV(f, log)
}
