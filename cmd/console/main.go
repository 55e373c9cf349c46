package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"labtrack/internal/api"
	"labtrack/internal/config"
	"labtrack/internal/domain"
	"labtrack/internal/events"
	"labtrack/internal/export"
	"labtrack/internal/logging"
	"labtrack/internal/metrics"
	"labtrack/internal/models"
	"labtrack/internal/repository"
	"labtrack/internal/service"
	"labtrack/internal/store"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func() { _ = closer.Close() })()
	}

	loc, err := cfg.App.Location()
	if err != nil {
		return err
	}

	seed, err := loadSeed(cfg, loc, logger)
	if err != nil {
		return err
	}
	st := store.New(seed)

	if cfg.Monitoring.PrometheusEnabled {
		metrics.Register()
	}

	bus := events.NewEventBus()
	bus.SubscribeAll(events.LogSubscriber(logging.Component(logger, "events")))
	bus.SubscribeAll(events.CountSubscriber(metrics.EventsPublished))

	redisClient := initRedis(cfg, logger)
	if redisClient != nil {
		defer redisClient.Close()
	}

	svc := buildServices(cfg, st, bus, redisClient, loc, logger)

	if !cfg.API.Enabled {
		logger.Warn().Msg("API is disabled in config, but starting console application. Check your config.")
	}

	var grpcServer *api.GRPCServer
	if cfg.API.GRPC.Enabled {
		grpcServer, err = api.NewGRPCServer(&cfg.API, svc, logger)
		if err != nil {
			logger.Error().Err(err).Msg("create grpc server")
			return err
		}
	}
	httpServer := api.NewHTTPServer(cfg.API, svc, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startMetrics(ctx, cfg, logger)

	return startServers(ctx, grpcServer, httpServer, cfg, logger)
}

func loadConfigAndLogger() (*config.Config, *zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("init logger: %w", err)
	}

	return cfg, baseLogger, closer, nil
}

func loadSeed(cfg *config.Config, loc *time.Location, logger *zerolog.Logger) (store.Seed, error) {
	seedPath := os.Getenv("SEED_PATH")
	if seedPath == "" {
		seedPath = cfg.Store.SeedFile
	}
	if seedPath == "" {
		logger.Info().Msg("no seed file configured, using demo dataset")
		return store.DefaultSeed(time.Now(), loc), nil
	}

	seed, err := store.LoadSeed(seedPath)
	if err != nil {
		logger.Error().Err(err).Str("seed_path", seedPath).Msg("load seed")
		return store.Seed{}, err
	}
	logger.Info().
		Str("seed_path", seedPath).
		Int("items", len(seed.Items)).
		Int("bookings", len(seed.Bookings)).
		Int("movements", len(seed.Movements)).
		Msg("seed loaded")
	return seed, nil
}

func buildServices(
	cfg *config.Config,
	st *store.Store,
	bus *events.EventBus,
	redisClient *redis.Client,
	loc *time.Location,
	logger *zerolog.Logger,
) api.Services {
	repoOpts := func(latency config.OperationLatency) repository.Options {
		return repository.Options{
			Latency:  latency,
			Catalog:  cfg.Locations.Catalog(),
			Location: loc,
			Logger:   logger,
		}
	}

	inventoryRepo := repository.NewInventoryRepository(st, repoOpts(cfg.Store.Latency.Inventory))
	bookingRepo := repository.NewBookingRepository(st, repoOpts(cfg.Store.Latency.Bookings))
	movementRepo := repository.NewMovementRepository(st, repoOpts(cfg.Store.Latency.Movements))

	var viewStateRepo domain.ViewStateRepository = repository.NewMemoryViewStateRepository(cfg.Sessions.TTL)
	var ready func(ctx context.Context) error
	if redisClient != nil {
		viewStateRepo = repository.NewFailoverViewStateRepository(
			repository.NewRedisViewStateRepository(redisClient, cfg.Sessions.TTL),
			viewStateRepo,
			logging.Component(logger, "view_state"),
		)
		ready = func(ctx context.Context) error {
			return repository.Ping(ctx, redisClient)
		}
	}

	locations := cfg.Locations.Catalog()
	if locations == nil {
		locations = models.LocationCatalog(cfg.Locations.Campuses)
	}

	return api.Services{
		Inventory: service.NewInventoryService(inventoryRepo, bus, logging.Component(logger, "inventory_service")),
		Bookings:  service.NewBookingService(bookingRepo, bus, loc, logging.Component(logger, "booking_service")),
		Movements: service.NewMovementService(movementRepo, inventoryRepo, bus, loc, logging.Component(logger, "movement_service")),
		Dashboard: service.NewDashboardService(inventoryRepo, bookingRepo, logging.Component(logger, "dashboard_service")),
		ViewState: service.NewViewStateService(viewStateRepo, cfg.Sessions, cfg.Locations.Catalog(), logging.Component(logger, "view_state_service")),
		Exporter:  export.NewExporter(inventoryRepo, movementRepo, cfg.Exports, loc, logging.Component(logger, "export")),
		Locations: locations,
		Location:  loc,
		Ready:     ready,
	}
}

func initRedis(cfg *config.Config, logger *zerolog.Logger) *redis.Client {
	if cfg.Redis.Address == "" {
		return nil
	}

	redisClient := repository.NewRedisClient(cfg.Redis)
	if err := repository.Ping(context.Background(), redisClient); err != nil {
		logger.Warn().Err(err).Msg("redis connection failed, view state kept in memory")
		_ = redisClient.Close()
		return nil
	}

	logger.Info().Str("addr", cfg.Redis.Address).Msg("redis connected")
	return redisClient
}

func startMetrics(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) {
	if !cfg.Monitoring.PrometheusEnabled {
		return
	}
	go startMetricsServer(ctx, cfg.Monitoring.PrometheusPort, logger)
}

func startServers(
	ctx context.Context,
	grpcServer *api.GRPCServer,
	httpServer *api.HTTPServer,
	cfg *config.Config,
	logger *zerolog.Logger,
) error {
	if grpcServer != nil {
		go func() {
			if err := grpcServer.Serve(); err != nil {
				logger.Error().Err(err).Msg("grpc server stopped")
			}
		}()
	}

	go func() {
		if !cfg.API.HTTP.Enabled {
			return
		}
		if err := httpServer.Start(); err != nil {
			logger.Error().Err(err).Msg("http server stopped")
		}
	}()

	startLog := logger.Info().Int("http_port", cfg.API.HTTP.Port)
	if grpcServer != nil {
		startLog = startLog.Str("grpc_addr", grpcServer.Addr())
	}
	startLog.Msg("console started")

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if grpcServer != nil {
		grpcServer.Shutdown(shutdownCtx)
	}
	_ = httpServer.Shutdown(shutdownCtx)

	logger.Info().Msg("console stopped")
	return nil
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
