package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/target/placesmap/config"
	"github.com/target/placesmap/internal/observability/metrics"
	"github.com/target/placesmap/internal/observability/statsd"
	"github.com/target/placesmap/internal/service"
)

const shutdownWaitTimeout = 10 * time.Second

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Auth          *service.AuthService // nil when sessions cannot be stored
	Places        *service.PlaceService
	Routing       *service.RoutingService
	Dashboard     *service.DashboardService
	Observability ObservabilityContainer
}

// ObservabilityContainer groups shared observability dependencies.
type ObservabilityContainer struct {
	Metrics       *metrics.Collector // nil when METRICS_ENABLED=false
	MetricsSink   *statsd.Client
	MetricsConfig config.ObservabilityMetricsConfig
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB // nil unless PLACES_BACKEND=postgres
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
	// Registerer overrides the global Prometheus registry (tests).
	Registerer prometheus.Registerer
}

// buildObservability configures the Prometheus collector and its StatsD mirror.
func buildObservability(logger *slog.Logger, cfg config.ObservabilityConfig, reg prometheus.Registerer) (ObservabilityContainer, error) {
	out := ObservabilityContainer{MetricsConfig: cfg.Metrics}
	if !cfg.Metrics.Enabled {
		return out, nil
	}

	if cfg.Metrics.StatsdActive() {
		client, err := statsd.NewClient(statsd.Config{
			Enabled: true,
			Address: cfg.Metrics.StatsdAddress,
			Prefix:  cfg.Metrics.Namespace,
			Logger:  logger,
		})
		if err != nil {
			logger.Error("failed to initialise statsd client", "error", err)
		} else {
			out.MetricsSink = client
		}
	}

	opts := metrics.Options{Namespace: cfg.Metrics.Namespace, Registerer: reg}
	if out.MetricsSink != nil {
		opts.Sink = out.MetricsSink
	}
	collector, err := metrics.NewCollector(opts)
	if err != nil {
		return out, fmt.Errorf("register metrics: %w", err)
	}
	out.Metrics = collector
	return out, nil
}

// NewServices builds adapters and services from configuration. Business
// rules live in the services; this only wires them.
func NewServices(deps *ServiceDeps) (*ServiceContainer, error) {
	if deps == nil || deps.Config == nil {
		return nil, errors.New("service deps with config are required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := deps.Config

	obs, err := buildObservability(logger, cfg.Observability, deps.Registerer)
	if err != nil {
		return nil, err
	}

	adapterDeps := AdapterDeps{
		Config:      cfg,
		DB:          deps.DB,
		RedisClient: deps.RedisClient,
		Metrics:     obs.Metrics,
		Logger:      logger,
	}
	sb := BuildSupabaseClient(adapterDeps)
	geocoder, router := BuildRoutingProviders(adapterDeps)

	places := service.NewPlaceService(service.PlaceServiceOptions{
		Repo:    BuildPlaceRepository(adapterDeps, sb),
		Metrics: obs.Metrics,
	})
	routing := service.NewRoutingService(service.RoutingServiceOptions{
		Providers: service.RoutingProviders{Geocoder: geocoder, Router: router},
		Cache: service.GeocodeCacheOptions{
			Store: BuildGeocodeCache(adapterDeps),
			TTL:   cfg.Cache.GeocodeTTL,
		},
		Logger: logger,
	})

	return &ServiceContainer{
		Auth: BuildAuthService(AuthConfig{
			Auth:        cfg.Auth,
			Supabase:    cfg.Supabase,
			Client:      sb,
			RedisClient: deps.RedisClient,
			Logger:      logger,
		}),
		Places:  places,
		Routing: routing,
		Dashboard: service.NewDashboardService(service.DashboardServiceOptions{
			Places:  places,
			Routing: routing,
			Logger:  logger,
		}),
		Observability: obs,
	}, nil
}

// ServiceOrchestrationConfig contains everything needed to serve until shutdown.
type ServiceOrchestrationConfig struct {
	Config      *config.AppConfig
	Services    *ServiceContainer
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// RunServicesWithShutdown serves HTTP until SIGINT/SIGTERM or a server
// failure, then drains in-flight requests.
func RunServicesWithShutdown(ctx context.Context, cfg *ServiceOrchestrationConfig) error {
	if cfg == nil || cfg.Config == nil || cfg.Services == nil {
		return errors.New("service orchestration config is incomplete")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := NewHTTPServer(&HTTPServerConfig{
		Config:      cfg.Config,
		Services:    cfg.Services,
		DB:          cfg.DB,
		RedisClient: cfg.RedisClient,
		Logger:      logger,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down services...")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), shutdownWaitTimeout)
		defer cancel()
		return ShutdownHTTPServer(ShutdownConfig{Context: shutdownCtx, Server: server, Logger: logger})
	})

	err := g.Wait()
	if sink := cfg.Services.Observability.MetricsSink; sink != nil {
		if cerr := sink.Close(); cerr != nil {
			logger.Warn("close statsd client failed", "error", cerr)
		}
	}
	return err
}
