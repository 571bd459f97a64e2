package bootstrap

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/target/placesmap/config"
	httpx "github.com/target/placesmap/internal/http"
)

// HTTPServerConfig contains configuration for HTTP server.
type HTTPServerConfig struct {
	Config      *config.AppConfig
	Services    *ServiceContainer
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// NewHTTPServer builds the server with the full middleware chain. The caller starts it.
func NewHTTPServer(cfg *HTTPServerConfig) *http.Server {
	if cfg == nil {
		return nil
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	appCfg := cfg.Config
	if appCfg == nil {
		appCfg = &config.AppConfig{}
	}
	svc := cfg.Services
	if svc == nil {
		svc = &ServiceContainer{}
	}

	services := httpx.RouterServices{
		Metrics:         svc.Observability.Metrics,
		ReadinessChecks: readinessChecks(cfg.DB, cfg.RedisClient),
		BaseURL:         appCfg.HTTP.BaseURL,
		CookieDomain:    appCfg.HTTP.CookieDomain,
		IsDev:           appCfg.IsDev,
		Logger:          logger,
	}
	// Typed nil pointers must not become non-nil interfaces.
	if svc.Auth != nil {
		services.Auth = svc.Auth
	}
	if svc.Dashboard != nil {
		services.Dashboard = svc.Dashboard
	}
	if svc.Routing != nil {
		services.Routing = svc.Routing
	}
	if svc.Places != nil {
		services.Places = svc.Places
	}

	addr := appCfg.HTTP.Addr
	if addr == "" {
		addr = ":8080"
	}
	return &http.Server{
		Addr: addr,
		Handler: buildHTTPHandler(httpHandlerConfig{
			Logger:   logger,
			Services: services,
			HTTP:     appCfg.HTTP,
		}),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

// readinessChecks pings whichever backing stores are connected.
func readinessChecks(db *sql.DB, rdb redis.UniversalClient) map[string]httpx.HealthCheck {
	checks := make(map[string]httpx.HealthCheck, 2)
	if db != nil {
		checks["database"] = db.PingContext
	}
	if rdb != nil {
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}
	return checks
}

type httpHandlerConfig struct {
	Logger   *slog.Logger
	Services httpx.RouterServices
	HTTP     config.HTTPConfig
}

func buildHTTPHandler(cfg httpHandlerConfig) http.Handler {
	router := httpx.NewRouter(cfg.Services)

	// Order: Recover -> Logging -> Compression -> Router
	h := router
	if cfg.HTTP.CompressionEnabled {
		cfg.Logger.Info("HTTP compression enabled", "level", cfg.HTTP.CompressionLevel)
		h = httpx.Compression(httpx.CompressionConfig{Level: cfg.HTTP.CompressionLevel, Logger: cfg.Logger})(h)
	}

	h = httpx.Logging(cfg.Logger)(h)
	h = httpx.Recover(cfg.Logger)(h)

	return h
}

// ShutdownConfig contains dependencies for HTTP server shutdown.
type ShutdownConfig struct {
	Context context.Context
	Server  *http.Server
	Logger  *slog.Logger
}

// ShutdownHTTPServer gracefully shuts down the HTTP server.
func ShutdownHTTPServer(cfg ShutdownConfig) error {
	if cfg.Server == nil {
		return nil
	}
	ctx := cfg.Context
	if ctx == nil {
		ctx = context.Background()
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("shutting down HTTP server")
	}
	if err := cfg.Server.Shutdown(ctx); err != nil {
		return err
	}
	if cfg.Logger != nil {
		cfg.Logger.Info("HTTP server stopped")
	}
	return nil
}
