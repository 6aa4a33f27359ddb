package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/okian/reviewlens/internal/adapters/http/api"
	"github.com/okian/reviewlens/internal/adapters/http/stream"
	"github.com/okian/reviewlens/internal/adapters/http/swagger"
	"github.com/okian/reviewlens/internal/adapters/notify"
	app "github.com/okian/reviewlens/internal/app"
	"github.com/okian/reviewlens/internal/config"
	"github.com/okian/reviewlens/pkg/logger"
	"github.com/okian/reviewlens/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout           = 10 * time.Second
	writeTimeout          = 30 * time.Second
	idleTimeout           = 60 * time.Second
	readHeaderTimeout     = 5 * time.Second
	shutdownTimeout       = 30 * time.Second
	systemMetricsInterval = 10 * time.Second
)

// application bundles the long-lived components built from configuration.
type application struct {
	svc     *app.Service
	hub     *stream.Hub
	handler http.Handler
	nc      *nats.Conn
}

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> .env -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		// Use stderr for initialization errors since logger isn't available yet
		_, _ = os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.InitWithOptions(logger.Options{Format: cfg.LogFormat, Level: cfg.LogLevel}); err != nil {
		_, _ = os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(ctx, cfg); err != nil {
		logger.Get().Error(ctx, "service failed", logger.Error(err))
		os.Exit(1)
	}
}

// run serves the dashboard API until ctx is done.
func run(ctx context.Context, cfg *config.Config) error {
	log := logger.Get()

	a, err := newApplication(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.svc.Start(ctx); err != nil {
		return err
	}

	go metrics.StartSystemCollector(ctx, systemMetricsInterval)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           a.handler,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// Wait for shutdown signal or a listener failure
	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			return err
		}
	}
	log.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}
	if err := a.svc.Stop(shutdownCtx); err != nil {
		log.Error(ctx, "service shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
	return nil
}

// newApplication wires notifier sinks, the service and the HTTP routes.
func newApplication(ctx context.Context, cfg *config.Config, log logger.Logger) (*application, error) {
	a := &application{}

	feed := notify.NewFeed(cfg.NotificationFeedSize)
	a.hub = stream.NewHub(stream.WithLogger(log.Named("stream")))
	go a.hub.Run(ctx)

	sinks := []notify.Notifier{notify.NewLogNotifier(log.Named("notify")), feed, a.hub}
	if cfg.NATSURL != "" {
		nc, err := notify.Connect(cfg.NATSURL, log.Named("nats"))
		if err != nil {
			return nil, err
		}
		a.nc = nc
		sinks = append(sinks, notify.NewNATSNotifier(nc, cfg.NATSSubject, log.Named("nats")))
	}

	a.svc = app.New(
		app.WithLogger(log.Named("service")),
		app.WithNotifier(notify.Multi(sinks...)),
		app.WithFeed(feed),
		app.WithPageSize(cfg.PageSize),
		app.WithTopLocations(cfg.TopLocations),
		app.WithTopWords(cfg.TopWords),
		app.WithQueueSize(cfg.UploadQueueSize),
		app.WithWorkerCount(cfg.UploadWorkers),
		app.WithUploadDedupe(cfg.DedupeUploads, cfg.DedupeSize),
		app.WithDashboardCache(cfg.CacheDashboard),
	)

	mux := http.NewServeMux()

	// Register API docs under /api-docs and /openapi.yaml
	swagger.Register(ctx, mux)

	// Register business API routes with the service dependency.
	apiServer := api.NewServer(a.svc, a.svc,
		api.WithMaxUploadBytes(cfg.MaxUploadBytes),
		api.WithLogger(log.Named("api")),
	)
	apiServer.Register(ctx, mux)
	mux.HandleFunc("GET /ws", a.hub.HandleWebSocket)

	a.handler = api.WithCORS(mux, cfg.CORSOrigins)
	return a, nil
}

func (a *application) close() {
	if a.nc != nil {
		_ = a.nc.Drain()
	}
}
