package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	programengine "confhub/contexts/conference-program/program-engine"
	messagingadapter "confhub/contexts/conference-program/program-engine/adapters/messaging"
	natsadapter "confhub/contexts/conference-program/program-engine/adapters/nats"
	postgresadapter "confhub/contexts/conference-program/program-engine/adapters/postgres"
	prometheusadapter "confhub/contexts/conference-program/program-engine/adapters/prometheus"
	"confhub/contexts/conference-program/program-engine/ports"
	"confhub/internal/platform/config"
	"confhub/internal/platform/db"
	"confhub/internal/platform/httpserver"
	"confhub/internal/platform/messaging"
	"confhub/internal/shared/events"

	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

// Engine is the wired program engine shared by the API process and programctl.
type Engine struct {
	Module     programengine.Module
	Repository *postgresadapter.Repository
	Registry   *prometheus.Registry

	postgres *db.Postgres
	nats     *nats.Conn
	cancel   context.CancelFunc
	logger   *slog.Logger
}

type APIApp struct {
	engine *Engine
	server *httpserver.Server
	logger *slog.Logger
}

func BuildEngine(ctx context.Context, cfg config.Config, process string) (*Engine, error) {
	logger := slog.Default().With("service", cfg.ServiceName, "process", process)
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	repo := postgresadapter.NewRepository(pg.DB, logger)
	if cfg.EnableAutoMigrate {
		if err := repo.Migrate(ctx); err != nil {
			_ = pg.Close()
			return nil, err
		}
	}

	engine := &Engine{
		Repository: repo,
		postgres:   pg,
		logger:     logger,
	}

	notifier, err := engine.buildNotifier(ctx, cfg)
	if err != nil {
		_ = engine.Close()
		return nil, err
	}

	var metrics ports.Metrics
	if cfg.EnableMetrics {
		registry := prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		programMetrics, err := prometheusadapter.NewMetrics(registry, "")
		if err != nil {
			_ = engine.Close()
			return nil, fmt.Errorf("register program metrics: %w", err)
		}
		engine.Registry = registry
		metrics = programMetrics
	}

	engine.Module = programengine.NewModule(programengine.Dependencies{
		Repository: repo,
		Notifier:   notifier,
		Metrics:    metrics,
		Clock:      postgresadapter.SystemClock{},
		IDGen:      postgresadapter.UUIDGenerator{},
		Logger:     logger,
	})
	return engine, nil
}

// buildNotifier publishes to NATS when NATS_URL is set. Otherwise
// notifications go to the in-process bus, drained by a logging subscriber.
func (e *Engine) buildNotifier(ctx context.Context, cfg config.Config) (ports.Notifier, error) {
	if cfg.NATSURL != "" {
		conn, err := nats.Connect(cfg.NATSURL,
			nats.Name(cfg.ServiceName),
			nats.Timeout(2*time.Second),
			nats.MaxReconnects(-1),
		)
		if err != nil {
			return nil, fmt.Errorf("connect nats: %w", err)
		}
		e.nats = conn
		return natsadapter.NewNotifier(conn, cfg.NotificationSubject, e.logger), nil
	}

	busCtx, cancel := context.WithCancel(ctx)
	e.cancel = cancel
	bus := messaging.NewBus(e.logger)
	bus.Subscribe(busCtx, messagingadapter.NotificationTopic, func(_ context.Context, envelope events.Envelope) error {
		e.logger.Info("notification delivered",
			"event", "program_notification_delivered",
			"module", "internal/app/bootstrap",
			"layer", "platform",
			"event_id", envelope.EventID,
			"user_id", envelope.EntityID,
		)
		return nil
	})
	return messagingadapter.Notifier{
		Publisher: bus,
		Topic:     messagingadapter.NotificationTopic,
		Logger:    e.logger,
	}, nil
}

func (e *Engine) Health(ctx context.Context) error {
	if err := e.postgres.Ping(ctx); err != nil {
		return err
	}
	if e.nats != nil && !e.nats.IsConnected() {
		return errors.New("nats is not connected")
	}
	return nil
}

func (e *Engine) Close() error {
	if e.cancel != nil {
		e.cancel()
	}
	if e.nats != nil {
		if err := e.nats.Drain(); err != nil {
			e.nats.Close()
		}
	}
	if e.postgres != nil {
		return e.postgres.Close()
	}
	return nil
}

func BuildAPI(ctx context.Context) (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	engine, err := BuildEngine(ctx, cfg, "api")
	if err != nil {
		return nil, err
	}

	var metricsHandler http.Handler
	if engine.Registry != nil {
		metricsHandler = promhttp.HandlerFor(engine.Registry, promhttp.HandlerOpts{})
	}
	server := httpserver.New(engine.Module, metricsHandler, engine.Health, engine.logger, normalizeAddr(cfg.HTTPPort))
	return &APIApp{
		engine: engine,
		server: server,
		logger: engine.logger,
	}, nil
}

func (a *APIApp) Run(ctx context.Context) error {
	a.logger.Info("api app started",
		"event", "bootstrap_api_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
	)
	return a.server.Run(ctx)
}

func (a *APIApp) Close() error {
	if a.engine != nil {
		return a.engine.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
