package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	automationservice "channeldirector/contexts/channel-ops/automation-service"
	postgresadapter "channeldirector/contexts/channel-ops/automation-service/adapters/postgres"
	"channeldirector/contexts/channel-ops/automation-service/adapters/seed"
	"channeldirector/contexts/channel-ops/automation-service/domain/entities"
	"channeldirector/internal/platform/config"
	"channeldirector/internal/platform/db"
	"channeldirector/internal/platform/httpserver"
	"channeldirector/internal/platform/messaging"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	module   automationservice.Module
	postgres *db.Postgres
	cfg      config.Config
	logger   *slog.Logger
}

type WorkerApp struct {
	module   automationservice.Module
	postgres *db.Postgres
	cfg      config.Config
	logger   *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")

	module, postgres, err := buildModule(cfg, logger)
	if err != nil {
		return nil, err
	}

	return &APIApp{
		server:   httpserver.New(module, logger, ":"+cfg.HTTPPort),
		module:   module,
		postgres: postgres,
		cfg:      cfg,
		logger:   logger,
	}, nil
}

// Run serves HTTP. Without a durable store there is no separate worker
// process to share state with, so dispatch and relay run in-process.
func (a *APIApp) Run(ctx context.Context) error {
	if a.postgres == nil {
		go a.runWorkers(ctx)
	}
	return a.server.Start()
}

func (a *APIApp) runWorkers(ctx context.Context) {
	ticker := time.NewTicker(a.cfg.DispatchInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runCycle(ctx, a.module, a.cfg)
		}
	}
}

func (a *APIApp) Close() error {
	return a.postgres.Close()
}

// BuildWorker wires the schedule dispatcher and outbox relay. The worker is a
// separate process and therefore requires the shared postgres store.
func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")

	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required for the worker process")
	}
	module, postgres, err := buildModule(cfg, logger)
	if err != nil {
		return nil, err
	}

	return &WorkerApp{
		module:   module,
		postgres: postgres,
		cfg:      cfg,
		logger:   logger,
	}, nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.cfg.DispatchInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			runCycle(ctx, w.module, w.cfg)
		}
	}
}

func (w *WorkerApp) Close() error {
	return w.postgres.Close()
}

func runCycle(ctx context.Context, module automationservice.Module, cfg config.Config) {
	if cfg.EnableScheduleDispatch {
		_ = module.Dispatcher.RunOnce(ctx)
	}
	if cfg.EnableOutboxRelay {
		_ = module.Relay.RunOnce(ctx)
	}
}

func buildModule(cfg config.Config, logger *slog.Logger) (automationservice.Module, *db.Postgres, error) {
	bus, err := messaging.NewKafka(nil, logger)
	if err != nil {
		return automationservice.Module{}, nil, err
	}

	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		var seedAutomations []entities.Automation
		if strings.TrimSpace(cfg.SeedFile) != "" {
			seedAutomations, err = seed.LoadFile(cfg.SeedFile, time.Now().UTC())
			if err != nil {
				return automationservice.Module{}, nil, err
			}
		}
		return automationservice.NewInMemoryModule(seedAutomations, bus, logger), nil, nil
	}

	postgres, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return automationservice.Module{}, nil, err
	}
	repository := postgresadapter.NewRepository(postgres.DB, logger)
	module := automationservice.NewModule(automationservice.Dependencies{
		Automations:    repository,
		Runs:           repository,
		Due:            repository,
		Outbox:         repository,
		OutboxRead:     repository,
		Publisher:      bus,
		Clock:          postgresadapter.SystemClock{},
		IDGenerator:    postgresadapter.UUIDGenerator{},
		BatchSize:      cfg.DispatchBatchSize,
		RelayBatchSize: cfg.OutboxBatchSize,
		Logger:         logger,
	})
	return module, postgres, nil
}
