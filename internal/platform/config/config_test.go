package config_test

import (
	"testing"
	"time"

	"channeldirector/internal/platform/config"
)

func TestLoadDefaults(t *testing.T) {
	for _, name := range []string{
		"SERVICE_NAME", "HTTP_PORT", "POSTGRES_DSN", "AUTOMATION_SEED_FILE",
		"DISPATCH_INTERVAL", "DISPATCH_BATCH_SIZE", "OUTBOX_BATCH_SIZE",
		"ENABLE_SCHEDULE_DISPATCH", "ENABLE_OUTBOX_RELAY",
	} {
		t.Setenv(name, "")
	}

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.ServiceName != "channeldirector" || cfg.HTTPPort != "8080" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.DispatchInterval != 15*time.Second {
		t.Fatalf("expected 15s dispatch interval, got %v", cfg.DispatchInterval)
	}
	if cfg.DispatchBatchSize != 100 || cfg.OutboxBatchSize != 100 {
		t.Fatalf("unexpected batch defaults: %+v", cfg)
	}
	if !cfg.EnableScheduleDispatch || !cfg.EnableOutboxRelay {
		t.Fatalf("workers default on: %+v", cfg)
	}
}

func TestLoadHonorsOverrides(t *testing.T) {
	t.Setenv("SERVICE_NAME", "channeldirector-staging")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DISPATCH_INTERVAL", "1m")
	t.Setenv("DISPATCH_BATCH_SIZE", "25")
	t.Setenv("ENABLE_OUTBOX_RELAY", "off")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.ServiceName != "channeldirector-staging" || cfg.HTTPPort != "9090" {
		t.Fatalf("string overrides ignored: %+v", cfg)
	}
	if cfg.DispatchInterval != time.Minute || cfg.DispatchBatchSize != 25 {
		t.Fatalf("numeric overrides ignored: %+v", cfg)
	}
	if cfg.EnableOutboxRelay {
		t.Fatalf("expected outbox relay disabled")
	}
}

func TestLoadFallsBackOnGarbage(t *testing.T) {
	t.Setenv("DISPATCH_INTERVAL", "soon")
	t.Setenv("DISPATCH_BATCH_SIZE", "-3")
	t.Setenv("ENABLE_SCHEDULE_DISPATCH", "maybe")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.DispatchInterval != 15*time.Second || cfg.DispatchBatchSize != 100 {
		t.Fatalf("garbage values must fall back: %+v", cfg)
	}
	if !cfg.EnableScheduleDispatch {
		t.Fatalf("unparseable booleans keep their default")
	}
}
