package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName string
	HTTPPort    string
	PostgresDSN string
	SeedFile    string

	DispatchInterval  time.Duration
	DispatchBatchSize int
	OutboxBatchSize   int

	EnableScheduleDispatch bool
	EnableOutboxRelay      bool
}

func Load() (Config, error) {
	// Local development keeps overrides in .env; absence is not an error.
	_ = godotenv.Load()

	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "channeldirector"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	return Config{
		ServiceName: service,
		HTTPPort:    port,
		PostgresDSN: os.Getenv("POSTGRES_DSN"),
		SeedFile:    os.Getenv("AUTOMATION_SEED_FILE"),

		DispatchInterval:  envDuration("DISPATCH_INTERVAL", 15*time.Second),
		DispatchBatchSize: envInt("DISPATCH_BATCH_SIZE", 100),
		OutboxBatchSize:   envInt("OUTBOX_BATCH_SIZE", 100),

		EnableScheduleDispatch: envBool("ENABLE_SCHEDULE_DISPATCH", true),
		EnableOutboxRelay:      envBool("ENABLE_OUTBOX_RELAY", true),
	}, nil
}

func envBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return fallback
	}
}

func envInt(name string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func envDuration(name string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}
