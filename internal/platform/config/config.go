package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName         string
	HTTPPort            string
	PostgresDSN         string
	NATSURL             string
	NotificationSubject string

	EnableAutoMigrate bool
	EnableMetrics     bool
}

// Load reads the process environment. Values from a .env file in the working
// directory fill in variables that are not already set.
func Load() (Config, error) {
	return LoadFiles(".env")
}

func LoadFiles(envFiles ...string) (Config, error) {
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, err
		}
	}

	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "confhub"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	subject := strings.TrimSpace(os.Getenv("NOTIFICATION_SUBJECT"))
	if subject == "" {
		subject = "program.notifications"
	}

	return Config{
		ServiceName:         service,
		HTTPPort:            port,
		PostgresDSN:         os.Getenv("POSTGRES_DSN"),
		NATSURL:             strings.TrimSpace(os.Getenv("NATS_URL")),
		NotificationSubject: subject,

		EnableAutoMigrate: envBool("ENABLE_AUTO_MIGRATE", false),
		EnableMetrics:     envBool("ENABLE_METRICS", true),
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
