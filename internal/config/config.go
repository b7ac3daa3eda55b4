package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"dealdesk"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	DB struct {
		Host         string `envconfig:"DB_HOST" default:"localhost"`
		Port         int    `envconfig:"DB_PORT" default:"5432"`
		User         string `envconfig:"DB_USER" default:"postgres"`
		Password     string `envconfig:"DB_PASSWORD" default:""`
		Name         string `envconfig:"DB_NAME" default:"dealdesk"`
		MaxOpenConns int    `envconfig:"DB_MAX_OPEN_CONNS" default:"25"`
	}

	Server struct {
		Timeout        time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		AllowedOrigins []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	}

	Log struct {
		Level string `envconfig:"LOG_LEVEL" default:"info"`
	}

	Telemetry struct {
		Enabled  bool   `envconfig:"OTEL_ENABLED" default:"false"`
		Endpoint string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT" default:"localhost:4317"`
	}

	Auth struct {
		JWTSecret string `envconfig:"JWT_SECRET"`
	}

	// Collaborators are the audit log and activity feed services. An empty
	// URL routes entries to the application log instead.
	Collaborators struct {
		AuditURL       string        `envconfig:"AUDIT_URL"`
		ActivityURL    string        `envconfig:"ACTIVITY_URL"`
		Token          string        `envconfig:"COLLABORATOR_TOKEN"`
		Timeout        time.Duration `envconfig:"COLLABORATOR_TIMEOUT" default:"5s"`
		MaxRetries     int           `envconfig:"COLLABORATOR_MAX_RETRIES" default:"3"`
		InitialBackoff time.Duration `envconfig:"COLLABORATOR_INITIAL_BACKOFF" default:"200ms"`
		FlushTimeout   time.Duration `envconfig:"COLLABORATOR_FLUSH_TIMEOUT" default:"30s"`
	}

	Pipeline struct {
		File     string        `envconfig:"PIPELINE_FILE"`
		CacheTTL time.Duration `envconfig:"STAGE_CACHE_TTL" default:"1m"`
	}

	// TUI configures the terminal deal desk, which acts as a single user.
	TUI struct {
		ActorID string `envconfig:"TUI_ACTOR_ID"`
		LogFile string `envconfig:"TUI_LOG_FILE" default:"dealdesk-tui.log"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

// LoadDotEnv loads variables from the given .env files into the process
// environment without overriding variables already set. Missing files are
// ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}

	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}

	return nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
