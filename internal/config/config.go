package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type DatabaseConfig struct {
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	User     string `env:"DB_USER" envDefault:"postgres"`
	Password string `env:"DB_PASSWORD"`
	Name     string `env:"DB_NAME" envDefault:"timeclock"`
	Port     string `env:"DB_PORT" envDefault:"5432"`
	SSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`
	Retries  int    `env:"DB_CONNECT_RETRIES" envDefault:"5"`
}

type GeoConfig struct {
	LookupURL string        `env:"GEO_LOOKUP_URL" envDefault:"https://ipapi.co"`
	Timeout   time.Duration `env:"GEO_TIMEOUT" envDefault:"2s"`
	CacheTTL  time.Duration `env:"GEO_CACHE_TTL" envDefault:"24h"`
}

type MailConfig struct {
	Host     string `env:"SMTP_HOST"`
	Port     int    `env:"SMTP_PORT" envDefault:"587"`
	User     string `env:"SMTP_USER"`
	Password string `env:"SMTP_PASSWORD"`
	From     string `env:"SMTP_FROM" envDefault:"timeclock@localhost"`
}

type ServerConfig struct {
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"15s"`
	IdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

type Config struct {
	Port   string `env:"PORT" envDefault:"3000"`
	AppEnv string `env:"APP_ENV" envDefault:"development"`
	DB     DatabaseConfig
	Geo    GeoConfig
	Mail   MailConfig
	Server ServerConfig

	RedisAddr    string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	KafkaBroker  string `env:"KAFKA_BROKER"`
	KafkaGroupID string `env:"KAFKA_GROUP_ID" envDefault:"timeclock-welcome-mail"`

	JWTSecret      string        `env:"JWT_SECRET,required,notEmpty"`
	AccessTokenTTL time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"12h"`

	// Upper bound for a single store round trip issued by a request.
	StoreTimeout time.Duration `env:"STORE_TIMEOUT" envDefault:"5s"`
	// Day boundaries for reports and stale-session detection.
	ReportTimezone string `env:"REPORT_TIMEZONE" envDefault:"UTC"`

	OutboxPollInterval time.Duration `env:"OUTBOX_POLL_INTERVAL" envDefault:"3s"`
}

func (c Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Location resolves ReportTimezone, defaulting to UTC on unknown names.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.ReportTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Load parses configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
