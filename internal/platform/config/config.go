// Package config loads process configuration from the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	platformstrings "wardaudit/pkg/platform/strings"
)

// Config is the root configuration for the wardaudit process.
type Config struct {
	Environment string `env:"WARDAUDIT_ENV" envDefault:"dev"`
	LogLevel    string `env:"WARDAUDIT_LOG_LEVEL" envDefault:"info"`
	// PolicyFile optionally points at a YAML criteria policy. Defaults apply when empty.
	PolicyFile string `env:"WARDAUDIT_POLICY_FILE"`
	// SeedDemo loads the demo ward data into the in-memory fact stores.
	SeedDemo bool `env:"WARDAUDIT_SEED_DEMO" envDefault:"false"`

	Server   Server
	Auth     Auth
	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Refresh  RefreshConfig
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr              string        `env:"WARDAUDIT_ADDR" envDefault:":8080"`
	ReadHeaderTimeout time.Duration `env:"WARDAUDIT_READ_HEADER_TIMEOUT" envDefault:"5s"`
	RequestTimeout    time.Duration `env:"WARDAUDIT_REQUEST_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout   time.Duration `env:"WARDAUDIT_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Auth configures actor token validation and operator access.
type Auth struct {
	JWTSigningKey string   `env:"JWT_SIGNING_KEY" envDefault:"dev-secret-key-change-in-production"`
	JWTIssuer     string   `env:"JWT_ISSUER" envDefault:"membership-system"`
	JWTAudience   string   `env:"JWT_AUDIENCE" envDefault:"ward-audit"`
	ApproverRoles []string `env:"WARDAUDIT_APPROVER_ROLES" envSeparator:"," envDefault:"national_secretary,provincial_secretary"`
	AdminAPIToken string   `env:"ADMIN_API_TOKEN"`
}

// DatabaseConfig configures the Postgres connection. An empty URL selects in-memory stores.
type DatabaseConfig struct {
	URL             string        `env:"DATABASE_URL"`
	MaxOpenConns    int           `env:"DATABASE_MAX_OPEN_CONNS" envDefault:"20"`
	MaxIdleConns    int           `env:"DATABASE_MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"DATABASE_CONN_MAX_LIFETIME" envDefault:"30m"`
	MigrateOnStart  bool          `env:"DATABASE_MIGRATE_ON_START" envDefault:"true"`
}

// RedisConfig configures the optional Redis client used for distributed ward locks.
type RedisConfig struct {
	URL          string        `env:"REDIS_URL"`
	PoolSize     int           `env:"REDIS_POOL_SIZE" envDefault:"10"`
	MinIdleConns int           `env:"REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	DialTimeout  time.Duration `env:"REDIS_DIAL_TIMEOUT" envDefault:"5s"`
	ReadTimeout  time.Duration `env:"REDIS_READ_TIMEOUT" envDefault:"3s"`
	WriteTimeout time.Duration `env:"REDIS_WRITE_TIMEOUT" envDefault:"3s"`
	LockTTL      time.Duration `env:"REDIS_LOCK_TTL" envDefault:"30s"`
}

// KafkaConfig configures the audit outbox relay. No brokers disables publishing.
type KafkaConfig struct {
	Brokers        []string      `env:"KAFKA_BROKERS" envSeparator:","`
	Topic          string        `env:"KAFKA_AUDIT_TOPIC" envDefault:"ward-audit.approvals"`
	ClientID       string        `env:"KAFKA_CLIENT_ID" envDefault:"wardaudit"`
	ConsumerGroup  string        `env:"KAFKA_AUDIT_CONSUMER_GROUP" envDefault:"wardaudit-audit-log"`
	Partitions     int32         `env:"KAFKA_AUDIT_TOPIC_PARTITIONS" envDefault:"3"`
	RelayInterval  time.Duration `env:"OUTBOX_RELAY_INTERVAL" envDefault:"2s"`
	RelayBatchSize int           `env:"OUTBOX_RELAY_BATCH_SIZE" envDefault:"100"`
}

// RefreshConfig controls the snapshot refresh scheduler.
type RefreshConfig struct {
	Interval    time.Duration `env:"WARDAUDIT_REFRESH_INTERVAL" envDefault:"15m"`
	Concurrency int           `env:"WARDAUDIT_REFRESH_CONCURRENCY" envDefault:"8"`
	WardTimeout time.Duration `env:"WARDAUDIT_REFRESH_WARD_TIMEOUT" envDefault:"30s"`
}

// IsProduction reports whether the process runs with production settings.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "prod") || strings.EqualFold(c.Environment, "production")
}

// FromEnv builds the configuration from environment variables so main stays lean.
func FromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.Auth.ApproverRoles = platformstrings.NormalizeSet(cfg.Auth.ApproverRoles)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the process cannot run with.
func (c Config) Validate() error {
	if c.Refresh.Interval <= 0 {
		return fmt.Errorf("refresh interval must be positive, got %s", c.Refresh.Interval)
	}
	if c.Refresh.Concurrency <= 0 {
		return fmt.Errorf("refresh concurrency must be positive, got %d", c.Refresh.Concurrency)
	}
	if c.Redis.URL != "" && c.Redis.LockTTL <= 0 {
		return fmt.Errorf("redis lock ttl must be positive, got %s", c.Redis.LockTTL)
	}
	if len(c.Auth.ApproverRoles) == 0 {
		return fmt.Errorf("at least one approver role is required")
	}
	if c.IsProduction() {
		if c.Auth.JWTSigningKey == "dev-secret-key-change-in-production" {
			return fmt.Errorf("JWT_SIGNING_KEY must be set in production")
		}
		if c.Database.URL == "" {
			return fmt.Errorf("DATABASE_URL must be set in production")
		}
	}
	return nil
}
