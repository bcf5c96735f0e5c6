// Package config builds runtime configuration from environment variables so
// main stays lean. Every knob has a development default; production overrides
// via env.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config aggregates all runtime configuration.
type Config struct {
	Server   Server
	Postgres Postgres
	Redis    Redis
	Kafka    Kafka
	JWT      JWT
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	ShutdownTimeout time.Duration
}

// Postgres captures the ledger database connection settings. An empty DSN
// selects the in-memory stores (dev and test mode).
type Postgres struct {
	DSN          string
	MaxOpenConns int
	MaxIdleConns int
}

// Redis captures the leaderboard cache settings. An empty URL disables the
// cache.
type Redis struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	CacheTTL     time.Duration
}

// Kafka captures the registration event stream settings. Empty brokers
// disable publishing.
type Kafka struct {
	Brokers []string
	Topic   string
}

// JWT captures session token settings.
type JWT struct {
	SigningKey string
	TTL        time.Duration
}

// FromEnv builds a Config from environment variables.
func FromEnv() Config {
	return Config{
		Server: Server{
			Addr:            envOr("CAMPUSCONNECT_ADDR", ":8080"),
			ShutdownTimeout: envDuration("CAMPUSCONNECT_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Postgres: Postgres{
			DSN:          os.Getenv("CAMPUSCONNECT_POSTGRES_DSN"),
			MaxOpenConns: envInt("CAMPUSCONNECT_POSTGRES_MAX_OPEN", 20),
			MaxIdleConns: envInt("CAMPUSCONNECT_POSTGRES_MAX_IDLE", 5),
		},
		Redis: Redis{
			URL:          os.Getenv("CAMPUSCONNECT_REDIS_URL"),
			PoolSize:     envInt("CAMPUSCONNECT_REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("CAMPUSCONNECT_REDIS_MIN_IDLE", 2),
			DialTimeout:  envDuration("CAMPUSCONNECT_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("CAMPUSCONNECT_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("CAMPUSCONNECT_REDIS_WRITE_TIMEOUT", 3*time.Second),
			CacheTTL:     envDuration("CAMPUSCONNECT_LEADERBOARD_CACHE_TTL", 30*time.Second),
		},
		Kafka: Kafka{
			Brokers: splitNonEmpty(os.Getenv("CAMPUSCONNECT_KAFKA_BROKERS")),
			Topic:   envOr("CAMPUSCONNECT_KAFKA_TOPIC", "campusconnect.registrations"),
		},
		JWT: JWT{
			// Dev default; must be overridden in production.
			SigningKey: envOr("CAMPUSCONNECT_JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
			TTL:        envDuration("CAMPUSCONNECT_JWT_TTL", 24*time.Hour),
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func splitNonEmpty(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
