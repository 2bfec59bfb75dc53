package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures process-level configuration so main stays lean. Empty URLs
// mean the corresponding backend is not wired in.
type Config struct {
	Addr          string
	JWTSigningKey string
	JWTIssuer     string
	TokenTTL      time.Duration

	Redis    RedisConfig
	Postgres PostgresConfig
	Kafka    KafkaConfig

	Warehouse WarehouseConfig

	// Bootstrap admin credentials seeded into the user store when it is empty.
	BootstrapEmail    string
	BootstrapPassword string
}

// RedisConfig configures the activity snapshot cache.
type RedisConfig struct {
	URL          string
	SnapshotKey  string
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// PostgresConfig selects the durable activity store when set.
type PostgresConfig struct {
	DSN string
}

// KafkaConfig enables the audit fan-out sink when brokers are set.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// WarehouseConfig points at the external warehouse API.
type WarehouseConfig struct {
	BaseURL   string
	AuthToken string
	TenantID  string
}

// FromEnv builds the config from environment variables with development
// defaults.
func FromEnv() Config {
	cfg := Config{
		Addr:          getenv("OPSDESK_ADDR", ":8080"),
		JWTSigningKey: getenv("OPSDESK_JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		JWTIssuer:     getenv("OPSDESK_JWT_ISSUER", "opsdesk"),
		TokenTTL:      getduration("OPSDESK_TOKEN_TTL", time.Hour),
		Redis: RedisConfig{
			URL:          os.Getenv("OPSDESK_REDIS_URL"),
			SnapshotKey:  getenv("OPSDESK_ACTIVITY_SNAPSHOT_KEY", "opsdesk:activity-log"),
			DialTimeout:  getduration("OPSDESK_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getduration("OPSDESK_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getduration("OPSDESK_REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Postgres: PostgresConfig{
			DSN: os.Getenv("OPSDESK_POSTGRES_DSN"),
		},
		Kafka: KafkaConfig{
			Brokers: splitNonEmpty(os.Getenv("OPSDESK_KAFKA_BROKERS")),
			Topic:   getenv("OPSDESK_KAFKA_TOPIC", "opsdesk.activity"),
		},
		Warehouse: WarehouseConfig{
			BaseURL:   os.Getenv("OPSDESK_WAREHOUSE_API_URL"),
			AuthToken: os.Getenv("OPSDESK_WAREHOUSE_API_TOKEN"),
			TenantID:  os.Getenv("OPSDESK_WAREHOUSE_TENANT_ID"),
		},
		BootstrapEmail:    getenv("OPSDESK_BOOTSTRAP_EMAIL", "admin@opsdesk.local"),
		BootstrapPassword: os.Getenv("OPSDESK_BOOTSTRAP_PASSWORD"),
	}
	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getduration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}

func splitNonEmpty(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
