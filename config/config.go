package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server         ServerConfig
	Postgres       PostgresConfig
	Redis          RedisConfig
	NATS           NATSConfig
	RateLimiter    RateLimiterConfig
	CircuitBreaker CircuitBreakerConfig
	Bulkhead       BulkheadConfig
	Pricing        PricingConfig
	Order          OrderConfig
	Tracking       TrackingConfig
	Catalog        CatalogConfig
}

type ServerConfig struct {
	Port            int
	ShutdownTimeout time.Duration
}

type PostgresConfig struct {
	URL      string // DATABASE_URL takes precedence if set
	Host     string
	Port     int
	User     string
	Password string
	DB       string
	SSLMode  string
}

type RedisConfig struct {
	URL      string // REDIS_URL takes precedence if set
	Host     string
	Port     int
	Password string
	DB       int
}

type NATSConfig struct {
	URL     string // empty disables event publishing
	Subject string
}

type RateLimiterConfig struct {
	MaxRequests   int
	WindowSeconds int
}

type CircuitBreakerConfig struct {
	FailureThreshold int
	CooldownSeconds  int
}

type BulkheadConfig struct {
	MutationPool int
	AdminPool    int
}

type PricingConfig struct {
	BaseFare      float64
	HomePickupFee float64
}

type OrderConfig struct {
	MinLeadTime time.Duration
}

type TrackingConfig struct {
	Steps        int
	TickInterval time.Duration
}

type CatalogConfig struct {
	CacheTTLSec       int
	IdempotencyTTLSec int
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	s := os.Getenv(key)
	if s == "" {
		return fallback
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return v
}

func getenvFloat(key string, fallback float64) float64 {
	s := os.Getenv(key)
	if s == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fallback
	}
	return v
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:            getenvInt("PORT", getenvInt("SERVER_PORT", 8080)),
			ShutdownTimeout: time.Duration(getenvInt("SHUTDOWN_TIMEOUT_SECONDS", 5)) * time.Second,
		},
		Postgres: PostgresConfig{
			URL:      getenv("DATABASE_URL", ""),
			Host:     getenv("POSTGRES_HOST", "localhost"),
			Port:     getenvInt("POSTGRES_PORT", 5432),
			User:     getenv("POSTGRES_USER", "skyparcel_admin"),
			Password: getenv("POSTGRES_PASSWORD", "secure_password"),
			DB:       getenv("POSTGRES_DB", "skyparcel"),
			SSLMode:  getenv("POSTGRES_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			URL:      getenv("REDIS_URL", ""),
			Host:     getenv("REDIS_HOST", "localhost"),
			Port:     getenvInt("REDIS_PORT", 6379),
			Password: getenv("REDIS_PASSWORD", ""),
			DB:       getenvInt("REDIS_DB", 0),
		},
		NATS: NATSConfig{
			URL:     getenv("NATS_URL", ""),
			Subject: getenv("NATS_SUBJECT", "skyparcel.orders"),
		},
		RateLimiter: RateLimiterConfig{
			MaxRequests:   getenvInt("RATE_LIMIT_MAX_REQUESTS", 100),
			WindowSeconds: getenvInt("RATE_LIMIT_WINDOW_SECONDS", 60),
		},
		CircuitBreaker: CircuitBreakerConfig{
			FailureThreshold: getenvInt("CB_FAILURE_THRESHOLD", 5),
			CooldownSeconds:  getenvInt("CB_COOLDOWN_SECONDS", 30),
		},
		Bulkhead: BulkheadConfig{
			MutationPool: getenvInt("BULKHEAD_MUTATION_POOL", 50),
			AdminPool:    getenvInt("BULKHEAD_ADMIN_POOL", 20),
		},
		Pricing: PricingConfig{
			BaseFare:      getenvFloat("PRICING_BASE_FARE", 50),
			HomePickupFee: getenvFloat("PRICING_HOME_PICKUP_FEE", 100),
		},
		Order: OrderConfig{
			MinLeadTime: time.Duration(getenvInt("ORDER_MIN_LEAD_MINUTES", 30)) * time.Minute,
		},
		Tracking: TrackingConfig{
			Steps:        getenvInt("TRACKING_STEPS", 25),
			TickInterval: time.Duration(getenvInt("TRACKING_TICK_INTERVAL_MS", 2000)) * time.Millisecond,
		},
		Catalog: CatalogConfig{
			CacheTTLSec:       getenvInt("CATALOG_CACHE_TTL_SECONDS", 60),
			IdempotencyTTLSec: getenvInt("IDEMPOTENCY_TTL_SECONDS", 300),
		},
	}

	return cfg, nil
}

func (p PostgresConfig) DSN() string {
	if p.URL != "" {
		return p.URL
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.DB, p.SSLMode)
}

func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}
