package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/imrishuroy/go-restaurant-orderboard/internal/orders"
)

// Store backends.
const (
	BackendMemory   = "memory"
	BackendDynamoDB = "dynamodb"
	BackendRedis    = "redis"
)

// Worker modes.
const (
	WorkerModeBoard   = "board"   // long-running poller publishing to SQS and CloudWatch
	WorkerModeTickets = "tickets" // Lambda consuming new-order messages
)

// Config holds all application configuration, read from the environment (and .env).
type Config struct {
	StoreBackend     string        `mapstructure:"store_backend"`
	StoreTable       string        `mapstructure:"store_table"`
	Redis            RedisConfig   `mapstructure:",squash"`
	AdminPassword    string        `mapstructure:"admin_password"`
	PollInterval     time.Duration `mapstructure:"poll_interval"`
	NotifyDuration   time.Duration `mapstructure:"notify_duration"`
	TransitionPolicy string        `mapstructure:"transition_policy"`
	OrdersQueueURL   string        `mapstructure:"orders_queue_url"`
	MetricsNamespace string        `mapstructure:"metrics_namespace"`
	IdempotencyTTL   time.Duration `mapstructure:"idempotency_ttl"`
	SessionIdleTTL   time.Duration `mapstructure:"session_idle_ttl"`
	CheckoutRate     string        `mapstructure:"checkout_rate"` // limiter format, e.g. "10-M"
	RunLocal         bool          `mapstructure:"run_local"`
	HTTPAddr         string        `mapstructure:"http_addr"`
	WorkerMode       string        `mapstructure:"worker_mode"`
}

var defaults = map[string]interface{}{
	"store_backend":     BackendMemory,
	"store_table":       "orderboard",
	"redis_host":        "localhost",
	"redis_port":        "6379",
	"redis_password":    "",
	"redis_db":          0,
	"admin_password":    "admin password",
	"poll_interval":     "5s",
	"notify_duration":   "5s",
	"transition_policy": "forward-only",
	"orders_queue_url":  "",
	"metrics_namespace": "OrderBoard",
	"idempotency_ttl":   "24h",
	"session_idle_ttl":  "2h",
	"checkout_rate":     "10-M",
	"run_local":         false,
	"http_addr":         ":8080",
	"worker_mode":       WorkerModeBoard,
}

// LoadConfig reads .env when present, then the environment over defaults.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values the services cannot start with.
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case BackendMemory, BackendDynamoDB, BackendRedis:
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}
	if c.StoreBackend == BackendDynamoDB && c.StoreTable == "" {
		return fmt.Errorf("STORE_TABLE is required for the dynamodb backend")
	}
	if c.WorkerMode != WorkerModeBoard && c.WorkerMode != WorkerModeTickets {
		return fmt.Errorf("unknown WORKER_MODE %q", c.WorkerMode)
	}
	if _, err := orders.ParsePolicy(c.TransitionPolicy); err != nil {
		return err
	}
	if c.PollInterval <= 0 || c.NotifyDuration <= 0 {
		return fmt.Errorf("POLL_INTERVAL and NOTIFY_DURATION must be positive")
	}
	return nil
}

// Policy returns the parsed transition policy. Validate has already checked it.
func (c *Config) Policy() orders.Policy {
	p, _ := orders.ParsePolicy(c.TransitionPolicy)
	return p
}
