// Package config loads runtime configuration for every grocer binary from
// defaults, an optional YAML file, and GROCER_* environment variables, in
// increasing order of precedence.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the complete grocer configuration. Every binary reads the same
// file; each consumes only the sections it cares about.
type Config struct {
	Inventory InventoryConfig `mapstructure:"inventory"`
	Ordering  OrderingConfig  `mapstructure:"ordering"`
	Pricing   PricingConfig   `mapstructure:"pricing"`
	Robot     RobotConfig     `mapstructure:"robot"`
	Analytics AnalyticsConfig `mapstructure:"analytics"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// InventoryConfig controls the coordinator service.
type InventoryConfig struct {
	// ListenAddr is the HTTP bind address for orders and robot results
	ListenAddr string `mapstructure:"listen_addr"`
	// BroadcastAddr is the TCP bind address task descriptors are published on
	BroadcastAddr string `mapstructure:"broadcast_addr"`
	// WorkerCount is the number of robot responses each task waits for
	WorkerCount int `mapstructure:"worker_count"`
	// BarrierTimeoutMs bounds how long an order waits for the full fleet
	BarrierTimeoutMs int `mapstructure:"barrier_timeout_ms"`
	// InitialStock seeds every catalog item's starting quantity
	InitialStock float64 `mapstructure:"initial_stock"`
}

// OrderingConfig controls the customer-facing boundary service.
type OrderingConfig struct {
	// ListenAddr is the HTTP bind address for the public API
	ListenAddr string `mapstructure:"listen_addr"`
	// InventoryAddr is the coordinator's host:port
	InventoryAddr string `mapstructure:"inventory_addr"`
	// BroadcastAddr is the TCP bind address analytics events are published on
	BroadcastAddr string `mapstructure:"broadcast_addr"`
	// RequestTimeoutMs bounds the forwarded order call; it must exceed the
	// coordinator's barrier timeout or every slow order looks like an outage
	RequestTimeoutMs int `mapstructure:"request_timeout_ms"`
}

// PricingConfig controls the pricing collaborator.
type PricingConfig struct {
	ListenAddr string `mapstructure:"listen_addr"`
}

// RobotConfig controls a single aisle robot.
type RobotConfig struct {
	// InventoryAddr is where results are reported
	InventoryAddr string `mapstructure:"inventory_addr"`
	// BroadcastAddr is the coordinator's publish address to subscribe to
	BroadcastAddr string `mapstructure:"broadcast_addr"`
	// WorkDelayMs simulates per-task picking time when the aisle has items
	WorkDelayMs int `mapstructure:"work_delay_ms"`
}

// AnalyticsConfig controls the analytics collector.
type AnalyticsConfig struct {
	// BroadcastAddr is the ordering service's publish address
	BroadcastAddr string `mapstructure:"broadcast_addr"`
}

// LoggingConfig controls structured log output.
type LoggingConfig struct {
	// Level is "debug", "info", "warn", or "error"
	Level string `mapstructure:"level"`
}

// BarrierTimeout returns the barrier timeout as a time.Duration.
func (c *InventoryConfig) BarrierTimeout() time.Duration {
	return time.Duration(c.BarrierTimeoutMs) * time.Millisecond
}

// RequestTimeout returns the forwarded-order timeout as a time.Duration.
func (c *OrderingConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMs) * time.Millisecond
}

// WorkDelay returns the simulated picking delay as a time.Duration.
func (c *RobotConfig) WorkDelay() time.Duration {
	return time.Duration(c.WorkDelayMs) * time.Millisecond
}

// Default returns a Config with the stock single-host topology.
func Default() *Config {
	return &Config{
		Inventory: InventoryConfig{
			ListenAddr:       "127.0.0.1:8500",
			BroadcastAddr:    "127.0.0.1:8501",
			WorkerCount:      5,
			BarrierTimeoutMs: 10000,
			InitialStock:     100,
		},
		Ordering: OrderingConfig{
			ListenAddr:       "127.0.0.1:8080",
			InventoryAddr:    "127.0.0.1:8500",
			BroadcastAddr:    "127.0.0.1:8081",
			RequestTimeoutMs: 20000, // barrier timeout plus pricing headroom
		},
		Pricing: PricingConfig{
			ListenAddr: "127.0.0.1:8600",
		},
		Robot: RobotConfig{
			InventoryAddr: "127.0.0.1:8500",
			BroadcastAddr: "127.0.0.1:8501",
			WorkDelayMs:   500,
		},
		Analytics: AnalyticsConfig{
			BroadcastAddr: "127.0.0.1:8081",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("inventory.listen_addr", d.Inventory.ListenAddr)
	v.SetDefault("inventory.broadcast_addr", d.Inventory.BroadcastAddr)
	v.SetDefault("inventory.worker_count", d.Inventory.WorkerCount)
	v.SetDefault("inventory.barrier_timeout_ms", d.Inventory.BarrierTimeoutMs)
	v.SetDefault("inventory.initial_stock", d.Inventory.InitialStock)

	v.SetDefault("ordering.listen_addr", d.Ordering.ListenAddr)
	v.SetDefault("ordering.inventory_addr", d.Ordering.InventoryAddr)
	v.SetDefault("ordering.broadcast_addr", d.Ordering.BroadcastAddr)
	v.SetDefault("ordering.request_timeout_ms", d.Ordering.RequestTimeoutMs)

	v.SetDefault("pricing.listen_addr", d.Pricing.ListenAddr)

	v.SetDefault("robot.inventory_addr", d.Robot.InventoryAddr)
	v.SetDefault("robot.broadcast_addr", d.Robot.BroadcastAddr)
	v.SetDefault("robot.work_delay_ms", d.Robot.WorkDelayMs)

	v.SetDefault("analytics.broadcast_addr", d.Analytics.BroadcastAddr)

	v.SetDefault("logging.level", d.Logging.Level)
}

// Load builds a Config from defaults, the optional YAML file at path (empty
// path skips the file), and GROCER_* environment variables. Env keys replace
// dots with underscores: GROCER_INVENTORY_LISTEN_ADDR overrides
// inventory.listen_addr.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("GROCER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values that would wedge a service at runtime rather than
// fail it at startup.
func (c *Config) Validate() error {
	if c.Inventory.WorkerCount <= 0 {
		return fmt.Errorf("inventory.worker_count must be positive, got %d", c.Inventory.WorkerCount)
	}
	if c.Inventory.BarrierTimeoutMs <= 0 {
		return fmt.Errorf("inventory.barrier_timeout_ms must be positive, got %d", c.Inventory.BarrierTimeoutMs)
	}
	if c.Inventory.InitialStock < 0 {
		return fmt.Errorf("inventory.initial_stock cannot be negative, got %v", c.Inventory.InitialStock)
	}
	if c.Ordering.RequestTimeoutMs <= c.Inventory.BarrierTimeoutMs {
		return fmt.Errorf("ordering.request_timeout_ms (%d) must exceed inventory.barrier_timeout_ms (%d)",
			c.Ordering.RequestTimeoutMs, c.Inventory.BarrierTimeoutMs)
	}
	if c.Robot.WorkDelayMs < 0 {
		return fmt.Errorf("robot.work_delay_ms cannot be negative, got %d", c.Robot.WorkDelayMs)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
