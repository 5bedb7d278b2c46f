// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the service.
// The mapstructure tags are used by Viper to unmarshal the data.
type Config struct {
	HttpListenAddr  string        `mapstructure:"http_listen_addr"`
	LogLevel        string        `mapstructure:"log_level"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	Store           StoreConfig   `mapstructure:"store"`
	Cache           CacheConfig   `mapstructure:"cache"`
	Events          EventsConfig  `mapstructure:"events"`
	Tracing         TracingConfig `mapstructure:"tracing"`
	Stats           StatsConfig   `mapstructure:"stats"`
}

// StoreConfig selects and configures the record store.
type StoreConfig struct {
	Driver           string        `mapstructure:"driver"` // memory, sqlite, postgres or etcd
	SqlitePath       string        `mapstructure:"sqlite_path"`
	PostgresDSN      string        `mapstructure:"postgres_dsn"`
	PostgresMaxConns int32         `mapstructure:"postgres_max_conns"`
	EtcdEndpoints    []string      `mapstructure:"etcd_endpoints"`
	EtcdTimeout      time.Duration `mapstructure:"etcd_timeout"`
}

// CacheConfig enables the Redis posting cache when RedisAddr is set.
type CacheConfig struct {
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
	TTL           time.Duration `mapstructure:"ttl"`
}

// EventsConfig enables NATS lifecycle events when NatsURL is set.
type EventsConfig struct {
	NatsURL       string        `mapstructure:"nats_url"`
	SubjectPrefix string        `mapstructure:"subject_prefix"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

type TracingConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// StatsConfig controls the periodic refresh of the per-type posting gauges.
// An empty schedule disables it.
type StatsConfig struct {
	Schedule string `mapstructure:"schedule"`
}

const (
	DriverMemory   = "memory"
	DriverSqlite   = "sqlite"
	DriverPostgres = "postgres"
	DriverEtcd     = "etcd"
)

// EnvPrefix prefixes every environment override, e.g. JOBBOARD_STORE_DRIVER.
const EnvPrefix = "JOBBOARD"

var defaults = map[string]any{
	"http_listen_addr":         ":8080",
	"log_level":                "info",
	"shutdown_timeout":         "5s",
	"store.driver":             DriverMemory,
	"store.sqlite_path":        "job-board.db",
	"store.postgres_dsn":       "",
	"store.postgres_max_conns": 10,
	"store.etcd_endpoints":     []string{"localhost:2379"},
	"store.etcd_timeout":       "5s",
	"cache.redis_addr":         "",
	"cache.redis_password":     "",
	"cache.redis_db":           0,
	"cache.ttl":                "5m",
	"events.nats_url":          "",
	"events.subject_prefix":    "jobs",
	"events.timeout":           "2s",
	"tracing.enabled":          false,
	"stats.schedule":           "@every 1m",
}

// Load loads configuration from file and environment variables.
func Load() (*Config, error) {
	v := viper.New()

	// Set default values
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	// Set config file details
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	// Read environment variables; nested keys use underscores.
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			// Config file was found but another error was produced
			return nil, err
		}
		// No config file: rely on defaults and env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the selected drivers have what they need.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverMemory:
	case DriverSqlite:
		if c.Store.SqlitePath == "" {
			return fmt.Errorf("store.sqlite_path is required for the %s driver", DriverSqlite)
		}
	case DriverPostgres:
		if c.Store.PostgresDSN == "" {
			return fmt.Errorf("store.postgres_dsn is required for the %s driver", DriverPostgres)
		}
	case DriverEtcd:
		if len(c.Store.EtcdEndpoints) == 0 {
			return fmt.Errorf("store.etcd_endpoints is required for the %s driver", DriverEtcd)
		}
	default:
		return fmt.Errorf("unknown store.driver %q", c.Store.Driver)
	}
	return nil
}
