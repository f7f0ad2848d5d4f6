package redis

import (
	"time"

	"github.com/muhammadchandra19/mbp-reconstruction/pkg/errors"
)

// Mode represents the mode of the Redis client.
type Mode string

const (
	// Standalone Mode is for a single Redis instance.
	Standalone Mode = "standalone"
	// Cluster Mode is for a Redis cluster setup.
	Cluster Mode = "cluster"
)

// Config holds the configuration for the Redis client.
type Config struct {
	Mode     Mode   `env:"MODE" envDefault:"standalone"`
	Username string `env:"USERNAME"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB" envDefault:"0"`

	Addrs []string `env:"ADDRS" envDefault:"localhost:6379"`

	ConnectTimeout      time.Duration `env:"CONNECT_TIMEOUT" envDefault:"5s"`
	MaxRetries          int           `env:"MAX_RETRIES" envDefault:"3"`
	MinRetryBackoff     time.Duration `env:"MIN_RETRY_BACKOFF" envDefault:"100ms"`
	MaxRetryBackoff     time.Duration `env:"MAX_RETRY_BACKOFF" envDefault:"2s"`
	PoolSize            int           `env:"POOL_SIZE" envDefault:"10"`
	MinIdleConns        int           `env:"MIN_IDLE_CONNS" envDefault:"2"`
	MaxIdleConns        int           `env:"MAX_IDLE_CONNS" envDefault:"10"`
	ConnMaxLifetime     time.Duration `env:"CONN_MAX_LIFETIME" envDefault:"30m"`
	ConnMaxIdleTime     time.Duration `env:"CONN_MAX_IDLE_TIME" envDefault:"10m"`
	PoolTimeout         time.Duration `env:"POOL_TIMEOUT" envDefault:"4s"`
	PrefixKey           string        `env:"PREFIX_KEY" envDefault:"mbp:"`
	DefaultTTL          time.Duration `env:"DEFAULT_TTL" envDefault:"0s"`
	ReconnectMaxRetries int           `env:"RECONNECT_MAX_RETRIES" envDefault:"3"`
}

// DefaultConfig returns a default configuration for the Redis client.
func DefaultConfig() *Config {
	return &Config{
		Mode:                Standalone,
		Addrs:               []string{"localhost:6379"},
		ConnectTimeout:      5 * time.Second,
		MaxRetries:          3,
		MinRetryBackoff:     100 * time.Millisecond,
		MaxRetryBackoff:     2 * time.Second,
		PoolSize:            10,
		MinIdleConns:        2,
		MaxIdleConns:        10,
		ConnMaxLifetime:     30 * time.Minute,
		ConnMaxIdleTime:     10 * time.Minute,
		PoolTimeout:         4 * time.Second,
		PrefixKey:           "mbp:",
		ReconnectMaxRetries: 3,
	}
}

// Key prefixes k with the configured PrefixKey.
func (c *Config) Key(k string) string {
	return c.PrefixKey + k
}

// Validate checks the configuration before a connection is attempted.
func (c *Config) Validate() error {
	if c == nil {
		return errors.NewErrorDetails("Redis config is nil", string(errors.RedisConfigError), "config")
	}

	checks := []struct {
		failed  bool
		message string
		field   string
	}{
		{len(c.Addrs) == 0, "Redis addresses are empty", "addrs"},
		{c.Mode != Standalone && c.Mode != Cluster, "Invalid Redis mode", "mode"},
		{c.ConnectTimeout <= 0, "Invalid Redis connect timeout", "connect_timeout"},
		{c.PoolSize <= 0, "Invalid Redis pool size", "pool_size"},
		{c.MinIdleConns < 0, "Invalid Redis min idle connections", "min_idle_conns"},
		{c.MaxIdleConns < 0, "Invalid Redis max idle connections", "max_idle_conns"},
		{c.ConnMaxLifetime <= 0, "Invalid Redis connection max lifetime", "conn_max_lifetime"},
		{c.ConnMaxIdleTime <= 0, "Invalid Redis connection max idle time", "conn_max_idle_time"},
		{c.PoolTimeout <= 0, "Invalid Redis pool timeout", "pool_timeout"},
		{c.MaxRetries < 0, "Invalid Redis max retries", "max_retries"},
		{c.MinRetryBackoff < 0, "Invalid Redis minimum retry backoff", "min_retry_backoff"},
		{c.MaxRetryBackoff < 0, "Invalid Redis maximum retry backoff", "max_retry_backoff"},
	}

	for _, check := range checks {
		if check.failed {
			return errors.NewErrorDetails(check.message, string(errors.RedisConfigError), check.field)
		}
	}
	return nil
}
