package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/muhammadchandra19/mbp-reconstruction/pkg/errors"
	"github.com/muhammadchandra19/mbp-reconstruction/pkg/questdb"
	"github.com/muhammadchandra19/mbp-reconstruction/pkg/redis"
)

// Config represents the application configuration.
type Config struct {
	App     AppConfig     `envPrefix:"APP_"`
	Recon   ReconConfig   `envPrefix:"RECON_"`
	Kafka   KafkaConfig   `envPrefix:"KAFKA_"`
	Redis   RedisConfig   `envPrefix:"REDIS_"`
	QuestDB QuestDBConfig `envPrefix:"QUESTDB_"`
}

// AppConfig represents the application configuration.
type AppConfig struct {
	Name        string `env:"NAME" envDefault:"mbp-reconstructor"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
}

// ReconConfig controls the reconstruction run itself.
type ReconConfig struct {
	OutputPath   string        `env:"OUTPUT_PATH" envDefault:"mbp_output.csv"`
	Validate     bool          `env:"VALIDATE" envDefault:"false"`
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT" envDefault:"5s"`
}

// KafkaConfig represents the Kafka snapshot publisher configuration.
type KafkaConfig struct {
	Enabled      bool          `env:"ENABLED" envDefault:"false"`
	Brokers      []string      `env:"BROKERS" envSeparator:"," envDefault:"localhost:9092"`
	Topic        string        `env:"TOPIC" envDefault:"mbp10"`
	BatchSize    int           `env:"BATCH_SIZE" envDefault:"100"`
	BatchTimeout time.Duration `env:"BATCH_TIMEOUT" envDefault:"10ms"`
}

// RedisConfig represents the Redis latest-book sink configuration.
type RedisConfig struct {
	Enabled bool   `env:"ENABLED" envDefault:"false"`
	Channel string `env:"CHANNEL" envDefault:"mbp10"`
	redis.Config
}

// QuestDBConfig represents the QuestDB time-series sink configuration.
type QuestDBConfig struct {
	Enabled   bool `env:"ENABLED" envDefault:"false"`
	BatchSize int  `env:"BATCH_SIZE" envDefault:"1000"`
	questdb.Config
}

// Load loads the configuration from the environment. A missing .env file is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks cross-field constraints env tags cannot express.
func (c *Config) Validate() error {
	baseErr := errors.NewBaseError()

	if c.Recon.OutputPath == "" {
		baseErr.AddErrorDetails(errors.NewErrorDetails("output path must not be empty", string(errors.ConfigError), "RECON_OUTPUT_PATH"))
	}
	if c.Recon.WriteTimeout <= 0 {
		baseErr.AddErrorDetails(errors.NewErrorDetails("write timeout must be positive", string(errors.ConfigError), "RECON_WRITE_TIMEOUT"))
	}
	if c.Kafka.Enabled {
		if len(c.Kafka.Brokers) == 0 {
			baseErr.AddErrorDetails(errors.NewErrorDetails("kafka brokers are required", string(errors.ConfigError), "KAFKA_BROKERS"))
		}
		if c.Kafka.Topic == "" {
			baseErr.AddErrorDetails(errors.NewErrorDetails("kafka topic is required", string(errors.ConfigError), "KAFKA_TOPIC"))
		}
	}
	if c.Redis.Enabled && c.Redis.Channel == "" {
		baseErr.AddErrorDetails(errors.NewErrorDetails("redis channel is required", string(errors.ConfigError), "REDIS_CHANNEL"))
	}
	if c.QuestDB.Enabled && c.QuestDB.BatchSize <= 0 {
		baseErr.AddErrorDetails(errors.NewErrorDetails("questdb batch size must be positive", string(errors.ConfigError), "QUESTDB_BATCH_SIZE"))
	}

	if baseErr.HasDetails() {
		return baseErr
	}
	return nil
}
