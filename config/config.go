package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	PicturesBackendPostgres = "postgres"
	PicturesBackendS3       = "s3"
)

type (
	Config struct {
		HTTP        HTTP
		Log         Log
		PG          PG
		Pictures    Pictures
		S3          S3
		OutboxRelay OutboxRelay
		Kafka       Kafka
		Swagger     Swagger
	}

	HTTP struct {
		Port             string        `env:"HTTP_PORT,required"`
		UsePreforkMode   bool          `env:"HTTP_USE_PREFORK_MODE" envDefault:"false"`
		BodyLimit        int           `env:"HTTP_BODY_LIMIT" envDefault:"10485760"`
		ReadTimeout      time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"15s"`
		WriteTimeout     time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"15s"`
		CORSAllowOrigins string        `env:"HTTP_CORS_ALLOW_ORIGINS" envDefault:"*"`
	}

	Log struct {
		Level string `env:"LOG_LEVEL,required"`
	}

	PG struct {
		PoolMax     int    `env:"PG_POOL_MAX,required"`
		URL         string `env:"PG_URL,required"`
		AutoMigrate bool   `env:"PG_AUTO_MIGRATE" envDefault:"true"`
	}

	Pictures struct {
		Backend string `env:"PICTURES_BACKEND" envDefault:"postgres"`
	}

	// S3 is only read when PICTURES_BACKEND=s3.
	S3 struct {
		Endpoint       string        `env:"S3_ENDPOINT"`
		AccessKey      string        `env:"S3_ACCESS_KEY"`
		SecretKey      string        `env:"S3_SECRET_KEY"`
		Bucket         string        `env:"S3_BUCKET"`
		Region         string        `env:"S3_REGION" envDefault:"us-east-1"`
		CfgLoadTimeout time.Duration `env:"S3_LOAD_CFG_TIMEOUT" envDefault:"10s"`
	}

	// Kafka carries the change feed, off unless KAFKA_ENABLED=true.
	Kafka struct {
		Enabled bool     `env:"KAFKA_ENABLED" envDefault:"false"`
		Brokers []string `env:"KAFKA_BROKERS"`
		Topic   string   `env:"KAFKA_TOPIC" envDefault:"seed-data-changes"`
	}

	OutboxRelay struct {
		PollInterval        time.Duration `env:"OUTBOX_RELAY_POLL_INTERVAL" envDefault:"2s"`
		MarkFailedInterval  time.Duration `env:"OUTBOX_RELAY_MARK_FAILED_INTERVAL" envDefault:"2m"`
		CleanupInterval     time.Duration `env:"OUTBOX_RELAY_CLEANUP_INTERVAL" envDefault:"24h"`
		ProcessBatchTimeout time.Duration `env:"OUTBOX_RELAY_PROCESS_BATCH_TIMEOUT" envDefault:"15s"`
		ShutdownTimeout     time.Duration `env:"OUTBOX_RELAY_SHUTDOWN_TIMEOUT" envDefault:"5s"`
		BatchSize           int           `env:"OUTBOX_RELAY_BATCH_SIZE" envDefault:"100"`
		MaxRetries          int           `env:"OUTBOX_RELAY_MAX_RETRIES" envDefault:"3"`
	}

	Swagger struct {
		Enabled bool `env:"SWAGGER_ENABLED" envDefault:"false"`
	}
)

func New() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Pictures.Backend {
	case PicturesBackendPostgres:
	case PicturesBackendS3:
		if c.S3.Endpoint == "" || c.S3.AccessKey == "" || c.S3.SecretKey == "" || c.S3.Bucket == "" {
			return errors.New("S3_ENDPOINT, S3_ACCESS_KEY, S3_SECRET_KEY and S3_BUCKET are required for PICTURES_BACKEND=s3")
		}
	default:
		return fmt.Errorf("unknown PICTURES_BACKEND %q", c.Pictures.Backend)
	}

	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return errors.New("KAFKA_BROKERS is required when KAFKA_ENABLED=true")
	}

	return nil
}
