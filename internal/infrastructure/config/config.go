package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	JWT   JWTConfig
	Mongo MongoConfig
	Redis RedisConfig
	Kafka KafkaConfig
	Cache CacheConfig
}

type JWTConfig struct {
	// Secret is the base64-encoded HMAC-SHA512 signing key.
	Secret   string        `env:"JWT_SECRET"`
	TokenTTL time.Duration `env:"JWT_TOKEN_TTL, default=24h"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=user_service"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type KafkaConfig struct {
	Brokers        []string      `env:"KAFKA_BROKERS,         default=localhost:9092"`
	Topic          string        `env:"KAFKA_TOPIC,           default=users"`
	PublishTimeout time.Duration `env:"KAFKA_PUBLISH_TIMEOUT, default=3s"`
}

type CacheConfig struct {
	UserTTL time.Duration `env:"CACHE_USER_TTL, default=30m"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
