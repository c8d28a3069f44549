package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	// SessionIdleTimeout is how long a counter may go unqueried before its
	// whole operator session is evicted.
	SessionIdleTimeout time.Duration `env:"SESSION_IDLE_TIMEOUT, default=10m"`
	// SessionSweepInterval drives the background eviction sweep; zero keeps
	// eviction purely lazy (checked only when the counter is queried).
	SessionSweepInterval time.Duration `env:"SESSION_SWEEP_INTERVAL, default=1m"`

	Mongo MongoConfig
	Redis RedisConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=counter_system"`
}

// The Redis instance backs idempotency dedup only; active-session state is
// process-local and lost on restart.
type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
