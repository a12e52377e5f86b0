package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Supported values for STORE_DRIVER.
const (
	DriverMongo  = "mongo"
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort      string        `env:"PORT" envDefault:"8080"`
	StoreDriver     string        `env:"STORE_DRIVER" envDefault:"mongo"`
	MongoURL        string        `env:"MONGO_URL" envDefault:"mongodb://localhost/authAPI"`
	MongoDatabase   string        `env:"MONGO_DATABASE" envDefault:"authAPI"`
	MySQLDSN        string        `env:"MYSQL_DSN" envDefault:"user:password@tcp(localhost:3306)/happythoughts?charset=utf8mb4&parseTime=True&loc=Local"`
	SQLitePath      string        `env:"SQLITE_PATH" envDefault:"happythoughts.db"`
	RedisAddr       string        `env:"REDIS_ADDR"`
	RedisDB         int           `env:"REDIS_DB" envDefault:"0"`
	RedisPass       string        `env:"REDIS_PASSWORD"`
	TokenCacheTTL   time.Duration `env:"TOKEN_CACHE_TTL" envDefault:"10m"`
	GateNewThought  bool          `env:"GATE_NEW_THOUGHT" envDefault:"false"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFile         string        `env:"LOG_FILE"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	SwaggerHost     string        `env:"SWAGGER_HOST"`
}

// Load reads an optional .env file, then builds Config from the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case DriverMongo, DriverMySQL, DriverSQLite:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.ServerPort == "" {
		return errors.New("PORT must not be empty")
	}
	if c.TokenCacheTTL <= 0 {
		return errors.New("TOKEN_CACHE_TTL must be positive")
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.ServerPort
}
