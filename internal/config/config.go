// Package config loads application configuration from a YAML file with
// environment variable overrides.
package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds settings for the client and the development server.
type Config struct {
	Env    string `yaml:"env" env:"QORALIST_ENV" env-default:"dev"`
	Client Client `yaml:"client"`
	Server Server `yaml:"server"`
}

// Client configures the API client and local token storage.
type Client struct {
	// BaseURL is the root of the backend REST API.
	BaseURL string `yaml:"base_url" env:"QORALIST_BASE_URL" env-default:"http://localhost:8080"`
	// Timeout bounds every outbound request.
	Timeout time.Duration `yaml:"timeout" env:"QORALIST_TIMEOUT" env-default:"10s"`
	// TokenFile is where the bearer token is persisted between runs.
	TokenFile string `yaml:"token_file" env:"QORALIST_TOKEN_FILE" env-default:"token.json"`
	// LogLevel sets the zap level for the client binary.
	LogLevel string `yaml:"log_level" env:"QORALIST_LOG_LEVEL" env-default:"info"`
}

// Server configures the in-memory development server.
type Server struct {
	Address   string        `yaml:"address" env:"QORALIST_SERVER_ADDRESS" env-default:"localhost:8080"`
	JWTSecret string        `yaml:"jwt_secret" env:"QORALIST_JWT_SECRET" env-default:"dev-secret"`
	TokenTTL  time.Duration `yaml:"token_ttl" env:"QORALIST_TOKEN_TTL" env-default:"24h"`
}

// Load reads configuration from the given file, applying environment
// overrides on top. An empty path loads from the environment only.
func Load(path string) (*Config, error) {
	var cfg Config
	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("cannot read config from env: %w", err)
		}
		return &cfg, nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("cannot read config: %w", err)
	}
	return &cfg, nil
}

// MustLoad loads configuration from the file named by CONFIG_PATH,
// falling back to environment defaults when it is unset. Exits on error.
func MustLoad() *Config {
	cfg, err := Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	return cfg
}
