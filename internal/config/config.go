package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// API Configuration
	API APIConfig

	// Session Configuration
	Session SessionConfig

	// Logging Configuration
	Logging LoggingConfig

	// Development backend configuration
	MockAPI MockAPIConfig `envPrefix:"MOCKAPI_"`

	// UserFile is the user config file that was consulted
	UserFile string
}

// APIConfig holds the backend address
type APIConfig struct {
	URL     string        `env:"ALUMNET_API_URL" envDefault:"http://localhost:5000/api"`
	Timeout time.Duration `env:"ALUMNET_TIMEOUT" envDefault:"10s"`
}

// SessionConfig controls session upkeep in the interactive shell
type SessionConfig struct {
	// RefreshSchedule is a cron expression for re-validating the session
	RefreshSchedule string `env:"ALUMNET_REFRESH_SCHEDULE" envDefault:"@every 5m"`
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"warn"`
	Format string `env:"LOG_FORMAT" envDefault:"console"` // json, console
}

// MockAPIConfig configures the development backend
type MockAPIConfig struct {
	Addr           string        `env:"ADDR" envDefault:":5000"`
	JWTSecret      string        `env:"JWT_SECRET" envDefault:"alumnet-dev-secret"`
	TokenTTL       time.Duration `env:"TOKEN_TTL" envDefault:"24h"`
	AdminEmail     string        `env:"ADMIN_EMAIL" envDefault:"admin@alumnet.dev"`
	AdminPassword  string        `env:"ADMIN_PASSWORD" envDefault:"admin12345"`
	AllowedOrigins []string      `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173"`
	SecureCookie   bool          `env:"SECURE_COOKIE" envDefault:"false"`
}

// Load loads configuration from .env files, the environment and the user
// config file. Environment variables win over the file.
func Load() (*Config, error) {
	// Load .env files (fails silently if files don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	path := os.Getenv("ALUMNET_CONFIG")
	if path == "" {
		var err error
		path, err = UserConfigPath()
		if err != nil {
			return nil, err
		}
	}
	return LoadFrom(path)
}

// LoadFrom parses the environment and merges the user config file at path.
// A missing file is not an error.
func LoadFrom(path string) (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if path != "" {
		user, err := LoadUserConfig(path)
		if err != nil {
			return nil, err
		}
		if err := cfg.merge(user); err != nil {
			return nil, fmt.Errorf("invalid user config %s: %w", path, err)
		}
		cfg.UserFile = path
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// merge applies user file settings that the environment does not override
func (c *Config) merge(user *UserConfig) error {
	if _, set := os.LookupEnv("ALUMNET_API_URL"); !set && user.APIURL != "" {
		c.API.URL = user.APIURL
	}
	if _, set := os.LookupEnv("ALUMNET_TIMEOUT"); !set && user.Timeout != "" {
		d, err := time.ParseDuration(user.Timeout)
		if err != nil {
			return fmt.Errorf("timeout: %w", err)
		}
		c.API.Timeout = d
	}
	return nil
}

// Validate checks the values the client cannot work without
func (c *Config) Validate() error {
	c.API.URL = strings.TrimRight(strings.TrimSpace(c.API.URL), "/")
	u, err := url.Parse(c.API.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("ALUMNET_API_URL must be an http(s) URL, got %q", c.API.URL)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("ALUMNET_TIMEOUT must be positive, got %s", c.API.Timeout)
	}
	return nil
}
