package shared

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Identity header modes understood by the catalog client.
const (
	AuthHeaderUserID = "user-id"
	AuthHeaderBearer = "bearer"
	AuthHeaderBoth   = "both"
)

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	API      APIConfig      `toml:"api"`
	Database DatabaseConfig `toml:"database"`
	Water    WaterConfig    `toml:"water"`
	Log      LogConfig      `toml:"log"`
	Server   ServerConfig   `toml:"server"`
}

// APIConfig contains backend connection settings.
type APIConfig struct {
	BaseURL           string  `toml:"base_url"`
	AuthHeader        string  `toml:"auth_header"`
	TimeoutSeconds    int     `toml:"timeout_seconds"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// DatabaseConfig contains local SQLite settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// WaterConfig contains water tracker settings.
type WaterConfig struct {
	Goal int `toml:"goal"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level   string `toml:"level"`
	TUIFile string `toml:"tui_file"`
}

// ServerConfig contains settings for the local development backend.
type ServerConfig struct {
	Addr            string `toml:"addr"`
	Fixture         string `toml:"fixture"`
	TokenSecret     string `toml:"token_secret"`
	TokenTTLMinutes int    `toml:"token_ttl_minutes"`
}

// TokenTTL returns the access token lifetime, falling back to one hour.
func (c ServerConfig) TokenTTL() time.Duration {
	if c.TokenTTLMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(c.TokenTTLMinutes) * time.Minute
}

// Timeout returns the per-request timeout, falling back to 10s.
func (c APIConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Validate checks values that would otherwise fail late at request time.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("%w: api.base_url is empty", ErrInvalidConfig)
	}
	switch c.API.AuthHeader {
	case AuthHeaderUserID, AuthHeaderBearer, AuthHeaderBoth:
	default:
		return fmt.Errorf("%w: api.auth_header must be one of %q, %q, %q (got %q)",
			ErrInvalidConfig, AuthHeaderUserID, AuthHeaderBearer, AuthHeaderBoth, c.API.AuthHeader)
	}
	if c.API.RequestsPerSecond < 0 {
		return fmt.Errorf("%w: api.requests_per_second must not be negative", ErrInvalidConfig)
	}
	if c.Water.Goal <= 0 {
		return fmt.Errorf("%w: water.goal must be positive", ErrInvalidConfig)
	}
	return nil
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ApplyEnv loads envFile (if present) into the process environment and applies FITX_* overrides.
//
// Variables already set in the environment win over values from envFile.
func ApplyEnv(c *Config, envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	if v := os.Getenv("FITX_API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("FITX_AUTH_HEADER"); v != "" {
		c.API.AuthHeader = v
	}
	if v := os.Getenv("FITX_DB_PATH"); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv("FITX_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("FITX_TOKEN_SECRET"); v != "" {
		c.Server.TokenSecret = v
	}
	return nil
}
