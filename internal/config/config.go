package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the assetq service configuration.
type Config struct {
	HTTP        HTTPConfig        `yaml:"http"`
	Database    DatabaseConfig    `yaml:"database"`
	Auth        AuthConfig        `yaml:"auth"`
	Storage     StorageConfig     `yaml:"storage"`
	Query       QueryConfig       `yaml:"query"`
	Collections CollectionsConfig `yaml:"collections"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings. No keys disables auth.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	IdleTimeoutSec  int `yaml:"idle_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds snapshot store connection settings.
type DatabaseConfig struct {
	Driver           string   `yaml:"driver"` // valkey, redis (default: valkey)
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// StorageConfig holds snapshot storage settings.
type StorageConfig struct {
	KeyPrefix string `yaml:"key_prefix"`
	Codec     string `yaml:"codec"`   // json, packed (default: json)
	TTLSec    int    `yaml:"ttl_sec"` // 0 keeps snapshots until replaced
}

// QueryConfig holds paging limits and the windows of relative date rules.
type QueryConfig struct {
	DefaultPageSize  int `yaml:"default_page_size"`
	MaxPageSize      int `yaml:"max_page_size"`
	DueSoonDays      int `yaml:"due_soon_days"`
	ExpiringSoonDays int `yaml:"expiring_soon_days"`
}

// CollectionsConfig names the snapshots behind each surface.
type CollectionsConfig struct {
	Assets    string   `yaml:"assets"`
	Events    []string `yaml:"events"`
	Documents string   `yaml:"documents"`
}

// All returns every configured snapshot name, assets first.
func (c CollectionsConfig) All() []string {
	all := make([]string, 0, len(c.Events)+2)
	all = append(all, c.Assets)
	all = append(all, c.Events...)
	return append(all, c.Documents)
}

var collectionName = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)

// Load reads configuration from a YAML file by environment name (development, staging, production).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}
	return Parse(data)
}

// Parse decodes, defaults and validates a YAML document.
func Parse(data []byte) (Config, error) {
	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "development".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "development"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.IdleTimeoutSec <= 0 {
		c.HTTP.IdleTimeoutSec = 60
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "valkey"
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Storage.KeyPrefix == "" {
		c.Storage.KeyPrefix = "assetq:"
	}
	if c.Storage.Codec == "" {
		c.Storage.Codec = "json"
	}
	if c.Query.DefaultPageSize <= 0 {
		c.Query.DefaultPageSize = 25
	}
	if c.Query.MaxPageSize <= 0 {
		c.Query.MaxPageSize = 100
	}
	if c.Query.DueSoonDays <= 0 {
		c.Query.DueSoonDays = 7
	}
	if c.Query.ExpiringSoonDays <= 0 {
		c.Query.ExpiringSoonDays = 30
	}
	if c.Collections.Assets == "" {
		c.Collections.Assets = "assets"
	}
	if len(c.Collections.Events) == 0 {
		c.Collections.Events = []string{"asset_actions", "asset_types", "asset_deletions"}
	}
	if c.Collections.Documents == "" {
		c.Collections.Documents = "asset_documents"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Database.Driver {
	case "valkey", "redis":
	default:
		return fmt.Errorf("database.driver must be \"valkey\" or \"redis\", got %q", c.Database.Driver)
	}
	if len(c.Database.Addrs) == 0 {
		return fmt.Errorf("database.addrs is required")
	}
	switch c.Storage.Codec {
	case "json", "packed":
	default:
		return fmt.Errorf("storage.codec must be \"json\" or \"packed\", got %q", c.Storage.Codec)
	}
	if c.Storage.TTLSec < 0 {
		return fmt.Errorf("storage.ttl_sec must not be negative")
	}
	if c.Query.DefaultPageSize > c.Query.MaxPageSize {
		return fmt.Errorf("query.default_page_size (%d) exceeds query.max_page_size (%d)",
			c.Query.DefaultPageSize, c.Query.MaxPageSize)
	}
	if c.Query.MaxPageSize > 500 {
		return fmt.Errorf("query.max_page_size must be at most 500, got %d", c.Query.MaxPageSize)
	}
	names := append([]string{c.Collections.Assets, c.Collections.Documents}, c.Collections.Events...)
	for _, n := range names {
		if !collectionName.MatchString(n) {
			return fmt.Errorf("invalid collection name %q", n)
		}
	}
	return nil
}

// findConfigPath walks up from the working directory looking for config/<env>.yaml.
func findConfigPath(env string) string {
	filename := filepath.Join("config", env+".yaml")

	dir, err := os.Getwd()
	if err == nil {
		for {
			if path := filepath.Join(dir, filename); fileExists(path) {
				return path
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}

	return filename
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
