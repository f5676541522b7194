package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Index drivers.
const (
	DriverRedis         = "redis"
	DriverElasticsearch = "elasticsearch"
	DriverOpenSearch    = "opensearch"
	DriverBleve         = "bleve"
)

// Config holds the bizdex API configuration.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	Index   IndexConfig   `yaml:"index"`
	Search  SearchConfig  `yaml:"search"`
	Health  HealthConfig  `yaml:"health"`
	Auth    AuthConfig    `yaml:"auth"`
	Seed    SeedConfig    `yaml:"seed"`
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
	// File, when set, duplicates log output into a rotated file.
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int     `yaml:"port"`
	ReadTimeoutSec  int     `yaml:"read_timeout_sec"`
	WriteTimeoutSec int     `yaml:"write_timeout_sec"`
	ShutdownSec     int     `yaml:"shutdown_timeout_sec"`
	RateLimitRPS    float64 `yaml:"rate_limit_rps"` // 0 = unlimited
	RateLimitBurst  int     `yaml:"rate_limit_burst"`
}

// IndexConfig selects and configures the search backend.
type IndexConfig struct {
	Driver           string `yaml:"driver"` // redis, elasticsearch, opensearch, bleve (default: bleve)
	Name             string `yaml:"name"`
	ReadinessTimeout int    `yaml:"readiness_timeout_sec"`

	Redis         RedisConfig   `yaml:"redis"`
	Elasticsearch ClusterConfig `yaml:"elasticsearch"`
	OpenSearch    ClusterConfig `yaml:"opensearch"`
	Bleve         BleveConfig   `yaml:"bleve"`
}

// RedisConfig holds Redis Stack connection settings.
type RedisConfig struct {
	Addrs     []string `yaml:"addrs"`
	Password  string   `yaml:"password"`
	KeyPrefix string   `yaml:"key_prefix"`
}

// ClusterConfig holds Elasticsearch/OpenSearch connection settings.
type ClusterConfig struct {
	Addresses          []string `yaml:"addresses"`
	Username           string   `yaml:"username"`
	Password           string   `yaml:"password"`
	InsecureSkipVerify bool     `yaml:"insecure_skip_verify"`
}

// BleveConfig holds embedded index settings. An empty path keeps the index in memory.
type BleveConfig struct {
	Path string `yaml:"path"`
}

// SearchConfig holds pagination and execution limits.
type SearchConfig struct {
	DefaultPageSize int `yaml:"default_page_size"`
	MaxPageSize     int `yaml:"max_page_size"`
	TimeoutMs       int `yaml:"timeout_ms"` // 0 = caller deadline only
}

// HealthConfig bounds the index ping behind GET /health.
type HealthConfig struct {
	TimeoutMs int `yaml:"timeout_ms"`
}

// SeedConfig controls loading of the sample listings.
type SeedConfig struct {
	Enabled     bool `yaml:"enabled"`
	Concurrency int  `yaml:"concurrency"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	// .env is optional; real environment variables take precedence
	_ = godotenv.Load()

	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return Parse(data)
}

// Parse decodes YAML config bytes, expanding ${VAR} references, then applies defaults and validates.
func Parse(data []byte) (Config, error) {
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

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.HTTP.RateLimitRPS > 0 && c.HTTP.RateLimitBurst <= 0 {
		c.HTTP.RateLimitBurst = int(c.HTTP.RateLimitRPS) + 1
	}
	if c.Index.Driver == "" {
		c.Index.Driver = DriverBleve
	}
	if c.Index.Name == "" {
		c.Index.Name = "businesses"
	}
	if c.Index.ReadinessTimeout <= 0 {
		c.Index.ReadinessTimeout = 10
	}
	if c.Index.Redis.KeyPrefix == "" {
		c.Index.Redis.KeyPrefix = "bizdex:"
	}
	if c.Search.DefaultPageSize <= 0 {
		c.Search.DefaultPageSize = 10
	}
	if c.Search.MaxPageSize <= 0 {
		c.Search.MaxPageSize = 100
	}
	if c.Health.TimeoutMs <= 0 {
		c.Health.TimeoutMs = 2000
	}
	if c.Seed.Concurrency <= 0 {
		c.Seed.Concurrency = 4
	}
	if c.Logging.File != "" {
		if c.Logging.MaxSizeMB <= 0 {
			c.Logging.MaxSizeMB = 10
		}
		if c.Logging.MaxBackups <= 0 {
			c.Logging.MaxBackups = 7
		}
		if c.Logging.MaxAgeDays <= 0 {
			c.Logging.MaxAgeDays = 28
		}
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.HTTP.RateLimitRPS < 0 {
		return fmt.Errorf("http.rate_limit_rps must not be negative, got %v", c.HTTP.RateLimitRPS)
	}
	switch c.Index.Driver {
	case DriverRedis:
		if len(c.Index.Redis.Addrs) == 0 {
			return fmt.Errorf("index.redis.addrs is required")
		}
	case DriverElasticsearch:
		if len(c.Index.Elasticsearch.Addresses) == 0 {
			return fmt.Errorf("index.elasticsearch.addresses is required")
		}
	case DriverOpenSearch:
		if len(c.Index.OpenSearch.Addresses) == 0 {
			return fmt.Errorf("index.opensearch.addresses is required")
		}
	case DriverBleve:
		// ok
	default:
		return fmt.Errorf("index.driver must be one of redis, elasticsearch, opensearch, bleve, got %q", c.Index.Driver)
	}
	if c.Search.DefaultPageSize > c.Search.MaxPageSize {
		return fmt.Errorf(
			"search.default_page_size (%d) must not exceed search.max_page_size (%d)",
			c.Search.DefaultPageSize, c.Search.MaxPageSize,
		)
	}
	if c.Search.TimeoutMs < 0 {
		return fmt.Errorf("search.timeout_ms must not be negative, got %d", c.Search.TimeoutMs)
	}
	if c.Health.TimeoutMs < 0 {
		return fmt.Errorf("health.timeout_ms must not be negative, got %d", c.Health.TimeoutMs)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
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
