package config

import (
	"strings"
	"testing"
)

func TestValidate_InvalidPort(t *testing.T) {
	cfg := Config{
		HTTP:  HTTPConfig{Port: 0},
		Index: IndexConfig{Driver: DriverBleve},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_UnknownDriver(t *testing.T) {
	cfg := Config{
		HTTP:  HTTPConfig{Port: 8080},
		Index: IndexConfig{Driver: "solr"},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for unknown driver")
	}

	expected := `index.driver must be one of redis, elasticsearch, opensearch, bleve, got "solr"`
	if err.Error() != expected {
		t.Errorf("unexpected error message:\ngot:  %q\nwant: %q", err.Error(), expected)
	}
}

func TestValidate_DriverAddresses(t *testing.T) {
	tests := []struct {
		name   string
		index  IndexConfig
		hasErr bool
	}{
		{"redis without addrs", IndexConfig{Driver: DriverRedis}, true},
		{"redis with addrs", IndexConfig{Driver: DriverRedis, Redis: RedisConfig{Addrs: []string{"localhost:6379"}}}, false},
		{"elasticsearch without addresses", IndexConfig{Driver: DriverElasticsearch}, true},
		{
			"elasticsearch with addresses",
			IndexConfig{Driver: DriverElasticsearch, Elasticsearch: ClusterConfig{Addresses: []string{"http://es:9200"}}},
			false,
		},
		{"opensearch without addresses", IndexConfig{Driver: DriverOpenSearch}, true},
		{
			"opensearch with addresses",
			IndexConfig{Driver: DriverOpenSearch, OpenSearch: ClusterConfig{Addresses: []string{"https://os:9200"}}},
			false,
		},
		{"bleve needs nothing", IndexConfig{Driver: DriverBleve}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{HTTP: HTTPConfig{Port: 8080}, Index: tt.index}
			cfg.Search = SearchConfig{DefaultPageSize: 10, MaxPageSize: 100}
			err := cfg.Validate()
			if tt.hasErr && err == nil {
				t.Fatal("expected error")
			}
			if !tt.hasErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidate_PageSizes(t *testing.T) {
	cfg := Config{
		HTTP:   HTTPConfig{Port: 8080},
		Index:  IndexConfig{Driver: DriverBleve},
		Search: SearchConfig{DefaultPageSize: 50, MaxPageSize: 20},
	}

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when default page size exceeds max")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 10 {
		t.Errorf("expected WriteTimeoutSec=10, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("expected ShutdownSec=10, got %d", cfg.HTTP.ShutdownSec)
	}
	if cfg.Index.Driver != DriverBleve {
		t.Errorf("expected Driver=bleve, got %q", cfg.Index.Driver)
	}
	if cfg.Index.Name != "businesses" {
		t.Errorf("expected Name=businesses, got %q", cfg.Index.Name)
	}
	if cfg.Index.ReadinessTimeout != 10 {
		t.Errorf("expected ReadinessTimeout=10, got %d", cfg.Index.ReadinessTimeout)
	}
	if cfg.Index.Redis.KeyPrefix != "bizdex:" {
		t.Errorf("expected KeyPrefix='bizdex:', got %q", cfg.Index.Redis.KeyPrefix)
	}
	if cfg.Search.DefaultPageSize != 10 {
		t.Errorf("expected DefaultPageSize=10, got %d", cfg.Search.DefaultPageSize)
	}
	if cfg.Search.MaxPageSize != 100 {
		t.Errorf("expected MaxPageSize=100, got %d", cfg.Search.MaxPageSize)
	}
	if cfg.Seed.Concurrency != 4 {
		t.Errorf("expected Concurrency=4, got %d", cfg.Seed.Concurrency)
	}
	if cfg.Health.TimeoutMs != 2000 {
		t.Errorf("expected health TimeoutMs=2000, got %d", cfg.Health.TimeoutMs)
	}
	if cfg.HTTP.RateLimitBurst != 0 {
		t.Errorf("expected no burst without rate limit, got %d", cfg.HTTP.RateLimitBurst)
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		HTTP:   HTTPConfig{ReadTimeoutSec: 30, WriteTimeoutSec: 60, ShutdownSec: 5, RateLimitRPS: 5, RateLimitBurst: 2},
		Index:  IndexConfig{Driver: DriverRedis, Name: "shops", Redis: RedisConfig{KeyPrefix: "custom:"}},
		Search: SearchConfig{DefaultPageSize: 25, MaxPageSize: 50},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 30 {
		t.Errorf("expected ReadTimeoutSec=30, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 60 {
		t.Errorf("expected WriteTimeoutSec=60, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.HTTP.RateLimitBurst != 2 {
		t.Errorf("expected RateLimitBurst=2, got %d", cfg.HTTP.RateLimitBurst)
	}
	if cfg.Index.Driver != DriverRedis {
		t.Errorf("expected Driver=redis, got %q", cfg.Index.Driver)
	}
	if cfg.Index.Name != "shops" {
		t.Errorf("expected Name=shops, got %q", cfg.Index.Name)
	}
	if cfg.Index.Redis.KeyPrefix != "custom:" {
		t.Errorf("expected KeyPrefix='custom:', got %q", cfg.Index.Redis.KeyPrefix)
	}
	if cfg.Search.MaxPageSize != 50 {
		t.Errorf("expected MaxPageSize=50, got %d", cfg.Search.MaxPageSize)
	}
}

func TestHealthTimeout(t *testing.T) {
	cfg := Config{Index: IndexConfig{ReadinessTimeout: 30}, Health: HealthConfig{TimeoutMs: 750}}
	cfg.ApplyDefaults()
	if cfg.Health.TimeoutMs != 750 {
		t.Errorf("expected health TimeoutMs=750, got %d", cfg.Health.TimeoutMs)
	}

	cfg.HTTP.Port = 8080
	cfg.Health.TimeoutMs = -1
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for negative health.timeout_ms")
	}
}

func TestApplyDefaults_RateLimitBurst(t *testing.T) {
	cfg := Config{HTTP: HTTPConfig{RateLimitRPS: 20}}
	cfg.ApplyDefaults()

	if cfg.HTTP.RateLimitBurst != 21 {
		t.Errorf("expected RateLimitBurst=21, got %d", cfg.HTTP.RateLimitBurst)
	}
}

func TestApplyDefaults_LogRotation(t *testing.T) {
	cfg := Config{Logging: LoggingConfig{File: "logs/bizdex.log"}}
	cfg.ApplyDefaults()

	if cfg.Logging.MaxSizeMB != 10 || cfg.Logging.MaxBackups != 7 || cfg.Logging.MaxAgeDays != 28 {
		t.Errorf("unexpected rotation defaults: %+v", cfg.Logging)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("BIZDEX_TEST_HOST", "es.internal")

	got := string(expandEnvVars([]byte("a: ${BIZDEX_TEST_HOST}\nb: ${BIZDEX_TEST_MISSING:-fallback}\nc: ${BIZDEX_TEST_MISSING}")))
	want := "a: es.internal\nb: fallback\nc: "
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestParse(t *testing.T) {
	t.Setenv("BIZDEX_TEST_DRIVER", "elasticsearch")

	data := []byte(`
http:
  port: 9090
index:
  driver: ${BIZDEX_TEST_DRIVER}
  elasticsearch:
    addresses: ["http://localhost:9200"]
search:
  timeout_ms: 1500
`)

	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTP.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.HTTP.Port)
	}
	if cfg.Index.Driver != DriverElasticsearch {
		t.Errorf("expected elasticsearch driver, got %q", cfg.Index.Driver)
	}
	if cfg.Search.TimeoutMs != 1500 {
		t.Errorf("expected timeout 1500, got %d", cfg.Search.TimeoutMs)
	}
	if cfg.Search.DefaultPageSize != 10 {
		t.Errorf("expected default page size 10, got %d", cfg.Search.DefaultPageSize)
	}
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte("http:\n  port: 0\n"))
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "invalid config") {
		t.Errorf("expected wrapped validation error, got %v", err)
	}
}

func TestLoad_LocalConfig(t *testing.T) {
	t.Setenv("INDEX_DRIVER", "")
	cfg, err := Load("local")
	if err != nil {
		t.Fatalf("load local config: %v", err)
	}
	if cfg.Index.Driver != DriverBleve {
		t.Errorf("expected bleve driver for local, got %q", cfg.Index.Driver)
	}
	if !cfg.Seed.Enabled {
		t.Error("expected seeding enabled for local")
	}
}
