package bizdex

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Backend drivers.
const (
	driverBleve         = "bleve"
	driverRedis         = "redis"
	driverElasticsearch = "elasticsearch"
	driverOpenSearch    = "opensearch"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	driver    string
	addrs     []string
	username  string
	password  string
	path      string
	index     string
	keyPrefix string
	insecure  bool

	readinessTimeout time.Duration
	searchTimeout    time.Duration
	seed             bool

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithBleve uses an embedded bleve index stored at path. An empty path keeps it in memory.
func WithBleve(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverBleve
		c.path = path
	})
}

// WithRedis connects to Redis Stack (RediSearch and RedisJSON).
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverRedis
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithElasticsearch connects to an Elasticsearch cluster.
func WithElasticsearch(addresses []string, username, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverElasticsearch
		c.addrs = addresses
		c.username = username
		c.password = password
	})
}

// WithOpenSearch connects to an OpenSearch cluster.
func WithOpenSearch(addresses []string, username, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverOpenSearch
		c.addrs = addresses
		c.username = username
		c.password = password
	})
}

// WithInsecureTLS skips certificate verification for Elasticsearch/OpenSearch.
func WithInsecureTLS() Option {
	return optionFunc(func(c *clientConfig) {
		c.insecure = true
	})
}

// WithIndexName sets the Elasticsearch/OpenSearch index name. Default: businesses.
func WithIndexName(name string) Option {
	return optionFunc(func(c *clientConfig) {
		c.index = name
	})
}

// WithKeyPrefix sets the Redis key namespace. Default: bizdex:.
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keyPrefix = prefix
	})
}

// WithReadinessTimeout bounds the initial wait for the backend. Default: 10s.
func WithReadinessTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.readinessTimeout = d
	})
}

// WithSearchTimeout bounds each search. Zero leaves the caller deadline as the only limit.
func WithSearchTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.searchTimeout = d
	})
}

// WithSamples loads the bundled Bengaluru listings when the index is empty.
func WithSamples() Option {
	return optionFunc(func(c *clientConfig) {
		c.seed = true
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
