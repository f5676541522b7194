package redis

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/bizdex/internal/db"
)

var _ db.Store = (*Store)(nil)

const (
	defaultClientName  = "bizdex"
	defaultDialTimeout = 5 * time.Second

	readyPollStart = 50 * time.Millisecond
	readyPollMax   = time.Second
)

// Config holds connection parameters for a Redis Stack deployment.
type Config struct {
	Addrs       []string
	Password    string
	ClientName  string
	DialTimeout time.Duration
}

// Store talks to Redis Stack (RediSearch + RedisJSON) through rueidis.
type Store struct {
	client rueidis.Client
}

// NewStore dials Redis. The client cache is off since listings are read through FT.SEARCH.
func NewStore(cfg Config) (*Store, error) {
	if len(cfg.Addrs) == 0 {
		return nil, fmt.Errorf("addrs is required")
	}
	if cfg.ClientName == "" {
		cfg.ClientName = defaultClientName
	}
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = defaultDialTimeout
	}

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  cfg.Addrs,
		Password:     cfg.Password,
		ClientName:   cfg.ClientName,
		Dialer:       net.Dialer{Timeout: cfg.DialTimeout},
		DisableCache: true,
		AlwaysRESP2:  true, // FT.SEARCH / FT.AGGREGATE replies are parsed as RESP2 arrays
	})
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return &Store{client: client}, nil
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.do(ctx, s.b().Ping().Build()).Error(); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Close shuts down the client.
func (s *Store) Close() {
	s.client.Close()
}

// WaitForReady pings with a doubling interval until Redis answers or timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	interval := readyPollStart
	var lastErr error
	for {
		if lastErr = s.Ping(ctx); lastErr == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("redis not ready after %s: %w", timeout, lastErr)
		case <-time.After(interval):
		}
		interval = min(interval*2, readyPollMax)
	}
}

func (s *Store) do(ctx context.Context, cmd rueidis.Completed) rueidis.RedisResult {
	return s.client.Do(ctx, cmd)
}

func (s *Store) b() rueidis.Builder {
	return s.client.B()
}

// isRedisErr reports whether err is a server error whose message contains substr, ignoring case.
func isRedisErr(err error, substr string) bool {
	re, ok := rueidis.IsRedisErr(err)
	if !ok {
		return false
	}
	return strings.Contains(strings.ToLower(re.Error()), strings.ToLower(substr))
}
