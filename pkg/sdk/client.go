package bizdex

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	dbRedis "github.com/kailas-cloud/bizdex/internal/db/redis"
	domlisting "github.com/kailas-cloud/bizdex/internal/domain/listing"
	"github.com/kailas-cloud/bizdex/internal/domain/search/request"
	"github.com/kailas-cloud/bizdex/internal/domain/search/result"
	bleverepo "github.com/kailas-cloud/bizdex/internal/repository/bleve"
	elasticrepo "github.com/kailas-cloud/bizdex/internal/repository/elastic"
	listingrepo "github.com/kailas-cloud/bizdex/internal/repository/listing"
	opensearchrepo "github.com/kailas-cloud/bizdex/internal/repository/opensearch"
	healthuc "github.com/kailas-cloud/bizdex/internal/usecase/health"
	listinguc "github.com/kailas-cloud/bizdex/internal/usecase/listing"
	seeduc "github.com/kailas-cloud/bizdex/internal/usecase/seed"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultIndexName        = "businesses"
	seedConcurrency         = 4
)

// Internal interfaces, substituted in tests.
type listingUseCase interface {
	Create(ctx context.Context, d domlisting.Draft) (domlisting.Listing, error)
	Get(ctx context.Context, id string) (domlisting.Listing, error)
	Search(ctx context.Context, req request.Request) (result.Page, error)
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// Client is the bizdex SDK entry point.
type Client struct {
	index      listinguc.Index
	closeIndex func()
	listingSvc listingUseCase
	healthSvc  healthUseCase
	obs        *observer
}

// New opens the configured index and wires the listing service.
// The provided context is used for the readiness check, index bootstrap and optional seeding.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		index:            defaultIndexName,
		readinessTimeout: defaultReadinessTimeout,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.driver == "" {
		return nil, errors.New("bizdex: index backend required (use WithBleve, WithRedis, WithElasticsearch or WithOpenSearch)")
	}

	obs, err := newObserver(cfg.driver, cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	index, closeIndex, err := openIndex(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if cfg.seed {
		n, err := seeduc.New(index, seedConcurrency, zap.NewNop()).Run(ctx)
		if err != nil {
			closeIndex()
			return nil, fmt.Errorf("bizdex: seed samples: %w", err)
		}
		if cfg.logger != nil && n > 0 {
			cfg.logger.Info("sample listings loaded", "count", n)
		}
	}

	return &Client{
		index:      index,
		closeIndex: closeIndex,
		listingSvc: listinguc.New(index, cfg.searchTimeout),
		healthSvc:  healthuc.New(index, 0),
		obs:        obs,
	}, nil
}

func openIndex(ctx context.Context, cfg *clientConfig) (listinguc.Index, func(), error) {
	noop := func() {}

	switch cfg.driver {
	case driverBleve:
		repo, err := bleverepo.Open(cfg.path)
		if err != nil {
			return nil, nil, fmt.Errorf("bizdex: open bleve index: %w", err)
		}
		return repo, func() { _ = repo.Close() }, nil

	case driverRedis:
		store, err := dbRedis.NewStore(dbRedis.Config{Addrs: cfg.addrs, Password: cfg.password})
		if err != nil {
			return nil, nil, fmt.Errorf("bizdex: create redis store: %w", err)
		}
		if err := store.WaitForReady(ctx, cfg.readinessTimeout); err != nil {
			store.Close()
			return nil, nil, fmt.Errorf("bizdex: redis not ready: %w", err)
		}
		repo := listingrepo.New(store, cfg.keyPrefix)
		if err := repo.EnsureIndex(ctx); err != nil {
			store.Close()
			return nil, nil, fmt.Errorf("bizdex: bootstrap redis index: %w", err)
		}
		return repo, store.Close, nil

	case driverElasticsearch:
		es, err := elasticrepo.NewClient(elasticrepo.Config{
			Addresses: cfg.addrs, Username: cfg.username, Password: cfg.password, InsecureSkipVerify: cfg.insecure,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("bizdex: create elasticsearch client: %w", err)
		}
		repo := elasticrepo.New(es, cfg.index)
		if err := bootstrap(ctx, repo, cfg.readinessTimeout); err != nil {
			return nil, nil, fmt.Errorf("bizdex: elasticsearch: %w", err)
		}
		return repo, noop, nil

	case driverOpenSearch:
		client, err := opensearchrepo.NewClient(opensearchrepo.Config{
			Addresses: cfg.addrs, Username: cfg.username, Password: cfg.password, InsecureSkipVerify: cfg.insecure,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("bizdex: create opensearch client: %w", err)
		}
		repo := opensearchrepo.New(client, cfg.index)
		if err := bootstrap(ctx, repo, cfg.readinessTimeout); err != nil {
			return nil, nil, fmt.Errorf("bizdex: opensearch: %w", err)
		}
		return repo, noop, nil

	default:
		return nil, nil, fmt.Errorf("bizdex: unknown driver %q", cfg.driver)
	}
}

type clusterIndex interface {
	Ping(ctx context.Context) error
	EnsureIndex(ctx context.Context) error
}

// bootstrap waits for the cluster to answer, then creates the index if missing.
func bootstrap(ctx context.Context, idx clusterIndex, timeout time.Duration) error {
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	for {
		err := idx.Ping(waitCtx)
		if err == nil {
			break
		}
		select {
		case <-waitCtx.Done():
			return fmt.Errorf("not ready: %w", err)
		case <-time.After(250 * time.Millisecond):
		}
	}

	if err := idx.EnsureIndex(ctx); err != nil {
		return fmt.Errorf("ensure index: %w", err)
	}
	return nil
}

// Close releases the index.
func (c *Client) Close() {
	if c.closeIndex != nil {
		c.closeIndex()
	}
}

// Ping checks index connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.index.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Listings returns the listing service.
func (c *Client) Listings() *ListingService {
	return &ListingService{svc: c.listingSvc, obs: c.obs}
}
