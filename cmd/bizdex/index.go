package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/bizdex/internal/config"
	dbRedis "github.com/kailas-cloud/bizdex/internal/db/redis"
	bleverepo "github.com/kailas-cloud/bizdex/internal/repository/bleve"
	elasticrepo "github.com/kailas-cloud/bizdex/internal/repository/elastic"
	listingrepo "github.com/kailas-cloud/bizdex/internal/repository/listing"
	opensearchrepo "github.com/kailas-cloud/bizdex/internal/repository/opensearch"
	listinguc "github.com/kailas-cloud/bizdex/internal/usecase/listing"
)

// openIndex builds the configured backend, waits for it, bootstraps its schema
// and wraps it with metrics. The returned func releases the backend.
func openIndex(ctx context.Context, cfg config.IndexConfig, logger *zap.Logger) (listinguc.Index, func(), error) {
	var (
		index   listinguc.Index
		closeFn = func() {}
		err     error
	)

	switch cfg.Driver {
	case config.DriverRedis:
		index, closeFn, err = openRedis(ctx, cfg)
	case config.DriverElasticsearch:
		index, err = openElasticsearch(ctx, cfg)
	case config.DriverOpenSearch:
		index, err = openOpenSearch(ctx, cfg)
	case config.DriverBleve:
		index, closeFn, err = openBleve(cfg)
	default:
		err = fmt.Errorf("unknown index driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, nil, err
	}

	logger.Info("Index ready", zap.String("driver", cfg.Driver), zap.String("name", cfg.Name))
	return listinguc.NewInstrumentedIndex(index, cfg.Driver, logger), closeFn, nil
}

func openRedis(ctx context.Context, cfg config.IndexConfig) (listinguc.Index, func(), error) {
	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Redis.Addrs,
		Password: cfg.Redis.Password,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("create redis store: %w", err)
	}
	if err := store.WaitForReady(ctx, readiness(cfg)); err != nil {
		store.Close()
		return nil, nil, fmt.Errorf("redis not ready: %w", err)
	}

	repo := listingrepo.New(store, cfg.Redis.KeyPrefix)
	if err := repo.EnsureIndex(ctx); err != nil {
		store.Close()
		return nil, nil, fmt.Errorf("bootstrap redis index: %w", err)
	}
	return repo, store.Close, nil
}

func openElasticsearch(ctx context.Context, cfg config.IndexConfig) (listinguc.Index, error) {
	client, err := elasticrepo.NewClient(elasticrepo.Config{
		Addresses:          cfg.Elasticsearch.Addresses,
		Username:           cfg.Elasticsearch.Username,
		Password:           cfg.Elasticsearch.Password,
		InsecureSkipVerify: cfg.Elasticsearch.InsecureSkipVerify,
	})
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}

	repo := elasticrepo.New(client, cfg.Name)
	if err := waitForReady(ctx, repo, readiness(cfg)); err != nil {
		return nil, fmt.Errorf("elasticsearch not ready: %w", err)
	}
	if err := repo.EnsureIndex(ctx); err != nil {
		return nil, fmt.Errorf("bootstrap elasticsearch index: %w", err)
	}
	return repo, nil
}

func openOpenSearch(ctx context.Context, cfg config.IndexConfig) (listinguc.Index, error) {
	client, err := opensearchrepo.NewClient(opensearchrepo.Config{
		Addresses:          cfg.OpenSearch.Addresses,
		Username:           cfg.OpenSearch.Username,
		Password:           cfg.OpenSearch.Password,
		InsecureSkipVerify: cfg.OpenSearch.InsecureSkipVerify,
	})
	if err != nil {
		return nil, fmt.Errorf("create opensearch client: %w", err)
	}

	repo := opensearchrepo.New(client, cfg.Name)
	if err := waitForReady(ctx, repo, readiness(cfg)); err != nil {
		return nil, fmt.Errorf("opensearch not ready: %w", err)
	}
	if err := repo.EnsureIndex(ctx); err != nil {
		return nil, fmt.Errorf("bootstrap opensearch index: %w", err)
	}
	return repo, nil
}

func openBleve(cfg config.IndexConfig) (listinguc.Index, func(), error) {
	repo, err := bleverepo.Open(cfg.Bleve.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("open bleve index: %w", err)
	}
	return repo, func() { _ = repo.Close() }, nil
}

type pinger interface {
	Ping(ctx context.Context) error
}

// waitForReady polls Ping until the backend responds or timeout expires.
func waitForReady(ctx context.Context, p pinger, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	for {
		if err := p.Ping(ctx); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for index: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}

func readiness(cfg config.IndexConfig) time.Duration {
	return time.Duration(cfg.ReadinessTimeout) * time.Second
}
