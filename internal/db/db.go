package db

import (
	"context"
	"time"
)

// Store is the Redis-side database facade combining all sub-interfaces.
// Consumers depend on the narrow sub-interfaces they need.
type Store interface {
	Pinger
	JSONStore
	IndexManager
	Searcher
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// JSONStore provides JSON document operations.
type JSONStore interface {
	JSONSet(ctx context.Context, key, path string, data []byte) error
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)
	// JSONGetMulti returns one entry per key; missing keys yield nil.
	JSONGetMulti(ctx context.Context, keys []string) ([][]byte, error)
}

// IndexManager provides FT index lifecycle operations.
type IndexManager interface {
	CreateIndex(ctx context.Context, def *IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// Searcher provides search operations over FT indexes.
type Searcher interface {
	Search(ctx context.Context, q *SearchQuery) (*SearchResult, error)
	Aggregate(ctx context.Context, q *AggregateQuery) ([]map[string]string, error)
	SearchCount(ctx context.Context, index, query string) (int, error)
}
