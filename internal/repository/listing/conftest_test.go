package listing

import (
	"context"

	"github.com/kailas-cloud/bizdex/internal/db"
	"github.com/kailas-cloud/bizdex/internal/domain/geo"
	domlisting "github.com/kailas-cloud/bizdex/internal/domain/listing"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	pingFn         func(ctx context.Context) error
	jsonSetFn      func(ctx context.Context, key, path string, data []byte) error
	jsonGetFn      func(ctx context.Context, key string, paths ...string) ([]byte, error)
	jsonGetMultiFn func(ctx context.Context, keys []string) ([][]byte, error)
	createIndexFn  func(ctx context.Context, def *db.IndexDefinition) error
	indexExistsFn  func(ctx context.Context, name string) (bool, error)
	searchFn       func(ctx context.Context, q *db.SearchQuery) (*db.SearchResult, error)
	aggregateFn    func(ctx context.Context, q *db.AggregateQuery) ([]map[string]string, error)
	searchCountFn  func(ctx context.Context, index, query string) (int, error)
}

func (m *mockStore) Ping(ctx context.Context) error {
	if m.pingFn != nil {
		return m.pingFn(ctx)
	}
	return nil
}

func (m *mockStore) JSONSet(ctx context.Context, key, path string, data []byte) error {
	if m.jsonSetFn != nil {
		return m.jsonSetFn(ctx, key, path, data)
	}
	return nil
}

func (m *mockStore) JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error) {
	if m.jsonGetFn != nil {
		return m.jsonGetFn(ctx, key, paths...)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockStore) JSONGetMulti(ctx context.Context, keys []string) ([][]byte, error) {
	if m.jsonGetMultiFn != nil {
		return m.jsonGetMultiFn(ctx, keys)
	}
	return make([][]byte, len(keys)), nil
}

func (m *mockStore) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	if m.createIndexFn != nil {
		return m.createIndexFn(ctx, def)
	}
	return nil
}

func (m *mockStore) IndexExists(ctx context.Context, name string) (bool, error) {
	if m.indexExistsFn != nil {
		return m.indexExistsFn(ctx, name)
	}
	return false, nil
}

func (m *mockStore) Search(ctx context.Context, q *db.SearchQuery) (*db.SearchResult, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func (m *mockStore) Aggregate(ctx context.Context, q *db.AggregateQuery) ([]map[string]string, error) {
	if m.aggregateFn != nil {
		return m.aggregateFn(ctx, q)
	}
	return nil, nil
}

func (m *mockStore) SearchCount(ctx context.Context, index, query string) (int, error) {
	if m.searchCountFn != nil {
		return m.searchCountFn(ctx, index, query)
	}
	return 0, nil
}

// docsByKey serves JSONGetMulti from a fixed set of stored documents.
func docsByKey(docs map[string]string) func(context.Context, []string) ([][]byte, error) {
	return func(_ context.Context, keys []string) ([][]byte, error) {
		out := make([][]byte, len(keys))
		for i, k := range keys {
			if d, ok := docs[k]; ok {
				out[i] = []byte(d)
			}
		}
		return out, nil
	}
}

func mustListing(id, name string, loc *geo.Point) domlisting.Listing {
	l, err := domlisting.New(domlisting.Draft{ID: id, Name: name, Location: loc})
	if err != nil {
		panic(err)
	}
	return l
}
