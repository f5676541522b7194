// Package listing implements the listing index on Redis Stack (RediSearch over RedisJSON).
package listing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/kailas-cloud/bizdex/internal/db"
	"github.com/kailas-cloud/bizdex/internal/domain"
	domlisting "github.com/kailas-cloud/bizdex/internal/domain/listing"
	"github.com/kailas-cloud/bizdex/internal/domain/search/plan"
	"github.com/kailas-cloud/bizdex/internal/domain/search/result"
)

// distAlias is the FT.AGGREGATE property holding the geodistance in meters.
const distAlias = "dist"

// store is the consumer interface for listing documents (ISP).
type store interface {
	db.Pinger
	JSONSet(ctx context.Context, key, path string, data []byte) error
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)
	JSONGetMulti(ctx context.Context, keys []string) ([][]byte, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
	Search(ctx context.Context, q *db.SearchQuery) (*db.SearchResult, error)
	Aggregate(ctx context.Context, q *db.AggregateQuery) ([]map[string]string, error)
	SearchCount(ctx context.Context, index, query string) (int, error)
}

// Repo implements usecase/listing.Index on Redis.
type Repo struct {
	store     store
	keyPrefix string
	indexName string
}

// New creates a listing repository. Keys are <namespace>listing:<id>.
func New(s store, namespace string) *Repo {
	if namespace == "" {
		namespace = domain.KeyPrefix
	}
	return &Repo{
		store:     s,
		keyPrefix: namespace + "listing:",
		indexName: namespace + "listing:idx",
	}
}

// EnsureIndex creates the FT index if it does not exist yet.
// Concurrent starters racing past the FT.INFO probe are settled by ErrIndexExists.
func (r *Repo) EnsureIndex(ctx context.Context) error {
	exists, err := r.store.IndexExists(ctx, r.indexName)
	if err != nil {
		return fmt.Errorf("probe index %s: %w", r.indexName, err)
	}
	if exists {
		return nil
	}

	def, err := buildIndex(r.indexName, r.keyPrefix)
	if err != nil {
		return fmt.Errorf("build index %s: %w", r.indexName, err)
	}
	if err := r.store.CreateIndex(ctx, def); err != nil && !errors.Is(err, db.ErrIndexExists) {
		return fmt.Errorf("create index %s: %w", r.indexName, err)
	}
	return nil
}

// Save writes the listing document, replacing any previous version.
func (r *Repo) Save(ctx context.Context, l *domlisting.Listing) error {
	data, err := json.Marshal(buildJSONDoc(l))
	if err != nil {
		return fmt.Errorf("marshal listing: %w", err)
	}
	key := r.key(l.ID())
	if err := r.store.JSONSet(ctx, key, "$", data); err != nil {
		return fmt.Errorf("json.set %s: %w", key, err)
	}
	return nil
}

// Get returns a listing by id or domain.ErrNotFound.
func (r *Repo) Get(ctx context.Context, id string) (domlisting.Listing, error) {
	key := r.key(id)
	raw, err := r.store.JSONGet(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domlisting.Listing{}, domain.ErrNotFound
		}
		return domlisting.Listing{}, fmt.Errorf("json.get %s: %w", key, err)
	}
	return decodeListing(raw)
}

// Count returns the number of indexed listings.
func (r *Repo) Count(ctx context.Context) (int, error) {
	n, err := r.store.SearchCount(ctx, r.indexName, db.MatchAllQuery)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", r.indexName, err)
	}
	return n, nil
}

// Ping checks Redis connectivity.
func (r *Repo) Ping(ctx context.Context) error {
	return r.store.Ping(ctx)
}

// Execute runs a search plan.
func (r *Repo) Execute(ctx context.Context, p plan.Plan) (result.RawPage, error) {
	if p.Size <= 0 {
		return result.RawPage{Hits: []result.Hit{}}, nil
	}
	clauses := planClauses(p)
	if p.Sort.Kind == plan.SortDistance && p.Sort.Origin != nil {
		return r.executeByDistance(ctx, p, clauses)
	}
	return r.executeByRelevance(ctx, p, clauses)
}

// executeByRelevance pages through FT.SEARCH by score. Plans without text score
// every hit alike, so they page in id order instead.
func (r *Repo) executeByRelevance(ctx context.Context, p plan.Plan, clauses []string) (result.RawPage, error) {
	q := &db.SearchQuery{
		IndexName:  r.indexName,
		Query:      db.And(clauses...),
		Offset:     p.Offset(),
		Limit:      p.Size,
		WithScores: true,
		NoContent:  true,
	}
	if p.Text == nil {
		q.SortBy = plan.FieldID
	}

	sr, err := r.store.Search(ctx, q)
	if err != nil {
		return result.RawPage{}, fmt.Errorf("search %s: %w", r.indexName, err)
	}

	keys := make([]string, len(sr.Entries))
	for i, e := range sr.Entries {
		keys[i] = e.Key
	}
	listings, err := r.hydrate(ctx, keys)
	if err != nil {
		return result.RawPage{}, err
	}

	hits := make([]result.Hit, 0, len(listings))
	for i, l := range listings {
		if l == nil {
			continue
		}
		hits = append(hits, result.Hit{Listing: *l, Score: sr.Entries[i].Score})
	}
	return result.RawPage{Hits: hits, Total: sr.Total}, nil
}

// executeByDistance orders located listings by geodistance via FT.AGGREGATE, then
// appends listings without a location in id order. Pages straddling the boundary
// take the tail of the located run and the head of the unlocated one.
func (r *Repo) executeByDistance(ctx context.Context, p plan.Plan, clauses []string) (result.RawPage, error) {
	origin := p.Sort.Origin
	locatedQuery := withLocationTag(clauses, locatedTag)

	located, err := r.store.SearchCount(ctx, r.indexName, locatedQuery)
	if err != nil {
		return result.RawPage{}, fmt.Errorf("count located %s: %w", r.indexName, err)
	}

	// a geo clause already excludes listings without a location
	unlocatedQuery := ""
	unlocated := 0
	if p.Geo == nil {
		unlocatedQuery = withLocationTag(clauses, unlocatedTag)
		unlocated, err = r.store.SearchCount(ctx, r.indexName, unlocatedQuery)
		if err != nil {
			return result.RawPage{}, fmt.Errorf("count unlocated %s: %w", r.indexName, err)
		}
	}

	offset := p.Offset()
	keys := make([]string, 0, p.Size)
	dists := make([]*float64, 0, p.Size)

	if offset < located {
		rows, err := r.store.Aggregate(ctx, &db.AggregateQuery{
			IndexName: r.indexName,
			Query:     locatedQuery,
			Load:      []string{plan.FieldID, plan.FieldLocation},
			Apply: []db.Projection{{
				Expr:  fmt.Sprintf("geodistance(@%s,%s)", plan.FieldLocation, origin.String()),
				Alias: distAlias,
			}},
			SortBy: []db.SortKey{{Field: distAlias}, {Field: plan.FieldID}},
			Offset: offset,
			Limit:  p.Size,
		})
		if err != nil {
			return result.RawPage{}, fmt.Errorf("aggregate %s: %w", r.indexName, err)
		}
		for _, row := range rows {
			id := row[plan.FieldID]
			if id == "" {
				continue
			}
			keys = append(keys, r.key(id))
			dists = append(dists, metersToKm(row[distAlias]))
		}
	}

	if remaining := p.Size - len(keys); remaining > 0 && unlocated > 0 {
		sr, err := r.store.Search(ctx, &db.SearchQuery{
			IndexName: r.indexName,
			Query:     unlocatedQuery,
			Offset:    max(0, offset-located),
			Limit:     remaining,
			SortBy:    plan.FieldID,
			NoContent: true,
		})
		if err != nil {
			return result.RawPage{}, fmt.Errorf("search unlocated %s: %w", r.indexName, err)
		}
		for _, e := range sr.Entries {
			keys = append(keys, e.Key)
			dists = append(dists, nil)
		}
	}

	listings, err := r.hydrate(ctx, keys)
	if err != nil {
		return result.RawPage{}, err
	}

	hits := make([]result.Hit, 0, len(listings))
	for i, l := range listings {
		if l == nil {
			continue
		}
		hits = append(hits, result.Hit{Listing: *l, DistanceKm: dists[i]})
	}
	return result.RawPage{Hits: hits, Total: located + unlocated}, nil
}

// hydrate loads documents for keys, keeping positions. Keys deleted since the
// search yield nil entries.
func (r *Repo) hydrate(ctx context.Context, keys []string) ([]*domlisting.Listing, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	docs, err := r.store.JSONGetMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("hydrate %d listings: %w", len(keys), err)
	}
	out := make([]*domlisting.Listing, len(keys))
	for i, raw := range docs {
		if raw == nil {
			continue
		}
		l, err := decodeListing(raw)
		if err != nil {
			return nil, err
		}
		out[i] = &l
	}
	return out, nil
}

func (r *Repo) key(id string) string {
	return r.keyPrefix + id
}

func decodeListing(raw []byte) (domlisting.Listing, error) {
	var d jsonDoc
	if err := json.Unmarshal(raw, &d); err != nil {
		return domlisting.Listing{}, fmt.Errorf("decode listing: %w", err)
	}
	return d.toListing()
}

func metersToKm(s string) *float64 {
	m, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	km := m / 1000
	return &km
}
