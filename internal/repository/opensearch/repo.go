// Package opensearch implements the listing index on OpenSearch 2.x.
package opensearch

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	opensearch "github.com/opensearch-project/opensearch-go/v4"
	"github.com/opensearch-project/opensearch-go/v4/opensearchapi"

	"github.com/kailas-cloud/bizdex/internal/domain"
	domlisting "github.com/kailas-cloud/bizdex/internal/domain/listing"
	"github.com/kailas-cloud/bizdex/internal/domain/search/plan"
	"github.com/kailas-cloud/bizdex/internal/domain/search/result"
	"github.com/kailas-cloud/bizdex/internal/repository/dsl"
	"github.com/kailas-cloud/bizdex/internal/repository/dto"
)

// Config holds cluster connection settings.
type Config struct {
	Addresses          []string
	Username           string
	Password           string
	InsecureSkipVerify bool
}

// Repo implements usecase/listing.Index on an OpenSearch index.
type Repo struct {
	client *opensearchapi.Client
	index  string
}

// NewClient creates an OpenSearch API client.
func NewClient(cfg Config) (*opensearchapi.Client, error) {
	if len(cfg.Addresses) == 0 {
		return nil, fmt.Errorf("addresses is required")
	}
	osCfg := opensearch.Config{
		Addresses: cfg.Addresses,
		Username:  cfg.Username,
		Password:  cfg.Password,
	}
	if cfg.InsecureSkipVerify {
		osCfg.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, //nolint:gosec // opt-in for self-signed dev clusters
		}
	}
	client, err := opensearchapi.NewClient(opensearchapi.Config{Client: osCfg})
	if err != nil {
		return nil, fmt.Errorf("create opensearch client: %w", err)
	}
	return client, nil
}

// New creates a listing repository over the named index.
func New(client *opensearchapi.Client, index string) *Repo {
	return &Repo{client: client, index: index}
}

// EnsureIndex creates the index with the listing mapping; an existing index is kept.
func (r *Repo) EnsureIndex(ctx context.Context) error {
	body, err := json.Marshal(dsl.Mapping())
	if err != nil {
		return fmt.Errorf("marshal mapping: %w", err)
	}
	_, err = r.client.Indices.Create(ctx, opensearchapi.IndicesCreateReq{
		Index: r.index,
		Body:  bytes.NewReader(body),
	})
	if err != nil && !strings.Contains(err.Error(), "resource_already_exists_exception") {
		return fmt.Errorf("create index %s: %w", r.index, err)
	}
	return nil
}

// Save indexes the listing, then refreshes so it is immediately searchable.
func (r *Repo) Save(ctx context.Context, l *domlisting.Listing) error {
	body, err := json.Marshal(dto.FromListing(l))
	if err != nil {
		return fmt.Errorf("marshal listing: %w", err)
	}
	if _, err := r.client.Index(ctx, opensearchapi.IndexReq{
		Index:      r.index,
		DocumentID: l.ID(),
		Body:       bytes.NewReader(body),
	}); err != nil {
		return fmt.Errorf("index listing %s: %w", l.ID(), err)
	}
	if _, err := r.client.Indices.Refresh(ctx, &opensearchapi.IndicesRefreshReq{Indices: []string{r.index}}); err != nil {
		return fmt.Errorf("refresh %s: %w", r.index, err)
	}
	return nil
}

// Get looks the listing up by id or returns domain.ErrNotFound.
func (r *Repo) Get(ctx context.Context, id string) (domlisting.Listing, error) {
	resp, err := r.search(ctx, dsl.Object{
		"query": dsl.Object{"ids": dsl.Object{"values": []string{id}}},
		"size":  1,
	})
	if err != nil {
		return domlisting.Listing{}, fmt.Errorf("get listing %s: %w", id, err)
	}
	if len(resp.Hits.Hits) == 0 {
		return domlisting.Listing{}, domain.ErrNotFound
	}
	var doc dto.Document
	if err := json.Unmarshal(resp.Hits.Hits[0].Source, &doc); err != nil {
		return domlisting.Listing{}, fmt.Errorf("decode listing %s: %w", id, err)
	}
	return doc.ToListing(), nil
}

// Count returns the number of documents in the index.
func (r *Repo) Count(ctx context.Context) (int, error) {
	resp, err := r.search(ctx, dsl.Object{"size": 0, "track_total_hits": true})
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", r.index, err)
	}
	return resp.Hits.Total.Value, nil
}

// Ping checks cluster health reachability.
func (r *Repo) Ping(ctx context.Context) error {
	if _, err := r.client.Cluster.Health(ctx, &opensearchapi.ClusterHealthReq{}); err != nil {
		return fmt.Errorf("cluster health: %w", err)
	}
	return nil
}

// Execute runs a search plan.
func (r *Repo) Execute(ctx context.Context, p plan.Plan) (result.RawPage, error) {
	resp, err := r.search(ctx, dsl.SearchBody(p))
	if err != nil {
		return result.RawPage{}, fmt.Errorf("search %s: %w", r.index, err)
	}

	var sr dsl.SearchResponse
	sr.Hits.Total.Value = resp.Hits.Total.Value
	sr.Hits.Hits = make([]dsl.Hit, 0, len(resp.Hits.Hits))
	for _, h := range resp.Hits.Hits {
		score := float64(h.Score)
		sr.Hits.Hits = append(sr.Hits.Hits, dsl.Hit{ID: h.ID, Score: &score, Source: h.Source})
	}

	page, err := dsl.Decode(&sr, p)
	if err != nil {
		return result.RawPage{}, err
	}
	if p.Sort.Kind == plan.SortDistance && p.Sort.Origin != nil {
		for i := range page.Hits {
			if loc := page.Hits[i].Listing.Location(); loc != nil {
				d := p.Sort.Origin.DistanceKm(*loc)
				page.Hits[i].DistanceKm = &d
			}
		}
	}
	return page, nil
}

func (r *Repo) search(ctx context.Context, body dsl.Object) (*opensearchapi.SearchResp, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal query: %w", err)
	}
	resp, err := r.client.Search(ctx, &opensearchapi.SearchReq{
		Indices: []string{r.index},
		Body:    bytes.NewReader(data),
	})
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, fmt.Errorf("empty response from opensearch")
	}
	return resp, nil
}
