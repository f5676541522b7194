// Package elastic implements the listing index on Elasticsearch 8.
package elastic

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

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

// Repo implements usecase/listing.Index on an Elasticsearch index.
type Repo struct {
	es    *elasticsearch.Client
	index string
}

// NewClient creates an Elasticsearch client.
func NewClient(cfg Config) (*elasticsearch.Client, error) {
	if len(cfg.Addresses) == 0 {
		return nil, fmt.Errorf("addresses is required")
	}
	esCfg := elasticsearch.Config{
		Addresses: cfg.Addresses,
		Username:  cfg.Username,
		Password:  cfg.Password,
	}
	if cfg.InsecureSkipVerify {
		esCfg.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, //nolint:gosec // opt-in for self-signed dev clusters
		}
	}
	es, err := elasticsearch.NewClient(esCfg)
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}
	return es, nil
}

// New creates a listing repository over the named index.
func New(es *elasticsearch.Client, index string) *Repo {
	return &Repo{es: es, index: index}
}

// EnsureIndex creates the index with the listing mapping if it does not exist.
func (r *Repo) EnsureIndex(ctx context.Context) error {
	res, err := r.es.Indices.Exists([]string{r.index}, r.es.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("check index %s: %w", r.index, err)
	}
	_ = res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}
	if res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("check index %s: %s", r.index, res.Status())
	}

	body, err := json.Marshal(dsl.Mapping())
	if err != nil {
		return fmt.Errorf("marshal mapping: %w", err)
	}
	res, err = r.es.Indices.Create(r.index,
		r.es.Indices.Create.WithContext(ctx),
		r.es.Indices.Create.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return fmt.Errorf("create index %s: %w", r.index, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		msg := readBody(res)
		// lost a creation race with another instance
		if strings.Contains(msg, "resource_already_exists_exception") {
			return nil
		}
		return fmt.Errorf("create index %s: %s: %s", r.index, res.Status(), msg)
	}
	return nil
}

// Save indexes the listing and waits until it is searchable.
func (r *Repo) Save(ctx context.Context, l *domlisting.Listing) error {
	body, err := json.Marshal(dto.FromListing(l))
	if err != nil {
		return fmt.Errorf("marshal listing: %w", err)
	}
	res, err := r.es.Index(r.index, bytes.NewReader(body),
		r.es.Index.WithContext(ctx),
		r.es.Index.WithDocumentID(l.ID()),
		r.es.Index.WithRefresh("wait_for"),
	)
	if err != nil {
		return fmt.Errorf("index listing %s: %w", l.ID(), err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return responseError("index listing "+l.ID(), res)
	}
	return nil
}

// Get returns a listing by id or domain.ErrNotFound.
func (r *Repo) Get(ctx context.Context, id string) (domlisting.Listing, error) {
	res, err := r.es.Get(r.index, id, r.es.Get.WithContext(ctx))
	if err != nil {
		return domlisting.Listing{}, fmt.Errorf("get listing %s: %w", id, err)
	}
	defer res.Body.Close()
	if res.StatusCode == http.StatusNotFound {
		return domlisting.Listing{}, domain.ErrNotFound
	}
	if res.IsError() {
		return domlisting.Listing{}, responseError("get listing "+id, res)
	}

	var doc struct {
		Source dto.Document `json:"_source"`
	}
	if err := json.NewDecoder(res.Body).Decode(&doc); err != nil {
		return domlisting.Listing{}, fmt.Errorf("decode listing %s: %w", id, err)
	}
	return doc.Source.ToListing(), nil
}

// Count returns the number of documents in the index.
func (r *Repo) Count(ctx context.Context) (int, error) {
	res, err := r.es.Count(r.es.Count.WithContext(ctx), r.es.Count.WithIndex(r.index))
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", r.index, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, responseError("count "+r.index, res)
	}
	var body struct {
		Count int `json:"count"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("decode count: %w", err)
	}
	return body.Count, nil
}

// Ping checks cluster reachability.
func (r *Repo) Ping(ctx context.Context) error {
	res, err := r.es.Ping(r.es.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("ping: %s", res.Status())
	}
	return nil
}

// Execute runs a search plan.
func (r *Repo) Execute(ctx context.Context, p plan.Plan) (result.RawPage, error) {
	body, err := json.Marshal(dsl.SearchBody(p))
	if err != nil {
		return result.RawPage{}, fmt.Errorf("marshal query: %w", err)
	}
	res, err := r.es.Search(
		r.es.Search.WithContext(ctx),
		r.es.Search.WithIndex(r.index),
		r.es.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return result.RawPage{}, fmt.Errorf("search %s: %w", r.index, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return result.RawPage{}, responseError("search "+r.index, res)
	}

	var sr dsl.SearchResponse
	if err := json.NewDecoder(res.Body).Decode(&sr); err != nil {
		return result.RawPage{}, fmt.Errorf("decode search response: %w", err)
	}
	return dsl.Decode(&sr, p)
}

func responseError(op string, res *esapi.Response) error {
	return fmt.Errorf("%s: %s: %s", op, res.Status(), readBody(res))
}

func readBody(res *esapi.Response) string {
	body, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
	return strings.TrimSpace(string(body))
}
