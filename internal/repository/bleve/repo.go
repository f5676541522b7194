// Package bleve implements the listing index on an embedded bleve index.
// An empty path keeps the index in memory, which suits local runs and tests.
package bleve

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/kailas-cloud/bizdex/internal/domain"
	domlisting "github.com/kailas-cloud/bizdex/internal/domain/listing"
	"github.com/kailas-cloud/bizdex/internal/domain/search/plan"
	"github.com/kailas-cloud/bizdex/internal/domain/search/result"
	"github.com/kailas-cloud/bizdex/internal/repository/dto"
)

// sourceField stores the listing JSON for hydration; it is not searchable.
const sourceField = "raw"

// Repo implements usecase/listing.Index on bleve.
type Repo struct {
	idx bleve.Index
}

// Open opens the index at path, creating it when missing. An empty path creates an in-memory index.
func Open(path string) (*Repo, error) {
	m := buildMapping()
	if path == "" {
		idx, err := bleve.NewMemOnly(m)
		if err != nil {
			return nil, fmt.Errorf("create in-memory index: %w", err)
		}
		return &Repo{idx: idx}, nil
	}

	idx, err := bleve.Open(path)
	if errors.Is(err, bleve.ErrorIndexPathDoesNotExist) {
		idx, err = bleve.New(path, m)
	}
	if err != nil {
		return nil, fmt.Errorf("open index %s: %w", path, err)
	}
	return &Repo{idx: idx}, nil
}

// Close releases the index.
func (r *Repo) Close() error {
	return r.idx.Close()
}

func buildMapping() mapping.IndexMapping {
	text := bleve.NewTextFieldMapping()
	text.Analyzer = standard.Name
	text.Store = false

	keyword := bleve.NewKeywordFieldMapping()
	keyword.Store = false

	location := bleve.NewGeoPointFieldMapping()
	location.Store = false

	rating := bleve.NewNumericFieldMapping()
	rating.Store = false

	source := bleve.NewTextFieldMapping()
	source.Index = false
	source.IncludeInAll = false
	source.IncludeTermVectors = false
	source.DocValues = false

	doc := bleve.NewDocumentStaticMapping()
	doc.AddFieldMappingsAt(plan.FieldID, keyword)
	doc.AddFieldMappingsAt(plan.FieldName, text)
	doc.AddFieldMappingsAt(plan.FieldDescription, text)
	doc.AddFieldMappingsAt(plan.FieldCategories, keyword)
	doc.AddFieldMappingsAt(plan.FieldLocation, location)
	doc.AddFieldMappingsAt("rating", rating)
	doc.AddFieldMappingsAt(sourceField, source)

	m := bleve.NewIndexMapping()
	m.DefaultMapping = doc
	m.DefaultAnalyzer = standard.Name
	return m
}

// Save indexes the listing, replacing any previous version.
func (r *Repo) Save(_ context.Context, l *domlisting.Listing) error {
	d := dto.FromListing(l)
	src, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshal listing: %w", err)
	}

	fields := map[string]any{
		plan.FieldID:          d.ID,
		plan.FieldName:        d.Name,
		plan.FieldDescription: d.Description,
		plan.FieldCategories:  d.Categories,
		sourceField:           string(src),
	}
	if d.Location != nil {
		fields[plan.FieldLocation] = map[string]any{"lat": d.Location.Lat, "lon": d.Location.Lon}
	}
	if d.Rating != nil {
		fields["rating"] = *d.Rating
	}

	if err := r.idx.Index(d.ID, fields); err != nil {
		return fmt.Errorf("index listing %s: %w", d.ID, err)
	}
	return nil
}

// Get returns a listing by id or domain.ErrNotFound.
func (r *Repo) Get(ctx context.Context, id string) (domlisting.Listing, error) {
	req := bleve.NewSearchRequestOptions(bleve.NewDocIDQuery([]string{id}), 1, 0, false)
	req.Fields = []string{sourceField}

	res, err := r.idx.SearchInContext(ctx, req)
	if err != nil {
		return domlisting.Listing{}, fmt.Errorf("get listing %s: %w", id, err)
	}
	if len(res.Hits) == 0 {
		return domlisting.Listing{}, domain.ErrNotFound
	}
	return decodeHit(res.Hits[0])
}

// Count returns the number of indexed listings.
func (r *Repo) Count(_ context.Context) (int, error) {
	n, err := r.idx.DocCount()
	if err != nil {
		return 0, fmt.Errorf("doc count: %w", err)
	}
	return int(n), nil
}

// Ping reports whether the index is open.
func (r *Repo) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := r.idx.DocCount(); err != nil {
		return fmt.Errorf("index unavailable: %w", err)
	}
	return nil
}

// Execute runs a search plan.
func (r *Repo) Execute(ctx context.Context, p plan.Plan) (result.RawPage, error) {
	req := bleve.NewSearchRequestOptions(buildQuery(p), p.Size, p.Offset(), false)
	req.Fields = []string{sourceField}

	order, err := sortOrder(p.Sort)
	if err != nil {
		return result.RawPage{}, err
	}
	req.SortByCustom(order)

	res, err := r.idx.SearchInContext(ctx, req)
	if err != nil {
		return result.RawPage{}, fmt.Errorf("search: %w", err)
	}

	hits := make([]result.Hit, 0, len(res.Hits))
	for _, dm := range res.Hits {
		l, err := decodeHit(dm)
		if err != nil {
			return result.RawPage{}, err
		}
		hit := result.Hit{Listing: l, Score: dm.Score}
		if p.Sort.Kind == plan.SortDistance && p.Sort.Origin != nil && l.Location() != nil {
			d := p.Sort.Origin.DistanceKm(*l.Location())
			hit.DistanceKm = &d
		}
		hits = append(hits, hit)
	}
	return result.RawPage{Hits: hits, Total: int(res.Total)}, nil
}

func buildQuery(p plan.Plan) query.Query {
	var clauses []query.Query
	if p.Text != nil {
		clauses = append(clauses, textQuery(p.Text))
	}
	if p.Geo != nil {
		g := bleve.NewGeoDistanceQuery(p.Geo.Center.Lon, p.Geo.Center.Lat,
			strconv.FormatFloat(p.Geo.RadiusKm, 'f', -1, 64)+"km")
		g.SetField(plan.FieldLocation)
		clauses = append(clauses, g)
	}

	switch len(clauses) {
	case 0:
		return bleve.NewMatchAllQuery()
	case 1:
		return clauses[0]
	default:
		return bleve.NewConjunctionQuery(clauses...)
	}
}

func textQuery(t *plan.TextClause) query.Query {
	branches := make([]query.Query, 0, len(t.Fields))
	for _, f := range t.Fields {
		if f.Keyword {
			q := bleve.NewTermQuery(t.Query)
			q.SetField(f.Name)
			branches = append(branches, q)
			continue
		}
		q := bleve.NewMatchQuery(t.Query)
		q.SetField(f.Name)
		branches = append(branches, q)
	}
	return bleve.NewDisjunctionQuery(branches...)
}

// sortOrder ends every ordering on the document id. Listings without a location
// sort after located ones under distance ordering.
func sortOrder(s plan.Sort) (search.SortOrder, error) {
	if s.Kind == plan.SortDistance && s.Origin != nil {
		byDistance, err := search.NewSortGeoDistance(plan.FieldLocation, "km", s.Origin.Lon, s.Origin.Lat, false)
		if err != nil {
			return nil, fmt.Errorf("distance sort: %w", err)
		}
		return search.SortOrder{byDistance, &search.SortDocID{}}, nil
	}
	return search.SortOrder{&search.SortScore{Desc: true}, &search.SortDocID{}}, nil
}

func decodeHit(dm *search.DocumentMatch) (domlisting.Listing, error) {
	src, ok := dm.Fields[sourceField].(string)
	if !ok {
		return domlisting.Listing{}, fmt.Errorf("listing %s: stored source missing", dm.ID)
	}
	var d dto.Document
	if err := json.Unmarshal([]byte(src), &d); err != nil {
		return domlisting.Listing{}, fmt.Errorf("decode listing %s: %w", dm.ID, err)
	}
	return d.ToListing(), nil
}
