// Package dsl builds Elasticsearch-compatible query DSL bodies from search plans.
// OpenSearch accepts the same bodies.
package dsl

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/kailas-cloud/bizdex/internal/domain/search/plan"
	"github.com/kailas-cloud/bizdex/internal/domain/search/result"
	"github.com/kailas-cloud/bizdex/internal/repository/dto"
)

// Object is a JSON object in the query DSL.
type Object = map[string]any

// SearchBody returns the full _search request body for a plan.
func SearchBody(p plan.Plan) Object {
	return Object{
		"query":            Query(p),
		"from":             p.Offset(),
		"size":             p.Size,
		"sort":             Sort(p.Sort),
		"track_total_hits": true,
	}
}

// Query translates the plan clauses. Text scores; geo only filters.
func Query(p plan.Plan) Object {
	if p.MatchAll() {
		return Object{"match_all": Object{}}
	}

	b := Object{}
	if p.Text != nil {
		b["must"] = []any{textQuery(p.Text)}
	}
	if p.Geo != nil {
		b["filter"] = []any{geoDistance(p.Geo)}
	}
	return Object{"bool": b}
}

func textQuery(t *plan.TextClause) Object {
	should := make([]any, 0, len(t.Fields))
	for _, f := range t.Fields {
		if f.Keyword {
			should = append(should, Object{"term": Object{f.Name: Object{"value": t.Query}}})
			continue
		}
		should = append(should, Object{"match": Object{f.Name: Object{"query": t.Query}}})
	}
	return Object{"bool": Object{"should": should, "minimum_should_match": 1}}
}

func geoDistance(g *plan.GeoClause) Object {
	return Object{"geo_distance": Object{
		"distance":         strconv.FormatFloat(g.RadiusKm, 'f', -1, 64) + "km",
		plan.FieldLocation: Object{"lat": g.Center.Lat, "lon": g.Center.Lon},
	}}
}

// Sort returns the sort clause. Every ordering ends on id for a stable page order.
func Sort(s plan.Sort) []any {
	idAsc := Object{plan.FieldID: Object{"order": "asc"}}
	if s.Kind == plan.SortDistance && s.Origin != nil {
		return []any{
			Object{"_geo_distance": Object{
				plan.FieldLocation: Object{"lat": s.Origin.Lat, "lon": s.Origin.Lon},
				"order":            "asc",
				"unit":             "km",
				"distance_type":    "arc",
				"ignore_unmapped":  true,
			}},
			idAsc,
		}
	}
	return []any{Object{"_score": Object{"order": "desc"}}, idAsc}
}

// Mapping is the index body: listing field types.
func Mapping() Object {
	text := Object{"type": "text", "analyzer": "standard"}
	keyword := Object{"type": "keyword"}
	return Object{
		"mappings": Object{
			"dynamic": "strict",
			"properties": Object{
				plan.FieldID:          keyword,
				plan.FieldName:        text,
				plan.FieldDescription: text,
				plan.FieldCategories:  keyword,
				"address":             text,
				plan.FieldLocation:    Object{"type": "geo_point"},
				"phone":               keyword,
				"website":             keyword,
				"rating":              Object{"type": "double"},
			},
		},
	}
}

// SearchResponse is the subset of a _search response the indexes read.
type SearchResponse struct {
	Hits struct {
		Total struct {
			Value int `json:"value"`
		} `json:"total"`
		Hits []Hit `json:"hits"`
	} `json:"hits"`
}

// Hit is one _search hit.
type Hit struct {
	ID     string            `json:"_id"`
	Score  *float64          `json:"_score"`
	Source json.RawMessage   `json:"_source"`
	Sort   []json.RawMessage `json:"sort"`
}

// Decode converts _search hits into a raw page. For distance plans the first
// sort value is the distance in km; missing locations sort as Infinity and get none.
func Decode(resp *SearchResponse, p plan.Plan) (result.RawPage, error) {
	hits := make([]result.Hit, 0, len(resp.Hits.Hits))
	for _, h := range resp.Hits.Hits {
		var doc dto.Document
		if err := json.Unmarshal(h.Source, &doc); err != nil {
			return result.RawPage{}, fmt.Errorf("decode hit %s: %w", h.ID, err)
		}
		hit := result.Hit{Listing: doc.ToListing()}
		if h.Score != nil {
			hit.Score = *h.Score
		}
		if p.Sort.Kind == plan.SortDistance && len(h.Sort) > 0 {
			hit.DistanceKm = distanceValue(h.Sort[0])
		}
		hits = append(hits, hit)
	}
	return result.RawPage{Hits: hits, Total: resp.Hits.Total.Value}, nil
}

func distanceValue(raw json.RawMessage) *float64 {
	var d float64
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil
	}
	return &d
}
