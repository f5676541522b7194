// Package plan turns a validated search request into a backend-agnostic query plan.
package plan

import "github.com/kailas-cloud/bizdex/internal/domain/geo"

// Listing document fields addressed by plans.
const (
	FieldID          = "id"
	FieldName        = "name"
	FieldDescription = "description"
	FieldCategories  = "categories"
	FieldLocation    = "location"
)

// TextField is one branch of the text disjunction.
type TextField struct {
	Name string
	// Keyword fields match the whole query as an exact term instead of analyzed tokens.
	Keyword bool
}

// TextFields are the fields a text clause searches, in evaluation order.
var TextFields = []TextField{
	{Name: FieldName},
	{Name: FieldDescription},
	{Name: FieldCategories, Keyword: true},
}

// TextClause matches listings whose name, description or categories match Query.
type TextClause struct {
	Query  string
	Fields []TextField
}

// GeoClause admits listings whose location lies within RadiusKm of Center.
type GeoClause struct {
	Center   geo.Point
	RadiusKm float64
}

// SortKind selects the result ordering.
type SortKind int

const (
	// SortRelevance orders by score descending, then id ascending.
	SortRelevance SortKind = iota
	// SortDistance orders by distance from Sort.Origin ascending, then id ascending.
	SortDistance
)

// String returns the sort name used in logs and metrics.
func (k SortKind) String() string {
	if k == SortDistance {
		return "distance"
	}
	return "relevance"
}

// Sort is the ordering of a plan. Origin is set only for SortDistance.
type Sort struct {
	Kind   SortKind
	Origin *geo.Point
}

// Plan is a composed listing query. A nil clause is absent, never empty;
// a plan with no clauses matches every listing.
type Plan struct {
	Text *TextClause
	Geo  *GeoClause
	Sort Sort
	Page int
	Size int
}

// Offset returns the index of the first hit on the page.
func (p Plan) Offset() int { return p.Page * p.Size }

// MatchAll reports whether the plan has no constraints.
func (p Plan) MatchAll() bool { return p.Text == nil && p.Geo == nil }
