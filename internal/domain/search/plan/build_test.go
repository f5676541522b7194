package plan

import (
	"testing"

	"github.com/kailas-cloud/bizdex/internal/domain/geo"
	"github.com/kailas-cloud/bizdex/internal/domain/search/request"
)

func ptr[T any](v T) *T { return &v }

func mustRequest(
	t *testing.T, text string, center *geo.Point, radius *float64, page, size int, byDistance bool,
) request.Request {
	t.Helper()
	r, err := request.New(text, center, radius, page, size, byDistance)
	if err != nil {
		t.Fatalf("request.New: %v", err)
	}
	return r
}

func TestBuild_Unconstrained(t *testing.T) {
	p := Build(mustRequest(t, "", nil, nil, 0, 10, false))

	if !p.MatchAll() {
		t.Fatalf("expected match-all plan, got %+v", p)
	}
	if p.Text != nil || p.Geo != nil {
		t.Error("absent clauses must be nil")
	}
	if p.Sort.Kind != SortRelevance || p.Sort.Origin != nil {
		t.Errorf("Sort = %+v, want relevance", p.Sort)
	}
}

func TestBuild_TextOnly(t *testing.T) {
	p := Build(mustRequest(t, "coffee", nil, nil, 0, 10, false))

	if p.Text == nil {
		t.Fatal("expected text clause")
	}
	if p.Text.Query != "coffee" {
		t.Errorf("Query = %q", p.Text.Query)
	}
	if len(p.Text.Fields) != 3 {
		t.Fatalf("Fields = %v", p.Text.Fields)
	}
	want := []TextField{{Name: FieldName}, {Name: FieldDescription}, {Name: FieldCategories, Keyword: true}}
	for i, f := range want {
		if p.Text.Fields[i] != f {
			t.Errorf("Fields[%d] = %+v, want %+v", i, p.Text.Fields[i], f)
		}
	}
	if p.Geo != nil {
		t.Error("unexpected geo clause")
	}
}

func TestBuild_FieldsAreNotShared(t *testing.T) {
	p := Build(mustRequest(t, "coffee", nil, nil, 0, 10, false))
	p.Text.Fields[0].Name = "mutated"

	if TextFields[0].Name != FieldName {
		t.Fatal("plan must not alias the package field list")
	}
}

func TestBuild_GeoOnly(t *testing.T) {
	center := &geo.Point{Lat: 12.97, Lon: 77.62}
	p := Build(mustRequest(t, "", center, ptr(5.0), 0, 10, false))

	if p.Text != nil {
		t.Error("geo-only plan must not carry a text clause")
	}
	if p.Geo == nil {
		t.Fatal("expected geo clause")
	}
	if p.Geo.Center != *center || p.Geo.RadiusKm != 5 {
		t.Errorf("Geo = %+v", p.Geo)
	}
	if p.Sort.Kind != SortRelevance {
		t.Errorf("Sort = %v, want relevance without sortByDistance", p.Sort.Kind)
	}
}

func TestBuild_TextAndGeoWithDistanceSort(t *testing.T) {
	center := &geo.Point{Lat: 12.97, Lon: 77.62}
	p := Build(mustRequest(t, "restaurant", center, ptr(3.0), 0, 10, true))

	if p.Text == nil || p.Geo == nil {
		t.Fatalf("text and geo must both be kept, got %+v", p)
	}
	if p.Sort.Kind != SortDistance {
		t.Fatalf("Sort = %v, want distance", p.Sort.Kind)
	}
	if p.Sort.Origin == nil || *p.Sort.Origin != *center {
		t.Errorf("Origin = %v, want %v", p.Sort.Origin, center)
	}
}

// The legacy implementation ordered "distance" searches by relevance score.
// Distance sorting must carry a real origin instead.
func TestBuild_DistanceSortIsNotScoreSort(t *testing.T) {
	p := Build(mustRequest(t, "cafe", &geo.Point{Lat: 1, Lon: 1}, ptr(10.0), 0, 10, true))

	if p.Sort.Kind == SortRelevance {
		t.Fatal("sortByDistance must not fall back to score ordering")
	}
}

func TestBuild_PartialGeoIgnored(t *testing.T) {
	tests := []struct {
		name   string
		center *geo.Point
		radius *float64
	}{
		{"radius without center", nil, ptr(5.0)},
		{"center without radius", &geo.Point{Lat: 12.97, Lon: 77.62}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withText := Build(mustRequest(t, "coffee", tt.center, tt.radius, 0, 10, false))
			if withText.Geo != nil {
				t.Error("partial geo must not produce a geo clause")
			}
			if withText.Text == nil {
				t.Error("text clause must survive")
			}

			bare := Build(mustRequest(t, "", tt.center, tt.radius, 0, 10, false))
			if !bare.MatchAll() {
				t.Error("partial geo without text must degrade to match-all")
			}
		})
	}
}

func TestBuild_DistanceSortNeedsCenter(t *testing.T) {
	p := Build(mustRequest(t, "", nil, ptr(5.0), 0, 10, true))
	if p.Sort.Kind != SortRelevance {
		t.Errorf("without a center the sort must stay relevance, got %v", p.Sort.Kind)
	}

	centered := Build(mustRequest(t, "", &geo.Point{Lat: 12.97, Lon: 77.62}, nil, 0, 10, true))
	if centered.Sort.Kind != SortDistance {
		t.Errorf("a center alone is enough to sort by distance, got %v", centered.Sort.Kind)
	}
	if centered.Geo != nil {
		t.Error("a center alone must not filter")
	}
}

func TestBuild_Pagination(t *testing.T) {
	p := Build(mustRequest(t, "", nil, nil, 3, 7, false))
	if p.Page != 3 || p.Size != 7 {
		t.Errorf("Page=%d Size=%d", p.Page, p.Size)
	}
	if p.Offset() != 21 {
		t.Errorf("Offset() = %d, want 21", p.Offset())
	}
}

func TestBuild_Deterministic(t *testing.T) {
	r := mustRequest(t, "coffee", &geo.Point{Lat: 12.97, Lon: 77.62}, ptr(5.0), 1, 2, true)
	a, b := Build(r), Build(r)

	if a.Text.Query != b.Text.Query || len(a.Text.Fields) != len(b.Text.Fields) {
		t.Error("text clauses differ")
	}
	if *a.Geo != *b.Geo || a.Sort.Kind != b.Sort.Kind || *a.Sort.Origin != *b.Sort.Origin {
		t.Error("plans differ for identical requests")
	}
}

func TestSortKind_String(t *testing.T) {
	if SortRelevance.String() != "relevance" || SortDistance.String() != "distance" {
		t.Error("unexpected sort names")
	}
}
