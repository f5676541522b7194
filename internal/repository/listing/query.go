package listing

import (
	"github.com/kailas-cloud/bizdex/internal/db"
	"github.com/kailas-cloud/bizdex/internal/domain/search/plan"
)

// planClauses translates plan clauses into FT query clauses. An empty slice matches all.
func planClauses(p plan.Plan) []string {
	var clauses []string
	if p.Text != nil {
		if q := textQuery(p.Text); q != "" {
			clauses = append(clauses, q)
		}
	}
	if p.Geo != nil {
		clauses = append(clauses, db.GeoRadiusFilter(plan.FieldLocation, p.Geo.Center.Lon, p.Geo.Center.Lat, p.Geo.RadiusKm))
	}
	return clauses
}

// textQuery ORs the analyzed fields (any term) with an exact keyword match on the whole text.
func textQuery(t *plan.TextClause) string {
	terms := db.Terms(t.Query)
	branches := make([]string, 0, len(t.Fields))
	for _, f := range t.Fields {
		if f.Keyword {
			branches = append(branches, db.TagFilter(f.Name, t.Query))
			continue
		}
		if len(terms) > 0 {
			branches = append(branches, db.TextAnyFilter(f.Name, terms))
		}
	}
	if len(branches) == 0 {
		return ""
	}
	return db.Or(branches...)
}

func withLocationTag(clauses []string, tag string) string {
	all := make([]string, 0, len(clauses)+1)
	all = append(all, clauses...)
	all = append(all, db.TagFilter(fieldHasLocation, tag))
	return db.And(all...)
}
