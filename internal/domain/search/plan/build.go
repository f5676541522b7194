package plan

import "github.com/kailas-cloud/bizdex/internal/domain/search/request"

// Build composes the query plan for r. It is pure and total.
func Build(r request.Request) Plan {
	p := Plan{
		Page: r.Page(),
		Size: r.Size(),
		Sort: Sort{Kind: SortRelevance},
	}

	if q := r.Text(); q != "" {
		fields := make([]TextField, len(TextFields))
		copy(fields, TextFields)
		p.Text = &TextClause{Query: q, Fields: fields}
	}

	if r.HasGeoFilter() {
		p.Geo = &GeoClause{Center: *r.Center(), RadiusKm: *r.RadiusKm()}
	}

	if r.SortByDistance() && r.Center() != nil {
		origin := *r.Center()
		p.Sort = Sort{Kind: SortDistance, Origin: &origin}
	}

	return p
}
