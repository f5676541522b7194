package bleve

import (
	"context"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/bizdex/internal/domain/geo"
	domlisting "github.com/kailas-cloud/bizdex/internal/domain/listing"
	"github.com/kailas-cloud/bizdex/internal/domain/search/request"
	"github.com/kailas-cloud/bizdex/internal/domain/search/result"
	uclisting "github.com/kailas-cloud/bizdex/internal/usecase/listing"
)

var center = geo.Point{Lat: 12.97, Lon: 77.62}

// seededService returns the listing service over an in-memory index holding the Bengaluru samples.
func seededService(t *testing.T) *uclisting.Service {
	t.Helper()
	repo, err := Open("")
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	for _, d := range domlisting.Samples() {
		l, err := domlisting.New(d)
		require.NoError(t, err)
		require.NoError(t, repo.Save(context.Background(), &l))
	}
	return uclisting.New(repo, 0)
}

func runSearch(t *testing.T, svc *uclisting.Service, text string, c *geo.Point, radius *float64, page, size int, byDistance bool) result.Page {
	t.Helper()
	req, err := request.New(text, c, radius, page, size, byDistance)
	require.NoError(t, err)
	p, err := svc.Search(context.Background(), req)
	require.NoError(t, err)
	return p
}

func names(p result.Page) []string {
	out := make([]string, 0, len(p.Items()))
	for _, l := range p.Items() {
		out = append(out, l.Name())
	}
	return out
}

func radius(km float64) *float64 { return &km }

func TestScenario_TextMatch(t *testing.T) {
	svc := seededService(t)

	p := runSearch(t, svc, "coffee", nil, nil, 0, 10, false)
	assert.Equal(t, []string{"Sunrise Cafe"}, names(p))
	assert.Equal(t, 1, p.TotalHits())
}

func TestScenario_CategoryKeyword(t *testing.T) {
	svc := seededService(t)

	p := runSearch(t, svc, "grocery", nil, nil, 0, 10, false)
	assert.Equal(t, []string{"GreenLeaf Grocers"}, names(p))
}

func TestScenario_Radius5km(t *testing.T) {
	svc := seededService(t)

	p := runSearch(t, svc, "", &center, radius(5), 0, 10, false)
	got := names(p)
	assert.Contains(t, got, "Sunrise Cafe")
	assert.Contains(t, got, "Spice Route Restaurant")
	assert.NotContains(t, got, "GreenLeaf Grocers")
	// TechFix lies about 3.99 km from the center
	assert.Contains(t, got, "TechFix Solutions")
	assert.Equal(t, 3, p.TotalHits())
}

func TestScenario_Radius3km(t *testing.T) {
	svc := seededService(t)

	p := runSearch(t, svc, "", &center, radius(3), 0, 10, false)
	assert.ElementsMatch(t, []string{"Sunrise Cafe", "Spice Route Restaurant"}, names(p))
	assert.Equal(t, 2, p.TotalHits())
}

func TestScenario_PaginationInIDOrder(t *testing.T) {
	svc := seededService(t)

	samples := domlisting.Samples()
	ids := make([]string, 0, len(samples))
	for _, d := range samples {
		ids = append(ids, d.ID)
	}
	slices.Sort(ids)

	p := runSearch(t, svc, "", nil, nil, 1, 2, false)
	require.Len(t, p.Items(), 2)
	assert.Equal(t, ids[2], p.Items()[0].ID())
	assert.Equal(t, ids[3], p.Items()[1].ID())
	assert.Equal(t, 4, p.TotalHits())
	assert.Equal(t, 2, p.TotalPages())
	assert.False(t, p.HasNext())
}

func TestScenario_DistanceOrdering(t *testing.T) {
	svc := seededService(t)

	p := runSearch(t, svc, "", &center, nil, 0, 10, true)
	assert.Equal(t, []string{
		"Sunrise Cafe",
		"Spice Route Restaurant",
		"TechFix Solutions",
		"GreenLeaf Grocers",
	}, names(p))
}

func TestScenario_DistanceOrderingWithinRadius(t *testing.T) {
	svc := seededService(t)

	p := runSearch(t, svc, "", &center, radius(5), 0, 2, true)
	assert.Equal(t, []string{"Sunrise Cafe", "Spice Route Restaurant"}, names(p))
	assert.Equal(t, 3, p.TotalHits())
}

func TestScenario_Idempotent(t *testing.T) {
	svc := seededService(t)

	first := runSearch(t, svc, "", &center, radius(5), 0, 10, true)
	second := runSearch(t, svc, "", &center, radius(5), 0, 10, true)
	assert.Equal(t, names(first), names(second))
	assert.Equal(t, first.TotalHits(), second.TotalHits())
}

func TestScenario_PageBeyondEnd(t *testing.T) {
	svc := seededService(t)

	p := runSearch(t, svc, "", nil, nil, 5, 10, false)
	assert.Empty(t, p.Items())
	assert.NotNil(t, p.Items())
	assert.Equal(t, 4, p.TotalHits())
}

func TestScenario_TextWithinRadiusByDistance(t *testing.T) {
	svc := seededService(t)

	p := runSearch(t, svc, "Coffee", &center, radius(5), 0, 10, true)
	assert.Equal(t, []string{"Sunrise Cafe"}, names(p))
	assert.Equal(t, 1, p.TotalHits())
}

func TestScenario_RadiusWithoutCenterIsTextOnly(t *testing.T) {
	svc := seededService(t)

	p := runSearch(t, svc, "grocery", nil, radius(1), 0, 10, false)
	assert.Equal(t, []string{"GreenLeaf Grocers"}, names(p))
}
