package bleve

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/blevesearch/bleve/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/bizdex/internal/domain"
	"github.com/kailas-cloud/bizdex/internal/domain/geo"
	domlisting "github.com/kailas-cloud/bizdex/internal/domain/listing"
	"github.com/kailas-cloud/bizdex/internal/domain/search/plan"
)

func TestSaveGet(t *testing.T) {
	repo, err := Open("")
	require.NoError(t, err)
	defer repo.Close()
	ctx := context.Background()

	rating := 4.3
	l, err := domlisting.New(domlisting.Draft{
		ID:         "sunrise",
		Name:       "Sunrise Cafe",
		Categories: []string{"cafe", "coffee"},
		Location:   &geo.Point{Lat: 12.975, Lon: 77.612},
		Rating:     &rating,
	})
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, &l))

	got, err := repo.Get(ctx, "sunrise")
	require.NoError(t, err)
	assert.Equal(t, l.Draft(), got.Draft())

	_, err = repo.Get(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSave_ReplacesExisting(t *testing.T) {
	repo, err := Open("")
	require.NoError(t, err)
	defer repo.Close()
	ctx := context.Background()

	for _, name := range []string{"Old Name", "New Name"} {
		l, err := domlisting.New(domlisting.Draft{ID: "shop", Name: name})
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, &l))
	}

	got, err := repo.Get(ctx, "shop")
	require.NoError(t, err)
	assert.Equal(t, "New Name", got.Name())
	n, _ := repo.Count(ctx)
	assert.Equal(t, 1, n)
}

func TestExecute_UnlocatedSortLast(t *testing.T) {
	repo, err := Open("")
	require.NoError(t, err)
	defer repo.Close()
	ctx := context.Background()

	drafts := []domlisting.Draft{
		{ID: "a-online", Name: "Online Only"},
		{ID: "b-near", Name: "Near", Location: &geo.Point{Lat: 12.971, Lon: 77.621}},
		{ID: "c-far", Name: "Far", Location: &geo.Point{Lat: 13.1, Lon: 77.7}},
	}
	for _, d := range drafts {
		l, err := domlisting.New(d)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, &l))
	}

	origin := geo.Point{Lat: 12.97, Lon: 77.62}
	page, err := repo.Execute(ctx, plan.Plan{Sort: plan.Sort{Kind: plan.SortDistance, Origin: &origin}, Size: 10})
	require.NoError(t, err)
	require.Len(t, page.Hits, 3)

	assert.Equal(t, "b-near", page.Hits[0].Listing.ID())
	assert.Equal(t, "c-far", page.Hits[1].Listing.ID())
	assert.Equal(t, "a-online", page.Hits[2].Listing.ID())
	require.NotNil(t, page.Hits[0].DistanceKm)
	assert.Less(t, *page.Hits[0].DistanceKm, *page.Hits[1].DistanceKm)
	assert.Nil(t, page.Hits[2].DistanceKm)
}

func TestOpen_OnDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "listings.bleve")
	ctx := context.Background()

	repo, err := Open(path)
	require.NoError(t, err)
	l, err := domlisting.New(domlisting.Draft{ID: "persisted", Name: "Persisted"})
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, &l))
	require.NoError(t, repo.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()
	got, err := reopened.Get(ctx, "persisted")
	require.NoError(t, err)
	assert.Equal(t, "Persisted", got.Name())
}

func TestOpen_BrokenPathKeepsCause(t *testing.T) {
	path := filepath.Join(t.TempDir(), "listings.bleve")
	require.NoError(t, os.Mkdir(path, 0o755))

	_, err := Open(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, bleve.ErrorIndexMetaMissing)
	assert.NotErrorIs(t, err, bleve.ErrorIndexPathExists)
}

func TestPing_ClosedIndex(t *testing.T) {
	repo, err := Open("")
	require.NoError(t, err)
	require.NoError(t, repo.Ping(context.Background()))
	require.NoError(t, repo.Close())
	assert.Error(t, repo.Ping(context.Background()))
}
