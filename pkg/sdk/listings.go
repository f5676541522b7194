package bizdex

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/bizdex/internal/domain/geo"
	domlisting "github.com/kailas-cloud/bizdex/internal/domain/listing"
	"github.com/kailas-cloud/bizdex/internal/domain/search/request"
	"github.com/kailas-cloud/bizdex/internal/domain/search/result"
)

// ListingService creates, fetches and searches listings.
type ListingService struct {
	svc listingUseCase
	obs *observer
}

// Create validates and stores a listing. Returns ErrAlreadyExists when the id is taken.
func (s *ListingService) Create(ctx context.Context, l Listing) (out Listing, err error) {
	start := time.Now()
	defer func() { s.obs.observe("listing.create", start, err) }()

	created, err := s.svc.Create(ctx, toDraft(&l))
	if err != nil {
		return Listing{}, fmt.Errorf("create listing: %w", err)
	}
	return fromInternalListing(&created), nil
}

// Get returns the listing with the given id or ErrNotFound.
func (s *ListingService) Get(ctx context.Context, id string) (out Listing, err error) {
	start := time.Now()
	defer func() { s.obs.observe("listing.get", start, err) }()

	l, err := s.svc.Get(ctx, id)
	if err != nil {
		return Listing{}, fmt.Errorf("get listing: %w", err)
	}
	return fromInternalListing(&l), nil
}

// Search starts a fluent search. Without any constraint it pages through all listings.
func (s *ListingService) Search() *SearchBuilder {
	return &SearchBuilder{svc: s, size: request.DefaultSize}
}

// SearchBuilder is a fluent builder for listing searches.
type SearchBuilder struct {
	svc *ListingService

	text           string
	center         *geo.Point
	radiusKm       *float64
	page, size     int
	sortByDistance bool
}

// Text sets the free-text query matched against name, description and categories.
func (b *SearchBuilder) Text(q string) *SearchBuilder {
	b.text = q
	return b
}

// Near sets the reference point for radius filtering and distance sorting.
func (b *SearchBuilder) Near(lat, lon float64) *SearchBuilder {
	b.center = &geo.Point{Lat: lat, Lon: lon}
	return b
}

// Km restricts results to listings within radius of the Near point.
func (b *SearchBuilder) Km(radius float64) *SearchBuilder {
	b.radiusKm = &radius
	return b
}

// SortByDistance orders results nearest first; listings without a location come last.
func (b *SearchBuilder) SortByDistance() *SearchBuilder {
	b.sortByDistance = true
	return b
}

// Page selects the zero-based page.
func (b *SearchBuilder) Page(n int) *SearchBuilder {
	b.page = n
	return b
}

// Size sets the page size (1-100, default 10).
func (b *SearchBuilder) Size(n int) *SearchBuilder {
	b.size = n
	return b
}

// Do validates the parameters and runs the search.
func (b *SearchBuilder) Do(ctx context.Context) (out Page, err error) {
	start := time.Now()
	defer func() { b.svc.obs.observe("listing.search", start, err) }()

	req, err := request.New(b.text, b.center, b.radiusKm, b.page, b.size, b.sortByDistance)
	if err != nil {
		return Page{}, fmt.Errorf("search: %w", err)
	}
	p, err := b.svc.svc.Search(ctx, req)
	if err != nil {
		return Page{}, fmt.Errorf("search: %w", err)
	}
	return fromInternalPage(&p), nil
}

func toDraft(l *Listing) domlisting.Draft {
	d := domlisting.Draft{
		ID:          l.ID,
		Name:        l.Name,
		Description: l.Description,
		Categories:  l.Categories,
		Address:     l.Address,
		Phone:       l.Phone,
		Website:     l.Website,
		Rating:      l.Rating,
	}
	if l.Location != nil {
		d.Location = &geo.Point{Lat: l.Location.Lat, Lon: l.Location.Lon}
	}
	return d
}

func fromInternalListing(l *domlisting.Listing) Listing {
	out := Listing{
		ID:          l.ID(),
		Name:        l.Name(),
		Description: l.Description(),
		Categories:  append([]string(nil), l.Categories()...),
		Address:     l.Address(),
		Phone:       l.Phone(),
		Website:     l.Website(),
	}
	if loc := l.Location(); loc != nil {
		out.Location = &Location{Lat: loc.Lat, Lon: loc.Lon}
	}
	if r := l.Rating(); r != nil {
		v := *r
		out.Rating = &v
	}
	return out
}

func fromInternalPage(p *result.Page) Page {
	items := p.Items()
	out := make([]Listing, len(items))
	for i := range items {
		out[i] = fromInternalListing(&items[i])
	}
	return Page{
		Items:      out,
		TotalHits:  p.TotalHits(),
		Page:       p.Page(),
		Size:       p.Size(),
		TotalPages: p.TotalPages(),
	}
}
