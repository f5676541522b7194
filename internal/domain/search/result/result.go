package result

import "github.com/kailas-cloud/bizdex/internal/domain/listing"

// Hit is a single ranked listing as returned by an index.
type Hit struct {
	Listing listing.Listing
	// Score is the backend relevance score; comparable only within one response.
	Score float64
	// DistanceKm is set by indexes that computed it for distance sorting.
	DistanceKm *float64
}

// RawPage is one page of hits plus the full match count.
type RawPage struct {
	Hits  []Hit
	Total int
}

// Page is the public paginated search result. Scores are not exposed.
type Page struct {
	items     []listing.Listing
	totalHits int
	page      int
	size      int
}

// Assemble packages an ordered hit page. Order is preserved; a short last page is fine.
func Assemble(hits []Hit, totalHits, page, size int) Page {
	items := make([]listing.Listing, 0, len(hits))
	for i := range hits {
		items = append(items, hits[i].Listing)
	}
	if totalHits < len(items) {
		totalHits = len(items)
	}
	return Page{items: items, totalHits: totalHits, page: page, size: size}
}

// Items returns the listings on this page (never nil).
func (p *Page) Items() []listing.Listing { return p.items }

// TotalHits returns the match count across all pages.
func (p *Page) TotalHits() int { return p.totalHits }

// Page returns the zero-based page index echoed from the request.
func (p *Page) Page() int { return p.page }

// Size returns the page size echoed from the request.
func (p *Page) Size() int { return p.size }

// TotalPages returns the number of pages needed for TotalHits.
func (p *Page) TotalPages() int {
	if p.size <= 0 {
		return 0
	}
	return (p.totalHits + p.size - 1) / p.size
}

// HasNext reports whether a later page holds more hits.
func (p *Page) HasNext() bool { return (p.page+1)*p.size < p.totalHits }
