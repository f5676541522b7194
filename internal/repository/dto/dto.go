// Package dto holds the listing document shape shared by the document-store indexes
// (Elasticsearch, OpenSearch, bleve).
package dto

import (
	"github.com/kailas-cloud/bizdex/internal/domain/geo"
	domlisting "github.com/kailas-cloud/bizdex/internal/domain/listing"
)

// Document is a listing as stored in a document index.
type Document struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Categories  []string  `json:"categories"`
	Address     string    `json:"address,omitempty"`
	Location    *GeoPoint `json:"location,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	Website     string    `json:"website,omitempty"`
	Rating      *float64  `json:"rating,omitempty"`
}

// GeoPoint is the {lat, lon} object form of a geo_point.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// FromListing converts a domain listing into its stored form.
func FromListing(l *domlisting.Listing) Document {
	d := Document{
		ID:          l.ID(),
		Name:        l.Name(),
		Description: l.Description(),
		Categories:  l.Categories(),
		Address:     l.Address(),
		Phone:       l.Phone(),
		Website:     l.Website(),
		Rating:      l.Rating(),
	}
	if d.Categories == nil {
		d.Categories = []string{}
	}
	if loc := l.Location(); loc != nil {
		d.Location = &GeoPoint{Lat: loc.Lat, Lon: loc.Lon}
	}
	return d
}

// ToListing rebuilds the domain listing. Stored documents were validated on write.
func (d *Document) ToListing() domlisting.Listing {
	draft := domlisting.Draft{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Categories:  d.Categories,
		Address:     d.Address,
		Phone:       d.Phone,
		Website:     d.Website,
		Rating:      d.Rating,
	}
	if d.Location != nil {
		draft.Location = &geo.Point{Lat: d.Location.Lat, Lon: d.Location.Lon}
	}
	return domlisting.Reconstruct(draft)
}
