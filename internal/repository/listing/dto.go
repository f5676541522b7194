package listing

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kailas-cloud/bizdex/internal/domain/geo"
	domlisting "github.com/kailas-cloud/bizdex/internal/domain/listing"
)

// has_location tag values. Distance sorting splits hits on this tag so that
// listings without a location can follow the located ones.
const (
	locatedTag   = "1"
	unlocatedTag = "0"
)

// jsonDoc is the RedisJSON document stored per listing.
// Location is "lon,lat" so the GEO field can index it; it is omitted when unknown.
type jsonDoc struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Categories  []string `json:"categories"`
	Address     string   `json:"address,omitempty"`
	Location    string   `json:"location,omitempty"`
	HasLocation string   `json:"has_location"`
	Phone       string   `json:"phone,omitempty"`
	Website     string   `json:"website,omitempty"`
	Rating      *float64 `json:"rating,omitempty"`
}

func buildJSONDoc(l *domlisting.Listing) jsonDoc {
	d := jsonDoc{
		ID:          l.ID(),
		Name:        l.Name(),
		Description: l.Description(),
		Categories:  l.Categories(),
		Address:     l.Address(),
		HasLocation: unlocatedTag,
		Phone:       l.Phone(),
		Website:     l.Website(),
		Rating:      l.Rating(),
	}
	if d.Categories == nil {
		d.Categories = []string{}
	}
	if loc := l.Location(); loc != nil {
		d.Location = loc.String()
		d.HasLocation = locatedTag
	}
	return d
}

func (d *jsonDoc) toListing() (domlisting.Listing, error) {
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
	if d.Location != "" {
		p, err := parseLonLat(d.Location)
		if err != nil {
			return domlisting.Listing{}, fmt.Errorf("listing %s: %w", d.ID, err)
		}
		draft.Location = &p
	}
	return domlisting.Reconstruct(draft), nil
}

func parseLonLat(s string) (geo.Point, error) {
	lonStr, latStr, ok := strings.Cut(s, ",")
	if !ok {
		return geo.Point{}, fmt.Errorf("malformed location %q", s)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(lonStr), 64)
	if err != nil {
		return geo.Point{}, fmt.Errorf("malformed longitude %q: %w", lonStr, err)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil {
		return geo.Point{}, fmt.Errorf("malformed latitude %q: %w", latStr, err)
	}
	return geo.Point{Lat: lat, Lon: lon}, nil
}
