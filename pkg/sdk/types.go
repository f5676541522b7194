package bizdex

// Location is a WGS84 coordinate.
type Location struct {
	Lat float64
	Lon float64
}

// Listing is a business listing. An empty ID on Create asks the service to assign one.
type Listing struct {
	ID          string
	Name        string
	Description string
	Categories  []string
	Address     string
	Location    *Location
	Phone       string
	Website     string
	Rating      *float64
}

// Page is one page of search results.
type Page struct {
	Items      []Listing
	TotalHits  int
	Page       int
	Size       int
	TotalPages int
}

// HasNext reports whether a later page holds more hits.
func (p Page) HasNext() bool { return (p.Page+1)*p.Size < p.TotalHits }
