package listing

import (
	"github.com/google/uuid"

	"github.com/kailas-cloud/bizdex/internal/domain/geo"
)

// sampleNamespace scopes deterministic sample ids so reseeding overwrites instead of duplicating.
var sampleNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://bizdex.example.com/samples"))

// SampleID returns the deterministic id used for a sample listing name.
func SampleID(name string) string {
	return uuid.NewSHA1(sampleNamespace, []byte(name)).String()
}

// Samples returns the bundled demo dataset: four businesses in Bengaluru.
func Samples() []Draft {
	rating := func(r float64) *float64 { return &r }
	point := func(lon, lat float64) *geo.Point { return &geo.Point{Lat: lat, Lon: lon} }

	drafts := []Draft{
		{
			Name:        "Sunrise Cafe",
			Description: "Cozy coffee & brunch spot",
			Categories:  []string{"cafe", "breakfast", "coffee"},
			Address:     "MG Road, Bengaluru",
			Location:    point(77.612, 12.975),
			Phone:       "+91-9876543210",
			Website:     "https://sunrisecafe.example.com",
			Rating:      rating(4.3),
		},
		{
			Name:        "TechFix Solutions",
			Description: "Laptop & phone repairs",
			Categories:  []string{"electronics", "repair"},
			Address:     "Koramangala, Bengaluru",
			Location:    point(77.628, 12.935),
			Phone:       "+91-9900011111",
			Website:     "https://techfix.example.com",
			Rating:      rating(4.6),
		},
		{
			Name:        "Spice Route Restaurant",
			Description: "Authentic Indian cuisine",
			Categories:  []string{"restaurant", "indian"},
			Address:     "Indiranagar, Bengaluru",
			Location:    point(77.640, 12.971),
			Phone:       "+91-9988776655",
			Website:     "https://spiceroute.example.com",
			Rating:      rating(4.5),
		},
		{
			Name:        "GreenLeaf Grocers",
			Description: "Organic produce & daily needs",
			Categories:  []string{"grocery", "organic"},
			Address:     "HSR Layout, Bengaluru",
			Location:    point(77.651, 12.912),
			Phone:       "+91-9123456780",
			Website:     "https://greenleaf.example.com",
			Rating:      rating(4.1),
		},
	}
	for i := range drafts {
		drafts[i].ID = SampleID(drafts[i].Name)
	}
	return drafts
}
