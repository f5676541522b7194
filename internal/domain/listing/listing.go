package listing

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/kailas-cloud/bizdex/internal/domain"
	"github.com/kailas-cloud/bizdex/internal/domain/geo"
)

var (
	idRegex     = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	reservedIDs = map[string]bool{"search": true}
)

// Field limits.
const (
	MaxIDLength          = 256
	MaxNameLength        = 512
	MaxDescriptionLength = 16384
	MaxCategories        = 32
	MaxCategoryLength    = 128
	MinRating            = 0.0
	MaxRating            = 5.0
)

// Draft is unvalidated listing input.
type Draft struct {
	ID          string
	Name        string
	Description string
	Categories  []string
	Address     string
	Location    *geo.Point
	Phone       string
	Website     string
	Rating      *float64
}

// Listing is a business listing (immutable value object).
type Listing struct {
	id          string
	name        string
	description string
	categories  []string
	address     string
	location    *geo.Point
	phone       string
	website     string
	rating      *float64
}

// New validates and normalizes a Draft.
// ID: ^[a-zA-Z0-9_-]+$, 1-256 chars, not reserved. Name is required.
// Categories are trimmed, blanks dropped and duplicates removed keeping first occurrence.
func New(d Draft) (Listing, error) {
	if err := validateID(d.ID); err != nil {
		return Listing{}, err
	}

	name := strings.TrimSpace(d.Name)
	if name == "" {
		return Listing{}, fmt.Errorf("name is required: %w", domain.ErrInvalidRequest)
	}
	if len(name) > MaxNameLength {
		return Listing{}, fmt.Errorf("name too long (max %d): %w", MaxNameLength, domain.ErrInvalidRequest)
	}
	if len(d.Description) > MaxDescriptionLength {
		return Listing{}, fmt.Errorf(
			"description too long (max %d bytes): %w", MaxDescriptionLength, domain.ErrInvalidRequest,
		)
	}

	categories, err := normalizeCategories(d.Categories)
	if err != nil {
		return Listing{}, err
	}

	var location *geo.Point
	if d.Location != nil {
		p, err := geo.NewPoint(d.Location.Lat, d.Location.Lon)
		if err != nil {
			return Listing{}, fmt.Errorf("location: %w: %w", domain.ErrInvalidRequest, err)
		}
		location = &p
	}

	var rating *float64
	if d.Rating != nil {
		r := *d.Rating
		if math.IsNaN(r) || r < MinRating || r > MaxRating {
			return Listing{}, fmt.Errorf(
				"rating must be between %.1f and %.1f: %w", MinRating, MaxRating, domain.ErrInvalidRequest,
			)
		}
		rating = &r
	}

	return Listing{
		id:          d.ID,
		name:        name,
		description: strings.TrimSpace(d.Description),
		categories:  categories,
		address:     strings.TrimSpace(d.Address),
		location:    location,
		phone:       strings.TrimSpace(d.Phone),
		website:     strings.TrimSpace(d.Website),
		rating:      rating,
	}, nil
}

// Reconstruct creates a Listing without validation (storage hydration).
func Reconstruct(d Draft) Listing {
	return Listing{
		id:          d.ID,
		name:        d.Name,
		description: d.Description,
		categories:  d.Categories,
		address:     d.Address,
		location:    d.Location,
		phone:       d.Phone,
		website:     d.Website,
		rating:      d.Rating,
	}
}

// ValidateID checks an identifier against the listing id rules.
func ValidateID(id string) error { return validateID(id) }

func validateID(id string) error {
	if id == "" {
		return fmt.Errorf("listing ID is required: %w", domain.ErrInvalidRequest)
	}
	if len(id) > MaxIDLength {
		return fmt.Errorf("listing ID too long (max %d): %w", MaxIDLength, domain.ErrInvalidRequest)
	}
	if !idRegex.MatchString(id) {
		return fmt.Errorf(
			"listing ID must be alphanumeric with underscores and hyphens: %w", domain.ErrInvalidRequest,
		)
	}
	if reservedIDs[id] {
		return fmt.Errorf("listing ID %q is reserved: %w", id, domain.ErrInvalidRequest)
	}
	return nil
}

func normalizeCategories(in []string) ([]string, error) {
	if len(in) == 0 {
		return nil, nil
	}
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, c := range in {
		c = strings.TrimSpace(c)
		if c == "" || seen[c] {
			continue
		}
		if len(c) > MaxCategoryLength {
			return nil, fmt.Errorf(
				"category %q too long (max %d): %w", c, MaxCategoryLength, domain.ErrInvalidRequest,
			)
		}
		seen[c] = true
		out = append(out, c)
	}
	if len(out) > MaxCategories {
		return nil, fmt.Errorf("too many categories (max %d): %w", MaxCategories, domain.ErrInvalidRequest)
	}
	return out, nil
}

// ID returns the listing identifier.
func (l *Listing) ID() string { return l.id }

// Name returns the business name.
func (l *Listing) Name() string { return l.name }

// Description returns the free-text description.
func (l *Listing) Description() string { return l.description }

// Categories returns the category tags in their original order.
func (l *Listing) Categories() []string { return l.categories }

// Address returns the postal address.
func (l *Listing) Address() string { return l.address }

// Location returns the coordinate, nil when the listing has none.
func (l *Listing) Location() *geo.Point { return l.location }

// Phone returns the contact phone.
func (l *Listing) Phone() string { return l.phone }

// Website returns the website URL.
func (l *Listing) Website() string { return l.website }

// Rating returns the rating, nil when unrated.
func (l *Listing) Rating() *float64 { return l.rating }

// Draft returns the listing fields as a Draft, for storage encoding.
func (l *Listing) Draft() Draft {
	return Draft{
		ID:          l.id,
		Name:        l.name,
		Description: l.description,
		Categories:  l.categories,
		Address:     l.address,
		Location:    l.location,
		Phone:       l.phone,
		Website:     l.website,
		Rating:      l.rating,
	}
}
