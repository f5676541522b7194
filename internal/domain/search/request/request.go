package request

import (
	"fmt"
	"math"
	"strings"

	"github.com/kailas-cloud/bizdex/internal/domain"
	"github.com/kailas-cloud/bizdex/internal/domain/geo"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed search query length.
	MaxQueryLength = 4096
	DefaultSize    = 10
	MaxSize        = 100
)

// Request is a validated listing search.
//
// A radius without a center, or a center without a radius, is kept but
// yields no geo filter. A center alone still serves as the distance-sort origin.
type Request struct {
	text           string
	center         *geo.Point
	radiusKm       *float64
	page           int
	size           int
	sortByDistance bool
}

// New validates and normalizes search parameters.
// page >= 0, 1 <= size <= MaxSize, radius > 0 when present, center within WGS84 bounds.
func New(
	text string,
	center *geo.Point,
	radiusKm *float64,
	page, size int,
	sortByDistance bool,
) (Request, error) {
	text = strings.TrimSpace(text)
	if len(text) > MaxQueryLength {
		return Request{}, fmt.Errorf("query too long (max %d chars): %w", MaxQueryLength, domain.ErrInvalidRequest)
	}
	if page < 0 {
		return Request{}, fmt.Errorf("page must be >= 0, got %d: %w", page, domain.ErrInvalidRequest)
	}
	if size < 1 || size > MaxSize {
		return Request{}, fmt.Errorf("size must be between 1 and %d, got %d: %w", MaxSize, size, domain.ErrInvalidRequest)
	}
	// offset must stay addressable by every backend
	if page > math.MaxInt32/size {
		return Request{}, fmt.Errorf("page %d is out of range: %w", page, domain.ErrInvalidRequest)
	}

	var c *geo.Point
	if center != nil {
		p, err := geo.NewPoint(center.Lat, center.Lon)
		if err != nil {
			return Request{}, fmt.Errorf("center: %w: %w", domain.ErrInvalidRequest, err)
		}
		c = &p
	}

	var r *float64
	if radiusKm != nil {
		v := *radiusKm
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			return Request{}, fmt.Errorf("radius_km must be a positive number, got %v: %w", v, domain.ErrInvalidRequest)
		}
		r = &v
	}

	return Request{
		text:           text,
		center:         c,
		radiusKm:       r,
		page:           page,
		size:           size,
		sortByDistance: sortByDistance,
	}, nil
}

// Text returns the trimmed free-text query; empty means no text constraint.
func (r *Request) Text() string { return r.text }

// Center returns the reference coordinate (nil when absent).
func (r *Request) Center() *geo.Point { return r.center }

// RadiusKm returns the search radius in kilometers (nil when absent).
func (r *Request) RadiusKm() *float64 { return r.radiusKm }

// Page returns the zero-based page index.
func (r *Request) Page() int { return r.page }

// Size returns the page size.
func (r *Request) Size() int { return r.size }

// SortByDistance reports whether the caller asked for nearest-first ordering.
func (r *Request) SortByDistance() bool { return r.sortByDistance }

// HasGeoFilter reports whether both center and radius are present.
func (r *Request) HasGeoFilter() bool { return r.center != nil && r.radiusKm != nil }
