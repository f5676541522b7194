package listing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kailas-cloud/bizdex/internal/domain"
	domlisting "github.com/kailas-cloud/bizdex/internal/domain/listing"
	"github.com/kailas-cloud/bizdex/internal/domain/search/plan"
	"github.com/kailas-cloud/bizdex/internal/domain/search/request"
	"github.com/kailas-cloud/bizdex/internal/domain/search/result"
)

// Service creates, reads and searches business listings.
type Service struct {
	index         Index
	searchTimeout time.Duration
	newID         func() string
}

// New creates a listing service. searchTimeout <= 0 leaves the caller deadline as the only limit.
func New(index Index, searchTimeout time.Duration) *Service {
	return &Service{index: index, searchTimeout: searchTimeout, newID: uuid.NewString}
}

// Create validates the draft, assigns a UUID when it has no id, and stores it.
// Returns domain.ErrAlreadyExists when the id is taken.
func (s *Service) Create(ctx context.Context, d domlisting.Draft) (domlisting.Listing, error) {
	if d.ID == "" {
		d.ID = s.newID()
	}

	l, err := domlisting.New(d)
	if err != nil {
		return domlisting.Listing{}, fmt.Errorf("validate listing: %w", err)
	}

	_, err = s.index.Get(ctx, l.ID())
	switch {
	case err == nil:
		return domlisting.Listing{}, fmt.Errorf("listing %q: %w", l.ID(), domain.ErrAlreadyExists)
	case !errors.Is(err, domain.ErrNotFound):
		return domlisting.Listing{}, backendError("check listing", err)
	}

	if err := s.index.Save(ctx, &l); err != nil {
		return domlisting.Listing{}, backendError("save listing", err)
	}
	return l, nil
}

// Get returns the listing with the given id or domain.ErrNotFound.
func (s *Service) Get(ctx context.Context, id string) (domlisting.Listing, error) {
	if err := domlisting.ValidateID(id); err != nil {
		// an id that could never have been stored
		return domlisting.Listing{}, fmt.Errorf("listing %q: %w", id, domain.ErrNotFound)
	}

	l, err := s.index.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domlisting.Listing{}, fmt.Errorf("listing %q: %w", id, domain.ErrNotFound)
		}
		return domlisting.Listing{}, backendError("get listing", err)
	}
	return l, nil
}

// Search composes the query plan, runs it on the index and assembles the page.
// Backend failures surface as domain.ErrBackendUnavailable, never as an empty page.
func (s *Service) Search(ctx context.Context, req request.Request) (result.Page, error) {
	p := plan.Build(req)

	if s.searchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.searchTimeout)
		defer cancel()
	}

	raw, err := s.index.Execute(ctx, p)
	if err != nil {
		return result.Page{}, backendError("execute search", err)
	}

	hits := raw.Hits
	if len(hits) > p.Size {
		hits = hits[:p.Size]
	}
	return result.Assemble(hits, raw.Total, p.Page, p.Size), nil
}

// backendError keeps both the sentinel and the cause (e.g. context.DeadlineExceeded) matchable.
func backendError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", domain.ErrBackendUnavailable, op, err)
}
