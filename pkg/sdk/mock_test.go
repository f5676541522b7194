package bizdex

import (
	"context"

	domlisting "github.com/kailas-cloud/bizdex/internal/domain/listing"
	"github.com/kailas-cloud/bizdex/internal/domain/search/request"
	"github.com/kailas-cloud/bizdex/internal/domain/search/result"
	healthuc "github.com/kailas-cloud/bizdex/internal/usecase/health"
)

// --- listingUseCase mock ---

type mockListingUC struct {
	createFn func(ctx context.Context, d domlisting.Draft) (domlisting.Listing, error)
	getFn    func(ctx context.Context, id string) (domlisting.Listing, error)
	searchFn func(ctx context.Context, req request.Request) (result.Page, error)
}

func (m *mockListingUC) Create(ctx context.Context, d domlisting.Draft) (domlisting.Listing, error) {
	return m.createFn(ctx, d)
}

func (m *mockListingUC) Get(ctx context.Context, id string) (domlisting.Listing, error) {
	return m.getFn(ctx, id)
}

func (m *mockListingUC) Search(ctx context.Context, req request.Request) (result.Page, error) {
	return m.searchFn(ctx, req)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(_ context.Context) healthuc.Report { return m.report }
