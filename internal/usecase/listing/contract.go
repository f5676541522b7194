package listing

import (
	"context"

	domlisting "github.com/kailas-cloud/bizdex/internal/domain/listing"
	"github.com/kailas-cloud/bizdex/internal/domain/search/plan"
	"github.com/kailas-cloud/bizdex/internal/domain/search/result"
)

// Index is the document search backend.
//
// Execute returns at most plan.Size hits at plan.Offset(), ordered per plan.Sort,
// and the full match count. Get returns domain.ErrNotFound for unknown ids.
// Any other error means the backend failed.
type Index interface {
	Execute(ctx context.Context, p plan.Plan) (result.RawPage, error)
	Save(ctx context.Context, l *domlisting.Listing) error
	Get(ctx context.Context, id string) (domlisting.Listing, error)
	Count(ctx context.Context) (int, error)
	Ping(ctx context.Context) error
}
