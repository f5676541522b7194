package seed

import (
	"context"

	domlisting "github.com/kailas-cloud/bizdex/internal/domain/listing"
)

// Index is the subset of the listing index the seeder writes to.
type Index interface {
	Save(ctx context.Context, l *domlisting.Listing) error
	Count(ctx context.Context) (int, error)
}
