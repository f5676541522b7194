package health

import "context"

// Index is the part of the listing index the health probe touches.
type Index interface {
	Ping(ctx context.Context) error
	Count(ctx context.Context) (int, error)
}
