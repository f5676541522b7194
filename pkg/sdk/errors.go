package bizdex

import "github.com/kailas-cloud/bizdex/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound           = domain.ErrNotFound
	ErrAlreadyExists      = domain.ErrAlreadyExists
	ErrInvalidRequest     = domain.ErrInvalidRequest
	ErrBackendUnavailable = domain.ErrBackendUnavailable
)
