package domain

import "errors"

// KeyPrefix is the default namespace for keys owned by bizdex in shared stores.
const KeyPrefix = "bizdex:"

var (
	// ErrNotFound signals a missing listing.
	ErrNotFound = errors.New("listing not found")
	// ErrAlreadyExists signals a listing id that is already taken.
	ErrAlreadyExists = errors.New("listing already exists")
	// ErrInvalidRequest signals malformed listing input or search parameters.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrBackendUnavailable signals that the search index failed or timed out.
	// It is never converted into an empty result.
	ErrBackendUnavailable = errors.New("search backend unavailable")
)
